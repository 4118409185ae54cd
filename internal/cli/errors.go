package cli

import "fmt"

// ExitCodeReported is the exit code of a strict render that reported
// problems inline.
const ExitCodeReported = 2

// ReportedExitError is returned by render --strict when the output contains
// inline problem reports. main uses ExitCode as the process exit code.
type ReportedExitError struct {
	ExitCode int
	Reported int
}

func (e *ReportedExitError) Error() string {
	return fmt.Sprintf("%d problem(s) reported while rendering", e.Reported)
}
