package config

import (
	"github.com/rshade/insightdeck/internal/logging"
)

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
	Caller bool   `yaml:"caller"`
}

// ToLoggingConfig converts LoggingConfig to logging.Config. A non-empty File
// selects file output; otherwise logs go to stderr.
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
		Caller: lc.Caller,
	}
}

// InteractiveLoggingConfig returns the logging configuration for the
// full-screen browser, which owns the terminal: output always goes to a file.
func (lc LoggingConfig) InteractiveLoggingConfig(defaultFile string) logging.Config {
	out := lc.ToLoggingConfig()
	if out.File == "" {
		out.File = defaultFile
	}
	out.Output = logging.OutputFile
	return out
}
