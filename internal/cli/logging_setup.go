package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/insightdeck/internal/config"
	"github.com/rshade/insightdeck/internal/logging"
)

// interactiveAnnotation marks commands that own the terminal, whose logs must
// go to a file.
const interactiveAnnotation = "insightdeck/interactive"

// setupLogging configures logging from cfg and the --debug flag, stores the
// logger and a trace ID in the command context and returns the log target.
func setupLogging(cmd *cobra.Command, cfg *config.Config) logging.LogPathResult {
	loggingCfg := cfg.Logging

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
	}

	logCfg := loggingCfg.ToLoggingConfig()
	if _, interactive := cmd.Annotations[interactiveAnnotation]; interactive {
		logCfg = loggingCfg.InteractiveLoggingConfig(config.DefaultLogFile())
	} else if debug {
		logCfg.Output = logging.OutputStderr
		logCfg.File = ""
	}

	if logCfg.File != "" {
		if err := config.EnsureLogDir(logCfg.File); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewLoggerWithPath(logCfg)
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile && debug {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = result.Logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")

	return result
}

// cleanupLogging closes the log file handle, if any.
func cleanupLogging(_ *cobra.Command, logResult *logging.LogPathResult) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
