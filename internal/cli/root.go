package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/insightdeck/internal/config"
	"github.com/rshade/insightdeck/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of f when it is a terminal, otherwise
// fallback.
func terminalWidth(f *os.File, fallback int) int {
	if !isTerminal(f) {
		return fallback
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

type configKey struct{}

// contextWithConfig stores the effective configuration for subcommands.
func contextWithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFromContext returns the configuration loaded by the root command, or
// defaults when none was stored.
func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok && cfg != nil {
		return cfg
	}
	return config.New()
}

// NewRootCmd creates the root Cobra command for the insightdeck CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for
// testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "insightdeck",
		Short:         "Render and browse insight card decks",
		Long:          "insightdeck: render structured insight cards and their tabbed detail documents in the terminal",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, lookupEnv)
			if err != nil {
				return err
			}
			cmd.SetContext(contextWithConfig(cmd.Context(), cfg))

			result := setupLogging(cmd, cfg)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "path to the configuration file (default ~/.insightdeck/config.yaml)")
	cmd.AddCommand(
		NewRenderCmd(), NewBrowseCmd(), NewComponentsCmd(), NewModulesCmd(), newConfigCmd(),
	)

	return cmd
}

// loadConfig builds the effective configuration: file, environment, then the
// --debug flag.
func loadConfig(cmd *cobra.Command, lookupEnv func(string) (string, bool)) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if v, ok := lookupEnv(config.EnvConfigFile); ok {
			path = v
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	cfg.ApplyEnv(lookupEnv)
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

const rootCmdExample = `  # Render a deck of cards
  insightdeck render ./deck

  # Render the second tab of one card's detail document as HTML
  insightdeck render ./deck --card revenue --tab 1 --format html

  # Browse a deck interactively, reloading on change
  insightdeck browse ./deck --watch

  # List registered card components and chart modules
  insightdeck components
  insightdeck modules

  # Initialize configuration
  insightdeck config init`

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}
