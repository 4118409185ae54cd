package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/insightdeck/internal/config"
)

// NewConfigInitCmd creates the config init command, which writes the default
// configuration.
func NewConfigInitCmd() *cobra.Command {
	var (
		force bool
		path  string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Example: `  # Create ~/.insightdeck/config.yaml
  insightdeck config init

  # Create a configuration elsewhere, overwriting an existing file
  insightdeck config init --path ./insightdeck.yaml --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = config.DefaultPath()
			}
			if path == "" {
				return fmt.Errorf("%w: cannot determine home directory, use --path", config.ErrInvalidConfig)
			}
			if err := config.New().Save(path, force); err != nil {
				return err
			}
			cmd.Printf("Configuration initialized at %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().StringVar(&path, "path", "", "where to write the configuration (default ~/.insightdeck/config.yaml)")

	return cmd
}

// NewConfigValidateCmd creates the config validate command. Loading already
// validated the configuration, so reaching RunE means it is valid.
func NewConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFromContext(cmd.Context())
			cmd.Printf("Configuration is valid (max depth %d, format %s, module API %s)\n",
				cfg.Render.MaxDepth, cfg.Render.Format, cfg.Modules.APIConstraint)
			return nil
		},
	}
}
