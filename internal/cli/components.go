package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rshade/insightdeck/internal/engine"
	"github.com/rshade/insightdeck/internal/logging"
	"github.com/rshade/insightdeck/internal/modules"
)

// NewComponentsCmd creates the components command, which lists the card
// component registry.
func NewComponentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "List registered card components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			eng, err := engine.New(configFromContext(ctx), nil, *logging.FromContext(ctx))
			if err != nil {
				return err
			}
			for _, key := range eng.Registry.Keys() {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
}

// NewModulesCmd creates the modules command, which loads every chart module
// and reports its state.
func NewModulesCmd() *cobra.Command {
	var noLoad bool

	cmd := &cobra.Command{
		Use:   "modules",
		Short: "Load chart modules and report their status",
		Long: `Loads every registered chart module, checks its API version against
modules.api_constraint and prints one line per module. Use --no-load to list
modules without loading them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			eng, err := engine.New(configFromContext(ctx), nil, *logging.FromContext(ctx))
			if err != nil {
				return err
			}

			var loadErr error
			if !noLoad {
				loadErr = eng.PreloadAll(ctx)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTATE\tLOAD TIME\tDETAIL")
			for _, st := range eng.Modules.Snapshot() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", st.Name, st.State, loadTime(st), statusDetail(st))
			}
			if err = w.Flush(); err != nil {
				return err
			}

			if loadErr != nil {
				return fmt.Errorf("loading chart modules: %w", loadErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noLoad, "no-load", false, "list modules without loading them")
	return cmd
}

func loadTime(st modules.Status) string {
	if st.State != modules.StateReady && st.State != modules.StateFailed {
		return "-"
	}
	if st.Took < time.Millisecond {
		return "<1ms"
	}
	return st.Took.Round(time.Millisecond).String()
}

func statusDetail(st modules.Status) string {
	switch {
	case st.Err != nil:
		return strings.ReplaceAll(st.Err.Error(), "\n", "; ")
	case !st.LoadedAt.IsZero():
		return "loaded " + humanize.Time(st.LoadedAt)
	default:
		return ""
	}
}
