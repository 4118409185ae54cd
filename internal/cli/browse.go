package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/insightdeck/internal/engine"
	"github.com/rshade/insightdeck/internal/logging"
	"github.com/rshade/insightdeck/internal/source"
	"github.com/rshade/insightdeck/internal/tui"
)

// NewBrowseCmd creates the browse command, which opens the interactive deck
// browser.
func NewBrowseCmd() *cobra.Command {
	var (
		watch bool
		style string
	)

	cmd := &cobra.Command{
		Use:   "browse [dir]",
		Short: "Browse a card deck interactively",
		Long: `Opens a full-screen browser over the deck in dir. Select a card and press
enter to open its detail document; tab and shift+tab switch tabs, esc returns
to the deck. With --watch the deck and open document reload when their files
change.

Logs are written to ~/.insightdeck/insightdeck.log while the browser runs.`,
		Example: `  # Browse the deck in ./deck and follow edits
  insightdeck browse ./deck --watch`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{interactiveAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, dir, err := deckConfig(ctx, args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("watch") {
				cfg.Source.Watch = watch
			}
			if cmd.Flags().Changed("style") {
				cfg.Render.Style = style
			}

			log := logging.FromContext(ctx)
			deck := source.NewDir(dir, source.WithLogger(logging.ComponentLogger(*log, "source")))
			eng, err := engine.New(cfg, deck, *log)
			if err != nil {
				return err
			}

			opts := tui.Options{Style: cfg.Render.Style}
			if cfg.Source.Watch {
				w, watchErr := deck.Watch(ctx, source.DefaultDebounce)
				if watchErr != nil {
					return watchErr
				}
				defer func() { _ = w.Close() }()
				opts.Changes = w.Changes()
			}

			logger.Info().
				Ctx(ctx).
				Str("operation", "browse").
				Str("dir", dir).
				Bool("watch", cfg.Source.Watch).
				Msg("starting browser")

			final, err := tea.NewProgram(tui.New(ctx, eng, deck, opts), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("running browser: %w", err)
			}
			if m, ok := final.(tui.Model); ok && m.Err() != nil {
				return fmt.Errorf("loading deck: %w", m.Err())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "reload the deck and open document when files change")
	cmd.Flags().StringVar(&style, "style", "", "glamour style for markdown (auto, dark, light, notty, ...)")

	return cmd
}
