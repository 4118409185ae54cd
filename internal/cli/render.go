package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/insightdeck/internal/config"
	"github.com/rshade/insightdeck/internal/content"
	"github.com/rshade/insightdeck/internal/engine"
	"github.com/rshade/insightdeck/internal/logging"
	"github.com/rshade/insightdeck/internal/render"
	"github.com/rshade/insightdeck/internal/source"
)

// ErrCardNotFound is returned when --card names no card in the deck.
var ErrCardNotFound = errors.New("card not found in deck")

type renderFlags struct {
	card   string
	tab    int
	format string
	width  int
	style  string
	strict bool
}

// NewRenderCmd creates the render command, which prints a deck or one card's
// detail document.
func NewRenderCmd() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [dir]",
		Short: "Render a card deck or a card's detail document",
		Long: `Renders the card deck found in dir (cards.json or cards.yaml) or, with --card,
the detail document at details/<card>.json for one card.

Chart modules referenced by the document are loaded before printing unless
modules.preload is disabled, in which case loading placeholders are printed.`,
		Example: `  # Render the deck in the current directory
  insightdeck render

  # Render one card's detail document, second tab, as JSON
  insightdeck render ./deck --card revenue --tab 1 --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.card, "card", "", "render the detail document of this card ID")
	cmd.Flags().IntVar(&flags.tab, "tab", 0, "tab index of a tabbed detail document")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, html or json (default from config)")
	cmd.Flags().IntVar(&flags.width, "width", 0, "text output width (default: terminal width or config)")
	cmd.Flags().StringVar(&flags.style, "style", "", "glamour style for markdown (auto, dark, light, notty, ...)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false,
		fmt.Sprintf("exit with code %d when any block reports a problem inline", ExitCodeReported))

	return cmd
}

func runRender(cmd *cobra.Command, args []string, flags renderFlags) error {
	ctx := cmd.Context()
	cfg, dir, err := deckConfig(ctx, args)
	if err != nil {
		return err
	}
	applyRenderFlags(cmd, cfg, flags)
	if err = cfg.Validate(); err != nil {
		return err
	}

	log := logging.FromContext(ctx)
	deck := source.NewDir(dir, source.WithLogger(logging.ComponentLogger(*log, "source")))
	eng, err := engine.New(cfg, deck, *log)
	if err != nil {
		return err
	}

	cards, err := deck.Cards(ctx)
	if err != nil {
		return fmt.Errorf("loading deck: %w", err)
	}

	var out render.Outcome
	if flags.card == "" {
		out = eng.RenderDeck(ctx, cards)
	} else {
		card, ok := findCard(cards, flags.card)
		if !ok {
			return fmt.Errorf("%w: %s", ErrCardNotFound, flags.card)
		}
		if out, err = eng.RenderDetail(ctx, card, flags.tab); err != nil {
			return err
		}
	}

	logger.Debug().
		Ctx(ctx).
		Str("operation", "render").
		Str("format", cfg.Render.Format).
		Int("reported", len(out.Reported)).
		Strs("pending", out.Pending).
		Msg("rendered")

	if err = writeOutcome(cmd.OutOrStdout(), out, cfg); err != nil {
		return err
	}
	if flags.strict && len(out.Reported) > 0 {
		return &ReportedExitError{ExitCode: ExitCodeReported, Reported: len(out.Reported)}
	}
	return nil
}

// deckConfig resolves the deck directory from args and the configuration and
// applies the deck's overlay file, returning a copy of the configuration.
func deckConfig(ctx context.Context, args []string) (*config.Config, string, error) {
	base := *configFromContext(ctx)
	cfg := &base

	dir := cfg.Source.Dir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		dir = "."
	}
	if err := config.MergeDeckOverlay(cfg, dir); err != nil {
		return nil, "", fmt.Errorf("applying deck configuration: %w", err)
	}
	return cfg, dir, nil
}

// applyRenderFlags applies explicitly set flags over the configuration.
func applyRenderFlags(cmd *cobra.Command, cfg *config.Config, flags renderFlags) {
	if cmd.Flags().Changed("format") {
		cfg.Render.Format = flags.format
	}
	if cmd.Flags().Changed("style") {
		cfg.Render.Style = flags.style
	}
	switch {
	case cmd.Flags().Changed("width"):
		cfg.Render.Width = flags.width
	case cfg.Render.Format == config.FormatText:
		cfg.Render.Width = terminalWidth(os.Stdout, cfg.Render.Width)
	}
}

func findCard(cards []content.CardInstance, id string) (content.CardInstance, bool) {
	for _, c := range cards {
		if c.ID == id {
			return c, true
		}
	}
	return content.CardInstance{}, false
}

// writeOutcome prints out.Node in the configured format.
func writeOutcome(w io.Writer, out render.Outcome, cfg *config.Config) error {
	if out.Node == nil {
		if out.Err != nil {
			return fmt.Errorf("rendering: %w", out.Err)
		}
		return nil
	}

	switch cfg.Render.Format {
	case config.FormatHTML:
		if err := render.WriteHTML(w, out.Node); err != nil {
			return fmt.Errorf("writing html: %w", err)
		}
		_, err := fmt.Fprintln(w)
		return err
	case config.FormatJSON:
		return render.WriteJSON(w, out.Node)
	default:
		printer := render.NewTextPrinter(cfg.Render.Width, cfg.Render.Style)
		_, err := fmt.Fprintln(w, printer.Print(out.Node))
		return err
	}
}
