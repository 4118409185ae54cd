package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/rshade/insightdeck/internal/blocks"
	"github.com/rshade/insightdeck/internal/boundary"
	"github.com/rshade/insightdeck/internal/components"
	"github.com/rshade/insightdeck/internal/config"
	"github.com/rshade/insightdeck/internal/content"
	"github.com/rshade/insightdeck/internal/dispatch"
	"github.com/rshade/insightdeck/internal/logging"
	"github.com/rshade/insightdeck/internal/markdown"
	"github.com/rshade/insightdeck/internal/modules"
	"github.com/rshade/insightdeck/internal/registry"
	"github.com/rshade/insightdeck/internal/render"
	"github.com/rshade/insightdeck/internal/source"
	"github.com/rshade/insightdeck/internal/tabs"
)

// Inline messages for detail views.
const (
	FailedToLoadText = "failed to load details"
)

// ErrTabOutOfRange is returned when a requested tab does not exist.
var ErrTabOutOfRange = errors.New("tab index out of range")

// Engine is the assembled rendering pipeline.
type Engine struct {
	Registry   *registry.Registry
	Modules    *modules.Resolver
	Dispatcher *dispatch.Dispatcher
	Blocks     *blocks.Renderer

	fetcher source.Fetcher
	cfg     *config.Config
	logger  zerolog.Logger
}

// New builds an engine from cfg. fetcher supplies detail documents.
func New(cfg *config.Config, fetcher source.Fetcher, logger zerolog.Logger) (*Engine, error) {
	reg := registry.New()
	components.RegisterBuiltins(reg)

	res, err := modules.NewResolver(
		modules.WithLogger(logging.ComponentLogger(logger, "modules")),
		modules.WithAPIConstraint(cfg.Modules.APIConstraint),
	)
	if err != nil {
		return nil, fmt.Errorf("creating module resolver: %w", err)
	}
	components.RegisterCharts(res)

	return &Engine{
		Registry:   reg,
		Modules:    res,
		Dispatcher: dispatch.New(reg, dispatch.WithLogger(logging.ComponentLogger(logger, "dispatch"))),
		Blocks: blocks.New(markdown.New(), res,
			blocks.WithMaxDepth(cfg.Render.MaxDepth),
			blocks.WithLogger(logging.ComponentLogger(logger, "blocks")),
		),
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logging.ComponentLogger(logger, "engine"),
	}, nil
}

// RenderDeck renders cards in order, each inside its own boundary.
func (e *Engine) RenderDeck(ctx context.Context, cards []content.CardInstance) render.Outcome {
	out := e.Dispatcher.RenderDeck(ctx, cards, boundary.NewSet())
	e.logReported(ctx, "render_deck", out)
	return out
}

// Fetch fetches the detail document of card.
func (e *Engine) Fetch(ctx context.Context, cardID string) (*content.DetailContent, error) {
	doc, err := e.fetcher.GetCardDetail(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("fetching detail for card %s: %w", cardID, err)
	}
	return doc, nil
}

// Preload resolves the chart modules referenced by blocks, honouring the
// configured concurrency. Load failures are logged; the affected charts
// render their own notices.
func (e *Engine) Preload(ctx context.Context, bs []content.Block) {
	names := content.ChartComponents(bs)
	if len(names) == 0 {
		return
	}
	if err := e.Modules.Preload(ctx, names, e.cfg.Modules.Concurrency); err != nil {
		e.logger.Warn().
			Ctx(ctx).
			Str("operation", "preload").
			Strs("modules", names).
			Err(err).
			Msg("some chart modules failed to load")
	}
}

// PreloadAll resolves every registered chart module.
func (e *Engine) PreloadAll(ctx context.Context) error {
	return e.Modules.Preload(ctx, e.Modules.Names(), e.cfg.Modules.Concurrency)
}

// RenderDetail fetches and renders the detail view of card at the given tab.
// When the configuration asks for it, chart modules are preloaded so the
// output contains no loading placeholders.
func (e *Engine) RenderDetail(ctx context.Context, card content.CardInstance, tab int) (render.Outcome, error) {
	state, token := tabs.BeginFetch(tabs.State{}, card.ID)
	doc, err := e.Fetch(ctx, card.ID)
	if err != nil {
		state, _ = tabs.OnFetchFailed(state, token, err)
	} else {
		state, _ = tabs.OnFetchResolved(state, token, doc)
	}

	if tab != 0 && state.Status == tabs.StatusLoaded {
		var ok bool
		if state, ok = tabs.SelectTab(state, tab); !ok {
			return render.Outcome{}, fmt.Errorf("%w: %d of %d", ErrTabOutOfRange, tab, state.Doc.TabCount())
		}
	}

	if e.cfg.Modules.Preload {
		e.Preload(ctx, state.Blocks())
	}
	out := e.RenderView(ctx, card, state, boundary.NewSet())
	e.logReported(ctx, "render_detail", out)
	return out, nil
}

// RenderView renders the body of a detail view for state. set holds the
// view's boundaries; reuse it across re-renders of the same view.
func (e *Engine) RenderView(ctx context.Context, card content.CardInstance, state tabs.State, set *boundary.Set) render.Outcome {
	switch state.Status {
	case tabs.StatusFailed:
		return render.Outcome{Node: render.Notice(FailedToLoadText), Reported: []error{state.Err}}
	case tabs.StatusEmpty:
		return render.Ok(dispatch.Summary(card))
	case tabs.StatusLoaded:
		return e.Blocks.RenderBlocks(ctx, state.Blocks(), 0, ViewPath(state), set)
	default:
		return render.Ok(render.Placeholder(card.Title()))
	}
}

// ViewPath returns the boundary path under which the visible blocks of state
// render. Each tab of a tabbed document gets its own subtree, so a latched
// block in one tab never masks the block at the same index in another.
func ViewPath(state tabs.State) string {
	if !state.Doc.HasTabs() {
		return ""
	}
	return "tab/" + strconv.Itoa(state.ActiveTab)
}

func (e *Engine) logReported(ctx context.Context, operation string, out render.Outcome) {
	for _, err := range out.Reported {
		e.logger.Debug().
			Ctx(ctx).
			Str("operation", operation).
			Err(err).
			Msg("rendered with degraded content")
	}
}

// Resolve starts or joins the load of a chart module.
func (e *Engine) Resolve(ctx context.Context, name string) *modules.Future {
	return e.Modules.Resolve(ctx, name)
}
