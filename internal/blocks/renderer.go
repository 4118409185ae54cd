package blocks

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/insightdeck/internal/boundary"
	"github.com/rshade/insightdeck/internal/content"
	"github.com/rshade/insightdeck/internal/markdown"
	"github.com/rshade/insightdeck/internal/modules"
	"github.com/rshade/insightdeck/internal/render"
)

// DefaultMaxDepth is the default card nesting bound.
const DefaultMaxDepth = 8

// Inline messages.
const (
	TruncatedText   = "content truncated: nesting too deep"
	NotFoundPrefix  = "component not found: "
	LoadFailedText  = "component failed to load: "
	unknownListName = "untitled"
)

// ErrMalformedBlock is reported for a block of a known type whose fields could
// not be decoded.
var ErrMalformedBlock = errors.New("malformed block")

// MarkdownConverter turns markdown source into a render node.
type MarkdownConverter interface {
	Convert(src string) (*render.Node, error)
}

// ModuleResolver resolves chart modules by name without blocking.
type ModuleResolver interface {
	Resolve(ctx context.Context, name string) *modules.Future
}

// Renderer maps content blocks to render trees.
type Renderer struct {
	md       MarkdownConverter
	modules  ModuleResolver
	maxDepth int
	logger   zerolog.Logger
	printer  *message.Printer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMaxDepth sets the card nesting bound. Values below one are ignored.
func WithMaxDepth(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxDepth = n
		}
	}
}

// WithLogger sets the renderer logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// WithLanguage sets the locale used to format list values.
func WithLanguage(tag language.Tag) Option {
	return func(r *Renderer) {
		r.printer = message.NewPrinter(tag)
	}
}

// New returns a Renderer. A nil converter uses the default markdown converter.
func New(md MarkdownConverter, resolver ModuleResolver, opts ...Option) *Renderer {
	if md == nil {
		md = markdown.New()
	}
	r := &Renderer{
		md:       md,
		modules:  resolver,
		maxDepth: DefaultMaxDepth,
		logger:   zerolog.Nop(),
		printer:  message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxDepth returns the card nesting bound.
func (r *Renderer) MaxDepth() int {
	return r.maxDepth
}

// Render renders one block at depth inside the boundary that set holds for
// path. It never panics.
func (r *Renderer) Render(ctx context.Context, b content.Block, depth int, path string, set *boundary.Set) render.Outcome {
	return set.For(path).Render(func() render.Outcome {
		return r.renderBlock(ctx, b, depth, path, set)
	})
}

// RenderBlocks renders blocks in order as children of a fragment. Failures
// are isolated per block and collected in the outcome's Reported list.
func (r *Renderer) RenderBlocks(ctx context.Context, blocks []content.Block, depth int, path string, set *boundary.Set) render.Outcome {
	out := render.Ok(render.Fragment())
	for i, b := range blocks {
		child := r.Render(ctx, b, depth, ChildPath(path, i), set)
		out.Node.Append(child.Node)
		out.Absorb(child)
	}
	return out
}

// ChildPath returns the boundary key of the i-th child under parent.
func ChildPath(parent string, i int) string {
	if parent == "" {
		return strconv.Itoa(i)
	}
	return parent + "/" + strconv.Itoa(i)
}

// renderBlock switches over every Block implementation in package content.
func (r *Renderer) renderBlock(ctx context.Context, b content.Block, depth int, path string, set *boundary.Set) render.Outcome {
	switch v := b.(type) {
	case content.MarkdownBlock:
		return r.renderMarkdown(v)
	case content.ChartBlock:
		return r.renderChart(ctx, v)
	case content.ListBlock:
		return render.Ok(r.renderList(v))
	case content.ImageBlock:
		img := render.El(render.KindImage).With(render.AttrSrc, v.Src).With(render.AttrAlt, v.Alt)
		return render.Ok(markdown.Media(img, v.Caption))
	case content.VideoBlock:
		video := render.El(render.KindVideo).With(render.AttrSrc, v.Src)
		if v.Poster != "" {
			video.With(render.AttrPoster, v.Poster)
		}
		return render.Ok(markdown.Media(video, v.Caption))
	case content.CardBlock:
		return r.renderCard(ctx, v, depth, path, set)
	case content.UnknownBlock:
		r.logger.Debug().Ctx(ctx).Str("operation", "render").Str("path", path).
			Str("block_type", v.Kind).Msg("skipping unknown block type")
		return render.Ok(nil)
	case content.MalformedBlock:
		return render.Fail(fmt.Errorf("%w: %s: %w", ErrMalformedBlock, v.Kind, v.Err))
	case nil:
		return render.Ok(nil)
	default:
		return render.Fail(fmt.Errorf("no renderer for block %T", b))
	}
}

func (r *Renderer) renderMarkdown(b content.MarkdownBlock) render.Outcome {
	n, err := r.md.Convert(b.Content)
	if err != nil {
		return render.Fail(err)
	}
	return render.Ok(n)
}

func (r *Renderer) renderChart(ctx context.Context, b content.ChartBlock) render.Outcome {
	name := b.Component
	mod, err, ready := r.modules.Resolve(ctx, name).Result()
	if !ready {
		return render.Outcome{Node: chartFrame(b, render.Placeholder(name)), Pending: []string{name}}
	}
	if err != nil {
		if errors.Is(err, modules.ErrModuleNotFound) {
			r.logger.Debug().Ctx(ctx).Str("operation", "render").Str("module", name).Msg("chart module not registered")
			return render.Outcome{Node: render.Notice(NotFoundPrefix + name), Reported: []error{err}}
		}
		return render.Outcome{Node: render.Notice(LoadFailedText + name), Reported: []error{err}}
	}

	body, err := mod.Default(ctx, b.Props)
	if err != nil {
		return render.Fail(fmt.Errorf("rendering chart %s: %w", name, err))
	}
	return render.Ok(chartFrame(b, body))
}

func chartFrame(b content.ChartBlock, body *render.Node) *render.Node {
	n := render.El(render.KindChart)
	if b.Title != "" {
		n.Append(render.El(render.KindTitle, render.Text(b.Title)))
	}
	if b.Subtitle != "" {
		n.Append(render.El(render.KindSubtitle, render.Text(b.Subtitle)))
	}
	return n.Append(body).With(render.AttrModule, b.Component)
}

func (r *Renderer) renderCard(ctx context.Context, b content.CardBlock, depth int, path string, set *boundary.Set) render.Outcome {
	if depth >= r.maxDepth {
		r.logger.Debug().Ctx(ctx).Str("operation", "render").Str("path", path).
			Int("depth", depth).Msg("card nesting truncated")
		return render.Ok(&render.Node{Kind: render.KindTruncated, Text: TruncatedText})
	}

	card := render.El(render.KindCard)
	if b.Title != "" {
		card.Append(render.El(render.KindTitle, render.Text(b.Title)))
	}
	children := r.RenderBlocks(ctx, b.Content, depth+1, path, set)
	card.Append(children.Node.Children...)
	children.Node = card
	return children
}
