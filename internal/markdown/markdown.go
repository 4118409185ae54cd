// Package markdown turns author supplied markdown into render trees. Content is
// converted to HTML with goldmark, passed through the sanitizer, and the safe
// markup is then mapped onto render nodes.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/rshade/insightdeck/internal/render"
	"github.com/rshade/insightdeck/internal/sanitize"
)

// Link attributes applied to every inline link so it opens in a new context.
const (
	LinkTarget = "_blank"
	LinkRel    = "noopener noreferrer"
)

// Converter renders markdown blocks. It is safe for concurrent use.
type Converter struct {
	md       goldmark.Markdown
	sanitize func(string) string
}

// Option configures a Converter.
type Option func(*Converter)

// WithSanitizer replaces the HTML sanitizer.
func WithSanitizer(fn func(string) string) Option {
	return func(c *Converter) {
		c.sanitize = fn
	}
}

// New returns a Converter with GitHub flavoured markdown enabled. Raw HTML in
// the source is passed through to the sanitizer rather than escaped.
func New(opts ...Option) *Converter {
	c := &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldhtml.WithUnsafe()),
		),
		sanitize: sanitize.SanitizeHTML,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert renders src into a KindMarkdown node, or a KindRawMarkup node when the
// sanitized markup embeds an SVG graphic.
func (c *Converter) Convert(src string) (*render.Node, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	safe := c.sanitize(buf.String())
	if sanitize.ContainsSVG(safe) {
		return &render.Node{Kind: render.KindRawMarkup, Text: safe}, nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(safe), body)
	if err != nil {
		return nil, fmt.Errorf("parsing sanitized markup: %w", err)
	}

	root := render.El(render.KindMarkdown)
	for _, n := range nodes {
		root.Append(convertBlock(n)...)
	}
	return root, nil
}
