// Package source loads card decks and detail documents. The Dir source reads a
// deck directory laid out as
//
//	<root>/cards.json | cards.yaml          the card deck
//	<root>/details/<card-id>.json | .yaml   one detail document per card
//
// and can watch it for changes.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rshade/insightdeck/internal/content"
)

// Deck layout names.
const (
	DeckBase   = "cards"
	DetailsDir = "details"
)

// Source errors.
var (
	ErrUnknownDocument = errors.New("unknown document")
	ErrNoDeck          = errors.New("no card deck found")
)

// extensions are tried in order.
var extensions = []string{".json", ".yaml", ".yml"}

// Fetcher fetches the detail document of a card. A nil document with a nil
// error means the card has no detail.
type Fetcher interface {
	GetCardDetail(ctx context.Context, cardID string) (*content.DetailContent, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, cardID string) (*content.DetailContent, error)

// GetCardDetail calls f.
func (f FetcherFunc) GetCardDetail(ctx context.Context, cardID string) (*content.DetailContent, error) {
	return f(ctx, cardID)
}

// Dir is a deck directory.
type Dir struct {
	root   string
	logger zerolog.Logger
}

// Option configures a Dir.
type Option func(*Dir)

// WithLogger sets the source logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dir) {
		d.logger = l
	}
}

// NewDir returns a source rooted at root.
func NewDir(root string, opts ...Option) *Dir {
	d := &Dir{root: filepath.Clean(root), logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Root returns the deck directory.
func (d *Dir) Root() string {
	return d.root
}

// Cards reads the card deck.
func (d *Dir) Cards(ctx context.Context) ([]content.CardInstance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, data, err := readFirst(filepath.Join(d.root, DeckBase))
	if err != nil {
		return nil, fmt.Errorf("reading card deck: %w", err)
	}
	if path == "" {
		return nil, fmt.Errorf("%w in %s", ErrNoDeck, d.root)
	}
	format, err := content.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	cards, err := content.DecodeCards(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d.logger.Debug().Ctx(ctx).Str("operation", "cards").Str("path", path).Int("count", len(cards)).Msg("loaded card deck")
	return cards, nil
}

// GetCardDetail reads the detail document of cardID. A card with no detail
// file, or whose file holds null, has no detail.
func (d *Dir) GetCardDetail(ctx context.Context, cardID string) (*content.DetailContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validID(cardID) {
		return nil, fmt.Errorf("%w: card id %q", ErrUnknownDocument, cardID)
	}
	path, data, err := readFirst(filepath.Join(d.root, DetailsDir, cardID))
	if err != nil {
		return nil, fmt.Errorf("reading detail for %s: %w", cardID, err)
	}
	if path == "" {
		d.logger.Debug().Ctx(ctx).Str("operation", "detail").Str("card_id", cardID).Msg("no detail document")
		return nil, nil
	}
	format, err := content.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	doc, err := content.DecodeDetail(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// validID rejects ids that could address files outside the details directory.
func validID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && filepath.Base(id) == id
}

// readFirst reads base with the first extension that exists. A missing file
// returns an empty path and no error.
func readFirst(base string) (string, []byte, error) {
	for _, ext := range extensions {
		path := base + ext
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", nil, err
		}
		return path, data, nil
	}
	return "", nil, nil
}
