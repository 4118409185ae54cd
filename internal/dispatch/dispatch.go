// Package dispatch resolves cards to registered components and renders them.
//
// Resolution tries, in order, the card's componentName, its type (or
// "default" when it has none), and finally the literal "default" key. A card
// resolved by componentName that carries a nested data payload receives only
// that payload; every other resolution receives the whole card.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/rshade/insightdeck/internal/boundary"
	"github.com/rshade/insightdeck/internal/content"
	"github.com/rshade/insightdeck/internal/registry"
	"github.com/rshade/insightdeck/internal/render"
)

// DefaultKey is the registry key of the catch-all component.
const DefaultKey = "default"

// Transition is the entry transition attached to every rendered component.
const Transition = "fade-in"

// ErrRegistrationMiss is returned when no lookup step finds a component.
var ErrRegistrationMiss = errors.New("no component registered for card")

// Lookup is the registry surface the dispatcher needs.
type Lookup interface {
	Get(key string) (registry.Factory, bool)
}

// Resolution is a successful lookup.
type Resolution struct {
	Key             string
	Factory         registry.Factory
	ByComponentName bool
	Payload         map[string]any
}

// Dispatcher maps cards to components.
type Dispatcher struct {
	components Lookup
	logger     zerolog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// New returns a Dispatcher over components.
func New(components Lookup, opts ...Option) *Dispatcher {
	d := &Dispatcher{components: components, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Resolve finds the component for card and the payload to pass it.
func (d *Dispatcher) Resolve(card content.CardInstance) (Resolution, error) {
	if card.ComponentName != "" {
		if f, ok := d.components.Get(card.ComponentName); ok {
			payload := card.Raw()
			if card.HasData() {
				payload = card.Data
			}
			return Resolution{Key: card.ComponentName, Factory: f, ByComponentName: true, Payload: payload}, nil
		}
	}

	typeKey := card.Type
	if typeKey == "" {
		typeKey = DefaultKey
	}
	for _, key := range []string{typeKey, DefaultKey} {
		if f, ok := d.components.Get(key); ok {
			return Resolution{Key: key, Factory: f, Payload: card.Raw()}, nil
		}
	}

	return Resolution{}, fmt.Errorf("%w: id=%q componentName=%q type=%q",
		ErrRegistrationMiss, card.ID, card.ComponentName, card.Type)
}

// Render resolves and renders card inside b. A registration miss yields an
// outcome with a nil node and the miss in Reported.
func (d *Dispatcher) Render(ctx context.Context, card content.CardInstance, b *boundary.Boundary) render.Outcome {
	res, err := d.Resolve(card)
	if err != nil {
		d.logger.Debug().Ctx(ctx).Str("operation", "dispatch").Str("card_id", card.ID).Err(err).Msg("registration miss")
		return render.Outcome{Reported: []error{err}}
	}

	return b.Render(func() render.Outcome {
		n, err := res.Factory(ctx, res.Payload)
		if err != nil {
			return render.Fail(fmt.Errorf("rendering component %s for card %s: %w", res.Key, card.ID, err))
		}
		wrapper := render.El(render.KindComponent, n).
			With(render.AttrComponent, res.Key).
			With(render.AttrTransition, Transition)
		return render.Ok(wrapper)
	})
}

// RenderDeck renders cards in order. Cards nothing is registered for fall
// back to Summary.
func (d *Dispatcher) RenderDeck(ctx context.Context, cards []content.CardInstance, set *boundary.Set) render.Outcome {
	out := render.Ok(render.Fragment())
	for i, card := range cards {
		child := d.Render(ctx, card, set.For(DeckPath(i)))
		if child.Node == nil {
			child.Node = Summary(card)
		}
		out.Node.Append(child.Node)
		out.Absorb(child)
	}
	return out
}

// DeckPath is the boundary key of the i-th card in a deck.
func DeckPath(i int) string {
	return fmt.Sprintf("deck/%d", i)
}

// Summary is the generic card rendering: its title and the scalar fields of
// its data payload, or of the card itself when it has none.
func Summary(card content.CardInstance) *render.Node {
	n := render.El(render.KindCard, render.El(render.KindTitle, render.Text(card.Title())))
	fields := card.Data
	if fields == nil {
		fields = card.Raw()
	}

	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		switch v.(type) {
		case map[string]any, []any, nil:
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.Append((&render.Node{Kind: render.KindField, Text: fmt.Sprint(fields[k])}).With(render.AttrLabel, k))
	}
	return n
}
