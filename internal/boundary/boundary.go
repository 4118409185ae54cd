// Package boundary isolates render failures so one broken node degrades to a
// local fallback instead of aborting its siblings.
package boundary

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/rshade/insightdeck/internal/render"
)

// FallbackText is shown in place of content whose render failed.
const FallbackText = "content unavailable"

// ErrRenderPanic wraps a panic recovered from a render attempt.
var ErrRenderPanic = errors.New("render panicked")

// State is the latch state of a Boundary.
type State int

const (
	// StateNormal renders the wrapped content on every attempt.
	StateNormal State = iota
	// StateErrored shows the fallback without re-attempting.
	StateErrored
)

func (s State) String() string {
	if s == StateErrored {
		return "errored"
	}
	return "normal"
}

// PanicError carries a recovered panic value and the stack it came from.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v: %v", ErrRenderPanic, e.Value)
}

// Unwrap lets errors.Is match ErrRenderPanic.
func (e *PanicError) Unwrap() error {
	return ErrRenderPanic
}

// Boundary wraps render attempts. The first failure latches it into
// StateErrored; from then on it returns the fallback without calling the
// wrapped function again. Create a new Boundary to start over.
type Boundary struct {
	mu    sync.Mutex
	state State
	err   error
}

// New returns a Boundary in StateNormal.
func New() *Boundary {
	return &Boundary{}
}

// Fallback returns the fallback chip node.
func Fallback() *render.Node {
	return &render.Node{Kind: render.KindFallback, Text: FallbackText}
}

// Render runs fn unless the boundary has already latched. An outcome with an
// error, or a panic, latches the boundary and yields the fallback chip with
// the error attached. Render never panics.
func (b *Boundary) Render(fn func() render.Outcome) render.Outcome {
	b.mu.Lock()
	if b.state == StateErrored {
		err := b.err
		b.mu.Unlock()
		return render.Outcome{Node: Fallback(), Err: err}
	}
	b.mu.Unlock()

	out := safeCall(fn)
	if out.Err == nil {
		return out
	}

	b.mu.Lock()
	if b.state == StateNormal {
		b.state = StateErrored
		b.err = out.Err
	}
	err := b.err
	b.mu.Unlock()

	return render.Outcome{Node: Fallback(), Err: err, Reported: out.Reported}
}

func safeCall(fn func() render.Outcome) (out render.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = render.Outcome{Err: &PanicError{Value: r, Stack: debug.Stack()}}
		}
	}()
	return fn()
}

// State returns the current latch state.
func (b *Boundary) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Err returns the error that latched the boundary, if any.
func (b *Boundary) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Set holds one Boundary per key, typically a node path within a view. A
// fresh Set starts every boundary in StateNormal.
type Set struct {
	mu sync.Mutex
	m  map[string]*Boundary
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{m: make(map[string]*Boundary)}
}

// For returns the boundary for key, creating it on first use.
func (s *Set) For(key string) *Boundary {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.m[key]
	if !ok {
		b = New()
		s.m[key] = b
	}
	return b
}

// Errored returns the keys of latched boundaries in sorted order.
func (s *Set) Errored() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k, b := range s.m {
		if b.State() == StateErrored {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
