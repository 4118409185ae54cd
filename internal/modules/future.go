package modules

import (
	"context"
)

// Future is the pending or settled result of resolving a module.
type Future struct {
	name string
	done chan struct{}
	mod  Module
	err  error
}

func newFuture(name string) *Future {
	return &Future{name: name, done: make(chan struct{})}
}

func settledFuture(name string, mod Module, err error) *Future {
	f := newFuture(name)
	f.settle(mod, err)
	return f
}

// settle must be called exactly once.
func (f *Future) settle(mod Module, err error) {
	f.mod = mod
	f.err = err
	close(f.done)
}

// Name returns the module name this future resolves.
func (f *Future) Name() string {
	return f.name
}

// Done is closed once the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result returns the settled value without blocking. ok is false while the
// load is still in flight.
func (f *Future) Result() (mod Module, err error, ok bool) { //nolint:revive // ok-last mirrors map lookups.
	select {
	case <-f.done:
		return f.mod, f.err, true
	default:
		return Module{}, nil, false
	}
}

// Wait blocks until the future settles or ctx is done.
func (f *Future) Wait(ctx context.Context) (Module, error) {
	select {
	case <-f.done:
		return f.mod, f.err
	case <-ctx.Done():
		return Module{}, ctx.Err()
	}
}
