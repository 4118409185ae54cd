// Package registry stores the component factories cards and charts resolve to.
package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/rshade/insightdeck/internal/render"
)

// Factory renders a component from its props.
type Factory func(ctx context.Context, props map[string]any) (*render.Node, error)

// Registry is a keyed store of component factories. Keys share one flat
// namespace: type tags such as "trend" and component identifiers such as
// "IndustryStackCard" live side by side. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Factory
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Factory)}
}

// Register stores factory under key, replacing any existing entry.
func (r *Registry) Register(key string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = factory
}

// Unregister removes key. Removing an absent key is a no-op.
func (r *Registry) Unregister(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}

// Get returns the factory registered under key.
func (r *Registry) Get(key string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.entries[key]
	return f, ok
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
