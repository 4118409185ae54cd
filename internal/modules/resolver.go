package modules

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/insightdeck/internal/registry"
)

// Resolver errors.
var (
	ErrModuleNotFound     = errors.New("component not found")
	ErrReentrantLoad      = errors.New("module loader resolved its own name")
	ErrIncompatibleModule = errors.New("module API version is incompatible")
	ErrNilComponent       = errors.New("module has no default component")
	ErrLoaderPanic        = errors.New("module loader panicked")
)

// Module is a loaded visualisation module.
type Module struct {
	// Default is the component the module exports.
	Default registry.Factory
	// APIVersion is the semver of the component API the module targets.
	// Empty skips the compatibility check.
	APIVersion string
}

// Loader produces a module. It is called at most once per name.
type Loader func(ctx context.Context) (Module, error)

// State is the lifecycle state of a module name.
type State int

// Module states.
const (
	StateNotLoaded State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "not_loaded"
	}
}

// Status describes one module for listings.
type Status struct {
	Name     string
	State    State
	Err      error
	LoadedAt time.Time
	Took     time.Duration
}

type entry struct {
	state    State
	err      error
	future   *Future
	loadedAt time.Time
	took     time.Duration
}

// Resolver resolves module names to modules, loading each at most once.
type Resolver struct {
	mu         sync.Mutex
	loaders    map[string]Loader
	entries    map[string]*entry
	constraint *semver.Constraints
	logger     zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithLogger sets the resolver logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) error {
		r.logger = l
		return nil
	}
}

// WithAPIConstraint rejects modules whose APIVersion does not satisfy the
// semver constraint, e.g. "^1.0.0".
func WithAPIConstraint(constraint string) Option {
	return func(r *Resolver) error {
		if constraint == "" {
			return nil
		}
		c, err := semver.NewConstraint(constraint)
		if err != nil {
			return fmt.Errorf("parsing module API constraint %q: %w", constraint, err)
		}
		r.constraint = c
		return nil
	}
}

// NewResolver creates an empty Resolver.
func NewResolver(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		loaders: make(map[string]Loader),
		entries: make(map[string]*entry),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a loader to the bootstrap table. Registering a name that has
// already started loading does not affect the existing entry.
func (r *Resolver) Register(name string, loader Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[name] = loader
}

// Names returns every name with a registered loader, sorted.
func (r *Resolver) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.loaders))
	for n := range r.loaders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type loadingKey struct{}

// loadingChain returns the names being loaded by the loaders that led to ctx.
func loadingChain(ctx context.Context) []string {
	chain, _ := ctx.Value(loadingKey{}).([]string)
	return chain
}

// Resolve returns a Future for name. Ready and Failed entries return their
// settled future immediately; a Loading entry returns the shared in-flight
// future; an unregistered name fails fast with ErrModuleNotFound and no entry
// is created. Resolve never blocks on the load itself.
func (r *Resolver) Resolve(ctx context.Context, name string) *Future {
	for _, loading := range loadingChain(ctx) {
		if loading == name {
			return settledFuture(name, Module{}, fmt.Errorf("%w: %s", ErrReentrantLoad, name))
		}
	}

	r.mu.Lock()
	if e, ok := r.entries[name]; ok {
		r.mu.Unlock()
		return e.future
	}

	loader, ok := r.loaders[name]
	if !ok {
		r.mu.Unlock()
		r.logger.Debug().Ctx(ctx).Str("operation", "resolve").Str("module", name).Msg("no loader registered")
		return settledFuture(name, Module{}, fmt.Errorf("%w: %s", ErrModuleNotFound, name))
	}

	fut := newFuture(name)
	e := &entry{state: StateLoading, future: fut}
	r.entries[name] = e
	r.mu.Unlock()

	chain := append(append([]string(nil), loadingChain(ctx)...), name)
	loadCtx := context.WithValue(context.WithoutCancel(ctx), loadingKey{}, chain)
	go r.load(loadCtx, name, loader, e)

	return fut
}

func (r *Resolver) load(ctx context.Context, name string, loader Loader, e *entry) {
	start := time.Now()
	r.logger.Debug().Ctx(ctx).Str("operation", "load").Str("module", name).Msg("loading module")

	mod, err := callLoader(ctx, loader)
	if err == nil {
		err = r.check(name, mod)
	}

	r.mu.Lock()
	e.took = time.Since(start)
	e.loadedAt = time.Now()
	if err != nil {
		e.state = StateFailed
		e.err = err
		mod = Module{}
	} else {
		e.state = StateReady
	}
	// Settle under the lock so State and the future never disagree.
	e.future.settle(mod, err)
	took := e.took
	r.mu.Unlock()

	if err != nil {
		r.logger.Warn().Ctx(ctx).Str("operation", "load").Str("module", name).Err(err).Msg("module load failed")
		return
	}
	r.logger.Debug().Ctx(ctx).Str("operation", "load").Str("module", name).
		Dur("took", took).Msg("module ready")
}

func callLoader(ctx context.Context, loader Loader) (mod Module, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v\n%s", ErrLoaderPanic, p, debug.Stack())
		}
	}()
	return loader(ctx)
}

func (r *Resolver) check(name string, mod Module) error {
	if mod.Default == nil {
		return fmt.Errorf("%w: %s", ErrNilComponent, name)
	}
	if r.constraint == nil || mod.APIVersion == "" {
		return nil
	}
	v, err := semver.NewVersion(mod.APIVersion)
	if err != nil {
		return fmt.Errorf("%w: %s has invalid API version %q: %w", ErrIncompatibleModule, name, mod.APIVersion, err)
	}
	if !r.constraint.Check(v) {
		return fmt.Errorf("%w: %s targets API %s, host requires %s",
			ErrIncompatibleModule, name, v, r.constraint)
	}
	return nil
}

// State returns the lifecycle state of name.
func (r *Resolver) State(name string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[name]; ok {
		return e.state
	}
	return StateNotLoaded
}

// Snapshot reports the status of every registered or referenced module.
func (r *Resolver) Snapshot() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make(map[string]bool, len(r.loaders))
	for n := range r.loaders {
		names[n] = true
	}
	for n := range r.entries {
		names[n] = true
	}

	out := make([]Status, 0, len(names))
	for n := range names {
		st := Status{Name: n}
		if e, ok := r.entries[n]; ok {
			st.State = e.state
			st.LoadedAt = e.loadedAt
			st.Took = e.took
			st.Err = e.err
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Preload resolves names with at most limit loads waited on concurrently and
// blocks until each has settled or ctx is done. Load failures are joined into
// the returned error; they do not stop other names from loading. A limit of
// zero or less means no limit.
func (r *Resolver) Preload(ctx context.Context, names []string, limit int) error {
	g, gCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	var mu sync.Mutex
	var failures []error
	for _, name := range names {
		g.Go(func() error {
			if _, err := r.Resolve(gCtx, name).Wait(gCtx); err != nil {
				if ctxErr := gCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(failures...)
}
