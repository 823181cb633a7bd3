package bitty

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aretw0/bitty/internal/logging"
	"github.com/aretw0/bitty/internal/runtime"
	"github.com/aretw0/bitty/pkg/domain"
	"github.com/aretw0/bitty/pkg/ports"
	"github.com/aretw0/bitty/pkg/registry"
)

// Component is a mounted component instance.
type Component = runtime.Component

// Descriptor is a parsed connection descriptor.
type Descriptor = runtime.Descriptor

// ResolveError reports why a component could not be connected.
type ResolveError = runtime.ResolveError

// ErrAlreadyMounted is returned when mounting a root that is already live.
var ErrAlreadyMounted = runtime.ErrAlreadyMounted

// Engine is the high-level entry point for the bitty library.
// It mounts components on a host tree and tracks which nodes are component roots.
type Engine struct {
	host      ports.Host
	tagName   string
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	registry  *registry.Registry
	loader    ports.ModuleLoader
	idGen     func() string
	listeners []string
	strict    bool

	cfg        *runtime.Config
	components []*Component
	byRoot     map[domain.Node]*Component
	undefine   ports.Unsubscribe

	tapMu sync.RWMutex
	taps  []tap
	tapID int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRegistry injects the controller registry (default controller, named classes, shared functions).
// The registry is frozen on the first mount.
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = reg
	}
}

// WithModuleLoader sets the loader used to resolve module descriptors.
func WithModuleLoader(loader ports.ModuleLoader) Option {
	return func(e *Engine) {
		e.loader = loader
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithTagName changes the tag that marks component roots (default "bitty-2-0").
func WithTagName(tag string) Option {
	return func(e *Engine) {
		e.tagName = tag
	}
}

// WithListeners sets the interaction events installed for roots that declare none.
func WithListeners(events ...string) Option {
	return func(e *Engine) {
		e.listeners = events
	}
}

// WithIDGenerator replaces the identity and correlation id generator.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		e.idGen = gen
	}
}

// WithStrict logs a warning whenever a signal reaches no receiver and no fallback.
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// New creates an engine bound to host.
func New(host ports.Host, opts ...Option) *Engine {
	eng := &Engine{
		host:    host,
		tagName: domain.DefaultTagName,
		byRoot:  make(map[domain.Node]*Component),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	eng.logger = eng.logger.With("tag", eng.tagName)
	if eng.registry == nil {
		eng.registry = registry.NewRegistry()
	}

	hooks := domain.CombineHooks(eng.hooks, domain.LifecycleHooks{OnDispatch: eng.fanout})
	eng.cfg = runtime.NewConfig(
		runtime.WithLogger(eng.logger),
		runtime.WithRegistry(eng.registry),
		runtime.WithModuleLoader(eng.loader),
		runtime.WithLifecycleHooks(hooks),
		runtime.WithIDGenerator(eng.idGen),
		runtime.WithListeners(eng.listeners...),
		runtime.WithRootDetector(eng.IsComponentRoot),
		runtime.WithStrict(eng.strict),
	)
	return eng
}

// Mount brings root live as a component. A component that cannot connect is
// still returned, degraded, with the cause in Err.
func (e *Engine) Mount(ctx context.Context, root domain.Node) (*Component, error) {
	if root == nil {
		return nil, errors.New("mount: nil root")
	}
	if _, ok := e.byRoot[root]; ok {
		return nil, ErrAlreadyMounted
	}
	e.registry.Freeze()

	c := runtime.NewComponent(e.host, root, e.cfg)
	// Registered before mounting so the component's own listeners skip its root.
	e.byRoot[root] = c
	e.components = append(e.components, c)

	if err := c.Mount(ctx); err != nil {
		e.forget(root)
		return nil, err
	}
	return c, nil
}

// Unmount tears down the component rooted at root. It reports whether one was mounted.
func (e *Engine) Unmount(ctx context.Context, root domain.Node) bool {
	c, ok := e.byRoot[root]
	if !ok {
		return false
	}
	c.Unmount(ctx)
	e.forget(root)
	return true
}

func (e *Engine) forget(root domain.Node) {
	delete(e.byRoot, root)
	kept := e.components[:0]
	for _, c := range e.components {
		if c.Root() != root {
			kept = append(kept, c)
		}
	}
	e.components = kept
}

// Define mounts every element under scope (scope included) carrying the
// engine tag, then keeps watching scope: tagged elements inserted later are
// mounted, and removed roots are unmounted.
func (e *Engine) Define(ctx context.Context, scope domain.Node) error {
	if scope == nil {
		return errors.New("define: nil scope")
	}
	if e.undefine != nil {
		e.undefine()
	}
	ctx = context.WithoutCancel(ctx)

	e.upgrade(ctx, scope)
	e.undefine = e.host.Observe(scope, func(records []ports.MutationRecord) {
		for _, r := range records {
			for _, n := range r.Removed {
				e.downgrade(ctx, n)
			}
		}
		for _, r := range records {
			for _, n := range r.Added {
				e.upgrade(ctx, n)
			}
		}
	})
	return nil
}

func (e *Engine) upgrade(ctx context.Context, n domain.Node) {
	if connected(n) {
		e.upgradeOne(ctx, n)
		for _, d := range n.Descendants() {
			e.upgradeOne(ctx, d)
		}
	}
}

func (e *Engine) upgradeOne(ctx context.Context, n domain.Node) {
	if n.Tag() != e.tagName {
		return
	}
	if _, ok := e.byRoot[n]; ok {
		return
	}
	if _, err := e.Mount(ctx, n); err != nil {
		e.logger.Error("failed to mount component", "err", err)
	}
}

func (e *Engine) downgrade(ctx context.Context, n domain.Node) {
	if connected(n) {
		return
	}
	e.Unmount(ctx, n)
	for _, d := range n.Descendants() {
		e.Unmount(ctx, d)
	}
}

// connected reports whether n is attached to its document. Hosts that cannot
// tell are assumed attached.
func connected(n domain.Node) bool {
	if c, ok := n.(interface{ Connected() bool }); ok {
		return c.Connected()
	}
	return true
}

// Close stops watching for new roots and unmounts every component.
func (e *Engine) Close(ctx context.Context) {
	if e.undefine != nil {
		e.undefine()
		e.undefine = nil
	}
	for _, c := range e.Components() {
		e.Unmount(ctx, c.Root())
	}
}

// Components returns the mounted components in mount order.
func (e *Engine) Components() []*Component {
	return append([]*Component(nil), e.components...)
}

// Component returns the mounted component with the given identity.
func (e *Engine) Component(id string) (*Component, bool) {
	for _, c := range e.components {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// ComponentAt returns the component rooted at root.
func (e *Engine) ComponentAt(root domain.Node) (*Component, bool) {
	c, ok := e.byRoot[root]
	return c, ok
}

// IsComponentRoot reports whether n is the root of a mounted component.
func (e *Engine) IsComponentRoot(n domain.Node) bool {
	_, ok := e.byRoot[n]
	return ok
}

// TagName returns the tag that marks component roots.
func (e *Engine) TagName() string {
	return e.tagName
}

// Registry returns the controller registry.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

type tap struct {
	id int
	fn func(context.Context, *domain.DispatchEvent)
}

// Tap subscribes fn to every dispatch record until the returned function is called.
// Taps run in subscription order and may be added and removed from other goroutines.
func (e *Engine) Tap(fn func(context.Context, *domain.DispatchEvent)) (untap func()) {
	e.tapMu.Lock()
	defer e.tapMu.Unlock()
	e.tapID++
	id := e.tapID
	e.taps = append(e.taps, tap{id: id, fn: fn})
	return func() {
		e.tapMu.Lock()
		defer e.tapMu.Unlock()
		for i, t := range e.taps {
			if t.id == id {
				e.taps = append(e.taps[:i:i], e.taps[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) fanout(ctx context.Context, rec *domain.DispatchEvent) {
	e.tapMu.RLock()
	taps := e.taps
	e.tapMu.RUnlock()

	for _, t := range taps {
		t.fn(ctx, rec)
	}
}
