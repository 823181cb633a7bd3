package domain

import "context"

// Handler is a signal handler. node is the receiving node bound in the
// registry, or nil when the handler runs as the component-level fallback.
type Handler func(ctx context.Context, ev *Event, node Node) error

// Controller is the delegate a component forwards signals to.
type Controller interface {
	// Handler looks up the handler for a signal name.
	Handler(signal string) (Handler, bool)
}

// Initializer is implemented by controllers that need a post-mount hook.
// Init runs once, after the receiver registry, structural monitor and
// listeners are live, and before the component's own self-dispatch.
type Initializer interface {
	Init(ctx context.Context) error
}

// Binder is implemented by controllers that want the back-reference to their component.
type Binder interface {
	Bind(api API)
}

// Factory instantiates a fresh controller.
type Factory func() (Controller, error)

// Module is the unit a ModuleLoader resolves: an optional default export plus named exports.
type Module struct {
	Name    string
	Default Factory
	Exports map[string]Factory
}

// Export returns the named export, or the default export when name is empty.
func (m *Module) Export(name string) (Factory, error) {
	if name == "" {
		if m.Default == nil {
			return nil, ErrNoDefaultExport
		}
		return m.Default, nil
	}
	f, ok := m.Exports[name]
	if !ok || f == nil {
		return nil, ErrExportNotFound
	}
	return f, nil
}

// Substitution is an ordered placeholder replacement applied by UseTemplate and UseEl.
type Substitution struct {
	Old string
	New string
}

// BoundFunc is a shared function bound to a specific component.
type BoundFunc func(ctx context.Context, args ...any) (any, error)

// API is what a component exposes to its controller.
type API interface {
	// ID returns the component's identity.
	ID() string

	// Root returns the component root node.
	Root() Node

	// Forward dispatches signal as if the component root had emitted it.
	Forward(ctx context.Context, signal string)

	// ForwardEvent re-dispatches ev with signal as a one-shot override on its target.
	ForwardEvent(ctx context.Context, ev *Event, signal string)

	// Match reports whether ev's target and node share the same value for key (identity when empty).
	Match(ev *Event, node Node, key string) bool

	// Fn returns a shared function bound to this component.
	Fn(name string) (BoundFunc, bool)

	// UseTemplate materializes content, after substitutions, into detached nodes.
	UseTemplate(content string, subs ...Substitution) ([]Node, error)

	// UseEl materializes content and returns its first node.
	UseEl(content string, subs ...Substitution) (Node, error)
}
