package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/bitty/pkg/domain"
)

// Func defines the signature of a shared function.
// Shared functions are registered once per process and bound to each component on mount.
type Func func(ctx context.Context, api domain.API, args ...any) (any, error)

// Registry holds the process-wide controller classes, the default controller,
// and the shared function table.
// It is written during process setup and read-only once frozen.
type Registry struct {
	mu           sync.RWMutex
	frozen       bool
	classes      map[string]domain.Factory
	defaultClass domain.Factory
	funcs        map[string]Func
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]domain.Factory),
		funcs:   make(map[string]Func),
	}
}

// Register adds a named controller class.
// If a class with the same name exists, it is overwritten.
func (r *Registry) Register(name string, f domain.Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("invalid controller class %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("register %q: %w", name, domain.ErrRegistryFrozen)
	}
	r.classes[name] = f
	return nil
}

// SetDefault registers the controller used by components without a connection descriptor.
func (r *Registry) SetDefault(f domain.Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("set default: %w", domain.ErrRegistryFrozen)
	}
	r.defaultClass = f
	return nil
}

// RegisterFunc adds a shared function, overwriting any function of the same name.
func (r *Registry) RegisterFunc(name string, fn Func) error {
	if name == "" || fn == nil {
		return fmt.Errorf("invalid shared function %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("register func %q: %w", name, domain.ErrRegistryFrozen)
	}
	r.funcs[name] = fn
	return nil
}

// Freeze makes the registry read-only. Further registrations fail with domain.ErrRegistryFrozen.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup returns the controller class registered under name.
func (r *Registry) Lookup(name string) (domain.Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.classes[name]
	return f, ok
}

// Default returns the default controller class, if any.
func (r *Registry) Default() (domain.Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultClass, r.defaultClass != nil
}

// Funcs returns a snapshot of the shared function table.
func (r *Registry) Funcs() map[string]Func {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Func, len(r.funcs))
	for k, v := range r.funcs {
		out[k] = v
	}
	return out
}

// Names returns the registered class names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
