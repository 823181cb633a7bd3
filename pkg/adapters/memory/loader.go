package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/bitty/pkg/domain"
)

// Loader implements ports.ModuleLoader over a static table of modules.
// Safe for concurrent use.
type Loader struct {
	mu      sync.RWMutex
	modules map[string]*domain.Module

	// Latency simulates asynchronous resolution. Zero resolves immediately.
	Latency time.Duration
}

// NewLoader creates a loader serving the given modules, keyed by Module.Name.
func NewLoader(modules ...*domain.Module) *Loader {
	l := &Loader{modules: make(map[string]*domain.Module)}
	for _, m := range modules {
		l.Add(m)
	}
	return l
}

// Add registers or replaces a module.
func (l *Loader) Add(m *domain.Module) {
	if m == nil || m.Name == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.modules[m.Name] = m
}

// Load implements ports.ModuleLoader.
func (l *Loader) Load(ctx context.Context, locator string) (*domain.Module, error) {
	if l.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.Latency):
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	m, ok := l.modules[locator]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, locator)
	}
	return m, nil
}

// List returns all module names.
func (l *Loader) List() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.modules))
	for name := range l.modules {
		names = append(names, name)
	}
	sort.Strings(names) // Deterministic order
	return names
}
