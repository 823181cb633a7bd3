package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/bitty/pkg/domain"
)

// Descriptor is a parsed connection descriptor.
//
//	""               process default controller
//	"Counter"        registry class, else module "Counter" default export
//	"Widgets|Counter" export "Counter" of module "Widgets"
type Descriptor struct {
	Raw    string
	Module string
	Export string
}

// ParseDescriptor parses the value of a root's connect attribute.
func ParseDescriptor(raw string) Descriptor {
	d := Descriptor{Raw: raw}
	parts := strings.SplitN(raw, domain.ListSeparator, 2)
	d.Module = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		d.Export = strings.TrimSpace(parts[1])
	}
	return d
}

// IsDefault reports whether the descriptor selects the process default controller.
func (d Descriptor) IsDefault() bool {
	return d.Module == ""
}

// Qualified reports whether the descriptor names both a module and an export.
func (d Descriptor) Qualified() bool {
	return d.Module != "" && d.Export != ""
}

func (d Descriptor) String() string {
	if d.Qualified() {
		return d.Module + domain.ListSeparator + d.Export
	}
	return d.Module
}

// ResolveError reports a failure to connect a component to its controller.
type ResolveError struct {
	Descriptor string
	Err        error
}

func (e *ResolveError) Error() string {
	if e.Descriptor == "" {
		return fmt.Sprintf("connect default controller: %v", e.Err)
	}
	return fmt.Sprintf("connect %q: %v", e.Descriptor, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// resolve instantiates the controller named by d. Factory panics are
// converted to errors.
func (c *Component) resolve(ctx context.Context, d Descriptor) (ctrl domain.Controller, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctrl = nil
			err = fmt.Errorf("controller factory panicked: %v", r)
		}
	}()

	factory, err := c.factory(ctx, d)
	if err != nil {
		return nil, err
	}
	ctrl, err = factory()
	if err != nil {
		return nil, fmt.Errorf("instantiate controller: %w", err)
	}
	if ctrl == nil {
		return nil, fmt.Errorf("instantiate controller: factory returned nil")
	}
	return ctrl, nil
}

func (c *Component) factory(ctx context.Context, d Descriptor) (domain.Factory, error) {
	reg := c.cfg.Registry

	if d.IsDefault() {
		if f, ok := reg.Default(); ok {
			return f, nil
		}
		return nil, domain.ErrNoController
	}

	// A single token prefers a global class over a module of the same name.
	if d.Export == "" {
		if f, ok := reg.Lookup(d.Module); ok {
			return f, nil
		}
	}

	if c.cfg.Loader == nil {
		return nil, fmt.Errorf("%w: %s (no module loader configured)", domain.ErrModuleNotFound, d.Module)
	}
	mod, err := c.cfg.Loader.Load(ctx, d.Module)
	if err != nil {
		return nil, fmt.Errorf("load module: %w", err)
	}
	if mod == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, d.Module)
	}
	f, err := mod.Export(d.Export)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", d.Module, err)
	}
	return f, nil
}
