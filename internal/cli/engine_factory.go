package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/bitty"
	"github.com/aretw0/bitty/internal/compiler"
	"github.com/aretw0/bitty/internal/demo"
	"github.com/aretw0/bitty/pkg/adapters/memory"
	"github.com/aretw0/bitty/pkg/domain"
	"github.com/aretw0/bitty/pkg/observability"
	"github.com/aretw0/bitty/pkg/registry"
)

// EngineOptions configures mountPage.
type EngineOptions struct {
	Logger *slog.Logger
	Debug  bool
	Strict bool
	Hooks  []domain.LifecycleHooks
}

// mountPage builds an engine over page with the demo controllers reachable
// both as registry globals and as the "demo" module, then mounts every
// component root of the page.
func mountPage(ctx context.Context, page *compiler.Page, opts EngineOptions) (*bitty.Engine, error) {
	reg := registry.NewRegistry()
	if err := demo.Register(reg); err != nil {
		return nil, fmt.Errorf("error registering controllers: %w", err)
	}

	hooks := opts.Hooks
	if opts.Debug {
		hooks = append(hooks, observability.LogHooks(opts.Logger))
	}

	engineOpts := []bitty.Option{
		bitty.WithLogger(opts.Logger),
		bitty.WithRegistry(reg),
		bitty.WithModuleLoader(memory.NewLoader(demo.Module())),
		bitty.WithLifecycleHooks(domain.CombineHooks(hooks...)),
		bitty.WithStrict(opts.Strict),
	}
	if len(page.Listeners) > 0 {
		engineOpts = append(engineOpts, bitty.WithListeners(page.Listeners...))
	}

	eng := bitty.New(page.Document, engineOpts...)
	var err error
	page.Document.Do(func() { err = eng.Define(ctx, page.Document.Root()) })
	if err != nil {
		return nil, fmt.Errorf("error mounting page '%s': %w", page.Name, err)
	}
	return eng, nil
}
