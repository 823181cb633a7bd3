package cli

import (
	"context"
	"io"

	"github.com/aretw0/bitty"
	"github.com/aretw0/bitty/internal/compiler"
	"github.com/aretw0/bitty/internal/presentation/tui"
	"github.com/aretw0/bitty/pkg/domain"
	"github.com/aretw0/bitty/pkg/observability"
)

// RunSession compiles the page, mounts it and replays its script once.
func RunSession(ctx context.Context, opts RunOptions, w io.Writer) error {
	if !opts.JSON && !opts.Headless {
		tui.PrintBanner(w, bitty.Version)
	}
	return runOnce(ctx, opts, w)
}

func runOnce(ctx context.Context, opts RunOptions, w io.Writer) error {
	logger := createLogger(opts.Log)

	page, err := compiler.CompileFile(opts.Path)
	if err != nil {
		return err
	}

	var hooks []domain.LifecycleHooks
	if opts.RedisURL != "" {
		traces, err := openTraceStore(opts.RedisURL)
		if err != nil {
			return err
		}
		defer traces.Close()
		hooks = append(hooks, observability.NewTraceRecorder(traces.Store, page.Name, logger).Hooks())
	}

	eng, err := mountPage(ctx, page, EngineOptions{
		Logger: logger,
		Debug:  opts.Log.Debug,
		Strict: opts.Strict,
		Hooks:  hooks,
	})
	if err != nil {
		return err
	}
	defer page.Document.Do(func() { eng.Close(context.WithoutCancel(ctx)) })

	quiet := opts.JSON || opts.Headless
	if !quiet {
		printSystemMessage(w, "Page '%s': %d component(s).", page.Name, len(eng.Components()))
	}
	reportDegraded(w, eng)

	r := bitty.NewRunner(w)
	r.Headless = quiet
	r.Formatter = traceFormatter(w, opts.JSON)
	if err := r.Run(ctx, eng, page.Document, page.Script); err != nil {
		return err
	}

	if !quiet {
		printSystemMessage(w, "Finished %d step(s).", len(page.Script))
	}
	return nil
}
