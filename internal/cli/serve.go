package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/bitty"
	"github.com/aretw0/bitty/internal/compiler"
	httpadapter "github.com/aretw0/bitty/pkg/adapters/http"
	"github.com/aretw0/bitty/pkg/domain"
	"github.com/aretw0/bitty/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServeOptions configures the serve command.
type ServeOptions struct {
	Path     string
	Addr     string
	RedisURL string
	// Fresh clears the page's trace stream before serving.
	Fresh  bool
	Strict bool
	Log    LogOptions
}

const shutdownTimeout = 5 * time.Second

// Server is a mounted page plus the HTTP handler exposing it.
type Server struct {
	Engine  *bitty.Engine
	Page    *compiler.Page
	Handler http.Handler
	traces  *traceBackend
}

// Close unmounts the page and releases the trace backend.
func (s *Server) Close() error {
	s.Page.Document.Do(func() { s.Engine.Close(context.Background()) })
	return s.traces.Close()
}

// NewServer compiles and mounts the page and builds its handler: the bitty
// HTTP surface plus /metrics.
func NewServer(ctx context.Context, opts ServeOptions) (*Server, error) {
	logger := createLogger(opts.Log)

	page, err := compiler.CompileFile(opts.Path)
	if err != nil {
		return nil, err
	}

	traces, err := openTraceStore(opts.RedisURL)
	if err != nil {
		return nil, err
	}
	if opts.Fresh {
		if err := resetStream(ctx, traces, page.Name); err != nil {
			traces.Close()
			return nil, err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := observability.NewMetrics(reg)
	recorder := observability.NewTraceRecorder(traces.Store, page.Name, logger)

	eng, err := mountPage(ctx, page, EngineOptions{
		Logger: logger,
		Debug:  opts.Log.Debug,
		Strict: opts.Strict,
		Hooks:  []domain.LifecycleHooks{metrics.Hooks(), recorder.Hooks()},
	})
	if err != nil {
		traces.Close()
		return nil, err
	}

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Mount("/", httpadapter.NewHandler(&httpadapter.Server{
		Engine:   eng,
		Document: page.Document,
		Traces:   traces.Store,
		Stream:   page.Name,
		Logger:   logger,
	}))

	return &Server{Engine: eng, Page: page, Handler: r, traces: traces}, nil
}

// resetStream clears a trace stream. With Redis the clear is serialized by a
// lock so servers starting on the same page do not race each other.
func resetStream(ctx context.Context, traces *traceBackend, stream string) error {
	if traces.Locker == nil {
		return traces.Store.Clear(ctx, stream)
	}
	lockCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	unlock, err := traces.Locker.Lock(lockCtx, "stream:"+stream, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to lock trace stream '%s': %w", stream, err)
	}
	defer unlock(context.WithoutCancel(ctx))
	return traces.Store.Clear(ctx, stream)
}

// Serve runs the HTTP server until ctx is done, then shuts it down gracefully.
func Serve(ctx context.Context, opts ServeOptions, w io.Writer) error {
	s, err := NewServer(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	reportDegraded(w, s.Engine)

	srv := &http.Server{
		Addr:    opts.Addr,
		Handler: s.Handler,
	}

	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(w, "Serving page '%s' on %s", s.Page.Name, srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		printSystemMessage(w, "Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err)
		}
		printSystemMessage(w, "Server stopped gracefully.")
		return nil
	}
}
