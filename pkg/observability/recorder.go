package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/bitty/pkg/domain"
	"github.com/aretw0/bitty/pkg/ports"
)

// TraceRecorder appends every dispatch record to a stream of a TraceStore.
type TraceRecorder struct {
	store  ports.TraceStore
	stream string
	logger *slog.Logger
}

// NewTraceRecorder creates a recorder writing to stream.
func NewTraceRecorder(store ports.TraceStore, stream string, logger *slog.Logger) *TraceRecorder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TraceRecorder{store: store, stream: stream, logger: logger}
}

// Stream returns the stream name records are written to.
func (r *TraceRecorder) Stream() string {
	return r.stream
}

// Hooks returns hooks that persist dispatch records. Store failures are
// logged and never interrupt dispatch.
func (r *TraceRecorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			if err := r.store.Append(ctx, r.stream, e); err != nil {
				r.logger.Warn("failed to record dispatch trace", "stream", r.stream, "signal", e.Signal, "err", err)
			}
		},
	}
}
