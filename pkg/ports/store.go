package ports

import (
	"context"

	"github.com/aretw0/bitty/pkg/domain"
)

// TraceStore persists dispatch records grouped by stream (typically a page name).
type TraceStore interface {
	// Append adds a record at the end of the stream.
	Append(ctx context.Context, stream string, rec *domain.DispatchEvent) error

	// List returns the stream's records in append order. Unknown streams are empty.
	List(ctx context.Context, stream string) ([]domain.DispatchEvent, error)

	// Clear removes every record of the stream.
	Clear(ctx context.Context, stream string) error

	// Streams returns the names of streams holding at least one record, sorted.
	Streams(ctx context.Context) ([]string, error)
}
