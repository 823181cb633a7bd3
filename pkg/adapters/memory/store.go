package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/bitty/pkg/domain"
)

// TraceStore implements ports.TraceStore in memory.
// Safe for concurrent use.
type TraceStore struct {
	data map[string][]domain.DispatchEvent
	mu   sync.RWMutex
}

// NewTraceStore creates a new in-memory trace store.
func NewTraceStore() *TraceStore {
	return &TraceStore{
		data: make(map[string][]domain.DispatchEvent),
	}
}

// Append adds a record to the stream.
func (s *TraceStore) Append(ctx context.Context, stream string, rec *domain.DispatchEvent) error {
	// Copy to ensure isolation, similar to serialization
	copied := *rec
	copied.Receivers = append([]string(nil), rec.Receivers...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[stream] = append(s.data[stream], copied)
	return nil
}

// List returns the stream's records.
func (s *TraceStore) List(ctx context.Context, stream string) ([]domain.DispatchEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.data[stream]
	out := make([]domain.DispatchEvent, len(recs))
	for i, r := range recs {
		out[i] = r
		out[i].Receivers = append([]string(nil), r.Receivers...)
	}
	return out, nil
}

// Clear removes the stream.
func (s *TraceStore) Clear(ctx context.Context, stream string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, stream)
	return nil
}

// Streams returns the non-empty streams.
func (s *TraceStore) Streams(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	streams := make([]string, 0, len(s.data))
	for name, recs := range s.data {
		if len(recs) > 0 {
			streams = append(streams, name)
		}
	}
	sort.Strings(streams)
	return streams, nil
}
