package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/bitty/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTraceStoreContract runs a suite of tests to verify that a TraceStore implementation
// adheres to the defined interface contract.
func RunTraceStoreContract(t *testing.T, store TraceStore) {
	ctx := context.Background()
	stream := "contract-" + time.Now().Format("20060102150405")

	t.Run("Append and List", func(t *testing.T) {
		first := &domain.DispatchEvent{ComponentID: "c1", EventType: "click", Signal: "open", Receivers: []string{"n1", "n2"}}
		second := &domain.DispatchEvent{ComponentID: "c1", EventType: "click", Signal: "close", Fallback: true}

		require.NoError(t, store.Append(ctx, stream, first))
		require.NoError(t, store.Append(ctx, stream, second))

		recs, err := store.List(ctx, stream)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "open", recs[0].Signal)
		assert.Equal(t, []string{"n1", "n2"}, recs[0].Receivers)
		assert.Equal(t, "close", recs[1].Signal)
		assert.True(t, recs[1].Fallback)
	})

	t.Run("List Unknown Stream", func(t *testing.T) {
		recs, err := store.List(ctx, "missing-"+stream)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("Streams", func(t *testing.T) {
		streams, err := store.Streams(ctx)
		require.NoError(t, err)
		assert.Contains(t, streams, stream)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx, stream))

		recs, err := store.List(ctx, stream)
		require.NoError(t, err)
		assert.Empty(t, recs)

		streams, err := store.Streams(ctx)
		require.NoError(t, err)
		assert.NotContains(t, streams, stream)
	})
}
