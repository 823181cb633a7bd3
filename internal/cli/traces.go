package cli

import (
	"fmt"

	"github.com/aretw0/bitty/pkg/adapters/memory"
	redisadapter "github.com/aretw0/bitty/pkg/adapters/redis"
	"github.com/aretw0/bitty/pkg/ports"
	goredis "github.com/redis/go-redis/v9"
)

// traceBackend is where dispatch traces are kept: in process, or in Redis
// when a URL is given. Locker is nil for the in-process backend.
type traceBackend struct {
	Store  ports.TraceStore
	Locker ports.Locker
	close  func() error
}

func openTraceStore(url string) (*traceBackend, error) {
	if url == "" {
		return &traceBackend{Store: memory.NewTraceStore()}, nil
	}
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid --redis URL: %w", err)
	}
	client := goredis.NewClient(opt)
	store := redisadapter.NewFromClient(client)
	return &traceBackend{
		Store:  store,
		Locker: redisadapter.NewLocker(client, "bitty:"),
		close:  store.Close,
	}, nil
}

// Close releases the backend connection, if any.
func (t *traceBackend) Close() error {
	if t.close == nil {
		return nil
	}
	return t.close()
}
