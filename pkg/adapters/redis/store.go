package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/aretw0/bitty/pkg/domain"
	"github.com/aretw0/bitty/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// TraceStore implements ports.TraceStore using Redis: one list per stream
// and a sorted-set index scored by expiry.
type TraceStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	maxLen int64
}

var _ ports.TraceStore = (*TraceStore)(nil)

type Option func(*TraceStore)

// WithTTL sets the expiration of a stream, refreshed on every append.
func WithTTL(ttl time.Duration) Option {
	return func(s *TraceStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *TraceStore) {
		s.prefix = prefix
	}
}

// WithMaxLen caps each stream to its most recent n records. Zero keeps everything.
func WithMaxLen(n int64) Option {
	return func(s *TraceStore) {
		s.maxLen = n
	}
}

// New creates a new Redis trace store with options.
func New(address, password string, db int, opts ...Option) *TraceStore {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis trace store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *TraceStore {
	store := &TraceStore{
		client: client,
		prefix: "bitty:trace:",
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *TraceStore) key(stream string) string {
	return s.prefix + stream
}

func (s *TraceStore) indexKey() string {
	return s.prefix + "index"
}

// Append pushes the record onto the stream.
func (s *TraceStore) Append(ctx context.Context, stream string, rec *domain.DispatchEvent) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal trace: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, s.key(stream), data)
	if s.maxLen > 0 {
		pipe.LTrim(ctx, s.key(stream), -s.maxLen, -1)
	}
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(stream), s.ttl)
	}

	// Score = Now + TTL. If TTL = 0, Score = far future.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: stream})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append trace to redis: %w", err)
	}
	return nil
}

// List returns the stream's records in append order.
func (s *TraceStore) List(ctx context.Context, stream string) ([]domain.DispatchEvent, error) {
	vals, err := s.client.LRange(ctx, s.key(stream), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read traces from redis: %w", err)
	}

	recs := make([]domain.DispatchEvent, 0, len(vals))
	for _, v := range vals {
		var rec domain.DispatchEvent
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trace: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Clear removes the stream and its index entry.
func (s *TraceStore) Clear(ctx context.Context, stream string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(stream))
	pipe.ZRem(ctx, s.indexKey(), stream)

	_, err := pipe.Exec(ctx)
	return err
}

// Streams returns the live streams, pruning expired index entries first.
func (s *TraceStore) Streams(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired streams: %w", err)
	}

	streams, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list streams: %w", err)
	}
	sort.Strings(streams)
	return streams, nil
}

// Close closes the redis client.
func (s *TraceStore) Close() error {
	return s.client.Close()
}
