package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// SnapshotRepository implements domain.SnapshotStore on top of Redis string
// keys. Each logical key holds the full JSON snapshot of one collection;
// every Put is a plain SET overwrite.
type SnapshotRepository struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewSnapshotRepository creates a Redis-backed snapshot store. The prefix
// namespaces the logical keys so several monitor instances can share one
// Redis.
func NewSnapshotRepository(client *redis.Client, prefix string, logger *slog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		client: client,
		prefix: prefix,
		logger: logger.With("component", "redis_snapshot_repository"),
	}
}

func (r *SnapshotRepository) key(logical string) string {
	if r.prefix == "" {
		return logical
	}
	return r.prefix + ":" + logical
}

// Get returns the snapshot stored under key; a missing key is not an error.
func (r *SnapshotRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis GET %q: %w", r.key(key), err)
	}
	return payload, true, nil
}

// Put overwrites the snapshot under key. No expiry: snapshots live until
// the next overwrite.
func (r *SnapshotRepository) Put(ctx context.Context, key string, payload []byte) error {
	if err := r.client.Set(ctx, r.key(key), payload, 0).Err(); err != nil {
		return fmt.Errorf("redis SET %q: %w", r.key(key), err)
	}
	return nil
}
