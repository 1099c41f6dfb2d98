package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/datasync/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// Redis implements the typed cache port on top of a shared Redis client.
// Values are serialized as JSON. A zero TTL stores the key without expiry.
type Redis[T any] struct {
	client *redis.Client
}

// NewRedis creates a typed Redis cache sharing an existing client
func NewRedis[T any](client *redis.Client) *Redis[T] {
	return &Redis[T]{client: client}
}

// Get returns the cached value and whether the key was present
func (r *Redis[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return zero, false, fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores a value under key with the given TTL
func (r *Redis[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Delete removes a key
func (r *Redis[T]) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	return nil
}

var _ shared.Cache[int] = (*Redis[int])(nil)
