package shared

import (
	"context"
	"time"
)

// Cache is a typed key-value cache port. Implementations serialize values as
// needed; one instance is injected per cached value type so call sites never
// share an untyped template.
type Cache[T any] interface {
	// Get returns the cached value and whether the key was present
	Get(ctx context.Context, key string) (T, bool, error)
	// Set stores a value under key. A zero ttl means no expiry
	// (the entry lives until an explicit Delete).
	Set(ctx context.Context, key string, value T, ttl time.Duration) error
	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
