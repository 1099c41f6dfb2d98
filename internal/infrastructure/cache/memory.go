package cache

import (
	"context"
	"sync"
	"time"

	"github.com/datasync/backend/internal/domain/shared"
)

// memoryEntry holds a stored value with its expiration. A zero expiresAt
// means the entry never expires.
type memoryEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e memoryEntry[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory implements the typed cache port with an in-memory map. It is
// suitable for single-instance deployments and testing, and serves as the
// fallback when Redis is unavailable at startup.
type Memory[T any] struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry[T]
}

// NewMemory creates an in-memory typed cache
func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{
		entries: make(map[string]memoryEntry[T]),
	}
}

// Get returns the cached value and whether the key was present
func (m *Memory[T]) Get(ctx context.Context, key string) (T, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	var zero T
	if !ok || e.expired(time.Now()) {
		return zero, false, nil
	}
	return e.value, true, nil
}

// Set stores a value under key with the given TTL
func (m *Memory[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	e := memoryEntry[T]{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

// Delete removes a key
func (m *Memory[T]) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, including not-yet-collected
// expired ones
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

var _ shared.Cache[int] = (*Memory[int])(nil)
