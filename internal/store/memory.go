package store

import (
	"context"
	"sync"
)

// Cache is a generic mutex-guarded map
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{items: make(map[K]V)}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, exists := c.items[key]
	return value, exists
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = value
}

func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Clear drops every item
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]V)
}

// MemoryBackend keeps values in process memory. It stands in for durable
// storage in tests and single-process deployments.
type MemoryBackend struct {
	cache      *Cache[string, string]
	quotaBytes int
}

// NewMemoryBackend creates a backend that refuses values larger than
// quotaBytes. Zero disables the quota.
func NewMemoryBackend(quotaBytes int) *MemoryBackend {
	return &MemoryBackend{
		cache:      NewCache[string, string](),
		quotaBytes: quotaBytes,
	}
}

func (m *MemoryBackend) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	value, ok := m.cache.Get(key)
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *MemoryBackend) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.quotaBytes > 0 && len(key)+len(value) > m.quotaBytes {
		return ErrQuotaExceeded
	}
	m.cache.Set(key, value)
	return nil
}

func (m *MemoryBackend) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.cache.Delete(key)
	return nil
}

func (m *MemoryBackend) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryBackend) Close() error {
	m.cache.Clear()
	return nil
}
