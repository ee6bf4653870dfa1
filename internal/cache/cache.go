package cache

import (
	"sync"
	"time"
)

// Cache is a read-through cache for hot-path lookups. Writers must Delete
// stale keys after mutating the backing row.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Delete(key K)
}

// New returns an in-memory TTL cache, or a pass-through when ttl is zero
// or negative.
func New[K comparable, V any](ttl time.Duration) Cache[K, V] {
	if ttl <= 0 {
		return disabled[K, V]{}
	}
	return &ttlCache[K, V]{
		ttl:   ttl,
		items: make(map[K]entry[V]),
	}
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type ttlCache[K comparable, V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[K]entry[V]
}

func (c *ttlCache[K, V]) Get(key K) (V, bool) {
	var zero V
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if time.Now().After(item.expiresAt) {
		c.Delete(key)
		return zero, false
	}
	return item.value, true
}

func (c *ttlCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	c.items[key] = entry[V]{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *ttlCache[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// disabled always misses and ignores writes.
type disabled[K comparable, V any] struct{}

func (disabled[K, V]) Get(key K) (V, bool) {
	var zero V
	return zero, false
}

func (disabled[K, V]) Set(key K, value V) {}

func (disabled[K, V]) Delete(key K) {}
