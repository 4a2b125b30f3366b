// Package cache provides an in-memory LRU cache with per-entry expiry for
// query results.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
)

const (
	// DefaultCapacity is the default maximum number of entries
	DefaultCapacity = 50
	// DefaultTTL is the default time-to-live for entries (5 minutes)
	DefaultTTL = 5 * time.Minute
)

// entry is one cached value with its insertion time
type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a bounded LRU cache whose entries expire after a TTL.
// Keys are case-insensitive. All methods are safe for concurrent use.
type Cache[V any] struct {
	capacity int
	ttl      time.Duration
	// nowFunc allows injecting time for testing
	nowFunc func() time.Time

	// mu protects every field below
	mu      sync.Mutex
	items   *lru.Cache
	enabled bool
}

// Option is a functional option for configuring Cache
type Option func(*options)

type options struct {
	capacity int
	ttl      time.Duration
	nowFunc  func() time.Time
	enabled  bool
}

// WithCapacity sets the maximum number of entries. Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithTTL sets the time-to-live for entries. Values below 1ns are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithNowFunc sets a custom time function for testing
func WithNowFunc(fn func() time.Time) Option {
	return func(o *options) {
		o.nowFunc = fn
	}
}

// WithEnabled sets the initial enabled state (default: enabled)
func WithEnabled(enabled bool) Option {
	return func(o *options) {
		o.enabled = enabled
	}
}

// New creates an empty cache
func New[V any](opts ...Option) *Cache[V] {
	o := options{
		capacity: DefaultCapacity,
		ttl:      DefaultTTL,
		nowFunc:  time.Now,
		enabled:  true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Cache[V]{
		capacity: o.capacity,
		ttl:      o.ttl,
		nowFunc:  o.nowFunc,
		items:    lru.New(o.capacity),
		enabled:  o.enabled,
	}
}

func normalizeKey(key string) string {
	return strings.ToLower(key)
}

// Get returns the value for key if it is present and not expired, and marks
// it most recently used. An expired entry is removed. A disabled cache always
// misses without touching its contents.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return zero, false
	}

	key = normalizeKey(key)
	v, ok := c.items.Get(key)
	if !ok {
		return zero, false
	}

	e := v.(*entry[V])
	if c.isExpired(e) {
		c.items.Remove(key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key as the most recently used entry. When a new key
// arrives at capacity the least recently used entry is evicted.
// A disabled cache ignores Set.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return
	}

	c.items.Add(normalizeKey(key), &entry[V]{value: value, storedAt: c.nowFunc()})
}

// Clear removes every entry. It works whether or not the cache is enabled.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items.Clear()
}

// Len returns the number of stored entries, expired ones included
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Len()
}

// SetEnabled turns the cache on or off. Stored entries are kept.
func (c *Cache[V]) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

// Enabled reports whether Get and Set are active
func (c *Cache[V]) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Capacity returns the maximum number of entries
func (c *Cache[V]) Capacity() int {
	return c.capacity
}

// TTL returns the entry time-to-live
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}

// isExpired reports whether e has outlived the TTL.
// Caller must hold the lock.
func (c *Cache[V]) isExpired(e *entry[V]) bool {
	return c.nowFunc().Sub(e.storedAt) >= c.ttl
}

