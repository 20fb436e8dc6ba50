package dyncache

import (
	"sync"
)

// New creates a new cache instance remembering the last memLen requests.
// memLen is clamped to [2, math.MaxUint32].
func New[K comparable, V any](memLen int, options ...Option) *Cache[K, V] {
	return &Cache[K, V]{local: NewLocal[K, V](memLen, options...)}
}

// NewWithHasher is similar to New, but resolves keys with the given Hasher.
func NewWithHasher[K comparable, V any](memLen int, hasher Hasher[K], options ...Option) *Cache[K, V] {
	return &Cache[K, V]{local: NewLocalWithHasher[K, V](memLen, hasher, options...)}
}

// Cache is a goroutine-safe version of Local.
// All methods are safe to be called from multiple goroutines.
//
// Cache does not hold its lock while producing values. Therefore, if multiple goroutines miss on the same key at
// the same time, the value producer may be called more than once for the key. Each caller receives the value its
// own producer computed, unless the key was promoted in the meantime; only one value is kept in the cache.
// Cache does not coalesce such in-flight calls.
type Cache[K comparable, V any] struct {
	mu    sync.Mutex // mu protects local
	local *Local[K, V]
}

// GetOrInsert retrieves the value for key, calling fn to produce it on a miss.
// fn is called without holding the lock.
func (c *Cache[K, V]) GetOrInsert(key K, fn func() V) V {
	if v, ok := c.getCached(key); ok {
		return v
	}
	v := fn() // make sure not to hold lock while producing value
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local.record(key, v)
}

// GetOrInsertErr is similar to GetOrInsert, but fn may fail.
// Errors from fn are returned as they are, and leave the cache untouched.
func (c *Cache[K, V]) GetOrInsertErr(key K, fn func() (V, error)) (V, error) {
	if v, ok := c.getCached(key); ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local.record(key, v), nil
}

func (c *Cache[K, V]) getCached(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local.getCached(key)
}

// Size returns the number of values currently stored in the cache.
func (c *Cache[K, V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local.Size()
}

// MemLen returns the length of the cache's recent request memory.
func (c *Cache[K, V]) MemLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local.MemLen()
}

// SetMemLen changes the length of the cache's recent request memory.
// See Local.SetMemLen.
func (c *Cache[K, V]) SetMemLen(memLen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.local.SetMemLen(memLen)
}

// ClearCache removes all stored values and all memory of past requests.
func (c *Cache[K, V]) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.local.ClearCache()
}

// HitsMisses returns the hit and miss counts as a consistent pair.
func (c *Cache[K, V]) HitsMisses() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local.Hits(), c.local.Misses()
}

// ResetMetrics resets the hit and miss counts.
func (c *Cache[K, V]) ResetMetrics() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.local.ResetMetrics()
}

// String returns a short summary of the cache state.
func (c *Cache[K, V]) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local.String()
}
