package dyncache

import (
	"fmt"
	"log/slog"

	"github.com/motoki317/dyncache/internal/deque"
)

// minWindowCap is the number of requests the memory has room for up front.
const minWindowCap = 1024

// windowEntry records a single request for key, along with the key's counter at the time of the request.
type windowEntry[K comparable] struct {
	key     K
	counter uint32
}

// NewLocal creates a new single-goroutine cache remembering the last memLen requests.
// memLen is clamped to [2, math.MaxUint32].
func NewLocal[K comparable, V any](memLen int, options ...Option) *Local[K, V] {
	return newLocal[K, V](memLen, newMapTracker[K, V](), options)
}

// NewLocalWithHasher is similar to NewLocal, but resolves keys with the given Hasher.
func NewLocalWithHasher[K comparable, V any](memLen int, hasher Hasher[K], options ...Option) *Local[K, V] {
	if hasher == nil {
		return NewLocal[K, V](memLen, options...)
	}
	return newLocal[K, V](memLen, newHashTracker[K, V](hasher), options)
}

func newLocal[K comparable, V any](memLen int, t tracker[K, V], options []Option) *Local[K, V] {
	config := defaultConfig()
	for _, option := range options {
		option(&config)
	}

	memLen = clampMemLen(memLen)
	return &Local[K, V]{
		tracked: t,
		// Do not trust memLen for preallocation, it may be as large as math.MaxUint32.
		window: deque.New[windowEntry[K]](min(memLen, minWindowCap)),
		memLen: memLen,
		logger: config.logger,
	}
}

// Local is a cache that only holds onto values which have been requested at least twice within its recent memory.
//
// Local remembers the last MemLen requests. The first request for a key is never cached; the second request
// within the memory caches the value, which is then kept until every request for the key has aged out of the memory.
//
// Local is NOT goroutine-safe and not reentrant: value producers must not call back into the same Local.
// Use Cache for sharing between goroutines.
type Local[K comparable, V any] struct {
	tracked tracker[K, V]
	window  *deque.Deque[windowEntry[K]]
	memLen  int
	size    int // number of tracked entries holding a value
	stats   HitStats
	logger  *slog.Logger
}

// GetOrInsert retrieves the value for key, calling fn to produce it on a miss.
// fn is called at most once.
//
// If fn panics, the panic propagates and the request is not recorded.
func (c *Local[K, V]) GetOrInsert(key K, fn func() V) V {
	if v, ok := c.getCached(key); ok {
		return v
	}
	v := fn()
	return c.record(key, v)
}

// GetOrInsertErr is similar to GetOrInsert, but fn may fail.
// Errors from fn are returned as they are, and leave the cache untouched.
func (c *Local[K, V]) GetOrInsertErr(key K, fn func() (V, error)) (V, error) {
	if v, ok := c.getCached(key); ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}
	return c.record(key, v), nil
}

// record records a miss for key, and admits the freshly produced v.
// The request counts as a miss even if key was promoted while fn was running, since fn had to be called.
func (c *Local[K, V]) record(key K, v V) V {
	cached, ok := c.request(key)
	c.stats.Misses++
	if ok {
		// Only reachable from Cache, where another goroutine may have promoted key while fn was running.
		return cached
	}
	return c.insert(key, v)
}

// getCached records a request for key only if key currently holds a value.
// Misses leave the cache untouched, so that they can be recorded once the value has been produced.
func (c *Local[K, V]) getCached(key K) (v V, ok bool) {
	e, found := c.tracked.Get(key)
	if !found || !e.cached {
		return v, false
	}
	return c.get(key)
}

// get records a request for key and returns the value if it is cached.
func (c *Local[K, V]) get(key K) (v V, ok bool) {
	v, ok = c.request(key)
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	return
}

// request updates the tracking state for a request of key, without touching hit and miss counts.
func (c *Local[K, V]) request(key K) (v V, ok bool) {
	e, found := c.tracked.Get(key)
	if found {
		e.counter++
		v, ok = e.value, e.cached
	} else {
		e = &entry[V]{}
		c.tracked.Set(key, e)
	}
	counter := e.counter

	if c.window.Len() >= c.memLen {
		c.evictOldest()
	}
	c.window.PushFront(windowEntry[K]{key: key, counter: counter})
	return
}

// insert admits v for key after a miss.
// v is only stored if this is not the first request for key.
func (c *Local[K, V]) insert(key K, v V) V {
	e, ok := c.tracked.Get(key)
	if !ok {
		panic(fmt.Sprintf("dyncache: insert for untracked key %v", key))
	}
	switch {
	case e.counter == 0:
		// Seen once - hand the value out without keeping it.
		return v
	case e.cached:
		return e.value
	default:
		e.value, e.cached = v, true
		c.size++
		return v
	}
}

// evictOldest drops the oldest request from memory, forgetting its key if that was the key's latest request.
func (c *Local[K, V]) evictOldest() {
	w, ok := c.window.PopBack()
	if !ok {
		panic("dyncache: memory queue should be non-empty at this point")
	}
	e, ok := c.tracked.Get(w.key)
	if !ok {
		panic(fmt.Sprintf("dyncache: tracked keys should contain key %v from the memory queue", w.key))
	}
	if e.counter != w.counter {
		// A newer request for the key is still in memory.
		return
	}
	if e.cached {
		c.size--
	}
	c.tracked.Delete(w.key)
}

// Size returns the number of values currently stored in the cache.
func (c *Local[K, V]) Size() int {
	return c.size
}

// MemLen returns the length of the cache's recent request memory.
func (c *Local[K, V]) MemLen() int {
	return c.memLen
}

// SetMemLen changes the length of the cache's recent request memory.
// memLen is clamped to [2, math.MaxUint32].
// Some values may be removed immediately if the new length is shorter than the old one.
func (c *Local[K, V]) SetMemLen(memLen int) {
	memLen = clampMemLen(memLen)
	sizeBefore := c.size
	for c.window.Len() > memLen {
		c.evictOldest()
	}
	if c.window.Cap() > 2*max(memLen, minWindowCap) {
		// Release memory held for the longer memory.
		c.window.Shrink(max(c.window.Len(), min(memLen, minWindowCap)))
	}
	c.logger.Debug("memory length changed",
		slog.Int("old", c.memLen),
		slog.Int("new", memLen),
		slog.Int("evicted", sizeBefore-c.size),
	)
	c.memLen = memLen
}

// ClearCache removes all stored values and all memory of past requests.
// Hit and miss counts are kept; use ResetMetrics to reset them.
func (c *Local[K, V]) ClearCache() {
	c.logger.Debug("clearing cache", slog.Int("size", c.size), slog.Int("tracked", c.tracked.Len()))
	c.size = 0
	c.tracked.Purge()
	c.window.Clear()
}

// Hits returns the number of requests served from a stored value.
func (c *Local[K, V]) Hits() uint64 {
	return c.stats.Hits
}

// Misses returns the number of requests that needed the value to be produced.
func (c *Local[K, V]) Misses() uint64 {
	return c.stats.Misses
}

// ResetMetrics resets the hit and miss counts.
func (c *Local[K, V]) ResetMetrics() {
	c.stats = HitStats{}
}

// String returns a short summary of the cache state, without keys and values.
func (c *Local[K, V]) String() string {
	return fmt.Sprintf("Local{tracked: %d entries, memory: %d long, memLen: %d, size: %d}",
		c.tracked.Len(), c.window.Len(), c.memLen, c.size)
}
