package dyncache

// entry tracks a key that has been requested at least once within the window.
type entry[V any] struct {
	// counter is the number of requests observed for this key since the entry was created, minus one.
	counter uint32
	value   V
	cached  bool
}

// tracker maps keys to their tracking entries.
// Tracker implementations does NOT need to be goroutine-safe.
type tracker[K comparable, V any] interface {
	// Get the entry for key.
	Get(key K) (e *entry[V], ok bool)
	// Set the entry for key.
	Set(key K, e *entry[V])
	// Delete the entry for key.
	Delete(key K)
	// Purge all entries.
	Purge()
	// Len returns the number of tracked keys.
	Len() int
}

type mapTracker[K comparable, V any] map[K]*entry[V]

func newMapTracker[K comparable, V any]() tracker[K, V] {
	return mapTracker[K, V](make(map[K]*entry[V]))
}

func (m mapTracker[K, V]) Get(key K) (e *entry[V], ok bool) {
	e, ok = m[key]
	return
}

func (m mapTracker[K, V]) Set(key K, e *entry[V]) {
	m[key] = e
}

func (m mapTracker[K, V]) Delete(key K) {
	delete(m, key)
}

func (m mapTracker[K, V]) Purge() {
	clear(m)
}

func (m mapTracker[K, V]) Len() int {
	return len(m)
}

type hashedEntry[K comparable, V any] struct {
	key K
	e   *entry[V]
}

// hashTracker resolves keys with a user supplied Hasher instead of the built-in map equality.
// Keys with colliding hashes share a bucket and are told apart with Hasher.Equal.
type hashTracker[K comparable, V any] struct {
	hasher  Hasher[K]
	buckets map[uint64][]hashedEntry[K, V]
	len     int
}

func newHashTracker[K comparable, V any](hasher Hasher[K]) tracker[K, V] {
	return &hashTracker[K, V]{
		hasher:  hasher,
		buckets: make(map[uint64][]hashedEntry[K, V]),
	}
}

func (h *hashTracker[K, V]) find(bucket []hashedEntry[K, V], key K) int {
	for i := range bucket {
		if h.hasher.Equal(bucket[i].key, key) {
			return i
		}
	}
	return -1
}

func (h *hashTracker[K, V]) Get(key K) (e *entry[V], ok bool) {
	bucket := h.buckets[h.hasher.Hash(key)]
	if i := h.find(bucket, key); i >= 0 {
		return bucket[i].e, true
	}
	return nil, false
}

func (h *hashTracker[K, V]) Set(key K, e *entry[V]) {
	sum := h.hasher.Hash(key)
	bucket := h.buckets[sum]
	if i := h.find(bucket, key); i >= 0 {
		bucket[i].e = e
		return
	}
	h.buckets[sum] = append(bucket, hashedEntry[K, V]{key: key, e: e})
	h.len++
}

func (h *hashTracker[K, V]) Delete(key K) {
	sum := h.hasher.Hash(key)
	bucket := h.buckets[sum]
	i := h.find(bucket, key)
	if i < 0 {
		return
	}
	h.len--
	if len(bucket) == 1 {
		delete(h.buckets, sum)
		return
	}
	last := len(bucket) - 1
	bucket[i] = bucket[last]
	bucket[last] = hashedEntry[K, V]{}
	h.buckets[sum] = bucket[:last]
}

func (h *hashTracker[K, V]) Purge() {
	clear(h.buckets)
	h.len = 0
}

func (h *hashTracker[K, V]) Len() int {
	return h.len
}
