package dyncache

import (
	"fmt"
)

type HitStats struct {
	// Hits is the number of requests served from a stored value.
	Hits uint64
	// Misses is the number of requests that needed the value to be produced.
	Misses uint64
}

type SizeStats struct {
	// Size is the current number of values stored in the cache.
	Size int
	// Tracked is the current number of keys remembered by the cache, with or without a stored value.
	Tracked int
	// Memory is the number of requests currently remembered.
	Memory int
	// MemLen is the maximum number of requests remembered.
	MemLen int
}

// Stats represents cache metrics.
type Stats struct {
	HitStats
	SizeStats
}

// String returns formatted string.
func (s Stats) String() string {
	return fmt.Sprintf(
		"Hits: %d, Misses: %d, Hit Ratio: %f, Size: %d, Tracked: %d, Memory: %d, MemLen: %d",
		s.Hits, s.Misses,
		s.HitRatio(),
		s.Size, s.Tracked, s.Memory, s.MemLen,
	)
}

// HitRatio returns the hit ratio.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Stats returns cache metrics.
// It is useful for tuning the memory length of your cache.
func (c *Local[K, V]) Stats() Stats {
	return Stats{
		HitStats: c.stats,
		SizeStats: SizeStats{
			Size:    c.size,
			Tracked: c.tracked.Len(),
			Memory:  c.window.Len(),
			MemLen:  c.memLen,
		},
	}
}

// Stats returns cache metrics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local.Stats()
}
