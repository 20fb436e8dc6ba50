package dyncache

import (
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name    string
	options []Option
	hasher  Hasher[string]
}

var allCaches = []testCase{
	{name: "map tracker"},
	{name: "hash tracker", hasher: StringHasher()},
	{name: "folded hash tracker", hasher: FoldedStringHasher()},
}

func (tc testCase) newLocal(memLen int) *Local[string, string] {
	return NewLocalWithHasher[string, string](memLen, tc.hasher, tc.options...)
}

func (tc testCase) newCache(memLen int) *Cache[string, string] {
	return NewWithHasher[string, string](memLen, tc.hasher, tc.options...)
}

func newZipfian(s, v float64, size uint64) func() string {
	zipf := rand.NewZipf(rand.New(rand.NewSource(time.Now().UnixNano())), s, v, size)
	return func() string {
		return strconv.Itoa(int(zipf.Uint64()))
	}
}

func newKeys(next func() string, size int) []string {
	return lo.Times(size, func(_ int) string { return next() })
}

// checkInvariants verifies the bookkeeping of c by scanning its memory.
func checkInvariants[K comparable, V any](t *testing.T, c *Local[K, V]) {
	t.Helper()

	require.LessOrEqual(t, c.window.Len(), c.memLen, "memory should never exceed memLen")

	seen := make(map[K]struct{})
	cached := 0
	for i := 0; i < c.window.Len(); i++ {
		w := c.window.At(i)
		e, ok := c.tracked.Get(w.key)
		require.True(t, ok, "key %v in memory should be tracked", w.key)
		require.LessOrEqual(t, w.counter, e.counter)

		if _, ok := seen[w.key]; ok {
			require.Less(t, w.counter, e.counter, "older requests should have older counters")
			continue
		}
		// The front-most request is the latest one
		seen[w.key] = struct{}{}
		require.Equal(t, e.counter, w.counter, "latest request for %v should carry the current counter", w.key)
		if e.cached {
			cached++
		}
	}
	assert.Equal(t, len(seen), c.tracked.Len(), "every tracked key should be in memory")
	assert.Equal(t, cached, c.size, "size should equal the number of stored values")
}
