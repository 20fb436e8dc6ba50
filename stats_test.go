package dyncache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_String(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  string
	}{
		{
			name: "simple",
			stats: Stats{
				HitStats{1, 3},
				SizeStats{5, 6, 7, 8},
			},
			want: "Hits: 1, Misses: 3, Hit Ratio: 0.250000, Size: 5, Tracked: 6, Memory: 7, MemLen: 8",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equalf(t, tt.want, tt.stats.String(), "String()")
		})
	}
}

func TestStats_HitRatio(t *testing.T) {
	tests := []struct {
		name   string
		hits   uint64
		misses uint64
		want   float64
	}{
		{"simple", 1, 3, 0.25},
		{"simple 2", 123, 789, 123.0 / (123.0 + 789.0)},
		{"zero", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Stats{HitStats: HitStats{Hits: tt.hits, Misses: tt.misses}}
			assert.InDeltaf(t, tt.want, s.HitRatio(), 0.001, "HitRatio()")
		})
	}
}

func TestCache_Stats(t *testing.T) {
	t.Parallel()

	for _, tc := range allCaches {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := tc.newCache(4)
			for _, key := range []string{"a", "a", "a", "b", "c"} {
				c.GetOrInsert(key, func() string { return key })
			}
			assert.Equal(t, Stats{
				HitStats:  HitStats{Hits: 1, Misses: 4},
				SizeStats: SizeStats{Size: 1, Tracked: 3, Memory: 4, MemLen: 4},
			}, c.Stats())

			c.GetOrInsert("d", func() string { return "d" }) // forgets nothing, a is still remembered
			c.GetOrInsert("e", func() string { return "e" }) // forgets a
			assert.Equal(t, Stats{
				HitStats:  HitStats{Hits: 1, Misses: 6},
				SizeStats: SizeStats{Size: 0, Tracked: 4, Memory: 4, MemLen: 4},
			}, c.Stats())
		})
	}
}
