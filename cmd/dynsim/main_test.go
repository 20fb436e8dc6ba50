package main

import (
	"log/slog"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoki317/dyncache"
)

var configEnvs = []string{"DYNSIM_MEM_LEN", "DYNSIM_SAMPLES", "DYNSIM_SEED", "DYNSIM_LOG_LEVEL"}

// unsetConfigEnvs clears the config environment for the duration of the test.
func unsetConfigEnvs(t *testing.T) {
	t.Helper()
	for _, key := range configEnvs {
		t.Setenv(key, "") // restores the original value after the test
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		unsetConfigEnvs(t)

		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, config{
			MemLen:   128,
			Samples:  4096,
			Seed:     0,
			LogLevel: slog.LevelInfo,
		}, cfg)
	})

	t.Run("from environment", func(t *testing.T) {
		unsetConfigEnvs(t)
		t.Setenv("DYNSIM_MEM_LEN", "16")
		t.Setenv("DYNSIM_SAMPLES", "100")
		t.Setenv("DYNSIM_SEED", "42")
		t.Setenv("DYNSIM_LOG_LEVEL", "debug")

		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, config{
			MemLen:   16,
			Samples:  100,
			Seed:     42,
			LogLevel: slog.LevelDebug,
		}, cfg)
	})

	t.Run("non-positive samples", func(t *testing.T) {
		for _, samples := range []string{"0", "-1"} {
			t.Run(samples, func(t *testing.T) {
				unsetConfigEnvs(t)
				t.Setenv("DYNSIM_SAMPLES", samples)

				_, err := loadConfig()
				assert.Error(t, err)
			})
		}
	})

	t.Run("invalid number", func(t *testing.T) {
		unsetConfigEnvs(t)
		t.Setenv("DYNSIM_MEM_LEN", "many")

		_, err := loadConfig()
		assert.Error(t, err)
	})
}

func newTestSimulation(samples int) *simulation {
	logger := slog.New(slog.DiscardHandler)
	return &simulation{
		cache:   dyncache.New[uint16, string](128, dyncache.WithLogger(logger)),
		rnd:     rand.New(rand.NewSource(1)),
		samples: samples,
		logger:  logger,
	}
}

func TestSimulation_WeightedPicker(t *testing.T) {
	s := newTestSimulation(1)
	pick := s.weightedPicker()

	counts := make([]int, len(mainKeyWeights))
	for i := 0; i < 10000; i++ {
		key := pick()
		require.Less(t, int(key), len(mainKeyWeights))
		counts[key]++
	}
	// Heavier weights are picked more often
	for i := 1; i < len(counts); i++ {
		assert.Greater(t, counts[i-1], counts[i], "key %d should be picked more often than key %d", i-1, i)
	}
}

func TestSimulation_Request(t *testing.T) {
	s := newTestSimulation(1)

	for i, wantHit := range []bool{false, false, true, true} {
		hit, err := s.request(7)
		require.NoError(t, err)
		assert.Equal(t, wantHit, hit, "request %d", i)
	}
	assert.Equal(t, 1, s.cache.Size())
}

func TestSimulation_Run(t *testing.T) {
	s := newTestSimulation(256)
	require.NoError(t, s.run())

	hits, misses := s.cache.HitsMisses()
	// warm up, 7 uniform ranges, the full range, and the mixed workload
	assert.EqualValues(t, len(warmUpSequence)+9*256, hits+misses)
	assert.NotZero(t, hits)
}
