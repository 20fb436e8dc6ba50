// Command dynsim replays synthetic workloads against a dyncache.Cache and reports hit rates and cache sizes.
//
// Configuration is read from environment variables (or a .env file):
//
//	DYNSIM_MEM_LEN    length of the cache's request memory (default 128)
//	DYNSIM_SAMPLES    number of requests per workload (default 4096)
//	DYNSIM_SEED       random seed, 0 for a time based seed (default 0)
//	DYNSIM_LOG_LEVEL  log level (default info)
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/motoki317/dyncache"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("starting simulation",
		slog.Int("memLen", cfg.MemLen),
		slog.Int("samples", cfg.Samples),
		slog.Int64("seed", seed),
	)

	sim := &simulation{
		cache:   dyncache.New[uint16, string](cfg.MemLen, dyncache.WithLogger(logger)),
		rnd:     rand.New(rand.NewSource(seed)),
		samples: cfg.Samples,
		logger:  logger,
	}
	if err := sim.run(); err != nil {
		logger.Error("simulation failed", slog.Any("error", err))
		os.Exit(1)
	}
}

type simulation struct {
	cache   *dyncache.Cache[uint16, string]
	rnd     *rand.Rand
	samples int
	logger  *slog.Logger
}

// warmUpSequence interleaves a few keys so that they are all promoted.
var warmUpSequence = []uint16{0, 0, 0, 0, 1, 1, 0, 1, 0, 1, 2, 0, 1, 2, 0, 1, 2, 0, 1, 2, 0, 1, 2, 0, 1, 2}

// mainKeyWeights are the relative request frequencies of keys 0, 1, 2... in the mixed workload.
var mainKeyWeights = []int{16, 8, 4, 2, 1}

// request fetches key through the cache and reports whether it was a hit.
// The returned value is checked against the key to catch any mixup in the cache.
func (s *simulation) request(key uint16) (hit bool, err error) {
	want := strconv.Itoa(int(key))
	hit = true
	got := s.cache.GetOrInsert(key, func() string {
		hit = false
		return want
	})
	if got != want {
		return hit, fmt.Errorf("key %d: got value %q", key, got)
	}
	return hit, nil
}

func (s *simulation) run() error {
	for _, key := range warmUpSequence {
		hit, err := s.request(key)
		if err != nil {
			return fmt.Errorf("warm up: %w", err)
		}
		s.logger.Debug("warm up request", slog.Int("key", int(key)), slog.Bool("hit", hit))
	}
	s.logger.Info("warmed up", slog.Int("size", s.cache.Size()))

	for i := 9; i >= 3; i-- {
		keyRange := 1 << i
		rate, err := s.measure(func() (uint16, bool) { return uint16(s.rnd.Intn(keyRange)), true })
		if err != nil {
			return fmt.Errorf("range %d: %w", keyRange, err)
		}
		s.report(fmt.Sprintf("uniform keys in [0, %d)", keyRange), rate)
	}

	rate, err := s.measure(func() (uint16, bool) { return s.randomKey(), true })
	if err != nil {
		return fmt.Errorf("full range: %w", err)
	}
	s.report("uniform keys in full uint16 range", rate)

	weighted := s.weightedPicker()
	rate, err = s.measure(func() (uint16, bool) {
		if s.rnd.Intn(2) == 0 {
			return weighted(), true
		}
		return s.randomKey(), false
	})
	if err != nil {
		return fmt.Errorf("mixed: %w", err)
	}
	s.report("weighted main keys mixed with random keys", rate)

	s.logger.Info("simulation finished", slog.String("stats", s.cache.Stats().String()))
	return nil
}

// measure sends samples requests with keys from next, and returns the hit rate of the requests next marked as counted.
func (s *simulation) measure(next func() (key uint16, counted bool)) (float64, error) {
	var hits, counted int
	for i := 0; i < s.samples; i++ {
		key, count := next()
		hit, err := s.request(key)
		if err != nil {
			return 0, err
		}
		if count {
			counted++
			if hit {
				hits++
			}
		}
	}
	if counted == 0 {
		return 0, nil
	}
	return float64(hits) / float64(counted), nil
}

func (s *simulation) report(workload string, hitRate float64) {
	s.logger.Info("workload done",
		slog.String("workload", workload),
		slog.Int("size", s.cache.Size()),
		slog.String("hitRate", fmt.Sprintf("%.1f%%", 100*hitRate)),
	)
}

func (s *simulation) randomKey() uint16 {
	return uint16(s.rnd.Intn(1 << 16))
}

// weightedPicker returns a function picking key i with probability proportional to mainKeyWeights[i].
func (s *simulation) weightedPicker() func() uint16 {
	total := lo.Sum(mainKeyWeights)
	return func() uint16 {
		n := s.rnd.Intn(total)
		for i, w := range mainKeyWeights {
			if n < w {
				return uint16(i)
			}
			n -= w
		}
		return uint16(len(mainKeyWeights) - 1)
	}
}
