package dyncache

import (
	"log/slog"
	"math"
)

const minMemLen = 2

// maxMemLen bounds the window length so that it fits both a uint32 snapshot counter and an int.
var maxMemLen = min(uint64(math.MaxUint32), uint64(math.MaxInt))

// clampMemLen silently fixes up invalid window lengths instead of rejecting them.
func clampMemLen(memLen int) int {
	if memLen < minMemLen {
		return minMemLen
	}
	if uint64(memLen) > maxMemLen {
		return int(maxMemLen)
	}
	return memLen
}

type Option func(c *config)

type config struct {
	logger *slog.Logger
}

func defaultConfig() config {
	return config{
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets the logger used to report window resizes and cache clears.
// The default logger discards all records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
