package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type config struct {
	MemLen   int        `env:"DYNSIM_MEM_LEN" envDefault:"128"`
	Samples  int        `env:"DYNSIM_SAMPLES" envDefault:"4096"`
	Seed     int64      `env:"DYNSIM_SEED" envDefault:"0"`
	LogLevel slog.Level `env:"DYNSIM_LOG_LEVEL" envDefault:"info"`
}

// loadConfig reads the configuration from the environment, after loading a .env file if there is one.
func loadConfig() (config, error) {
	// Missing .env file is fine, the environment may be set up in other ways.
	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Samples <= 0 {
		return config{}, errors.New("DYNSIM_SAMPLES needs to be positive")
	}
	return cfg, nil
}
