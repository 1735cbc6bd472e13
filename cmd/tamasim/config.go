package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the host configuration, read from the environment after an
// optional .env file.
type Config struct {
	Seed          int64         `env:"TAMASIM_SEED" envDefault:"42"` // 0 = unpredictable
	Agents        int           `env:"TAMASIM_AGENTS" envDefault:"12"`
	Ticks         int           `env:"TAMASIM_TICKS" envDefault:"2880"`
	TickStep      time.Duration `env:"TAMASIM_TICK_STEP" envDefault:"30s"`
	TuningPath    string        `env:"TAMASIM_TUNING"`
	DBPath        string        `env:"TAMASIM_DB" envDefault:"data/tamaverse.db"`
	LogLevel      string        `env:"TAMASIM_LOG_LEVEL" envDefault:"info"`
	ContractEvery int           `env:"TAMASIM_CONTRACT_EVERY" envDefault:"60"`
}

var errConfig = errors.New("invalid config")

func loadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, falling back to system environment variables")
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch {
	case c.Agents < 1:
		return fmt.Errorf("%w: TAMASIM_AGENTS must be >= 1", errConfig)
	case c.Ticks < 0:
		return fmt.Errorf("%w: TAMASIM_TICKS must be >= 0", errConfig)
	case c.TickStep <= 0:
		return fmt.Errorf("%w: TAMASIM_TICK_STEP must be positive", errConfig)
	case c.ContractEvery < 0:
		return fmt.Errorf("%w: TAMASIM_CONTRACT_EVERY must be >= 0", errConfig)
	}
	if _, err := c.level(); err != nil {
		return fmt.Errorf("%w: TAMASIM_LOG_LEVEL: %v", errConfig, err)
	}
	return nil
}

func (c Config) level() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.LogLevel))
	return l, err
}
