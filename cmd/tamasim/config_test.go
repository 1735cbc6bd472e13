package main

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/talgya/tamaverse/internal/entropy"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("TAMASIM_SEED", "7")
	t.Setenv("TAMASIM_TICK_STEP", "1m")
	t.Setenv("TAMASIM_LOG_LEVEL", "debug")
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Seed != 7 || cfg.TickStep != time.Minute {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if l, _ := cfg.level(); l != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", l)
	}
}

func TestConfigRejectsBadValues(t *testing.T) {
	for name, tc := range map[string][2]string{
		"agents": {"TAMASIM_AGENTS", "0"},
		"step":   {"TAMASIM_TICK_STEP", "0s"},
		"level":  {"TAMASIM_LOG_LEVEL", "loud"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(tc[0], tc[1])
			if _, err := loadConfig(); !errors.Is(err, errConfig) {
				t.Fatalf("expected config error, got %v", err)
			}
		})
	}
}

func TestZeroSeedIsUnpredictable(t *testing.T) {
	sim, spawn := sources(0)
	if _, ok := sim.(entropy.Crypto); !ok {
		t.Fatalf("seed 0 should use crypto randomness, got %T", sim)
	}
	if _, ok := spawn.(entropy.Crypto); !ok {
		t.Fatalf("seed 0 should spawn from crypto randomness, got %T", spawn)
	}
	if s := marketSeed(0, sim); s < 0 {
		t.Fatalf("market seed must be non-negative, got %d", s)
	}

	sim, spawn = sources(7)
	if _, ok := sim.(*entropy.Seeded); !ok {
		t.Fatalf("non-zero seed should be reproducible, got %T", sim)
	}
	if sim.Float64() == spawn.Float64() {
		t.Fatalf("simulation and spawner streams should differ")
	}
	if marketSeed(7, sim) != 7 {
		t.Fatalf("market should follow the configured seed")
	}
}
