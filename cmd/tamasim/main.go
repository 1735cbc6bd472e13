// Command tamasim runs a headless tamaverse autonomy simulation: a spawned
// population living through simulated days while a contract board posts
// work for the agents independent enough to take it.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/tamaverse/internal/agents"
	"github.com/talgya/tamaverse/internal/compat"
	"github.com/talgya/tamaverse/internal/contracts"
	"github.com/talgya/tamaverse/internal/economy"
	"github.com/talgya/tamaverse/internal/engine"
	"github.com/talgya/tamaverse/internal/entropy"
	"github.com/talgya/tamaverse/internal/persistence"
	"github.com/talgya/tamaverse/internal/tuning"
)

// epoch is the simulated start time. Fixed so a seed replays exactly.
var epoch = time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		slog.Error("tamasim failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	level, _ := cfg.level()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	t := tuning.Default()
	if cfg.TuningPath != "" {
		if t, err = tuning.Load(cfg.TuningPath); err != nil {
			return fmt.Errorf("load tuning: %w", err)
		}
		slog.Info("tuning loaded", "path", cfg.TuningPath)
	}

	// ── Ledger ────────────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.SaveMeta("seed", strconv.FormatInt(cfg.Seed, 10)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	slog.Info("ledger opened", "path", cfg.DBPath)

	// ── Population ────────────────────────────────────────────────────
	rng, spawnRng := sources(cfg.Seed)
	population := agents.NewSpawner(spawnRng).SpawnPopulation(cfg.Agents)
	for _, a := range population {
		slog.Info("tama spawned",
			"id", a.ID,
			"name", a.Name,
			"species", a.Species,
			"archetype", a.Personality.Archetype,
			"autonomy", a.AutonomyLevel,
		)
	}

	// ── Engines ───────────────────────────────────────────────────────
	sim := engine.NewSimulation(t, rng, logger)
	market := economy.NewMarket(marketSeed(cfg.Seed, rng))
	roster := contracts.NewRoster(population)
	board := contracts.NewBoard(t.Contracts, roster, logger).WithScorer(compat.NewScorer(t.Compat))
	desk := newDesk(board, contracts.NewGenerator(t.Contracts, rng, market), rng, roster, cfg.ContractEvery, logger)

	eng := engine.NewEngine(epoch, cfg.TickStep)
	var total int
	eng.OnTick = func(tick uint64, now time.Time) {
		events := sim.Tick(now, population)
		total += len(events)
		if err := db.Checkpoint(now, events, desk.step(tick, now, population)); err != nil {
			slog.Error("checkpoint failed", "tick", tick, "error", err)
		}
	}
	eng.OnHour = func(tick uint64, now time.Time) {
		if err := db.SaveContracts(desk.sweep(now)); err != nil {
			slog.Error("save swept contracts failed", "error", err)
		}
	}
	eng.OnDay = func(tick uint64, now time.Time) {
		sim.Report(population, epoch)
		for _, c := range economy.Commodities {
			q := market.Quote(c, now)
			slog.Info("market", "commodity", c, "price", fmt.Sprintf("%.2f", q.Price), "volatility", q.Volatility)
		}
		resolved := board.Resolved(now.Add(-24 * time.Hour))
		slog.Info("contracts resolved today", "count", len(resolved), "open", len(board.List(contracts.StatusAvailable)))
	}

	// ── Start ─────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\ntamaverse is alive: %d tamas, %s ticks of %s each.\n",
		len(population), humanize.Comma(int64(cfg.Ticks)), cfg.TickStep)
	began := time.Now()
	if err := eng.Advance(ctx, cfg.Ticks); err != nil {
		slog.Info("received signal, shutting down", "tick", eng.Tick)
	}

	summarize(db, sim.Collect(population), desk, population, eng, began, total)
	return nil
}

// sources returns the simulation and spawner random sources. Seed 0 asks
// for an unpredictable world.
func sources(seed int64) (sim, spawn entropy.Source) {
	if seed == 0 {
		return entropy.Crypto{}, entropy.Crypto{}
	}
	return entropy.NewSeeded(seed), entropy.NewSeeded(seed + 1)
}

func marketSeed(seed int64, rng entropy.Source) int64 {
	if seed != 0 {
		return seed
	}
	return int64(rng.Float64() * (1 << 53))
}

func summarize(db *persistence.DB, st engine.SimStats, d *desk, population []*agents.Agent, eng *engine.Engine, began time.Time, events int) {
	fmt.Printf("\nSimulated %s (%s ticks) in %s.\n",
		engine.SimTime(eng.Start, eng.Clock.Now()), humanize.Comma(int64(eng.Tick)),
		time.Since(began).Round(time.Millisecond))
	fmt.Printf("%s events narrated, %d friendships, %d feuds, avg happiness %.1f.\n",
		humanize.Comma(int64(events)), st.Friendships, st.Feuds, st.AvgHappiness)

	counts, err := db.EventCounts()
	if err == nil {
		types := make([]string, 0, len(counts))
		for k := range counts {
			types = append(types, string(k))
		}
		sort.Strings(types)
		for _, k := range types {
			fmt.Printf("  %-16s %s\n", k, humanize.Comma(int64(counts[agents.EventType(k)])))
		}
	}

	ranked := append([]*agents.Agent(nil), population...)
	sort.SliceStable(ranked, func(i, j int) bool { return d.earned[ranked[i].ID] > d.earned[ranked[j].ID] })
	for i, a := range ranked {
		if i == 3 || d.earned[a.ID] == 0 {
			break
		}
		fmt.Printf("%s earner: %s the %s, %s coins, reputation %d\n",
			humanize.Ordinal(i+1), a.Name, a.Personality.Archetype,
			humanize.Comma(int64(d.earned[a.ID])), a.Social.Reputation)
	}
}
