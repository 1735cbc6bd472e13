// Package engine provides the tick loop that drives the autonomy engines over
// simulated time.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Clock supplies the engine's notion of now. Engines never read the wall
// clock; hosts decide how fast simulated time runs.
type Clock interface {
	Now() time.Time
	Advance(d time.Duration) time.Time
}

// SimClock is a manually advanced clock.
type SimClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewSimClock starts a clock at start.
func NewSimClock(start time.Time) *SimClock {
	return &SimClock{now: start}
}

func (c *SimClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *SimClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Engine drives the simulation forward.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Step     time.Duration // Simulated time per tick
	Speed    float64       // Multiplier for Run: 1.0 = one tick per Interval, 0 = paused
	Interval time.Duration // Base real-time tick interval for Run
	Clock    Clock
	Start    time.Time // Simulated time at construction

	// Callbacks for each tick layer, populated during setup. Hour and day
	// fire when a step crosses the boundary in simulated time.
	OnTick func(tick uint64, now time.Time)
	OnHour func(tick uint64, now time.Time)
	OnDay  func(tick uint64, now time.Time)
}

// NewEngine creates an engine whose clock starts at start and advances by
// step each tick.
func NewEngine(start time.Time, step time.Duration) *Engine {
	if step <= 0 {
		step = time.Minute
	}
	return &Engine{
		Step:     step,
		Speed:    1.0,
		Interval: time.Second,
		Clock:    NewSimClock(start),
		Start:    start,
	}
}

// Run paces ticks in real time until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed)
	defer func() { slog.Info("simulation engine stopped", "tick", e.Tick) }()

	for {
		if e.Speed <= 0 {
			// Paused. Check again shortly.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}

		began := time.Now()
		e.step()

		// Sleep for the remainder of the tick interval, adjusted for speed.
		wait := time.Duration(float64(e.Interval)/e.Speed) - time.Since(began)
		if wait < 0 {
			wait = 0
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Advance runs n ticks back to back, stopping early if ctx is done.
func (e *Engine) Advance(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.step()
	}
	return nil
}

// step advances the simulation by one tick.
func (e *Engine) step() {
	prev := e.Clock.Now()
	now := e.Clock.Advance(e.Step)
	e.Tick++

	if e.OnTick != nil {
		e.OnTick(e.Tick, now)
	}
	if crossed(prev, now, time.Hour) && e.OnHour != nil {
		e.OnHour(e.Tick, now)
	}
	if crossed(prev, now, 24*time.Hour) && e.OnDay != nil {
		e.OnDay(e.Tick, now)
	}
}

func crossed(prev, now time.Time, unit time.Duration) bool {
	return !now.Truncate(unit).Equal(prev.Truncate(unit))
}

// SimTime returns a human-readable elapsed simulation time.
func SimTime(start, now time.Time) string {
	elapsed := now.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	days := int(elapsed/(24*time.Hour)) + 1
	rest := elapsed % (24 * time.Hour)
	return fmt.Sprintf("Day %d, %d:%02d", days, int(rest/time.Hour), int(rest%time.Hour/time.Minute))
}
