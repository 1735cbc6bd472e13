// Package goals generates, prioritizes, executes and retires per-agent goals.
// The top goal drives the agent's current activity.
package goals

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/talgya/tamaverse/internal/agents"
	"github.com/talgya/tamaverse/internal/compat"
	"github.com/talgya/tamaverse/internal/entropy"
	"github.com/talgya/tamaverse/internal/social"
	"github.com/talgya/tamaverse/internal/tuning"
)

// Engine runs the goal state machine for one agent at a time.
type Engine struct {
	cfg tuning.Goals
	rel *social.Engine
	rng entropy.Source
	log *slog.Logger

	// NewID mints goal and event ids. Defaults to UUIDs drawn from rng.
	NewID func() string
}

// NewEngine creates a goal engine. rel applies relationship effects of goal
// outcomes; it may be nil, in which case those effects are skipped.
func NewEngine(cfg tuning.Goals, rel *social.Engine, rng entropy.Source, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{cfg: cfg, rel: rel, rng: rng, log: log}
	e.NewID = func() string { return entropy.NewID(rng) }
	return e
}

// Update runs one tick for a: expire stale goals, top up the slots, mirror
// the top goal into the activity and try to finish it.
func (e *Engine) Update(a *agents.Agent, present []*agents.Agent, now time.Time) []agents.AutonomousEvent {
	events := e.Expire(a, now)
	e.Fill(a, present, now)
	syncActivity(a, now)
	if ev, ok := e.Process(a, present, now); ok {
		events = append(events, ev)
	}
	return events
}

// Age returns how old g is at now. A missing or future creation time reads
// as the fallback age.
func (e *Engine) Age(g *agents.Goal, now time.Time) time.Duration {
	if g.CreatedAt.IsZero() || g.CreatedAt.After(now) {
		return e.cfg.FallbackAge
	}
	return now.Sub(g.CreatedAt)
}

// Expire retires every goal older than the TTL as an expired failure.
func (e *Engine) Expire(a *agents.Agent, now time.Time) []agents.AutonomousEvent {
	var events []agents.AutonomousEvent
	kept := a.CurrentGoals[:0]
	for _, g := range a.CurrentGoals {
		if e.Age(g, now) <= e.cfg.TTL {
			kept = append(kept, g)
			continue
		}
		agents.AddGoalRecord(a, agents.GoalRecord{
			GoalID:      g.ID,
			Type:        g.Type,
			TargetID:    g.TargetID,
			Outcome:     agents.OutcomeFailure,
			Note:        "Goal expired",
			CompletedAt: now,
		}, e.cfg.HistorySize)
		e.log.Debug("goal expired", "agent", a.ID, "goal", g.Type, "age", e.Age(g, now))
		events = append(events, agents.AutonomousEvent{
			ID:           e.NewID(),
			Timestamp:    now,
			Type:         agents.EventGoalExpired,
			Participants: []agents.AgentID{a.ID},
			Location:     a.ActivityLocation,
			Description:  fmt.Sprintf("%s gave up on %q", a.Name, g.Description),
			Significance: 1,
		})
	}
	for i := len(kept); i < len(a.CurrentGoals); i++ {
		a.CurrentGoals[i] = nil
	}
	a.CurrentGoals = kept
	return events
}

// Fill generates goals until the slots are full or nothing more is available,
// then re-sorts. Returns the number of goals added.
func (e *Engine) Fill(a *agents.Agent, present []*agents.Agent, now time.Time) int {
	added := 0
	for len(a.CurrentGoals) < e.cfg.MaxActive {
		g := e.Generate(a, present, now)
		if g == nil {
			break
		}
		a.CurrentGoals = append(a.CurrentGoals, g)
		added++
	}
	if added > 0 {
		sortGoals(a)
	}
	return added
}

// Generate picks one available goal type uniformly and materializes it. When
// nothing is available it falls back to rest, or returns nil if a is
// already resting.
func (e *Engine) Generate(a *agents.Agent, present []*agents.Agent, now time.Time) *agents.Goal {
	cands := e.candidates(a, present)
	if len(cands) == 0 {
		if a.HasGoalType(agents.GoalRest) {
			return nil
		}
		cands = []candidate{{goal: agents.GoalRest}}
	}
	c := cands[entropy.Pick(e.rng, len(cands))]
	var target *agents.Agent
	if len(c.targets) > 0 {
		target = c.targets[entropy.Pick(e.rng, len(c.targets))]
	}
	return e.materialize(c.goal, a, target, now)
}

// NewGoal materializes a goal of type t, bypassing availability. target may
// be nil for untargeted types.
func (e *Engine) NewGoal(t agents.GoalType, a, target *agents.Agent, now time.Time) *agents.Goal {
	return e.materialize(t, a, target, now)
}

func (e *Engine) materialize(t agents.GoalType, a, target *agents.Agent, now time.Time) *agents.Goal {
	rc, ok := recipes[t]
	if !ok {
		rc = recipes[agents.GoalRest]
		t = agents.GoalRest
	}
	d := rc.build(a, target, e.rng)
	g := &agents.Goal{
		ID:             e.NewID(),
		Type:           t,
		Priority:       e.Priority(a, t),
		Description:    d.description,
		SkillCheck:     d.check,
		TimeRequired:   rc.minutes,
		Rewards:        d.rewards,
		FailureEffects: d.failure,
		Availability:   e.conditions(t, rc),
		CreatedAt:      now,
	}
	if target != nil {
		g.TargetID = target.ID
	}
	return g
}

func sortGoals(a *agents.Agent) {
	sort.SliceStable(a.CurrentGoals, func(i, j int) bool {
		return a.CurrentGoals[i].Priority > a.CurrentGoals[j].Priority
	})
}

// conditionsMet checks a recipe's availability conditions. target is the
// intended partner, nil for untargeted goals.
func conditionsMet(a, target *agents.Agent, c agents.Conditions) bool {
	if !compat.MeetsMinimums(a, c.MinStats) {
		return false
	}
	for _, act := range c.ForbiddenActivities {
		if a.CurrentActivity == act {
			return false
		}
	}
	if len(c.RequiredRelationships) == 0 {
		return true
	}
	if target == nil {
		return false
	}
	r := a.Relationship(target.ID)
	if r == nil {
		return false
	}
	for _, t := range c.RequiredRelationships {
		if r.Type == t {
			return true
		}
	}
	return false
}

func removeGoal(a *agents.Agent, id string) *agents.Goal {
	for i, g := range a.CurrentGoals {
		if g.ID == id {
			copy(a.CurrentGoals[i:], a.CurrentGoals[i+1:])
			a.CurrentGoals[len(a.CurrentGoals)-1] = nil
			a.CurrentGoals = a.CurrentGoals[:len(a.CurrentGoals)-1]
			return g
		}
	}
	return nil
}
