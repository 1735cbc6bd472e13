// Simulation ties the goal and relationship engines together and runs them each tick.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/tamaverse/internal/agents"
	"github.com/talgya/tamaverse/internal/entropy"
	"github.com/talgya/tamaverse/internal/goals"
	"github.com/talgya/tamaverse/internal/social"
	"github.com/talgya/tamaverse/internal/tuning"
)

// DefaultMaxEvents bounds the recent-event buffer.
const DefaultMaxEvents = 1000

// Simulation runs the per-tick autonomy pass over a host-owned population.
type Simulation struct {
	Goals         *goals.Engine
	Relationships *social.Engine
	// NewID mints interaction event ids.
	NewID func() string

	Events    []agents.AutonomousEvent // Recent events, oldest first
	MaxEvents int
	LastTick  time.Time // Most recent tick processed
	Ticks     uint64

	log    *slog.Logger
	counts map[agents.EventType]int // since the last report
}

// SimStats is an aggregate snapshot of the population.
type SimStats struct {
	Population    int                      `json:"population"`
	AvgHappiness  float64                  `json:"avg_happiness"`
	AvgStress     float64                  `json:"avg_stress"`
	AvgReputation float64                  `json:"avg_reputation"`
	Relationships int                      `json:"relationships"`
	Friendships   int                      `json:"friendships"`
	Feuds         int                      `json:"feuds"`
	ActiveGoals   int                      `json:"active_goals"`
	Events        map[agents.EventType]int `json:"events"`
}

// NewSimulation wires fresh engines from a tuning document. All randomness
// comes from rng.
func NewSimulation(t tuning.Tuning, rng entropy.Source, log *slog.Logger) *Simulation {
	if log == nil {
		log = slog.Default()
	}
	rel := social.NewEngine(t.Relationships, rng, log)
	return &Simulation{
		Goals:         goals.NewEngine(t.Goals, rel, rng, log),
		Relationships: rel,
		NewID:         func() string { return entropy.NewID(rng) },
		MaxEvents:     DefaultMaxEvents,
		log:           log,
		counts:        make(map[agents.EventType]int),
	}
}

// Tick advances every agent to now: goal updates first, one agent at a time,
// then the pairwise interaction pass. A failure inside one agent's update is
// logged and does not stop the tick.
func (s *Simulation) Tick(now time.Time, population []*agents.Agent) []agents.AutonomousEvent {
	var out []agents.AutonomousEvent
	for _, a := range population {
		if a == nil {
			continue
		}
		out = append(out, s.updateAgent(a, population, now)...)
	}
	out = append(out, s.interact(population, now)...)

	s.Ticks++
	s.LastTick = now
	s.record(out)
	return out
}

func (s *Simulation) updateAgent(a *agents.Agent, population []*agents.Agent, now time.Time) (events []agents.AutonomousEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("agent update failed", "agent", a.ID, "panic", fmt.Sprint(r))
			events = nil
		}
	}()
	return s.Goals.Update(a, population, now)
}

func (s *Simulation) interact(population []*agents.Agent, now time.Time) (events []agents.AutonomousEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("interaction pass failed", "panic", fmt.Sprint(r))
			events = nil
		}
	}()
	present := population[:0:0]
	for _, a := range population {
		if a != nil {
			present = append(present, a)
		}
	}
	return s.Relationships.Update(present, now, s.NewID)
}

func (s *Simulation) record(events []agents.AutonomousEvent) {
	for _, ev := range events {
		s.counts[ev.Type]++
	}
	s.Events = append(s.Events, events...)
	// Trim old events to prevent unbounded growth.
	if s.MaxEvents > 0 && len(s.Events) > s.MaxEvents {
		s.Events = append(s.Events[:0], s.Events[len(s.Events)-s.MaxEvents:]...)
	}
}

// ActivityStatus is the read-only per-agent projection the UI renders.
type ActivityStatus struct {
	Activity          agents.Activity `json:"activity"`
	Location          string          `json:"location"`
	GoalCount         int             `json:"goal_count"`
	RelationshipCount int             `json:"relationship_count"`
}

// ActivitySummary projects each agent's current activity.
func ActivitySummary(population []*agents.Agent) map[agents.AgentID]ActivityStatus {
	out := make(map[agents.AgentID]ActivityStatus, len(population))
	for _, a := range population {
		if a == nil {
			continue
		}
		out[a.ID] = ActivityStatus{
			Activity:          a.CurrentActivity,
			Location:          a.ActivityLocation,
			GoalCount:         len(a.CurrentGoals),
			RelationshipCount: len(a.Relationships),
		}
	}
	return out
}

// Collect computes aggregate statistics without touching the event counters.
func (s *Simulation) Collect(population []*agents.Agent) SimStats {
	var st SimStats
	var happy, stress, rep int
	for _, a := range population {
		if a == nil {
			continue
		}
		st.Population++
		happy += a.Needs.Happiness
		stress += a.Mental.Stress
		rep += a.Social.Reputation
		st.ActiveGoals += len(a.CurrentGoals)
		for _, r := range a.Relationships {
			st.Relationships++
			switch r.Type {
			case agents.RelFriend, agents.RelBestFriend:
				st.Friendships++
			case agents.RelRival, agents.RelEnemy:
				st.Feuds++
			}
		}
	}
	if st.Population > 0 {
		n := float64(st.Population)
		st.AvgHappiness = float64(happy) / n
		st.AvgStress = float64(stress) / n
		st.AvgReputation = float64(rep) / n
	}
	st.Events = make(map[agents.EventType]int, len(s.counts))
	for k, v := range s.counts {
		st.Events[k] = v
	}
	return st
}

// Report logs the daily summary and resets the event counters.
func (s *Simulation) Report(population []*agents.Agent, start time.Time) SimStats {
	st := s.Collect(population)
	s.log.Info("daily report",
		"tick", s.Ticks,
		"time", SimTime(start, s.LastTick),
		"population", st.Population,
		"avg_happiness", fmt.Sprintf("%.1f", st.AvgHappiness),
		"avg_stress", fmt.Sprintf("%.1f", st.AvgStress),
		"avg_reputation", fmt.Sprintf("%.1f", st.AvgReputation),
		"relationships", st.Relationships,
		"friendships", st.Friendships,
		"feuds", st.Feuds,
		"active_goals", st.ActiveGoals,
		"events_bonding", st.Events[agents.EventBonding],
		"events_conflict", st.Events[agents.EventConflict],
		"events_goal_completed", st.Events[agents.EventGoalCompleted],
		"events_goal_failed", st.Events[agents.EventGoalFailed],
	)

	// Log recent notable events.
	recentStart := 0
	if len(s.Events) > 20 {
		recentStart = len(s.Events) - 20
	}
	for _, e := range s.Events[recentStart:] {
		if e.Significance >= 6 || e.Type == agents.EventConflict {
			s.log.Info("event", "type", e.Type, "description", e.Description)
		}
	}
	clear(s.counts)
	return st
}
