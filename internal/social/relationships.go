// Package social runs relationship dynamics: lazy bond creation, daily decay,
// spontaneous pairwise interactions and symmetric adjustments requested by
// goal outcomes.
package social

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/talgya/tamaverse/internal/agents"
	"github.com/talgya/tamaverse/internal/compat"
	"github.com/talgya/tamaverse/internal/entropy"
	"github.com/talgya/tamaverse/internal/tuning"
)

const day = 24 * time.Hour

// Engine owns relationship mutation. Every pair update runs under mu so the
// two directions of a bond always change together.
type Engine struct {
	cfg tuning.Relationships
	rng entropy.Source
	log *slog.Logger

	mu sync.Mutex
}

// NewEngine creates a relationship engine.
func NewEngine(cfg tuning.Relationships, rng entropy.Source, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{cfg: cfg, rng: rng, log: log}
}

// Ensure materializes both directions of the a↔b bond, seeding the
// descriptive scalars from personality and stats on first contact.
func (e *Engine) Ensure(a, b *agents.Agent, now time.Time) (ab, ba *agents.Relationship) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ensurePair(a, b, now)
}

func ensurePair(a, b *agents.Agent, now time.Time) (ab, ba *agents.Relationship) {
	ab = ensureOne(a, b, now)
	ba = ensureOne(b, a, now)
	return ab, ba
}

func ensureOne(from, to *agents.Agent, now time.Time) *agents.Relationship {
	if from.Relationships == nil {
		from.Relationships = make(map[agents.AgentID]*agents.Relationship)
	}
	if r, ok := from.Relationships[to.ID]; ok {
		return r
	}
	r := agents.NewRelationship(to.ID, now)
	r.PersonalityCompatibility = compat.PersonalityCompatibility(from, to)
	r.StatComplementarity = compat.StatComplementarity(from, to)
	r.SharedInterests = compat.SharedInterests(from, to)
	from.Relationships[to.ID] = r
	return r
}

// Decay reduces strength by whole days elapsed since the later of the last
// interaction and the last decay checkpoint. Returns the strength removed.
func (e *Engine) Decay(r *agents.Relationship, now time.Time) int {
	since := r.LastInteraction
	if r.LastDecay.After(since) {
		since = r.LastDecay
	}
	elapsed := now.Sub(since)
	if elapsed <= day {
		return 0
	}
	days := int(elapsed / day)
	before := r.Strength
	r.Adjust(-days*e.cfg.DecayPerDay, 0, 0)
	r.LastDecay = since.Add(time.Duration(days) * day)
	return before - r.Strength
}

// InteractionChance is the probability a and b interact this tick.
func (e *Engine) InteractionChance(a, b *agents.Agent) float64 {
	c := e.cfg
	p := c.BaseChance
	for _, x := range []*agents.Agent{a, b} {
		if x.Personality.Traits.Extraversion > c.TraitThreshold {
			p += c.ExtravertBonus
		}
		if x.Personality.Traits.Agreeableness > c.TraitThreshold {
			p += c.AgreeableBonus
		}
		if x.Mental.Stress > c.StressThreshold {
			p -= c.StressPenalty
		}
	}

	// History bias: friendly bonds seek each other out, hostile ones less so.
	strength := pairStrength(a, b)
	if strength > 0 {
		p += float64(strength) / 2 / 100
	} else {
		p += float64(strength) / 4 / 100
	}

	if a.CurrentActivity != "" && a.CurrentActivity == b.CurrentActivity {
		p += c.SharedActivityBonus
	}

	if p < 0 {
		return 0
	}
	if p > c.MaxChance {
		return c.MaxChance
	}
	return p
}

func pairStrength(a, b *agents.Agent) int {
	ab, ba := a.Relationship(b.ID), b.Relationship(a.ID)
	switch {
	case ab != nil && ba != nil:
		return (ab.Strength + ba.Strength) / 2
	case ab != nil:
		return ab.Strength
	case ba != nil:
		return ba.Strength
	}
	return 0
}

// ClassifyInteraction decides what kind of interaction a and b have.
func ClassifyInteraction(a, b *agents.Agent) agents.EventType {
	pc := compat.PersonalityCompatibility(a, b)
	aggressive := a.Personality.Tendencies.Aggression > 70 || b.Personality.Tendencies.Aggression > 70
	switch {
	case pc < 30 || (aggressive && pc < 50):
		return agents.EventConflict
	case a.Personality.Tendencies.Competitiveness > 60 && b.Personality.Tendencies.Competitiveness > 60:
		return agents.EventCompetition
	case pc > 70:
		return agents.EventBonding
	default:
		return agents.EventCooperation
	}
}

// Update runs one tick of relationship dynamics over every unordered pair of
// present agents: materialize, decay, then roll a spontaneous interaction.
func (e *Engine) Update(present []*agents.Agent, now time.Time, newID func() string) []agents.AutonomousEvent {
	var events []agents.AutonomousEvent
	if len(present) < 2 {
		return nil
	}
	for i := 0; i < len(present); i++ {
		for j := i + 1; j < len(present); j++ {
			a, b := present[i], present[j]
			if a.ID == b.ID {
				continue
			}
			if ev, ok := e.step(a, b, present, now, newID); ok {
				events = append(events, ev)
			}
		}
	}
	return events
}

// step is one pair transaction.
func (e *Engine) step(a, b *agents.Agent, present []*agents.Agent, now time.Time, newID func() string) (agents.AutonomousEvent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ab, ba := ensurePair(a, b, now)
	if lost := e.Decay(ab, now) + e.Decay(ba, now); lost > 0 {
		e.log.Debug("relationship decayed", "a", a.ID, "b", b.ID, "strength_lost", lost)
	}

	if !entropy.Chance(e.rng, e.InteractionChance(a, b)) {
		return agents.AutonomousEvent{}, false
	}
	return e.interact(a, b, ab, ba, present, now, newID), true
}

func (e *Engine) interact(a, b *agents.Agent, ab, ba *agents.Relationship, present []*agents.Agent, now time.Time, newID func() string) agents.AutonomousEvent {
	kind := ClassifyInteraction(a, b)
	m := entropy.Between(e.rng, e.cfg.MinImpact, e.cfg.MaxImpact)

	var d agents.RelationshipDelta
	var coop, conflict int
	var desc string
	switch kind {
	case agents.EventBonding:
		d = agents.RelationshipDelta{Strength: m, Trust: m / 2}
		desc = fmt.Sprintf("%s and %s shared a warm moment", a.Name, b.Name)
	case agents.EventCooperation:
		d = agents.RelationshipDelta{Strength: m / 2, Trust: m}
		coop = m
		desc = fmt.Sprintf("%s and %s worked together", a.Name, b.Name)
	case agents.EventCompetition:
		d = agents.RelationshipDelta{Respect: m}
		conflict = m / 2
		desc = fmt.Sprintf("%s and %s challenged each other", a.Name, b.Name)
	default:
		d = agents.RelationshipDelta{Strength: -m, Trust: -(m / 2)}
		conflict = m
		desc = fmt.Sprintf("%s and %s got into an argument", a.Name, b.Name)
	}

	var witnesses []agents.AgentID
	for _, w := range present {
		if w.ID != a.ID && w.ID != b.ID {
			witnesses = append(witnesses, w.ID)
		}
	}

	signed := d.Strength
	if kind == agents.EventCompetition {
		signed = d.Respect
	}
	for _, r := range []*agents.Relationship{ab, ba} {
		r.Adjust(d.Strength, d.Trust, d.Respect)
		r.AdjustLevels(coop, conflict)
		r.InteractionFrequency = agents.Clamp(r.InteractionFrequency+1, 0, 100)
		r.Stability = nudge(r.Stability, 100-2*m)
		r.LastInteraction = now
		r.LastDecay = now
		r.Record(agents.RelationshipEvent{
			At:          now,
			Type:        kind,
			Impact:      signed,
			Description: desc,
			Witnesses:   witnesses,
		}, e.cfg.HistoryLimit)
	}

	location := "commons"
	if a.CurrentActivity == b.CurrentActivity && a.ActivityLocation != "" {
		location = a.ActivityLocation
	}

	e.log.Debug("interaction", "type", kind, "a", a.ID, "b", b.ID, "magnitude", m)

	return agents.AutonomousEvent{
		ID:           newID(),
		Timestamp:    now,
		Type:         kind,
		Participants: []agents.AgentID{a.ID, b.ID},
		Location:     location,
		Description:  desc,
		Impact:       deltaImpacts(a.ID, b.ID, d),
		Significance: m,
	}
}

// Adjust applies d to both directions of the a↔b bond, creating it if needed,
// and records the change as a kind event in both histories. It counts as an
// interaction, so the decay clock restarts at now.
func (e *Engine) Adjust(a, b *agents.Agent, d agents.RelationshipDelta, kind agents.EventType, desc string, now time.Time) {
	if a == nil || b == nil || a.ID == b.ID {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	ab, ba := ensurePair(a, b, now)
	for _, r := range []*agents.Relationship{ab, ba} {
		r.Adjust(d.Strength, d.Trust, d.Respect)
		if d.Strength < 0 {
			r.AdjustLevels(0, -d.Strength)
		} else if d.Strength > 0 {
			// Positive outcomes ease lingering conflict.
			r.AdjustLevels(d.Strength, -d.Strength)
		}
		r.LastInteraction = now
		r.LastDecay = now
		r.Record(agents.RelationshipEvent{
			At:          now,
			Type:        kind,
			Impact:      d.Strength,
			Description: desc,
		}, e.cfg.HistoryLimit)
	}
}

func deltaImpacts(a, b agents.AgentID, d agents.RelationshipDelta) []agents.Impact {
	var out []agents.Impact
	for _, id := range []agents.AgentID{a, b} {
		if d.Strength != 0 {
			out = append(out, agents.Impact{AgentID: id, Field: "strength", Delta: d.Strength})
		}
		if d.Trust != 0 {
			out = append(out, agents.Impact{AgentID: id, Field: "trust", Delta: d.Trust})
		}
		if d.Respect != 0 {
			out = append(out, agents.Impact{AgentID: id, Field: "respect", Delta: d.Respect})
		}
	}
	return out
}

// nudge moves v a quarter of the way toward target.
func nudge(v, target int) int {
	return agents.Clamp(v+(target-v)/4, 0, 100)
}
