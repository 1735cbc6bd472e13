package goals

import (
	"fmt"
	"math"
	"time"

	"github.com/talgya/tamaverse/internal/agents"
	"github.com/talgya/tamaverse/internal/entropy"
)

// Process tries to finish the top goal. It completes once the goal's time
// has elapsed since the activity started and the completion roll passes.
func (e *Engine) Process(a *agents.Agent, present []*agents.Agent, now time.Time) (agents.AutonomousEvent, bool) {
	g := a.TopGoal()
	if g == nil || g.ID != a.ActivityGoalID {
		return agents.AutonomousEvent{}, false
	}
	required := time.Duration(g.TimeRequired) * e.cfg.MinuteScale
	if now.Sub(a.ActivityStartTime) <= required {
		return agents.AutonomousEvent{}, false
	}
	if !entropy.Chance(e.rng, e.cfg.CompletionChance) {
		return agents.AutonomousEvent{}, false
	}
	outcome, roll := e.roll(a, g)
	return e.finish(a, g, outcome, roll, present, now), true
}

// roll resolves a goal's skill check: d20 plus the skill rank against the
// difficulty. Goals without a check always succeed.
func (e *Engine) roll(a *agents.Agent, g *agents.Goal) (agents.Outcome, int) {
	sc := g.SkillCheck
	if sc == nil {
		return agents.OutcomeSuccess, 0
	}
	total := entropy.D20(e.rng) + a.Stats.Skills.Get(sc.Skill)
	switch {
	case sc.CriticalSuccess > 0 && total >= sc.CriticalSuccess:
		return agents.OutcomeCritical, total
	case total >= sc.Difficulty:
		return agents.OutcomeSuccess, total
	default:
		return agents.OutcomeFailure, total
	}
}

// Complete force-resolves goal id with the given outcome. Success outcomes
// apply the reward bundle, failure applies the failure bundle, expired
// applies nothing. Returns false when a holds no such goal.
func (e *Engine) Complete(a *agents.Agent, id string, outcome agents.Outcome, present []*agents.Agent, now time.Time) (agents.AutonomousEvent, bool) {
	for _, g := range a.CurrentGoals {
		if g.ID == id {
			return e.finish(a, g, outcome, 0, present, now), true
		}
	}
	return agents.AutonomousEvent{}, false
}

func (e *Engine) finish(a *agents.Agent, g *agents.Goal, outcome agents.Outcome, roll int, present []*agents.Agent, now time.Time) agents.AutonomousEvent {
	target := find(present, g.TargetID)
	critical := outcome == agents.OutcomeCritical

	kind := agents.EventGoalCompleted
	verb := "finished"
	significance := 3
	switch outcome {
	case agents.OutcomeCritical:
		verb = "brilliantly finished"
		significance = 6
	case agents.OutcomeFailure, agents.OutcomeExpired:
		kind = agents.EventGoalFailed
		verb = "failed at"
		significance = 2
	}
	desc := fmt.Sprintf("%s %s %q", a.Name, verb, g.Description)

	var impacts []agents.Impact
	switch {
	case outcome.Succeeded():
		impacts = e.apply(a, target, g.Rewards, critical, kind, desc, now)
	case outcome == agents.OutcomeFailure:
		impacts = e.apply(a, target, g.FailureEffects, false, kind, desc, now)
	}

	note := ""
	recorded := outcome
	switch outcome {
	case agents.OutcomeCritical:
		note = "Critical success"
		a.Mental.AdjustConfidence(5)
		a.Mental.LastMajorEvent = &agents.MajorEvent{At: now, Description: g.Description, Impact: g.Rewards.Mood}
	case agents.OutcomeSuccess:
		a.Mental.AdjustConfidence(2)
	case agents.OutcomeFailure:
		note = "Failed"
		a.Mental.AdjustConfidence(-2)
	case agents.OutcomeExpired:
		note = "Goal expired"
		recorded = agents.OutcomeFailure
	}

	agents.AddGoalRecord(a, agents.GoalRecord{
		GoalID:      g.ID,
		Type:        g.Type,
		TargetID:    g.TargetID,
		Outcome:     recorded,
		Roll:        roll,
		Note:        note,
		CompletedAt: now,
	}, e.cfg.HistorySize)
	removeGoal(a, g.ID)

	// The next goal starts fresh.
	a.ActivityGoalID = ""
	a.ActivityStartTime = now
	syncActivity(a, now)

	e.log.Debug("goal resolved", "agent", a.ID, "goal", g.Type, "outcome", outcome, "roll", roll)

	participants := []agents.AgentID{a.ID}
	if target != nil {
		participants = append(participants, target.ID)
	}
	return agents.AutonomousEvent{
		ID:           e.NewID(),
		Timestamp:    now,
		Type:         kind,
		Participants: participants,
		Location:     LocationFor(ActivityFor(g.Type)),
		Description:  desc,
		Impact:       impacts,
		Significance: significance,
	}
}

// apply lands an effect bundle on a and, for relationship deltas, on the
// a↔target bond, recorded there as a kind event. critical scales mood and
// doubles skill gains.
func (e *Engine) apply(a, target *agents.Agent, fx agents.Effects, critical bool, kind agents.EventType, desc string, now time.Time) []agents.Impact {
	var impacts []agents.Impact
	note := func(field string, delta int) {
		if delta != 0 {
			impacts = append(impacts, agents.Impact{AgentID: a.ID, Field: field, Delta: delta})
		}
	}

	mood := fx.Mood
	if critical {
		mood = int(math.Round(float64(mood) * e.cfg.CriticalMood))
	}
	needs := fx.Needs
	needs.Happiness += mood
	before := a.Needs
	a.Needs.Apply(needs)
	note("happiness", a.Needs.Happiness-before.Happiness)
	note("hunger", a.Needs.Hunger-before.Hunger)
	note("energy", a.Needs.Energy-before.Energy)
	note("cleanliness", a.Needs.Cleanliness-before.Cleanliness)
	a.Mental.AdjustSatisfaction(mood / 2)

	if fx.Stress != 0 {
		s := a.Mental.Stress
		a.Mental.AdjustStress(fx.Stress)
		note("stress", a.Mental.Stress-s)
	}

	for stat, d := range fx.StatGains {
		a.Stats.Add(stat, d)
		note(stat.String(), d)
	}
	mult := 1
	if critical {
		mult = e.cfg.CriticalSkill
	}
	for skill, d := range fx.SkillGains {
		a.Stats.Skills.Add(skill, d*mult)
		note(skill.String(), d*mult)
	}

	if fx.Relationship != nil && target != nil && e.rel != nil {
		e.rel.Adjust(a, target, *fx.Relationship, kind, desc, now)
		if fx.Relationship.Strength != 0 {
			impacts = append(impacts,
				agents.Impact{AgentID: a.ID, Field: "strength", Delta: fx.Relationship.Strength},
				agents.Impact{AgentID: target.ID, Field: "strength", Delta: fx.Relationship.Strength})
		}
	}

	a.Items = append(a.Items, fx.Items...)
	return impacts
}

func find(present []*agents.Agent, id agents.AgentID) *agents.Agent {
	if id == "" {
		return nil
	}
	for _, o := range present {
		if o != nil && o.ID == id {
			return o
		}
	}
	return nil
}
