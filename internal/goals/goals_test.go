package goals

import (
	"fmt"
	"testing"
	"time"

	"github.com/talgya/tamaverse/internal/agents"
	"github.com/talgya/tamaverse/internal/entropy"
	"github.com/talgya/tamaverse/internal/social"
	"github.com/talgya/tamaverse/internal/tuning"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func content(id string) *agents.Agent {
	return &agents.Agent{
		ID:   agents.AgentID(id),
		Name: id,
		Stats: agents.Stats{
			Strength: 10, Agility: 10, Intelligence: 10, Wisdom: 10, Charisma: 10, Constitution: 10,
			Health: 20, MaxHealth: 20,
		},
		Personality: agents.Personality{
			Traits:     agents.BigFive{Openness: 50, Conscientiousness: 50, Extraversion: 50, Agreeableness: 50, Neuroticism: 50},
			Tendencies: agents.Tendencies{Aggression: 50, Curiosity: 50, Loyalty: 50, Independence: 50, Playfulness: 50, Competitiveness: 50},
		},
		Needs:  agents.Needs{Hunger: 100, Happiness: 100, Energy: 100, Cleanliness: 100},
		Mental: agents.MentalState{Stress: 20, Confidence: 50, Satisfaction: 50},
	}
}

func newEngines(src entropy.Source) (*Engine, *social.Engine) {
	t := tuning.Default()
	rel := social.NewEngine(t.Relationships, src, nil)
	e := NewEngine(t.Goals, rel, src, nil)
	n := 0
	e.NewID = func() string {
		n++
		return fmt.Sprintf("g-%d", n)
	}
	return e, rel
}

func checkSlots(t *testing.T, a *agents.Agent) {
	t.Helper()
	if len(a.CurrentGoals) > 3 {
		t.Fatalf("%s holds %d goals", a.ID, len(a.CurrentGoals))
	}
	for i := 1; i < len(a.CurrentGoals); i++ {
		if a.CurrentGoals[i-1].Priority < a.CurrentGoals[i].Priority {
			t.Fatalf("%s goals not sorted: %d before %d", a.ID, a.CurrentGoals[i-1].Priority, a.CurrentGoals[i].Priority)
		}
	}
}

func TestExhaustedAgentRests(t *testing.T) {
	e, _ := newEngines(entropy.NewSeeded(3))
	a := content("a")
	a.Needs.Energy = 15
	e.Fill(a, []*agents.Agent{a}, epoch)
	if !a.HasGoalType(agents.GoalRest) {
		t.Fatalf("expected a rest goal, got %+v", a.CurrentGoals)
	}
	if top := a.TopGoal(); top.Type != agents.GoalRest || top.Priority < 9 {
		t.Fatalf("expected urgent rest on top, got %s/%d", top.Type, top.Priority)
	}
}

func TestContentAgentFallsBackToRest(t *testing.T) {
	e, _ := newEngines(entropy.NewSeeded(3))
	a := content("a")
	e.Update(a, []*agents.Agent{a}, epoch)
	if len(a.CurrentGoals) != 1 || a.CurrentGoals[0].Type != agents.GoalRest {
		t.Fatalf("expected only a rest goal, got %+v", a.CurrentGoals)
	}
	if a.CurrentActivity != agents.ActivityResting || a.ActivityLocation != "den" {
		t.Fatalf("expected resting in the den, got %s at %s", a.CurrentActivity, a.ActivityLocation)
	}
	// A second fill must not stack another rest.
	if added := e.Fill(a, []*agents.Agent{a}, epoch); added != 0 {
		t.Fatalf("expected no new goals, got %d", added)
	}
}

func TestSocialitesSocialize(t *testing.T) {
	src := entropy.NewSeeded(42)
	e, rel := newEngines(src)
	pair := []*agents.Agent{content("a"), content("b")}
	for _, a := range pair {
		a.Personality.Archetype = agents.ArchSocialite
		a.Personality.Traits.Extraversion = 85
		a.Personality.Favorites = []string{"socializing", "bonding"}
	}

	seen := map[agents.AgentID]bool{}
	now := epoch
	for tick := 0; tick < 50; tick++ {
		for _, a := range pair {
			e.Update(a, pair, now)
			checkSlots(t, a)
			if a.HasGoalType(agents.GoalSocialize) {
				seen[a.ID] = true
			}
		}
		rel.Update(pair, now, e.NewID)
		now = now.Add(10 * time.Second)
	}
	for _, a := range pair {
		if !seen[a.ID] {
			t.Fatalf("%s never wanted to socialize", a.ID)
		}
	}
}

func TestAvailability(t *testing.T) {
	e, rel := newEngines(entropy.NewSeeded(1))
	a, b := content("a"), content("b")
	a.Personality.Traits.Extraversion = 85
	present := []*agents.Agent{a, b}

	if got := e.Available(a, []*agents.Agent{a}); contains(got, agents.GoalSocialize) {
		t.Fatalf("socialize needs company, got %v", got)
	}
	if got := e.Available(a, present); !contains(got, agents.GoalSocialize) {
		t.Fatalf("extravert should want to socialize, got %v", got)
	}

	a.Personality.Dislikes = []string{"socializing"}
	if got := e.Available(a, present); contains(got, agents.GoalSocialize) {
		t.Fatalf("disliked activity should be removed, got %v", got)
	}
	a.Personality.Dislikes = nil

	a.Needs.Hunger = 40
	a.Needs.Happiness = 30
	got := e.Available(a, present)
	if !contains(got, agents.GoalGatherResources) || !contains(got, agents.GoalSeekStimulation) {
		t.Fatalf("need thresholds not honored: %v", got)
	}

	a.CurrentGoals = []*agents.Goal{{ID: "held", Type: agents.GoalGatherResources, Priority: 7, CreatedAt: epoch}}
	if got := e.Available(a, present); contains(got, agents.GoalGatherResources) {
		t.Fatalf("held types should be excluded, got %v", got)
	}

	if contains(e.Available(a, present), agents.GoalTeach) {
		t.Fatalf("teaching needs wisdom")
	}
	a.Stats.Wisdom = 16
	if !contains(e.Available(a, present), agents.GoalTeach) {
		t.Fatalf("wise agent with company should be able to teach")
	}

	rel.Adjust(a, b, agents.RelationshipDelta{Strength: -70}, agents.EventConflict, "a feud", epoch)
	got = e.Available(a, present)
	if !contains(got, agents.GoalAvoidEnemy) || !contains(got, agents.GoalResolveConflict) {
		t.Fatalf("enemy should unlock avoid and resolve, got %v", got)
	}
	if contains(got, agents.GoalBond) {
		t.Fatalf("cannot bond with an enemy")
	}
}

func TestTeachGateIsTunable(t *testing.T) {
	e, _ := newEngines(entropy.NewSeeded(1))
	a, b := content("a"), content("b")
	present := []*agents.Agent{a, b}
	a.Stats.Wisdom = 14
	if got := e.Priority(a, agents.GoalTeach); got != 6 {
		t.Fatalf("wisdom 14 should earn the high teach priority, got %d", got)
	}
	if !contains(e.Available(a, present), agents.GoalTeach) {
		t.Fatalf("wisdom 14 should be enough to teach")
	}
	a.Stats.Wisdom = 13
	if got := e.Priority(a, agents.GoalTeach); got != 4 {
		t.Fatalf("wisdom 13 should earn the low teach priority, got %d", got)
	}

	e.cfg.TeachWisdom = 18
	a.Stats.Wisdom = 16
	if contains(e.Available(a, present), agents.GoalTeach) {
		t.Fatalf("raised gate should block teaching")
	}
	if g := e.NewGoal(agents.GoalTeach, a, b, epoch); g.Availability.MinStats[agents.StatWisdom] != 18 {
		t.Fatalf("goal should carry the tuned wisdom gate, got %v", g.Availability.MinStats)
	}
}

func TestTargetedGoalPicksEnemy(t *testing.T) {
	e, rel := newEngines(entropy.NewSeeded(1))
	a, b := content("a"), content("b")
	rel.Adjust(a, b, agents.RelationshipDelta{Strength: -70}, agents.EventConflict, "a feud", epoch)
	g := e.NewGoal(agents.GoalAvoidEnemy, a, b, epoch)
	if g.TargetID != "b" || g.SkillCheck == nil || g.TimeRequired == 0 {
		t.Fatalf("unexpected goal %+v", g)
	}
	if !conditionsMet(a, b, g.Availability) {
		t.Fatalf("enemy relationship should satisfy avoid_enemy")
	}
	if conditionsMet(a, nil, g.Availability) {
		t.Fatalf("targeted requirement without target must fail")
	}
}

func TestExpiry(t *testing.T) {
	e, _ := newEngines(entropy.NewSeeded(1))
	a := content("a")
	a.CurrentGoals = []*agents.Goal{
		{ID: "old", Type: agents.GoalExplore, Priority: 6, CreatedAt: epoch.Add(-6 * time.Minute)},
		{ID: "unknown", Type: agents.GoalCreate, Priority: 5},
		{ID: "future", Type: agents.GoalRest, Priority: 3, CreatedAt: epoch.Add(time.Hour)},
	}
	events := e.Expire(a, epoch)
	if len(events) != 1 || events[0].Type != agents.EventGoalExpired {
		t.Fatalf("expected one expiry event, got %+v", events)
	}
	if len(a.CurrentGoals) != 2 || a.CurrentGoals[0].ID != "unknown" {
		t.Fatalf("unexpected survivors %+v", a.CurrentGoals)
	}
	rec := a.GoalHistory[0]
	if rec.GoalID != "old" || rec.Outcome != agents.OutcomeFailure || rec.Note != "Goal expired" {
		t.Fatalf("unexpected history %+v", rec)
	}
	if age := e.Age(a.CurrentGoals[0], epoch); age != time.Minute {
		t.Fatalf("missing timestamp should read as fallback age, got %v", age)
	}
}

func TestProcessWaitsForTimeRequired(t *testing.T) {
	e, _ := newEngines(entropy.NewFixed(0))
	a := content("a")
	a.Needs.Energy = 15
	present := []*agents.Agent{a}

	e.Update(a, present, epoch)
	rest := a.TopGoal()
	if rest == nil || rest.TimeRequired != 15 {
		t.Fatalf("expected a 15 minute rest, got %+v", rest)
	}
	if evs := e.Update(a, present, epoch.Add(15*time.Second)); len(evs) != 0 {
		t.Fatalf("goal must not finish before its time, got %+v", evs)
	}
	evs := e.Update(a, present, epoch.Add(16*time.Second))
	if len(evs) != 1 || evs[0].Type != agents.EventGoalCompleted {
		t.Fatalf("expected completion, got %+v", evs)
	}
	if a.Needs.Energy != 45 {
		t.Fatalf("rest should restore energy, got %d", a.Needs.Energy)
	}
	if len(a.CurrentGoals) != 0 || a.CurrentActivity != agents.ActivityResting {
		t.Fatalf("expected empty slots and resting, got %+v / %s", a.CurrentGoals, a.CurrentActivity)
	}
	if !a.ActivityStartTime.Equal(epoch.Add(16 * time.Second)) {
		t.Fatalf("activity start should reset on completion")
	}
}

func trainingAgent(src entropy.Source) (*Engine, *agents.Agent) {
	e, _ := newEngines(src)
	a := content("a")
	a.Needs.Happiness = 50
	g := &agents.Goal{
		ID:             "train",
		Type:           agents.GoalTrainSkill,
		Priority:       7,
		SkillCheck:     &agents.SkillCheck{Skill: agents.SkillAthletics, Difficulty: 12, CriticalSuccess: 20},
		TimeRequired:   1,
		Rewards:        agents.Effects{Mood: 10, SkillGains: map[agents.Skill]int{agents.SkillAthletics: 1}},
		FailureEffects: agents.Effects{Mood: -4, Stress: 6},
		CreatedAt:      epoch,
	}
	a.CurrentGoals = []*agents.Goal{g}
	a.ActivityGoalID = g.ID
	a.ActivityStartTime = epoch
	return e, a
}

func TestCriticalSuccessDoublesSkillAndScalesMood(t *testing.T) {
	// Completion roll passes, then the d20 lands on 20.
	e, a := trainingAgent(entropy.NewFixed(0, 0.99))
	ev, ok := e.Process(a, []*agents.Agent{a}, epoch.Add(2*time.Second))
	if !ok || ev.Type != agents.EventGoalCompleted {
		t.Fatalf("expected completion, got %+v", ev)
	}
	if got := a.Stats.Skills.Get(agents.SkillAthletics); got != 2 {
		t.Fatalf("critical should double skill gain, got %d", got)
	}
	if a.Needs.Happiness != 65 {
		t.Fatalf("critical should scale mood by 1.5, happiness %d", a.Needs.Happiness)
	}
	rec := a.GoalHistory[0]
	if rec.Outcome != agents.OutcomeCritical || rec.Roll != 20 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if a.Mental.LastMajorEvent == nil {
		t.Fatalf("critical success should be a major event")
	}
}

func TestFailedSkillCheckAppliesFailureEffects(t *testing.T) {
	e, a := trainingAgent(entropy.NewFixed(0, 0))
	ev, ok := e.Process(a, []*agents.Agent{a}, epoch.Add(2*time.Second))
	if !ok || ev.Type != agents.EventGoalFailed {
		t.Fatalf("expected failure, got %+v", ev)
	}
	if a.Needs.Happiness != 46 || a.Mental.Stress != 26 {
		t.Fatalf("failure bundle not applied: happiness %d stress %d", a.Needs.Happiness, a.Mental.Stress)
	}
	if a.Stats.Skills.Get(agents.SkillAthletics) != 0 {
		t.Fatalf("failure must not grant skill")
	}
	if len(a.GoalHistory) != 1 || a.GoalHistory[0].Outcome != agents.OutcomeFailure {
		t.Fatalf("failure should still be recorded: %+v", a.GoalHistory)
	}
}

func TestCompleteRoundTrip(t *testing.T) {
	e, _ := newEngines(entropy.NewSeeded(9))
	a := content("a")
	e.Fill(a, []*agents.Agent{a}, epoch)
	g := a.TopGoal()
	if _, ok := e.Complete(a, g.ID, agents.OutcomeSuccess, nil, epoch); !ok {
		t.Fatalf("expected completion of %s", g.ID)
	}
	count := 0
	for _, rec := range a.GoalHistory {
		if rec.GoalID == g.ID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("goal should appear once in history, got %d", count)
	}
	for _, cur := range a.CurrentGoals {
		if cur.ID == g.ID {
			t.Fatalf("completed goal still active")
		}
	}
	if _, ok := e.Complete(a, g.ID, agents.OutcomeSuccess, nil, epoch); ok {
		t.Fatalf("completing twice must fail")
	}
}

func TestSocializeRewardReachesBothDirections(t *testing.T) {
	e, _ := newEngines(entropy.NewSeeded(5))
	a, b := content("a"), content("b")
	present := []*agents.Agent{a, b}
	g := e.NewGoal(agents.GoalSocialize, a, b, epoch)
	a.CurrentGoals = []*agents.Goal{g}
	ev, ok := e.Complete(a, g.ID, agents.OutcomeSuccess, present, epoch)
	if !ok || len(ev.Participants) != 2 {
		t.Fatalf("expected a two-party event, got %+v", ev)
	}
	if a.Relationship("b").Strength != 3 || b.Relationship("a").Strength != 3 {
		t.Fatalf("relationship reward should be symmetric")
	}
}

func TestGoalRewardRestartsDecayClock(t *testing.T) {
	e, rel := newEngines(entropy.NewSeeded(5))
	a, b := content("a"), content("b")
	present := []*agents.Agent{a, b}
	rel.Ensure(a, b, epoch.Add(-72*time.Hour))

	g := e.NewGoal(agents.GoalSocialize, a, b, epoch)
	a.CurrentGoals = []*agents.Goal{g}
	if _, ok := e.Complete(a, g.ID, agents.OutcomeSuccess, present, epoch); !ok {
		t.Fatalf("expected completion")
	}
	for _, r := range []*agents.Relationship{a.Relationship("b"), b.Relationship("a")} {
		if !r.LastInteraction.Equal(epoch) || !r.LastDecay.Equal(epoch) {
			t.Fatalf("goal outcome should count as an interaction, got %v / %v", r.LastInteraction, r.LastDecay)
		}
		if len(r.History) != 1 || r.History[0].Type != agents.EventGoalCompleted || r.History[0].Impact != 3 {
			t.Fatalf("expected one goal event in history, got %+v", r.History)
		}
	}

	ab := a.Relationship("b")
	if lost := rel.Decay(ab, epoch.Add(time.Minute)); lost != 0 || ab.Strength != 3 {
		t.Fatalf("fresh reward decayed: lost %d, strength %d", lost, ab.Strength)
	}
}

func TestForcedExpiryRecordsFailure(t *testing.T) {
	e, _ := newEngines(entropy.NewSeeded(5))
	a := content("a")
	g := e.NewGoal(agents.GoalRest, a, nil, epoch)
	a.CurrentGoals = []*agents.Goal{g}
	ev, ok := e.Complete(a, g.ID, agents.OutcomeExpired, nil, epoch)
	if !ok || ev.Type != agents.EventGoalFailed {
		t.Fatalf("expected a failure event, got %+v", ev)
	}
	rec := a.GoalHistory[len(a.GoalHistory)-1]
	if rec.Outcome != agents.OutcomeFailure || rec.Note != "Goal expired" {
		t.Fatalf("expiry should be recorded as a failure, got %+v", rec)
	}
}

func TestHistoryIsBounded(t *testing.T) {
	e, _ := newEngines(entropy.NewSeeded(5))
	a := content("a")
	last := ""
	for i := 0; i < 30; i++ {
		g := e.NewGoal(agents.GoalRest, a, nil, epoch)
		a.CurrentGoals = []*agents.Goal{g}
		e.Complete(a, g.ID, agents.OutcomeSuccess, nil, epoch)
		last = g.ID
	}
	if len(a.GoalHistory) != 20 {
		t.Fatalf("expected 20 history entries, got %d", len(a.GoalHistory))
	}
	if a.GoalHistory[19].GoalID != last {
		t.Fatalf("expected newest last, got %s", a.GoalHistory[19].GoalID)
	}
}

func TestInvariantsAcrossPopulation(t *testing.T) {
	src := entropy.NewSeeded(11)
	e, rel := newEngines(src)
	pop := agents.NewSpawner(src).SpawnPopulation(8)
	now := epoch
	for tick := 0; tick < 300; tick++ {
		for i, a := range pop {
			if tick%7 == i%7 {
				a.Needs.Energy -= 9
				a.Needs.Hunger -= 7
				a.Needs.Clamp()
			}
			e.Update(a, pop, now)
			checkSlots(t, a)
			top := a.TopGoal()
			if top != nil && a.CurrentActivity != ActivityFor(top.Type) {
				t.Fatalf("activity %s does not mirror top goal %s", a.CurrentActivity, top.Type)
			}
			if len(a.GoalHistory) > 20 {
				t.Fatalf("history overflow: %d", len(a.GoalHistory))
			}
		}
		rel.Update(pop, now, e.NewID)
		now = now.Add(20 * time.Second)
	}
}

func TestActivityMapping(t *testing.T) {
	cases := map[agents.GoalType]agents.Activity{
		agents.GoalSocialize:       agents.ActivitySocializing,
		agents.GoalTrainSkill:      agents.ActivityTraining,
		agents.GoalGatherResources: agents.ActivityExploring,
		agents.GoalType("unknown"): agents.ActivityResting,
	}
	for goal, want := range cases {
		if got := ActivityFor(goal); got != want {
			t.Errorf("%s: got %s want %s", goal, got, want)
		}
	}
	for _, gt := range agents.GoalTypes {
		if _, ok := recipes[gt]; !ok {
			t.Errorf("no recipe for %s", gt)
		}
	}
}

func contains(list []agents.GoalType, t agents.GoalType) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}
