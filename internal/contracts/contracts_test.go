package contracts

import (
	"testing"
	"time"

	"github.com/talgya/tamaverse/internal/agents"
	"github.com/talgya/tamaverse/internal/compat"
	"github.com/talgya/tamaverse/internal/economy"
	"github.com/talgya/tamaverse/internal/entropy"
	"github.com/talgya/tamaverse/internal/tuning"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func tama(id string) *agents.Agent {
	return &agents.Agent{
		ID:   agents.AgentID(id),
		Name: id,
		Stats: agents.Stats{
			Strength: 10, Agility: 10, Intelligence: 10,
			Wisdom: 10, Charisma: 10, Constitution: 10,
			Health: 100, MaxHealth: 100,
		},
		Personality: agents.Personality{
			Traits:     agents.BigFive{Openness: 50, Conscientiousness: 50, Extraversion: 50, Agreeableness: 50, Neuroticism: 50},
			Tendencies: agents.Tendencies{Aggression: 50, Curiosity: 50, Loyalty: 50, Independence: 50, Playfulness: 50, Competitiveness: 50},
		},
		Needs:         agents.Needs{Hunger: 80, Happiness: 80, Energy: 80, Cleanliness: 80},
		Mental:        agents.MentalState{Stress: 20, Confidence: 50, Satisfaction: 50},
		Social:        agents.SocialStatus{Reputation: 50},
		AutonomyLevel: 80,
		Relationships: map[agents.AgentID]*agents.Relationship{},
	}
}

func scholar(id string) *agents.Agent {
	a := tama(id)
	a.Personality.Archetype = agents.ArchScholar
	a.Personality.Traits.Openness = 80
	a.Stats.Intelligence = 14
	a.Stats.Wisdom = 12
	a.Stats.Skills.Add(agents.SkillInvestigation, 3)
	a.Stats.Skills.Add(agents.SkillArcana, 2)
	return a
}

func newGenerator() *Generator {
	return NewGenerator(tuning.Default().Contracts, entropy.NewSeeded(1), nil)
}

func newBoard(population ...*agents.Agent) *Board {
	return NewBoard(tuning.Default().Contracts, NewRoster(population), nil)
}

func TestCombatExpertOutclassesWeakAgent(t *testing.T) {
	c := newGenerator().Competition(Options{Tier: TierMaster, Combat: true, Now: epoch})
	if c.Requirements.MinStats[agents.StatStrength] != 18 {
		t.Fatalf("expected strength 18 at expert level, got %v", c.Requirements.MinStats)
	}
	if c.Competition.SkillLevel != "expert" || c.Competition.InjuryRisk != 65 {
		t.Fatalf("unexpected event details: %+v", c.Competition)
	}
	a := tama("a")
	a.Stats.Strength = 12
	comp := Evaluate(a, c)
	if comp.StatCompatibility >= 50 {
		t.Fatalf("expected stat compatibility < 50, got %v", comp.StatCompatibility)
	}
	if comp.OverallScore >= 50 {
		t.Fatalf("expected overall < 50, got %v", comp.OverallScore)
	}
}

func TestAssignmentIsExclusive(t *testing.T) {
	a, b := tama("a"), tama("b")
	board := newBoard(a, b)
	c := newGenerator().Research(Options{Now: epoch})
	if !board.Post(c) {
		t.Fatalf("post failed")
	}
	if !board.Assign(c.ID, a.ID) {
		t.Fatalf("first assignment should succeed")
	}
	if board.Assign(c.ID, b.ID) {
		t.Fatalf("second assignment should fail")
	}
	got, _ := board.Get(c.ID)
	if got.AssignedTamaID != a.ID || got.Status != StatusAssigned {
		t.Fatalf("expected assigned to a, got %+v", got)
	}
}

func TestSweepCancelsExpired(t *testing.T) {
	a := tama("a")
	board := newBoard(a)
	gen := newGenerator()
	stale := gen.Economic(Options{Now: epoch.Add(-100 * time.Hour)})
	fresh := gen.Economic(Options{Now: epoch})
	taken := gen.Care(Options{Now: epoch.Add(-100 * time.Hour)})
	for _, c := range []*Contract{stale, fresh, taken} {
		board.Post(c)
	}
	board.Assign(taken.ID, a.ID)

	ids := board.Sweep(epoch)
	if len(ids) != 1 || ids[0] != stale.ID {
		t.Fatalf("expected only the stale contract swept, got %v", ids)
	}
	got, _ := board.Get(stale.ID)
	if got.Status != StatusCancelled || got.CancelReason != "expired" {
		t.Fatalf("expected cancelled/expired, got %s/%s", got.Status, got.CancelReason)
	}
	if got, _ := board.Get(taken.ID); got.Status != StatusAssigned {
		t.Fatalf("assigned contracts are not swept, got %s", got.Status)
	}
	if again := board.Sweep(epoch); len(again) != 0 {
		t.Fatalf("second sweep should be empty, got %v", again)
	}
}

func TestLifecycleTransitions(t *testing.T) {
	a, b := tama("a"), tama("b")
	board := newBoard(a, b)
	c := newGenerator().Competition(Options{Tier: TierMaster, Now: epoch})
	board.Post(c)

	if board.Start(c.ID, epoch) {
		t.Fatalf("start requires assigned")
	}
	if board.Assign(c.ID, "ghost") {
		t.Fatalf("unknown agent should be rejected")
	}
	if board.Assign("missing", a.ID) {
		t.Fatalf("unknown contract should be rejected")
	}
	if !board.Assign(c.ID, a.ID) || !board.Start(c.ID, epoch) {
		t.Fatalf("assign/start failed")
	}
	if board.Complete(c.ID, b, true, epoch) {
		t.Fatalf("only the assignee can complete")
	}
	if !board.Complete(c.ID, a, true, epoch.Add(time.Hour)) {
		t.Fatalf("complete failed")
	}
	got, _ := board.Get(c.ID)
	if got.Status != StatusCompleted || got.Payout != 450 {
		t.Fatalf("expected completed with payout 450, got %s/%d", got.Status, got.Payout)
	}
	if a.Social.Reputation != 65 {
		t.Fatalf("expected reputation 50+15, got %d", a.Social.Reputation)
	}
	if board.Complete(c.ID, a, true, epoch) || board.Cancel(c.ID, "late", epoch) {
		t.Fatalf("terminal contracts accept no transitions")
	}
}

func TestFailureAppliesScaledPenalty(t *testing.T) {
	a := tama("a")
	board := newBoard(a)
	c := newGenerator().Care(Options{Tier: TierStandard, Now: epoch})
	board.Post(c)
	board.Assign(c.ID, a.ID)
	board.Start(c.ID, epoch)
	if !board.Complete(c.ID, a, false, epoch) {
		t.Fatalf("complete failed")
	}
	got, _ := board.Get(c.ID)
	if got.Status != StatusFailed || got.Payout != 0 {
		t.Fatalf("expected failed without payout, got %s/%d", got.Status, got.Payout)
	}
	if a.Social.Reputation != 45 {
		t.Fatalf("expected reputation 50-5, got %d", a.Social.Reputation)
	}
}

func TestCancelFromNonTerminal(t *testing.T) {
	a := tama("a")
	board := newBoard(a)
	gen := newGenerator()
	avail, assigned, active := gen.Adoption(Options{Now: epoch}), gen.Adoption(Options{Now: epoch}), gen.Adoption(Options{Now: epoch})
	for _, c := range []*Contract{avail, assigned, active} {
		board.Post(c)
	}
	board.Assign(assigned.ID, a.ID)
	board.Assign(active.ID, a.ID)
	board.Start(active.ID, epoch)
	for _, c := range []*Contract{avail, assigned, active} {
		if !board.Cancel(c.ID, "withdrawn", epoch) {
			t.Fatalf("cancel from %s should succeed", c.Status)
		}
	}
	if n := len(board.List(StatusCancelled)); n != 3 {
		t.Fatalf("expected 3 cancelled, got %d", n)
	}
	if board.Post(avail) {
		t.Fatalf("duplicate post should fail")
	}
}

func TestScalingIsMonotonic(t *testing.T) {
	gen := newGenerator()
	a := tama("a")
	for _, cat := range compat.Categories {
		var prev *Contract
		prevRisk := -1
		for tier := TierNovice; tier < numTiers; tier++ {
			c, err := gen.Generate(cat, Options{Tier: tier, Now: epoch, Combat: true})
			if err != nil {
				t.Fatalf("generate %s: %v", cat, err)
			}
			r := CalculateRisk(a, c)
			risk := r.PhysicalRisk + r.PsychologicalRisk
			if risk < prevRisk {
				t.Fatalf("%s tier %d: risk dropped %d -> %d", cat, tier, prevRisk, risk)
			}
			prevRisk = risk
			if prev != nil {
				if c.BasePayment < prev.BasePayment {
					t.Fatalf("%s tier %d: payment dropped", cat, tier)
				}
				for stat, v := range c.Requirements.MinStats {
					if v < prev.Requirements.MinStats[stat] {
						t.Fatalf("%s tier %d: %s dropped", cat, tier, stat)
					}
				}
				for skill, v := range c.Requirements.Skills {
					if v < prev.Requirements.Skills[skill] {
						t.Fatalf("%s tier %d: %s dropped", cat, tier, skill)
					}
				}
			}
			prev = c
		}
	}
	if _, err := gen.Generate("heist", Options{}); err == nil {
		t.Fatalf("unknown category should error")
	}
}

func TestEconomicUsesMarketQuote(t *testing.T) {
	m := economy.NewMarket(5)
	gen := NewGenerator(tuning.Default().Contracts, entropy.NewSeeded(2), m)
	c := gen.Economic(Options{Commodity: economy.CommodityHerbs, Now: epoch})
	want := m.Quote(economy.CommodityHerbs, epoch)
	if c.Market == nil || *c.Market != want {
		t.Fatalf("expected market quote %+v, got %+v", want, c.Market)
	}
	if c.RequirementSet().Volatility != want.Volatility {
		t.Fatalf("volatility should flow into the requirement set")
	}
	if !c.ExpiryTime.Equal(epoch.Add(72 * time.Hour)) {
		t.Fatalf("expected default 72h expiry, got %v", c.ExpiryTime)
	}
}

func TestEligibility(t *testing.T) {
	gen := newGenerator()
	a := tama("a")
	a.Species = "mosscub"

	c := gen.Research(Options{Now: epoch, Species: []string{"emberkit"}})
	if ok, _ := c.Eligible(a); ok {
		t.Fatalf("species filter should reject")
	}
	comp := gen.Competition(Options{Now: epoch})
	a.Stats.Health = 40
	if ok, _ := comp.Eligible(a); ok {
		t.Fatalf("injured agents cannot compete")
	}
	a.Stats.Health = 100
	if ok, why := comp.Eligible(a); !ok {
		t.Fatalf("healthy agent should be eligible: %s", why)
	}
	adopt := gen.Adoption(Options{Tier: TierExpert, Now: epoch})
	if ok, _ := adopt.Eligible(a); ok {
		t.Fatalf("expert adoption needs a friend")
	}
	a.Relationships["b"] = &agents.Relationship{TargetID: "b", Type: agents.RelFriend}
	if ok, why := adopt.Eligible(a); !ok {
		t.Fatalf("expected eligible with a friend: %s", why)
	}
}

func TestFindSuitable(t *testing.T) {
	a := scholar("a")
	board := newBoard(a)
	gen := newGenerator()
	study := gen.Research(Options{Now: epoch})
	fight := gen.Competition(Options{Tier: TierMaster, Combat: true, Now: epoch})
	old := gen.Research(Options{Now: epoch.Add(-100 * time.Hour)})
	for _, c := range []*Contract{study, fight, old} {
		board.Post(c)
	}

	all := board.FindSuitable(a, Filter{}, epoch)
	if len(all) != 2 {
		t.Fatalf("expected 2 open contracts, got %d", len(all))
	}
	if all[0].Contract.ID != study.ID || all[0].Score < all[1].Score {
		t.Fatalf("expected the study ranked first, got %+v", all[0].Contract.Title)
	}
	only := board.FindSuitable(a, Filter{Categories: []compat.Category{compat.CategoryCompetition}}, epoch)
	if len(only) != 1 || only[0].Contract.ID != fight.ID {
		t.Fatalf("category filter failed: %d", len(only))
	}
	if got := board.FindSuitable(a, Filter{MinScore: 101}, epoch); len(got) != 0 {
		t.Fatalf("min score filter failed: %d", len(got))
	}
	novice := TierNovice
	if got := board.FindSuitable(a, Filter{MaxTier: &novice}, epoch); len(got) != 1 {
		t.Fatalf("tier filter failed: %d", len(got))
	}
}

func TestChooseAutonomously(t *testing.T) {
	a := scholar("a")
	board := newBoard(a)
	gen := newGenerator()
	study := gen.Research(Options{Now: epoch})
	fight := gen.Competition(Options{Tier: TierMaster, Combat: true, Now: epoch})
	board.Post(fight)
	board.Post(study)

	pick := board.ChooseAutonomously(a, epoch)
	if pick == nil || pick.ID != study.ID {
		t.Fatalf("expected the study, got %+v", pick)
	}
	if got, _ := board.Get(study.ID); got.Status != StatusAvailable {
		t.Fatalf("choosing must not assign, got %s", got.Status)
	}

	a.AutonomyLevel = 40
	if board.ChooseAutonomously(a, epoch) != nil {
		t.Fatalf("dependent agents do not choose")
	}
}

func TestChooseRejectsPoorMatches(t *testing.T) {
	a := tama("a")
	board := newBoard(a)
	board.Post(newGenerator().Competition(Options{Tier: TierMaster, Combat: true, Now: epoch}))
	if pick := board.ChooseAutonomously(a, epoch); pick != nil {
		t.Fatalf("weak match should be rejected, got %s", pick.Title)
	}
}

func TestResolvedContractsStayOnBoard(t *testing.T) {
	a := tama("a")
	board := newBoard(a)
	gen := newGenerator()
	done, open := gen.Research(Options{Now: epoch}), gen.Research(Options{Now: epoch})
	board.Post(done)
	board.Post(open)
	board.Assign(done.ID, a.ID)
	board.Start(done.ID, epoch)
	if !board.Complete(done.ID, a, true, epoch.Add(time.Hour)) {
		t.Fatalf("complete failed")
	}

	got := board.Resolved(epoch)
	if len(got) != 1 || got[0].ID != done.ID || got[0].Status != StatusCompleted {
		t.Fatalf("expected the completed contract, got %v", got)
	}
	if later := board.Resolved(epoch.Add(48 * time.Hour)); len(later) != 0 {
		t.Fatalf("nothing resolved after the cutoff, got %d", len(later))
	}
	if c, ok := board.Get(done.ID); !ok || c.Status != StatusCompleted {
		t.Fatalf("completed contract must stay on the board")
	}
	if list := board.List(""); len(list) != 2 {
		t.Fatalf("expected both contracts listed, got %d", len(list))
	}
}

func TestBoardUsesItsScorer(t *testing.T) {
	a := scholar("a")
	cfg := tuning.Default().Compat
	cfg.OverallCeil = 40
	cfg.SuccessCeil = 20
	board := newBoard(a).WithScorer(compat.NewScorer(cfg))
	study := newGenerator().Research(Options{Now: epoch})
	board.Post(study)

	if p := board.EstimateSuccess(a, study); p > 20 {
		t.Fatalf("success above tuned ceiling: %v", p)
	}
	if pick := board.ChooseAutonomously(a, epoch); pick != nil {
		t.Fatalf("capped scores should fall below the choice threshold, got %s", pick.Title)
	}
	if m := board.FindSuitable(a, Filter{}, epoch); len(m) != 1 || m[0].Score > 40 {
		t.Fatalf("expected one match capped at 40, got %+v", m)
	}
}

func TestCareIssuesAreCopied(t *testing.T) {
	gen := newGenerator()
	first := gen.Care(Options{Tier: TierExpert, Now: epoch})
	want := first.Care.Issues[0]
	first.Care.Issues[0] = "edited"
	second := gen.Care(Options{Tier: TierExpert, Now: epoch})
	if second.Care.Issues[0] != want {
		t.Fatalf("editing one contract leaked into the next: %q", second.Care.Issues[0])
	}
}
