package main

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/talgya/tamaverse/internal/agents"
	"github.com/talgya/tamaverse/internal/contracts"
	"github.com/talgya/tamaverse/internal/entropy"
	"github.com/talgya/tamaverse/internal/tuning"
)

var start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func scholar(id string) *agents.Agent {
	a := &agents.Agent{
		ID:   agents.AgentID(id),
		Name: id,
		Stats: agents.Stats{
			Strength: 10, Agility: 10, Intelligence: 14,
			Wisdom: 12, Charisma: 10, Constitution: 10,
			Health: 100, MaxHealth: 100,
		},
		Personality: agents.Personality{
			Archetype:  agents.ArchScholar,
			Traits:     agents.BigFive{Openness: 80, Conscientiousness: 50, Extraversion: 50, Agreeableness: 50, Neuroticism: 50},
			Tendencies: agents.Tendencies{Aggression: 50, Curiosity: 50, Loyalty: 50, Independence: 50, Playfulness: 50, Competitiveness: 50},
		},
		Needs:         agents.Needs{Hunger: 80, Happiness: 80, Energy: 80, Cleanliness: 80},
		Mental:        agents.MentalState{Stress: 20, Confidence: 50, Satisfaction: 50},
		Social:        agents.SocialStatus{Reputation: 50},
		AutonomyLevel: 80,
		Relationships: map[agents.AgentID]*agents.Relationship{},
	}
	a.Stats.Skills.Add(agents.SkillInvestigation, 3)
	a.Stats.Skills.Add(agents.SkillArcana, 2)
	return a
}

func newTestDesk(population []*agents.Agent) (*desk, *contracts.Generator) {
	cfg := tuning.Default().Contracts
	roster := contracts.NewRoster(population)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	board := contracts.NewBoard(cfg, roster, log)
	gen := contracts.NewGenerator(cfg, entropy.NewSeeded(1), nil)
	return newDesk(board, gen, entropy.NewFixed(0), roster, 0, log), gen
}

func TestDeskRunsContractToCompletion(t *testing.T) {
	a := scholar("a")
	pop := []*agents.Agent{a}
	d, gen := newTestDesk(pop)
	study := gen.Research(contracts.Options{Now: start})
	if !d.board.Post(study) {
		t.Fatalf("post failed")
	}

	changed := d.step(1, start, pop)
	if len(changed) != 1 || changed[0].Status != contracts.StatusActive || changed[0].AssignedTamaID != a.ID {
		t.Fatalf("expected the study to start, got %+v", changed)
	}
	if changed := d.step(2, start.Add(time.Hour), pop); len(changed) != 0 {
		t.Fatalf("work is not finished yet, got %+v", changed)
	}

	changed = d.step(3, start.Add(2*time.Hour), pop)
	if len(changed) != 1 || changed[0].Status != contracts.StatusCompleted {
		t.Fatalf("expected completion, got %+v", changed)
	}
	if d.earned[a.ID] != study.BasePayment || changed[0].Payout != study.BasePayment {
		t.Fatalf("expected payout %d, got %d", study.BasePayment, d.earned[a.ID])
	}
}

func TestDeskCancelsWhenAssigneeLeaves(t *testing.T) {
	a := scholar("a")
	pop := []*agents.Agent{a}
	d, gen := newTestDesk(pop)
	d.board.Post(gen.Research(contracts.Options{Now: start}))
	d.step(1, start, pop)

	delete(d.roster, a.ID)
	changed := d.step(2, start.Add(4*time.Hour), nil)
	if len(changed) != 1 || changed[0].Status != contracts.StatusCancelled {
		t.Fatalf("expected cancellation, got %+v", changed)
	}
}

func TestWorkTime(t *testing.T) {
	c := &contracts.Contract{Tier: contracts.TierExpert}
	if got := workTime(c); got != 6*time.Hour {
		t.Fatalf("expected 6h, got %v", got)
	}
	c.Research = &contracts.StudyProtocol{DurationHours: 3}
	if got := workTime(c); got != 3*time.Hour {
		t.Fatalf("expected 3h, got %v", got)
	}
}
