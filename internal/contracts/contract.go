// Package contracts generates typed contracts, scores agents against them and
// runs their lifecycle: available → assigned → active → completed | failed,
// with cancellation from any non-terminal state.
package contracts

import (
	"fmt"
	"time"

	"github.com/talgya/tamaverse/internal/agents"
	"github.com/talgya/tamaverse/internal/compat"
	"github.com/talgya/tamaverse/internal/economy"
)

// Status is a contract lifecycle state.
type Status string

const (
	StatusAvailable Status = "available"
	StatusAssigned  Status = "assigned"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Tier is the difficulty index shared by every category (0 = easiest).
type Tier int

const (
	TierNovice Tier = iota
	TierStandard
	TierExpert
	TierMaster
	numTiers
)

var tierNames = map[compat.Category][numTiers]string{
	compat.CategoryEconomic:    {"novice", "standard", "expert", "master"},
	compat.CategoryCare:        {"mild", "moderate", "severe", "critical"},
	compat.CategoryAdoption:    {"novice", "standard", "expert", "master"},
	compat.CategoryCompetition: {"beginner", "intermediate", "advanced", "expert"},
	compat.CategoryResearch:    {"novice", "standard", "expert", "master"},
}

// Name returns the tier label used by category.
func (t Tier) Name(category compat.Category) string {
	names, ok := tierNames[category]
	if !ok || t < 0 || t >= numTiers {
		return fmt.Sprintf("tier-%d", int(t))
	}
	return names[t]
}

func (t Tier) clamp() Tier {
	if t < 0 {
		return TierNovice
	}
	if t >= numTiers {
		return TierMaster
	}
	return t
}

// RelationshipRequirement asks for a number of bonds of a type.
type RelationshipRequirement struct {
	Type  agents.RelationshipType `json:"type"`
	Count int                     `json:"count"`
}

// Requirements extends the scoring requirement set with hard eligibility
// bounds. Zero bounds are unchecked.
type Requirements struct {
	MinStats    map[agents.Stat]int            `json:"min_stats,omitempty"`
	Skills      map[agents.Skill]int           `json:"required_skills,omitempty"`
	Personality []compat.PersonalityConstraint `json:"personality,omitempty"`

	Species          []string                  `json:"species,omitempty"`
	MinTier          int                       `json:"min_tier,omitempty"`
	MaxTier          int                       `json:"max_tier,omitempty"`
	MinLevel         int                       `json:"min_level,omitempty"`
	MaxLevel         int                       `json:"max_level,omitempty"`
	Relationships    []RelationshipRequirement `json:"relationships,omitempty"`
	MinHealthPercent int                       `json:"min_health_percent,omitempty"`
}

// ReputationImpact is the reputation delta applied on completion.
type ReputationImpact struct {
	Success              int     `json:"success"`
	Failure              int     `json:"failure"`
	DifficultyMultiplier float64 `json:"difficulty_multiplier"`
}

// Delta returns the scaled reputation change for an outcome.
func (r ReputationImpact) Delta(success bool) int {
	m := r.DifficultyMultiplier
	if m <= 0 {
		m = 1
	}
	base := r.Failure
	if success {
		base = r.Success
	}
	return int(float64(base)*m + signHalf(base))
}

func signHalf(v int) float64 {
	if v < 0 {
		return -0.5
	}
	return 0.5
}

// TemporaryTama is the creature a care contract places with the agent.
type TemporaryTama struct {
	Name             string       `json:"name"`
	Species          string       `json:"species"`
	Issues           []string     `json:"issues"`
	ImprovementGoals []string     `json:"improvement_goals"`
	Severity         int          `json:"severity"` // 1–4
	Needs            agents.Needs `json:"needs"`
}

// AdopterBackground describes who an adoption contract matches with.
type AdopterBackground struct {
	Name          string   `json:"name"`
	Experience    string   `json:"experience"`
	HouseholdSize int      `json:"household_size"`
	LivingSpace   string   `json:"living_space"`
	Preferences   []string `json:"preferences"`
}

// EventDetails describes a competition.
type EventDetails struct {
	Name       string `json:"name"`
	SkillLevel string `json:"skill_level"`
	Combat     bool   `json:"combat"`
	InjuryRisk int    `json:"injury_risk"`
	Opponents  int    `json:"opponents"`
	Prize      int    `json:"prize"`
}

// StudyProtocol describes a research study.
type StudyProtocol struct {
	Title         string           `json:"title"`
	RiskLevel     compat.RiskLevel `json:"risk_level"`
	Procedures    []string         `json:"procedures"`
	DurationHours int              `json:"duration_hours"`
}

// Contract is a time-boxed task posted to the board.
type Contract struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Category compat.Category `json:"category"`
	Tier     Tier            `json:"tier"`
	Status   Status          `json:"status"`

	Requirements     Requirements     `json:"requirements"`
	BasePayment      int              `json:"base_payment"`
	ReputationImpact ReputationImpact `json:"reputation_impact"`

	// Exactly one payload is set, matching Category.
	Market      *economy.Quote     `json:"market_data,omitempty"`
	Care        *TemporaryTama     `json:"temporary_tama,omitempty"`
	Adoption    *AdopterBackground `json:"adopter_background,omitempty"`
	Competition *EventDetails      `json:"event_details,omitempty"`
	Research    *StudyProtocol     `json:"study_protocol,omitempty"`

	TimePosted time.Time `json:"time_posted"`
	ExpiryTime time.Time `json:"expiry_time"`

	AssignedTamaID agents.AgentID `json:"assigned_tama_id,omitempty"`
	StartTime      time.Time      `json:"start_time,omitempty"`
	EndTime        time.Time      `json:"end_time,omitempty"`
	// Payout is what the agent earned; zero unless completed.
	Payout       int    `json:"payout,omitempty"`
	CancelReason string `json:"cancel_reason,omitempty"`
}

// RequirementSet projects the contract onto the scoring requirement set,
// including the payload's risk hints.
func (c *Contract) RequirementSet() compat.Requirements {
	req := compat.Requirements{
		Category:    c.Category,
		MinStats:    c.Requirements.MinStats,
		Skills:      c.Requirements.Skills,
		Personality: c.Requirements.Personality,
		Difficulty:  int(c.Tier),
	}
	switch {
	case c.Competition != nil:
		req.Combat = c.Competition.Combat
		req.InjuryRisk = c.Competition.InjuryRisk
	case c.Research != nil:
		req.ResearchRisk = c.Research.RiskLevel
	case c.Care != nil:
		req.Severity = c.Care.Severity
	case c.Market != nil:
		req.Volatility = c.Market.Volatility
	}
	return req
}

// Eligible checks the hard bounds. The reason names the first failed bound.
func (c *Contract) Eligible(a *agents.Agent) (bool, string) {
	r := c.Requirements
	if len(r.Species) > 0 {
		ok := false
		for _, s := range r.Species {
			if s == a.Species {
				ok = true
				break
			}
		}
		if !ok {
			return false, "species not accepted"
		}
	}
	if r.MinTier > 0 && a.Tier < r.MinTier || r.MaxTier > 0 && a.Tier > r.MaxTier {
		return false, "tier out of range"
	}
	if r.MinLevel > 0 && a.Level < r.MinLevel || r.MaxLevel > 0 && a.Level > r.MaxLevel {
		return false, "level out of range"
	}
	if r.MinHealthPercent > 0 && a.Stats.HealthPercent() < r.MinHealthPercent {
		return false, "not healthy enough"
	}
	for _, need := range r.Relationships {
		have := 0
		for _, rel := range a.Relationships {
			if rel.Type == need.Type {
				have++
			}
		}
		if have < need.Count {
			return false, fmt.Sprintf("needs %d %s relationships", need.Count, need.Type)
		}
	}
	return true, ""
}

// Expired reports whether an available contract has passed its expiry.
func (c *Contract) Expired(now time.Time) bool {
	return !c.ExpiryTime.IsZero() && now.After(c.ExpiryTime)
}
