// Package compat scores how well agents fit each other and how well an agent
// fits a requirement set. Everything here is pure: no mutation, no I/O.
package compat

import "github.com/talgya/tamaverse/internal/agents"

// Category selects category-specific personality and risk rules.
type Category string

const (
	CategoryEconomic    Category = "economic"
	CategoryCare        Category = "care"
	CategoryAdoption    Category = "adoption"
	CategoryCompetition Category = "competition"
	CategoryResearch    Category = "research"
)

// Categories lists every category in a stable order.
var Categories = []Category{
	CategoryEconomic, CategoryCare, CategoryAdoption, CategoryCompetition, CategoryResearch,
}

// RiskLevel is the coarse risk grade research protocols declare.
type RiskLevel string

const (
	RiskNone     RiskLevel = "none"
	RiskMinimal  RiskLevel = "minimal"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// Band maps a risk level onto a numeric base risk.
func (l RiskLevel) Band() int {
	switch l {
	case RiskNone:
		return 0
	case RiskMinimal:
		return 15
	case RiskModerate:
		return 40
	case RiskHigh:
		return 70
	}
	return 25
}

// PersonalityConstraint bounds one trait. Max of zero means no upper bound.
type PersonalityConstraint struct {
	Trait agents.Trait `json:"trait"`
	Min   int          `json:"min"`
	Max   int          `json:"max,omitempty"`
}

// Satisfied reports whether value is inside the bounds.
func (c PersonalityConstraint) Satisfied(value int) bool {
	if value < c.Min {
		return false
	}
	return c.Max <= 0 || value <= c.Max
}

// distance is how far value falls outside the bounds.
func (c PersonalityConstraint) distance(value int) int {
	if value < c.Min {
		return c.Min - value
	}
	if c.Max > 0 && value > c.Max {
		return value - c.Max
	}
	return 0
}

// Requirements is the requirement set an agent is measured against.
type Requirements struct {
	Category    Category                `json:"category"`
	MinStats    map[agents.Stat]int     `json:"min_stats,omitempty"`
	Skills      map[agents.Skill]int    `json:"required_skills,omitempty"`
	Personality []PersonalityConstraint `json:"personality,omitempty"`
	// Difficulty is the tier index (0 = easiest).
	Difficulty int `json:"difficulty"`

	// Risk hints filled by the owning contract's payload.
	Combat       bool      `json:"combat,omitempty"`
	InjuryRisk   int       `json:"injury_risk,omitempty"`
	ResearchRisk RiskLevel `json:"research_risk,omitempty"`
	Severity     int       `json:"severity,omitempty"`
	Volatility   int       `json:"volatility,omitempty"`
}

// MeetsMinimums reports whether a has every listed stat at or above its minimum.
func MeetsMinimums(a *agents.Agent, min map[agents.Stat]int) bool {
	for stat, need := range min {
		if a.Stats.Get(stat) < need {
			return false
		}
	}
	return true
}
