package compat

import (
	"fmt"
	"math"
	"sort"

	"github.com/talgya/tamaverse/internal/agents"
	"github.com/talgya/tamaverse/internal/tuning"
)

// Compatibility is the fitness of an agent for a requirement set.
type Compatibility struct {
	OverallScore      float64  `json:"overall_score"`
	StatCompatibility float64  `json:"stat_compatibility"`
	PersonalityMatch  float64  `json:"personality_match"`
	SkillRelevance    float64  `json:"skill_relevance"`
	RiskTolerance     float64  `json:"risk_tolerance"`
	Strengths         []string `json:"strengths"`
	Weaknesses        []string `json:"weaknesses"`
	Improvements      []string `json:"improvements"`
}

// Scorer evaluates agents against requirement sets under one tuning.
type Scorer struct {
	cfg tuning.Compat
}

// NewScorer creates a scorer for cfg.
func NewScorer(cfg tuning.Compat) *Scorer {
	return &Scorer{cfg: cfg}
}

var standard = NewScorer(tuning.Default().Compat)

// Standard returns the scorer for the default tuning.
func Standard() *Scorer {
	return standard
}

// PersonalityCompatibility is 100 minus the mean absolute Big-Five difference.
func PersonalityCompatibility(a, b *agents.Agent) int {
	ta, tb := a.Personality.Traits, b.Personality.Traits
	diff := abs(ta.Openness-tb.Openness) +
		abs(ta.Conscientiousness-tb.Conscientiousness) +
		abs(ta.Extraversion-tb.Extraversion) +
		abs(ta.Agreeableness-tb.Agreeableness) +
		abs(ta.Neuroticism-tb.Neuroticism)
	return agents.Clamp(100-diff/5, 0, 100)
}

// StatComplementarity is high when two agents are strong in different stats.
func StatComplementarity(a, b *agents.Agent) int {
	total := 0
	for i := 0; i < agents.NumStats; i++ {
		total += abs(a.Stats.Get(agents.Stat(i)) - b.Stats.Get(agents.Stat(i)))
	}
	return agents.Clamp(total*100/(agents.NumStats*10), 0, 100)
}

// SharedInterests scores the overlap of favorite activities.
func SharedInterests(a, b *agents.Agent) int {
	shared := 0
	for _, fav := range a.Personality.Favorites {
		if b.Personality.Likes(fav) {
			shared++
		}
	}
	return agents.Clamp(shared*35, 0, 100)
}

// ratioScore maps have/need onto 0–100. Meeting the requirement lands at 80
// and climbs to 100 at +20%; falling short drops quadratically.
func ratioScore(have, need int) float64 {
	if need <= 0 {
		return 100
	}
	r := float64(have) / float64(need)
	if r >= 1 {
		return math.Min(100, 80+(r-1)*100)
	}
	if r < 0 {
		r = 0
	}
	return 50 * r * r
}

// Evaluate scores a against req with the standard scorer.
func Evaluate(a *agents.Agent, req Requirements) Compatibility {
	return standard.Evaluate(a, req)
}

// Evaluate scores a against req.
func (s *Scorer) Evaluate(a *agents.Agent, req Requirements) Compatibility {
	c := Compatibility{
		StatCompatibility: s.statScore(a, req),
		SkillRelevance:    s.skillScore(a, req),
		PersonalityMatch:  s.personalityScore(a, req),
		RiskTolerance:     riskTolerance(a, s.CalculateRisk(a, req)),
	}
	mean := (c.StatCompatibility + c.PersonalityMatch + c.SkillRelevance + c.RiskTolerance) / 4
	c.OverallScore = clampf(mean, s.cfg.OverallFloor, s.cfg.OverallCeil)
	s.describe(&c)
	return c
}

func (s *Scorer) statScore(a *agents.Agent, req Requirements) float64 {
	if len(req.MinStats) == 0 {
		return s.cfg.NeutralStats
	}
	total := 0.0
	for stat, need := range req.MinStats {
		total += ratioScore(a.Stats.Get(stat), need)
	}
	return total / float64(len(req.MinStats))
}

func (s *Scorer) skillScore(a *agents.Agent, req Requirements) float64 {
	if len(req.Skills) == 0 {
		return s.cfg.NeutralSkills
	}
	total := 0.0
	for skill, need := range req.Skills {
		total += ratioScore(a.Stats.Skills.Get(skill), need)
	}
	return total / float64(len(req.Skills))
}

func (s *Scorer) personalityScore(a *agents.Agent, req Requirements) float64 {
	p := &a.Personality
	score := s.cfg.NeutralPersonality
	for _, c := range req.Personality {
		v := p.Trait(c.Trait)
		if c.Satisfied(v) {
			score += 8
		} else {
			score -= math.Min(25, float64(c.distance(v)))
		}
	}

	switch req.Category {
	case CategoryCompetition:
		if p.Tendencies.Competitiveness > 70 {
			score += 15
		}
		if a.Mental.Confidence > 70 {
			score += 10
		}
		if req.Combat && p.Tendencies.Aggression < 30 {
			score -= 15
		}
	case CategoryCare:
		if p.Traits.Agreeableness > 70 {
			score += 15
		}
		if p.Tendencies.Aggression > 60 {
			score -= 20
		}
	case CategoryResearch:
		if p.Traits.Openness > 70 {
			score += 15
		}
		if p.Traits.Conscientiousness > 70 {
			score += 10
		}
		if p.Tendencies.Curiosity > 70 {
			score += 5
		}
	case CategoryEconomic:
		if p.Traits.Conscientiousness > 60 {
			score += 10
		}
		if p.Traits.Neuroticism > 70 {
			score -= 10
		}
	case CategoryAdoption:
		if p.Traits.Agreeableness > 60 {
			score += 10
		}
		if p.Tendencies.Loyalty > 70 {
			score += 10
		}
		if p.Tendencies.Aggression > 60 {
			score -= 15
		}
	}
	return clampf(score, 0, 100)
}

// riskTolerance is how comfortably a carries the risk profile.
func riskTolerance(a *agents.Agent, r Risk) float64 {
	load := float64(r.PhysicalRisk+r.PsychologicalRisk) / 2
	tol := 100 - load - float64(a.Personality.Traits.Neuroticism)/4 + float64(a.Mental.Confidence-50)/2
	return clampf(tol, 0, 100)
}

type dimension struct {
	name        string
	score       float64
	strength    string
	weakness    string
	improvement string
}

func (s *Scorer) describe(c *Compatibility) {
	dims := []dimension{
		{"stats", c.StatCompatibility, "Physical and mental attributes exceed requirements",
			"Attributes fall short of requirements", "Train the required attributes before applying"},
		{"personality", c.PersonalityMatch, "Temperament suits this kind of work",
			"Temperament clashes with this kind of work", "Pick contracts closer to the agent's nature"},
		{"skills", c.SkillRelevance, "Highly skilled in the relevant areas",
			"Lacks the relevant skills", "Practice the required skills through training goals"},
		{"risk", c.RiskTolerance, "Comfortable with the risks involved",
			"Risk exposure is uncomfortable", "Lower stress and build confidence first"},
	}
	for _, d := range dims {
		switch {
		case d.score > s.cfg.StrengthAt:
			c.Strengths = append(c.Strengths, d.strength)
		case d.score < s.cfg.WeaknessAt:
			c.Weaknesses = append(c.Weaknesses, fmt.Sprintf("%s (%s %.0f)", d.weakness, d.name, d.score))
			c.Improvements = append(c.Improvements, d.improvement)
		}
	}
}

// MissingStats lists stats below their minimum, sorted for stable output.
func MissingStats(a *agents.Agent, req Requirements) []string {
	var out []string
	for stat, need := range req.MinStats {
		if have := a.Stats.Get(stat); have < need {
			out = append(out, fmt.Sprintf("%s %d/%d", stat, have, need))
		}
	}
	sort.Strings(out)
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampf(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
