package compat

import (
	"math"

	"github.com/talgya/tamaverse/internal/agents"
)

// Risk is the harm-likelihood profile of a requirement set for one agent.
// Every field is in [0, 90].
type Risk struct {
	PhysicalRisk      int      `json:"physical_risk"`
	PsychologicalRisk int      `json:"psychological_risk"`
	SocialRisk        int      `json:"social_risk"`
	ReputationRisk    int      `json:"reputation_risk"`
	FinancialRisk     int      `json:"financial_risk"`
	RiskMitigation    []string `json:"risk_mitigation"`
	WarningFlags      []string `json:"warning_flags"`
}

// CalculateRisk profiles req for a with the standard scorer.
func CalculateRisk(a *agents.Agent, req Requirements) Risk {
	return standard.CalculateRisk(a, req)
}

// CalculateRisk derives the category base risks and adjusts them for the
// agent's stress, confidence and health.
func (s *Scorer) CalculateRisk(a *agents.Agent, req Requirements) Risk {
	var phys, psych, social, rep, fin float64
	d := float64(req.Difficulty)

	switch req.Category {
	case CategoryCompetition:
		phys = float64(req.InjuryRisk)
		psych = 20 + 10*d
		social = 15
		rep = 25 + 10*d
		fin = 10
	case CategoryResearch:
		band := float64(req.ResearchRisk.Band())
		phys = band
		psych = band*0.75 + 10
		social = 10
		rep = 20
		fin = 5
	case CategoryCare:
		sev := float64(req.Severity)
		phys = 10 + 8*sev
		psych = 20 + 12*sev
		social = 15
		rep = 20 + 8*sev
		fin = 10
	case CategoryEconomic:
		vol := float64(req.Volatility)
		phys = 5
		psych = 15 + vol/5
		social = 10
		rep = 20
		fin = 20 + vol/2
	case CategoryAdoption:
		phys = 5
		psych = 25
		social = 30
		rep = 25
		fin = 5
	default:
		phys, psych, social, rep, fin = 25, 25, 25, 25, 25
	}

	psych += float64(a.Mental.Stress) * s.cfg.StressRisk
	rep -= float64(a.Mental.Confidence) * s.cfg.ConfidenceRisk
	phys += float64(100-a.Stats.HealthPercent()) * s.cfg.InjuryRisk

	r := Risk{
		PhysicalRisk:      s.clampRisk(phys),
		PsychologicalRisk: s.clampRisk(psych),
		SocialRisk:        s.clampRisk(social),
		ReputationRisk:    s.clampRisk(rep),
		FinancialRisk:     s.clampRisk(fin),
	}
	s.flag(&r, a)
	return r
}

func (s *Scorer) flag(r *Risk, a *agents.Agent) {
	warn, mitigate := s.cfg.WarnAt, s.cfg.MitigateAt
	if r.PhysicalRisk > warn {
		r.WarningFlags = append(r.WarningFlags, "high injury risk")
	}
	if r.PsychologicalRisk > warn {
		r.WarningFlags = append(r.WarningFlags, "high psychological strain")
	}
	if r.ReputationRisk > warn {
		r.WarningFlags = append(r.WarningFlags, "reputation at stake")
	}
	if r.FinancialRisk > warn {
		r.WarningFlags = append(r.WarningFlags, "significant financial exposure")
	}
	if a.Mental.Stress > s.cfg.StressWarning {
		r.WarningFlags = append(r.WarningFlags, "agent is already highly stressed")
	}

	if r.PhysicalRisk > mitigate {
		r.RiskMitigation = append(r.RiskMitigation, "rest to full health and warm up before starting")
	}
	if r.PsychologicalRisk > mitigate {
		r.RiskMitigation = append(r.RiskMitigation, "schedule recovery time and keep a friend nearby")
	}
	if r.ReputationRisk > mitigate {
		r.RiskMitigation = append(r.RiskMitigation, "build confidence with easier contracts first")
	}
	if r.FinancialRisk > mitigate {
		r.RiskMitigation = append(r.RiskMitigation, "commit smaller positions until the market settles")
	}
}

// EstimateSuccessProbability estimates with the standard scorer.
func EstimateSuccessProbability(a *agents.Agent, req Requirements) float64 {
	return standard.EstimateSuccessProbability(a, req)
}

// EstimateSuccessProbability is overall compatibility minus half the mean of
// physical and psychological risk, clamped to the success bounds ([10, 95] by
// default).
func (s *Scorer) EstimateSuccessProbability(a *agents.Agent, req Requirements) float64 {
	c := s.Evaluate(a, req)
	r := s.CalculateRisk(a, req)
	p := c.OverallScore - float64(r.PhysicalRisk+r.PsychologicalRisk)/4
	return clampf(p, s.cfg.SuccessFloor, s.cfg.SuccessCeil)
}

func (s *Scorer) clampRisk(v float64) int {
	return agents.Clamp(int(math.Round(v)), 0, s.cfg.RiskCeil)
}
