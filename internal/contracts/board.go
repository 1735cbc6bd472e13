package contracts

import (
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/talgya/tamaverse/internal/agents"
	"github.com/talgya/tamaverse/internal/compat"
	"github.com/talgya/tamaverse/internal/tuning"
)

// Directory resolves agent identities for assignment.
type Directory interface {
	Lookup(id agents.AgentID) *agents.Agent
}

// Roster is a map-backed Directory.
type Roster map[agents.AgentID]*agents.Agent

// NewRoster indexes a population by id.
func NewRoster(population []*agents.Agent) Roster {
	r := make(Roster, len(population))
	for _, a := range population {
		if a != nil {
			r[a.ID] = a
		}
	}
	return r
}

func (r Roster) Lookup(id agents.AgentID) *agents.Agent {
	return r[id]
}

// Filter narrows FindSuitable. Zero fields are unchecked.
type Filter struct {
	Categories []compat.Category
	MinScore   float64
	// MaxRisk caps the mean of physical and psychological risk.
	MaxRisk int
	MaxTier *Tier
}

// Match is a contract paired with its score for one agent.
type Match struct {
	Contract      Contract             `json:"contract"`
	Compatibility compat.Compatibility `json:"compatibility"`
	Score         float64              `json:"score"`
}

// Board owns posted contracts and enforces their lifecycle. Rejected
// operations return false and log the reason at debug level. Safe for
// concurrent use.
type Board struct {
	cfg    tuning.Contracts
	dir    Directory
	log    *slog.Logger
	scorer *compat.Scorer

	mu        sync.Mutex
	contracts map[string]*Contract
	order     []string
}

// NewBoard creates an empty board. log may be nil.
func NewBoard(cfg tuning.Contracts, dir Directory, log *slog.Logger) *Board {
	if log == nil {
		log = slog.Default()
	}
	return &Board{
		cfg:       cfg,
		dir:       dir,
		log:       log,
		scorer:    compat.Standard(),
		contracts: make(map[string]*Contract),
	}
}

// WithScorer makes the board score agents with s instead of the standard scorer.
func (b *Board) WithScorer(s *compat.Scorer) *Board {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s != nil {
		b.scorer = s
	}
	return b
}

// Post adds a contract. Duplicate or empty ids are rejected.
func (b *Board) Post(c *Contract) bool {
	if c == nil || c.ID == "" {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.contracts[c.ID]; ok {
		b.reject("post", c.ID, "duplicate id")
		return false
	}
	if c.Status == "" {
		c.Status = StatusAvailable
	}
	b.contracts[c.ID] = c
	b.order = append(b.order, c.ID)
	b.log.Debug("contract posted", "contract", c.ID, "category", c.Category, "tier", c.Tier.Name(c.Category))
	return true
}

// Assign binds an available contract to a known agent. Assignment is
// exclusive: a second call on the same contract fails.
func (b *Board) Assign(id string, agent agents.AgentID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.contracts[id]
	switch {
	case !ok:
		b.reject("assign", id, "unknown contract")
		return false
	case c.Status != StatusAvailable:
		b.reject("assign", id, "contract is "+string(c.Status))
		return false
	case b.dir == nil || b.dir.Lookup(agent) == nil:
		b.reject("assign", id, "unknown agent "+string(agent))
		return false
	}
	c.Status = StatusAssigned
	c.AssignedTamaID = agent
	b.log.Info("contract assigned", "contract", id, "agent", agent)
	return true
}

// Start moves an assigned contract to active.
func (b *Board) Start(id string, now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.contracts[id]
	if !ok || c.Status != StatusAssigned {
		b.reject("start", id, "not assigned")
		return false
	}
	c.Status = StatusActive
	c.StartTime = now
	return true
}

// Complete resolves an active contract for the assigned agent, applying the
// scaled reputation delta. Success records the payout.
func (b *Board) Complete(id string, a *agents.Agent, success bool, now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.contracts[id]
	switch {
	case !ok || c.Status != StatusActive:
		b.reject("complete", id, "not active")
		return false
	case a == nil || a.ID != c.AssignedTamaID:
		b.reject("complete", id, "agent is not the assignee")
		return false
	}
	delta := c.ReputationImpact.Delta(success)
	a.Social.AdjustReputation(delta)
	c.EndTime = now
	if success {
		c.Status = StatusCompleted
		c.Payout = c.BasePayment
	} else {
		c.Status = StatusFailed
	}
	b.log.Info("contract resolved", "contract", id, "agent", a.ID, "status", c.Status, "reputation", delta)
	return true
}

// Cancel withdraws a contract from any non-terminal state.
func (b *Board) Cancel(id, reason string, now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.contracts[id]
	if !ok || c.Status.Terminal() {
		b.reject("cancel", id, "unknown or terminal")
		return false
	}
	b.cancel(c, reason, now)
	return true
}

func (b *Board) cancel(c *Contract, reason string, now time.Time) {
	c.Status = StatusCancelled
	c.CancelReason = reason
	c.EndTime = now
	b.log.Info("contract cancelled", "contract", c.ID, "reason", reason)
}

// Sweep cancels every available contract past its expiry and returns
// their ids in posting order.
func (b *Board) Sweep(now time.Time) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, id := range b.order {
		c := b.contracts[id]
		if c.Status == StatusAvailable && c.Expired(now) {
			b.cancel(c, "expired", now)
			out = append(out, id)
		}
	}
	return out
}

// Get returns a snapshot of one contract.
func (b *Board) Get(id string) (Contract, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.contracts[id]
	if !ok {
		return Contract{}, false
	}
	return *c, true
}

// List returns snapshots in posting order. An empty status lists all.
func (b *Board) List(status Status) []Contract {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Contract
	for _, id := range b.order {
		c := b.contracts[id]
		if status == "" || c.Status == status {
			out = append(out, *c)
		}
	}
	return out
}

// Resolved lists terminal contracts whose end time is at or after since, in
// posting order. Resolved contracts stay on the board.
func (b *Board) Resolved(since time.Time) []Contract {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Contract
	for _, id := range b.order {
		c := b.contracts[id]
		if c.Status.Terminal() && !c.EndTime.Before(since) {
			out = append(out, *c)
		}
	}
	return out
}

// FindSuitable lists available, unexpired contracts a is eligible for,
// best match first.
func (b *Board) FindSuitable(a *agents.Agent, f Filter, now time.Time) []Match {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Match
	for _, id := range b.order {
		c := b.contracts[id]
		if !b.open(c, a, now) || !f.allows(c) {
			continue
		}
		req := c.RequirementSet()
		if f.MaxRisk > 0 {
			r := b.scorer.CalculateRisk(a, req)
			if (r.PhysicalRisk+r.PsychologicalRisk)/2 > f.MaxRisk {
				continue
			}
		}
		comp := b.scorer.Evaluate(a, req)
		if comp.OverallScore < f.MinScore {
			continue
		}
		out = append(out, Match{Contract: *c, Compatibility: comp, Score: comp.OverallScore})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func (f Filter) allows(c *Contract) bool {
	if f.MaxTier != nil && c.Tier > *f.MaxTier {
		return false
	}
	if len(f.Categories) == 0 {
		return true
	}
	for _, cat := range f.Categories {
		if cat == c.Category {
			return true
		}
	}
	return false
}

func (b *Board) open(c *Contract, a *agents.Agent, now time.Time) bool {
	if c.Status != StatusAvailable || c.Expired(now) {
		return false
	}
	ok, _ := c.Eligible(a)
	return ok
}

// ChooseAutonomously picks the best available contract for an agent
// independent enough to choose for itself. The score is overall
// compatibility plus category affinity minus a neuroticism-scaled risk
// penalty; nil when nothing clears the minimum. The choice is not assigned.
func (b *Board) ChooseAutonomously(a *agents.Agent, now time.Time) *Contract {
	if a == nil || a.AutonomyLevel < b.cfg.MinAutonomy {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	var best *Contract
	bestScore := math.Inf(-1)
	for _, id := range b.order {
		c := b.contracts[id]
		if !b.open(c, a, now) {
			continue
		}
		if s := b.autonomyScore(a, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	if best == nil || bestScore < b.cfg.MinChoiceScore {
		b.log.Debug("no contract chosen", "agent", a.ID, "best", bestScore)
		return nil
	}
	snap := *best
	b.log.Debug("contract chosen", "agent", a.ID, "contract", snap.ID, "score", bestScore)
	return &snap
}

func (b *Board) autonomyScore(a *agents.Agent, c *Contract) float64 {
	req := c.RequirementSet()
	comp := b.scorer.Evaluate(a, req)
	risk := b.scorer.CalculateRisk(a, req)
	load := float64(risk.PhysicalRisk+risk.PsychologicalRisk) / 2
	penalty := load * b.cfg.RiskPenalty * float64(a.Personality.Traits.Neuroticism) / 50
	return comp.OverallScore + Affinity(a, c.Category)*b.cfg.AffinityBonus - penalty
}

// Affinity counts how many of a's traits pull toward category.
func Affinity(a *agents.Agent, category compat.Category) float64 {
	p := &a.Personality
	n := 0.0
	switch category {
	case compat.CategoryResearch:
		if p.Archetype == agents.ArchScholar {
			n++
		}
		if p.Tendencies.Curiosity > 70 {
			n++
		}
	case compat.CategoryEconomic:
		if p.Archetype == agents.ArchExplorer || p.Archetype == agents.ArchLeader {
			n++
		}
	case compat.CategoryCompetition:
		if p.Archetype == agents.ArchWarrior {
			n++
		}
		if p.Tendencies.Competitiveness > 60 {
			n++
		}
	case compat.CategoryCare:
		if p.Archetype == agents.ArchCaretaker {
			n++
		}
	case compat.CategoryAdoption:
		if p.Archetype == agents.ArchCaretaker || p.Archetype == agents.ArchSocialite {
			n++
		}
	}
	return n
}

func (b *Board) reject(op, id, reason string) {
	b.log.Debug("contract operation rejected", "op", op, "contract", id, "reason", reason)
}

// Evaluate scores a against a contract.
func Evaluate(a *agents.Agent, c *Contract) compat.Compatibility {
	return compat.Evaluate(a, c.RequirementSet())
}

// CalculateRisk profiles a contract's risk for a.
func CalculateRisk(a *agents.Agent, c *Contract) compat.Risk {
	return compat.CalculateRisk(a, c.RequirementSet())
}

// EstimateSuccess is the success probability in percent.
func EstimateSuccess(a *agents.Agent, c *Contract) float64 {
	return compat.EstimateSuccessProbability(a, c.RequirementSet())
}

// EstimateSuccess is the success probability in percent under the board's scorer.
func (b *Board) EstimateSuccess(a *agents.Agent, c *Contract) float64 {
	b.mu.Lock()
	s := b.scorer
	b.mu.Unlock()
	return s.EstimateSuccessProbability(a, c.RequirementSet())
}
