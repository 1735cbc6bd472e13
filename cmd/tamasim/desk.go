package main

import (
	"log/slog"
	"time"

	"github.com/talgya/tamaverse/internal/agents"
	"github.com/talgya/tamaverse/internal/contracts"
	"github.com/talgya/tamaverse/internal/entropy"
)

// desk runs the host side of the contract board: posting work, letting
// autonomous agents pick it up and resolving it when the work time is over.
type desk struct {
	board  *contracts.Board
	gen    *contracts.Generator
	rng    entropy.Source
	roster contracts.Roster
	every  int
	log    *slog.Logger

	earned map[agents.AgentID]int
}

func newDesk(board *contracts.Board, gen *contracts.Generator, rng entropy.Source, roster contracts.Roster, every int, log *slog.Logger) *desk {
	return &desk{
		board:  board,
		gen:    gen,
		rng:    rng,
		roster: roster,
		every:  every,
		log:    log,
		earned: make(map[agents.AgentID]int),
	}
}

// step runs one tick of board activity and returns the contracts that changed.
func (d *desk) step(tick uint64, now time.Time, population []*agents.Agent) []contracts.Contract {
	var changed []string
	if d.every > 0 && tick%uint64(d.every) == 0 {
		if c := d.gen.Random(now); c != nil && d.board.Post(c) {
			changed = append(changed, c.ID)
		}
	}
	changed = append(changed, d.resolve(now)...)
	changed = append(changed, d.choose(now, population)...)
	return d.snapshots(changed)
}

// sweep cancels expired postings.
func (d *desk) sweep(now time.Time) []contracts.Contract {
	return d.snapshots(d.board.Sweep(now))
}

func (d *desk) choose(now time.Time, population []*agents.Agent) []string {
	busy := make(map[agents.AgentID]bool)
	for _, st := range []contracts.Status{contracts.StatusAssigned, contracts.StatusActive} {
		for _, c := range d.board.List(st) {
			busy[c.AssignedTamaID] = true
		}
	}
	var changed []string
	for _, a := range population {
		if busy[a.ID] {
			continue
		}
		pick := d.board.ChooseAutonomously(a, now)
		if pick == nil || !d.board.Assign(pick.ID, a.ID) {
			continue
		}
		d.board.Start(pick.ID, now)
		busy[a.ID] = true
		changed = append(changed, pick.ID)
		d.log.Debug("agent took contract", "agent", a.Name, "contract", pick.Title)
	}
	return changed
}

func (d *desk) resolve(now time.Time) []string {
	var changed []string
	for _, c := range d.board.List(contracts.StatusActive) {
		if now.Sub(c.StartTime) < workTime(&c) {
			continue
		}
		a := d.roster.Lookup(c.AssignedTamaID)
		if a == nil {
			d.board.Cancel(c.ID, "assignee left", now)
			changed = append(changed, c.ID)
			continue
		}
		success := d.rng.Float64()*100 < d.board.EstimateSuccess(a, &c)
		if d.board.Complete(c.ID, a, success, now) {
			if got, ok := d.board.Get(c.ID); ok {
				d.earned[a.ID] += got.Payout
			}
			changed = append(changed, c.ID)
		}
	}
	return changed
}

// workTime is how long an active contract occupies its agent.
func workTime(c *contracts.Contract) time.Duration {
	if c.Research != nil && c.Research.DurationHours > 0 {
		return time.Duration(c.Research.DurationHours) * time.Hour
	}
	return time.Duration(2*(int(c.Tier)+1)) * time.Hour
}

func (d *desk) snapshots(ids []string) []contracts.Contract {
	out := make([]contracts.Contract, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if c, ok := d.board.Get(id); ok {
			out = append(out, c)
		}
	}
	return out
}
