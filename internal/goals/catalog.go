package goals

import (
	"fmt"

	"github.com/talgya/tamaverse/internal/agents"
	"github.com/talgya/tamaverse/internal/entropy"
)

// recipe is the constructor for one goal type.
type recipe struct {
	minutes    int
	// targeted goals need a partner present. Relational ones only target
	// partners whose relationship unlocked them.
	targeted   bool
	relational bool
	conds      agents.Conditions
	build      func(a, target *agents.Agent, rng entropy.Source) draft
}

// draft is what a recipe fills in; the engine adds id, priority and time.
type draft struct {
	description string
	check       *agents.SkillCheck
	rewards     agents.Effects
	failure     agents.Effects
}

func check(skill agents.Skill, difficulty, critical int) *agents.SkillCheck {
	return &agents.SkillCheck{Skill: skill, Difficulty: difficulty, CriticalSuccess: critical}
}

func rel(strength, trust, respect int) *agents.RelationshipDelta {
	return &agents.RelationshipDelta{Strength: strength, Trust: trust, Respect: respect}
}

func nameOf(a *agents.Agent) string {
	if a == nil {
		return "someone"
	}
	return a.Name
}

// trainable skills and the stat each one exercises.
var trainable = []struct {
	skill agents.Skill
	stat  agents.Stat
}{
	{agents.SkillAthletics, agents.StatStrength},
	{agents.SkillAcrobatics, agents.StatAgility},
	{agents.SkillArcana, agents.StatIntelligence},
	{agents.SkillInsight, agents.StatWisdom},
	{agents.SkillPerformance, agents.StatCharisma},
	{agents.SkillSurvival, agents.StatConstitution},
}

var recipes = map[agents.GoalType]recipe{
	agents.GoalTrainSkill: {
		minutes: 30,
		build: func(a, _ *agents.Agent, rng entropy.Source) draft {
			t := trainable[entropy.Pick(rng, len(trainable))]
			return draft{
				description: fmt.Sprintf("Practice %s", t.skill),
				check:       check(t.skill, 12, 20),
				rewards: agents.Effects{
					Mood:       5,
					Needs:      agents.NeedsDelta{Energy: -15},
					SkillGains: map[agents.Skill]int{t.skill: 1},
					StatGains:  map[agents.Stat]int{t.stat: 1},
				},
				failure: agents.Effects{Mood: -3, Stress: 5, Needs: agents.NeedsDelta{Energy: -10}},
			}
		},
	},
	agents.GoalSocialize: {
		minutes:  20,
		targeted: true,
		conds:    agents.Conditions{ForbiddenActivities: []agents.Activity{agents.ActivityHiding}},
		build: func(a, target *agents.Agent, _ entropy.Source) draft {
			return draft{
				description: fmt.Sprintf("Spend time with %s", nameOf(target)),
				check:       check(agents.SkillPersuasion, 8, 18),
				rewards:     agents.Effects{Mood: 10, Stress: -5, Relationship: rel(3, 2, 0)},
				failure:     agents.Effects{Mood: -2, Relationship: rel(-1, 0, 0)},
			}
		},
	},
	agents.GoalCompete: {
		minutes:  25,
		targeted: true,
		conds:    agents.Conditions{ForbiddenActivities: []agents.Activity{agents.ActivityHiding}},
		build: func(a, target *agents.Agent, _ entropy.Source) draft {
			return draft{
				description: fmt.Sprintf("Challenge %s to a contest", nameOf(target)),
				check:       check(agents.SkillAthletics, 13, 19),
				rewards: agents.Effects{
					Mood:         8,
					Stress:       2,
					Needs:        agents.NeedsDelta{Energy: -20},
					SkillGains:   map[agents.Skill]int{agents.SkillAthletics: 1},
					Relationship: rel(0, 0, 3),
				},
				failure: agents.Effects{Mood: -5, Stress: 8, Needs: agents.NeedsDelta{Energy: -20}, Relationship: rel(-2, 0, 0)},
			}
		},
	},
	agents.GoalTeach: {
		minutes:  30,
		targeted: true,
		build: func(a, target *agents.Agent, _ entropy.Source) draft {
			return draft{
				description: fmt.Sprintf("Teach %s something useful", nameOf(target)),
				check:       check(agents.SkillInsight, 12, 19),
				rewards: agents.Effects{
					Mood:         8,
					SkillGains:   map[agents.Skill]int{agents.SkillPersuasion: 1},
					Relationship: rel(2, 3, 5),
				},
				failure: agents.Effects{Mood: -2, Stress: 3},
			}
		},
	},
	agents.GoalExplore: {
		minutes: 40,
		build: func(a, _ *agents.Agent, _ entropy.Source) draft {
			return draft{
				description: "Explore beyond the usual paths",
				check:       check(agents.SkillSurvival, 11, 19),
				rewards: agents.Effects{
					Mood:       8,
					Needs:      agents.NeedsDelta{Hunger: -10, Energy: -15},
					SkillGains: map[agents.Skill]int{agents.SkillNature: 1},
					Items:      []string{"curious pebble"},
				},
				failure: agents.Effects{Mood: -2, Stress: 3, Needs: agents.NeedsDelta{Energy: -15}},
			}
		},
	},
	agents.GoalCreate: {
		minutes: 35,
		build: func(a, _ *agents.Agent, _ entropy.Source) draft {
			return draft{
				description: "Make something by hand",
				check:       check(agents.SkillPerformance, 12, 19),
				rewards: agents.Effects{
					Mood:       12,
					Stress:     -3,
					SkillGains: map[agents.Skill]int{agents.SkillPerformance: 1},
					Items:      []string{"handmade trinket"},
				},
				failure: agents.Effects{Mood: -4, Stress: 4},
			}
		},
	},
	agents.GoalRest: {
		minutes: 15,
		build: func(a, _ *agents.Agent, _ entropy.Source) draft {
			return draft{
				description: "Take a nap",
				rewards:     agents.Effects{Mood: 2, Stress: -10, Needs: agents.NeedsDelta{Energy: 30}},
			}
		},
	},
	agents.GoalResolveConflict: {
		minutes:    20,
		targeted:   true,
		relational: true,
		build: func(a, target *agents.Agent, _ entropy.Source) draft {
			return draft{
				description: fmt.Sprintf("Make peace with %s", nameOf(target)),
				check:       check(agents.SkillPersuasion, 14, 20),
				rewards:     agents.Effects{Mood: 5, Stress: -10, Relationship: rel(10, 5, 0)},
				failure:     agents.Effects{Mood: -3, Stress: 5, Relationship: rel(-3, 0, 0)},
			}
		},
	},
	agents.GoalBond: {
		minutes:    20,
		targeted:   true,
		relational: true,
		build: func(a, target *agents.Agent, _ entropy.Source) draft {
			return draft{
				description: fmt.Sprintf("Grow closer to %s", nameOf(target)),
				check:       check(agents.SkillInsight, 10, 18),
				rewards:     agents.Effects{Mood: 6, Relationship: rel(5, 5, 0)},
				failure:     agents.Effects{Mood: -1, Relationship: rel(0, -1, 0)},
			}
		},
	},
	agents.GoalEstablishTerritory: {
		minutes: 30,
		build: func(a, _ *agents.Agent, _ entropy.Source) draft {
			return draft{
				description: "Claim a favorite spot",
				check:       check(agents.SkillSurvival, 12, 19),
				rewards:     agents.Effects{Mood: 5, Stress: -3, Items: []string{"territory marker"}},
				failure:     agents.Effects{Mood: -3, Stress: 3},
			}
		},
	},
	agents.GoalHelpFriend: {
		minutes:    20,
		targeted:   true,
		relational: true,
		conds:      agents.Conditions{RequiredRelationships: []agents.RelationshipType{agents.RelFriend, agents.RelBestFriend}},
		build: func(a, target *agents.Agent, _ entropy.Source) draft {
			return draft{
				description: fmt.Sprintf("Look after %s", nameOf(target)),
				check:       check(agents.SkillMedicine, 11, 19),
				rewards: agents.Effects{
					Mood:         8,
					SkillGains:   map[agents.Skill]int{agents.SkillMedicine: 1},
					Relationship: rel(6, 8, 0),
				},
				failure: agents.Effects{Mood: -2, Stress: 2},
			}
		},
	},
	agents.GoalAvoidEnemy: {
		minutes:    10,
		targeted:   true,
		relational: true,
		conds:      agents.Conditions{RequiredRelationships: []agents.RelationshipType{agents.RelEnemy, agents.RelRival}},
		build: func(a, target *agents.Agent, _ entropy.Source) draft {
			return draft{
				description: fmt.Sprintf("Keep away from %s", nameOf(target)),
				check:       check(agents.SkillStealth, 10, 18),
				rewards:     agents.Effects{Mood: 2, Stress: -8},
				failure:     agents.Effects{Mood: -5, Stress: 10, Relationship: rel(-3, 0, 0)},
			}
		},
	},
	agents.GoalSeekRomance: {
		minutes:    30,
		targeted:   true,
		relational: true,
		conds:      agents.Conditions{ForbiddenActivities: []agents.Activity{agents.ActivityHiding}},
		build: func(a, target *agents.Agent, _ entropy.Source) draft {
			return draft{
				description: fmt.Sprintf("Court %s", nameOf(target)),
				check:       check(agents.SkillPerformance, 14, 20),
				rewards:     agents.Effects{Mood: 15, Stress: -5, Relationship: rel(10, 8, 0)},
				failure:     agents.Effects{Mood: -6, Stress: 5, Relationship: rel(-2, 0, 0)},
			}
		},
	},
	agents.GoalProtectTerritory: {
		minutes: 25,
		build: func(a, _ *agents.Agent, _ entropy.Source) draft {
			return draft{
				description: "Patrol the home grounds",
				check:       check(agents.SkillPerception, 12, 19),
				rewards: agents.Effects{
					Mood:       4,
					Needs:      agents.NeedsDelta{Energy: -10},
					SkillGains: map[agents.Skill]int{agents.SkillPerception: 1},
				},
				failure: agents.Effects{Stress: 5, Needs: agents.NeedsDelta{Energy: -10}},
			}
		},
	},
	agents.GoalGatherResources: {
		minutes: 20,
		build: func(a, _ *agents.Agent, _ entropy.Source) draft {
			return draft{
				description: "Forage for food",
				check:       check(agents.SkillSurvival, 8, 18),
				rewards:     agents.Effects{Mood: 3, Needs: agents.NeedsDelta{Hunger: 30}, Items: []string{"berries"}},
				failure:     agents.Effects{Mood: -2, Needs: agents.NeedsDelta{Hunger: 10, Energy: -5}},
			}
		},
	},
	agents.GoalSeekStimulation: {
		minutes: 15,
		build: func(a, _ *agents.Agent, _ entropy.Source) draft {
			return draft{
				description: "Find something fun to do",
				rewards:     agents.Effects{Mood: 15, Needs: agents.NeedsDelta{Energy: -10}},
			}
		},
	},
}

// favoriteGoals maps favorite activity names onto the goal that pursues them.
var favoriteGoals = map[string]agents.GoalType{
	"training":    agents.GoalTrainSkill,
	"socializing": agents.GoalSocialize,
	"competing":   agents.GoalCompete,
	"teaching":    agents.GoalTeach,
	"exploring":   agents.GoalExplore,
	"creating":    agents.GoalCreate,
	"resting":     agents.GoalRest,
	"mediating":   agents.GoalResolveConflict,
	"bonding":     agents.GoalBond,
	"patrolling":  agents.GoalProtectTerritory,
	"helping":     agents.GoalHelpFriend,
	"hiding":      agents.GoalAvoidEnemy,
	"courting":    agents.GoalSeekRomance,
	"playing":     agents.GoalSeekStimulation,
}

// Priority scores a goal type for a's current needs and personality.
func (e *Engine) Priority(a *agents.Agent, t agents.GoalType) int {
	p := e.cfg.Priority
	thr := e.cfg.TraitThreshold
	pers := &a.Personality
	switch t {
	case agents.GoalRest:
		return p.Rest.Pick(a.Needs.Energy)
	case agents.GoalGatherResources:
		return p.GatherResources.Pick(a.Needs.Hunger)
	case agents.GoalSeekStimulation:
		return p.SeekStimulation.Pick(a.Needs.Happiness)
	case agents.GoalSocialize:
		return p.Socialize.Pick(pers.Traits.Extraversion, thr)
	case agents.GoalCompete:
		return p.Compete.Pick(pers.Tendencies.Competitiveness, thr)
	case agents.GoalTrainSkill:
		return p.TrainSkill.Pick(pers.Traits.Conscientiousness, thr)
	case agents.GoalTeach:
		return p.Teach.Pick(a.Stats.Wisdom, e.cfg.TeachWisdom-1)
	case agents.GoalExplore:
		return p.Explore.Pick(pers.Tendencies.Curiosity, thr)
	case agents.GoalCreate:
		return p.Create.Pick(pers.Traits.Openness, thr)
	case agents.GoalResolveConflict:
		return p.ResolveConflict.Pick(pers.Traits.Agreeableness, thr)
	case agents.GoalBond:
		return p.Bond.Pick(pers.Tendencies.Loyalty, thr)
	case agents.GoalHelpFriend:
		return p.HelpFriend.Pick(pers.Traits.Agreeableness, thr)
	case agents.GoalAvoidEnemy:
		return p.AvoidEnemy.Pick(pers.Traits.Neuroticism, thr)
	case agents.GoalSeekRomance:
		return p.SeekRomance.Pick(pers.Tendencies.Playfulness, thr)
	case agents.GoalEstablishTerritory:
		return p.EstablishTerritory.Pick(pers.Tendencies.Independence, thr)
	case agents.GoalProtectTerritory:
		return p.ProtectTerritory.Pick(pers.Tendencies.Aggression, thr)
	}
	return 1
}

// candidate is an available goal type and the partners it could target.
type candidate struct {
	goal    agents.GoalType
	targets []*agents.Agent
}

// Available lists the goal types a could start now, in stable order.
// Types already held are excluded.
func (e *Engine) Available(a *agents.Agent, present []*agents.Agent) []agents.GoalType {
	cands := e.candidates(a, present)
	out := make([]agents.GoalType, len(cands))
	for i, c := range cands {
		out[i] = c.goal
	}
	return out
}

func (e *Engine) candidates(a *agents.Agent, present []*agents.Agent) []candidate {
	cfg := e.cfg
	pers := &a.Personality
	others := othersOf(a, present)
	social := len(present) >= cfg.MinSocialAgents && len(others) > 0
	drive := cfg.TraitDrive

	want := make(map[agents.GoalType]bool)
	if a.Needs.Hunger < cfg.HungerThreshold {
		want[agents.GoalGatherResources] = true
	}
	if a.Needs.Energy < cfg.EnergyThreshold {
		want[agents.GoalRest] = true
	}
	if a.Needs.Happiness < cfg.HappinessThreshold {
		want[agents.GoalSeekStimulation] = true
	}
	for _, fav := range pers.Favorites {
		if t, ok := favoriteGoals[fav]; ok {
			want[t] = true
		}
	}
	if pers.Traits.Extraversion > drive {
		want[agents.GoalSocialize] = true
	}
	if pers.Traits.Openness > drive {
		want[agents.GoalCreate] = true
	}
	if pers.Traits.Conscientiousness > drive {
		want[agents.GoalTrainSkill] = true
	}
	if pers.Tendencies.Competitiveness > drive {
		want[agents.GoalCompete] = true
	}
	if pers.Tendencies.Curiosity > drive {
		want[agents.GoalExplore] = true
	}
	if pers.Tendencies.Independence > drive {
		want[agents.GoalEstablishTerritory] = true
	}
	if pers.Archetype == agents.ArchGuardian {
		want[agents.GoalProtectTerritory] = true
	}
	if a.Stats.Wisdom >= cfg.TeachWisdom && social {
		want[agents.GoalTeach] = true
	}

	// Relationship-driven types, with their targets.
	targets := make(map[agents.GoalType][]*agents.Agent)
	for _, o := range others {
		r := a.Relationship(o.ID)
		if r == nil {
			continue
		}
		if r.InConflict() {
			targets[agents.GoalResolveConflict] = append(targets[agents.GoalResolveConflict], o)
		}
		if r.Strength > 0 && r.Strength < 100 {
			targets[agents.GoalBond] = append(targets[agents.GoalBond], o)
		}
		if r.Type == agents.RelEnemy {
			targets[agents.GoalAvoidEnemy] = append(targets[agents.GoalAvoidEnemy], o)
		}
		if (r.Type == agents.RelFriend || r.Type == agents.RelBestFriend) && e.distressed(o) {
			targets[agents.GoalHelpFriend] = append(targets[agents.GoalHelpFriend], o)
		}
		if r.Strength > cfg.RomanceStrength && r.Trust > cfg.RomanceTrust {
			targets[agents.GoalSeekRomance] = append(targets[agents.GoalSeekRomance], o)
		}
	}
	for t := range targets {
		want[t] = true
	}

	var out []candidate
	for _, t := range agents.GoalTypes {
		if !want[t] || a.HasGoalType(t) {
			continue
		}
		if pers.DislikesActivity(string(ActivityFor(t))) {
			continue
		}
		rc, ok := recipes[t]
		if !ok {
			continue
		}
		c := candidate{goal: t}
		if rc.targeted {
			pool := targets[t]
			if pool == nil && !rc.relational {
				if !social {
					continue
				}
				pool = others
			}
			for _, o := range pool {
				if conditionsMet(a, o, e.conditions(t, rc)) {
					c.targets = append(c.targets, o)
				}
			}
			if len(c.targets) == 0 {
				continue
			}
		} else if !conditionsMet(a, nil, e.conditions(t, rc)) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// conditions are a recipe's availability conditions with tuned gates applied.
func (e *Engine) conditions(t agents.GoalType, rc recipe) agents.Conditions {
	c := rc.conds
	if t == agents.GoalTeach {
		c.MinStats = map[agents.Stat]int{agents.StatWisdom: e.cfg.TeachWisdom}
	}
	return c
}

func (e *Engine) distressed(a *agents.Agent) bool {
	return a.Needs.Overall() < e.cfg.DistressNeeds || a.Mental.Stress > e.cfg.DistressStress
}

func othersOf(a *agents.Agent, present []*agents.Agent) []*agents.Agent {
	out := make([]*agents.Agent, 0, len(present))
	for _, o := range present {
		if o != nil && o.ID != a.ID {
			out = append(out, o)
		}
	}
	return out
}
