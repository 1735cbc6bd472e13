package agents

import "time"

// GoalType enumerates the intentions an agent can pursue.
type GoalType string

const (
	GoalTrainSkill         GoalType = "train_skill"
	GoalSocialize          GoalType = "socialize"
	GoalCompete            GoalType = "compete"
	GoalTeach              GoalType = "teach"
	GoalExplore            GoalType = "explore"
	GoalCreate             GoalType = "create"
	GoalRest               GoalType = "rest"
	GoalResolveConflict    GoalType = "resolve_conflict"
	GoalBond               GoalType = "bond"
	GoalEstablishTerritory GoalType = "establish_territory"
	GoalHelpFriend         GoalType = "help_friend"
	GoalAvoidEnemy         GoalType = "avoid_enemy"
	GoalSeekRomance        GoalType = "seek_romance"
	GoalProtectTerritory   GoalType = "protect_territory"
	GoalGatherResources    GoalType = "gather_resources"
	GoalSeekStimulation    GoalType = "seek_stimulation"
)

// GoalTypes lists every goal type in a stable order.
var GoalTypes = []GoalType{
	GoalTrainSkill, GoalSocialize, GoalCompete, GoalTeach, GoalExplore, GoalCreate,
	GoalRest, GoalResolveConflict, GoalBond, GoalEstablishTerritory, GoalHelpFriend,
	GoalAvoidEnemy, GoalSeekRomance, GoalProtectTerritory, GoalGatherResources,
	GoalSeekStimulation,
}

// SkillCheck is a d20 roll against Difficulty using Skill's rank as bonus.
type SkillCheck struct {
	Skill           Skill `json:"skill"`
	Difficulty      int   `json:"difficulty"`
	CriticalSuccess int   `json:"critical_success"`
}

// RelationshipDelta changes the bond toward a goal's target.
type RelationshipDelta struct {
	Strength int `json:"strength,omitempty"`
	Trust    int `json:"trust,omitempty"`
	Respect  int `json:"respect,omitempty"`
}

// Effects is a reward or failure bundle.
type Effects struct {
	Mood         int                `json:"mood"`
	Stress       int                `json:"stress,omitempty"`
	Needs        NeedsDelta         `json:"needs,omitempty"`
	StatGains    map[Stat]int       `json:"stat_gains,omitempty"`
	SkillGains   map[Skill]int      `json:"skill_gains,omitempty"`
	Relationship *RelationshipDelta `json:"relationship,omitempty"`
	Items        []string           `json:"items,omitempty"`
}

// Conditions gate whether a goal may be pursued.
type Conditions struct {
	MinStats              map[Stat]int       `json:"min_stats,omitempty"`
	RequiredRelationships []RelationshipType `json:"required_relationships,omitempty"`
	ForbiddenActivities   []Activity         `json:"forbidden_activities,omitempty"`
}

// Goal is a time-boxed intention with success and failure bundles.
type Goal struct {
	ID          string   `json:"id"`
	Type        GoalType `json:"type"`
	Priority    int      `json:"priority"`
	Description string   `json:"description"`
	TargetID    AgentID  `json:"target_id,omitempty"`

	SkillCheck *SkillCheck `json:"skill_check,omitempty"`
	// TimeRequired is in goal-minutes.
	TimeRequired int `json:"time_required"`

	Rewards        Effects    `json:"rewards"`
	FailureEffects Effects    `json:"failure_effects"`
	Availability   Conditions `json:"availability_conditions"`

	CreatedAt time.Time `json:"created_at"`
}

// Outcome is how a goal left the active slots.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeCritical Outcome = "critical"
	OutcomeFailure  Outcome = "failure"
	// OutcomeExpired retires a goal without applying effects. History
	// records it as a failure noted "Goal expired".
	OutcomeExpired Outcome = "expired"
)

// Succeeded reports whether the outcome applied the reward bundle.
func (o Outcome) Succeeded() bool {
	return o == OutcomeSuccess || o == OutcomeCritical
}

// GoalRecord is one entry of an agent's goal history.
type GoalRecord struct {
	GoalID      string    `json:"goal_id"`
	Type        GoalType  `json:"type"`
	TargetID    AgentID   `json:"target_id,omitempty"`
	Outcome     Outcome   `json:"outcome"`
	Roll        int       `json:"roll,omitempty"`
	Note        string    `json:"note,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// AddGoalRecord appends to the history ring, keeping the last limit entries.
func AddGoalRecord(a *Agent, rec GoalRecord, limit int) {
	a.GoalHistory = append(a.GoalHistory, rec)
	if limit > 0 && len(a.GoalHistory) > limit {
		// Copy so the backing array does not grow without bound.
		trimmed := make([]GoalRecord, limit)
		copy(trimmed, a.GoalHistory[len(a.GoalHistory)-limit:])
		a.GoalHistory = trimmed
	}
}

// RecentGoals returns up to count of the most recent history entries, newest first.
func RecentGoals(a *Agent, count int) []GoalRecord {
	if len(a.GoalHistory) == 0 {
		return nil
	}
	if count > len(a.GoalHistory) {
		count = len(a.GoalHistory)
	}
	out := make([]GoalRecord, 0, count)
	for i := len(a.GoalHistory) - 1; i >= 0 && len(out) < count; i-- {
		out = append(out, a.GoalHistory[i])
	}
	return out
}
