// Package agents provides the trait model: the agent record, its stats,
// skills, personality, needs and mental state, plus the relationship and goal
// records the engines mutate.
package agents

import "time"

// AgentID is a unique identifier for an agent.
type AgentID string

// Agent is the unit of simulation. The host owns creation and storage; the
// engines mutate it in place each tick.
type Agent struct {
	ID      AgentID `json:"id"`
	Name    string  `json:"name"`
	Species string  `json:"species"`
	Tier    int     `json:"tier"`
	Level   int     `json:"level"`

	Stats       Stats        `json:"stats"`
	Personality Personality  `json:"personality"`
	Needs       Needs        `json:"needs"`
	Mental      MentalState  `json:"mental_state"`
	Social      SocialStatus `json:"social_status"`

	// AutonomyLevel gates self-directed choices such as picking contracts (0–100).
	AutonomyLevel int `json:"autonomy_level"`

	// Relationships is sparse: a missing entry means stranger.
	Relationships map[AgentID]*Relationship `json:"relationships"`

	// CurrentGoals is kept sorted by descending priority.
	CurrentGoals []*Goal      `json:"current_goals"`
	GoalHistory  []GoalRecord `json:"goal_history"`

	CurrentActivity   Activity  `json:"current_activity"`
	ActivityStartTime time.Time `json:"activity_start_time"`
	ActivityLocation  string    `json:"activity_location"`
	// ActivityGoalID is the goal currently driving CurrentActivity.
	ActivityGoalID string `json:"activity_goal_id,omitempty"`

	Items []string `json:"items,omitempty"`
}

// Relationship returns the record toward other, or nil for a stranger.
func (a *Agent) Relationship(other AgentID) *Relationship {
	if a.Relationships == nil {
		return nil
	}
	return a.Relationships[other]
}

// TopGoal returns the highest-priority goal, or nil.
func (a *Agent) TopGoal() *Goal {
	if len(a.CurrentGoals) == 0 {
		return nil
	}
	return a.CurrentGoals[0]
}

// HasGoalType reports whether an active goal of type t exists.
func (a *Agent) HasGoalType(t GoalType) bool {
	for _, g := range a.CurrentGoals {
		if g.Type == t {
			return true
		}
	}
	return false
}

// Stat names one of the six primary attributes.
type Stat uint8

const (
	StatStrength Stat = iota
	StatAgility
	StatIntelligence
	StatWisdom
	StatCharisma
	StatConstitution
)

// NumStats is the number of primary attributes.
const NumStats = 6

var statNames = [NumStats]string{"strength", "agility", "intelligence", "wisdom", "charisma", "constitution"}

func (s Stat) String() string {
	if int(s) < NumStats {
		return statNames[s]
	}
	return "unknown"
}

// Stats holds primary attributes, derived combat values and skills.
type Stats struct {
	Strength     int `json:"strength"`
	Agility      int `json:"agility"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
	Constitution int `json:"constitution"`

	Health      int `json:"health"`
	MaxHealth   int `json:"max_health"`
	Mana        int `json:"mana"`
	Stamina     int `json:"stamina"`
	ArmorClass  int `json:"armor_class"`
	AttackBonus int `json:"attack_bonus"`

	Skills SkillSet `json:"skills"`
}

// Get returns a primary attribute by name.
func (s *Stats) Get(stat Stat) int {
	switch stat {
	case StatStrength:
		return s.Strength
	case StatAgility:
		return s.Agility
	case StatIntelligence:
		return s.Intelligence
	case StatWisdom:
		return s.Wisdom
	case StatCharisma:
		return s.Charisma
	case StatConstitution:
		return s.Constitution
	}
	return 0
}

// Add changes a primary attribute, flooring at 1.
func (s *Stats) Add(stat Stat, delta int) {
	var p *int
	switch stat {
	case StatStrength:
		p = &s.Strength
	case StatAgility:
		p = &s.Agility
	case StatIntelligence:
		p = &s.Intelligence
	case StatWisdom:
		p = &s.Wisdom
	case StatCharisma:
		p = &s.Charisma
	case StatConstitution:
		p = &s.Constitution
	default:
		return
	}
	*p += delta
	if *p < 1 {
		*p = 1
	}
}

// HealthPercent returns current health as 0–100 of max health.
func (s *Stats) HealthPercent() int {
	if s.MaxHealth <= 0 {
		return 100
	}
	return clamp(s.Health*100/s.MaxHealth, 0, 100)
}

// Modifier is the d20-style ability modifier for a score.
func Modifier(score int) int {
	v := score - 10
	if v < 0 {
		return (v - 1) / 2
	}
	return v / 2
}

// Skill enumerates the fixed skill set.
type Skill uint8

const (
	SkillAthletics Skill = iota
	SkillAcrobatics
	SkillStealth
	SkillArcana
	SkillHistory
	SkillInvestigation
	SkillNature
	SkillAnimalHandling
	SkillInsight
	SkillMedicine
	SkillPerception
	SkillSurvival
	SkillDeception
	SkillIntimidation
	SkillPerformance
	SkillPersuasion
)

// NumSkills is the total number of skills.
const NumSkills = 16

var skillNames = [NumSkills]string{
	"athletics", "acrobatics", "stealth", "arcana", "history", "investigation",
	"nature", "animal_handling", "insight", "medicine", "perception", "survival",
	"deception", "intimidation", "performance", "persuasion",
}

func (s Skill) String() string {
	if int(s) < NumSkills {
		return skillNames[s]
	}
	return "unknown"
}

// ParseSkill resolves a skill name.
func ParseSkill(name string) (Skill, bool) {
	for i, n := range skillNames {
		if n == name {
			return Skill(i), true
		}
	}
	return 0, false
}

// SkillSet is a fixed-size array of skill ranks (0+), inline in Stats.
type SkillSet [NumSkills]int

// Get returns the rank of a skill.
func (s *SkillSet) Get(skill Skill) int {
	if int(skill) >= NumSkills {
		return 0
	}
	return s[skill]
}

// Add changes a skill rank, flooring at zero.
func (s *SkillSet) Add(skill Skill, delta int) {
	if int(skill) >= NumSkills {
		return
	}
	s[skill] += delta
	if s[skill] < 0 {
		s[skill] = 0
	}
}

// MentalState tracks stress, confidence and satisfaction (0–100).
type MentalState struct {
	Stress         int         `json:"stress"`
	Confidence     int         `json:"confidence"`
	Satisfaction   int         `json:"satisfaction"`
	LastMajorEvent *MajorEvent `json:"last_major_event,omitempty"`
}

// MajorEvent records the last notable thing that happened to an agent.
type MajorEvent struct {
	At          time.Time `json:"at"`
	Description string    `json:"description"`
	Impact      int       `json:"impact"`
}

// AdjustStress changes stress, clamped to [0, 100].
func (m *MentalState) AdjustStress(delta int) {
	m.Stress = clamp(m.Stress+delta, 0, 100)
}

// AdjustConfidence changes confidence, clamped to [0, 100].
func (m *MentalState) AdjustConfidence(delta int) {
	m.Confidence = clamp(m.Confidence+delta, 0, 100)
}

// AdjustSatisfaction changes satisfaction, clamped to [0, 100].
func (m *MentalState) AdjustSatisfaction(delta int) {
	m.Satisfaction = clamp(m.Satisfaction+delta, 0, 100)
}

// SocialStatus holds standing values mutated by contract outcomes (0–100).
type SocialStatus struct {
	Reputation int `json:"reputation"`
	Leadership int `json:"leadership"`
	Popularity int `json:"popularity"`
	Respect    int `json:"respect"`
}

// AdjustReputation changes reputation, clamped to [0, 100].
func (s *SocialStatus) AdjustReputation(delta int) {
	s.Reputation = clamp(s.Reputation+delta, 0, 100)
}

// Activity is the display/runtime state mirrored from the top goal.
type Activity string

const (
	ActivityResting     Activity = "resting"
	ActivityTraining    Activity = "training"
	ActivitySocializing Activity = "socializing"
	ActivityCompeting   Activity = "competing"
	ActivityTeaching    Activity = "teaching"
	ActivityExploring   Activity = "exploring"
	ActivityCreating    Activity = "creating"
	ActivityMediating   Activity = "mediating"
	ActivityBonding     Activity = "bonding"
	ActivityPatrolling  Activity = "patrolling"
	ActivityHelping     Activity = "helping"
	ActivityHiding      Activity = "hiding"
	ActivityCourting    Activity = "courting"
	ActivityPlaying     Activity = "playing"
)

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	return clamp(v, lo, hi)
}
