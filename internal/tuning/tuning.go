// Package tuning holds every numeric knob of the autonomy engines. Defaults
// reproduce the reference behavior; a YAML file can override any subset.
package tuning

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by Validate failures.
var ErrInvalid = errors.New("invalid tuning")

// Tuning is the full document, one section per engine.
type Tuning struct {
	Goals         Goals         `yaml:"goals"`
	Relationships Relationships `yaml:"relationships"`
	Contracts     Contracts     `yaml:"contracts"`
	Compat        Compat        `yaml:"compat"`
}

// Goals tunes the goal engine.
type Goals struct {
	MaxActive        int           `yaml:"max_active"`
	HistorySize      int           `yaml:"history_size"`
	TTL              time.Duration `yaml:"ttl"`
	FallbackAge      time.Duration `yaml:"fallback_age"`
	MinuteScale      time.Duration `yaml:"minute_scale"`
	CompletionChance float64       `yaml:"completion_chance"`
	CriticalMood     float64       `yaml:"critical_mood_multiplier"`
	CriticalSkill    int           `yaml:"critical_skill_multiplier"`

	HungerThreshold    int `yaml:"hunger_threshold"`
	EnergyThreshold    int `yaml:"energy_threshold"`
	HappinessThreshold int `yaml:"happiness_threshold"`
	TraitThreshold     int `yaml:"trait_threshold"`
	MinSocialAgents    int `yaml:"min_social_agents"`

	// Availability gates beyond needs and favorites.
	TraitDrive      int `yaml:"trait_drive"` // a tendency above this unlocks its goal on its own
	TeachWisdom     int `yaml:"teach_wisdom"`
	RomanceStrength int `yaml:"romance_strength"`
	RomanceTrust    int `yaml:"romance_trust"`
	DistressNeeds   int `yaml:"distress_needs"`
	DistressStress  int `yaml:"distress_stress"`

	Priority Priorities `yaml:"priority"`
}

// Band is a three-step priority: Urgent below Low, Elevated below Mid, else Base.
type Band struct {
	Low      int `yaml:"low"`
	Mid      int `yaml:"mid"`
	Urgent   int `yaml:"urgent"`
	Elevated int `yaml:"elevated"`
	Base     int `yaml:"base"`
}

// Pick returns the band priority for a need value.
func (b Band) Pick(value int) int {
	switch {
	case value < b.Low:
		return b.Urgent
	case value < b.Mid:
		return b.Elevated
	default:
		return b.Base
	}
}

// Pair is a two-step priority chosen by a trait threshold.
type Pair struct {
	High int `yaml:"high"`
	Low  int `yaml:"low"`
}

// Pick returns High when trait exceeds threshold.
func (p Pair) Pick(trait, threshold int) int {
	if trait > threshold {
		return p.High
	}
	return p.Low
}

// Priorities holds the priority rule of every goal type.
type Priorities struct {
	Rest            Band `yaml:"rest"`
	GatherResources Band `yaml:"gather_resources"`
	SeekStimulation Band `yaml:"seek_stimulation"`

	Socialize          Pair `yaml:"socialize"`
	Compete            Pair `yaml:"compete"`
	TrainSkill         Pair `yaml:"train_skill"`
	Teach              Pair `yaml:"teach"`
	Explore            Pair `yaml:"explore"`
	Create             Pair `yaml:"create"`
	ResolveConflict    Pair `yaml:"resolve_conflict"`
	Bond               Pair `yaml:"bond"`
	HelpFriend         Pair `yaml:"help_friend"`
	AvoidEnemy         Pair `yaml:"avoid_enemy"`
	SeekRomance        Pair `yaml:"seek_romance"`
	EstablishTerritory Pair `yaml:"establish_territory"`
	ProtectTerritory   Pair `yaml:"protect_territory"`
}

// Relationships tunes the relationship engine.
type Relationships struct {
	BaseChance          float64 `yaml:"base_chance"`
	ExtravertBonus      float64 `yaml:"extravert_bonus"`
	AgreeableBonus      float64 `yaml:"agreeable_bonus"`
	SharedActivityBonus float64 `yaml:"shared_activity_bonus"`
	StressPenalty       float64 `yaml:"stress_penalty"`
	MaxChance           float64 `yaml:"max_chance"`
	TraitThreshold      int     `yaml:"trait_threshold"`
	StressThreshold     int     `yaml:"stress_threshold"`
	MinImpact           int     `yaml:"min_impact"`
	MaxImpact           int     `yaml:"max_impact"`
	DecayPerDay         int     `yaml:"decay_per_day"`
	HistoryLimit        int     `yaml:"history_limit"` // 0 keeps the whole history
}

// Contracts tunes the contract board and generators.
type Contracts struct {
	MinAutonomy    int           `yaml:"min_autonomy"`
	MinChoiceScore float64       `yaml:"min_choice_score"`
	DefaultExpiry  time.Duration `yaml:"default_expiry"`
	Multipliers    []float64     `yaml:"multipliers"`
	AffinityBonus  float64       `yaml:"affinity_bonus"`
	RiskPenalty    float64       `yaml:"risk_penalty"`
}

// Compat tunes the compatibility and risk scorers.
type Compat struct {
	// Dimensions scoring above StrengthAt are strengths, below WeaknessAt weaknesses.
	StrengthAt float64 `yaml:"strength_at"`
	WeaknessAt float64 `yaml:"weakness_at"`
	// Neutral scores when a requirement set says nothing about a dimension.
	NeutralStats       float64 `yaml:"neutral_stats"`
	NeutralSkills      float64 `yaml:"neutral_skills"`
	NeutralPersonality float64 `yaml:"neutral_personality"`
	OverallFloor       float64 `yaml:"overall_floor"`
	OverallCeil        float64 `yaml:"overall_ceil"`

	RiskCeil      int `yaml:"risk_ceil"`
	WarnAt        int `yaml:"warn_at"`
	MitigateAt    int `yaml:"mitigate_at"`
	StressWarning int `yaml:"stress_warning"`
	// Per-point risk shifts from stress, confidence and missing health.
	StressRisk     float64 `yaml:"stress_risk"`
	ConfidenceRisk float64 `yaml:"confidence_risk"`
	InjuryRisk     float64 `yaml:"injury_risk"`

	SuccessFloor float64 `yaml:"success_floor"`
	SuccessCeil  float64 `yaml:"success_ceil"`
}

// Default returns the reference tuning.
func Default() Tuning {
	return Tuning{
		Goals: Goals{
			MaxActive:          3,
			HistorySize:        20,
			TTL:                5 * time.Minute,
			FallbackAge:        time.Minute,
			MinuteScale:        time.Second,
			CompletionChance:   0.3,
			CriticalMood:       1.5,
			CriticalSkill:      2,
			HungerThreshold:    60,
			EnergyThreshold:    50,
			HappinessThreshold: 50,
			TraitThreshold:     60,
			MinSocialAgents:    2,
			TraitDrive:         70,
			TeachWisdom:        14,
			RomanceStrength:    60,
			RomanceTrust:       70,
			DistressNeeds:      50,
			DistressStress:     70,
			Priority: Priorities{
				Rest:               Band{Low: 30, Mid: 50, Urgent: 10, Elevated: 8, Base: 3},
				GatherResources:    Band{Low: 30, Mid: 60, Urgent: 9, Elevated: 7, Base: 3},
				SeekStimulation:    Band{Low: 30, Mid: 50, Urgent: 7, Elevated: 5, Base: 2},
				Socialize:          Pair{High: 7, Low: 4},
				Compete:            Pair{High: 6, Low: 3},
				TrainSkill:         Pair{High: 7, Low: 5},
				Teach:              Pair{High: 6, Low: 4},
				Explore:            Pair{High: 6, Low: 3},
				Create:             Pair{High: 6, Low: 3},
				ResolveConflict:    Pair{High: 7, Low: 5},
				Bond:               Pair{High: 6, Low: 4},
				HelpFriend:         Pair{High: 6, Low: 3},
				AvoidEnemy:         Pair{High: 8, Low: 5},
				SeekRomance:        Pair{High: 5, Low: 5},
				EstablishTerritory: Pair{High: 5, Low: 3},
				ProtectTerritory:   Pair{High: 6, Low: 4},
			},
		},
		Relationships: Relationships{
			BaseChance:          0.05,
			ExtravertBonus:      0.10,
			AgreeableBonus:      0.05,
			SharedActivityBonus: 0.15,
			StressPenalty:       0.10,
			MaxChance:           0.50,
			TraitThreshold:      60,
			StressThreshold:     70,
			MinImpact:           1,
			MaxImpact:           10,
			DecayPerDay:         1,
		},
		Contracts: Contracts{
			MinAutonomy:    50,
			MinChoiceScore: 60,
			DefaultExpiry:  72 * time.Hour,
			Multipliers:    []float64{1.0, 1.5, 2.2, 3.0},
			AffinityBonus:  10,
			RiskPenalty:    0.2,
		},
		Compat: Compat{
			StrengthAt:         80,
			WeaknessAt:         50,
			NeutralStats:       75,
			NeutralSkills:      70,
			NeutralPersonality: 60,
			OverallFloor:       10,
			OverallCeil:        100,
			RiskCeil:           90,
			WarnAt:             60,
			MitigateAt:         40,
			StressWarning:      70,
			StressRisk:         0.3,
			ConfidenceRisk:     0.2,
			InjuryRisk:         0.3,
			SuccessFloor:       10,
			SuccessCeil:        95,
		},
	}
}

// Load reads a YAML tuning file over the defaults.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate rejects settings the engines cannot honor.
func (t Tuning) Validate() error {
	g := t.Goals
	switch {
	case g.MaxActive < 1:
		return fmt.Errorf("%w: goals.max_active must be >= 1", ErrInvalid)
	case g.HistorySize < 1:
		return fmt.Errorf("%w: goals.history_size must be >= 1", ErrInvalid)
	case g.TTL <= 0 || g.MinuteScale <= 0:
		return fmt.Errorf("%w: goals.ttl and goals.minute_scale must be positive", ErrInvalid)
	case g.CompletionChance < 0 || g.CompletionChance > 1:
		return fmt.Errorf("%w: goals.completion_chance must be in [0,1]", ErrInvalid)
	}
	r := t.Relationships
	switch {
	case r.MaxChance < 0 || r.MaxChance > 1:
		return fmt.Errorf("%w: relationships.max_chance must be in [0,1]", ErrInvalid)
	case r.MinImpact < 0 || r.MaxImpact < r.MinImpact:
		return fmt.Errorf("%w: relationships impact range is empty", ErrInvalid)
	case r.DecayPerDay < 0:
		return fmt.Errorf("%w: relationships.decay_per_day must be >= 0", ErrInvalid)
	}
	m := t.Compat
	switch {
	case m.OverallFloor > m.OverallCeil || m.SuccessFloor > m.SuccessCeil:
		return fmt.Errorf("%w: compat floors must not exceed ceilings", ErrInvalid)
	case m.RiskCeil < 0:
		return fmt.Errorf("%w: compat.risk_ceil must be >= 0", ErrInvalid)
	}
	c := t.Contracts
	if len(c.Multipliers) == 0 {
		return fmt.Errorf("%w: contracts.multipliers is empty", ErrInvalid)
	}
	for i := 1; i < len(c.Multipliers); i++ {
		if c.Multipliers[i] < c.Multipliers[i-1] {
			return fmt.Errorf("%w: contracts.multipliers must be non-decreasing", ErrInvalid)
		}
	}
	return nil
}

// Multiplier returns the multiplier for a difficulty tier, clamped to the table.
func (c Contracts) Multiplier(tier int) float64 {
	if len(c.Multipliers) == 0 {
		return 1
	}
	if tier < 0 {
		tier = 0
	}
	if tier >= len(c.Multipliers) {
		tier = len(c.Multipliers) - 1
	}
	return c.Multipliers[tier]
}
