// Personality archetypes: ten behavioral templates that seed traits,
// tendencies, styles and favorite activities for newly spawned agents.
package agents

// Archetype tags an agent's broad personality.
type Archetype string

const (
	ArchLeader    Archetype = "leader"
	ArchWarrior   Archetype = "warrior"
	ArchScholar   Archetype = "scholar"
	ArchArtist    Archetype = "artist"
	ArchExplorer  Archetype = "explorer"
	ArchCaretaker Archetype = "caretaker"
	ArchTrickster Archetype = "trickster"
	ArchHermit    Archetype = "hermit"
	ArchGuardian  Archetype = "guardian"
	ArchSocialite Archetype = "socialite"
)

// Archetypes lists every archetype in a stable order.
var Archetypes = []Archetype{
	ArchLeader, ArchWarrior, ArchScholar, ArchArtist, ArchExplorer,
	ArchCaretaker, ArchTrickster, ArchHermit, ArchGuardian, ArchSocialite,
}

// BigFive holds normalized Big-Five traits (0–100).
type BigFive struct {
	Openness          int `json:"openness"`
	Conscientiousness int `json:"conscientiousness"`
	Extraversion      int `json:"extraversion"`
	Agreeableness     int `json:"agreeableness"`
	Neuroticism       int `json:"neuroticism"`
}

// Tendencies holds behavioral tendencies (0–100).
type Tendencies struct {
	Aggression      int `json:"aggression"`
	Curiosity       int `json:"curiosity"`
	Loyalty         int `json:"loyalty"`
	Independence    int `json:"independence"`
	Playfulness     int `json:"playfulness"`
	Competitiveness int `json:"competitiveness"`
}

type GroupingStyle string

const (
	GroupSolitary GroupingStyle = "solitary"
	GroupSmall    GroupingStyle = "small_group"
	GroupLarge    GroupingStyle = "large_group"
	GroupFlexible GroupingStyle = "flexible"
)

type LeadershipStyle string

const (
	LeadFollower      LeadershipStyle = "follower"
	LeadCollaborative LeadershipStyle = "collaborative"
	LeadAuthoritative LeadershipStyle = "authoritative"
	LeadIndependent   LeadershipStyle = "independent"
)

type ConflictStyle string

const (
	ConflictAvoidant      ConflictStyle = "avoidant"
	ConflictAccommodating ConflictStyle = "accommodating"
	ConflictCompetitive   ConflictStyle = "competitive"
	ConflictCompromising  ConflictStyle = "compromising"
	ConflictCollaborative ConflictStyle = "collaborative"
)

// Personality describes how an agent tends to behave.
type Personality struct {
	Archetype  Archetype       `json:"archetype"`
	Traits     BigFive         `json:"traits"`
	Tendencies Tendencies      `json:"tendencies"`
	Grouping   GroupingStyle   `json:"grouping_style"`
	Leadership LeadershipStyle `json:"leadership_style"`
	Conflict   ConflictStyle   `json:"conflict_style"`
	Favorites  []string        `json:"favorite_activities"`
	Dislikes   []string        `json:"disliked_activities"`
}

// Trait names any scalar personality dimension, for requirement constraints.
type Trait string

const (
	TraitOpenness          Trait = "openness"
	TraitConscientiousness Trait = "conscientiousness"
	TraitExtraversion      Trait = "extraversion"
	TraitAgreeableness     Trait = "agreeableness"
	TraitNeuroticism       Trait = "neuroticism"
	TraitAggression        Trait = "aggression"
	TraitCuriosity         Trait = "curiosity"
	TraitLoyalty           Trait = "loyalty"
	TraitIndependence      Trait = "independence"
	TraitPlayfulness       Trait = "playfulness"
	TraitCompetitiveness   Trait = "competitiveness"
)

// Trait returns a personality dimension by name; unknown names read as 50.
func (p *Personality) Trait(t Trait) int {
	switch t {
	case TraitOpenness:
		return p.Traits.Openness
	case TraitConscientiousness:
		return p.Traits.Conscientiousness
	case TraitExtraversion:
		return p.Traits.Extraversion
	case TraitAgreeableness:
		return p.Traits.Agreeableness
	case TraitNeuroticism:
		return p.Traits.Neuroticism
	case TraitAggression:
		return p.Tendencies.Aggression
	case TraitCuriosity:
		return p.Tendencies.Curiosity
	case TraitLoyalty:
		return p.Tendencies.Loyalty
	case TraitIndependence:
		return p.Tendencies.Independence
	case TraitPlayfulness:
		return p.Tendencies.Playfulness
	case TraitCompetitiveness:
		return p.Tendencies.Competitiveness
	}
	return 50
}

// Likes reports whether activity is among the favorites.
func (p *Personality) Likes(activity string) bool {
	return contains(p.Favorites, activity)
}

// DislikesActivity reports whether activity is among the disliked activities.
func (p *Personality) DislikesActivity(activity string) bool {
	return contains(p.Dislikes, activity)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Template is the baseline personality an archetype spawns with. Spawned
// agents jitter around these values.
type Template struct {
	Traits     BigFive
	Tendencies Tendencies
	Grouping   GroupingStyle
	Leadership LeadershipStyle
	Conflict   ConflictStyle
	Favorites  []string
	Dislikes   []string
	// Autonomy is the baseline autonomy level.
	Autonomy int
}

var archetypeTemplates = map[Archetype]Template{
	ArchLeader: {
		Traits:     BigFive{Openness: 60, Conscientiousness: 70, Extraversion: 75, Agreeableness: 55, Neuroticism: 30},
		Tendencies: Tendencies{Aggression: 45, Curiosity: 50, Loyalty: 65, Independence: 70, Playfulness: 40, Competitiveness: 70},
		Grouping:   GroupLarge, Leadership: LeadAuthoritative, Conflict: ConflictCompetitive,
		Favorites: []string{"teaching", "competing"}, Dislikes: []string{"hiding"},
		Autonomy: 70,
	},
	ArchWarrior: {
		Traits:     BigFive{Openness: 40, Conscientiousness: 60, Extraversion: 55, Agreeableness: 40, Neuroticism: 35},
		Tendencies: Tendencies{Aggression: 75, Curiosity: 40, Loyalty: 70, Independence: 55, Playfulness: 35, Competitiveness: 80},
		Grouping:   GroupSmall, Leadership: LeadAuthoritative, Conflict: ConflictCompetitive,
		Favorites: []string{"training", "competing"}, Dislikes: []string{"creating"},
		Autonomy: 60,
	},
	ArchScholar: {
		Traits:     BigFive{Openness: 80, Conscientiousness: 75, Extraversion: 35, Agreeableness: 55, Neuroticism: 45},
		Tendencies: Tendencies{Aggression: 20, Curiosity: 85, Loyalty: 50, Independence: 65, Playfulness: 30, Competitiveness: 40},
		Grouping:   GroupSolitary, Leadership: LeadIndependent, Conflict: ConflictCompromising,
		Favorites: []string{"training", "teaching"}, Dislikes: []string{"competing"},
		Autonomy: 65,
	},
	ArchArtist: {
		Traits:     BigFive{Openness: 90, Conscientiousness: 40, Extraversion: 50, Agreeableness: 60, Neuroticism: 60},
		Tendencies: Tendencies{Aggression: 20, Curiosity: 70, Loyalty: 45, Independence: 70, Playfulness: 70, Competitiveness: 30},
		Grouping:   GroupFlexible, Leadership: LeadIndependent, Conflict: ConflictAvoidant,
		Favorites: []string{"creating", "playing"}, Dislikes: []string{"patrolling"},
		Autonomy: 60,
	},
	ArchExplorer: {
		Traits:     BigFive{Openness: 80, Conscientiousness: 45, Extraversion: 60, Agreeableness: 50, Neuroticism: 30},
		Tendencies: Tendencies{Aggression: 35, Curiosity: 90, Loyalty: 40, Independence: 80, Playfulness: 60, Competitiveness: 45},
		Grouping:   GroupSmall, Leadership: LeadIndependent, Conflict: ConflictCompromising,
		Favorites: []string{"exploring"}, Dislikes: []string{"resting"},
		Autonomy: 80,
	},
	ArchCaretaker: {
		Traits:     BigFive{Openness: 55, Conscientiousness: 70, Extraversion: 55, Agreeableness: 85, Neuroticism: 40},
		Tendencies: Tendencies{Aggression: 10, Curiosity: 45, Loyalty: 80, Independence: 35, Playfulness: 50, Competitiveness: 20},
		Grouping:   GroupSmall, Leadership: LeadCollaborative, Conflict: ConflictAccommodating,
		Favorites: []string{"helping", "bonding"}, Dislikes: []string{"competing"},
		Autonomy: 45,
	},
	ArchTrickster: {
		Traits:     BigFive{Openness: 70, Conscientiousness: 25, Extraversion: 70, Agreeableness: 40, Neuroticism: 45},
		Tendencies: Tendencies{Aggression: 40, Curiosity: 70, Loyalty: 30, Independence: 70, Playfulness: 90, Competitiveness: 60},
		Grouping:   GroupFlexible, Leadership: LeadIndependent, Conflict: ConflictCompetitive,
		Favorites: []string{"playing", "competing"}, Dislikes: []string{"training"},
		Autonomy: 75,
	},
	ArchHermit: {
		Traits:     BigFive{Openness: 60, Conscientiousness: 55, Extraversion: 15, Agreeableness: 45, Neuroticism: 50},
		Tendencies: Tendencies{Aggression: 25, Curiosity: 55, Loyalty: 40, Independence: 90, Playfulness: 20, Competitiveness: 20},
		Grouping:   GroupSolitary, Leadership: LeadIndependent, Conflict: ConflictAvoidant,
		Favorites: []string{"resting", "creating"}, Dislikes: []string{"socializing"},
		Autonomy: 70,
	},
	ArchGuardian: {
		Traits:     BigFive{Openness: 40, Conscientiousness: 80, Extraversion: 45, Agreeableness: 60, Neuroticism: 35},
		Tendencies: Tendencies{Aggression: 55, Curiosity: 35, Loyalty: 85, Independence: 45, Playfulness: 30, Competitiveness: 50},
		Grouping:   GroupSmall, Leadership: LeadCollaborative, Conflict: ConflictCollaborative,
		Favorites: []string{"patrolling", "training"}, Dislikes: []string{"playing"},
		Autonomy: 50,
	},
	ArchSocialite: {
		Traits:     BigFive{Openness: 65, Conscientiousness: 45, Extraversion: 90, Agreeableness: 70, Neuroticism: 40},
		Tendencies: Tendencies{Aggression: 20, Curiosity: 60, Loyalty: 55, Independence: 30, Playfulness: 75, Competitiveness: 40},
		Grouping:   GroupLarge, Leadership: LeadCollaborative, Conflict: ConflictCompromising,
		Favorites: []string{"socializing", "bonding"}, Dislikes: []string{"hiding"},
		Autonomy: 55,
	},
}

// TemplateFor returns the archetype's template and whether it exists.
func TemplateFor(arch Archetype) (Template, bool) {
	t, ok := archetypeTemplates[arch]
	return t, ok
}
