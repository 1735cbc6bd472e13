// Agent spawning for hosts and tests: builds fully-populated agents from
// archetype templates with jittered traits, stats and needs. The engines never
// create agents themselves.
package agents

import (
	"fmt"

	"github.com/talgya/tamaverse/internal/entropy"
)

// Spawner creates agents for a host.
type Spawner struct {
	rng    entropy.Source
	nextID int
}

// NewSpawner creates a spawner drawing from src.
func NewSpawner(src entropy.Source) *Spawner {
	return &Spawner{rng: src, nextID: 1}
}

// SpawnPopulation creates count agents with archetypes cycling through the
// full list so small populations stay varied.
func (s *Spawner) SpawnPopulation(count int) []*Agent {
	out := make([]*Agent, 0, count)
	offset := s.rng.Intn(len(Archetypes))
	for i := 0; i < count; i++ {
		arch := Archetypes[(offset+i)%len(Archetypes)]
		out = append(out, s.Spawn(arch))
	}
	return out
}

// Spawn creates one agent of the given archetype.
func (s *Spawner) Spawn(arch Archetype) *Agent {
	id := AgentID(fmt.Sprintf("tama-%04d", s.nextID))
	s.nextID++

	tmpl, ok := TemplateFor(arch)
	if !ok {
		arch = ArchSocialite
		tmpl, _ = TemplateFor(arch)
	}

	stats := s.statsFor(arch)
	a := &Agent{
		ID:      id,
		Name:    s.generateName(),
		Species: RandomSpecies(s.rng),
		Tier:    1 + s.rng.Intn(3),
		Level:   1 + s.rng.Intn(10),
		Stats:   stats,
		Personality: Personality{
			Archetype:  arch,
			Traits:     s.jitterTraits(tmpl.Traits),
			Tendencies: s.jitterTendencies(tmpl.Tendencies),
			Grouping:   tmpl.Grouping,
			Leadership: tmpl.Leadership,
			Conflict:   tmpl.Conflict,
			Favorites:  append([]string(nil), tmpl.Favorites...),
			Dislikes:   append([]string(nil), tmpl.Dislikes...),
		},
		// Needs: mostly met at spawn (stable starting conditions).
		Needs: Needs{
			Hunger:      60 + s.rng.Intn(41),
			Happiness:   55 + s.rng.Intn(46),
			Energy:      50 + s.rng.Intn(51),
			Cleanliness: 60 + s.rng.Intn(41),
		},
		Mental: MentalState{
			Stress:       10 + s.rng.Intn(31),
			Confidence:   40 + s.rng.Intn(41),
			Satisfaction: 50 + s.rng.Intn(31),
		},
		Social: SocialStatus{
			Reputation: 40 + s.rng.Intn(21),
			Leadership: 20 + s.rng.Intn(41),
			Popularity: 30 + s.rng.Intn(41),
			Respect:    30 + s.rng.Intn(41),
		},
		AutonomyLevel:   clamp(tmpl.Autonomy+s.rng.Intn(21)-10, 0, 100),
		Relationships:   make(map[AgentID]*Relationship),
		CurrentActivity: ActivityResting,
	}
	return a
}

// primaryStats orders the stats each archetype favors, best first.
var primaryStats = map[Archetype][]Stat{
	ArchLeader:    {StatCharisma, StatWisdom},
	ArchWarrior:   {StatStrength, StatConstitution},
	ArchScholar:   {StatIntelligence, StatWisdom},
	ArchArtist:    {StatCharisma, StatAgility},
	ArchExplorer:  {StatAgility, StatConstitution},
	ArchCaretaker: {StatWisdom, StatCharisma},
	ArchTrickster: {StatAgility, StatCharisma},
	ArchHermit:    {StatWisdom, StatIntelligence},
	ArchGuardian:  {StatConstitution, StatStrength},
	ArchSocialite: {StatCharisma, StatAgility},
}

// primarySkills are the skills each archetype starts trained in.
var primarySkills = map[Archetype][]Skill{
	ArchLeader:    {SkillPersuasion, SkillInsight, SkillIntimidation},
	ArchWarrior:   {SkillAthletics, SkillIntimidation, SkillSurvival},
	ArchScholar:   {SkillArcana, SkillHistory, SkillInvestigation},
	ArchArtist:    {SkillPerformance, SkillInsight, SkillAcrobatics},
	ArchExplorer:  {SkillSurvival, SkillNature, SkillPerception},
	ArchCaretaker: {SkillMedicine, SkillAnimalHandling, SkillInsight},
	ArchTrickster: {SkillDeception, SkillStealth, SkillAcrobatics},
	ArchHermit:    {SkillNature, SkillMedicine, SkillArcana},
	ArchGuardian:  {SkillPerception, SkillAthletics, SkillAnimalHandling},
	ArchSocialite: {SkillPersuasion, SkillPerformance, SkillInsight},
}

func (s *Spawner) statsFor(arch Archetype) Stats {
	var st Stats
	for i := 0; i < NumStats; i++ {
		st.Add(Stat(i), 8+s.rng.Intn(6)) // 8–13 baseline
	}
	for rank, stat := range primaryStats[arch] {
		st.Add(stat, 4-rank*2+s.rng.Intn(3))
	}
	for rank, skill := range primarySkills[arch] {
		st.Skills.Add(skill, 3-rank+s.rng.Intn(3))
	}
	st.MaxHealth = 20 + Modifier(st.Constitution)*5 + s.rng.Intn(6)
	st.Health = st.MaxHealth
	st.Mana = 10 + Modifier(st.Intelligence)*3
	st.Stamina = 10 + Modifier(st.Constitution)*3
	st.ArmorClass = 10 + Modifier(st.Agility)
	st.AttackBonus = Modifier(st.Strength)
	return st
}

func (s *Spawner) jitter(v int) int {
	return clamp(v+s.rng.Intn(21)-10, 0, 100)
}

func (s *Spawner) jitterTraits(b BigFive) BigFive {
	return BigFive{
		Openness:          s.jitter(b.Openness),
		Conscientiousness: s.jitter(b.Conscientiousness),
		Extraversion:      s.jitter(b.Extraversion),
		Agreeableness:     s.jitter(b.Agreeableness),
		Neuroticism:       s.jitter(b.Neuroticism),
	}
}

func (s *Spawner) jitterTendencies(t Tendencies) Tendencies {
	return Tendencies{
		Aggression:      s.jitter(t.Aggression),
		Curiosity:       s.jitter(t.Curiosity),
		Loyalty:         s.jitter(t.Loyalty),
		Independence:    s.jitter(t.Independence),
		Playfulness:     s.jitter(t.Playfulness),
		Competitiveness: s.jitter(t.Competitiveness),
	}
}

func (s *Spawner) generateName() string {
	return RandomName(s.rng)
}

// RandomName draws a creature name from the procedural pools.
func RandomName(src entropy.Source) string {
	first := firstNames[src.Intn(len(firstNames))]
	last := lastNames[src.Intn(len(lastNames))]
	return first + " " + last
}

// RandomSpecies draws a species from the spawn pool.
func RandomSpecies(src entropy.Source) string {
	return species[src.Intn(len(species))]
}

var species = []string{"sparkfin", "mosscub", "emberkit", "duskowl", "tidehop", "pebblet"}

// Name pools for procedural generation.
var firstNames = []string{
	"Mochi", "Pip", "Biscuit", "Nori", "Tofu", "Pudding", "Sprout",
	"Bramble", "Clover", "Dumpling", "Fennel", "Juniper", "Kiwi", "Lumen",
	"Maple", "Nimbus", "Olive", "Pepper", "Quill", "Rumble", "Sesame",
	"Thistle", "Umber", "Velvet", "Wisp", "Yuzu", "Zephyr", "Acorn",
}

var lastNames = []string{
	"Thornwood", "Ashford", "Greenvale", "Stormcrow", "Hearthstone",
	"Copperfield", "Silverdale", "Brightwater", "Riverstone", "Embercroft",
	"Dawnridge", "Briar", "Marshwood", "Nightingale", "Windholm",
}
