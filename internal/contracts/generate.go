package contracts

import (
	"fmt"
	"math"
	"time"

	"github.com/talgya/tamaverse/internal/agents"
	"github.com/talgya/tamaverse/internal/compat"
	"github.com/talgya/tamaverse/internal/economy"
	"github.com/talgya/tamaverse/internal/entropy"
	"github.com/talgya/tamaverse/internal/tuning"
)

// Base payments before the tier multiplier.
var basePayments = map[compat.Category]int{
	compat.CategoryEconomic:    100,
	compat.CategoryCare:        80,
	compat.CategoryAdoption:    60,
	compat.CategoryCompetition: 150,
	compat.CategoryResearch:    120,
}

// Combat competitions have fixed ladders by skill level.
var (
	combatStrength  = [numTiers]int{10, 14, 16, 18}
	combatAthletics = [numTiers]int{2, 4, 6, 8}
	combatInjury    = [numTiers]int{20, 35, 50, 65}
)

var researchRisk = [numTiers]compat.RiskLevel{
	compat.RiskNone, compat.RiskMinimal, compat.RiskModerate, compat.RiskHigh,
}

var careIssues = [numTiers][]string{
	{"lonely"},
	{"lonely", "picky eater"},
	{"anxious", "underweight", "restless at night"},
	{"traumatized", "malnourished", "aggressive with strangers", "injured paw"},
}

var adopterExperience = [numTiers]string{"first-time", "some", "experienced", "breeder"}

// Options shape a generated contract. Zero values pick defaults.
type Options struct {
	Tier Tier
	// Now is the posting time.
	Now time.Time
	// Expiry overrides the default posting window.
	Expiry time.Duration

	Commodity economy.Commodity // economic; empty picks one at random
	Combat    bool              // competition
	RiskLevel compat.RiskLevel  // research; empty follows the tier
	Species   []string
}

// Generator builds category-specific contracts. Every requirement, payment
// and risk field scales monotonically with the tier.
type Generator struct {
	cfg    tuning.Contracts
	rng    entropy.Source
	market *economy.Market
	NewID  func() string
}

// NewGenerator creates a generator. market may be nil, in which case
// economic contracts trade at base price with no volatility.
func NewGenerator(cfg tuning.Contracts, rng entropy.Source, market *economy.Market) *Generator {
	g := &Generator{cfg: cfg, rng: rng, market: market}
	g.NewID = func() string { return entropy.NewID(rng) }
	return g
}

// Generate dispatches on category.
func (g *Generator) Generate(category compat.Category, opts Options) (*Contract, error) {
	switch category {
	case compat.CategoryEconomic:
		return g.Economic(opts), nil
	case compat.CategoryCare:
		return g.Care(opts), nil
	case compat.CategoryAdoption:
		return g.Adoption(opts), nil
	case compat.CategoryCompetition:
		return g.Competition(opts), nil
	case compat.CategoryResearch:
		return g.Research(opts), nil
	}
	return nil, fmt.Errorf("unknown contract category %q", category)
}

// Random picks a category and tier from the generator's source.
func (g *Generator) Random(now time.Time) *Contract {
	cat := compat.Categories[entropy.Pick(g.rng, len(compat.Categories))]
	opts := Options{
		Tier:   Tier(g.rng.Intn(int(numTiers))),
		Now:    now,
		Combat: entropy.Chance(g.rng, 0.5),
	}
	c, _ := g.Generate(cat, opts)
	return c
}

func (g *Generator) base(category compat.Category, opts Options) (*Contract, float64) {
	tier := opts.Tier.clamp()
	mult := g.cfg.Multiplier(int(tier))
	now := opts.Now
	expiry := opts.Expiry
	if expiry <= 0 {
		expiry = g.cfg.DefaultExpiry
	}
	c := &Contract{
		ID:          g.NewID(),
		Category:    category,
		Tier:        tier,
		Status:      StatusAvailable,
		BasePayment: rank(basePayments[category], mult),
		ReputationImpact: ReputationImpact{
			Success:              5,
			Failure:              -3,
			DifficultyMultiplier: mult,
		},
		TimePosted: now,
		ExpiryTime: now.Add(expiry),
	}
	c.Requirements.Species = opts.Species
	return c, mult
}

// Economic posts a trading job on a commodity.
func (g *Generator) Economic(opts Options) *Contract {
	c, mult := g.base(compat.CategoryEconomic, opts)
	good := opts.Commodity
	if good == "" {
		good = economy.Commodities[entropy.Pick(g.rng, len(economy.Commodities))]
	}
	var q economy.Quote
	if g.market != nil {
		q = g.market.Quote(good, opts.Now)
	} else {
		q = economy.Quote{Commodity: good, BasePrice: 1, Price: 1, Supply: 1, Demand: 1, At: opts.Now}
	}
	c.Market = &q
	c.Requirements.MinStats = map[agents.Stat]int{
		agents.StatIntelligence: grow(12, mult),
		agents.StatCharisma:     grow(10, mult),
	}
	c.Requirements.Skills = map[agents.Skill]int{
		agents.SkillPersuasion: rank(2, mult),
		agents.SkillInsight:    rank(1, mult),
	}
	c.Requirements.Personality = []compat.PersonalityConstraint{
		{Trait: agents.TraitConscientiousness, Min: 40},
	}
	lots := rank(20, mult)
	c.Title = fmt.Sprintf("Trade %d %s (%s)", lots, good, c.Tier.Name(c.Category))
	return c
}

// Care places a troubled creature with the agent. Severity follows the tier.
func (g *Generator) Care(opts Options) *Contract {
	c, mult := g.base(compat.CategoryCare, opts)
	severity := int(c.Tier) + 1
	low := 70 - 15*severity
	c.Care = &TemporaryTama{
		Name:             agents.RandomName(g.rng),
		Species:          agents.RandomSpecies(g.rng),
		Issues:           append([]string(nil), careIssues[c.Tier]...),
		ImprovementGoals: []string{"steady meals", "regular play", "calm routine"}[:min(severity, 3)],
		Severity:         severity,
		Needs:            agents.Needs{Hunger: low, Happiness: low, Energy: low + 10, Cleanliness: low},
	}
	c.Requirements.MinStats = map[agents.Stat]int{
		agents.StatWisdom:       grow(11, mult),
		agents.StatConstitution: grow(10, mult),
	}
	c.Requirements.Skills = map[agents.Skill]int{
		agents.SkillAnimalHandling: rank(2, mult),
		agents.SkillMedicine:       rank(1, mult),
	}
	c.Requirements.Personality = []compat.PersonalityConstraint{
		{Trait: agents.TraitAgreeableness, Min: 50},
		{Trait: agents.TraitAggression, Max: 60},
	}
	c.Title = fmt.Sprintf("Foster %s (%s)", c.Care.Name, c.Tier.Name(c.Category))
	return c
}

// Adoption matches the agent with a prospective family.
func (g *Generator) Adoption(opts Options) *Contract {
	c, mult := g.base(compat.CategoryAdoption, opts)
	c.Adoption = &AdopterBackground{
		Name:          agents.RandomName(g.rng) + " household",
		Experience:    adopterExperience[c.Tier],
		HouseholdSize: 1 + g.rng.Intn(5),
		LivingSpace:   []string{"burrow", "cottage", "treehouse", "farmstead"}[g.rng.Intn(4)],
		Preferences:   []string{"gentle", "playful"},
	}
	c.Requirements.MinStats = map[agents.Stat]int{
		agents.StatCharisma: grow(10, mult),
		agents.StatWisdom:   grow(10, mult),
	}
	c.Requirements.Skills = map[agents.Skill]int{
		agents.SkillInsight:    rank(2, mult),
		agents.SkillPersuasion: rank(1, mult),
	}
	c.Requirements.Personality = []compat.PersonalityConstraint{
		{Trait: agents.TraitAgreeableness, Min: 50},
	}
	if c.Tier >= TierExpert {
		c.Requirements.Relationships = []RelationshipRequirement{{Type: agents.RelFriend, Count: 1}}
	}
	c.Title = fmt.Sprintf("Meet the %s (%s)", c.Adoption.Name, c.Tier.Name(c.Category))
	return c
}

// Competition enters the agent in an event. Combat events use the fixed
// strength, athletics and injury ladders.
func (g *Generator) Competition(opts Options) *Contract {
	c, mult := g.base(compat.CategoryCompetition, opts)
	level := c.Tier.Name(c.Category)
	ev := &EventDetails{
		SkillLevel: level,
		Combat:     opts.Combat,
		Opponents:  2 + 2*int(c.Tier),
		Prize:      c.BasePayment / 2,
	}
	if opts.Combat {
		ev.Name = "Sparring Cup"
		ev.InjuryRisk = combatInjury[c.Tier]
		c.Requirements.MinStats = map[agents.Stat]int{agents.StatStrength: combatStrength[c.Tier]}
		c.Requirements.Skills = map[agents.Skill]int{agents.SkillAthletics: combatAthletics[c.Tier]}
	} else {
		ev.Name = "Agility Trials"
		ev.InjuryRisk = rank(10, mult)
		c.Requirements.MinStats = map[agents.Stat]int{agents.StatAgility: grow(11, mult)}
		c.Requirements.Skills = map[agents.Skill]int{
			agents.SkillAcrobatics:  rank(2, mult),
			agents.SkillPerformance: rank(1, mult),
		}
	}
	c.Requirements.Personality = []compat.PersonalityConstraint{
		{Trait: agents.TraitCompetitiveness, Min: 50},
	}
	c.Requirements.MinHealthPercent = 50
	c.Competition = ev
	c.Title = fmt.Sprintf("%s, %s bracket", ev.Name, level)
	return c
}

// Research enrolls the agent in a study.
func (g *Generator) Research(opts Options) *Contract {
	c, mult := g.base(compat.CategoryResearch, opts)
	risk := opts.RiskLevel
	if risk == "" {
		risk = researchRisk[c.Tier]
	}
	procs := []string{"observation", "puzzle battery", "diet trial", "sleep study"}
	c.Research = &StudyProtocol{
		Title:         fmt.Sprintf("Cognition study %d", 100+g.rng.Intn(900)),
		RiskLevel:     risk,
		Procedures:    procs[:int(c.Tier)+1],
		DurationHours: 2 * (int(c.Tier) + 1),
	}
	c.Requirements.MinStats = map[agents.Stat]int{
		agents.StatIntelligence: grow(12, mult),
		agents.StatWisdom:       grow(10, mult),
	}
	c.Requirements.Skills = map[agents.Skill]int{
		agents.SkillInvestigation: rank(2, mult),
		agents.SkillArcana:        rank(1, mult),
	}
	c.Requirements.Personality = []compat.PersonalityConstraint{
		{Trait: agents.TraitOpenness, Min: 50},
	}
	c.Title = fmt.Sprintf("%s (%s risk)", c.Research.Title, risk)
	return c
}

// grow scales a stat requirement by half the multiplier's excess, keeping
// master-tier stats inside the attribute range.
func grow(base int, mult float64) int {
	return int(math.Round(float64(base) * (1 + (mult-1)/2)))
}

// rank scales skill ranks and payments by the full multiplier.
func rank(base int, mult float64) int {
	return int(math.Round(float64(base) * mult))
}
