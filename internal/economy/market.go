// Package economy provides the commodity market economic contracts trade on.
// Prices drift smoothly over simulated time, driven by layered simplex noise
// so a seed reproduces the same market history.
package economy

import (
	"math"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Commodity is a tradeable good.
type Commodity string

const (
	CommodityBerries  Commodity = "berries"
	CommodityHerbs    Commodity = "herbs"
	CommodityFeathers Commodity = "feathers"
	CommodityCrystals Commodity = "crystals"
	CommodityToys     Commodity = "toys"
	CommodityPotions  Commodity = "potions"
)

// Commodities lists every good in a stable order.
var Commodities = []Commodity{
	CommodityBerries, CommodityHerbs, CommodityFeathers,
	CommodityCrystals, CommodityToys, CommodityPotions,
}

var basePrices = map[Commodity]float64{
	CommodityBerries:  2,
	CommodityHerbs:    5,
	CommodityFeathers: 4,
	CommodityCrystals: 15,
	CommodityToys:     8,
	CommodityPotions:  12,
}

// Price bounds relative to the base price.
const (
	priceFloor   = 0.25
	priceCeiling = 4.0
)

// Quote is the supply/demand state of one good at one instant.
type Quote struct {
	Commodity  Commodity `json:"commodity"`
	BasePrice  float64   `json:"base_price"`
	Price      float64   `json:"price"`
	Supply     float64   `json:"supply"`     // 0–2, 1 is balanced
	Demand     float64   `json:"demand"`     // 0–2, 1 is balanced
	Volatility int       `json:"volatility"` // 0–100
	At         time.Time `json:"at"`
}

// Market samples quotes from noise fields. It holds no mutable state, so it
// is safe for concurrent use.
type Market struct {
	supply opensimplex.Noise
	demand opensimplex.Noise
	// Period is the simulated time one noise unit spans.
	Period time.Duration
}

// NewMarket creates a market for the given seed.
func NewMarket(seed int64) *Market {
	return &Market{
		supply: opensimplex.NewNormalized(seed),
		demand: opensimplex.NewNormalized(seed + 1),
		Period: 24 * time.Hour,
	}
}

// Quote samples the market for c at the given time.
func (m *Market) Quote(c Commodity, at time.Time) Quote {
	base, ok := basePrices[c]
	if !ok {
		base = 1
	}
	x := m.position(at)
	y := lane(c)

	supply := 2 * octaveNoise(m.supply, x, y, 3, 1, 0.5)
	demand := 2 * octaveNoise(m.demand, x, y, 3, 1, 0.5)

	// Volatility is how fast demand is moving right now.
	ahead := 2 * octaveNoise(m.demand, x+0.1, y, 3, 1, 0.5)
	vol := int(math.Round(math.Min(100, math.Abs(ahead-demand)*250)))

	return Quote{
		Commodity:  c,
		BasePrice:  base,
		Price:      ResolvePrice(base, supply, demand),
		Supply:     supply,
		Demand:     demand,
		Volatility: vol,
		At:         at,
	}
}

// ResolvePrice derives a price from supply/demand pressure, bounded by a
// floor and ceiling around the base price.
func ResolvePrice(base, supply, demand float64) float64 {
	if supply < priceFloor {
		supply = priceFloor // prevent division by zero
	}
	price := base * (demand / supply)
	floor := base * priceFloor
	ceiling := base * priceCeiling
	if price < floor {
		price = floor
	}
	if price > ceiling {
		price = ceiling
	}
	return price
}

func (m *Market) position(at time.Time) float64 {
	period := m.Period
	if period <= 0 {
		period = 24 * time.Hour
	}
	return float64(at.Unix()) / period.Seconds()
}

// lane spreads commodities across the noise plane so they move independently.
func lane(c Commodity) float64 {
	for i, v := range Commodities {
		if v == c {
			return float64(i) * 7.3
		}
	}
	return float64(len(c)) * 3.1
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
