package economy

import (
	"testing"
	"time"
)

func TestResolvePriceBounds(t *testing.T) {
	if got := ResolvePrice(10, 1, 1); got != 10 {
		t.Fatalf("balanced market should trade at base, got %v", got)
	}
	if got := ResolvePrice(10, 0, 2); got != 40 {
		t.Fatalf("expected ceiling 40, got %v", got)
	}
	if got := ResolvePrice(10, 2, 0); got != 2.5 {
		t.Fatalf("expected floor 2.5, got %v", got)
	}
}

func TestQuoteDeterministicAndBounded(t *testing.T) {
	a, b := NewMarket(7), NewMarket(7)
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, c := range Commodities {
		for h := 0; h < 48; h += 6 {
			when := at.Add(time.Duration(h) * time.Hour)
			qa, qb := a.Quote(c, when), b.Quote(c, when)
			if qa != qb {
				t.Fatalf("same seed should quote the same: %+v vs %+v", qa, qb)
			}
			if qa.Price < qa.BasePrice*priceFloor || qa.Price > qa.BasePrice*priceCeiling {
				t.Fatalf("price out of bounds: %+v", qa)
			}
			if qa.Volatility < 0 || qa.Volatility > 100 {
				t.Fatalf("volatility out of range: %+v", qa)
			}
			if qa.Supply < 0 || qa.Supply > 2 || qa.Demand < 0 || qa.Demand > 2 {
				t.Fatalf("pressure out of range: %+v", qa)
			}
		}
	}
}

func TestUnknownCommodity(t *testing.T) {
	q := NewMarket(1).Quote(Commodity("moonstone"), time.Unix(0, 0))
	if q.BasePrice != 1 {
		t.Fatalf("unknown goods should default to base price 1, got %v", q.BasePrice)
	}
}
