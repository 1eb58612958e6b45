//go:build !integration

package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotelPricing/domain"
)

func TestQuote_Scenarios(t *testing.T) {
	rule := domain.DefaultPricingRule(1)
	rt := domain.RoomType{ID: 1, Name: "Standard", BasePrice: 200, VariableCost: 50, InventoryCount: 10}

	tests := []struct {
		name       string
		demand     float64
		multiplier float64
		suggested  float64
	}{
		{"A low demand", 0.15, 0.75, 150},
		{"B high demand", 0.85, 1.5, 300},
		{"C normal demand", 0.5, 1.0, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Quote(QuoteInput{RoomType: rt, Demand: tt.demand, Rule: rule})
			assert.InDelta(t, tt.multiplier, rec.PriceMultiplier, 1e-9)
			assert.InDelta(t, tt.suggested, rec.SuggestedPrice, 1e-9)
			assert.InDelta(t, tt.suggested, rec.FinalPrice, 1e-9)
			assert.False(t, rec.IsOverride)
		})
	}
}

func TestMultiplier_Bands(t *testing.T) {
	rule := domain.DefaultPricingRule(1)

	prev := -1.0
	for i := 0; i <= 300; i++ {
		d := float64(i) / 1000
		m := Multiplier(d, rule)
		assert.GreaterOrEqual(t, m, rule.MinPriceMultiplier)
		assert.LessOrEqual(t, m, 1.0)
		assert.GreaterOrEqual(t, m, prev, "demand %v", d)
		prev = m
	}
	assert.Equal(t, rule.MinPriceMultiplier, Multiplier(0, rule))
	assert.InDelta(t, 1.0, Multiplier(rule.LowDemandThreshold, rule), 1e-12)

	for i := 301; i < 700; i++ {
		assert.Equal(t, 1.0, Multiplier(float64(i)/1000, rule))
	}

	prev = -1.0
	for i := 700; i <= 1000; i++ {
		d := float64(i) / 1000
		m := Multiplier(d, rule)
		assert.GreaterOrEqual(t, m, 1.0)
		assert.LessOrEqual(t, m, rule.MaxPriceMultiplier+1e-12)
		assert.GreaterOrEqual(t, m, prev, "demand %v", d)
		prev = m
	}
	assert.Equal(t, 1.0, Multiplier(rule.HighDemandThreshold, rule))
	assert.InDelta(t, rule.MaxPriceMultiplier, Multiplier(1, rule), 1e-12)
}

func TestMultiplier_ClampsDemand(t *testing.T) {
	rule := domain.DefaultPricingRule(1)
	assert.Equal(t, Multiplier(0, rule), Multiplier(-0.4, rule))
	assert.Equal(t, Multiplier(1, rule), Multiplier(1.8, rule))
}

func TestMultiplier_DegenerateThresholds(t *testing.T) {
	rule := domain.PricingRule{MinPriceMultiplier: 0.6, MaxPriceMultiplier: 1.8, LowDemandThreshold: 0, HighDemandThreshold: 1}

	assert.Equal(t, 0.6, Multiplier(0, rule))
	assert.Equal(t, 1.0, Multiplier(0.5, rule))
	assert.Equal(t, 1.8, Multiplier(1, rule))
}

func TestSuggestedPrice_Floor(t *testing.T) {
	rule := domain.DefaultPricingRule(1)
	rt := domain.RoomType{BasePrice: 80, VariableCost: 45, InventoryCount: 5}

	for i := 0; i <= 100; i++ {
		for _, margin := range []float64{0, 10} {
			rec := Quote(QuoteInput{RoomType: rt, Demand: float64(i) / 100, Rule: rule, MinContributionMargin: margin})
			assert.GreaterOrEqual(t, rec.SuggestedPrice, rt.VariableCost+margin)
			assert.GreaterOrEqual(t, rec.FinalPrice, rt.VariableCost+margin)
		}
	}

	// 80 * 0.5 = 40 is lifted to the floor
	assert.Equal(t, 45.0, SuggestedPrice(80, 45, 0.5, 0))
	assert.Equal(t, 55.0, SuggestedPrice(80, 45, 0.5, 10))
}

func TestQuote_OverrideIsAuthoritative(t *testing.T) {
	rule := domain.DefaultPricingRule(1)
	rt := domain.RoomType{ID: 3, BasePrice: 200, VariableCost: 50, InventoryCount: 10}

	rec := Quote(QuoteInput{
		RoomType: rt,
		Demand:   0.9,
		Rule:     rule,
		Stored:   domain.Overridden{Price: 30, Notes: "fire sale"},
	})

	assert.True(t, rec.IsOverride)
	assert.Equal(t, 30.0, rec.FinalPrice)
	assert.Equal(t, "fire sale", rec.OverrideNotes)
	assert.Greater(t, rec.SuggestedPrice, 200.0)
	assert.InDelta(t, -20.0, rec.ContributionMargin, 1e-9)
	assert.InDelta(t, -20.0/30*100, rec.ContributionMarginPercentage, 1e-9)

	// a stored suggestion is recomputed, not reused
	rec = Quote(QuoteInput{RoomType: rt, Demand: 0.5, Rule: rule, Stored: domain.Suggested{Price: 999}})
	assert.False(t, rec.IsOverride)
	assert.Equal(t, 200.0, rec.FinalPrice)
}

func TestQuote_Metrics(t *testing.T) {
	rt := domain.RoomType{BasePrice: 200, VariableCost: 50, InventoryCount: 10}
	rec := Quote(QuoteInput{RoomType: rt, Demand: 0.5, Rule: domain.DefaultPricingRule(1)})

	assert.Equal(t, 0.5, rec.ExpectedOccupancy)
	assert.Equal(t, 5.0, rec.ExpectedBookings)
	assert.Equal(t, 1000.0, rec.ExpectedRevenue)
	assert.Equal(t, 150.0, rec.ContributionMargin)
	assert.Equal(t, 750.0, rec.ExpectedContribution)
	assert.Equal(t, 75.0, rec.ContributionMarginPercentage)
}

func TestQuote_ZeroPriceMarginPercentage(t *testing.T) {
	rt := domain.RoomType{BasePrice: 0, VariableCost: 0, InventoryCount: 0}
	rec := Quote(QuoteInput{RoomType: rt, Demand: 0.5, Rule: domain.DefaultPricingRule(1)})
	assert.Equal(t, 0.0, rec.ContributionMarginPercentage)
	assert.Equal(t, 0.0, rec.ExpectedBookings)
}
