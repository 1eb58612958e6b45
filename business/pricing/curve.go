package pricing

import (
	"math"

	"hotelPricing/domain"
)

// Multiplier maps demand to a price multiplier with the rule's piecewise curve:
// min_mult..1 up to the low threshold, exactly 1 between the thresholds, and
// 1..max_mult from the high threshold to full demand. Demand is clamped to [0,1].
func Multiplier(demand float64, rule domain.PricingRule) float64 {
	d := clamp01(demand)
	low, high := rule.LowDemandThreshold, rule.HighDemandThreshold

	switch {
	case d <= low:
		// a zero-width band collapses onto demand 0
		if low <= 0 {
			return rule.MinPriceMultiplier
		}
		ratio := d / low
		return rule.MinPriceMultiplier + (1-rule.MinPriceMultiplier)*ratio
	case d >= high:
		// a zero-width band collapses onto demand 1
		if high >= 1 {
			return rule.MaxPriceMultiplier
		}
		ratio := (d - high) / (1 - high)
		return 1.0 + (rule.MaxPriceMultiplier-1.0)*ratio
	default:
		return 1.0
	}
}

// Floor is the lowest price a computed suggestion may take.
func Floor(variableCost, minContributionMargin float64) float64 {
	return variableCost + minContributionMargin
}

// SuggestedPrice applies multiplier to the base price and lifts the result to the floor.
func SuggestedPrice(basePrice, variableCost, multiplier, minContributionMargin float64) float64 {
	return math.Max(basePrice*multiplier, Floor(variableCost, minContributionMargin))
}

type QuoteInput struct {
	RoomType              domain.RoomType
	Date                  domain.Date
	Demand                float64
	Rule                  domain.PricingRule
	MinContributionMargin float64

	// Stored is the decision already recorded for this date, if any. An
	// Overridden value is authoritative; a Suggested value is recomputed.
	Stored domain.PriceDecision
}

// Quote prices one room type on one date. It never fails.
func Quote(in QuoteInput) domain.PriceRecommendation {
	rt := in.RoomType
	demand := clamp01(in.Demand)
	mult := Multiplier(demand, in.Rule)
	suggested := SuggestedPrice(rt.BasePrice, rt.VariableCost, mult, in.MinContributionMargin)

	var decision domain.PriceDecision = domain.Suggested{Price: suggested}
	if o, ok := in.Stored.(domain.Overridden); ok {
		decision = o
	}

	rec := domain.PriceRecommendation{
		Date:              in.Date,
		RoomTypeID:        rt.ID,
		RoomTypeName:      rt.Name,
		BasePrice:         rt.BasePrice,
		VariableCost:      rt.VariableCost,
		DemandProbability: demand,
		PriceMultiplier:   mult,
		SuggestedPrice:    suggested,
	}

	switch d := decision.(type) {
	case domain.Overridden:
		rec.FinalPrice = d.Price
		rec.IsOverride = true
		rec.OverrideNotes = d.Notes
	case domain.Suggested:
		rec.FinalPrice = d.Price
	}

	rec.ContributionMargin = rec.FinalPrice - rt.VariableCost
	if rec.FinalPrice > 0 {
		rec.ContributionMarginPercentage = rec.ContributionMargin / rec.FinalPrice * 100
	}

	rec.ExpectedOccupancy = demand
	rec.ExpectedBookings = demand * float64(rt.InventoryCount)
	rec.ExpectedRevenue = rec.ExpectedBookings * rec.FinalPrice
	rec.ExpectedContribution = rec.ExpectedBookings * rec.ContributionMargin
	return rec
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}
