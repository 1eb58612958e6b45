package forecast

import (
	"hash/fnv"
	"math/rand"
	"strconv"

	"hotelPricing/domain"
)

// observation is one training day: the realized occupancy at the price sold.
type observation struct {
	Date      domain.Date
	Occupancy float64
	Price     float64
}

const (
	baseOccupancy      = 0.6
	summerUplift       = 0.2
	winterUplift       = -0.15
	shoulderUplift     = 0.05
	weekendUplift      = 0.15
	priceEffect        = 0.1
	priceBand          = 0.1
	priceNoiseStdDev   = 0.1
	occupancyNoiseStd  = 0.05
	syntheticBasePrice = 100.0
)

// scopeSeed mixes the configured seed with the scope so every scope gets its own
// but reproducible series.
func scopeSeed(seed int64, scope Scope) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strconv.FormatInt(seed, 10)))
	_, _ = h.Write([]byte(scope.String()))
	return int64(h.Sum64() >> 1)
}

// synthesizeHistory builds a plausible daily series of `days` days ending at end
// (inclusive): summer high, winter low, weekend uplift, and a price response
// around basePrice.
func synthesizeHistory(scope Scope, basePrice float64, end domain.Date, days int, seed int64) []observation {
	if basePrice <= 0 {
		basePrice = syntheticBasePrice
	}
	rng := rand.New(rand.NewSource(scopeSeed(seed, scope)))

	out := make([]observation, 0, days)
	start := end.AddDays(-(days - 1))
	for i := range days {
		d := start.AddDays(i)

		seasonal := shoulderUplift
		priceLevel := 1.0
		switch {
		case isSummer(d):
			seasonal = summerUplift
			priceLevel = summerPriceFactor
		case isWinter(d):
			seasonal = winterUplift
			priceLevel = winterPriceFactor
		}
		price := basePrice * (priceLevel + rng.NormFloat64()*priceNoiseStdDev)

		dow := 0.0
		if isWeekend(d) {
			dow = weekendUplift
		}

		effect := 0.0
		switch {
		case price > basePrice*(1+priceBand):
			effect = -priceEffect
		case price < basePrice*(1-priceBand):
			effect = priceEffect
		}

		occ := baseOccupancy + seasonal + dow + effect + rng.NormFloat64()*occupancyNoiseStd
		out = append(out, observation{Date: d, Occupancy: clamp01(occ), Price: price})
	}
	return out
}

// observationsFromBookings converts ingested rows. A row without a recorded rate
// is assumed to have sold at the base price.
func observationsFromBookings(rows []domain.HistoricalBooking, basePrice float64) []observation {
	out := make([]observation, 0, len(rows))
	for _, r := range rows {
		occ := r.OccupancyRate
		if occ == 0 && r.TotalRooms > 0 {
			occ = float64(r.RoomsSold) / float64(r.TotalRooms)
		}
		price := r.AverageDailyRate
		if price <= 0 {
			price = basePrice
		}
		out = append(out, observation{Date: r.Date, Occupancy: clamp01(occ), Price: price})
	}
	return out
}
