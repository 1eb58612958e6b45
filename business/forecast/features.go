package forecast

import (
	"math"
	"time"

	"hotelPricing/domain"
)

const (
	// index 0 of the design vector is the bias
	rawFeatureCount = featureDim - 1

	summerPriceFactor = 1.2
	winterPriceFactor = 0.8
)

func isWeekend(d domain.Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Jun-Aug
func isSummer(d domain.Date) bool {
	m := d.Month()
	return m >= time.June && m <= time.August
}

// Dec-Feb
func isWinter(d domain.Date) bool {
	m := d.Month()
	return m == time.December || m <= time.February
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// calendarFeatures returns [month, day_of_week, is_weekend, is_summer, is_winter, price].
func calendarFeatures(d domain.Date, price float64) [rawFeatureCount]float64 {
	return [rawFeatureCount]float64{
		float64(d.Month()),
		float64(d.Weekday()),
		boolFeature(isWeekend(d)),
		boolFeature(isSummer(d)),
		boolFeature(isWinter(d)),
		price,
	}
}

// assumedPrice is the price the regressor sees for a future date when no
// candidate price is given.
func assumedPrice(d domain.Date, basePrice float64) float64 {
	switch {
	case isSummer(d):
		return basePrice * summerPriceFactor
	case isWinter(d):
		return basePrice * winterPriceFactor
	default:
		return basePrice
	}
}

// scaler standardizes raw features with the moments of the training set.
type scaler struct {
	Mean [rawFeatureCount]float64 `json:"mean"`
	Std  [rawFeatureCount]float64 `json:"std"`
}

func fitScaler(rows [][rawFeatureCount]float64) scaler {
	var s scaler
	n := float64(len(rows))
	if n == 0 {
		for i := range rawFeatureCount {
			s.Std[i] = 1
		}
		return s
	}
	for _, r := range rows {
		for i := range rawFeatureCount {
			s.Mean[i] += r[i]
		}
	}
	for i := range rawFeatureCount {
		s.Mean[i] /= n
	}
	for _, r := range rows {
		for i := range rawFeatureCount {
			d := r[i] - s.Mean[i]
			s.Std[i] += d * d
		}
	}
	for i := range rawFeatureCount {
		s.Std[i] = math.Sqrt(s.Std[i] / n)
		// constant column
		if s.Std[i] < 1e-12 {
			s.Std[i] = 1
		}
	}
	return s
}

// design returns the bias-prefixed standardized vector for raw.
func (s scaler) design(raw [rawFeatureCount]float64) vec {
	var x vec
	x[0] = 1
	for i := range rawFeatureCount {
		x[i+1] = (raw[i] - s.Mean[i]) / s.Std[i]
	}
	return x
}
