package forecast

import (
	"fmt"

	"hotelPricing/domain"
)

// SeasonalModel is a multiplicative trend x yearly x weekly decomposition:
//
//	y(t) = (Intercept + Slope*t) * Monthly[month-1] * Weekly[weekday]
//
// where t is days since Origin. Both factor sets average to 1.
type SeasonalModel struct {
	Origin    domain.Date `json:"origin"`
	Intercept float64     `json:"intercept"`
	Slope     float64     `json:"slope"`
	Monthly   [12]float64 `json:"monthly"`
	Weekly    [7]float64  `json:"weekly"`
}

func fitSeasonal(history []observation) (*SeasonalModel, error) {
	if len(history) < 2 {
		return nil, fmt.Errorf("%w: seasonal model needs at least 2 observations, got %d", domain.ErrValidation, len(history))
	}

	origin := history[0].Date
	for _, o := range history[1:] {
		if o.Date.Before(origin.Time) {
			origin = o.Date
		}
	}

	// least squares line through (t, y)
	var sumT, sumY, sumTT, sumTY float64
	n := float64(len(history))
	for _, o := range history {
		t := float64(origin.DaysUntil(o.Date))
		sumT += t
		sumY += o.Occupancy
		sumTT += t * t
		sumTY += t * o.Occupancy
	}
	m := &SeasonalModel{Origin: origin}
	m.Slope = safeDiv(n*sumTY-sumT*sumY, n*sumTT-sumT*sumT)
	m.Intercept = (sumY - m.Slope*sumT) / n

	// detrended ratios averaged per month, then per weekday on the month-adjusted ratio
	ratios := make([]float64, len(history))
	for i, o := range history {
		ratios[i] = safeDiv(o.Occupancy, m.trend(o.Date))
	}

	var monthSum [12]float64
	var monthN [12]int
	for i, o := range history {
		k := int(o.Date.Month()) - 1
		monthSum[k] += ratios[i]
		monthN[k]++
	}
	for k := range m.Monthly {
		m.Monthly[k] = 1
		if monthN[k] > 0 {
			m.Monthly[k] = monthSum[k] / float64(monthN[k])
		}
	}
	normalizeFactors(m.Monthly[:], monthN[:])

	var dowSum [7]float64
	var dowN [7]int
	for i, o := range history {
		k := int(o.Date.Weekday())
		dowSum[k] += safeDiv(ratios[i], m.Monthly[int(o.Date.Month())-1])
		dowN[k]++
	}
	for k := range m.Weekly {
		m.Weekly[k] = 1
		if dowN[k] > 0 {
			m.Weekly[k] = dowSum[k] / float64(dowN[k])
		}
	}
	normalizeFactors(m.Weekly[:], dowN[:])

	return m, nil
}

// normalizeFactors rescales the observed factors to mean 1. Unobserved slots stay 1.
func normalizeFactors(f []float64, counts []int) {
	sum, k := 0.0, 0
	for i := range f {
		if counts[i] > 0 {
			sum += f[i]
			k++
		}
	}
	mean := safeDiv(sum, float64(k))
	if mean == 0 {
		return
	}
	for i := range f {
		if counts[i] > 0 {
			f[i] /= mean
		}
	}
}

func (m *SeasonalModel) trend(d domain.Date) float64 {
	return m.Intercept + m.Slope*float64(m.Origin.DaysUntil(d))
}

// Predict returns the raw, unclamped model output for d.
func (m *SeasonalModel) Predict(d domain.Date) float64 {
	return m.trend(d) * m.Monthly[int(d.Month())-1] * m.Weekly[int(d.Weekday())]
}
