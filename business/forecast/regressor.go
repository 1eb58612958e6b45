package forecast

import (
	"fmt"

	"hotelPricing/domain"
)

// Regressor is a ridge regression of occupancy on standardized calendar and
// price features. Its output is not clamped.
type Regressor struct {
	Scaler  scaler  `json:"scaler"`
	Weights vec     `json:"weights"`
	Lambda  float64 `json:"lambda"`
}

// fitRegressor solves (XᵀX + λI')w = Xᵀy where I' leaves the bias unpenalized.
func fitRegressor(history []observation, lambda float64) (*Regressor, error) {
	if len(history) < featureDim {
		return nil, fmt.Errorf("%w: regressor needs at least %d observations, got %d", domain.ErrValidation, featureDim, len(history))
	}

	raws := make([][rawFeatureCount]float64, len(history))
	for i, o := range history {
		raws[i] = calendarFeatures(o.Date, o.Price)
	}
	sc := fitScaler(raws)

	var A mat
	var b vec
	for i, o := range history {
		x := sc.design(raws[i])
		addOuter(&A, x)
		addScaled(&b, x, o.Occupancy)
	}
	for i := 1; i < featureDim; i++ {
		A[i][i] += lambda
	}

	inv, err := invert(A)
	if err != nil {
		return nil, fmt.Errorf("solve normal equations: %w", err)
	}

	return &Regressor{
		Scaler:  sc,
		Weights: matVecMul(inv, b),
		Lambda:  lambda,
	}, nil
}

// Predict evaluates the regressor for date d sold at price.
func (r *Regressor) Predict(d domain.Date, price float64) float64 {
	return dot(r.Weights, r.Scaler.design(calendarFeatures(d, price)))
}
