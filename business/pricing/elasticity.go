package pricing

import (
	"context"
	"fmt"

	"hotelPricing/domain"
)

// Simulate evaluates demand, revenue and contribution at each candidate price.
func (s *Service) Simulate(ctx context.Context, req domain.ElasticityRequest) (domain.ElasticitySimulation, error) {
	if err := ctx.Err(); err != nil {
		return domain.ElasticitySimulation{}, fmt.Errorf("context error: %w", err)
	}
	if n := len(req.PriceRange); n < minElasticityPrices || n > maxElasticityPrices {
		return domain.ElasticitySimulation{}, fmt.Errorf("%w: price_range must contain between %d and %d prices, got %d",
			domain.ErrValidation, minElasticityPrices, maxElasticityPrices, n)
	}
	for _, p := range req.PriceRange {
		if p < 0 {
			return domain.ElasticitySimulation{}, fmt.Errorf("%w: prices must not be negative", domain.ErrValidation)
		}
	}
	if req.Date.IsZero() {
		req.Date = s.today()
	}

	rt, err := s.roomTypeRepo.FindRoomTypeByID(ctx, req.RoomTypeID)
	if err != nil {
		return domain.ElasticitySimulation{}, err
	}

	demand, version, err := s.forecaster.DemandAtPrices(ctx, rt, req.Date, req.PriceRange)
	if err != nil {
		return domain.ElasticitySimulation{}, fmt.Errorf("predict demand: %w", err)
	}

	inventory := float64(rt.InventoryCount)
	points := make([]domain.ElasticityPoint, len(req.PriceRange))
	for i, price := range req.PriceRange {
		d := demand[i]
		margin := price - rt.VariableCost
		points[i] = domain.ElasticityPoint{
			Price:                price,
			DemandProbability:    d,
			ContributionMargin:   margin,
			ExpectedRevenue:      d * price * inventory,
			ExpectedContribution: d * margin * inventory,
		}
	}

	return domain.ElasticitySimulation{
		RoomTypeID:   rt.ID,
		Date:         req.Date,
		ModelVersion: version,
		Elasticity:   points,
	}, nil
}
