package pricing

import (
	"context"
	"fmt"

	"hotelPricing/domain"
	"hotelPricing/pkg/logger"
	"hotelPricing/pkg/trace"
)

// placeholder forecast recorded on rows created by an override
const overridePlaceholderDemand = 0.5

// ApplyOverride fixes the final price of a room type on a date. The price is
// authoritative: it may sit below the contribution-margin floor.
func (s *Service) ApplyOverride(ctx context.Context, req domain.OverrideRequest) (domain.OverrideSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.OverrideSummary{}, fmt.Errorf("context error: %w", err)
	}
	if req.Date.IsZero() {
		return domain.OverrideSummary{}, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if req.Price <= 0 {
		return domain.OverrideSummary{}, fmt.Errorf("%w: price must be greater than 0", domain.ErrValidation)
	}

	rt, err := s.roomTypeRepo.FindRoomTypeByID(ctx, req.RoomTypeID)
	if err != nil {
		return domain.OverrideSummary{}, err
	}

	row := domain.RoomPricing{
		RoomTypeID:          rt.ID,
		Date:                req.Date,
		SuggestedPrice:      rt.BasePrice,
		ForecastedDemand:    overridePlaceholderDemand,
		ForecastedOccupancy: overridePlaceholderDemand,
	}
	row.SetDecision(domain.Overridden{Price: req.Price, Notes: req.Notes})

	unlock := s.locks.Lock(pricingKey(rt.ID, req.Date))
	stored, err := s.pricingRepo.ApplyOverride(ctx, row)
	unlock()
	if err != nil {
		return domain.OverrideSummary{}, fmt.Errorf("apply override: %w", err)
	}
	OverridesTotal.WithLabelValues("apply").Inc()

	if floor := Floor(rt.VariableCost, s.cfg.MinContributionMargin); req.Price < floor {
		logger.Warn("pricing_override_below_floor",
			"trace_id", trace.IDFromContext(ctx),
			"room_type_id", rt.ID,
			"date", req.Date.String(),
			"price", req.Price,
			"floor", floor,
		)
	}

	return summarize(rt, stored), nil
}

// ClearOverride turns an override back into the stored suggestion.
func (s *Service) ClearOverride(ctx context.Context, roomTypeID uint, d domain.Date) (domain.OverrideSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.OverrideSummary{}, fmt.Errorf("context error: %w", err)
	}
	if d.IsZero() {
		return domain.OverrideSummary{}, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}

	rt, err := s.roomTypeRepo.FindRoomTypeByID(ctx, roomTypeID)
	if err != nil {
		return domain.OverrideSummary{}, err
	}

	unlock := s.locks.Lock(pricingKey(rt.ID, d))
	stored, err := s.pricingRepo.ClearOverride(ctx, rt.ID, d)
	unlock()
	if err != nil {
		return domain.OverrideSummary{}, err
	}
	OverridesTotal.WithLabelValues("clear").Inc()

	return summarize(rt, stored), nil
}

func summarize(rt domain.RoomType, row domain.RoomPricing) domain.OverrideSummary {
	sum := domain.OverrideSummary{
		RoomTypeID:     rt.ID,
		RoomTypeName:   rt.Name,
		Date:           row.Date,
		SuggestedPrice: row.SuggestedPrice,
	}
	switch d := row.Decision().(type) {
	case domain.Overridden:
		sum.FinalPrice = d.Price
		sum.IsOverride = true
		sum.OverrideNotes = d.Notes
	case domain.Suggested:
		sum.FinalPrice = d.Price
	}
	return sum
}

// StoredPrices lists the persisted rows of a room type within [from, to].
func (s *Service) StoredPrices(ctx context.Context, roomTypeID uint, from, to domain.Date) ([]domain.RoomPricing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if _, err := s.roomTypeRepo.FindRoomTypeByID(ctx, roomTypeID); err != nil {
		return nil, err
	}
	if from.IsZero() {
		from = s.today()
	}
	if to.IsZero() {
		to = from.AddDays(s.cfg.DefaultDays - 1)
	}
	if to.Before(from.Time) {
		return nil, fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return s.pricingRepo.FindRange(ctx, roomTypeID, from, to)
}
