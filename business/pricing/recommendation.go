package pricing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"hotelPricing/domain"
	"hotelPricing/pkg/logger"
	"hotelPricing/pkg/trace"
)

// Generate prices every selected room type of a hotel over the requested range.
// Room types are computed concurrently; each one is independent.
func (s *Service) Generate(ctx context.Context, req domain.RecommendationRequest) (domain.HotelRecommendations, error) {
	if err := ctx.Err(); err != nil {
		return domain.HotelRecommendations{}, fmt.Errorf("context error: %w", err)
	}
	started := time.Now()
	defer func() { GenerateDuration.Observe(time.Since(started).Seconds()) }()

	if req.Days < 1 || req.Days > s.cfg.MaxDays {
		return domain.HotelRecommendations{}, fmt.Errorf("%w: days must be between 1 and %d", domain.ErrValidation, s.cfg.MaxDays)
	}
	if req.StartDate.IsZero() {
		req.StartDate = s.today()
	}

	if _, err := s.hotelRepo.FindHotelByID(ctx, req.HotelID); err != nil {
		return domain.HotelRecommendations{}, err
	}

	roomTypes, err := s.selectRoomTypes(ctx, req.HotelID, req.RoomTypeID)
	if err != nil {
		return domain.HotelRecommendations{}, err
	}

	rule, err := s.activeRule(ctx, req.HotelID)
	if err != nil {
		return domain.HotelRecommendations{}, fmt.Errorf("load pricing rule: %w", err)
	}

	results := make([]domain.RoomTypeRecommendations, len(roomTypes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, rt := range roomTypes {
		g.Go(func() error {
			prices, err := s.priceRoomType(gctx, rt, rule, req.StartDate, req.Days)
			if err != nil {
				return fmt.Errorf("room type %d: %w", rt.ID, err)
			}
			results[i] = domain.RoomTypeRecommendations{
				RoomTypeID:     rt.ID,
				RoomTypeName:   rt.Name,
				BasePrice:      rt.BasePrice,
				VariableCost:   rt.VariableCost,
				InventoryCount: rt.InventoryCount,
				Prices:         prices,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.HotelRecommendations{}, err
	}

	out := domain.HotelRecommendations{
		HotelID:         req.HotelID,
		StartDate:       req.StartDate,
		Days:            req.Days,
		GeneratedAt:     s.now().UTC(),
		Recommendations: make(map[uint]domain.RoomTypeRecommendations, len(results)),
	}
	for _, r := range results {
		out.Recommendations[r.RoomTypeID] = r
	}

	logger.Debug("pricing_generated",
		"trace_id", trace.IDFromContext(ctx),
		"hotel_id", req.HotelID,
		"room_types", len(results),
		"start_date", req.StartDate.String(),
		"days", req.Days,
		"rule", rule.Name,
	)
	return out, nil
}

// Save regenerates the recommendations and writes them back. Stored overrides
// keep their final price and flag; every other row gets the suggested price.
func (s *Service) Save(ctx context.Context, req domain.RecommendationRequest) (domain.HotelRecommendations, int, error) {
	recs, err := s.Generate(ctx, req)
	if err != nil {
		return domain.HotelRecommendations{}, 0, err
	}

	saved := 0
	for _, rt := range sortedRoomTypeIDs(recs.Recommendations) {
		prices := recs.Recommendations[rt].Prices
		rows := make([]domain.RoomPricing, 0, len(prices))
		keys := make([]string, 0, len(prices))
		for _, p := range prices {
			row := domain.RoomPricing{
				RoomTypeID:          p.RoomTypeID,
				Date:                p.Date,
				SuggestedPrice:      p.SuggestedPrice,
				ForecastedDemand:    p.DemandProbability,
				ForecastedOccupancy: p.ExpectedOccupancy,
			}
			// The override flag read during Generate may be stale by now. Rows that are
			// still overrides keep their price in the upsert.
			row.SetDecision(domain.Suggested{Price: p.SuggestedPrice})
			rows = append(rows, row)
			keys = append(keys, pricingKey(p.RoomTypeID, p.Date))
		}

		unlock := s.locks.Lock(keys...)
		err := s.pricingRepo.UpsertSuggestions(ctx, rows)
		unlock()
		if err != nil {
			return domain.HotelRecommendations{}, saved, fmt.Errorf("save room type %d: %w", rt, err)
		}
		saved += len(rows)
	}
	RowsSavedTotal.Add(float64(saved))

	logger.Info("pricing_saved",
		"trace_id", trace.IDFromContext(ctx),
		"hotel_id", req.HotelID,
		"rows", saved,
	)
	return recs, saved, nil
}

func (s *Service) selectRoomTypes(ctx context.Context, hotelID, roomTypeID uint) ([]domain.RoomType, error) {
	all, err := s.roomTypeRepo.FindActiveRoomTypes(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("load room types: %w", err)
	}
	if roomTypeID == 0 {
		if len(all) == 0 {
			return nil, fmt.Errorf("%w: no active room types found for hotel %d", domain.ErrNotFound, hotelID)
		}
		return all, nil
	}
	for _, rt := range all {
		if rt.ID == roomTypeID {
			return []domain.RoomType{rt}, nil
		}
	}
	return nil, fmt.Errorf("%w: no active room type %d found for hotel %d", domain.ErrNotFound, roomTypeID, hotelID)
}

// priceRoomType quotes every date of the range with one forecast call and one
// range read of stored rows.
func (s *Service) priceRoomType(ctx context.Context, rt domain.RoomType, rule domain.PricingRule, start domain.Date, days int) ([]domain.PriceRecommendation, error) {
	fc, err := s.forecaster.ForecastRoomType(ctx, rt, start, days)
	if err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}

	stored, err := s.pricingRepo.FindRange(ctx, rt.ID, start, start.AddDays(days-1))
	if err != nil {
		return nil, fmt.Errorf("load stored prices: %w", err)
	}
	byDate := make(map[string]domain.PriceDecision, len(stored))
	for _, row := range stored {
		byDate[row.Date.String()] = row.Decision()
	}

	out := make([]domain.PriceRecommendation, 0, len(fc.Forecast))
	for _, point := range fc.Forecast {
		rec := Quote(QuoteInput{
			RoomType:              rt,
			Date:                  point.Date,
			Demand:                point.DemandProbability,
			Rule:                  rule,
			MinContributionMargin: s.cfg.MinContributionMargin,
			Stored:                byDate[point.Date.String()],
		})
		if rec.IsOverride {
			RecommendationsTotal.WithLabelValues("override").Inc()
		} else {
			RecommendationsTotal.WithLabelValues("suggested").Inc()
		}
		out = append(out, rec)
	}
	return out, nil
}

func sortedRoomTypeIDs(m map[uint]domain.RoomTypeRecommendations) []uint {
	ids := make([]uint, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
