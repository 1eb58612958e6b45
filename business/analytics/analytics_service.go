package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"hotelPricing/domain"
)

const defaultLookbackDays = 30

type HotelRepository interface {
	FindHotelByID(ctx context.Context, id uint) (domain.Hotel, error)
}

type RoomTypeRepository interface {
	FindRoomTypesByHotel(ctx context.Context, hotelID uint) ([]domain.RoomType, error)
}

type PricingRepository interface {
	FindForRoomTypes(ctx context.Context, roomTypeIDs []uint, from, to domain.Date) ([]domain.RoomPricing, error)
}

type analyticsService struct {
	hotelRepo    HotelRepository
	roomTypeRepo RoomTypeRepository
	pricingRepo  PricingRepository
	now          func() time.Time
}

func NewAnalyticsService(hotelRepo HotelRepository, roomTypeRepo RoomTypeRepository, pricingRepo PricingRepository) *analyticsService {
	return &analyticsService{
		hotelRepo:    hotelRepo,
		roomTypeRepo: roomTypeRepo,
		pricingRepo:  pricingRepo,
		now:          time.Now,
	}
}

// Revenue aggregates stored prices into revenue, contribution and occupancy per
// period. Occupied rooms are round(inventory * forecasted occupancy).
func (s *analyticsService) Revenue(ctx context.Context, q domain.RevenueQuery) (domain.RevenueAnalytics, error) {
	if err := ctx.Err(); err != nil {
		return domain.RevenueAnalytics{}, fmt.Errorf("context error: %w", err)
	}

	if q.GroupBy == "" {
		q.GroupBy = domain.GroupByDay
	}
	if !q.GroupBy.Valid() {
		return domain.RevenueAnalytics{}, fmt.Errorf("%w: group_by must be day, week or month", domain.ErrValidation)
	}
	sel, err := s.load(ctx, domain.AnalyticsRange{
		HotelID:    q.HotelID,
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		RoomTypeID: q.RoomTypeID,
	})
	if err != nil {
		return domain.RevenueAnalytics{}, err
	}
	q.StartDate, q.EndDate = sel.start, sel.end
	roomTypes, rows := sel.roomTypes, sel.rows

	type periodAcc struct {
		period    domain.RevenuePeriod
		roomTypes map[uint]*domain.RoomTypeRevenue
	}
	periods := make(map[domain.Date]*periodAcc)

	for _, row := range rows {
		rt, ok := roomTypes[row.RoomTypeID]
		if !ok {
			continue
		}
		key := periodStart(row.Date, q.GroupBy)
		acc, ok := periods[key]
		if !ok {
			acc = &periodAcc{
				period:    domain.RevenuePeriod{Date: key},
				roomTypes: make(map[uint]*domain.RoomTypeRevenue),
			}
			periods[key] = acc
		}

		occupied := occupiedRooms(rt, row)
		revenue := float64(occupied) * row.FinalPrice
		variableCost := float64(occupied) * rt.VariableCost

		acc.period.TotalRevenue += revenue
		acc.period.TotalVariableCost += variableCost
		acc.period.TotalContribution += revenue - variableCost
		acc.period.TotalRooms += rt.InventoryCount
		acc.period.TotalOccupied += occupied

		b, ok := acc.roomTypes[rt.ID]
		if !ok {
			b = &domain.RoomTypeRevenue{RoomTypeID: rt.ID, RoomTypeName: rt.Name}
			acc.roomTypes[rt.ID] = b
		}
		b.Revenue += revenue
		b.VariableCost += variableCost
		b.Contribution += revenue - variableCost
		b.Rooms += rt.InventoryCount
		b.Occupied += occupied
	}

	out := domain.RevenueAnalytics{
		HotelID:   q.HotelID,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		GroupBy:   q.GroupBy,
		Analytics: make([]domain.RevenuePeriod, 0, len(periods)),
	}
	for _, acc := range periods {
		p := acc.period
		p.OccupancyRate = ratio(float64(p.TotalOccupied), float64(p.TotalRooms))
		p.ContributionMargin = ratio(p.TotalContribution, p.TotalRevenue)

		p.RoomTypes = make([]domain.RoomTypeRevenue, 0, len(acc.roomTypes))
		for _, b := range acc.roomTypes {
			b.OccupancyRate = ratio(float64(b.Occupied), float64(b.Rooms))
			b.ContributionMargin = ratio(b.Contribution, b.Revenue)
			p.RoomTypes = append(p.RoomTypes, *b)
		}
		sort.Slice(p.RoomTypes, func(i, j int) bool { return p.RoomTypes[i].RoomTypeID < p.RoomTypes[j].RoomTypeID })
		out.Analytics = append(out.Analytics, p)
	}
	sort.Slice(out.Analytics, func(i, j int) bool {
		return out.Analytics[i].Date.Before(out.Analytics[j].Date.Time)
	})
	return out, nil
}

// PricingPerformance compares the revenue at the charged price with the revenue
// the suggested price would have earned, per room type and per day.
func (s *analyticsService) PricingPerformance(ctx context.Context, q domain.AnalyticsRange) (domain.PricingPerformance, error) {
	if err := ctx.Err(); err != nil {
		return domain.PricingPerformance{}, fmt.Errorf("context error: %w", err)
	}
	sel, err := s.load(ctx, q)
	if err != nil {
		return domain.PricingPerformance{}, err
	}

	byRoomType := make(map[uint]*domain.RoomTypePerformance)
	for _, row := range sel.rows {
		rt, ok := sel.roomTypes[row.RoomTypeID]
		if !ok {
			continue
		}
		perf, ok := byRoomType[rt.ID]
		if !ok {
			perf = &domain.RoomTypePerformance{RoomTypeID: rt.ID, RoomTypeName: rt.Name}
			byRoomType[rt.ID] = perf
		}

		occupied := occupiedRooms(rt, row)
		suggested := float64(occupied) * row.SuggestedPrice
		final := float64(occupied) * row.FinalPrice

		perf.TotalSuggestedRevenue += suggested
		perf.TotalFinalRevenue += final
		perf.TotalDays++
		if row.IsOverride {
			perf.OverrideCount++
		}
		perf.DailyData = append(perf.DailyData, domain.PerformanceDay{
			Date:                        row.Date,
			SuggestedPrice:              row.SuggestedPrice,
			FinalPrice:                  row.FinalPrice,
			IsOverride:                  row.IsOverride,
			Occupancy:                   row.ForecastedOccupancy,
			OccupiedRooms:               occupied,
			SuggestedRevenue:            suggested,
			FinalRevenue:                final,
			RevenueDifference:           final - suggested,
			RevenueDifferencePercentage: ratio(final-suggested, suggested) * 100,
		})
	}

	out := domain.PricingPerformance{
		HotelID:   q.HotelID,
		StartDate: sel.start,
		EndDate:   sel.end,
		Analytics: make([]domain.RoomTypePerformance, 0, len(byRoomType)),
	}
	for _, perf := range byRoomType {
		perf.RevenueDifference = perf.TotalFinalRevenue - perf.TotalSuggestedRevenue
		perf.RevenueDifferencePercentage = ratio(perf.RevenueDifference, perf.TotalSuggestedRevenue) * 100
		perf.OverridePercentage = ratio(float64(perf.OverrideCount), float64(perf.TotalDays)) * 100
		sort.Slice(perf.DailyData, func(i, j int) bool {
			return perf.DailyData[i].Date.Before(perf.DailyData[j].Date.Time)
		})
		out.Analytics = append(out.Analytics, *perf)
	}
	sort.Slice(out.Analytics, func(i, j int) bool { return out.Analytics[i].RoomTypeID < out.Analytics[j].RoomTypeID })
	return out, nil
}

// ExportRows flattens the stored rows of the range, ordered by date then room type.
func (s *analyticsService) ExportRows(ctx context.Context, q domain.AnalyticsRange) (domain.AnalyticsExport, error) {
	if err := ctx.Err(); err != nil {
		return domain.AnalyticsExport{}, fmt.Errorf("context error: %w", err)
	}
	sel, err := s.load(ctx, q)
	if err != nil {
		return domain.AnalyticsExport{}, err
	}

	out := domain.AnalyticsExport{
		HotelID:   q.HotelID,
		HotelName: sel.hotel.Name,
		StartDate: sel.start,
		EndDate:   sel.end,
		Rows:      make([]domain.AnalyticsExportRow, 0, len(sel.rows)),
	}
	for _, row := range sel.rows {
		rt, ok := sel.roomTypes[row.RoomTypeID]
		if !ok {
			continue
		}
		occupied := occupiedRooms(rt, row)
		revenue := float64(occupied) * row.FinalPrice
		variableCost := float64(occupied) * rt.VariableCost
		out.Rows = append(out.Rows, domain.AnalyticsExportRow{
			Date:                row.Date,
			RoomTypeID:          rt.ID,
			RoomTypeName:        rt.Name,
			BasePrice:           rt.BasePrice,
			VariableCost:        rt.VariableCost,
			Inventory:           rt.InventoryCount,
			SuggestedPrice:      row.SuggestedPrice,
			FinalPrice:          row.FinalPrice,
			IsOverride:          row.IsOverride,
			ForecastedDemand:    row.ForecastedDemand,
			ForecastedOccupancy: row.ForecastedOccupancy,
			OccupiedRooms:       occupied,
			Revenue:             revenue,
			TotalVariableCost:   variableCost,
			Contribution:        revenue - variableCost,
			ContributionMargin:  ratio(revenue-variableCost, revenue),
		})
	}
	sort.Slice(out.Rows, func(i, j int) bool {
		a, b := out.Rows[i], out.Rows[j]
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.Before(b.Date.Time)
		}
		return a.RoomTypeID < b.RoomTypeID
	})
	return out, nil
}

type selection struct {
	hotel      domain.Hotel
	start, end domain.Date
	roomTypes  map[uint]domain.RoomType
	rows       []domain.RoomPricing
}

// load resolves the date defaults, checks the hotel and reads the stored rows
// of the selected room types.
func (s *analyticsService) load(ctx context.Context, q domain.AnalyticsRange) (selection, error) {
	if q.EndDate.IsZero() {
		q.EndDate = domain.DateOf(s.now().UTC())
	}
	if q.StartDate.IsZero() {
		q.StartDate = q.EndDate.AddDays(-defaultLookbackDays)
	}
	if q.EndDate.Before(q.StartDate.Time) {
		return selection{}, fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}

	hotel, err := s.hotelRepo.FindHotelByID(ctx, q.HotelID)
	if err != nil {
		return selection{}, err
	}

	all, err := s.roomTypeRepo.FindRoomTypesByHotel(ctx, q.HotelID)
	if err != nil {
		return selection{}, fmt.Errorf("load room types: %w", err)
	}
	roomTypes := make(map[uint]domain.RoomType, len(all))
	ids := make([]uint, 0, len(all))
	for _, rt := range all {
		if q.RoomTypeID != 0 && rt.ID != q.RoomTypeID {
			continue
		}
		roomTypes[rt.ID] = rt
		ids = append(ids, rt.ID)
	}
	if len(ids) == 0 {
		return selection{}, fmt.Errorf("%w: no room types found for hotel %d", domain.ErrNotFound, q.HotelID)
	}

	rows, err := s.pricingRepo.FindForRoomTypes(ctx, ids, q.StartDate, q.EndDate)
	if err != nil {
		return selection{}, fmt.Errorf("load room pricing: %w", err)
	}
	return selection{hotel: hotel, start: q.StartDate, end: q.EndDate, roomTypes: roomTypes, rows: rows}, nil
}

func occupiedRooms(rt domain.RoomType, row domain.RoomPricing) int {
	return int(math.Round(float64(rt.InventoryCount) * row.ForecastedOccupancy))
}

// periodStart maps d onto its group: the day itself, the Monday of its week, or
// the first of its month.
func periodStart(d domain.Date, g domain.GroupBy) domain.Date {
	switch g {
	case domain.GroupByWeek:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDays(-offset)
	case domain.GroupByMonth:
		return domain.NewDate(d.Year(), d.Month(), 1)
	default:
		return d
	}
}

// ratio is a/b, or 0 when b is not positive.
func ratio(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return a / b
}
