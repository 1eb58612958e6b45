//go:build !integration

package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelPricing/domain"
)

type fakeStore struct {
	roomTypes []domain.RoomType
	rows      []domain.RoomPricing
}

func (f *fakeStore) FindHotelByID(_ context.Context, id uint) (domain.Hotel, error) {
	if id == 1 || id == 2 {
		return domain.Hotel{ID: id}, nil
	}
	return domain.Hotel{}, fmt.Errorf("hotel %d: %w", id, domain.ErrNotFound)
}

func (f *fakeStore) FindRoomTypesByHotel(_ context.Context, hotelID uint) ([]domain.RoomType, error) {
	var out []domain.RoomType
	for _, rt := range f.roomTypes {
		if rt.HotelID == hotelID {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (f *fakeStore) FindForRoomTypes(_ context.Context, ids []uint, from, to domain.Date) ([]domain.RoomPricing, error) {
	want := map[uint]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.RoomPricing
	for _, r := range f.rows {
		if want[r.RoomTypeID] && !r.Date.Before(from.Time) && !r.Date.After(to.Time) {
			out = append(out, r)
		}
	}
	return out, nil
}

func newStore() *fakeStore {
	d := func(day int) domain.Date { return domain.NewDate(2025, time.June, day) }
	return &fakeStore{
		roomTypes: []domain.RoomType{
			{ID: 1, HotelID: 1, Name: "Standard", InventoryCount: 40, VariableCost: 45},
			{ID: 2, HotelID: 1, Name: "Suite", InventoryCount: 15, VariableCost: 95},
		},
		rows: []domain.RoomPricing{
			// Monday 2 June
			{RoomTypeID: 1, Date: d(2), FinalPrice: 200, ForecastedOccupancy: 0.5},
			{RoomTypeID: 2, Date: d(2), FinalPrice: 500, ForecastedOccupancy: 0.33},
			// Sunday 8 June, same week
			{RoomTypeID: 1, Date: d(8), FinalPrice: 250, ForecastedOccupancy: 0.9},
			// Monday 9 June, next week
			{RoomTypeID: 1, Date: d(9), FinalPrice: 180, ForecastedOccupancy: 0.0},
		},
	}
}

func fixedService(store *fakeStore) *analyticsService {
	svc := NewAnalyticsService(store, store, store)
	svc.now = func() time.Time { return time.Date(2025, time.June, 30, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestRevenue_ByDay(t *testing.T) {
	svc := fixedService(newStore())

	res, err := svc.Revenue(context.Background(), domain.RevenueQuery{HotelID: 1})
	require.NoError(t, err)

	assert.Equal(t, domain.NewDate(2025, time.May, 31), res.StartDate)
	assert.Equal(t, domain.GroupByDay, res.GroupBy)
	require.Len(t, res.Analytics, 3)

	first := res.Analytics[0]
	assert.Equal(t, domain.NewDate(2025, time.June, 2), first.Date)
	// 20 * 200 + round(4.95)=5 * 500
	assert.Equal(t, 6500.0, first.TotalRevenue)
	assert.Equal(t, 55, first.TotalRooms)
	assert.Equal(t, 25, first.TotalOccupied)
	assert.InDelta(t, 25.0/55, first.OccupancyRate, 1e-12)
	assert.Equal(t, 20*45.0+5*95.0, first.TotalVariableCost)
	require.Len(t, first.RoomTypes, 2)
	assert.Equal(t, "Standard", first.RoomTypes[0].RoomTypeName)
	assert.Equal(t, 5, first.RoomTypes[1].Occupied)

	last := res.Analytics[2]
	assert.Equal(t, 0.0, last.TotalRevenue)
	assert.Equal(t, 0.0, last.ContributionMargin)
	assert.Equal(t, 0.0, last.OccupancyRate)
}

func TestRevenue_ByWeekAndMonth(t *testing.T) {
	svc := fixedService(newStore())
	ctx := context.Background()

	weeks, err := svc.Revenue(ctx, domain.RevenueQuery{HotelID: 1, GroupBy: domain.GroupByWeek})
	require.NoError(t, err)
	require.Len(t, weeks.Analytics, 2)
	assert.Equal(t, domain.NewDate(2025, time.June, 2), weeks.Analytics[0].Date)
	assert.Equal(t, domain.NewDate(2025, time.June, 9), weeks.Analytics[1].Date)
	assert.Equal(t, 25+36, weeks.Analytics[0].TotalOccupied)

	months, err := svc.Revenue(ctx, domain.RevenueQuery{HotelID: 1, GroupBy: domain.GroupByMonth})
	require.NoError(t, err)
	require.Len(t, months.Analytics, 1)
	assert.Equal(t, domain.NewDate(2025, time.June, 1), months.Analytics[0].Date)
	assert.Equal(t, 6500.0+36*250, months.Analytics[0].TotalRevenue)
}

func TestRevenue_RoomTypeFilterAndErrors(t *testing.T) {
	svc := fixedService(newStore())
	ctx := context.Background()

	res, err := svc.Revenue(ctx, domain.RevenueQuery{HotelID: 1, RoomTypeID: 2})
	require.NoError(t, err)
	require.Len(t, res.Analytics, 1)
	assert.Equal(t, 2500.0, res.Analytics[0].TotalRevenue)

	_, err = svc.Revenue(ctx, domain.RevenueQuery{HotelID: 1, GroupBy: "year"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Revenue(ctx, domain.RevenueQuery{HotelID: 1, StartDate: domain.NewDate(2025, 6, 10), EndDate: domain.NewDate(2025, 6, 1)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Revenue(ctx, domain.RevenueQuery{HotelID: 3})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Revenue(ctx, domain.RevenueQuery{HotelID: 2})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPeriodStart(t *testing.T) {
	sunday := domain.NewDate(2025, time.June, 8)
	assert.Equal(t, domain.NewDate(2025, time.June, 2), periodStart(sunday, domain.GroupByWeek))
	assert.Equal(t, domain.NewDate(2025, time.June, 1), periodStart(sunday, domain.GroupByMonth))
	assert.Equal(t, sunday, periodStart(sunday, domain.GroupByDay))
}
