//go:build !integration

package analytics

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hotelPricing/domain"
)

func performanceStore() *fakeStore {
	d := func(day int) domain.Date { return domain.NewDate(2025, time.June, day) }
	return &fakeStore{
		roomTypes: []domain.RoomType{
			{ID: 1, HotelID: 1, Name: "Standard", BasePrice: 200, InventoryCount: 40, VariableCost: 45},
			{ID: 2, HotelID: 1, Name: "Suite", BasePrice: 500, InventoryCount: 15, VariableCost: 95},
		},
		rows: []domain.RoomPricing{
			{RoomTypeID: 1, Date: d(11), SuggestedPrice: 200, FinalPrice: 200, ForecastedDemand: 0.3, ForecastedOccupancy: 0.25},
			{RoomTypeID: 1, Date: d(10), SuggestedPrice: 200, FinalPrice: 150, IsOverride: true, ForecastedDemand: 0.6, ForecastedOccupancy: 0.5},
			{RoomTypeID: 2, Date: d(10), SuggestedPrice: 500, FinalPrice: 450, IsOverride: true, ForecastedOccupancy: 0},
		},
	}
}

func TestPricingPerformance(t *testing.T) {
	svc := fixedService(performanceStore())

	res, err := svc.PricingPerformance(context.Background(), domain.AnalyticsRange{HotelID: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2025, time.May, 31), res.StartDate)
	assert.Equal(t, domain.NewDate(2025, time.June, 30), res.EndDate)
	require.Len(t, res.Analytics, 2)

	std := res.Analytics[0]
	assert.Equal(t, "Standard", std.RoomTypeName)
	// 20 rooms at 200 vs 150, then 10 rooms at 200 vs 200
	assert.Equal(t, 6000.0, std.TotalSuggestedRevenue)
	assert.Equal(t, 5000.0, std.TotalFinalRevenue)
	assert.Equal(t, -1000.0, std.RevenueDifference)
	assert.InDelta(t, -100.0/6, std.RevenueDifferencePercentage, 1e-9)
	assert.Equal(t, 2, std.TotalDays)
	assert.Equal(t, 1, std.OverrideCount)
	assert.Equal(t, 50.0, std.OverridePercentage)

	require.Len(t, std.DailyData, 2)
	first := std.DailyData[0]
	assert.Equal(t, domain.NewDate(2025, time.June, 10), first.Date)
	assert.True(t, first.IsOverride)
	assert.Equal(t, 20, first.OccupiedRooms)
	assert.Equal(t, -1000.0, first.RevenueDifference)
	assert.Equal(t, -25.0, first.RevenueDifferencePercentage)
	assert.Equal(t, 0.0, std.DailyData[1].RevenueDifference)

	// no occupied rooms: percentages fall back to 0
	suite := res.Analytics[1]
	assert.Equal(t, 0.0, suite.TotalSuggestedRevenue)
	assert.Equal(t, 0.0, suite.RevenueDifferencePercentage)
	assert.Equal(t, 100.0, suite.OverridePercentage)
}

func TestPricingPerformance_Errors(t *testing.T) {
	svc := fixedService(performanceStore())
	ctx := context.Background()

	res, err := svc.PricingPerformance(ctx, domain.AnalyticsRange{HotelID: 1, StartDate: domain.NewDate(2025, time.July, 1), EndDate: domain.NewDate(2025, time.July, 5)})
	require.NoError(t, err)
	assert.Empty(t, res.Analytics)

	_, err = svc.PricingPerformance(ctx, domain.AnalyticsRange{HotelID: 3})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.PricingPerformance(ctx, domain.AnalyticsRange{HotelID: 1, RoomTypeID: 9})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.PricingPerformance(ctx, domain.AnalyticsRange{HotelID: 1, StartDate: domain.NewDate(2025, time.June, 10), EndDate: domain.NewDate(2025, time.June, 1)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExportRows(t *testing.T) {
	svc := fixedService(performanceStore())

	data, err := svc.ExportRows(context.Background(), domain.AnalyticsRange{HotelID: 1})
	require.NoError(t, err)
	require.Len(t, data.Rows, 3)

	// ordered by date, then room type
	assert.Equal(t, uint(1), data.Rows[0].RoomTypeID)
	assert.Equal(t, uint(2), data.Rows[1].RoomTypeID)
	assert.Equal(t, domain.NewDate(2025, time.June, 11), data.Rows[2].Date)

	r := data.Rows[0]
	assert.Equal(t, 20, r.OccupiedRooms)
	assert.Equal(t, 3000.0, r.Revenue)
	assert.Equal(t, 900.0, r.TotalVariableCost)
	assert.Equal(t, 2100.0, r.Contribution)
	assert.InDelta(t, 0.7, r.ContributionMargin, 1e-12)
	assert.Equal(t, 0.0, data.Rows[1].ContributionMargin)
}

func TestExport_Workbook(t *testing.T) {
	svc := fixedService(performanceStore())

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), domain.AnalyticsRange{HotelID: 1, RoomTypeID: 1}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{exportSheet}, f.GetSheetList())
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "date", rows[0][0])
	assert.Equal(t, "2025-06-10", rows[1][0])
	assert.Equal(t, "Standard", rows[1][2])
}
