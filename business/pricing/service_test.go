//go:build !integration

package pricing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hotelPricing/domain"
)

type fakeStore struct {
	mu        sync.Mutex
	hotels    map[uint]domain.Hotel
	roomTypes []domain.RoomType
	rule      *domain.PricingRule
	rows      map[string]domain.RoomPricing
	rangeHits int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		hotels: map[uint]domain.Hotel{1: {ID: 1, Name: "Grand Hotel"}, 2: {ID: 2, Name: "Empty Hotel"}},
		roomTypes: []domain.RoomType{
			{ID: 10, HotelID: 1, Name: "Standard", BasePrice: 200, VariableCost: 50, InventoryCount: 10, IsActive: true},
			{ID: 11, HotelID: 1, Name: "Deluxe", BasePrice: 300, VariableCost: 65, InventoryCount: 30, IsActive: true},
			{ID: 12, HotelID: 1, Name: "Retired", BasePrice: 100, VariableCost: 20, InventoryCount: 5, IsActive: false},
		},
		rows: map[string]domain.RoomPricing{},
	}
}

func (f *fakeStore) FindHotelByID(_ context.Context, id uint) (domain.Hotel, error) {
	h, ok := f.hotels[id]
	if !ok {
		return domain.Hotel{}, fmt.Errorf("hotel %d: %w", id, domain.ErrNotFound)
	}
	return h, nil
}

func (f *fakeStore) FindRoomTypeByID(_ context.Context, id uint) (domain.RoomType, error) {
	for _, rt := range f.roomTypes {
		if rt.ID == id {
			return rt, nil
		}
	}
	return domain.RoomType{}, fmt.Errorf("room type %d: %w", id, domain.ErrNotFound)
}

func (f *fakeStore) FindActiveRoomTypes(_ context.Context, hotelID uint) ([]domain.RoomType, error) {
	var out []domain.RoomType
	for _, rt := range f.roomTypes {
		if rt.HotelID == hotelID && rt.IsActive {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (f *fakeStore) FindActiveRule(_ context.Context, _ uint) (*domain.PricingRule, error) {
	return f.rule, nil
}

func (f *fakeStore) FindRange(_ context.Context, roomTypeID uint, from, to domain.Date) ([]domain.RoomPricing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rangeHits++
	var out []domain.RoomPricing
	for _, r := range f.rows {
		if r.RoomTypeID == roomTypeID && !r.Date.Before(from.Time) && !r.Date.After(to.Time) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out, nil
}

func (f *fakeStore) UpsertSuggestions(_ context.Context, rows []domain.RoomPricing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range rows {
		key := pricingKey(r.RoomTypeID, r.Date)
		existing, ok := f.rows[key]
		if !ok {
			f.rows[key] = r
			continue
		}
		existing.SuggestedPrice = r.SuggestedPrice
		existing.ForecastedDemand = r.ForecastedDemand
		existing.ForecastedOccupancy = r.ForecastedOccupancy
		if !existing.IsOverride {
			existing.FinalPrice = r.FinalPrice
		}
		f.rows[key] = existing
	}
	return nil
}

func (f *fakeStore) ApplyOverride(_ context.Context, row domain.RoomPricing) (domain.RoomPricing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pricingKey(row.RoomTypeID, row.Date)
	existing, ok := f.rows[key]
	if !ok {
		f.rows[key] = row
		return row, nil
	}
	existing.SetDecision(row.Decision())
	f.rows[key] = existing
	return existing, nil
}

func (f *fakeStore) ClearOverride(_ context.Context, roomTypeID uint, d domain.Date) (domain.RoomPricing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pricingKey(roomTypeID, d)
	existing, ok := f.rows[key]
	if !ok {
		return domain.RoomPricing{}, fmt.Errorf("room pricing %s: %w", key, domain.ErrNotFound)
	}
	existing.SetDecision(domain.Suggested{Price: existing.SuggestedPrice})
	f.rows[key] = existing
	return existing, nil
}

// fakeForecaster returns a fixed demand per room type and a linear demand curve in price.
type fakeForecaster struct {
	demand map[uint]float64
	err    error
}

func (f *fakeForecaster) ForecastRoomType(_ context.Context, rt domain.RoomType, start domain.Date, days int) (domain.DemandForecast, error) {
	if f.err != nil {
		return domain.DemandForecast{}, f.err
	}
	fc := domain.DemandForecast{RoomTypeID: rt.ID, StartDate: start, Days: days, ModelVersion: 1}
	for i := range days {
		d := f.demand[rt.ID]
		fc.Forecast = append(fc.Forecast, domain.DemandForecastPoint{Date: start.AddDays(i), DemandProbability: d, SeasonalComponent: d, RegressionComponent: d})
	}
	return fc, nil
}

func (f *fakeForecaster) DemandAtPrices(_ context.Context, _ domain.RoomType, _ domain.Date, prices []float64) ([]float64, int, error) {
	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = clamp01(1.1 - p/250)
	}
	return out, 3, nil
}

var (
	fixedNow = time.Date(2025, time.July, 1, 8, 0, 0, 0, time.UTC)
	start    = domain.NewDate(2025, time.July, 1)
)

func newTestService(store *fakeStore, fc *fakeForecaster) *Service {
	svc := NewService(store, store, store, store, fc, DefaultConfig())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestGenerate(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeForecaster{demand: map[uint]float64{10: 0.15, 11: 0.85}})

	recs, err := svc.Generate(context.Background(), domain.RecommendationRequest{HotelID: 1, StartDate: start, Days: 14})
	require.NoError(t, err)

	require.Len(t, recs.Recommendations, 2)
	assert.Equal(t, 2, store.rangeHits)

	std := recs.Recommendations[10]
	require.Len(t, std.Prices, 14)
	assert.Equal(t, "Standard", std.RoomTypeName)
	assert.Equal(t, 10, std.InventoryCount)
	for i, p := range std.Prices {
		assert.Equal(t, start.AddDays(i), p.Date)
		assert.InDelta(t, 150.0, p.FinalPrice, 1e-9)
		assert.InDelta(t, 1.5, p.ExpectedBookings, 1e-9)
	}

	deluxe := recs.Recommendations[11]
	assert.InDelta(t, 450.0, deluxe.Prices[0].SuggestedPrice, 1e-9)
}

func TestGenerate_UsesActiveRule(t *testing.T) {
	store := newFakeStore()
	store.rule = &domain.PricingRule{Name: "Aggressive", MinPriceMultiplier: 0.8, MaxPriceMultiplier: 3, LowDemandThreshold: 0.2, HighDemandThreshold: 0.6}
	svc := newTestService(store, &fakeForecaster{demand: map[uint]float64{10: 0.8, 11: 0.4}})

	recs, err := svc.Generate(context.Background(), domain.RecommendationRequest{HotelID: 1, StartDate: start, Days: 1, RoomTypeID: 10})
	require.NoError(t, err)
	require.Len(t, recs.Recommendations, 1)
	assert.InDelta(t, 2.0, recs.Recommendations[10].Prices[0].PriceMultiplier, 1e-9)
}

func TestGenerate_Errors(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeForecaster{demand: map[uint]float64{}})
	ctx := context.Background()

	_, err := svc.Generate(ctx, domain.RecommendationRequest{HotelID: 9, Days: 7})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Generate(ctx, domain.RecommendationRequest{HotelID: 2, Days: 7})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// inactive room type
	_, err = svc.Generate(ctx, domain.RecommendationRequest{HotelID: 1, Days: 7, RoomTypeID: 12})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for _, days := range []int{0, 366} {
		_, err = svc.Generate(ctx, domain.RecommendationRequest{HotelID: 1, Days: days})
		assert.ErrorIs(t, err, domain.ErrValidation)
	}

	boom := errors.New("model exploded")
	svc = newTestService(newFakeStore(), &fakeForecaster{err: boom})
	_, err = svc.Generate(ctx, domain.RecommendationRequest{HotelID: 1, Days: 7})
	assert.ErrorIs(t, err, boom)
}

func TestGenerate_DefaultsStartToToday(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeForecaster{demand: map[uint]float64{10: 0.5, 11: 0.5}})
	recs, err := svc.Generate(context.Background(), domain.RecommendationRequest{HotelID: 1, Days: 2})
	require.NoError(t, err)
	assert.Equal(t, start, recs.StartDate)
}

func TestOverrideSurvivesRegeneration(t *testing.T) {
	store := newFakeStore()
	fc := &fakeForecaster{demand: map[uint]float64{10: 0.5, 11: 0.5}}
	svc := newTestService(store, fc)
	ctx := context.Background()
	req := domain.RecommendationRequest{HotelID: 1, StartDate: start, Days: 5}

	_, saved, err := svc.Save(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 10, saved)

	overrideDate := start.AddDays(2)
	sum, err := svc.ApplyOverride(ctx, domain.OverrideRequest{RoomTypeID: 10, Date: overrideDate, Price: 180, Notes: "event"})
	require.NoError(t, err)
	assert.True(t, sum.IsOverride)
	assert.Equal(t, 180.0, sum.FinalPrice)
	assert.Equal(t, 200.0, sum.SuggestedPrice)

	// demand moves; regeneration refreshes suggestions but not the override
	fc.demand[10] = 0.85
	recs, _, err := svc.Save(ctx, req)
	require.NoError(t, err)

	p := recs.Recommendations[10].Prices[2]
	assert.True(t, p.IsOverride)
	assert.Equal(t, 180.0, p.FinalPrice)
	assert.Equal(t, "event", p.OverrideNotes)

	row := store.rows[pricingKey(10, overrideDate)]
	assert.True(t, row.IsOverride)
	assert.Equal(t, 180.0, row.FinalPrice)
	assert.InDelta(t, 300.0, row.SuggestedPrice, 1e-9)
	assert.Equal(t, 0.85, row.ForecastedDemand)

	other := store.rows[pricingKey(10, start)]
	assert.False(t, other.IsOverride)
	assert.InDelta(t, 300.0, other.FinalPrice, 1e-9)
}

func TestApplyOverride_NewRowDefaults(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeForecaster{})
	d := domain.NewDate(2025, time.August, 9)

	// below the 50 floor is allowed
	sum, err := svc.ApplyOverride(context.Background(), domain.OverrideRequest{RoomTypeID: 10, Date: d, Price: 40})
	require.NoError(t, err)
	assert.Equal(t, "Standard", sum.RoomTypeName)
	assert.Equal(t, 40.0, sum.FinalPrice)

	row := store.rows[pricingKey(10, d)]
	assert.Equal(t, 200.0, row.SuggestedPrice)
	assert.Equal(t, 0.5, row.ForecastedDemand)
	assert.Equal(t, 0.5, row.ForecastedOccupancy)
	assert.True(t, row.IsOverride)

	// idempotent
	_, err = svc.ApplyOverride(context.Background(), domain.OverrideRequest{RoomTypeID: 10, Date: d, Price: 40})
	require.NoError(t, err)
	assert.Len(t, store.rows, 1)
}

func TestApplyOverride_Errors(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeForecaster{})
	ctx := context.Background()

	_, err := svc.ApplyOverride(ctx, domain.OverrideRequest{RoomTypeID: 99, Date: start, Price: 100})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.ApplyOverride(ctx, domain.OverrideRequest{RoomTypeID: 10, Price: 100})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.ApplyOverride(ctx, domain.OverrideRequest{RoomTypeID: 10, Date: start, Price: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestClearOverride(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeForecaster{demand: map[uint]float64{10: 0.5, 11: 0.5}})
	ctx := context.Background()

	_, err := svc.ClearOverride(ctx, 10, start)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.ApplyOverride(ctx, domain.OverrideRequest{RoomTypeID: 10, Date: start, Price: 99})
	require.NoError(t, err)

	sum, err := svc.ClearOverride(ctx, 10, start)
	require.NoError(t, err)
	assert.False(t, sum.IsOverride)
	assert.Equal(t, 200.0, sum.FinalPrice)

	// next regeneration is free to move the price again
	recs, err := svc.Generate(ctx, domain.RecommendationRequest{HotelID: 1, StartDate: start, Days: 1, RoomTypeID: 10})
	require.NoError(t, err)
	assert.False(t, recs.Recommendations[10].Prices[0].IsOverride)
}

func TestConcurrentSaveAndOverride(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeForecaster{demand: map[uint]float64{10: 0.9, 11: 0.9}})
	ctx := context.Background()
	req := domain.RecommendationRequest{HotelID: 1, StartDate: start, Days: 30}

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _, _ = svc.Save(ctx, req)
		}()
		go func(i int) {
			defer wg.Done()
			_, _ = svc.ApplyOverride(ctx, domain.OverrideRequest{RoomTypeID: 10, Date: start.AddDays(i), Price: 111})
		}(i)
	}
	wg.Wait()

	for i := range 10 {
		row := store.rows[pricingKey(10, start.AddDays(i))]
		assert.True(t, row.IsOverride, "day %d", i)
		assert.Equal(t, 111.0, row.FinalPrice, "day %d", i)
	}
	assert.Equal(t, 0, svc.locks.size())
}

// rangeHookStore runs afterRange once, right after the first stored-row read.
type rangeHookStore struct {
	*fakeStore
	once       sync.Once
	afterRange func()
}

func (s *rangeHookStore) FindRange(ctx context.Context, roomTypeID uint, from, to domain.Date) ([]domain.RoomPricing, error) {
	rows, err := s.fakeStore.FindRange(ctx, roomTypeID, from, to)
	s.once.Do(s.afterRange)
	return rows, err
}

func TestSave_OverrideClearedMidSaveGetsSuggestion(t *testing.T) {
	store := newFakeStore()
	hooked := &rangeHookStore{fakeStore: store}
	svc := NewService(store, store, store, hooked, &fakeForecaster{demand: map[uint]float64{10: 0.5}}, DefaultConfig())
	svc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	_, err := svc.ApplyOverride(ctx, domain.OverrideRequest{RoomTypeID: 10, Date: start, Price: 42, Notes: "flash sale"})
	require.NoError(t, err)

	hooked.afterRange = func() {
		_, err := svc.ClearOverride(ctx, 10, start)
		assert.NoError(t, err)
	}

	recs, saved, err := svc.Save(ctx, domain.RecommendationRequest{HotelID: 1, StartDate: start, Days: 1, RoomTypeID: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
	// the generated set still saw the override
	assert.True(t, recs.Recommendations[10].Prices[0].IsOverride)

	row := store.rows[pricingKey(10, start)]
	assert.False(t, row.IsOverride)
	assert.InDelta(t, 200.0, row.SuggestedPrice, 1e-9)
	assert.InDelta(t, 200.0, row.FinalPrice, 1e-9)
	assert.GreaterOrEqual(t, row.FinalPrice, Floor(50, DefaultConfig().MinContributionMargin))
}

func TestSimulate_ContributionMatchesDemand(t *testing.T) {
	store := newFakeStore()
	store.roomTypes = append(store.roomTypes, domain.RoomType{ID: 20, HotelID: 1, Name: "Twin", BasePrice: 150, VariableCost: 40, InventoryCount: 10, IsActive: true})
	fc := &fakeForecaster{}
	svc := newTestService(store, fc)

	prices := []float64{100, 150, 200}
	sim, err := svc.Simulate(context.Background(), domain.ElasticityRequest{RoomTypeID: 20, Date: start, PriceRange: prices})
	require.NoError(t, err)
	require.Len(t, sim.Elasticity, 3)
	assert.Equal(t, 3, sim.ModelVersion)
	assert.Equal(t, start, sim.Date)

	demand, _, _ := fc.DemandAtPrices(context.Background(), domain.RoomType{}, start, prices)
	for i, p := range sim.Elasticity {
		assert.Equal(t, prices[i], p.Price)
		assert.Equal(t, demand[i], p.DemandProbability)
		assert.Equal(t, prices[i]-40, p.ContributionMargin)
		assert.Equal(t, demand[i]*(prices[i]-40)*10, p.ExpectedContribution)
		assert.Equal(t, demand[i]*prices[i]*10, p.ExpectedRevenue)
	}
}

func TestSimulate_Errors(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeForecaster{})
	ctx := context.Background()

	_, err := svc.Simulate(ctx, domain.ElasticityRequest{RoomTypeID: 10, PriceRange: []float64{100}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Simulate(ctx, domain.ElasticityRequest{RoomTypeID: 10, PriceRange: make([]float64, 21)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Simulate(ctx, domain.ElasticityRequest{RoomTypeID: 99, PriceRange: []float64{100, 200}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExport(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeForecaster{demand: map[uint]float64{10: 0.5, 11: 0.85}})

	var buf bytes.Buffer
	err := svc.Export(context.Background(), domain.RecommendationRequest{HotelID: 1, StartDate: start, Days: 3}, &buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"10 Standard", "11 Deluxe"}, f.GetSheetList())

	rows, err := f.GetRows("10 Standard")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "date", rows[0][0])
	assert.Equal(t, "2025-07-01", rows[1][0])
	assert.Equal(t, "200", rows[1][4])
}

func TestKeyLocker_Release(t *testing.T) {
	k := newKeyLocker()
	unlock := k.Lock("b", "a", "a")
	assert.Equal(t, 2, k.size())
	unlock()
	assert.Equal(t, 0, k.size())
}
