//go:build !integration

package forecast

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelPricing/domain"
)

func TestInvert(t *testing.T) {
	var A mat
	for i := range featureDim {
		for j := range featureDim {
			A[i][j] = 1.0 / float64(i+j+2)
		}
		A[i][i] += 3
	}

	inv, err := invert(A)
	require.NoError(t, err)

	for i := range featureDim {
		for j := range featureDim {
			sum := 0.0
			for k := range featureDim {
				sum += A[i][k] * inv[k][j]
			}
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, sum, 1e-9, "cell %d,%d", i, j)
		}
	}
}

func TestInvert_Singular(t *testing.T) {
	var A mat
	for i := range featureDim {
		A[0][i] = 1
		A[1][i] = 2
	}
	_, err := invert(A)
	assert.Error(t, err)
}

func TestCalendarFlags(t *testing.T) {
	tests := []struct {
		date    domain.Date
		summer  bool
		winter  bool
		weekend bool
	}{
		{domain.NewDate(2025, time.July, 12), true, false, true},
		{domain.NewDate(2025, time.December, 3), false, true, false},
		{domain.NewDate(2025, time.January, 5), false, true, true},
		{domain.NewDate(2025, time.February, 28), false, true, false},
		{domain.NewDate(2025, time.March, 1), false, false, true},
		{domain.NewDate(2025, time.November, 30), false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.date.String(), func(t *testing.T) {
			assert.Equal(t, tt.summer, isSummer(tt.date))
			assert.Equal(t, tt.winter, isWinter(tt.date))
			assert.Equal(t, tt.weekend, isWeekend(tt.date))
		})
	}
}

func TestAssumedPrice(t *testing.T) {
	assert.InDelta(t, 240.0, assumedPrice(domain.NewDate(2025, time.August, 1), 200), 1e-9)
	assert.InDelta(t, 160.0, assumedPrice(domain.NewDate(2025, time.December, 1), 200), 1e-9)
	assert.InDelta(t, 200.0, assumedPrice(domain.NewDate(2025, time.April, 1), 200), 1e-9)
}

func TestFitSeasonal_RecoversWeeklyShape(t *testing.T) {
	start := domain.NewDate(2023, time.January, 1)
	var history []observation
	for i := range 730 {
		d := start.AddDays(i)
		occ := 0.5
		if isWeekend(d) {
			occ = 0.75
		}
		history = append(history, observation{Date: d, Occupancy: occ, Price: 100})
	}

	m, err := fitSeasonal(history)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, m.Slope, 1e-4)

	mean := 0.0
	for _, f := range m.Weekly {
		mean += f
	}
	assert.InDelta(t, 1.0, mean/7, 1e-9)
	assert.InDelta(t, 1.5, m.Weekly[time.Saturday]/m.Weekly[time.Wednesday], 0.01)

	sat := domain.NewDate(2025, time.March, 8)
	wed := domain.NewDate(2025, time.March, 12)
	assert.InDelta(t, 0.75, m.Predict(sat), 0.03)
	assert.InDelta(t, 0.5, m.Predict(wed), 0.03)
}

func TestFitSeasonal_TooShort(t *testing.T) {
	_, err := fitSeasonal([]observation{{Date: domain.NewDate(2025, 1, 1), Occupancy: 0.5}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFitRegressor_RecoversLinearRelation(t *testing.T) {
	start := domain.NewDate(2023, time.January, 1)
	var history []observation
	for i := range 730 {
		d := start.AddDays(i)
		price := 100 + float64(i%23-11)*5
		occ := 0.4 - 0.001*(price-100)
		if isWeekend(d) {
			occ += 0.2
		}
		history = append(history, observation{Date: d, Occupancy: occ, Price: price})
	}

	r, err := fitRegressor(history, 1e-6)
	require.NoError(t, err)

	sat := domain.NewDate(2025, time.May, 10)
	tue := domain.NewDate(2025, time.May, 13)
	assert.InDelta(t, 0.58, r.Predict(sat, 120), 1e-3)
	assert.InDelta(t, 0.41, r.Predict(tue, 90), 1e-3)
	assert.Greater(t, r.Predict(tue, 50), r.Predict(tue, 150))
}

func TestSynthesizeHistory_Deterministic(t *testing.T) {
	end := domain.NewDate(2025, time.June, 30)
	a := synthesizeHistory(Scope{HotelID: 1, RoomTypeID: 2}, 200, end, 730, 42)
	b := synthesizeHistory(Scope{HotelID: 1, RoomTypeID: 2}, 200, end, 730, 42)
	c := synthesizeHistory(Scope{HotelID: 1, RoomTypeID: 3}, 200, end, 730, 42)

	require.Len(t, a, 730)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, end, a[len(a)-1].Date)

	for _, o := range a {
		assert.GreaterOrEqual(t, o.Occupancy, 0.0)
		assert.LessOrEqual(t, o.Occupancy, 1.0)
	}
}

func TestSynthesizeHistory_Seasonality(t *testing.T) {
	obs := synthesizeHistory(Scope{HotelID: 1, RoomTypeID: 1}, 150, domain.NewDate(2025, time.December, 31), 730, 7)

	var summer, winter float64
	var ns, nw int
	for _, o := range obs {
		switch {
		case isSummer(o.Date):
			summer += o.Occupancy
			ns++
		case isWinter(o.Date):
			winter += o.Occupancy
			nw++
		}
	}
	assert.Greater(t, summer/float64(ns), winter/float64(nw))
}

func TestObservationsFromBookings(t *testing.T) {
	rows := []domain.HistoricalBooking{
		{Date: domain.NewDate(2025, 1, 1), TotalRooms: 10, RoomsSold: 7, AverageDailyRate: 120},
		{Date: domain.NewDate(2025, 1, 2), TotalRooms: 0, RoomsSold: 0},
		{Date: domain.NewDate(2025, 1, 3), OccupancyRate: 0.4, AverageDailyRate: 0},
	}
	obs := observationsFromBookings(rows, 99)

	require.Len(t, obs, 3)
	assert.InDelta(t, 0.7, obs[0].Occupancy, 1e-9)
	assert.Equal(t, 120.0, obs[0].Price)
	assert.Equal(t, 0.0, obs[1].Occupancy)
	assert.Equal(t, 99.0, obs[2].Price)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.2))
	assert.Equal(t, 1.0, clamp01(1.7))
	assert.Equal(t, 0.3, clamp01(0.3))
	assert.Equal(t, 0.0, clamp01(math.NaN()))
}

func TestRegistry_CapEvictsOldest(t *testing.T) {
	r := NewRegistry(2)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		r.Put(&ScopeModel{
			Scope:     Scope{HotelID: 1, RoomTypeID: uint(i)},
			Version:   1,
			TrainedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	assert.Equal(t, 2, r.Len())
	_, ok := r.Get(Scope{HotelID: 1, RoomTypeID: 1})
	assert.False(t, ok)
	_, ok = r.Get(Scope{HotelID: 1, RoomTypeID: 3})
	assert.True(t, ok)

	models := r.Models()
	require.Len(t, models, 2)
	assert.Equal(t, uint(2), models[0].Scope.RoomTypeID)
}

func TestRegistry_ScopeLocksReleased(t *testing.T) {
	r := NewRegistry(2)

	for i := 1; i <= 50; i++ {
		unlock := r.lockScope(Scope{HotelID: 1, RoomTypeID: uint(i)})
		unlock()
	}
	assert.Equal(t, 0, r.lockCount())

	scope := Scope{HotelID: 2, RoomTypeID: 1}
	unlock := r.lockScope(scope)

	acquired := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		release := r.lockScope(scope)
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder entered a locked scope")
	case <-time.After(20 * time.Millisecond):
	}
	assert.Equal(t, 1, r.lockCount())

	unlock()
	wg.Wait()
	assert.Equal(t, 0, r.lockCount())
}

func TestScopeModel_NextCopies(t *testing.T) {
	var nilModel *ScopeModel
	first := nilModel.next(Scope{HotelID: 1, RoomTypeID: 1})
	assert.Equal(t, 1, first.Version)

	first.Regressor = &Regressor{}
	second := first.next(first.Scope)
	assert.Equal(t, 2, second.Version)
	assert.Equal(t, 1, first.Version)
	assert.Same(t, first.Regressor, second.Regressor)
}
