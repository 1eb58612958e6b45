//go:build !integration

package hotel

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelPricing/domain"
)

type fakeRepo struct {
	hotels    map[uint]domain.Hotel
	roomTypes map[uint]domain.RoomType
	nextID    uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{hotels: map[uint]domain.Hotel{}, roomTypes: map[uint]domain.RoomType{}, nextID: 1}
}

func (f *fakeRepo) CreateHotel(_ context.Context, h *domain.Hotel) error {
	h.ID = f.nextID
	f.nextID++
	f.hotels[h.ID] = *h
	return nil
}

func (f *fakeRepo) FindHotelByID(_ context.Context, id uint) (domain.Hotel, error) {
	h, ok := f.hotels[id]
	if !ok {
		return domain.Hotel{}, fmt.Errorf("hotel %d: %w", id, domain.ErrNotFound)
	}
	return h, nil
}

func (f *fakeRepo) FindHotelByName(_ context.Context, name string) (*domain.Hotel, error) {
	for _, h := range f.hotels {
		if h.Name == name {
			return &h, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindAllHotels(_ context.Context, filter domain.HotelFilter) ([]domain.Hotel, error) {
	var out []domain.Hotel
	for id := uint(1); id < f.nextID; id++ {
		h, ok := f.hotels[id]
		if !ok || (filter.IsActive != nil && h.IsActive != *filter.IsActive) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (f *fakeRepo) UpdateHotel(_ context.Context, h *domain.Hotel) error {
	f.hotels[h.ID] = *h
	return nil
}

func (f *fakeRepo) CreateRoomType(_ context.Context, rt *domain.RoomType) error {
	rt.ID = f.nextID
	f.nextID++
	f.roomTypes[rt.ID] = *rt
	return nil
}

func (f *fakeRepo) FindRoomTypeByID(_ context.Context, id uint) (domain.RoomType, error) {
	rt, ok := f.roomTypes[id]
	if !ok {
		return domain.RoomType{}, fmt.Errorf("room type %d: %w", id, domain.ErrNotFound)
	}
	return rt, nil
}

func (f *fakeRepo) FindRoomTypeByName(_ context.Context, hotelID uint, name string) (*domain.RoomType, error) {
	for _, rt := range f.roomTypes {
		if rt.HotelID == hotelID && rt.Name == name {
			return &rt, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindAllRoomTypes(_ context.Context, filter domain.RoomTypeFilter) ([]domain.RoomType, error) {
	var out []domain.RoomType
	for id := uint(1); id < f.nextID; id++ {
		rt, ok := f.roomTypes[id]
		if !ok {
			continue
		}
		if filter.HotelID != nil && rt.HotelID != *filter.HotelID {
			continue
		}
		if filter.IsActive != nil && rt.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, rt)
	}
	return out, nil
}

func (f *fakeRepo) FindRoomTypesByHotel(ctx context.Context, hotelID uint) ([]domain.RoomType, error) {
	return f.FindAllRoomTypes(ctx, domain.RoomTypeFilter{HotelID: &hotelID})
}

func (f *fakeRepo) UpdateRoomType(_ context.Context, rt *domain.RoomType) error {
	f.roomTypes[rt.ID] = *rt
	return nil
}

func validRoomType(hotelID uint, name string) domain.RoomType {
	return domain.RoomType{HotelID: hotelID, Name: name, BasePrice: 199, VariableCost: 45, InventoryCount: 40, MaxOccupancy: 2}
}

func TestCreateHotel(t *testing.T) {
	repo := newFakeRepo()
	svc := NewHotelService(repo, repo)
	ctx := context.Background()

	h, err := svc.CreateHotel(ctx, domain.Hotel{Name: " Grand Hotel ", City: "New York", Country: "USA"})
	require.NoError(t, err)
	assert.Equal(t, "Grand Hotel", h.Name)
	assert.Equal(t, "USD", h.Currency)
	assert.Equal(t, "UTC", h.Timezone)
	assert.True(t, h.IsActive)

	_, err = svc.CreateHotel(ctx, domain.Hotel{Name: "Grand Hotel"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.CreateHotel(ctx, domain.Hotel{Name: " "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateHotel(ctx, domain.Hotel{Name: "Costly", MonthlyFixedCosts: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateHotel(ctx, domain.Hotel{Name: "Odd", Currency: "EURO"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetHotel_IncludesRoomTypes(t *testing.T) {
	repo := newFakeRepo()
	svc := NewHotelService(repo, repo)
	ctx := context.Background()

	h, err := svc.CreateHotel(ctx, domain.Hotel{Name: "Grand Hotel"})
	require.NoError(t, err)

	empty, err := svc.GetHotel(ctx, h.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty.RoomTypes)
	assert.Empty(t, empty.RoomTypes)

	std, err := svc.CreateRoomType(ctx, validRoomType(h.ID, "Standard"))
	require.NoError(t, err)
	_, err = svc.DeleteRoomType(ctx, std.ID)
	require.NoError(t, err)

	detail, err := svc.GetHotel(ctx, h.ID)
	require.NoError(t, err)
	require.Len(t, detail.RoomTypes, 1)
	assert.False(t, detail.RoomTypes[0].IsActive)

	_, err = svc.GetHotel(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetHotel(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateAndDeleteHotel(t *testing.T) {
	repo := newFakeRepo()
	svc := NewHotelService(repo, repo)
	ctx := context.Background()

	a, _ := svc.CreateHotel(ctx, domain.Hotel{Name: "A"})
	_, _ = svc.CreateHotel(ctx, domain.Hotel{Name: "B"})

	name := "B"
	_, err := svc.UpdateHotel(ctx, a.ID, domain.HotelUpdate{Name: &name})
	assert.ErrorIs(t, err, domain.ErrConflict)

	costs := 25000.0
	updated, err := svc.UpdateHotel(ctx, a.ID, domain.HotelUpdate{MonthlyFixedCosts: &costs})
	require.NoError(t, err)
	assert.Equal(t, 25000.0, updated.MonthlyFixedCosts)
	assert.Equal(t, "A", updated.Name)

	deleted, err := svc.DeleteHotel(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, deleted.IsActive)

	active := true
	hotels, err := svc.ListHotels(ctx, domain.HotelFilter{IsActive: &active})
	require.NoError(t, err)
	require.Len(t, hotels, 1)
	assert.Equal(t, "B", hotels[0].Name)

	_, err = svc.UpdateHotel(ctx, 42, domain.HotelUpdate{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateRoomType_Validation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewHotelService(repo, repo)
	ctx := context.Background()

	h, _ := svc.CreateHotel(ctx, domain.Hotel{Name: "Grand Hotel"})
	_, err := svc.CreateRoomType(ctx, validRoomType(h.ID, "Standard"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(rt *domain.RoomType)
		want   error
	}{
		{"empty name", func(rt *domain.RoomType) { rt.Name = "" }, domain.ErrValidation},
		{"zero base price", func(rt *domain.RoomType) { rt.BasePrice = 0 }, domain.ErrValidation},
		{"negative cost", func(rt *domain.RoomType) { rt.VariableCost = -1 }, domain.ErrValidation},
		{"negative inventory", func(rt *domain.RoomType) { rt.InventoryCount = -5 }, domain.ErrValidation},
		{"no occupancy", func(rt *domain.RoomType) { rt.MaxOccupancy = 0 }, domain.ErrValidation},
		{"unknown hotel", func(rt *domain.RoomType) { rt.HotelID = 77 }, domain.ErrNotFound},
		{"duplicate name", func(rt *domain.RoomType) { rt.Name = "Standard" }, domain.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := validRoomType(h.ID, "Suite")
			tt.mutate(&rt)
			_, err := svc.CreateRoomType(ctx, rt)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateRoomType(t *testing.T) {
	repo := newFakeRepo()
	svc := NewHotelService(repo, repo)
	ctx := context.Background()

	h1, _ := svc.CreateHotel(ctx, domain.Hotel{Name: "One"})
	h2, _ := svc.CreateHotel(ctx, domain.Hotel{Name: "Two"})
	std, _ := svc.CreateRoomType(ctx, validRoomType(h1.ID, "Standard"))
	_, _ = svc.CreateRoomType(ctx, validRoomType(h1.ID, "Deluxe"))
	_, err := svc.CreateRoomType(ctx, validRoomType(h2.ID, "Standard"))
	require.NoError(t, err, "names are unique per hotel only")

	name := "Deluxe"
	_, err = svc.UpdateRoomType(ctx, std.ID, domain.RoomTypeUpdate{Name: &name})
	assert.ErrorIs(t, err, domain.ErrConflict)

	price := -10.0
	_, err = svc.UpdateRoomType(ctx, std.ID, domain.RoomTypeUpdate{BasePrice: &price})
	assert.ErrorIs(t, err, domain.ErrValidation)

	price, inventory := 249.0, 0
	updated, err := svc.UpdateRoomType(ctx, std.ID, domain.RoomTypeUpdate{BasePrice: &price, InventoryCount: &inventory})
	require.NoError(t, err)
	assert.Equal(t, 249.0, updated.BasePrice)
	assert.Equal(t, 0, updated.InventoryCount)
	assert.Equal(t, h1.ID, updated.HotelID)

	deleted, err := svc.DeleteRoomType(ctx, std.ID)
	require.NoError(t, err)
	assert.False(t, deleted.IsActive)

	active := true
	rts, err := svc.ListRoomTypes(ctx, domain.RoomTypeFilter{HotelID: &h1.ID, IsActive: &active})
	require.NoError(t, err)
	require.Len(t, rts, 1)
	assert.Equal(t, "Deluxe", rts[0].Name)

	_, err = svc.GetRoomType(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateRoomType(ctx, 99, domain.RoomTypeUpdate{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
