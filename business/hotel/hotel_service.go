package hotel

import (
	"context"
	"fmt"
	"strings"

	"hotelPricing/domain"
	"hotelPricing/pkg/logger"
)

type HotelRepository interface {
	CreateHotel(ctx context.Context, hotel *domain.Hotel) error
	FindHotelByID(ctx context.Context, id uint) (domain.Hotel, error)
	FindHotelByName(ctx context.Context, name string) (*domain.Hotel, error)
	FindAllHotels(ctx context.Context, filter domain.HotelFilter) ([]domain.Hotel, error)
	UpdateHotel(ctx context.Context, hotel *domain.Hotel) error
}

type RoomTypeRepository interface {
	CreateRoomType(ctx context.Context, rt *domain.RoomType) error
	FindRoomTypeByID(ctx context.Context, id uint) (domain.RoomType, error)
	FindRoomTypeByName(ctx context.Context, hotelID uint, name string) (*domain.RoomType, error)
	FindAllRoomTypes(ctx context.Context, filter domain.RoomTypeFilter) ([]domain.RoomType, error)
	FindRoomTypesByHotel(ctx context.Context, hotelID uint) ([]domain.RoomType, error)
	UpdateRoomType(ctx context.Context, rt *domain.RoomType) error
}

type hotelService struct {
	hotelRepo    HotelRepository
	roomTypeRepo RoomTypeRepository
}

func NewHotelService(hotelRepo HotelRepository, roomTypeRepo RoomTypeRepository) *hotelService {
	return &hotelService{
		hotelRepo:    hotelRepo,
		roomTypeRepo: roomTypeRepo,
	}
}

func (s *hotelService) CreateHotel(ctx context.Context, hotel domain.Hotel) (domain.Hotel, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create hotel")
		return domain.Hotel{}, fmt.Errorf("context error: %w", err)
	}

	hotel.Name = strings.TrimSpace(hotel.Name)
	if hotel.Currency == "" {
		hotel.Currency = "USD"
	}
	if hotel.Timezone == "" {
		hotel.Timezone = "UTC"
	}
	if err := validateHotel(hotel); err != nil {
		return domain.Hotel{}, err
	}

	existing, err := s.hotelRepo.FindHotelByName(ctx, hotel.Name)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("failed to check hotel name: %w", err)
	}
	if existing != nil {
		return domain.Hotel{}, fmt.Errorf("%w: hotel %q already exists", domain.ErrConflict, hotel.Name)
	}

	hotel.ID = 0
	hotel.IsActive = true
	if err := s.hotelRepo.CreateHotel(ctx, &hotel); err != nil {
		logger.Error("failed to create hotel", err)
		return domain.Hotel{}, fmt.Errorf("failed to create hotel: %w", err)
	}

	logger.Info("hotel created", "hotel_id", hotel.ID)
	return hotel, nil
}

func (s *hotelService) ListHotels(ctx context.Context, filter domain.HotelFilter) ([]domain.Hotel, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	hotels, err := s.hotelRepo.FindAllHotels(ctx, filter)
	if err != nil {
		logger.Error("Failed to find hotels", err)
		return nil, err
	}
	return hotels, nil
}

// GetHotel returns the hotel with all of its room types, inactive ones included.
func (s *hotelService) GetHotel(ctx context.Context, id uint) (domain.HotelDetail, error) {
	hotel, err := s.findHotel(ctx, id)
	if err != nil {
		return domain.HotelDetail{}, err
	}

	rts, err := s.roomTypeRepo.FindRoomTypesByHotel(ctx, id)
	if err != nil {
		return domain.HotelDetail{}, err
	}
	if rts == nil {
		rts = []domain.RoomType{}
	}
	return domain.HotelDetail{Hotel: hotel, RoomTypes: rts}, nil
}

func (s *hotelService) UpdateHotel(ctx context.Context, id uint, upd domain.HotelUpdate) (domain.Hotel, error) {
	hotel, err := s.findHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}

	oldName := hotel.Name
	upd.Apply(&hotel)
	hotel.Name = strings.TrimSpace(hotel.Name)
	if err := validateHotel(hotel); err != nil {
		return domain.Hotel{}, err
	}
	if hotel.Name != oldName {
		existing, err := s.hotelRepo.FindHotelByName(ctx, hotel.Name)
		if err != nil {
			return domain.Hotel{}, fmt.Errorf("failed to check hotel name: %w", err)
		}
		if existing != nil && existing.ID != hotel.ID {
			return domain.Hotel{}, fmt.Errorf("%w: hotel %q already exists", domain.ErrConflict, hotel.Name)
		}
	}

	if err := s.hotelRepo.UpdateHotel(ctx, &hotel); err != nil {
		logger.Error("failed to update hotel", err)
		return domain.Hotel{}, fmt.Errorf("failed to update hotel: %w", err)
	}
	return hotel, nil
}

// DeleteHotel is a soft delete. The hotel's room types and prices are kept.
func (s *hotelService) DeleteHotel(ctx context.Context, id uint) (domain.Hotel, error) {
	inactive := false
	return s.UpdateHotel(ctx, id, domain.HotelUpdate{IsActive: &inactive})
}

func (s *hotelService) CreateRoomType(ctx context.Context, rt domain.RoomType) (domain.RoomType, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create room type")
		return domain.RoomType{}, fmt.Errorf("context error: %w", err)
	}

	rt.Name = strings.TrimSpace(rt.Name)
	if rt.Name == "" {
		return domain.RoomType{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if err := rt.Validate(); err != nil {
		return domain.RoomType{}, err
	}

	if _, err := s.hotelRepo.FindHotelByID(ctx, rt.HotelID); err != nil {
		return domain.RoomType{}, err
	}
	if err := s.ensureUniqueRoomType(ctx, rt.HotelID, rt.Name, 0); err != nil {
		return domain.RoomType{}, err
	}

	rt.ID = 0
	rt.IsActive = true
	if err := s.roomTypeRepo.CreateRoomType(ctx, &rt); err != nil {
		logger.Error("failed to create room type", err)
		return domain.RoomType{}, fmt.Errorf("failed to create room type: %w", err)
	}

	logger.Info("room type created", "room_type_id", rt.ID, "hotel_id", rt.HotelID)
	return rt, nil
}

func (s *hotelService) ListRoomTypes(ctx context.Context, filter domain.RoomTypeFilter) ([]domain.RoomType, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	rts, err := s.roomTypeRepo.FindAllRoomTypes(ctx, filter)
	if err != nil {
		logger.Error("Failed to find room types", err)
		return nil, err
	}
	return rts, nil
}

func (s *hotelService) GetRoomType(ctx context.Context, id uint) (domain.RoomType, error) {
	if err := ctx.Err(); err != nil {
		return domain.RoomType{}, fmt.Errorf("context error: %w", err)
	}
	if id == 0 {
		return domain.RoomType{}, fmt.Errorf("%w: invalid room type id", domain.ErrValidation)
	}
	return s.roomTypeRepo.FindRoomTypeByID(ctx, id)
}

// UpdateRoomType changes the static attributes the pricing engine reads. Rows
// already stored in room_pricing keep their prices until the next save.
func (s *hotelService) UpdateRoomType(ctx context.Context, id uint, upd domain.RoomTypeUpdate) (domain.RoomType, error) {
	rt, err := s.GetRoomType(ctx, id)
	if err != nil {
		return domain.RoomType{}, err
	}

	oldName := rt.Name
	upd.Apply(&rt)
	rt.Name = strings.TrimSpace(rt.Name)
	if rt.Name == "" {
		return domain.RoomType{}, fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
	}
	if err := rt.Validate(); err != nil {
		return domain.RoomType{}, err
	}
	if rt.Name != oldName {
		if err := s.ensureUniqueRoomType(ctx, rt.HotelID, rt.Name, rt.ID); err != nil {
			return domain.RoomType{}, err
		}
	}

	if err := s.roomTypeRepo.UpdateRoomType(ctx, &rt); err != nil {
		logger.Error("failed to update room type", err)
		return domain.RoomType{}, fmt.Errorf("failed to update room type: %w", err)
	}
	return rt, nil
}

// DeleteRoomType is a soft delete. Inactive room types drop out of
// recommendations but keep their history and stored prices.
func (s *hotelService) DeleteRoomType(ctx context.Context, id uint) (domain.RoomType, error) {
	inactive := false
	return s.UpdateRoomType(ctx, id, domain.RoomTypeUpdate{IsActive: &inactive})
}

func (s *hotelService) findHotel(ctx context.Context, id uint) (domain.Hotel, error) {
	if err := ctx.Err(); err != nil {
		return domain.Hotel{}, fmt.Errorf("context error: %w", err)
	}
	if id == 0 {
		return domain.Hotel{}, fmt.Errorf("%w: invalid hotel id", domain.ErrValidation)
	}
	return s.hotelRepo.FindHotelByID(ctx, id)
}

func (s *hotelService) ensureUniqueRoomType(ctx context.Context, hotelID uint, name string, selfID uint) error {
	existing, err := s.roomTypeRepo.FindRoomTypeByName(ctx, hotelID, name)
	if err != nil {
		return fmt.Errorf("failed to check room type name: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: room type %q already exists for hotel %d", domain.ErrConflict, name, hotelID)
	}
	return nil
}

func validateHotel(h domain.Hotel) error {
	switch {
	case h.Name == "":
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	case h.MonthlyFixedCosts < 0:
		return fmt.Errorf("%w: monthly_fixed_costs must not be negative", domain.ErrValidation)
	case len(h.Currency) != 3:
		return fmt.Errorf("%w: currency must be a 3-letter code", domain.ErrValidation)
	}
	return nil
}
