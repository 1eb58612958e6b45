package postgres

import (
	"context"
	"errors"
	"fmt"

	"hotelPricing/domain"

	"gorm.io/gorm"
)

type HotelRepository struct {
	DB *gorm.DB
}

func NewHotelRepository(db *gorm.DB) *HotelRepository {
	return &HotelRepository{
		DB: db,
	}
}

func (r *HotelRepository) CreateHotel(ctx context.Context, hotel *domain.Hotel) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(hotel).Error; err != nil {
		return fmt.Errorf("failed to create hotel: %w", err)
	}

	return nil
}

func (r *HotelRepository) FindHotelByID(ctx context.Context, id uint) (domain.Hotel, error) {
	if err := ctx.Err(); err != nil {
		return domain.Hotel{}, fmt.Errorf("context error: %w", err)
	}

	var hotel domain.Hotel
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&hotel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Hotel{}, fmt.Errorf("hotel %d: %w", id, domain.ErrNotFound)
		}
		return domain.Hotel{}, fmt.Errorf("failed to find hotel: %w", err)
	}

	return hotel, nil
}

func (r *HotelRepository) FindHotels(ctx context.Context) ([]domain.Hotel, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var hotels []domain.Hotel
	if err := r.DB.WithContext(ctx).Order("id").Find(&hotels).Error; err != nil {
		return nil, fmt.Errorf("failed to find hotels: %w", err)
	}

	return hotels, nil
}

// FindHotelByName returns nil when no hotel carries the name.
func (r *HotelRepository) FindHotelByName(ctx context.Context, name string) (*domain.Hotel, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var hotel domain.Hotel
	err := r.DB.WithContext(ctx).Where("name = ?", name).First(&hotel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find hotel: %w", err)
	}

	return &hotel, nil
}

func (r *HotelRepository) FindAllHotels(ctx context.Context, filter domain.HotelFilter) ([]domain.Hotel, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).Model(&domain.Hotel{})
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}

	var hotels []domain.Hotel
	if err := paginate(q.Order("id"), filter.Page).Find(&hotels).Error; err != nil {
		return nil, fmt.Errorf("failed to find hotels: %w", err)
	}

	return hotels, nil
}

func (r *HotelRepository) UpdateHotel(ctx context.Context, hotel *domain.Hotel) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"name":                hotel.Name,
		"city":                hotel.City,
		"country":             hotel.Country,
		"currency":            hotel.Currency,
		"timezone":            hotel.Timezone,
		"monthly_fixed_costs": hotel.MonthlyFixedCosts,
		"is_active":           hotel.IsActive,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Hotel{}).Where("id = ?", hotel.ID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update hotel: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("hotel %d: %w", hotel.ID, domain.ErrNotFound)
	}

	return nil
}

type RoomTypeRepository struct {
	DB *gorm.DB
}

func NewRoomTypeRepository(db *gorm.DB) *RoomTypeRepository {
	return &RoomTypeRepository{
		DB: db,
	}
}

func (r *RoomTypeRepository) CreateRoomType(ctx context.Context, rt *domain.RoomType) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(rt).Error; err != nil {
		return fmt.Errorf("failed to create room type: %w", err)
	}

	return nil
}

func (r *RoomTypeRepository) FindRoomTypeByID(ctx context.Context, id uint) (domain.RoomType, error) {
	if err := ctx.Err(); err != nil {
		return domain.RoomType{}, fmt.Errorf("context error: %w", err)
	}

	var rt domain.RoomType
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RoomType{}, fmt.Errorf("room type %d: %w", id, domain.ErrNotFound)
		}
		return domain.RoomType{}, fmt.Errorf("failed to find room type: %w", err)
	}

	return rt, nil
}

// FindActiveRoomTypes returns the hotel's active room types ordered by id.
func (r *RoomTypeRepository) FindActiveRoomTypes(ctx context.Context, hotelID uint) ([]domain.RoomType, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rts []domain.RoomType
	err := r.DB.WithContext(ctx).
		Where("hotel_id = ? AND is_active = ?", hotelID, true).
		Order("id").
		Find(&rts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find room types: %w", err)
	}

	return rts, nil
}

func (r *RoomTypeRepository) FindRoomTypesByHotel(ctx context.Context, hotelID uint) ([]domain.RoomType, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rts []domain.RoomType
	if err := r.DB.WithContext(ctx).Where("hotel_id = ?", hotelID).Order("id").Find(&rts).Error; err != nil {
		return nil, fmt.Errorf("failed to find room types: %w", err)
	}

	return rts, nil
}

// FindRoomTypeByName returns nil when the hotel has no room type of that name.
func (r *RoomTypeRepository) FindRoomTypeByName(ctx context.Context, hotelID uint, name string) (*domain.RoomType, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rt domain.RoomType
	err := r.DB.WithContext(ctx).Where("hotel_id = ? AND name = ?", hotelID, name).First(&rt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find room type: %w", err)
	}

	return &rt, nil
}

func (r *RoomTypeRepository) FindAllRoomTypes(ctx context.Context, filter domain.RoomTypeFilter) ([]domain.RoomType, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).Model(&domain.RoomType{})
	if filter.HotelID != nil {
		q = q.Where("hotel_id = ?", *filter.HotelID)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}

	var rts []domain.RoomType
	if err := paginate(q.Order("id"), filter.Page).Find(&rts).Error; err != nil {
		return nil, fmt.Errorf("failed to find room types: %w", err)
	}

	return rts, nil
}

func (r *RoomTypeRepository) UpdateRoomType(ctx context.Context, rt *domain.RoomType) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"name":            rt.Name,
		"description":     rt.Description,
		"base_price":      rt.BasePrice,
		"variable_cost":   rt.VariableCost,
		"inventory_count": rt.InventoryCount,
		"max_occupancy":   rt.MaxOccupancy,
		"is_active":       rt.IsActive,
	}

	result := r.DB.WithContext(ctx).Model(&domain.RoomType{}).Where("id = ?", rt.ID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update room type: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("room type %d: %w", rt.ID, domain.ErrNotFound)
	}

	return nil
}

func paginate(q *gorm.DB, p domain.Page) *gorm.DB {
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	return q
}
