package postgres

import (
	"context"
	"errors"
	"fmt"

	"hotelPricing/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ForecastModelRepository struct {
	DB *gorm.DB
}

func NewForecastModelRepository(db *gorm.DB) *ForecastModelRepository {
	return &ForecastModelRepository{DB: db}
}

// GetModel returns nil when the scope was never trained.
func (r *ForecastModelRepository) GetModel(ctx context.Context, hotelID, roomTypeID uint) (*domain.ForecastModelSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var snap domain.ForecastModelSnapshot
	err := r.DB.WithContext(ctx).First(&snap, "hotel_id = ? AND room_type_id = ?", hotelID, roomTypeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query forecast_models: %w", err)
	}

	return &snap, nil
}

func (r *ForecastModelRepository) SaveModel(ctx context.Context, snap domain.ForecastModelSnapshot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "hotel_id"}, {Name: "room_type_id"}},
			UpdateAll: true,
		},
	).Create(&snap).Error; err != nil {
		return fmt.Errorf("failed to upsert forecast_models: %w", err)
	}

	return nil
}
