package postgres

import (
	"context"
	"errors"
	"fmt"

	"hotelPricing/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 500

// keepOverride leaves an overridden final price untouched when a regenerated
// suggestion lands on the same (room_type_id, date).
const keepOverride = "CASE WHEN room_pricing.is_override THEN room_pricing.final_price ELSE excluded.final_price END"

type RoomPricingRepository struct {
	DB *gorm.DB
}

func NewRoomPricingRepository(db *gorm.DB) *RoomPricingRepository {
	return &RoomPricingRepository{
		DB: db,
	}
}

var roomPricingKey = []clause.Column{{Name: "room_type_id"}, {Name: "date"}}

func (r *RoomPricingRepository) FindRange(ctx context.Context, roomTypeID uint, from, to domain.Date) ([]domain.RoomPricing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.RoomPricing
	err := r.DB.WithContext(ctx).
		Where("room_type_id = ? AND date >= ? AND date <= ?", roomTypeID, from, to).
		Order("date").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find room pricing: %w", err)
	}

	return rows, nil
}

// FindForRoomTypes returns the rows of several room types within [from, to],
// ordered by room type then date.
func (r *RoomPricingRepository) FindForRoomTypes(ctx context.Context, roomTypeIDs []uint, from, to domain.Date) ([]domain.RoomPricing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(roomTypeIDs) == 0 {
		return nil, nil
	}

	var rows []domain.RoomPricing
	err := r.DB.WithContext(ctx).
		Where("room_type_id IN ? AND date >= ? AND date <= ?", roomTypeIDs, from, to).
		Order("room_type_id").
		Order("date").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find room pricing: %w", err)
	}

	return rows, nil
}

func (r *RoomPricingRepository) UpsertSuggestions(ctx context.Context, rows []domain.RoomPricing) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	updates := clause.AssignmentColumns([]string{
		"suggested_price",
		"forecasted_demand",
		"forecasted_occupancy",
		"updated_at",
	})
	updates = append(updates, clause.Assignment{
		Column: clause.Column{Name: "final_price"},
		Value:  gorm.Expr(keepOverride),
	})

	err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   roomPricingKey,
			DoUpdates: updates,
		},
	).CreateInBatches(&rows, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("failed to upsert room pricing: %w", err)
	}

	return nil
}

func (r *RoomPricingRepository) ApplyOverride(ctx context.Context, row domain.RoomPricing) (domain.RoomPricing, error) {
	if err := ctx.Err(); err != nil {
		return domain.RoomPricing{}, fmt.Errorf("context error: %w", err)
	}

	row.ID = 0
	err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   roomPricingKey,
			DoUpdates: clause.AssignmentColumns([]string{"final_price", "is_override", "override_notes", "updated_at"}),
		},
	).Create(&row).Error
	if err != nil {
		return domain.RoomPricing{}, fmt.Errorf("failed to apply override: %w", err)
	}

	return r.findOne(ctx, row.RoomTypeID, row.Date)
}

func (r *RoomPricingRepository) ClearOverride(ctx context.Context, roomTypeID uint, d domain.Date) (domain.RoomPricing, error) {
	if err := ctx.Err(); err != nil {
		return domain.RoomPricing{}, fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"final_price":    gorm.Expr("suggested_price"),
		"is_override":    false,
		"override_notes": "",
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.RoomPricing{}).
		Where("room_type_id = ? AND date = ?", roomTypeID, d).
		Updates(updateData)
	if result.Error != nil {
		return domain.RoomPricing{}, fmt.Errorf("failed to clear override: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.RoomPricing{}, fmt.Errorf("room pricing for room type %d on %s: %w", roomTypeID, d, domain.ErrNotFound)
	}

	return r.findOne(ctx, roomTypeID, d)
}

func (r *RoomPricingRepository) findOne(ctx context.Context, roomTypeID uint, d domain.Date) (domain.RoomPricing, error) {
	var row domain.RoomPricing
	err := r.DB.WithContext(ctx).Where("room_type_id = ? AND date = ?", roomTypeID, d).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RoomPricing{}, fmt.Errorf("room pricing for room type %d on %s: %w", roomTypeID, d, domain.ErrNotFound)
		}
		return domain.RoomPricing{}, fmt.Errorf("failed to find room pricing: %w", err)
	}
	return row, nil
}
