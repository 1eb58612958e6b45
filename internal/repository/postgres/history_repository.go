package postgres

import (
	"context"
	"fmt"

	"hotelPricing/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HistoryRepository struct {
	DB *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

func (r *HistoryRepository) FindHistory(ctx context.Context, roomTypeID uint, from, to domain.Date) ([]domain.HistoricalBooking, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.HistoricalBooking
	err := r.DB.WithContext(ctx).
		Where("room_type_id = ? AND date >= ? AND date <= ?", roomTypeID, from, to).
		Order("date").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find historical bookings: %w", err)
	}

	return rows, nil
}

// UpsertHistory replaces the figures of rows that already exist for the same
// (room_type_id, date).
func (r *HistoryRepository) UpsertHistory(ctx context.Context, rows []domain.HistoricalBooking) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "room_type_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_rooms",
				"rooms_sold",
				"occupancy_rate",
				"average_daily_rate",
				"revenue",
			}),
		},
	).CreateInBatches(&rows, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("failed to upsert historical bookings: %w", err)
	}

	return nil
}
