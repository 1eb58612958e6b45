package postgres

import (
	"context"
	"errors"
	"fmt"

	"hotelPricing/domain"

	"gorm.io/gorm"
)

type PricingRuleRepository struct {
	DB *gorm.DB
}

func NewPricingRuleRepository(db *gorm.DB) *PricingRuleRepository {
	return &PricingRuleRepository{
		DB: db,
	}
}

// Create inserts rule. When rule is active every other rule of the hotel is
// deactivated in the same transaction.
func (r *PricingRuleRepository) Create(ctx context.Context, rule *domain.PricingRule) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if rule.IsActive {
			if err := deactivateRules(tx, rule.HotelID, 0); err != nil {
				return err
			}
		}
		if err := tx.Create(rule).Error; err != nil {
			return fmt.Errorf("failed to create pricing rule: %w", err)
		}
		// is_active has a column default, so a false value is skipped on insert
		if !rule.IsActive {
			if err := tx.Model(rule).Update("is_active", false).Error; err != nil {
				return fmt.Errorf("failed to create pricing rule: %w", err)
			}
		}
		return nil
	})
}

func (r *PricingRuleRepository) FindByID(ctx context.Context, id uint) (domain.PricingRule, error) {
	if err := ctx.Err(); err != nil {
		return domain.PricingRule{}, fmt.Errorf("context error: %w", err)
	}

	var rule domain.PricingRule
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PricingRule{}, fmt.Errorf("pricing rule %d: %w", id, domain.ErrNotFound)
		}
		return domain.PricingRule{}, fmt.Errorf("failed to find pricing rule: %w", err)
	}

	return rule, nil
}

// FindByName returns nil when the hotel has no rule with that name.
func (r *PricingRuleRepository) FindByName(ctx context.Context, hotelID uint, name string) (*domain.PricingRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rule domain.PricingRule
	err := r.DB.WithContext(ctx).Where("hotel_id = ? AND name = ?", hotelID, name).First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pricing rule: %w", err)
	}

	return &rule, nil
}

func (r *PricingRuleRepository) FindAll(ctx context.Context, filter domain.PricingRuleFilter) ([]domain.PricingRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).Model(&domain.PricingRule{})
	if filter.HotelID != nil {
		q = q.Where("hotel_id = ?", *filter.HotelID)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}

	var rules []domain.PricingRule
	if err := q.Order("id").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to find pricing rules: %w", err)
	}

	return rules, nil
}

func (r *PricingRuleRepository) Update(ctx context.Context, rule *domain.PricingRule) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"name":                  rule.Name,
		"description":           rule.Description,
		"min_price_multiplier":  rule.MinPriceMultiplier,
		"max_price_multiplier":  rule.MaxPriceMultiplier,
		"low_demand_threshold":  rule.LowDemandThreshold,
		"high_demand_threshold": rule.HighDemandThreshold,
		"is_active":             rule.IsActive,
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if rule.IsActive {
			if err := deactivateRules(tx, rule.HotelID, rule.ID); err != nil {
				return err
			}
		}
		result := tx.Model(&domain.PricingRule{}).Where("id = ?", rule.ID).Updates(updateData)
		if result.Error != nil {
			return fmt.Errorf("failed to update pricing rule: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("pricing rule %d: %w", rule.ID, domain.ErrNotFound)
		}
		return nil
	})
}

// FindActiveRule returns nil when the hotel has no active rule. Should more than
// one be active the most recently updated wins.
func (r *PricingRuleRepository) FindActiveRule(ctx context.Context, hotelID uint) (*domain.PricingRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rule domain.PricingRule
	err := r.DB.WithContext(ctx).
		Where("hotel_id = ? AND is_active = ?", hotelID, true).
		Order("updated_at DESC").
		Order("id DESC").
		First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active pricing rule: %w", err)
	}

	return &rule, nil
}

func deactivateRules(tx *gorm.DB, hotelID, exceptID uint) error {
	err := tx.Model(&domain.PricingRule{}).
		Where("hotel_id = ? AND id <> ? AND is_active = ?", hotelID, exceptID, true).
		Update("is_active", false).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate pricing rules: %w", err)
	}
	return nil
}
