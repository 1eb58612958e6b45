package rule

import (
	"context"
	"fmt"
	"strings"

	"hotelPricing/domain"
	"hotelPricing/pkg/logger"
)

type HotelRepository interface {
	FindHotelByID(ctx context.Context, id uint) (domain.Hotel, error)
}

// RuleRepository contract interface. Create and Update deactivate the hotel's
// other rules when the saved rule is active.
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.PricingRule) error
	FindByID(ctx context.Context, id uint) (domain.PricingRule, error)
	FindByName(ctx context.Context, hotelID uint, name string) (*domain.PricingRule, error)
	FindAll(ctx context.Context, filter domain.PricingRuleFilter) ([]domain.PricingRule, error)
	Update(ctx context.Context, rule *domain.PricingRule) error
}

type ruleService struct {
	hotelRepo HotelRepository
	ruleRepo  RuleRepository
}

func NewRuleService(hotelRepo HotelRepository, ruleRepo RuleRepository) *ruleService {
	return &ruleService{
		hotelRepo: hotelRepo,
		ruleRepo:  ruleRepo,
	}
}

func (s *ruleService) CreateRule(ctx context.Context, rule domain.PricingRule) (domain.PricingRule, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create pricing rule")
		return domain.PricingRule{}, fmt.Errorf("context error: %w", err)
	}

	rule.Name = strings.TrimSpace(rule.Name)
	if rule.Name == "" {
		return domain.PricingRule{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if err := rule.Validate(); err != nil {
		return domain.PricingRule{}, err
	}

	if _, err := s.hotelRepo.FindHotelByID(ctx, rule.HotelID); err != nil {
		return domain.PricingRule{}, err
	}

	if err := s.ensureUniqueName(ctx, rule.HotelID, rule.Name, 0); err != nil {
		return domain.PricingRule{}, err
	}

	rule.ID = 0
	if err := s.ruleRepo.Create(ctx, &rule); err != nil {
		logger.Error("failed to create pricing rule", err)
		return domain.PricingRule{}, fmt.Errorf("failed to create pricing rule: %w", err)
	}

	logger.Info("pricing rule created", "rule_id", rule.ID, "hotel_id", rule.HotelID, "active", rule.IsActive)
	return rule, nil
}

func (s *ruleService) ListRules(ctx context.Context, filter domain.PricingRuleFilter) ([]domain.PricingRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	rules, err := s.ruleRepo.FindAll(ctx, filter)
	if err != nil {
		logger.Error("Failed to find pricing rules", err)
		return nil, err
	}
	return rules, nil
}

func (s *ruleService) GetRule(ctx context.Context, id uint) (domain.PricingRule, error) {
	if err := ctx.Err(); err != nil {
		return domain.PricingRule{}, fmt.Errorf("context error: %w", err)
	}
	if id == 0 {
		return domain.PricingRule{}, fmt.Errorf("%w: invalid pricing rule id", domain.ErrValidation)
	}
	return s.ruleRepo.FindByID(ctx, id)
}

func (s *ruleService) UpdateRule(ctx context.Context, id uint, upd domain.PricingRuleUpdate) (domain.PricingRule, error) {
	rule, err := s.GetRule(ctx, id)
	if err != nil {
		return domain.PricingRule{}, err
	}

	oldName := rule.Name
	upd.Apply(&rule)
	rule.Name = strings.TrimSpace(rule.Name)
	if rule.Name == "" {
		return domain.PricingRule{}, fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
	}
	if err := rule.Validate(); err != nil {
		return domain.PricingRule{}, err
	}
	if rule.Name != oldName {
		if err := s.ensureUniqueName(ctx, rule.HotelID, rule.Name, rule.ID); err != nil {
			return domain.PricingRule{}, err
		}
	}

	if err := s.ruleRepo.Update(ctx, &rule); err != nil {
		logger.Error("failed to update pricing rule", err)
		return domain.PricingRule{}, fmt.Errorf("failed to update pricing rule: %w", err)
	}
	return rule, nil
}

// DeleteRule is a soft delete: the rule is kept but deactivated.
func (s *ruleService) DeleteRule(ctx context.Context, id uint) (domain.PricingRule, error) {
	inactive := false
	return s.UpdateRule(ctx, id, domain.PricingRuleUpdate{IsActive: &inactive})
}

func (s *ruleService) ensureUniqueName(ctx context.Context, hotelID uint, name string, selfID uint) error {
	existing, err := s.ruleRepo.FindByName(ctx, hotelID, name)
	if err != nil {
		return fmt.Errorf("failed to check pricing rule name: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: pricing rule %q already exists for hotel %d", domain.ErrConflict, name, hotelID)
	}
	return nil
}
