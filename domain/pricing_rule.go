package domain

import (
	"fmt"
	"time"
)

const (
	DefaultMinPriceMultiplier  = 0.5
	DefaultMaxPriceMultiplier  = 2.0
	DefaultLowDemandThreshold  = 0.3
	DefaultHighDemandThreshold = 0.7
)

type PricingRule struct {
	ID                  uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID             uint      `gorm:"column:hotel_id;not null;index" json:"hotel_id"`
	Name                string    `gorm:"column:name;type:text;not null" json:"name"`
	Description         string    `gorm:"column:description;type:text" json:"description"`
	MinPriceMultiplier  float64   `gorm:"column:min_price_multiplier;not null" json:"min_price_multiplier"`
	MaxPriceMultiplier  float64   `gorm:"column:max_price_multiplier;not null" json:"max_price_multiplier"`
	LowDemandThreshold  float64   `gorm:"column:low_demand_threshold;not null" json:"low_demand_threshold"`
	HighDemandThreshold float64   `gorm:"column:high_demand_threshold;not null" json:"high_demand_threshold"`
	IsActive            bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PricingRule) TableName() string {
	return "pricing_rules"
}

// DefaultPricingRule is synthesized when a hotel has no active rule. It is never persisted.
func DefaultPricingRule(hotelID uint) PricingRule {
	return PricingRule{
		HotelID:             hotelID,
		Name:                "Default Rule",
		Description:         "System-generated default rule",
		MinPriceMultiplier:  DefaultMinPriceMultiplier,
		MaxPriceMultiplier:  DefaultMaxPriceMultiplier,
		LowDemandThreshold:  DefaultLowDemandThreshold,
		HighDemandThreshold: DefaultHighDemandThreshold,
		IsActive:            true,
	}
}

// Validate checks the multiplier and threshold ranges of the rule.
func (r PricingRule) Validate() error {
	if r.MinPriceMultiplier < 0 || r.MinPriceMultiplier > 1 {
		return fmt.Errorf("%w: min_price_multiplier must be within [0,1]", ErrValidation)
	}
	if r.MaxPriceMultiplier < 1 {
		return fmt.Errorf("%w: max_price_multiplier must be >= 1", ErrValidation)
	}
	if r.LowDemandThreshold < 0 || r.LowDemandThreshold > 1 {
		return fmt.Errorf("%w: low_demand_threshold must be within [0,1]", ErrValidation)
	}
	if r.HighDemandThreshold < 0 || r.HighDemandThreshold > 1 {
		return fmt.Errorf("%w: high_demand_threshold must be within [0,1]", ErrValidation)
	}
	if r.LowDemandThreshold >= r.HighDemandThreshold {
		return fmt.Errorf("%w: low_demand_threshold must be lower than high_demand_threshold", ErrValidation)
	}
	return nil
}

// PricingRuleFilter narrows a rule listing. Nil fields match everything.
type PricingRuleFilter struct {
	HotelID  *uint
	IsActive *bool
}

// PricingRuleUpdate is a partial update. Nil fields are left unchanged.
type PricingRuleUpdate struct {
	Name                *string
	Description         *string
	MinPriceMultiplier  *float64
	MaxPriceMultiplier  *float64
	LowDemandThreshold  *float64
	HighDemandThreshold *float64
	IsActive            *bool
}

// Apply copies the set fields of u onto r.
func (u PricingRuleUpdate) Apply(r *PricingRule) {
	if u.Name != nil {
		r.Name = *u.Name
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.MinPriceMultiplier != nil {
		r.MinPriceMultiplier = *u.MinPriceMultiplier
	}
	if u.MaxPriceMultiplier != nil {
		r.MaxPriceMultiplier = *u.MaxPriceMultiplier
	}
	if u.LowDemandThreshold != nil {
		r.LowDemandThreshold = *u.LowDemandThreshold
	}
	if u.HighDemandThreshold != nil {
		r.HighDemandThreshold = *u.HighDemandThreshold
	}
	if u.IsActive != nil {
		r.IsActive = *u.IsActive
	}
}
