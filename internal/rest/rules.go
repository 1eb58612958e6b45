package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hotelPricing/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type RuleService interface {
	CreateRule(ctx context.Context, rule domain.PricingRule) (domain.PricingRule, error)
	ListRules(ctx context.Context, filter domain.PricingRuleFilter) ([]domain.PricingRule, error)
	GetRule(ctx context.Context, id uint) (domain.PricingRule, error)
	UpdateRule(ctx context.Context, id uint, upd domain.PricingRuleUpdate) (domain.PricingRule, error)
	DeleteRule(ctx context.Context, id uint) (domain.PricingRule, error)
}

type RuleHandler struct {
	ruleService RuleService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewRuleHandler(ruleService RuleService) *RuleHandler {
	return &RuleHandler{
		ruleService: ruleService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

// CreateRuleRequest falls back to the default rule for omitted multipliers and
// thresholds. A new rule is active unless is_active is false.
type CreateRuleRequest struct {
	HotelID             uint     `json:"hotel_id" validate:"required"`
	Name                string   `json:"name" validate:"required,max=100"`
	Description         string   `json:"description" validate:"max=500"`
	MinPriceMultiplier  *float64 `json:"min_price_multiplier" validate:"omitempty,gte=0,lte=1"`
	MaxPriceMultiplier  *float64 `json:"max_price_multiplier" validate:"omitempty,gte=1"`
	LowDemandThreshold  *float64 `json:"low_demand_threshold" validate:"omitempty,gte=0,lte=1"`
	HighDemandThreshold *float64 `json:"high_demand_threshold" validate:"omitempty,gte=0,lte=1"`
	IsActive            *bool    `json:"is_active"`
}

type UpdateRuleRequest struct {
	Name                *string  `json:"name" validate:"omitempty,max=100"`
	Description         *string  `json:"description" validate:"omitempty,max=500"`
	MinPriceMultiplier  *float64 `json:"min_price_multiplier" validate:"omitempty,gte=0,lte=1"`
	MaxPriceMultiplier  *float64 `json:"max_price_multiplier" validate:"omitempty,gte=1"`
	LowDemandThreshold  *float64 `json:"low_demand_threshold" validate:"omitempty,gte=0,lte=1"`
	HighDemandThreshold *float64 `json:"high_demand_threshold" validate:"omitempty,gte=0,lte=1"`
	IsActive            *bool    `json:"is_active"`
}

type ListRulesQuery struct {
	HotelID  string `query:"hotel_id" validate:"omitempty,numeric"`
	IsActive string `query:"is_active" validate:"omitempty,oneof=true false"`
}

func (q ListRulesQuery) filter() domain.PricingRuleFilter {
	var f domain.PricingRuleFilter
	if id, err := strconv.ParseUint(q.HotelID, 10, 64); err == nil {
		hotelID := uint(id)
		f.HotelID = &hotelID
	}
	if active, err := strconv.ParseBool(q.IsActive); err == nil {
		f.IsActive = &active
	}
	return f
}

func (h *RuleHandler) CreateRule(c echo.Context) error {
	var req CreateRuleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	rule := domain.DefaultPricingRule(req.HotelID)
	rule.Name = req.Name
	rule.Description = req.Description
	domain.PricingRuleUpdate{
		MinPriceMultiplier:  req.MinPriceMultiplier,
		MaxPriceMultiplier:  req.MaxPriceMultiplier,
		LowDemandThreshold:  req.LowDemandThreshold,
		HighDemandThreshold: req.HighDemandThreshold,
		IsActive:            req.IsActive,
	}.Apply(&rule)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.ruleService.CreateRule(ctx, rule)
	if err != nil {
		return respondError(c, "pricing_rule_create_failed", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(created))
}

func (h *RuleHandler) ListRules(c echo.Context) error {
	var q ListRulesQuery
	if err := c.Bind(&q); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&q); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rules, err := h.ruleService.ListRules(ctx, q.filter())
	if err != nil {
		return respondError(c, "pricing_rule_list_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rules))
}

func (h *RuleHandler) GetRule(c echo.Context) error {
	id, err := ruleID(c)
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rule, err := h.ruleService.GetRule(ctx, id)
	if err != nil {
		return respondError(c, "pricing_rule_get_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rule))
}

func (h *RuleHandler) UpdateRule(c echo.Context) error {
	id, err := ruleID(c)
	if err != nil {
		return badRequest(c, err)
	}

	var req UpdateRuleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rule, err := h.ruleService.UpdateRule(ctx, id, domain.PricingRuleUpdate{
		Name:                req.Name,
		Description:         req.Description,
		MinPriceMultiplier:  req.MinPriceMultiplier,
		MaxPriceMultiplier:  req.MaxPriceMultiplier,
		LowDemandThreshold:  req.LowDemandThreshold,
		HighDemandThreshold: req.HighDemandThreshold,
		IsActive:            req.IsActive,
	})
	if err != nil {
		return respondError(c, "pricing_rule_update_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rule))
}

func (h *RuleHandler) DeleteRule(c echo.Context) error {
	id, err := ruleID(c)
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rule, err := h.ruleService.DeleteRule(ctx, id)
	if err != nil {
		return respondError(c, "pricing_rule_delete_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rule))
}

func ruleID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid pricing rule id", domain.ErrValidation)
	}
	return uint(id), nil
}
