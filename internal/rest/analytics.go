package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"hotelPricing/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AnalyticsService interface {
	Revenue(ctx context.Context, q domain.RevenueQuery) (domain.RevenueAnalytics, error)
	PricingPerformance(ctx context.Context, q domain.AnalyticsRange) (domain.PricingPerformance, error)
	Export(ctx context.Context, q domain.AnalyticsRange, w io.Writer) error
}

type AnalyticsHandler struct {
	analyticsService AnalyticsService
	validate         *validator.Validate
	timeout          time.Duration
}

func NewAnalyticsHandler(svc AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: svc,
		validate:         validator.New(),
		timeout:          10 * time.Second,
	}
}

type RevenueQuery struct {
	HotelID    uint        `param:"hotel_id" validate:"required"`
	StartDate  domain.Date `query:"start_date"`
	EndDate    domain.Date `query:"end_date"`
	RoomTypeID uint        `query:"room_type_id"`
	GroupBy    string      `query:"group_by" validate:"omitempty,oneof=day week month"`
}

type AnalyticsRangeQuery struct {
	HotelID    uint        `param:"hotel_id" validate:"required"`
	StartDate  domain.Date `query:"start_date"`
	EndDate    domain.Date `query:"end_date"`
	RoomTypeID uint        `query:"room_type_id"`
}

func (q AnalyticsRangeQuery) toRange() domain.AnalyticsRange {
	return domain.AnalyticsRange{
		HotelID:    q.HotelID,
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		RoomTypeID: q.RoomTypeID,
	}
}

// GET /api/v1/analytics/revenue/:hotel_id
func (h *AnalyticsHandler) Revenue(c echo.Context) error {
	var q RevenueQuery
	if err := c.Bind(&q); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&q); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.analyticsService.Revenue(ctx, domain.RevenueQuery{
		HotelID:    q.HotelID,
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		RoomTypeID: q.RoomTypeID,
		GroupBy:    domain.GroupBy(q.GroupBy),
	})
	if err != nil {
		return respondError(c, "analytics_revenue_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

func (h *AnalyticsHandler) bindRange(c echo.Context) (domain.AnalyticsRange, error) {
	var q AnalyticsRangeQuery
	if err := c.Bind(&q); err != nil {
		return domain.AnalyticsRange{}, err
	}
	if err := h.validate.Struct(&q); err != nil {
		return domain.AnalyticsRange{}, err
	}
	return q.toRange(), nil
}

// GET /api/v1/analytics/pricing-performance/:hotel_id
func (h *AnalyticsHandler) PricingPerformance(c echo.Context) error {
	q, err := h.bindRange(c)
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.analyticsService.PricingPerformance(ctx, q)
	if err != nil {
		return respondError(c, "analytics_pricing_performance_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// GET /api/v1/analytics/export/:hotel_id
func (h *AnalyticsHandler) Export(c echo.Context) error {
	q, err := h.bindRange(c)
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var buf bytes.Buffer
	if err := h.analyticsService.Export(ctx, q, &buf); err != nil {
		return respondError(c, "analytics_export_failed", err)
	}

	filename := fmt.Sprintf("analytics_hotel_%d.xlsx", q.HotelID)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
