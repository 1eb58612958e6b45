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

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type (
	PricingHandler struct {
		validate       *validator.Validate
		pricingService PricingService
		defaultDays    int
		timeout        time.Duration
	}

	PricingService interface {
		Generate(ctx context.Context, req domain.RecommendationRequest) (domain.HotelRecommendations, error)
		Save(ctx context.Context, req domain.RecommendationRequest) (domain.HotelRecommendations, int, error)
		Export(ctx context.Context, req domain.RecommendationRequest, w io.Writer) error
		ApplyOverride(ctx context.Context, req domain.OverrideRequest) (domain.OverrideSummary, error)
		ClearOverride(ctx context.Context, roomTypeID uint, d domain.Date) (domain.OverrideSummary, error)
		StoredPrices(ctx context.Context, roomTypeID uint, from, to domain.Date) ([]domain.RoomPricing, error)
		Simulate(ctx context.Context, req domain.ElasticityRequest) (domain.ElasticitySimulation, error)
	}

	RecommendationQuery struct {
		HotelID    uint        `param:"hotel_id" validate:"required"`
		StartDate  domain.Date `query:"start_date" json:"start_date"`
		Days       int         `query:"days" json:"days" validate:"min=0"`
		RoomTypeID uint        `query:"room_type_id" json:"room_type_id"`
	}

	OverridePriceRequest struct {
		RoomTypeID uint        `json:"room_type_id" validate:"required"`
		Date       domain.Date `json:"date"`
		Price      float64     `json:"price" validate:"gt=0"`
		Notes      string      `json:"notes" validate:"max=500"`
	}

	ClearOverrideQuery struct {
		RoomTypeID uint        `query:"room_type_id" validate:"required"`
		Date       domain.Date `query:"date"`
	}

	RoomPricingQuery struct {
		RoomTypeID uint        `query:"room_type_id" validate:"required"`
		StartDate  domain.Date `query:"start_date"`
		EndDate    domain.Date `query:"end_date"`
	}

	ElasticityRequest struct {
		RoomTypeID uint        `json:"room_type_id" validate:"required"`
		Date       domain.Date `json:"date"`
		PriceRange []float64   `json:"price_range" validate:"required,min=2,max=20,dive,gte=0"`
	}

	SaveRecommendationsResponse struct {
		Message         string                      `json:"message"`
		Saved           int                         `json:"saved"`
		Recommendations domain.HotelRecommendations `json:"recommendations"`
	}
)

var errDateRequired = fmt.Errorf("%w: date is required", domain.ErrValidation)

func NewPricingHandler(svc PricingService, defaultDays int) *PricingHandler {
	if defaultDays <= 0 {
		defaultDays = 30
	}
	return &PricingHandler{
		validate:       validator.New(),
		pricingService: svc,
		defaultDays:    defaultDays,
		timeout:        30 * time.Second,
	}
}

// bindRecommendation reads the hotel from the path and the window from the
// query string, or from a JSON body on POST.
func (h *PricingHandler) bindRecommendation(c echo.Context) (domain.RecommendationRequest, error) {
	var q RecommendationQuery
	if err := c.Bind(&q); err != nil {
		return domain.RecommendationRequest{}, err
	}
	if c.Request().Method != http.MethodGet {
		if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
			return domain.RecommendationRequest{}, err
		}
	}
	if err := h.validate.Struct(&q); err != nil {
		return domain.RecommendationRequest{}, err
	}
	if q.Days == 0 {
		q.Days = h.defaultDays
	}
	return domain.RecommendationRequest{
		HotelID:    q.HotelID,
		StartDate:  q.StartDate,
		Days:       q.Days,
		RoomTypeID: q.RoomTypeID,
	}, nil
}

// GET /api/v1/pricing/recommendations/:hotel_id
func (h *PricingHandler) Recommendations(c echo.Context) error {
	req, err := h.bindRecommendation(c)
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	recs, err := h.pricingService.Generate(ctx, req)
	if err != nil {
		return respondError(c, "pricing_recommendations_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

// POST /api/v1/pricing/recommendations/:hotel_id/save
func (h *PricingHandler) SaveRecommendations(c echo.Context) error {
	req, err := h.bindRecommendation(c)
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	recs, saved, err := h.pricingService.Save(ctx, req)
	if err != nil {
		return respondError(c, "pricing_save_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(SaveRecommendationsResponse{
		Message:         fmt.Sprintf("saved %d price recommendations", saved),
		Saved:           saved,
		Recommendations: recs,
	}))
}

// GET /api/v1/pricing/recommendations/:hotel_id/export
func (h *PricingHandler) ExportRecommendations(c echo.Context) error {
	req, err := h.bindRecommendation(c)
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var buf bytes.Buffer
	if err := h.pricingService.Export(ctx, req, &buf); err != nil {
		return respondError(c, "pricing_export_failed", err)
	}

	start := req.StartDate
	if start.IsZero() {
		start = domain.Today()
	}
	filename := fmt.Sprintf("recommendations_hotel_%d_%s.xlsx", req.HotelID, start)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// POST /api/v1/pricing/override
func (h *PricingHandler) Override(c echo.Context) error {
	var req OverridePriceRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err)
	}
	if req.Date.IsZero() {
		return badRequest(c, errDateRequired)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	summary, err := h.pricingService.ApplyOverride(ctx, domain.OverrideRequest{
		RoomTypeID: req.RoomTypeID,
		Date:       req.Date,
		Price:      req.Price,
		Notes:      req.Notes,
	})
	if err != nil {
		return respondError(c, "pricing_override_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(summary))
}

// DELETE /api/v1/pricing/override?room_type_id=..&date=..
func (h *PricingHandler) ClearOverride(c echo.Context) error {
	var q ClearOverrideQuery
	if err := c.Bind(&q); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&q); err != nil {
		return badRequest(c, err)
	}
	if q.Date.IsZero() {
		return badRequest(c, errDateRequired)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	summary, err := h.pricingService.ClearOverride(ctx, q.RoomTypeID, q.Date)
	if err != nil {
		return respondError(c, "pricing_clear_override_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(summary))
}

// GET /api/v1/pricing/room-pricing?room_type_id=..&start_date=..&end_date=..
func (h *PricingHandler) RoomPricing(c echo.Context) error {
	var q RoomPricingQuery
	if err := c.Bind(&q); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&q); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rows, err := h.pricingService.StoredPrices(ctx, q.RoomTypeID, q.StartDate, q.EndDate)
	if err != nil {
		return respondError(c, "pricing_room_pricing_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rows))
}

// POST /api/v1/pricing/elasticity
func (h *PricingHandler) Elasticity(c echo.Context) error {
	var req ElasticityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	sim, err := h.pricingService.Simulate(ctx, domain.ElasticityRequest{
		RoomTypeID: req.RoomTypeID,
		Date:       req.Date,
		PriceRange: req.PriceRange,
	})
	if err != nil {
		return respondError(c, "pricing_elasticity_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(sim))
}
