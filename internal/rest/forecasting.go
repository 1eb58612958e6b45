package rest

import (
	"context"
	"net/http"
	"time"

	"hotelPricing/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const defaultForecastDays = 30

type (
	ForecastingHandler struct {
		validate        *validator.Validate
		forecastService ForecastService
		timeout         time.Duration
	}

	ForecastService interface {
		Forecast(ctx context.Context, req domain.ForecastRequest) (domain.DemandForecast, error)
		Train(ctx context.Context, req domain.TrainRequest) ([]domain.TrainingResult, error)
		ImportHistory(ctx context.Context, hotelID uint, rows []domain.HistoricalBooking) (int, error)
		Models() []domain.ForecastModelInfo
	}

	DemandForecastRequest struct {
		HotelID    uint        `json:"hotel_id" validate:"required"`
		RoomTypeID uint        `json:"room_type_id" validate:"required"`
		StartDate  domain.Date `json:"start_date"`
		Days       int         `json:"days" validate:"min=1,max=365"`
	}

	TrainModelRequest struct {
		HotelID    uint   `json:"hotel_id" validate:"required"`
		RoomTypeID uint   `json:"room_type_id"`
		ModelType  string `json:"model_type" validate:"omitempty,oneof=seasonal regression combined"`
	}

	HistoryPoint struct {
		RoomTypeID       uint        `json:"room_type_id" validate:"required"`
		Date             domain.Date `json:"date"`
		TotalRooms       int         `json:"total_rooms" validate:"min=0"`
		RoomsSold        int         `json:"rooms_sold" validate:"min=0"`
		OccupancyRate    float64     `json:"occupancy_rate" validate:"min=0,max=1"`
		AverageDailyRate float64     `json:"average_daily_rate" validate:"min=0"`
		Revenue          float64     `json:"revenue" validate:"min=0"`
	}

	ImportHistoryRequest struct {
		HotelID uint           `json:"hotel_id" validate:"required"`
		History []HistoryPoint `json:"history" validate:"required,min=1,dive"`
	}

	TrainModelResponse struct {
		Message string                  `json:"message"`
		Results []domain.TrainingResult `json:"results"`
	}

	ImportHistoryResponse struct {
		HotelID  uint `json:"hotel_id"`
		Imported int  `json:"imported"`
	}
)

func NewForecastingHandler(svc ForecastService) *ForecastingHandler {
	return &ForecastingHandler{
		validate:        validator.New(),
		forecastService: svc,
		timeout:         30 * time.Second,
	}
}

// POST /api/v1/forecasting/demand
func (h *ForecastingHandler) Demand(c echo.Context) error {
	req := DemandForecastRequest{Days: defaultForecastDays}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	forecast, err := h.forecastService.Forecast(ctx, domain.ForecastRequest{
		HotelID:    req.HotelID,
		RoomTypeID: req.RoomTypeID,
		StartDate:  req.StartDate,
		Days:       req.Days,
	})
	if err != nil {
		return respondError(c, "forecast_demand_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(forecast))
}

// POST /api/v1/forecasting/train-model
func (h *ForecastingHandler) TrainModel(c echo.Context) error {
	var req TrainModelRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	results, err := h.forecastService.Train(ctx, domain.TrainRequest{
		HotelID:    req.HotelID,
		RoomTypeID: req.RoomTypeID,
		ModelType:  domain.ModelType(req.ModelType),
	})
	if err != nil {
		return respondError(c, "forecast_train_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(TrainModelResponse{
		Message: "model training completed",
		Results: results,
	}))
}

// POST /api/v1/forecasting/history
func (h *ForecastingHandler) ImportHistory(c echo.Context) error {
	var req ImportHistoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	rows := make([]domain.HistoricalBooking, 0, len(req.History))
	for _, p := range req.History {
		rows = append(rows, domain.HistoricalBooking{
			RoomTypeID:       p.RoomTypeID,
			Date:             p.Date,
			TotalRooms:       p.TotalRooms,
			RoomsSold:        p.RoomsSold,
			OccupancyRate:    p.OccupancyRate,
			AverageDailyRate: p.AverageDailyRate,
			Revenue:          p.Revenue,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	n, err := h.forecastService.ImportHistory(ctx, req.HotelID, rows)
	if err != nil {
		return respondError(c, "forecast_history_import_failed", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(ImportHistoryResponse{
		HotelID:  req.HotelID,
		Imported: n,
	}))
}

// GET /api/v1/forecasting/models
func (h *ForecastingHandler) Models(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.forecastService.Models()))
}
