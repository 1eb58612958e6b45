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

type HotelService interface {
	CreateHotel(ctx context.Context, hotel domain.Hotel) (domain.Hotel, error)
	ListHotels(ctx context.Context, filter domain.HotelFilter) ([]domain.Hotel, error)
	GetHotel(ctx context.Context, id uint) (domain.HotelDetail, error)
	UpdateHotel(ctx context.Context, id uint, upd domain.HotelUpdate) (domain.Hotel, error)
	DeleteHotel(ctx context.Context, id uint) (domain.Hotel, error)

	CreateRoomType(ctx context.Context, rt domain.RoomType) (domain.RoomType, error)
	ListRoomTypes(ctx context.Context, filter domain.RoomTypeFilter) ([]domain.RoomType, error)
	GetRoomType(ctx context.Context, id uint) (domain.RoomType, error)
	UpdateRoomType(ctx context.Context, id uint, upd domain.RoomTypeUpdate) (domain.RoomType, error)
	DeleteRoomType(ctx context.Context, id uint) (domain.RoomType, error)
}

type HotelHandler struct {
	hotelService HotelService
	validator    *validator.Validate
	timeout      time.Duration
}

func NewHotelHandler(hotelService HotelService) *HotelHandler {
	return &HotelHandler{
		hotelService: hotelService,
		validator:    validator.New(),
		timeout:      10 * time.Second,
	}
}

type CreateHotelRequest struct {
	Name              string  `json:"name" validate:"required,max=200"`
	City              string  `json:"city" validate:"max=100"`
	Country           string  `json:"country" validate:"max=100"`
	Currency          string  `json:"currency" validate:"omitempty,len=3"`
	Timezone          string  `json:"timezone" validate:"omitempty,max=64"`
	MonthlyFixedCosts float64 `json:"monthly_fixed_costs" validate:"gte=0"`
}

type UpdateHotelRequest struct {
	Name              *string  `json:"name" validate:"omitempty,max=200"`
	City              *string  `json:"city" validate:"omitempty,max=100"`
	Country           *string  `json:"country" validate:"omitempty,max=100"`
	Currency          *string  `json:"currency" validate:"omitempty,len=3"`
	Timezone          *string  `json:"timezone" validate:"omitempty,max=64"`
	MonthlyFixedCosts *float64 `json:"monthly_fixed_costs" validate:"omitempty,gte=0"`
	IsActive          *bool    `json:"is_active"`
}

type CreateRoomTypeRequest struct {
	HotelID        uint    `json:"hotel_id" validate:"required"`
	Name           string  `json:"name" validate:"required,max=100"`
	Description    string  `json:"description" validate:"max=500"`
	BasePrice      float64 `json:"base_price" validate:"gt=0"`
	VariableCost   float64 `json:"variable_cost" validate:"gte=0"`
	InventoryCount int     `json:"inventory_count" validate:"gte=0"`
	MaxOccupancy   int     `json:"max_occupancy" validate:"omitempty,gte=1"`
}

type UpdateRoomTypeRequest struct {
	Name           *string  `json:"name" validate:"omitempty,max=100"`
	Description    *string  `json:"description" validate:"omitempty,max=500"`
	BasePrice      *float64 `json:"base_price" validate:"omitempty,gt=0"`
	VariableCost   *float64 `json:"variable_cost" validate:"omitempty,gte=0"`
	InventoryCount *int     `json:"inventory_count" validate:"omitempty,gte=0"`
	MaxOccupancy   *int     `json:"max_occupancy" validate:"omitempty,gte=1"`
	IsActive       *bool    `json:"is_active"`
}

// ListQuery lists active records unless is_active=false is given.
type ListQuery struct {
	HotelID  string `query:"hotel_id" validate:"omitempty,numeric"`
	IsActive string `query:"is_active" validate:"omitempty,oneof=true false"`
	Skip     int    `query:"skip" validate:"gte=0"`
	Limit    int    `query:"limit" validate:"omitempty,gte=1,lte=1000"`
}

func (q ListQuery) active() *bool {
	active := true
	if v, err := strconv.ParseBool(q.IsActive); err == nil {
		active = v
	}
	return &active
}

func (q ListQuery) page() domain.Page {
	limit := q.Limit
	if limit == 0 {
		limit = 100
	}
	return domain.Page{Offset: q.Skip, Limit: limit}
}

func (h *HotelHandler) CreateHotel(c echo.Context) error {
	var req CreateHotelRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	hotel, err := h.hotelService.CreateHotel(ctx, domain.Hotel{
		Name:              req.Name,
		City:              req.City,
		Country:           req.Country,
		Currency:          req.Currency,
		Timezone:          req.Timezone,
		MonthlyFixedCosts: req.MonthlyFixedCosts,
	})
	if err != nil {
		return respondError(c, "hotel_create_failed", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(hotel))
}

func (h *HotelHandler) ListHotels(c echo.Context) error {
	var q ListQuery
	if err := c.Bind(&q); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&q); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	hotels, err := h.hotelService.ListHotels(ctx, domain.HotelFilter{IsActive: q.active(), Page: q.page()})
	if err != nil {
		return respondError(c, "hotel_list_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(hotels))
}

func (h *HotelHandler) GetHotel(c echo.Context) error {
	id, err := pathID(c, "hotel")
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	hotel, err := h.hotelService.GetHotel(ctx, id)
	if err != nil {
		return respondError(c, "hotel_get_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(hotel))
}

func (h *HotelHandler) UpdateHotel(c echo.Context) error {
	id, err := pathID(c, "hotel")
	if err != nil {
		return badRequest(c, err)
	}

	var req UpdateHotelRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	hotel, err := h.hotelService.UpdateHotel(ctx, id, domain.HotelUpdate{
		Name:              req.Name,
		City:              req.City,
		Country:           req.Country,
		Currency:          req.Currency,
		Timezone:          req.Timezone,
		MonthlyFixedCosts: req.MonthlyFixedCosts,
		IsActive:          req.IsActive,
	})
	if err != nil {
		return respondError(c, "hotel_update_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(hotel))
}

func (h *HotelHandler) DeleteHotel(c echo.Context) error {
	id, err := pathID(c, "hotel")
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	hotel, err := h.hotelService.DeleteHotel(ctx, id)
	if err != nil {
		return respondError(c, "hotel_delete_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(hotel))
}

func (h *HotelHandler) CreateRoomType(c echo.Context) error {
	var req CreateRoomTypeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}
	if req.MaxOccupancy == 0 {
		req.MaxOccupancy = 2
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rt, err := h.hotelService.CreateRoomType(ctx, domain.RoomType{
		HotelID:        req.HotelID,
		Name:           req.Name,
		Description:    req.Description,
		BasePrice:      req.BasePrice,
		VariableCost:   req.VariableCost,
		InventoryCount: req.InventoryCount,
		MaxOccupancy:   req.MaxOccupancy,
	})
	if err != nil {
		return respondError(c, "room_type_create_failed", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(rt))
}

func (h *HotelHandler) ListRoomTypes(c echo.Context) error {
	var q ListQuery
	if err := c.Bind(&q); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&q); err != nil {
		return badRequest(c, err)
	}

	filter := domain.RoomTypeFilter{IsActive: q.active(), Page: q.page()}
	if id, err := strconv.ParseUint(q.HotelID, 10, 64); err == nil {
		hotelID := uint(id)
		filter.HotelID = &hotelID
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rts, err := h.hotelService.ListRoomTypes(ctx, filter)
	if err != nil {
		return respondError(c, "room_type_list_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rts))
}

func (h *HotelHandler) GetRoomType(c echo.Context) error {
	id, err := pathID(c, "room type")
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rt, err := h.hotelService.GetRoomType(ctx, id)
	if err != nil {
		return respondError(c, "room_type_get_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rt))
}

func (h *HotelHandler) UpdateRoomType(c echo.Context) error {
	id, err := pathID(c, "room type")
	if err != nil {
		return badRequest(c, err)
	}

	var req UpdateRoomTypeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rt, err := h.hotelService.UpdateRoomType(ctx, id, domain.RoomTypeUpdate{
		Name:           req.Name,
		Description:    req.Description,
		BasePrice:      req.BasePrice,
		VariableCost:   req.VariableCost,
		InventoryCount: req.InventoryCount,
		MaxOccupancy:   req.MaxOccupancy,
		IsActive:       req.IsActive,
	})
	if err != nil {
		return respondError(c, "room_type_update_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rt))
}

func (h *HotelHandler) DeleteRoomType(c echo.Context) error {
	id, err := pathID(c, "room type")
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rt, err := h.hotelService.DeleteRoomType(ctx, id)
	if err != nil {
		return respondError(c, "room_type_delete_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rt))
}

func pathID(c echo.Context, what string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid %s id", domain.ErrValidation, what)
	}
	return uint(id), nil
}
