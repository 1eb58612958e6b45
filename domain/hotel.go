package domain

import (
	"fmt"
	"time"
)

// CREATE TABLE public.hotels (
//     id                  BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name                TEXT NOT NULL,
//     city                TEXT NOT NULL,
//     country             TEXT NOT NULL,
//     currency            VARCHAR(3) NOT NULL DEFAULT 'USD',
//     timezone            TEXT NOT NULL DEFAULT 'UTC',
//     monthly_fixed_costs NUMERIC NOT NULL DEFAULT 0,
//     is_active           BOOLEAN NOT NULL DEFAULT TRUE,
//     created_at          TIMESTAMPTZ DEFAULT NOW(),
//     updated_at          TIMESTAMPTZ DEFAULT NOW()
// );

type Hotel struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string    `gorm:"column:name;type:text;not null" json:"name"`
	City              string    `gorm:"column:city;type:text" json:"city"`
	Country           string    `gorm:"column:country;type:text" json:"country"`
	Currency          string    `gorm:"column:currency;default:USD" json:"currency"`
	Timezone          string    `gorm:"column:timezone;default:UTC" json:"timezone"`
	MonthlyFixedCosts float64   `gorm:"column:monthly_fixed_costs;type:numeric;default:0" json:"monthly_fixed_costs"`
	IsActive          bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Hotel) TableName() string {
	return "hotels"
}

// RoomType is a category of sellable rooms owned by exactly one hotel.
type RoomType struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID        uint      `gorm:"column:hotel_id;not null;index" json:"hotel_id"`
	Name           string    `gorm:"column:name;type:text;not null" json:"name"`
	Description    string    `gorm:"column:description;type:text" json:"description"`
	BasePrice      float64   `gorm:"column:base_price;type:numeric;not null" json:"base_price"`
	VariableCost   float64   `gorm:"column:variable_cost;type:numeric;not null" json:"variable_cost"`
	InventoryCount int       `gorm:"column:inventory_count;not null" json:"inventory_count"`
	MaxOccupancy   int       `gorm:"column:max_occupancy;default:2" json:"max_occupancy"`
	IsActive       bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (RoomType) TableName() string {
	return "room_types"
}

// HotelDetail is a hotel together with every room type it owns.
type HotelDetail struct {
	Hotel
	RoomTypes []RoomType `json:"room_types"`
}

// Page bounds a listing. A zero Limit means no limit.
type Page struct {
	Offset int
	Limit  int
}

type HotelFilter struct {
	IsActive *bool
	Page
}

type RoomTypeFilter struct {
	HotelID  *uint
	IsActive *bool
	Page
}

// HotelUpdate is a partial update. Nil fields are left unchanged.
type HotelUpdate struct {
	Name              *string
	City              *string
	Country           *string
	Currency          *string
	Timezone          *string
	MonthlyFixedCosts *float64
	IsActive          *bool
}

// Apply copies the set fields of u onto h.
func (u HotelUpdate) Apply(h *Hotel) {
	if u.Name != nil {
		h.Name = *u.Name
	}
	if u.City != nil {
		h.City = *u.City
	}
	if u.Country != nil {
		h.Country = *u.Country
	}
	if u.Currency != nil {
		h.Currency = *u.Currency
	}
	if u.Timezone != nil {
		h.Timezone = *u.Timezone
	}
	if u.MonthlyFixedCosts != nil {
		h.MonthlyFixedCosts = *u.MonthlyFixedCosts
	}
	if u.IsActive != nil {
		h.IsActive = *u.IsActive
	}
}

// Validate checks the monetary fields of the room type. A zero inventory is
// allowed and prices nothing into revenue.
func (rt RoomType) Validate() error {
	switch {
	case rt.BasePrice <= 0:
		return fmt.Errorf("%w: base_price must be positive", ErrValidation)
	case rt.VariableCost < 0:
		return fmt.Errorf("%w: variable_cost must not be negative", ErrValidation)
	case rt.InventoryCount < 0:
		return fmt.Errorf("%w: inventory_count must not be negative", ErrValidation)
	case rt.MaxOccupancy < 1:
		return fmt.Errorf("%w: max_occupancy must be at least 1", ErrValidation)
	}
	return nil
}

// RoomTypeUpdate is a partial update. Nil fields are left unchanged; the
// owning hotel cannot be changed.
type RoomTypeUpdate struct {
	Name           *string
	Description    *string
	BasePrice      *float64
	VariableCost   *float64
	InventoryCount *int
	MaxOccupancy   *int
	IsActive       *bool
}

// Apply copies the set fields of u onto rt.
func (u RoomTypeUpdate) Apply(rt *RoomType) {
	if u.Name != nil {
		rt.Name = *u.Name
	}
	if u.Description != nil {
		rt.Description = *u.Description
	}
	if u.BasePrice != nil {
		rt.BasePrice = *u.BasePrice
	}
	if u.VariableCost != nil {
		rt.VariableCost = *u.VariableCost
	}
	if u.InventoryCount != nil {
		rt.InventoryCount = *u.InventoryCount
	}
	if u.MaxOccupancy != nil {
		rt.MaxOccupancy = *u.MaxOccupancy
	}
	if u.IsActive != nil {
		rt.IsActive = *u.IsActive
	}
}
