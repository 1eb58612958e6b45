package domain

import (
	"time"

	"gorm.io/datatypes"
)

type ModelType string

const (
	ModelSeasonal   ModelType = "seasonal"
	ModelRegression ModelType = "regression"
	ModelCombined   ModelType = "combined"
)

func (m ModelType) Valid() bool {
	switch m {
	case ModelSeasonal, ModelRegression, ModelCombined:
		return true
	}
	return false
}

type HistorySource string

const (
	HistoryIngested  HistorySource = "ingested"
	HistorySynthetic HistorySource = "synthetic"
)

// DemandForecastPoint is one day of a forecast with the raw output of each sub-model.
type DemandForecastPoint struct {
	Date                Date    `json:"date"`
	DemandProbability   float64 `json:"demand_probability"`
	SeasonalComponent   float64 `json:"seasonal_component"`
	RegressionComponent float64 `json:"regression_component"`
}

type DemandForecast struct {
	HotelID      uint                  `json:"hotel_id"`
	RoomTypeID   uint                  `json:"room_type_id"`
	RoomTypeName string                `json:"room_type_name,omitempty"`
	StartDate    Date                  `json:"start_date"`
	EndDate      Date                  `json:"end_date"`
	Days         int                   `json:"days"`
	ModelVersion int                   `json:"model_version"`
	GeneratedAt  time.Time             `json:"generated_at"`
	Forecast     []DemandForecastPoint `json:"forecast"`
}

type TrainingResult struct {
	HotelID       uint          `json:"hotel_id"`
	RoomTypeID    uint          `json:"room_type_id"`
	ModelType     ModelType     `json:"model_type"`
	ModelVersion  int           `json:"model_version"`
	HistorySource HistorySource `json:"history_source"`
	HistoryPoints int           `json:"history_points"`
	TrainedAt     time.Time     `json:"trained_at"`
}

// CREATE TABLE public.historical_bookings (
//     id                 BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     room_type_id       BIGINT NOT NULL REFERENCES room_types(id),
//     date               DATE NOT NULL,
//     total_rooms        INTEGER NOT NULL,
//     rooms_sold         INTEGER NOT NULL,
//     occupancy_rate     DOUBLE PRECISION NOT NULL,
//     average_daily_rate NUMERIC NOT NULL,
//     revenue            NUMERIC NOT NULL,
//     UNIQUE (room_type_id, date)
// );

type HistoricalBooking struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomTypeID       uint      `gorm:"column:room_type_id;not null;uniqueIndex:idx_historical_bookings_room_type_date" json:"room_type_id"`
	Date             Date      `gorm:"column:date;not null;uniqueIndex:idx_historical_bookings_room_type_date" json:"date"`
	TotalRooms       int       `gorm:"column:total_rooms;not null" json:"total_rooms"`
	RoomsSold        int       `gorm:"column:rooms_sold;not null" json:"rooms_sold"`
	OccupancyRate    float64   `gorm:"column:occupancy_rate;not null" json:"occupancy_rate"`
	AverageDailyRate float64   `gorm:"column:average_daily_rate;not null" json:"average_daily_rate"`
	Revenue          float64   `gorm:"column:revenue;not null" json:"revenue"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (HistoricalBooking) TableName() string {
	return "historical_bookings"
}

// ForecastModelSnapshot is the persisted fitted state of one (hotel, room type) scope.
type ForecastModelSnapshot struct {
	HotelID       uint           `gorm:"column:hotel_id;primaryKey" json:"hotel_id"`
	RoomTypeID    uint           `gorm:"column:room_type_id;primaryKey" json:"room_type_id"`
	Version       int            `gorm:"column:version;not null" json:"version"`
	HistorySource string         `gorm:"column:history_source;not null" json:"history_source"`
	HistoryPoints int            `gorm:"column:history_points;not null" json:"history_points"`
	Params        datatypes.JSON `gorm:"column:params;type:jsonb" json:"params"`
	TrainedAt     time.Time      `gorm:"column:trained_at;not null" json:"trained_at"`
}

func (ForecastModelSnapshot) TableName() string {
	return "forecast_models"
}

type ForecastRequest struct {
	HotelID    uint
	RoomTypeID uint
	StartDate  Date
	Days       int
}

// TrainRequest trains one room type, or every active room type of the hotel when
// RoomTypeID is zero.
type TrainRequest struct {
	HotelID    uint
	RoomTypeID uint
	ModelType  ModelType
}

// ForecastModelInfo describes a registry entry without its parameters.
type ForecastModelInfo struct {
	HotelID       uint          `json:"hotel_id"`
	RoomTypeID    uint          `json:"room_type_id"`
	Version       int           `json:"version"`
	HasSeasonal   bool          `json:"has_seasonal"`
	HasRegressor  bool          `json:"has_regressor"`
	HistorySource HistorySource `json:"history_source"`
	HistoryPoints int           `json:"history_points"`
	TrainedAt     time.Time     `json:"trained_at"`
}
