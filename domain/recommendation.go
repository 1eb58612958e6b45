package domain

import "time"

// PriceRecommendation is the computed pricing of one room type on one date.
type PriceRecommendation struct {
	Date                         Date    `json:"date"`
	RoomTypeID                   uint    `json:"room_type_id"`
	RoomTypeName                 string  `json:"room_type_name"`
	BasePrice                    float64 `json:"base_price"`
	VariableCost                 float64 `json:"variable_cost"`
	DemandProbability            float64 `json:"demand_probability"`
	PriceMultiplier              float64 `json:"price_multiplier"`
	SuggestedPrice               float64 `json:"suggested_price"`
	FinalPrice                   float64 `json:"final_price"`
	IsOverride                   bool    `json:"is_override"`
	OverrideNotes                string  `json:"override_notes,omitempty"`
	ContributionMargin           float64 `json:"contribution_margin"`
	ContributionMarginPercentage float64 `json:"contribution_margin_percentage"`
	ExpectedOccupancy            float64 `json:"expected_occupancy"`
	ExpectedBookings             float64 `json:"expected_bookings"`
	ExpectedRevenue              float64 `json:"expected_revenue"`
	ExpectedContribution         float64 `json:"expected_contribution"`
}

type RoomTypeRecommendations struct {
	RoomTypeID     uint                  `json:"room_type_id"`
	RoomTypeName   string                `json:"room_type_name"`
	BasePrice      float64               `json:"base_price"`
	VariableCost   float64               `json:"variable_cost"`
	InventoryCount int                   `json:"inventory_count"`
	Prices         []PriceRecommendation `json:"prices"`
}

type HotelRecommendations struct {
	HotelID         uint                             `json:"hotel_id"`
	StartDate       Date                             `json:"start_date"`
	Days            int                              `json:"days"`
	GeneratedAt     time.Time                        `json:"generated_at"`
	Recommendations map[uint]RoomTypeRecommendations `json:"recommendations"`
}

// ElasticityPoint is the predicted outcome of selling at one candidate price.
type ElasticityPoint struct {
	Price                float64 `json:"price"`
	DemandProbability    float64 `json:"demand_probability"`
	ContributionMargin   float64 `json:"contribution_margin"`
	ExpectedRevenue      float64 `json:"expected_revenue"`
	ExpectedContribution float64 `json:"expected_contribution"`
}

type ElasticitySimulation struct {
	RoomTypeID   uint              `json:"room_type_id"`
	Date         Date              `json:"date"`
	ModelVersion int               `json:"model_version"`
	Elasticity   []ElasticityPoint `json:"elasticity"`
}

// RecommendationRequest covers [StartDate, StartDate+Days). A zero RoomTypeID
// selects every active room type of the hotel.
type RecommendationRequest struct {
	HotelID    uint
	StartDate  Date
	Days       int
	RoomTypeID uint
}

type OverrideRequest struct {
	RoomTypeID uint
	Date       Date
	Price      float64
	Notes      string
}

type ElasticityRequest struct {
	RoomTypeID uint
	Date       Date
	PriceRange []float64
}
