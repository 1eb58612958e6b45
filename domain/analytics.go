package domain

type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

func (g GroupBy) Valid() bool {
	switch g {
	case GroupByDay, GroupByWeek, GroupByMonth:
		return true
	}
	return false
}

// RevenueQuery selects stored pricing rows of a hotel within [StartDate, EndDate].
type RevenueQuery struct {
	HotelID    uint
	StartDate  Date
	EndDate    Date
	RoomTypeID uint
	GroupBy    GroupBy
}

type RoomTypeRevenue struct {
	RoomTypeID         uint    `json:"room_type_id"`
	RoomTypeName       string  `json:"room_type_name"`
	Revenue            float64 `json:"revenue"`
	VariableCost       float64 `json:"variable_cost"`
	Contribution       float64 `json:"contribution"`
	ContributionMargin float64 `json:"contribution_margin"`
	Rooms              int     `json:"rooms"`
	Occupied           int     `json:"occupied"`
	OccupancyRate      float64 `json:"occupancy_rate"`
}

type RevenuePeriod struct {
	Date               Date              `json:"date"`
	TotalRevenue       float64           `json:"total_revenue"`
	TotalVariableCost  float64           `json:"total_variable_cost"`
	TotalContribution  float64           `json:"total_contribution"`
	ContributionMargin float64           `json:"contribution_margin"`
	TotalRooms         int               `json:"total_rooms"`
	TotalOccupied      int               `json:"total_occupied"`
	OccupancyRate      float64           `json:"occupancy_rate"`
	RoomTypes          []RoomTypeRevenue `json:"room_types"`
}

type RevenueAnalytics struct {
	HotelID   uint            `json:"hotel_id"`
	StartDate Date            `json:"start_date"`
	EndDate   Date            `json:"end_date"`
	GroupBy   GroupBy         `json:"group_by"`
	Analytics []RevenuePeriod `json:"analytics"`
}

// AnalyticsRange selects stored pricing rows of a hotel within [StartDate, EndDate].
// Zero dates default to the last 30 days.
type AnalyticsRange struct {
	HotelID    uint
	StartDate  Date
	EndDate    Date
	RoomTypeID uint
}

// PerformanceDay compares the suggested and the charged price of one date.
type PerformanceDay struct {
	Date                        Date    `json:"date"`
	SuggestedPrice              float64 `json:"suggested_price"`
	FinalPrice                  float64 `json:"final_price"`
	IsOverride                  bool    `json:"is_override"`
	Occupancy                   float64 `json:"occupancy"`
	OccupiedRooms               int     `json:"occupied_rooms"`
	SuggestedRevenue            float64 `json:"suggested_revenue"`
	FinalRevenue                float64 `json:"final_revenue"`
	RevenueDifference           float64 `json:"revenue_difference"`
	RevenueDifferencePercentage float64 `json:"revenue_difference_percentage"`
}

type RoomTypePerformance struct {
	RoomTypeID                  uint             `json:"room_type_id"`
	RoomTypeName                string           `json:"room_type_name"`
	TotalSuggestedRevenue       float64          `json:"total_suggested_revenue"`
	TotalFinalRevenue           float64          `json:"total_final_revenue"`
	RevenueDifference           float64          `json:"revenue_difference"`
	RevenueDifferencePercentage float64          `json:"revenue_difference_percentage"`
	TotalDays                   int              `json:"total_days"`
	OverrideCount               int              `json:"override_count"`
	OverridePercentage          float64          `json:"override_percentage"`
	DailyData                   []PerformanceDay `json:"daily_data"`
}

type PricingPerformance struct {
	HotelID   uint                  `json:"hotel_id"`
	StartDate Date                  `json:"start_date"`
	EndDate   Date                  `json:"end_date"`
	Analytics []RoomTypePerformance `json:"analytics"`
}

// AnalyticsExportRow is one stored (room type, date) row with its derived figures.
type AnalyticsExportRow struct {
	Date                Date    `json:"date"`
	RoomTypeID          uint    `json:"room_type_id"`
	RoomTypeName        string  `json:"room_type_name"`
	BasePrice           float64 `json:"base_price"`
	VariableCost        float64 `json:"variable_cost"`
	Inventory           int     `json:"inventory"`
	SuggestedPrice      float64 `json:"suggested_price"`
	FinalPrice          float64 `json:"final_price"`
	IsOverride          bool    `json:"is_override"`
	ForecastedDemand    float64 `json:"forecasted_demand"`
	ForecastedOccupancy float64 `json:"forecasted_occupancy"`
	OccupiedRooms       int     `json:"occupied_rooms"`
	Revenue             float64 `json:"revenue"`
	TotalVariableCost   float64 `json:"total_variable_cost"`
	Contribution        float64 `json:"contribution"`
	ContributionMargin  float64 `json:"contribution_margin"`
}

type AnalyticsExport struct {
	HotelID   uint                 `json:"hotel_id"`
	HotelName string               `json:"hotel_name"`
	StartDate Date                 `json:"start_date"`
	EndDate   Date                 `json:"end_date"`
	Rows      []AnalyticsExportRow `json:"export_data"`
}
