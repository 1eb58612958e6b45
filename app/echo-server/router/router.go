package router

import (
	"hotelPricing/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupForecastingRoutes(api *echo.Group, handler *rest.ForecastingHandler) {
	forecasting := api.Group("/forecasting")

	forecasting.POST("/demand", handler.Demand)
	forecasting.POST("/train-model", handler.TrainModel)
	forecasting.POST("/history", handler.ImportHistory)
	forecasting.GET("/models", handler.Models)
}

func SetupPricingRoutes(api *echo.Group, handler *rest.PricingHandler) {
	pricing := api.Group("/pricing")

	pricing.GET("/recommendations/:hotel_id", handler.Recommendations)
	pricing.POST("/recommendations/:hotel_id/save", handler.SaveRecommendations)
	pricing.GET("/recommendations/:hotel_id/export", handler.ExportRecommendations)
	pricing.POST("/override", handler.Override)
	pricing.DELETE("/override", handler.ClearOverride)
	pricing.GET("/room-pricing", handler.RoomPricing)
	pricing.POST("/elasticity", handler.Elasticity)
}

func SetupRuleRoutes(api *echo.Group, handler *rest.RuleHandler) {
	rules := api.Group("/pricing/rules")

	rules.GET("", handler.ListRules)
	rules.GET("/:id", handler.GetRule)
	rules.POST("", handler.CreateRule)
	rules.PUT("/:id", handler.UpdateRule)
	rules.DELETE("/:id", handler.DeleteRule)
}

func SetupHotelRoutes(api *echo.Group, handler *rest.HotelHandler) {
	hotels := api.Group("/hotels")

	hotels.GET("", handler.ListHotels)
	hotels.GET("/:id", handler.GetHotel)
	hotels.POST("", handler.CreateHotel)
	hotels.PUT("/:id", handler.UpdateHotel)
	hotels.DELETE("/:id", handler.DeleteHotel)

	roomTypes := api.Group("/room-types")

	roomTypes.GET("", handler.ListRoomTypes)
	roomTypes.GET("/:id", handler.GetRoomType)
	roomTypes.POST("", handler.CreateRoomType)
	roomTypes.PUT("/:id", handler.UpdateRoomType)
	roomTypes.DELETE("/:id", handler.DeleteRoomType)
}

func SetupAnalyticsRoutes(api *echo.Group, handler *rest.AnalyticsHandler) {
	analytics := api.Group("/analytics")

	analytics.GET("/revenue/:hotel_id", handler.Revenue)
	analytics.GET("/pricing-performance/:hotel_id", handler.PricingPerformance)
	analytics.GET("/export/:hotel_id", handler.Export)
}

func SetupHealthRoutes(e *echo.Echo, handler *rest.HealthHandler) {
	e.GET("/health", handler.Health)
}
