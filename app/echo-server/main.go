package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotelPricing/app/echo-server/metrics"
	"hotelPricing/app/echo-server/router"
	"hotelPricing/internal/middleware"
	"hotelPricing/internal/rest"
	"hotelPricing/internal/wiring"
	"hotelPricing/pkg/config"
	"hotelPricing/pkg/database"
	redisClient "hotelPricing/pkg/database/redis"
	"hotelPricing/pkg/logger"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Hotel Pricing API", "version", cfg.App.Version, "history_mode", cfg.Forecast.HistoryMode)

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database.DSN(), "up"); err != nil {
			logger.Fatal("Failed to run migrations", "error", err)
		}
	}

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer func() { _ = database.ClosePostgres(db) }()

	logger.Info("Database connected successfully")

	rdb, err := redisClient.NewRedisClient(cfg)
	if err != nil {
		// the cache is optional, forecasts are recomputed without it
		logger.Warn("Redis unavailable, forecast cache disabled", "error", err)
	}
	defer func() { _ = redisClient.CloseRedisClient(rdb) }()

	services, err := wiring.NewServices(cfg, db, rdb)
	if err != nil {
		logger.Fatal("Failed to build services", "error", err)
	}

	// Init handler
	forecastingHandler := rest.NewForecastingHandler(services.Forecast)
	pricingHandler := rest.NewPricingHandler(services.Pricing, cfg.Pricing.DefaultDays)
	hotelHandler := rest.NewHotelHandler(services.Hotels)
	ruleHandler := rest.NewRuleHandler(services.Rules)
	analyticsHandler := rest.NewAnalyticsHandler(services.Analytics)

	checks := map[string]rest.Pinger{}
	if sqlDB, err := db.DB(); err == nil {
		checks["postgres"] = sqlDB
	}
	if rdb != nil {
		checks["redis"] = rest.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	healthHandler := rest.NewHealthHandler(checks)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.Trace())
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
		ExposeHeaders: []string{echo.HeaderXRequestID, echo.HeaderContentDisposition},
	}))

	metrics.Init(e, cfg.App.Version, cfg.App.Environment)
	router.SetupHealthRoutes(e, healthHandler)

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupForecastingRoutes(api, forecastingHandler)
	router.SetupPricingRoutes(api, pricingHandler)
	router.SetupHotelRoutes(api, hotelHandler)
	router.SetupRuleRoutes(api, ruleHandler)
	router.SetupAnalyticsRoutes(api, analyticsHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
