// Package wiring builds the business services on top of the postgres and
// redis repositories. The HTTP server and the CLI share it.
package wiring

import (
	"hotelPricing/business/analytics"
	"hotelPricing/business/forecast"
	"hotelPricing/business/hotel"
	"hotelPricing/business/pricing"
	"hotelPricing/business/rule"
	psqlRepo "hotelPricing/internal/repository/postgres"
	redisRepo "hotelPricing/internal/repository/redis"
	"hotelPricing/internal/rest"
	"hotelPricing/pkg/config"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Repositories struct {
	Hotels        *psqlRepo.HotelRepository
	RoomTypes     *psqlRepo.RoomTypeRepository
	Rules         *psqlRepo.PricingRuleRepository
	RoomPricing   *psqlRepo.RoomPricingRepository
	History       *psqlRepo.HistoryRepository
	ForecastModel *psqlRepo.ForecastModelRepository
}

type Services struct {
	Repos     Repositories
	Forecast  *forecast.Service
	Pricing   *pricing.Service
	Hotels    rest.HotelService
	Rules     rest.RuleService
	Analytics rest.AnalyticsService
}

// NewServices wires every service. redisClient may be nil, which disables the
// forecast cache.
func NewServices(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Services, error) {
	forecastCfg, err := ForecastConfig(cfg.Forecast)
	if err != nil {
		return nil, err
	}

	repos := Repositories{
		Hotels:        psqlRepo.NewHotelRepository(db),
		RoomTypes:     psqlRepo.NewRoomTypeRepository(db),
		Rules:         psqlRepo.NewPricingRuleRepository(db),
		RoomPricing:   psqlRepo.NewRoomPricingRepository(db),
		History:       psqlRepo.NewHistoryRepository(db),
		ForecastModel: psqlRepo.NewForecastModelRepository(db),
	}

	var cache forecast.ForecastCache
	if redisClient != nil {
		cache = redisRepo.NewForecastCache(redisClient, cfg.Redis.ForecastTTL)
	}

	forecastService := forecast.NewService(repos.Hotels, repos.RoomTypes, repos.History, repos.ForecastModel, cache, forecastCfg)
	pricingService := pricing.NewService(repos.Hotels, repos.RoomTypes, repos.Rules, repos.RoomPricing, forecastService, PricingConfig(cfg.Pricing))

	return &Services{
		Repos:     repos,
		Forecast:  forecastService,
		Pricing:   pricingService,
		Hotels:    hotel.NewHotelService(repos.Hotels, repos.RoomTypes),
		Rules:     rule.NewRuleService(repos.Hotels, repos.Rules),
		Analytics: analytics.NewAnalyticsService(repos.Hotels, repos.RoomTypes, repos.RoomPricing),
	}, nil
}

func ForecastConfig(c config.ForecastConfig) (forecast.Config, error) {
	mode, err := forecast.ParseHistoryMode(c.HistoryMode)
	if err != nil {
		return forecast.Config{}, err
	}
	return forecast.Config{
		HistoryMode:      mode,
		HistoryDays:      c.HistoryDays,
		MinHistoryPoints: c.MinHistoryPoints,
		Seed:             c.Seed,
		RidgeLambda:      c.RidgeLambda,
		MaxScopes:        c.MaxScopes,
		MaxForecastDays:  c.MaxForecastDays,
	}, nil
}

func PricingConfig(c config.PricingConfig) pricing.Config {
	return pricing.Config{
		MinContributionMargin: c.MinContributionMargin,
		DefaultDays:           c.DefaultDays,
		MaxDays:               c.MaxDays,
		Concurrency:           c.Concurrency,
		Currency:              c.Currency,
	}
}
