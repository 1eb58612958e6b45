package commands

import (
	"fmt"

	"hotelPricing/internal/wiring"
	"hotelPricing/pkg/config"
	"hotelPricing/pkg/database"
	redisDB "hotelPricing/pkg/database/redis"
	"hotelPricing/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// env holds the connections a command opened. close releases all of them.
type env struct {
	cfg   *config.Config
	db    *gorm.DB
	redis *redis.Client
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.App.Environment)
	return cfg, nil
}

func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := database.InitPostgres(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rdb, err := redisDB.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("redis_unavailable", "error", err)
	}

	return &env{cfg: cfg, db: db, redis: rdb}, nil
}

func (e *env) services() (*wiring.Services, error) {
	return wiring.NewServices(e.cfg, e.db, e.redis)
}

func (e *env) close() {
	if err := redisDB.CloseRedisClient(e.redis); err != nil {
		logger.Warn("redis_close_failed", "error", err)
	}
	if err := database.ClosePostgres(e.db); err != nil {
		logger.Warn("postgres_close_failed", "error", err)
	}
}
