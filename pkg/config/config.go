package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Forecast ForecastConfig
	Pricing  PricingConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// run embedded migrations on start-up
	AutoMigrate bool
}

// DSN is the libpq connection string shared by gorm and goose.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// empty host disables the forecast cache
	Enabled     bool
	ForecastTTL time.Duration
}

type ForecastConfig struct {
	HistoryMode      string
	HistoryDays      int
	MinHistoryPoints int
	Seed             int64
	RidgeLambda      float64
	MaxScopes        int
	MaxForecastDays  int
}

type PricingConfig struct {
	MinContributionMargin float64
	DefaultDays           int
	MaxDays               int
	Concurrency           int
	Currency              string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	p := &parser{}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Hotel Pricing API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Name:        getEnv("DB_NAME", "hotel_pricing"),
			SSLMode:     getEnv("DB_SSL_MODE", "disable"),
			AutoMigrate: p.bool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			RedisHost:     os.Getenv("REDIS_HOST"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       p.int("REDIS_DB", 0),
			ForecastTTL:   p.duration("REDIS_FORECAST_TTL", time.Hour),
		},
		Forecast: ForecastConfig{
			HistoryMode:      strings.ToLower(getEnv("FORECAST_HISTORY_MODE", "auto")),
			HistoryDays:      p.int("FORECAST_HISTORY_DAYS", 730),
			MinHistoryPoints: p.int("FORECAST_MIN_HISTORY_POINTS", 90),
			Seed:             int64(p.int("FORECAST_SEED", 42)),
			RidgeLambda:      p.float("FORECAST_RIDGE_LAMBDA", 1.0),
			MaxScopes:        p.int("FORECAST_MAX_SCOPES", 1000),
			MaxForecastDays:  p.int("FORECAST_MAX_DAYS", 365),
		},
		Pricing: PricingConfig{
			MinContributionMargin: p.float("PRICING_MIN_CONTRIBUTION_MARGIN", 0),
			DefaultDays:           p.int("PRICING_DEFAULT_DAYS", 30),
			MaxDays:               p.int("PRICING_MAX_DAYS", 365),
			Concurrency:           p.int("PRICING_CONCURRENCY", 4),
			Currency:              strings.ToUpper(getEnv("PRICING_CURRENCY", "USD")),
		},
	}
	cfg.Redis.Enabled = cfg.Redis.RedisHost != ""

	if p.err != nil {
		return nil, p.err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.Password == "" {
		return errors.New("missing database password")
	}

	switch c.Forecast.HistoryMode {
	case "auto", "synthetic", "ingested":
	default:
		return fmt.Errorf("invalid FORECAST_HISTORY_MODE %q", c.Forecast.HistoryMode)
	}

	if c.Forecast.HistoryDays <= 0 || c.Forecast.MinHistoryPoints <= 0 || c.Forecast.MaxScopes <= 0 {
		return errors.New("forecast history days, min history points and max scopes must be positive")
	}
	if c.Forecast.RidgeLambda <= 0 {
		return errors.New("FORECAST_RIDGE_LAMBDA must be positive")
	}

	if c.Pricing.MinContributionMargin < 0 {
		return errors.New("PRICING_MIN_CONTRIBUTION_MARGIN must not be negative")
	}
	if c.Pricing.DefaultDays <= 0 || c.Pricing.DefaultDays > c.Pricing.MaxDays {
		return errors.New("PRICING_DEFAULT_DAYS must be within [1, PRICING_MAX_DAYS]")
	}
	if c.Pricing.Concurrency <= 0 {
		return errors.New("PRICING_CONCURRENCY must be positive")
	}
	if len(c.Pricing.Currency) != 3 {
		return fmt.Errorf("invalid PRICING_CURRENCY %q", c.Pricing.Currency)
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

// parser keeps the first conversion error so Load can report it once.
type parser struct {
	err error
}

func (p *parser) int(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw)
		return def
	}
	return v
}

func (p *parser) float(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, raw)
		return def
	}
	return v
}

func (p *parser) bool(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw)
		return def
	}
	return v
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, raw)
		return def
	}
	return v
}

func (p *parser) fail(key, raw string) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s %q", key, raw)
	}
}
