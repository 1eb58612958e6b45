package forecast

import (
	"fmt"
	"strings"
)

// HistoryMode selects where training history comes from.
type HistoryMode string

const (
	HistoryAuto      HistoryMode = "auto"
	HistorySynthetic HistoryMode = "synthetic"
	HistoryIngested  HistoryMode = "ingested"
)

func ParseHistoryMode(s string) (HistoryMode, error) {
	switch m := HistoryMode(strings.ToLower(strings.TrimSpace(s))); m {
	case HistoryAuto, HistorySynthetic, HistoryIngested:
		return m, nil
	case "":
		return HistoryAuto, nil
	default:
		return "", fmt.Errorf("unknown forecast history mode %q", s)
	}
}

type Config struct {
	HistoryMode HistoryMode

	// length of the training window ending at the reference date
	HistoryDays int

	// ingested rows needed before real history is used
	MinHistoryPoints int

	// base seed for synthetic history, mixed with the scope
	Seed int64

	RidgeLambda float64

	// registry cap; least recently trained scopes are evicted first
	MaxScopes int

	MaxForecastDays int
}

const (
	defaultHistoryDays      = 730
	defaultMinHistoryPoints = 90
	defaultSeed             = 42
	defaultRidgeLambda      = 1.0
	defaultMaxScopes        = 1000
	defaultMaxForecastDays  = 365
)

func DefaultConfig() Config {
	return Config{
		HistoryMode:      HistoryAuto,
		HistoryDays:      defaultHistoryDays,
		MinHistoryPoints: defaultMinHistoryPoints,
		Seed:             defaultSeed,
		RidgeLambda:      defaultRidgeLambda,
		MaxScopes:        defaultMaxScopes,
		MaxForecastDays:  defaultMaxForecastDays,
	}
}

// withDefaults fills zero values so a partially populated Config still works.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.HistoryMode == "" {
		c.HistoryMode = d.HistoryMode
	}
	if c.HistoryDays <= 0 {
		c.HistoryDays = d.HistoryDays
	}
	if c.MinHistoryPoints <= 0 {
		c.MinHistoryPoints = d.MinHistoryPoints
	}
	if c.RidgeLambda <= 0 {
		c.RidgeLambda = d.RidgeLambda
	}
	if c.MaxScopes <= 0 {
		c.MaxScopes = d.MaxScopes
	}
	if c.MaxForecastDays <= 0 {
		c.MaxForecastDays = d.MaxForecastDays
	}
	return c
}
