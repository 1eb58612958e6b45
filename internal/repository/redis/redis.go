package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hotelPricing/domain"

	"github.com/redis/go-redis/v9"
)

const forecastKeyPrefix = "pricing:"

// ForecastCache stores computed forecast series. Keys carry the model version,
// so entries of a retrained model are never read and simply expire.
type ForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewForecastCache(client *redis.Client, ttl time.Duration) *ForecastCache {
	return &ForecastCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *ForecastCache) GetForecast(ctx context.Context, key string) ([]domain.DemandForecastPoint, bool, error) {
	val, err := c.client.Get(ctx, forecastKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get forecast from Redis: %w", err)
	}

	var points []domain.DemandForecastPoint
	if err := json.Unmarshal(val, &points); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal forecast: %w", err)
	}

	return points, true, nil
}

func (c *ForecastCache) SetForecast(ctx context.Context, key string, points []domain.DemandForecastPoint) error {
	raw, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("failed to marshal forecast: %w", err)
	}

	if err := c.client.Set(ctx, forecastKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store forecast in Redis: %w", err)
	}

	return nil
}
