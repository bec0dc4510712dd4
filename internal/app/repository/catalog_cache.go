package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alienstore/storefront-gateway/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// CatalogCache is a read-through JSON cache for upstream catalog responses.
type CatalogCache interface {
	// Get unmarshals the cached value into dest and reports a hit.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type catalogCache struct {
	client *redis.Client
}

func NewCatalogCache(client *redis.Client) CatalogCache {
	return &catalogCache{client: client}
}

func (c *catalogCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to read catalog cache", err, map[string]interface{}{
			"key": key,
		})
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// A corrupt entry behaves like a miss.
		logger.Warn("Discarding unreadable catalog cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false, nil
	}
	return true, nil
}

func (c *catalogCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}
