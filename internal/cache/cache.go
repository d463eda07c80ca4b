package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nekogravitycat/shareit-backend/internal/config"
	"github.com/nekogravitycat/shareit-backend/internal/metrics"
)

// Cache is a JSON value cache used for read-through lookups.
type Cache interface {
	// Get decodes the cached value for key into dest. It reports false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

// NewRedisClient creates a Redis client from the cache config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps a Redis client. Values expire after ttl.
func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.IncCacheLookup(prefixOf(key), false)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	metrics.IncCacheLookup(prefixOf(key), true)
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

type noopCache struct{}

// NewNoop returns a Cache that never stores anything.
func NewNoop() Cache {
	return noopCache{}
}

func (noopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noopCache) Set(context.Context, string, any) error         { return nil }
func (noopCache) Delete(context.Context, ...string) error        { return nil }

// Key joins a prefix and an id, e.g. Key("item", id) -> "shareit:item:<id>".
func Key(prefix, id string) string {
	return "shareit:" + prefix + ":" + id
}

func prefixOf(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 2 {
		return key
	}
	return parts[1]
}
