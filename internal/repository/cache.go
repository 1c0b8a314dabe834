package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache is a shared key-value store with TTL expiry. Backing-store failures
// never surface to callers: a failed Get is a miss and a failed Set is
// dropped, so cache availability cannot block the upload path.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type redisCache struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewRedisCache(addr, password string, db int, logger zerolog.Logger) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logger.Info().Str("addr", addr).Msg("Connected to Redis")

	return &redisCache{
		client: client,
		logger: logger,
	}, nil
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache get failed, treating as miss")
		return nil, false
	}

	return value, true
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache set failed, entry dropped")
	}
}

// NewNoopCache returns a cache that never hits. Used when Redis is not
// reachable at startup.
func NewNoopCache() Cache {
	return noopCache{}
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }

func (noopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {}
