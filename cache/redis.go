package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// Prefix namespaces keys so several sites can share one Redis.
	Prefix string `yaml:"prefix"`
}

// Redis is a page cache backed by a shared Redis instance.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: ping redis: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "pressgen:page:"
	}
	return &Redis{client: client, prefix: prefix}, nil
}

// Get retrieves a page. Backend errors degrade to a miss.
func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return value, true
}

// Set stores a page with Redis-side expiry. TTL<=0 means no caching.
func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set: %w", err)
	}
	return nil
}

// Delete removes a page. Idempotent.
func (c *Redis) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("cache: redis delete: %w", err)
	}
	return nil
}

// Health checks connectivity for the status command.
func (c *Redis) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Redis) Close() error {
	return c.client.Close()
}

var _ Cache = (*Redis)(nil)
