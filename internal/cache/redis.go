// Package cache stores /info lookups in Redis so repeated lookups of the same
// URL skip the extraction engine.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"downloaderapi/internal/extractor"
	"downloaderapi/internal/model"

	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "info:"

// NewRedisClient constructs a go-redis client from config. It returns nil
// when no address is configured.
func NewRedisClient(cfg *model.CacheConfig) *redis.Client {
	if cfg == nil || cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// Ping validates the connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err()
}

// RedisCache keeps engine metadata keyed by URL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps client. A non-positive ttl stores entries without expiry.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Key returns the Redis key for url.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached record for url. A miss is (nil, false, nil).
func (c *RedisCache) Get(ctx context.Context, url string) (*extractor.Info, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	val, err := c.client.Get(ctx, Key(url)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var info extractor.Info
	if err := json.Unmarshal(val, &info); err != nil {
		return nil, false, err
	}
	return &info, true, nil
}

// Set stores info for url.
func (c *RedisCache) Set(ctx context.Context, url string, info *extractor.Info) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	b, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(url), b, c.ttl).Err()
}
