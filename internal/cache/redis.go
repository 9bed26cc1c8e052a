// Package cache provides the run result cache used to skip model calls for
// documents that were already extracted.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tradedocs/internal/config"
	"tradedocs/internal/domain"
	"tradedocs/internal/port"
)

const defaultPrefix = "tradedocs:result:"

// RedisResultCache implements port.ResultCache using Redis.
type RedisResultCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisResultCache connects to Redis and verifies the connection.
func NewRedisResultCache(cfg *config.CacheConfig) (*RedisResultCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewRedisResultCacheWithClient(client, cfg.Prefix, cfg.TTL()), nil
}

// NewRedisResultCacheWithClient wraps an existing client. A zero ttl keeps entries forever.
func NewRedisResultCacheWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisResultCache {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisResultCache{client: client, prefix: prefix, ttl: ttl}
}

// Key returns the Redis key for a file hash and document type.
func (c *RedisResultCache) Key(fileHash string, docType domain.DocumentType) string {
	return c.prefix + string(docType) + ":" + fileHash
}

// Get returns the cached result or port.ErrCacheMiss.
func (c *RedisResultCache) Get(ctx context.Context, fileHash string, docType domain.DocumentType) (*domain.MultiPromptResult, error) {
	val, err := c.client.Get(ctx, c.Key(fileHash, docType)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, port.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var result domain.MultiPromptResult
	if err := json.Unmarshal(val, &result); err != nil {
		return nil, fmt.Errorf("decoding cached result: %w", err)
	}
	return &result, nil
}

// Set stores result under the file hash and document type.
func (c *RedisResultCache) Set(ctx context.Context, fileHash string, docType domain.DocumentType, result *domain.MultiPromptResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if err := c.client.Set(ctx, c.Key(fileHash, docType), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *RedisResultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisResultCache) Close() error {
	return c.client.Close()
}
