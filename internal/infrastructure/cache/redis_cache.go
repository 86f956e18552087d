package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/port"
)

// envelope wraps a cached value with the fingerprint it was computed under.
type envelope struct {
	Fingerprint string          `json:"fingerprint"`
	Value       json.RawMessage `json:"value"`
}

// RedisCache implements port.Cache on Redis. Every key for a loan shares the
// calc:loan:<id>: prefix so invalidation is a single SCAN+DEL sweep.
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisCache creates a Redis-backed calculation cache.
func NewRedisCache(client *redis.Client, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, logger: logger}
}

func cacheKey(key port.CacheKey) string {
	return fmt.Sprintf("calc:loan:%s:%s:%s", key.LoanID, key.Kind, key.AsOf.UTC().Format("2006-01-02"))
}

// Get returns the cached value when present and its fingerprint matches.
func (c *RedisCache) Get(ctx context.Context, key port.CacheKey, fingerprint string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// A corrupt entry behaves like a miss.
		return nil, false, nil
	}
	if env.Fingerprint != fingerprint {
		return nil, false, nil
	}
	return env.Value, true, nil
}

// Put stores the value under the key with its fingerprint and TTL.
func (c *RedisCache) Put(ctx context.Context, key port.CacheKey, fingerprint string, value []byte, ttl time.Duration) error {
	raw, err := json.Marshal(envelope{Fingerprint: fingerprint, Value: value})
	if err != nil {
		return fmt.Errorf("cache put marshal: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Invalidate drops every cached result for a loan.
func (c *RedisCache) Invalidate(ctx context.Context, loanID string) error {
	pattern := fmt.Sprintf("calc:loan:%s:*", loanID)

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache invalidate scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	c.logger.Debug("cache invalidated", "loan_id", loanID, "keys", len(keys))
	return nil
}
