// Package cache provides the Redis-backed trend cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/mood"
)

// RedisTrendCache implements mood.TrendCache. Keys carry the owner's write
// revision, so entries never need explicit invalidation. The TTL bounds how
// long a trailing window may go unslid, so a cache without a positive TTL
// stores nothing.
type RedisTrendCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTrendCache wraps an existing client.
func NewRedisTrendCache(client *redis.Client, ttl time.Duration) *RedisTrendCache {
	return &RedisTrendCache{client: client, ttl: ttl}
}

// NewClient creates a Redis client from a redis:// URL.
func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

func (c *RedisTrendCache) Get(ctx context.Context, key string) (*mood.Trends, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			metrics.RecordTrendCache("error")
			slog.Warn("trend cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var t mood.Trends
	if err := json.Unmarshal(raw, &t); err != nil {
		metrics.RecordTrendCache("error")
		slog.Warn("trend cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return &t, true
}

// Enabled reports whether Set stores anything.
func (c *RedisTrendCache) Enabled() bool {
	return c.ttl > 0
}

func (c *RedisTrendCache) Set(ctx context.Context, key string, t *mood.Trends) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(t)
	if err != nil {
		slog.Warn("trend cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		metrics.RecordTrendCache("error")
		slog.Warn("trend cache write failed", "key", key, "error", err)
	}
}

// Ping reports whether Redis is reachable.
func (c *RedisTrendCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
