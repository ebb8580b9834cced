package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const heatmapCacheKey = "tnbynight:heatmap"

// RedisCache holds the composed heatmap payload for a short TTL so repeated
// map loads do not recompute the aggregation. A nil *RedisCache is valid and
// disables caching entirely.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis at addr. An empty addr disables caching.
func NewRedisCache(addr string, ttlSec int) *RedisCache {
	if addr == "" {
		return nil
	}
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    time.Duration(ttlSec) * time.Second,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// GetHeatmap returns the cached payload, or ok=false on miss or any Redis
// error — the caller recomputes either way.
func (c *RedisCache) GetHeatmap(ctx context.Context) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, heatmapCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// SetHeatmap stores the payload with the configured TTL. Failures are
// ignored; the cache is best-effort.
func (c *RedisCache) SetHeatmap(ctx context.Context, payload []byte) {
	if c == nil {
		return
	}
	c.client.Set(ctx, heatmapCacheKey, payload, c.ttl)
}

// InvalidateHeatmap drops the cached payload after the sink changes data.
func (c *RedisCache) InvalidateHeatmap(ctx context.Context) {
	if c == nil {
		return
	}
	c.client.Del(ctx, heatmapCacheKey)
}
