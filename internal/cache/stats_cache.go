package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// GlobalStats is the public counter snapshot shown on the kiosk start screen.
type GlobalStats struct {
	TotalItems int       `json:"totalItems"`
	CachedAt   time.Time `json:"cachedAt"`
}

// StatsCache caches the global scan counters so every kiosk refresh does not
// hit the scan_logs table.
type StatsCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewStatsCache creates a StatsCache with the given TTL.
func NewStatsCache(redis *RedisClient, ttl time.Duration) *StatsCache {
	return &StatsCache{redis: redis, ttl: ttl}
}

const statsKey = "stats:global"

// Get returns the cached stats, or (nil, nil) on a cache miss.
func (c *StatsCache) Get(ctx context.Context) (*GlobalStats, error) {
	raw, err := c.redis.Get(ctx, statsKey)
	if err != nil {
		if IsMiss(err) {
			return nil, nil
		}
		return nil, err
	}

	var stats GlobalStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal global stats: %w", err)
	}
	return &stats, nil
}

// Set stores the stats snapshot for the configured TTL.
func (c *StatsCache) Set(ctx context.Context, stats *GlobalStats) error {
	stats.CachedAt = time.Now()

	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal global stats: %w", err)
	}
	return c.redis.Set(ctx, statsKey, string(raw), c.ttl)
}
