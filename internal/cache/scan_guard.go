package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// ScanGuard is the Redis-backed duplicate-scan guard. Each accepted barcode
// claims a short-lived key scoped to its kiosk session; while the key lives,
// the same literal code is not accepted again. Because the keys are in Redis,
// the window also holds when a kiosk reconnects and gets a fresh in-process
// session for the same terminal ID.
type ScanGuard struct {
	redis *RedisClient
}

// NewScanGuard creates a ScanGuard.
func NewScanGuard(redis *RedisClient) *ScanGuard {
	return &ScanGuard{redis: redis}
}

func (g *ScanGuard) key(sessionID, code string) string {
	return fmt.Sprintf("scan:guard:%s:%s", sessionID, code)
}

// Seen reports whether code was accepted within the cool-down window for the
// session. A Redis failure is treated as "not seen": a rare double count is
// preferable to refusing every deposit while the cache is down.
func (g *ScanGuard) Seen(ctx context.Context, sessionID, code string) bool {
	exists, err := g.redis.Exists(ctx, g.key(sessionID, code))
	if err != nil {
		log.Warn().Err(err).Msg("scan guard lookup failed")
		return false
	}
	return exists
}

// Remember records an accepted code for the duration of the cool-down window.
func (g *ScanGuard) Remember(ctx context.Context, sessionID, code string, window time.Duration) {
	if err := g.redis.Set(ctx, g.key(sessionID, code), "1", window); err != nil {
		log.Warn().Err(err).Msg("scan guard store failed")
	}
}
