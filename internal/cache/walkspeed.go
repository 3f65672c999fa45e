package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// GetWalkSpeed returns the cached per-user walk-speed aggregate, and
// whether it was present.
func (c *Cache) GetWalkSpeed(ctx context.Context, userID string) (float64, bool) {
	raw, err := c.rdb.Get(ctx, keyWalkSpeed+userID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false
	}
	if err != nil {
		slog.Warn("cache get walk speed failed", "userId", userID, "error", err)
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		slog.Warn("cache walk speed decode failed", "userId", userID, "error", err)
		return 0, false
	}
	return v, true
}

// PutWalkSpeed caches a freshly computed walk-speed aggregate.
func (c *Cache) PutWalkSpeed(ctx context.Context, userID string, speed float64) {
	if err := c.rdb.Set(ctx, keyWalkSpeed+userID, strconv.FormatFloat(speed, 'f', -1, 64), ttlWalkSpeed).Err(); err != nil {
		slog.Warn("cache walk speed write failed", "userId", userID, "error", err)
	}
}

// InvalidateWalkSpeed drops the cached aggregate, forcing recomputation
// on next read. Called on equip/unequip and on spell start/expire.
func (c *Cache) InvalidateWalkSpeed(ctx context.Context, userID string) {
	if err := c.rdb.Del(ctx, keyWalkSpeed+userID).Err(); err != nil {
		slog.Warn("cache walk speed invalidate failed", "userId", userID, "error", err)
	}
}
