package cache

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// GetGMStatus returns whether a user is cached as a GM, and whether the
// cache had an entry at all.
func (c *Cache) GetGMStatus(ctx context.Context, userID string) (isGM bool, found bool) {
	v, err := c.rdb.Get(ctx, keyGMStatus+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, false
	}
	if err != nil {
		slog.Warn("cache get GM status failed", "userId", userID, "error", err)
		return false, false
	}
	return v == "1", true
}

// PutGMStatus caches a user's GM flag with the long TTL class.
func (c *Cache) PutGMStatus(ctx context.Context, userID string, isGM bool) {
	v := "0"
	if isGM {
		v = "1"
	}
	if err := c.rdb.Set(ctx, keyGMStatus+userID, v, ttlGMStatus).Err(); err != nil {
		slog.Warn("cache GM status write failed", "userId", userID, "error", err)
	}
}
