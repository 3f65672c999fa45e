package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// MarkOnline records a heartbeat for a user in the presence sorted set.
// Presence is cache-only: it is never flushed to the relational store,
// unlike lastActive, which has its own write buffer (see lastactive.go).
func (c *Cache) MarkOnline(ctx context.Context, userID string, at time.Time) {
	z := redis.Z{Score: float64(at.Unix()), Member: userID}
	if err := c.rdb.ZAdd(ctx, keyOnlineSet, z).Err(); err != nil {
		slog.Warn("cache mark online failed", "userId", userID, "error", err)
	}
}

// MarkOffline removes a user from the presence set immediately. bus.Hub
// keeps its own connection-based presence and does not call it.
func (c *Cache) MarkOffline(ctx context.Context, userID string) {
	if err := c.rdb.ZRem(ctx, keyOnlineSet, userID).Err(); err != nil {
		slog.Warn("cache mark offline failed", "userId", userID, "error", err)
	}
}

// OnlineUserIDs returns exactly the userIds whose last heartbeat falls
// within threshold of now, subject to prior cleanup evictions.
func (c *Cache) OnlineUserIDs(ctx context.Context, now time.Time, threshold time.Duration) ([]string, error) {
	min := fmt.Sprintf("%d", now.Add(-threshold).Unix())
	ids, err := c.rdb.ZRangeByScore(ctx, keyOnlineSet, &redis.ZRangeBy{
		Min: min,
		Max: "+inf",
	}).Result()
	if err != nil {
		slog.Warn("cache online lookup failed", "error", err)
		return nil, err
	}
	return ids, nil
}

// CleanupOnlinePlayers evicts presence entries older than threshold,
// bounding the set's growth.
func (c *Cache) CleanupOnlinePlayers(ctx context.Context, now time.Time, threshold time.Duration) {
	max := fmt.Sprintf("%d", now.Add(-threshold).Unix())
	if err := c.rdb.ZRemRangeByScore(ctx, keyOnlineSet, "-inf", "("+max).Err(); err != nil {
		slog.Warn("cache online cleanup failed", "error", err)
	}
}
