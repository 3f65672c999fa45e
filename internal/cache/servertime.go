package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/threerealms/mapserver/internal/model"
)

// GetServerTime returns the cached in-game clock, or nil on miss.
func (c *Cache) GetServerTime(ctx context.Context) (*model.ServerTime, error) {
	raw, err := c.rdb.Get(ctx, keyServerTime).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		slog.Warn("cache get server time failed", "error", err)
		return nil, nil
	}
	var st model.ServerTime
	if err := json.Unmarshal(raw, &st); err != nil {
		slog.Warn("cache server time decode failed", "error", err)
		return nil, nil
	}
	return &st, nil
}

// PutServerTime refreshes the cached clock with the short TTL class.
func (c *Cache) PutServerTime(ctx context.Context, st *model.ServerTime) {
	raw, err := json.Marshal(st)
	if err != nil {
		slog.Warn("cache server time encode failed", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, keyServerTime, raw, ttlServerTime).Err(); err != nil {
		slog.Warn("cache server time write failed", "error", err)
	}
}
