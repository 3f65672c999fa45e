package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/threerealms/mapserver/internal/model"
)

// PutWalker writes through the active walker hash and the per-user
// secondary index, enabling O(1) lookup of "does this user have a walker"
// for interruption.
func (c *Cache) PutWalker(ctx context.Context, w *model.ActiveWalker) {
	raw, err := json.Marshal(w)
	if err != nil {
		slog.Warn("cache walker encode failed", "walkerId", w.WalkerID, "error", err)
		return
	}
	pipe := c.rdb.Pipeline()
	pipe.HSet(ctx, keyWalkerHash, w.WalkerID, raw)
	pipe.HSet(ctx, keyWalkerByUser, w.UserID, w.WalkerID)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("cache walker write failed", "walkerId", w.WalkerID, "error", err)
	}
}

// GetWalkerByUser resolves a user's single active walker, if any.
func (c *Cache) GetWalkerByUser(ctx context.Context, userID string) (*model.ActiveWalker, error) {
	walkerID, err := c.rdb.HGet(ctx, keyWalkerByUser, userID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		slog.Warn("cache walker-by-user lookup failed", "userId", userID, "error", err)
		return nil, nil
	}
	return c.getWalker(ctx, walkerID)
}

func (c *Cache) getWalker(ctx context.Context, walkerID string) (*model.ActiveWalker, error) {
	raw, err := c.rdb.HGet(ctx, keyWalkerHash, walkerID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		slog.Warn("cache walker lookup failed", "walkerId", walkerID, "error", err)
		return nil, nil
	}
	var w model.ActiveWalker
	if err := json.Unmarshal(raw, &w); err != nil {
		slog.Warn("cache walker decode failed", "walkerId", walkerID, "error", err)
		return nil, nil
	}
	return &w, nil
}

// AllWalkers loads every active walker, for the tick worker's sweep.
func (c *Cache) AllWalkers(ctx context.Context) ([]*model.ActiveWalker, error) {
	raws, err := c.rdb.HGetAll(ctx, keyWalkerHash).Result()
	if err != nil {
		slog.Warn("cache all-walkers read failed", "error", err)
		return nil, err
	}
	out := make([]*model.ActiveWalker, 0, len(raws))
	for id, raw := range raws {
		var w model.ActiveWalker
		if err := json.Unmarshal([]byte(raw), &w); err != nil {
			slog.Warn("cache walker decode failed", "walkerId", id, "error", err)
			continue
		}
		out = append(out, &w)
	}
	return out, nil
}

// DeleteWalker removes a walker from both the hash and the per-user
// index, e.g. on completion or interruption.
func (c *Cache) DeleteWalker(ctx context.Context, w *model.ActiveWalker) {
	pipe := c.rdb.Pipeline()
	pipe.HDel(ctx, keyWalkerHash, w.WalkerID)
	pipe.HDel(ctx, keyWalkerByUser, w.UserID)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("cache walker delete failed", "walkerId", w.WalkerID, "error", err)
	}
}
