package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/threerealms/mapserver/internal/model"
)

// GetTerritory returns the cached territory, or nil on miss.
func (c *Cache) GetTerritory(ctx context.Context, territoryID string) (*model.Territory, error) {
	raw, err := c.rdb.Get(ctx, keyTerritory+territoryID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		slog.Warn("cache get territory failed", "territoryId", territoryID, "error", err)
		return nil, nil
	}
	var t model.Territory
	if err := json.Unmarshal(raw, &t); err != nil {
		slog.Warn("cache territory decode failed", "territoryId", territoryID, "error", err)
		return nil, nil
	}
	return &t, nil
}

// PutTerritory refreshes the cached copy with the short TTL class.
func (c *Cache) PutTerritory(ctx context.Context, t *model.Territory) {
	raw, err := json.Marshal(t)
	if err != nil {
		slog.Warn("cache territory encode failed", "territoryId", t.TerritoryID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, keyTerritory+t.TerritoryID, raw, ttlTerritory).Err(); err != nil {
		slog.Warn("cache territory write failed", "territoryId", t.TerritoryID, "error", err)
	}
}

// InvalidateTerritory drops the cached copy, forcing the next read to
// reload from persistence.
func (c *Cache) InvalidateTerritory(ctx context.Context, territoryID string) {
	if err := c.rdb.Del(ctx, keyTerritory+territoryID).Err(); err != nil {
		slog.Warn("cache territory invalidate failed", "territoryId", territoryID, "error", err)
	}
}

// GetSuperboss returns the cached superboss, or nil on miss.
func (c *Cache) GetSuperboss(ctx context.Context, bossID string) (*model.Superboss, error) {
	raw, err := c.rdb.Get(ctx, keySuperboss+bossID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		slog.Warn("cache get superboss failed", "bossId", bossID, "error", err)
		return nil, nil
	}
	var b model.Superboss
	if err := json.Unmarshal(raw, &b); err != nil {
		slog.Warn("cache superboss decode failed", "bossId", bossID, "error", err)
		return nil, nil
	}
	return &b, nil
}

// PutSuperboss refreshes the cached copy with the short TTL class.
func (c *Cache) PutSuperboss(ctx context.Context, b *model.Superboss) {
	raw, err := json.Marshal(b)
	if err != nil {
		slog.Warn("cache superboss encode failed", "bossId", b.BossID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, keySuperboss+b.BossID, raw, ttlSuperboss).Err(); err != nil {
		slog.Warn("cache superboss write failed", "bossId", b.BossID, "error", err)
	}
}
