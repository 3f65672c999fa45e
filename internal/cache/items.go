package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/threerealms/mapserver/internal/model"
)

// PreloadItems populates both the by-id and by-templateKey indexes. Called
// once at startup; entries never expire — item templates only change via
// a redeploy.
func (c *Cache) PreloadItems(ctx context.Context, items []*model.Item) error {
	pipe := c.rdb.Pipeline()
	for _, it := range items {
		raw, err := json.Marshal(it)
		if err != nil {
			return err
		}
		pipe.Set(ctx, keyItemByID+it.ItemID, raw, 0)
		pipe.Set(ctx, keyItemByTemplate+it.TemplateKey, raw, 0)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// GetItemByTemplate returns the cached item for a template key, or nil if
// absent or on a Redis failure. It does not consult persistence on a miss:
// the by-template index holds only what PreloadItems and PutItem wrote.
func (c *Cache) GetItemByTemplate(ctx context.Context, templateKey string) (*model.Item, error) {
	return c.getItem(ctx, keyItemByTemplate+templateKey)
}

// GetItemByID returns the cached item for an item ID, or nil if absent.
func (c *Cache) GetItemByID(ctx context.Context, itemID string) (*model.Item, error) {
	return c.getItem(ctx, keyItemByID+itemID)
}

func (c *Cache) getItem(ctx context.Context, key string) (*model.Item, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		slog.Warn("cache get item failed", "key", key, "error", err)
		return nil, nil
	}
	var it model.Item
	if err := json.Unmarshal(raw, &it); err != nil {
		slog.Warn("cache item decode failed", "key", key, "error", err)
		return nil, nil
	}
	return &it, nil
}

// PutItem back-fills both indexes for an item loaded from persistence on
// a cache miss.
func (c *Cache) PutItem(ctx context.Context, it *model.Item) {
	raw, err := json.Marshal(it)
	if err != nil {
		slog.Warn("cache item encode failed", "itemId", it.ItemID, "error", err)
		return
	}
	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, keyItemByID+it.ItemID, raw, 0)
	pipe.Set(ctx, keyItemByTemplate+it.TemplateKey, raw, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("cache item backfill failed", "itemId", it.ItemID, "error", err)
	}
}
