package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// GetSettings returns the cached raw settings JSON for a user, or nil on
// miss.
func (c *Cache) GetSettings(ctx context.Context, userID string) (json.RawMessage, error) {
	raw, err := c.rdb.Get(ctx, keySettings+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		slog.Warn("cache get settings failed", "userId", userID, "error", err)
		return nil, nil
	}
	return raw, nil
}

// PutSettings refreshes the cached settings with the short TTL class.
func (c *Cache) PutSettings(ctx context.Context, userID string, settings json.RawMessage) {
	if err := c.rdb.Set(ctx, keySettings+userID, []byte(settings), ttlSettings).Err(); err != nil {
		slog.Warn("cache settings write failed", "userId", userID, "error", err)
	}
}
