package cache

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/threerealms/mapserver/internal/model"
)

// setIfGreaterScript implements SET IF NEW > CURRENT as a single atomic
// Redis operation, so concurrent pollers reading the same upstream feed
// can never roll the stored id backward: whichever write loses the race
// observes its own value discarded instead of silently winning.
var setIfGreaterScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]))
local candidate = tonumber(ARGV[1])
if current == nil or candidate > current then
	redis.call('SET', KEYS[1], ARGV[1])
	return candidate
end
return current
`)

// SetLastShoutboxId performs the monotonic compare-and-set: the stored
// value after any sequence of concurrent calls equals the max of every id
// ever passed in.
func (c *Cache) SetLastShoutboxId(ctx context.Context, id int64) (int64, error) {
	result, err := setIfGreaterScript.Run(ctx, c.rdb, []string{keyShoutboxLastID}, id).Int64()
	if err != nil {
		slog.Warn("cache shoutbox CAS failed", "error", err)
		return 0, err
	}
	return result, nil
}

// GetLastShoutboxId returns the current monotonic id, or 0 if unset.
func (c *Cache) GetLastShoutboxId(ctx context.Context) (int64, error) {
	v, err := c.rdb.Get(ctx, keyShoutboxLastID).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		slog.Warn("cache get shoutbox id failed", "error", err)
		return 0, err
	}
	return v, nil
}

// PushShoutboxMessage appends to the capped recent-messages list, trimming
// to ShoutboxMaxCached entries.
func (c *Cache) PushShoutboxMessage(ctx context.Context, m *model.ShoutboxMessage) {
	raw, err := json.Marshal(m)
	if err != nil {
		slog.Warn("cache shoutbox encode failed", "error", err)
		return
	}
	pipe := c.rdb.Pipeline()
	pipe.LPush(ctx, keyShoutboxList, raw)
	pipe.LTrim(ctx, keyShoutboxList, 0, int64(model.ShoutboxMaxCached-1))
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("cache shoutbox push failed", "error", err)
	}
}

// RecentShoutboxMessages returns the capped list, newest first.
func (c *Cache) RecentShoutboxMessages(ctx context.Context) ([]*model.ShoutboxMessage, error) {
	raws, err := c.rdb.LRange(ctx, keyShoutboxList, 0, -1).Result()
	if err != nil {
		slog.Warn("cache shoutbox read failed", "error", err)
		return nil, err
	}
	out := make([]*model.ShoutboxMessage, 0, len(raws))
	for _, raw := range raws {
		var m model.ShoutboxMessage
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			slog.Warn("cache shoutbox decode failed", "error", err)
			continue
		}
		out = append(out, &m)
	}
	return out, nil
}
