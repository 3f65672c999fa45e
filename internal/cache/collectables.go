package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/threerealms/mapserver/internal/model"
)

const keyCollectable = "collectable:"

// collectAvailableScript performs the available -> collecting(userId, now)
// transition atomically: only one of two racing callers observes success,
// per spec.md S5.
var collectAvailableScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
	return ""
end
local spawn = cjson.decode(raw)
if spawn.State ~= "available" then
	return ""
end
spawn.State = "collecting"
spawn.CollectingBy = ARGV[1]
spawn.CollectingSince = ARGV[2]
local encoded = cjson.encode(spawn)
-- CollectingSince travels as an RFC3339 string so Go's encoding/json can
-- decode it straight back into a time.Time.
redis.call('SET', KEYS[1], encoded)
return encoded
`)

// SeedCollectable registers a spawn in its available state. Called at
// startup from static spawn configuration; spawns have no relational
// table of their own, matching spec.md's Non-goal on content-authoring
// persistence.
func (c *Cache) SeedCollectable(ctx context.Context, spawn *model.SpawnedCollectable) {
	spawn.State = model.CollectableAvailable
	spawn.CollectingBy = ""
	raw, err := json.Marshal(spawn)
	if err != nil {
		slog.Warn("cache collectable encode failed", "spawnId", spawn.SpawnID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, keyCollectable+spawn.SpawnID, raw, 0).Err(); err != nil {
		slog.Warn("cache collectable seed failed", "spawnId", spawn.SpawnID, "error", err)
	}
}

// GetCollectable returns the current state of a spawn, or nil if unknown.
func (c *Cache) GetCollectable(ctx context.Context, spawnID string) (*model.SpawnedCollectable, error) {
	raw, err := c.rdb.Get(ctx, keyCollectable+spawnID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		slog.Warn("cache get collectable failed", "spawnId", spawnID, "error", err)
		return nil, err
	}
	var s model.SpawnedCollectable
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// TryCollect attempts the available -> collecting CAS for a spawn.
// Returns (state, true) on success, (nil, false) if another collector won
// the race or the spawn does not exist.
func (c *Cache) TryCollect(ctx context.Context, spawnID, userID string, since time.Time) (*model.SpawnedCollectable, bool) {
	result, err := collectAvailableScript.Run(ctx, c.rdb, []string{keyCollectable + spawnID}, userID, since.Format(time.RFC3339Nano)).Text()
	if err != nil && err != redis.Nil {
		slog.Warn("cache collect CAS failed", "spawnId", spawnID, "error", err)
		return nil, false
	}
	if result == "" {
		return nil, false
	}
	var s model.SpawnedCollectable
	if err := json.Unmarshal([]byte(result), &s); err != nil {
		slog.Warn("cache collect decode failed", "spawnId", spawnID, "error", err)
		return nil, false
	}
	return &s, true
}

// SetCollectableState unconditionally writes a spawn's state, used for
// collecting -> collected and collecting/timeout -> available transitions
// which are driven by a single owner (the walker tick or the collecting
// player themselves) and need no CAS.
func (c *Cache) SetCollectableState(ctx context.Context, s *model.SpawnedCollectable) {
	raw, err := json.Marshal(s)
	if err != nil {
		slog.Warn("cache collectable encode failed", "spawnId", s.SpawnID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, keyCollectable+s.SpawnID, raw, 0).Err(); err != nil {
		slog.Warn("cache collectable write failed", "spawnId", s.SpawnID, "error", err)
	}
}

// AllCollectables returns every known spawn, for the walker tick's
// arrival check.
func (c *Cache) AllCollectables(ctx context.Context) ([]*model.SpawnedCollectable, error) {
	keys, err := c.rdb.Keys(ctx, keyCollectable+"*").Result()
	if err != nil {
		return nil, err
	}
	out := make([]*model.SpawnedCollectable, 0, len(keys))
	for _, k := range keys {
		raw, err := c.rdb.Get(ctx, k).Bytes()
		if err != nil {
			continue
		}
		var s model.SpawnedCollectable
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		out = append(out, &s)
	}
	return out, nil
}
