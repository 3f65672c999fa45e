// Package cache is the Redis-backed hot-path layer: preloaded catalogs,
// short-TTL mirrors of relational rows, sorted-set presence accounting,
// and write-buffered hot fields. Most accessors log a Redis failure and
// report a miss (nil or zero value) instead of returning it; the bulk and
// scripted operations (for example AllWalkers, AllCollectables,
// OnlineUserIDs, DrainLastActive and SetLastShoutboxId) return the Redis
// error to the caller. No accessor reads from internal/db itself.
package cache

import (
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ttlTerritory   = 30 * time.Second
	ttlSuperboss   = 10 * time.Second
	ttlServerTime  = 15 * time.Second
	ttlSettings    = 300 * time.Second
	ttlGMStatus    = 600 * time.Second
	ttlWalkSpeed   = 60 * time.Second
	presenceWindow = 5 * time.Second // heartbeat period; staleness threshold is a multiple of this
)

// Cache wraps a Redis client shared by every typed accessor in this
// package, the same shape as the persistence gateway's pooled handle.
type Cache struct {
	rdb *redis.Client
}

// New constructs a Cache from a configured Redis client.
func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// Client exposes the underlying client for components that need direct
// access (e.g. scripts not yet wrapped here).
func (c *Cache) Client() *redis.Client {
	return c.rdb
}

const (
	keyItemByID       = "item:id:"
	keyItemByTemplate = "item:tpl:"
	keyLevelXP        = "levelxp"
	keyTerritory      = "territory:"
	keySuperboss      = "superboss:"
	keyServerTime     = "servertime"
	keySettings       = "settings:"
	keyGMStatus       = "gm:status:"
	keyWalkSpeed      = "walkspeed:"
	keyOnlineSet      = "presence:online"
	keyLastActiveSet  = "presence:lastactive"
	keyWalkerHash     = "walker:state"
	keyWalkerByUser   = "walker:byuser"
	keyShoutboxList   = "shoutbox:recent"
	keyShoutboxLastID = "shoutbox:lastid"
)
