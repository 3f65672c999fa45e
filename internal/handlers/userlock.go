package handlers

import (
	"hash/fnv"
	"sync"
)

const userLockShards = 256

// UserLocks is a sharded mutex table keyed by userId — a connection-pool
// shard table shape, sized to bound contention without a map-of-mutexes
// that would need its own cleanup. Per-user state transitions (move,
// equip, inventory changes) serialize through one shard; other users
// proceed through other shards in parallel.
type UserLocks struct {
	shards [userLockShards]sync.Mutex
}

// NewUserLocks constructs an empty UserLocks table.
func NewUserLocks() *UserLocks {
	return &UserLocks{}
}

// Lock acquires the shard for userID.
func (l *UserLocks) Lock(userID string) {
	l.shards[shardFor(userID)].Lock()
}

// Unlock releases the shard for userID.
func (l *UserLocks) Unlock(userID string) {
	l.shards[shardFor(userID)].Unlock()
}

func shardFor(userID string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return h.Sum32() % userLockShards
}
