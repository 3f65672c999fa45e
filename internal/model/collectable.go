package model

import "time"

// CollectableState is the spawn's position in its state machine:
//
//	available -> collecting(by, since) -> collected
//	          \                        <- (timeout/leave) -
type CollectableState string

const (
	CollectableAvailable CollectableState = "available"
	CollectableCollecting CollectableState = "collecting"
	CollectableCollected  CollectableState = "collected"
)

// SpawnedCollectable is a world item pickup point.
type SpawnedCollectable struct {
	SpawnID string
	ItemID  string
	X, Y    int32

	State          CollectableState
	CollectingBy   string // userId, set only while State == collecting
	CollectingSince time.Time
}

// CollectThreshold is the maximum distance (world units) the collecting
// player may move away before the lock reverts to available.
const CollectThreshold int32 = 64

// CollectTimeout is how long a collecting lock may be held before it
// reverts to available even if the player never moved.
const CollectTimeout = 30 * time.Second
