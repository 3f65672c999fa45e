package model

import "time"

// TerritoryType is the structural class of a capturable territory.
type TerritoryType string

const (
	TerritoryFort    TerritoryType = "fort"
	TerritoryCastle  TerritoryType = "castle"
	TerritoryWall    TerritoryType = "wall"
)

// RegenRate returns the health regenerated per health tick for t, in
// health points. Forts regenerate fastest, walls slowest.
func (t TerritoryType) RegenRate() int64 {
	switch t {
	case TerritoryFort:
		return 800
	case TerritoryCastle:
		return 500
	case TerritoryWall:
		return 250
	default:
		return 0
	}
}

// Territory is a capturable structure with health and realm ownership.
//
// Invariant: Contested == (Health < MaxHealth). It regenerates only while
// not contested.
type Territory struct {
	TerritoryID    string
	Name           string
	Type           TerritoryType
	OwnerRealm     Realm
	Health         int64
	MaxHealth      int64
	X, Y           int32
	Contested      bool
	ContestedSince time.Time
}

// Superboss is a world-level entity with health only; it regenerates
// while alive and not at full health.
type Superboss struct {
	BossID    string
	Health    int64
	MaxHealth int64
	X, Y      int32
}

// TerritoryCapture is an append-only record of a realm change for a territory.
type TerritoryCapture struct {
	CaptureID   string
	TerritoryID string
	FromRealm   Realm
	ToRealm     Realm
	CapturedAt  time.Time
}
