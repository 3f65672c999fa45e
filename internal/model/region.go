package model

import "github.com/threerealms/mapserver/internal/geo"

// EditorKind distinguishes the four GM-editable dataset types, per
// spec.md's "Editor (region/path/wall/water)" command group.
type EditorKind int

const (
	EditorKindRegion EditorKind = iota
	EditorKindPath
	EditorKindWall
	EditorKindWater
)

// RealmRegion restricts a polygon area to one realm; players of any other
// realm are treated as impassable inside it.
type RealmRegion struct {
	RegionID string
	Realm    Realm
	Area     geo.Polygon
}

// EditorPath is a named, GM-authored waypoint list (patrol routes, event
// paths) distinct from the server-computed pathfinding result.
type EditorPath struct {
	PathID string
	Name   string
	Points []Waypoint
}
