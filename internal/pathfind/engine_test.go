package pathfind

import (
	"errors"
	"testing"

	"github.com/threerealms/mapserver/internal/geo"
	"github.com/threerealms/mapserver/internal/model"
)

// openWorld has no impassability at all.
type openWorld struct{}

func (openWorld) Blocked(x, y int32, realm model.Realm) bool { return false }

// wallWorld blocks every cell inside a fixed polygon.
type wallWorld struct {
	wall geo.Polygon
}

func (w wallWorld) Blocked(x, y int32, realm model.Realm) bool {
	return geo.PointInPolygon(geo.Point{X: x, Y: y}, w.wall)
}

func TestFindPath_GoalEqualsStart(t *testing.T) {
	e := New(6144, 6144, 32, openWorld{}, 16)
	path, err := e.FindPath(geo.Point{X: 100, Y: 100}, geo.Point{X: 110, Y: 110}, model.RealmA)
	if err != nil {
		t.Fatalf("FindPath returned error: %v", err)
	}
	if len(path) != 1 {
		t.Fatalf("same-cell path length = %d, want 1", len(path))
	}
}

func TestFindPath_SimpleWalk(t *testing.T) {
	// Mirrors scenario S1: (100,100) -> (200,100), step 32, no obstacles.
	e := New(6144, 6144, 32, openWorld{}, 16)
	path, err := e.FindPath(geo.Point{X: 100, Y: 100}, geo.Point{X: 200, Y: 100}, model.RealmA)
	if err != nil {
		t.Fatalf("FindPath returned error: %v", err)
	}
	if len(path) < 2 {
		t.Fatalf("expected a multi-waypoint path, got %d", len(path))
	}
	first, last := path[0], path[len(path)-1]
	wantFirst := cellWaypoint(Quantize(geo.Point{X: 100, Y: 100}, 32), 32)
	wantLast := cellWaypoint(Quantize(geo.Point{X: 200, Y: 100}, 32), 32)
	if first != wantFirst {
		t.Errorf("first waypoint = %+v, want %+v", first, wantFirst)
	}
	if last != wantLast {
		t.Errorf("last waypoint = %+v, want %+v", last, wantLast)
	}
}

func TestFindPath_Unreachable(t *testing.T) {
	// A wall polygon completely surrounding the goal makes it unreachable.
	wall := geo.Polygon{{X: 190, Y: 90}, {X: 400, Y: 90}, {X: 400, Y: 300}, {X: 190, Y: 300}}
	e := New(6144, 6144, 32, wallWorld{wall: wall}, 16)
	_, err := e.FindPath(geo.Point{X: 100, Y: 100}, geo.Point{X: 250, Y: 150}, model.RealmA)
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("FindPath error = %v, want ErrUnreachable", err)
	}
}

func TestFindPath_CachesRepeatedQueries(t *testing.T) {
	e := New(6144, 6144, 32, openWorld{}, 16)
	p1, err := e.FindPath(geo.Point{X: 100, Y: 100}, geo.Point{X: 300, Y: 300}, model.RealmA)
	if err != nil {
		t.Fatalf("FindPath returned error: %v", err)
	}
	p2, err := e.FindPath(geo.Point{X: 100, Y: 100}, geo.Point{X: 300, Y: 300}, model.RealmA)
	if err != nil {
		t.Fatalf("FindPath returned error: %v", err)
	}
	if len(p1) != len(p2) {
		t.Errorf("cached path differs in length: %d vs %d", len(p1), len(p2))
	}
}

func TestInvalidateAll_ClearsCache(t *testing.T) {
	e := New(6144, 6144, 32, openWorld{}, 16)
	key := cacheKey{start: Cell{0, 0}, goal: Cell{1, 1}, realm: model.RealmA}
	e.cache.put(key, []model.Waypoint{{X: 0, Y: 0}})
	e.InvalidateAll()
	if _, ok := e.cache.get(key); ok {
		t.Error("InvalidateAll should clear all cached paths")
	}
}
