// Package world holds the GM-editable map datasets — wall and water
// polygons, realm-restricted regions, and named patrol paths — and
// implements pathfind.Impassability over them.
package world

import (
	"sync"

	"github.com/threerealms/mapserver/internal/geo"
	"github.com/threerealms/mapserver/internal/model"
)

// Datasets holds every GM-editable map dataset behind one lock, mirroring
// the teacher's single-mutex manager shape (siege.Manager,
// gameserver.ClientManager) generalized to four editable collections
// instead of one.
type Datasets struct {
	mu      sync.RWMutex
	walls   map[string]geo.Polygon
	water   map[string]geo.Polygon
	regions map[string]*model.RealmRegion
	paths   map[string]*model.EditorPath

	onChange func()
}

// New constructs an empty Datasets. onChange is called after any mutation
// so the caller can invalidate dependent caches (pathfinding LRU).
func New(onChange func()) *Datasets {
	return &Datasets{
		walls:    make(map[string]geo.Polygon),
		water:    make(map[string]geo.Polygon),
		regions:  make(map[string]*model.RealmRegion),
		paths:    make(map[string]*model.EditorPath),
		onChange: onChange,
	}
}

// Blocked implements pathfind.Impassability: a cell is blocked if it
// falls inside any wall or water polygon, or inside a realm region
// belonging to a realm other than the querying one.
func (d *Datasets) Blocked(x, y int32, realm model.Realm) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p := geo.Point{X: x, Y: y}
	for _, poly := range d.walls {
		if geo.PointInPolygon(p, poly) {
			return true
		}
	}
	for _, poly := range d.water {
		if geo.PointInPolygon(p, poly) {
			return true
		}
	}
	for _, r := range d.regions {
		if r.Realm != realm && geo.PointInPolygon(p, r.Area) {
			return true
		}
	}
	return false
}

// SetWall upserts a named wall polygon and notifies onChange.
func (d *Datasets) SetWall(id string, poly geo.Polygon) {
	d.mu.Lock()
	d.walls[id] = poly
	d.mu.Unlock()
	d.notify()
}

// DeleteWall removes a wall polygon and notifies onChange.
func (d *Datasets) DeleteWall(id string) {
	d.mu.Lock()
	delete(d.walls, id)
	d.mu.Unlock()
	d.notify()
}

// SetWater upserts a named water polygon and notifies onChange.
func (d *Datasets) SetWater(id string, poly geo.Polygon) {
	d.mu.Lock()
	d.water[id] = poly
	d.mu.Unlock()
	d.notify()
}

// DeleteWater removes a water polygon and notifies onChange.
func (d *Datasets) DeleteWater(id string) {
	d.mu.Lock()
	delete(d.water, id)
	d.mu.Unlock()
	d.notify()
}

// SetRegion upserts a realm-restricted region and notifies onChange.
func (d *Datasets) SetRegion(r *model.RealmRegion) {
	d.mu.Lock()
	d.regions[r.RegionID] = r
	d.mu.Unlock()
	d.notify()
}

// DeleteRegion removes a realm-restricted region and notifies onChange.
func (d *Datasets) DeleteRegion(id string) {
	d.mu.Lock()
	delete(d.regions, id)
	d.mu.Unlock()
	d.notify()
}

// SetPath upserts a named patrol path. Paths do not affect pathfinding so
// no invalidation is triggered.
func (d *Datasets) SetPath(p *model.EditorPath) {
	d.mu.Lock()
	d.paths[p.PathID] = p
	d.mu.Unlock()
}

// DeletePath removes a named patrol path.
func (d *Datasets) DeletePath(id string) {
	d.mu.Lock()
	delete(d.paths, id)
	d.mu.Unlock()
}

// ListRegions returns a snapshot of every realm region, for regions:list.
func (d *Datasets) ListRegions() []*model.RealmRegion {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*model.RealmRegion, 0, len(d.regions))
	for _, r := range d.regions {
		out = append(out, r)
	}
	return out
}

// ListPaths returns a snapshot of every patrol path, for paths:list.
func (d *Datasets) ListPaths() []*model.EditorPath {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*model.EditorPath, 0, len(d.paths))
	for _, p := range d.paths {
		out = append(out, p)
	}
	return out
}

func (d *Datasets) notify() {
	if d.onChange != nil {
		d.onChange()
	}
}
