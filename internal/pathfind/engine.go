// Package pathfind computes walker paths across the navigable grid,
// avoiding wall/water polygons and realm-restricted regions.
package pathfind

import (
	"container/heap"
	"errors"

	"github.com/threerealms/mapserver/internal/geo"
	"github.com/threerealms/mapserver/internal/model"
)

// ErrUnreachable is returned when no path connects start to goal.
var ErrUnreachable = errors.New("pathfind: goal unreachable")

// Impassability answers whether a given cell is walkable for a realm.
// It is supplied by the caller (the editor's region/wall/water datasets)
// so the engine itself stays free of storage concerns.
type Impassability interface {
	// Blocked reports whether the cell center at (x,y) is impassable for
	// realm (wall/water polygons, or a region restricted to other realms).
	Blocked(x, y int32, realm model.Realm) bool
}

// Engine computes shortest paths on the quantized grid.
type Engine struct {
	step   int32
	width  int32
	height int32
	imp    Impassability
	cache  *lru
}

// New creates a pathfinding engine over a width x height world quantized
// to step-sized cells, using imp to test cell impassability.
func New(width, height, step int32, imp Impassability, cacheSize int) *Engine {
	return &Engine{
		step:   step,
		width:  width,
		height: height,
		imp:    imp,
		cache:  newLRU(cacheSize),
	}
}

// FindPath computes a waypoint list from start to goal for realm, walked
// at one waypoint per tick. Returns ErrUnreachable if no path exists.
//
// The first waypoint equals the quantized start; the last equals the
// quantized goal. If start == goal after quantization, the path is the
// single start waypoint.
func (e *Engine) FindPath(start, goal geo.Point, realm model.Realm) ([]model.Waypoint, error) {
	sc := Quantize(start, e.step)
	gc := Quantize(goal, e.step)

	if sc == gc {
		return []model.Waypoint{cellWaypoint(sc, e.step)}, nil
	}

	key := cacheKey{start: sc, goal: gc, realm: realm}
	if cached, ok := e.cache.get(key); ok {
		return cached, nil
	}

	sc = e.nearestFree(sc, realm)

	path, err := e.dijkstra(sc, gc, realm)
	if err != nil {
		return nil, err
	}

	e.cache.put(key, path)
	return path, nil
}

// InvalidateAll drops every cached path. Called after an editor mutation
// to regions, walls, paths, or water.
func (e *Engine) InvalidateAll() {
	e.cache.clear()
}

// nearestFree returns c if walkable, or the nearest walkable cell found
// by an expanding ring search (bounded) otherwise. Used when the start
// point is inside impassability after a walled-off editor change.
func (e *Engine) nearestFree(c Cell, realm model.Realm) Cell {
	if !e.blocked(c, realm) {
		return c
	}
	for radius := int32(1); radius <= 32; radius++ {
		for dx := -radius; dx <= radius; dx++ {
			for dy := -radius; dy <= radius; dy++ {
				if abs32(dx) != radius && abs32(dy) != radius {
					continue // only the ring perimeter
				}
				cand := Cell{CX: c.CX + dx, CY: c.CY + dy}
				if e.inGrid(cand) && !e.blocked(cand, realm) {
					return cand
				}
			}
		}
	}
	return c
}

func (e *Engine) inGrid(c Cell) bool {
	max := e.width / e.step
	maxY := e.height / e.step
	return c.CX >= 0 && c.CX < max && c.CY >= 0 && c.CY < maxY
}

func (e *Engine) blocked(c Cell, realm model.Realm) bool {
	center := CellCenter(c, e.step)
	return e.imp.Blocked(center.X, center.Y, realm)
}

func cellWaypoint(c Cell, step int32) model.Waypoint {
	p := CellCenter(c, step)
	return model.Waypoint{X: p.X, Y: p.Y}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// dijkstra runs an 8-connected shortest-path search with a binary heap,
// breaking ties by insertion order (the neighbor8 iteration order) for
// determinism.
func (e *Engine) dijkstra(start, goal Cell, realm model.Realm) ([]model.Waypoint, error) {
	if !e.inGrid(goal) || e.blocked(goal, realm) {
		return nil, ErrUnreachable
	}

	dist := map[Cell]int64{start: 0}
	parent := map[Cell]Cell{}
	visited := map[Cell]bool{}

	pq := &cellHeap{{cell: start, priority: 0, seq: 0}}
	heap.Init(pq)
	seq := 1

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(cellItem)
		if visited[cur.cell] {
			continue
		}
		visited[cur.cell] = true

		if cur.cell == goal {
			return e.reconstruct(parent, start, goal), nil
		}

		for _, n := range neighbor8 {
			next := Cell{CX: cur.cell.CX + n.dx, CY: cur.cell.CY + n.dy}
			if !e.inGrid(next) || visited[next] || e.blocked(next, realm) {
				continue
			}
			nd := dist[cur.cell] + stepCost(n.dx, n.dy)
			if existing, ok := dist[next]; !ok || nd < existing {
				dist[next] = nd
				parent[next] = cur.cell
				heap.Push(pq, cellItem{cell: next, priority: nd, seq: seq})
				seq++
			}
		}
	}

	return nil, ErrUnreachable
}

func (e *Engine) reconstruct(parent map[Cell]Cell, start, goal Cell) []model.Waypoint {
	cells := []Cell{goal}
	for cells[len(cells)-1] != start {
		cells = append(cells, parent[cells[len(cells)-1]])
	}
	// reverse
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	path := make([]model.Waypoint, len(cells))
	for i, c := range cells {
		path[i] = cellWaypoint(c, e.step)
	}
	return path
}

type cellItem struct {
	cell     Cell
	priority int64
	seq      int // insertion order, breaks ties deterministically
}

type cellHeap []cellItem

func (h cellHeap) Len() int { return len(h) }
func (h cellHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}
func (h cellHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *cellHeap) Push(x any)   { *h = append(*h, x.(cellItem)) }
func (h *cellHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
