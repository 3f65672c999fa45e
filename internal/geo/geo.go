// Package geo provides pure 2D geometry helpers shared by the pathfinding
// service and by walk-permission and territory-capture checks.
package geo

import "math"

// Point is an integer game-world coordinate.
type Point struct {
	X, Y int32
}

// Polygon is an ordered list of vertices; the last vertex implicitly
// connects back to the first.
type Polygon []Point

// PointInPolygon reports whether p lies inside poly using the standard
// ray-casting test (even-odd rule). Points exactly on an edge are treated
// as inside.
func PointInPolygon(p Point, poly Polygon) bool {
	n := len(poly)
	if n < 3 {
		return false
	}

	inside := false
	px, py := float64(p.X), float64(p.Y)

	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := float64(poly[i].X), float64(poly[i].Y)
		xj, yj := float64(poly[j].X), float64(poly[j].Y)

		if onSegment(px, py, xi, yi, xj, yj) {
			return true
		}

		if (yi > py) != (yj > py) {
			xCross := xi + (py-yi)/(yj-yi)*(xj-xi)
			if px < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

func onSegment(px, py, xi, yi, xj, yj float64) bool {
	cross := (xj-xi)*(py-yi) - (yj-yi)*(px-xi)
	if math.Abs(cross) > 1e-9 {
		return false
	}
	if math.Min(xi, xj) > px || px > math.Max(xi, xj) {
		return false
	}
	if math.Min(yi, yj) > py || py > math.Max(yi, yj) {
		return false
	}
	return true
}

// PolygonsContain reports whether p falls inside any of polys.
func PolygonsContain(p Point, polys []Polygon) bool {
	for _, poly := range polys {
		if PointInPolygon(p, poly) {
			return true
		}
	}
	return false
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// ChebyshevDistance returns max(|dx|, |dy|) — the admissible heuristic
// for 8-connected grid search.
func ChebyshevDistance(a, b Point) int32 {
	dx := abs32(a.X - b.X)
	dy := abs32(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// LineSegmentIntersectsPolygon reports whether the segment a-b crosses
// any edge of poly, or has either endpoint inside it.
func LineSegmentIntersectsPolygon(a, b Point, poly Polygon) bool {
	if PointInPolygon(a, poly) || PointInPolygon(b, poly) {
		return true
	}
	n := len(poly)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		if segmentsIntersect(a, b, poly[i], poly[j]) {
			return true
		}
	}
	return false
}

func segmentsIntersect(p1, p2, p3, p4 Point) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return false
}

func cross(o, a, b Point) int64 {
	return int64(a.X-o.X)*int64(b.Y-o.Y) - int64(a.Y-o.Y)*int64(b.X-o.X)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
