package geo

import "testing"

func square() Polygon {
	return Polygon{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
}

func TestPointInPolygon(t *testing.T) {
	poly := square()
	cases := []struct {
		p    Point
		want bool
	}{
		{Point{5, 5}, true},
		{Point{0, 0}, true},  // on vertex
		{Point{5, 0}, true},  // on edge
		{Point{15, 5}, false},
		{Point{-1, -1}, false},
	}
	for _, c := range cases {
		if got := PointInPolygon(c.p, poly); got != c.want {
			t.Errorf("PointInPolygon(%+v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestPolygonsContain(t *testing.T) {
	polys := []Polygon{square(), {{X: 100, Y: 100}, {X: 110, Y: 100}, {X: 110, Y: 110}, {X: 100, Y: 110}}}
	if !PolygonsContain(Point{105, 105}, polys) {
		t.Error("point should be contained in the second polygon")
	}
	if PolygonsContain(Point{50, 50}, polys) {
		t.Error("point should not be contained in either polygon")
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(Point{0, 0}, Point{3, 4}); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}

func TestChebyshevDistance(t *testing.T) {
	if d := ChebyshevDistance(Point{0, 0}, Point{3, -7}); d != 7 {
		t.Errorf("ChebyshevDistance = %v, want 7", d)
	}
}

func TestLineSegmentIntersectsPolygon(t *testing.T) {
	poly := square()
	if !LineSegmentIntersectsPolygon(Point{-5, 5}, Point{15, 5}, poly) {
		t.Error("segment crossing the square should intersect")
	}
	if LineSegmentIntersectsPolygon(Point{-5, -5}, Point{-1, -1}, poly) {
		t.Error("segment entirely outside should not intersect")
	}
}
