package pathfind

import "github.com/threerealms/mapserver/internal/geo"

// Cell is a quantized grid coordinate.
type Cell struct {
	CX, CY int32
}

// Quantize snaps a world point down to its containing cell, given step.
func Quantize(p geo.Point, step int32) Cell {
	return Cell{CX: p.X / step, CY: p.Y / step}
}

// CellCenter returns the game-coordinate center of a cell.
func CellCenter(c Cell, step int32) geo.Point {
	return geo.Point{X: c.CX*step + step/2, Y: c.CY*step + step/2}
}

// neighbor8 lists the 8-connected offsets in deterministic order (N, NE,
// E, SE, S, SW, W, NW) so ties are broken by a stable insertion order.
var neighbor8 = [8]struct{ dx, dy int32 }{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// stepCost returns the movement cost for an 8-connected step: diagonal
// moves cost sqrt(2) relative to 1 for cardinal moves, scaled by 1000 to
// stay in integers.
func stepCost(dx, dy int32) int64 {
	if dx != 0 && dy != 0 {
		return 1414
	}
	return 1000
}
