package handlers

import (
	"testing"

	"github.com/threerealms/mapserver/internal/model"
)

func TestWithinCollectRange(t *testing.T) {
	threshold := model.CollectThreshold
	cases := []struct {
		name           string
		px, py, sx, sy int32
		want           bool
	}{
		{"exact match", 100, 100, 100, 100, true},
		{"within threshold both axes", 100 + threshold, 100 - threshold, 100, 100, true},
		{"just past threshold on x", 100 + threshold + 1, 100, 100, 100, false},
		{"just past threshold on y", 100, 100 - threshold - 1, 100, 100, false},
		{"negative coordinates", -50, -50, -50, -50, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := withinCollectRange(c.px, c.py, c.sx, c.sy); got != c.want {
				t.Errorf("withinCollectRange(%d,%d,%d,%d) = %v, want %v", c.px, c.py, c.sx, c.sy, got, c.want)
			}
		})
	}
}
