package model

import "testing"

func newTestWalker() *ActiveWalker {
	return &ActiveWalker{
		WalkerID: "w1",
		UserID:   "u1",
		Positions: []Waypoint{
			{X: 100, Y: 100},
			{X: 132, Y: 100},
			{X: 164, Y: 100},
			{X: 196, Y: 100},
		},
	}
}

func TestActiveWalker_AdvanceSingleStep(t *testing.T) {
	w := newTestWalker()
	for i := 0; i < 2; i++ {
		_, done := w.Advance(1)
		if done {
			t.Fatalf("walker completed too early at step %d", i)
		}
	}
	if w.CurrentIndex != 2 {
		t.Errorf("currentIndex = %d, want 2", w.CurrentIndex)
	}
	wp, done := w.Advance(1)
	if !done {
		t.Error("walker should be done after consuming the final waypoint")
	}
	if wp != (Waypoint{X: 196, Y: 100}) {
		t.Errorf("final waypoint = %+v, want {196,100}", wp)
	}
}

func TestActiveWalker_AdvanceClampsAtLastIndex(t *testing.T) {
	w := newTestWalker()
	_, done := w.Advance(10)
	if !done {
		t.Error("advancing past the end should complete the walker")
	}
	if w.CurrentIndex != len(w.Positions)-1 {
		t.Errorf("currentIndex = %d, want %d (clamped)", w.CurrentIndex, len(w.Positions)-1)
	}
}

func TestActiveWalker_Done(t *testing.T) {
	w := newTestWalker()
	if w.Done() {
		t.Error("fresh walker should not be done")
	}
	w.CurrentIndex = len(w.Positions) - 1
	if !w.Done() {
		t.Error("walker at last index should be done")
	}
}
