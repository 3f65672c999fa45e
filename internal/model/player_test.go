package model

import "testing"

func TestNewPlayer_RejectsInvalidRealm(t *testing.T) {
	if _, err := NewPlayer("u1", "Alice", Realm("Z"), 100, 100); err == nil {
		t.Error("NewPlayer with invalid realm should return an error")
	}
}

func TestNewPlayer_Defaults(t *testing.T) {
	p, err := NewPlayer("u1", "Alice", RealmA, 100, 200)
	if err != nil {
		t.Fatalf("NewPlayer returned error: %v", err)
	}
	if p.X != 100 || p.Y != 200 {
		t.Errorf("position = (%d,%d), want (100,200)", p.X, p.Y)
	}
	if p.Health != p.MaxHealth {
		t.Errorf("new player should spawn at full health")
	}
}

func TestInBounds(t *testing.T) {
	cases := []struct {
		x, y int32
		want bool
	}{
		{0, 0, true},
		{6144, 6144, true},
		{-1, 0, false},
		{0, 6145, false},
	}
	for _, c := range cases {
		if got := InBounds(c.x, c.y); got != c.want {
			t.Errorf("InBounds(%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestClampHealth(t *testing.T) {
	if ClampHealth(-5, 100) != 0 {
		t.Error("ClampHealth should floor at 0")
	}
	if ClampHealth(150, 100) != 100 {
		t.Error("ClampHealth should cap at max")
	}
}
