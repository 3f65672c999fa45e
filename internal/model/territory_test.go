package model

import "testing"

func TestRegenRate(t *testing.T) {
	cases := []struct {
		typ  TerritoryType
		want int64
	}{
		{TerritoryFort, 800},
		{TerritoryCastle, 500},
		{TerritoryWall, 250},
		{TerritoryType("unknown"), 0},
	}
	for _, c := range cases {
		if got := c.typ.RegenRate(); got != c.want {
			t.Errorf("RegenRate(%v) = %d, want %d", c.typ, got, c.want)
		}
	}
}

func TestHealthRegen_CappedAtMaxHealth(t *testing.T) {
	// Mirrors scenario S4: health=50000, maxHealth=100000, fort-rate regen.
	health := int64(50000)
	const maxHealth = int64(100000)
	rate := TerritoryFort.RegenRate()

	ticks := 0
	for health < maxHealth {
		health += rate
		if health > maxHealth {
			health = maxHealth
		}
		ticks++
	}
	if health != maxHealth {
		t.Errorf("health = %d, want %d", health, maxHealth)
	}
	if ticks == 0 {
		t.Error("expected at least one regen tick to reach max health")
	}
}
