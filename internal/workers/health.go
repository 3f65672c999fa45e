package workers

import (
	"context"
	"log/slog"

	"github.com/threerealms/mapserver/internal/bus"
	"github.com/threerealms/mapserver/internal/model"
	"github.com/threerealms/mapserver/internal/server"
)

// playerRegenRate is the fraction of maxHealth/maxMana restored per tick
// for every online player, on top of any active-spell effects.
const playerRegenRate = 0.02

// HealthWorker regenerates player vitals, territory health (when not
// contested), and superboss health, applying active-spell per-tick
// effects and flipping the contested flag at the health/maxHealth
// boundary.
type HealthWorker struct {
	sc *server.Context
}

// NewHealthWorker constructs a HealthWorker.
func NewHealthWorker(sc *server.Context) *HealthWorker {
	return &HealthWorker{sc: sc}
}

// Name identifies this worker in logs and metrics.
func (w *HealthWorker) Name() string { return "health" }

// Tick regenerates territories, superbosses, and the vitals of every
// player with an online socket (tickPlayers, which also applies active
// spell effects). A failing part is logged and the others still run.
func (w *HealthWorker) Tick(ctx context.Context) error {
	if err := w.tickTerritories(ctx); err != nil {
		slog.Warn("health worker: territory tick failed", "error", err)
	}
	if err := w.tickSuperbosses(ctx); err != nil {
		slog.Warn("health worker: superboss tick failed", "error", err)
	}
	if err := w.tickPlayers(ctx); err != nil {
		slog.Warn("health worker: player tick failed", "error", err)
	}
	return nil
}

// tickPlayers applies passive HP/MP regen plus active-spell
// healPerTick/manaPerTick/damagePerTick to every online player.
func (w *HealthWorker) tickPlayers(ctx context.Context) error {
	userIDs := w.sc.Bus.OnlineUserIDs()
	if len(userIDs) == 0 {
		return nil
	}

	players, err := w.sc.Players.GetMany(ctx, userIDs)
	if err != nil {
		return err
	}

	spellsByUser := make(map[string][]float64) // [healPerTick, manaPerTick, damagePerTick] summed
	for _, uid := range userIDs {
		spells, err := w.sc.Spells.ListForUser(ctx, uid)
		if err != nil {
			slog.Warn("health worker: loading spells failed", "userId", uid, "error", err)
			continue
		}
		var heal, mana, dmg float64
		for _, s := range spells {
			heal += s.HealPerTick
			mana += s.ManaPerTick
			dmg += s.DamagePerTick
		}
		spellsByUser[uid] = []float64{heal, mana, dmg}
	}

	for _, p := range players {
		eff := spellsByUser[p.UserID]
		heal, mana, dmg := float64(0), float64(0), float64(0)
		if eff != nil {
			heal, mana, dmg = eff[0], eff[1], eff[2]
		}

		newHealth := p.Health + int32(float64(p.MaxHealth)*playerRegenRate) + int32(heal) - int32(dmg)
		newMana := p.Mana + int32(float64(p.MaxMana)*playerRegenRate) + int32(mana)
		p.Health = model.ClampHealth(newHealth, p.MaxHealth)
		p.Mana = model.ClampHealth(newMana, p.MaxMana)

		if err := w.sc.Players.SaveVitals(ctx, p.UserID, p.Health, p.Mana); err != nil {
			slog.Warn("health worker: save vitals failed", "userId", p.UserID, "error", err)
			continue
		}
		w.sc.Bus.SendToUser(p.UserID, bus.Event{
			Name:    "player:health",
			Payload: map[string]any{"health": p.Health, "maxHealth": p.MaxHealth, "mana": p.Mana, "maxMana": p.MaxMana},
		})
	}
	return nil
}

// tickTerritories regenerates health even on a contested territory — a
// freshly captured territory starts at health=0, contested=true and must
// still climb back to maxHealth per spec.md's capture transition.
// MarkContested clears the flag once health is fully restored.
func (w *HealthWorker) tickTerritories(ctx context.Context) error {
	territories, err := w.sc.Territories.All(ctx)
	if err != nil {
		return err
	}

	for _, t := range territories {
		if t.Health >= t.MaxHealth {
			continue
		}

		t.Health += t.Type.RegenRate()
		if t.Health > t.MaxHealth {
			t.Health = t.MaxHealth
		}

		if err := MarkContested(ctx, w.sc, t); err != nil {
			slog.Warn("health worker: save territory failed", "territoryId", t.TerritoryID, "error", err)
			continue
		}
	}
	return nil
}

func (w *HealthWorker) tickSuperbosses(ctx context.Context) error {
	bosses, err := w.sc.Superbosses.All(ctx)
	if err != nil {
		return err
	}

	const bossRegenRate = 300

	for _, b := range bosses {
		if b.Health <= 0 || b.Health >= b.MaxHealth {
			continue
		}
		b.Health += bossRegenRate
		if b.Health > b.MaxHealth {
			b.Health = b.MaxHealth
		}
		if err := w.sc.Superbosses.SaveHealth(ctx, b.BossID, b.Health); err != nil {
			slog.Warn("health worker: save superboss failed", "bossId", b.BossID, "error", err)
			continue
		}
		w.sc.Cache.PutSuperboss(ctx, b)
		w.sc.Bus.BroadcastGlobal(bus.Event{Name: "superbosses:health", Payload: b})
	}
	return nil
}

// MarkContested recomputes a territory's contested flag from its current
// health (contested iff health < maxHealth), persists, and broadcasts
// territories:update. Called from the regen path on every tick that
// changes a territory's health; the flag clears once health climbs back
// to maxHealth.
func MarkContested(ctx context.Context, sc *server.Context, t *model.Territory) error {
	t.Contested = t.Health < t.MaxHealth
	if err := sc.Territories.SaveHealth(ctx, t); err != nil {
		return err
	}
	sc.Cache.PutTerritory(ctx, t)
	sc.Bus.BroadcastGlobal(bus.Event{Name: "territories:update", Payload: t})
	return nil
}
