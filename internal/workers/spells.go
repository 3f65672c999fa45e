package workers

import (
	"context"
	"log/slog"

	"github.com/threerealms/mapserver/internal/bus"
	"github.com/threerealms/mapserver/internal/server"
)

// SpellsWorker decrements remaining duration and cooldown on every active
// spell, removing and broadcasting expiry.
type SpellsWorker struct {
	sc *server.Context
}

// NewSpellsWorker constructs a SpellsWorker.
func NewSpellsWorker(sc *server.Context) *SpellsWorker {
	return &SpellsWorker{sc: sc}
}

// Name identifies this worker in logs and metrics.
func (w *SpellsWorker) Name() string { return "spells" }

// Tick advances every active spell by one second and removes any that
// expire.
func (w *SpellsWorker) Tick(ctx context.Context) error {
	spells, err := w.sc.Spells.ListAll(ctx)
	if err != nil {
		return err
	}

	for _, s := range spells {
		s.Tick()
		if s.Expired() {
			if err := w.sc.Spells.DeleteExpired(ctx, s.SpellID); err != nil {
				slog.Warn("spells worker: delete expired failed", "spellId", s.SpellID, "error", err)
			}
			w.sc.Cache.InvalidateWalkSpeed(ctx, s.UserID)
			w.sc.Bus.SendToUser(s.UserID, bus.Event{
				Name:    "spell:expired",
				Payload: map[string]string{"spellId": s.SpellID, "spellKey": s.SpellKey},
			})
			continue
		}
		if err := w.sc.Spells.Upsert(ctx, s); err != nil {
			slog.Warn("spells worker: save tick failed", "spellId", s.SpellID, "error", err)
		}
	}
	return nil
}
