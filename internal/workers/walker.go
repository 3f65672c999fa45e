package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/threerealms/mapserver/internal/bus"
	"github.com/threerealms/mapserver/internal/model"
	"github.com/threerealms/mapserver/internal/server"
)

// WalkerWorker advances every active walker by one waypoint per tick
// (or more, under a walk-speed multiplier), persisting and broadcasting
// as each completes.
type WalkerWorker struct {
	sc *server.Context
}

// NewWalkerWorker constructs a WalkerWorker.
func NewWalkerWorker(sc *server.Context) *WalkerWorker {
	return &WalkerWorker{sc: sc}
}

// Name identifies this worker in logs and metrics.
func (w *WalkerWorker) Name() string { return "walker" }

// Tick advances every active walker by one step (scaled by the owning
// player's cached walk speed), deleting and persisting any that complete.
func (w *WalkerWorker) Tick(ctx context.Context) error {
	walkers, err := w.sc.Cache.AllWalkers(ctx)
	if err != nil {
		return err
	}

	for _, walker := range walkers {
		steps := 1
		if speed, ok := w.sc.Cache.GetWalkSpeed(ctx, walker.UserID); ok && speed >= 1 {
			steps = int(speed)
		}

		_, completed := walker.Advance(steps)
		walker.UpdatedAt = time.Now()

		cur := walker.Current()
		w.sc.Bus.SendToUser(walker.UserID, bus.Event{
			Name:    "walker:step",
			Payload: map[string]any{"walkerId": walker.WalkerID, "x": cur.X, "y": cur.Y, "index": walker.CurrentIndex},
		})

		if !completed {
			w.sc.Cache.PutWalker(ctx, walker)
			continue
		}

		w.completeWalker(ctx, walker, false)
	}

	checkCollectables(ctx, w.sc)
	return nil
}

// completeWalker removes a walker from the cache, persists the player's
// final position, and emits walker:completed. interrupted is true when a
// new move request pre-empted this walker rather than it finishing
// naturally.
func (w *WalkerWorker) completeWalker(ctx context.Context, walker *model.ActiveWalker, interrupted bool) {
	w.sc.Cache.DeleteWalker(ctx, walker)
	if err := w.sc.Walkers.Delete(ctx, walker.UserID); err != nil {
		slog.Warn("walker worker: delete row failed", "userId", walker.UserID, "error", err)
	}

	final := walker.Current()
	if err := w.sc.Players.SavePosition(ctx, walker.UserID, final.X, final.Y, time.Now().Unix()); err != nil {
		slog.Warn("walker worker: save final position failed", "userId", walker.UserID, "error", err)
	}

	w.sc.Bus.SendToUser(walker.UserID, bus.Event{
		Name: "walker:completed",
		Payload: map[string]any{
			"walkerId":    walker.WalkerID,
			"x":           final.X,
			"y":           final.Y,
			"interrupted": interrupted,
		},
	})
}

// Interrupt cancels a user's active walker mid-flight, e.g. because a
// new move:request superseded it. Returns true if a walker existed.
func Interrupt(ctx context.Context, sc *server.Context, userID string) (bool, error) {
	existing, err := sc.Cache.GetWalkerByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	(&WalkerWorker{sc: sc}).completeWalker(ctx, existing, true)
	return true, nil
}
