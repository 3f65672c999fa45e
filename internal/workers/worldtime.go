package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/threerealms/mapserver/internal/bus"
	"github.com/threerealms/mapserver/internal/model"
	"github.com/threerealms/mapserver/internal/server"
)

// persistInterval is the upper bound on how long the worker goes without
// broadcasting time:update, even if the minute hasn't changed.
const persistInterval = 5 * time.Minute

// WorldTimeWorker recomputes the in-game clock from the configured epoch,
// caches it every tick, and broadcasts it on minute boundaries or after
// persistInterval. The hour and minute are never written to the database;
// only the epoch (started_at) is stored there.
type WorldTimeWorker struct {
	sc            *server.Context
	startedAt     time.Time
	lastMinute    int32
	lastPersisted time.Time
}

// NewWorldTimeWorker constructs a WorldTimeWorker anchored to startedAt.
func NewWorldTimeWorker(sc *server.Context, startedAt time.Time) *WorldTimeWorker {
	return &WorldTimeWorker{sc: sc, startedAt: startedAt, lastMinute: -1}
}

// Name identifies this worker in logs and metrics.
func (w *WorldTimeWorker) Name() string { return "worldtime" }

// Tick recomputes (ingameHour, ingameMinute), caches it unconditionally,
// and broadcasts when the minute has changed or the backstop interval has
// elapsed.
func (w *WorldTimeWorker) Tick(ctx context.Context) error {
	now := time.Now()
	st := model.ServerTime{StartedAt: w.startedAt}
	st.IngameHour, st.IngameMinute = st.Compute(now)

	w.sc.Cache.PutServerTime(ctx, &st)

	changed := st.IngameMinute != w.lastMinute
	overdue := now.Sub(w.lastPersisted) >= persistInterval
	if !changed && !overdue {
		return nil
	}
	w.lastMinute = st.IngameMinute
	w.lastPersisted = now

	w.sc.Bus.BroadcastGlobal(bus.Event{Name: "time:update", Payload: map[string]int32{
		"hour":   st.IngameHour,
		"minute": st.IngameMinute,
	}})
	slog.Debug("world time advanced", "hour", st.IngameHour, "minute", st.IngameMinute)
	return nil
}
