package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/threerealms/mapserver/internal/bus"
	"github.com/threerealms/mapserver/internal/model"
	"github.com/threerealms/mapserver/internal/server"
)

// checkCollectables sweeps every known spawn once per tick: a collecting
// lock held past model.CollectTimeout, or whose holder has wandered
// beyond model.CollectThreshold, reverts to available; a lock whose
// holder is standing on the spawn completes into collected.
func checkCollectables(ctx context.Context, sc *server.Context) {
	spawns, err := sc.Cache.AllCollectables(ctx)
	if err != nil {
		slog.Warn("collectable sweep: list failed", "error", err)
		return
	}

	now := time.Now()
	for _, spawn := range spawns {
		if spawn.State != model.CollectableCollecting {
			continue
		}

		if now.Sub(spawn.CollectingSince) >= model.CollectTimeout {
			revertCollectable(ctx, sc, spawn)
			continue
		}

		player, err := sc.Players.Get(ctx, spawn.CollectingBy)
		if err != nil {
			slog.Warn("collectable sweep: load holder failed", "spawnId", spawn.SpawnID, "error", err)
			continue
		}
		if !withinCollectRange(player.X, player.Y, spawn.X, spawn.Y) {
			revertCollectable(ctx, sc, spawn)
			continue
		}
		if player.X == spawn.X && player.Y == spawn.Y {
			if err := completeCollectable(ctx, sc, spawn); err != nil {
				slog.Warn("collectable sweep: complete failed", "spawnId", spawn.SpawnID, "error", err)
			}
		}
	}
}

func withinCollectRange(px, py, sx, sy int32) bool {
	dx := px - sx
	dy := py - sy
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= model.CollectThreshold && dy <= model.CollectThreshold
}

// completeCollectable finishes a collecting -> collected transition:
// credits inventory, logs the pickup, and broadcasts collectable:collected.
// Collected is terminal — the spawn does not return to available.
func completeCollectable(ctx context.Context, sc *server.Context, spawn *model.SpawnedCollectable) error {
	entry := &model.InventoryEntry{
		InventoryID: uuid.NewString(),
		UserID:      spawn.CollectingBy,
		ItemID:      spawn.ItemID,
		Quantity:    1,
	}
	if err := sc.Inventory.Add(ctx, entry); err != nil {
		return fmt.Errorf("crediting collectable: %w", err)
	}

	logEntry := &model.PlayerLog{
		LogID:     uuid.NewString(),
		UserID:    spawn.CollectingBy,
		Message:   fmt.Sprintf("collected %s", spawn.ItemID),
		Type:      model.LogSuccess,
		CreatedAt: time.Now(),
	}
	if err := sc.Logs.Append(ctx, logEntry); err != nil {
		slog.Warn("collectable log append failed", "spawnId", spawn.SpawnID, "error", err)
	}

	owner := spawn.CollectingBy
	spawn.State = model.CollectableCollected
	spawn.CollectingBy = ""
	sc.Cache.SetCollectableState(ctx, spawn)

	sc.Bus.BroadcastGlobal(bus.Event{
		Name:    "collectable:collected",
		Payload: map[string]string{"spawnId": spawn.SpawnID, "itemId": spawn.ItemID, "userId": owner},
	})
	return nil
}

// revertCollectable reverts an expired or abandoned collecting lock back
// to available.
func revertCollectable(ctx context.Context, sc *server.Context, spawn *model.SpawnedCollectable) {
	spawn.State = model.CollectableAvailable
	spawn.CollectingBy = ""
	sc.Cache.SetCollectableState(ctx, spawn)
}
