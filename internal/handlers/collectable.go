package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/threerealms/mapserver/internal/bus"
	"github.com/threerealms/mapserver/internal/model"
	"github.com/threerealms/mapserver/internal/server"
)

// ErrAlreadyBeingCollected is returned when a collect attempt loses the
// available -> collecting race to another player.
var ErrAlreadyBeingCollected = fmt.Errorf("collectable already being collected")

type collectRequest struct {
	SpawnID string `json:"spawnId"`
}

// handleCollect implements collectable:collect (spec.md S5): the
// available -> collecting transition is a single Redis CAS, so exactly
// one of two racing collectors wins. The winner still must be standing on
// the spawn; the worker tick completes the collecting -> collected step
// once position and lock agree.
func handleCollect(ctx context.Context, sc *server.Context, c *Conn, payload json.RawMessage) (any, error) {
	var req collectRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("malformed collect request")
	}

	spawn, err := sc.Cache.GetCollectable(ctx, req.SpawnID)
	if err != nil {
		return nil, fmt.Errorf("loading collectable: %w", err)
	}
	if spawn == nil {
		return nil, fmt.Errorf("collectable not found")
	}

	player, err := sc.Players.Get(ctx, c.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading player: %w", err)
	}
	if !withinCollectRange(player.X, player.Y, spawn.X, spawn.Y) {
		return nil, fmt.Errorf("too far from collectable")
	}

	won, ok := sc.Cache.TryCollect(ctx, req.SpawnID, c.UserID, time.Now())
	if !ok {
		return nil, ErrAlreadyBeingCollected
	}

	sc.Bus.SendToUser(c.UserID, bus.Event{
		Name:    "collectable:collecting",
		Payload: map[string]string{"spawnId": won.SpawnID},
	})
	return map[string]string{"spawnId": won.SpawnID, "state": string(won.State)}, nil
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
