package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/threerealms/mapserver/internal/bus"
	"github.com/threerealms/mapserver/internal/geo"
	"github.com/threerealms/mapserver/internal/model"
	"github.com/threerealms/mapserver/internal/pathfind"
	"github.com/threerealms/mapserver/internal/server"
	"github.com/threerealms/mapserver/internal/workers"
)

type moveRequest struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

type moveAck struct {
	WalkerID string           `json:"walkerId"`
	Path     []model.Waypoint `json:"path"`
}

// handleMove implements move:request. It must leave no intermediate state
// visible between interrupting any existing walker and installing the new
// one; the dispatcher already holds the per-user lock for the duration of
// this call.
func handleMove(ctx context.Context, sc *server.Context, c *Conn, payload json.RawMessage) (any, error) {
	var req moveRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("malformed move request")
	}
	if !model.InBounds(req.X, req.Y) {
		return nil, fmt.Errorf("destination out of bounds")
	}

	player, err := sc.Players.Get(ctx, c.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading player: %w", err)
	}

	if sc.World.Blocked(req.X, req.Y, player.Realm) {
		return nil, fmt.Errorf("destination not permitted")
	}

	start := geo.Point{X: player.X, Y: player.Y}
	goal := geo.Point{X: req.X, Y: req.Y}
	path, err := sc.Pathfind.FindPath(start, goal, player.Realm)
	if err != nil {
		if err == pathfind.ErrUnreachable {
			return nil, fmt.Errorf("destination unreachable")
		}
		return nil, fmt.Errorf("computing path: %w", err)
	}

	if _, err := workers.Interrupt(ctx, sc, c.UserID); err != nil {
		return nil, fmt.Errorf("interrupting prior walker: %w", err)
	}

	walker := &model.ActiveWalker{
		WalkerID:     uuid.NewString(),
		UserID:       c.UserID,
		Positions:    path,
		CurrentIndex: 0,
		UpdatedAt:    time.Now(),
	}

	if err := sc.Walkers.Upsert(ctx, walker); err != nil {
		return nil, fmt.Errorf("saving walker: %w", err)
	}
	sc.Cache.PutWalker(ctx, walker)

	sc.Bus.SendToUser(c.UserID, bus.Event{
		Name: "move:started",
		Payload: map[string]any{
			"walkerId": walker.WalkerID,
			"path":     walker.Positions,
		},
	})

	return moveAck{WalkerID: walker.WalkerID, Path: walker.Positions}, nil
}
