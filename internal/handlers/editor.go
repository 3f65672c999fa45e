package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/threerealms/mapserver/internal/bus"
	"github.com/threerealms/mapserver/internal/geo"
	"github.com/threerealms/mapserver/internal/model"
	"github.com/threerealms/mapserver/internal/server"
)

// ErrNotGM is returned when a non-GM user issues an editor command.
var ErrNotGM = fmt.Errorf("GM access required")

type setWallRequest struct {
	ID      string      `json:"id"`
	Polygon geo.Polygon `json:"polygon"`
}

type setWaterRequest struct {
	ID      string      `json:"id"`
	Polygon geo.Polygon `json:"polygon"`
}

type setRegionRequest struct {
	ID      string      `json:"id"`
	Realm   model.Realm `json:"realm"`
	Polygon geo.Polygon `json:"polygon"`
}

func requireGM(ctx context.Context, sc *server.Context, userID string) error {
	isGM, found := sc.Cache.GetGMStatus(ctx, userID)
	if !found || !isGM {
		return ErrNotGM
	}
	return nil
}

// handleEditorSetWall implements editor:setWall: GM-only upsert of a
// wall polygon, invalidating every cached path since impassability
// changed.
func handleEditorSetWall(ctx context.Context, sc *server.Context, c *Conn, payload json.RawMessage) (any, error) {
	if err := requireGM(ctx, sc, c.UserID); err != nil {
		return nil, err
	}
	var req setWallRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("malformed wall edit")
	}
	sc.World.SetWall(req.ID, req.Polygon)
	sc.Pathfind.InvalidateAll()
	sc.Bus.BroadcastGlobal(bus.Event{Name: "editor:wallsChanged", Payload: map[string]string{"id": req.ID}})
	return map[string]string{"id": req.ID}, nil
}

// handleEditorSetWater implements editor:setWater, symmetric with
// handleEditorSetWall.
func handleEditorSetWater(ctx context.Context, sc *server.Context, c *Conn, payload json.RawMessage) (any, error) {
	if err := requireGM(ctx, sc, c.UserID); err != nil {
		return nil, err
	}
	var req setWaterRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("malformed water edit")
	}
	sc.World.SetWater(req.ID, req.Polygon)
	sc.Pathfind.InvalidateAll()
	sc.Bus.BroadcastGlobal(bus.Event{Name: "editor:waterChanged", Payload: map[string]string{"id": req.ID}})
	return map[string]string{"id": req.ID}, nil
}

// handleEditorSetRegion implements editor:setRegion: GM-only upsert of a
// realm-restricted region, invalidating cached paths and rebroadcasting
// the full region list so connected editors stay in sync.
func handleEditorSetRegion(ctx context.Context, sc *server.Context, c *Conn, payload json.RawMessage) (any, error) {
	if err := requireGM(ctx, sc, c.UserID); err != nil {
		return nil, err
	}
	var req setRegionRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("malformed region edit")
	}
	if !model.ValidRealm(req.Realm) {
		return nil, fmt.Errorf("invalid realm %q", req.Realm)
	}
	region := &model.RealmRegion{RegionID: req.ID, Realm: req.Realm, Area: req.Polygon}
	sc.World.SetRegion(region)
	sc.Pathfind.InvalidateAll()
	sc.Bus.BroadcastGlobal(bus.Event{Name: "regions:list", Payload: sc.World.ListRegions()})
	return map[string]string{"id": req.ID}, nil
}
