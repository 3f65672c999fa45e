// Package server threads the shared, immutable dependencies every
// worker and handler needs through a single typed value, replacing the
// source's mutable global gameState blob per spec.md's design notes.
package server

import (
	"github.com/threerealms/mapserver/internal/auth"
	"github.com/threerealms/mapserver/internal/bus"
	"github.com/threerealms/mapserver/internal/cache"
	"github.com/threerealms/mapserver/internal/config"
	"github.com/threerealms/mapserver/internal/db"
	"github.com/threerealms/mapserver/internal/pathfind"
	"github.com/threerealms/mapserver/internal/world"
)

// Context carries every shared dependency handlers and workers need:
// configuration, the cache client, the persistence gateway, the event
// bus, the pathfinding engine, and the token issuer.
type Context struct {
	Config   config.Server
	Cache    *cache.Cache
	DB       *db.DB
	Bus      *bus.Hub
	Pathfind *pathfind.Engine
	World    *world.Datasets
	Tokens   *auth.Issuer

	Players     *db.PlayerRepository
	Items       *db.ItemRepository
	Inventory   *db.InventoryRepository
	Equipment   *db.EquipmentRepository
	Territories *db.TerritoryRepository
	Superbosses *db.SuperbossRepository
	Walkers     *db.WalkerRepository
	Spells      *db.SpellRepository
	Logs        *db.LogRepository
	Shoutbox    *db.ShoutboxRepository
	Settings    *db.SettingsRepository
	ServerTime  *db.ServerTimeRepository
}

// New wires a Context from its constituent dependencies.
func New(cfg config.Server, ca *cache.Cache, database *db.DB, hub *bus.Hub, engine *pathfind.Engine, datasets *world.Datasets, tokens *auth.Issuer) *Context {
	pool := database.Pool()
	return &Context{
		Config:   cfg,
		Cache:    ca,
		DB:       database,
		Bus:      hub,
		Pathfind: engine,
		World:    datasets,
		Tokens:   tokens,

		Players:     db.NewPlayerRepository(pool),
		Items:       db.NewItemRepository(pool),
		Inventory:   db.NewInventoryRepository(pool),
		Equipment:   db.NewEquipmentRepository(pool),
		Territories: db.NewTerritoryRepository(pool),
		Superbosses: db.NewSuperbossRepository(pool),
		Walkers:     db.NewWalkerRepository(pool),
		Spells:      db.NewSpellRepository(pool),
		Logs:        db.NewLogRepository(pool),
		Shoutbox:    db.NewShoutboxRepository(pool),
		Settings:    db.NewSettingsRepository(pool),
		ServerTime:  db.NewServerTimeRepository(pool),
	}
}
