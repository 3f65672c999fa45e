package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/threerealms/mapserver/internal/auth"
	"github.com/threerealms/mapserver/internal/bus"
	"github.com/threerealms/mapserver/internal/cache"
	"github.com/threerealms/mapserver/internal/config"
	"github.com/threerealms/mapserver/internal/db"
	"github.com/threerealms/mapserver/internal/handlers"
	"github.com/threerealms/mapserver/internal/httpapi"
	"github.com/threerealms/mapserver/internal/pathfind"
	"github.com/threerealms/mapserver/internal/server"
	"github.com/threerealms/mapserver/internal/workers"
	"github.com/threerealms/mapserver/internal/world"
)

const ConfigPath = "config/mapserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("MAPSERVER_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("mapserver starting", "bind", cfg.BindAddress, "port", cfg.Port)

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer rdb.Close()
	slog.Info("cache connected")

	ca := cache.New(rdb)

	var pe *pathfind.Engine
	datasets := world.New(func() {
		if pe != nil {
			pe.InvalidateAll()
		}
	})
	pe = pathfind.New(cfg.World.Width, cfg.World.Height, cfg.World.GridStep, datasets, cfg.World.PathCache)

	tokens, err := auth.NewIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token issuer: %w", err)
	}
	forum := auth.NewHTTPForumClient(cfg.Auth.ForumAuthURL)

	dispatcher := handlers.NewDispatcher()

	var sc *server.Context
	hub := bus.NewHub(func(c *bus.Client, raw []byte) {
		dispatcher.Dispatch(ctx, sc, &handlers.Conn{Client: c, UserID: c.UserID}, raw)
	})

	sc = server.New(cfg, ca, database, hub, pe, datasets, tokens)

	if err := warmItemCache(ctx, sc); err != nil {
		return fmt.Errorf("warming item cache: %w", err)
	}

	startedAt, err := sc.ServerTime.Get(ctx)
	if err != nil {
		return fmt.Errorf("loading server epoch: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	startWorker := func(name string, w workers.Worker, period time.Duration) {
		sched := workers.NewScheduler(w, period)
		g.Go(func() error {
			slog.Info("starting worker", "name", name, "period", period)
			return sched.Run(gctx)
		})
	}

	startWorker("walker", workers.NewWalkerWorker(sc), time.Second)
	startWorker("health", workers.NewHealthWorker(sc), time.Second)
	startWorker("spells", workers.NewSpellsWorker(sc), time.Second)
	startWorker("worldtime", workers.NewWorldTimeWorker(sc, startedAt), 10*time.Second)
	if cfg.WarStatusURL != "" {
		startWorker("territory", workers.NewTerritoryWorker(sc, cfg.WarStatusURL), 15*time.Second)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.Port),
		Handler: httpapi.NewRouter(sc, forum),
	}

	g.Go(func() error {
		slog.Info("starting http server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// warmItemCache preloads the immutable item catalog at startup so the hot
// path never has to fall back to persistence under normal operation.
func warmItemCache(ctx context.Context, sc *server.Context) error {
	items, err := sc.Items.All(ctx)
	if err != nil {
		return fmt.Errorf("loading item catalog: %w", err)
	}
	if err := sc.Cache.PreloadItems(ctx, items); err != nil {
		return fmt.Errorf("caching item catalog: %w", err)
	}
	slog.Info("item catalog cached", "count", len(items))
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
