package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/threerealms/mapserver/internal/db/migrations"
)

var gooseOnce sync.Once

// RunMigrations runs goose migrations against the given DSN. Safe to call
// on every startup: goose tracks applied versions and is a no-op once the
// schema is current.
func RunMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	var dialectErr error
	gooseOnce.Do(func() {
		goose.SetBaseFS(migrations.FS)
		dialectErr = goose.SetDialect("postgres")
	})
	if dialectErr != nil {
		return fmt.Errorf("setting goose dialect: %w", dialectErr)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
