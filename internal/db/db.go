// Package db is the persistence gateway: a pooled PostgreSQL connection,
// idempotent schema migrations, and one repository type per aggregate.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned by Get-style methods when no row matches.
// Repositories translate pgx.ErrNoRows into this sentinel rather than
// treating "not found" as an error condition callers must unwrap pgx to
// detect.
var ErrNotFound = errors.New("db: not found")

// ErrConflict is returned when a write violates a unique constraint —
// a business error (e.g. "realm already selected") rather than a
// transient failure.
var ErrConflict = errors.New("db: conflict")

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// classify maps a low-level pgx error into a gateway-level sentinel,
// wrapping the original error for logging.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w: %s", op, ErrConflict, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// DB wraps a pgx connection pool shared by all repositories.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying pgx pool, for repository construction.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}
