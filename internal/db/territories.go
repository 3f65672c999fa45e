package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/threerealms/mapserver/internal/model"
)

// TerritoryRepository persists territories and their capture history.
type TerritoryRepository struct {
	db *pgxpool.Pool
}

// NewTerritoryRepository constructs a TerritoryRepository.
func NewTerritoryRepository(db *pgxpool.Pool) *TerritoryRepository {
	return &TerritoryRepository{db: db}
}

// All loads every territory, used to warm the cache on startup.
func (r *TerritoryRepository) All(ctx context.Context) ([]*model.Territory, error) {
	const query = `
		SELECT territory_id, name, territory_type, owner_realm, health, max_health,
		       x, y, contested, contested_since
		FROM territories
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, classify("loading territories", err)
	}
	defer rows.Close()

	var out []*model.Territory
	for rows.Next() {
		var t model.Territory
		if err := rows.Scan(
			&t.TerritoryID, &t.Name, &t.Type, &t.OwnerRealm, &t.Health, &t.MaxHealth,
			&t.X, &t.Y, &t.Contested, &t.ContestedSince,
		); err != nil {
			return nil, classify("scanning territory row", err)
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("reading territories", err)
	}
	return out, nil
}

// SaveHealth updates a territory's health and contested state, e.g. after
// a damage or regen tick.
func (r *TerritoryRepository) SaveHealth(ctx context.Context, t *model.Territory) error {
	const query = `
		UPDATE territories
		SET health = $2, contested = $3, contested_since = $4
		WHERE territory_id = $1
	`
	tag, err := r.db.Exec(ctx, query, t.TerritoryID, t.Health, t.Contested, t.ContestedSince)
	if err != nil {
		return classify(fmt.Sprintf("saving territory %s", t.TerritoryID), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saving territory %s: %w", t.TerritoryID, ErrNotFound)
	}
	return nil
}

// Capture transfers ownership and records the capture event.
func (r *TerritoryRepository) Capture(ctx context.Context, c *model.TerritoryCapture, newHealth int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return classify("beginning capture transaction", err)
	}
	defer tx.Rollback(ctx)

	const updateQuery = `
		UPDATE territories
		SET owner_realm = $2, health = $3,
		    contested = ($3 < max_health), contested_since = now()
		WHERE territory_id = $1
	`
	if _, err := tx.Exec(ctx, updateQuery, c.TerritoryID, c.ToRealm, newHealth); err != nil {
		return classify(fmt.Sprintf("transferring territory %s", c.TerritoryID), err)
	}

	const insertQuery = `
		INSERT INTO territory_captures (capture_id, territory_id, from_realm, to_realm, captured_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, insertQuery, c.CaptureID, c.TerritoryID, c.FromRealm, c.ToRealm, c.CapturedAt); err != nil {
		return classify(fmt.Sprintf("recording capture of %s", c.TerritoryID), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return classify("committing capture transaction", err)
	}
	return nil
}

// SuperbossRepository persists world-boss health, which decays and
// regenerates independently of territory capture.
type SuperbossRepository struct {
	db *pgxpool.Pool
}

// NewSuperbossRepository constructs a SuperbossRepository.
func NewSuperbossRepository(db *pgxpool.Pool) *SuperbossRepository {
	return &SuperbossRepository{db: db}
}

// All loads every superboss, used to warm the cache on startup.
func (r *SuperbossRepository) All(ctx context.Context) ([]*model.Superboss, error) {
	const query = `SELECT boss_id, health, max_health, x, y FROM superbosses`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, classify("loading superbosses", err)
	}
	defer rows.Close()

	var out []*model.Superboss
	for rows.Next() {
		var b model.Superboss
		if err := rows.Scan(&b.BossID, &b.Health, &b.MaxHealth, &b.X, &b.Y); err != nil {
			return nil, classify("scanning superboss row", err)
		}
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("reading superbosses", err)
	}
	return out, nil
}

// SaveHealth persists a superboss's current health.
func (r *SuperbossRepository) SaveHealth(ctx context.Context, bossID string, health int64) error {
	const query = `UPDATE superbosses SET health = $2 WHERE boss_id = $1`
	tag, err := r.db.Exec(ctx, query, bossID, health)
	if err != nil {
		return classify(fmt.Sprintf("saving superboss %s", bossID), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saving superboss %s: %w", bossID, ErrNotFound)
	}
	return nil
}
