package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/threerealms/mapserver/internal/model"
)

// PlayerRepository persists Player aggregates.
type PlayerRepository struct {
	db *pgxpool.Pool
}

// NewPlayerRepository constructs a PlayerRepository.
func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Get loads a player by user ID. Returns ErrNotFound if no row matches.
func (r *PlayerRepository) Get(ctx context.Context, userID string) (*model.Player, error) {
	const query = `
		SELECT user_id, username, realm, x, y, health, max_health, mana, max_mana,
		       level, xp, last_active
		FROM players
		WHERE user_id = $1
	`
	var p model.Player
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.Username, &p.Realm, &p.X, &p.Y, &p.Health, &p.MaxHealth,
		&p.Mana, &p.MaxMana, &p.Level, &p.XP, &p.LastActive,
	)
	if err != nil {
		return nil, classify(fmt.Sprintf("loading player %s", userID), err)
	}
	return &p, nil
}

// GetMany loads multiple players in one round trip, used by the health
// worker to regenerate vitals for every online player per tick.
func (r *PlayerRepository) GetMany(ctx context.Context, userIDs []string) ([]*model.Player, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	const query = `
		SELECT user_id, username, realm, x, y, health, max_health, mana, max_mana,
		       level, xp, last_active
		FROM players
		WHERE user_id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, classify("loading players batch", err)
	}
	defer rows.Close()

	var out []*model.Player
	for rows.Next() {
		var p model.Player
		if err := rows.Scan(
			&p.UserID, &p.Username, &p.Realm, &p.X, &p.Y, &p.Health, &p.MaxHealth,
			&p.Mana, &p.MaxMana, &p.Level, &p.XP, &p.LastActive,
		); err != nil {
			return nil, classify("scanning player row", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("reading players batch", err)
	}
	return out, nil
}

// Create inserts a new player row. Returns ErrConflict if the user ID
// already has a row (a realm may only be selected once).
func (r *PlayerRepository) Create(ctx context.Context, p *model.Player) error {
	const query = `
		INSERT INTO players (user_id, username, realm, x, y, health, max_health,
		                      mana, max_mana, level, xp, last_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		p.UserID, p.Username, p.Realm, p.X, p.Y, p.Health, p.MaxHealth,
		p.Mana, p.MaxMana, p.Level, p.XP, p.LastActive,
	)
	if err != nil {
		return classify(fmt.Sprintf("creating player %s", p.UserID), err)
	}
	return nil
}

// SavePosition updates position and activity timestamp. Called by the
// walker worker when a walk completes or is interrupted.
func (r *PlayerRepository) SavePosition(ctx context.Context, userID string, x, y int32, lastActive int64) error {
	const query = `UPDATE players SET x = $2, y = $3, last_active = $4 WHERE user_id = $1`
	tag, err := r.db.Exec(ctx, query, userID, x, y, lastActive)
	if err != nil {
		return classify(fmt.Sprintf("saving position for %s", userID), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saving position for %s: %w", userID, ErrNotFound)
	}
	return nil
}

// SaveVitals updates health and mana, e.g. after a heal/damage tick.
func (r *PlayerRepository) SaveVitals(ctx context.Context, userID string, health, mana int32) error {
	const query = `UPDATE players SET health = $2, mana = $3 WHERE user_id = $1`
	tag, err := r.db.Exec(ctx, query, userID, health, mana)
	if err != nil {
		return classify(fmt.Sprintf("saving vitals for %s", userID), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saving vitals for %s: %w", userID, ErrNotFound)
	}
	return nil
}
