package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/threerealms/mapserver/internal/model"
)

// WalkerRepository persists in-progress movement: a row is written when a
// walk starts and deleted when it ends. current_index is not updated as
// the walk advances, and no startup or reconnect path reads the rows back.
type WalkerRepository struct {
	db *pgxpool.Pool
}

// NewWalkerRepository constructs a WalkerRepository.
func NewWalkerRepository(db *pgxpool.Pool) *WalkerRepository {
	return &WalkerRepository{db: db}
}

// Get loads the active walker for a user, if any.
func (r *WalkerRepository) Get(ctx context.Context, userID string) (*model.ActiveWalker, error) {
	const query = `
		SELECT walker_id, user_id, positions, current_index, updated_at
		FROM walkers
		WHERE user_id = $1
	`
	var w model.ActiveWalker
	var raw []byte
	err := r.db.QueryRow(ctx, query, userID).Scan(&w.WalkerID, &w.UserID, &raw, &w.CurrentIndex, &w.UpdatedAt)
	if err != nil {
		return nil, classify(fmt.Sprintf("loading walker for %s", userID), err)
	}
	if err := json.Unmarshal(raw, &w.Positions); err != nil {
		return nil, fmt.Errorf("decoding walker positions for %s: %w", userID, err)
	}
	return &w, nil
}

// Upsert saves the current walker state, replacing any prior walker for
// the same user — a player can only be walking one path at a time.
func (r *WalkerRepository) Upsert(ctx context.Context, w *model.ActiveWalker) error {
	raw, err := json.Marshal(w.Positions)
	if err != nil {
		return fmt.Errorf("encoding walker positions for %s: %w", w.UserID, err)
	}
	const query = `
		INSERT INTO walkers (walker_id, user_id, positions, current_index, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			walker_id = EXCLUDED.walker_id,
			positions = EXCLUDED.positions,
			current_index = EXCLUDED.current_index,
			updated_at = EXCLUDED.updated_at
	`
	_, execErr := r.db.Exec(ctx, query, w.WalkerID, w.UserID, raw, w.CurrentIndex, w.UpdatedAt)
	if execErr != nil {
		return classify(fmt.Sprintf("saving walker for %s", w.UserID), execErr)
	}
	return nil
}

// Delete removes the walker row once a path completes or is interrupted.
func (r *WalkerRepository) Delete(ctx context.Context, userID string) error {
	const query = `DELETE FROM walkers WHERE user_id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return classify(fmt.Sprintf("deleting walker for %s", userID), err)
	}
	return nil
}
