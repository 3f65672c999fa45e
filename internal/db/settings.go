package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepository persists free-form per-user client settings (UI
// preferences, keybindings) as opaque JSON — the server never interprets
// the contents.
type SettingsRepository struct {
	db *pgxpool.Pool
}

// NewSettingsRepository constructs a SettingsRepository.
func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get loads raw settings JSON for a user. Returns ErrNotFound if the user
// has never saved settings.
func (r *SettingsRepository) Get(ctx context.Context, userID string) (json.RawMessage, error) {
	const query = `SELECT settings FROM user_settings WHERE user_id = $1`
	var raw json.RawMessage
	if err := r.db.QueryRow(ctx, query, userID).Scan(&raw); err != nil {
		return nil, classify(fmt.Sprintf("loading settings for %s", userID), err)
	}
	return raw, nil
}

// Set upserts raw settings JSON for a user.
func (r *SettingsRepository) Set(ctx context.Context, userID string, settings json.RawMessage) error {
	const query = `
		INSERT INTO user_settings (user_id, settings)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET settings = EXCLUDED.settings
	`
	_, err := r.db.Exec(ctx, query, userID, settings)
	if err != nil {
		return classify(fmt.Sprintf("saving settings for %s", userID), err)
	}
	return nil
}

// ServerTimeRepository persists the epoch the in-game clock is computed
// from.
type ServerTimeRepository struct {
	db *pgxpool.Pool
}

// NewServerTimeRepository constructs a ServerTimeRepository.
func NewServerTimeRepository(db *pgxpool.Pool) *ServerTimeRepository {
	return &ServerTimeRepository{db: db}
}

// Get loads the server's started_at epoch, inserting one set to now if
// none exists yet — first boot establishes the epoch.
func (r *ServerTimeRepository) Get(ctx context.Context) (time.Time, error) {
	const query = `SELECT started_at FROM server_time WHERE id = 1`
	var startedAt time.Time
	err := r.db.QueryRow(ctx, query).Scan(&startedAt)
	if err == nil {
		return startedAt, nil
	}
	if classified := classify("loading server time", err); classified != nil {
		now := time.Now()
		const insertQuery = `
			INSERT INTO server_time (id, started_at) VALUES (1, $1)
			ON CONFLICT (id) DO NOTHING
		`
		if _, execErr := r.db.Exec(ctx, insertQuery, now); execErr != nil {
			return time.Time{}, classify("initializing server time", execErr)
		}
		return r.Get(ctx)
	}
	return time.Time{}, nil
}
