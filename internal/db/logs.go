package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/threerealms/mapserver/internal/model"
)

// LogRepository persists per-player event logs (combat, capture,
// system messages) shown in the client's log panel.
type LogRepository struct {
	db *pgxpool.Pool
}

// NewLogRepository constructs a LogRepository.
func NewLogRepository(db *pgxpool.Pool) *LogRepository {
	return &LogRepository{db: db}
}

// Append inserts a new player log entry.
func (r *LogRepository) Append(ctx context.Context, l *model.PlayerLog) error {
	const query = `
		INSERT INTO player_logs (log_id, user_id, message, log_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, l.LogID, l.UserID, l.Message, l.Type, l.CreatedAt)
	if err != nil {
		return classify(fmt.Sprintf("appending log for %s", l.UserID), err)
	}
	return nil
}

// Recent loads the most recent log entries for a user, newest first.
func (r *LogRepository) Recent(ctx context.Context, userID string, limit int) ([]*model.PlayerLog, error) {
	const query = `
		SELECT log_id, user_id, message, log_type, created_at
		FROM player_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, classify(fmt.Sprintf("loading logs for %s", userID), err)
	}
	defer rows.Close()

	var out []*model.PlayerLog
	for rows.Next() {
		var l model.PlayerLog
		if err := rows.Scan(&l.LogID, &l.UserID, &l.Message, &l.Type, &l.CreatedAt); err != nil {
			return nil, classify("scanning log row", err)
		}
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("reading logs", err)
	}
	return out, nil
}

// ShoutboxRepository persists the global chat/announcement feed.
type ShoutboxRepository struct {
	db *pgxpool.Pool
}

// NewShoutboxRepository constructs a ShoutboxRepository.
func NewShoutboxRepository(db *pgxpool.Pool) *ShoutboxRepository {
	return &ShoutboxRepository{db: db}
}

// Append inserts a shoutbox message and returns the assigned entry ID.
func (r *ShoutboxRepository) Append(ctx context.Context, username, message string) (int64, error) {
	const query = `
		INSERT INTO shoutbox_messages (username, message)
		VALUES ($1, $2)
		RETURNING entry_id
	`
	var id int64
	if err := r.db.QueryRow(ctx, query, username, message).Scan(&id); err != nil {
		return 0, classify("appending shoutbox message", err)
	}
	return id, nil
}

// Since loads messages with entry_id greater than lastID, oldest first —
// used to backfill a client that reconnects after missing broadcasts.
func (r *ShoutboxRepository) Since(ctx context.Context, lastID int64, limit int) ([]*model.ShoutboxMessage, error) {
	const query = `
		SELECT entry_id, username, message, timestamp
		FROM shoutbox_messages
		WHERE entry_id > $1
		ORDER BY entry_id ASC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, lastID, limit)
	if err != nil {
		return nil, classify("loading shoutbox backlog", err)
	}
	defer rows.Close()

	var out []*model.ShoutboxMessage
	for rows.Next() {
		var m model.ShoutboxMessage
		if err := rows.Scan(&m.EntryID, &m.Username, &m.Message, &m.Timestamp); err != nil {
			return nil, classify("scanning shoutbox row", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("reading shoutbox backlog", err)
	}
	return out, nil
}
