package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/threerealms/mapserver/internal/model"
)

// SpellRepository persists active spell effects so cooldowns and buff
// durations survive a reconnect. There is no spell cache in front of it:
// the spells and health workers read and write it directly every tick.
type SpellRepository struct {
	db *pgxpool.Pool
}

// NewSpellRepository constructs a SpellRepository.
func NewSpellRepository(db *pgxpool.Pool) *SpellRepository {
	return &SpellRepository{db: db}
}

// ListAll loads every active spell effect across all users, for the
// spells tick worker's per-second sweep.
func (r *SpellRepository) ListAll(ctx context.Context) ([]*model.ActiveSpell, error) {
	const query = `
		SELECT spell_id, user_id, spell_key, duration, remaining,
		       heal_per_tick, mana_per_tick, damage_per_tick, walk_speed, cooldown
		FROM active_spells
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, classify("loading all active spells", err)
	}
	defer rows.Close()

	var out []*model.ActiveSpell
	for rows.Next() {
		var s model.ActiveSpell
		if err := rows.Scan(
			&s.SpellID, &s.UserID, &s.SpellKey, &s.Duration, &s.Remaining,
			&s.HealPerTick, &s.ManaPerTick, &s.DamagePerTick, &s.WalkSpeed, &s.Cooldown,
		); err != nil {
			return nil, classify("scanning spell row", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("reading all active spells", err)
	}
	return out, nil
}

// ListForUser loads every active spell effect for a user.
func (r *SpellRepository) ListForUser(ctx context.Context, userID string) ([]*model.ActiveSpell, error) {
	const query = `
		SELECT spell_id, user_id, spell_key, duration, remaining,
		       heal_per_tick, mana_per_tick, damage_per_tick, walk_speed, cooldown
		FROM active_spells
		WHERE user_id = $1
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, classify(fmt.Sprintf("loading spells for %s", userID), err)
	}
	defer rows.Close()

	var out []*model.ActiveSpell
	for rows.Next() {
		var s model.ActiveSpell
		if err := rows.Scan(
			&s.SpellID, &s.UserID, &s.SpellKey, &s.Duration, &s.Remaining,
			&s.HealPerTick, &s.ManaPerTick, &s.DamagePerTick, &s.WalkSpeed, &s.Cooldown,
		); err != nil {
			return nil, classify("scanning spell row", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("reading spells", err)
	}
	return out, nil
}

// Upsert saves a spell effect, e.g. on cast or on periodic cooldown
// checkpoint.
func (r *SpellRepository) Upsert(ctx context.Context, s *model.ActiveSpell) error {
	const query = `
		INSERT INTO active_spells (spell_id, user_id, spell_key, duration, remaining,
		                           heal_per_tick, mana_per_tick, damage_per_tick, walk_speed, cooldown)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (spell_id) DO UPDATE SET
			remaining = EXCLUDED.remaining,
			cooldown = EXCLUDED.cooldown
	`
	_, err := r.db.Exec(ctx, query,
		s.SpellID, s.UserID, s.SpellKey, s.Duration, s.Remaining,
		s.HealPerTick, s.ManaPerTick, s.DamagePerTick, s.WalkSpeed, s.Cooldown,
	)
	if err != nil {
		return classify(fmt.Sprintf("saving spell %s", s.SpellID), err)
	}
	return nil
}

// DeleteExpired removes a spell effect once it expires.
func (r *SpellRepository) DeleteExpired(ctx context.Context, spellID string) error {
	const query = `DELETE FROM active_spells WHERE spell_id = $1`
	_, err := r.db.Exec(ctx, query, spellID)
	if err != nil {
		return classify(fmt.Sprintf("deleting spell %s", spellID), err)
	}
	return nil
}
