package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/threerealms/mapserver/internal/model"
)

// ItemRepository persists item templates — the read-mostly catalog cached
// by internal/cache.
type ItemRepository struct {
	db *pgxpool.Pool
}

// NewItemRepository constructs an ItemRepository.
func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{db: db}
}

// Get loads a single item template by ID.
func (r *ItemRepository) Get(ctx context.Context, itemID string) (*model.Item, error) {
	const query = `
		SELECT item_id, template_key, item_type, slot, damage, armor,
		       walk_speed, heal_per_tick, cooldown, rarity
		FROM items
		WHERE item_id = $1
	`
	var it model.Item
	err := r.db.QueryRow(ctx, query, itemID).Scan(
		&it.ItemID, &it.TemplateKey, &it.Type, &it.Slot,
		&it.Stats.Damage, &it.Stats.Armor, &it.Stats.WalkSpeed, &it.Stats.HealPerTick,
		&it.Stats.Cooldown, &it.Rarity,
	)
	if err != nil {
		return nil, classify(fmt.Sprintf("loading item %s", itemID), err)
	}
	return &it, nil
}

// All loads the full item catalog, used to warm the cache on startup.
func (r *ItemRepository) All(ctx context.Context) ([]*model.Item, error) {
	const query = `
		SELECT item_id, template_key, item_type, slot, damage, armor,
		       walk_speed, heal_per_tick, cooldown, rarity
		FROM items
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, classify("loading item catalog", err)
	}
	defer rows.Close()

	var items []*model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(
			&it.ItemID, &it.TemplateKey, &it.Type, &it.Slot,
			&it.Stats.Damage, &it.Stats.Armor, &it.Stats.WalkSpeed, &it.Stats.HealPerTick,
			&it.Stats.Cooldown, &it.Rarity,
		); err != nil {
			return nil, classify("scanning item row", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("reading item catalog", err)
	}
	return items, nil
}

// InventoryRepository persists per-player item ownership.
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository constructs an InventoryRepository.
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// ListForUser loads every inventory entry owned by a user.
func (r *InventoryRepository) ListForUser(ctx context.Context, userID string) ([]*model.InventoryEntry, error) {
	const query = `
		SELECT inventory_id, user_id, item_id, quantity
		FROM inventory
		WHERE user_id = $1
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, classify(fmt.Sprintf("loading inventory for %s", userID), err)
	}
	defer rows.Close()

	var entries []*model.InventoryEntry
	for rows.Next() {
		var e model.InventoryEntry
		if err := rows.Scan(&e.InventoryID, &e.UserID, &e.ItemID, &e.Quantity); err != nil {
			return nil, classify("scanning inventory row", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("reading inventory", err)
	}
	return entries, nil
}

// Add inserts a new inventory entry for a user.
func (r *InventoryRepository) Add(ctx context.Context, e *model.InventoryEntry) error {
	const query = `
		INSERT INTO inventory (inventory_id, user_id, item_id, quantity)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, e.InventoryID, e.UserID, e.ItemID, e.Quantity)
	if err != nil {
		return classify(fmt.Sprintf("adding inventory entry %s", e.InventoryID), err)
	}
	return nil
}

// Remove deletes an inventory entry, e.g. after a consumable is used up.
func (r *InventoryRepository) Remove(ctx context.Context, inventoryID string) error {
	const query = `DELETE FROM inventory WHERE inventory_id = $1`
	tag, err := r.db.Exec(ctx, query, inventoryID)
	if err != nil {
		return classify(fmt.Sprintf("removing inventory entry %s", inventoryID), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("removing inventory entry %s: %w", inventoryID, ErrNotFound)
	}
	return nil
}

// SetQuantity updates stack size, e.g. after a partial consumable use.
func (r *InventoryRepository) SetQuantity(ctx context.Context, inventoryID string, quantity int32) error {
	const query = `UPDATE inventory SET quantity = $2 WHERE inventory_id = $1`
	tag, err := r.db.Exec(ctx, query, inventoryID, quantity)
	if err != nil {
		return classify(fmt.Sprintf("updating quantity for %s", inventoryID), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating quantity for %s: %w", inventoryID, ErrNotFound)
	}
	return nil
}

// EquipmentRepository persists which item occupies which slot per user.
type EquipmentRepository struct {
	db *pgxpool.Pool
}

// NewEquipmentRepository constructs an EquipmentRepository.
func NewEquipmentRepository(db *pgxpool.Pool) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

// Load reconstructs an Equipment set for a user.
func (r *EquipmentRepository) Load(ctx context.Context, userID string) (*model.Equipment, error) {
	const query = `SELECT slot, inventory_id FROM equipment WHERE user_id = $1`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, classify(fmt.Sprintf("loading equipment for %s", userID), err)
	}
	defer rows.Close()

	eq := model.NewEquipment(userID)
	for rows.Next() {
		var slot model.EquipSlot
		var inventoryID string
		if err := rows.Scan(&slot, &inventoryID); err != nil {
			return nil, classify("scanning equipment row", err)
		}
		eq.Slots[slot] = inventoryID
	}
	if err := rows.Err(); err != nil {
		return nil, classify("reading equipment", err)
	}
	return eq, nil
}

// Equip upserts the inventory entry occupying a slot.
func (r *EquipmentRepository) Equip(ctx context.Context, userID string, slot model.EquipSlot, inventoryID string) error {
	const query = `
		INSERT INTO equipment (user_id, slot, inventory_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, slot) DO UPDATE SET inventory_id = EXCLUDED.inventory_id
	`
	_, err := r.db.Exec(ctx, query, userID, slot, inventoryID)
	if err != nil {
		return classify(fmt.Sprintf("equipping slot %v for %s", slot, userID), err)
	}
	return nil
}

// Unequip clears a slot.
func (r *EquipmentRepository) Unequip(ctx context.Context, userID string, slot model.EquipSlot) error {
	const query = `DELETE FROM equipment WHERE user_id = $1 AND slot = $2`
	_, err := r.db.Exec(ctx, query, userID, slot)
	if err != nil {
		return classify(fmt.Sprintf("unequipping slot %v for %s", slot, userID), err)
	}
	return nil
}
