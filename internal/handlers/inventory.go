package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/threerealms/mapserver/internal/bus"
	"github.com/threerealms/mapserver/internal/model"
	"github.com/threerealms/mapserver/internal/server"
)

type equipRequest struct {
	InventoryID string          `json:"inventoryId"`
	Slot        model.EquipSlot `json:"slot"`
}

type unequipRequest struct {
	Slot model.EquipSlot `json:"slot"`
}

type useRequest struct {
	InventoryID string `json:"inventoryId"`
}

// ErrOnCooldown is returned when inventory:use targets a spell key whose
// cooldown has not yet elapsed.
var ErrOnCooldown = fmt.Errorf("spell on cooldown")

// handleEquip implements inventory:equip: the item's declared slot must
// match the requested slot; if the slot is occupied, the current occupant
// moves back to plain inventory atomically (single equipment upsert).
func handleEquip(ctx context.Context, sc *server.Context, c *Conn, payload json.RawMessage) (any, error) {
	var req equipRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("malformed equip request")
	}

	entries, err := sc.Inventory.ListForUser(ctx, c.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading inventory: %w", err)
	}
	entry := findEntry(entries, req.InventoryID)
	if entry == nil {
		return nil, fmt.Errorf("inventory entry not found")
	}

	item, err := itemFor(ctx, sc, entry.ItemID)
	if err != nil {
		return nil, err
	}
	if item.Slot != req.Slot {
		return nil, fmt.Errorf("item does not fit slot %s", req.Slot)
	}

	if err := sc.Equipment.Equip(ctx, c.UserID, req.Slot, req.InventoryID); err != nil {
		return nil, fmt.Errorf("equipping: %w", err)
	}
	sc.Cache.InvalidateWalkSpeed(ctx, c.UserID)

	sc.Bus.SendToUser(c.UserID, bus.Event{Name: "inventory:refresh", Payload: map[string]string{"userId": c.UserID}})
	return map[string]string{"slot": string(req.Slot)}, nil
}

// handleUnequip implements inventory:unequip, symmetric with handleEquip.
func handleUnequip(ctx context.Context, sc *server.Context, c *Conn, payload json.RawMessage) (any, error) {
	var req unequipRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("malformed unequip request")
	}

	if err := sc.Equipment.Unequip(ctx, c.UserID, req.Slot); err != nil {
		return nil, fmt.Errorf("unequipping: %w", err)
	}
	sc.Cache.InvalidateWalkSpeed(ctx, c.UserID)

	sc.Bus.SendToUser(c.UserID, bus.Event{Name: "inventory:refresh", Payload: map[string]string{"userId": c.UserID}})
	return map[string]string{"slot": string(req.Slot)}, nil
}

// handleUse implements inventory:use. Consumables decrement (or delete at
// zero); if the effect starts an active spell sharing a spellKey with one
// already running, the new cast replaces rather than stacks it. A spell
// still on cooldown is rejected with ErrOnCooldown.
func handleUse(ctx context.Context, sc *server.Context, c *Conn, payload json.RawMessage) (any, error) {
	var req useRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("malformed use request")
	}

	entries, err := sc.Inventory.ListForUser(ctx, c.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading inventory: %w", err)
	}
	entry := findEntry(entries, req.InventoryID)
	if entry == nil {
		return nil, fmt.Errorf("inventory entry not found")
	}

	item, err := itemFor(ctx, sc, entry.ItemID)
	if err != nil {
		return nil, err
	}
	if item.Type != model.ItemConsumable {
		return nil, fmt.Errorf("item is not consumable")
	}

	active, err := sc.Spells.ListForUser(ctx, c.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading active spells: %w", err)
	}
	if existing := findSpellByKey(active, item.TemplateKey); existing != nil && existing.Cooldown > 0 {
		return nil, ErrOnCooldown
	}

	if entry.Quantity <= 1 {
		if err := sc.Inventory.Remove(ctx, entry.InventoryID); err != nil {
			return nil, fmt.Errorf("consuming item: %w", err)
		}
	} else {
		if err := sc.Inventory.SetQuantity(ctx, entry.InventoryID, entry.Quantity-1); err != nil {
			return nil, fmt.Errorf("consuming item: %w", err)
		}
	}

	duration := spellDuration(item)
	spell := &model.ActiveSpell{
		SpellID:     uuid.NewString(),
		UserID:      c.UserID,
		SpellKey:    item.TemplateKey,
		Duration:    duration,
		Remaining:   duration,
		HealPerTick: item.Stats.HealPerTick,
		WalkSpeed:   item.Stats.WalkSpeed,
		Cooldown:    spellCooldown(item, duration),
	}
	if existing := findSpellByKey(active, item.TemplateKey); existing != nil {
		spell.SpellID = existing.SpellID
	}
	if err := sc.Spells.Upsert(ctx, spell); err != nil {
		return nil, fmt.Errorf("applying effect: %w", err)
	}
	if spell.WalkSpeed != 0 {
		sc.Cache.InvalidateWalkSpeed(ctx, c.UserID)
	}

	sc.Bus.SendToUser(c.UserID, bus.Event{
		Name:    "inventory:refresh",
		Payload: map[string]string{"userId": c.UserID},
	})
	return map[string]string{"spellKey": spell.SpellKey}, nil
}

// spellDuration derives an effect's duration from its item stats. Items
// with no walk-speed or heal component run a short fixed buff window.
func spellDuration(item *model.Item) int32 {
	if item.Stats.WalkSpeed != 0 || item.Stats.HealPerTick != 0 {
		return 30
	}
	return 10
}

// spellCooldown derives the recast lockout from the item template, clamped
// to duration so it always clears by the time the row is removed (Remaining
// <= 0), per the ActiveSpell invariant.
func spellCooldown(item *model.Item, duration int32) int32 {
	cd := item.Stats.Cooldown
	if cd > duration {
		cd = duration
	}
	return cd
}

func findEntry(entries []*model.InventoryEntry, inventoryID string) *model.InventoryEntry {
	for _, e := range entries {
		if e.InventoryID == inventoryID {
			return e
		}
	}
	return nil
}

func findSpellByKey(spells []*model.ActiveSpell, spellKey string) *model.ActiveSpell {
	for _, s := range spells {
		if s.SpellKey == spellKey {
			return s
		}
	}
	return nil
}

// itemFor resolves an item template, falling back to persistence and
// back-filling the cache on a miss.
func itemFor(ctx context.Context, sc *server.Context, itemID string) (*model.Item, error) {
	if cached, err := sc.Cache.GetItemByID(ctx, itemID); err == nil && cached != nil {
		return cached, nil
	}
	item, err := sc.Items.Get(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("loading item %s: %w", itemID, err)
	}
	sc.Cache.PutItem(ctx, item)
	return item, nil
}
