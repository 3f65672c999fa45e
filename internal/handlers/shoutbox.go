package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/threerealms/mapserver/internal/bus"
	"github.com/threerealms/mapserver/internal/model"
	"github.com/threerealms/mapserver/internal/server"
)

type shoutboxSendRequest struct {
	Message string `json:"message"`
}

// handleShoutboxSend implements shoutbox:send: a plain message writes
// through to persistence, pushes onto the capped cache list, and
// broadcasts shoutbox:message. A message prefixed "/" is instead parsed
// as a GM slash-command and never reaches the public feed.
func handleShoutboxSend(ctx context.Context, sc *server.Context, c *Conn, payload json.RawMessage) (any, error) {
	var req shoutboxSendRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("malformed shoutbox message")
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return nil, fmt.Errorf("empty message")
	}

	if strings.HasPrefix(req.Message, "/") {
		return handleGMCommand(ctx, sc, c, req.Message)
	}

	player, err := sc.Players.Get(ctx, c.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading player: %w", err)
	}

	id, err := sc.Shoutbox.Append(ctx, player.Username, req.Message)
	if err != nil {
		return nil, fmt.Errorf("persisting shoutbox message: %w", err)
	}
	msg := &model.ShoutboxMessage{EntryID: id, Username: player.Username, Message: req.Message}
	sc.Cache.PushShoutboxMessage(ctx, msg)

	sc.Bus.BroadcastGlobal(bus.Event{
		Name: "shoutbox:message",
		Payload: map[string]any{
			"entryId":  msg.EntryID,
			"username": msg.Username,
			"message":  msg.Message,
		},
	})
	return map[string]int64{"entryId": id}, nil
}

// handleGMCommand parses and executes a "/"-prefixed shoutbox command.
// Every command requires GM status; none of them reach the public feed.
func handleGMCommand(ctx context.Context, sc *server.Context, c *Conn, line string) (any, error) {
	if err := requireGM(ctx, sc, c.UserID); err != nil {
		return nil, err
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/item":
		return gmGrantItem(ctx, sc, fields)
	case "/announce":
		return gmAnnounce(ctx, sc, strings.TrimSpace(strings.TrimPrefix(line, "/announce")))
	case "/online":
		return map[string]int{"online": sc.Bus.ConnectionCount()}, nil
	default:
		return nil, fmt.Errorf("unknown GM command %q", fields[0])
	}
}

// gmGrantItem implements "/item <templateKey> <target> [qty]": credits a
// quantity of an item template to a target user's inventory.
func gmGrantItem(ctx context.Context, sc *server.Context, fields []string) (any, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("usage: /item <templateKey> <target> [qty]")
	}
	templateKey, target := fields[1], fields[2]
	qty := int32(1)
	if len(fields) >= 4 {
		n, err := strconv.Atoi(fields[3])
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid quantity %q", fields[3])
		}
		qty = int32(n)
	}

	item, err := itemByTemplate(ctx, sc, templateKey)
	if err != nil {
		return nil, err
	}

	entry := &model.InventoryEntry{
		InventoryID: uuid.NewString(),
		UserID:      target,
		ItemID:      item.ItemID,
		Quantity:    qty,
	}
	if err := sc.Inventory.Add(ctx, entry); err != nil {
		return nil, fmt.Errorf("granting item: %w", err)
	}
	sc.Bus.SendToUser(target, bus.Event{Name: "inventory:refresh", Payload: map[string]string{"userId": target}})
	return map[string]any{"itemId": item.ItemID, "target": target, "quantity": qty}, nil
}

func itemByTemplate(ctx context.Context, sc *server.Context, templateKey string) (*model.Item, error) {
	if cached, err := sc.Cache.GetItemByTemplate(ctx, templateKey); err == nil && cached != nil {
		return cached, nil
	}
	return nil, fmt.Errorf("item template %q not found", templateKey)
}

// gmAnnounce implements "/announce <message>": a global broadcast
// outside the persisted shoutbox feed.
func gmAnnounce(ctx context.Context, sc *server.Context, message string) (any, error) {
	if message == "" {
		return nil, fmt.Errorf("usage: /announce <message>")
	}
	sc.Bus.BroadcastGlobal(bus.Event{Name: "shoutbox:announce", Payload: map[string]string{"message": message}})
	return map[string]string{"message": message}, nil
}
