// Package handlers implements the named WebSocket commands: a static
// name-keyed registry replaces the source's runtime event-name dispatch,
// per spec.md §9's "dynamic handler dispatch -> static" design note.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/threerealms/mapserver/internal/bus"
	"github.com/threerealms/mapserver/internal/server"
)

// handlerTimeout bounds a single command's execution, per spec.md §5.
const handlerTimeout = 10 * time.Second

// Handler processes one named command. It returns the ack payload (or an
// error rendered into an ack); it must not block on its own broadcasts.
type Handler func(ctx context.Context, sc *server.Context, c *Conn, payload json.RawMessage) (any, error)

// Conn is the handler-facing view of a bus.Client: the socket that
// issued the current command, plus the user it belongs to.
type Conn struct {
	Client *bus.Client
	UserID string
}

// Dispatcher holds the static command-name -> Handler table built once at
// startup.
type Dispatcher struct {
	handlers map[string]Handler
	locks    *UserLocks
}

// NewDispatcher constructs a Dispatcher with every command registered.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string]Handler),
		locks:    NewUserLocks(),
	}
	d.register("move:request", handleMove)
	d.register("inventory:equip", handleEquip)
	d.register("inventory:unequip", handleUnequip)
	d.register("inventory:use", handleUse)
	d.register("collectable:collect", handleCollect)
	d.register("editor:setWall", handleEditorSetWall)
	d.register("editor:setWater", handleEditorSetWater)
	d.register("editor:setRegion", handleEditorSetRegion)
	d.register("shoutbox:send", handleShoutboxSend)
	return d
}

func (d *Dispatcher) register(name string, h Handler) {
	d.handlers[name] = h
}

// inboundMessage is the wire envelope for a client-issued command.
type inboundMessage struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
	AckID   string          `json:"ackId,omitempty"`
}

// Dispatch decodes one inbound frame and routes it to its handler,
// sending an ack back on the originating socket. Per-user commands are
// serialized via the sharded user-lock table so concurrent requests from
// the same user never interleave, while other users proceed in parallel.
func (d *Dispatcher) Dispatch(ctx context.Context, sc *server.Context, c *Conn, raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		sc.Bus.Ack(c.Client, bus.Event{Name: "error", Payload: map[string]string{"error": "malformed message"}})
		return
	}

	h, ok := d.handlers[msg.Name]
	if !ok {
		sc.Bus.Ack(c.Client, bus.Event{Name: "error", Payload: map[string]string{"error": "unknown command: " + msg.Name}})
		return
	}

	hctx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()

	d.locks.Lock(c.UserID)
	result, err := func() (res any, rerr error) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("handler panicked", "command", msg.Name, "userId", c.UserID, "panic", r)
				rerr = errors.New("internal error")
			}
		}()
		return h(hctx, sc, c, msg.Payload)
	}()
	d.locks.Unlock(c.UserID)

	ackName := msg.Name + ":ack"
	if err != nil {
		sc.Bus.Ack(c.Client, bus.Event{Name: ackName, Payload: map[string]string{"error": err.Error()}})
		return
	}
	sc.Bus.Ack(c.Client, bus.Event{Name: ackName, Payload: result})
}
