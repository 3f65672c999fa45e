package bus

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// reconnectWindow is how long a user must stay fully disconnected before
// player:disconnected fires, per spec.md S6.
const reconnectWindow = 2 * time.Second

// Hub tracks every connected Client and routes events to it, generalizing
// the teacher's ClientManager (clients/playerClients/objectIDIndex, one
// sync.RWMutex) to three addressing modes keyed by userId instead of
// account name.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	byUser  map[string]map[*Client]struct{}

	onMessage func(*Client, []byte)

	pendingMu sync.Mutex
	pending   map[string]*time.Timer // userId -> disconnect-debounce timer
}

// NewHub constructs an empty Hub. onMessage is invoked from each client's
// read goroutine for every inbound frame.
func NewHub(onMessage func(*Client, []byte)) *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		byUser:    make(map[string]map[*Client]struct{}),
		onMessage: onMessage,
		pending:   make(map[string]*time.Timer),
	}
}

// Register wraps a websocket connection, adds it to the hub, and starts
// its read/write pumps. Returns the Client so the caller can reply with
// an initial ack.
func (h *Hub) Register(conn *websocket.Conn, userID string) *Client {
	c := newClient(conn, userID)

	h.mu.Lock()
	h.clients[c] = struct{}{}
	set, ok := h.byUser[userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.byUser[userID] = set
	}
	firstForUser := len(set) == 0
	set[c] = struct{}{}
	h.mu.Unlock()

	h.cancelPendingDisconnect(userID)
	if firstForUser {
		h.BroadcastGlobal(Event{Name: "player:connected", Payload: map[string]string{"userId": userID}})
	}

	go c.writePump()
	go c.readPump(h.onMessage, h.unregister)

	return c
}

// unregister removes a client from the hub. If it was the user's last
// socket, player:disconnected is debounced by reconnectWindow so a fast
// reconnect produces no visible flicker (spec.md S6).
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	lastForUser := false
	if set, ok := h.byUser[c.UserID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.byUser, c.UserID)
			lastForUser = true
		}
	}
	h.mu.Unlock()
	close(c.send)

	if !lastForUser {
		return
	}

	h.pendingMu.Lock()
	h.pending[c.UserID] = time.AfterFunc(reconnectWindow, func() {
		h.pendingMu.Lock()
		delete(h.pending, c.UserID)
		h.pendingMu.Unlock()
		h.BroadcastGlobal(Event{Name: "player:disconnected", Payload: map[string]string{"userId": c.UserID}})
	})
	h.pendingMu.Unlock()
}

func (h *Hub) cancelPendingDisconnect(userID string) {
	h.pendingMu.Lock()
	defer h.pendingMu.Unlock()
	if t, ok := h.pending[userID]; ok {
		t.Stop()
		delete(h.pending, userID)
	}
}

// BroadcastGlobal sends an event to every connected socket.
func (h *Hub) BroadcastGlobal(ev Event) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(ev)
	}
}

// SendToUser sends an event to every socket owned by a userId (all of
// that user's open tabs).
func (h *Hub) SendToUser(userID string, ev Event) {
	h.mu.RLock()
	set := h.byUser[userID]
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(ev)
	}
}

// Ack replies to the specific socket that issued a request.
func (h *Hub) Ack(c *Client, ev Event) {
	c.Send(ev)
}

// ConnectionCount returns the number of live sockets, for /health and
// metrics.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsOnline reports whether a user has at least one live socket.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.byUser[userID]
	return ok
}

// OnlineUserIDs returns every userId with at least one live socket, for
// workers that only need to touch connected players (e.g. passive vitals
// regen).
func (h *Hub) OnlineUserIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.byUser))
	for userID := range h.byUser {
		out = append(out, userID)
	}
	return out
}
