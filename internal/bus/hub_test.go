package bus

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestClient(userID string) *Client {
	return &Client{UserID: userID, send: make(chan []byte, sendQueueSize)}
}

// registerTestClient adds a client directly to the hub's bookkeeping,
// mirroring what Register does but without a real websocket connection,
// and reports whether it was the user's first socket.
func registerTestClient(h *Hub, c *Client) bool {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	set, ok := h.byUser[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.byUser[c.UserID] = set
	}
	firstForUser := len(set) == 0
	set[c] = struct{}{}
	h.mu.Unlock()
	h.cancelPendingDisconnect(c.UserID)
	return firstForUser
}

func drainEventNames(t *testing.T, ch chan []byte) []string {
	t.Helper()
	var names []string
	for {
		select {
		case raw := <-ch:
			var ev Event
			if err := json.Unmarshal(raw, &ev); err != nil {
				t.Fatalf("decoding event: %v", err)
			}
			names = append(names, ev.Name)
		default:
			return names
		}
	}
}

func TestHub_ReconnectWithinWindow_NoDuplicateEvents(t *testing.T) {
	h := NewHub(nil)
	observer := newTestClient("observer")
	registerTestClient(h, observer)

	flaky := newTestClient("flaky")
	if first := registerTestClient(h, flaky); !first {
		t.Fatal("expected first registration to report firstForUser")
	}
	h.BroadcastGlobal(Event{Name: "player:connected", Payload: map[string]string{"userId": "flaky"}})

	h.unregister(flaky)

	reconnected := newTestClient("flaky")
	time.Sleep(50 * time.Millisecond) // well within reconnectWindow
	registerTestClient(h, reconnected)

	time.Sleep(reconnectWindow + 200*time.Millisecond)

	names := drainEventNames(t, observer.send)
	for _, n := range names {
		if n == "player:disconnected" {
			t.Error("observed player:disconnected for a reconnect within the debounce window")
		}
	}
}

func TestHub_DisconnectPastWindow_EmitsDisconnected(t *testing.T) {
	h := NewHub(nil)
	observer := newTestClient("observer")
	registerTestClient(h, observer)

	gone := newTestClient("gone")
	registerTestClient(h, gone)

	h.unregister(gone)
	time.Sleep(reconnectWindow + 200*time.Millisecond)

	names := drainEventNames(t, observer.send)
	found := false
	for _, n := range names {
		if n == "player:disconnected" {
			found = true
		}
	}
	if !found {
		t.Error("expected player:disconnected after the debounce window elapsed with no reconnect")
	}
}
