// Package bus is the event broadcaster: WebSocket connections wrapped in
// a per-socket Client with a buffered outbound channel, addressed
// globally, per-user, or as a direct ack reply.
package bus

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendQueueSize   = 256
	backpressureLow = sendQueueSize / 4
	pingPeriod      = 5 * time.Second
	pongTimeout     = 2 * time.Second
)

// Event is a server-originated message: a name and an arbitrary JSON
// payload, matching the wire shape spec.md's §6 streaming transport
// describes.
type Event struct {
	Name    string `json:"name"`
	Payload any    `json:"payload,omitempty"`
}

// Client is one WebSocket connection for one authenticated user. A user
// may have several Clients open at once (multiple tabs); see Hub.byUser.
type Client struct {
	conn   *websocket.Conn
	UserID string
	send   chan []byte

	backpressureSent bool
}

// newClient wraps a websocket connection for a given user.
func newClient(conn *websocket.Conn, userID string) *Client {
	return &Client{
		conn:   conn,
		UserID: userID,
		send:   make(chan []byte, sendQueueSize),
	}
}

// Send enqueues an event for delivery without blocking. On queue
// overflow, the oldest buffered message is dropped and a backpressure
// event is sent once, per spec.md §4.6.
func (c *Client) Send(ev Event) {
	raw, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("bus: marshal event failed", "event", ev.Name, "error", err)
		return
	}
	c.sendRaw(raw)
}

func (c *Client) sendRaw(raw []byte) {
	select {
	case c.send <- raw:
		if c.backpressureSent && len(c.send) < backpressureLow {
			c.backpressureSent = false
		}
		return
	default:
	}

	// Queue full: drop oldest, retry once, then notify the client it
	// may have missed events.
	select {
	case <-c.send:
	default:
	}
	select {
	case c.send <- raw:
	default:
	}
	if !c.backpressureSent {
		c.backpressureSent = true
		bp, err := json.Marshal(Event{Name: "backpressure"})
		if err == nil {
			select {
			case c.send <- bp:
			default:
			}
		}
	}
}

// writePump drains the send channel to the socket and maintains the
// ping/pong heartbeat. Runs in its own goroutine per client.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.conn.Close()

	for {
		select {
		case raw, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(pongTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes inbound frames and dispatches them via handle. Runs
// in its own goroutine per client; returns (closing the connection) on
// any read error, including a missed pong deadline.
func (c *Client) readPump(onMessage func(*Client, []byte), onClose func(*Client)) {
	defer func() {
		onClose(c)
		c.conn.Close()
	}()

	// Two missed pings before the connection is considered dead.
	readDeadline := 2*pingPeriod + pongTimeout
	c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		onMessage(c, raw)
	}
}
