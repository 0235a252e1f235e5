package wshub

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Per-client send buffer, in frames.
	sendBuffer = 256

	// Inbound frames are control traffic only, keep them small.
	maxMessageSize = 512
)

// eventFrame is the wire shape of an emitted event.
type eventFrame struct {
	Event string `json:"event"`
	Args  []any  `json:"args"`
}

// Client is one connected peer. It implements sockmount.Conn.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// ID implements sockmount.Conn.
func (c *Client) ID() string {
	return c.id
}

// Emit implements sockmount.Conn by queueing a JSON event frame for the
// write pump. A full send buffer is an error rather than a blocked
// handler.
func (c *Client) Emit(event string, args ...any) error {
	frame, err := json.Marshal(eventFrame{Event: event, Args: args})
	if err != nil {
		return fmt.Errorf("failed to encode event %q: %w", event, err)
	}
	select {
	case c.send <- frame:
		return nil
	default:
		return fmt.Errorf("send buffer full for client %s", c.id)
	}
}

// readPump keeps the connection's read side alive and unregisters the
// client when the peer goes away. Inbound payloads are not routed anywhere;
// the hub only pushes events out.
//
// The application ensures that there is at most one reader on a connection
// by executing all reads from this goroutine.
func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Error("Unexpected close on WebSocket read.", "id", c.id, "error", err)
			}
			return
		}
	}
}

// writePump pumps queued frames to the connection and keeps it alive with
// pings.
//
// A goroutine running writePump is started for each connection. The
// application ensures that there is at most one writer to a connection by
// executing all writes from this goroutine.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.hub.logger.Error("Failed to write WebSocket frame.", "id", c.id, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
