// Package wshub provides a self-contained WebSocket hub that implements
// sockmount.Server over gorilla/websocket. It is the lightweight
// alternative to the socket.io adapter: plain WebSocket clients receive
// events as JSON frames of the form {"event": ..., "args": [...]}.
package wshub

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sockmount/sockmount"
)

// Hub upgrades HTTP requests to WebSocket connections, tracks the active
// clients and fans connection events out to the registered listeners. It
// implements both sockmount.Server and http.Handler.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu        sync.RWMutex
	clients   map[string]*Client
	listeners []func(sockmount.Conn)
}

// New creates an empty hub. A nil logger disables hub logging.
func New(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[string]*Client),
	}
}

// OnConnection implements sockmount.Server. Listeners fire in registration
// order on the goroutine serving the new connection.
func (h *Hub) OnConnection(listener func(conn sockmount.Conn)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, listener)
}

// ServeHTTP upgrades the request and serves the connection until the peer
// goes away. The write pump is running before any listener fires, so
// handlers may Emit immediately.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed.", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	h.clients[client.id] = client
	listeners := slices.Clone(h.listeners)
	h.mu.Unlock()
	h.logger.Debug("Client connected.", "id", client.id, "remote_addr", r.RemoteAddr)

	go client.writePump()
	for _, listener := range listeners {
		listener(client)
	}
	client.readPump()
}

// Broadcast emits an event to every connected client. Clients whose send
// buffer is full are dropped, the slow-consumer policy of the classic
// gorilla chat hub.
func (h *Hub) Broadcast(event string, args ...any) error {
	frame, err := json.Marshal(eventFrame{Event: event, Args: args})
	if err != nil {
		return fmt.Errorf("failed to encode event %q: %w", event, err)
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- frame:
		default:
			h.remove(c)
		}
	}
	return nil
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// remove drops a client from the set and closes its send channel, which
// stops the write pump.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
		h.logger.Debug("Client disconnected.", "id", c.id)
	}
}
