// Package socketio adapts a zishang520 socket.io server to the
// sockmount.Server interface.
package socketio

import (
	"github.com/zishang520/socket.io/v2/socket"

	"github.com/sockmount/sockmount"
)

// Server wraps a *socket.Server. Listeners are bound on the root
// namespace; handlers that need rooms, namespaces or broadcast reach the
// underlying server through IO.
type Server struct {
	io *socket.Server
}

// Wrap adapts io for binding. A nil server is a programmer error and
// panics.
func Wrap(io *socket.Server) *Server {
	if io == nil {
		panic("socketio: Wrap called with a nil server")
	}
	return &Server{io: io}
}

// IO returns the underlying socket.io server.
func (s *Server) IO() *socket.Server {
	return s.io
}

// OnConnection implements sockmount.Server. Every call registers one more
// "connection" listener, so repeated binds stay independent.
func (s *Server) OnConnection(listener func(conn sockmount.Conn)) {
	s.io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		listener(&Conn{socket: client})
	})
}

// Conn adapts a *socket.Socket to sockmount.Conn.
type Conn struct {
	socket *socket.Socket
}

// ID returns the socket.io session id.
func (c *Conn) ID() string {
	return string(c.socket.Id())
}

// Emit sends an event to this client.
func (c *Conn) Emit(event string, args ...any) error {
	return c.socket.Emit(event, args...)
}

// Socket returns the wrapped socket.io socket.
func (c *Conn) Socket() *socket.Socket {
	return c.socket
}
