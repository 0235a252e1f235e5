package socketio

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zishang520/socket.io/v2/socket"

	"github.com/sockmount/sockmount"
)

func TestWrap_NilServerPanics(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		Wrap(nil)
	})
}

func TestWrap_RegistersConnectionListeners(t *testing.T) {
	t.Parallel()

	// A standalone server instance accepts listener registration without
	// serving; the full round trip lives in the integration tests.
	io := socket.NewServer(nil, nil)
	defer io.Close(nil)

	srv := Wrap(io)
	require.Same(t, io, srv.IO())

	require.NotPanics(t, func() {
		srv.OnConnection(func(sockmount.Conn) {})
		srv.OnConnection(func(sockmount.Conn) {})
	})
}
