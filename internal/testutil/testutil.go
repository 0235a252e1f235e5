// Package testutil provides shared doubles and helpers for exercising the
// binding pipeline in tests: a stub server and connection, a thread-safe
// log buffer, and fixture writers.
package testutil

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sockmount/sockmount"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// NewLogger returns an isolated text logger at debug level writing to w.
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// EmittedEvent records one Emit call observed by a StubConn.
type EmittedEvent struct {
	Event string
	Args  []any
}

// StubConn is an in-memory sockmount.Conn that records every emitted event.
type StubConn struct {
	id string

	mu     sync.Mutex
	events []EmittedEvent
}

// NewStubConn creates a StubConn with the given id.
func NewStubConn(id string) *StubConn {
	return &StubConn{id: id}
}

// ID implements sockmount.Conn.
func (c *StubConn) ID() string { return c.id }

// Emit implements sockmount.Conn by recording the event.
func (c *StubConn) Emit(event string, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, EmittedEvent{Event: event, Args: args})
	return nil
}

// Events returns a copy of the recorded events in emission order.
func (c *StubConn) Events() []EmittedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]EmittedEvent, len(c.events))
	copy(out, c.events)
	return out
}

// StubServer is an in-memory sockmount.Server. Tests fire connection events
// by calling Connect, which invokes every registered listener in order.
type StubServer struct {
	mu        sync.Mutex
	listeners []func(sockmount.Conn)
}

// OnConnection implements sockmount.Server.
func (s *StubServer) OnConnection(listener func(conn sockmount.Conn)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// ListenerCount returns how many listeners have been registered.
func (s *StubServer) ListenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// Connect simulates a connection event: every registered listener fires
// with conn, in registration order.
func (s *StubServer) Connect(conn sockmount.Conn) {
	s.mu.Lock()
	listeners := make([]func(sockmount.Conn), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l(conn)
	}
}

// WriteFiles writes the given name-to-content map under dir, creating parent
// directories as needed. Names may contain subdirectory components.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// DumpLogs prints the captured log output after the test when the
// SOCKMOUNT_TEST_LOGS environment variable is set to "true".
func DumpLogs(t *testing.T, buf *SafeBuffer) {
	t.Helper()
	t.Cleanup(func() {
		if os.Getenv("SOCKMOUNT_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
}
