// Package presence provides the built-in connection-counting handler
// module. It is the reference stateful module: a constructor export whose
// single instance lives for the lifetime of the listener.
package presence

import (
	"sync"

	"github.com/sockmount/sockmount"
	"github.com/sockmount/sockmount/registry"
)

// Name is the module name manifests refer to.
const Name = "presence"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Tracker counts the connections one listener has seen. Socket servers
// fire connection events from their own goroutines, so the counter guards
// itself.
type Tracker struct {
	mu    sync.Mutex
	total int
}

// NewTracker is the constructor export for the tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Connection counts the connection and tells the client its ordinal.
func (t *Tracker) Connection(_ sockmount.Server, conn sockmount.Conn, _ ...any) error {
	t.mu.Lock()
	t.total++
	total := t.total
	t.mu.Unlock()
	return conn.Emit("presence", total)
}

// Total returns the number of connections seen so far.
func (t *Tracker) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Register registers the module's exports with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Add(Name, sockmount.Export{Name: "Tracker", Value: NewTracker})
}
