// Package welcome provides the built-in greeting handler module.
package welcome

import (
	"github.com/sockmount/sockmount"
	"github.com/sockmount/sockmount/registry"
)

// Name is the module name manifests refer to.
const Name = "welcome"

// DefaultGreeting is emitted when the extra arguments carry no greeting.
const DefaultGreeting = "welcome aboard"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Greet emits a "welcome" event to the connecting client. The first string
// among the extra arguments overrides the default greeting.
func Greet(_ sockmount.Server, conn sockmount.Conn, extras ...any) error {
	greeting := DefaultGreeting
	for _, extra := range extras {
		if s, ok := extra.(string); ok {
			greeting = s
			break
		}
	}
	return conn.Emit("welcome", greeting, conn.ID())
}

// Register registers the module's exports with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Add(Name, sockmount.Export{Name: "Greet", Value: sockmount.ConnectionFunc(Greet)})
}
