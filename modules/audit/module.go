// Package audit provides the built-in connection-audit handler module. It
// is the reference consumer of the extra-argument list: the first
// *slog.Logger found there receives one record per connection.
package audit

import (
	"log/slog"

	"github.com/sockmount/sockmount"
	"github.com/sockmount/sockmount/registry"
)

// Name is the module name manifests refer to.
const Name = "audit"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Log writes one audit record per connection to the first *slog.Logger in
// the extra arguments. Without a logger there the handler is a no-op, so
// the module is safe to mount unconditionally.
func Log(_ sockmount.Server, conn sockmount.Conn, extras ...any) error {
	for _, extra := range extras {
		if logger, ok := extra.(*slog.Logger); ok {
			logger.Info("Connection established.", "conn", conn.ID())
			return nil
		}
	}
	return nil
}

// Register registers the module's exports with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Add(Name, sockmount.Export{Name: "Log", Value: sockmount.ConnectionFunc(Log)})
}
