package registry

import (
	"fmt"
	"slices"

	"github.com/sockmount/sockmount"
)

// Module is the interface compiled-in handler modules implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the export table of every compiled-in module, keyed by the
// module name manifests refer to.
type Registry struct {
	names  []string
	tables map[string][]sockmount.Export
}

// New creates a Registry and registers the given modules in order.
func New(modules ...Module) *Registry {
	r := &Registry{tables: make(map[string][]sockmount.Export)}
	for _, mod := range modules {
		mod.Register(r)
	}
	return r
}

// Add registers a module's export table under name. Export order is the
// dispatch order within the module. Registering a name twice is a
// programmer error and panics.
func (r *Registry) Add(name string, exports ...sockmount.Export) {
	if _, exists := r.tables[name]; exists {
		panic(fmt.Sprintf("module with name '%s' already registered", name))
	}
	r.names = append(r.names, name)
	r.tables[name] = exports
}

// Lookup returns the export table registered under name.
func (r *Registry) Lookup(name string) ([]sockmount.Export, bool) {
	exports, ok := r.tables[name]
	return exports, ok
}

// Names returns the registered module names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}
