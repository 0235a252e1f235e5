// Package goplugin resolves module files built as native Go plugins.
//
// A plugin module is built with `go build -buildmode=plugin` and publishes
// its export table under a single package-level variable:
//
//	var Exports = []sockmount.Export{
//		{Name: "Greet", Value: sockmount.ConnectionFunc(greet)},
//	}
//
// A `map[string]any` variable is accepted too; its entries are ordered by
// name, since Go maps cannot carry declaration order. Pair this resolver
// with sockmount.WithExtensions("so").
package goplugin

import (
	"context"
	"fmt"
	"path/filepath"
	"plugin"
	"slices"

	"github.com/sockmount/sockmount"
	"github.com/sockmount/sockmount/internal/ctxlog"
)

// DefaultSymbol is the variable name a plugin publishes its table under.
const DefaultSymbol = "Exports"

// Resolver implements sockmount.Resolver over native Go plugins. The zero
// value looks up DefaultSymbol.
type Resolver struct {
	// Symbol overrides DefaultSymbol when non-empty.
	Symbol string
}

// Resolve opens the plugin at path and reads its export table. Every
// failure is hard: a file that is not a loadable plugin, a missing symbol,
// or a symbol of an unsupported type.
func (r *Resolver) Resolve(ctx context.Context, path string) ([]sockmount.Export, error) {
	logger := ctxlog.FromContext(ctx)

	symbol := r.Symbol
	if symbol == "" {
		symbol = DefaultSymbol
	}

	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plugin: %w", err)
	}

	sym, err := p.Lookup(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to look up symbol %q: %w", symbol, err)
	}

	switch table := sym.(type) {
	case *[]sockmount.Export:
		logger.Debug("Plugin resolved.", "file", filepath.Base(path), "symbol", symbol, "exports", len(*table))
		return slices.Clone(*table), nil
	case *map[string]any:
		exports := fromMap(*table)
		logger.Debug("Plugin resolved.", "file", filepath.Base(path), "symbol", symbol, "exports", len(exports))
		return exports, nil
	default:
		return nil, fmt.Errorf("symbol %q has unsupported type %T", symbol, sym)
	}
}

// fromMap flattens a name-to-value table into name order.
func fromMap(table map[string]any) []sockmount.Export {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	slices.Sort(names)

	exports := make([]sockmount.Export, 0, len(table))
	for _, name := range names {
		exports = append(exports, sockmount.Export{Name: name, Value: table[name]})
	}
	return exports
}
