package sockmount

import (
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/sockmount/sockmount/internal/ctxlog"
)

// normalize reduces one module's export table to handlers.
//
// Plain-function exports become handlers unchanged. Constructor exports are
// invoked exactly once, here; the instance provides the Connection method
// for the lifetime of the listener being built. An instance without that
// capability is logged and dropped from the list. An export that can never
// be a handler fails the whole call.
func (b *Binder) normalize(path string, exports []Export) ([]Handler, error) {
	logger := ctxlog.FromContext(b.ctx)

	handlers := make([]Handler, 0, len(exports))
	for _, exp := range exports {
		kind, err := KindOf(exp.Value)
		if err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("export %q: %w", exp.Name, err)}
		}

		var fn ConnectionFunc
		switch kind {
		case KindFunc:
			fn = asConnectionFunc(exp.Value)
		case KindStateful:
			instance := reflect.ValueOf(exp.Value).Call(nil)[0].Interface()
			h, ok := instance.(ConnectionHandler)
			if !ok {
				logger.Error("Cannot load route: instance has no Connection method.",
					"export", exp.Name, "file", filepath.Base(path), "instance", fmt.Sprintf("%T", instance))
				continue
			}
			fn = h.Connection
		}

		handlers = append(handlers, Handler{Kind: kind, Name: exp.Name, Source: path, fn: fn})
		logger.Info("Loaded connection handler.", "export", exp.Name, "file", filepath.Base(path), "kind", kind)
	}

	return handlers, nil
}
