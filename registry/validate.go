package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/sockmount/sockmount"
	"github.com/sockmount/sockmount/internal/ctxlog"
)

// Validate performs a strict parity check between the registered export
// tables and the handler shapes the binder accepts. It classifies every
// export without constructing anything, so it is safe to run at startup.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	var errs []string
	for _, name := range r.names {
		for _, exp := range r.tables[name] {
			if _, err := sockmount.KindOf(exp.Value); err != nil {
				errs = append(errs, fmt.Sprintf("module '%s': export '%s': %v", name, exp.Name, err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validation passed.", "modules", len(r.names))
	return nil
}
