package sockmount

import "path/filepath"

// newListener builds the connection listener for one Bind call. The handler
// and extra lists are snapshots owned by the listener, so firing from server
// goroutines never races with later Binder configuration.
//
// Handlers run sequentially in list order. A handler error is logged through
// the unfiltered logger and, unless ContinueOnError is set, stops the rest
// of the fan-out for that event. Panics are not recovered here.
func (b *Binder) newListener(srv Server, handlers []Handler, extras []any) func(Conn) {
	logger := b.opts.Logger
	continueOnError := b.opts.ContinueOnError

	return func(conn Conn) {
		for _, h := range handlers {
			if err := h.fn(srv, conn, extras...); err != nil {
				logger.Error("Connection handler failed.",
					"export", h.Name, "file", filepath.Base(h.Source), "conn", conn.ID(), "error", err)
				if !continueOnError {
					return
				}
			}
		}
	}
}
