package sockmount

import (
	"context"
	"log/slog"
	"slices"

	"github.com/sockmount/sockmount/internal/ctxlog"
)

// Binder is the chainable facade tying the pipeline together: Scan collects
// module files, Args collects extra arguments, Bind normalizes and registers
// a listener. Every operation returns the receiver so calls chain; none of
// them is idempotent, repeated calls accumulate files, extras and listeners.
//
// A Binder is not safe for concurrent configuration. The snapshots Bind
// hands to a server are immutable, so listeners may fire from any goroutine.
type Binder struct {
	resolver Resolver
	opts     Options
	log      *slog.Logger
	ctx      context.Context

	files  []string
	extras []any
	err    error
}

// New builds a Binder around a Resolver. A nil resolver is a programmer
// error and panics.
func New(resolver Resolver, opts ...Option) *Binder {
	if resolver == nil {
		panic("sockmount: New called with a nil resolver")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.Extensions = slices.Clone(o.Extensions)

	log := o.Logger
	if !o.Verbose {
		log = slog.New(slog.DiscardHandler)
	}

	return &Binder{
		resolver: resolver,
		opts:     o,
		log:      log,
		ctx:      ctxlog.WithLogger(context.Background(), log),
	}
}

// Args appends values to the extra-argument list passed to every handler
// after the server and connection. Order is preserved across calls.
func (b *Binder) Args(vals ...any) *Binder {
	if b.err != nil {
		return b
	}
	b.extras = append(b.extras, vals...)
	return b
}

// Bind normalizes every discovered module file, in discovery order, into
// one flat handler list and registers a single connection listener on srv.
// The listener owns a snapshot of the handler list and the extra arguments;
// later Scan or Args calls do not affect it, and a second Bind registers an
// independent listener.
//
// Any resolution failure or non-function export aborts the whole call: no
// listener is registered and the error is held until Err. A nil server is
// a programmer error and panics.
func (b *Binder) Bind(srv Server) *Binder {
	if b.err != nil {
		return b
	}
	if srv == nil {
		panic("sockmount: Bind called with a nil server")
	}
	logger := ctxlog.FromContext(b.ctx)

	handlers := make([]Handler, 0, len(b.files))
	for _, path := range b.files {
		exports, err := b.resolver.Resolve(b.ctx, path)
		if err != nil {
			b.err = &LoadError{Path: path, Err: err}
			return b
		}
		hs, err := b.normalize(path, exports)
		if err != nil {
			b.err = err
			return b
		}
		handlers = append(handlers, hs...)
	}

	srv.OnConnection(b.newListener(srv, handlers, slices.Clone(b.extras)))
	logger.Info("Connection listener bound.", "handlers", len(handlers), "files", len(b.files), "extras", len(b.extras))
	return b
}

// Err returns the first hard failure recorded by the chain, or nil. Once a
// hard failure is recorded every subsequent Scan, Args and Bind call is a
// no-op.
func (b *Binder) Err() error {
	return b.err
}

// Files returns a copy of the discovered module file list, in scan order.
func (b *Binder) Files() []string {
	return slices.Clone(b.files)
}

// Logger returns the binder's setup logger. It discards records unless the
// Binder was built with WithVerbose(true), so handler modules can share it
// for their own setup chatter.
func (b *Binder) Logger() *slog.Logger {
	return b.log
}
