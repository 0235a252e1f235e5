package sockmount

import (
	"log/slog"
	"os"
)

// Options holds the configuration of a Binder. Values are fixed by New;
// nothing mutates them afterwards.
type Options struct {
	// Root is the base directory Scan paths are resolved against. Defaults
	// to the process working directory.
	Root string

	// Verbose enables the setup-stage logs: scan progress, ignored entries,
	// soft failures, loaded handlers. Dispatch-time handler failures are
	// reported regardless.
	Verbose bool

	// Logger receives all log output. Defaults to a text slog handler on
	// stderr; the Binder never touches the global default logger.
	Logger *slog.Logger

	// Extensions is the accepted set of module file extensions, written
	// without the leading dot. Defaults to "hcl" and "json", the formats
	// the registry resolver reads.
	Extensions []string

	// Namespace is reserved. It is retained for configuration compatibility
	// and nothing consumes it; server adapters bind the root namespace.
	Namespace bool

	// ContinueOnError keeps dispatching the remaining handlers of a
	// connection event after one of them returns an error. The default
	// stops the event's fan-out at the first failure.
	ContinueOnError bool
}

// Option mutates Options during New.
type Option func(*Options)

// WithRoot sets the base directory Scan paths are resolved against.
func WithRoot(dir string) Option {
	return func(o *Options) { o.Root = dir }
}

// WithVerbose toggles the setup-stage logs.
func WithVerbose(enabled bool) Option {
	return func(o *Options) { o.Verbose = enabled }
}

// WithLogger replaces the default stderr logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithExtensions replaces the accepted module file extensions. Extensions
// are compared against the part of an entry name after its last dot, so
// they are given without the dot itself.
func WithExtensions(exts ...string) Option {
	return func(o *Options) { o.Extensions = exts }
}

// WithNamespace sets the reserved namespace flag.
func WithNamespace(enabled bool) Option {
	return func(o *Options) { o.Namespace = enabled }
}

// WithContinueOnError opts into per-handler isolation during dispatch.
func WithContinueOnError(enabled bool) Option {
	return func(o *Options) { o.ContinueOnError = enabled }
}

func defaultOptions() Options {
	root, err := os.Getwd()
	if err != nil {
		root = "."
	}
	return Options{
		Root:       root,
		Logger:     slog.New(slog.NewTextHandler(os.Stderr, nil)),
		Extensions: []string{"hcl", "json"},
		Namespace:  true,
	}
}
