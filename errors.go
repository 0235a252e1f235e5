package sockmount

import (
	"errors"
	"fmt"
)

// ErrNotFunction reports a module export that can never become a handler:
// either not a function at all, or a function of an unsupported shape.
var ErrNotFunction = errors.New("module requires a function export")

// LoadError wraps a failure to resolve or normalize one module file. It is
// the only error type Bind records: Path names the offending file, Err the
// underlying cause.
type LoadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load module %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As.
func (e *LoadError) Unwrap() error {
	return e.Err
}
