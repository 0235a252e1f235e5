package sockmount

import (
	"context"
	"fmt"
	"reflect"
)

// Export is a single named value produced by resolving a module file. The
// declaration order of exports within a module is the order their handlers
// are dispatched.
type Export struct {
	Name  string
	Value any
}

// Resolver turns a discovered module file into its ordered export table.
// Implementations decide what a module file is: the registry package reads
// manifest files naming compiled-in modules, goplugin opens native plugins.
// A Resolve failure is fatal to the Bind call that triggered it.
type Resolver interface {
	Resolve(ctx context.Context, path string) ([]Export, error)
}

// Server is the narrow surface a socket server exposes to the Binder. The
// Binder only ever registers listeners; serving, rooms, and broadcast stay
// with the concrete server.
type Server interface {
	OnConnection(listener func(conn Conn))
}

// Conn is a single client connection as seen by handlers.
type Conn interface {
	ID() string
	Emit(event string, args ...any) error
}

// ConnectionFunc is the plain-function handler shape. Extras carry the
// Binder's extra-argument list, in the order Args calls appended them.
type ConnectionFunc func(srv Server, conn Conn, extras ...any) error

// ConnectionHandler is the capability a constructed handler instance must
// provide to be dispatched. Instances that lack it are dropped at bind
// time, never called.
type ConnectionHandler interface {
	Connection(srv Server, conn Conn, extras ...any) error
}

// Kind discriminates the handler shapes a module export may take.
type Kind int

const (
	// KindFunc marks an export that already is a connection function.
	KindFunc Kind = iota + 1
	// KindStateful marks a zero-argument constructor export whose single
	// instance provides the Connection method for the listener's lifetime.
	KindStateful
)

// String implements fmt.Stringer for log output.
func (k Kind) String() string {
	switch k {
	case KindFunc:
		return "func"
	case KindStateful:
		return "stateful"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Handler is one normalized entry in a dispatch list.
type Handler struct {
	Kind   Kind
	Name   string // export name within the module
	Source string // module file the export came from

	fn ConnectionFunc
}

var connectionFuncType = reflect.TypeOf(ConnectionFunc(nil))

// KindOf classifies an export value by structure alone, without calling it.
// Constructor candidates are reported as KindStateful; whether the instance
// actually provides the Connection capability is only known after the
// constructor runs at bind time. Values that can never become handlers are
// rejected with an error wrapping ErrNotFunction.
func KindOf(v any) (Kind, error) {
	switch v.(type) {
	case ConnectionFunc, func(Server, Conn, ...any) error:
		return KindFunc, nil
	}
	rt := reflect.TypeOf(v)
	if rt == nil || rt.Kind() != reflect.Func {
		return 0, fmt.Errorf("%w, got %T", ErrNotFunction, v)
	}
	if rt.ConvertibleTo(connectionFuncType) {
		return KindFunc, nil
	}
	if rt.NumIn() == 0 && rt.NumOut() == 1 && !rt.IsVariadic() {
		return KindStateful, nil
	}
	return 0, fmt.Errorf("%w, got unsupported signature %s", ErrNotFunction, rt)
}

// asConnectionFunc adapts a KindFunc export value to ConnectionFunc. Only
// valid for values KindOf classified as KindFunc.
func asConnectionFunc(v any) ConnectionFunc {
	switch fn := v.(type) {
	case ConnectionFunc:
		return fn
	case func(Server, Conn, ...any) error:
		return fn
	}
	return reflect.ValueOf(v).Convert(connectionFuncType).Interface().(ConnectionFunc)
}
