// Package sockmount discovers connection-handler modules on disk and binds
// them to a socket server.
//
// A Binder scans directories for module files, resolves every discovered
// file into an ordered export table through a Resolver, normalizes each
// export into a connection handler, and registers one connection listener
// per Bind call. On every connection event the listener invokes the full
// handler list in discovery order as handler(server, conn, extras...).
//
// The Binder is a chainable facade:
//
//	reg := registry.New(&welcome.Module{}, &presence.Module{})
//	b := sockmount.New(reg, sockmount.WithVerbose(true)).
//		Scan("handlers").
//		Args(cfg, logger).
//		Bind(srv)
//	if err := b.Err(); err != nil {
//		return err
//	}
//
// Scan failures and exports without the Connection capability are logged
// and tolerated; a module that fails to resolve, or an export that is not
// a function at all, fails the whole Bind and leaves the chain inert.
package sockmount
