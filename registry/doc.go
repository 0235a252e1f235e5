// Package registry provides the central glue between on-disk module
// manifests and compiled-in handler code.
//
// Go programs cannot load arbitrary source files at runtime, so handler
// modules compile into the binary and self-register their export tables
// under a module name. Manifest files are what a scan discovers on disk:
// each one selects registered modules by name and optionally projects a
// subset of their exports, in either HCL or HCL-JSON syntax:
//
//	module "welcome" {
//	  exports = ["Greet"]
//	}
//
// The Registry implements sockmount.Resolver over those manifests. A file
// may select several modules; their exports concatenate in block order. An
// omitted or empty exports list selects the module's full table in
// registration order.
//
// During application startup the registry is validated so that drift
// between manifests and Go code fails fast rather than at bind time.
package registry
