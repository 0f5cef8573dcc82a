// Package history persists the recently-opened path list in SQLite.
//
// The launcher records path arguments of a normal launch here unless the
// invocation carries --skip-add-to-recently-opened; failures are non-fatal
// and never block a launch.
package history
