// Package logging wraps log/slog for the launcher.
//
// It centralizes level parsing, output fanout (stderr plus an optional log
// file under the configured log directory), and the attr helper aliases the
// rest of the repository logs with. The --verbose flag forces debug level
// without touching the configured default.
package logging
