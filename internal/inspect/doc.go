// Package inspect coordinates debug inspector ports for --inspect-all
// launches over JSON-RPC Unix sockets and ships the matching client used by
// the desktop processes.
//
// The main, renderer, extension-host, and search processes get fixed ports
// reserved up front; helpers spawned later ask the coordination server for
// additional ports, which the allocator serializes so every answer is a
// distinct free port above the previous one.
package inspect
