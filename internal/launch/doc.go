// Package launch spawns the detached desktop process.
//
// It owns environment overlay assembly, stdin redirection into a temp
// capture file, wait-marker coordination, and the post-spawn task sequence
// for the startup-profiling and inspect-all modes. Argument and environment
// assembly always completes before the child is created; completion waits
// race the child's exit against marker-file deletion and honor whichever
// fires first.
package launch
