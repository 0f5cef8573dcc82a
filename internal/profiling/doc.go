// Package profiling collects startup CPU profiles from the desktop
// processes over their local debug ports.
//
// Profiles leaving a non-development machine are scrubbed: absolute frame
// paths are reduced to base names under a fixed marker prefix, and the
// persisted file gains a .txt suffix so a scrubbed capture is never
// mistaken for a faithful one.
package profiling
