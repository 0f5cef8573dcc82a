// Package version exposes build metadata for --version output.
package version

import (
	"runtime"
	"runtime/debug"
)

var (
	// Version is the application version, set via ldflags.
	Version = "0.0.0-dev"

	// Commit is the git commit revision.
	Commit = getRevision()
	// Arch is the architecture target.
	Arch = runtime.GOARCH
)

// Lines returns the three --version output lines: version, commit, arch.
func Lines() []string {
	return []string{Version, Commit, Arch}
}

func getRevision() string {
	rev := "unknown"

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	modified := false
	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value
		case "vcs.modified":
			if v.Value == "true" {
				modified = true
			}
		}
	}

	if modified {
		return rev + "-dirty"
	}
	return rev
}
