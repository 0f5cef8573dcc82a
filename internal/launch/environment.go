package launch

import (
	"os"
	"strings"
)

// Environment variable names the launcher exchanges with the desktop process.
const (
	// EnvLaunchedFromCLI marks a child spawned by the quill shim.
	EnvLaunchedFromCLI = "QUILL_CLI"
	// EnvNoConsole tells the child not to attach to the launcher console.
	EnvNoConsole = "QUILL_NO_CONSOLE"
	// EnvVerboseLogging enables child-side logging for --verbose launches.
	EnvVerboseLogging = "QUILL_VERBOSE_LOGGING"
	// EnvRunAsNode is stripped before spawning so the child does not
	// mis-detect its own launch context.
	EnvRunAsNode = "QUILL_RUN_AS_NODE"
	// EnvDevBuild marks a development build; profiles are not scrubbed.
	EnvDevBuild = "QUILL_DEV"
)

// Environment is the immutable variable set for one spawn. It is built once
// from the inherited environment and never mutated afterward.
type Environment struct {
	vars []string
}

// BuildEnvironment overlays the launcher markers onto base, dropping any
// inherited run-as-node marker.
func BuildEnvironment(base []string, verbose bool) Environment {
	overlay := map[string]string{
		EnvLaunchedFromCLI: "1",
		EnvNoConsole:       "1",
	}
	if verbose {
		overlay[EnvVerboseLogging] = "true"
	}

	vars := make([]string, 0, len(base)+len(overlay))
	for _, entry := range base {
		name, _, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		switch name {
		case EnvRunAsNode, EnvLaunchedFromCLI, EnvNoConsole, EnvVerboseLogging:
			// Launcher-owned markers never pass through from a stale
			// ancestor invocation.
			continue
		}
		vars = append(vars, entry)
	}
	for name, value := range overlay {
		vars = append(vars, name+"="+value)
	}
	return Environment{vars: vars}
}

// List returns the variables in os/exec form.
func (e Environment) List() []string {
	return append([]string(nil), e.vars...)
}

// IsDevBuild reports whether the current process runs from a development
// build, in which case captured profiles keep their absolute paths.
func IsDevBuild() bool {
	return strings.TrimSpace(os.Getenv(EnvDevBuild)) != ""
}
