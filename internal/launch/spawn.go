package launch

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// SpawnOptions describes one detached desktop process launch.
type SpawnOptions struct {
	Binary  string
	Args    []string
	Env     Environment
	Verbose bool
}

// Spawn starts the desktop binary in its own session so it outlives the
// launcher. Standard streams stay silenced unless verbose is set.
func Spawn(opts SpawnOptions) (*exec.Cmd, error) {
	if err := unix.Access(opts.Binary, unix.X_OK); err != nil {
		return nil, fmt.Errorf("desktop binary %q is not executable: %w", opts.Binary, err)
	}

	cmd := exec.Command(opts.Binary, opts.Args...)
	cmd.Env = opts.Env.List()
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if opts.Verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("launch desktop process: %w", err)
	}
	return cmd, nil
}
