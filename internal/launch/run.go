package launch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"quill/internal/cli"
	"quill/internal/config"
	"quill/internal/history"
	"quill/internal/inspect"
	"quill/internal/logging"
	"quill/internal/ports"
	"quill/internal/profiling"
)

const skipRecentFlag = "--skip-add-to-recently-opened"

// Launcher spawns the detached desktop process and drives the optional
// post-spawn coordination (wait marker, startup profiling, inspect-all).
type Launcher struct {
	cfg        *config.Config
	logger     *slog.Logger
	execPath   string
	stdinPiped func() bool
	stdin      func() (string, error)
}

// NewLauncher builds a launcher around the loaded configuration.
func NewLauncher(cfg *config.Config, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	execPath, err := os.Executable()
	if err != nil {
		execPath = ""
	}
	return &Launcher{
		cfg:        cfg,
		logger:     logger,
		execPath:   execPath,
		stdinPiped: StdinIsPiped,
		stdin:      func() (string, error) { return CaptureStdin(os.Stdin) },
	}
}

// Run assembles environment and argv additions for the parsed arguments,
// spawns the desktop process, and runs the post-spawn task sequence to
// completion. Argument assembly finishes entirely before the spawn.
func (l *Launcher) Run(ctx context.Context, args *cli.Args) error {
	spawnArgs := append([]string(nil), args.Raw...)
	waitRequested := args.Wait
	skipRecent := containsFlag(args.Raw, skipRecentFlag)

	var stdinFile string
	if len(args.Paths) == 0 && l.stdinPiped() {
		path, err := l.stdin()
		if err != nil {
			l.logger.Debug("stdin capture failed, launching without redirection", logging.Error(err))
		} else {
			stdinFile = path
			spawnArgs = append(spawnArgs, path, "--wait", skipRecentFlag)
			waitRequested = true
			skipRecent = true
		}
	}

	var waitMarker string
	if waitRequested {
		marker, err := CreateWaitMarker()
		if err != nil {
			l.logger.Debug("wait marker creation failed, not waiting", logging.Error(err))
			waitRequested = false
		} else {
			waitMarker = marker
			spawnArgs = append(spawnArgs, "--waitMarkerFilePath="+marker)
		}
	}

	var profPrefix string
	var profPorts []int
	if args.ProfStartup {
		reserved, err := ports.FindFreePorts(ctx, ports.DebugBasePort, 3)
		if err != nil {
			l.logger.Error("failed to find free ports for startup profiling", logging.Error(err))
			return nil
		}
		prefix, err := profStartupPrefix(reserved)
		if err != nil {
			l.logger.Error("failed to prepare profiling prefix", logging.Error(err))
			return nil
		}
		profPrefix = prefix
		spawnArgs = append(spawnArgs,
			fmt.Sprintf("--inspect-brk=%d", reserved[0]),
			fmt.Sprintf("--remote-debugging-port=%d", reserved[1]),
			fmt.Sprintf("--inspect-brk-extensions=%d", reserved[2]),
			"--prof-startup-prefix="+prefix,
			"--no-cached-data",
		)
		profPorts = reserved
	}

	var inspectServer *inspect.Server
	if args.InspectAll {
		reserved, err := ports.FindFreePorts(ctx, ports.DebugBasePort, 4)
		if err != nil {
			l.logger.Error("failed to find free ports for inspect-all", logging.Error(err))
			return nil
		}
		socket := filepath.Join(os.TempDir(), "quill-inspect-"+shortID()+".sock")
		server, err := inspect.NewServer(ctx, socket, inspect.NewAllocator(reserved[3]), l.logger)
		if err != nil {
			l.logger.Error("failed to start inspect coordination server", logging.Error(err))
			return nil
		}
		server.Serve()
		inspectServer = server
		spawnArgs = append(spawnArgs,
			fmt.Sprintf("--inspect=%d", reserved[0]),
			fmt.Sprintf("--remote-debugging-port=%d", reserved[1]),
			fmt.Sprintf("--inspect-extensions=%d", reserved[2]),
			fmt.Sprintf("--inspect-search=%d", reserved[3]),
			"--inspect-all-ipc="+socket,
		)
	}

	env := BuildEnvironment(os.Environ(), args.Verbose)
	binary := l.cfg.ResolveAppBinary(l.execPath)

	cmd, err := Spawn(SpawnOptions{
		Binary:  binary,
		Args:    spawnArgs,
		Env:     env,
		Verbose: args.Verbose,
	})
	if err != nil {
		if inspectServer != nil {
			inspectServer.Close()
		}
		removeIfPresent(waitMarker)
		removeIfPresent(stdinFile)
		return err
	}
	l.logger.Debug("desktop process spawned",
		logging.String("binary", binary),
		logging.Int("pid", cmd.Process.Pid))

	// Post-spawn tasks run as a fixed ordered sequence against the
	// process handle.
	if !skipRecent {
		l.recordRecentlyOpened(ctx, args.Paths)
	}

	child := newChildWatch(cmd)

	if waitMarker != "" {
		l.awaitFirst(ctx, child, waitMarker)
		removeIfPresent(waitMarker)
	}
	if profPrefix != "" {
		l.awaitFirst(ctx, child, profPrefix)
		l.collectStartupProfiles(ctx, profPrefix, profPorts)
	}
	if inspectServer != nil {
		select {
		case <-child.exited():
		case <-ctx.Done():
		}
		inspectServer.Close()
	}

	removeIfPresent(stdinFile)

	if !child.started {
		// Nothing waits on the child; let it outlive the launcher.
		return cmd.Process.Release()
	}
	return nil
}

// awaitFirst blocks until the child exits or the marker file disappears,
// whichever happens first.
func (l *Launcher) awaitFirst(ctx context.Context, child *childWatch, marker string) {
	select {
	case <-child.exited():
	case <-WhenDeleted(ctx, marker):
	case <-ctx.Done():
	}
}

func (l *Launcher) collectStartupProfiles(ctx context.Context, prefix string, reserved []int) {
	writer := profiling.Writer{Prefix: prefix, Scrub: !IsDevBuild()}
	targets := []struct {
		name string
		port int
	}{
		{"main", reserved[0]},
		{"renderer", reserved[1]},
		{"exthost", reserved[2]},
	}
	for _, target := range targets {
		profile, err := profiling.StopProfile(ctx, target.port)
		if err != nil {
			l.logger.Error("failed to collect startup profile",
				logging.String("process", target.name),
				logging.Int("port", target.port),
				logging.Error(err))
			continue
		}
		path, err := writer.Save(profile, target.name)
		if err != nil {
			l.logger.Error("failed to write startup profile",
				logging.String("process", target.name),
				logging.Error(err))
			continue
		}
		l.logger.Info("startup profile written",
			logging.String("process", target.name),
			logging.String("path", path))
	}
	removeIfPresent(prefix)
}

func (l *Launcher) recordRecentlyOpened(ctx context.Context, paths []string) {
	if len(paths) == 0 || l.cfg == nil || strings.TrimSpace(l.cfg.Paths.UserDataDir) == "" {
		return
	}
	store, err := history.Open(filepath.Join(l.cfg.Paths.UserDataDir, "history.db"))
	if err != nil {
		l.logger.Debug("recently-opened store unavailable", logging.Error(err))
		return
	}
	defer store.Close()
	for _, path := range paths {
		if err := store.Add(ctx, path, time.Now()); err != nil {
			l.logger.Debug("failed to record recently opened path",
				logging.String("path", path),
				logging.Error(err))
		}
	}
}

// profStartupPrefix reserves the home-relative profile prefix and writes the
// marker file whose deletion ends the capture window. The reserved ports are
// recorded in the file for the child processes.
func profStartupPrefix(reserved []int) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	prefix := filepath.Join(home, "prof-startup-"+shortID())

	parts := make([]string, len(reserved))
	for i, port := range reserved {
		parts[i] = fmt.Sprintf("%d", port)
	}
	if err := os.WriteFile(prefix, []byte(strings.Join(parts, "|")), 0o600); err != nil {
		return "", fmt.Errorf("write profiling marker: %w", err)
	}
	return prefix, nil
}

func containsFlag(argv []string, flag string) bool {
	for _, arg := range argv {
		if arg == flag {
			return true
		}
	}
	return false
}

func removeIfPresent(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}

// childWatch funnels all interest in the child's exit through a single
// cmd.Wait call.
type childWatch struct {
	cmd     *exec.Cmd
	once    sync.Once
	done    chan struct{}
	started bool
}

func newChildWatch(cmd *exec.Cmd) *childWatch {
	return &childWatch{cmd: cmd, done: make(chan struct{})}
}

func (w *childWatch) exited() <-chan struct{} {
	w.once.Do(func() {
		w.started = true
		go func() {
			_ = w.cmd.Wait()
			close(w.done)
		}()
	})
	return w.done
}
