package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Mode identifies the single action a quill invocation performs.
type Mode int

const (
	// ModeLaunch spawns the detached desktop process.
	ModeLaunch Mode = iota
	// ModeHelp prints usage and exits.
	ModeHelp
	// ModeVersion prints version, commit, and arch.
	ModeVersion
	// ModeCPUProfile attaches a profiler to a running debug port.
	ModeCPUProfile
	// ModeExtensions delegates to the in-process extension CLI.
	ModeExtensions
)

// Args is the parsed argument set. It is produced once by Parse and
// read-only afterward; Raw preserves the original argv for pass-through
// to the spawned desktop process.
type Args struct {
	Help    bool
	Version bool
	Wait    bool
	Verbose bool

	CPUProfile  string
	ProfStartup bool
	InspectAll  bool

	ListExtensions      bool
	InstallExtensions   []string
	UninstallExtensions []string
	InstallSource       string

	Paths []string
	Raw   []string
}

// Parse interprets argv (without the program name). Flags the launcher does
// not know are tolerated and forwarded verbatim through Raw; positional
// arguments are collected as Paths.
func Parse(argv []string) (*Args, error) {
	args := &Args{Raw: append([]string(nil), argv...)}

	fs := newFlagSet(args)
	if err := fs.Parse(argv); err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}

	for _, arg := range fs.Args() {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		args.Paths = append(args.Paths, arg)
	}
	return args, nil
}

func newFlagSet(args *Args) *pflag.FlagSet {
	fs := pflag.NewFlagSet("quill", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist = pflag.ParseErrorsWhitelist{UnknownFlags: true}
	fs.SetOutput(io.Discard)

	fs.BoolVar(&args.Help, "help", false, "Print usage")
	fs.BoolVar(&args.Version, "version", false, "Print version, commit, and architecture")
	fs.BoolVar(&args.Wait, "wait", false, "Wait for the opened files to be closed before returning")
	fs.BoolVar(&args.Verbose, "verbose", false, "Print verbose output and keep the child attached to the console")
	fs.StringVar(&args.CPUProfile, "cpu-profile", "", "Attach a CPU profiler to the given debug port")
	fs.BoolVar(&args.ProfStartup, "prof-startup", false, "Capture CPU profiles of the desktop processes during startup")
	fs.BoolVar(&args.InspectAll, "inspect-all", false, "Coordinate debug inspector ports across all desktop processes")
	fs.BoolVar(&args.ListExtensions, "list-extensions", false, "List installed extensions")
	fs.StringArrayVar(&args.InstallExtensions, "install-extension", nil, "Install an extension from a .qext archive")
	fs.StringArrayVar(&args.UninstallExtensions, "uninstall-extension", nil, "Uninstall an extension by id")
	fs.StringVar(&args.InstallSource, "install-source", "", "Link a local extension source directory")

	return fs
}

// Usage renders the flag help text for the launcher-owned flags.
func Usage() string {
	return newFlagSet(&Args{}).FlagUsages()
}

// Mode selects exactly one action for the parsed argument set.
func (a *Args) Mode() Mode {
	switch {
	case a.Help:
		return ModeHelp
	case a.Version:
		return ModeVersion
	case strings.TrimSpace(a.CPUProfile) != "":
		return ModeCPUProfile
	case a.ListExtensions || len(a.InstallExtensions) > 0 || len(a.UninstallExtensions) > 0 || strings.TrimSpace(a.InstallSource) != "":
		return ModeExtensions
	default:
		return ModeLaunch
	}
}

// CPUProfilePort returns the debug port behind --cpu-profile.
func (a *Args) CPUProfilePort() (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(a.CPUProfile))
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid debug port %q", a.CPUProfile)
	}
	return port, nil
}
