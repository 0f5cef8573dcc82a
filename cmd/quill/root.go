package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quill/internal/cli"
	"quill/internal/launch"
	"quill/internal/version"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quill [paths...]",
		Short: "Quill desktop launcher",
		Long: `quill opens files and folders in the Quill desktop editor.

Unrecognized flags are passed through to the desktop process, so inspector
and debugging flags understood by the editor work from this shim as well.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, rawArgs []string) error {
			return dispatch(cmd, rawArgs)
		},
	}
	return rootCmd
}

// dispatch selects exactly one mode for the invocation. Argument errors are
// deliberately fail-soft: the message is printed and the process exits 0,
// the same way a help request would.
func dispatch(cmd *cobra.Command, rawArgs []string) error {
	args, err := cli.Parse(rawArgs)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), err)
		return nil
	}

	switch args.Mode() {
	case cli.ModeHelp:
		printUsage(cmd)
		return nil
	case cli.ModeVersion:
		for _, line := range version.Lines() {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	case cli.ModeCPUProfile:
		return runCPUProfile(cmd, args)
	case cli.ModeExtensions:
		return runExtensions(cmd, args)
	default:
		return runLaunch(cmd, args)
	}
}

func printUsage(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cmd.Long)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Usage: %s\n\n", cmd.Use)
	fmt.Fprintln(out, "Options:")
	fmt.Fprint(out, cli.Usage())
}

func runLaunch(cmd *cobra.Command, args *cli.Args) error {
	cfg, logger, err := loadConfig(args.Verbose)
	if err != nil {
		return err
	}
	launcher := launch.NewLauncher(cfg, logger)
	return launcher.Run(cmd.Context(), args)
}
