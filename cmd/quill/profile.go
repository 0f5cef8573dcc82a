package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"quill/internal/cli"
	"quill/internal/launch"
	"quill/internal/profiling"
)

// runCPUProfile attaches to a running desktop process, profiles it until an
// interrupt arrives (with --wait) or immediately stops, and persists the
// capture.
func runCPUProfile(cmd *cobra.Command, args *cli.Args) error {
	out := cmd.OutOrStdout()
	port, err := args.CPUProfilePort()
	if err != nil {
		fmt.Fprintln(out, err)
		return nil
	}

	_, logger, err := loadConfig(args.Verbose)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	session, err := profiling.Attach(ctx, port)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Profiling debug port %d\n", port)

	if args.Wait {
		// The run loop ends on interrupt, which cancels ctx. Stopping the
		// profiler still has to reach the debug port after that.
		<-ctx.Done()
	}

	profile, err := session.Stop(context.Background())
	if err != nil {
		return err
	}

	writer := profiling.Writer{Prefix: "CPU", Scrub: !launch.IsDevBuild()}
	path, err := writer.Save(profile, time.Now().Format("20060102T150405"))
	if err != nil {
		return err
	}
	logger.Info("cpu profile written")
	fmt.Fprintf(out, "Profile written to %s\n", path)
	return nil
}
