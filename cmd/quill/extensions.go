package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"quill/internal/cli"
	"quill/internal/config"
	"quill/internal/extensions"
)

func runExtensions(cmd *cobra.Command, args *cli.Args) error {
	cfg, logger, err := loadConfig(args.Verbose)
	if err != nil {
		return err
	}
	manager := extensions.NewManager(cfg.Paths.ExtensionsDir, logger)
	out := cmd.OutOrStdout()

	for _, archive := range args.InstallExtensions {
		path, err := config.ExpandPath(archive)
		if err != nil {
			return err
		}
		ext, err := manager.Install(path)
		if err != nil {
			return fmt.Errorf("install %s: %w", archive, err)
		}
		fmt.Fprintf(out, "Installed %s %s\n", ext.ID, ext.Version)
	}

	for _, id := range args.UninstallExtensions {
		removed, err := manager.Uninstall(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Uninstalled %s (%d versions removed)\n", id, removed)
	}

	if source := strings.TrimSpace(args.InstallSource); source != "" {
		path, err := config.ExpandPath(source)
		if err != nil {
			return err
		}
		ext, err := manager.InstallSource(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Linked %s from %s\n", ext.ID, path)
	}

	if args.ListExtensions {
		installed, err := manager.List()
		if err != nil {
			return err
		}
		if isTerminal(out) {
			rows := make([][]string, 0, len(installed))
			for _, ext := range installed {
				rows = append(rows, []string{ext.ID, ext.Version})
			}
			fmt.Fprintln(out, renderTable([]string{"Extension", "Version"}, rows))
		} else {
			for _, ext := range installed {
				fmt.Fprintf(out, "%s@%s\n", ext.ID, ext.Version)
			}
		}
	}

	return nil
}
