package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"quill/internal/config"
	"quill/internal/logging"
)

func loadConfig(verbose bool) (*config.Config, *slog.Logger, error) {
	cfg, _, _, err := config.Load("")
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, nil, err
	}

	logger, err := logging.NewFromConfig(cfg, verbose)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
