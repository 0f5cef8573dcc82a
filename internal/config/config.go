package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Paths contains directory and binary location configuration.
type Paths struct {
	AppBinary     string `toml:"app_binary"`
	ExtensionsDir string `toml:"extensions_dir"`
	UserDataDir   string `toml:"user_data_dir"`
	LogDir        string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the quill launcher.
//
// Configuration sections:
//   - Paths: desktop binary location, extensions dir, user data dir, log dir
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/quill/config.toml")
}

// Load locates, parses, and normalizes a configuration file. The returned
// config has all path fields expanded. A missing file is not an error; the
// defaults are returned along with exists=false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/quill/config.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	expand := func(value string) (string, error) {
		if strings.TrimSpace(value) == "" {
			return "", nil
		}
		return expandPath(value)
	}

	var err error
	if c.Paths.AppBinary, err = expand(c.Paths.AppBinary); err != nil {
		return err
	}
	if c.Paths.ExtensionsDir, err = expand(c.Paths.ExtensionsDir); err != nil {
		return err
	}
	if c.Paths.UserDataDir, err = expand(c.Paths.UserDataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expand(c.Paths.LogDir); err != nil {
		return err
	}

	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// EnsureDirectories creates the directories the launcher writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ExtensionsDir, c.Paths.UserDataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ResolveAppBinary returns the desktop binary path, falling back to the
// sibling of the given launcher executable when none is configured.
func (c *Config) ResolveAppBinary(launcherPath string) string {
	if strings.TrimSpace(c.Paths.AppBinary) != "" {
		return c.Paths.AppBinary
	}
	if strings.TrimSpace(launcherPath) == "" {
		return defaultAppBinaryName
	}
	return filepath.Join(filepath.Dir(launcherPath), defaultAppBinaryName)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
