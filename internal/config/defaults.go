package config

const (
	defaultExtensionsDir = "~/.quill/extensions"
	defaultUserDataDir   = "~/.local/share/quill"
	defaultLogDir        = "~/.local/share/quill/logs"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"

	defaultAppBinaryName = "quill-desktop"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ExtensionsDir: defaultExtensionsDir,
			UserDataDir:   defaultUserDataDir,
			LogDir:        defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
