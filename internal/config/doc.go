// Package config loads launcher configuration from TOML.
//
// Configuration is resolved from an explicit caller-supplied path or the default
// ~/.config/quill/config.toml. A missing file is not an error; defaults
// apply. All path fields are tilde-expanded and absolutized during load so
// downstream packages never see relative or home-relative paths.
package config
