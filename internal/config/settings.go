// Package config loads optional tool settings for esc.
//
// Settings live at ~/.config/esc/config.toml and only provide defaults; an
// explicit flag or environment variable always wins. A missing settings
// file is not an error, the CLI falls back to built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/oscaar90/escalation-engine/internal/registry"
)

// Environment variables honored by the CLI.
const (
	// EnvRegistry overrides the registry directory.
	EnvRegistry = "ESC_REGISTRY"

	// EnvAuditLog overrides the audit log path.
	EnvAuditLog = "ESC_AUDIT_LOG"

	// EnvConfigDir overrides the directory holding the settings file.
	EnvConfigDir = "ESC_CONFIG_DIR"
)

// SettingsFile is the name of the settings file inside the config dir.
const SettingsFile = "config.toml"

// ErrNotFound indicates the settings file does not exist.
var ErrNotFound = errors.New("settings file not found")

// Settings are defaults applied beneath flags and environment variables.
type Settings struct {
	Registry string `toml:"registry"`
	AuditLog string `toml:"audit_log"`
}

// DefaultSettingsPath returns the settings file location, honoring
// ESC_CONFIG_DIR for relocated installs.
func DefaultSettingsPath() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return filepath.Join(dir, SettingsFile)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "esc", SettingsFile)
}

// LoadSettings reads and parses the settings file at path.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the user's own settings file
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return ParseSettings(data)
}

// ParseSettings parses settings TOML from bytes.
func ParseSettings(data []byte) (*Settings, error) {
	var s Settings
	if _, err := toml.Decode(string(data), &s); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	s.Registry = ExpandPath(s.Registry)
	s.AuditLog = ExpandPath(s.AuditLog)
	return &s, nil
}

// ExpandPath resolves a leading ~ against the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// ResolveRegistryDir picks the registry directory: an explicit flag wins,
// then ESC_REGISTRY, then the settings file, then the built-in default.
func ResolveRegistryDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvRegistry); env != "" {
		return env
	}
	if s, err := LoadSettings(DefaultSettingsPath()); err == nil && s.Registry != "" {
		return s.Registry
	}
	return registry.DefaultDir
}

// ResolveAuditLog picks the audit log path with the same precedence. The
// empty string means nothing is configured and the caller should fall back
// to the policy default.
func ResolveAuditLog(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvAuditLog); env != "" {
		return env
	}
	if s, err := LoadSettings(DefaultSettingsPath()); err == nil && s.AuditLog != "" {
		return s.AuditLog
	}
	return ""
}
