package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oscaar90/escalation-engine/internal/registry"
)

func TestParseSettings(t *testing.T) {
	t.Parallel()
	s, err := ParseSettings([]byte(`registry = "/srv/oncall/registry"
audit_log = "/var/log/esc/audit.jsonl"
`))
	if err != nil {
		t.Fatalf("ParseSettings failed: %v", err)
	}
	if s.Registry != "/srv/oncall/registry" {
		t.Errorf("Unexpected registry: %q", s.Registry)
	}
	if s.AuditLog != "/var/log/esc/audit.jsonl" {
		t.Errorf("Unexpected audit_log: %q", s.AuditLog)
	}
}

func TestParseSettingsInvalidTOML(t *testing.T) {
	t.Parallel()
	_, err := ParseSettings([]byte(`registry = [`))
	if err == nil {
		t.Fatal("Expected parse error, got nil")
	}
	if !strings.Contains(err.Error(), "parsing TOML") {
		t.Errorf("Expected TOML parse error, got: %v", err)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	t.Parallel()
	_, err := LoadSettings(filepath.Join(t.TempDir(), SettingsFile))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	t.Parallel()
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("No home dir: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~/oncall/registry", filepath.Join(home, "oncall", "registry")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, SettingsFile), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}
	return dir
}

func TestResolveRegistryDirPrecedence(t *testing.T) {
	settingsDir := writeSettings(t, `registry = "/from/settings"`)

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(EnvRegistry, "/from/env")
		t.Setenv(EnvConfigDir, settingsDir)
		if got := ResolveRegistryDir("/from/flag"); got != "/from/flag" {
			t.Errorf("Expected flag value, got %q", got)
		}
	})

	t.Run("env beats settings", func(t *testing.T) {
		t.Setenv(EnvRegistry, "/from/env")
		t.Setenv(EnvConfigDir, settingsDir)
		if got := ResolveRegistryDir(""); got != "/from/env" {
			t.Errorf("Expected env value, got %q", got)
		}
	})

	t.Run("settings beat default", func(t *testing.T) {
		t.Setenv(EnvRegistry, "")
		t.Setenv(EnvConfigDir, settingsDir)
		if got := ResolveRegistryDir(""); got != "/from/settings" {
			t.Errorf("Expected settings value, got %q", got)
		}
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv(EnvRegistry, "")
		t.Setenv(EnvConfigDir, t.TempDir())
		if got := ResolveRegistryDir(""); got != registry.DefaultDir {
			t.Errorf("Expected default %q, got %q", registry.DefaultDir, got)
		}
	})
}

func TestResolveAuditLogPrecedence(t *testing.T) {
	settingsDir := writeSettings(t, `audit_log = "/from/settings.jsonl"`)

	t.Run("env wins", func(t *testing.T) {
		t.Setenv(EnvAuditLog, "/from/env.jsonl")
		t.Setenv(EnvConfigDir, settingsDir)
		if got := ResolveAuditLog(""); got != "/from/env.jsonl" {
			t.Errorf("Expected env value, got %q", got)
		}
	})

	t.Run("settings apply", func(t *testing.T) {
		t.Setenv(EnvAuditLog, "")
		t.Setenv(EnvConfigDir, settingsDir)
		if got := ResolveAuditLog(""); got != "/from/settings.jsonl" {
			t.Errorf("Expected settings value, got %q", got)
		}
	})

	t.Run("unconfigured is empty", func(t *testing.T) {
		t.Setenv(EnvAuditLog, "")
		t.Setenv(EnvConfigDir, t.TempDir())
		if got := ResolveAuditLog(""); got != "" {
			t.Errorf("Expected empty fallback, got %q", got)
		}
	})
}
