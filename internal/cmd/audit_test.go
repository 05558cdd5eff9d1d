package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oscaar90/escalation-engine/internal/audit"
	"github.com/oscaar90/escalation-engine/internal/config"
)

func TestAuditLogPath(t *testing.T) {
	// Point the settings lookup at an empty dir and the registry at a
	// missing one, so only flag, env, and the built-in default are in play.
	t.Setenv(config.EnvConfigDir, t.TempDir())
	t.Setenv(config.EnvAuditLog, "")
	t.Setenv(config.EnvRegistry, filepath.Join(t.TempDir(), "nope"))

	if got := auditLogPath(""); got != audit.DefaultLogPath() {
		t.Errorf("auditLogPath(\"\") = %q, want default %q", got, audit.DefaultLogPath())
	}

	if got := auditLogPath("/var/log/esc/audit.jsonl"); got != "/var/log/esc/audit.jsonl" {
		t.Errorf("flag value not honored: got %q", got)
	}

	t.Setenv(config.EnvAuditLog, "/srv/audit.jsonl")
	if got := auditLogPath(""); got != "/srv/audit.jsonl" {
		t.Errorf("environment value not honored: got %q", got)
	}
	if got := auditLogPath("/var/log/esc/audit.jsonl"); got != "/var/log/esc/audit.jsonl" {
		t.Errorf("flag should beat environment: got %q", got)
	}
}

func TestAuditLogPathFromPolicies(t *testing.T) {
	t.Setenv(config.EnvConfigDir, t.TempDir())
	t.Setenv(config.EnvAuditLog, "")

	output := filepath.Join(t.TempDir(), "trail")
	dir := writeTestRegistry(t, output)
	t.Setenv(config.EnvRegistry, dir)

	want := filepath.Join(output, "audit.jsonl")
	if got := auditLogPath(""); got != want {
		t.Errorf("auditLogPath(\"\") = %q, want policy-derived %q", got, want)
	}
}

// writeTestRegistry creates a minimal valid registry whose policies audit
// into output.
func writeTestRegistry(t *testing.T, output string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"services.yaml": `services:
  - id: payments-api
    name: Payments API
    tier: P1
    owner_team: sre-oncall
    escalation_chain:
      - sre-oncall
    sla_minutes: 30
`,
		"teams.yaml": `teams:
  - id: sre-oncall
    name: SRE On-Call
    contacts:
      - name: Marta Ruiz
        role: primary
        channels:
          slack: "@marta"
`,
		"policies.yaml": `policies:
  fallback_team: sre-oncall
  audit:
    enabled: true
    output: "` + output + `"
`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return dir
}
