package registry

import "testing"

func TestValidateCleanRegistry(t *testing.T) {
	t.Parallel()
	reg := loadTestRegistry(t)

	findings := Validate(reg)
	if len(findings) != 0 {
		t.Errorf("Expected no findings, got: %v", findings)
	}
}

func TestValidateFindings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		services string
		teams    string
		policies string
		want     []string
	}{
		{
			name: "unknown owner team",
			services: `services:
  - id: payments-api
    name: Payments API
    tier: P1
    owner_team: ghost-team
    escalation_chain:
      - platform-core
    sla_minutes: 30
`,
			teams:    testTeamsYAML,
			policies: testPoliciesYAML,
			want:     []string{"Service 'payments-api': owner_team 'ghost-team' not found in teams"},
		},
		{
			name: "unknown chain team",
			services: `services:
  - id: payments-api
    name: Payments API
    tier: P1
    owner_team: platform-core
    escalation_chain:
      - platform-core
      - db-oncall
    sla_minutes: 30
`,
			teams:    testTeamsYAML,
			policies: testPoliciesYAML,
			want:     []string{"Service 'payments-api': escalation_chain references unknown team 'db-oncall'"},
		},
		{
			name:     "team without contacts",
			services: testServicesYAML,
			teams: testTeamsYAML + `  - id: empty-team
    name: Empty Team
    contacts: []
`,
			policies: testPoliciesYAML,
			want:     []string{"Team 'empty-team': has no contacts"},
		},
		{
			name:     "team without primary",
			services: testServicesYAML,
			teams: testTeamsYAML + `  - id: backup-team
    name: Backup Team
    contacts:
      - name: Carlos Vega
        role: secondary
        channels:
          email: carlos@example.com
`,
			policies: testPoliciesYAML,
			want:     []string{"Team 'backup-team': has no contact with role 'primary'"},
		},
		{
			name:     "unknown fallback team",
			services: testServicesYAML,
			teams:    testTeamsYAML,
			policies: `policies:
  escalation_timeout_minutes: 10
  fallback_team: night-shift
  audit:
    enabled: false
`,
			want: []string{"Policies: fallback_team 'night-shift' not found in teams"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeRegistry(t, dir, tt.services, tt.teams, tt.policies)
			reg, err := Load(dir)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			findings := Validate(reg)
			if len(findings) != len(tt.want) {
				t.Fatalf("Expected %d findings, got %d: %v", len(tt.want), len(findings), findings)
			}
			for i, want := range tt.want {
				if findings[i] != want {
					t.Errorf("Finding %d:\n  want %q\n  got  %q", i, want, findings[i])
				}
			}
		})
	}
}

func TestValidateAccumulatesInOrder(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeRegistry(t, dir, `services:
  - id: payments-api
    name: Payments API
    tier: P1
    owner_team: ghost-team
    escalation_chain:
      - db-oncall
    sla_minutes: 30
`, `teams:
  - id: empty-team
    name: Empty Team
    contacts: []
`, `policies:
  fallback_team: night-shift
  audit:
    enabled: false
`)
	reg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{
		"Service 'payments-api': owner_team 'ghost-team' not found in teams",
		"Service 'payments-api': escalation_chain references unknown team 'db-oncall'",
		"Team 'empty-team': has no contacts",
		"Policies: fallback_team 'night-shift' not found in teams",
	}
	findings := Validate(reg)
	if len(findings) != len(want) {
		t.Fatalf("Expected %d findings, got %d: %v", len(want), len(findings), findings)
	}
	for i := range want {
		if findings[i] != want[i] {
			t.Errorf("Finding %d:\n  want %q\n  got  %q", i, want[i], findings[i])
		}
	}
}
