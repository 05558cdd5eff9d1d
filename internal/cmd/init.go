package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/oscaar90/escalation-engine/internal/registry"
	"github.com/oscaar90/escalation-engine/internal/style"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:     "init [dir]",
	GroupID: GroupRegistry,
	Short:   "Scaffold a starter registry",
	Long: `Scaffold a starter registry with sample services, teams, and policies.

Writes services.yaml, teams.yaml, and policies.yaml into the given
directory (default "registry"). Existing files are left alone unless
--force is set. Edit the samples, then run 'esc validate' to check the
result.

Examples:
  esc init
  esc init ./oncall
  esc init --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing registry files")

	rootCmd.AddCommand(initCmd)
}

const sampleServicesYAML = `services:
  - id: payments-api
    name: Payments API
    tier: P1
    owner_team: platform-core
    escalation_chain:
      - platform-core
      - sre-oncall
    sla_minutes: 30

  - id: auth-service
    name: Auth Service
    tier: P2
    owner_team: platform-core
    escalation_chain:
      - platform-core
    sla_minutes: 60
`

const sampleTeamsYAML = `teams:
  - id: platform-core
    name: Platform Core
    contacts:
      - name: Ana García
        role: primary
        channels:
          phone: "+34-600-111-222"
          slack: "@ana.garcia"
          email: ana.garcia@example.com
      - name: Luis Pérez
        role: secondary
        channels:
          slack: "@luis.perez"
          email: luis.perez@example.com

  - id: sre-oncall
    name: SRE On-Call
    contacts:
      - name: Marta Ruiz
        role: primary
        channels:
          phone: "+34-600-333-444"
          slack: "@marta.ruiz"
`

const samplePoliciesYAML = `policies:
  default_sla_minutes: 30
  escalation_timeout_minutes: 10
  fallback_team: sre-oncall
  audit:
    enabled: true
    output: ./audit_logs
    format: jsonl
`

func runInit(cmd *cobra.Command, args []string) error {
	dir := registry.DefaultDir
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating registry directory: %w", err)
	}

	samples := []struct {
		name    string
		content string
	}{
		{registry.ServicesFile, sampleServicesYAML},
		{registry.TeamsFile, sampleTeamsYAML},
		{registry.PoliciesFile, samplePoliciesYAML},
	}

	for _, sample := range samples {
		path := filepath.Join(dir, sample.name)
		if _, err := os.Stat(path); err == nil {
			if !initForce {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			style.PrintWarning("overwriting %s", path)
		}
		if err := os.WriteFile(path, []byte(sample.content), 0644); err != nil { //nolint:gosec // G306: registry files are meant to be edited by hand
			return fmt.Errorf("writing %s: %w", sample.name, err)
		}
		fmt.Printf("%s Wrote %s\n", style.SuccessPrefix, path)
	}

	fmt.Printf("\n%s %s\n", style.ArrowPrefix, style.Dim.Render("Next: edit the samples, then run 'esc validate'"))
	return nil
}
