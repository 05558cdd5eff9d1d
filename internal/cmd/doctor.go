package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/oscaar90/escalation-engine/internal/config"
	"github.com/oscaar90/escalation-engine/internal/doctor"
)

var (
	doctorFix     bool
	doctorJSON    bool
	doctorVerbose bool
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	GroupID: GroupDiag,
	Short:   "Run health checks on the escalation setup",
	Long: `Run diagnostic checks on the registry, settings, and audit trail.

Checks:
  registry-sources     Registry directory and its three YAML sources exist
  registry-parses      services.yaml, teams.yaml and policies.yaml parse
  registry-references  Escalation chains, owners, and fallback team resolve
  settings-file        Optional config.toml parses and points at real paths
  audit-directory      Audit output directory exists and is writable (fixable)
  audit-trail          Recorded audit entries parse cleanly

Use --fix to repair what supports it, like creating a missing audit
directory. Exits non-zero when any check reports an error.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Attempt to automatically fix issues")
	doctorCmd.Flags().BoolVarP(&doctorVerbose, "verbose", "v", false, "Show details for passing checks too")
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Output machine-readable JSON")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := &doctor.CheckContext{
		RegistryDir:  config.ResolveRegistryDir(registryDir),
		SettingsPath: config.DefaultSettingsPath(),
		AuditLog:     config.ResolveAuditLog(""),
	}

	d := doctor.NewDoctor()
	d.RegisterAll(
		doctor.NewRegistrySourcesCheck(),
		doctor.NewRegistryParsesCheck(),
		doctor.NewRegistryReferencesCheck(),
		doctor.NewSettingsCheck(),
		doctor.NewAuditDirCheck(),
		doctor.NewAuditTrailCheck(),
	)

	var report *doctor.Report
	if doctorFix {
		report = d.Fix(ctx)
	} else {
		report = d.Run(ctx)
	}

	if doctorJSON {
		if err := outputJSON(report); err != nil {
			return err
		}
	} else {
		report.Print(os.Stdout, doctorVerbose)
	}

	// The report already shows what failed; signal via exit code only.
	if report.HasErrors() {
		return NewSilentExit(1)
	}
	return nil
}
