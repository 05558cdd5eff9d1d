package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/oscaar90/escalation-engine/internal/audit"
	"github.com/oscaar90/escalation-engine/internal/config"
	"github.com/oscaar90/escalation-engine/internal/style"
)

// Audit command flags
var (
	auditShowPath     string
	auditShowLimit    int
	auditShowJSON     bool
	auditExportPath   string
	auditExportFormat string
)

var auditCmd = &cobra.Command{
	Use:     "audit",
	GroupID: GroupAudit,
	Short:   "Inspect the query audit trail",
	Long: `Inspect the audit trail of resolve and whois queries.

When audit is enabled in policies.yaml, every successful query appends
one JSONL entry recording who asked, from which host, and how many
chain levels came back. These commands read that trail back.

COMMANDS:
  show      Show recorded entries as a table
  export    Re-serialize the trail as json, csv, or jsonl
  tail      Follow the trail live`,
	RunE: requireSubcommand,
}

var auditShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show recorded audit entries",
	Long: `Show recorded audit entries, oldest first.

Examples:
  esc audit show
  esc audit show -n 20
  esc audit show --path ./audit_logs/audit.jsonl`,
	RunE: runAuditShow,
}

var auditExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the audit trail",
	Long: `Export the audit trail to stdout in the given format.

json is an indented array, csv has a header row, and any other format
falls back to raw JSONL. Redirect to a file to hand the trail to
whatever wants it next.

Examples:
  esc audit export > audit.json
  esc audit export -f csv > audit.csv
  esc audit export -f jsonl`,
	RunE: runAuditExport,
}

func init() {
	auditShowCmd.Flags().StringVar(&auditShowPath, "path", "", "Audit log path (default: per policies, else audit_logs/audit.jsonl)")
	auditShowCmd.Flags().IntVarP(&auditShowLimit, "limit", "n", 0, "Show only the last N entries")
	auditShowCmd.Flags().BoolVar(&auditShowJSON, "json", false, "Output as JSON")

	auditExportCmd.Flags().StringVar(&auditExportPath, "path", "", "Audit log path (default: per policies, else audit_logs/audit.jsonl)")
	auditExportCmd.Flags().StringVarP(&auditExportFormat, "format", "f", audit.FormatJSON, "Export format: json, csv, or jsonl")

	auditCmd.AddCommand(auditShowCmd)
	auditCmd.AddCommand(auditExportCmd)

	rootCmd.AddCommand(auditCmd)
}

// auditLogPath resolves the audit log location: flag, then environment,
// then settings file, then wherever the registry policies record to, then
// the built-in default. Reading the trail must not require a working
// registry, so a failed load falls through to the default.
func auditLogPath(flagValue string) string {
	if path := config.ResolveAuditLog(flagValue); path != "" {
		return path
	}
	if reg, err := loadRegistry(); err == nil {
		return audit.NewRecorder(reg.Policies().Audit).LogPath()
	}
	return audit.DefaultLogPath()
}

func runAuditShow(cmd *cobra.Command, args []string) error {
	records, err := audit.Read(auditLogPath(auditShowPath))
	if err != nil {
		return err
	}

	if auditShowLimit > 0 && len(records) > auditShowLimit {
		records = records[len(records)-auditShowLimit:]
	}

	if auditShowJSON {
		if records == nil {
			records = []audit.Record{}
		}
		return outputJSON(records)
	}

	renderAuditRecords(records)
	return nil
}

func runAuditExport(cmd *cobra.Command, args []string) error {
	records, err := audit.Read(auditLogPath(auditExportPath))
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println(style.Dim.Render("No audit entries to export."))
		return nil
	}

	out, err := audit.Export(records, auditExportFormat)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
