package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/oscaar90/escalation-engine/internal/audit"
	"github.com/oscaar90/escalation-engine/internal/tui/auditfeed"
	"golang.org/x/term"
)

var auditTailPath string

var auditTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow the audit trail live",
	Long: `Follow the audit trail in a live view.

Opens a full-screen view that appends entries as queries are recorded,
handy on a shared incident screen. When stdout is not a terminal the
current entries are printed once instead, so piping still works.

Examples:
  esc audit tail
  esc audit tail --path ./audit_logs/audit.jsonl`,
	RunE: runAuditTail,
}

func init() {
	auditTailCmd.Flags().StringVar(&auditTailPath, "path", "", "Audit log path (default: per policies, else audit_logs/audit.jsonl)")

	auditCmd.AddCommand(auditTailCmd)
}

func runAuditTail(cmd *cobra.Command, args []string) error {
	path := auditLogPath(auditTailPath)

	// Outside a terminal, degrade to a one-shot listing.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		records, err := audit.Read(path)
		if err != nil {
			return err
		}
		renderAuditRecords(records)
		return nil
	}

	m := auditfeed.New(path)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running audit tail: %w", err)
	}
	return nil
}
