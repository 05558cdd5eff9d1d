package doctor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oscaar90/escalation-engine/internal/audit"
	"github.com/oscaar90/escalation-engine/internal/registry"
)

// resolveAuditLog decides where the audit trail lives: an explicit
// override wins, otherwise the registry policies do. The second return
// short-circuits the caller when the path cannot be determined or
// auditing is off; the caller stamps the check name on it.
func resolveAuditLog(ctx *CheckContext) (string, *CheckResult) {
	if ctx.AuditLog != "" {
		return ctx.AuditLog, nil
	}

	reg, err := registry.Load(ctx.RegistryDir)
	if err != nil {
		return "", &CheckResult{
			Status:  StatusWarning,
			Message: "Cannot determine audit destination: registry does not load",
			Details: []string{err.Error()},
		}
	}

	rec := audit.NewRecorder(reg.Policies().Audit)
	if !rec.Enabled() {
		return "", &CheckResult{
			Status:  StatusOK,
			Message: "Audit trail disabled by policy",
		}
	}
	return rec.LogPath(), nil
}

// AuditDirCheck verifies the audit output directory exists and is
// writable. A missing directory is only a warning (the first recorded
// query creates it) and can be fixed by creating it up front.
type AuditDirCheck struct {
	FixableCheck
	dir string // resolved by Run so Fix knows what to create
}

// NewAuditDirCheck creates an audit directory check.
func NewAuditDirCheck() *AuditDirCheck {
	return &AuditDirCheck{
		FixableCheck: FixableCheck{
			BaseCheck: BaseCheck{
				CheckName:        "audit-directory",
				CheckDescription: "Verify the audit output directory exists and is writable",
				CheckCategory:    CategoryAudit,
			},
		},
	}
}

// Run resolves the audit destination and probes it for writability.
func (c *AuditDirCheck) Run(ctx *CheckContext) *CheckResult {
	c.dir = ""

	path, skip := resolveAuditLog(ctx)
	if skip != nil {
		skip.Name = c.Name()
		return skip
	}
	c.dir = filepath.Dir(path)

	info, err := os.Stat(c.dir)
	if os.IsNotExist(err) {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("Audit directory %s does not exist yet", c.dir),
			Details: []string{"The first recorded query will create it"},
			FixHint: "Run 'esc doctor --fix' to create it now",
		}
	}
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: "Cannot read audit directory: " + err.Error(),
		}
	}
	if !info.IsDir() {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("%s is a file, expected a directory", c.dir),
		}
	}

	probe, err := os.CreateTemp(c.dir, ".esc-doctor-*")
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("Audit directory %s is not writable", c.dir),
			Details: []string{err.Error()},
		}
	}
	probe.Close()
	os.Remove(probe.Name())

	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("Audit directory %s is writable", c.dir),
	}
}

// Fix creates the audit directory.
func (c *AuditDirCheck) Fix(ctx *CheckContext) error {
	if c.dir == "" {
		if result := c.Run(ctx); result.Status == StatusOK || c.dir == "" {
			return nil
		}
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating audit directory: %w", err)
	}
	return nil
}

// AuditTrailCheck verifies the recorded audit trail parses cleanly. A
// torn or hand-edited line breaks every reader, so catching it here
// beats finding out during an incident review.
type AuditTrailCheck struct {
	BaseCheck
}

// NewAuditTrailCheck creates an audit trail parse check.
func NewAuditTrailCheck() *AuditTrailCheck {
	return &AuditTrailCheck{
		BaseCheck: BaseCheck{
			CheckName:        "audit-trail",
			CheckDescription: "Verify existing audit records parse cleanly",
			CheckCategory:    CategoryAudit,
		},
	}
}

// Run reads the full trail and reports the first broken line.
func (c *AuditTrailCheck) Run(ctx *CheckContext) *CheckResult {
	path, skip := resolveAuditLog(ctx)
	if skip != nil {
		skip.Name = c.Name()
		return skip
	}

	records, err := audit.Read(path)
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: "Audit trail is corrupt",
			Details: []string{err.Error()},
			FixHint: fmt.Sprintf("Repair or remove the broken line in %s", path),
		}
	}
	if len(records) == 0 {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusOK,
			Message: fmt.Sprintf("No audit records yet at %s", path),
		}
	}

	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("%d audit record(s) parse cleanly", len(records)),
	}
}
