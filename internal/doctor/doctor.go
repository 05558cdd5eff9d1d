// Package doctor runs health checks against an escalation setup: the
// on-call registry, the optional settings file, and the audit trail.
// Checks are independent so a broken registry still lets the settings
// and audit checks report something useful.
package doctor

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/oscaar90/escalation-engine/internal/style"
)

// Status classifies a check outcome.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Check categories, used to group output in verbose mode.
type Category string

const (
	CategoryRegistry Category = "registry"
	CategoryConfig   Category = "config"
	CategoryAudit    Category = "audit"
)

// CheckContext carries the resolved paths every check inspects.
type CheckContext struct {
	// RegistryDir is the on-call registry directory.
	RegistryDir string

	// SettingsPath is the settings file location. The file is optional;
	// checks treat a missing file as defaults-in-effect.
	SettingsPath string

	// AuditLog overrides the audit trail path. Empty means the registry
	// policies decide where records go.
	AuditLog string
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Status   Status   `json:"status"`
	Message  string   `json:"message"`
	Details  []string `json:"details,omitempty"`
	FixHint  string   `json:"fix_hint,omitempty"`
}

// Check is a single diagnostic.
type Check interface {
	Name() string
	Description() string
	Category() Category
	CanFix() bool
	Run(ctx *CheckContext) *CheckResult
}

// Fixable is a check that can repair what it detects.
type Fixable interface {
	Check
	Fix(ctx *CheckContext) error
}

// BaseCheck provides the identity boilerplate checks embed.
type BaseCheck struct {
	CheckName        string
	CheckDescription string
	CheckCategory    Category
}

func (b BaseCheck) Name() string        { return b.CheckName }
func (b BaseCheck) Description() string { return b.CheckDescription }
func (b BaseCheck) Category() Category  { return b.CheckCategory }
func (b BaseCheck) CanFix() bool        { return false }

// FixableCheck marks an embedding check as repairable. The check itself
// must implement Fix.
type FixableCheck struct {
	BaseCheck
}

func (f FixableCheck) CanFix() bool { return true }

// Summary tallies results by status.
type Summary struct {
	OK       int `json:"ok"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// Report collects the results of a doctor run in registration order.
type Report struct {
	Checks  []*CheckResult `json:"checks"`
	Summary Summary        `json:"summary"`
}

func (r *Report) add(result *CheckResult) {
	r.Checks = append(r.Checks, result)
	switch result.Status {
	case StatusError:
		r.Summary.Errors++
	case StatusWarning:
		r.Summary.Warnings++
	default:
		r.Summary.OK++
	}
}

// HasErrors reports whether any check failed outright.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// Print renders the report for terminals. Details and fix hints are shown
// for anything that is not OK; verbose shows them for every check.
func (r *Report) Print(w io.Writer, verbose bool) {
	for _, res := range r.Checks {
		fmt.Fprintf(w, "%s %-22s %s\n", statusPrefix(res.Status), res.Name, res.Message)
		if res.Status == StatusOK && !verbose {
			continue
		}
		detail := detailStyle(res.Status)
		for _, d := range res.Details {
			fmt.Fprintf(w, "    %s\n", detail.Render("• "+d))
		}
		if res.FixHint != "" {
			fmt.Fprintf(w, "  %s %s\n", style.ArrowPrefix, style.Dim.Render(res.FixHint))
		}
	}

	fmt.Fprintf(w, "\n%s, %s, %s\n",
		style.Success.Render(fmt.Sprintf("%d ok", r.Summary.OK)),
		style.Warning.Render(fmt.Sprintf("%d warning(s)", r.Summary.Warnings)),
		style.Error.Render(fmt.Sprintf("%d error(s)", r.Summary.Errors)))
}

func statusPrefix(s Status) string {
	switch s {
	case StatusError:
		return style.ErrorPrefix
	case StatusWarning:
		return style.WarningPrefix
	default:
		return style.SuccessPrefix
	}
}

func detailStyle(s Status) lipgloss.Style {
	switch s {
	case StatusError:
		return style.Error
	case StatusWarning:
		return style.Warning
	default:
		return style.Dim
	}
}

// Doctor runs registered checks and aggregates their results.
type Doctor struct {
	checks []Check
}

// NewDoctor returns an empty doctor.
func NewDoctor() *Doctor {
	return &Doctor{}
}

// Register adds a check. Checks run in registration order.
func (d *Doctor) Register(c Check) {
	d.checks = append(d.checks, c)
}

// RegisterAll adds several checks at once.
func (d *Doctor) RegisterAll(checks ...Check) {
	for _, c := range checks {
		d.Register(c)
	}
}

// Run executes every check and returns the collected report.
func (d *Doctor) Run(ctx *CheckContext) *Report {
	report := &Report{}
	for _, c := range d.checks {
		report.add(d.runCheck(c, ctx))
	}
	return report
}

// Fix executes every check and attempts to repair failures that support
// it. Repaired checks are re-run so the report shows the fixed state.
func (d *Doctor) Fix(ctx *CheckContext) *Report {
	report := &Report{}
	for _, c := range d.checks {
		result := d.runCheck(c, ctx)
		if result.Status != StatusOK && c.CanFix() {
			if fixable, ok := c.(Fixable); ok {
				if err := fixable.Fix(ctx); err != nil {
					result.Details = append(result.Details, "fix failed: "+err.Error())
				} else if rerun := d.runCheck(c, ctx); rerun.Status == StatusOK {
					rerun.Message += " (fixed)"
					result = rerun
				}
			}
		}
		report.add(result)
	}
	return report
}

// runCheck backfills the category so individual checks don't have to
// stamp it on every result.
func (d *Doctor) runCheck(c Check, ctx *CheckContext) *CheckResult {
	result := c.Run(ctx)
	if result.Category == "" {
		result.Category = c.Category()
	}
	return result
}
