package doctor

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// stubCheck returns a canned result, for exercising the runner.
type stubCheck struct {
	BaseCheck
	result *CheckResult
}

func (c *stubCheck) Run(ctx *CheckContext) *CheckResult {
	res := *c.result
	res.Name = c.Name()
	return &res
}

func newStub(name string, status Status, message string) *stubCheck {
	return &stubCheck{
		BaseCheck: BaseCheck{
			CheckName:        name,
			CheckDescription: "stub check " + name,
			CheckCategory:    CategoryRegistry,
		},
		result: &CheckResult{Status: status, Message: message},
	}
}

// fixableStub is broken until fixed.
type fixableStub struct {
	FixableCheck
	broken bool
	fixErr error
	fixed  int
}

func (c *fixableStub) Run(ctx *CheckContext) *CheckResult {
	if c.broken {
		return &CheckResult{Name: c.Name(), Status: StatusError, Message: "broken"}
	}
	return &CheckResult{Name: c.Name(), Status: StatusOK, Message: "fine"}
}

func (c *fixableStub) Fix(ctx *CheckContext) error {
	c.fixed++
	if c.fixErr != nil {
		return c.fixErr
	}
	c.broken = false
	return nil
}

func newFixableStub(broken bool, fixErr error) *fixableStub {
	return &fixableStub{
		FixableCheck: FixableCheck{
			BaseCheck: BaseCheck{
				CheckName:        "fixable-stub",
				CheckDescription: "stub check that can repair itself",
				CheckCategory:    CategoryAudit,
			},
		},
		broken: broken,
		fixErr: fixErr,
	}
}

func TestDoctorRun(t *testing.T) {
	t.Parallel()
	d := NewDoctor()
	d.RegisterAll(
		newStub("alpha", StatusOK, "all good"),
		newStub("bravo", StatusWarning, "a bit off"),
		newStub("charlie", StatusError, "on fire"),
	)

	report := d.Run(&CheckContext{})

	if len(report.Checks) != 3 {
		t.Fatalf("expected 3 results, got %d", len(report.Checks))
	}
	want := Summary{OK: 1, Warnings: 1, Errors: 1}
	if report.Summary != want {
		t.Errorf("summary = %+v, want %+v", report.Summary, want)
	}
	if !report.HasErrors() {
		t.Error("expected HasErrors to be true")
	}

	// Registration order is preserved.
	for i, name := range []string{"alpha", "bravo", "charlie"} {
		if report.Checks[i].Name != name {
			t.Errorf("check %d = %q, want %q", i, report.Checks[i].Name, name)
		}
	}
	// Category is backfilled by the runner.
	if report.Checks[0].Category != CategoryRegistry {
		t.Errorf("category = %q, want %q", report.Checks[0].Category, CategoryRegistry)
	}
}

func TestDoctorFixRepairs(t *testing.T) {
	t.Parallel()
	stub := newFixableStub(true, nil)
	d := NewDoctor()
	d.Register(stub)

	report := d.Fix(&CheckContext{})

	if stub.fixed != 1 {
		t.Errorf("Fix called %d times, want 1", stub.fixed)
	}
	res := report.Checks[0]
	if res.Status != StatusOK {
		t.Errorf("expected StatusOK after fix, got %v: %s", res.Status, res.Message)
	}
	if !strings.Contains(res.Message, "(fixed)") {
		t.Errorf("message %q should note the fix", res.Message)
	}
	if report.HasErrors() {
		t.Error("fixed report should not have errors")
	}
}

func TestDoctorFixFailure(t *testing.T) {
	t.Parallel()
	stub := newFixableStub(true, errors.New("disk full"))
	d := NewDoctor()
	d.Register(stub)

	report := d.Fix(&CheckContext{})

	res := report.Checks[0]
	if res.Status != StatusError {
		t.Errorf("expected StatusError when fix fails, got %v", res.Status)
	}
	found := false
	for _, detail := range res.Details {
		if strings.Contains(detail, "disk full") {
			found = true
		}
	}
	if !found {
		t.Errorf("details %v should carry the fix error", res.Details)
	}
}

func TestDoctorFixSkipsUnfixable(t *testing.T) {
	t.Parallel()
	d := NewDoctor()
	d.Register(newStub("plain", StatusError, "still broken"))

	report := d.Fix(&CheckContext{})

	if report.Checks[0].Status != StatusError {
		t.Errorf("unfixable check should stay broken, got %v", report.Checks[0].Status)
	}
}

func TestDoctorFixLeavesHealthyAlone(t *testing.T) {
	t.Parallel()
	stub := newFixableStub(false, nil)
	d := NewDoctor()
	d.Register(stub)

	d.Fix(&CheckContext{})

	if stub.fixed != 0 {
		t.Errorf("Fix should not run on a healthy check, ran %d times", stub.fixed)
	}
}

func TestCanFix(t *testing.T) {
	t.Parallel()
	if NewRegistrySourcesCheck().CanFix() {
		t.Error("RegistrySourcesCheck should not be fixable")
	}
	if !NewAuditDirCheck().CanFix() {
		t.Error("AuditDirCheck should be fixable")
	}
}

func TestReportPrint(t *testing.T) {
	t.Parallel()
	d := NewDoctor()
	d.RegisterAll(
		newStub("alpha", StatusOK, "all good"),
		&stubCheck{
			BaseCheck: BaseCheck{CheckName: "bravo", CheckCategory: CategoryAudit},
			result: &CheckResult{
				Status:  StatusError,
				Message: "on fire",
				Details: []string{"smoke everywhere"},
				FixHint: "call the fire brigade",
			},
		},
	)
	report := d.Run(&CheckContext{})

	var buf bytes.Buffer
	report.Print(&buf, false)
	out := buf.String()

	for _, want := range []string{
		"alpha", "all good",
		"bravo", "on fire",
		"smoke everywhere",
		"call the fire brigade",
		"1 ok, 0 warning(s), 1 error(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
