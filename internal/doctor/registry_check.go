package doctor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oscaar90/escalation-engine/internal/registry"
)

// RegistrySourcesCheck verifies the registry directory exists and holds
// the three source files (services.yaml, teams.yaml, policies.yaml).
type RegistrySourcesCheck struct {
	BaseCheck
}

// NewRegistrySourcesCheck creates a registry sources check.
func NewRegistrySourcesCheck() *RegistrySourcesCheck {
	return &RegistrySourcesCheck{
		BaseCheck: BaseCheck{
			CheckName:        "registry-sources",
			CheckDescription: "Verify the registry directory and its YAML sources exist",
			CheckCategory:    CategoryRegistry,
		},
	}
}

// Run checks for the registry directory and each source file.
func (c *RegistrySourcesCheck) Run(ctx *CheckContext) *CheckResult {
	info, err := os.Stat(ctx.RegistryDir)
	if os.IsNotExist(err) {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("Registry directory %s does not exist", ctx.RegistryDir),
			FixHint: "Run 'esc init' to scaffold a sample registry",
		}
	}
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: "Cannot read registry directory: " + err.Error(),
		}
	}
	if !info.IsDir() {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("%s is a file, expected a directory", ctx.RegistryDir),
		}
	}

	var missing []string
	for _, name := range registry.SourceFiles {
		if _, err := os.Stat(filepath.Join(ctx.RegistryDir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("%d registry source(s) missing from %s", len(missing), ctx.RegistryDir),
			Details: missing,
			FixHint: "Run 'esc init' to scaffold the missing files",
		}
	}

	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("All %d registry sources present in %s", len(registry.SourceFiles), ctx.RegistryDir),
	}
}

// RegistryParsesCheck verifies the registry sources parse and pass the
// per-file schema (known tiers and roles, positive SLAs, named contacts).
type RegistryParsesCheck struct {
	BaseCheck
}

// NewRegistryParsesCheck creates a registry parse check.
func NewRegistryParsesCheck() *RegistryParsesCheck {
	return &RegistryParsesCheck{
		BaseCheck: BaseCheck{
			CheckName:        "registry-parses",
			CheckDescription: "Verify the registry sources parse and match the schema",
			CheckCategory:    CategoryRegistry,
		},
	}
}

// Run loads the registry and reports the first schema problem, if any.
func (c *RegistryParsesCheck) Run(ctx *CheckContext) *CheckResult {
	reg, err := registry.Load(ctx.RegistryDir)
	if err != nil {
		status := StatusError
		if errors.Is(err, registry.ErrSourceMissing) {
			// The sources check already points at the missing files.
			status = StatusWarning
		}
		return &CheckResult{
			Name:    c.Name(),
			Status:  status,
			Message: "Registry does not load",
			Details: []string{err.Error()},
		}
	}

	return &CheckResult{
		Name:   c.Name(),
		Status: StatusOK,
		Message: fmt.Sprintf("Parsed %d service(s) and %d team(s)",
			len(reg.Services()), len(reg.Teams())),
	}
}

// RegistryReferencesCheck verifies cross-references: owner teams and
// escalation chains resolve, teams have reachable primaries, and the
// fallback team exists.
type RegistryReferencesCheck struct {
	BaseCheck
}

// NewRegistryReferencesCheck creates a referential integrity check.
func NewRegistryReferencesCheck() *RegistryReferencesCheck {
	return &RegistryReferencesCheck{
		BaseCheck: BaseCheck{
			CheckName:        "registry-references",
			CheckDescription: "Verify escalation chains, owners, and the fallback team resolve",
			CheckCategory:    CategoryRegistry,
		},
	}
}

// Run validates cross-references on a loaded registry.
func (c *RegistryReferencesCheck) Run(ctx *CheckContext) *CheckResult {
	reg, err := registry.Load(ctx.RegistryDir)
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: "Cannot check references: registry does not load",
			Details: []string{err.Error()},
		}
	}

	findings := registry.Validate(reg)
	if len(findings) > 0 {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("%d referential problem(s) found", len(findings)),
			Details: findings,
			FixHint: "Run 'esc validate' for the full report",
		}
	}

	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: "Escalation chains, owners, and fallback team all resolve",
	}
}
