package doctor

import (
	"errors"
	"fmt"
	"os"

	"github.com/oscaar90/escalation-engine/internal/config"
)

// SettingsCheck verifies the optional settings file. A missing file is
// fine (built-in defaults apply); a file that exists but does not parse,
// or that points at paths which do not exist, is a problem worth
// surfacing before it silently changes where commands look.
type SettingsCheck struct {
	BaseCheck
}

// NewSettingsCheck creates a settings file check.
func NewSettingsCheck() *SettingsCheck {
	return &SettingsCheck{
		BaseCheck: BaseCheck{
			CheckName:        "settings-file",
			CheckDescription: "Verify the settings file parses and points at real paths",
			CheckCategory:    CategoryConfig,
		},
	}
}

// Run loads the settings file and sanity-checks the paths it configures.
func (c *SettingsCheck) Run(ctx *CheckContext) *CheckResult {
	s, err := config.LoadSettings(ctx.SettingsPath)
	if errors.Is(err, config.ErrNotFound) {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusOK,
			Message: "No settings file; built-in defaults in effect",
		}
	}
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: "Settings file does not parse",
			Details: []string{err.Error()},
			FixHint: fmt.Sprintf("Fix or remove %s", ctx.SettingsPath),
		}
	}

	var warnings []string
	if s.Registry != "" {
		if _, err := os.Stat(s.Registry); err != nil {
			warnings = append(warnings,
				fmt.Sprintf("registry = %q points at a path that does not exist", s.Registry))
		}
	}
	if len(warnings) > 0 {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: "Settings file parses but points at missing paths",
			Details: warnings,
			FixHint: fmt.Sprintf("Update %s or create the missing paths", ctx.SettingsPath),
		}
	}

	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("Settings file %s parses", ctx.SettingsPath),
	}
}
