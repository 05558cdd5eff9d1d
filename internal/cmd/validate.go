package cmd

import (
	"github.com/spf13/cobra"
	"github.com/oscaar90/escalation-engine/internal/registry"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:     "validate",
	GroupID: GroupRegistry,
	Short:   "Check registry cross-references",
	Long: `Check the registry for broken cross-references.

Loading already rejects malformed files; validate goes further and
checks referential integrity: owner teams that don't exist, escalation
chains naming unknown teams, teams without contacts or without a
primary, and a fallback team that isn't declared.

Exits non-zero when any finding is reported, so it can gate registry
changes in CI.

Examples:
  esc validate
  esc validate -r ./registry
  esc validate --json`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output findings as JSON")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	findings := registry.Validate(reg)

	if validateJSON {
		if findings == nil {
			findings = []string{}
		}
		if err := outputJSON(findings); err != nil {
			return err
		}
	} else {
		renderValidation(findings)
	}

	if len(findings) > 0 {
		return NewSilentExit(1)
	}
	return nil
}
