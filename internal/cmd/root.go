// Package cmd provides CLI commands for the esc tool.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oscaar90/escalation-engine/internal/audit"
	"github.com/oscaar90/escalation-engine/internal/config"
	"github.com/oscaar90/escalation-engine/internal/registry"
	"github.com/oscaar90/escalation-engine/internal/resolver"
	"github.com/oscaar90/escalation-engine/internal/style"
)

var registryDir string

var rootCmd = &cobra.Command{
	Use:     "esc",
	Short:   "Incident Escalation Engine - resolve on-call chains fast",
	Version: Version,
	Long: `esc resolves incident escalation chains from a YAML on-call registry.

Given a service it walks the escalation chain in order, picks the right
contact and channel for the severity tier, and shows how much SLA budget
remains at every level. Queries can be recorded to an append-only audit
trail for later reporting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns an exit code.
// The caller (main) should call os.Exit with this code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		// Silent exits signal status via exit code only; everything else
		// gets the standard error line.
		if code, ok := IsSilentExit(err); ok {
			return code
		}
		fmt.Fprintf(os.Stderr, "%s %v\n", style.Error.Render("Error:"), err)
		return 1
	}
	return 0
}

// Command group IDs - used by subcommands to organize help output
const (
	GroupQuery    = "query"
	GroupRegistry = "registry"
	GroupAudit    = "audit"
	GroupDiag     = "diag"
)

func init() {
	// Enable prefix matching for subcommands (e.g., "esc res pay-api" -> "esc resolve pay-api")
	cobra.EnablePrefixMatching = true

	// Define command groups (order determines help output order)
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupQuery, Title: "Queries:"},
		&cobra.Group{ID: GroupRegistry, Title: "Registry:"},
		&cobra.Group{ID: GroupAudit, Title: "Audit Trail:"},
		&cobra.Group{ID: GroupDiag, Title: "Diagnostics:"},
	)

	// Put help and completion in a sensible group
	rootCmd.SetHelpCommandGroupID(GroupDiag)
	rootCmd.SetCompletionCommandGroupID(GroupDiag)

	rootCmd.PersistentFlags().StringVarP(&registryDir, "registry", "r", "",
		`Registry directory (default "registry", also via ESC_REGISTRY)`)
}

// regCache memoizes loaded registries for the lifetime of the process, so
// command helpers can call loadRegistry freely.
var regCache = registry.NewCache()

// loadRegistry loads the registry from the configured directory.
func loadRegistry() (*registry.Registry, error) {
	return regCache.Load(config.ResolveRegistryDir(registryDir))
}

// newResolver wires a resolver with the audit recorder the registry
// policies ask for.
func newResolver(reg *registry.Registry) *resolver.Resolver {
	return resolver.New(reg, audit.NewRecorder(reg.Policies().Audit))
}

// buildCommandPath walks the command hierarchy to build the full command path.
// For example: "esc audit export", "esc resolve", etc.
func buildCommandPath(cmd *cobra.Command) string {
	var parts []string
	for c := cmd; c != nil; c = c.Parent() {
		parts = append([]string{c.Name()}, parts...)
	}
	return strings.Join(parts, " ")
}

// requireSubcommand returns a RunE function for parent commands that require
// a subcommand. Without this, Cobra silently shows help and exits 0 for
// unknown subcommands like "esc audit foobar", masking errors.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("requires a subcommand\n\nRun '%s --help' for usage", buildCommandPath(cmd))
	}
	return fmt.Errorf("unknown command %q for %q\n\nRun '%s --help' for available commands",
		args[0], buildCommandPath(cmd), buildCommandPath(cmd))
}
