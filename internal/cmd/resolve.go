package cmd

import (
	"github.com/spf13/cobra"
	"github.com/oscaar90/escalation-engine/internal/resolver"
)

var (
	resolveJSON  bool
	resolveLevel int
)

var resolveCmd = &cobra.Command{
	Use:     "resolve <service-id>",
	GroupID: GroupQuery,
	Short:   "Resolve the escalation chain for a service",
	Long: `Resolve the full escalation chain for a service.

Walks the service's escalation chain in declared order, appends the
fallback team when it is not already present, and computes the SLA
budget remaining at each level. Each level names the contact to page
and the channel to reach them on, picked by service tier.

Examples:
  esc resolve payments-api
  esc resolve payments-api --level 2
  esc resolve payments-api --json`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Output as JSON")
	resolveCmd.Flags().IntVarP(&resolveLevel, "level", "l", 0, "Show only the given chain level")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	result, err := newResolver(reg).Resolve(args[0])
	if err != nil {
		return err
	}

	if resolveLevel > 0 {
		result = filterChainByLevel(result, resolveLevel)
	}

	if resolveJSON {
		return outputJSON(result)
	}

	renderEscalation(result)
	return nil
}

// filterChainByLevel narrows a result to a single chain level. An
// out-of-range level yields an empty chain, not an error.
func filterChainByLevel(result *resolver.Result, level int) *resolver.Result {
	filtered := *result
	filtered.Chain = make([]resolver.Step, 0, 1)
	for _, step := range result.Chain {
		if step.Level == level {
			filtered.Chain = append(filtered.Chain, step)
		}
	}
	return &filtered
}
