package cmd

import (
	"github.com/spf13/cobra"
)

var whoisJSON bool

var whoisCmd = &cobra.Command{
	Use:     "whois <service-id>",
	GroupID: GroupQuery,
	Short:   "Show the primary on-call owner for a service",
	Long: `Show the primary on-call contact for a service's owner team.

Answers "who owns this right now" without walking the full escalation
chain: the owner team's primary contact, with every contact channel in
the order the registry declares them.

Examples:
  esc whois payments-api
  esc whois payments-api --json`,
	Args: cobra.ExactArgs(1),
	RunE: runWhois,
}

func init() {
	whoisCmd.Flags().BoolVar(&whoisJSON, "json", false, "Output as JSON")

	rootCmd.AddCommand(whoisCmd)
}

func runWhois(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	owner, err := newResolver(reg).Whois(args[0])
	if err != nil {
		return err
	}

	if whoisJSON {
		return outputJSON(owner)
	}

	renderWhois(owner)
	return nil
}
