package cmd

import (
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:     "list",
	GroupID: GroupRegistry,
	Short:   "List registered services",
	Long: `List every service in the registry, ordered by tier then ID.

Examples:
  esc list
  esc list --json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	services := sortServices(reg.Services())

	if listJSON {
		return outputJSON(services)
	}

	renderServices(services)
	return nil
}
