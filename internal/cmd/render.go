package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/oscaar90/escalation-engine/internal/audit"
	"github.com/oscaar90/escalation-engine/internal/registry"
	"github.com/oscaar90/escalation-engine/internal/resolver"
	"github.com/oscaar90/escalation-engine/internal/style"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// panelStyle frames single-record views like whois output.
var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(style.ColorAccent).
	Padding(0, 1)

// outputJSON writes v to stdout as indented JSON.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// tierStyle maps a service tier to its display style: P1 incidents are
// the ones that page people at night, so P1 renders red and bold.
func tierStyle(tier registry.Tier) lipgloss.Style {
	switch tier {
	case registry.TierP1:
		return style.Error.Bold(true)
	case registry.TierP2:
		return style.Warning
	default:
		return style.Success
	}
}

// slaStyle colors the remaining SLA budget: exhausted red, nearly
// exhausted (5 minutes or less) yellow, otherwise green.
func slaStyle(minutes int) lipgloss.Style {
	switch {
	case minutes <= 0:
		return style.Error
	case minutes <= 5:
		return style.Warning
	default:
		return style.Success
	}
}

func formatSLA(minutes int) string {
	return slaStyle(minutes).Render(fmt.Sprintf("%d min", minutes))
}

// roleTitle renders a contact role for display (primary -> Primary).
func roleTitle(role registry.Role) string {
	return cases.Title(language.English).String(string(role))
}

// truncateStr truncates a string to maxLen, adding "..." if truncated.
func truncateStr(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// sortServices returns services ordered by tier, then ID, for listings.
func sortServices(services []*registry.Service) []*registry.Service {
	sorted := append([]*registry.Service(nil), services...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Tier != sorted[j].Tier {
			return sorted[i].Tier < sorted[j].Tier
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// renderEscalation prints the resolved chain as an aligned table.
func renderEscalation(result *resolver.Result) {
	svc := result.Service
	fmt.Printf("\n%s %s %s\n\n",
		style.Bold.Render("Escalation Chain:"),
		svc.Name,
		tierStyle(svc.Tier).Render("["+string(svc.Tier)+"]"))

	fmt.Printf("%-6s %-20s %-24s %-11s %-30s %s\n",
		"Level", "Team", "Contact", "Role", "Channel", "SLA Left")
	fmt.Println(strings.Repeat("─", 100))

	for _, step := range result.Chain {
		fmt.Printf("%-6d %-20s %-24s %-11s %-30s %s\n",
			step.Level,
			truncateStr(step.Team.Name, 18),
			truncateStr(step.Contact.Name, 22),
			roleTitle(step.Contact.Role),
			truncateStr(step.Channel, 28),
			formatSLA(step.SLARemaining))
	}

	fmt.Println(strings.Repeat("─", 100))
	fmt.Printf("%s\n", style.Dim.Render("Timestamp: "+result.Timestamp))
}

// renderWhois prints the primary owner panel for a service.
func renderWhois(owner *resolver.Owner) {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n",
		style.Bold.Render(owner.Contact),
		style.Dim.Render("("+owner.Team+")")))
	for _, ch := range owner.Channels {
		b.WriteString("  " + style.Width(8).Render(ch.Type) + ch.Address + "\n")
	}

	fmt.Printf("\n%s\n", style.Bold.Render("Primary Owner"))
	fmt.Println(panelStyle.Render(strings.TrimRight(b.String(), "\n")))
}

// renderServices prints the registered services table.
func renderServices(services []*registry.Service) {
	if len(services) == 0 {
		fmt.Println(style.Dim.Render("No services registered."))
		return
	}

	fmt.Printf("\n%s\n\n", style.Bold.Render("Registered Services"))
	fmt.Printf("%-22s %-26s %-6s %-18s %s\n",
		"ID", "Name", "Tier", "Owner Team", "SLA (min)")
	fmt.Println(strings.Repeat("─", 84))

	for _, svc := range services {
		fmt.Printf("%-22s %-26s %s %-18s %d\n",
			truncateStr(svc.ID, 20),
			truncateStr(svc.Name, 24),
			tierStyle(svc.Tier).Render(fmt.Sprintf("%-6s", svc.Tier)),
			truncateStr(svc.OwnerTeam, 16),
			svc.SLAMinutes)
	}
}

// renderValidation prints validation findings, or the all-clear line.
func renderValidation(findings []string) {
	if len(findings) == 0 {
		fmt.Printf("%s %s\n", style.SuccessPrefix,
			style.Success.Bold(true).Render("Registry validation passed - no errors found."))
		return
	}

	fmt.Printf("%s %s\n", style.ErrorPrefix,
		style.Bold.Render(fmt.Sprintf("Validation failed with %d error(s):", len(findings))))
	for _, finding := range findings {
		fmt.Printf("  %s\n", style.Error.Render("• "+finding))
	}
}

// renderAuditRecords prints recorded audit entries as an aligned table.
func renderAuditRecords(records []audit.Record) {
	if len(records) == 0 {
		fmt.Println(style.Dim.Render("No audit entries found."))
		return
	}

	fmt.Printf("\n%s\n\n", style.Bold.Render("Audit Log"))
	fmt.Printf("%-21s %-8s %-22s %-14s %-12s %s\n",
		"Timestamp", "Action", "Query", "Result Levels", "User", "Hostname")
	fmt.Println(strings.Repeat("─", 96))

	for _, rec := range records {
		fmt.Printf("%-21s %-8s %-22s %-14d %-12s %s\n",
			rec.Timestamp,
			rec.Action,
			truncateStr(rec.Query, 20),
			rec.ResultLevels,
			truncateStr(rec.User, 10),
			truncateStr(rec.Hostname, 18))
	}
}
