package registry

import "fmt"

// Validate checks cross-references within a loaded registry: services must
// point at known teams, chains must reference known teams, every team needs
// a reachable primary, and the fallback team must exist. Findings are
// returned as display strings; an empty slice means the registry is
// consistent. Order follows declaration order of the sources, so repeated
// runs report identically.
func Validate(reg *Registry) []string {
	var findings []string

	for _, svc := range reg.Services() {
		if _, ok := reg.Team(svc.OwnerTeam); !ok {
			findings = append(findings, fmt.Sprintf(
				"Service '%s': owner_team '%s' not found in teams", svc.ID, svc.OwnerTeam))
		}
		for _, teamID := range svc.EscalationChain {
			if _, ok := reg.Team(teamID); !ok {
				findings = append(findings, fmt.Sprintf(
					"Service '%s': escalation_chain references unknown team '%s'", svc.ID, teamID))
			}
		}
	}

	for _, team := range reg.Teams() {
		if len(team.Contacts) == 0 {
			findings = append(findings, fmt.Sprintf("Team '%s': has no contacts", team.ID))
		} else if !team.HasPrimary() {
			findings = append(findings, fmt.Sprintf(
				"Team '%s': has no contact with role 'primary'", team.ID))
		}
	}

	if _, ok := reg.Team(reg.policies.FallbackTeam); !ok {
		findings = append(findings, fmt.Sprintf(
			"Policies: fallback_team '%s' not found in teams", reg.policies.FallbackTeam))
	}

	return findings
}
