/*
esc is the Incident Escalation Engine CLI for resolving on-call chains.

esc answers "who do I page, on what channel, and how long do I have"
from a small declarative registry of services, teams, and policies.
It provides:

  - Resolve: Walk a service's escalation chain with SLA countdown
  - Whois: Look up a service's primary on-call owner
  - Validate: Cross-reference checks over the registry
  - Audit: Append-only trail of every query, with export and live tail

Usage:

	esc <command> [arguments]

Common commands:

	esc init              Scaffold a starter registry
	esc resolve <id>      Resolve the escalation chain for a service
	esc whois <id>        Show the primary on-call owner
	esc validate          Check registry cross-references
	esc audit show        Show recorded audit entries
	esc doctor            Run health checks on the setup
	esc version           Print version information

See 'esc help <command>' for more information on a specific command.
*/
package main

import (
	"os"

	"github.com/oscaar90/escalation-engine/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
