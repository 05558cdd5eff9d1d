// Package resolver walks escalation chains: given a service it produces the
// ordered list of teams to page, who to reach at each level, over which
// channel, and how much SLA budget remains when that level is engaged.
package resolver

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/oscaar90/escalation-engine/internal/registry"
)

// Audit actions recorded by the resolver.
const (
	ActionResolve = "resolve"
	ActionWhois   = "whois"
)

var (
	// ErrServiceNotFound indicates the queried service id is not registered.
	ErrServiceNotFound = errors.New("service not found")

	// ErrTeamNotFound indicates a chain or ownership reference points at a
	// team the registry does not know.
	ErrTeamNotFound = errors.New("team not found")

	// ErrNoContacts indicates a referenced team has nobody to page.
	ErrNoContacts = errors.New("team has no contacts")
)

// AuditSink receives a record of every query the resolver answers.
// Implementations must tolerate concurrent calls.
type AuditSink interface {
	Record(action, query string, resultLevels int) error
}

// Step is one level of a resolved escalation chain.
type Step struct {
	Level        int               `json:"level"`
	Team         *registry.Team    `json:"team"`
	Contact      *registry.Contact `json:"contact"`
	Channel      string            `json:"channel"`
	SLARemaining int               `json:"sla_remaining"`
}

// Result is a fully resolved escalation chain for one query.
type Result struct {
	Service   *registry.Service `json:"service"`
	Chain     []Step            `json:"chain"`
	Timestamp string            `json:"timestamp"`
	Query     string            `json:"query"`
}

// Owner identifies the primary on-call contact for a service.
type Owner struct {
	Contact  string            `json:"contact"`
	Team     string            `json:"team"`
	Channels registry.Channels `json:"channels"`
}

// Resolver answers escalation queries against one loaded registry.
type Resolver struct {
	reg   *registry.Registry
	audit AuditSink
}

// New returns a resolver over reg. The sink may be nil when no audit trail
// is wanted; sink failures never fail a query.
func New(reg *registry.Registry, sink AuditSink) *Resolver {
	return &Resolver{reg: reg, audit: sink}
}

// Resolve builds the escalation chain for serviceID. The chain follows the
// service's declared order, with the fallback team appended unless it is
// already present. SLA budget counts down by the escalation timeout per
// level and may go negative when the chain outlives the budget.
func (r *Resolver) Resolve(serviceID string) (*Result, error) {
	svc, ok := r.reg.Service(serviceID)
	if !ok {
		return nil, r.unknownService(serviceID)
	}

	pol := r.reg.Policies()
	chain := append([]string(nil), svc.EscalationChain...)
	if !slices.Contains(chain, pol.FallbackTeam) {
		chain = append(chain, pol.FallbackTeam)
	}

	steps := make([]Step, 0, len(chain))
	for idx, teamID := range chain {
		team, ok := r.reg.Team(teamID)
		if !ok {
			return nil, fmt.Errorf("%w: '%s' referenced in escalation chain for service '%s'",
				ErrTeamNotFound, teamID, serviceID)
		}
		contact, ok := team.Primary()
		if !ok {
			return nil, fmt.Errorf("%w: '%s' in escalation chain for service '%s'",
				ErrNoContacts, teamID, serviceID)
		}
		steps = append(steps, Step{
			Level:        idx + 1,
			Team:         team,
			Contact:      contact,
			Channel:      pickChannel(svc.Tier, contact.Channels),
			SLARemaining: svc.SLAMinutes - pol.EscalationTimeoutMinutes*idx,
		})
	}

	result := &Result{
		Service:   svc,
		Chain:     steps,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Query:     serviceID,
	}
	if r.audit != nil {
		// Best effort: a broken audit trail must not break paging.
		_ = r.audit.Record(ActionResolve, serviceID, len(steps))
	}
	return result, nil
}

// Whois returns the primary on-call contact for serviceID's owner team.
// The returned channels are a copy; callers may mutate them freely.
func (r *Resolver) Whois(serviceID string) (*Owner, error) {
	svc, ok := r.reg.Service(serviceID)
	if !ok {
		return nil, r.unknownService(serviceID)
	}
	team, ok := r.reg.Team(svc.OwnerTeam)
	if !ok {
		return nil, fmt.Errorf("%w: owner team '%s' for service '%s'",
			ErrTeamNotFound, svc.OwnerTeam, serviceID)
	}
	contact, ok := team.Primary()
	if !ok {
		return nil, fmt.Errorf("%w: owner team '%s' for service '%s'",
			ErrNoContacts, svc.OwnerTeam, serviceID)
	}

	owner := &Owner{
		Contact:  contact.Name,
		Team:     team.Name,
		Channels: contact.Channels.Clone(),
	}
	if r.audit != nil {
		_ = r.audit.Record(ActionWhois, serviceID, 1)
	}
	return owner, nil
}

func (r *Resolver) unknownService(serviceID string) error {
	return fmt.Errorf("%w: '%s' (available services: %s)",
		ErrServiceNotFound, serviceID, strings.Join(r.reg.ServiceIDs(), ", "))
}

// pickChannel selects how a contact should be reached for a given tier.
// P1 pages go to the phone when one exists; lower tiers prefer slack, then
// email. When the preferred channels are absent the first declared channel
// is used, whatever it is.
func pickChannel(tier registry.Tier, channels registry.Channels) string {
	if tier == registry.TierP1 {
		if ch, ok := channels.Get("phone"); ok {
			return formatChannel(ch)
		}
	} else {
		if ch, ok := channels.Get("slack"); ok {
			return formatChannel(ch)
		}
		if ch, ok := channels.Get("email"); ok {
			return formatChannel(ch)
		}
	}
	ch, _ := channels.First()
	return formatChannel(ch)
}

func formatChannel(ch registry.Channel) string {
	return ch.Type + ": " + ch.Address
}
