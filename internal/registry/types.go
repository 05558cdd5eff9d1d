// Package registry loads and validates the on-call registry: the services,
// teams, and escalation policies that drive chain resolution. A registry is
// read from a directory of YAML sources and is immutable once loaded.
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	yaml "gopkg.in/yaml.v2"
)

// Tier is a service severity tier.
type Tier string

const (
	TierP1 Tier = "P1"
	TierP2 Tier = "P2"
	TierP3 Tier = "P3"
)

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierP1, TierP2, TierP3:
		return true
	}
	return false
}

// Role is a contact's position within a team.
type Role string

const (
	RolePrimary   Role = "primary"
	RoleSecondary Role = "secondary"
	RoleManager   Role = "manager"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RolePrimary, RoleSecondary, RoleManager:
		return true
	}
	return false
}

// Channel is a single way to reach a contact, e.g. {slack, #platform-core}.
type Channel struct {
	Type    string `json:"type"`
	Address string `json:"address"`
}

// Channels holds a contact's channels in declaration order. The YAML source
// writes them as a mapping; order of the keys is significant because channel
// selection falls back to the first declared channel.
type Channels []Channel

// UnmarshalYAML decodes a YAML mapping into an ordered channel list.
func (c *Channels) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw yaml.MapSlice
	if err := unmarshal(&raw); err != nil {
		return err
	}
	channels := make(Channels, 0, len(raw))
	for _, item := range raw {
		key, ok := item.Key.(string)
		if !ok {
			return fmt.Errorf("channel type must be a string, got %v", item.Key)
		}
		addr := ""
		if item.Value != nil {
			addr = fmt.Sprint(item.Value)
		}
		channels = append(channels, Channel{Type: key, Address: addr})
	}
	*c = channels
	return nil
}

// MarshalJSON encodes the channels as a JSON object, preserving declaration
// order.
func (c Channels) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ch := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ch.Type)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(ch.Address)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the channel with the given type.
func (c Channels) Get(typ string) (Channel, bool) {
	for _, ch := range c {
		if ch.Type == typ {
			return ch, true
		}
	}
	return Channel{}, false
}

// First returns the first declared channel.
func (c Channels) First() (Channel, bool) {
	if len(c) == 0 {
		return Channel{}, false
	}
	return c[0], true
}

// Map returns the channels as a plain map, losing order.
func (c Channels) Map() map[string]string {
	m := make(map[string]string, len(c))
	for _, ch := range c {
		m[ch.Type] = ch.Address
	}
	return m
}

// Clone returns an independent copy of the channel list.
func (c Channels) Clone() Channels {
	if c == nil {
		return nil
	}
	return append(Channels(nil), c...)
}

// Contact is a reachable person on a team.
type Contact struct {
	Name     string   `yaml:"name" json:"name"`
	Role     Role     `yaml:"role" json:"role"`
	Channels Channels `yaml:"channels" json:"channels"`
}

// Team is a named group of contacts referenced by escalation chains.
type Team struct {
	ID       string    `yaml:"id" json:"id"`
	Name     string    `yaml:"name" json:"name"`
	Contacts []Contact `yaml:"contacts" json:"contacts"`
}

// Primary returns the team's primary contact, falling back to the first
// declared contact when no primary role is present.
func (t *Team) Primary() (*Contact, bool) {
	for i := range t.Contacts {
		if t.Contacts[i].Role == RolePrimary {
			return &t.Contacts[i], true
		}
	}
	if len(t.Contacts) == 0 {
		return nil, false
	}
	return &t.Contacts[0], true
}

// HasPrimary reports whether any contact carries the primary role.
func (t *Team) HasPrimary() bool {
	for _, c := range t.Contacts {
		if c.Role == RolePrimary {
			return true
		}
	}
	return false
}

// Service is a monitored service with an escalation chain.
type Service struct {
	ID              string   `yaml:"id" json:"id"`
	Name            string   `yaml:"name" json:"name"`
	Tier            Tier     `yaml:"tier" json:"tier"`
	OwnerTeam       string   `yaml:"owner_team" json:"owner_team"`
	EscalationChain []string `yaml:"escalation_chain" json:"escalation_chain"`
	SLAMinutes      int      `yaml:"sla_minutes" json:"sla_minutes"`
}

// AuditConfig controls audit trail recording.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Output  string `yaml:"output" json:"output"`
	Format  string `yaml:"format" json:"format"`
}

// Policies are the global escalation knobs.
type Policies struct {
	DefaultSLAMinutes        int         `yaml:"default_sla_minutes" json:"default_sla_minutes"`
	EscalationTimeoutMinutes int         `yaml:"escalation_timeout_minutes" json:"escalation_timeout_minutes"`
	FallbackTeam             string      `yaml:"fallback_team" json:"fallback_team"`
	Audit                    AuditConfig `yaml:"audit" json:"audit"`
}

// Registry is an immutable snapshot of the loaded sources. Services and teams
// are indexed by id; when a source declares the same id twice the later entry
// wins, matching the order the file was written in.
type Registry struct {
	services     map[string]*Service
	teams        map[string]*Team
	serviceOrder []string
	teamOrder    []string
	policies     Policies
}

func newRegistry(services []*Service, teams []*Team, policies Policies) *Registry {
	reg := &Registry{
		services: make(map[string]*Service, len(services)),
		teams:    make(map[string]*Team, len(teams)),
		policies: policies,
	}
	for _, svc := range services {
		if _, seen := reg.services[svc.ID]; !seen {
			reg.serviceOrder = append(reg.serviceOrder, svc.ID)
		}
		reg.services[svc.ID] = svc
	}
	for _, team := range teams {
		if _, seen := reg.teams[team.ID]; !seen {
			reg.teamOrder = append(reg.teamOrder, team.ID)
		}
		reg.teams[team.ID] = team
	}
	return reg
}

// Service returns the service with the given id.
func (r *Registry) Service(id string) (*Service, bool) {
	svc, ok := r.services[id]
	return svc, ok
}

// Team returns the team with the given id.
func (r *Registry) Team(id string) (*Team, bool) {
	team, ok := r.teams[id]
	return team, ok
}

// Services returns all services in declaration order.
func (r *Registry) Services() []*Service {
	services := make([]*Service, 0, len(r.serviceOrder))
	for _, id := range r.serviceOrder {
		services = append(services, r.services[id])
	}
	return services
}

// Teams returns all teams in declaration order.
func (r *Registry) Teams() []*Team {
	teams := make([]*Team, 0, len(r.teamOrder))
	for _, id := range r.teamOrder {
		teams = append(teams, r.teams[id])
	}
	return teams
}

// ServiceIDs returns all service ids sorted alphabetically.
func (r *Registry) ServiceIDs() []string {
	ids := append([]string(nil), r.serviceOrder...)
	sort.Strings(ids)
	return ids
}

// Policies returns the loaded escalation policies.
func (r *Registry) Policies() Policies {
	return r.policies
}
