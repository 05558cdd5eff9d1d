package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// Source file names expected inside a registry directory.
const (
	ServicesFile = "services.yaml"
	TeamsFile    = "teams.yaml"
	PoliciesFile = "policies.yaml"
)

// SourceFiles lists every file a registry directory must contain.
var SourceFiles = []string{ServicesFile, TeamsFile, PoliciesFile}

var (
	// ErrSourceMissing indicates one or more registry files are absent.
	ErrSourceMissing = errors.New("missing registry files")

	// ErrSourceInvalid indicates a registry file failed to parse or holds
	// values that break the schema.
	ErrSourceInvalid = errors.New("invalid registry file")
)

// Policy values applied when policies.yaml omits a knob. The audit section
// itself is required; its keys fall back to the audit defaults.
const (
	DefaultSLAMinutes        = 30
	DefaultEscalationTimeout = 10
	DefaultFallbackTeam      = "sre-oncall"
	DefaultAuditOutput       = "./audit_logs"
	DefaultAuditFormat       = "jsonl"
)

// DefaultDir is the registry directory used when nothing else is configured.
const DefaultDir = "registry"

type servicesDoc struct {
	Services []*Service `yaml:"services"`
}

type teamsDoc struct {
	Teams []*Team `yaml:"teams"`
}

type policiesDoc struct {
	Policies *policiesSpec `yaml:"policies"`
}

type policiesSpec struct {
	DefaultSLAMinutes        int          `yaml:"default_sla_minutes"`
	EscalationTimeoutMinutes int          `yaml:"escalation_timeout_minutes"`
	FallbackTeam             string       `yaml:"fallback_team"`
	Audit                    *AuditConfig `yaml:"audit"`
}

// Load reads the three registry sources from dir and returns an indexed
// registry. Schema problems (unknown tiers, missing names, non-positive
// SLAs) fail the load; cross-reference problems are left to Validate so a
// broken reference can be reported without losing the rest of the registry.
func Load(dir string) (*Registry, error) {
	var missing []string
	for _, name := range SourceFiles {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || info.IsDir() {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w in %s: %s", ErrSourceMissing, dir, strings.Join(missing, ", "))
	}

	services, err := loadServices(filepath.Join(dir, ServicesFile))
	if err != nil {
		return nil, err
	}
	teams, err := loadTeams(filepath.Join(dir, TeamsFile))
	if err != nil {
		return nil, err
	}
	policies, err := loadPolicies(filepath.Join(dir, PoliciesFile))
	if err != nil {
		return nil, err
	}
	return newRegistry(services, teams, policies), nil
}

func loadServices(path string) ([]*Service, error) {
	//nolint:gosec // G304: path is derived from the user-chosen registry dir
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	var doc servicesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, invalidSource(path, err)
	}
	if doc.Services == nil {
		return nil, invalidSource(path, errors.New("missing top-level 'services' key"))
	}
	if err := validateServices(doc.Services); err != nil {
		return nil, invalidSource(path, err)
	}
	return doc.Services, nil
}

func loadTeams(path string) ([]*Team, error) {
	//nolint:gosec // G304: path is derived from the user-chosen registry dir
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	var doc teamsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, invalidSource(path, err)
	}
	if doc.Teams == nil {
		return nil, invalidSource(path, errors.New("missing top-level 'teams' key"))
	}
	if err := validateTeams(doc.Teams); err != nil {
		return nil, invalidSource(path, err)
	}
	return doc.Teams, nil
}

func loadPolicies(path string) (Policies, error) {
	//nolint:gosec // G304: path is derived from the user-chosen registry dir
	data, err := os.ReadFile(path)
	if err != nil {
		return Policies{}, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	var doc policiesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Policies{}, invalidSource(path, err)
	}
	if doc.Policies == nil {
		return Policies{}, invalidSource(path, errors.New("missing top-level 'policies' key"))
	}
	spec := doc.Policies
	if spec.Audit == nil {
		return Policies{}, invalidSource(path, errors.New("missing 'audit' section"))
	}
	pol := Policies{
		DefaultSLAMinutes:        spec.DefaultSLAMinutes,
		EscalationTimeoutMinutes: spec.EscalationTimeoutMinutes,
		FallbackTeam:             spec.FallbackTeam,
		Audit:                    *spec.Audit,
	}
	if pol.DefaultSLAMinutes == 0 {
		pol.DefaultSLAMinutes = DefaultSLAMinutes
	}
	if pol.EscalationTimeoutMinutes == 0 {
		pol.EscalationTimeoutMinutes = DefaultEscalationTimeout
	}
	if pol.FallbackTeam == "" {
		pol.FallbackTeam = DefaultFallbackTeam
	}
	if pol.Audit.Output == "" {
		pol.Audit.Output = DefaultAuditOutput
	}
	if pol.Audit.Format == "" {
		pol.Audit.Format = DefaultAuditFormat
	}
	if err := validatePolicies(pol); err != nil {
		return Policies{}, invalidSource(path, err)
	}
	return pol, nil
}

func invalidSource(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSourceInvalid, filepath.Base(path), err)
}

func validateServices(services []*Service) error {
	for i, svc := range services {
		if svc == nil {
			return fmt.Errorf("service #%d: empty entry", i+1)
		}
		if svc.ID == "" {
			return fmt.Errorf("service #%d: missing id", i+1)
		}
		if svc.Name == "" {
			return fmt.Errorf("service '%s': missing name", svc.ID)
		}
		if !svc.Tier.Valid() {
			return fmt.Errorf("service '%s': unknown tier '%s'", svc.ID, svc.Tier)
		}
		if svc.OwnerTeam == "" {
			return fmt.Errorf("service '%s': missing owner_team", svc.ID)
		}
		if svc.SLAMinutes <= 0 {
			return fmt.Errorf("service '%s': sla_minutes must be positive, got %d", svc.ID, svc.SLAMinutes)
		}
	}
	return nil
}

func validateTeams(teams []*Team) error {
	for i, team := range teams {
		if team == nil {
			return fmt.Errorf("team #%d: empty entry", i+1)
		}
		if team.ID == "" {
			return fmt.Errorf("team #%d: missing id", i+1)
		}
		if team.Name == "" {
			return fmt.Errorf("team '%s': missing name", team.ID)
		}
		for _, contact := range team.Contacts {
			if contact.Name == "" {
				return fmt.Errorf("team '%s': contact with missing name", team.ID)
			}
			if !contact.Role.Valid() {
				return fmt.Errorf("team '%s': contact '%s' has unknown role '%s'", team.ID, contact.Name, contact.Role)
			}
			if len(contact.Channels) == 0 {
				return fmt.Errorf("team '%s': contact '%s' has no channels", team.ID, contact.Name)
			}
		}
	}
	return nil
}

func validatePolicies(pol Policies) error {
	if pol.DefaultSLAMinutes < 0 {
		return fmt.Errorf("default_sla_minutes must not be negative, got %d", pol.DefaultSLAMinutes)
	}
	if pol.EscalationTimeoutMinutes < 0 {
		return fmt.Errorf("escalation_timeout_minutes must not be negative, got %d", pol.EscalationTimeoutMinutes)
	}
	return nil
}
