package cmd

import (
	"testing"

	"github.com/oscaar90/escalation-engine/internal/registry"
	"github.com/oscaar90/escalation-engine/internal/resolver"
)

func chainFixture() *resolver.Result {
	return &resolver.Result{
		Service: &registry.Service{ID: "payments-api", Tier: registry.TierP1},
		Chain: []resolver.Step{
			{Level: 1, Channel: "phone: +34-600-111-222", SLARemaining: 30},
			{Level: 2, Channel: "phone: +34-600-333-444", SLARemaining: 20},
			{Level: 3, Channel: "slack: @incident-mgr", SLARemaining: 10},
		},
		Timestamp: "2026-08-25T10:00:00Z",
		Query:     "payments-api",
	}
}

func TestFilterChainByLevel(t *testing.T) {
	t.Parallel()

	result := chainFixture()
	filtered := filterChainByLevel(result, 2)

	if len(filtered.Chain) != 1 {
		t.Fatalf("filtered chain has %d steps, want 1", len(filtered.Chain))
	}
	if filtered.Chain[0].Level != 2 {
		t.Errorf("filtered step level = %d, want 2", filtered.Chain[0].Level)
	}
	if filtered.Chain[0].Channel != "phone: +34-600-333-444" {
		t.Errorf("filtered step channel = %q", filtered.Chain[0].Channel)
	}

	// Everything but the chain carries over.
	if filtered.Service.ID != result.Service.ID {
		t.Errorf("service changed: %q", filtered.Service.ID)
	}
	if filtered.Timestamp != result.Timestamp || filtered.Query != result.Query {
		t.Errorf("metadata changed: %q %q", filtered.Timestamp, filtered.Query)
	}

	// The original chain is untouched.
	if len(result.Chain) != 3 {
		t.Errorf("original chain mutated: %d steps", len(result.Chain))
	}
}

func TestFilterChainByLevelOutOfRange(t *testing.T) {
	t.Parallel()

	filtered := filterChainByLevel(chainFixture(), 9)

	if filtered.Chain == nil {
		t.Fatal("filtered chain is nil, want empty slice")
	}
	if len(filtered.Chain) != 0 {
		t.Errorf("filtered chain has %d steps, want 0", len(filtered.Chain))
	}
}
