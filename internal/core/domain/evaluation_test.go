package domain

import (
	"encoding/json"
	"testing"
)

func TestEvaluationCaseUnmarshalSkipsUnknownDomains(t *testing.T) {
	raw := `{"query":"q","expected_domains":["bylaws","billing"],"expected_sources":["bill_payments"]}`

	var c EvaluationCase
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(c.ExpectedDomains) != 1 || c.ExpectedDomains[0] != DomainBilling {
		t.Fatalf("expected_domains = %v, want only %q", c.ExpectedDomains, DomainBilling)
	}
}

func TestEvaluationCaseUnmarshalAcceptsLegacyChunksKey(t *testing.T) {
	raw := `{"query":"q","expected_domains":["by-laws"],"expected_chunks":["by_laws:0"]}`

	var c EvaluationCase
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(c.ExpectedSources) != 1 || c.ExpectedSources[0] != "by_laws:0" {
		t.Fatalf("expected_sources = %v", c.ExpectedSources)
	}
	if len(c.ExpectedDomains) != 1 || c.ExpectedDomains[0] != DomainByLaws {
		t.Fatalf("expected_domains = %v", c.ExpectedDomains)
	}
}
