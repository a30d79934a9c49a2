package domain

import "encoding/json"

// EvaluationCase is one labeled query with its retrieval ground truth.
type EvaluationCase struct {
	Query              string        `json:"query"`
	ExpectedDomains    []DomainLabel `json:"expected_domains"`
	ExpectedSources    []string      `json:"expected_sources"`
	RelevanceThreshold float64       `json:"relevance_threshold"`
}

// UnmarshalJSON accepts both "expected_sources" and the legacy
// "expected_chunks" key used by older test-query files.
func (c *EvaluationCase) UnmarshalJSON(data []byte) error {
	type alias struct {
		Query              string   `json:"query"`
		ExpectedDomains    []string `json:"expected_domains"`
		ExpectedSources    []string `json:"expected_sources"`
		ExpectedChunks     []string `json:"expected_chunks"`
		RelevanceThreshold float64  `json:"relevance_threshold"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	c.Query = a.Query
	c.RelevanceThreshold = a.RelevanceThreshold
	c.ExpectedDomains = c.ExpectedDomains[:0]
	for _, d := range a.ExpectedDomains {
		// A typo in the case file must not count a general
		// classification as a domain hit.
		label, ok := ParseDomain(d)
		if !ok {
			continue
		}
		c.ExpectedDomains = append(c.ExpectedDomains, label)
	}
	c.ExpectedSources = a.ExpectedSources
	if len(c.ExpectedSources) == 0 {
		c.ExpectedSources = a.ExpectedChunks
	}
	return nil
}

// CaseResult holds per-case metric values.
type CaseResult struct {
	Query            string      `json:"query"`
	ClassifiedDomain DomainLabel `json:"classified_domain"`
	Retrieved        int         `json:"retrieved"`
	Precision        float64     `json:"precision"`
	Recall           float64     `json:"recall"`
	F1               float64     `json:"f1"`
	Relevance        float64     `json:"relevance"`
	DomainMatch      bool        `json:"domain_match"`
}

// EvaluationReport aggregates metrics over a batch of cases as
// arithmetic means. All values sit in [0,1].
type EvaluationReport struct {
	Cases          int          `json:"cases"`
	Precision      float64      `json:"precision"`
	Recall         float64      `json:"recall"`
	F1             float64      `json:"f1"`
	MeanRelevance  float64      `json:"mean_relevance"`
	DomainAccuracy float64      `json:"domain_accuracy"`
	Results        []CaseResult `json:"results,omitempty"`
}
