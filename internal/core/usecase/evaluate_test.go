package usecase

import (
	"context"
	"math"
	"testing"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

type evalRetrieverFake struct {
	byQuery map[string][]domain.RetrievedItem
}

func (f *evalRetrieverFake) Retrieve(_ context.Context, query domain.Query) ([]domain.RetrievedItem, error) {
	return f.byQuery[query.Text], nil
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestEvaluateComputesCaseMetrics(t *testing.T) {
	retriever := &evalRetrieverFake{byQuery: map[string][]domain.RetrievedItem{
		"noise rules": {
			{Ref: "bylaws-1:0", DocumentID: "bylaws-1", Score: 0.9, Source: domain.SourceVector},
			{Ref: "faq:2", DocumentID: "faq", Score: 0.5, Source: domain.SourceVector},
		},
	}}
	uc := NewEvaluateUseCase(&routeClassifierFake{label: domain.DomainByLaws}, retriever, 5)

	report, err := uc.Evaluate(context.Background(), []domain.EvaluationCase{{
		Query:           "noise rules",
		ExpectedDomains: []domain.DomainLabel{domain.DomainByLaws},
		ExpectedSources: []string{"bylaws-1"},
	}})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	result := report.Results[0]
	if !almostEqual(result.Precision, 0.5) {
		t.Fatalf("precision = %v", result.Precision)
	}
	if !almostEqual(result.Recall, 1) {
		t.Fatalf("recall = %v", result.Recall)
	}
	wantF1 := 2 * 0.5 * 1 / 1.5
	if !almostEqual(result.F1, wantF1) {
		t.Fatalf("f1 = %v, want %v", result.F1, wantF1)
	}
	if !almostEqual(result.Relevance, 0.9) {
		t.Fatalf("relevance = %v", result.Relevance)
	}
	if !result.DomainMatch || !almostEqual(report.DomainAccuracy, 1) {
		t.Fatalf("domain accuracy = %v", report.DomainAccuracy)
	}
}

func TestEvaluateVacuousEmptyMatchIsPerfect(t *testing.T) {
	uc := NewEvaluateUseCase(&routeClassifierFake{label: domain.DomainGeneral}, &evalRetrieverFake{byQuery: map[string][]domain.RetrievedItem{}}, 5)

	report, err := uc.Evaluate(context.Background(), []domain.EvaluationCase{{
		Query:           "unknown topic",
		ExpectedDomains: []domain.DomainLabel{domain.DomainGeneral},
		ExpectedSources: nil,
	}})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	result := report.Results[0]
	if !almostEqual(result.Precision, 1) || !almostEqual(result.Recall, 1) {
		t.Fatalf("precision = %v recall = %v, want vacuous 1.0", result.Precision, result.Recall)
	}
	if math.IsNaN(result.F1) {
		t.Fatalf("f1 is NaN")
	}
}

func TestEvaluateAggregatesAcrossCases(t *testing.T) {
	retriever := &evalRetrieverFake{byQuery: map[string][]domain.RetrievedItem{
		"q1": {{Ref: "a:0", DocumentID: "a", Score: 1}},
		"q2": {{Ref: "b:0", DocumentID: "b", Score: 1}},
	}}
	uc := NewEvaluateUseCase(&routeClassifierFake{label: domain.DomainFAQ}, retriever, 5)

	report, err := uc.Evaluate(context.Background(), []domain.EvaluationCase{
		{Query: "q1", ExpectedDomains: []domain.DomainLabel{domain.DomainFAQ}, ExpectedSources: []string{"a"}},
		{Query: "q2", ExpectedDomains: []domain.DomainLabel{domain.DomainBilling}, ExpectedSources: []string{"zzz"}},
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !almostEqual(report.Precision, 0.5) {
		t.Fatalf("precision = %v", report.Precision)
	}
	if !almostEqual(report.Recall, 0.5) {
		t.Fatalf("recall = %v", report.Recall)
	}
	if !almostEqual(report.DomainAccuracy, 0.5) {
		t.Fatalf("domain accuracy = %v", report.DomainAccuracy)
	}
	for _, v := range []float64{report.Precision, report.Recall, report.F1, report.MeanRelevance, report.DomainAccuracy} {
		if v < 0 || v > 1 {
			t.Fatalf("metric out of range: %v", v)
		}
	}
}

func TestEvaluateRejectsEmptyBatch(t *testing.T) {
	uc := NewEvaluateUseCase(&routeClassifierFake{label: domain.DomainGeneral}, &evalRetrieverFake{}, 5)
	if _, err := uc.Evaluate(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty batch")
	}
}

func TestSourceMatchingRules(t *testing.T) {
	item := domain.RetrievedItem{Ref: "bylaws-1:0", DocumentID: "bylaws-1"}
	if !sourceMatches(item, "bylaws-1:0") {
		t.Fatalf("exact ref must match")
	}
	if !sourceMatches(item, "bylaws-1") {
		t.Fatalf("document id must match")
	}
	if sourceMatches(item, "bylaws-10") {
		t.Fatalf("different document must not match")
	}
	if sourceMatches(item, "") {
		t.Fatalf("empty source must not match")
	}
}
