package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/ports"
)

// EvaluateUseCase runs a labeled query batch through the classifier
// and the retrieval coordinator and scores the outcome against ground
// truth. Report values are arithmetic means over the cases.
type EvaluateUseCase struct {
	classifier ports.DomainClassifier
	retriever  Retriever
	limit      int
}

func NewEvaluateUseCase(classifier ports.DomainClassifier, retriever Retriever, limit int) *EvaluateUseCase {
	if limit <= 0 {
		limit = defaultResultCount
	}
	return &EvaluateUseCase{
		classifier: classifier,
		retriever:  retriever,
		limit:      limit,
	}
}

func (uc *EvaluateUseCase) Evaluate(ctx context.Context, cases []domain.EvaluationCase) (*domain.EvaluationReport, error) {
	if len(cases) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "evaluate", fmt.Errorf("no evaluation cases"))
	}

	report := &domain.EvaluationReport{Cases: len(cases)}
	for _, evalCase := range cases {
		result, err := uc.evaluateCase(ctx, evalCase)
		if err != nil {
			return nil, fmt.Errorf("evaluate case %q: %w", evalCase.Query, err)
		}
		report.Results = append(report.Results, result)
		report.Precision += result.Precision
		report.Recall += result.Recall
		report.F1 += result.F1
		report.MeanRelevance += result.Relevance
		if result.DomainMatch {
			report.DomainAccuracy++
		}
	}

	total := float64(len(cases))
	report.Precision /= total
	report.Recall /= total
	report.F1 /= total
	report.MeanRelevance /= total
	report.DomainAccuracy /= total
	return report, nil
}

func (uc *EvaluateUseCase) evaluateCase(ctx context.Context, evalCase domain.EvaluationCase) (domain.CaseResult, error) {
	label, err := uc.classifier.ClassifyQuery(ctx, evalCase.Query)
	if err != nil || !label.Valid() {
		label = domain.DomainGeneral
	}

	items, err := uc.retriever.Retrieve(ctx, domain.Query{
		Text:   evalCase.Query,
		Domain: label,
		Limit:  uc.limit,
	})
	if err != nil {
		return domain.CaseResult{}, err
	}

	precision, recall, relevance := scoreRetrieval(items, evalCase.ExpectedSources)
	return domain.CaseResult{
		Query:            evalCase.Query,
		ClassifiedDomain: label,
		Retrieved:        len(items),
		Precision:        precision,
		Recall:           recall,
		F1:               harmonicMean(precision, recall),
		Relevance:        relevance,
		DomainMatch:      domainExpected(label, evalCase.ExpectedDomains),
	}, nil
}

// scoreRetrieval computes precision and recall of the retrieved set
// against the expected sources, plus the mean score of the retrieved
// items that match an expected source. An expected source matches an
// item by exact ref, by owning document id or as a ref prefix. Empty
// expected plus empty retrieved is a perfect vacuous match.
func scoreRetrieval(items []domain.RetrievedItem, expected []string) (precision, recall, relevance float64) {
	if len(items) == 0 && len(expected) == 0 {
		return 1, 1, 0
	}

	matchedExpected := make(map[string]struct{}, len(expected))
	matchedItems := 0
	var matchedScoreSum float64
	for _, item := range items {
		matched := false
		for _, source := range expected {
			if sourceMatches(item, source) {
				matchedExpected[source] = struct{}{}
				matched = true
			}
		}
		if matched {
			matchedItems++
			matchedScoreSum += item.Score
		}
	}

	if len(items) > 0 {
		precision = float64(matchedItems) / float64(len(items))
	}
	if len(expected) == 0 {
		recall = 1
	} else {
		recall = float64(len(matchedExpected)) / float64(len(expected))
	}
	if matchedItems > 0 {
		relevance = matchedScoreSum / float64(matchedItems)
	}
	return precision, recall, relevance
}

func sourceMatches(item domain.RetrievedItem, source string) bool {
	if source == "" {
		return false
	}
	return item.Ref == source ||
		item.DocumentID == source ||
		strings.HasPrefix(item.Ref, source+":")
}

func harmonicMean(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

func domainExpected(label domain.DomainLabel, expected []domain.DomainLabel) bool {
	for _, candidate := range expected {
		if candidate == label {
			return true
		}
	}
	return false
}
