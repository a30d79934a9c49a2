package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/ports"
)

const defaultResultCount = 5

// RetrieveUseCase is the hybrid retrieval coordinator. It runs vector
// similarity search and structured keyword search in the query's
// classified domain, merges both lists into one ranking and truncates
// to the requested result count. Empty results are a valid outcome;
// the dispatching handler decides what an empty context means.
type RetrieveUseCase struct {
	embedder   ports.Embedder
	vectors    ports.VectorStore
	structured ports.StructuredIndex
}

func NewRetrieveUseCase(
	embedder ports.Embedder,
	vectors ports.VectorStore,
	structured ports.StructuredIndex,
) *RetrieveUseCase {
	return &RetrieveUseCase{
		embedder:   embedder,
		vectors:    vectors,
		structured: structured,
	}
}

func (uc *RetrieveUseCase) Retrieve(ctx context.Context, query domain.Query) ([]domain.RetrievedItem, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultResultCount
	}
	text := strings.TrimSpace(query.Text)
	if text == "" {
		return nil, nil
	}
	filter := domain.SearchFilter{Domain: query.Domain}

	queryVector, err := uc.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	vectorHits, err := uc.vectors.Search(ctx, queryVector, limit, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	structuredHits, err := uc.structured.Search(ctx, text, filter)
	if err != nil {
		return nil, fmt.Errorf("structured search: %w", err)
	}

	merged := mergeResults(vectorHits, structuredHits)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// mergeResults re-ranks the union by score descending. Score ties
// prefer vector hits, then order by ref for a stable result.
func mergeResults(vectorHits, structuredHits []domain.RetrievedItem) []domain.RetrievedItem {
	merged := make([]domain.RetrievedItem, 0, len(vectorHits)+len(structuredHits))
	merged = append(merged, vectorHits...)
	merged = append(merged, structuredHits...)
	for i := range merged {
		merged[i].Score = clamp01(merged[i].Score)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		if merged[i].Source != merged[j].Source {
			return merged[i].Source == domain.SourceVector
		}
		return merged[i].Ref < merged[j].Ref
	})
	return merged
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
