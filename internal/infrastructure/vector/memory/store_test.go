package memory

import (
	"context"
	"testing"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

func bylawsDoc() *domain.Document {
	return &domain.Document{ID: "bylaws-1", Domain: domain.DomainByLaws}
}

func TestReplaceDocumentIsIdempotent(t *testing.T) {
	s := NewStore()
	chunks := []string{"noise ordinance prohibits loud music", "pets must be leashed"}
	vectors := [][]float32{{1, 0}, {0, 1}}

	for i := 0; i < 3; i++ {
		if err := s.ReplaceDocument(context.Background(), bylawsDoc(), chunks, vectors); err != nil {
			t.Fatalf("ReplaceDocument() error = %v", err)
		}
	}
	if got := s.ChunkCount("bylaws-1"); got != 2 {
		t.Fatalf("chunk count after re-ingest = %d, want 2", got)
	}

	items, err := s.Search(context.Background(), []float32{1, 0}, 10, domain.SearchFilter{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if items[0].Ref != "bylaws-1:0" {
		t.Fatalf("expected stable chunk id bylaws-1:0, got %s", items[0].Ref)
	}
}

func TestSearchDomainFilterIsSound(t *testing.T) {
	s := NewStore()
	_ = s.ReplaceDocument(context.Background(), bylawsDoc(), []string{"noise ordinance"}, [][]float32{{1, 0}})
	_ = s.ReplaceDocument(context.Background(), &domain.Document{ID: "bills-1", Domain: domain.DomainBilling},
		[]string{"water tariffs"}, [][]float32{{0.9, 0.1}})

	items, err := s.Search(context.Background(), []float32{1, 0}, 10, domain.SearchFilter{Domain: domain.DomainByLaws})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 filtered item, got %d", len(items))
	}
	for _, item := range items {
		if item.Domain != domain.DomainByLaws {
			t.Fatalf("filter leaked domain %s", item.Domain)
		}
	}
}

func TestSearchOrderingAndLimit(t *testing.T) {
	s := NewStore()
	_ = s.ReplaceDocument(context.Background(), bylawsDoc(),
		[]string{"a", "b", "c"}, [][]float32{{1, 0}, {0.5, 0.5}, {0, 1}})

	items, err := s.Search(context.Background(), []float32{1, 0}, 2, domain.SearchFilter{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("limit not applied: got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].Score < items[i].Score {
			t.Fatalf("scores not non-increasing: %f < %f", items[i-1].Score, items[i].Score)
		}
	}
	for _, item := range items {
		if item.Score < 0 || item.Score > 1 {
			t.Fatalf("score out of [0,1]: %f", item.Score)
		}
	}
}

func TestSearchZeroVectorScoresZero(t *testing.T) {
	s := NewStore()
	_ = s.ReplaceDocument(context.Background(), bylawsDoc(), []string{"a"}, [][]float32{{0, 0}})

	items, _ := s.Search(context.Background(), []float32{1, 0}, 1, domain.SearchFilter{})
	if len(items) != 1 || items[0].Score != 0 {
		t.Fatalf("expected zero score for zero vector, got %v", items)
	}
}
