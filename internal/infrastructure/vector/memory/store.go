// Package memory provides a brute-force cosine vector store. It backs
// tests and offline evaluation runs, where a Qdrant instance is not
// available.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

type point struct {
	ref        string
	documentID string
	label      domain.DomainLabel
	text       string
	vector     []float32
}

type Store struct {
	mu     sync.RWMutex
	points []point
}

func NewStore() *Store {
	return &Store{}
}

// ReplaceDocument drops any points of the document before appending the
// new ones, so re-ingestion never duplicates chunks.
func (s *Store) ReplaceDocument(_ context.Context, doc *domain.Document, chunks []string, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks/vectors mismatch: %d/%d", len(chunks), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.points[:0]
	for _, p := range s.points {
		if p.documentID != doc.ID {
			kept = append(kept, p)
		}
	}
	s.points = kept

	for i := range chunks {
		s.points = append(s.points, point{
			ref:        fmt.Sprintf("%s:%d", doc.ID, i),
			documentID: doc.ID,
			label:      doc.Domain,
			text:       chunks[i],
			vector:     vectors[i],
		})
	}
	return nil
}

func (s *Store) Search(_ context.Context, queryVector []float32, limit int, filter domain.SearchFilter) ([]domain.RetrievedItem, error) {
	if limit <= 0 {
		limit = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.RetrievedItem, 0, limit)
	for _, p := range s.points {
		if filter.Domain != "" && p.label != filter.Domain {
			continue
		}
		out = append(out, domain.RetrievedItem{
			Ref:        p.ref,
			DocumentID: p.documentID,
			Domain:     p.label,
			Text:       p.text,
			Score:      clamp01(cosine(queryVector, p.vector)),
			Source:     domain.SourceVector,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Ref < out[j].Ref
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ChunkCount reports how many points a document currently owns.
func (s *Store) ChunkCount(documentID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.points {
		if p.documentID == documentID {
			n++
		}
	}
	return n
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
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
