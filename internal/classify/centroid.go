package classify

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/ports"
)

// CentroidClassifier classifies by cosine similarity between the input
// embedding and precomputed per-domain centroid embeddings. Centroids are
// built once from each domain's keyword seed text, so for fixed centroids
// the result is deterministic. Document names still take the filename
// shortcut of the keyword classifier.
type CentroidClassifier struct {
	embedder ports.Embedder
	keyword  *KeywordClassifier

	mu        sync.Mutex
	centroids map[domain.DomainLabel][]float32
}

func NewCentroidClassifier(embedder ports.Embedder) *CentroidClassifier {
	return &CentroidClassifier{
		embedder: embedder,
		keyword:  NewKeywordClassifier(),
	}
}

func (c *CentroidClassifier) ClassifyQuery(ctx context.Context, text string) (domain.DomainLabel, error) {
	if text == "" {
		return domain.DomainGeneral, nil
	}
	return c.classify(ctx, text)
}

func (c *CentroidClassifier) ClassifyDocument(ctx context.Context, name, text string) (domain.DomainLabel, error) {
	label, _ := c.keyword.ClassifyDocument(ctx, name, "")
	if label != domain.DomainGeneral {
		return label, nil
	}
	if text == "" {
		return domain.DomainGeneral, nil
	}
	snippet := text
	if len(snippet) > classificationSnippet {
		snippet = snippet[:classificationSnippet]
	}
	return c.classify(ctx, snippet)
}

func (c *CentroidClassifier) classify(ctx context.Context, text string) (domain.DomainLabel, error) {
	centroids, err := c.ensureCentroids(ctx)
	if err != nil {
		return domain.DomainGeneral, err
	}

	vector, err := c.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return domain.DomainGeneral, domain.WrapError(domain.ErrCollaborator, "embed for classification", err)
	}

	best := domain.DomainGeneral
	bestSim := math.Inf(-1)
	// Walk the priority order so equal similarities resolve to the more
	// specific domain, same as keyword ties.
	for _, label := range domain.DomainPriority() {
		centroid, ok := centroids[label]
		if !ok {
			continue
		}
		if sim := cosine(vector, centroid); sim > bestSim {
			best = label
			bestSim = sim
		}
	}
	return best, nil
}

func (c *CentroidClassifier) ensureCentroids(ctx context.Context) (map[domain.DomainLabel][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.centroids != nil {
		return c.centroids, nil
	}

	labels := domain.DomainPriority()
	seeds := make([]string, 0, len(labels))
	for _, label := range labels {
		seeds = append(seeds, SeedText(label))
	}

	vectors, err := c.embedder.Embed(ctx, seeds)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCollaborator, "embed domain seeds", err)
	}
	if len(vectors) != len(labels) {
		return nil, fmt.Errorf("domain seed embeddings mismatch: %d/%d", len(vectors), len(labels))
	}

	centroids := make(map[domain.DomainLabel][]float32, len(labels))
	for i, label := range labels {
		centroids[label] = vectors[i]
	}
	c.centroids = centroids
	return centroids, nil
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
