package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

// centroidEmbedderFake returns a fixed vector per text so centroid
// classification is fully deterministic in tests.
type centroidEmbedderFake struct {
	vectors map[string][]float32
	err     error
}

func (f *centroidEmbedderFake) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		out = append(out, f.vectors[text])
	}
	return out, nil
}

func (f *centroidEmbedderFake) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := f.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func newCentroidFake() *centroidEmbedderFake {
	vectors := make(map[string][]float32)
	labels := domain.DomainPriority()
	for i, label := range labels {
		v := make([]float32, len(labels))
		v[i] = 1
		vectors[SeedText(label)] = v
	}

	billing := make([]float32, len(labels))
	billing[2] = 1 // index of billing in the priority order
	vectors["how much do I owe"] = billing
	return &centroidEmbedderFake{vectors: vectors}
}

func TestCentroidClassifyQueryPicksNearestDomain(t *testing.T) {
	c := NewCentroidClassifier(newCentroidFake())

	got, err := c.ClassifyQuery(context.Background(), "how much do I owe")
	if err != nil {
		t.Fatalf("ClassifyQuery() error = %v", err)
	}
	if got != domain.DomainBilling {
		t.Fatalf("centroid classification = %s, want billing", got)
	}

	// Same input, same centroids: identical result on repeat.
	again, _ := c.ClassifyQuery(context.Background(), "how much do I owe")
	if again != got {
		t.Fatalf("centroid classification not deterministic: %s != %s", again, got)
	}
}

func TestCentroidClassifyQueryEmptyIsGeneral(t *testing.T) {
	c := NewCentroidClassifier(newCentroidFake())
	got, err := c.ClassifyQuery(context.Background(), "")
	if err != nil {
		t.Fatalf("ClassifyQuery() error = %v", err)
	}
	if got != domain.DomainGeneral {
		t.Fatalf("empty query = %s, want general", got)
	}
}

func TestCentroidClassifyQueryCollaboratorFailure(t *testing.T) {
	c := NewCentroidClassifier(&centroidEmbedderFake{err: errors.New("embedder down")})

	got, err := c.ClassifyQuery(context.Background(), "how much do I owe")
	if !domain.IsKind(err, domain.ErrCollaborator) {
		t.Fatalf("expected ErrCollaborator, got %v", err)
	}
	if got != domain.DomainGeneral {
		t.Fatalf("failed classification should fall back to general, got %s", got)
	}
}

func TestCentroidClassifyDocumentKeepsFilenameShortcut(t *testing.T) {
	c := NewCentroidClassifier(&centroidEmbedderFake{err: errors.New("should not be called")})
	got, err := c.ClassifyDocument(context.Background(), "bylaws.txt", "irrelevant")
	if err != nil {
		t.Fatalf("ClassifyDocument() error = %v", err)
	}
	if got != domain.DomainByLaws {
		t.Fatalf("filename mapping = %s, want by-laws", got)
	}
}
