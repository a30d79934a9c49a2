package ports

import (
	"context"
	"io"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

// DomainClassifier maps documents and queries to service domains.
// Implementations must be deterministic for identical input and
// configuration, and must never fail on empty input.
type DomainClassifier interface {
	ClassifyDocument(ctx context.Context, name, text string) (domain.DomainLabel, error)
	ClassifyQuery(ctx context.Context, text string) (domain.DomainLabel, error)
}

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// AnswerGenerator produces the final user-facing text from a prompt.
type AnswerGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Chunker splits document text into retrievable chunks.
type Chunker interface {
	Split(text string) []string
}

// VectorStore indexes domain-tagged chunks and performs similarity search.
// ReplaceDocument removes any prior chunks of the document before writing,
// so re-ingestion is idempotent. Writes are serialized by the adapter.
type VectorStore interface {
	ReplaceDocument(ctx context.Context, doc *domain.Document, chunks []string, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, limit int, filter domain.SearchFilter) ([]domain.RetrievedItem, error)
}

// StructuredIndex holds tabular/JSON records and answers keyword search.
// Load replaces the full record set; an empty search result is not an error.
type StructuredIndex interface {
	Load(ctx context.Context, records []domain.StructuredRecord) error
	Search(ctx context.Context, queryText string, filter domain.SearchFilter) ([]domain.RetrievedItem, error)
}

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Upsert(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveDomain(ctx context.Context, id string, label domain.DomainLabel) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue carries ingestion and page-refresh events between the
// API process and the worker.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
	PublishPageRefresh(ctx context.Context, url string) error
	SubscribePageRefresh(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// PageScraper fetches page text for document freshness. Failures surface
// as ErrCollaborator.
type PageScraper interface {
	Scrape(ctx context.Context, url string) (string, error)
}
