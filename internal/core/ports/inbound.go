package ports

import (
	"context"
	"io"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

// QueryRouter is the inbound contract for answering a citizen question.
type QueryRouter interface {
	Route(ctx context.Context, question string, limit int) (*domain.AgentResponse, error)
}

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// RetrievalEvaluator runs a labeled query batch through the pipeline.
type RetrievalEvaluator interface {
	Evaluate(ctx context.Context, cases []domain.EvaluationCase) (*domain.EvaluationReport, error)
}

// PageRefresher re-ingests an externally scraped page as a document.
type PageRefresher interface {
	Refresh(ctx context.Context, url string) (*domain.Document, error)
}
