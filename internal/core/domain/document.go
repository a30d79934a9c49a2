package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// Document is a council source document. Domain is assigned once during
// processing and never mutated afterwards; reclassification means
// re-ingesting under the same ID, which replaces the prior chunks.
type Document struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	StoragePath string         `json:"storage_path"`
	Domain      DomainLabel    `json:"domain,omitempty"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// StructuredRecord is one row/object from tabular, JSON or SQL ingestion.
// Records are immutable once loaded; a full reload replaces them wholesale.
type StructuredRecord struct {
	ID     string            `json:"id"`
	Source string            `json:"source"`
	Domain DomainLabel       `json:"domain"`
	Fields map[string]string `json:"fields"`
}

// Query is the transient per-request view of a citizen question.
type Query struct {
	Text   string      `json:"text"`
	Domain DomainLabel `json:"domain"`
	Limit  int         `json:"limit"`
}
