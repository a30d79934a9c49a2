package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

type ingestRepoFake struct {
	docs []*domain.Document
	err  error
}

func (f *ingestRepoFake) Upsert(_ context.Context, doc *domain.Document) error {
	if f.err != nil {
		return f.err
	}
	copyDoc := *doc
	f.docs = append(f.docs, &copyDoc)
	return nil
}

func (f *ingestRepoFake) GetByID(context.Context, string) (*domain.Document, error) {
	return nil, domain.ErrDocumentNotFound
}

func (f *ingestRepoFake) UpdateStatus(context.Context, string, domain.DocumentStatus, string) error {
	return nil
}

func (f *ingestRepoFake) SaveDomain(context.Context, string, domain.DomainLabel) error { return nil }

type storageFake struct {
	keys []string
	err  error
}

func (f *storageFake) Save(_ context.Context, key string, _ io.Reader) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

type queueFake struct {
	published []string
	err       error
}

func (f *queueFake) PublishDocumentIngested(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, id)
	return nil
}

func (f *queueFake) SubscribeDocumentIngested(context.Context, func(context.Context, string) error) error {
	return nil
}

func (f *queueFake) PublishPageRefresh(context.Context, string) error { return nil }

func (f *queueFake) SubscribePageRefresh(context.Context, func(context.Context, string) error) error {
	return nil
}

func TestUploadDerivesStableDocumentID(t *testing.T) {
	repo := &ingestRepoFake{}
	queue := &queueFake{}
	uc := NewIngestDocumentUseCase(repo, &storageFake{}, queue)

	first, err := uc.Upload(context.Background(), "By Laws.PDF", "application/pdf", strings.NewReader("v1"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	second, err := uc.Upload(context.Background(), "By Laws.PDF", "application/pdf", strings.NewReader("v2"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if first.ID != "by_laws" || first.ID != second.ID {
		t.Fatalf("ids = %q / %q, want stable by_laws", first.ID, second.ID)
	}
	if first.Status != domain.StatusUploaded {
		t.Fatalf("status = %q", first.Status)
	}
	if len(queue.published) != 2 || queue.published[0] != "by_laws" {
		t.Fatalf("published = %v", queue.published)
	}
}

func TestUploadStorageFailureSkipsMetadataAndQueue(t *testing.T) {
	repo := &ingestRepoFake{}
	queue := &queueFake{}
	uc := NewIngestDocumentUseCase(repo, &storageFake{err: errors.New("disk full")}, queue)

	_, err := uc.Upload(context.Background(), "faq.txt", "text/plain", strings.NewReader("x"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.docs) != 0 || len(queue.published) != 0 {
		t.Fatalf("side effects after storage failure: docs=%d published=%d", len(repo.docs), len(queue.published))
	}
}

func TestUploadRejectsEmptyFilename(t *testing.T) {
	uc := NewIngestDocumentUseCase(&ingestRepoFake{}, &storageFake{}, &queueFake{})
	_, err := uc.Upload(context.Background(), "  ", "text/plain", strings.NewReader("x"))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDocumentIDSanitization(t *testing.T) {
	cases := map[string]string{
		"bylaws.txt":            "bylaws",
		"Bill Payments.xlsx":    "bill_payments",
		"../etc/passwd":         "passwd",
		"répertoire notes.txt":  "r_pertoire_notes",
		"incident_reports.json": "incident_reports",
	}
	for input, want := range cases {
		if got := DocumentID(input); got != want {
			t.Fatalf("DocumentID(%q) = %q, want %q", input, got, want)
		}
	}
}
