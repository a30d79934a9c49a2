package usecase

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

type scraperFake struct {
	text string
	err  error
}

func (f *scraperFake) Scrape(context.Context, string) (string, error) {
	return f.text, f.err
}

type ingestorFake struct {
	filename string
	mimeType string
	body     string
	err      error
}

func (f *ingestorFake) Upload(_ context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.filename = filename
	f.mimeType = mimeType
	raw, _ := io.ReadAll(body)
	f.body = string(raw)
	return &domain.Document{ID: "page", Filename: filename}, nil
}

func TestRefreshReingestsScrapedPage(t *testing.T) {
	ingestor := &ingestorFake{}
	uc := NewRefreshPageUseCase(&scraperFake{text: "refuse collection schedule"}, ingestor)

	doc, err := uc.Refresh(context.Background(), "https://www.masvingocity.org.zw/services/refuse")
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if doc == nil {
		t.Fatalf("expected document")
	}
	if ingestor.filename != "www_masvingocity_org_zw_services_refuse.txt" {
		t.Fatalf("filename = %q", ingestor.filename)
	}
	if ingestor.mimeType != "text/plain" || ingestor.body != "refuse collection schedule" {
		t.Fatalf("mime = %q body = %q", ingestor.mimeType, ingestor.body)
	}
}

func TestRefreshRejectsInvalidURL(t *testing.T) {
	uc := NewRefreshPageUseCase(&scraperFake{text: "x"}, &ingestorFake{})
	for _, raw := range []string{"", "   ", "not a url"} {
		if _, err := uc.Refresh(context.Background(), raw); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("Refresh(%q): expected ErrInvalidInput, got %v", raw, err)
		}
	}
}

func TestRefreshPropagatesScrapeFailure(t *testing.T) {
	scrapeErr := domain.WrapError(domain.ErrCollaborator, "scrape", errors.New("timeout"))
	uc := NewRefreshPageUseCase(&scraperFake{err: scrapeErr}, &ingestorFake{})
	if _, err := uc.Refresh(context.Background(), "https://example.org/a"); !errors.Is(err, domain.ErrCollaborator) {
		t.Fatalf("expected collaborator error, got %v", err)
	}
}

func TestRefreshRejectsEmptyPageText(t *testing.T) {
	uc := NewRefreshPageUseCase(&scraperFake{text: "  \n "}, &ingestorFake{})
	if _, err := uc.Refresh(context.Background(), "https://example.org/a"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
