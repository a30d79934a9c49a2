package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

func TestScrapeReturnsPageText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("missing user agent")
		}
		_, _ = w.Write([]byte(`<html><head><style>p{color:red}</style></head>
<body><h1>Refuse Collection</h1><script>track()</script><p>Bins are collected on Tuesdays &amp; Fridays.</p></body></html>`))
	}))
	defer server.Close()

	s := New(Config{RequestsPerSecond: 100})
	text, err := s.Scrape(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if !strings.Contains(text, "Refuse Collection") {
		t.Fatalf("missing heading: %q", text)
	}
	if !strings.Contains(text, "Tuesdays & Fridays") {
		t.Fatalf("entity not decoded: %q", text)
	}
	if strings.Contains(text, "track()") || strings.Contains(text, "color:red") {
		t.Fatalf("script/style leaked: %q", text)
	}
}

func TestScrapeHTTPFailureIsCollaboratorError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	s := New(Config{RequestsPerSecond: 100})
	_, err := s.Scrape(context.Background(), server.URL)
	if !errors.Is(err, domain.ErrCollaborator) {
		t.Fatalf("expected collaborator error, got %v", err)
	}
}

func TestScrapeConnectionFailureIsCollaboratorError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	s := New(Config{RequestsPerSecond: 100})
	_, err := s.Scrape(context.Background(), server.URL)
	if !errors.Is(err, domain.ErrCollaborator) {
		t.Fatalf("expected collaborator error, got %v", err)
	}
}

func TestStripHTMLCollapsesBlankLines(t *testing.T) {
	text := StripHTML("<div>a</div><div></div><div></div><div>b</div>")
	if strings.Contains(text, "\n\n\n") {
		t.Fatalf("blank lines not collapsed: %q", text)
	}
	if !strings.HasPrefix(text, "a") || !strings.HasSuffix(text, "b") {
		t.Fatalf("unexpected text: %q", text)
	}
}
