package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/ports"
)

// RefreshPageUseCase re-ingests a council web page as a document. The
// scraper fetches the page text; the result goes through the regular
// upload path, so the page lands in the same pipeline as a file upload
// and replaces its previous version.
type RefreshPageUseCase struct {
	scraper  ports.PageScraper
	ingestor ports.DocumentIngestor
}

func NewRefreshPageUseCase(scraper ports.PageScraper, ingestor ports.DocumentIngestor) *RefreshPageUseCase {
	return &RefreshPageUseCase{
		scraper:  scraper,
		ingestor: ingestor,
	}
}

func (uc *RefreshPageUseCase) Refresh(ctx context.Context, pageURL string) (*domain.Document, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "refresh page", errors.New("url is empty"))
	}
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "refresh page", fmt.Errorf("invalid url %q", pageURL))
	}

	text, err := uc.scraper.Scrape(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("scrape page: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "refresh page", fmt.Errorf("page %q has no text", pageURL))
	}

	doc, err := uc.ingestor.Upload(ctx, pageFilename(parsed), "text/plain", strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("ingest scraped page: %w", err)
	}
	return doc, nil
}

// pageFilename derives a stable upload name from the page location, so
// repeated refreshes of one page replace the same document.
func pageFilename(parsed *url.URL) string {
	name := parsed.Host + parsed.Path
	name = strings.Trim(name, "/")
	name = strings.NewReplacer("/", "_", ".", "_").Replace(name)
	if name == "" {
		name = "page"
	}
	return name + ".txt"
}
