// Package scraper fetches council web pages for re-ingestion. Fetches
// are rate limited so refresh bursts never hammer the council site,
// and failures surface as domain.ErrCollaborator.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/infrastructure/resilience"
)

const maxPageBytes = 2 << 20

type Scraper struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	executor   *resilience.Executor
	userAgent  string
}

type Config struct {
	Timeout            time.Duration
	RequestsPerSecond  float64
	Burst              int
	UserAgent          string
	ResilienceExecutor *resilience.Executor
}

func New(cfg Config) *Scraper {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 2
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "masvingo-civic-assistant/1.0"
	}
	return &Scraper{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		executor:   cfg.ResilienceExecutor,
		userAgent:  userAgent,
	}
}

func (s *Scraper) Scrape(ctx context.Context, url string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	var body string
	call := func(callCtx context.Context) error {
		var err error
		body, err = s.fetch(callCtx, url)
		return err
	}

	var err error
	if s.executor != nil {
		err = s.executor.Execute(ctx, "scrape", call, classifyScrapeError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", domain.WrapError(domain.ErrCollaborator, "scrape page", err)
	}
	return StripHTML(body), nil
}

func (s *Scraper) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read page body: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", &httpStatusError{status: resp.StatusCode, url: url}
	}
	return string(raw), nil
}

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<(script|style|noscript)\b.*?</(script|style|noscript)>`)
	tagRe         = regexp.MustCompile(`(?s)<[^>]*>`)
	blankRe       = regexp.MustCompile(`\n{3,}`)
)

// StripHTML reduces a fetched page to readable text: script and style
// blocks go away, remaining tags become whitespace, entities for the
// common cases are decoded.
func StripHTML(page string) string {
	text := scriptBlockRe.ReplaceAllString(page, " ")
	text = tagRe.ReplaceAllString(text, "\n")
	text = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	).Replace(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
