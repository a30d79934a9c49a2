package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

// Client talks to the assistant API from the terminal.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 180 * time.Second},
	}
}

func (c *Client) Ask(ctx context.Context, question string, limit int) (*domain.AgentResponse, error) {
	payload := map[string]any{"question": question, "limit": limit}
	var resp domain.AgentResponse
	if err := c.postJSON(ctx, "/v1/ask", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Evaluate(ctx context.Context, casesPath string) (*domain.EvaluationReport, error) {
	raw, err := os.ReadFile(casesPath)
	if err != nil {
		return nil, fmt.Errorf("read cases file: %w", err)
	}
	var cases []domain.EvaluationCase
	if err := json.Unmarshal(raw, &cases); err != nil {
		return nil, fmt.Errorf("parse cases file: %w", err)
	}

	var report domain.EvaluationReport
	if err := c.postJSON(ctx, "/v1/evaluate", cases, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) Domains(ctx context.Context) ([]domain.DomainLabel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/domains", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	var resp struct {
		Domains []domain.DomainLabel `json:"domains"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Domains, nil
}

func (c *Client) Upload(ctx context.Context, path string) (*domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/documents", &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var doc domain.Document
	if err := c.do(req, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) RefreshPage(ctx context.Context, url string) error {
	return c.postJSON(ctx, "/v1/pages/refresh", map[string]string{"url": url}, &struct{}{})
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("api %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("api %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
