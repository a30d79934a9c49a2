package qdrant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

func TestReplaceDocumentDeletesThenUpserts(t *testing.T) {
	var calls []string
	var upserted struct {
		Points []struct {
			ID      string         `json:"id"`
			Payload map[string]any `json:"payload"`
		} `json:"points"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPut && r.URL.Path == "/collections/civic/points" {
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &upserted)
		}
		_, _ = w.Write([]byte(`{"result":{}}`))
	}))
	defer server.Close()

	c := New(server.URL, "civic")
	doc := &domain.Document{ID: "bylaws-1", Domain: domain.DomainByLaws, StoragePath: "bylaws.txt"}
	err := c.ReplaceDocument(context.Background(), doc, []string{"noise ordinance"}, [][]float32{{0.1, 0.2}})
	if err != nil {
		t.Fatalf("ReplaceDocument() error = %v", err)
	}

	want := []string{
		"PUT /collections/civic",
		"POST /collections/civic/points/delete",
		"PUT /collections/civic/points",
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d = %s, want %s", i, calls[i], want[i])
		}
	}

	if len(upserted.Points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(upserted.Points))
	}
	if upserted.Points[0].Payload["ref"] != "bylaws-1:0" {
		t.Fatalf("unexpected ref payload: %v", upserted.Points[0].Payload)
	}

	// The same chunk gets the same point ID on every ingest.
	firstID := upserted.Points[0].ID
	if err := c.ReplaceDocument(context.Background(), doc, []string{"noise ordinance"}, [][]float32{{0.1, 0.2}}); err != nil {
		t.Fatalf("ReplaceDocument() second error = %v", err)
	}
	if upserted.Points[0].ID != firstID {
		t.Fatalf("point id not stable: %s != %s", upserted.Points[0].ID, firstID)
	}
}

func TestSearchFiltersByDomainAndMapsPayload(t *testing.T) {
	var searchReq map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/collections/civic/points/search" {
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &searchReq)
			_, _ = w.Write([]byte(`{"result":[{"score":0.91,"payload":{"ref":"bylaws-1:0","doc_id":"bylaws-1","domain":"by-laws","text":"noise ordinance"}}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":{}}`))
	}))
	defer server.Close()

	c := New(server.URL, "civic")
	items, err := c.Search(context.Background(), []float32{0.1, 0.2}, 3, domain.SearchFilter{Domain: domain.DomainByLaws})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if searchReq["filter"] == nil {
		t.Fatalf("expected domain filter in request body")
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Ref != "bylaws-1:0" || items[0].Domain != domain.DomainByLaws || items[0].Source != domain.SourceVector {
		t.Fatalf("unexpected item: %+v", items[0])
	}
}

func TestSearchConnectionFailureIsCollaboratorError(t *testing.T) {
	c := New("http://127.0.0.1:1", "civic")
	_, err := c.Search(context.Background(), []float32{0.1}, 3, domain.SearchFilter{})
	if !domain.IsKind(err, domain.ErrCollaborator) {
		t.Fatalf("expected ErrCollaborator, got %v", err)
	}
}
