// Package httpadapter exposes the assistant over HTTP: document
// upload/status, question answering, evaluation runs, domain listing
// and page-refresh triggers.
package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/ports"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/observability/metrics"
)

type Router struct {
	service   string
	ingestor  ports.DocumentIngestor
	reader    ports.DocumentReader
	router    ports.QueryRouter
	evaluator ports.RetrievalEvaluator
	queue     ports.MessageQueue
	metrics   *metrics.HTTPServerMetrics
}

func NewRouter(
	service string,
	ingestor ports.DocumentIngestor,
	reader ports.DocumentReader,
	router ports.QueryRouter,
	evaluator ports.RetrievalEvaluator,
	queue ports.MessageQueue,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		service:   service,
		ingestor:  ingestor,
		reader:    reader,
		router:    router,
		evaluator: evaluator,
		queue:     queue,
		metrics:   httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.getDocumentByID)
	mux.HandleFunc("/v1/ask", rt.ask)
	mux.HandleFunc("/v1/evaluate", rt.evaluate)
	mux.HandleFunc("/v1/domains", rt.domains)
	mux.HandleFunc("/v1/pages/refresh", rt.refreshPage)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingestor.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) ask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Question string `json:"question"`
		Limit    int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	start := time.Now()
	resp, err := rt.router.Route(r.Context(), req.Question, req.Limit)
	if err != nil {
		if rt.metrics != nil {
			rt.metrics.RecordRouteFailure(rt.service, routeFailureDomain(err), time.Since(start))
		}
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordRoute(rt.service, resp, time.Since(start))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) evaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var cases []domain.EvaluationCase
	if err := json.NewDecoder(r.Body).Decode(&cases); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	report, err := rt.evaluator.Evaluate(r.Context(), cases)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordEvaluation(rt.service, report)
	}

	writeJSON(w, http.StatusOK, report)
}

func (rt *Router) domains(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"domains": domain.DomainPriority()})
}

func (rt *Router) refreshPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}

	if err := rt.queue.PublishPageRefresh(r.Context(), req.URL); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled", "url": req.URL})
}

func routeFailureDomain(err error) domain.DomainLabel {
	var failure *domain.RouteFailure
	if errors.As(err, &failure) {
		return failure.Domain
	}
	return domain.DomainGeneral
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": userSafeMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
