package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	routedTotal    *prometheus.CounterVec
	fallbackTotal  *prometheus.CounterVec
	retrievedItems *prometheus.HistogramVec
	noContextTotal *prometheus.CounterVec
	routeDuration  *prometheus.HistogramVec

	evalGauges *prometheus.GaugeVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "civic",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "civic",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "civic",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	routedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "civic",
			Subsystem: "query",
			Name:      "routed_total",
			Help:      "Total routed questions by classified domain and terminal state.",
		},
		[]string{"service", "domain", "state"},
	)
	fallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "civic",
			Subsystem: "query",
			Name:      "fallback_total",
			Help:      "Total questions answered by the fallback handler.",
		},
		[]string{"service", "domain"},
	)
	retrievedItems := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "civic",
			Subsystem: "query",
			Name:      "retrieved_items",
			Help:      "Distribution of retrieved context items per answered question.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)
	noContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "civic",
			Subsystem: "query",
			Name:      "no_context_total",
			Help:      "Total answered questions without retrieved context.",
		},
		[]string{"service"},
	)
	routeDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "civic",
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "End-to-end routing duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	evalGauges := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "civic",
			Subsystem: "eval",
			Name:      "metric",
			Help:      "Latest evaluation report values by metric name.",
		},
		[]string{"service", "metric"},
	)

	registry.MustRegister(
		requestTotal, requestDuration, requestInFlight,
		routedTotal, fallbackTotal, retrievedItems, noContextTotal, routeDuration,
		evalGauges,
	)

	return &HTTPServerMetrics{
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestInFlight: requestInFlight,
		routedTotal:     routedTotal,
		fallbackTotal:   fallbackTotal,
		retrievedItems:  retrievedItems,
		noContextTotal:  noContextTotal,
		routeDuration:   routeDuration,
		evalGauges:      evalGauges,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordRoute(service string, resp *domain.AgentResponse, duration time.Duration) {
	if resp == nil {
		return
	}
	m.routedTotal.WithLabelValues(service, string(resp.Domain), string(resp.State)).Inc()
	m.routeDuration.WithLabelValues(service).Observe(duration.Seconds())
	m.retrievedItems.WithLabelValues(service).Observe(float64(len(resp.Context)))
	if resp.FallbackUsed {
		m.fallbackTotal.WithLabelValues(service, string(resp.Domain)).Inc()
	}
	if len(resp.Context) == 0 {
		m.noContextTotal.WithLabelValues(service).Inc()
	}
}

func (m *HTTPServerMetrics) RecordRouteFailure(service string, label domain.DomainLabel, duration time.Duration) {
	m.routedTotal.WithLabelValues(service, string(label), string(domain.StateFailed)).Inc()
	m.routeDuration.WithLabelValues(service).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordEvaluation(service string, report *domain.EvaluationReport) {
	if report == nil {
		return
	}
	values := map[string]float64{
		"precision":       report.Precision,
		"recall":          report.Recall,
		"f1":              report.F1,
		"mean_relevance":  report.MeanRelevance,
		"domain_accuracy": report.DomainAccuracy,
	}
	for name, value := range values {
		m.evalGauges.WithLabelValues(service, name).Set(value)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}
