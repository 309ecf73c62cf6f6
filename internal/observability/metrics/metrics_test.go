package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
)

func TestObserveFileCountsByOutcomeAndReason(t *testing.T) {
	m := NewHTTPServerMetrics("api")

	m.ObserveFile(domain.ProcessingResult{Outcome: domain.OutcomeAccepted, Category: "FGTS"})
	m.ObserveFile(domain.ProcessingResult{Outcome: domain.OutcomeFiltered, Reason: domain.ReasonCompanyUnidentified, Category: "FGTS"})
	m.ObserveFile(domain.ProcessingResult{Outcome: domain.OutcomeFiltered, Reason: domain.ReasonCategoryUnidentified})

	if got := testutil.ToFloat64(m.filesTotal.WithLabelValues("api", "accepted", "none", "FGTS")); got != 1 {
		t.Fatalf("expected 1 accepted FGTS file, got %v", got)
	}
	if got := testutil.ToFloat64(m.filesTotal.WithLabelValues("api", "filtered", string(domain.ReasonCategoryUnidentified), "unknown")); got != 1 {
		t.Fatalf("expected 1 unidentified file, got %v", got)
	}
}

func TestObserveBatchMarksPartialRuns(t *testing.T) {
	m := NewHTTPServerMetrics("api")

	m.ObserveBatch(&domain.BatchResult{Total: 3}, time.Second)
	m.ObserveBatch(&domain.BatchResult{Total: 2, Errors: []string{"a.pdf: 502"}}, time.Second)
	m.ObserveBatch(nil, time.Second)

	if got := testutil.ToFloat64(m.batchesTotal.WithLabelValues("api", "ok")); got != 1 {
		t.Fatalf("expected 1 ok batch, got %v", got)
	}
	if got := testutil.ToFloat64(m.batchesTotal.WithLabelValues("api", "partial")); got != 1 {
		t.Fatalf("expected 1 partial batch, got %v", got)
	}
}

func TestObserveBreakerState(t *testing.T) {
	m := NewHTTPServerMetrics("api")

	m.ObserveBreakerState("upload.document", "closed", "open")
	if got := testutil.ToFloat64(m.breakerOpen.WithLabelValues("api", "upload.document")); got != 1 {
		t.Fatalf("expected open breaker gauge 1, got %v", got)
	}

	m.ObserveBreakerState("upload.document", "half-open", "closed")
	if got := testutil.ToFloat64(m.breakerOpen.WithLabelValues("api", "upload.document")); got != 0 {
		t.Fatalf("expected closed breaker gauge 0, got %v", got)
	}
	if got := testutil.ToFloat64(m.breakerTransitions.WithLabelValues("api", "upload.document", "open")); got != 1 {
		t.Fatalf("expected one transition to open, got %v", got)
	}
}

func TestMiddlewareNormalizesDocumentPath(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	for _, id := range []string{"a", "b"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/documents/"+id, nil))
	}

	if got := testutil.ToFloat64(m.requestTotal.WithLabelValues("api", http.MethodGet, "/v1/documents/{document_id}", "404")); got != 2 {
		t.Fatalf("expected 2 requests on normalized path, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "docrouter_http_requests_total") {
		t.Fatalf("expected exposition to contain request counter")
	}
}

func TestWorkerMetricsFinishDocument(t *testing.T) {
	m := NewWorkerMetrics("worker")

	m.StartDocument()
	m.FinishDocument(10*time.Millisecond, nil)
	m.StartDocument()
	m.FinishDocument(10*time.Millisecond, errors.New("db down"))

	if got := testutil.ToFloat64(m.registerTotal.WithLabelValues("worker", "error")); got != 1 {
		t.Fatalf("expected 1 failed registration, got %v", got)
	}
	if got := testutil.ToFloat64(m.registerInFlight); got != 0 {
		t.Fatalf("expected no in-flight registrations, got %v", got)
	}
}
