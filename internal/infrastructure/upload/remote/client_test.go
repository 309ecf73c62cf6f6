package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/infrastructure/resilience"
)

func TestUploadSendsMultipartAndReadsServerName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile() error = %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		if header.Filename != `guia "fgts".pdf` || string(body) != "pdf-bytes" {
			t.Errorf("unexpected part %q with body %q", header.Filename, body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"filename": "2024/guia-fgts.pdf"})
	}))
	defer server.Close()

	client, err := New(server.URL, Options{Token: "secret"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	receipt, err := client.Upload(context.Background(), domain.InputFile{
		Name:      `guia "fgts".pdf`,
		MediaType: domain.MediaTypePDF,
		Data:      []byte("pdf-bytes"),
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if receipt.ServerFilename != "2024/guia-fgts.pdf" {
		t.Fatalf("unexpected server filename %q", receipt.ServerFilename)
	}
}

func TestUploadAttemptsExactlyOnceOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "storage down", http.StatusBadGateway)
	}))
	defer server.Close()

	exec := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		BreakerEnabled:      false,
	})
	client, err := New(server.URL, Options{ResilienceExecutor: exec})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = client.Upload(context.Background(), domain.InputFile{Name: "a.pdf", Data: []byte("x")})
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly one attempt, got %d", got)
	}
}

func TestUploadMapsUnauthorizedAndMissingName(t *testing.T) {
	unauthorized := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer unauthorized.Close()

	client, _ := New(unauthorized.URL, Options{})
	if _, err := client.Upload(context.Background(), domain.InputFile{Name: "a.pdf"}); !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer empty.Close()

	client, _ = New(empty.URL, Options{})
	if _, err := client.Upload(context.Background(), domain.InputFile{Name: "a.pdf"}); err == nil {
		t.Fatalf("expected error when response has no filename")
	}
}

func TestClassifyUploadErrorLeavesClientErrorsOutOfBreaker(t *testing.T) {
	class := classifyUploadError(&HTTPStatusError{StatusCode: http.StatusRequestEntityTooLarge})
	if class.RecordFailure {
		t.Fatalf("413 must not count against the breaker")
	}
	class = classifyUploadError(&HTTPStatusError{StatusCode: http.StatusServiceUnavailable})
	if !class.RecordFailure {
		t.Fatalf("503 must count against the breaker")
	}
}

func TestNewRejectsEmptyEndpoint(t *testing.T) {
	if _, err := New("  ", Options{}); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
}

func TestUploadSendsEveryFileWithDefaultPolicy(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "storage down", http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := New(server.URL, Options{ResilienceExecutor: resilience.NewExecutor(resilience.UploadConfig(false, 1))})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	failed := 0
	for i := 0; i < 20; i++ {
		if _, err := client.Upload(context.Background(), domain.InputFile{Name: "a.pdf", Data: []byte("x")}); err != nil {
			failed++
		}
	}
	if failed != 20 || calls.Load() != 20 {
		t.Fatalf("expected 20 failed uploads each sent once, got failed=%d sent=%d", failed, calls.Load())
	}
}

func TestUploadOpenBreakerSkipsSending(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "storage down", http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := New(server.URL, Options{ResilienceExecutor: resilience.NewExecutor(resilience.UploadConfig(true, 2))})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 5; i++ {
		_, err = client.Upload(context.Background(), domain.InputFile{Name: "a.pdf", Data: []byte("x")})
	}
	if !domain.IsKind(err, domain.ErrTemporary) || !resilience.IsCircuitOpen(err) {
		t.Fatalf("expected an open-circuit temporary error, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected the breaker to stop sending after 2 failures, got %d", got)
	}
}
