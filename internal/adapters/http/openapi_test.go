package httpadapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kirillkom/accounting-doc-router/internal/config"
)

func TestOpenAPISpecIsValidAndCoversRoutes(t *testing.T) {
	doc, err := LoadOpenAPI(context.Background())
	if err != nil {
		t.Fatalf("LoadOpenAPI() error = %v", err)
	}

	routes := map[string]string{
		"/healthz":           http.MethodGet,
		"/v1/batches":        http.MethodPost,
		"/v1/due-dates":      http.MethodGet,
		"/v1/categories":     http.MethodGet,
		"/v1/documents/{id}": http.MethodGet,
	}
	for path, method := range routes {
		item := doc.Paths.Find(path)
		if item == nil {
			t.Fatalf("path %s is not documented", path)
		}
		if item.GetOperation(method) == nil {
			t.Fatalf("%s %s is not documented", method, path)
		}
	}

	reasons := doc.Components.Schemas["ProcessingResult"].Value.Properties["reason"].Value.Enum
	if len(reasons) != 6 {
		t.Fatalf("expected 6 documented filter reasons, got %d", len(reasons))
	}
}

func TestOpenAPIEndpointServesSpec(t *testing.T) {
	res := httptest.NewRecorder()
	newTestHandler(config.Config{APIRateLimitRPS: 1, APIRateLimitBurst: 1}, routerFakes{}).
		ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Body.Len() != len(openAPIDocument) {
		t.Fatalf("expected the embedded contract to be served verbatim")
	}
}
