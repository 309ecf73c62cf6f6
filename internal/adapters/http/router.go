package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/accounting-doc-router/internal/config"
	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/core/ports"
	"github.com/kirillkom/accounting-doc-router/internal/core/usecase"
)

const multipartMemoryBytes = 32 << 20

// MetricsProvider is the part of the metrics registry the router mounts.
type MetricsProvider interface {
	Handler() http.Handler
	Middleware(next http.Handler) http.Handler
}

type Router struct {
	cfg      config.Config
	importer ports.BatchImporter
	dueDates ports.DueDateService
	docs     ports.DocumentReader
	rules    domain.ClassificationRules
	report   ports.ReportRenderer
	metrics  MetricsProvider
}

func NewRouter(
	cfg config.Config,
	importer ports.BatchImporter,
	dueDates ports.DueDateService,
	docs ports.DocumentReader,
	rules domain.ClassificationRules,
	report ports.ReportRenderer,
	metrics MetricsProvider,
) *Router {
	return &Router{
		cfg:      cfg,
		importer: importer,
		dueDates: dueDates,
		docs:     docs,
		rules:    rules,
		report:   report,
		metrics:  metrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/batches", rt.importBatch)
	mux.HandleFunc("/v1/due-dates", rt.listDueDates)
	mux.HandleFunc("/v1/categories", rt.listCategories)
	mux.HandleFunc("/v1/documents/", rt.getDocumentByID)

	var api http.Handler = mux
	api = backpressureMiddleware(api, rt.cfg.APIMaxInFlight, 2*time.Second)
	api = rateLimitMiddleware(api, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)

	// health, contract and metrics stay reachable while the api is throttled
	root := http.NewServeMux()
	root.Handle("/", api)
	root.HandleFunc("/healthz", rt.healthz)
	root.HandleFunc("/openapi.yaml", serveOpenAPI)
	if rt.metrics != nil {
		root.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = root
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) importBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	wantReport := strings.EqualFold(r.URL.Query().Get("format"), "xlsx")
	if wantReport && rt.report == nil {
		writeJSON(w, http.StatusNotAcceptable, map[string]string{"error": "report format is not available"})
		return
	}

	if rt.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "upload exceeds size limit"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart form is required"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	competence := strings.TrimSpace(r.FormValue("competence"))
	if _, err := domain.ParseCompetence(competence); err != nil {
		writeError(w, err)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'files' is required"})
		return
	}
	if rt.cfg.MaxBatchFiles > 0 && len(headers) > rt.cfg.MaxBatchFiles {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("at most %d files per batch", rt.cfg.MaxBatchFiles)})
		return
	}

	files := make([]domain.InputFile, 0, len(headers))
	for _, header := range headers {
		file, err := readUploadedFile(header)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		files = append(files, file)
	}

	var categories domain.CategoryFilter
	for _, c := range formList(r.MultipartForm.Value["categories"]) {
		categories = append(categories, domain.Category(c))
	}

	result, err := rt.importer.Import(r.Context(), ports.ImportRequest{
		Files:      files,
		Competence: competence,
		Categories: categories,
		Companies:  domain.CompanyFilter(formList(r.MultipartForm.Value["companies"])),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if wantReport {
		w.Header().Set("Content-Type", rt.report.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="batch-%s.xlsx"`, strings.ReplaceAll(competence, "/", "-")))
		if err := rt.report.RenderBatch(w, competence, result); err != nil {
			slog.Error("batch_report_render_failed", "request_id", requestIDFromContext(r.Context()), "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) listDueDates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	competence := strings.TrimSpace(r.URL.Query().Get("competence"))
	if _, err := domain.ParseCompetence(competence); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"competence": competence,
		"due_dates":  rt.dueDates.ComputeDueDates(competence),
	})
}

func (rt *Router) listCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": rt.rules.Categories(),
		"priority":   rt.rules.Priority,
		"due_dates":  rt.rules.DueDates,
	})
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.docs.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func readUploadedFile(header *multipart.FileHeader) (domain.InputFile, error) {
	f, err := header.Open()
	if err != nil {
		return domain.InputFile{}, fmt.Errorf("open %s: %w", header.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.InputFile{}, fmt.Errorf("read %s: %w", header.Filename, err)
	}
	mediaType := header.Header.Get("Content-Type")
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = usecase.DetectMediaType(header.Filename, data)
	}
	return domain.InputFile{
		Name:      header.Filename,
		MediaType: mediaType,
		Data:      data,
	}, nil
}

// formList accepts both repeated fields and comma-separated values.
func formList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("http_handler_failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
