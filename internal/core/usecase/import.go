package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/core/ports"
)

// ImportUseCase drives one user batch: it snapshots the company roster, runs
// the batch processor and announces every accepted document.
type ImportUseCase struct {
	roster    ports.CompanyRoster
	processor *BatchProcessor
	publisher ports.EventPublisher
	observer  ports.BatchObserver
	rules     domain.ClassificationRules
}

func NewImportUseCase(
	roster ports.CompanyRoster,
	processor *BatchProcessor,
	publisher ports.EventPublisher,
	observer ports.BatchObserver,
	rules domain.ClassificationRules,
) *ImportUseCase {
	return &ImportUseCase{
		roster:    roster,
		processor: processor,
		publisher: publisher,
		observer:  observer,
		rules:     rules,
	}
}

func (uc *ImportUseCase) Import(ctx context.Context, req ports.ImportRequest) (*domain.BatchResult, error) {
	if len(req.Files) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "import batch", errors.New("no files"))
	}
	if _, err := domain.ParseCompetence(req.Competence); err != nil {
		return nil, err
	}

	companies, err := uc.roster.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load company roster: %w", err)
	}

	start := time.Now()
	result, err := uc.processor.Process(ctx, domain.BatchRequest{
		Files:      req.Files,
		Competence: req.Competence,
		Categories: req.Categories,
		Companies:  req.Companies,
		Roster:     companies,
		Rules:      uc.rules,
	})
	uc.observe(result, time.Since(start))
	if err != nil {
		return result, fmt.Errorf("process batch: %w", err)
	}

	uc.publishAccepted(ctx, result)

	slog.Info("batch_completed",
		"competence", req.Competence,
		"total", result.Total,
		"accepted", result.Accepted,
		"filtered", result.Filtered,
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)
	return result, nil
}

func (uc *ImportUseCase) publishAccepted(ctx context.Context, result *domain.BatchResult) {
	if uc.publisher == nil {
		return
	}
	for _, record := range result.Records {
		if err := uc.publisher.PublishDocumentAccepted(ctx, record); err != nil {
			slog.Error("accepted_document_publish_failed", "document_id", record.ID, "file", record.OriginalFilename, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: register document: %v", record.OriginalFilename, err))
		}
	}
}

func (uc *ImportUseCase) observe(result *domain.BatchResult, duration time.Duration) {
	if uc.observer == nil || result == nil {
		return
	}
	for _, r := range result.Results {
		uc.observer.ObserveFile(r)
	}
	uc.observer.ObserveBatch(result, duration)
}
