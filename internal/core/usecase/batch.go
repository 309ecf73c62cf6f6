package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/kirillkom/accounting-doc-router/internal/core/classify"
	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/core/duedate"
	"github.com/kirillkom/accounting-doc-router/internal/core/ports"
	"github.com/kirillkom/accounting-doc-router/internal/core/textnorm"
)

// minUsableTextLength is the extracted-text length at or below which a PDF is
// classified by its file name alone.
const minUsableTextLength = 10

// BatchProcessor classifies, filters, dates and uploads the files of a batch
// one at a time, in input order. A failing file never stops the batch.
type BatchProcessor struct {
	extractor ports.TextExtractor
	uploader  ports.Uploader
}

func NewBatchProcessor(extractor ports.TextExtractor, uploader ports.Uploader) *BatchProcessor {
	return &BatchProcessor{
		extractor: extractor,
		uploader:  uploader,
	}
}

// Process runs the batch. The returned error is only ever ctx.Err(), in which
// case the result covers the files handled before cancellation.
func (p *BatchProcessor) Process(ctx context.Context, req domain.BatchRequest) (*domain.BatchResult, error) {
	result := &domain.BatchResult{
		Results: []domain.ProcessingResult{},
		Records: []domain.AcceptedRecord{},
	}
	dueDates := duedate.NewCalculatorFromRules(req.Rules).ComputeDueDates(req.Competence)

	for file, err := range ExpandArchives(req.Files) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		if err != nil {
			slog.Warn("batch_file_unreadable", "file", file.Name, "error", err)
			p.record(result, domain.ProcessingResult{
				FileName: file.Name,
				Outcome:  domain.OutcomeFiltered,
				Reason:   domain.ReasonArchiveUnreadable,
			})
			continue
		}
		p.processFile(ctx, file, req, dueDates, result)
	}
	return result, nil
}

func (p *BatchProcessor) processFile(
	ctx context.Context,
	file domain.InputFile,
	req domain.BatchRequest,
	dueDates map[domain.Category]string,
	result *domain.BatchResult,
) {
	text := p.classificationText(ctx, file)

	category, categoryOK := classify.IdentifyCategory(textnorm.Normalize(text), req.Rules.Keywords, req.Rules.Priority)
	company, companyOK := classify.IdentifyCompany(text, req.Roster)

	outcome := domain.ProcessingResult{
		FileName:  file.Name,
		Category:  category,
		CompanyID: company.ID,
		Outcome:   domain.OutcomeFiltered,
	}

	switch {
	case !categoryOK:
		outcome.Reason = domain.ReasonCategoryUnidentified
	case !companyOK:
		outcome.Reason = domain.ReasonCompanyUnidentified
	case !req.Categories.Allows(category):
		outcome.Reason = domain.ReasonCategoryNotSelected
	case !req.Companies.Allows(company.ID):
		outcome.Reason = domain.ReasonCompanyNotSelected
	}
	if outcome.Reason != "" {
		p.record(result, outcome)
		return
	}

	outcome.DueDate = dueDates[category]

	receipt, err := p.uploader.Upload(ctx, file)
	if err != nil {
		slog.Warn("batch_upload_failed", "file", file.Name, "company_id", company.ID, "category", string(category), "error", err)
		outcome.Reason = domain.ReasonUploadFailed
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.Name, err))
		p.record(result, outcome)
		return
	}

	outcome.Outcome = domain.OutcomeAccepted
	outcome.ServerName = receipt.ServerFilename
	p.record(result, outcome)
	result.Records = append(result.Records, domain.AcceptedRecord{
		ID:               uuid.NewString(),
		ServerFilename:   receipt.ServerFilename,
		OriginalFilename: file.Name,
		CompanyID:        company.ID,
		CompanyName:      company.Name,
		Category:         category,
		Competence:       req.Competence,
		DueDate:          outcome.DueDate,
	})
}

// classificationText is the extracted text followed by the file name, or
// the file name alone when nothing usable was extracted.
func (p *BatchProcessor) classificationText(ctx context.Context, file domain.InputFile) string {
	if !file.IsPDF() || p.extractor == nil {
		return file.Name
	}
	text, err := p.extractor.Extract(ctx, file)
	if err != nil {
		slog.Warn("batch_extract_failed", "file", file.Name, "error", err)
		return file.Name
	}
	if len(strings.TrimSpace(text)) <= minUsableTextLength {
		return file.Name
	}
	return text + " " + file.Name
}

func (p *BatchProcessor) record(result *domain.BatchResult, outcome domain.ProcessingResult) {
	result.Add(outcome)
	slog.Info("batch_file_processed",
		"file", outcome.FileName,
		"outcome", string(outcome.Outcome),
		"reason", string(outcome.Reason),
		"category", string(outcome.Category),
		"company_id", outcome.CompanyID,
		"due_date", outcome.DueDate,
	)
}
