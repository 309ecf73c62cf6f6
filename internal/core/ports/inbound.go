package ports

import (
	"context"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
)

// BatchImporter is the inbound contract for classifying and storing a batch
// of uploaded documents.
type BatchImporter interface {
	Import(ctx context.Context, req ImportRequest) (*domain.BatchResult, error)
}

// ImportRequest is what the host collects from the user for one batch.
type ImportRequest struct {
	Files      []domain.InputFile
	Competence string
	Categories domain.CategoryFilter
	Companies  domain.CompanyFilter
}

// DueDateService exposes the due-date table for a competence.
type DueDateService interface {
	ComputeDueDates(competence string) map[domain.Category]string
}

// DocumentReader is the inbound read model for registered documents.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// DocumentRegistrar is the inbound contract for persisting accepted documents
// delivered through the queue.
type DocumentRegistrar interface {
	Register(ctx context.Context, record domain.AcceptedRecord) error
}
