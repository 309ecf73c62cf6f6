package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
)

// TextExtractor returns best-effort plain text for a document. Callers treat
// an error the same as empty text.
type TextExtractor interface {
	Extract(ctx context.Context, file domain.InputFile) (string, error)
}

// Uploader stores a document and returns the name the server assigned to it.
type Uploader interface {
	Upload(ctx context.Context, file domain.InputFile) (domain.UploadReceipt, error)
}

// CompanyRoster reads the current company snapshot.
type CompanyRoster interface {
	ListCompanies(ctx context.Context) ([]domain.Company, error)
}

// DocumentRepository persists accepted documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// EventPublisher announces accepted documents to downstream consumers.
type EventPublisher interface {
	PublishDocumentAccepted(ctx context.Context, record domain.AcceptedRecord) error
}

// EventSubscriber consumes accepted-document events until ctx is done.
type EventSubscriber interface {
	SubscribeDocumentAccepted(ctx context.Context, handler func(context.Context, domain.AcceptedRecord) error) error
}

// ReportRenderer writes a human-readable batch report.
type ReportRenderer interface {
	RenderBatch(w io.Writer, competence string, result *domain.BatchResult) error
	ContentType() string
}

// BatchObserver receives per-file and per-batch observations.
type BatchObserver interface {
	ObserveFile(result domain.ProcessingResult)
	ObserveBatch(result *domain.BatchResult, duration time.Duration)
}
