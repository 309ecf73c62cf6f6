package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create is idempotent on the document id so a redelivered event registers
// the document once.
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	var dueDate sql.NullTime
	if doc.DueDate != nil {
		dueDate = sql.NullTime{Time: *doc.DueDate, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, server_filename, original_filename, company_id, category, competence, due_date, status, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO NOTHING
`,
		doc.ID, doc.ServerFilename, doc.OriginalFilename, doc.CompanyID, string(doc.Category), doc.Competence,
		dueDate, string(doc.Status), doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, server_filename, original_filename, company_id, category, competence, due_date, status, created_at, updated_at
FROM documents
WHERE id = $1
`, id)

	var doc domain.Document
	var category, status string
	var dueDate sql.NullTime

	err := row.Scan(
		&doc.ID, &doc.ServerFilename, &doc.OriginalFilename, &doc.CompanyID, &category, &doc.Competence,
		&dueDate, &status, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get document", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}

	doc.Category = domain.Category(category)
	doc.Status = domain.DocumentStatus(status)
	if dueDate.Valid {
		d := dueDate.Time.UTC()
		doc.DueDate = &d
	}
	return &doc, nil
}
