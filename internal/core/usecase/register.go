package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/core/ports"
)

// RegisterUseCase stores accepted documents in the document registry.
type RegisterUseCase struct {
	repo ports.DocumentRepository
}

func NewRegisterUseCase(repo ports.DocumentRepository) *RegisterUseCase {
	return &RegisterUseCase{repo: repo}
}

func (uc *RegisterUseCase) Register(ctx context.Context, record domain.AcceptedRecord) error {
	doc, err := documentFromRecord(record)
	if err != nil {
		return err
	}
	if err := uc.repo.Create(ctx, doc); err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func documentFromRecord(record domain.AcceptedRecord) (*domain.Document, error) {
	if strings.TrimSpace(record.ID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "register document", errors.New("missing document id"))
	}
	if strings.TrimSpace(record.ServerFilename) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "register document", errors.New("missing server filename"))
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:               record.ID,
		ServerFilename:   record.ServerFilename,
		OriginalFilename: record.OriginalFilename,
		CompanyID:        record.CompanyID,
		Category:         record.Category,
		Competence:       record.Competence,
		Status:           domain.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if record.DueDate != "" {
		due, err := time.Parse(domain.DateLayout, record.DueDate)
		if err != nil {
			return nil, domain.WrapError(domain.ErrInvalidInput, "register document", fmt.Errorf("parse due date: %w", err))
		}
		doc.DueDate = &due
	}
	return doc, nil
}
