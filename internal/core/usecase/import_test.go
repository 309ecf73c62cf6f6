package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/core/ports"
)

func TestImportPublishesAcceptedRecords(t *testing.T) {
	publisher := &publisherFake{}
	observer := &observerFake{}
	uc := NewImportUseCase(
		&rosterFake{companies: testCompanies()},
		NewBatchProcessor(&extractorFake{}, &uploaderFake{}),
		publisher,
		observer,
		testRules(),
	)

	result, err := uc.Import(context.Background(), ports.ImportRequest{
		Files: []domain.InputFile{
			{Name: "INSS Comercial ABC.png"},
			{Name: "sem categoria.png"},
		},
		Competence: "04/2024",
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if result.Accepted != 1 || result.Filtered != 1 {
		t.Fatalf("unexpected counters %+v", result)
	}
	if len(publisher.records) != 1 || publisher.records[0].CompanyName != "Comercial ABC Ltda" {
		t.Fatalf("expected one published record, got %+v", publisher.records)
	}
	if len(observer.files) != 2 || observer.batches != 1 {
		t.Fatalf("expected observations for 2 files and 1 batch, got %d/%d", len(observer.files), observer.batches)
	}
}

func TestImportRejectsInvalidRequests(t *testing.T) {
	uc := NewImportUseCase(&rosterFake{}, NewBatchProcessor(&extractorFake{}, &uploaderFake{}), nil, nil, testRules())

	_, err := uc.Import(context.Background(), ports.ImportRequest{Competence: "04/2024"})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty batch, got %v", err)
	}

	_, err = uc.Import(context.Background(), ports.ImportRequest{
		Files:      []domain.InputFile{{Name: "a.pdf"}},
		Competence: "2024/04",
	})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for malformed competence, got %v", err)
	}
}

func TestImportRosterError(t *testing.T) {
	uc := NewImportUseCase(
		&rosterFake{err: errors.New("db down")},
		NewBatchProcessor(&extractorFake{}, &uploaderFake{}),
		nil, nil, testRules(),
	)
	_, err := uc.Import(context.Background(), ports.ImportRequest{
		Files:      []domain.InputFile{{Name: "a.pdf"}},
		Competence: "04/2024",
	})
	if err == nil || !strings.Contains(err.Error(), "load company roster") {
		t.Fatalf("expected roster error, got %v", err)
	}
}

func TestImportPublishFailureIsReportedNotFatal(t *testing.T) {
	uc := NewImportUseCase(
		&rosterFake{companies: testCompanies()},
		NewBatchProcessor(&extractorFake{}, &uploaderFake{}),
		&publisherFake{err: errors.New("nats: no servers available")},
		nil,
		testRules(),
	)
	result, err := uc.Import(context.Background(), ports.ImportRequest{
		Files:      []domain.InputFile{{Name: "INSS Comercial ABC.png"}},
		Competence: "04/2024",
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if result.Accepted != 1 || len(result.Errors) != 1 {
		t.Fatalf("expected accepted file with reported publish error, got %+v", result)
	}
}
