package usecase

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/core/duedate"
)

type extractorFake struct {
	texts map[string]string
	err   error
	calls []string
}

func (f *extractorFake) Extract(_ context.Context, file domain.InputFile) (string, error) {
	f.calls = append(f.calls, file.Name)
	if f.err != nil {
		return "", f.err
	}
	return f.texts[file.Name], nil
}

type uploaderFake struct {
	failOn  string
	uploads []string
}

func (f *uploaderFake) Upload(_ context.Context, file domain.InputFile) (domain.UploadReceipt, error) {
	f.uploads = append(f.uploads, file.Name)
	if f.failOn != "" && strings.Contains(file.Name, f.failOn) {
		return domain.UploadReceipt{}, errors.New("storage endpoint returned 502")
	}
	return domain.UploadReceipt{ServerFilename: "srv-" + file.Name}, nil
}

type rosterFake struct {
	companies []domain.Company
	err       error
}

func (f *rosterFake) ListCompanies(context.Context) ([]domain.Company, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.companies, nil
}

type publisherFake struct {
	records []domain.AcceptedRecord
	err     error
}

func (f *publisherFake) PublishDocumentAccepted(_ context.Context, record domain.AcceptedRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

type observerFake struct {
	files   []domain.ProcessingResult
	batches int
}

func (f *observerFake) ObserveFile(result domain.ProcessingResult) {
	f.files = append(f.files, result)
}

func (f *observerFake) ObserveBatch(*domain.BatchResult, time.Duration) {
	f.batches++
}

type documentRepoFake struct {
	created *domain.Document
	err     error
}

func (f *documentRepoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.err != nil {
		return f.err
	}
	copyDoc := *doc
	f.created = &copyDoc
	return nil
}

func (f *documentRepoFake) GetByID(context.Context, string) (*domain.Document, error) {
	return nil, errors.New("not implemented")
}

func testRules() domain.ClassificationRules {
	return domain.ClassificationRules{
		Keywords: domain.KeywordMap{
			"FGTS":             {"fgts", "fundo de garantia"},
			"INSS":             {"inss", "previdencia social"},
			"Simples Nacional": {"simples nacional"},
		},
		Priority: domain.PriorityCategories{"FGTS", "INSS"},
		Holidays: duedate.NationalHolidays(),
		DueDates: duedate.DefaultBindings(),
	}
}

func testCompanies() []domain.Company {
	return []domain.Company{
		{ID: "c1", Name: "Comercial ABC Ltda", DocNumber: "12.345.678/0001-99", Type: domain.CompanyTypeCNPJ},
		{ID: "c2", Name: "Padaria Pão Quente ME", DocNumber: "98.765.432/0001-10", Type: domain.CompanyTypeCNPJ},
	}
}

type zipEntry struct {
	name string
	body string
}

func buildZip(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		f, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("zip Create(%s) error = %v", e.name, err)
		}
		if _, err := f.Write([]byte(e.body)); err != nil {
			t.Fatalf("zip Write(%s) error = %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip Close() error = %v", err)
	}
	return buf.Bytes()
}
