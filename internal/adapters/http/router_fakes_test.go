package httpadapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kirillkom/accounting-doc-router/internal/config"
	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/core/duedate"
	"github.com/kirillkom/accounting-doc-router/internal/core/ports"
)

type importerFake struct {
	err  error
	last *ports.ImportRequest
}

func (f *importerFake) Import(_ context.Context, req ports.ImportRequest) (*domain.BatchResult, error) {
	f.last = &req
	if f.err != nil {
		return nil, f.err
	}
	result := &domain.BatchResult{Results: []domain.ProcessingResult{}, Records: []domain.AcceptedRecord{}}
	for _, file := range req.Files {
		result.Add(domain.ProcessingResult{FileName: file.Name, Outcome: domain.OutcomeFiltered, Reason: domain.ReasonCompanyUnidentified})
	}
	return result, nil
}

type docsFake struct {
	err error
}

func (f docsFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Document{ID: id, ServerFilename: "srv.pdf", Category: "FGTS", Status: domain.StatusPending}, nil
}

type reportFake struct{}

func (reportFake) RenderBatch(w io.Writer, competence string, result *domain.BatchResult) error {
	_, err := fmt.Fprintf(w, "report %s total=%d", competence, result.Total)
	return err
}

func (reportFake) ContentType() string { return "application/vnd.test" }

type routerFakes struct {
	importer *importerFake
	docs     ports.DocumentReader
}

func testRules() domain.ClassificationRules {
	return domain.ClassificationRules{
		Keywords: domain.KeywordMap{"FGTS": {"fgts"}, "INSS": {"inss"}, "Alvará": {"alvara"}},
		Priority: domain.PriorityCategories{"INSS", "FGTS"},
		Holidays: duedate.NationalHolidays(),
		DueDates: duedate.DefaultBindings(),
	}
}

func newTestHandler(cfg config.Config, fakes routerFakes) http.Handler {
	if fakes.importer == nil {
		fakes.importer = &importerFake{}
	}
	if fakes.docs == nil {
		fakes.docs = docsFake{err: domain.WrapError(domain.ErrNotFound, "get document", errors.New("id missing"))}
	}
	rules := testRules()
	return NewRouter(
		cfg,
		fakes.importer,
		duedate.NewCalculatorFromRules(rules),
		fakes.docs,
		rules,
		reportFake{},
		nil,
	).Handler()
}
