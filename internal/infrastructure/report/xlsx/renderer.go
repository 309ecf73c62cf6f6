package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	summarySheet  = "Resumo"
	filesSheet    = "Arquivos"
	acceptedSheet = "Aceitos"
)

// Renderer writes a batch result as a three-sheet workbook: totals, one row
// per input file, and the accepted records with their due dates.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) ContentType() string {
	return ContentType
}

func (r *Renderer) RenderBatch(w io.Writer, competence string, result *domain.BatchResult) error {
	if result == nil {
		return domain.WrapError(domain.ErrInvalidInput, "render batch report", fmt.Errorf("nil result"))
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	summary := [][]any{
		{"Competência", competence},
		{"Total", result.Total},
		{"Aceitos", result.Accepted},
		{"Filtrados", result.Filtered},
	}
	for _, msg := range result.Errors {
		summary = append(summary, []any{"Erro", msg})
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}
	if err := f.SetColStyle(summarySheet, "A", bold); err != nil {
		return fmt.Errorf("style summary sheet: %w", err)
	}

	files := [][]any{{"Arquivo", "Resultado", "Motivo", "Categoria", "Empresa", "Vencimento", "Nome no servidor"}}
	for _, res := range result.Results {
		files = append(files, []any{
			res.FileName, string(res.Outcome), string(res.Reason), string(res.Category), res.CompanyID, res.DueDate, res.ServerName,
		})
	}
	if err := addSheet(f, filesSheet, files, bold); err != nil {
		return err
	}

	accepted := [][]any{{"ID", "Arquivo", "Nome no servidor", "Empresa", "Razão social", "Categoria", "Competência", "Vencimento"}}
	for _, rec := range result.Records {
		accepted = append(accepted, []any{
			rec.ID, rec.OriginalFilename, rec.ServerFilename, rec.CompanyID, rec.CompanyName, string(rec.Category), rec.Competence, rec.DueDate,
		})
	}
	if err := addSheet(f, acceptedSheet, accepted, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func addSheet(f *excelize.File, name string, rows [][]any, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	if err := writeRows(f, name, rows); err != nil {
		return err
	}
	if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style sheet %s: %w", name, err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return fmt.Errorf("resolve last column of %s: %w", name, err)
	}
	if err := f.SetColWidth(name, "A", lastCol, 24); err != nil {
		return fmt.Errorf("size sheet %s: %w", name, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("resolve cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
