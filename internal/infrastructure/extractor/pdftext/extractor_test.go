package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
)

// minimalPDF builds a single-page PDF whose content stream shows text in
// Helvetica, with a correct cross-reference table.
func minimalPDF(text string) []byte {
	stream := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestExtractReadsTextLayer(t *testing.T) {
	file := domain.InputFile{Name: "guia.pdf", MediaType: domain.MediaTypePDF, Data: minimalPDF("Guia FGTS competencia 12/2023")}

	text, err := NewExtractor(0).Extract(context.Background(), file)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(text, "FGTS") {
		t.Fatalf("expected extracted text to contain FGTS, got %q", text)
	}
}

func TestExtractRejectsNonPDF(t *testing.T) {
	file := domain.InputFile{Name: "notes.pdf", MediaType: domain.MediaTypePDF, Data: []byte("just some text")}

	if _, err := NewExtractor(0).Extract(context.Background(), file); err == nil {
		t.Fatalf("expected error for non-pdf payload")
	}
}

func TestExtractEmptyFile(t *testing.T) {
	_, err := NewExtractor(0).Extract(context.Background(), domain.InputFile{Name: "empty.pdf"})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestExtractHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractor(0).Extract(ctx, domain.InputFile{Name: "a.pdf", Data: minimalPDF("x")})
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
