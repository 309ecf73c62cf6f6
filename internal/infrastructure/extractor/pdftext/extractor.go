package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
)

const defaultMaxTextBytes = 1 << 20

// Extractor pulls the embedded text layer out of PDF documents. Scanned
// documents without a text layer yield an empty string.
type Extractor struct {
	maxTextBytes int64
}

func NewExtractor(maxTextBytes int64) *Extractor {
	if maxTextBytes <= 0 {
		maxTextBytes = defaultMaxTextBytes
	}
	return &Extractor{maxTextBytes: maxTextBytes}
}

func (e *Extractor) Extract(ctx context.Context, file domain.InputFile) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(file.Data) == 0 {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract pdf text", fmt.Errorf("%s is empty", file.Name))
	}

	// the reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("parse pdf %s: %v", file.Name, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(file.Data), int64(len(file.Data)))
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", file.Name, err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract plain text from %s: %w", file.Name, err)
	}
	raw, err := io.ReadAll(io.LimitReader(plain, e.maxTextBytes))
	if err != nil {
		return "", fmt.Errorf("read plain text from %s: %w", file.Name, err)
	}
	return strings.TrimSpace(string(raw)), nil
}
