package localfs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
)

// Storage is the local-disk uploader used in development and single-node
// deployments. Each upload gets a fresh server name, so the same file
// uploaded twice is stored twice.
type Storage struct {
	basePath string
}

func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/uploads"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{basePath: basePath}, nil
}

func (s *Storage) Upload(ctx context.Context, file domain.InputFile) (domain.UploadReceipt, error) {
	if err := ctx.Err(); err != nil {
		return domain.UploadReceipt{}, err
	}
	key := fmt.Sprintf("%s_%s", uuid.NewString(), sanitizeFilename(file.Name))
	if err := s.save(key, bytes.NewReader(file.Data)); err != nil {
		return domain.UploadReceipt{}, err
	}
	return domain.UploadReceipt{ServerFilename: key}, nil
}

func (s *Storage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if key != filepath.Base(key) {
		return nil, domain.WrapError(domain.ErrInvalidInput, "open stored file", fmt.Errorf("key %q is not a plain file name", key))
	}
	f, err := os.Open(filepath.Join(s.basePath, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.WrapError(domain.ErrNotFound, "open stored file", err)
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

func (s *Storage) save(key string, data io.Reader) error {
	path := filepath.Join(s.basePath, key)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == ".." {
		return "document.bin"
	}
	return base
}
