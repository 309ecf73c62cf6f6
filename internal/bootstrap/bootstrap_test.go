package bootstrap

import (
	"testing"

	"github.com/kirillkom/accounting-doc-router/internal/config"
	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/accounting-doc-router/internal/infrastructure/upload/remote"
)

func TestNewUploaderSelectsByMode(t *testing.T) {
	local, err := newUploader(config.Config{UploadMode: "local", StoragePath: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("newUploader(local) error = %v", err)
	}
	if _, ok := local.(*localfs.Storage); !ok {
		t.Fatalf("expected local storage, got %T", local)
	}

	rem, err := newUploader(config.Config{UploadMode: "Remote", UploadURL: "http://storage.local/upload", BreakerEnabled: true, BreakerMinCalls: 3}, nil)
	if err != nil {
		t.Fatalf("newUploader(remote) error = %v", err)
	}
	if _, ok := rem.(*remote.Client); !ok {
		t.Fatalf("expected remote client, got %T", rem)
	}

	if _, err := newUploader(config.Config{UploadMode: "ftp"}, nil); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown mode, got %v", err)
	}
}
