package usecase

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"iter"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
)

// MaxArchiveEntryBytes caps the decompressed size of a single ZIP entry.
const MaxArchiveEntryBytes = 64 << 20

// FileSource yields the files of a batch in order. A non-nil error reports an
// input that could not be read; the yielded file then only carries its name.
type FileSource = iter.Seq2[domain.InputFile, error]

// FileListSource yields files as given.
func FileListSource(files []domain.InputFile) FileSource {
	return func(yield func(domain.InputFile, error) bool) {
		for _, file := range files {
			if !yield(file, nil) {
				return
			}
		}
	}
}

// ZipSource yields the non-directory entries of archive in enumeration
// order, each materialized in memory. Platform metadata entries are skipped.
func ZipSource(archive domain.InputFile) FileSource {
	return func(yield func(domain.InputFile, error) bool) {
		reader, err := zip.NewReader(bytes.NewReader(archive.Data), int64(len(archive.Data)))
		if err != nil {
			yield(domain.InputFile{Name: archive.Name}, fmt.Errorf("open archive %s: %w", archive.Name, err))
			return
		}
		for _, entry := range reader.File {
			if entry.FileInfo().IsDir() || isArchiveMetadata(entry.Name) {
				continue
			}
			file, err := readArchiveEntry(entry)
			if !yield(file, err) {
				return
			}
		}
	}
}

// ExpandArchives yields every plain file of files and, in place of each ZIP
// archive, the archive's entries.
func ExpandArchives(files []domain.InputFile) FileSource {
	return func(yield func(domain.InputFile, error) bool) {
		for file, err := range FileListSource(files) {
			if err == nil && file.IsZIP() {
				for entry, entryErr := range ZipSource(file) {
					if !yield(entry, entryErr) {
						return
					}
				}
				continue
			}
			if !yield(file, err) {
				return
			}
		}
	}
}

func readArchiveEntry(entry *zip.File) (domain.InputFile, error) {
	name := path.Base(entry.Name)
	rc, err := entry.Open()
	if err != nil {
		return domain.InputFile{Name: name}, fmt.Errorf("open archive entry %s: %w", entry.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxArchiveEntryBytes+1))
	if err != nil {
		return domain.InputFile{Name: name}, fmt.Errorf("read archive entry %s: %w", entry.Name, err)
	}
	if len(data) > MaxArchiveEntryBytes {
		return domain.InputFile{Name: name}, fmt.Errorf("archive entry %s exceeds %d bytes", entry.Name, MaxArchiveEntryBytes)
	}
	return domain.InputFile{
		Name:      name,
		MediaType: DetectMediaType(name, data),
		Data:      data,
	}, nil
}

func isArchiveMetadata(name string) bool {
	if strings.HasPrefix(name, "__MACOSX/") || strings.Contains(name, "/__MACOSX/") {
		return true
	}
	base := path.Base(name)
	return base == ".DS_Store" || base == "Thumbs.db" || strings.HasPrefix(base, "._")
}

// DetectMediaType guesses a media type from the file extension, falling back
// to content sniffing.
func DetectMediaType(name string, data []byte) string {
	if byExt := mime.TypeByExtension(strings.ToLower(path.Ext(name))); byExt != "" {
		return byExt
	}
	return http.DetectContentType(data)
}
