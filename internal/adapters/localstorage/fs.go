package localstorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"reportfetch/internal/core/domain"
)

// LocalStorage implements ports.Storage for the local filesystem.
type LocalStorage struct{}

// NewLocalStorage creates a new LocalStorage instance.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{}
}

// Save streams the report body to <OutputDir>/<filename>, creating the
// directory tree if needed, and verifies the written file exists and is
// non-empty. A partial file is removed rather than reported as success.
func (s *LocalStorage) Save(ctx context.Context, job domain.ReportJob, filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(job.OutputDir, 0755); err != nil {
		return "", domain.NewFilesystemError("create output directory",
			fmt.Errorf("failed to create %s: %w", job.OutputDir, err))
	}

	path := filepath.Join(job.OutputDir, filename)

	// Timestamps carry second resolution, so a re-run within the same
	// second would land on the same name. Disambiguate instead of
	// overwriting.
	if _, err := os.Stat(path); err == nil {
		path = filepath.Join(job.OutputDir, disambiguate(filename))
	}

	file, err := os.Create(path)
	if err != nil {
		return "", domain.NewFilesystemError("create file",
			fmt.Errorf("failed to create %s: %w", path, err))
	}

	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		os.Remove(path)
		return "", domain.NewFilesystemError("write file",
			fmt.Errorf("failed to write %s: %w", path, err))
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", domain.NewFilesystemError("close file",
			fmt.Errorf("failed to close %s: %w", path, err))
	}

	// The transfer reported success; treat a missing or empty file as a
	// failure anyway so silent partial writes never look like success.
	info, err := os.Stat(path)
	if err != nil {
		return "", domain.NewVerificationError("verify file",
			fmt.Errorf("file %s absent after write: %w", path, err))
	}
	if info.Size() == 0 {
		os.Remove(path)
		return "", domain.NewVerificationError("verify file",
			fmt.Errorf("file %s is empty after write", path))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", domain.NewFilesystemError("resolve path",
			fmt.Errorf("failed to resolve %s: %w", path, err))
	}
	return abs, nil
}

// disambiguate appends a short random suffix before the extension.
func disambiguate(filename string) string {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	return stem + "_" + uuid.New().String()[:8] + ext
}
