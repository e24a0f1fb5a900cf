package localstorage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportfetch/internal/core/domain"
)

func testJob(dir string) domain.ReportJob {
	return domain.ReportJob{
		ReportPath:   "Analyser Hourly",
		DateStrategy: domain.StrategyDateRange,
		NamePrefix:   "Analyser_Hourly",
		OutputDir:    dir,
	}
}

func TestLocalStorageSave(t *testing.T) {
	ctx := context.Background()
	payload := []byte("%PDF-1.4 report bytes")

	t.Run("saves and returns absolute path", func(t *testing.T) {
		dir := t.TempDir()
		storage := NewLocalStorage()

		path, err := storage.Save(ctx, testJob(dir), "Analyser_Hourly_15_03_2024_10-00-00.pdf", bytes.NewReader(payload))
		require.NoError(t, err)

		assert.True(t, filepath.IsAbs(path))
		assert.Equal(t, "Analyser_Hourly_15_03_2024_10-00-00.pdf", filepath.Base(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, payload, data)
	})

	t.Run("creates missing directory tree", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "plant", "reports")
		storage := NewLocalStorage()

		_, err := storage.Save(ctx, testJob(dir), "a.pdf", bytes.NewReader(payload))
		require.NoError(t, err)

		// Second save into the now-existing tree must not fail.
		_, err = storage.Save(ctx, testJob(dir), "b.pdf", bytes.NewReader(payload))
		require.NoError(t, err)
	})

	t.Run("existing filename is disambiguated, not overwritten", func(t *testing.T) {
		dir := t.TempDir()
		storage := NewLocalStorage()
		first := []byte("%PDF-1.4 first run")

		firstPath, err := storage.Save(ctx, testJob(dir), "same_second.pdf", bytes.NewReader(first))
		require.NoError(t, err)

		secondPath, err := storage.Save(ctx, testJob(dir), "same_second.pdf", bytes.NewReader(payload))
		require.NoError(t, err)

		assert.NotEqual(t, firstPath, secondPath)

		kept, err := os.ReadFile(firstPath)
		require.NoError(t, err)
		assert.Equal(t, first, kept)
	})

	t.Run("empty body fails verification and leaves no file", func(t *testing.T) {
		dir := t.TempDir()
		storage := NewLocalStorage()

		_, err := storage.Save(ctx, testJob(dir), "empty.pdf", bytes.NewReader(nil))
		require.Error(t, err)
		assert.True(t, domain.IsVerification(err))

		_, statErr := os.Stat(filepath.Join(dir, "empty.pdf"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("interrupted transfer is a filesystem error and partial file is discarded", func(t *testing.T) {
		dir := t.TempDir()
		storage := NewLocalStorage()

		_, err := storage.Save(ctx, testJob(dir), "partial.pdf", &failingReader{after: 10})
		require.Error(t, err)
		assert.True(t, domain.IsFilesystem(err))

		_, statErr := os.Stat(filepath.Join(dir, "partial.pdf"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("unwritable directory is a filesystem error", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("permission bits do not apply to root")
		}
		dir := filepath.Join(t.TempDir(), "blocked")
		require.NoError(t, os.MkdirAll(dir, 0555))

		storage := NewLocalStorage()
		_, err := storage.Save(ctx, testJob(filepath.Join(dir, "sub")), "x.pdf", bytes.NewReader(payload))
		require.Error(t, err)
		assert.True(t, domain.IsFilesystem(err))
	})
}

// failingReader returns some bytes and then an error, simulating a
// transfer cut short mid-stream.
type failingReader struct {
	after int
	read  int
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.read >= r.after {
		return 0, errors.New("stream interrupted")
	}
	n := r.after - r.read
	if n > len(p) {
		n = len(p)
	}
	for i := 0; i < n; i++ {
		p[i] = 'x'
	}
	r.read += n
	return n, nil
}
