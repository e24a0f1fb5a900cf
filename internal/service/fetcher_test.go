package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"reportfetch/internal/core/domain"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// fakeSource serves canned payloads per report path and fails for
// anything it does not know.
type fakeSource struct {
	payloads map[string][]byte
	errs     map[string]error
	fetched  []string
}

func (s *fakeSource) Fetch(ctx context.Context, job domain.ReportJob, now time.Time) (io.ReadCloser, error) {
	s.fetched = append(s.fetched, job.ReportPath)
	if err, ok := s.errs[job.ReportPath]; ok {
		return nil, err
	}
	payload, ok := s.payloads[job.ReportPath]
	if !ok {
		return nil, domain.NewNetworkError("fetch report", fmt.Errorf("unknown report %q", job.ReportPath))
	}
	return io.NopCloser(bytes.NewReader(payload)), nil
}

// fakeStorage records saved files in memory.
type fakeStorage struct {
	saved map[string][]byte // filename -> content
	err   error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: make(map[string][]byte)}
}

func (s *fakeStorage) Save(ctx context.Context, job domain.ReportJob, filename string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", domain.NewFilesystemError("write file", err)
	}
	s.saved[filename] = data
	return "/" + job.OutputDir + "/" + filename, nil
}

func newTestFetcher(source *fakeSource, storage *fakeStorage) *Fetcher {
	f := NewFetcher(source, storage, testLogger())
	f.now = func() time.Time { return fixedNow }
	return f
}
