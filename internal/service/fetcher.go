package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"reportfetch/internal/core/domain"
	"reportfetch/internal/core/ports"
)

// Fetcher executes one ReportJob end-to-end: compute the date window,
// fetch the rendered report, persist it, verify it.
type Fetcher struct {
	source  ports.ReportSource
	storage ports.Storage
	logger  *log.Logger
	now     func() time.Time
}

// NewFetcher creates a new Fetcher.
func NewFetcher(source ports.ReportSource, storage ports.Storage, logger *log.Logger) *Fetcher {
	return &Fetcher{
		source:  source,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// FetchAndSave runs the job's single linear pipeline. The current
// instant is captured once up front so the date parameters and the
// filename timestamp agree within one invocation. Failures end the
// pipeline; nothing is retried.
func (f *Fetcher) FetchAndSave(ctx context.Context, job domain.ReportJob) *domain.JobResult {
	runID := uuid.New().String()
	now := f.now()

	result := &domain.JobResult{Job: job, RunID: runID}
	f.logger.Printf("[JOB %s] Fetching report %q (%s)", runID, job.ReportPath, job.DateStrategy)

	body, err := f.source.Fetch(ctx, job, now)
	if err != nil {
		return f.fail(result, err)
	}
	defer body.Close()

	savedPath, err := f.storage.Save(ctx, job, job.Filename(now), body)
	if err != nil {
		return f.fail(result, err)
	}

	result.SavedPath = savedPath
	result.Success = true
	result.CompletedAt = f.now()
	f.logger.Printf("[JOB %s] Saved report to %s", runID, savedPath)
	return result
}

func (f *Fetcher) fail(result *domain.JobResult, err error) *domain.JobResult {
	result.Err = err
	result.ErrorMessage = err.Error()
	result.CompletedAt = f.now()
	f.logger.Printf("[JOB %s] ERROR: %s", result.RunID, result.ErrorMessage)
	return result
}
