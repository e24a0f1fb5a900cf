package service

import (
	"context"
	"log"

	"reportfetch/internal/core/domain"
)

// Orchestrator runs a configured set of report jobs strictly serially.
// Failures are collected, not propagated: a failed job never prevents
// the next one from running, and the summary carries enough for the
// caller to exit non-zero when anything failed.
type Orchestrator struct {
	fetcher *Fetcher
	logger  *log.Logger
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(fetcher *Fetcher, logger *log.Logger) *Orchestrator {
	return &Orchestrator{fetcher: fetcher, logger: logger}
}

// Run executes the jobs in order. A cancelled context stops the run;
// jobs not yet started are recorded as failed so the summary still
// accounts for every configured job.
func (o *Orchestrator) Run(ctx context.Context, jobs []domain.ReportJob) *domain.RunSummary {
	summary := &domain.RunSummary{}

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			o.logger.Printf("Run cancelled, skipping %d remaining job(s)", len(jobs)-i)
			for _, skipped := range jobs[i:] {
				summary.Results = append(summary.Results, domain.JobResult{
					Job:          skipped,
					Err:          err,
					ErrorMessage: "run cancelled before job started",
				})
			}
			break
		}

		result := o.fetcher.FetchAndSave(ctx, job)
		summary.Results = append(summary.Results, *result)
	}

	failed := summary.Failed()
	o.logger.Printf("Run complete: %d job(s), %d failed", len(summary.Results), len(failed))
	return summary
}
