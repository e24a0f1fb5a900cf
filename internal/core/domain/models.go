package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateStrategy selects how the date query parameters for a report are
// computed. Which strategy a report expects is part of its configuration;
// the report server does not advertise it.
type DateStrategy string

const (
	// StrategyTargetDate sends a single TargetDate set to yesterday.
	StrategyTargetDate DateStrategy = "target-date"

	// StrategyDateRange sends a StartDate/EndDate pair spanning
	// yesterday through today.
	StrategyDateRange DateStrategy = "date-range"
)

// dateLayout is the wire format the report server expects.
const dateLayout = "2006-01-02"

// ParseDateStrategy validates a configured strategy name.
func ParseDateStrategy(s string) (DateStrategy, error) {
	switch DateStrategy(s) {
	case StrategyTargetDate, StrategyDateRange:
		return DateStrategy(s), nil
	}
	return "", fmt.Errorf("unknown date strategy %q (want %q or %q)", s, StrategyTargetDate, StrategyDateRange)
}

// DateParam is one date query parameter. Order is significant when the
// request URL is rendered, so parameters are a slice rather than a map.
type DateParam struct {
	Name  string
	Value string
}

// Params computes the date parameters for the given instant. The caller
// captures now once per invocation so StartDate/EndDate stay consistent
// even across a midnight rollover.
func (s DateStrategy) Params(now time.Time) []DateParam {
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	switch s {
	case StrategyTargetDate:
		return []DateParam{{Name: "TargetDate", Value: yesterday}}
	case StrategyDateRange:
		return []DateParam{
			{Name: "StartDate", Value: yesterday},
			{Name: "EndDate", Value: now.Format(dateLayout)},
		}
	default:
		// An unrecognized strategy gets no parameters rather than a
		// silently wrong shape; ParseDateStrategy rejects it up front
		// for configured jobs.
		return nil
	}
}

// ReportJob is one configured unit of work: fetch one report for one
// date range and save it. Jobs are constructed fresh per invocation and
// never mutated afterwards.
type ReportJob struct {
	// ReportPath names the report resource on the remote server. It is
	// opaque and server-defined; it gets percent-encoded when embedded
	// in the request URL.
	ReportPath string `json:"report_path"`

	// DateStrategy picks the shape of the date query parameters.
	DateStrategy DateStrategy `json:"date_strategy"`

	// NamePrefix is the human-readable stem of the saved filename.
	// Must be filesystem-safe; see SanitizeName.
	NamePrefix string `json:"name_prefix"`

	// OutputDir is the destination directory, created if absent.
	OutputDir string `json:"output_dir"`
}

// filenameLayout renders second-resolution timestamps for saved files.
const filenameLayout = "02_01_2006_15-04-05"

// Filename renders the destination filename for the given instant:
// <prefix>_<dd_MM_yyyy_HH-mm-ss>.pdf
func (j ReportJob) Filename(now time.Time) string {
	return j.NamePrefix + "_" + now.Format(filenameLayout) + ".pdf"
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SanitizeName turns an arbitrary report name into a filesystem-safe
// filename prefix. The last path segment is used so a nested report
// path like "/Plant/Analyser Hourly" yields "Analyser_Hourly".
func SanitizeName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	return unsafeNameChars.ReplaceAllString(name, "")
}

// JobResult holds the outcome of one executed ReportJob.
type JobResult struct {
	Job          ReportJob
	RunID        string
	SavedPath    string
	Success      bool
	Err          error
	ErrorMessage string
	CompletedAt  time.Time
}

// RunSummary aggregates the results of a serial run of N jobs.
type RunSummary struct {
	Results []JobResult
}

// OK reports whether every job succeeded.
func (s *RunSummary) OK() bool {
	for _, r := range s.Results {
		if !r.Success {
			return false
		}
	}
	return true
}

// Failed returns the results of jobs that did not succeed.
func (s *RunSummary) Failed() []JobResult {
	var failed []JobResult
	for _, r := range s.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}
