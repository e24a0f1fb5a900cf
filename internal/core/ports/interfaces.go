package ports

import (
	"context"
	"io"
	"net/http"
	"time"

	"reportfetch/internal/core/domain"
)

// ReportSource defines the contract for fetching a rendered report from
// the remote server.
type ReportSource interface {
	// Fetch builds the render URL for the job at the given instant and
	// performs the authenticated GET. Returns a ReadCloser over the PDF
	// payload that the caller must close. Failures are *domain.FetchError.
	Fetch(ctx context.Context, job domain.ReportJob, now time.Time) (io.ReadCloser, error)
}

// Storage defines the contract for persisting a fetched report.
type Storage interface {
	// Save streams the report body to its destination and verifies the
	// result exists and is non-empty. Returns the final location (an
	// absolute path for filesystem backends). Failures are
	// *domain.FetchError.
	Save(ctx context.Context, job domain.ReportJob, filename string, r io.Reader) (string, error)
}

// CredentialProvider attaches credentials to an outgoing request. The
// ambient provider attaches nothing and lets the execution context
// authenticate; explicit providers exist for servers that need them and
// to keep the fetch path testable.
type CredentialProvider interface {
	Apply(req *http.Request) error
}
