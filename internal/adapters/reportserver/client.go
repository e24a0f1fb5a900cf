package reportserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"reportfetch/internal/core/domain"
	"reportfetch/internal/core/ports"
)

// DefaultTimeout bounds the render call. The report server renders
// synchronously, so slow reports hold the connection open for the whole
// render; an unbounded wait is still a defect.
const DefaultTimeout = 2 * time.Minute

// Client implements ports.ReportSource against an SSRS-style report
// server.
type Client struct {
	baseURL string
	creds   ports.CredentialProvider
	client  *http.Client
}

// NewClient creates a report server client. A zero timeout falls back
// to DefaultTimeout.
func NewClient(baseURL string, creds ports.CredentialProvider, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		creds:   creds,
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch performs a single GET for the rendered report. No retries: a
// failed fetch is reported to the caller and the external scheduler
// decides what to do with it.
func (c *Client) Fetch(ctx context.Context, job domain.ReportJob, now time.Time) (io.ReadCloser, error) {
	renderURL, err := BuildRenderURL(c.baseURL, job, now)
	if err != nil {
		return nil, domain.NewNetworkError("build request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, renderURL, nil)
	if err != nil {
		return nil, domain.NewNetworkError("build request", err)
	}
	if err := c.creds.Apply(req); err != nil {
		return nil, domain.NewAuthenticationError("apply credentials", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domain.NewNetworkError("fetch report", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		resp.Body.Close()
		return nil, domain.NewAuthenticationError("fetch report",
			fmt.Errorf("server rejected credentials: status %d", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close()
		return nil, domain.NewNetworkError("fetch report",
			fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	return resp.Body, nil
}
