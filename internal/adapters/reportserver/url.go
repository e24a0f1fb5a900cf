package reportserver

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"reportfetch/internal/core/domain"
)

// renderSuffix requests synchronous rendering in PDF format. The server
// expects the rs: parameters literally, unencoded.
const renderSuffix = "&rs:Command=Render&rs:Format=PDF"

// BuildRenderURL renders the request URL for a job at the given instant:
//
//	<base>?<encodedReportPath>&<dateParam>=<value>[&<dateParam>=<value>]&rs:Command=Render&rs:Format=PDF
//
// The report path is the first, key-less query component (the server's
// convention for addressing a report resource). Both the path and the
// date values are percent-encoded, so distinct inputs always yield
// distinct query strings and the encoded path decodes back to the
// original.
func BuildRenderURL(base string, job domain.ReportJob, now time.Time) (string, error) {
	if base == "" {
		return "", fmt.Errorf("report server base URL is empty")
	}
	if job.ReportPath == "" {
		return "", fmt.Errorf("report path is empty")
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("?")
	b.WriteString(url.QueryEscape(job.ReportPath))
	for _, p := range job.DateStrategy.Params(now) {
		b.WriteString("&")
		b.WriteString(p.Name)
		b.WriteString("=")
		b.WriteString(url.QueryEscape(p.Value))
	}
	b.WriteString(renderSuffix)
	return b.String(), nil
}
