package common

import (
	"net/http"
	"net/http/httputil"
	"time"

	"airplane-watch/sleepwatch/internal/logging"
)

// maxDumpBody caps how much of a query body is written to the debug log.
const maxDumpBody = 2048

// LogHTTPRequest writes the outgoing request to the debug log. It dumps a
// clone and reads the body through GetBody, so req itself is untouched.
// Requests without GetBody are dumped without their body.
func LogHTTPRequest(req *http.Request) {
	clone := req.Clone(req.Context())
	withBody := req.Body == nil || req.Body == http.NoBody
	if !withBody && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			logging.Debug("Failed to copy request body for dump", "url", req.URL.Redacted(), "error", err)
		} else {
			clone.Body = body
			withBody = true
		}
	}

	dump, err := httputil.DumpRequestOut(clone, withBody)
	if err != nil {
		logging.Debug("Failed to dump HTTP request", "error", err)
		return
	}
	if len(dump) > maxDumpBody {
		dump = append(dump[:maxDumpBody:maxDumpBody], "..."...)
	}
	logging.Debug("Outgoing HTTP request", "method", req.Method, "url", req.URL.Redacted(), "dump", string(dump))
}

// DumpTransport logs every request it carries and the status and latency
// of the response. Used on outbound clients outside production.
type DumpTransport struct {
	Base http.RoundTripper
}

// NewDumpTransport wraps base, or http.DefaultTransport when base is nil.
func NewDumpTransport(base http.RoundTripper) *DumpTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &DumpTransport{Base: base}
}

func (t *DumpTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	LogHTTPRequest(req)

	start := time.Now()
	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		logging.Debug("HTTP request failed", "url", req.URL.Redacted(), "error", err)
		return nil, err
	}
	logging.Debug("HTTP response received",
		"url", req.URL.Redacted(),
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}
