package client

import (
	"log/slog"
	"net/http"
	"time"
)

// slowResponseThreshold is the time to response headers above which a request is logged at WARN level.
const slowResponseThreshold = 2 * time.Second

// loggingTransport logs every request with the time until response headers.
// Streaming bodies are not timed here; the session logs total duration.
type loggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

func newLoggingTransport(next http.RoundTripper, logger *slog.Logger) *loggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, logger: logger}
}

// RoundTrip implements http.RoundTripper.
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(start)

	// Build log attributes
	attrs := []any{
		"method", req.Method,
		"path", req.URL.Path,
		"client_request_id", req.Header.Get(RequestIDHeader),
		"duration_ms", duration.Milliseconds(),
	}

	// Log based on duration and error
	switch {
	case err != nil:
		attrs = append(attrs, "error", err.Error())
		t.logger.Error("http request failed", attrs...)
	case resp.StatusCode != http.StatusOK:
		attrs = append(attrs, "status", resp.StatusCode)
		t.logger.Warn("http request rejected", attrs...)
	case duration > slowResponseThreshold:
		attrs = append(attrs, "status", resp.StatusCode)
		t.logger.Warn("slow response", attrs...)
	default:
		attrs = append(attrs, "status", resp.StatusCode)
		t.logger.Debug("http response", attrs...)
	}

	return resp, err
}
