package client

import (
	"log/slog"
	"net/http"
	"time"
)

// maxURLLogLen is the maximum length for logged URLs before truncation.
const maxURLLogLen = 200

// slowRequestThreshold is the duration above which requests are logged at WARN level.
const slowRequestThreshold = 5 * time.Second

// LoggingTransport returns a RoundTripper that logs every request with timing.
// Slow requests (>5s) are logged at WARN level.
// Headers and bodies are never logged.
// A nil next means http.DefaultTransport.
func LoggingTransport(logger *slog.Logger, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{logger: logger, next: next}
}

type loggingTransport struct {
	logger *slog.Logger
	next   http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(start)

	attrs := []any{
		"method", req.Method,
		"url", truncate(req.URL.Redacted(), maxURLLogLen),
		"duration_ms", duration.Milliseconds(),
	}

	switch {
	case err != nil:
		attrs = append(attrs, "error", err.Error())
		t.logger.Error("request failed", attrs...)
	case duration > slowRequestThreshold:
		attrs = append(attrs, "status", resp.StatusCode)
		t.logger.Warn("slow request", attrs...)
	default:
		attrs = append(attrs, "status", resp.StatusCode)
		t.logger.Debug("request completed", attrs...)
	}

	return resp, err
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
