package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/teambalance/pkg/metrics"
)

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Milliseconds())
		status := strconv.Itoa(wrapped.statusCode)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, durationMs)

		if wrapped.statusCode < http.StatusBadRequest {
			return
		}
		errorType, severity := classify(wrapped.statusCode)
		metrics.RecordErrorByEndpoint(endpoint, r.Method, errorType)
		metrics.RecordErrorByType(errorType, severity)
		metrics.RecordErrorLatency("http", errorType, durationMs)
	}
}

// classify maps an error status to the error type and severity labels.
// Rejected pools are the caller's fault; a 5xx means the server
// configuration or the engine failed.
func classify(statusCode int) (errorType, severity string) {
	switch {
	case statusCode >= http.StatusInternalServerError:
		return "server_error", "high"
	case statusCode == http.StatusRequestEntityTooLarge:
		return "payload_too_large", "medium"
	case statusCode == http.StatusNotFound:
		return "not_found", "low"
	default:
		return "client_error", "medium"
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}
