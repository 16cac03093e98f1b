package middleware

import (
	"net/http"
	"strings"
	"time"
)

// HTTPRecorder receives request measurements.
type HTTPRecorder interface {
	HTTPRequestStarted()
	HTTPRequestFinished(method, path string, status int, duration time.Duration)
}

// Metrics returns middleware that records HTTP metrics.
func Metrics(recorder HTTPRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder.HTTPRequestStarted()

			// Wrap response writer to capture status code
			wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			defer func() {
				recorder.HTTPRequestFinished(r.Method, normalizePath(r.URL.Path), wrapped.statusCode, time.Since(start))
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}

const transactionsPrefix = "/api/v1/transactions/"

// normalizePath normalizes URL paths to avoid high cardinality.
// /api/v1/transactions/01ABC123 -> /api/v1/transactions/:id
func normalizePath(path string) string {
	rest, ok := strings.CutPrefix(path, transactionsPrefix)
	if !ok || rest == "" {
		return path
	}

	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return transactionsPrefix + ":id" + rest[i:]
	}

	return transactionsPrefix + ":id"
}
