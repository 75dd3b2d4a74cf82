package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"kickback/internal/monitoring"
)

// responseWriter captures the status code written by the handler.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs each request with method, path, route, status and
// duration, and records the request latency on monitor. Bodies are never
// logged. monitor may be nil.
func LoggingMiddleware(logger *slog.Logger, monitor *monitoring.Monitor, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start)

		// ServeMux records the matched pattern on the request it was given.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		monitor.TrackRequest(r.Method, route, strconv.Itoa(wrapped.status), duration)
		logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", wrapped.status,
			"duration_ms", duration.Milliseconds(),
		)
	})
}
