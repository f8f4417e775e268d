// Package middleware holds the request-scoped wrappers the mail-merge server
// installs around its router: access logging, CORS and the upload size cap.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// runIDHeader is set by the merge handler; logging it ties an access line to
// the service's "merge complete" line for the same run.
const runIDHeader = "X-Merge-Run-Id"

// NewSlogLogger returns a middleware that writes one access line per request
// to log. Server errors are logged at ERROR, rejected requests at WARN and
// everything else at INFO. Merge responses also carry their run ID.
//
// Wire it after chimiddleware.RequestID so the request ID is available.
func NewSlogLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				// Nothing was written; net/http sends 200.
				status = http.StatusOK
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
			}
			if id := ww.Header().Get(runIDHeader); id != "" {
				attrs = append(attrs, "run_id", id)
			}
			log.Log(r.Context(), levelFor(status), "request", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
