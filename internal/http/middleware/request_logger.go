package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/AlejandroPortugal/portal-agenda/pkg/logging"
)

// RequestLogger emits structured logs for every HTTP request. Write
// requests carry the acting owner in headers, so the completion record
// includes it when present.
func RequestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", reqID,
				"remote_ip", r.RemoteAddr,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if kind := r.Header.Get("X-Owner-Kind"); kind != "" {
				attrs = append(attrs,
					"owner_kind", kind,
					"owner_id", r.Header.Get("X-Owner-Id"),
				)
			}
			logger.Info("request completed", attrs...)
		})
	}
}
