package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"quotelist/internal/shared"
)

// RequestLogger returns [Middleware] that logs each request's method, path,
// duration, and a generated request id.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := shared.GenerateID()

			next.ServeHTTP(w, r)

			logger.Info("request",
				"id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start),
			)
		})
	}
}
