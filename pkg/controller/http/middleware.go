package http

import (
	"context"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/herald/pkg/domain/types"
)

// LoggingMiddleware returns a middleware that logs HTTP requests
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			logger := ctxlog.From(ctx)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("HTTP request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// handlerFunc is an HTTP handler that can fail with an error
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// RecoverErrors converts handler failures into responses. Errors
// carrying one of the taxonomy tags render their message verbatim with
// the mapped status. Anything unclassified keeps the default render, a
// 500 with the error text, and is reported to Sentry so it is never
// dropped.
func RecoverErrors(next handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := next(w, r)
		if err == nil {
			return
		}

		logger := ctxlog.From(r.Context())

		if status := types.HTTPStatus(err); status != 0 {
			logger.Warn("request rejected", "error", err, "status", status)
			respondText(w, status, err.Error())
			return
		}

		logger.Error("unclassified request failure", "error", err)
		sentry.CaptureException(err)
		respondText(w, http.StatusInternalServerError, err.Error())
	}
}

// respondText writes a plain-text response. The status strings are
// part of the webhook contract, so the body is written as-is without a
// trailing newline.
func respondText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		ctxlog.From(context.Background()).Error("Failed to write response", "error", err)
	}
}
