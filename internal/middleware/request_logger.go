// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-live-class-service/pkg/constants"
)

// quietPaths are probed by the orchestrator every few seconds.
var quietPaths = map[string]bool{
	"/livez":  true,
	"/readyz": true,
}

// RequestLoggerMiddleware logs one entry per request once it completes and
// attaches the request attributes to the context for handler logs. Server
// errors are logged at error level, client errors at warn.
func RequestLoggerMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := r.Context()
			ctx = logging.AppendCtx(ctx, slog.String("method", r.Method))
			ctx = logging.AppendCtx(ctx, slog.String("path", r.URL.Path))
			ctx = logging.AppendCtx(ctx, slog.String("remote_addr", r.RemoteAddr))
			if requestID, ok := ctx.Value(constants.RequestIDContextID).(string); ok {
				ctx = logging.AppendCtx(ctx, slog.String("request_id", requestID))
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			if quietPaths[r.URL.Path] {
				return
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}
			slog.Log(ctx, level, "HTTP response",
				"status", status,
				"bytes", ww.BytesWritten(),
				"user_agent", r.UserAgent(),
				"duration", time.Since(start).String(),
			)
		})
	}
}
