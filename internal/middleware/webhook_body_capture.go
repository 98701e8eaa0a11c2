// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
)

// ZoomWebhookPath is the route prefix of the Zoom webhook endpoints.
const ZoomWebhookPath = "/webhooks/zoom"

// MaxWebhookBodyBytes caps the webhook body kept for signature validation.
const MaxWebhookBodyBytes = 1 << 20

// WebhookBodyContextKey is the context key for storing raw webhook body
type WebhookBodyContextKey struct{}

func isZoomWebhookPath(path string) bool {
	return path == ZoomWebhookPath || strings.HasPrefix(path, ZoomWebhookPath+"/")
}

// WebhookBodyCaptureMiddleware captures the raw request body for webhook endpoints
// and stores it in the request context for signature validation. A body
// that cannot be read is not stored; the webhook handler then ignores the request.
func WebhookBodyCaptureMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && isZoomWebhookPath(r.URL.Path) {
				body, err := io.ReadAll(io.LimitReader(r.Body, MaxWebhookBodyBytes+1))
				_ = r.Body.Close()

				switch {
				case err != nil:
					slog.WarnContext(r.Context(), "failed to read webhook body", logging.ErrKey, err)
					r.Body = io.NopCloser(bytes.NewReader(nil))
				case len(body) > MaxWebhookBodyBytes:
					slog.WarnContext(r.Context(), "webhook body too large", "limit_bytes", MaxWebhookBodyBytes)
					r.Body = io.NopCloser(bytes.NewReader(nil))
				default:
					// Create a new reader with the same data for the next handler
					r.Body = io.NopCloser(bytes.NewReader(body))
					ctx := context.WithValue(r.Context(), WebhookBodyContextKey{}, body)
					r = r.WithContext(ctx)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetRawBodyFromContext extracts the raw body from the context
func GetRawBodyFromContext(ctx context.Context) ([]byte, bool) {
	body, ok := ctx.Value(WebhookBodyContextKey{}).([]byte)
	return body, ok
}
