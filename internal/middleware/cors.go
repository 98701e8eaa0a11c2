// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"

	"github.com/linuxfoundation/lfx-v2-live-class-service/pkg/constants"
)

// WebhookCORSMiddleware answers browser preflights on the webhook routes so
// that webhook testing tools can call them.
func WebhookCORSMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", constants.CORSAllowOrigin)
			h.Set("Access-Control-Allow-Methods", constants.CORSAllowMethods)
			h.Set("Access-Control-Allow-Headers", constants.CORSAllowHeaders)
			h.Set("Access-Control-Max-Age", constants.CORSMaxAge)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
