// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-live-class-service/pkg/constants"
)

// RequestIDMiddleware propagates the X-REQUEST-ID header, generating one
// when the caller sent none, and stores it in the request context.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(constants.RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			w.Header().Set(constants.RequestIDHeader, requestID)
			ctx := context.WithValue(r.Context(), constants.RequestIDContextID, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
