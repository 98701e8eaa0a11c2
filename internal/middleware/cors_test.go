// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebhookCORSMiddleware(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		wantStatus   int
		wantNextCall bool
	}{
		{name: "preflight", method: http.MethodOptions, wantStatus: http.StatusNoContent},
		{name: "post passes through", method: http.MethodPost, wantStatus: http.StatusOK, wantNextCall: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, ZoomWebhookPath, nil)
			w := httptest.NewRecorder()
			WebhookCORSMiddleware()(handler).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantNextCall, called)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "x-zm-signature")
		})
	}
}
