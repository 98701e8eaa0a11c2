// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/linuxfoundation/lfx-v2-live-class-service/pkg/constants"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{name: "keeps caller request id", incoming: "req-123"},
		{name: "generates request id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromContext string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fromContext, _ = r.Context().Value(constants.RequestIDContextID).(string)
			})

			req := httptest.NewRequest(http.MethodGet, "/livez", nil)
			if tt.incoming != "" {
				req.Header.Set(constants.RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()
			RequestIDMiddleware()(handler).ServeHTTP(w, req)

			got := w.Header().Get(constants.RequestIDHeader)
			assert.Equal(t, got, fromContext)
			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, got)
			} else {
				_, err := uuid.Parse(got)
				assert.NoError(t, err)
			}
		})
	}
}
