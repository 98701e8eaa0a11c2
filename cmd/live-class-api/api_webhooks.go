// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-live-class-service/pkg/constants"
)

// ZoomWebhook receives Zoom event notifications. It always answers 200 so
// that Zoom does not disable the subscription; rejected requests are logged.
func (a *LiveClassAPI) ZoomWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, ok := middleware.GetRawBodyFromContext(ctx)
	if !ok {
		slog.WarnContext(ctx, "zoom webhook body missing or too large")
		writeJSON(w, http.StatusOK, map[string]string{"status": service.WebhookStatusIgnored})
		return
	}

	resp := a.webhookDispatcher.Dispatch(ctx, service.WebhookRequest{
		Account:   chi.URLParam(r, "account"),
		Signature: r.Header.Get(constants.ZoomSignatureHeader),
		Timestamp: r.Header.Get(constants.ZoomTimestampHeader),
		RawBody:   body,
	})
	writeJSON(w, http.StatusOK, resp.Body())
}

// ZoomWebhookPreflight is reached only if the CORS middleware let an
// OPTIONS request through.
func (a *LiveClassAPI) ZoomWebhookPreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
