// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/service"
)

// LiveClassAPI serves the HTTP surface of the live class service.
type LiveClassAPI struct {
	webhookDispatcher  *service.WebhookDispatcher
	liveClassService   *service.LiveClassService
	playbackAuthorizer *service.PlaybackAuthorizer
	validate           *validator.Validate
}

// NewLiveClassAPI creates a new LiveClassAPI.
func NewLiveClassAPI(
	webhookDispatcher *service.WebhookDispatcher,
	liveClassService *service.LiveClassService,
	playbackAuthorizer *service.PlaybackAuthorizer,
) *LiveClassAPI {
	return &LiveClassAPI{
		webhookDispatcher:  webhookDispatcher,
		liveClassService:   liveClassService,
		playbackAuthorizer: playbackAuthorizer,
		validate:           validator.New(),
	}
}

// ServiceReady reports whether every service behind the API is ready.
func (a *LiveClassAPI) ServiceReady() bool {
	return a.webhookDispatcher.ServiceReady() &&
		a.liveClassService.ServiceReady() &&
		a.playbackAuthorizer.ServiceReady()
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// createResponse creates a response error based on the domain error type.
func createResponse(err error) (int, errorResponse) {
	code := domain.GetErrorType(err).HTTPStatus()
	return code, errorResponse{
		Code:    strconv.Itoa(code),
		Message: err.Error(),
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.With(logging.ErrKey, err).Error("error encoding response body")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, body := createResponse(err)
	if code >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", logging.ErrKey, err, "status", code)
	}
	writeJSON(w, code, body)
}

// validateUID rejects path identifiers that are not UUIDs.
func (a *LiveClassAPI) validateUID(uid string) error {
	if err := a.validate.Var(uid, "required,uuid"); err != nil {
		return domain.NewValidationError("invalid live class uid")
	}
	return nil
}

// Readyz checks if the service is able to take inbound requests.
func (a *LiveClassAPI) Readyz(w http.ResponseWriter, _ *http.Request) {
	if !a.ServiceReady() {
		code, body := createResponse(domain.NewUnavailableError("service unavailable"))
		writeJSON(w, code, body)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK\n"))
}

// Livez checks if the service is alive.
func (a *LiveClassAPI) Livez(w http.ResponseWriter, _ *http.Request) {
	// This always returns as long as the service is still running. As this
	// endpoint is expected to be used as a Kubernetes liveness check, this
	// service must likewise self-detect non-recoverable errors and
	// self-terminate.
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK\n"))
}
