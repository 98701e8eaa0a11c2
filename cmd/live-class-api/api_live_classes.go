// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/service"
)

// maxCreateBodyBytes caps the body of a create request.
const maxCreateBodyBytes = 64 << 10

// CreateLiveClass schedules a live class and sends the calendar invitations.
func (a *LiveClassAPI) CreateLiveClass(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		writeError(w, r, domain.NewForbiddenError("no authenticated user"))
		return
	}

	var req service.CreateLiveClassRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCreateBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, r, domain.NewValidationError("invalid request body", err))
		return
	}

	liveClass, err := a.liveClassService.CreateLiveClass(ctx, &req, user.MemberID())
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(ctx, "live class created", "live_class_uid", liveClass.UID)
	writeJSON(w, http.StatusCreated, liveClass)
}

// GetLiveClass returns a live class without its confidential fields.
func (a *LiveClassAPI) GetLiveClass(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if err := a.validateUID(uid); err != nil {
		writeError(w, r, err)
		return
	}

	liveClass, err := a.liveClassService.GetLiveClass(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, liveClass)
}

// GetRecording authorizes the caller to watch a recording and returns where
// to play it.
func (a *LiveClassAPI) GetRecording(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uid := chi.URLParam(r, "uid")
	if err := a.validateUID(uid); err != nil {
		writeError(w, r, err)
		return
	}

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		writeError(w, r, domain.NewForbiddenError("no authenticated user"))
		return
	}
	ctx = logging.AppendCtx(ctx, slog.String("live_class_uid", uid))

	grant, err := a.playbackAuthorizer.Authorize(ctx, uid, user.MemberID())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, grant)
}
