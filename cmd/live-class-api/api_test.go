// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/auth"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/email"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/zoom/webhook"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-live-class-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-live-class-service/pkg/utils"
)

const (
	testToken         = "valid-token"
	testSecret        = models.Secret("api-test-secret")
	testLiveClassUID  = "3f1c2a9e-6b7d-4c1e-9a8f-2d5e6f7a8b9c"
	testStudentEmail  = "student@example.com"
	urlValidationBody = `{"event":"endpoint.url_validation","payload":{"plainToken":"qgg8vlvZRS6UYooatFL8Aw"},"event_ts":1654503849680}`
)

type fakeUserParser struct{}

func (fakeUserParser) ParseUser(_ context.Context, token string, _ *slog.Logger) (*auth.User, error) {
	if token != testToken {
		return nil, errors.New("invalid token")
	}
	return &auth.User{Principal: "student", Email: testStudentEmail}, nil
}

type apiTestDeps struct {
	secrets     *mocks.MockSecretStore
	publisher   *mocks.MockJobPublisher
	liveClasses *mocks.MockLiveClassRepository
	members     *mocks.MockMemberRepository
	router      http.Handler
}

func setupAPIForTesting() *apiTestDeps {
	deps := &apiTestDeps{
		secrets:     new(mocks.MockSecretStore),
		publisher:   new(mocks.MockJobPublisher),
		liveClasses: new(mocks.MockLiveClassRepository),
		members:     new(mocks.MockMemberRepository),
	}
	catalog := new(mocks.MockCatalogRepository)
	enrollments := new(mocks.MockEnrollmentRepository)
	members := deps.members

	api := NewLiveClassAPI(
		service.NewWebhookDispatcher(deps.secrets, webhook.NewSignatureVerifier(webhook.DefaultReplayWindow), deps.publisher),
		service.NewLiveClassService(deps.liveClasses, catalog, enrollments, members,
			new(mocks.MockEmailService), email.NewICSGenerator(), service.ServiceConfig{}),
		service.NewPlaybackAuthorizer(deps.liveClasses, catalog, enrollments, members,
			new(mocks.MockRecordingProvider)),
	)
	deps.router = newRouter(api, fakeUserParser{})
	return deps
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthChecks(t *testing.T) {
	deps := setupAPIForTesting()

	for _, path := range []string{"/livez", "/readyz"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(deps.router, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "OK\n", rec.Body.String())
		})
	}
}

func TestZoomWebhook_URLValidation(t *testing.T) {
	deps := setupAPIForTesting()
	deps.secrets.On("WebhookSecret", mock.Anything, "training").Return(testSecret, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/zoom/training", strings.NewReader(urlValidationBody))
	rec := serve(deps.router, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var challenge models.ZoomChallengeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &challenge))
	assert.Equal(t, "qgg8vlvZRS6UYooatFL8Aw", challenge.PlainToken)
	assert.Equal(t, webhook.EncryptToken(testSecret, "qgg8vlvZRS6UYooatFL8Aw"), challenge.EncryptedToken)
	deps.secrets.AssertExpectations(t)
}

func TestZoomWebhook_AlwaysOK(t *testing.T) {
	body := `{"event":"recording.completed","event_ts":1700000000000,"payload":{"object":{"uuid":"abc=="}}}`

	tests := []struct {
		name      string
		path      string
		account   string
		signature string
	}{
		{name: "bad signature on default route", path: "/webhooks/zoom", account: "", signature: "v0=deadbeef"},
		{name: "missing signature on account route", path: "/webhooks/zoom/training", account: "training"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := setupAPIForTesting()
			deps.secrets.On("WebhookSecret", mock.Anything, tt.account).Return(testSecret, nil)

			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(body))
			req.Header.Set(constants.ZoomSignatureHeader, tt.signature)
			req.Header.Set(constants.ZoomTimestampHeader, strconv.FormatInt(time.Now().Unix(), 10))
			rec := serve(deps.router, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"status":"ignored"}`, rec.Body.String())
			deps.publisher.AssertNotCalled(t, "PublishIngestRecording", mock.Anything, mock.Anything)
		})
	}
}

func TestZoomWebhook_Preflight(t *testing.T) {
	deps := setupAPIForTesting()

	req := httptest.NewRequest(http.MethodOptions, "/webhooks/zoom/training", nil)
	rec := serve(deps.router, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, constants.CORSAllowOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLiveClassRoutes_RequireAuth(t *testing.T) {
	deps := setupAPIForTesting()

	tests := []struct {
		name  string
		token string
	}{
		{name: "no token"},
		{name: "rejected token", token: "forged"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/live-classes/"+testLiveClassUID, nil)
			if tt.token != "" {
				req.Header.Set(constants.AuthorizationHeader, "Bearer "+tt.token)
			}
			rec := serve(deps.router, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
	deps.liveClasses.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func authorized(req *http.Request) *http.Request {
	req.Header.Set(constants.AuthorizationHeader, "Bearer "+testToken)
	return req
}

func TestGetLiveClass(t *testing.T) {
	tests := []struct {
		name     string
		uid      string
		setup    func(liveClasses *mocks.MockLiveClassRepository)
		wantCode int
	}{
		{
			name: "found",
			uid:  testLiveClassUID,
			setup: func(liveClasses *mocks.MockLiveClassRepository) {
				liveClasses.On("Get", mock.Anything, testLiveClassUID).Return(&models.LiveClass{
					UID:   testLiveClassUID,
					Title: "Intro to Go",
					Recording: models.RecordingState{
						Processed: true,
						Passcode:  utils.Ptr("s3cret"),
					},
				}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "not found",
			uid:  testLiveClassUID,
			setup: func(liveClasses *mocks.MockLiveClassRepository) {
				liveClasses.On("Get", mock.Anything, testLiveClassUID).Return(nil, domain.NewNotFoundError("live class not found"))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "malformed uid",
			uid:      "not-a-uuid",
			setup:    func(*mocks.MockLiveClassRepository) {},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := setupAPIForTesting()
			tt.setup(deps.liveClasses)

			rec := serve(deps.router, authorized(httptest.NewRequest(http.MethodGet, "/live-classes/"+tt.uid, nil)))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.NotContains(t, rec.Body.String(), "s3cret")
				return
			}
			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, strconv.Itoa(tt.wantCode), body.Code)
		})
	}
}

func TestGetRecording_UnknownClass(t *testing.T) {
	tests := []struct {
		name     string
		profile  *models.Member
		wantCode int
	}{
		{name: "student", profile: &models.Member{Email: testStudentEmail}, wantCode: http.StatusForbidden},
		{
			name:     "moderator",
			profile:  &models.Member{Email: testStudentEmail, Roles: []string{models.RoleModerator}},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := setupAPIForTesting()
			deps.liveClasses.On("Get", mock.Anything, testLiveClassUID).Return(nil, domain.NewNotFoundError("live class not found"))
			deps.members.On("GetMember", mock.Anything, testStudentEmail).Return(tt.profile, nil)

			req := authorized(httptest.NewRequest(http.MethodGet, "/live-classes/"+testLiveClassUID+"/recording", nil))
			rec := serve(deps.router, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			deps.liveClasses.AssertExpectations(t)
			deps.members.AssertExpectations(t)
		})
	}
}

func TestCreateLiveClass_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"title":`},
		{name: "unknown field", body: `{"title":"Intro","color":"blue"}`},
		{name: "fails validation", body: `{"title":"","date":"2026-03-02","time":"10:00","duration":60}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := setupAPIForTesting()

			req := authorized(httptest.NewRequest(http.MethodPost, "/live-classes", strings.NewReader(tt.body)))
			rec := serve(deps.router, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			deps.liveClasses.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateResponse(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"validation", domain.NewValidationError("bad"), http.StatusBadRequest},
		{"forbidden", domain.NewForbiddenError("no"), http.StatusForbidden},
		{"conflict", domain.NewConflictError("again"), http.StatusConflict},
		{"unavailable", domain.NewUnavailableError("down"), http.StatusServiceUnavailable},
		{"untyped", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := createResponse(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, strconv.Itoa(tt.wantCode), body.Code)
			assert.Equal(t, tt.err.Error(), body.Message)
		})
	}
}
