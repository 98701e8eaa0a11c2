// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/zoom/webhook"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
)

// Webhook statuses reported back to Zoom.
const (
	WebhookStatusQueued  = "queued"
	WebhookStatusIgnored = "ignored"
)

// WebhookVerifier checks the signature attached to a webhook request.
type WebhookVerifier interface {
	Verify(secret models.Secret, body []byte, signature, timestamp string) error
}

// WebhookRequest represents the webhook processing request
type WebhookRequest struct {
	Account   string
	Signature string
	Timestamp string
	RawBody   []byte
}

// WebhookResponse is the body returned to Zoom. Challenge is set only for
// endpoint.url_validation and is then written as is.
type WebhookResponse struct {
	Status    string
	Challenge *models.ZoomChallengeResponse
}

// Body returns the value to encode as the HTTP response body.
func (r *WebhookResponse) Body() any {
	if r.Challenge != nil {
		return r.Challenge
	}
	return map[string]string{"status": r.Status}
}

// WebhookDispatcher verifies Zoom webhook requests and turns the events it
// understands into work queue jobs. It never fails a request: every outcome
// is reported to Zoom as a 200.
type WebhookDispatcher struct {
	Secrets   domain.SecretStore
	Verifier  WebhookVerifier
	Publisher domain.JobPublisher
	now       func() time.Time
}

// NewWebhookDispatcher creates a new WebhookDispatcher.
func NewWebhookDispatcher(secrets domain.SecretStore, verifier WebhookVerifier, publisher domain.JobPublisher) *WebhookDispatcher {
	return &WebhookDispatcher{
		Secrets:   secrets,
		Verifier:  verifier,
		Publisher: publisher,
		now:       time.Now,
	}
}

// ServiceReady checks if the service is ready to process requests
func (s *WebhookDispatcher) ServiceReady() bool {
	return s.Secrets != nil && s.Verifier != nil && s.Publisher != nil
}

func ignored() *WebhookResponse {
	return &WebhookResponse{Status: WebhookStatusIgnored}
}

// Dispatch handles one webhook request.
func (s *WebhookDispatcher) Dispatch(ctx context.Context, req WebhookRequest) *WebhookResponse {
	ctx = logging.AppendCtx(ctx, slog.String("zoom_account", req.Account))
	logger := slog.With("component", "webhook_dispatcher")

	if !s.ServiceReady() {
		logger.ErrorContext(ctx, "webhook dispatcher is not ready")
		return ignored()
	}

	var envelope models.ZoomWebhookEnvelope
	if err := json.Unmarshal(req.RawBody, &envelope); err != nil {
		logger.WarnContext(ctx, "malformed webhook body", logging.ErrKey, err)
		return ignored()
	}
	ctx = logging.AppendCtx(ctx, slog.String("event_type", envelope.Event))

	switch envelope.Kind() {
	case models.EventKindURLValidation:
		return s.handleURLValidation(ctx, req, &envelope)
	case models.EventKindRecordingCompleted:
		return s.handleRecordingCompleted(ctx, req, &envelope)
	default:
		if err := s.verify(ctx, req); err != nil {
			return ignored()
		}
		logger.DebugContext(ctx, "ignoring unsupported webhook event")
		return ignored()
	}
}

// verify checks the request signature with the account webhook secret.
// Failures are logged without the signature itself.
func (s *WebhookDispatcher) verify(ctx context.Context, req WebhookRequest) error {
	secret, err := s.Secrets.WebhookSecret(ctx, req.Account)
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve webhook secret", logging.ErrKey, err)
		return err
	}
	if err := s.Verifier.Verify(secret, req.RawBody, req.Signature, req.Timestamp); err != nil {
		slog.WarnContext(ctx, "rejected webhook request",
			"has_signature", req.Signature != "",
			"has_timestamp", req.Timestamp != "",
			logging.ErrKey, err,
		)
		return err
	}
	return nil
}

func (s *WebhookDispatcher) handleURLValidation(ctx context.Context, req WebhookRequest, envelope *models.ZoomWebhookEnvelope) *WebhookResponse {
	payload, err := envelope.ToURLValidationPayload()
	if err != nil || payload.PlainToken == "" {
		slog.WarnContext(ctx, "url validation without plainToken", logging.ErrKey, err)
		return ignored()
	}

	secret, err := s.Secrets.WebhookSecret(ctx, req.Account)
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve webhook secret", logging.ErrKey, err)
		return ignored()
	}

	challenge := webhook.ChallengeResponse(secret, payload.PlainToken)
	slog.InfoContext(ctx, "zoom webhook endpoint validation completed")
	return &WebhookResponse{Challenge: &challenge}
}

func (s *WebhookDispatcher) handleRecordingCompleted(ctx context.Context, req WebhookRequest, envelope *models.ZoomWebhookEnvelope) *WebhookResponse {
	if err := s.verify(ctx, req); err != nil {
		return ignored()
	}

	payload, err := envelope.ToRecordingCompletedPayload()
	if err != nil {
		slog.WarnContext(ctx, "malformed recording.completed payload", logging.ErrKey, err)
		return ignored()
	}
	if payload.Object.UUID == "" {
		slog.WarnContext(ctx, "recording.completed without meeting uuid")
		return ignored()
	}

	job := models.IngestRecordingJob{
		MeetingUUID:    payload.Object.UUID,
		MeetingID:      payload.Object.ID,
		Account:        req.Account,
		RecordingFiles: payload.Object.RecordingFiles,
		EventTS:        envelope.EventTS,
		EnqueuedAt:     s.now().UTC(),
	}
	if err := s.Publisher.PublishIngestRecording(ctx, job); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue recording ingestion",
			"meeting_uuid", job.MeetingUUID, logging.ErrKey, err, logging.PriorityCritical())
		return ignored()
	}

	slog.InfoContext(ctx, "recording ingestion queued",
		"meeting_uuid", job.MeetingUUID,
		"recording_files", len(job.RecordingFiles),
	)
	return &WebhookResponse{Status: WebhookStatusQueued}
}
