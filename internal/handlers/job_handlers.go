// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/messaging"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/service"
)

// JobHandler handles the messages of the live class work queue.
type JobHandler struct {
	recordingIngestor *service.RecordingIngestor
	attendanceService *service.AttendanceService
	reminderService   *service.ReminderService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(
	recordingIngestor *service.RecordingIngestor,
	attendanceService *service.AttendanceService,
	reminderService *service.ReminderService,
) *JobHandler {
	return &JobHandler{
		recordingIngestor: recordingIngestor,
		attendanceService: attendanceService,
		reminderService:   reminderService,
	}
}

// HandlerReady reports whether every service behind the queue is ready.
func (h *JobHandler) HandlerReady() bool {
	return h.recordingIngestor.ServiceReady() &&
		h.attendanceService.ServiceReady() &&
		h.reminderService.ServiceReady()
}

// HandleMessage implements [domain.MessageHandler] interface. Failures are
// logged; the message is acknowledged by the consumer either way.
func (h *JobHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling job message")

	handlers := map[string]func(ctx context.Context, msg domain.Message) error{
		models.IngestRecordingSubject: h.handleIngestRecording,
		models.AttendanceSweepSubject: h.handleAttendanceSweep,
		models.ReminderSweepSubject:   h.handleReminderSweep,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		return
	}

	if err := handler(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "error handling message", logging.ErrKey, err)
		return
	}
	slog.DebugContext(ctx, "job message handled")
}

func (h *JobHandler) handleIngestRecording(ctx context.Context, msg domain.Message) error {
	var job models.IngestRecordingJob
	if err := messaging.Decode(msg.Data(), &job); err != nil {
		return fmt.Errorf("failed to decode ingest recording job: %w", err)
	}

	outcome, err := h.recordingIngestor.Ingest(ctx, job)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "recording ingestion finished",
		"meeting_uuid", job.MeetingUUID,
		"outcome", string(outcome),
	)
	return nil
}

func (h *JobHandler) decodeSweep(ctx context.Context, msg domain.Message) error {
	var job models.SweepJob
	if err := messaging.Decode(msg.Data(), &job); err != nil {
		return fmt.Errorf("failed to decode sweep job: %w", err)
	}
	slog.InfoContext(ctx, "running requested sweep",
		"requested_by", job.RequestedBy,
		"requested_at", job.RequestedAt,
	)
	return nil
}

func (h *JobHandler) handleAttendanceSweep(ctx context.Context, msg domain.Message) error {
	if err := h.decodeSweep(ctx, msg); err != nil {
		return err
	}
	_, err := h.attendanceService.Sweep(ctx)
	return err
}

func (h *JobHandler) handleReminderSweep(ctx context.Context, msg domain.Message) error {
	if err := h.decodeSweep(ctx, msg); err != nil {
		return err
	}
	_, err := h.reminderService.Sweep(ctx)
	return err
}
