// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-live-class-service/pkg/utils"
)

// IngestOutcome describes how a recording ingestion job ended.
type IngestOutcome string

// Ingestion outcomes.
const (
	IngestOutcomeProcessed        IngestOutcome = "processed"
	IngestOutcomeUnknownMeeting   IngestOutcome = "unknown_meeting"
	IngestOutcomeNotCloud         IngestOutcome = "not_cloud_recording"
	IngestOutcomeAlreadyProcessed IngestOutcome = "already_processed"
	IngestOutcomeNoPlayableFile   IngestOutcome = "no_playable_file"
	IngestOutcomeMissingMeetingID IngestOutcome = "missing_meeting_id"
	IngestOutcomeProviderFailure  IngestOutcome = "provider_failure"
	IngestOutcomeLostRace         IngestOutcome = "lost_race"
)

// RecordingIngestor records the metadata of a completed cloud recording on
// its live class, exactly once per class.
type RecordingIngestor struct {
	LiveClassRepository    domain.LiveClassRepository
	CatalogRepository      domain.CatalogRepository
	MemberRepository       domain.MemberRepository
	NotificationRepository domain.NotificationRepository
	RecordingProvider      domain.RecordingProvider
	EmailService           domain.EmailService
	now                    func() time.Time
}

// NewRecordingIngestor creates a new RecordingIngestor.
func NewRecordingIngestor(
	liveClassRepository domain.LiveClassRepository,
	catalogRepository domain.CatalogRepository,
	memberRepository domain.MemberRepository,
	notificationRepository domain.NotificationRepository,
	recordingProvider domain.RecordingProvider,
	emailService domain.EmailService,
) *RecordingIngestor {
	return &RecordingIngestor{
		LiveClassRepository:    liveClassRepository,
		CatalogRepository:      catalogRepository,
		MemberRepository:       memberRepository,
		NotificationRepository: notificationRepository,
		RecordingProvider:      recordingProvider,
		EmailService:           emailService,
		now:                    time.Now,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *RecordingIngestor) ServiceReady() bool {
	return s.LiveClassRepository != nil &&
		s.CatalogRepository != nil &&
		s.MemberRepository != nil &&
		s.NotificationRepository != nil &&
		s.RecordingProvider != nil &&
		s.EmailService != nil
}

// Ingest processes one recording.completed job. Jobs that do not apply to
// any class, or to a class that is already processed, end without error.
func (s *RecordingIngestor) Ingest(ctx context.Context, job models.IngestRecordingJob) (IngestOutcome, error) {
	if !s.ServiceReady() {
		return "", domain.NewUnavailableError("recording ingestor is not ready")
	}
	ctx = logging.AppendCtx(ctx, slog.String("meeting_uuid", job.MeetingUUID))

	liveClass, revision, err := s.LiveClassRepository.FindByMeetingUUID(ctx, job.MeetingUUID)
	if err != nil {
		if domain.IsNotFound(err) {
			slog.InfoContext(ctx, "no live class for recorded meeting")
			return IngestOutcomeUnknownMeeting, nil
		}
		return "", err
	}
	ctx = logging.AppendCtx(ctx, slog.String("live_class_uid", liveClass.UID))

	if liveClass.RecordingMode != models.RecordingModeCloud {
		slog.InfoContext(ctx, "live class is not cloud recorded, skipping",
			"recording_mode", liveClass.RecordingMode)
		return IngestOutcomeNotCloud, nil
	}
	if liveClass.Recording.Processed {
		return IngestOutcomeAlreadyProcessed, nil
	}

	file, ok := models.SelectPlayableFile(job.RecordingFiles)
	if !ok {
		slog.InfoContext(ctx, "no playable video among recording files",
			"recording_files", len(job.RecordingFiles))
		return IngestOutcomeNoPlayableFile, nil
	}

	// The passcode lookup trusts only the meeting id stored on the class.
	meetingID := liveClass.MeetingID
	if meetingID == "" {
		slog.WarnContext(ctx, "live class has no meeting id, cannot fetch recording passcode",
			"webhook_meeting_id", job.MeetingID)
		return IngestOutcomeMissingMeetingID, nil
	}

	account := utils.CoalesceString(liveClass.ZoomAccount, job.Account)
	passcode, err := s.RecordingProvider.GetRecordingPasscode(ctx, account, meetingID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch recording passcode",
			"meeting_id", meetingID, logging.ErrKey, err, logging.PriorityCritical())
		return IngestOutcomeProviderFailure, err
	}

	state := s.recordingState(ctx, file, passcode)
	marked, err := s.markProcessed(ctx, liveClass.UID, state, revision)
	if err != nil {
		return "", err
	}
	if !marked {
		slog.InfoContext(ctx, "recording was ingested by a concurrent job")
		return IngestOutcomeLostRace, nil
	}

	slog.InfoContext(ctx, "recording metadata stored",
		"recording_id", file.ID,
		"duration_seconds", utils.Deref(state.DurationSeconds),
		"file_size_bytes", utils.Deref(state.FileSizeBytes),
	)

	s.notifyHost(ctx, liveClass, state)
	return IngestOutcomeProcessed, nil
}

func (s *RecordingIngestor) recordingState(ctx context.Context, file models.RecordingFile, passcode string) models.RecordingState {
	state := models.RecordingState{
		RecordingID:   utils.Ptr(file.ID),
		FileSizeBytes: utils.Ptr(max(file.FileSize, 0)),
		ProcessedAt:   utils.Ptr(s.now().UTC()),
	}
	if file.PlayURL != "" {
		state.PlaybackURL = utils.Ptr(file.PlayURL)
	}
	if passcode != "" {
		state.Passcode = utils.Ptr(passcode)
	}

	duration, err := file.DurationSeconds()
	if err != nil {
		slog.WarnContext(ctx, "recording duration unavailable", logging.ErrKey, err)
	} else {
		state.DurationSeconds = utils.Ptr(duration)
	}
	return state
}

// markProcessed stores state at revision. On a revision conflict the class
// is read again: if another job processed it in between, nothing is written
// and false is returned, otherwise the write is retried once.
func (s *RecordingIngestor) markProcessed(ctx context.Context, uid string, state models.RecordingState, revision uint64) (bool, error) {
	err := s.LiveClassRepository.MarkProcessed(ctx, uid, state, revision)
	if err == nil {
		return true, nil
	}
	if !domain.IsConflict(err) {
		return false, err
	}

	current, currentRevision, err := s.LiveClassRepository.GetWithRevision(ctx, uid)
	if err != nil {
		return false, err
	}
	if current.Recording.Processed {
		return false, nil
	}

	if err := s.LiveClassRepository.MarkProcessed(ctx, uid, state, currentRevision); err != nil {
		if domain.IsConflict(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RecordingReadySubject is the subject of the notice sent to a class host.
func RecordingReadySubject(title string) string {
	return fmt.Sprintf("Recording uploaded for %s", title)
}

// notifyHost logs an in-app notification and emails the host. Both are
// best effort.
func (s *RecordingIngestor) notifyHost(ctx context.Context, liveClass *models.LiveClass, state models.RecordingState) {
	if liveClass.Host == "" {
		return
	}

	subject := RecordingReadySubject(liveClass.Title)
	notification := &models.Notification{
		ForUser:      liveClass.Host,
		Subject:      subject,
		Type:         models.NotificationTypeAlert,
		DocumentType: "LiveClass",
		DocumentUID:  liveClass.UID,
		EmailContent: subject,
	}
	if err := s.NotificationRepository.CreateNotification(ctx, notification); err != nil {
		slog.WarnContext(ctx, "failed to log recording notification", logging.ErrKey, err)
	}

	recipientName := liveClass.Host
	if member, err := s.MemberRepository.GetMember(ctx, liveClass.Host); err == nil {
		recipientName = member.DisplayName()
	}

	courseTitle := ""
	if scope, err := resolveScope(ctx, s.CatalogRepository, liveClass); err == nil && scope.Course != nil {
		courseTitle = scope.Course.Title
	}

	notice := domain.EmailRecordingReady{
		RecipientEmail:  liveClass.Host,
		RecipientName:   recipientName,
		ClassTitle:      liveClass.Title,
		CourseTitle:     courseTitle,
		DurationSeconds: state.DurationSeconds,
	}
	if err := s.EmailService.SendRecordingReady(ctx, notice); err != nil {
		slog.WarnContext(ctx, "failed to email recording notice to host", logging.ErrKey, err)
	}
}
