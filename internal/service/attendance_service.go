// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-live-class-service/pkg/concurrent"
	"github.com/linuxfoundation/lfx-v2-live-class-service/pkg/utils"
)

// SweepReport summarizes one run of a periodic sweep.
type SweepReport struct {
	Selected  int `json:"selected"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// AttendanceService backfills the attendance of classes held on Zoom.
type AttendanceService struct {
	LiveClassRepository   domain.LiveClassRepository
	ParticipantRepository domain.ParticipantRepository
	RecordingProvider     domain.RecordingProvider
	Config                ServiceConfig
	now                   func() time.Time
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(
	liveClassRepository domain.LiveClassRepository,
	participantRepository domain.ParticipantRepository,
	recordingProvider domain.RecordingProvider,
	config ServiceConfig,
) *AttendanceService {
	return &AttendanceService{
		LiveClassRepository:   liveClassRepository,
		ParticipantRepository: participantRepository,
		RecordingProvider:     recordingProvider,
		Config:                config,
		now:                   time.Now,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *AttendanceService) ServiceReady() bool {
	return s.LiveClassRepository != nil && s.ParticipantRepository != nil && s.RecordingProvider != nil
}

// Sweep pulls the participants of every ended class that has a meeting UUID
// and no attendance yet. A failing class is logged and left for the next run.
func (s *AttendanceService) Sweep(ctx context.Context) (SweepReport, error) {
	if !s.ServiceReady() {
		return SweepReport{}, domain.NewUnavailableError("attendance service is not ready")
	}

	liveClasses, err := s.LiveClassRepository.ListAll(ctx)
	if err != nil {
		return SweepReport{}, err
	}

	now := s.now()
	var pending []*models.LiveClass
	for _, liveClass := range liveClasses {
		if liveClass.NeedsAttendance(now) {
			pending = append(pending, liveClass)
		}
	}

	report := SweepReport{Selected: len(pending)}
	if len(pending) == 0 {
		return report, nil
	}

	pool := concurrent.NewWorkerPool(s.Config.sweepWorkers())
	errs := concurrent.ForEach(ctx, pool, pending, s.recordAttendance)
	report.Failed = len(errs)
	report.Succeeded = report.Selected - report.Failed

	slog.InfoContext(ctx, "attendance sweep completed",
		"selected", report.Selected,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
	return report, errors.Join(errs...)
}

func (s *AttendanceService) recordAttendance(ctx context.Context, liveClass *models.LiveClass) error {
	ctx = logging.AppendCtx(ctx, slog.String("live_class_uid", liveClass.UID))

	participants, err := s.RecordingProvider.ListParticipants(ctx, liveClass.ZoomAccount, liveClass.MeetingUUID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list meeting participants",
			"meeting_uuid", liveClass.MeetingUUID, logging.ErrKey, err)
		return err
	}

	for _, participant := range participants {
		if err := s.ParticipantRepository.CreateParticipant(ctx, participant.ToModel(liveClass.UID)); err != nil {
			slog.ErrorContext(ctx, "failed to store participant", logging.ErrKey, err)
			return err
		}
	}

	current, revision, err := s.LiveClassRepository.GetWithRevision(ctx, liveClass.UID)
	if err != nil {
		return err
	}
	current.Attendees = utils.Ptr(len(participants))
	current.UpdatedAt = utils.Ptr(s.now().UTC())
	if err := s.LiveClassRepository.Update(ctx, current, revision); err != nil {
		slog.ErrorContext(ctx, "failed to store attendee count", logging.ErrKey, err)
		return err
	}

	slog.DebugContext(ctx, "attendance recorded", "attendees", len(participants))
	return nil
}
