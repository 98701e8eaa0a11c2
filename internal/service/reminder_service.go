// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-live-class-service/pkg/concurrent"
)

// ReminderService emails the students of a batch on the day of each class.
type ReminderService struct {
	LiveClassRepository  domain.LiveClassRepository
	CatalogRepository    domain.CatalogRepository
	EnrollmentRepository domain.EnrollmentRepository
	EmailService         domain.EmailService
	Config               ServiceConfig
	now                  func() time.Time
}

// NewReminderService creates a new ReminderService.
func NewReminderService(
	liveClassRepository domain.LiveClassRepository,
	catalogRepository domain.CatalogRepository,
	enrollmentRepository domain.EnrollmentRepository,
	emailService domain.EmailService,
	config ServiceConfig,
) *ReminderService {
	return &ReminderService{
		LiveClassRepository:  liveClassRepository,
		CatalogRepository:    catalogRepository,
		EnrollmentRepository: enrollmentRepository,
		EmailService:         emailService,
		Config:               config,
		now:                  time.Now,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *ReminderService) ServiceReady() bool {
	return s.LiveClassRepository != nil &&
		s.CatalogRepository != nil &&
		s.EnrollmentRepository != nil &&
		s.EmailService != nil
}

// Sweep sends the reminders of every class scheduled today in the service
// time zone. Reminders are sent on every run.
func (s *ReminderService) Sweep(ctx context.Context) (SweepReport, error) {
	if !s.ServiceReady() {
		return SweepReport{}, domain.NewUnavailableError("reminder service is not ready")
	}

	today := s.now().In(s.Config.location())
	liveClasses, err := s.LiveClassRepository.ListAll(ctx)
	if err != nil {
		return SweepReport{}, err
	}

	var scheduled []*models.LiveClass
	for _, liveClass := range liveClasses {
		if liveClass.BatchUID != "" && liveClass.IsScheduledOn(today) {
			scheduled = append(scheduled, liveClass)
		}
	}

	report := SweepReport{Selected: len(scheduled)}
	if len(scheduled) == 0 {
		return report, nil
	}

	pool := concurrent.NewWorkerPool(s.Config.sweepWorkers())
	errs := concurrent.ForEach(ctx, pool, scheduled, s.remind)
	report.Failed = len(errs)
	report.Succeeded = report.Selected - report.Failed

	slog.InfoContext(ctx, "reminder sweep completed",
		"date", today.Format(models.LiveClassDateLayout),
		"selected", report.Selected,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
	return report, errors.Join(errs...)
}

// remind emails every member enrolled in the batch of liveClass. Failed
// emails are logged and do not stop the others.
func (s *ReminderService) remind(ctx context.Context, liveClass *models.LiveClass) error {
	ctx = logging.AppendCtx(ctx, slog.String("live_class_uid", liveClass.UID))

	enrollments, err := s.EnrollmentRepository.ListBatchEnrollments(ctx, liveClass.BatchUID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list batch enrollments", logging.ErrKey, err)
		return err
	}

	batchTitle := ""
	if batch, err := s.CatalogRepository.GetBatch(ctx, liveClass.BatchUID); err == nil {
		batchTitle = batch.Title
	}

	failed := 0
	for _, enrollment := range enrollments {
		reminder := domain.EmailReminder{
			RecipientEmail: enrollment.Member,
			RecipientName:  enrollment.MemberName,
			ClassTitle:     liveClass.Title,
			Date:           liveClass.Date,
			Time:           liveClass.Time,
			BatchTitle:     batchTitle,
		}
		if err := s.EmailService.SendLiveClassReminder(ctx, reminder); err != nil {
			failed++
			slog.WarnContext(ctx, "failed to send class reminder",
				"member", enrollment.Member, logging.ErrKey, err)
		}
	}

	if failed > 0 && failed == len(enrollments) {
		return fmt.Errorf("all %d reminders of live class %s failed", failed, liveClass.UID)
	}
	return nil
}
