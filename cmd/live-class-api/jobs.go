// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"time"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/scheduler"
)

const scheduledBy = "scheduler"

// scheduledSweep enqueues a sweep instead of running it in place, so that
// exactly one replica runs each occurrence.
func scheduledSweep(publisher domain.JobPublisher, subject string, now func() time.Time) scheduler.JobFunc {
	return func(ctx context.Context) error {
		t := now().UTC()
		return publisher.PublishSweep(ctx, subject, models.SweepJob{
			RequestedBy: scheduledBy,
			RequestedAt: t,
			Occurrence:  t.Truncate(time.Minute),
		})
	}
}

// setupScheduler registers the periodic sweeps.
func setupScheduler(env environment, publisher domain.JobPublisher) (*scheduler.Scheduler, error) {
	sched := scheduler.New(env.Location)
	if err := sched.Add("attendance-sweep", env.AttendanceSchedule,
		scheduledSweep(publisher, models.AttendanceSweepSubject, time.Now)); err != nil {
		return nil, err
	}
	if err := sched.Add("reminder-sweep", env.ReminderSchedule,
		scheduledSweep(publisher, models.ReminderSweepSubject, time.Now)); err != nil {
		return nil, err
	}
	return sched, nil
}
