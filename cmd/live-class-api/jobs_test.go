// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/scheduler"
)

func TestScheduledSweep(t *testing.T) {
	now := time.Date(2026, 3, 2, 7, 0, 4, 0, time.UTC)

	tests := []struct {
		name       string
		publishErr error
		wantErr    bool
	}{
		{name: "published"},
		{name: "publish failure", publishErr: errors.New("nats: timeout"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := new(mocks.MockJobPublisher)
			publisher.On("PublishSweep", mock.Anything, models.ReminderSweepSubject, mock.MatchedBy(func(job models.SweepJob) bool {
				return job.RequestedBy == scheduledBy &&
					job.RequestedAt.Equal(now) &&
					job.Occurrence.Equal(time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC))
			})).Return(tt.publishErr)

			run := scheduledSweep(publisher, models.ReminderSweepSubject, func() time.Time { return now })
			err := run(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			publisher.AssertExpectations(t)
		})
	}
}

func TestSetupScheduler(t *testing.T) {
	env := environment{
		Location:           time.UTC,
		AttendanceSchedule: scheduler.HourlyRule,
		ReminderSchedule:   scheduler.DailyRule,
	}

	sched, err := setupScheduler(env, new(mocks.MockJobPublisher))
	require.NoError(t, err)
	assert.NotNil(t, sched)

	env.ReminderSchedule = "EVERY=SOMETIMES"
	_, err = setupScheduler(env, new(mocks.MockJobPublisher))
	assert.Error(t, err)
}
