// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/pkg/utils"
)

func TestAttendanceService_Sweep(t *testing.T) {
	liveClasses := &mocks.MockLiveClassRepository{}
	participants := &mocks.MockParticipantRepository{}
	provider := &mocks.MockRecordingProvider{}
	svc := NewAttendanceService(liveClasses, participants, provider, ServiceConfig{SweepWorkers: 2})
	svc.now = func() time.Time { return time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC) }

	held := &models.LiveClass{UID: "lc-held", MeetingUUID: "uuid-held", ZoomAccount: "training", Date: "2024-05-01", Time: "10:00", Duration: 60}
	failing := &models.LiveClass{UID: "lc-failing", MeetingUUID: "uuid-failing", Date: "2024-05-01", Time: "14:00", Duration: 60}
	done := &models.LiveClass{UID: "lc-done", MeetingUUID: "uuid-done", Attendees: utils.Ptr(3), Date: "2024-05-01", Time: "10:00", Duration: 60}
	unscheduled := &models.LiveClass{UID: "lc-unscheduled"}
	upcoming := &models.LiveClass{UID: "lc-upcoming", MeetingUUID: "uuid-upcoming", Date: "2024-05-04", Time: "10:00", Duration: 60}
	liveClasses.On("ListAll", mock.Anything).Return([]*models.LiveClass{held, failing, done, unscheduled, upcoming}, nil)

	joined := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	provider.On("ListParticipants", mock.Anything, "training", "uuid-held").Return([]domain.PastParticipant{
		{Name: "Ada", Email: "ada@example.com", JoinTime: &joined, Duration: 2700},
		{Name: "Grace", Email: "grace@example.com", JoinTime: &joined, Duration: 1200},
	}, nil)
	provider.On("ListParticipants", mock.Anything, "", "uuid-failing").Return(nil, errors.New("zoom: 500"))

	participants.On("CreateParticipant", mock.Anything, mock.MatchedBy(func(p *models.LiveClassParticipant) bool {
		return p.LiveClassUID == "lc-held" && p.Member != "" && p.JoinedAt != nil
	})).Return(nil).Twice()

	liveClasses.On("GetWithRevision", mock.Anything, "lc-held").Return(&models.LiveClass{UID: "lc-held", MeetingUUID: "uuid-held"}, uint64(9), nil)
	liveClasses.On("Update", mock.Anything, mock.MatchedBy(func(lc *models.LiveClass) bool {
		return lc.UID == "lc-held" && utils.Deref(lc.Attendees) == 2 && lc.UpdatedAt != nil
	}), uint64(9)).Return(nil)

	report, err := svc.Sweep(context.Background())
	require.Error(t, err)
	assert.Equal(t, SweepReport{Selected: 2, Succeeded: 1, Failed: 1}, report)

	liveClasses.AssertExpectations(t)
	participants.AssertExpectations(t)
	provider.AssertNotCalled(t, "ListParticipants", mock.Anything, mock.Anything, "uuid-done")
	provider.AssertNotCalled(t, "ListParticipants", mock.Anything, mock.Anything, "uuid-upcoming")
}

func TestAttendanceService_SweepNothingPending(t *testing.T) {
	liveClasses := &mocks.MockLiveClassRepository{}
	provider := &mocks.MockRecordingProvider{}
	svc := NewAttendanceService(liveClasses, &mocks.MockParticipantRepository{}, provider, ServiceConfig{})

	svc.now = func() time.Time { return time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC) }

	liveClasses.On("ListAll", mock.Anything).Return([]*models.LiveClass{
		{UID: "lc-1"},
		{UID: "lc-running", MeetingUUID: "uuid-running", Date: "2024-05-02", Time: "07:30", Duration: 90},
	}, nil)

	report, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepReport{}, report)
	provider.AssertNotCalled(t, "ListParticipants", mock.Anything, mock.Anything, mock.Anything)
}

func TestAttendanceService_NotReady(t *testing.T) {
	svc := NewAttendanceService(nil, nil, nil, ServiceConfig{})
	_, err := svc.Sweep(context.Background())
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
}
