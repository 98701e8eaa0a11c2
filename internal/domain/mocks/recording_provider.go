// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
)

// MockRecordingProvider implements RecordingProvider for testing
type MockRecordingProvider struct {
	mock.Mock
}

func (m *MockRecordingProvider) GetRecordingPasscode(ctx context.Context, account, meetingID string) (string, error) {
	args := m.Called(ctx, account, meetingID)
	return args.String(0), args.Error(1)
}

func (m *MockRecordingProvider) GetPlaybackURL(ctx context.Context, account, meetingUUID, recordingID string) (string, error) {
	args := m.Called(ctx, account, meetingUUID, recordingID)
	return args.String(0), args.Error(1)
}

func (m *MockRecordingProvider) ListParticipants(ctx context.Context, account, meetingUUID string) ([]domain.PastParticipant, error) {
	args := m.Called(ctx, account, meetingUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PastParticipant), args.Error(1)
}
