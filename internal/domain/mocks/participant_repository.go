// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
)

// MockParticipantRepository implements ParticipantRepository for testing
type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) CreateParticipant(ctx context.Context, participant *models.LiveClassParticipant) error {
	args := m.Called(ctx, participant)
	return args.Error(0)
}

func (m *MockParticipantRepository) ListParticipants(ctx context.Context, liveClassUID string) ([]*models.LiveClassParticipant, error) {
	args := m.Called(ctx, liveClassUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LiveClassParticipant), args.Error(1)
}

// MockNotificationRepository implements NotificationRepository for testing
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}
