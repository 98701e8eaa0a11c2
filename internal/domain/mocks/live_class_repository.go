// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
)

// MockLiveClassRepository implements LiveClassRepository for testing
type MockLiveClassRepository struct {
	mock.Mock
}

func (m *MockLiveClassRepository) Create(ctx context.Context, liveClass *models.LiveClass) error {
	args := m.Called(ctx, liveClass)
	return args.Error(0)
}

func (m *MockLiveClassRepository) Get(ctx context.Context, uid string) (*models.LiveClass, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LiveClass), args.Error(1)
}

func (m *MockLiveClassRepository) GetWithRevision(ctx context.Context, uid string) (*models.LiveClass, uint64, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.LiveClass), args.Get(1).(uint64), args.Error(2)
}

func (m *MockLiveClassRepository) Update(ctx context.Context, liveClass *models.LiveClass, revision uint64) error {
	args := m.Called(ctx, liveClass, revision)
	return args.Error(0)
}

func (m *MockLiveClassRepository) FindByMeetingUUID(ctx context.Context, meetingUUID string) (*models.LiveClass, uint64, error) {
	args := m.Called(ctx, meetingUUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.LiveClass), args.Get(1).(uint64), args.Error(2)
}

func (m *MockLiveClassRepository) MarkProcessed(ctx context.Context, uid string, state models.RecordingState, revision uint64) error {
	args := m.Called(ctx, uid, state, revision)
	return args.Error(0)
}

func (m *MockLiveClassRepository) ListAll(ctx context.Context) ([]*models.LiveClass, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LiveClass), args.Error(1)
}
