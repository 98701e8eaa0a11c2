// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
)

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendLiveClassReminder(ctx context.Context, reminder domain.EmailReminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockEmailService) SendLiveClassInvitation(ctx context.Context, invitation domain.EmailInvitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockEmailService) SendRecordingReady(ctx context.Context, notice domain.EmailRecordingReady) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}
