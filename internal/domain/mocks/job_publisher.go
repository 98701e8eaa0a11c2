// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
)

// MockJobPublisher implements JobPublisher for testing
type MockJobPublisher struct {
	mock.Mock
}

func (m *MockJobPublisher) PublishIngestRecording(ctx context.Context, job models.IngestRecordingJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobPublisher) PublishSweep(ctx context.Context, subject string, job models.SweepJob) error {
	args := m.Called(ctx, subject, job)
	return args.Error(0)
}
