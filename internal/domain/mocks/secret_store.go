// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
)

// MockSecretStore implements SecretStore for testing
type MockSecretStore struct {
	mock.Mock
}

func (m *MockSecretStore) WebhookSecret(ctx context.Context, account string) (models.Secret, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(models.Secret), args.Error(1)
}

func (m *MockSecretStore) Credentials(ctx context.Context, account string) (models.ZoomCredentials, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(models.ZoomCredentials), args.Error(1)
}
