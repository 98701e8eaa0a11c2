// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
)

// MockZoomAccountRepository implements ZoomAccountRepository for testing
type MockZoomAccountRepository struct {
	mock.Mock
}

func (m *MockZoomAccountRepository) GetAccount(ctx context.Context, name string) (*models.ZoomAccount, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ZoomAccount), args.Error(1)
}

func (m *MockZoomAccountRepository) PutAccount(ctx context.Context, account *models.ZoomAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
