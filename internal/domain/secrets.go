// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
)

// SecretStore resolves the confidential material of a Zoom account.
// An empty account name selects the default account.
type SecretStore interface {
	WebhookSecret(ctx context.Context, account string) (models.Secret, error)
	Credentials(ctx context.Context, account string) (models.ZoomCredentials, error)
}
