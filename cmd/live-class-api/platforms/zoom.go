// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package platforms sets up the Zoom integration of the live class service:
// the account seeded from the environment and the REST provider.
package platforms

import (
	"context"
	"log/slog"
	"os"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/zoom"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/zoom/api"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/service"
)

// ZoomConfig holds Zoom-specific configuration
type ZoomConfig struct {
	AccountName        string
	AccountID          string
	ClientID           string
	ClientSecret       models.Secret
	WebhookSecretToken models.Secret
}

// NewZoomConfigFromEnv creates a ZoomConfig from environment variables
func NewZoomConfigFromEnv() ZoomConfig {
	return ZoomConfig{
		AccountName:        os.Getenv("ZOOM_ACCOUNT_NAME"),
		AccountID:          os.Getenv("ZOOM_ACCOUNT_ID"),
		ClientID:           os.Getenv("ZOOM_CLIENT_ID"),
		ClientSecret:       models.Secret(os.Getenv("ZOOM_CLIENT_SECRET")),
		WebhookSecretToken: models.Secret(os.Getenv("ZOOM_WEBHOOK_SECRET_TOKEN")),
	}
}

// IsConfigured returns true if all required Zoom API credentials are provided
func (z ZoomConfig) IsConfigured() bool {
	return z.AccountID != "" && z.ClientID != "" && !z.ClientSecret.IsEmpty()
}

// ToAccount converts the ZoomConfig to the account stored at startup.
func (z ZoomConfig) ToAccount() *models.ZoomAccount {
	return &models.ZoomAccount{
		Name:          z.AccountName,
		AccountID:     z.AccountID,
		ClientID:      z.ClientID,
		ClientSecret:  z.ClientSecret,
		WebhookSecret: z.WebhookSecretToken,
	}
}

// SetupZoom seeds the configured account and returns the recording provider.
// Accounts added later to the zoom-accounts bucket are picked up on first use.
func SetupZoom(ctx context.Context, accounts *service.AccountService, config ZoomConfig) (*zoom.Provider, error) {
	if config.IsConfigured() {
		slog.Info("Zoom platform integration configured",
			"account_id", config.AccountID,
			"client_id", config.ClientID)
	} else {
		slog.Warn("Zoom API credentials not configured in the environment",
			"has_account_id", config.AccountID != "",
			"has_client_id", config.ClientID != "",
			"has_client_secret", !config.ClientSecret.IsEmpty())
	}
	if config.WebhookSecretToken.IsEmpty() {
		slog.Warn("Zoom webhook validation not configured - missing ZOOM_WEBHOOK_SECRET_TOKEN")
	}

	if err := accounts.SeedAccount(ctx, config.ToAccount()); err != nil {
		return nil, err
	}

	return zoom.NewProvider(accounts, zoom.NewClientFactory(api.Config{}), accounts.ResolveName("")), nil
}
