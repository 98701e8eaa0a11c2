// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
)

// DefaultAccountName is the account name used when none is configured.
const DefaultAccountName = "default"

// AccountService resolves Zoom account secrets from the account repository.
// It implements domain.SecretStore.
type AccountService struct {
	AccountRepository domain.ZoomAccountRepository
	Config            ServiceConfig
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepository domain.ZoomAccountRepository, config ServiceConfig) *AccountService {
	return &AccountService{
		AccountRepository: accountRepository,
		Config:            config,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *AccountService) ServiceReady() bool {
	return s.AccountRepository != nil
}

// ResolveName returns account, or the configured default account name when
// account is empty.
func (s *AccountService) ResolveName(account string) string {
	if account != "" {
		return account
	}
	if s.Config.DefaultAccount != "" {
		return s.Config.DefaultAccount
	}
	return DefaultAccountName
}

func (s *AccountService) getAccount(ctx context.Context, account string) (*models.ZoomAccount, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("account service is not ready")
	}
	return s.AccountRepository.GetAccount(ctx, s.ResolveName(account))
}

// WebhookSecret returns the webhook secret token of the account.
func (s *AccountService) WebhookSecret(ctx context.Context, account string) (models.Secret, error) {
	zoomAccount, err := s.getAccount(ctx, account)
	if err != nil {
		return "", err
	}
	if zoomAccount.WebhookSecret.IsEmpty() {
		return "", domain.NewUnavailableError(fmt.Sprintf("zoom account %s has no webhook secret", zoomAccount.Name))
	}
	return zoomAccount.WebhookSecret, nil
}

// Credentials returns the server-to-server OAuth credentials of the account.
func (s *AccountService) Credentials(ctx context.Context, account string) (models.ZoomCredentials, error) {
	zoomAccount, err := s.getAccount(ctx, account)
	if err != nil {
		return models.ZoomCredentials{}, err
	}
	if !zoomAccount.HasAPICredentials() {
		return models.ZoomCredentials{}, domain.NewUnavailableError(fmt.Sprintf("zoom account %s has no API credentials", zoomAccount.Name))
	}
	return zoomAccount.Credentials(), nil
}

// SeedAccount stores an account from static configuration, under the
// default name when the account has none. Accounts without any secret are
// skipped.
func (s *AccountService) SeedAccount(ctx context.Context, account *models.ZoomAccount) error {
	if !s.ServiceReady() {
		return domain.NewUnavailableError("account service is not ready")
	}
	if account == nil || (account.WebhookSecret.IsEmpty() && account.ClientSecret.IsEmpty()) {
		slog.InfoContext(ctx, "no zoom account configured, skipping seed")
		return nil
	}

	seeded := *account
	seeded.Name = s.ResolveName(account.Name)
	if err := s.AccountRepository.PutAccount(ctx, &seeded); err != nil {
		return err
	}

	slog.InfoContext(ctx, "zoom account seeded",
		"account", seeded.Name,
		"account_id", seeded.AccountID,
		"has_api_credentials", seeded.HasAPICredentials(),
	)
	return nil
}
