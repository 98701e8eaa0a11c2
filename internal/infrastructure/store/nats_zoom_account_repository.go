// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
)

// KeyPrefixZoomAccount prefixes account keys, which are encoded account names.
const KeyPrefixZoomAccount = "zoom-account"

// SecretCipher seals confidential fields before they reach the bucket.
type SecretCipher interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// zoomAccountRecord is the persisted form of a Zoom account.
type zoomAccountRecord struct {
	Name                string `json:"name"`
	AccountID           string `json:"account_id"`
	ClientID            string `json:"client_id"`
	SealedClientSecret  string `json:"sealed_client_secret,omitempty"`
	SealedWebhookSecret string `json:"sealed_webhook_secret,omitempty"`
	Member              string `json:"member,omitempty"`
}

// NatsZoomAccountRepository stores Zoom accounts with their secrets sealed.
type NatsZoomAccountRepository struct {
	*NatsBaseRepository[zoomAccountRecord]
	keyBuilder *KeyBuilder
	cipher     SecretCipher
}

// NewNatsZoomAccountRepository creates a new NATS KV store repository for Zoom accounts.
func NewNatsZoomAccountRepository(kvStore INatsKeyValue, cipher SecretCipher) *NatsZoomAccountRepository {
	return &NatsZoomAccountRepository{
		NatsBaseRepository: NewNatsBaseRepository[zoomAccountRecord](kvStore, "zoom account"),
		keyBuilder:         NewKeyBuilder(),
		cipher:             cipher,
	}
}

// GetAccount loads an account by name and opens its secrets.
func (r *NatsZoomAccountRepository) GetAccount(ctx context.Context, name string) (*models.ZoomAccount, error) {
	record, err := r.Get(ctx, r.keyBuilder.EntityKey(KeyPrefixZoomAccount, name))
	if err != nil {
		return nil, err
	}

	clientSecret, err := r.cipher.Open(record.SealedClientSecret)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("failed to open client secret of zoom account %s", name), err)
	}
	webhookSecret, err := r.cipher.Open(record.SealedWebhookSecret)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("failed to open webhook secret of zoom account %s", name), err)
	}

	return &models.ZoomAccount{
		Name:          record.Name,
		AccountID:     record.AccountID,
		ClientID:      record.ClientID,
		ClientSecret:  models.Secret(clientSecret),
		WebhookSecret: models.Secret(webhookSecret),
		Member:        record.Member,
	}, nil
}

// PutAccount seals the account secrets and upserts the account.
func (r *NatsZoomAccountRepository) PutAccount(ctx context.Context, account *models.ZoomAccount) error {
	if account.Name == "" {
		return domain.NewValidationError("zoom account name is required")
	}

	clientSecret, err := r.cipher.Seal(account.ClientSecret.Reveal())
	if err != nil {
		return domain.NewInternalError("failed to seal client secret", err)
	}
	webhookSecret, err := r.cipher.Seal(account.WebhookSecret.Reveal())
	if err != nil {
		return domain.NewInternalError("failed to seal webhook secret", err)
	}

	record := &zoomAccountRecord{
		Name:                account.Name,
		AccountID:           account.AccountID,
		ClientID:            account.ClientID,
		SealedClientSecret:  clientSecret,
		SealedWebhookSecret: webhookSecret,
		Member:              account.Member,
	}
	_, err = r.Create(ctx, r.keyBuilder.EntityKey(KeyPrefixZoomAccount, account.Name), record)
	return err
}
