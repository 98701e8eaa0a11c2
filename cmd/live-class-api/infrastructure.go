// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/auth"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/email"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/secrets"
)

// setupJWTAuth configures JWT authentication for the service
func setupJWTAuth() (*auth.JWTAuth, error) {
	jwtAuthConfig := auth.JWTAuthConfig{
		JWKSURL:            os.Getenv("JWKS_URL"),
		Audience:           os.Getenv("JWT_AUDIENCE"),
		MockLocalPrincipal: os.Getenv("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL"),
	}
	return auth.NewJWTAuth(jwtAuthConfig)
}

// setupEmailService returns the SMTP service, or a no-op service when email
// is disabled.
func setupEmailService(env environment) (domain.EmailService, error) {
	if !env.Email.Enabled {
		slog.Info("email sending is disabled")
		return email.NewNoOpService(), nil
	}

	slog.Info("email sending is enabled",
		"smtp_host", env.Email.Host,
		"smtp_port", env.Email.Port,
		"has_smtp_auth", env.Email.Username != "")
	smtpService, err := email.NewSMTPService(email.SMTPConfig{
		Host:     env.Email.Host,
		Port:     env.Email.Port,
		From:     env.Email.From,
		Username: env.Email.Username,
		Password: env.Email.Password,
	})
	if err != nil {
		return nil, err
	}
	return smtpService, nil
}

// setupCipher builds the cipher sealing account secrets at rest.
func setupCipher(env environment) (*secrets.SecretboxCipher, error) {
	if env.SecretsKey == "" {
		return nil, errors.New("SECRETS_ENCRYPTION_KEY environment variable is required but not set")
	}
	return secrets.NewSecretboxCipher(env.SecretsKey.Reveal())
}
