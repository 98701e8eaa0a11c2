// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
)

const (
	// PS256 is the default for Heimdall's JWT finalizer.
	signatureAlgorithm = validator.PS256
	defaultIssuer      = "heimdall"
	defaultAudience    = "lfx-v2-live-class-service"
	defaultJWKSURL     = "http://heimdall:4457/.well-known/jwks"
	jwksCacheTTL       = 5 * time.Minute
	allowedClockSkew   = 30 * time.Second
)

// HeimdallClaims contains extra custom claims we want to parse from the JWT
// token.
type HeimdallClaims struct {
	Principal string `json:"principal"`
	Email     string `json:"email,omitempty"`
}

// Validate provides additional middleware validation of any claims defined
// in HeimdallClaims.
func (c *HeimdallClaims) Validate(_ context.Context) error {
	if c.Principal == "" {
		return errors.New("principal must be provided")
	}
	return nil
}

// JWTAuthConfig holds the configuration parameters for JWT authentication.
type JWTAuthConfig struct {
	// JWKSURL is the URL to the JSON Web Key Set endpoint
	JWKSURL string
	// Audience is the intended audience for the JWT token
	Audience string
	// MockLocalPrincipal is used for local development to bypass JWT validation
	MockLocalPrincipal string
}

// User is the authenticated caller.
type User struct {
	Principal string
	Email     string
}

// MemberID is the identifier used for enrollment lookups: the email claim
// when present, otherwise the principal.
func (u User) MemberID() string {
	if u.Email != "" {
		return strings.ToLower(u.Email)
	}
	return strings.ToLower(u.Principal)
}

// JWTAuth validates Heimdall issued bearer tokens.
type JWTAuth struct {
	validator *validator.Validator
	config    JWTAuthConfig
}

// NewJWTAuth creates a new JWT authenticator.
func NewJWTAuth(config JWTAuthConfig) (*JWTAuth, error) {
	if config.JWKSURL == "" {
		config.JWKSURL = defaultJWKSURL
	}
	if config.Audience == "" {
		config.Audience = defaultAudience
	}

	jwksURL, err := url.Parse(config.JWKSURL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWKS URL: %w", err)
	}

	issuer, err := url.Parse(defaultIssuer)
	if err != nil {
		return nil, fmt.Errorf("invalid issuer: %w", err)
	}

	provider := jwks.NewCachingProvider(issuer, jwksCacheTTL, jwks.WithCustomJWKSURI(jwksURL))

	customClaims := func() validator.CustomClaims {
		return &HeimdallClaims{}
	}

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		signatureAlgorithm,
		issuer.String(),
		[]string{config.Audience},
		validator.WithCustomClaims(customClaims),
		validator.WithAllowedClockSkew(allowedClockSkew),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the JWT validator: %w", err)
	}

	return &JWTAuth{
		validator: jwtValidator,
		config:    config,
	}, nil
}

// ParseUser validates a bearer token and returns the caller.
func (j *JWTAuth) ParseUser(ctx context.Context, token string, logger *slog.Logger) (*User, error) {
	if j.config.MockLocalPrincipal != "" {
		logger.InfoContext(ctx, "JWT validation is disabled, using mock principal",
			"principal", j.config.MockLocalPrincipal)
		return &User{Principal: j.config.MockLocalPrincipal, Email: j.config.MockLocalPrincipal}, nil
	}

	if j.validator == nil {
		return nil, errors.New("JWT validator is not set up")
	}

	parsedToken, err := j.validator.ValidateToken(ctx, strings.TrimPrefix(token, "Bearer "))
	if err != nil {
		firstLevel := truncateValidationError(err)
		logger.WarnContext(ctx, "JWT validation failed", logging.ErrKey, firstLevel)
		return nil, errors.New(firstLevel)
	}

	claims, ok := parsedToken.(*validator.ValidatedClaims)
	if !ok {
		return nil, errors.New("failed to get validated authorization claims")
	}

	customClaims, ok := claims.CustomClaims.(*HeimdallClaims)
	if !ok {
		return nil, errors.New("failed to get custom authorization claims")
	}

	return &User{Principal: customClaims.Principal, Email: customClaims.Email}, nil
}

// truncateValidationError keeps the first two levels of a validation error.
// Deeper levels can carry internal addresses of a failed JWKS fetch.
func truncateValidationError(err error) string {
	msg := strings.Replace(err.Error(), ": go-jose/go-jose: ", ": ", 1)
	first := strings.Index(msg, ":")
	if first == -1 || first+1 == len(msg) {
		return msg
	}
	second := strings.Index(msg[first+1:], ":")
	if second == -1 {
		return msg
	}
	return msg[:first+1+second]
}
