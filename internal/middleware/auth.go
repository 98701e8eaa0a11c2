// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/auth"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-live-class-service/pkg/constants"
)

// UserParser validates a bearer token and returns its user.
type UserParser interface {
	ParseUser(ctx context.Context, token string, logger *slog.Logger) (*auth.User, error)
}

// JWTAuthMiddleware rejects requests without a valid bearer token and
// stores the authenticated user in the request context.
func JWTAuthMiddleware(parser UserParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := slog.With("component", "jwt_auth")

			token, err := jwtmiddleware.AuthHeaderTokenExtractor(r)
			if err != nil {
				logger.WarnContext(ctx, "malformed authorization header", logging.ErrKey, err)
				writeUnauthorized(w, "malformed authorization header")
				return
			}

			user, err := parser.ParseUser(ctx, token, logger)
			if err != nil {
				writeUnauthorized(w, err.Error())
				return
			}

			ctx = context.WithValue(ctx, constants.AuthorizationContextID, token)
			ctx = context.WithValue(ctx, constants.UserContextID, user)
			ctx = logging.AppendCtx(ctx, slog.String("principal", user.Principal))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user stored by JWTAuthMiddleware.
func UserFromContext(ctx context.Context) (*auth.User, bool) {
	user, ok := ctx.Value(constants.UserContextID).(*auth.User)
	return user, ok && user != nil
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    "unauthorized",
		"message": message,
	})
}
