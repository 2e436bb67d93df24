// Package auth resolves the bearer token on each request into an actor
// (user ID and role) carried by the request context.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "github.com/Joenyengs/backend/pkg/domain"
	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
	"github.com/Joenyengs/backend/pkg/platform/httputil"
	"github.com/Joenyengs/backend/pkg/requestcontext"
)

// Claims is the identity extracted from a validated token.
type Claims struct {
	Subject string
	Role    string
}

// TokenValidator validates a raw bearer token.
type TokenValidator interface {
	ValidateToken(token string) (*Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// authenticated actor in the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestID,
					"error", err,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			ctx, err = withClaims(ctx, claims)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - malformed claims",
					"request_id", requestID,
					"error", err,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims"))
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func withClaims(ctx context.Context, claims *Claims) (context.Context, error) {
	userID, err := id.ParseUserID(claims.Subject)
	if err != nil {
		return ctx, err
	}
	role, err := id.ParseRole(claims.Role)
	if err != nil {
		return ctx, err
	}
	return requestcontext.WithActor(ctx, userID, role), nil
}
