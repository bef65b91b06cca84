package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"gitlab.com/answer-validator.net/internal/core/ports/primary"
	"gitlab.com/answer-validator.net/internal/handlers/response"
)

type ctxKey int

const userIDKey ctxKey = iota

// UserIDFromContext returns the caller identity set by IdentityMiddleware
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

type MiddlewareProvider struct {
	jwt    primary.JWTService
	logger primary.Logger
}

// New builds the middleware provider. A nil jwt service disables token checks.
func New(jwt primary.JWTService, logger primary.Logger) *MiddlewareProvider {
	return &MiddlewareProvider{
		jwt:    jwt,
		logger: logger,
	}
}

// IdentityMiddleware resolves an optional bearer token into a user id.
// Requests without a token stay anonymous; an invalid token is rejected.
func (m *MiddlewareProvider) IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || m.jwt == nil {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			response.Unauthorized(w, "invalid authorization header")
			return
		}

		userID, err := m.jwt.VerifySubject(r.Context(), tokenString)
		if err != nil {
			m.logger.Debug("Rejected bearer token", "error", err)
			response.Unauthorized(w, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}
