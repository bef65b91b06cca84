package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/answer-validator.net/internal/adapter/crypto"
	"gitlab.com/answer-validator.net/internal/adapter/logging"
	"gitlab.com/answer-validator.net/internal/config"
)

func serveWithIdentity(t *testing.T, mw *MiddlewareProvider, header string) (*httptest.ResponseRecorder, *uuid.UUID) {
	t.Helper()
	var seen *uuid.UUID
	h := mw.IdentityMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := UserIDFromContext(r.Context()); ok {
			seen = &id
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func TestIdentityMiddleware(t *testing.T) {
	jwtSvc := crypto.NewJWTService(&config.JwtConfig{Secret: "s3cret"})
	mw := New(jwtSvc, logging.NewNopLogger())
	user := uuid.New()

	token, err := jwtSvc.GenerateTokenHMAC(context.Background(), "HS256", map[string]interface{}{"sub": user.String()})
	require.NoError(t, err)

	t.Run("anonymous", func(t *testing.T) {
		rec, seen := serveWithIdentity(t, mw, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("valid token", func(t *testing.T) {
		rec, seen := serveWithIdentity(t, mw, "Bearer "+token)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, user, *seen)
	})

	t.Run("invalid token", func(t *testing.T) {
		rec, seen := serveWithIdentity(t, mw, "Bearer "+token+"x")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("not bearer", func(t *testing.T) {
		rec, _ := serveWithIdentity(t, mw, "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestIdentityMiddleware_Disabled(t *testing.T) {
	rec, seen := serveWithIdentity(t, New(nil, logging.NewNopLogger()), "Bearer whatever")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, seen)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler("answerValidator").Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"answerValidator"}`, rec.Body.String())
}
