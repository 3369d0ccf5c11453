package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/pkg/ctxutil"
)

type tokenValidatorMock struct {
	ValidateAccessTokenFunc func(token string) (uuid.UUID, error)
}

func (m *tokenValidatorMock) ValidateAccessToken(token string) (uuid.UUID, error) {
	return m.ValidateAccessTokenFunc(token)
}

func TestAuth(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	validator := &tokenValidatorMock{
		ValidateAccessTokenFunc: func(token string) (uuid.UUID, error) {
			if token == "good-token" {
				return ownerID, nil
			}
			return uuid.Nil, errors.New("invalid token")
		},
	}

	t.Run("valid token populates owner", func(t *testing.T) {
		var gotOwner uuid.UUID
		var gotOK bool
		handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotOwner, gotOK = ctxutil.OwnerIDFromCtx(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/lectures", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !gotOK || gotOwner != ownerID {
			t.Errorf("owner in context = %v/%v, want %v", gotOwner, gotOK, ownerID)
		}
	})

	t.Run("missing token passes through anonymously", func(t *testing.T) {
		var gotOK bool
		handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, gotOK = ctxutil.OwnerIDFromCtx(r.Context())
		}))

		req := httptest.NewRequest(http.MethodPost, "/surveys", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if gotOK {
			t.Error("anonymous request must not carry an owner")
		}
	})

	t.Run("bad token is rejected", func(t *testing.T) {
		handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not run for a bad token")
		}))

		req := httptest.NewRequest(http.MethodGet, "/lectures", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestRequireOwner(t *testing.T) {
	t.Parallel()

	t.Run("authenticated request passes", func(t *testing.T) {
		called := false
		handler := RequireOwner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		req := httptest.NewRequest(http.MethodGet, "/lectures", nil)
		req = req.WithContext(ctxutil.WithOwnerID(req.Context(), uuid.New()))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if !called {
			t.Error("handler was not called")
		}
	})

	t.Run("anonymous request is rejected", func(t *testing.T) {
		handler := RequireOwner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not run anonymously")
		}))

		req := httptest.NewRequest(http.MethodGet, "/lectures", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}
