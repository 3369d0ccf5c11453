package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/pkg/ctxutil"
)

func TestRequestID_ReuseIncoming(t *testing.T) {
	t.Parallel()

	incomingID := uuid.New().String()

	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := ctxutil.RequestIDFromCtx(r.Context()); got != incomingID {
			t.Errorf("context request id = %q, want %q", got, incomingID)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", incomingID)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("X-Request-Id"); got != incomingID {
		t.Errorf("response header = %q, want the incoming id %q", got, incomingID)
	}
}

func TestRequestID_GenerateNew(t *testing.T) {
	t.Parallel()

	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ctxutil.RequestIDFromCtx(r.Context())
		if id == "" {
			t.Error("expected a request id in the context")
		}
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("context request id %q is not a UUID: %v", id, err)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	got := rec.Header().Get("X-Request-Id")
	if got == "" {
		t.Fatal("expected X-Request-Id response header to be set")
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("header request id %q is not a UUID: %v", got, err)
	}
}
