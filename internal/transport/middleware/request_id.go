package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/moritahr/lecfeed-backend/pkg/ctxutil"
)

// requestIDHeader carries the correlation id; an incoming value is
// reused and echoed back, otherwise a fresh UUID is minted.
const requestIDHeader = "X-Request-Id"

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		ctx := ctxutil.WithRequestID(r.Context(), id)
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
