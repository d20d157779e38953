package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"peopledesk/internal/requestctx"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, honoring one supplied by a
// trusted proxy.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(requestctx.WithRequestID(r.Context(), id)))
	})
}
