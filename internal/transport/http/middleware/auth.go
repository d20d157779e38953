package middleware

import (
	"net/http"
	"strings"

	"peopledesk/internal/domain/auth"
	"peopledesk/internal/transport/http/api"
)

// Authenticate validates the Bearer token and attaches the identity to
// the request context.
func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				api.Fail(w, r, http.StatusUnauthorized, "missing bearer token")
				return
			}
			claims, err := auth.ParseToken(jwtSecret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				api.Fail(w, r, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			user := auth.UserContext{
				UserID:   claims.UserID,
				RoleID:   claims.RoleID,
				RoleName: claims.RoleName,
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
