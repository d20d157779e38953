package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"peopledesk/internal/transport/http/api"
)

// PermissionStore answers whether a role holds a permission.
type PermissionStore interface {
	HasPermission(ctx context.Context, roleID, permission string) (bool, error)
}

// RequirePermission gates a route on a role permission. Runs after
// Authenticate.
func RequirePermission(store PermissionStore, permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, r, http.StatusUnauthorized, "authentication required")
				return
			}
			allowed, err := store.HasPermission(r.Context(), user.RoleID, permission)
			if err != nil {
				slog.Error("permission check failed",
					slog.String("permission", permission),
					slog.Any("error", err))
				api.Fail(w, r, http.StatusInternalServerError, "permission check failed")
				return
			}
			if !allowed {
				api.Fail(w, r, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
