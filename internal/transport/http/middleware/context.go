package middleware

import (
	"context"

	"peopledesk/internal/domain/auth"
)

type ctxKey string

const userKey ctxKey = "user"

func WithUser(ctx context.Context, user auth.UserContext) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser returns the authenticated identity, or false when the
// request never passed authentication.
func GetUser(ctx context.Context) (auth.UserContext, bool) {
	user, ok := ctx.Value(userKey).(auth.UserContext)
	return user, ok
}
