// Package requestctx carries the per-request correlation id through
// context so handlers, logs, and the response envelope can echo it.
package requestctx

import "context"

type requestIDKey struct{}

// WithRequestID returns a child context tagged with the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID returns the request id, or "" when the context carries
// none.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
