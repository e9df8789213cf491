// Package httpmeta names the request metadata carried from HTTP headers into
// the request context.
package httpmeta

import "context"

// contextKey is an unexported type for context keys in this package.
type contextKey string

const (
	HeaderXRequestID      = "X-Request-Id"
	HeaderXIdempotencyKey = "X-Idempotency-Key"

	// ContextKeyRequestID is the context key for the request ID.
	ContextKeyRequestID contextKey = "x-request-id"
	// ContextKeyIdempotencyKey is the context key for the idempotency key.
	ContextKeyIdempotencyKey contextKey = "x-idempotency-key"
)

// WithRequestMeta stores both values on ctx.
func WithRequestMeta(ctx context.Context, requestID, idempotencyKey string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyRequestID, requestID)
	return context.WithValue(ctx, ContextKeyIdempotencyKey, idempotencyKey)
}

// RequestID returns the request id on ctx, or "".
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(ContextKeyRequestID).(string)
	return v
}

// IdempotencyKey returns the caller-supplied idempotency key on ctx, or "".
func IdempotencyKey(ctx context.Context) string {
	v, _ := ctx.Value(ContextKeyIdempotencyKey).(string)
	return v
}
