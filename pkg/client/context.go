package client

import "context"

type requestIDKey struct{}

// ContextWithRequestID returns a context under which commands are sent
// with id as their Event.ID instead of a generated one.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID carried by ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
