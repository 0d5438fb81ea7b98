package service

import "context"

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity injects the authenticated identity (lower-cased email)
// into the context.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// Identity retrieves the authenticated identity from the context, or
// an empty string when the request was not authenticated.
func Identity(ctx context.Context) string {
	identity, _ := ctx.Value(identityKey).(string)
	return identity
}
