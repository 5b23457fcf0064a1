package auth

import (
	"context"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey int

const (
	// credentialsKey is the context key for per call credentials.
	credentialsKey contextKey = iota
)

// WithCredentials returns a new context whose requests use creds instead
// of the client's configured credentials.
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey, creds)
}

// CredentialsFromContext retrieves per call credentials.
// Returns nil if none are set.
func CredentialsFromContext(ctx context.Context) Credentials {
	creds, ok := ctx.Value(credentialsKey).(Credentials)
	if !ok {
		return nil
	}
	return creds
}
