// Package reqid carries request ids through contexts so that client logs
// and HTTP requests of one command share an id.
package reqid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header carrying the request id.
const Header = "X-Request-Id"

// idKey is the unexported context key for the request id.
type idKey struct{}

// WithID returns a new context with the request id stored.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// FromContext retrieves the request id if present.
// Returns ("", false) if no id is set.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(idKey{}).(string)
	return id, ok && id != ""
}

// Ensure returns ctx unchanged when it already carries an id, otherwise a
// new context with a fresh random id.
func Ensure(ctx context.Context) (context.Context, string) {
	if id, ok := FromContext(ctx); ok {
		return ctx, id
	}
	id := uuid.NewString()
	return WithID(ctx, id), id
}
