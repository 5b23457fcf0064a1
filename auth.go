package groonga

import (
	"context"

	"github.com/hugr-lab/groonga-go/auth"
)

// Credentials authorize HTTP requests.
// This is re-exported from the auth package for convenience.
type Credentials = auth.Credentials

// BearerAuth returns Credentials sending a static bearer token.
//
// Example:
//
//	client, err := groonga.NewClient(groonga.Config{
//	    Address:     "https://search.example.com",
//	    Protocol:    transport.ProtocolHTTP,
//	    Credentials: groonga.BearerAuth(os.Getenv("GROONGA_TOKEN")),
//	})
func BearerAuth(token string) Credentials {
	return auth.Bearer(token)
}

// BearerAuthFunc returns Credentials asking tokenFunc for a token on every
// request. Use it for tokens that expire.
func BearerAuthFunc(tokenFunc func(ctx context.Context) (string, error)) Credentials {
	return auth.BearerFunc(tokenFunc)
}

// BasicAuth returns Credentials using HTTP basic authentication.
func BasicAuth(user, password string) Credentials {
	return auth.Basic(user, password)
}

// NoAuth returns Credentials that send nothing.
func NoAuth() Credentials {
	return auth.None()
}

// WithCredentials returns a context whose commands use creds instead of the
// client's configured credentials.
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return auth.WithCredentials(ctx, creds)
}
