// Package auth provides credentials for Groonga servers behind an
// authenticating HTTP proxy.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrInvalidAuthHeader is returned when the authorization header is malformed.
	ErrInvalidAuthHeader = errors.New("authorization header must use Bearer scheme")

	// ErrTokenIsEmpty is returned when a token source yields an empty token.
	ErrTokenIsEmpty = errors.New("authorization token is empty")
)

// Credentials authorize outgoing HTTP requests.
// Implementations MUST be goroutine-safe.
type Credentials interface {
	// Apply sets authorization headers on req.
	// Context allows timeout for token refresh calls.
	Apply(ctx context.Context, req *http.Request) error
}

// noCredentials leaves requests untouched.
type noCredentials struct{}

// None returns Credentials that add nothing. Used when the server is
// reachable without authentication.
func None() Credentials {
	return noCredentials{}
}

// Apply implements Credentials.
func (noCredentials) Apply(context.Context, *http.Request) error { return nil }

const bearerPrefix = "Bearer "

// TokenFromAuthorizationHeader extracts the token of a "Bearer <token>" header.
func TokenFromAuthorizationHeader(authHeader string) (string, error) {
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrTokenIsEmpty
	}
	return token, nil
}
