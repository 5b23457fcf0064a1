package auth

import (
	"fmt"
	"net/http"
)

// roundTripper applies credentials to every request.
type roundTripper struct {
	base  http.RoundTripper
	creds Credentials
}

// RoundTripper wraps base so that requests carry creds. Credentials stored
// in the request context with WithCredentials take precedence.
// A nil base means http.DefaultTransport; nil creds pass requests through.
func RoundTripper(base http.RoundTripper, creds Credentials) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &roundTripper{base: base, creds: creds}
}

// RoundTrip implements http.RoundTripper.
func (rt *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	creds := CredentialsFromContext(req.Context())
	if creds == nil {
		creds = rt.creds
	}
	if creds == nil {
		return rt.base.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request
	req = req.Clone(req.Context())
	if err := creds.Apply(req.Context(), req); err != nil {
		return nil, fmt.Errorf("apply credentials: %w", err)
	}
	return rt.base.RoundTrip(req)
}
