package auth

import (
	"context"
	"net/http"
)

// bearerCredentials wraps a user-provided token source.
type bearerCredentials struct {
	tokenFunc func(ctx context.Context) (string, error)
}

// Bearer creates Credentials sending a static bearer token.
func Bearer(token string) Credentials {
	return BearerFunc(func(context.Context) (string, error) {
		return token, nil
	})
}

// BearerFunc creates Credentials from a token source called for every
// request. This is the simplest way to plug in refreshing tokens.
//
// Example:
//
//	creds := auth.BearerFunc(func(ctx context.Context) (string, error) {
//	    tok, err := source.Token(ctx)
//	    if err != nil {
//	        return "", err
//	    }
//	    return tok.AccessToken, nil
//	})
func BearerFunc(tokenFunc func(ctx context.Context) (string, error)) Credentials {
	return &bearerCredentials{
		tokenFunc: tokenFunc,
	}
}

// Apply implements Credentials.
func (b *bearerCredentials) Apply(ctx context.Context, req *http.Request) error {
	token, err := b.tokenFunc(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return ErrTokenIsEmpty
	}
	req.Header.Set("Authorization", bearerPrefix+token)
	return nil
}

// basicCredentials sends HTTP basic authentication.
type basicCredentials struct {
	user     string
	password string
}

// Basic creates Credentials using HTTP basic authentication.
func Basic(user, password string) Credentials {
	return basicCredentials{user: user, password: password}
}

// Apply implements Credentials.
func (b basicCredentials) Apply(_ context.Context, req *http.Request) error {
	req.SetBasicAuth(b.user, b.password)
	return nil
}
