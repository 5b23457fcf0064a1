// Package transport sends command text to a Groonga server.
//
// Two protocols are provided: GQTP, the native binary framing over TCP,
// and HTTP, where commands map to /d/<command> requests. Both return the
// raw response body; decoding is left to the codec package.
package transport

import (
	"context"
	"errors"
)

// Protocol names a built in transport.
type Protocol string

const (
	ProtocolGQTP Protocol = "gqtp"
	ProtocolHTTP Protocol = "http"
)

// Default addresses of the built in transports.
const (
	DefaultGQTPAddress = "localhost:10043"
	DefaultHTTPAddress = "http://localhost:10041"
)

// ErrUnknownProtocol is returned for protocol names other than gqtp and http.
var ErrUnknownProtocol = errors.New("unknown protocol")

// Response is the raw answer to one command.
type Response struct {
	// Body is the response payload, decompressed.
	Body []byte

	// Envelope reports whether Body is wrapped in the HTTP envelope
	// [[return_code, start_time, elapsed_time, message], body]. GQTP bodies
	// are bare; their return code was already checked from the frame header.
	Envelope bool
}

// Transport carries commands to a server.
// Implementations are used by one client at a time and need not be
// goroutine-safe.
type Transport interface {
	// Connect opens the connection. It is called again after a failure.
	Connect(ctx context.Context) error

	// Send issues one command and waits for the complete response.
	// Server side failures detected by the transport are returned as *rc.Error.
	Send(ctx context.Context, command string) (*Response, error)

	// Close releases the connection.
	Close() error
}

// Func adapts a function to Transport. Connect and Close do nothing.
// Useful for tests and for embedding a server in process.
type Func func(ctx context.Context, command string) (*Response, error)

// Connect implements Transport.
func (Func) Connect(context.Context) error { return nil }

// Send implements Transport.
func (f Func) Send(ctx context.Context, command string) (*Response, error) {
	return f(ctx, command)
}

// Close implements Transport.
func (Func) Close() error { return nil }
