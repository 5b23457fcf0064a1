package groonga

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hugr-lab/groonga-go/auth"
	"github.com/hugr-lab/groonga-go/codec"
	"github.com/hugr-lab/groonga-go/query"
	"github.com/hugr-lab/groonga-go/transport"
)

// Config contains configuration for a Groonga client.
type Config struct {
	// Address of the server. host:port for GQTP, a base URL for HTTP.
	// OPTIONAL: defaults to the protocol's default address.
	Address string

	// Protocol selects the built in transport.
	// OPTIONAL: defaults to transport.ProtocolGQTP. Ignored when Transport is set.
	Protocol transport.Protocol

	// Transport overrides the built in transports.
	// OPTIONAL: If nil, a transport is created from Protocol and Address.
	Transport transport.Transport

	// OutputType requested from the server.
	// OPTIONAL: defaults to codec.OutputJSON.
	OutputType codec.OutputType

	// Timeout bounds each command round trip.
	// OPTIONAL: If 0, commands are bounded only by their context.
	Timeout time.Duration

	// Credentials authorize HTTP requests.
	// OPTIONAL: If nil, no authorization header is sent. Rejected with GQTP.
	Credentials auth.Credentials

	// RateLimit caps commands per second.
	// OPTIONAL: If 0, commands are not rate limited.
	RateLimit float64

	// RateBurst is the number of commands allowed at once under RateLimit.
	// OPTIONAL: defaults to 1.
	RateBurst int

	// Metrics records command counts and latencies.
	// OPTIONAL: If nil, nothing is recorded.
	Metrics *Metrics

	// Logger for client logging.
	// OPTIONAL: Uses slog.Default() if nil.
	// Note: If LogLevel is specified, a new logger will be created with that level.
	Logger *slog.Logger

	// LogLevel sets the logging level.
	// OPTIONAL: If nil, uses the level of Logger.
	// If Logger is also provided, LogLevel is ignored (use pre-configured logger).
	LogLevel *slog.Level
}

// Standard errors returned by the groonga package.
var (
	// ErrInvalidConfig indicates Config validation failed.
	ErrInvalidConfig = errors.New("invalid client config")

	// ErrNotBound is returned when a table has no client to run commands on.
	ErrNotBound = query.ErrNotBound
)

// validateConfig checks the Config fields that have no usable default.
func validateConfig(config Config) error {
	if config.Transport == nil {
		switch config.Protocol {
		case "", transport.ProtocolGQTP:
			if config.Credentials != nil {
				return fmt.Errorf("credentials require the http protocol")
			}
		case transport.ProtocolHTTP:
		default:
			return fmt.Errorf("%w: %q", transport.ErrUnknownProtocol, config.Protocol)
		}
	}
	if _, err := codec.New(config.OutputType); err != nil {
		return err
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if config.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if config.RateBurst < 0 {
		return fmt.Errorf("rate burst must not be negative")
	}
	return nil
}
