// Package recovery converts panics of user supplied transports into errors.
// Ensures a faulty transport does not crash the calling program.
package recovery

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// ErrPanic is wrapped by every error produced from a recovered panic.
var ErrPanic = errors.New("panic recovered")

// RecoverToError wraps a function call with panic recovery.
// If the function panics, converts the panic to an error wrapping ErrPanic.
//
// Example:
//
//	err := recovery.RecoverToError(logger, "Connect", func() error {
//	    return tr.Connect(ctx)
//	})
func RecoverToError(logger *slog.Logger, operation string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logPanic(logger, operation, r)
			err = fmt.Errorf("%w: %s panicked: %v", ErrPanic, operation, r)
		}
	}()

	return fn()
}

// RecoverToValue wraps a function that returns a value and error.
// If the function panics, returns zero value and error.
//
// Example:
//
//	resp, err := recovery.RecoverToValue(logger, "Send", func() (*transport.Response, error) {
//	    return tr.Send(ctx, command)
//	})
func RecoverToValue[T any](logger *slog.Logger, operation string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			logPanic(logger, operation, r)

			var zero T
			result = zero
			err = fmt.Errorf("%w: %s panicked: %v", ErrPanic, operation, r)
		}
	}()

	return fn()
}

func logPanic(logger *slog.Logger, operation string, r any) {
	if logger == nil {
		return
	}
	logger.Error("Panic recovered",
		"operation", operation,
		"panic", r,
		"stack", string(debug.Stack()),
	)
}
