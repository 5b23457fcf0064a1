package rc

import "fmt"

// Error is a failure reported by the server or the transport.
// It unwraps to its Code.
type Error struct {
	Code Code

	// Message is the server supplied detail, if any.
	Message string

	// Command is the command text that failed.
	Command string
}

// New creates an Error.
func New(code Code, message, command string) *Error {
	return &Error{Code: code, Message: message, Command: command}
}

// Error implements error.
func (e *Error) Error() string {
	msg := e.Code.String()
	if e.Message != "" && e.Message != msg {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Command != "" {
		msg = fmt.Sprintf("%s (command: %s)", msg, truncate(e.Command, 120))
	}
	return msg
}

// Unwrap returns the code so errors.Is matches against Code values.
func (e *Error) Unwrap() error {
	return e.Code
}

// Check returns nil for non-failure codes and an *Error otherwise.
func Check(code Code, message, command string) error {
	if !code.IsFailure() {
		return nil
	}
	return New(code, message, command)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
