package rc

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCodeCatalog(t *testing.T) {
	tests := []struct {
		code    Code
		value   int
		message string
		name    string
	}{
		{Success, 0, "success", "SUCCESS"},
		{EndOfData, 1, "end of data", "END_OF_DATA"},
		{UnknownError, -1, "unknown error", "UNKNOWN_ERROR"},
		{PermissionDenied, -14, "permission denied", "PERMISSION_DENIED"},
		{SocketIsNotConnected, -47, "socket is not connected", "SOCKET_IS_NOT_CONNECTED"},
		{OperationTimeout, -49, "operation timeout", "OPERATION_TIMEOUT"},
		{ConnectionRefused, -50, "connection refused", "CONNECTION_REFUSED"},
		{FileCorrupt, -53, "file corrupt", "FILE_CORRUPT"},
		{SyntaxError, -63, "syntax error", "SYNTAX_ERROR"},
		{UnsupportedCommandVersion, -71, "unsupported command version", "UNSUPPORTED_COMMAND_VERSION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if int(tt.code) != tt.value {
				t.Errorf("value = %d, want %d", int(tt.code), tt.value)
			}
			if tt.code.String() != tt.message {
				t.Errorf("String() = %q, want %q", tt.code.String(), tt.message)
			}
			if tt.code.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", tt.code.Name(), tt.name)
			}
			if !tt.code.Known() {
				t.Error("expected code to be known")
			}
		})
	}

	if len(messages) != 73 {
		t.Errorf("catalog has %d codes, want 73", len(messages))
	}
	if Code(-200).Known() {
		t.Error("code -200 must not be known")
	}
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("select failed: %w", New(SyntaxError, "unexpected token", "select --table T --filter \"(\""))

	if !errors.Is(err, SyntaxError) {
		t.Error("expected errors.Is to match SyntaxError")
	}
	if errors.Is(err, FileCorrupt) {
		t.Error("did not expect FileCorrupt")
	}

	var rcErr *Error
	if !errors.As(err, &rcErr) {
		t.Fatal("expected errors.As to find *Error")
	}
	if rcErr.Message != "unexpected token" {
		t.Errorf("unexpected message %q", rcErr.Message)
	}
	if !strings.Contains(err.Error(), "syntax error: unexpected token") {
		t.Errorf("unexpected error text %q", err.Error())
	}
}

func TestCheck(t *testing.T) {
	if err := Check(Success, "", "status"); err != nil {
		t.Errorf("Success must not be an error, got %v", err)
	}
	if err := Check(EndOfData, "", "status"); err != nil {
		t.Errorf("EndOfData must not be an error, got %v", err)
	}
	if err := Check(InvalidArgument, "bad", "status"); !errors.Is(err, InvalidArgument) {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}
