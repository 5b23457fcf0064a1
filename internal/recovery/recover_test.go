package recovery

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestRecoverToError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := RecoverToError(logger, "Connect", func() error { panic("boom") })
	if !errors.Is(err, ErrPanic) {
		t.Errorf("expected ErrPanic, got %v", err)
	}

	want := errors.New("refused")
	if err := RecoverToError(nil, "Connect", func() error { return want }); err != want {
		t.Errorf("expected passthrough error, got %v", err)
	}
}

func TestRecoverToValue(t *testing.T) {
	v, err := RecoverToValue(nil, "Send", func() ([]byte, error) {
		var m map[string]int
		m["x"] = 1
		return []byte("unreachable"), nil
	})
	if !errors.Is(err, ErrPanic) || v != nil {
		t.Errorf("RecoverToValue() = %q, %v", v, err)
	}

	v, err = RecoverToValue(nil, "Send", func() ([]byte, error) { return []byte("ok"), nil })
	if err != nil || string(v) != "ok" {
		t.Errorf("RecoverToValue() = %q, %v", v, err)
	}
}
