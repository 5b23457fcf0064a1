package transport

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/hugr-lab/groonga-go/rc"
)

// fakeServer answers GQTP frames on one end of a pipe. reply returns the
// frames to send for a received command.
func fakeServer(t *testing.T, reply func(command string) []frame) *GQTP {
	t.Helper()
	g := NewGQTP(GQTPConfig{
		Dialer: func(ctx context.Context, network, address string) (net.Conn, error) {
			client, server := net.Pipe()
			go serve(server, reply)
			return client, nil
		},
	})
	if err := g.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

type frame struct {
	flags  uint8
	status rc.Code
	body   string
}

func serve(conn net.Conn, reply func(command string) []frame) {
	defer conn.Close()
	for {
		h, body, err := ReadFrame(conn)
		if err != nil || h.Flags&FlagQuit != 0 {
			return
		}
		for _, f := range reply(string(body)) {
			if err := WriteFrame(conn, f.flags, f.status, []byte(f.body)); err != nil {
				return
			}
		}
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	code := rc.SyntaxError
	h := Header{
		Protocol:  gqtpProtocol,
		QueryType: 2,
		KeyLength: 3,
		Level:     4,
		Flags:     FlagMore | FlagHead,
		Status:    uint16(int16(code)),
		Size:      1 << 20,
		Opaque:    7,
		CAS:       1 << 40,
	}
	buf, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	if len(buf) != 24 || buf[0] != 0xc7 {
		t.Fatalf("unexpected header bytes % x", buf)
	}

	var got Header
	if err := got.UnmarshalBinary(buf); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	if got != h {
		t.Errorf("got %+v, want %+v", got, h)
	}
	if got.Code() != rc.SyntaxError {
		t.Errorf("Code() = %v, want SyntaxError", got.Code())
	}
}

func TestReadFrameErrors(t *testing.T) {
	bad := make([]byte, 24)
	bad[0] = 0x01
	if _, _, err := ReadFrame(bytes.NewReader(bad)); !errors.Is(err, ErrBadFrame) {
		t.Errorf("expected ErrBadFrame, got %v", err)
	}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, FlagTail, rc.Success, []byte("status")); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}
	truncated := buf.Bytes()[:buf.Len()-2]
	if _, _, err := ReadFrame(bytes.NewReader(truncated)); err == nil {
		t.Error("expected error for truncated body")
	}
}

func TestGQTPSend(t *testing.T) {
	g := fakeServer(t, func(command string) []frame {
		switch command {
		case "status":
			return []frame{{flags: FlagTail, body: `{"alloc_count":1}`}}
		case "select --table Site":
			return []frame{
				{flags: FlagMore, body: `[[[1],`},
				{flags: FlagMore, body: `[["_id","UInt32"]],`},
				{flags: FlagTail, body: `[1]]]`},
			}
		}
		return []frame{{flags: FlagTail, status: rc.InvalidArgument, body: "unknown command\n"}}
	})

	tests := []struct {
		command string
		want    string
	}{
		{"status", `{"alloc_count":1}`},
		{"select --table Site", `[[[1],[["_id","UInt32"]],[1]]]`},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			resp, err := g.Send(context.Background(), tt.command)
			if err != nil {
				t.Fatalf("Send failed: %v", err)
			}
			if resp.Envelope {
				t.Error("GQTP bodies carry no envelope")
			}
			if string(resp.Body) != tt.want {
				t.Errorf("body = %q, want %q", resp.Body, tt.want)
			}
		})
	}

	t.Run("failure status", func(t *testing.T) {
		_, err := g.Send(context.Background(), "bogus")
		var rcErr *rc.Error
		if !errors.As(err, &rcErr) {
			t.Fatalf("expected *rc.Error, got %v", err)
		}
		if rcErr.Code != rc.InvalidArgument || rcErr.Message != "unknown command" || rcErr.Command != "bogus" {
			t.Errorf("unexpected error %+v", rcErr)
		}

		// The connection stays usable after a failure.
		if _, err := g.Send(context.Background(), "status"); err != nil {
			t.Errorf("Send after failure: %v", err)
		}
	})
}

func TestGQTPNotConnected(t *testing.T) {
	g := NewGQTP(GQTPConfig{})
	_, err := g.Send(context.Background(), "status")
	if !errors.Is(err, rc.SocketIsNotConnected) {
		t.Errorf("expected SocketIsNotConnected, got %v", err)
	}
	if err := g.Close(); err != nil {
		t.Errorf("Close without connection: %v", err)
	}
}

func TestGQTPDialFailure(t *testing.T) {
	g := NewGQTP(GQTPConfig{
		Dialer: func(context.Context, string, string) (net.Conn, error) {
			return nil, errors.New("connection refused")
		},
	})
	if err := g.Connect(context.Background()); !errors.Is(err, rc.ConnectionRefused) {
		t.Errorf("expected ConnectionRefused, got %v", err)
	}
}

func TestGQTPContextCancel(t *testing.T) {
	block := make(chan struct{})
	g := fakeServer(t, func(string) []frame {
		<-block
		return nil
	})
	t.Cleanup(func() { close(block) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := g.Send(ctx, "status")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}
