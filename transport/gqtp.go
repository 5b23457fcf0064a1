package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/hugr-lab/groonga-go/rc"
)

// GQTP frame constants.
const (
	gqtpProtocol   = 0xc7
	gqtpHeaderSize = 24

	// gqtpMaxBody bounds a single frame so a corrupt header cannot
	// allocate without limit.
	gqtpMaxBody = 1 << 30
)

// GQTP frame flags.
const (
	FlagMore  uint8 = 0x01
	FlagTail  uint8 = 0x02
	FlagHead  uint8 = 0x04
	FlagQuiet uint8 = 0x08
	FlagQuit  uint8 = 0x10
)

// ErrBadFrame is returned when a response frame does not carry the GQTP
// protocol byte or is larger than allowed.
var ErrBadFrame = errors.New("malformed GQTP frame")

// Header is the fixed size prefix of every GQTP frame.
type Header struct {
	Protocol  uint8
	QueryType uint8
	KeyLength uint16
	Level     uint8
	Flags     uint8
	Status    uint16
	Size      uint32
	Opaque    uint32
	CAS       uint64
}

// Code returns the status as a return code. The field is unsigned on the
// wire but carries the signed code.
func (h Header) Code() rc.Code {
	return rc.Code(int16(h.Status))
}

// MarshalBinary encodes the header in network byte order.
func (h Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, gqtpHeaderSize)
	buf[0] = h.Protocol
	buf[1] = h.QueryType
	binary.BigEndian.PutUint16(buf[2:4], h.KeyLength)
	buf[4] = h.Level
	buf[5] = h.Flags
	binary.BigEndian.PutUint16(buf[6:8], h.Status)
	binary.BigEndian.PutUint32(buf[8:12], h.Size)
	binary.BigEndian.PutUint32(buf[12:16], h.Opaque)
	binary.BigEndian.PutUint64(buf[16:24], h.CAS)
	return buf, nil
}

// UnmarshalBinary decodes a header.
func (h *Header) UnmarshalBinary(buf []byte) error {
	if len(buf) < gqtpHeaderSize {
		return fmt.Errorf("%w: short header (%d bytes)", ErrBadFrame, len(buf))
	}
	h.Protocol = buf[0]
	h.QueryType = buf[1]
	h.KeyLength = binary.BigEndian.Uint16(buf[2:4])
	h.Level = buf[4]
	h.Flags = buf[5]
	h.Status = binary.BigEndian.Uint16(buf[6:8])
	h.Size = binary.BigEndian.Uint32(buf[8:12])
	h.Opaque = binary.BigEndian.Uint32(buf[12:16])
	h.CAS = binary.BigEndian.Uint64(buf[16:24])
	if h.Protocol != gqtpProtocol {
		return fmt.Errorf("%w: protocol byte 0x%02x", ErrBadFrame, h.Protocol)
	}
	return nil
}

// WriteFrame writes one frame with the given flags and status.
func WriteFrame(w io.Writer, flags uint8, status rc.Code, body []byte) error {
	h := Header{
		Protocol: gqtpProtocol,
		Flags:    flags,
		Status:   uint16(int16(status)),
		Size:     uint32(len(body)),
	}
	buf, _ := h.MarshalBinary()
	if _, err := w.Write(append(buf, body...)); err != nil {
		return err
	}
	return nil
}

// ReadFrame reads one frame.
func ReadFrame(r io.Reader) (Header, []byte, error) {
	var h Header
	buf := make([]byte, gqtpHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return h, nil, err
	}
	if err := h.UnmarshalBinary(buf); err != nil {
		return h, nil, err
	}
	if h.Size > gqtpMaxBody {
		return h, nil, fmt.Errorf("%w: body of %d bytes", ErrBadFrame, h.Size)
	}
	body := make([]byte, h.Size)
	if _, err := io.ReadFull(r, body); err != nil {
		return h, nil, err
	}
	return h, body, nil
}

// GQTPConfig contains configuration for the GQTP transport.
type GQTPConfig struct {
	// Address is host:port of the server.
	// OPTIONAL: defaults to DefaultGQTPAddress.
	Address string

	// Dialer opens the connection.
	// OPTIONAL: defaults to a net.Dialer.
	Dialer func(ctx context.Context, network, address string) (net.Conn, error)

	// Timeout bounds each command round trip.
	// OPTIONAL: zero means no timeout besides the context.
	Timeout time.Duration

	// Logger is used for transport level diagnostics.
	// OPTIONAL: defaults to slog.Default().
	Logger *slog.Logger
}

// GQTP speaks the native Groonga binary protocol over one connection.
type GQTP struct {
	address string
	dial    func(ctx context.Context, network, address string) (net.Conn, error)
	timeout time.Duration
	logger  *slog.Logger

	conn net.Conn
	rd   *bufio.Reader
}

// NewGQTP creates a GQTP transport. No connection is opened until Connect.
func NewGQTP(cfg GQTPConfig) *GQTP {
	g := &GQTP{
		address: cfg.Address,
		dial:    cfg.Dialer,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}
	if g.address == "" {
		g.address = DefaultGQTPAddress
	}
	if g.dial == nil {
		var d net.Dialer
		g.dial = d.DialContext
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Connect dials the server, replacing any previous connection.
func (g *GQTP) Connect(ctx context.Context) error {
	if g.conn != nil {
		_ = g.conn.Close()
		g.conn, g.rd = nil, nil
	}
	conn, err := g.dial(ctx, "tcp", g.address)
	if err != nil {
		return rc.New(rc.ConnectionRefused, err.Error(), "")
	}
	g.conn = conn
	g.rd = bufio.NewReader(conn)
	g.logger.Debug("GQTP connected", "address", g.address)
	return nil
}

// Send implements Transport.
func (g *GQTP) Send(ctx context.Context, command string) (*Response, error) {
	if g.conn == nil {
		return nil, rc.New(rc.SocketIsNotConnected, "", command)
	}

	conn := g.conn
	deadline, ok := ctx.Deadline()
	if g.timeout > 0 {
		if d := time.Now().Add(g.timeout); !ok || d.Before(deadline) {
			deadline, ok = d, true
		}
	}
	if ok {
		_ = conn.SetDeadline(deadline)
		defer conn.SetDeadline(time.Time{})
	}
	// Unblock pending I/O when the context is cancelled.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	if err := WriteFrame(conn, FlagTail, rc.Success, []byte(command)); err != nil {
		return nil, g.ioError(ctx, err, command)
	}

	var body bytes.Buffer
	for {
		h, chunk, err := ReadFrame(g.rd)
		if err != nil {
			if errors.Is(err, ErrBadFrame) {
				return nil, rc.New(rc.InvalidFormat, err.Error(), command)
			}
			return nil, g.ioError(ctx, err, command)
		}
		body.Write(chunk)
		if code := h.Code(); code.IsFailure() {
			// Drain the remaining frames so the connection stays usable.
			for h.Flags&FlagMore != 0 {
				if h, _, err = ReadFrame(g.rd); err != nil {
					break
				}
			}
			return nil, rc.New(code, string(bytes.TrimSpace(body.Bytes())), command)
		}
		if h.Flags&FlagMore == 0 {
			break
		}
	}
	return &Response{Body: body.Bytes()}, nil
}

func (g *GQTP) ioError(ctx context.Context, err error, command string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("send: %w", ctxErr)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		// The connection deadline can fire just before the context's own timer.
		if d, ok := ctx.Deadline(); ok && !time.Now().Before(d) {
			return fmt.Errorf("send: %w", context.DeadlineExceeded)
		}
		return rc.New(rc.OperationTimeout, err.Error(), command)
	}
	return rc.New(rc.SocketIsNotConnected, err.Error(), command)
}

// Close sends a quit frame and closes the connection.
func (g *GQTP) Close() error {
	if g.conn == nil {
		return nil
	}
	_ = g.conn.SetDeadline(time.Now().Add(time.Second))
	_ = WriteFrame(g.conn, FlagTail|FlagQuit, rc.Success, []byte("quit"))
	err := g.conn.Close()
	g.conn, g.rd = nil, nil
	return err
}
