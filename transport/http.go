package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hugr-lab/groonga-go/auth"
	"github.com/hugr-lab/groonga-go/internal/compress"
	"github.com/hugr-lab/groonga-go/internal/reqid"
	"github.com/hugr-lab/groonga-go/rc"
)

// HTTPConfig contains configuration for the HTTP transport.
type HTTPConfig struct {
	// BaseURL is the server root, e.g. "http://localhost:10041".
	// OPTIONAL: defaults to DefaultHTTPAddress.
	BaseURL string

	// Client performs the requests.
	// OPTIONAL: defaults to a client using http.DefaultTransport.
	Client *http.Client

	// Credentials authorize every request.
	// OPTIONAL: nil sends no authorization header.
	Credentials auth.Credentials

	// Timeout bounds each request.
	// OPTIONAL: zero means no timeout besides the context.
	Timeout time.Duration

	// Logger is used for transport level diagnostics.
	// OPTIONAL: defaults to slog.Default().
	Logger *slog.Logger
}

// HTTP sends commands as GET /d/<command>?<args>. load sends its values
// as the POST body.
type HTTP struct {
	base   *url.URL
	client *http.Client
	dec    *compress.Decompressor
	logger *slog.Logger
}

// NewHTTP creates an HTTP transport.
func NewHTTP(cfg HTTPConfig) (*HTTP, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = DefaultHTTPAddress
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}
	if base.Path == "" {
		base.Path = "/"
	}

	client := &http.Client{}
	if cfg.Client != nil {
		c := *cfg.Client
		client = &c
	}
	client.Transport = auth.RoundTripper(client.Transport, cfg.Credentials)
	if cfg.Timeout > 0 {
		client.Timeout = cfg.Timeout
	}

	dec, err := compress.NewDecompressor()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTP{base: base, client: client, dec: dec, logger: logger}, nil
}

// Connect checks that the server answers status.
func (h *HTTP) Connect(ctx context.Context) error {
	if _, err := h.Send(ctx, "status"); err != nil {
		return fmt.Errorf("connect %s: %w", h.base.Redacted(), err)
	}
	return nil
}

// Send implements Transport.
func (h *HTTP) Send(ctx context.Context, command string) (*Response, error) {
	name, args, err := ParseCommand(command)
	if err != nil {
		return nil, err
	}

	method := http.MethodGet
	var body io.Reader
	if name == "load" && args.Has("values") {
		method = http.MethodPost
		body = strings.NewReader(args.Get("values"))
		args.Del("values")
	}

	u := h.base.JoinPath("d", name)
	u.RawQuery = args.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept-Encoding", compress.AcceptEncoding)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, ok := reqid.FromContext(ctx); ok {
		req.Header.Set(reqid.Header, id)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("send %s: %w", name, ctx.Err())
		}
		return nil, rc.New(rc.SocketIsNotConnected, err.Error(), command)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	data, err = h.dec.Decompress(resp.Header.Get("Content-Encoding"), data)
	if err != nil {
		return nil, err
	}

	// Failing commands still answer with an envelope; only bodiless
	// errors come from something other than the server.
	if len(data) == 0 && resp.StatusCode >= http.StatusBadRequest {
		return nil, rc.New(statusCode(resp.StatusCode), resp.Status, command)
	}

	h.logger.Debug("HTTP command",
		"command", name,
		"status", resp.StatusCode,
		"bytes", len(data),
	)
	return &Response{Body: data, Envelope: true}, nil
}

// Close releases idle connections.
func (h *HTTP) Close() error {
	h.client.CloseIdleConnections()
	h.dec.Close()
	return nil
}

func statusCode(status int) rc.Code {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return rc.OperationNotPermitted
	case http.StatusNotFound:
		return rc.NoSuchFileOrDirectory
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return rc.OperationTimeout
	}
	return rc.UnknownError
}
