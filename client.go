package groonga

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hugr-lab/groonga-go/catalog"
	"github.com/hugr-lab/groonga-go/codec"
	"github.com/hugr-lab/groonga-go/internal/recovery"
	"github.com/hugr-lab/groonga-go/internal/reqid"
	"github.com/hugr-lab/groonga-go/query"
	"github.com/hugr-lab/groonga-go/rc"
	"github.com/hugr-lab/groonga-go/transport"
)

// reconnectTimeout bounds the reconnection attempted after a failed command
// when the client has no Timeout of its own.
const reconnectTimeout = 10 * time.Second

// Client runs commands on one Groonga server.
//
// A Client is not safe for concurrent use: the connection state is plain
// fields. Serialize access or use one Client per goroutine.
type Client struct {
	transport transport.Transport
	codec     codec.Codec
	limiter   *rate.Limiter
	metrics   *Metrics
	logger    *slog.Logger
	timeout   time.Duration

	connected bool
}

var (
	_ query.Executor = (*Client)(nil)
	_ catalog.Lister = (*Client)(nil)
)

// NewClient creates a client from config without connecting.
//
// Example:
//
//	client, err := groonga.NewClient(groonga.Config{
//	    Address:  "http://localhost:10041",
//	    Protocol: transport.ProtocolHTTP,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
func NewClient(config Config) (*Client, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
		if config.LogLevel != nil {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: *config.LogLevel}))
		}
	}

	cdc, err := codec.New(config.OutputType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	tr := config.Transport
	if tr == nil {
		tr, err = newTransport(config, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		burst := config.RateBurst
		if burst == 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), burst)
	}

	return &Client{
		transport: tr,
		codec:     cdc,
		limiter:   limiter,
		metrics:   config.Metrics,
		logger:    logger,
		timeout:   config.Timeout,
	}, nil
}

// Connect creates a client and connects it.
func Connect(ctx context.Context, config Config) (*Client, error) {
	c, err := NewClient(config)
	if err != nil {
		return nil, err
	}
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func newTransport(config Config, logger *slog.Logger) (transport.Transport, error) {
	switch config.Protocol {
	case "", transport.ProtocolGQTP:
		return transport.NewGQTP(transport.GQTPConfig{
			Address: config.Address,
			Timeout: config.Timeout,
			Logger:  logger,
		}), nil
	case transport.ProtocolHTTP:
		return transport.NewHTTP(transport.HTTPConfig{
			BaseURL:     config.Address,
			Credentials: config.Credentials,
			Timeout:     config.Timeout,
			Logger:      logger,
		})
	}
	return nil, fmt.Errorf("%w: %q", transport.ErrUnknownProtocol, config.Protocol)
}

// Connect opens the connection. Calling it on a connected client is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	if c.connected {
		return nil
	}
	err := recovery.RecoverToError(c.logger, "Connect", func() error {
		return c.transport.Connect(ctx)
	})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	c.connected = true
	return nil
}

// Connected reports whether the client holds an open connection.
func (c *Client) Connected() bool { return c.connected }

// Reconnect drops the connection and opens a new one.
func (c *Client) Reconnect(ctx context.Context) error {
	c.connected = false
	return c.Connect(ctx)
}

// Close releases the connection.
func (c *Client) Close() error {
	c.connected = false
	return recovery.RecoverToError(c.logger, "Close", c.transport.Close)
}

// OutputType returns the output type the client requests.
func (c *Client) OutputType() codec.OutputType { return c.codec.OutputType() }

// Execute sends command and returns the decoded response body.
//
// A failing command marks the client disconnected; it is reconnected
// before the error is returned, so the next command can proceed.
func (c *Client) Execute(ctx context.Context, command string) (any, error) {
	if !c.connected {
		return nil, rc.New(rc.SocketIsNotConnected, "", command)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	ctx, id := reqid.Ensure(ctx)
	name := commandName(command)
	wire := c.withOutputType(command)

	start := time.Now()
	body, err := c.roundTrip(ctx, command, wire)
	elapsed := time.Since(start)
	c.metrics.observe(name, elapsed, err)

	if err != nil {
		c.logger.Error("Command failed",
			"command", name,
			"request_id", id,
			"elapsed", elapsed,
			"error", err,
		)
		c.resetConnection(ctx)
		return nil, err
	}

	c.logger.Debug("Command executed",
		"command", name,
		"request_id", id,
		"elapsed", elapsed,
	)
	return body, nil
}

// Raw sends command and returns the undecoded response body.
func (c *Client) Raw(ctx context.Context, command string) ([]byte, error) {
	if !c.connected {
		return nil, rc.New(rc.SocketIsNotConnected, "", command)
	}
	ctx, _ = reqid.Ensure(ctx)
	resp, err := c.send(ctx, c.withOutputType(command))
	if err != nil {
		c.resetConnection(ctx)
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) roundTrip(ctx context.Context, command, wire string) (any, error) {
	resp, err := c.send(ctx, wire)
	if err != nil {
		return nil, err
	}

	if !resp.Envelope {
		return c.codec.Decode(resp.Body)
	}
	header, body, err := c.codec.DecodeEnvelope(resp.Body)
	if err != nil {
		return nil, err
	}
	if err := header.Err(command); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) send(ctx context.Context, command string) (*transport.Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return recovery.RecoverToValue(c.logger, "Send", func() (*transport.Response, error) {
		return c.transport.Send(ctx, command)
	})
}

// resetConnection marks the client disconnected and reconnects it. A failed
// reconnection leaves the client disconnected.
func (c *Client) resetConnection(ctx context.Context) {
	c.connected = false

	timeout := c.timeout
	if timeout <= 0 {
		timeout = reconnectTimeout
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := c.Connect(rctx); err != nil {
		c.logger.Warn("Reconnect failed", "error", err)
		return
	}
	c.metrics.reconnected()
	c.logger.Warn("Reconnected after failed command")
}

func (c *Client) withOutputType(command string) string {
	t := c.codec.OutputType()
	if t == codec.OutputJSON || strings.Contains(command, "--output_type") {
		return command
	}
	return command + " --output_type " + string(t)
}

func commandName(command string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(command), " ")
	return name
}

// Status returns the server status.
func (c *Client) Status(ctx context.Context) (map[string]any, error) {
	v, err := c.Execute(ctx, "status")
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: status returned %T", query.ErrUnexpectedResult, v)
	}
	return m, nil
}

// TableList implements catalog.Lister.
func (c *Client) TableList(ctx context.Context) ([]catalog.TableInfo, error) {
	rows, err := c.list(ctx, "table_list")
	if err != nil {
		return nil, err
	}
	tables := make([]catalog.TableInfo, 0, len(rows))
	for _, row := range rows {
		tables = append(tables, catalog.TableInfoFromMap(row))
	}
	return tables, nil
}

// ColumnList implements catalog.Lister.
func (c *Client) ColumnList(ctx context.Context, table string) ([]catalog.ColumnInfo, error) {
	rows, err := c.list(ctx, "column_list "+table)
	if err != nil {
		return nil, err
	}
	cols := make([]catalog.ColumnInfo, 0, len(rows))
	for _, row := range rows {
		cols = append(cols, catalog.ColumnInfoFromMap(row))
	}
	return cols, nil
}

// TableNames returns the names of the existing tables.
func (c *Client) TableNames(ctx context.Context) ([]string, error) {
	tables, err := c.TableList(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		names = append(names, t.Name)
	}
	return names, nil
}

// list runs a *_list command. Its body is a header row of [name, type]
// pairs followed by one row per entry.
func (c *Client) list(ctx context.Context, command string) ([]map[string]any, error) {
	v, err := c.Execute(ctx, command)
	if err != nil {
		return nil, err
	}
	rows, ok := v.([]any)
	if !ok || len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s returned %T", query.ErrUnexpectedResult, commandName(command), v)
	}
	header, ok := rows[0].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s header", query.ErrUnexpectedResult, commandName(command))
	}
	names := make([]string, len(header))
	for i, h := range header {
		pair, ok := h.([]any)
		if !ok || len(pair) == 0 {
			return nil, fmt.Errorf("%w: %s header entry %d", query.ErrUnexpectedResult, commandName(command), i)
		}
		names[i], _ = codec.String(pair[0])
	}

	out := make([]map[string]any, 0, len(rows)-1)
	for _, r := range rows[1:] {
		values, ok := r.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s row", query.ErrUnexpectedResult, commandName(command))
		}
		m := make(map[string]any, len(names))
		for i, name := range names {
			if i < len(values) {
				m[name] = values[i]
			}
		}
		out = append(out, m)
	}
	return out, nil
}
