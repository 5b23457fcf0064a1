package groonga

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hugr-lab/groonga-go/catalog"
	"github.com/hugr-lab/groonga-go/codec"
	"github.com/hugr-lab/groonga-go/internal/recovery"
	"github.com/hugr-lab/groonga-go/rc"
	"github.com/hugr-lab/groonga-go/transport"
)

// fakeTransport answers commands from a handler and counts connections.
type fakeTransport struct {
	handler    func(command string) (*transport.Response, error)
	connectErr error
	connects   int
	commands   []string
}

func (f *fakeTransport) Connect(context.Context) error {
	f.connects++
	return f.connectErr
}

func (f *fakeTransport) Send(_ context.Context, command string) (*transport.Response, error) {
	f.commands = append(f.commands, command)
	return f.handler(command)
}

func (f *fakeTransport) Close() error { return nil }

func (f *fakeTransport) last() string {
	if len(f.commands) == 0 {
		return ""
	}
	return f.commands[len(f.commands)-1]
}

// envelope answers every command with an HTTP style body.
func envelope(body string) func(string) (*transport.Response, error) {
	return func(string) (*transport.Response, error) {
		return &transport.Response{Body: []byte(body), Envelope: true}, nil
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, ft *fakeTransport, cfg Config) *Client {
	t.Helper()
	cfg.Transport = ft
	if cfg.Logger == nil {
		cfg.Logger = quietLogger()
	}
	c, err := Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	return c
}

func TestClientConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown protocol", Config{Protocol: "udp"}},
		{"unknown output type", Config{OutputType: "xml"}},
		{"credentials over gqtp", Config{Credentials: BearerAuth("x")}},
		{"negative timeout", Config{Timeout: -1}},
		{"negative rate", Config{RateLimit: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(tt.cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if _, err := NewClient(Config{Protocol: transport.ProtocolHTTP, Credentials: BearerAuth("x")}); err != nil {
		t.Errorf("HTTP with credentials must be valid: %v", err)
	}
}

func TestClientExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("not connected", func(t *testing.T) {
		ft := &fakeTransport{handler: envelope(`[[0,0,0],true]`)}
		c, err := NewClient(Config{Transport: ft, Logger: quietLogger()})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if _, err := c.Execute(ctx, "status"); !errors.Is(err, rc.SocketIsNotConnected) {
			t.Errorf("expected SocketIsNotConnected, got %v", err)
		}
		if len(ft.commands) != 0 {
			t.Error("nothing must be sent while disconnected")
		}
	})

	t.Run("envelope", func(t *testing.T) {
		ft := &fakeTransport{handler: envelope(`[[0,1.5,0.01],true]`)}
		c := newTestClient(t, ft, Config{})
		v, err := c.Execute(ctx, "truncate Site")
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if v != true {
			t.Errorf("got %v, want true", v)
		}
		if ft.last() != "truncate Site" {
			t.Errorf("sent %q", ft.last())
		}
	})

	t.Run("bare body", func(t *testing.T) {
		ft := &fakeTransport{handler: func(string) (*transport.Response, error) {
			return &transport.Response{Body: []byte(`{"version":"14.0.0","n_queries":3}`)}, nil
		}}
		c := newTestClient(t, ft, Config{})
		status, err := c.Status(ctx)
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if status["version"] != "14.0.0" || status["n_queries"] != int64(3) {
			t.Errorf("unexpected status %v", status)
		}
	})

	t.Run("msgpack output type", func(t *testing.T) {
		ft := &fakeTransport{handler: func(string) (*transport.Response, error) {
			return &transport.Response{Body: []byte{0xc3}}, nil
		}}
		c := newTestClient(t, ft, Config{OutputType: codec.OutputMsgPack})
		v, err := c.Execute(ctx, "log_reopen")
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if v != true {
			t.Errorf("got %v, want true", v)
		}
		if ft.last() != "log_reopen --output_type msgpack" {
			t.Errorf("sent %q", ft.last())
		}
	})
}

func TestClientReconnectOnError(t *testing.T) {
	ctx := context.Background()

	t.Run("server error", func(t *testing.T) {
		ft := &fakeTransport{handler: envelope(`[[-22,1.0,0.1,"invalid table name: <Nope>"]]`)}
		c := newTestClient(t, ft, Config{})

		_, err := c.Execute(ctx, "select --table Nope")
		var rcErr *rc.Error
		if !errors.As(err, &rcErr) {
			t.Fatalf("expected *rc.Error, got %v", err)
		}
		if rcErr.Code != rc.InvalidArgument || rcErr.Command != "select --table Nope" {
			t.Errorf("unexpected error %+v", rcErr)
		}
		if !strings.Contains(err.Error(), "invalid table name") {
			t.Errorf("message lost: %v", err)
		}
		if ft.connects != 2 {
			t.Errorf("connects = %d, want 2", ft.connects)
		}
		if !c.Connected() {
			t.Error("client must be reconnected")
		}
	})

	t.Run("failed reconnect", func(t *testing.T) {
		ft := &fakeTransport{handler: func(command string) (*transport.Response, error) {
			return nil, rc.New(rc.SocketIsNotConnected, "broken pipe", command)
		}}
		c := newTestClient(t, ft, Config{})
		ft.connectErr = errors.New("connection refused")

		if _, err := c.Execute(ctx, "status"); !errors.Is(err, rc.SocketIsNotConnected) {
			t.Errorf("expected SocketIsNotConnected, got %v", err)
		}
		if c.Connected() {
			t.Error("client must stay disconnected")
		}

		ft.connectErr = nil
		if err := c.Reconnect(ctx); err != nil {
			t.Fatalf("Reconnect failed: %v", err)
		}
		if !c.Connected() {
			t.Error("Reconnect must connect")
		}
	})

	t.Run("transport panic", func(t *testing.T) {
		ft := &fakeTransport{handler: func(string) (*transport.Response, error) {
			panic("boom")
		}}
		c := newTestClient(t, ft, Config{})
		if _, err := c.Execute(ctx, "status"); !errors.Is(err, recovery.ErrPanic) {
			t.Errorf("expected ErrPanic, got %v", err)
		}
	})
}

func TestClientMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	calls := 0
	ft := &fakeTransport{handler: func(string) (*transport.Response, error) {
		calls++
		if calls == 2 {
			return &transport.Response{Body: []byte(`[[-63,0,0,"syntax error"]]`), Envelope: true}, nil
		}
		return &transport.Response{Body: []byte(`[[0,0,0],true]`), Envelope: true}, nil
	}}
	c := newTestClient(t, ft, Config{Metrics: m})

	ctx := context.Background()
	_, _ = c.Execute(ctx, "log_reopen")
	_, _ = c.Execute(ctx, "select --table Site")

	if got := testutil.ToFloat64(m.CommandsTotal.WithLabelValues("log_reopen", "SUCCESS")); got != 1 {
		t.Errorf("log_reopen successes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CommandsTotal.WithLabelValues("select", rc.Code(-63).Name())); got != 1 {
		t.Errorf("select failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Reconnects); got != 1 {
		t.Errorf("reconnects = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.CommandDuration); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}
}

func TestClientRateLimit(t *testing.T) {
	ft := &fakeTransport{handler: envelope(`[[0,0,0],true]`)}
	c := newTestClient(t, ft, Config{RateLimit: 0.001, RateBurst: 1})

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := c.Execute(ctx, "status"); err != nil {
		t.Fatalf("first command within burst failed: %v", err)
	}
	cancel()
	if _, err := c.Execute(ctx, "status"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled from the limiter, got %v", err)
	}
	if len(ft.commands) != 1 {
		t.Errorf("sent %d commands, want 1", len(ft.commands))
	}
}

const tableListBody = `[[0,0,0],[
	[["id","UInt32"],["name","ShortText"],["path","ShortText"],["flags","ShortText"],
	 ["domain","ShortText"],["range","ShortText"],["default_tokenizer","ShortText"],["normalizer","ShortText"]],
	[256,"Site","/db/db.0000100","TABLE_HASH_KEY|PERSISTENT","ShortText",null,null,null]
]]`

const columnListBody = `[[0,0,0],[
	[["id","UInt32"],["name","ShortText"],["path","ShortText"],["type","ShortText"],
	 ["flags","ShortText"],["domain","ShortText"],["range","ShortText"],["source","ShortText"]],
	[256,"_key","","","COLUMN_SCALAR","Site","ShortText",[]],
	[257,"title","/db/db.0000101","var","COLUMN_SCALAR|PERSISTENT","Site","ShortText",[]],
	[258,"likes","/db/db.0000102","fix","COLUMN_SCALAR|PERSISTENT","Site","Int32",[]]
]]`

func schemaHandler(command string) (*transport.Response, error) {
	body := `[[0,0,0],true]`
	switch {
	case command == "table_list":
		body = tableListBody
	case strings.HasPrefix(command, "column_list"):
		body = columnListBody
	}
	return &transport.Response{Body: []byte(body), Envelope: true}, nil
}

func TestClientLister(t *testing.T) {
	ft := &fakeTransport{handler: schemaHandler}
	c := newTestClient(t, ft, Config{})
	ctx := context.Background()

	tables, err := c.TableList(ctx)
	if err != nil {
		t.Fatalf("TableList failed: %v", err)
	}
	if len(tables) != 1 || tables[0].Name != "Site" || tables[0].ID != 256 || tables[0].Domain != "ShortText" {
		t.Fatalf("unexpected tables %+v", tables)
	}

	base, err := catalog.Introspect(ctx, c)
	if err != nil {
		t.Fatalf("Introspect failed: %v", err)
	}
	site, ok := base.Lookup("Site")
	if !ok {
		t.Fatal("Site not introspected")
	}
	if got := len(site.DeclaredColumns()); got != 2 {
		t.Errorf("declared columns = %d, want 2", got)
	}
	if !site.HasColumn("likes") || !site.HasColumn("_key") {
		t.Errorf("unexpected columns %v", site.ColumnNames())
	}
	if ft.last() != "column_list Site" {
		t.Errorf("sent %q", ft.last())
	}
}

func TestClientListErrors(t *testing.T) {
	ft := &fakeTransport{handler: envelope(`[[0,0,0],true]`)}
	c := newTestClient(t, ft, Config{})
	if _, err := c.TableList(context.Background()); err == nil {
		t.Error("expected error for non-tabular table_list body")
	}
}
