package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hugr-lab/groonga-go/attr"
	"github.com/hugr-lab/groonga-go/catalog"
	"github.com/hugr-lab/groonga-go/codec"
	"github.com/hugr-lab/groonga-go/expr"
)

// DeleteOptions selects the records removed by delete. Options are
// rendered as given; the server rejects invalid combinations.
type DeleteOptions struct {
	// Key deletes the record with this key.
	// OPTIONAL: nil means unset.
	Key any

	// ID deletes the record with this _id.
	// OPTIONAL: zero means unset, record ids start at 1.
	ID uint64

	// Filter deletes the matching records. Either an expression or a raw
	// filter string.
	// OPTIONAL: nil means unset.
	Filter any
}

// SimpleQuery renders one administrative command. Each builder method
// replaces the previous command.
type SimpleQuery struct {
	exec   Executor
	table  *catalog.Table
	tokens []string
	err    error
}

// NewSimple creates a simple query. table is only needed for delete and
// truncate.
func NewSimple(exec Executor, table *catalog.Table) *SimpleQuery {
	return &SimpleQuery{exec: exec, table: table}
}

func (q *SimpleQuery) set(err error, tokens ...string) *SimpleQuery {
	q.tokens = tokens
	q.err = err
	return q
}

func (q *SimpleQuery) tableName(cmd string) (string, error) {
	if q.table == nil {
		return "", fmt.Errorf("%s: %w", cmd, catalog.ErrInvalidTable)
	}
	return q.table.Name(), nil
}

// Delete renders delete --table T [--key K] [--id I] [--filter F].
func (q *SimpleQuery) Delete(opts DeleteOptions) *SimpleQuery {
	name, err := q.tableName("delete")
	if err != nil {
		return q.set(err)
	}
	tokens := []string{"delete", "--table", name}
	if opts.Key != nil {
		tokens = append(tokens, "--key", expr.Escape(fmt.Sprint(opts.Key), false))
	}
	if opts.ID != 0 {
		tokens = append(tokens, "--id", strconv.FormatUint(opts.ID, 10))
	}
	switch f := opts.Filter.(type) {
	case nil:
	case string:
		tokens = append(tokens, "--filter", expr.Escape(f, true))
	case expr.Expression:
		s, err := expr.Filter.Render(f)
		if err != nil {
			return q.set(fmt.Errorf("delete filter: %w", err))
		}
		tokens = append(tokens, "--filter", expr.Escape(s, true))
	default:
		return q.set(fmt.Errorf("delete filter: unsupported type %T", f))
	}
	return q.set(nil, tokens...)
}

// Truncate renders truncate T.
func (q *SimpleQuery) Truncate() *SimpleQuery {
	name, err := q.tableName("truncate")
	if err != nil {
		return q.set(err)
	}
	return q.set(nil, "truncate", name)
}

// CacheLimit renders cache_limit, which returns the current limit.
func (q *SimpleQuery) CacheLimit() *SimpleQuery {
	return q.set(nil, "cache_limit")
}

// SetCacheLimit renders cache_limit N, which returns the previous limit.
func (q *SimpleQuery) SetCacheLimit(n int) *SimpleQuery {
	if n < 0 {
		return q.set(fmt.Errorf("cache_limit: negative limit %d", n))
	}
	return q.set(nil, "cache_limit", strconv.Itoa(n))
}

// LogLevel renders log_level L.
func (q *SimpleQuery) LogLevel(level attr.LogLevel) *SimpleQuery {
	return q.set(nil, "log_level", level.String())
}

// LogPut renders log_put L "message".
func (q *SimpleQuery) LogPut(level attr.LogLevel, message string) *SimpleQuery {
	return q.set(nil, "log_put", level.String(), expr.Escape(message, true))
}

// LogReopen renders log_reopen.
func (q *SimpleQuery) LogReopen() *SimpleQuery {
	return q.set(nil, "log_reopen")
}

// Command returns the rendered command.
func (q *SimpleQuery) Command() (string, error) {
	if q.err != nil {
		return "", q.err
	}
	if len(q.tokens) == 0 {
		return "", fmt.Errorf("simple query: no command")
	}
	return strings.Join(q.tokens, " "), nil
}

// String returns the rendered command, or an empty string when the query
// is invalid.
func (q *SimpleQuery) String() string {
	s, _ := q.Command()
	return s
}

// Execute runs the command and returns the decoded body.
func (q *SimpleQuery) Execute(ctx context.Context) (any, error) {
	cmd, err := q.Command()
	if err != nil {
		return nil, err
	}
	return execute(ctx, q.exec, cmd)
}

// ExecuteBool runs a command answering true or false.
func (q *SimpleQuery) ExecuteBool(ctx context.Context) (bool, error) {
	body, err := q.Execute(ctx)
	if err != nil {
		return false, err
	}
	b, ok := codec.Bool(body)
	if !ok {
		return false, fmt.Errorf("%w: expected a boolean, got %T", ErrUnexpectedResult, body)
	}
	return b, nil
}

// ExecuteInt runs a command answering a number.
func (q *SimpleQuery) ExecuteInt(ctx context.Context) (int64, error) {
	body, err := q.Execute(ctx)
	if err != nil {
		return 0, err
	}
	n, ok := codec.Int64(body)
	if !ok {
		return 0, fmt.Errorf("%w: expected an integer, got %T", ErrUnexpectedResult, body)
	}
	return n, nil
}
