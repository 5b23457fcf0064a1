package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/hugr-lab/groonga-go/catalog"
	"github.com/hugr-lab/groonga-go/codec"
	"github.com/hugr-lab/groonga-go/expr"
)

// LoadQuery collects records and loads them with a single load command.
// A query is spent after Commit or Rollback.
type LoadQuery struct {
	exec    Executor
	table   *catalog.Table
	records []*Record
	each    string
	spent   bool
	err     error
}

// NewLoad creates a load query for records of table.
func NewLoad(exec Executor, table *catalog.Table, records ...*Record) *LoadQuery {
	q := &LoadQuery{exec: exec, table: table}
	return q.Load(records...)
}

// NewSuggestLoad creates a load query for the event table of the suggest
// schema. Each record runs through suggest_preparer on the server.
func NewSuggestLoad(exec Executor, table *catalog.Table, records ...*Record) *LoadQuery {
	q := NewLoad(exec, table, records...)
	q.each = catalog.SuggestPreparer
	return q
}

// Load appends records. Records must belong to the query's table.
func (q *LoadQuery) Load(records ...*Record) *LoadQuery {
	for _, r := range records {
		if r == nil {
			continue
		}
		if r.table != nil && q.table != nil && r.table != q.table {
			if q.err == nil {
				q.err = &catalog.SchemaError{Table: q.table.Name(), Err: fmt.Errorf("record of table %s: %w", r.table.Name(), catalog.ErrInvalidTable)}
			}
			continue
		}
		q.records = append(q.records, r)
	}
	return q
}

// Len returns the number of pending records.
func (q *LoadQuery) Len() int { return len(q.records) }

// Spent reports whether Commit or Rollback was called.
func (q *LoadQuery) Spent() bool { return q.spent }

// Command renders the load command.
func (q *LoadQuery) Command() (string, error) {
	if q.err != nil {
		return "", q.err
	}
	if q.table == nil {
		return "", fmt.Errorf("load: %w", catalog.ErrInvalidTable)
	}

	values := make([]map[string]any, len(q.records))
	for i, r := range q.records {
		values[i] = r.loadValues()
	}
	data, err := codec.MarshalValues(values)
	if err != nil {
		return "", err
	}

	parts := []string{"load", "--table", q.table.Name(), "--input-type", "json"}
	if q.each != "" {
		parts = append(parts, "--each", "'"+q.each+"'")
	}
	parts = append(parts, "--values", expr.Escape(data, true))
	return strings.Join(parts, " "), nil
}

// String returns the rendered command, or an empty string when the query
// is invalid.
func (q *LoadQuery) String() string {
	s, _ := q.Command()
	return s
}

// Commit sends the records and returns the number loaded by the server.
// Loaded records become clean.
func (q *LoadQuery) Commit(ctx context.Context) (int64, error) {
	if q.spent {
		return 0, ErrQuerySpent
	}
	cmd, err := q.Command()
	if err != nil {
		return 0, err
	}
	body, err := execute(ctx, q.exec, cmd)
	if err != nil {
		return 0, err
	}
	q.spent = true

	n, ok := codec.Int64(body)
	if !ok {
		return 0, fmt.Errorf("%w: load returned %T", ErrUnexpectedResult, body)
	}
	for _, r := range q.records {
		r.dirty = false
	}
	return n, nil
}

// Rollback discards the pending records.
func (q *LoadQuery) Rollback() error {
	if q.spent {
		return ErrQuerySpent
	}
	q.records = nil
	q.spent = true
	return nil
}
