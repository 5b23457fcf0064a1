package query

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/hugr-lab/groonga-go/attr"
	"github.com/hugr-lab/groonga-go/catalog"
	"github.com/hugr-lab/groonga-go/codec"
)

var errNoResultSet = errors.New("select returned no result set")

// ResultColumn is one entry of a result set header.
type ResultColumn struct {
	Name string
	Type string
}

// Result is a mapped result set.
type Result struct {
	allLen  int64
	columns []ResultColumn
	records []*Record
}

// MapOption configures MapResult.
type MapOption func(*mapConfig)

type mapConfig struct {
	maxLen  int
	exec    Executor
	columns []string
}

// WithMaxLen maps at most n rows. The total hit count is unaffected.
func WithMaxLen(n int) MapOption {
	return func(c *mapConfig) { c.maxLen = n }
}

// WithExecutor binds mapped records to exec so that Commit and Delete work.
func WithExecutor(exec Executor) MapOption {
	return func(c *mapConfig) { c.exec = exec }
}

// WithColumns accepts header names that are not columns of the table,
// such as function output columns or column paths the query requested.
func WithColumns(names ...string) MapOption {
	return func(c *mapConfig) { c.columns = append(c.columns, names...) }
}

// MapResult maps a decoded result set [[nHits], header, rows...] to records
// of table. base is the index of the header; rows follow it. A nil table
// maps every column without schema checks.
func MapResult(table *catalog.Table, raw any, base int, opts ...MapOption) (*Result, error) {
	cfg := mapConfig{maxLen: -1}
	for _, opt := range opts {
		opt(&cfg)
	}

	set, ok := raw.([]any)
	if !ok || base < 1 || len(set) <= base {
		return nil, fmt.Errorf("%w: result set must be an array with a header at %d, got %T", ErrUnexpectedResult, base, raw)
	}

	res := &Result{}
	if head, ok := set[0].([]any); ok && len(head) > 0 {
		res.allLen, _ = codec.Int64(head[0])
	}

	header, ok := set[base].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: result header must be an array, got %T", ErrUnexpectedResult, set[base])
	}
	res.columns = make([]ResultColumn, len(header))
	for i, h := range header {
		pair, ok := h.([]any)
		if !ok || len(pair) == 0 {
			return nil, fmt.Errorf("%w: column %d must be [name, type]", ErrUnexpectedResult, i)
		}
		res.columns[i].Name, _ = codec.String(pair[0])
		if len(pair) > 1 {
			res.columns[i].Type, _ = codec.String(pair[1])
		}
		if slices.Contains(cfg.columns, res.columns[i].Name) {
			continue
		}
		if err := checkColumn(table, res.columns[i].Name); err != nil {
			return nil, err
		}
	}

	rows := set[base+1:]
	if cfg.maxLen >= 0 && len(rows) > cfg.maxLen {
		rows = rows[:cfg.maxLen]
	}
	res.records = make([]*Record, 0, len(rows))
	for i, row := range rows {
		values, ok := row.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: row %d must be an array, got %T", ErrUnexpectedResult, i, row)
		}
		fields := make(map[string]any, len(res.columns))
		for j, c := range res.columns {
			if j < len(values) {
				fields[c.Name] = values[j]
			}
		}
		res.records = append(res.records, &Record{exec: cfg.exec, table: table, fields: fields})
	}
	return res, nil
}

// AllLength returns the number of matching records, which exceeds Len when
// limit or offset applied.
func (r *Result) AllLength() int64 { return r.allLen }

// Len returns the number of mapped records.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.records)
}

// At returns the i-th record. Negative indexes count from the end.
func (r *Result) At(i int) *Record {
	if i < 0 {
		i += len(r.records)
	}
	return r.records[i]
}

// Columns returns the result header.
func (r *Result) Columns() []ResultColumn { return slices.Clone(r.columns) }

// Records returns the mapped records.
func (r *Result) Records() []*Record { return slices.Clone(r.records) }

// All iterates records in order.
func (r *Result) All() iter.Seq2[int, *Record] {
	return func(yield func(int, *Record) bool) {
		if r == nil {
			return
		}
		for i, rec := range r.records {
			if !yield(i, rec) {
				return
			}
		}
	}
}

// Backward iterates records in reverse order.
func (r *Result) Backward() iter.Seq2[int, *Record] {
	if r == nil {
		return func(func(int, *Record) bool) {}
	}
	return slices.Backward(r.records)
}

// SelectResult is the result of a select, with one drilldown result per
// drilldown column.
type SelectResult struct {
	*Result
	drilldowns []*Result
	columns    []string
}

// Drilldowns returns the drilldown results in column order. Their records
// carry _key and _nsubrecs.
func (r *SelectResult) Drilldowns() []*Result { return slices.Clone(r.drilldowns) }

// Drilldown returns the drilldown result of column.
func (r *SelectResult) Drilldown(column string) (*Result, bool) {
	i := slices.Index(r.columns, column)
	if i < 0 || i >= len(r.drilldowns) {
		return nil, false
	}
	return r.drilldowns[i], true
}

func mapSelect(exec Executor, table *catalog.Table, body any, requested, drillColumns []string) (*SelectResult, error) {
	sets, ok := body.([]any)
	if !ok || len(sets) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedResult, errNoResultSet)
	}
	main, err := MapResult(table, sets[0], 1, WithExecutor(exec), WithColumns(requested...))
	if err != nil {
		return nil, err
	}
	res := &SelectResult{Result: main, columns: drillColumns}
	for i, raw := range sets[1:] {
		dd, err := MapResult(nil, raw, 1)
		if err != nil {
			return nil, fmt.Errorf("drilldown %d: %w", i, err)
		}
		res.drilldowns = append(res.drilldowns, dd)
	}
	return res, nil
}

// SuggestResults holds the buckets of a suggest response. Buckets that
// were not requested are empty.
type SuggestResults struct {
	Complete *Result
	Correct  *Result
	Suggest  *Result
}

// Bucket returns the result of one suggest type.
func (s *SuggestResults) Bucket(name string) (*Result, error) {
	switch name {
	case attr.SuggestComplete.String():
		return s.Complete, nil
	case attr.SuggestCorrect.String():
		return s.Correct, nil
	case attr.SuggestSuggest.String():
		return s.Suggest, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBucket, name)
}

func mapSuggest(body any) (*SuggestResults, error) {
	m, ok := body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: suggest body must be an object, got %T", ErrUnexpectedResult, body)
	}
	bucket := func(t attr.SuggestTypes) (*Result, error) {
		name := t.String()
		raw, ok := m[name]
		if !ok || raw == nil {
			return &Result{}, nil
		}
		res, err := MapResult(nil, raw, 1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return res, nil
	}

	var res SuggestResults
	var err error
	if res.Complete, err = bucket(attr.SuggestComplete); err != nil {
		return nil, err
	}
	if res.Correct, err = bucket(attr.SuggestCorrect); err != nil {
		return nil, err
	}
	if res.Suggest, err = bucket(attr.SuggestSuggest); err != nil {
		return nil, err
	}
	return &res, nil
}
