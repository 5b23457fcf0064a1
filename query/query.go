// Package query builds Groonga commands against catalog tables and maps
// their results back to records.
//
// Builders are fluent and render lazily: errors found while building are
// kept and reported by Command or by the terminal operation (All, Commit,
// Execute). Each terminal operation issues exactly one command through an
// Executor.
//
//	res, err := query.NewSelect(exec, site).
//	    Filter(title.Match("groonga")).
//	    SortBy(likes.Desc()).
//	    Limit(10).
//	    All(ctx)
package query

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hugr-lab/groonga-go/catalog"
	"github.com/hugr-lab/groonga-go/expr"
)

// Executor runs one command and returns its decoded body.
// The root groonga.Client implements it.
type Executor interface {
	Execute(ctx context.Context, command string) (any, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, command string) (any, error)

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, command string) (any, error) {
	return f(ctx, command)
}

// Sentinel errors.
var (
	// ErrQuerySpent is returned when a load query is used after Commit or Rollback.
	ErrQuerySpent = errors.New("query is already committed or rolled back")

	// ErrNoDrilldownColumns is returned for a drilldown without columns.
	ErrNoDrilldownColumns = errors.New("drilldown needs at least one column")

	// ErrUnknownBucket is returned for suggestion buckets other than
	// complete, correct and suggest.
	ErrUnknownBucket = errors.New("unknown suggest bucket")

	// ErrNotBound is returned when a command runs without an executor.
	ErrNotBound = errors.New("not bound to a client")

	// ErrUnexpectedResult is returned when a response body has the wrong shape.
	ErrUnexpectedResult = errors.New("unexpected result")
)

// options holds the arguments shared by select, drilldown and suggest.
type options struct {
	prefix        string
	limit         int
	offset        int
	sortBy        []*expr.Node
	outputColumns []*expr.Node
}

func (o *options) render(parts []string) ([]string, error) {
	if o.limit != 0 {
		parts = append(parts, "--"+o.prefix+"limit", strconv.Itoa(o.limit))
	}
	if o.offset != 0 {
		parts = append(parts, "--"+o.prefix+"offset", strconv.Itoa(o.offset))
	}
	if len(o.sortBy) > 0 {
		keys := make([]string, len(o.sortBy))
		for i, k := range o.sortBy {
			if k.Kind() != expr.KindColumn {
				return nil, fmt.Errorf("sort key must be a column, got %s", k.Kind())
			}
			keys[i] = k.SortKey()
		}
		parts = append(parts, "--"+o.prefix+"sortby", strings.Join(keys, ","))
	}
	if len(o.outputColumns) > 0 {
		cols := make([]string, len(o.outputColumns))
		for i, c := range o.outputColumns {
			s, err := outputColumn(c)
			if err != nil {
				return nil, err
			}
			cols[i] = s
		}
		parts = append(parts, "--"+o.prefix+"output_columns", strings.Join(cols, ","))
	}
	return parts, nil
}

// outputColumn renders a column name, or a filter expression such as a
// function call, for --output_columns.
func outputColumn(n *expr.Node) (string, error) {
	if n.Kind() == expr.KindColumn {
		return n.Name(), nil
	}
	s, err := expr.Filter.Render(n)
	if err != nil {
		return "", err
	}
	if strings.ContainsFunc(s, isSpace) {
		return "", fmt.Errorf("output column %s must not contain spaces", s)
	}
	return s, nil
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }

func nodes(exprs []expr.Expression) []*expr.Node {
	out := make([]*expr.Node, len(exprs))
	for i, e := range exprs {
		out[i] = expr.Wrap(e)
	}
	return out
}

// columnName resolves a column given by name or as a column expression.
func columnName(v any) (string, error) {
	switch c := v.(type) {
	case string:
		if c == "" {
			return "", fmt.Errorf("empty column name")
		}
		return c, nil
	case expr.Expression:
		n := c.Expr()
		if n == nil || n.Kind() != expr.KindColumn {
			return "", fmt.Errorf("expected a column, got %T", v)
		}
		return n.Name(), nil
	}
	return "", fmt.Errorf("expected a column name or column, got %T", v)
}

// checkColumn verifies that name is a column of t. _score is accepted for
// every table since select adds it to results.
func checkColumn(t *catalog.Table, name string) error {
	if t == nil || name == catalog.ColumnScore || t.HasColumn(name) {
		return nil
	}
	return &catalog.SchemaError{Table: t.Name(), Column: name, Err: catalog.ErrUnknownColumn}
}

func execute(ctx context.Context, exec Executor, cmd string) (any, error) {
	if exec == nil {
		return nil, ErrNotBound
	}
	return exec.Execute(ctx, cmd)
}
