package query

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/hugr-lab/groonga-go/catalog"
	"github.com/hugr-lab/groonga-go/expr"
)

// SelectQuery builds a select command against one table.
// Methods modify the query in place and return it for chaining.
// Rendering has no side effects, so All can be called repeatedly.
type SelectQuery struct {
	options

	exec         Executor
	table        *catalog.Table
	matchColumns []*expr.Node
	queries      []*expr.Node
	terms        map[string]string
	filters      []*expr.Node
	filterMatch  map[string]any
	cache        bool
	escalation   *int
	err          error
}

// NewSelect creates a select query on table.
func NewSelect(exec Executor, table *catalog.Table) *SelectQuery {
	return &SelectQuery{
		exec:        exec,
		table:       table,
		terms:       make(map[string]string),
		filterMatch: make(map[string]any),
		cache:       true,
	}
}

func (q *SelectQuery) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}

// Table returns the queried table.
func (q *SelectQuery) Table() *catalog.Table { return q.table }

// MatchColumns adds match columns. Columns combine with Or and carry
// weights set with Weighted:
//
//	q.MatchColumns(title.Weighted(10).Or(body))
func (q *SelectQuery) MatchColumns(cols ...expr.Expression) *SelectQuery {
	q.matchColumns = append(q.matchColumns, nodes(cols)...)
	return q
}

// Query adds query expressions rendered in the query syntax and joined with OR.
func (q *SelectQuery) Query(exprs ...expr.Expression) *SelectQuery {
	q.queries = append(q.queries, nodes(exprs)...)
	return q
}

// Term adds a column:@text condition to --query. Terms are sorted by column
// and OR-ed together.
func (q *SelectQuery) Term(column any, text string) *SelectQuery {
	name, err := columnName(column)
	if err == nil {
		err = checkColumn(q.table, name)
	}
	if err != nil {
		q.fail(fmt.Errorf("term: %w", err))
		return q
	}
	q.terms[name] = text
	return q
}

// Filter adds filter expressions, joined with ||.
func (q *SelectQuery) Filter(exprs ...expr.Expression) *SelectQuery {
	q.filters = append(q.filters, nodes(exprs)...)
	return q
}

// FilterMatch adds a column @ value filter. Matches are sorted by column and
// rendered after the expressions given to Filter.
func (q *SelectQuery) FilterMatch(column any, value any) *SelectQuery {
	name, err := columnName(column)
	if err == nil {
		err = checkColumn(q.table, name)
	}
	if err != nil {
		q.fail(fmt.Errorf("filter: %w", err))
		return q
	}
	q.filterMatch[name] = value
	return q
}

// Cache enables or disables the query cache. The cache is enabled by default.
func (q *SelectQuery) Cache(enabled bool) *SelectQuery {
	q.cache = enabled
	return q
}

// MatchEscalationThreshold sets --match_escalation_threshold.
func (q *SelectQuery) MatchEscalationThreshold(n int) *SelectQuery {
	q.escalation = &n
	return q
}

// Limit sets the maximum number of returned records.
func (q *SelectQuery) Limit(n int) *SelectQuery {
	q.limit = n
	return q
}

// Offset sets the number of records to skip.
func (q *SelectQuery) Offset(n int) *SelectQuery {
	q.offset = n
	return q
}

// SortBy sets the sort keys. Use Desc on a column for descending order.
func (q *SelectQuery) SortBy(keys ...expr.Expression) *SelectQuery {
	q.sortBy = nodes(keys)
	return q
}

// OutputColumns restricts the returned columns.
func (q *SelectQuery) OutputColumns(cols ...expr.Expression) *SelectQuery {
	q.outputColumns = nodes(cols)
	return q
}

// Drilldown returns a drilldown over columns appended to this query.
func (q *SelectQuery) Drilldown(columns ...any) *DrillDownQuery {
	d := &DrillDownQuery{parent: q, options: options{prefix: "drilldown_"}}
	for _, c := range columns {
		name, err := columnName(c)
		if err == nil {
			err = checkColumn(q.table, name)
		}
		if err != nil {
			d.fail(fmt.Errorf("drilldown: %w", err))
			continue
		}
		d.columns = append(d.columns, name)
	}
	return d
}

// Command renders the select command.
func (q *SelectQuery) Command() (string, error) {
	if q.err != nil {
		return "", q.err
	}
	if q.table == nil {
		return "", fmt.Errorf("select: %w", catalog.ErrInvalidTable)
	}

	parts := []string{"select", "--table", q.table.Name()}

	if len(q.matchColumns) > 0 {
		mc, err := expr.MatchColumns.Join(expr.OpOr, exprs(q.matchColumns)...)
		if err != nil {
			return "", fmt.Errorf("match columns: %w", err)
		}
		parts = append(parts, "--match_columns", expr.Escape(mc, true))
	}

	parts, err := q.options.render(parts)
	if err != nil {
		return "", err
	}

	if !q.cache {
		parts = append(parts, "--cache", "no")
	}
	if q.escalation != nil {
		parts = append(parts, "--match_escalation_threshold", strconv.Itoa(*q.escalation))
	}

	query, err := q.queryValue()
	if err != nil {
		return "", fmt.Errorf("query: %w", err)
	}
	if query != "" {
		parts = append(parts, "--query", expr.Escape(query, true))
	}

	filter, err := q.filterValue()
	if err != nil {
		return "", fmt.Errorf("filter: %w", err)
	}
	if filter != "" {
		parts = append(parts, "--filter", expr.Escape(filter, true))
	}

	return strings.Join(parts, " "), nil
}

// queryValue renders (c1:@"t1" OR c2:@"t2") + e1 OR e2.
func (q *SelectQuery) queryValue() (string, error) {
	var sb strings.Builder
	if len(q.terms) > 0 {
		terms := make([]string, 0, len(q.terms))
		for _, name := range slices.Sorted(maps.Keys(q.terms)) {
			terms = append(terms, name+":@"+expr.Escape(q.terms[name], true))
		}
		sb.WriteString("(" + strings.Join(terms, " OR ") + ")")
	}
	if len(q.queries) > 0 {
		if sb.Len() > 0 {
			tok, _ := expr.Query.Token(expr.OpBitAnd)
			sb.WriteString(tok)
		}
		s, err := expr.Query.Join(expr.OpBitOr, exprs(q.queries)...)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func (q *SelectQuery) filterValue() (string, error) {
	all := exprs(q.filters)
	for _, name := range slices.Sorted(maps.Keys(q.filterMatch)) {
		all = append(all, expr.Col(name).Match(q.filterMatch[name]))
	}
	if len(all) == 0 {
		return "", nil
	}
	return expr.Filter.Join(expr.OpOr, all...)
}

// String returns the rendered command, or an empty string when the query
// is invalid.
func (q *SelectQuery) String() string {
	s, _ := q.Command()
	return s
}

// All executes the query and maps the first result set to records.
func (q *SelectQuery) All(ctx context.Context) (*SelectResult, error) {
	cmd, err := q.Command()
	if err != nil {
		return nil, err
	}
	body, err := execute(ctx, q.exec, cmd)
	if err != nil {
		return nil, err
	}
	return mapSelect(q.exec, q.table, body, q.outputNames(), nil)
}

// outputNames returns the header names the server uses for the requested
// output columns: the name of columns and column paths, the function name
// of calls.
func (q *SelectQuery) outputNames() []string {
	var names []string
	for _, n := range q.outputColumns {
		switch n.Kind() {
		case expr.KindColumn, expr.KindCall:
			names = append(names, n.Name())
		default:
			if s, err := outputColumn(n); err == nil {
				names = append(names, s)
			}
		}
	}
	return names
}

// DrillDownQuery appends a drilldown to a select query.
type DrillDownQuery struct {
	options

	parent  *SelectQuery
	columns []string
	err     error
}

func (d *DrillDownQuery) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// Limit sets --drilldown_limit.
func (d *DrillDownQuery) Limit(n int) *DrillDownQuery {
	d.limit = n
	return d
}

// Offset sets --drilldown_offset.
func (d *DrillDownQuery) Offset(n int) *DrillDownQuery {
	d.offset = n
	return d
}

// SortBy sets --drilldown_sortby. Drilldown results sort by _key or _nsubrecs.
func (d *DrillDownQuery) SortBy(keys ...expr.Expression) *DrillDownQuery {
	d.sortBy = nodes(keys)
	return d
}

// OutputColumns sets --drilldown_output_columns.
func (d *DrillDownQuery) OutputColumns(cols ...expr.Expression) *DrillDownQuery {
	d.outputColumns = nodes(cols)
	return d
}

// Columns returns the drilldown column names.
func (d *DrillDownQuery) Columns() []string { return slices.Clone(d.columns) }

// Command renders the parent select followed by the drilldown options.
func (d *DrillDownQuery) Command() (string, error) {
	if d.err != nil {
		return "", d.err
	}
	if len(d.columns) == 0 {
		return "", ErrNoDrilldownColumns
	}
	parent, err := d.parent.Command()
	if err != nil {
		return "", err
	}
	parts, err := d.options.render([]string{parent})
	if err != nil {
		return "", fmt.Errorf("drilldown: %w", err)
	}
	parts = append(parts, "--drilldown", strings.Join(d.columns, ","))
	return strings.Join(parts, " "), nil
}

// String returns the rendered command, or an empty string when the query
// is invalid.
func (d *DrillDownQuery) String() string {
	s, _ := d.Command()
	return s
}

// All executes the query. The result holds one drilldown per column.
func (d *DrillDownQuery) All(ctx context.Context) (*SelectResult, error) {
	cmd, err := d.Command()
	if err != nil {
		return nil, err
	}
	body, err := execute(ctx, d.parent.exec, cmd)
	if err != nil {
		return nil, err
	}
	return mapSelect(d.parent.exec, d.parent.table, body, d.parent.outputNames(), d.columns)
}

func exprs(ns []*expr.Node) []expr.Expression {
	out := make([]expr.Expression, len(ns))
	for i, n := range ns {
		out[i] = n
	}
	return out
}
