package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hugr-lab/groonga-go/catalog"
	"github.com/hugr-lab/groonga-go/expr"
	"github.com/hugr-lab/groonga-go/query"
)

type selectFlags struct {
	table         string
	matchColumns  []string
	query         string
	terms         []string
	filters       []string
	filterJSON    string
	limit         int
	offset        int
	sortBy        []string
	outputColumns []string
	drilldown     []string
	dryRun        bool
}

type selectOutput struct {
	NHits      int64                       `json:"n_hits"`
	Records    []map[string]any            `json:"records"`
	Drilldowns map[string][]map[string]any `json:"drilldowns,omitempty"`
}

func newSelectCmd(a *app) *cobra.Command {
	var f selectFlags

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Run a select built from flags",
		Long: `Builds a select against a table of the live database. Column names are
checked against table_list and column_list before anything is sent.

  grnq select --table Entry --term title=groonga --sortby -likes --limit 5
  grnq select --table Entry --filter-json '{"kind":"binary","op":"GREATER_THAN",
      "left":{"kind":"column","name":"likes"},"right":{"kind":"value","value":10}}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := cmd.Context()
			base, err := catalog.Introspect(ctx, client)
			if err != nil {
				return err
			}
			table, ok := base.Lookup(f.table)
			if !ok {
				return &catalog.SchemaError{Table: f.table, Err: catalog.ErrInvalidTable}
			}

			q, err := buildSelect(query.NewSelect(client, table), table, f)
			if err != nil {
				return err
			}
			var run selectRunner = q
			if len(f.drilldown) > 0 {
				cols := make([]any, len(f.drilldown))
				for i, c := range f.drilldown {
					cols[i] = c
				}
				run = q.Drilldown(cols...)
			}
			if f.dryRun {
				command, err := run.Command()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), command)
				return err
			}

			res, err := run.All(ctx)
			if err != nil {
				return err
			}
			return writeJSON(cmd, newSelectOutput(res, f.drilldown))
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.table, "table", "", "table to select from")
	fl.StringSliceVar(&f.matchColumns, "match-columns", nil, "columns searched by --query")
	fl.StringVar(&f.query, "query", "", "search term matched against --match-columns")
	fl.StringArrayVar(&f.terms, "term", nil, "column=text full text condition (repeatable)")
	fl.StringArrayVar(&f.filters, "filter", nil, "column=value match filter (repeatable)")
	fl.StringVar(&f.filterJSON, "filter-json", "", "filter expression tree as JSON")
	fl.IntVar(&f.limit, "limit", 0, "maximum number of records")
	fl.IntVar(&f.offset, "offset", 0, "records to skip")
	fl.StringSliceVar(&f.sortBy, "sortby", nil, "sort keys, prefix with - for descending")
	fl.StringSliceVar(&f.outputColumns, "output-columns", nil, "columns to return")
	fl.StringSliceVar(&f.drilldown, "drilldown", nil, "columns to drill down on")
	fl.BoolVar(&f.dryRun, "dry-run", false, "print the command instead of sending it")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func buildSelect(q *query.SelectQuery, table *catalog.Table, f selectFlags) (*query.SelectQuery, error) {
	columns := func(names []string) ([]expr.Expression, error) {
		out := make([]expr.Expression, 0, len(names))
		for _, name := range names {
			col, err := table.Column(name)
			if err != nil {
				return nil, err
			}
			out = append(out, col)
		}
		return out, nil
	}

	if len(f.matchColumns) > 0 {
		cols, err := columns(f.matchColumns)
		if err != nil {
			return nil, err
		}
		q.MatchColumns(cols...)
	}
	if f.query != "" {
		if len(f.matchColumns) == 0 {
			return nil, errors.New("--query requires --match-columns")
		}
		q.Query(expr.Value(f.query))
	}
	for _, t := range f.terms {
		col, text, err := splitPair(t)
		if err != nil {
			return nil, fmt.Errorf("--term: %w", err)
		}
		q.Term(col, text)
	}
	for _, m := range f.filters {
		col, value, err := splitPair(m)
		if err != nil {
			return nil, fmt.Errorf("--filter: %w", err)
		}
		q.FilterMatch(col, value)
	}
	if f.filterJSON != "" {
		n, err := expr.ParseJSON([]byte(f.filterJSON))
		if err != nil {
			return nil, fmt.Errorf("--filter-json: %w", err)
		}
		q.Filter(n)
	}
	if f.limit > 0 {
		q.Limit(f.limit)
	}
	if f.offset > 0 {
		q.Offset(f.offset)
	}
	if len(f.sortBy) > 0 {
		keys := make([]expr.Expression, 0, len(f.sortBy))
		for _, s := range f.sortBy {
			name, desc := strings.CutPrefix(s, "-")
			col, err := table.Column(name)
			if err != nil {
				return nil, err
			}
			if desc {
				keys = append(keys, col.Desc())
			} else {
				keys = append(keys, col)
			}
		}
		q.SortBy(keys...)
	}
	if len(f.outputColumns) > 0 {
		cols, err := columns(f.outputColumns)
		if err != nil {
			return nil, err
		}
		q.OutputColumns(cols...)
	}
	return q, nil
}

// selectRunner is a select with or without a drilldown.
type selectRunner interface {
	Command() (string, error)
	All(ctx context.Context) (*query.SelectResult, error)
}

func splitPair(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("expected column=value, got %q", s)
	}
	return k, v, nil
}

func newSelectOutput(res *query.SelectResult, drilldown []string) selectOutput {
	out := selectOutput{
		NHits:   res.AllLength(),
		Records: recordMaps(res.Result),
	}
	for _, col := range drilldown {
		d, ok := res.Drilldown(col)
		if !ok {
			continue
		}
		if out.Drilldowns == nil {
			out.Drilldowns = make(map[string][]map[string]any)
		}
		out.Drilldowns[col] = recordMaps(d)
	}
	return out
}

func recordMaps(r *query.Result) []map[string]any {
	maps := make([]map[string]any, 0, r.Len())
	for _, rec := range r.All() {
		maps = append(maps, rec.AsMap())
	}
	return maps
}
