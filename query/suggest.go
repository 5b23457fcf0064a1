package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hugr-lab/groonga-go/attr"
	"github.com/hugr-lab/groonga-go/catalog"
	"github.com/hugr-lab/groonga-go/expr"
)

// kanaColumn is the reading column of item_query.
const kanaColumn = "kana"

// SuggestQuery builds a suggest command against the item table of the
// suggest schema.
type SuggestQuery struct {
	options

	exec        Executor
	table       *catalog.Table
	query       string
	types       attr.SuggestTypes
	frequency   *int
	probability *float64
	prefix      *bool
	similar     *bool
}

// NewSuggest creates a suggest query for text. Types default to complete.
func NewSuggest(exec Executor, table *catalog.Table, text string) *SuggestQuery {
	return &SuggestQuery{
		exec:  exec,
		table: table,
		query: text,
		types: attr.SuggestComplete,
	}
}

// Types sets the suggestion types, for example
// attr.SuggestComplete.Union(attr.SuggestCorrect).
func (q *SuggestQuery) Types(types attr.SuggestTypes) *SuggestQuery {
	q.types = types
	return q
}

// Limit sets --limit.
func (q *SuggestQuery) Limit(n int) *SuggestQuery {
	q.limit = n
	return q
}

// Offset sets --offset.
func (q *SuggestQuery) Offset(n int) *SuggestQuery {
	q.offset = n
	return q
}

// SortBy sets --sortby.
func (q *SuggestQuery) SortBy(keys ...expr.Expression) *SuggestQuery {
	q.sortBy = nodes(keys)
	return q
}

// OutputColumns sets --output_columns.
func (q *SuggestQuery) OutputColumns(cols ...expr.Expression) *SuggestQuery {
	q.outputColumns = nodes(cols)
	return q
}

// FrequencyThreshold sets --frequency_threshold.
func (q *SuggestQuery) FrequencyThreshold(n int) *SuggestQuery {
	q.frequency = &n
	return q
}

// ConditionalProbabilityThreshold sets --conditional_probability_threshold.
// The value is rendered with one decimal.
func (q *SuggestQuery) ConditionalProbabilityThreshold(p float64) *SuggestQuery {
	q.probability = &p
	return q
}

// PrefixSearch sets --prefix_search yes|no.
func (q *SuggestQuery) PrefixSearch(enabled bool) *SuggestQuery {
	q.prefix = &enabled
	return q
}

// SimilarSearch sets --similar_search yes|no.
func (q *SuggestQuery) SimilarSearch(enabled bool) *SuggestQuery {
	q.similar = &enabled
	return q
}

// Command renders the suggest command.
func (q *SuggestQuery) Command() (string, error) {
	if q.table == nil {
		return "", fmt.Errorf("suggest: %w", catalog.ErrInvalidTable)
	}
	kana, err := q.table.Column(kanaColumn)
	if err != nil {
		return "", fmt.Errorf("suggest: %w", err)
	}
	if q.types.IsZero() {
		return "", fmt.Errorf("suggest: no suggestion types")
	}

	parts := []string{
		"suggest",
		"--table", expr.Escape(q.table.Name(), true),
		"--column", expr.Escape(kana.Name(), true),
		"--types", expr.Escape(q.types.String(), true),
	}
	if parts, err = q.options.render(parts); err != nil {
		return "", err
	}
	if q.frequency != nil {
		parts = append(parts, "--frequency_threshold", strconv.Itoa(*q.frequency))
	}
	if q.probability != nil {
		parts = append(parts, "--conditional_probability_threshold", strconv.FormatFloat(*q.probability, 'f', 1, 64))
	}
	if q.prefix != nil {
		parts = append(parts, "--prefix_search", yesNo(*q.prefix))
	}
	if q.similar != nil {
		parts = append(parts, "--similar_search", yesNo(*q.similar))
	}
	parts = append(parts, "--query", expr.Escape(q.query, true))
	return strings.Join(parts, " "), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// String returns the rendered command, or an empty string when the query
// is invalid.
func (q *SuggestQuery) String() string {
	s, _ := q.Command()
	return s
}

// All executes the query and maps every bucket.
func (q *SuggestQuery) All(ctx context.Context) (*SuggestResults, error) {
	cmd, err := q.Command()
	if err != nil {
		return nil, err
	}
	body, err := execute(ctx, q.exec, cmd)
	if err != nil {
		return nil, err
	}
	return mapSuggest(body)
}

// Get executes the query and returns one bucket: complete, correct or
// suggest. Unknown names fail before the command is sent.
func (q *SuggestQuery) Get(ctx context.Context, bucket string) (*Result, error) {
	if _, err := (&SuggestResults{}).Bucket(bucket); err != nil {
		return nil, err
	}
	res, err := q.All(ctx)
	if err != nil {
		return nil, err
	}
	return res.Bucket(bucket)
}
