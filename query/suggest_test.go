package query

import (
	"context"
	"errors"
	"testing"

	"github.com/hugr-lab/groonga-go/attr"
	"github.com/hugr-lab/groonga-go/catalog"
)

func itemQuery(t *testing.T) *catalog.Table {
	t.Helper()
	item, ok := catalog.NewSuggestBase().Lookup(catalog.SuggestItemQuery)
	if !ok {
		t.Fatal("item_query not defined")
	}
	return item
}

func TestSuggestCommand(t *testing.T) {
	item := itemQuery(t)

	tests := []struct {
		name  string
		query *SuggestQuery
		want  string
	}{
		{
			name:  "defaults",
			query: NewSuggest(nil, item, "en"),
			want:  `suggest --table "item_query" --column "kana" --types "complete" --query "en"`,
		},
		{
			name: "all options",
			query: NewSuggest(nil, item, "search engine").
				Types(attr.SuggestComplete.Union(attr.SuggestCorrect)).
				Limit(3).
				SortBy(item.MustColumn("freq").Desc()).
				FrequencyThreshold(100).
				ConditionalProbabilityThreshold(0.34).
				PrefixSearch(true).
				SimilarSearch(false),
			want: `suggest --table "item_query" --column "kana" --types "complete|correct" --limit 3 --sortby -freq` +
				` --frequency_threshold 100 --conditional_probability_threshold 0.3 --prefix_search yes --similar_search no` +
				` --query "search engine"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.query.Command()
			if err != nil {
				t.Fatalf("Command failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Command() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}

	// arguments use the command escapes, which leave control characters as is
	odd, err := catalog.NewBase("test").Table("items\tja").
		Column(catalog.NewColumn("kana", attr.ShortText)).
		Define()
	if err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	want := "suggest --table \"items\tja\" --column \"kana\" --types \"complete\" --query \"a\\\\b\""
	if got, _ := NewSuggest(nil, odd, `a\b`).Command(); got != want {
		t.Errorf("Command() = %q, want %q", got, want)
	}

	if _, err := NewSuggest(nil, defineSite(t), "x").Command(); !errors.Is(err, catalog.ErrUnknownColumn) {
		t.Errorf("expected ErrUnknownColumn for a table without kana, got %v", err)
	}
}

func TestSuggestAll(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{body: map[string]any{
		"complete": []any{
			[]any{int64(2)},
			[]any{[]any{"_key", "ShortText"}, []any{"_score", "Int32"}},
			[]any{"engine", int64(3)},
			[]any{"english", int64(1)},
		},
	}}

	res, err := NewSuggest(rec, itemQuery(t), "en").All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if res.Complete.Len() != 2 || res.Correct.Len() != 0 || res.Suggest.Len() != 0 {
		t.Errorf("bucket sizes %d %d %d", res.Complete.Len(), res.Correct.Len(), res.Suggest.Len())
	}

	complete, err := NewSuggest(rec, itemQuery(t), "en").Get(ctx, "complete")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if complete.At(0).Key() != "engine" {
		t.Errorf("first key = %v", complete.At(0).Key())
	}
	if s, ok := complete.At(0).Score(); !ok || s != 3 {
		t.Errorf("Score() = %v, %v", s, ok)
	}

	sent := len(rec.commands)
	if _, err := NewSuggest(rec, itemQuery(t), "en").Get(ctx, "bogus"); !errors.Is(err, ErrUnknownBucket) {
		t.Errorf("expected ErrUnknownBucket, got %v", err)
	}
	if len(rec.commands) != sent {
		t.Error("unknown bucket must fail before sending")
	}

	rec.body = []any{}
	if _, err := NewSuggest(rec, itemQuery(t), "en").All(ctx); !errors.Is(err, ErrUnexpectedResult) {
		t.Errorf("expected ErrUnexpectedResult, got %v", err)
	}
}
