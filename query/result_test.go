package query

import (
	"errors"
	"slices"
	"testing"
)

func TestMapResult(t *testing.T) {
	raw := []any{
		[]any{int64(5)},
		[]any{[]any{"_key", "ShortText"}, []any{"score", "Int32"}},
		[]any{"a", int64(1)},
		[]any{"b", int64(2)},
		[]any{"c"},
	}

	t.Run("without table", func(t *testing.T) {
		res, err := MapResult(nil, raw, 1)
		if err != nil {
			t.Fatalf("MapResult failed: %v", err)
		}
		if res.AllLength() != 5 || res.Len() != 3 {
			t.Errorf("AllLength() = %d, Len() = %d", res.AllLength(), res.Len())
		}
		cols := res.Columns()
		if len(cols) != 2 || cols[1] != (ResultColumn{Name: "score", Type: "Int32"}) {
			t.Errorf("Columns() = %+v", cols)
		}
		// short rows leave trailing fields unset
		if _, err := res.At(2).Get("score"); err != nil {
			t.Errorf("Get(score) on a short row: %v", err)
		}
	})

	t.Run("max len", func(t *testing.T) {
		res, err := MapResult(nil, raw, 1, WithMaxLen(1))
		if err != nil {
			t.Fatalf("MapResult failed: %v", err)
		}
		var keys []any
		for _, r := range res.All() {
			keys = append(keys, r.Key())
		}
		if !slices.Equal(keys, []any{"a"}) || res.AllLength() != 5 {
			t.Errorf("keys = %v, AllLength() = %d", keys, res.AllLength())
		}
	})

	t.Run("invalid shapes", func(t *testing.T) {
		tests := []struct {
			name string
			raw  any
		}{
			{"not an array", "oops"},
			{"no header", []any{[]any{int64(0)}}},
			{"header not an array", []any{[]any{int64(0)}, "x"}},
			{"bad column", []any{[]any{int64(0)}, []any{"x"}}},
			{"bad row", []any{[]any{int64(0)}, []any{[]any{"_key"}}, "row"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := MapResult(nil, tt.raw, 1); !errors.Is(err, ErrUnexpectedResult) {
					t.Errorf("expected ErrUnexpectedResult, got %v", err)
				}
			})
		}
	})
}
