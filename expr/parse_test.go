package expr

import (
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
)

func TestJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		expr *Node
	}{
		{"comparison", Col("title").Eq("Groonga").Or(Col("n_likes").Ge(10))},
		{"unary", Not(Col("deleted").Eq(true))},
		{"time", Col("updated").Lt(time.Date(2020, 1, 2, 3, 4, 5, 6000, time.UTC))},
		{"call", GeoInCircle(Col("location"), orb.Point{139.7671, 35.6812}, 1000)},
		{"float and null", Col("score").Gt(0.5).And(Col("memo").Ne(nil))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := Filter.Render(tt.expr)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}

			data, err := tt.expr.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON failed: %v", err)
			}

			parsed, err := ParseJSON(data)
			if err != nil {
				t.Fatalf("ParseJSON(%s) failed: %v", data, err)
			}

			got, err := Filter.Render(parsed)
			if err != nil {
				t.Fatalf("Render of parsed tree failed: %v", err)
			}
			if got != want {
				t.Errorf("parsed tree renders %s, want %s", got, want)
			}
		})
	}
}

func TestParseJSONNumbers(t *testing.T) {
	n, err := ParseJSON([]byte(`{"kind":"binary","op":"EQUAL","left":{"kind":"column","name":"n"},"right":{"kind":"value","value":42}}`))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	if v, ok := n.Right().Value().(int64); !ok || v != 42 {
		t.Errorf("expected int64 42, got %T %v", n.Right().Value(), n.Right().Value())
	}
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"invalid json", `{`, "invalid node"},
		{"unknown kind", `{"kind":"lambda"}`, "unknown node kind"},
		{"unknown operator", `{"kind":"binary","op":"LIKE","left":{"kind":"column","name":"a"},"right":{"kind":"value","value":1}}`, "unknown operator"},
		{"missing right", `{"kind":"unary","op":"NOT"}`, "without right operand"},
		{"missing left", `{"kind":"binary","op":"EQUAL","right":{"kind":"value","value":1}}`, "without left operand"},
		{"column without name", `{"kind":"column"}`, "column node without name"},
		{"bad time", `{"kind":"value","type":"time","value":"yesterday"}`, "invalid time value"},
		{"unknown value type", `{"kind":"value","type":"blob","value":"x"}`, "unknown value type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}
