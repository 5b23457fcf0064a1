package attr

import (
	"errors"
	"testing"
)

func TestFlagsString(t *testing.T) {
	tests := []struct {
		name     string
		flags    TableFlags
		expected string
	}{
		{"single", TableHashKey, "TABLE_HASH_KEY"},
		{"union", TableHashKey.Union(Persistent), "TABLE_HASH_KEY|PERSISTENT"},
		{"union keeps first occurrence", TablePatKey.Union(KeyNormalize).Union(TablePatKey), "TABLE_PAT_KEY|KEY_NORMALIZE"},
		{"empty", TableFlags{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.flags.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFlagsContainsAll(t *testing.T) {
	a := ColumnIndex.Union(WithPosition)
	b := ColumnIndex.Union(WithSection)

	if !a.ContainsAll(a) {
		t.Error("a set must contain itself")
	}
	if !a.ContainsAll(ColumnIndex) {
		t.Error("expected COLUMN_INDEX|WITH_POSITION to contain COLUMN_INDEX")
	}
	if a.ContainsAll(b) {
		t.Error("expected COLUMN_INDEX|WITH_POSITION not to contain WITH_SECTION")
	}

	u := a.Union(b)
	if !u.ContainsAll(a) || !u.ContainsAll(b) {
		t.Errorf("union %s must contain both operands", u)
	}
	if a.String() != "COLUMN_INDEX|WITH_POSITION" {
		t.Errorf("union must not modify its receiver, got %s", a)
	}
}

func TestFlagsOf(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    string
		wantErr bool
	}{
		{"symbol", Symbol("TABLE_NO_KEY"), "TABLE_NO_KEY", false},
		{"symbol list", []Symbol{"TABLE_PAT_KEY", "KEY_WITH_SIS"}, "TABLE_PAT_KEY|KEY_WITH_SIS", false},
		{"flag set", TableDatKey, "TABLE_DAT_KEY", false},
		{"bare string", "TABLE_HASH_KEY", "", true},
		{"int", 1, "", true},
		{"other family set", ColumnScalar, "", true},
		{"unknown symbol", Symbol("COLUMN_SCALAR"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FlagsOf[TableKind](tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrFlagsType) {
					t.Fatalf("expected ErrFlagsType, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("FlagsOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	f, err := ParseColumnFlags("COLUMN_INDEX | WITH_POSITION")
	if err != nil {
		t.Fatalf("ParseColumnFlags failed: %v", err)
	}
	if !f.ContainsAll(ColumnIndex.Union(WithPosition)) {
		t.Errorf("unexpected flags %s", f)
	}

	if _, err := ParseTableFlags("TABLE_HASH_KEY|COLUMN_SCALAR"); err == nil {
		t.Error("expected error for column flag in table flags")
	}
	if _, err := ParseSuggestTypes(""); err == nil {
		t.Error("expected error for empty suggest types")
	}

	st, err := ParseSuggestTypes("complete|correct")
	if err != nil {
		t.Fatalf("ParseSuggestTypes failed: %v", err)
	}
	if st.String() != SuggestComplete.Union(SuggestCorrect).String() {
		t.Errorf("unexpected suggest types %s", st)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"EMERG":     LogEmerg,
		"EMERGENCY": LogEmerg,
		"critical":  LogCrit,
		"WARNING":   LogWarning,
		"debug":     LogDebug,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		if err != nil {
			t.Errorf("ParseLogLevel(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestParseDataType(t *testing.T) {
	if dt, ok := ParseDataType("WGS84GeoPoint"); !ok || !dt.IsGeo() {
		t.Errorf("expected geo type, got %s %v", dt, ok)
	}
	if _, ok := ParseDataType("Entries"); ok {
		t.Error("table names are not builtin types")
	}
	if !UInt32.IsNumeric() || ShortText.IsNumeric() {
		t.Error("unexpected IsNumeric result")
	}
}
