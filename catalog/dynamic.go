package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hugr-lab/groonga-go/attr"
)

// TableInfo is one row of table_list.
type TableInfo struct {
	ID               int64
	Name             string
	Path             string
	Flags            string
	Domain           string
	Range            string
	DefaultTokenizer string
	Normalizer       string
}

// ColumnInfo is one row of column_list.
type ColumnInfo struct {
	ID     int64
	Name   string
	Path   string
	Type   string
	Flags  string
	Domain string
	Range  string
	Source []string
}

// Lister reads the schema of a live database. The root package
// implements it on top of table_list and column_list.
// Implementations MUST respect context cancellation.
type Lister interface {
	TableList(ctx context.Context) ([]TableInfo, error)
	ColumnList(ctx context.Context, table string) ([]ColumnInfo, error)
}

// Introspect builds a registry describing every table of a live database.
// Flags the client does not know (for example COMPRESS_ZLIB) are dropped,
// and pseudo columns reported by column_list are skipped.
func Introspect(ctx context.Context, l Lister) (*Base, error) {
	tables, err := l.TableList(ctx)
	if err != nil {
		return nil, fmt.Errorf("table_list: %w", err)
	}

	base := NewBase("introspected")
	for _, ti := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cols, err := l.ColumnList(ctx, ti.Name)
		if err != nil {
			return nil, fmt.Errorf("column_list %s: %w", ti.Name, err)
		}
		if _, err := tableFromInfo(base, ti, cols); err != nil {
			return nil, err
		}
	}
	return base, nil
}

func tableFromInfo(base *Base, ti TableInfo, cols []ColumnInfo) (*Table, error) {
	tb := base.Table(ti.Name).Flags(knownFlags[attr.TableKind](ti.Flags, attr.TableHashKey))
	if !tb.flags.ContainsAll(attr.TableNoKey) && ti.Domain != "" {
		tb.keyType = ParseTypeRef(ti.Domain)
		tb.keySet = true
	}
	if ti.DefaultTokenizer != "" {
		tb.DefaultTokenizer(attr.Tokenizer(ti.DefaultTokenizer))
	}
	if ti.Normalizer != "" {
		tb.Normalizer(attr.Normalizer(ti.Normalizer))
	}

	for _, ci := range cols {
		if isPseudoName(ci.Name) || ci.Name == "" {
			continue
		}
		opts := []ColumnOption{WithFlags(knownFlags[attr.ColumnKind](ci.Flags, attr.ColumnScalar))}
		if len(ci.Source) > 0 {
			src := make([]string, len(ci.Source))
			for i, s := range ci.Source {
				if s == ci.Range {
					src[i] = ColumnKey
					continue
				}
				src[i] = strings.TrimPrefix(s, ci.Range+".")
			}
			opts = append(opts, WithSource(src...))
		}
		tb.Column(newColumn(ci.Name, ParseTypeRef(ci.Range), opts))
	}
	return tb.Define()
}

// knownFlags keeps the members of K found in s, returning def when none are.
func knownFlags[K attr.Kind](s string, def attr.Flags[K]) attr.Flags[K] {
	var kind K
	members := kind.Members()
	var syms []attr.Symbol
	for _, part := range strings.Split(s, "|") {
		sym := attr.Symbol(strings.TrimSpace(part))
		if sym == "PERSISTENT" {
			continue
		}
		if slices.Contains(members, sym) {
			syms = append(syms, sym)
		}
	}
	if len(syms) == 0 {
		return def
	}
	return attr.NewFlags[K](syms...)
}

// TableInfoFromMap converts a table_list row keyed by header names.
func TableInfoFromMap(m map[string]any) TableInfo {
	return TableInfo{
		ID:               toInt64(m["id"]),
		Name:             toString(m["name"]),
		Path:             toString(m["path"]),
		Flags:            toString(m["flags"]),
		Domain:           toString(m["domain"]),
		Range:            toString(m["range"]),
		DefaultTokenizer: toString(m["default_tokenizer"]),
		Normalizer:       toString(m["normalizer"]),
	}
}

// ColumnInfoFromMap converts a column_list row keyed by header names.
func ColumnInfoFromMap(m map[string]any) ColumnInfo {
	ci := ColumnInfo{
		ID:     toInt64(m["id"]),
		Name:   toString(m["name"]),
		Path:   toString(m["path"]),
		Type:   toString(m["type"]),
		Flags:  toString(m["flags"]),
		Domain: toString(m["domain"]),
		Range:  toString(m["range"]),
	}
	switch src := m["source"].(type) {
	case []any:
		for _, s := range src {
			if str := toString(s); str != "" {
				ci.Source = append(ci.Source, str)
			}
		}
	case string:
		if src != "" {
			ci.Source = strings.Split(src, ",")
		}
	}
	return ci
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float64:
		return int64(n)
	case interface{ Int64() (int64, error) }:
		i, _ := n.Int64()
		return i
	}
	return 0
}
