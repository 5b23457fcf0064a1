package query

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/paulmach/orb"

	"github.com/hugr-lab/groonga-go/attr"
	"github.com/hugr-lab/groonga-go/catalog"
	"github.com/hugr-lab/groonga-go/codec"
	"github.com/hugr-lab/groonga-go/expr"
)

// Record is one row of a table. Field names are checked against the table
// on construction and on Set; records of drilldown and suggest results
// have no table and accept any name.
type Record struct {
	exec   Executor
	table  *catalog.Table
	fields map[string]any
	dirty  bool
}

// NewRecord creates a record of table holding a copy of fields. New
// records are dirty, so Commit loads them.
func NewRecord(table *catalog.Table, fields map[string]any) (*Record, error) {
	r, err := newRecord(nil, table, maps.Clone(fields))
	if err != nil {
		return nil, err
	}
	r.dirty = true
	return r, nil
}

func newRecord(exec Executor, table *catalog.Table, fields map[string]any) (*Record, error) {
	for name := range fields {
		if err := checkColumn(table, name); err != nil {
			return nil, err
		}
	}
	if fields == nil {
		fields = make(map[string]any)
	}
	return &Record{exec: exec, table: table, fields: fields}, nil
}

// Bind attaches the executor used by Commit and Delete.
func (r *Record) Bind(exec Executor) *Record {
	r.exec = exec
	return r
}

// Table returns the record's table; nil for drilldown and suggest records.
func (r *Record) Table() *catalog.Table { return r.table }

// Dirty reports whether the record changed since it was loaded.
func (r *Record) Dirty() bool { return r.dirty }

// Names returns the field names in sorted order.
func (r *Record) Names() []string {
	return slices.Sorted(maps.Keys(r.fields))
}

// Get returns a field value. Declared columns missing from the result,
// for example because of output_columns, return nil. Mapped fields that
// are not table columns, such as function output columns, are returned
// as is.
func (r *Record) Get(name string) (any, error) {
	if v, ok := r.fields[name]; ok {
		return v, nil
	}
	if err := checkColumn(r.table, name); err != nil {
		return nil, err
	}
	return r.fields[name], nil
}

// Set assigns a field and marks the record dirty.
func (r *Record) Set(name string, value any) error {
	if err := checkColumn(r.table, name); err != nil {
		return err
	}
	r.fields[name] = value
	r.dirty = true
	return nil
}

// ID returns the _id field.
func (r *Record) ID() (int64, bool) {
	return codec.Int64(r.fields[catalog.ColumnID])
}

// Key returns the _key field.
func (r *Record) Key() any { return r.fields[catalog.ColumnKey] }

// Score returns the _score field.
func (r *Record) Score() (float64, bool) {
	return codec.Float64(r.fields[catalog.ColumnScore])
}

// NSubRecs returns the _nsubrecs field of drilldown records.
func (r *Record) NSubRecs() (int64, bool) {
	return codec.Int64(r.fields[catalog.ColumnNSubRecs])
}

// AsMap returns a copy of the fields without the excluded names.
func (r *Record) AsMap(excludes ...string) map[string]any {
	m := maps.Clone(r.fields)
	if m == nil {
		m = make(map[string]any)
	}
	for _, name := range excludes {
		delete(m, name)
	}
	return m
}

// loadValues returns the fields as sent to load: without _id and _score,
// times as float seconds and geo points as "<lat>x<lng>".
func (r *Record) loadValues() map[string]any {
	m := r.AsMap(catalog.ColumnID, catalog.ColumnScore)
	for k, v := range m {
		switch t := v.(type) {
		case time.Time:
			m[k] = float64(t.UnixNano()) / 1e9
		case *time.Time:
			if t != nil {
				m[k] = float64(t.UnixNano()) / 1e9
			}
		case orb.Point:
			m[k] = expr.FormatGeoPoint(t)
		case *orb.Point:
			if t != nil {
				m[k] = expr.FormatGeoPoint(*t)
			}
		}
	}
	return m
}

// Commit loads the record when it is dirty and returns the number of
// loaded records. Clean records are not sent and return 0.
func (r *Record) Commit(ctx context.Context) (int64, error) {
	if !r.dirty {
		return 0, nil
	}
	if r.table == nil {
		return 0, fmt.Errorf("commit: %w", catalog.ErrInvalidTable)
	}
	n, err := NewLoad(r.exec, r.table, r).Commit(ctx)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes the record by _id.
func (r *Record) Delete(ctx context.Context) (bool, error) {
	if r.table == nil {
		return false, fmt.Errorf("delete: %w", catalog.ErrInvalidTable)
	}
	id, ok := r.ID()
	if !ok {
		return false, &catalog.SchemaError{Table: r.table.Name(), Column: catalog.ColumnID, Err: catalog.ErrUnknownColumn}
	}
	return NewSimple(r.exec, r.table).Delete(DeleteOptions{ID: uint64(id)}).ExecuteBool(ctx)
}

// Field returns a field converted to T. Supported targets are string,
// bool, int, int64, uint64, float64, time.Time, catalog.GeoPoint, []string
// and any. A missing or null field yields the zero value.
func Field[T any](r *Record, name string) (T, error) {
	var zero T
	v, err := r.Get(name)
	if err != nil || v == nil {
		return zero, err
	}
	if t, ok := v.(T); ok {
		return t, nil
	}

	var out any
	var ok bool
	switch any(zero).(type) {
	case string:
		out, ok = codec.String(v)
	case bool:
		out, ok = codec.Bool(v)
	case int64:
		out, ok = codec.Int64(v)
	case int:
		var n int64
		n, ok = codec.Int64(v)
		out = int(n)
	case uint64:
		switch n := v.(type) {
		case uint64:
			out, ok = n, true
		default:
			var i int64
			i, ok = codec.Int64(v)
			ok = ok && i >= 0
			out = uint64(i)
		}
	case float64:
		out, ok = codec.Float64(v)
	case time.Time:
		var sec float64
		if sec, ok = codec.Float64(v); ok {
			out = time.Unix(0, int64(sec*1e9))
		}
	case catalog.GeoPoint:
		out, ok = geoField(r, name, v)
	case []string:
		var list []any
		if list, ok = v.([]any); ok {
			strs := make([]string, len(list))
			for i, e := range list {
				strs[i], _ = codec.String(e)
			}
			out = strs
		}
	}
	if !ok {
		return zero, fmt.Errorf("field %s: cannot convert %T to %T", name, v, zero)
	}
	return out.(T), nil
}

func geoField(r *Record, name string, v any) (any, bool) {
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	datum := attr.WGS84GeoPoint
	if r.table != nil {
		if c, err := r.table.Column(name); err == nil && c.Type().DataType().IsGeo() {
			datum = c.Type().DataType()
		}
	}
	p, err := catalog.ParseGeoPoint(s, datum)
	if err != nil {
		return nil, false
	}
	return p, true
}

func (r *Record) String() string {
	name := "record"
	if r.table != nil {
		name = r.table.Name()
	}
	if id, ok := r.ID(); ok {
		return name + "#" + strconv.FormatInt(id, 10)
	}
	return name + "{}"
}
