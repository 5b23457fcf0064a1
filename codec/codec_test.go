package codec

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/groonga-go/attr"
	"github.com/hugr-lab/groonga-go/catalog"
	"github.com/hugr-lab/groonga-go/internal/msgpack"
	"github.com/hugr-lab/groonga-go/rc"
)

const selectBody = `[[[2],[["_id","UInt32"],["_key","ShortText"],["score","Float"]],[1,"a",0.5],[2,"b",1]]]`

func wantSelect() any {
	return []any{
		[]any{
			[]any{int64(2)},
			[]any{[]any{"_id", "UInt32"}, []any{"_key", "ShortText"}, []any{"score", "Float"}},
			[]any{int64(1), "a", 0.5},
			[]any{int64(2), "b", int64(1)},
		},
	}
}

func TestParseOutputType(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputType
		wantErr bool
	}{
		{"", OutputJSON, false},
		{"JSON", OutputJSON, false},
		{"msgpack", OutputMsgPack, false},
		{"apache-arrow", OutputArrow, false},
		{"arrow", OutputArrow, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseOutputType(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownOutputType) {
				t.Errorf("ParseOutputType(%q) expected ErrUnknownOutputType, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseOutputType(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestJSONDecode(t *testing.T) {
	got, err := JSON{}.Decode([]byte(selectBody))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(got, wantSelect()) {
		t.Errorf("Decode() = %#v", got)
	}

	got, err = JSON{}.Decode([]byte("true\n"))
	if err != nil || got != true {
		t.Errorf("Decode(true) = %v, %v", got, err)
	}

	got, err = JSON{}.Decode(nil)
	if err != nil || got != nil {
		t.Errorf("Decode(nil) = %v, %v", got, err)
	}

	if _, err := (JSON{}).Decode([]byte("[1,")); err == nil {
		t.Error("expected error for truncated json")
	}
}

func TestJSONEnvelope(t *testing.T) {
	h, body, err := JSON{}.DecodeEnvelope([]byte(`[[0,1363316542.0,0.0012],2]`))
	if err != nil {
		t.Fatalf("DecodeEnvelope failed: %v", err)
	}
	if h.Code != rc.Success || h.Elapsed != 0.0012 || body != int64(2) {
		t.Errorf("unexpected envelope %+v %v", h, body)
	}
	if h.Err("load") != nil {
		t.Error("success header must not produce an error")
	}

	h, body, err = JSON{}.DecodeEnvelope([]byte(`[[-63,1.0,0.1,"Syntax error: <nonexistent>",[["yy_syntax_error","ecmascript.y",14]]]]`))
	if err != nil {
		t.Fatalf("DecodeEnvelope failed: %v", err)
	}
	if body != nil {
		t.Errorf("expected nil body, got %v", body)
	}
	herr := h.Err("select --table Site --filter nonexistent")
	if !errors.Is(herr, rc.SyntaxError) {
		t.Errorf("expected rc.SyntaxError, got %v", herr)
	}

	for _, bad := range []string{`{}`, `[]`, `[["x"]]`, `[1]`} {
		if _, _, err := (JSON{}).DecodeEnvelope([]byte(bad)); !errors.Is(err, ErrMalformed) {
			t.Errorf("DecodeEnvelope(%s) expected ErrMalformed, got %v", bad, err)
		}
	}
}

func TestMsgPackDecode(t *testing.T) {
	data, err := msgpack.Encode([]any{
		[]any{0, 1.5, 0.25},
		[]any{[]any{[]any{2}, []any{[]any{"_id", "UInt32"}}, []any{uint32(1)}, []any{uint64(2)}}},
	})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	h, body, err := MsgPack{}.DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("DecodeEnvelope failed: %v", err)
	}
	if h.Code != rc.Success || h.Start != 1.5 {
		t.Errorf("unexpected header %+v", h)
	}
	want := []any{[]any{[]any{int64(2)}, []any{[]any{"_id", "UInt32"}}, []any{int64(1)}, []any{int64(2)}}}
	if !reflect.DeepEqual(body, want) {
		t.Errorf("body = %#v", body)
	}

	if _, err := (MsgPack{}).Decode([]byte{0xc1}); err == nil {
		t.Error("expected error for invalid msgpack")
	}
}

func writeStream(t *testing.T, buf *bytes.Buffer, schema *arrow.Schema, fill func(b *array.RecordBuilder)) {
	t.Helper()
	alloc := memory.NewGoAllocator()
	b := array.NewRecordBuilder(alloc, schema)
	defer b.Release()
	fill(b)
	rec := b.NewRecordBatch()
	defer rec.Release()

	w := ipc.NewWriter(buf, ipc.WithSchema(schema), ipc.WithAllocator(alloc))
	if err := w.Write(rec); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestArrowDecode(t *testing.T) {
	var buf bytes.Buffer

	header := arrow.NewSchema([]arrow.Field{
		{Name: "return_code", Type: arrow.PrimitiveTypes.Int32},
		{Name: "start_time", Type: arrow.PrimitiveTypes.Float64},
		{Name: "elapsed_time", Type: arrow.PrimitiveTypes.Float64},
	}, func() *arrow.Metadata {
		md := arrow.MetadataFrom(map[string]string{MetaDataType: DataTypeMetadata})
		return &md
	}())
	writeStream(t, &buf, header, func(b *array.RecordBuilder) {
		b.Field(0).(*array.Int32Builder).Append(0)
		b.Field(1).(*array.Float64Builder).Append(10)
		b.Field(2).(*array.Float64Builder).Append(0.5)
	})

	results := arrow.NewSchema([]arrow.Field{
		{Name: "_id", Type: arrow.PrimitiveTypes.Uint32},
		{Name: "_key", Type: arrow.BinaryTypes.String},
		{Name: "location", Type: NewGeometryExtensionType(), Nullable: true,
			Metadata: NewGeoPointField("location", attr.TokyoGeoPoint, true).Metadata},
	}, func() *arrow.Metadata {
		md := arrow.MetadataFrom(map[string]string{MetaNHits: "10"})
		return &md
	}())
	point := catalog.NewGeoPoint(35.5, 139.5, attr.TokyoGeoPoint)
	wkbPoint, err := point.EncodeWKB()
	if err != nil {
		t.Fatalf("EncodeWKB failed: %v", err)
	}
	writeStream(t, &buf, results, func(b *array.RecordBuilder) {
		b.Field(0).(*array.Uint32Builder).AppendValues([]uint32{1, 2}, nil)
		b.Field(1).(*array.StringBuilder).AppendValues([]string{"a", "b"}, nil)
		geo := b.Field(2).(*array.ExtensionBuilder)
		geo.StorageBuilder().(*array.BinaryBuilder).Append(wkbPoint)
		geo.AppendNull()
	})

	h, body, err := NewArrow(nil).DecodeEnvelope(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeEnvelope failed: %v", err)
	}
	if h.Code != rc.Success || h.Elapsed != 0.5 {
		t.Errorf("unexpected header %+v", h)
	}

	sets, ok := body.([]any)
	if !ok || len(sets) != 1 {
		t.Fatalf("expected one result set, got %#v", body)
	}
	set := sets[0].([]any)
	if !reflect.DeepEqual(set[0], []any{int64(10)}) {
		t.Errorf("n_hits row = %#v", set[0])
	}
	wantCols := []any{
		[]any{"_id", "UInt32"},
		[]any{"_key", "ShortText"},
		[]any{"location", "TokyoGeoPoint"},
	}
	if !reflect.DeepEqual(set[1], wantCols) {
		t.Errorf("columns = %#v", set[1])
	}
	if len(set) != 4 {
		t.Fatalf("expected 2 rows, got %d", len(set)-2)
	}
	row := set[2].([]any)
	if row[0] != int64(1) || row[1] != "a" {
		t.Errorf("row = %#v", row)
	}
	gp, ok := row[2].(catalog.GeoPoint)
	if !ok || !gp.Point.Equal(point.Point) || gp.Datum != attr.TokyoGeoPoint {
		t.Errorf("location = %#v", row[2])
	}
	if set[3].([]any)[2] != nil {
		t.Errorf("expected null location, got %#v", set[3].([]any)[2])
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(map[any]any{"a": uint16(3), 1: []byte("x")})
	want := map[string]any{"a": int64(3), "1": "x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %#v", got)
	}

	if n, ok := Int64(2.0); !ok || n != 2 {
		t.Errorf("Int64(2.0) = %d, %v", n, ok)
	}
	if _, ok := Int64(2.5); ok {
		t.Error("Int64(2.5) must fail")
	}
	if n, ok := Int64("42"); !ok || n != 42 {
		t.Errorf("Int64(\"42\") = %d, %v", n, ok)
	}
	if f, ok := Float64(int64(3)); !ok || f != 3 {
		t.Errorf("Float64(3) = %v, %v", f, ok)
	}
	if b, ok := Bool(int64(1)); !ok || !b {
		t.Error("Bool(1) must be true")
	}
	if _, ok := Bool("yes"); ok {
		t.Error("Bool(\"yes\") must fail")
	}
}
