package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/groonga-go/attr"
	"github.com/hugr-lab/groonga-go/catalog"
	"github.com/hugr-lab/groonga-go/rc"
)

// Metadata keys of apache-arrow responses.
const (
	MetaDataType = "GROONGA:data_type"
	MetaNHits    = "GROONGA:n_hits"
	MetaType     = "GROONGA:type"

	// DataTypeMetadata marks the stream holding the response header.
	DataTypeMetadata = "metadata"
)

// Arrow decodes output_type=apache-arrow bodies: a sequence of IPC streams,
// one per result set, optionally preceded by a header stream.
type Arrow struct {
	alloc memory.Allocator
}

// NewArrow creates an Arrow codec. A nil allocator means the Go allocator.
func NewArrow(alloc memory.Allocator) *Arrow {
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}
	return &Arrow{alloc: alloc}
}

// OutputType implements Codec.
func (*Arrow) OutputType() OutputType { return OutputArrow }

// Decode implements Codec. Result sets are converted to the JSON shape;
// a header stream is ignored.
func (c *Arrow) Decode(data []byte) (any, error) {
	_, body, err := c.decode(data)
	return body, err
}

// DecodeEnvelope implements Codec. A missing header stream means success.
func (c *Arrow) DecodeEnvelope(data []byte) (Header, any, error) {
	return c.decode(data)
}

func (c *Arrow) decode(data []byte) (Header, any, error) {
	var h Header
	var sets []any

	r := bytes.NewReader(data)
	for r.Len() > 0 {
		rdr, err := ipc.NewReader(r, ipc.WithAllocator(c.alloc))
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Header{}, nil, fmt.Errorf("read arrow stream: %w", err)
		}

		if dataType(rdr.Schema()) == DataTypeMetadata {
			h, err = readHeader(rdr)
		} else {
			var set []any
			set, err = readResultSet(rdr)
			sets = append(sets, set)
		}
		rdr.Release()
		if err != nil {
			return Header{}, nil, err
		}
	}

	if len(sets) == 0 {
		return h, nil, nil
	}
	return h, sets, nil
}

func dataType(schema *arrow.Schema) string {
	md := schema.Metadata()
	if idx := md.FindKey(MetaDataType); idx >= 0 {
		return md.Values()[idx]
	}
	return ""
}

func readHeader(rdr *ipc.Reader) (Header, error) {
	var h Header
	for rdr.Next() {
		rec := rdr.RecordBatch()
		if rec.NumRows() == 0 {
			continue
		}
		for i, f := range rec.Schema().Fields() {
			v := arrowValue(rec.Column(i), 0, f)
			switch f.Name {
			case "return_code":
				code, _ := Int64(v)
				h.Code = rc.Code(code)
			case "start_time":
				h.Start, _ = Float64(v)
			case "elapsed_time":
				h.Elapsed, _ = Float64(v)
			case "error_message":
				h.Message, _ = v.(string)
			}
		}
	}
	if err := rdr.Err(); err != nil {
		return Header{}, fmt.Errorf("read arrow header: %w", err)
	}
	return h, nil
}

func readResultSet(rdr *ipc.Reader) ([]any, error) {
	schema := rdr.Schema()
	fields := schema.Fields()

	columns := make([]any, len(fields))
	for i, f := range fields {
		columns[i] = []any{f.Name, groongaType(f)}
	}

	var rows []any
	for rdr.Next() {
		rec := rdr.RecordBatch()
		for row := 0; row < int(rec.NumRows()); row++ {
			values := make([]any, len(fields))
			for i, f := range fields {
				values[i] = arrowValue(rec.Column(i), row, f)
			}
			rows = append(rows, values)
		}
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("read arrow result set: %w", err)
	}

	nHits := int64(len(rows))
	md := schema.Metadata()
	if idx := md.FindKey(MetaNHits); idx >= 0 {
		if n, ok := Int64(md.Values()[idx]); ok {
			nHits = n
		}
	}

	set := make([]any, 0, len(rows)+2)
	set = append(set, []any{nHits}, columns)
	set = append(set, rows...)
	return set, nil
}

// groongaType returns the Groonga type name of a field: the GROONGA:type
// metadata when present, otherwise derived from the Arrow type.
func groongaType(f arrow.Field) string {
	if idx := f.Metadata.FindKey(MetaType); idx >= 0 {
		return f.Metadata.Values()[idx]
	}
	switch f.Type.ID() {
	case arrow.BOOL:
		return string(attr.Bool)
	case arrow.INT8:
		return string(attr.Int8)
	case arrow.UINT8:
		return string(attr.UInt8)
	case arrow.INT16:
		return string(attr.Int16)
	case arrow.UINT16:
		return string(attr.UInt16)
	case arrow.INT32:
		return string(attr.Int32)
	case arrow.UINT32:
		return string(attr.UInt32)
	case arrow.INT64:
		return string(attr.Int64)
	case arrow.UINT64:
		return string(attr.UInt64)
	case arrow.FLOAT32, arrow.FLOAT64:
		return string(attr.Float)
	case arrow.TIMESTAMP:
		return string(attr.Time)
	case arrow.STRING, arrow.LARGE_STRING, arrow.DICTIONARY:
		return string(attr.ShortText)
	case arrow.EXTENSION:
		if isGeometry(f.Type) {
			return string(attr.WGS84GeoPoint)
		}
	}
	return string(attr.Object)
}

// arrowValue extracts one value in the shared shape. Times become float
// seconds like the JSON output.
func arrowValue(arr arrow.Array, idx int, f arrow.Field) any {
	if arr.IsNull(idx) {
		return nil
	}

	switch a := arr.(type) {
	case *array.Boolean:
		return a.Value(idx)
	case *array.Int8:
		return int64(a.Value(idx))
	case *array.Int16:
		return int64(a.Value(idx))
	case *array.Int32:
		return int64(a.Value(idx))
	case *array.Int64:
		return a.Value(idx)
	case *array.Uint8:
		return int64(a.Value(idx))
	case *array.Uint16:
		return int64(a.Value(idx))
	case *array.Uint32:
		return int64(a.Value(idx))
	case *array.Uint64:
		return normalizeUint(a.Value(idx))
	case *array.Float32:
		return float64(a.Value(idx))
	case *array.Float64:
		return a.Value(idx)
	case *array.String:
		return a.Value(idx)
	case *array.LargeString:
		return a.Value(idx)
	case *array.Binary:
		return string(a.Value(idx))
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		t := a.Value(idx).ToTime(unit)
		return float64(t.UnixNano()) / 1e9
	case *array.Dictionary:
		return arrowValue(a.Dictionary(), a.GetValueIndex(idx), f)
	case *array.List:
		start, end := a.ValueOffsets(idx)
		values := a.ListValues()
		out := make([]any, 0, end-start)
		for i := start; i < end; i++ {
			out = append(out, arrowValue(values, int(i), f))
		}
		return out
	case array.ExtensionArray:
		storage := a.Storage()
		if isGeometry(a.DataType()) {
			if bin, ok := storage.(*array.Binary); ok {
				p, err := catalog.DecodeWKB(bin.Value(idx), geoDatum(f))
				if err == nil {
					return p
				}
			}
		}
		return arrowValue(storage, idx, f)
	}
	return nil
}
