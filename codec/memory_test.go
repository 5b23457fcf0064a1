package codec

import (
	"bytes"
	"sync"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

func arrowSelect(t *testing.T, rows int) []byte {
	t.Helper()
	var buf bytes.Buffer
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "_id", Type: arrow.PrimitiveTypes.Uint32},
		{Name: "title", Type: arrow.BinaryTypes.String},
		{Name: "likes", Type: arrow.PrimitiveTypes.Int32},
	}, nil)
	writeStream(t, &buf, schema, func(b *array.RecordBuilder) {
		for i := range rows {
			b.Field(0).(*array.Uint32Builder).Append(uint32(i + 1))
			b.Field(1).(*array.StringBuilder).Append("entry")
			b.Field(2).(*array.Int32Builder).Append(int32(i))
		}
	})
	return buf.Bytes()
}

// TestArrowDecodeReleases checks that every buffer taken from the allocator
// is returned once decoding is done.
func TestArrowDecodeReleases(t *testing.T) {
	data := arrowSelect(t, 100)

	t.Run("Decode", func(t *testing.T) {
		alloc := memory.NewCheckedAllocator(memory.NewGoAllocator())
		defer alloc.AssertSize(t, 0)

		body, err := NewArrow(alloc).Decode(data)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		sets := body.([]any)
		if got := len(sets[0].([]any)); got != 102 {
			t.Errorf("expected 102 rows including headers, got %d", got)
		}
	})

	t.Run("Concurrent", func(t *testing.T) {
		alloc := memory.NewCheckedAllocator(memory.NewGoAllocator())
		defer alloc.AssertSize(t, 0)

		c := NewArrow(alloc)
		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := c.Decode(data); err != nil {
					t.Errorf("Decode failed: %v", err)
				}
			}()
		}
		wg.Wait()
	})

	t.Run("Truncated", func(t *testing.T) {
		alloc := memory.NewCheckedAllocator(memory.NewGoAllocator())
		defer alloc.AssertSize(t, 0)

		// The outcome depends on where the stream is cut; only the
		// allocator balance matters here.
		_, _ = NewArrow(alloc).Decode(data[:len(data)-16])
	})
}
