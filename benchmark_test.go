package groonga

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hugr-lab/groonga-go/attr"
	"github.com/hugr-lab/groonga-go/catalog"
	"github.com/hugr-lab/groonga-go/query"
	"github.com/hugr-lab/groonga-go/transport"
)

func benchBase(b *testing.B) (*catalog.Base, *catalog.Table) {
	b.Helper()
	base := catalog.NewBase("bench")
	entry, err := base.Table("Entry").
		Flags(attr.TablePatKey).
		KeyType(attr.ShortText).
		Column(
			catalog.NewColumn("title", attr.ShortText),
			catalog.NewColumn("body", attr.Text),
			catalog.NewColumn("likes", attr.Int32),
		).
		Define()
	if err != nil {
		b.Fatalf("Define failed: %v", err)
	}
	return base, entry
}

// selectResponse renders a select response with n records.
func selectResponse(n int) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, `[[0,0,0],[[[%d],[["_id","UInt32"],["_key","ShortText"],["title","ShortText"],["body","Text"],["likes","Int32"]]`, n)
	for i := range n {
		fmt.Fprintf(&sb, `,[%d,"key-%d","Title %d","Some body text for entry %d",%d]`, i+1, i, i, i, i%500)
	}
	sb.WriteString("]]]")
	return []byte(sb.String())
}

// BenchmarkSelectCommand measures rendering of a select with every clause set.
func BenchmarkSelectCommand(b *testing.B) {
	_, entry := benchBase(b)
	title := entry.MustColumn("title")
	body := entry.MustColumn("body")
	likes := entry.MustColumn("likes")

	b.ReportAllocs()
	for b.Loop() {
		q := query.NewSelect(nil, entry).
			MatchColumns(title.Weighted(10).Or(body)).
			Term(title, "groonga").
			Filter(likes.Gt(10).And(likes.Lt(100))).
			FilterMatch(body, "search engine").
			SortBy(likes.Desc(), title).
			OutputColumns(title, likes).
			Limit(20).
			Offset(40)
		if _, err := q.Command(); err != nil {
			b.Fatalf("Command failed: %v", err)
		}
	}
}

// BenchmarkSelectMapping measures decoding and mapping a select response
// through the client.
func BenchmarkSelectMapping(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("records=%d", n), func(b *testing.B) {
			base, entry := benchBase(b)
			resp := selectResponse(n)
			fake := transport.Func(func(context.Context, string) (*transport.Response, error) {
				return &transport.Response{Body: resp, Envelope: true}, nil
			})

			ctx := context.Background()
			client, err := Connect(ctx, Config{Transport: fake, Logger: quietLogger()})
			if err != nil {
				b.Fatalf("Connect failed: %v", err)
			}
			defer client.Close()
			db, err := Bind(ctx, client, base)
			if err != nil {
				b.Fatalf("Bind failed: %v", err)
			}

			b.SetBytes(int64(len(resp)))
			b.ReportAllocs()
			for b.Loop() {
				res, err := db.Table(entry).Select().Limit(n).All(ctx)
				if err != nil {
					b.Fatalf("All failed: %v", err)
				}
				if res.Len() != n {
					b.Fatalf("expected %d records, got %d", n, res.Len())
				}
			}
		})
	}
}

// BenchmarkCreatePlan measures planning a registry of 50 tables.
func BenchmarkCreatePlan(b *testing.B) {
	base := catalog.NewBase("bench")
	for i := range 50 {
		_, err := base.Table(fmt.Sprintf("Table%02d", i)).
			KeyType(attr.ShortText).
			Column(
				catalog.NewColumn("name", attr.ShortText),
				catalog.NewColumn("value", attr.Float),
			).
			Define()
		if err != nil {
			b.Fatalf("Define failed: %v", err)
		}
	}

	b.ReportAllocs()
	for b.Loop() {
		plan, err := base.CreatePlan([]string{"Table00", "Table10"})
		if err != nil {
			b.Fatalf("CreatePlan failed: %v", err)
		}
		if len(plan) != 48*3 {
			b.Fatalf("expected %d commands, got %d", 48*3, len(plan))
		}
	}
}
