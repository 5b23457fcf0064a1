// Package groonga is a typed client for the Groonga full-text search engine.
//
// Tables are declared once in a catalog registry. Queries are built with
// fluent builders that render Groonga command text, and responses are
// mapped back onto records checked against the declared columns.
//
// The groonga package ties the pieces together:
//   - Client sends commands over GQTP or HTTP and decodes responses
//   - DB binds a catalog registry to a Client and creates missing tables
//   - Table starts select, load, delete, truncate and suggest queries
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/hugr-lab/groonga-go"
//	    "github.com/hugr-lab/groonga-go/attr"
//	    "github.com/hugr-lab/groonga-go/catalog"
//	)
//
//	func main() {
//	    ctx := context.Background()
//
//	    base := catalog.NewBase("blog")
//	    site := base.Table("Site").
//	        Column(
//	            catalog.NewColumn("title", attr.ShortText),
//	            catalog.NewColumn("likes", attr.Int32),
//	        ).
//	        MustDefine()
//
//	    client, err := groonga.Connect(ctx, groonga.Config{Address: "localhost:10043"})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer client.Close()
//
//	    db, err := groonga.Bind(ctx, client, base)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := db.CreateAll(ctx); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    res, err := db.Table(site).Select().
//	        Filter(site.MustColumn("likes").Gt(10)).
//	        Limit(5).
//	        All(ctx)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, rec := range res.All() {
//	        fmt.Println(rec.Key(), rec.AsMap())
//	    }
//	}
//
// # Packages
//
//   - attr: symbolic constants (flags, data types, tokenizers, log levels)
//   - expr: expression trees and the match_columns, query and filter dialects
//   - catalog: table and column declarations, create plans, schema files
//   - query: command builders and result mapping
//   - codec: JSON, MessagePack and Apache Arrow response decoding
//   - transport: GQTP and HTTP transports
//   - rc: the Groonga return code catalog
//
// # Errors
//
// Server and transport failures are *rc.Error values that unwrap to their
// rc.Code, so errors.Is(err, rc.SyntaxError) works through any wrapping.
// After such a failure the Client reconnects before returning the error.
//
// # Logging
//
// The client logs through Config.Logger (slog.Default() when nil). Every
// command is logged at Debug with its request id and elapsed time;
// failures are logged at Error and reconnections at Warn.
//
// # Concurrency
//
// A Client keeps its connection state in plain fields and is not safe for
// concurrent use. Serialize access or use one Client per goroutine. Every
// blocking operation takes a context.Context honoured by the transports.
package groonga
