package groonga

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hugr-lab/groonga-go/attr"
	"github.com/hugr-lab/groonga-go/catalog"
	"github.com/hugr-lab/groonga-go/expr"
	"github.com/hugr-lab/groonga-go/query"
)

// DB is a table registry bound to a client. Queries built through it run
// on that client.
type DB struct {
	client *Client
	base   *catalog.Base
	logger *slog.Logger
}

// Bind connects client if needed and binds base to it.
//
// Example:
//
//	db, err := groonga.Bind(ctx, client, base)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := db.CreateAll(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	res, err := db.Table(site).Select().Filter(likes.Gt(100)).All(ctx)
func Bind(ctx context.Context, client *Client, base *catalog.Base) (*DB, error) {
	if client == nil {
		return nil, ErrNotBound
	}
	if base == nil {
		return nil, fmt.Errorf("bind: %w", catalog.ErrInvalidTable)
	}
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	return &DB{client: client, base: base, logger: client.logger}, nil
}

// Client returns the bound client.
func (db *DB) Client() *Client { return db.client }

// Base returns the bound registry.
func (db *DB) Base() *catalog.Base { return db.base }

// Plan returns the commands CreateAll would run.
func (db *DB) Plan(ctx context.Context) ([]string, error) {
	var existing []string
	if !db.base.IsSuggest() {
		names, err := db.client.TableNames(ctx)
		if err != nil {
			return nil, err
		}
		existing = names
	}
	return db.base.CreatePlan(existing)
}

// CreateAll creates every table of the registry missing on the server,
// then their columns. Existing tables are left untouched, so calling it
// again is safe.
func (db *DB) CreateAll(ctx context.Context) error {
	plan, err := db.Plan(ctx)
	if err != nil {
		return err
	}
	for _, cmd := range plan {
		db.logger.Debug("Creating schema object", "command", cmd)
		if _, err := db.client.Execute(ctx, cmd); err != nil {
			return fmt.Errorf("create all: %w", err)
		}
	}
	db.logger.Info("Schema created", "base", db.base.Name(), "commands", len(plan))
	return nil
}

// Table returns a handle on t. Use Lookup for tables known by name.
func (db *DB) Table(t *catalog.Table) *Table {
	return &Table{db: db, table: t}
}

// Lookup returns a handle on the registered table name.
func (db *DB) Lookup(name string) (*Table, error) {
	t, ok := db.base.Lookup(name)
	if !ok {
		return nil, &catalog.SchemaError{Table: name, Err: catalog.ErrInvalidTable}
	}
	return db.Table(t), nil
}

// Simple returns an empty admin command builder bound to the client.
func (db *DB) Simple() *query.SimpleQuery {
	return query.NewSimple(db.client, nil)
}

// CacheLimit returns the maximum number of cached queries.
func (db *DB) CacheLimit(ctx context.Context) (int64, error) {
	return db.Simple().CacheLimit().ExecuteInt(ctx)
}

// SetCacheLimit sets the maximum number of cached queries and returns the
// previous limit.
func (db *DB) SetCacheLimit(ctx context.Context, n int) (int64, error) {
	return db.Simple().SetCacheLimit(n).ExecuteInt(ctx)
}

// LogLevel sets the server log level.
func (db *DB) LogLevel(ctx context.Context, level attr.LogLevel) (bool, error) {
	return db.Simple().LogLevel(level).ExecuteBool(ctx)
}

// LogPut writes message to the server log.
func (db *DB) LogPut(ctx context.Context, level attr.LogLevel, message string) (bool, error) {
	return db.Simple().LogPut(level, message).ExecuteBool(ctx)
}

// LogReopen reopens the server log file.
func (db *DB) LogReopen(ctx context.Context) (bool, error) {
	return db.Simple().LogReopen().ExecuteBool(ctx)
}

// Table is a catalog table bound to a client.
//
// Methods without a Query suffix run immediately; their Query counterparts
// return the unexecuted builder.
type Table struct {
	db    *DB
	table *catalog.Table
}

// Def returns the table descriptor.
func (t *Table) Def() *catalog.Table { return t.table }

// Select starts a select query. Expressions are added as --query
// conditions:
//
//	db.Table(entry).Select(title.Eq("Groonga")).Term(body, "search")
func (t *Table) Select(exprs ...expr.Expression) *query.SelectQuery {
	q := query.NewSelect(t.db.client, t.table)
	if len(exprs) > 0 {
		q.Query(exprs...)
	}
	return q
}

// Suggest starts a suggest query for text. The table is normally the
// suggest item table.
func (t *Table) Suggest(text string) *query.SuggestQuery {
	return query.NewSuggest(t.db.client, t.table, text)
}

// Record creates a record of the table bound to the client.
func (t *Table) Record(fields map[string]any) (*query.Record, error) {
	r, err := query.NewRecord(t.table, fields)
	if err != nil {
		return nil, err
	}
	return r.Bind(t.db.client), nil
}

// LoadQuery returns an uncommitted load of records. Records of the suggest
// event table are loaded through the suggest preparer.
func (t *Table) LoadQuery(records ...*query.Record) *query.LoadQuery {
	if t.table.IsSuggest() && t.table.Name() == catalog.SuggestEventQuery {
		return query.NewSuggestLoad(t.db.client, t.table, records...)
	}
	return query.NewLoad(t.db.client, t.table, records...)
}

// Load loads records and returns the number of records the server loaded.
func (t *Table) Load(ctx context.Context, records ...*query.Record) (int64, error) {
	return t.LoadQuery(records...).Commit(ctx)
}

// DeleteQuery returns an unexecuted delete. Exactly one of key, id or
// filter should be set; the server rejects other combinations.
func (t *Table) DeleteQuery(opts query.DeleteOptions) *query.SimpleQuery {
	return query.NewSimple(t.db.client, t.table).Delete(opts)
}

// Delete deletes the records selected by opts.
func (t *Table) Delete(ctx context.Context, opts query.DeleteOptions) (bool, error) {
	return t.DeleteQuery(opts).ExecuteBool(ctx)
}

// TruncateQuery returns an unexecuted truncate.
func (t *Table) TruncateQuery() *query.SimpleQuery {
	return query.NewSimple(t.db.client, t.table).Truncate()
}

// Truncate removes every record of the table.
func (t *Table) Truncate(ctx context.Context) (bool, error) {
	return t.TruncateQuery().ExecuteBool(ctx)
}
