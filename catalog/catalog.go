// Package catalog describes Groonga tables and columns and renders the
// schema commands that create them.
//
// Tables are declared on a Base with a fluent builder and become immutable
// once defined:
//
//	base := catalog.NewBase("blog")
//	site, err := base.Table("Site").
//	    Flags(attr.TablePatKey).
//	    KeyType(attr.ShortText).
//	    Column(catalog.NewColumn("title", attr.ShortText)).
//	    Define()
//
// Every table carries pseudo columns after its declared ones: _id,
// _nsubrecs, * and, unless the table is TABLE_NO_KEY, _key.
//
// A Base is safe for concurrent use. Builders are not.
package catalog

import (
	"fmt"
	"slices"
	"sync"

	"github.com/hugr-lab/groonga-go/attr"
)

// RegisterSuggestCommand loads the suggest plugin.
const RegisterSuggestCommand = "register suggest/suggest"

// Base is the registry of tables defined for one database. Tables are kept
// in definition order.
type Base struct {
	name    string
	suggest bool

	mu     sync.RWMutex
	tables []*Table
}

// NewBase creates an empty registry.
func NewBase(name string) *Base {
	return &Base{name: name}
}

// Name returns the registry name.
func (b *Base) Name() string { return b.name }

// IsSuggest reports whether the registry holds the suggest plugin schema.
func (b *Base) IsSuggest() bool { return b.suggest }

// Table starts a table definition. The table is registered by Define.
func (b *Base) Table(name string) *TableBuilder {
	return &TableBuilder{
		base:    b,
		name:    name,
		flags:   attr.TableHashKey,
		keyType: DataTypeRef(attr.ShortText),
	}
}

// Tables returns the defined tables in definition order.
func (b *Base) Tables() []*Table {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.tables)
}

// Lookup returns a table by name.
func (b *Base) Lookup(name string) (*Table, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, t := range b.tables {
		if t.name == name {
			return t, true
		}
	}
	return nil, false
}

// CreatePlan returns the commands that create the tables missing from
// existing. All table_create commands come first, then the column_create
// commands of those tables in declaration order, so that columns can
// reference any table of the plan.
//
// A suggest registry ignores existing: the plan registers the plugin and
// creates every table.
func (b *Base) CreatePlan(existing []string) ([]string, error) {
	tables := b.Tables()

	var plan []string
	var missing []*Table
	if b.suggest {
		plan = append(plan, RegisterSuggestCommand)
		missing = tables
	} else {
		for _, t := range tables {
			if !slices.Contains(existing, t.name) {
				missing = append(missing, t)
			}
		}
	}

	for _, t := range missing {
		plan = append(plan, t.CreateCommand())
	}
	for _, t := range missing {
		cmds, err := t.ColumnCommands()
		if err != nil {
			return nil, err
		}
		plan = append(plan, cmds...)
	}
	return plan, nil
}

func (b *Base) register(t *Table) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.tables {
		if existing.name == t.name {
			return &SchemaError{Table: t.name, Err: ErrDuplicate}
		}
	}
	b.tables = append(b.tables, t)
	return nil
}

// TableBuilder defines a table using a fluent API.
// Not thread-safe. Use only during initialization.
type TableBuilder struct {
	base       *Base
	name       string
	flags      attr.TableFlags
	keyType    TypeRef
	keySet     bool
	tokenizer  attr.Tokenizer
	normalizer attr.Normalizer
	columns    []*Column
	defined    bool
}

// Flags replaces the default TABLE_HASH_KEY flags.
func (tb *TableBuilder) Flags(flags attr.TableFlags) *TableBuilder {
	tb.flags = flags
	return tb
}

// KeyType sets a builtin key type. Default is ShortText.
func (tb *TableBuilder) KeyType(t attr.DataType) *TableBuilder {
	tb.keyType = DataTypeRef(t)
	tb.keySet = true
	return tb
}

// KeyTable keys the table by records of another table.
func (tb *TableBuilder) KeyTable(name string) *TableBuilder {
	tb.keyType = TableRef(name)
	tb.keySet = true
	return tb
}

// DefaultTokenizer sets the tokenizer used by index columns of the table.
func (tb *TableBuilder) DefaultTokenizer(tok attr.Tokenizer) *TableBuilder {
	tb.tokenizer = tok
	return tb
}

// Normalizer sets the key normalizer.
func (tb *TableBuilder) Normalizer(n attr.Normalizer) *TableBuilder {
	tb.normalizer = n
	return tb
}

// Column declares columns in order.
func (tb *TableBuilder) Column(cols ...*Column) *TableBuilder {
	tb.columns = append(tb.columns, cols...)
	return tb
}

// Define validates the definition, binds every column to the table,
// appends the pseudo columns and registers the table on the Base.
// Can only be called once.
func (tb *TableBuilder) Define() (*Table, error) {
	if tb.defined {
		return nil, &SchemaError{Table: tb.name, Err: fmt.Errorf("%w: already defined", ErrInvalidTable)}
	}
	if _, ok := tb.base.Lookup(tb.name); ok {
		return nil, &SchemaError{Table: tb.name, Err: ErrDuplicate}
	}
	t, err := tb.build()
	if err != nil {
		return nil, err
	}
	if err := tb.base.register(t); err != nil {
		return nil, err
	}
	tb.defined = true
	return t, nil
}

// MustDefine is like Define but panics on error.
func (tb *TableBuilder) MustDefine() *Table {
	t, err := tb.Define()
	if err != nil {
		panic(err)
	}
	return t
}

func (tb *TableBuilder) build() (*Table, error) {
	if tb.name == "" {
		return nil, fmt.Errorf("%w: table name cannot be empty", ErrInvalidTable)
	}
	if tb.flags.IsZero() {
		return nil, &SchemaError{Table: tb.name, Err: fmt.Errorf("%w: flags cannot be empty", ErrInvalidTable)}
	}

	keyType := tb.keyType
	if tb.flags.ContainsAll(attr.TableNoKey) {
		if tb.keySet {
			return nil, &SchemaError{Table: tb.name, Err: fmt.Errorf("%w: TABLE_NO_KEY table cannot have a key type", ErrInvalidTable)}
		}
		keyType = TypeRef{}
	}

	seen := make(map[string]bool, len(tb.columns))
	for i, c := range tb.columns {
		if c == nil {
			return nil, &SchemaError{Table: tb.name, Err: fmt.Errorf("%w: column %d is nil", ErrInvalidTable, i)}
		}
		if c.name == "" {
			return nil, &SchemaError{Table: tb.name, Err: fmt.Errorf("%w: column %d has no name", ErrInvalidTable, i)}
		}
		if isPseudoName(c.name) {
			return nil, &SchemaError{Table: tb.name, Column: c.name, Err: fmt.Errorf("%w: reserved column name", ErrInvalidTable)}
		}
		if seen[c.name] {
			return nil, &SchemaError{Table: tb.name, Column: c.name, Err: ErrDuplicate}
		}
		if c.table != "" {
			return nil, &SchemaError{Table: tb.name, Column: c.name, Err: fmt.Errorf("%w: column already belongs to %s", ErrInvalidTable, c.table)}
		}
		seen[c.name] = true
	}

	t := &Table{
		name:       tb.name,
		flags:      tb.flags,
		keyType:    keyType,
		tokenizer:  tb.tokenizer,
		normalizer: tb.normalizer,
		declared:   len(tb.columns),
		suggest:    tb.base.suggest,
	}
	t.columns = make([]*Column, 0, len(tb.columns)+4)
	t.columns = append(t.columns, tb.columns...)
	t.columns = append(t.columns, pseudoColumns(t.flags, keyType)...)

	t.byName = make(map[string]*Column, len(t.columns))
	for _, c := range t.columns {
		c.bind(t.name)
		t.byName[c.name] = c
	}
	return t, nil
}
