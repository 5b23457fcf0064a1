package catalog

import (
	"strings"

	"github.com/hugr-lab/groonga-go/attr"
	"github.com/hugr-lab/groonga-go/expr"
)

// Pseudo column names present on every table.
const (
	ColumnID       = "_id"
	ColumnNSubRecs = "_nsubrecs"
	ColumnAll      = "*"
	ColumnKey      = "_key"
	ColumnScore    = "_score"
)

// TypeRef is the value type of a column or the key type of a table:
// either a builtin data type or the name of another table.
type TypeRef struct {
	data  attr.DataType
	table string
}

// DataTypeRef refers to a builtin type.
func DataTypeRef(t attr.DataType) TypeRef { return TypeRef{data: t} }

// TableRef refers to another table by name.
func TableRef(name string) TypeRef { return TypeRef{table: name} }

// ParseTypeRef returns a builtin type when s names one and a table
// reference otherwise.
func ParseTypeRef(s string) TypeRef {
	if dt, ok := attr.ParseDataType(s); ok {
		return DataTypeRef(dt)
	}
	return TableRef(s)
}

// IsZero reports whether no type is set.
func (t TypeRef) IsZero() bool { return t.data == "" && t.table == "" }

// IsTable reports whether t refers to a table.
func (t TypeRef) IsTable() bool { return t.table != "" }

// DataType returns the builtin type; empty for table references.
func (t TypeRef) DataType() attr.DataType { return t.data }

// TableName returns the referenced table; empty for builtin types.
func (t TypeRef) TableName() string { return t.table }

func (t TypeRef) String() string {
	if t.table != "" {
		return t.table
	}
	return t.data.String()
}

// Column describes one column of a table. It embeds a column reference
// expression, so every operator of expr.Node is available on it:
//
//	title.Eq("Groonga")   // (title == "Groonga") in a filter
//	title.Desc()          // -title in --sortby
//
// A column is bound to its table by TableBuilder.Define and must not be
// shared between tables.
type Column struct {
	*expr.Node

	name   string
	table  string
	flags  attr.ColumnFlags
	typ    TypeRef
	source []string
	pseudo bool
}

// ColumnOption customizes a column.
type ColumnOption func(*Column)

// WithFlags replaces the default COLUMN_SCALAR flags.
func WithFlags(flags attr.ColumnFlags) ColumnOption {
	return func(c *Column) { c.flags = flags }
}

// WithSource sets the source columns of an index column. Sources are
// column names of the indexed table, "_key" included.
func WithSource(sources ...string) ColumnOption {
	return func(c *Column) { c.source = append(c.source, sources...) }
}

// NewColumn creates a scalar column of a builtin type.
func NewColumn(name string, t attr.DataType, opts ...ColumnOption) *Column {
	return newColumn(name, DataTypeRef(t), opts)
}

// NewReference creates a column whose values are records of another table.
func NewReference(name, table string, opts ...ColumnOption) *Column {
	return newColumn(name, TableRef(table), opts)
}

// NewIndex creates an index column over source columns of table.
// Flags default to COLUMN_INDEX.
func NewIndex(name, table string, source string, opts ...ColumnOption) *Column {
	all := append([]ColumnOption{WithFlags(attr.ColumnIndex), WithSource(source)}, opts...)
	return newColumn(name, TableRef(table), all)
}

func newColumn(name string, typ TypeRef, opts []ColumnOption) *Column {
	c := &Column{
		Node:  expr.Col(name),
		name:  name,
		flags: attr.ColumnScalar,
		typ:   typ,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newPseudoColumn(name string, typ TypeRef) *Column {
	c := newColumn(name, typ, nil)
	c.pseudo = true
	return c
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// TableName returns the owning table; empty until the table is defined.
func (c *Column) TableName() string { return c.table }

// Flags returns the column flags.
func (c *Column) Flags() attr.ColumnFlags { return c.flags }

// Type returns the value type.
func (c *Column) Type() TypeRef { return c.typ }

// Source returns the index sources.
func (c *Column) Source() []string { return append([]string(nil), c.source...) }

// IsPseudo reports whether the column is implicit (_id, _key, _nsubrecs, *).
func (c *Column) IsPseudo() bool { return c.pseudo }

// IsIndex reports whether the column is an index column.
func (c *Column) IsIndex() bool { return c.flags.ContainsAll(attr.ColumnIndex) }

// IsVector reports whether the column holds arrays.
func (c *Column) IsVector() bool { return c.flags.ContainsAll(attr.ColumnVector) }

// Bound reports whether the column has both a name and a table.
func (c *Column) Bound() bool { return c.name != "" && c.table != "" }

// CreateCommand renders the column_create command.
// Fails with ErrColumnUnbound before the column belongs to a table.
func (c *Column) CreateCommand() (string, error) {
	if !c.Bound() {
		return "", &SchemaError{Table: c.table, Column: c.name, Err: ErrColumnUnbound}
	}

	parts := []string{
		"column_create",
		"--table", c.table,
		"--name", c.name,
		"--flags", c.flags.String(),
		"--type", c.typ.String(),
	}
	if len(c.source) > 0 {
		parts = append(parts, "--source", strings.Join(c.source, ","))
	}
	return strings.Join(parts, " "), nil
}

func (c *Column) bind(table string) {
	c.table = table
}
