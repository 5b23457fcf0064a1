package catalog

import (
	"strings"

	"github.com/hugr-lab/groonga-go/attr"
)

// Table is an immutable table descriptor produced by TableBuilder.Define
// or Introspect.
type Table struct {
	name       string
	flags      attr.TableFlags
	keyType    TypeRef
	tokenizer  attr.Tokenizer
	normalizer attr.Normalizer
	declared   int
	columns    []*Column
	byName     map[string]*Column
	suggest    bool
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Flags returns the table flags.
func (t *Table) Flags() attr.TableFlags { return t.flags }

// KeyType returns the key type; zero for TABLE_NO_KEY tables.
func (t *Table) KeyType() TypeRef { return t.keyType }

// DefaultTokenizer returns the tokenizer; empty when unset.
func (t *Table) DefaultTokenizer() attr.Tokenizer { return t.tokenizer }

// Normalizer returns the normalizer; empty when unset.
func (t *Table) Normalizer() attr.Normalizer { return t.normalizer }

// HasKey reports whether records are addressed by _key.
func (t *Table) HasKey() bool { return !t.flags.ContainsAll(attr.TableNoKey) }

// IsSuggest reports whether the table belongs to the suggest plugin schema.
func (t *Table) IsSuggest() bool { return t.suggest }

// Columns returns declared columns followed by pseudo columns.
func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.columns...)
}

// DeclaredColumns returns the user defined columns in declaration order.
func (t *Table) DeclaredColumns() []*Column {
	return append([]*Column(nil), t.columns[:t.declared]...)
}

// ColumnNames returns the names of Columns in the same order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// Column looks a column up by name. Pseudo columns are included.
func (t *Table) Column(name string) (*Column, error) {
	c, ok := t.byName[name]
	if !ok {
		return nil, &SchemaError{Table: t.name, Column: name, Err: ErrUnknownColumn}
	}
	return c, nil
}

// HasColumn reports whether name is a column of the table.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// MustColumn is like Column but panics for unknown names. Intended for
// package level variables built from a static schema.
func (t *Table) MustColumn(name string) *Column {
	c, err := t.Column(name)
	if err != nil {
		panic(err)
	}
	return c
}

// ID returns the _id pseudo column.
func (t *Table) ID() *Column { return t.byName[ColumnID] }

// NSubRecs returns the _nsubrecs pseudo column.
func (t *Table) NSubRecs() *Column { return t.byName[ColumnNSubRecs] }

// All returns the * pseudo column.
func (t *Table) All() *Column { return t.byName[ColumnAll] }

// Key returns the _key pseudo column; nil for TABLE_NO_KEY tables.
func (t *Table) Key() *Column { return t.byName[ColumnKey] }

// CreateCommand renders the table_create command.
func (t *Table) CreateCommand() string {
	parts := []string{
		"table_create",
		"--name", t.name,
		"--flags", t.flags.String(),
	}
	if t.HasKey() && !t.keyType.IsZero() {
		parts = append(parts, "--key_type", t.keyType.String())
	}
	if t.tokenizer != "" {
		parts = append(parts, "--default_tokenizer", t.tokenizer.String())
	}
	if t.normalizer != "" {
		parts = append(parts, "--normalizer", t.normalizer.String())
	}
	return strings.Join(parts, " ")
}

// ColumnCommands renders column_create for each declared column.
func (t *Table) ColumnCommands() ([]string, error) {
	cmds := make([]string, 0, t.declared)
	for _, c := range t.columns[:t.declared] {
		cmd, err := c.CreateCommand()
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func (t *Table) String() string { return t.name }

// pseudoColumns builds the implicit columns in their fixed order.
func pseudoColumns(flags attr.TableFlags, keyType TypeRef) []*Column {
	cols := []*Column{
		newPseudoColumn(ColumnID, DataTypeRef(attr.UInt32)),
		newPseudoColumn(ColumnNSubRecs, DataTypeRef(attr.Int32)),
		newPseudoColumn(ColumnAll, DataTypeRef(attr.ShortText)),
	}
	if !flags.ContainsAll(attr.TableNoKey) {
		cols = append(cols, newPseudoColumn(ColumnKey, keyType))
	}
	return cols
}

func isPseudoName(name string) bool {
	switch name {
	case ColumnID, ColumnNSubRecs, ColumnAll, ColumnKey:
		return true
	}
	return false
}
