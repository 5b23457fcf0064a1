package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/hugr-lab/groonga-go/attr"
)

// SchemaFile is the TOML form of a registry:
//
//	name = "blog"
//
//	[[table]]
//	name = "Site"
//	flags = "TABLE_PAT_KEY"
//	key_type = "ShortText"
//
//	  [[table.column]]
//	  name = "title"
//	  type = "ShortText"
//
//	  [[table.column]]
//	  name = "site_title"
//	  flags = "COLUMN_INDEX|WITH_POSITION"
//	  type = "Site"
//	  source = ["title"]
type SchemaFile struct {
	Name   string        `toml:"name"`
	Tables []TableSchema `toml:"table"`
}

// TableSchema is one [[table]] entry.
type TableSchema struct {
	Name             string         `toml:"name"`
	Flags            string         `toml:"flags,omitempty"`
	KeyType          string         `toml:"key_type,omitempty"`
	DefaultTokenizer string         `toml:"default_tokenizer,omitempty"`
	Normalizer       string         `toml:"normalizer,omitempty"`
	Columns          []ColumnSchema `toml:"column,omitempty"`
}

// ColumnSchema is one [[table.column]] entry.
type ColumnSchema struct {
	Name   string   `toml:"name"`
	Flags  string   `toml:"flags,omitempty"`
	Type   string   `toml:"type"`
	Source []string `toml:"source,omitempty"`
}

// LoadSchemaFile reads a TOML schema file into a new registry.
func LoadSchemaFile(path string) (*Base, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadSchema(f)
}

// LoadSchema decodes a TOML schema into a new registry.
// Unknown keys are rejected.
func LoadSchema(r io.Reader) (*Base, error) {
	var sf SchemaFile
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sf); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return sf.Base()
}

// Base defines every table of the file on a new registry.
func (sf *SchemaFile) Base() (*Base, error) {
	base := NewBase(sf.Name)
	for _, ts := range sf.Tables {
		tb := base.Table(ts.Name)
		if ts.Flags != "" {
			flags, err := attr.ParseTableFlags(ts.Flags)
			if err != nil {
				return nil, &SchemaError{Table: ts.Name, Err: err}
			}
			tb.Flags(flags)
		}
		if ts.KeyType != "" {
			ref := ParseTypeRef(ts.KeyType)
			tb.keyType = ref
			tb.keySet = true
		}
		if ts.DefaultTokenizer != "" {
			tb.DefaultTokenizer(attr.Tokenizer(ts.DefaultTokenizer))
		}
		if ts.Normalizer != "" {
			tb.Normalizer(attr.Normalizer(ts.Normalizer))
		}

		for _, cs := range ts.Columns {
			if cs.Type == "" {
				return nil, &SchemaError{Table: ts.Name, Column: cs.Name, Err: fmt.Errorf("%w: column type is required", ErrInvalidTable)}
			}
			var opts []ColumnOption
			if cs.Flags != "" {
				flags, err := attr.ParseColumnFlags(cs.Flags)
				if err != nil {
					return nil, &SchemaError{Table: ts.Name, Column: cs.Name, Err: err}
				}
				opts = append(opts, WithFlags(flags))
			}
			if len(cs.Source) > 0 {
				opts = append(opts, WithSource(cs.Source...))
			}
			tb.Column(newColumn(cs.Name, ParseTypeRef(cs.Type), opts))
		}

		if _, err := tb.Define(); err != nil {
			return nil, err
		}
	}
	return base, nil
}

// SchemaFileOf converts a registry back to its file form.
func SchemaFileOf(b *Base) *SchemaFile {
	sf := &SchemaFile{Name: b.Name()}
	for _, t := range b.Tables() {
		ts := TableSchema{
			Name:             t.name,
			Flags:            t.flags.String(),
			DefaultTokenizer: t.tokenizer.String(),
			Normalizer:       t.normalizer.String(),
		}
		if t.HasKey() {
			ts.KeyType = t.keyType.String()
		}
		for _, c := range t.DeclaredColumns() {
			ts.Columns = append(ts.Columns, ColumnSchema{
				Name:   c.name,
				Flags:  c.flags.String(),
				Type:   c.typ.String(),
				Source: c.Source(),
			})
		}
		sf.Tables = append(sf.Tables, ts)
	}
	return sf
}

// WriteSchema encodes the registry as TOML.
func WriteSchema(w io.Writer, b *Base) error {
	enc := toml.NewEncoder(w)
	return enc.Encode(SchemaFileOf(b))
}
