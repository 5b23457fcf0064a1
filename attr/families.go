package attr

// TableKind is the family of table flags.
type TableKind struct{}

func (TableKind) Name() string { return "table flag" }

func (TableKind) Members() []Symbol {
	return []Symbol{"TABLE_HASH_KEY", "TABLE_PAT_KEY", "TABLE_DAT_KEY", "TABLE_NO_KEY",
		"KEY_WITH_SIS", "KEY_NORMALIZE", "TABLE_VIEW", "PERSISTENT"}
}

// ColumnKind is the family of column flags.
type ColumnKind struct{}

func (ColumnKind) Name() string { return "column flag" }

func (ColumnKind) Members() []Symbol {
	return []Symbol{"COLUMN_SCALAR", "COLUMN_VECTOR", "COLUMN_INDEX",
		"WITH_SECTION", "WITH_WEIGHT", "WITH_POSITION", "RING_BUFFER", "PERSISTENT"}
}

// SuggestKind is the family of suggestion result buckets.
type SuggestKind struct{}

func (SuggestKind) Name() string { return "suggest type" }

func (SuggestKind) Members() []Symbol {
	return []Symbol{"complete", "correct", "suggest"}
}

type (
	TableFlags   = Flags[TableKind]
	ColumnFlags  = Flags[ColumnKind]
	SuggestTypes = Flags[SuggestKind]
)

// Table flags.
var (
	TableHashKey = NewFlags[TableKind]("TABLE_HASH_KEY")
	TablePatKey  = NewFlags[TableKind]("TABLE_PAT_KEY")
	TableDatKey  = NewFlags[TableKind]("TABLE_DAT_KEY")
	TableNoKey   = NewFlags[TableKind]("TABLE_NO_KEY")
	KeyWithSIS   = NewFlags[TableKind]("KEY_WITH_SIS")
	KeyNormalize = NewFlags[TableKind]("KEY_NORMALIZE")
	TableView    = NewFlags[TableKind]("TABLE_VIEW")
	Persistent   = NewFlags[TableKind]("PERSISTENT")
)

// Column flags.
var (
	ColumnScalar = NewFlags[ColumnKind]("COLUMN_SCALAR")
	ColumnVector = NewFlags[ColumnKind]("COLUMN_VECTOR")
	ColumnIndex  = NewFlags[ColumnKind]("COLUMN_INDEX")
	WithSection  = NewFlags[ColumnKind]("WITH_SECTION")
	WithWeight   = NewFlags[ColumnKind]("WITH_WEIGHT")
	WithPosition = NewFlags[ColumnKind]("WITH_POSITION")
	RingBuffer   = NewFlags[ColumnKind]("RING_BUFFER")
)

// Suggestion types.
var (
	SuggestComplete = NewFlags[SuggestKind]("complete")
	SuggestCorrect  = NewFlags[SuggestKind]("correct")
	SuggestSuggest  = NewFlags[SuggestKind]("suggest")
)

// ParseTableFlags parses "TABLE_PAT_KEY|KEY_NORMALIZE".
func ParseTableFlags(s string) (TableFlags, error) {
	return parseFlags[TableKind](s)
}

// ParseColumnFlags parses "COLUMN_INDEX|WITH_POSITION".
func ParseColumnFlags(s string) (ColumnFlags, error) {
	return parseFlags[ColumnKind](s)
}

// ParseSuggestTypes parses "complete|correct".
func ParseSuggestTypes(s string) (SuggestTypes, error) {
	return parseFlags[SuggestKind](s)
}
