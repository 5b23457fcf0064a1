package catalog

import "github.com/hugr-lab/groonga-go/attr"

// Tables of the suggest plugin schema.
const (
	SuggestEventType     = "event_type"
	SuggestBigram        = "bigram"
	SuggestPairQuery     = "pair_query"
	SuggestItemQuery     = "item_query"
	SuggestKana          = "kana"
	SuggestSequenceQuery = "sequence_query"
	SuggestEventQuery    = "event_query"
)

// SuggestPreparer is the --each expression used when loading learning
// events into event_query.
const SuggestPreparer = "suggest_preparer(_id, type, item, sequence, time, pair_query)"

// NewSuggestBase returns a registry holding the seven tables the suggest
// plugin expects, in creation order.
func NewSuggestBase() *Base {
	b := &Base{name: "suggest", suggest: true}

	b.Table(SuggestEventType).
		KeyType(attr.ShortText).
		MustDefine()

	b.Table(SuggestBigram).
		Flags(attr.TablePatKey).
		KeyType(attr.ShortText).
		DefaultTokenizer(attr.TokenBigram).
		Column(NewIndex("item_query_key", SuggestItemQuery, ColumnKey,
			WithFlags(attr.ColumnIndex.Union(attr.WithPosition)))).
		MustDefine()

	b.Table(SuggestPairQuery).
		KeyType(attr.UInt64).
		Column(
			NewReference("pre", SuggestItemQuery),
			NewReference("post", SuggestItemQuery),
			NewColumn("freq0", attr.Int32),
			NewColumn("freq1", attr.Int32),
			NewColumn("freq2", attr.Int32),
		).
		MustDefine()

	b.Table(SuggestItemQuery).
		Flags(attr.TablePatKey).
		KeyType(attr.ShortText).
		DefaultTokenizer(attr.TokenDelimit).
		Column(
			NewReference("kana", SuggestKana, WithFlags(attr.ColumnVector)),
			NewColumn("freq", attr.Int32),
			NewColumn("last", attr.Time),
			NewColumn("boost", attr.Int32),
			NewColumn("freq2", attr.Int32),
			NewColumn("buzz", attr.Int32),
			NewIndex("co", SuggestPairQuery, "pre"),
		).
		MustDefine()

	b.Table(SuggestKana).
		Flags(attr.TablePatKey).
		KeyType(attr.ShortText).
		Column(NewIndex("item_query_kana", SuggestItemQuery, "kana")).
		MustDefine()

	b.Table(SuggestSequenceQuery).
		KeyType(attr.ShortText).
		Column(NewReference("events", SuggestEventQuery,
			WithFlags(attr.ColumnVector.Union(attr.RingBuffer)))).
		MustDefine()

	b.Table(SuggestEventQuery).
		Flags(attr.TableNoKey).
		Column(
			NewReference("type", SuggestEventType),
			NewColumn("time", attr.Time),
			NewReference("item", SuggestItemQuery),
			NewReference("sequence", SuggestSequenceQuery),
		).
		MustDefine()

	return b
}
