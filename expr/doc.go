// Package expr builds Groonga expressions and renders them in the three
// syntaxes accepted by the select command.
//
// An expression is a tree of *Node values. Leaves wrap either a literal value
// or a column reference; inner nodes hold an Operator and one or two operands.
// Operator methods never modify their receiver, they return a new tree:
//
//	title := expr.Col("title")
//	cond := title.Eq("Groonga").Or(expr.Col("n_likes").Ge(10))
//
// # Dialects
//
// The same tree renders differently depending on where it is used:
//   - MatchColumns: the --match_columns option. Only OR and MUL are defined.
//   - Query: the --query option. Comparison, OR, AND and SUB are defined.
//   - Filter: the --filter option. Every operator is defined, plus function calls.
//
// Rendering an operator a dialect does not define returns an error wrapping
// ErrUnsupportedOperator:
//
//	s, err := expr.Filter.Render(cond) // ((title == "Groonga") || (n_likes >= 10))
//	_, err = expr.MatchColumns.Render(cond) // operator EQUAL is not defined in match_columns
//
// Binary nodes always render parenthesized as (left TOKEN right). Unary
// nodes (Not, Invert) render as TOKEN operand.
//
// # Literals
//
// The filter dialect renders true, false and nil as bare true, false and null,
// time.Time as a quoted "YYYY/MM/DD HH:MM:SS.ffffff" string, orb.Point as a
// quoted "<lat>x<lng>" geo point, numbers bare and strings always quoted.
// The query and match_columns dialects quote text only when it contains
// whitespace. Escaping always replaces backslash, newline and double quote.
//
// # JSON
//
// Trees can be encoded to and decoded from JSON with Node.MarshalJSON and
// ParseJSON, which lets callers pass structured filters across process
// boundaries.
package expr
