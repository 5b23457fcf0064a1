package expr

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/paulmach/orb"
)

// TimeLayout is the literal form of time values in filter expressions.
const TimeLayout = "2006/01/02 15:04:05.000000"

var (
	// ErrUnsupportedOperator is returned when a dialect has no token for an operator.
	ErrUnsupportedOperator = errors.New("operator not defined for dialect")

	// ErrUnsupportedNode is returned when a dialect cannot render a node kind.
	ErrUnsupportedNode = errors.New("node not supported by dialect")
)

// UnsupportedOperatorError reports the operator and dialect that failed.
type UnsupportedOperatorError struct {
	Op      Operator
	Dialect string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("operator %s is not defined in %s", e.Op, e.Dialect)
}

func (e *UnsupportedOperatorError) Unwrap() error {
	return ErrUnsupportedOperator
}

// Dialect renders expression trees for one command option.
// The package level MatchColumns, Query and Filter values are the only
// dialects Groonga understands.
type Dialect struct {
	name   string
	tokens map[Operator]string
	leaf   func(d *Dialect, n *Node) (string, error)
}

// MatchColumns renders --match_columns values.
var MatchColumns = &Dialect{
	name: "match_columns",
	tokens: map[Operator]string{
		OpOr:  " || ",
		OpMul: " * ",
	},
	leaf: matchColumnsLeaf,
}

// Query renders --query values.
var Query = &Dialect{
	name: "query",
	tokens: map[Operator]string{
		OpEqual:        ":",
		OpGreaterEqual: ":>=",
		OpGreaterThan:  ":>",
		OpLessEqual:    ":<=",
		OpLessThan:     ":<",
		OpNotEqual:     ":!",
		OpBitOr:        " OR ",
		OpBitAnd:       " + ",
		OpSub:          " - ",
	},
	leaf: queryLeaf,
}

// Filter renders --filter values.
var Filter = &Dialect{
	name: "filter",
	tokens: map[Operator]string{
		OpAdd:          " + ",
		OpSub:          " - ",
		OpMul:          " * ",
		OpDiv:          " / ",
		OpMod:          " % ",
		OpNot:          "!",
		OpAnd:          " && ",
		OpOr:           " || ",
		OpDiff:         " &! ",
		OpInvert:       "~",
		OpBitAnd:       " & ",
		OpBitOr:        " | ",
		OpBitXor:       " ^ ",
		OpLshift:       " << ",
		OpRshift:       " >>> ",
		OpEqual:        " == ",
		OpNotEqual:     " != ",
		OpLessThan:     " < ",
		OpLessEqual:    " <= ",
		OpGreaterThan:  " > ",
		OpGreaterEqual: " >= ",
		OpIAdd:         " += ",
		OpISub:         " -= ",
		OpIMul:         " *= ",
		OpIDiv:         " /= ",
		OpIMod:         " %= ",
		OpILshift:      " <<= ",
		OpIRshift:      " >>>= ",
		OpIBitAnd:      " &= ",
		OpIBitOr:       " |= ",
		OpIBitXor:      " ^= ",
		OpMatch:        " @ ",
		OpStartsWith:   " @^ ",
		OpEndsWith:     " @$ ",
		OpNear:         " *N ",
		OpSimilar:      " *S ",
		OpTermExtract:  " *T ",
	},
	leaf: filterLeaf,
}

// Name returns the dialect name.
func (d *Dialect) Name() string { return d.name }

// Token returns the token of op and whether the dialect defines it.
func (d *Dialect) Token(op Operator) (string, bool) {
	tok, ok := d.tokens[op]
	return tok, ok
}

// Render serializes e. A nil expression renders as the empty string.
func (d *Dialect) Render(e Expression) (string, error) {
	if e == nil {
		return "", nil
	}
	return d.render(e.Expr())
}

// Join renders every expression and joins the results with the token of op.
func (d *Dialect) Join(op Operator, exprs ...Expression) (string, error) {
	sep, ok := d.tokens[op]
	if !ok {
		return "", &UnsupportedOperatorError{Op: op, Dialect: d.name}
	}
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		s, err := d.Render(e)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep), nil
}

func (d *Dialect) render(n *Node) (string, error) {
	if n == nil {
		return "", nil
	}

	switch n.kind {
	case KindValue, KindColumn, KindCall:
		return d.leaf(d, n)
	case KindBinary, KindUnary:
		tok, ok := d.tokens[n.op]
		if !ok {
			return "", &UnsupportedOperatorError{Op: n.op, Dialect: d.name}
		}
		right, err := d.render(n.right)
		if err != nil {
			return "", err
		}
		if n.left == nil {
			return tok + right, nil
		}
		left, err := d.render(n.left)
		if err != nil {
			return "", err
		}
		return "(" + left + tok + right + ")", nil
	default:
		return "", fmt.Errorf("%w: %s in %s", ErrUnsupportedNode, n.kind, d.name)
	}
}

func matchColumnsLeaf(d *Dialect, n *Node) (string, error) {
	var s string
	switch n.kind {
	case KindColumn:
		s = n.name
	case KindValue:
		s = formatPlain(n.value)
	default:
		return "", fmt.Errorf("%w: %s in %s", ErrUnsupportedNode, n.kind, d.name)
	}
	if w := n.Weight(); w > DefaultWeight {
		s += " * " + strconv.Itoa(w)
	}
	return s, nil
}

func queryLeaf(d *Dialect, n *Node) (string, error) {
	switch n.kind {
	case KindColumn:
		return n.name, nil
	case KindValue:
		return Escape(formatPlain(n.value), false), nil
	default:
		return "", fmt.Errorf("%w: %s in %s", ErrUnsupportedNode, n.kind, d.name)
	}
}

func filterLeaf(d *Dialect, n *Node) (string, error) {
	switch n.kind {
	case KindColumn:
		return n.name, nil
	case KindCall:
		args := make([]string, len(n.args))
		for i, a := range n.args {
			s, err := d.render(a)
			if err != nil {
				return "", fmt.Errorf("%s argument %d: %w", n.name, i, err)
			}
			args[i] = s
		}
		return n.name + "(" + strings.Join(args, ", ") + ")", nil
	}

	switch v := n.value.(type) {
	case nil:
		return "null", nil
	case bool:
		return strconv.FormatBool(v), nil
	case time.Time:
		return Escape(v.Format(TimeLayout), true), nil
	case *time.Time:
		if v == nil {
			return "null", nil
		}
		return Escape(v.Format(TimeLayout), true), nil
	case orb.Point:
		return Escape(FormatGeoPoint(v), true), nil
	case string:
		return Escape(v, true), nil
	case []byte:
		return Escape(string(v), true), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return formatPlain(v), nil
	case *big.Int:
		return v.String(), nil
	case fmt.Stringer:
		return Escape(v.String(), true), nil
	default:
		return "", fmt.Errorf("%w: value of type %T in %s", ErrUnsupportedNode, v, d.name)
	}
}

// formatPlain renders v without quoting.
func formatPlain(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format(TimeLayout)
	case orb.Point:
		return FormatGeoPoint(val)
	default:
		return fmt.Sprint(val)
	}
}

var escaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, `"`, `\"`)

// Escape escapes backslash, newline and double quote in s. The result is
// wrapped in double quotes when force is set or s contains whitespace.
func Escape(s string, force bool) string {
	escaped := escaper.Replace(s)
	if force || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return `"` + escaped + `"`
	}
	return escaped
}
