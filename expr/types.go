package expr

// Operator identifies the operation of an inner node.
type Operator string

const (
	// Comparison operators
	OpEqual        Operator = "EQUAL"
	OpGreaterEqual Operator = "GREATER_EQUAL"
	OpGreaterThan  Operator = "GREATER_THAN"
	OpLessEqual    Operator = "LESS_EQUAL"
	OpLessThan     Operator = "LESS_THAN"
	OpNotEqual     Operator = "NOT_EQUAL"

	// Logical operators
	OpOr     Operator = "OR"
	OpAnd    Operator = "AND"
	OpNot    Operator = "NOT"
	OpDiff   Operator = "DIFF"
	OpInvert Operator = "INVERT"

	// Bitwise operators
	OpBitAnd Operator = "BIT_AND"
	OpBitOr  Operator = "BIT_OR"
	OpBitXor Operator = "BIT_XOR"
	OpLshift Operator = "LSHIFT"
	OpRshift Operator = "RSHIFT"

	// Arithmetic operators
	OpAdd Operator = "ADD"
	OpSub Operator = "SUB"
	OpMul Operator = "MUL"
	OpDiv Operator = "DIV"
	OpMod Operator = "MOD"

	// Compound assignment operators
	OpIAdd    Operator = "IADD"
	OpISub    Operator = "ISUB"
	OpIMul    Operator = "IMUL"
	OpIDiv    Operator = "IDIV"
	OpIMod    Operator = "IMOD"
	OpILshift Operator = "ILSHIFT"
	OpIRshift Operator = "IRSHIFT"
	OpIBitAnd Operator = "IBIT_AND"
	OpIBitOr  Operator = "IBIT_OR"
	OpIBitXor Operator = "IBIT_XOR"

	// Text match operators
	OpMatch       Operator = "MATCH"
	OpStartsWith  Operator = "STARTSWITH"
	OpEndsWith    Operator = "ENDSWITH"
	OpNear        Operator = "NEAR"
	OpSimilar     Operator = "SIMILAR"
	OpTermExtract Operator = "TERM_EXTRACT"
)

// Operators lists every operator in declaration order.
var Operators = []Operator{
	OpEqual, OpGreaterEqual, OpGreaterThan, OpLessEqual, OpLessThan, OpNotEqual,
	OpOr, OpAnd, OpNot, OpDiff, OpInvert,
	OpBitAnd, OpBitOr, OpBitXor, OpLshift, OpRshift,
	OpAdd, OpSub, OpMul, OpDiv, OpMod,
	OpIAdd, OpISub, OpIMul, OpIDiv, OpIMod, OpILshift, OpIRshift, OpIBitAnd, OpIBitOr, OpIBitXor,
	OpMatch, OpStartsWith, OpEndsWith, OpNear, OpSimilar, OpTermExtract,
}

// Unary reports whether op takes a single operand.
func (op Operator) Unary() bool {
	return op == OpNot || op == OpInvert
}

// Kind is the variant of a Node.
type Kind uint8

const (
	KindValue Kind = iota
	KindColumn
	KindBinary
	KindUnary
	KindCall
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindColumn:
		return "column"
	case KindBinary:
		return "binary"
	case KindUnary:
		return "unary"
	case KindCall:
		return "call"
	default:
		return "unknown"
	}
}

func parseKind(s string) (Kind, bool) {
	for k := KindValue; k <= KindCall; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}
