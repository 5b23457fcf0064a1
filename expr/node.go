package expr

import "slices"

// DefaultWeight is the weight of a match column that renders without a
// multiplier.
const DefaultWeight = 1

// Expression is implemented by anything that can stand for an expression
// tree. *Node implements it, and so does every type embedding *Node.
type Expression interface {
	Expr() *Node
}

// Node is a single expression tree node. Nodes are immutable once built.
type Node struct {
	kind   Kind
	op     Operator
	left   *Node
	right  *Node
	value  any
	name   string
	args   []*Node
	weight int
	desc   bool
}

// Value returns a leaf holding a literal.
func Value(v any) *Node {
	return &Node{kind: KindValue, value: v}
}

// Col returns a leaf referencing a column by name.
func Col(name string) *Node {
	return &Node{kind: KindColumn, name: name}
}

// Call returns a function call node. Arguments are wrapped like right
// operands. Only the filter dialect renders calls.
func Call(name string, args ...any) *Node {
	n := &Node{kind: KindCall, name: name, args: make([]*Node, len(args))}
	for i, a := range args {
		n.args[i] = Wrap(a)
	}
	return n
}

// Wrap turns v into a node. Expressions are returned as is, anything else
// becomes a value leaf.
func Wrap(v any) *Node {
	switch e := v.(type) {
	case *Node:
		if e == nil {
			return Value(nil)
		}
		return e
	case Expression:
		if n := e.Expr(); n != nil {
			return n
		}
		return Value(nil)
	default:
		return Value(v)
	}
}

// Expr implements Expression.
func (n *Node) Expr() *Node { return n }

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Op returns the operator of a binary or unary node.
func (n *Node) Op() Operator { return n.op }

// Left returns the left operand; nil for unary nodes and leaves.
func (n *Node) Left() *Node { return n.left }

// Right returns the right operand.
func (n *Node) Right() *Node { return n.right }

// Value returns the literal of a value leaf.
func (n *Node) Value() any { return n.value }

// Name returns the column name of a column leaf or the function name of a call.
func (n *Node) Name() string { return n.name }

// Args returns the arguments of a call node.
func (n *Node) Args() []*Node { return slices.Clone(n.args) }

// Weight returns the match column weight; DefaultWeight when unset.
func (n *Node) Weight() int {
	if n.weight == 0 {
		return DefaultWeight
	}
	return n.weight
}

// Descending reports whether the column sorts in descending order.
func (n *Node) Descending() bool { return n.desc }

// IsLeaf reports whether n is a value or column leaf.
func (n *Node) IsLeaf() bool {
	return n.kind == KindValue || n.kind == KindColumn
}

// Desc returns a copy of the leaf marked for descending sort.
func (n *Node) Desc() *Node {
	c := *n
	c.desc = true
	return &c
}

// Asc returns a copy of the leaf marked for ascending sort.
func (n *Node) Asc() *Node {
	c := *n
	c.desc = false
	return &c
}

// Weighted returns a copy of the leaf with a match column weight.
func (n *Node) Weighted(w int) *Node {
	c := *n
	c.weight = w
	return &c
}

// SortKey returns the sort key form used by --sortby: the column name,
// prefixed with "-" when descending.
func (n *Node) SortKey() string {
	if n.desc {
		return "-" + n.name
	}
	return n.name
}

func binary(op Operator, left *Node, right any) *Node {
	return &Node{kind: KindBinary, op: op, left: left, right: Wrap(right)}
}

func unary(op Operator, operand *Node) *Node {
	return &Node{kind: KindUnary, op: op, right: operand}
}

// Not returns the logical negation of e.
func Not(e Expression) *Node { return unary(OpNot, Wrap(e)) }

// Invert returns the bitwise inversion of e.
func Invert(e Expression) *Node { return unary(OpInvert, Wrap(e)) }

// Eq returns n == v.
func (n *Node) Eq(v any) *Node { return binary(OpEqual, n, v) }

// Ge returns n >= v.
func (n *Node) Ge(v any) *Node { return binary(OpGreaterEqual, n, v) }

// Gt returns n > v.
func (n *Node) Gt(v any) *Node { return binary(OpGreaterThan, n, v) }

// Le returns n <= v.
func (n *Node) Le(v any) *Node { return binary(OpLessEqual, n, v) }

// Lt returns n < v.
func (n *Node) Lt(v any) *Node { return binary(OpLessThan, n, v) }

// Ne returns n != v.
func (n *Node) Ne(v any) *Node { return binary(OpNotEqual, n, v) }

// Or returns the logical or of n and v.
func (n *Node) Or(v any) *Node { return binary(OpOr, n, v) }

// And returns the logical and of n and v.
func (n *Node) And(v any) *Node { return binary(OpAnd, n, v) }

// Diff returns the records matching n but not v (&!).
func (n *Node) Diff(v any) *Node { return binary(OpDiff, n, v) }

// Not returns the logical negation of n.
func (n *Node) Not() *Node { return unary(OpNot, n) }

// Invert returns the bitwise inversion of n.
func (n *Node) Invert() *Node { return unary(OpInvert, n) }

// BitAnd returns n & v.
func (n *Node) BitAnd(v any) *Node { return binary(OpBitAnd, n, v) }

// BitOr returns n | v.
func (n *Node) BitOr(v any) *Node { return binary(OpBitOr, n, v) }

// BitXor returns n ^ v.
func (n *Node) BitXor(v any) *Node { return binary(OpBitXor, n, v) }

// Lshift returns n << v.
func (n *Node) Lshift(v any) *Node { return binary(OpLshift, n, v) }

// Rshift returns n >>> v.
func (n *Node) Rshift(v any) *Node { return binary(OpRshift, n, v) }

// Add returns n + v.
func (n *Node) Add(v any) *Node { return binary(OpAdd, n, v) }

// Sub returns n - v.
func (n *Node) Sub(v any) *Node { return binary(OpSub, n, v) }

// Mul returns n * v.
func (n *Node) Mul(v any) *Node { return binary(OpMul, n, v) }

// Div returns n / v.
func (n *Node) Div(v any) *Node { return binary(OpDiv, n, v) }

// Mod returns n % v.
func (n *Node) Mod(v any) *Node { return binary(OpMod, n, v) }

// IAdd returns the assignment n += v.
func (n *Node) IAdd(v any) *Node { return binary(OpIAdd, n, v) }

// ISub returns the assignment n -= v.
func (n *Node) ISub(v any) *Node { return binary(OpISub, n, v) }

// IMul returns the assignment n *= v.
func (n *Node) IMul(v any) *Node { return binary(OpIMul, n, v) }

// IDiv returns the assignment n /= v.
func (n *Node) IDiv(v any) *Node { return binary(OpIDiv, n, v) }

// IMod returns the assignment n %= v.
func (n *Node) IMod(v any) *Node { return binary(OpIMod, n, v) }

// ILshift returns the assignment n <<= v.
func (n *Node) ILshift(v any) *Node { return binary(OpILshift, n, v) }

// IRshift returns the assignment n >>>= v.
func (n *Node) IRshift(v any) *Node { return binary(OpIRshift, n, v) }

// IBitAnd returns the assignment n &= v.
func (n *Node) IBitAnd(v any) *Node { return binary(OpIBitAnd, n, v) }

// IBitOr returns the assignment n |= v.
func (n *Node) IBitOr(v any) *Node { return binary(OpIBitOr, n, v) }

// IBitXor returns the assignment n ^= v.
func (n *Node) IBitXor(v any) *Node { return binary(OpIBitXor, n, v) }

// Match returns the full text match n @ v.
func (n *Node) Match(v any) *Node { return binary(OpMatch, n, v) }

// StartsWith returns the prefix match n @^ v.
func (n *Node) StartsWith(v any) *Node { return binary(OpStartsWith, n, v) }

// EndsWith returns the suffix match n @$ v.
func (n *Node) EndsWith(v any) *Node { return binary(OpEndsWith, n, v) }

// Near returns the proximity search n *N v.
func (n *Node) Near(v any) *Node { return binary(OpNear, n, v) }

// Similar returns the similar search n *S v.
func (n *Node) Similar(v any) *Node { return binary(OpSimilar, n, v) }

// TermExtract returns the term extraction n *T v.
func (n *Node) TermExtract(v any) *Node { return binary(OpTermExtract, n, v) }

// Apply builds a node for op. Unary operators ignore right.
func Apply(op Operator, left Expression, right any) *Node {
	if op.Unary() {
		return unary(op, Wrap(left))
	}
	return binary(op, Wrap(left), right)
}
