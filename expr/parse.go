package expr

import (
	"bytes"
	"fmt"
	"slices"
	"time"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb"
)

// rawNode is the JSON form of a Node.
type rawNode struct {
	Kind   string            `json:"kind"`
	Op     Operator          `json:"op,omitempty"`
	Left   json.RawMessage   `json:"left,omitempty"`
	Right  json.RawMessage   `json:"right,omitempty"`
	Name   string            `json:"name,omitempty"`
	Type   string            `json:"type,omitempty"`
	Value  json.RawMessage   `json:"value,omitempty"`
	Args   []json.RawMessage `json:"args,omitempty"`
	Weight int               `json:"weight,omitempty"`
	Desc   bool              `json:"desc,omitempty"`
}

// Value type tags for literals JSON cannot express directly.
const (
	valueTypeTime = "time"
	valueTypeGeo  = "geo"
)

// MarshalJSON encodes the tree.
func (n *Node) MarshalJSON() ([]byte, error) {
	raw := rawNode{
		Kind:   n.kind.String(),
		Op:     n.op,
		Name:   n.name,
		Weight: n.weight,
		Desc:   n.desc,
	}

	var err error
	if n.left != nil {
		if raw.Left, err = n.left.MarshalJSON(); err != nil {
			return nil, err
		}
	}
	if n.right != nil {
		if raw.Right, err = n.right.MarshalJSON(); err != nil {
			return nil, err
		}
	}
	for _, a := range n.args {
		b, err := a.MarshalJSON()
		if err != nil {
			return nil, err
		}
		raw.Args = append(raw.Args, b)
	}

	if n.kind == KindValue {
		v := n.value
		switch val := v.(type) {
		case time.Time:
			raw.Type = valueTypeTime
			v = val.Format(time.RFC3339Nano)
		case orb.Point:
			raw.Type = valueTypeGeo
			v = FormatGeoPoint(val)
		}
		if raw.Value, err = json.Marshal(v); err != nil {
			return nil, fmt.Errorf("expr: cannot encode value %T: %w", n.value, err)
		}
	}

	return json.Marshal(raw)
}

// ParseJSON decodes a tree produced by Node.MarshalJSON.
//
// Error conditions:
//   - Invalid JSON syntax
//   - Unknown node kind or operator
//   - Missing operands
func ParseJSON(data []byte) (*Node, error) {
	n, err := parseNode(data)
	if err != nil {
		return nil, fmt.Errorf("expr: %w", err)
	}
	return n, nil
}

func parseNode(data []byte) (*Node, error) {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid node: %w", err)
	}

	kind, ok := parseKind(raw.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown node kind %q", raw.Kind)
	}

	switch kind {
	case KindColumn:
		if raw.Name == "" {
			return nil, fmt.Errorf("column node without name")
		}
		return &Node{kind: KindColumn, name: raw.Name, weight: raw.Weight, desc: raw.Desc}, nil

	case KindValue:
		v, err := parseValue(raw.Type, raw.Value)
		if err != nil {
			return nil, err
		}
		n := Value(v)
		n.weight = raw.Weight
		return n, nil

	case KindCall:
		if raw.Name == "" {
			return nil, fmt.Errorf("call node without name")
		}
		n := &Node{kind: KindCall, name: raw.Name, args: make([]*Node, 0, len(raw.Args))}
		for i, a := range raw.Args {
			arg, err := parseNode(a)
			if err != nil {
				return nil, fmt.Errorf("invalid argument %d of %s: %w", i, raw.Name, err)
			}
			n.args = append(n.args, arg)
		}
		return n, nil

	case KindUnary, KindBinary:
		if !knownOperator(raw.Op) {
			return nil, fmt.Errorf("unknown operator %q", raw.Op)
		}
		if len(raw.Right) == 0 {
			return nil, fmt.Errorf("%s node without right operand", raw.Op)
		}
		right, err := parseNode(raw.Right)
		if err != nil {
			return nil, fmt.Errorf("invalid right operand: %w", err)
		}
		if kind == KindUnary {
			return unary(raw.Op, right), nil
		}
		if len(raw.Left) == 0 {
			return nil, fmt.Errorf("%s node without left operand", raw.Op)
		}
		left, err := parseNode(raw.Left)
		if err != nil {
			return nil, fmt.Errorf("invalid left operand: %w", err)
		}
		return binary(raw.Op, left, right), nil
	}

	return nil, fmt.Errorf("unknown node kind %q", raw.Kind)
}

func parseValue(typ string, data json.RawMessage) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}

	switch typ {
	case "":
		return normalizeNumber(v), nil
	case valueTypeTime:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("time value must be a string, got %T", v)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("invalid time value: %w", err)
		}
		return t, nil
	case valueTypeGeo:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("geo value must be a string, got %T", v)
		}
		return ParseGeoPoint(s)
	default:
		return nil, fmt.Errorf("unknown value type %q", typ)
	}
}

// normalizeNumber converts json.Number into int64 when integral, float64 otherwise.
func normalizeNumber(v any) any {
	num, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := num.Int64(); err == nil {
		return i
	}
	if f, err := num.Float64(); err == nil {
		return f
	}
	return num.String()
}

func knownOperator(op Operator) bool {
	return slices.Contains(Operators, op)
}
