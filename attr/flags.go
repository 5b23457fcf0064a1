// Package attr defines the named constants used in Groonga commands:
// table and column flags, data types, tokenizers, normalizers, log levels
// and suggestion types.
//
// Flag families are distinct Go types. Combining a table flag with a
// column flag does not compile:
//
//	flags := attr.TableHashKey.Union(attr.Persistent) // TABLE_HASH_KEY|PERSISTENT
//	flags.ContainsAll(attr.Persistent)                // true
package attr

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrFlagsType is returned when a value cannot be converted into a flag set
// of the requested family.
var ErrFlagsType = errors.New("flags must be a Symbol, a list of Symbols or a flag set of the same kind")

// Symbol is an immutable named constant. Its string form is its name.
type Symbol string

// String returns the symbol name.
func (s Symbol) String() string {
	return string(s)
}

// Kind identifies a flag family. Implementations are zero-size marker types.
type Kind interface {
	// Name is the family name used in error messages.
	Name() string
	// Members lists every symbol that belongs to the family.
	Members() []Symbol
}

// Flags is an ordered set of symbols of one family.
// The zero value is an empty set.
type Flags[K Kind] struct {
	syms []Symbol
}

// NewFlags creates a flag set from symbols. Duplicates are dropped,
// first occurrence wins.
func NewFlags[K Kind](syms ...Symbol) Flags[K] {
	f := Flags[K]{syms: make([]Symbol, 0, len(syms))}
	for _, s := range syms {
		if !slices.Contains(f.syms, s) {
			f.syms = append(f.syms, s)
		}
	}
	return f
}

// FlagsOf converts v into a flag set of family K.
// Accepted values are a Symbol, a []Symbol or a Flags[K]. Anything else,
// including a plain string, fails with ErrFlagsType. Symbols that are not
// members of K are rejected as well.
func FlagsOf[K Kind](v any) (Flags[K], error) {
	var kind K
	var syms []Symbol

	switch val := v.(type) {
	case Flags[K]:
		return val, nil
	case Symbol:
		syms = []Symbol{val}
	case []Symbol:
		syms = val
	default:
		return Flags[K]{}, fmt.Errorf("%w: got %T for %s", ErrFlagsType, v, kind.Name())
	}

	members := kind.Members()
	for _, s := range syms {
		if !slices.Contains(members, s) {
			return Flags[K]{}, fmt.Errorf("%w: %q is not a %s", ErrFlagsType, s, kind.Name())
		}
	}
	return NewFlags[K](syms...), nil
}

// ContainsAll reports whether every symbol of other is in f.
func (f Flags[K]) ContainsAll(other Flags[K]) bool {
	for _, s := range other.syms {
		if !slices.Contains(f.syms, s) {
			return false
		}
	}
	return true
}

// Union returns a new set holding the symbols of f followed by the
// symbols of other that f lacks.
func (f Flags[K]) Union(other Flags[K]) Flags[K] {
	merged := make([]Symbol, 0, len(f.syms)+len(other.syms))
	merged = append(merged, f.syms...)
	merged = append(merged, other.syms...)
	return NewFlags[K](merged...)
}

// Symbols returns a copy of the members in order.
func (f Flags[K]) Symbols() []Symbol {
	return slices.Clone(f.syms)
}

// Len returns the number of symbols.
func (f Flags[K]) Len() int {
	return len(f.syms)
}

// IsZero reports whether the set is empty.
func (f Flags[K]) IsZero() bool {
	return len(f.syms) == 0
}

// String joins the symbol names with "|".
func (f Flags[K]) String() string {
	parts := make([]string, len(f.syms))
	for i, s := range f.syms {
		parts[i] = string(s)
	}
	return strings.Join(parts, "|")
}

// parseFlags parses a "A|B|C" string into a flag set of family K.
func parseFlags[K Kind](s string) (Flags[K], error) {
	var syms []Symbol
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		syms = append(syms, Symbol(part))
	}
	if len(syms) == 0 {
		var kind K
		return Flags[K]{}, fmt.Errorf("%w: empty %s", ErrFlagsType, kind.Name())
	}
	return FlagsOf[K](syms)
}
