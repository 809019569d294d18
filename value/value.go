// Package value implements the dynamic tagged value used throughout the
// archetype interpreter: the answers inputs resolve to, preset payloads,
// variable bindings and expression operands are all a Value.
package value

import (
	"strconv"
	"strings"
)

// Kind tags the concrete variant carried by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	String
	StringList
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Int:
		return "int"
	case String:
		return "string"
	case StringList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a sum type over Null, Bool, Int, String and StringList.
type Value struct {
	kind Kind
	b    bool
	n    int
	s    string
	xs   []string
}

// NullValue is the singular null value.
var NullValue = Value{kind: Null}

// NewBool wraps a bool.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewInt wraps an int.
func NewInt(n int) Value { return Value{kind: Int, n: n} }

// NewString wraps a string.
func NewString(s string) Value { return Value{kind: String, s: s} }

// NewStringList wraps a string slice, preserving insertion order (spec.md
// §9: do not sort).
func NewStringList(xs []string) Value {
	cp := make([]string, len(xs))
	copy(cp, xs)
	return Value{kind: StringList, xs: cp}
}

// ParseStringList parses a comma-separated string into a StringList,
// trimming whitespace, dropping empty entries. The literal "none" yields
// the empty list.
func ParseStringList(raw string) Value {
	if strings.TrimSpace(raw) == "none" {
		return NewStringList(nil)
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return NewStringList(out)
}

// ParseBool parses the boolean literal vocabulary accepted by the
// interpreter: true/yes/y/on vs false/no/n/off, case-insensitive.
func ParseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y", "on":
		return true, true
	case "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

// IsNull reports whether the value is the null variant.
func (v Value) IsNull() bool { return v.kind == Null }

// Type returns the value's runtime kind.
func (v Value) Type() Kind { return v.kind }

// AsBool coerces the value to bool.
func (v Value) AsBool() (bool, error) {
	switch v.kind {
	case Bool:
		return v.b, nil
	case String:
		if b, ok := ParseBool(v.s); ok {
			return b, nil
		}
	}
	return false, &TypeError{From: v.kind, To: Bool}
}

// AsInt coerces the value to int.
func (v Value) AsInt() (int, error) {
	switch v.kind {
	case Int:
		return v.n, nil
	}
	return 0, &TypeError{From: v.kind, To: Int}
}

// AsString coerces the value to its string form.
func (v Value) AsString() (string, error) {
	switch v.kind {
	case String:
		return v.s, nil
	case Bool:
		if v.b {
			return "true", nil
		}
		return "false", nil
	case Int:
		return strconv.Itoa(v.n), nil
	case StringList:
		if len(v.xs) == 1 {
			return v.xs[0], nil
		}
	}
	return "", &TypeError{From: v.kind, To: String}
}

// AsList coerces the value to a string list. A single String coerces to a
// one-element list, which lets Contains take a plain string as its left
// operand.
func (v Value) AsList() ([]string, error) {
	switch v.kind {
	case StringList:
		out := make([]string, len(v.xs))
		copy(out, v.xs)
		return out, nil
	case String:
		return []string{v.s}, nil
	}
	return nil, &TypeError{From: v.kind, To: StringList}
}

// Equal implements value-identity equality: cross-type comparisons are
// false, except a String matching a single-element StringList.
func Equal(a, b Value) bool {
	if a.kind == b.kind {
		switch a.kind {
		case Null:
			return true
		case Bool:
			return a.b == b.b
		case Int:
			return a.n == b.n
		case String:
			return a.s == b.s
		case StringList:
			return equalSlices(a.xs, b.xs)
		}
	}
	if a.kind == String && b.kind == StringList {
		return len(b.xs) == 1 && b.xs[0] == a.s
	}
	if a.kind == StringList && b.kind == String {
		return len(a.xs) == 1 && a.xs[0] == b.s
	}
	return false
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Contains implements the `contains` operator: if b is a list, tests
// list-subset of a; otherwise tests membership of b's string form in a's
// list form.
func Contains(a, b Value) (bool, error) {
	aList, err := a.AsList()
	if err != nil {
		return false, err
	}
	if b.kind == StringList {
		bList, err := b.AsList()
		if err != nil {
			return false, err
		}
		for _, want := range bList {
			if !sliceContains(aList, want) {
				return false, nil
			}
		}
		return true, nil
	}
	s, err := b.AsString()
	if err != nil {
		return false, err
	}
	return sliceContains(aList, s), nil
}

func sliceContains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
