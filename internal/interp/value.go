// Package interp is the tree-walking evaluator: the runtime value model,
// the environment-chain-backed call/class machinery, and the statement and
// expression evaluation rules.
package interp

import (
	"strconv"
)

// Value is any Lox runtime value. Equality is structural for the four
// primitive kinds (Nil, Boolean, Number, String, all Go value types so ==
// already does the right thing) and by identity for Callable/Class/Instance
// (all pointer types, so == on the interface already compares identity).
type Value interface {
	String() string
}

// Nil is Lox's `nil`.
type Nil struct{}

func (Nil) String() string { return "nil" }

// Boolean is Lox's `true`/`false`.
type Boolean bool

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Number is Lox's only numeric type, a 64-bit float.
type Number float64

// String renders the shortest round-tripping decimal; a value with no
// fractional part prints without a trailing ".0".
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// String is a Lox string value.
type String string

func (s String) String() string { return string(s) }

// Truthy implements Lox's truthiness: only Nil and Boolean(false) are
// falsy; every other value, including 0 and "", is truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case Nil:
		return false
	case Boolean:
		return bool(val)
	default:
		return true
	}
}

// Equal implements Lox's `==`: structural equality for primitives, with no
// cross-type coercion (a Number is never equal to a non-Number, etc.), and
// identity for Callable/Class/Instance (which Go's == already gives for
// pointer-backed interface values).
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	default:
		return a == b
	}
}
