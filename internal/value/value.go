// internal/value/value.go
package value

import (
	"math"
	"strconv"
)

// Kind names the runtime category of a Value.
type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindBool   Kind = "boolean"
	KindNull   Kind = "null"
)

// Value is a runtime datum. The concrete types are String, Number, Bool and
// Null; all of them are comparable, so two Values are equal in the language
// exactly when they are == in Go.
type Value interface {
	Kind() Kind
	String() string
}

type String string

func (String) Kind() Kind       { return KindString }
func (s String) String() string { return string(s) }

type Number float64

func (Number) Kind() Kind { return KindNumber }

// String renders the shortest decimal form, so integral numbers print
// without a fractional part.
func (n Number) String() string {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

type Null struct{}

func (Null) Kind() Kind     { return KindNull }
func (Null) String() string { return "null" }

// Truthy maps any value to a boolean for conditions and logical operators.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil, Null:
		return false
	case Bool:
		return bool(v)
	case String:
		return v != ""
	case Number:
		return v != 0
	}
	return true
}

// Equal is total over values: kinds never compare equal to each other and
// numbers follow IEEE-754, so NaN is not equal to itself.
func Equal(a, b Value) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}
	return a == b
}

// Display is the text print writes for a value.
func Display(v Value) string {
	if v == nil {
		return Null{}.String()
	}
	return v.String()
}

// KindOf is like v.Kind but treats a nil interface as null.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}
