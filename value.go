package main

import (
	"math"
	"strconv"
)

// Value is any runtime value. The set of implementations is closed:
// Nil, Bool, Number, String, *NativeFunction, *Function, *Class and *Instance.
type Value interface {
	value()
}

type (
	Nil    struct{}
	Bool   bool
	Number float64
	String string
)

func (Nil) value()             {}
func (Bool) value()            {}
func (Number) value()          {}
func (String) value()          {}
func (*NativeFunction) value() {}
func (*Function) value()       {}
func (*Class) value()          {}
func (*Instance) value()       {}

// IsTruthy reports whether v counts as true in a condition. Only nil and
// false are falsy.
func IsTruthy(v Value) bool {
	switch v := v.(type) {
	case nil, Nil:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

// IsEqual compares two values. Numbers, strings and booleans compare by
// value; callables and instances by identity. It never fails.
func IsEqual(a, b Value) bool {
	if a == nil {
		a = Nil{}
	}
	if b == nil {
		b = Nil{}
	}
	return a == b
}

// Stringify returns the text print shows for v.
func Stringify(v Value) string {
	switch v := v.(type) {
	case nil, Nil:
		return "none"
	case Bool:
		if v {
			return "true"
		}
		return "false"
	case Number:
		return formatNumber(float64(v))
	case String:
		return string(v)
	case *NativeFunction:
		return "<native fn>"
	case *Function:
		return "<fn " + v.Declaration.Token.Lexeme + ">"
	case *Class:
		return v.Name
	case *Instance:
		return v.Class.Name + " instance"
	default:
		panic(InternalError{Message: "unknown value type"})
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	case f == 0:
		// Also covers negative zero.
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
