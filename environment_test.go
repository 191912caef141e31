package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func ident(name string) Token {
	return Token{Type: IDENT, Lexeme: name, Literal: Nil{}, Line: 1}
}

func TestNewEnvironment(t *testing.T) {
	env := NewEnvironment(nil)
	be.True(t, env != nil)
	be.Equal(t, len(env.values), 0)
	be.True(t, env.enclosing == nil)
}

func TestDefineAndGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", Number(1))

	value, err := env.Get(ident("x"))
	be.Err(t, err, nil)
	be.Equal(t, value, Value(Number(1)))
}

func TestDefineReplacesBinding(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", Number(1))
	env.Define("x", String("two"))

	value, err := env.Get(ident("x"))
	be.Err(t, err, nil)
	be.Equal(t, value, Value(String("two")))
	be.Equal(t, len(env.values), 1)
}

func TestGetWalksOutward(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", Number(1))
	inner := NewEnvironment(NewEnvironment(global))

	value, err := inner.Get(ident("x"))
	be.Err(t, err, nil)
	be.Equal(t, value, Value(Number(1)))
}

func TestGetUndefined(t *testing.T) {
	env := NewEnvironment(nil)
	_, err := env.Get(Token{Type: IDENT, Lexeme: "nope", Line: 7})

	runtimeErr, ok := err.(*RuntimeError)
	be.True(t, ok)
	be.Equal(t, runtimeErr.Report(), "undefined variable 'nope'\n[line 7]")
}

func TestAssignUpdatesNearestBinding(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", Number(1))
	middle := NewEnvironment(global)
	middle.Define("x", Number(2))
	inner := NewEnvironment(middle)

	be.Err(t, inner.Assign(ident("x"), Number(3)), nil)
	be.Equal(t, middle.values["x"], Value(Number(3)))
	be.Equal(t, global.values["x"], Value(Number(1)))
	_, ok := inner.values["x"]
	be.Equal(t, ok, false)
}

func TestAssignNeverCreates(t *testing.T) {
	env := NewEnvironment(nil)
	err := env.Assign(ident("x"), Number(1))
	be.True(t, err != nil)
	be.Equal(t, err.Error(), "undefined variable 'x'")
	be.Equal(t, len(env.values), 0)
}

func TestAncestor(t *testing.T) {
	global := NewEnvironment(nil)
	middle := NewEnvironment(global)
	inner := NewEnvironment(middle)

	be.True(t, inner.Ancestor(0) == inner)
	be.True(t, inner.Ancestor(1) == middle)
	be.True(t, inner.Ancestor(2) == global)
}

func TestGetAtIgnoresCloserShadows(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("x", String("outer"))
	inner := NewEnvironment(outer)
	inner.Define("x", String("inner"))

	be.Equal(t, inner.GetAt(0, "x"), Value(String("inner")))
	be.Equal(t, inner.GetAt(1, "x"), Value(String("outer")))
}

func TestAssignAt(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("x", Number(1))
	inner := NewEnvironment(outer)
	inner.Define("x", Number(2))

	inner.AssignAt(1, "x", Number(10))
	be.Equal(t, outer.values["x"], Value(Number(10)))
	be.Equal(t, inner.values["x"], Value(Number(2)))
}

func expectInternalError(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		_, ok := r.(InternalError)
		be.True(t, ok)
	}()
	fn()
}

func TestResolvedAccessPanicsOnMismatch(t *testing.T) {
	env := NewEnvironment(NewEnvironment(nil))

	expectInternalError(t, func() { env.GetAt(0, "missing") })
	expectInternalError(t, func() { env.AssignAt(1, "missing", Nil{}) })
	expectInternalError(t, func() { env.Ancestor(5) })
}
