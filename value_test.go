package main

import (
	"math"
	"testing"

	"github.com/nalgeon/be"
)

func TestStringify(t *testing.T) {
	fn := &Function{Declaration: &ASTNode{Kind: NodeFunction, Token: ident("area")}}
	class := &Class{Name: "Shape", Methods: map[string]*Function{}}

	tests := []struct {
		value    Value
		expected string
	}{
		{nil, "none"},
		{Nil{}, "none"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Number(3), "3"},
		{Number(-0.5), "-0.5"},
		{Number(math.Copysign(0, -1)), "0"},
		{Number(1e21), "1000000000000000000000"},
		{Number(math.Inf(1)), "Infinity"},
		{Number(math.Inf(-1)), "-Infinity"},
		{Number(math.NaN()), "NaN"},
		{String(""), ""},
		{String("a b"), "a b"},
		{&NativeFunction{Name: "clock"}, "<native fn>"},
		{fn, "<fn area>"},
		{class, "Shape"},
		{&Instance{Class: class, Fields: map[string]Value{}}, "Shape instance"},
	}

	for _, tt := range tests {
		be.Equal(t, Stringify(tt.value), tt.expected)
	}
}

func TestIsTruthy(t *testing.T) {
	be.Equal(t, IsTruthy(nil), false)
	be.Equal(t, IsTruthy(Nil{}), false)
	be.Equal(t, IsTruthy(Bool(false)), false)
	be.Equal(t, IsTruthy(Bool(true)), true)
	be.Equal(t, IsTruthy(Number(0)), true)
	be.Equal(t, IsTruthy(String("")), true)
	be.Equal(t, IsTruthy(&NativeFunction{}), true)
}

func TestIsEqual(t *testing.T) {
	a := &Instance{}
	b := &Instance{}

	be.Equal(t, IsEqual(Nil{}, Nil{}), true)
	be.Equal(t, IsEqual(nil, Nil{}), true)
	be.Equal(t, IsEqual(Nil{}, Bool(false)), false)
	be.Equal(t, IsEqual(Number(1), Number(1)), true)
	be.Equal(t, IsEqual(Number(1), String("1")), false)
	be.Equal(t, IsEqual(String("x"), String("x")), true)
	be.Equal(t, IsEqual(Number(math.NaN()), Number(math.NaN())), false)
	be.Equal(t, IsEqual(a, a), true)
	be.Equal(t, IsEqual(a, b), false)
}
