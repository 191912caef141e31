package main

import "strconv"

// Environment is one frame of variable bindings. Frames are shared by
// pointer between closures, bound methods and the running code.
type Environment struct {
	values    map[string]Value
	enclosing *Environment
}

// NewEnvironment creates a frame whose parent is enclosing. A nil enclosing
// makes a global frame.
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{values: map[string]Value{}, enclosing: enclosing}
}

// Define binds name in this frame, replacing any existing binding.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get looks name up from this frame outward.
func (e *Environment) Get(name Token) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if value, ok := env.values[name.Lexeme]; ok {
			return value, nil
		}
	}
	return nil, runtimeErrorf(name, "undefined variable '%s'", name.Lexeme)
}

// Assign updates the nearest existing binding of name. It never creates one.
func (e *Environment) Assign(name Token, value Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = value
			return nil
		}
	}
	return runtimeErrorf(name, "undefined variable '%s'", name.Lexeme)
}

// Ancestor returns the frame distance hops out.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		if env.enclosing == nil {
			panic(InternalError{Message: "no frame at distance " + strconv.Itoa(distance)})
		}
		env = env.enclosing
	}
	return env
}

// GetAt reads name from exactly the frame distance hops out.
func (e *Environment) GetAt(distance int, name string) Value {
	value, ok := e.Ancestor(distance).values[name]
	if !ok {
		panic(InternalError{Message: "'" + name + "' not bound at distance " + strconv.Itoa(distance)})
	}
	return value
}

// AssignAt writes name in exactly the frame distance hops out.
func (e *Environment) AssignAt(distance int, name string, value Value) {
	env := e.Ancestor(distance)
	if _, ok := env.values[name]; !ok {
		panic(InternalError{Message: "'" + name + "' not bound at distance " + strconv.Itoa(distance)})
	}
	env.values[name] = value
}
