package main

// Callable is implemented by values that can appear in call position.
type Callable interface {
	Value
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
}

// NativeFunction is a function implemented in Go.
type NativeFunction struct {
	Name  string
	arity int
	fn    func(in *Interpreter, args []Value) (Value, error)
}

func (f *NativeFunction) Arity() int {
	return f.arity
}

func (f *NativeFunction) Call(in *Interpreter, args []Value) (Value, error) {
	return f.fn(in, args)
}

// Function is a user-defined function or method together with the frame it
// closed over.
type Function struct {
	Declaration   *ASTNode
	Closure       *Environment
	IsInitializer bool
}

func (f *Function) Arity() int {
	return len(f.Declaration.Params)
}

// Bind returns a copy of f whose closure has "this" bound to instance.
// Every call makes a new Function.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{
		Declaration:   f.Declaration,
		Closure:       env,
		IsInitializer: f.IsInitializer,
	}
}

// Call runs the body in a new frame holding the parameters. Initializers
// return the bound instance whatever the body does.
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, param := range f.Declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	result, err := in.executeBlock(f.Declaration.Children, env)
	if err != nil {
		return nil, err
	}

	if f.IsInitializer {
		return f.Closure.GetAt(0, "this"), nil
	}
	if result.returned {
		return result.value, nil
	}
	return Nil{}, nil
}

// Class is a class value. Calling it constructs an instance.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

// FindMethod looks name up in the class and then along its superclass chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	for class := c; class != nil; class = class.Superclass {
		if method, ok := class.Methods[name]; ok {
			return method, true
		}
	}
	return nil, false
}

func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	instance := &Instance{Class: c, Fields: map[string]Value{}}
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(instance).Call(in, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is an object created by calling a class.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// Get reads a property. Fields shadow methods; methods come back bound to i.
func (i *Instance) Get(name Token) (Value, error) {
	if value, ok := i.Fields[name.Lexeme]; ok {
		return value, nil
	}
	if method, ok := i.Class.FindMethod(name.Lexeme); ok {
		return method.Bind(i), nil
	}
	return nil, runtimeErrorf(name, "undefined property '%s'", name.Lexeme)
}

func (i *Instance) Set(name Token, value Value) {
	i.Fields[name.Lexeme] = value
}
