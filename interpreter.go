package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Interpreter evaluates resolved programs. Globals persist across calls to
// Interpret, so one Interpreter can run a sequence of prompt lines.
type Interpreter struct {
	globals *Environment
	env     *Environment
	locals  Locals
	out     io.Writer
	logger  *slog.Logger
	start   time.Time
}

// completion is how a statement finished. returned is set when a return
// statement is unwinding to the enclosing call.
type completion struct {
	returned bool
	value    Value
}

// NewInterpreter creates an interpreter printing to out. A nil logger
// disables logging.
func NewInterpreter(out io.Writer, logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	globals := NewEnvironment(nil)
	in := &Interpreter{
		globals: globals,
		env:     globals,
		locals:  Locals{},
		out:     out,
		logger:  logger,
		start:   time.Now(),
	}
	globals.Define("clock", &NativeFunction{
		Name:  "clock",
		arity: 0,
		fn: func(in *Interpreter, args []Value) (Value, error) {
			return Number(time.Since(in.start).Seconds()), nil
		},
	})
	return in
}

// Resolve adds the resolver's results for a program about to be run.
func (in *Interpreter) Resolve(locals Locals) {
	for node, distance := range locals {
		in.locals[node] = distance
	}
}

// Interpret runs program. It stops at the first runtime error and returns
// it as a *RuntimeError.
func (in *Interpreter) Interpret(program []*ASTNode) error {
	for _, stmt := range program {
		if _, err := in.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execute(node *ASTNode) (completion, error) {
	switch node.Kind {
	case NodeBlock:
		return in.executeBlock(node.Children, NewEnvironment(in.env))

	case NodeClass:
		return completion{}, in.executeClass(node)

	case NodeExpression:
		_, err := in.evaluate(node.Children[0])
		return completion{}, err

	case NodeFunction:
		in.env.Define(node.Token.Lexeme, &Function{Declaration: node, Closure: in.env})
		return completion{}, nil

	case NodeIf:
		cond, err := in.evaluate(node.Children[0])
		if err != nil {
			return completion{}, err
		}
		if IsTruthy(cond) {
			return in.execute(node.Children[1])
		}
		if len(node.Children) > 2 {
			return in.execute(node.Children[2])
		}
		return completion{}, nil

	case NodePrint:
		value, err := in.evaluate(node.Children[0])
		if err != nil {
			return completion{}, err
		}
		fmt.Fprintln(in.out, Stringify(value))
		return completion{}, nil

	case NodeReturn:
		var value Value = Nil{}
		if len(node.Children) > 0 {
			var err error
			value, err = in.evaluate(node.Children[0])
			if err != nil {
				return completion{}, err
			}
		}
		return completion{returned: true, value: value}, nil

	case NodeVar:
		var value Value = Nil{}
		if len(node.Children) > 0 {
			var err error
			value, err = in.evaluate(node.Children[0])
			if err != nil {
				return completion{}, err
			}
		}
		in.env.Define(node.Token.Lexeme, value)
		return completion{}, nil

	case NodeWhile:
		for {
			cond, err := in.evaluate(node.Children[0])
			if err != nil {
				return completion{}, err
			}
			if !IsTruthy(cond) {
				return completion{}, nil
			}
			result, err := in.execute(node.Children[1])
			if err != nil || result.returned {
				return result, err
			}
		}

	default:
		panic(InternalError{Message: "execute: unexpected node kind " + string(node.Kind)})
	}
}

// executeBlock runs statements in env and restores the current frame
// afterwards, however the block finishes.
func (in *Interpreter) executeBlock(statements []*ASTNode, env *Environment) (completion, error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, stmt := range statements {
		result, err := in.execute(stmt)
		if err != nil || result.returned {
			return result, err
		}
	}
	return completion{}, nil
}

func (in *Interpreter) executeClass(node *ASTNode) error {
	var superclass *Class
	if node.Superclass != nil {
		value, err := in.evaluate(node.Superclass)
		if err != nil {
			return err
		}
		class, ok := value.(*Class)
		if !ok {
			return runtimeErrorf(node.Superclass.Token, "superclass must be a class")
		}
		superclass = class
	}

	in.env.Define(node.Token.Lexeme, Nil{})

	closure := in.env
	if superclass != nil {
		closure = NewEnvironment(in.env)
		closure.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(node.Children))
	for _, method := range node.Children {
		methods[method.Token.Lexeme] = &Function{
			Declaration:   method,
			Closure:       closure,
			IsInitializer: method.Token.Lexeme == "init",
		}
	}

	class := &Class{Name: node.Token.Lexeme, Superclass: superclass, Methods: methods}
	in.logger.Debug("class declared", "name", class.Name, "methods", len(methods), "line", node.Token.Line)
	return in.env.Assign(node.Token, class)
}

func (in *Interpreter) evaluate(node *ASTNode) (Value, error) {
	switch node.Kind {
	case NodeLiteral:
		if node.Value == nil {
			return Nil{}, nil
		}
		return node.Value, nil

	case NodeGrouping:
		return in.evaluate(node.Children[0])

	case NodeVariable:
		return in.lookUpVariable(node.Token, node)

	case NodeAssign:
		value, err := in.evaluate(node.Children[0])
		if err != nil {
			return nil, err
		}
		if distance, ok := in.locals[node]; ok {
			in.env.AssignAt(distance, node.Token.Lexeme, value)
		} else if err := in.globals.Assign(node.Token, value); err != nil {
			return nil, err
		}
		return value, nil

	case NodeUnary:
		right, err := in.evaluate(node.Children[0])
		if err != nil {
			return nil, err
		}
		switch node.Token.Type {
		case BANG:
			return Bool(!IsTruthy(right)), nil
		case MINUS:
			n, ok := right.(Number)
			if !ok {
				return nil, runtimeErrorf(node.Token, "operand of '-' must be a number")
			}
			return -n, nil
		}
		panic(InternalError{Message: "unexpected unary operator " + node.Token.Lexeme})

	case NodeBinary:
		return in.evaluateBinary(node)

	case NodeLogical:
		left, err := in.evaluate(node.Children[0])
		if err != nil {
			return nil, err
		}
		if node.Token.Type == OR {
			if IsTruthy(left) {
				return left, nil
			}
		} else if !IsTruthy(left) {
			return left, nil
		}
		return in.evaluate(node.Children[1])

	case NodeCall:
		return in.evaluateCall(node)

	case NodeGet:
		object, err := in.evaluate(node.Children[0])
		if err != nil {
			return nil, err
		}
		instance, ok := object.(*Instance)
		if !ok {
			return nil, runtimeErrorf(node.Token, "only instances have properties")
		}
		return instance.Get(node.Token)

	case NodeSet:
		object, err := in.evaluate(node.Children[0])
		if err != nil {
			return nil, err
		}
		instance, ok := object.(*Instance)
		if !ok {
			return nil, runtimeErrorf(node.Token, "only instances have fields")
		}
		value, err := in.evaluate(node.Children[1])
		if err != nil {
			return nil, err
		}
		instance.Set(node.Token, value)
		return value, nil

	case NodeThis:
		return in.lookUpVariable(node.Token, node)

	case NodeSuper:
		distance, ok := in.locals[node]
		if !ok {
			panic(InternalError{Message: "unresolved 'super'"})
		}
		superclass := in.env.GetAt(distance, "super").(*Class)
		instance := in.env.GetAt(distance-1, "this").(*Instance)
		method, ok := superclass.FindMethod(node.Name.Lexeme)
		if !ok {
			return nil, runtimeErrorf(node.Name, "undefined property '%s'", node.Name.Lexeme)
		}
		return method.Bind(instance), nil

	default:
		panic(InternalError{Message: "evaluate: unexpected node kind " + string(node.Kind)})
	}
}

func (in *Interpreter) evaluateBinary(node *ASTNode) (Value, error) {
	left, err := in.evaluate(node.Children[0])
	if err != nil {
		return nil, err
	}
	right, err := in.evaluate(node.Children[1])
	if err != nil {
		return nil, err
	}

	switch node.Token.Type {
	case EQ:
		return Bool(IsEqual(left, right)), nil
	case NOT_EQ:
		return Bool(!IsEqual(left, right)), nil
	case PLUS:
		switch l := left.(type) {
		case Number:
			if r, ok := right.(Number); ok {
				return l + r, nil
			}
		case String:
			if r, ok := right.(String); ok {
				return l + r, nil
			}
		}
		return nil, runtimeErrorf(node.Token, "operands of '+' must be two numbers or two strings")
	}

	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		return nil, runtimeErrorf(node.Token, "operands of '%s' must be numbers", node.Token.Lexeme)
	}
	switch node.Token.Type {
	case MINUS:
		return l - r, nil
	case ASTERISK:
		return l * r, nil
	case SLASH:
		return l / r, nil
	case GT:
		return Bool(l > r), nil
	case GE:
		return Bool(l >= r), nil
	case LT:
		return Bool(l < r), nil
	case LE:
		return Bool(l <= r), nil
	}
	panic(InternalError{Message: "unexpected binary operator " + node.Token.Lexeme})
}

func (in *Interpreter) evaluateCall(node *ASTNode) (Value, error) {
	callee, err := in.evaluate(node.Children[0])
	if err != nil {
		return nil, err
	}

	args := make([]Value, 0, len(node.Children)-1)
	for _, arg := range node.Children[1:] {
		value, err := in.evaluate(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}

	function, ok := callee.(Callable)
	if !ok {
		return nil, runtimeErrorf(node.Token, "can only call functions and classes")
	}
	if len(args) != function.Arity() {
		return nil, runtimeErrorf(node.Token, "expected %d arguments but got %d", function.Arity(), len(args))
	}

	in.logger.Debug("call", "callee", Stringify(callee), "args", len(args), "line", node.Token.Line)
	return function.Call(in, args)
}

func (in *Interpreter) lookUpVariable(name Token, node *ASTNode) (Value, error) {
	if distance, ok := in.locals[node]; ok {
		return in.env.GetAt(distance, name.Lexeme), nil
	}
	return in.globals.Get(name)
}
