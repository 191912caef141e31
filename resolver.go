package main

// Locals maps every Variable, Assign, This and Super node that refers to a
// local binding to the number of frames between its use and its
// declaration. Nodes missing from the table refer to globals.
type Locals map[*ASTNode]int

type functionKind int

const (
	functionNone functionKind = iota
	functionPlain
	functionInitializer
	functionMethod
)

type classKind int

const (
	classNone classKind = iota
	classPlain
	classSubclass
)

// Resolver is the static pass between parsing and evaluation. It computes
// Locals and reports scoping errors that do not need to run the program.
type Resolver struct {
	// scopes mirrors the frames the interpreter will create. A name maps to
	// false between its declaration and the end of its initializer.
	scopes []map[string]bool
	// pendingGlobals holds global names whose initializer is being resolved.
	pendingGlobals  map[string]bool
	currentFunction functionKind
	currentClass    classKind
	locals          Locals
	Errors          *ErrorCollection
}

// Resolve walks program and returns its Locals, reporting problems into errs.
func Resolve(program []*ASTNode, errs *ErrorCollection) Locals {
	r := &Resolver{
		pendingGlobals: map[string]bool{},
		locals:         Locals{},
		Errors:         errs,
	}
	r.resolveStatements(program)
	return r.locals
}

func (r *Resolver) resolveStatements(statements []*ASTNode) {
	for _, stmt := range statements {
		r.resolve(stmt)
	}
}

func (r *Resolver) resolve(node *ASTNode) {
	switch node.Kind {
	case NodeBlock:
		r.beginScope()
		r.resolveStatements(node.Children)
		r.endScope()

	case NodeClass:
		r.resolveClass(node)

	case NodeExpression, NodePrint:
		r.resolve(node.Children[0])

	case NodeFunction:
		r.declare(node.Token)
		r.define(node.Token)
		r.resolveFunction(node, functionPlain)

	case NodeIf:
		r.resolveStatements(node.Children)

	case NodeReturn:
		if r.currentFunction == functionNone {
			r.Errors.AddAt(node.Token, "can't return from top-level code")
		}
		if len(node.Children) > 0 {
			if r.currentFunction == functionInitializer {
				r.Errors.AddAt(node.Token, "can't return a value from an initializer")
			}
			r.resolve(node.Children[0])
		}

	case NodeVar:
		name := node.Token
		r.declare(name)
		if len(node.Children) > 0 {
			if len(r.scopes) == 0 {
				r.pendingGlobals[name.Lexeme] = true
			}
			r.resolve(node.Children[0])
			delete(r.pendingGlobals, name.Lexeme)
		}
		r.define(name)

	case NodeWhile:
		r.resolveStatements(node.Children)

	case NodeVariable:
		name := node.Token.Lexeme
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][name]; ok && !defined {
				r.Errors.AddAt(node.Token, "can't read local variable in its own initializer")
			}
		} else if r.pendingGlobals[name] {
			r.Errors.AddAt(node.Token, "can't read local variable in its own initializer")
		}
		r.resolveLocal(node, name)

	case NodeAssign:
		r.resolve(node.Children[0])
		r.resolveLocal(node, node.Token.Lexeme)

	case NodeBinary, NodeLogical, NodeCall, NodeGrouping, NodeUnary, NodeGet, NodeSet:
		r.resolveStatements(node.Children)

	case NodeLiteral:

	case NodeThis:
		if r.currentClass == classNone {
			r.Errors.AddAt(node.Token, "can't use 'this' outside of a class")
			return
		}
		r.resolveLocal(node, "this")

	case NodeSuper:
		switch r.currentClass {
		case classNone:
			r.Errors.AddAt(node.Token, "can't use 'super' outside of a class")
		case classPlain:
			r.Errors.AddAt(node.Token, "can't use 'super' in a class with no superclass")
		}
		r.resolveLocal(node, "super")

	default:
		panic(InternalError{Message: "resolver: unknown node kind " + string(node.Kind)})
	}
}

func (r *Resolver) resolveClass(node *ASTNode) {
	enclosingClass := r.currentClass
	r.currentClass = classPlain
	defer func() { r.currentClass = enclosingClass }()

	r.declare(node.Token)
	r.define(node.Token)

	if node.Superclass != nil {
		if node.Superclass.Token.Lexeme == node.Token.Lexeme {
			r.Errors.AddAt(node.Superclass.Token, "a class can't inherit from itself")
		}
		r.currentClass = classSubclass
		r.resolve(node.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	for _, method := range node.Children {
		kind := functionMethod
		if method.Token.Lexeme == "init" {
			kind = functionInitializer
		}
		r.resolveFunction(method, kind)
	}
	r.endScope()
}

// resolveFunction puts parameters and the body's declarations in one scope,
// the same frame Function.Call runs the body in.
func (r *Resolver) resolveFunction(node *ASTNode, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range node.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(node.Children)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, map[string]bool{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare adds name to the innermost scope as not yet usable. Globals are not
// tracked and may be redeclared.
func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.Errors.AddAt(name, "already a variable named '"+name.Lexeme+"' in this scope")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal records the distance to the innermost scope declaring name.
// If none does, node is left global.
func (r *Resolver) resolveLocal(node *ASTNode, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[node] = len(r.scopes) - 1 - i
			return
		}
	}
}
