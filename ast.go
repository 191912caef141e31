package main

import (
	"math"
	"strconv"
	"strings"
)

// NodeKind represents different types of AST nodes
type NodeKind string

// Expression kinds.
const (
	NodeAssign   NodeKind = "NodeAssign"
	NodeBinary   NodeKind = "NodeBinary"
	NodeCall     NodeKind = "NodeCall"
	NodeGet      NodeKind = "NodeGet"
	NodeGrouping NodeKind = "NodeGrouping"
	NodeLiteral  NodeKind = "NodeLiteral"
	NodeLogical  NodeKind = "NodeLogical"
	NodeSet      NodeKind = "NodeSet"
	NodeSuper    NodeKind = "NodeSuper"
	NodeThis     NodeKind = "NodeThis"
	NodeUnary    NodeKind = "NodeUnary"
	NodeVariable NodeKind = "NodeVariable"
)

// Statement kinds.
const (
	NodeBlock      NodeKind = "NodeBlock"
	NodeClass      NodeKind = "NodeClass"
	NodeExpression NodeKind = "NodeExpression"
	NodeFunction   NodeKind = "NodeFunction"
	NodeIf         NodeKind = "NodeIf"
	NodePrint      NodeKind = "NodePrint"
	NodeReturn     NodeKind = "NodeReturn"
	NodeVar        NodeKind = "NodeVar"
	NodeWhile      NodeKind = "NodeWhile"
)

// ASTNode represents a node in the Abstract Syntax Tree. Nodes are never
// mutated after parsing, and a node's pointer is its identity: the resolver
// keys its side table on it.
type ASTNode struct {
	Kind NodeKind
	// Token is the token errors about this node are reported at:
	// NodeAssign, NodeGet, NodeSet, NodeVariable, NodeVar, NodeFunction,
	// NodeClass: the name.
	// NodeBinary, NodeLogical, NodeUnary: the operator.
	// NodeCall: the closing parenthesis.
	// NodeSuper, NodeThis, NodeReturn: the keyword.
	Token Token
	// NodeSuper: the method name.
	Name Token
	// NodeLiteral:
	Value Value
	// NodeFunction:
	Params []Token
	// NodeClass: a NodeVariable, or nil without a superclass.
	Superclass *ASTNode
	// NodeAssign: [value]
	// NodeBinary, NodeLogical: [left, right]
	// NodeCall: [callee, args...]
	// NodeGet, NodeGrouping, NodeUnary: [operand]
	// NodeSet: [object, value]
	// NodeBlock: statements
	// NodeClass: NodeFunction methods
	// NodeExpression, NodePrint: [expr]
	// NodeFunction: body statements
	// NodeIf: [cond, then] or [cond, then, else]
	// NodeReturn, NodeVar: [] or [value]
	// NodeWhile: [cond, body]
	Children []*ASTNode
}

// walkNodes visits every node reachable from nodes in source order, parents
// before children.
func walkNodes(nodes []*ASTNode, visit func(*ASTNode)) {
	for _, node := range nodes {
		if node == nil {
			continue
		}
		visit(node)
		if node.Superclass != nil {
			walkNodes([]*ASTNode{node.Superclass}, visit)
		}
		walkNodes(node.Children, visit)
	}
}

// ToSExpr converts an AST node to s-expression string representation
func ToSExpr(node *ASTNode) string {
	if node == nil {
		return "nil"
	}
	switch node.Kind {
	case NodeLiteral:
		return literalSExpr(node.Value)
	case NodeVariable:
		return "(var " + quote(node.Token.Lexeme) + ")"
	case NodeAssign:
		return "(assign " + quote(node.Token.Lexeme) + " " + ToSExpr(node.Children[0]) + ")"
	case NodeBinary:
		return "(binary " + quote(string(node.Token.Type)) + " " + ToSExpr(node.Children[0]) + " " + ToSExpr(node.Children[1]) + ")"
	case NodeLogical:
		return "(logical " + quote(node.Token.Lexeme) + " " + ToSExpr(node.Children[0]) + " " + ToSExpr(node.Children[1]) + ")"
	case NodeUnary:
		return "(unary " + quote(string(node.Token.Type)) + " " + ToSExpr(node.Children[0]) + ")"
	case NodeGrouping:
		return "(group " + ToSExpr(node.Children[0]) + ")"
	case NodeCall:
		return listSExpr("call", "", node.Children)
	case NodeGet:
		return "(get " + ToSExpr(node.Children[0]) + " " + quote(node.Token.Lexeme) + ")"
	case NodeSet:
		return "(set " + ToSExpr(node.Children[0]) + " " + quote(node.Token.Lexeme) + " " + ToSExpr(node.Children[1]) + ")"
	case NodeThis:
		return "(this)"
	case NodeSuper:
		return "(super " + quote(node.Name.Lexeme) + ")"

	case NodeBlock:
		return listSExpr("block", "", node.Children)
	case NodeExpression:
		return "(expr " + ToSExpr(node.Children[0]) + ")"
	case NodePrint:
		return "(print " + ToSExpr(node.Children[0]) + ")"
	case NodeVar:
		return listSExpr("var-decl", quote(node.Token.Lexeme), node.Children)
	case NodeReturn:
		return listSExpr("return", "", node.Children)
	case NodeIf:
		return listSExpr("if", "", node.Children)
	case NodeWhile:
		return listSExpr("while", "", node.Children)
	case NodeFunction:
		params := make([]string, len(node.Params))
		for i, param := range node.Params {
			params[i] = quote(param.Lexeme)
		}
		head := quote(node.Token.Lexeme) + " [" + strings.Join(params, " ") + "]"
		return listSExpr("fun", head, node.Children)
	case NodeClass:
		head := quote(node.Token.Lexeme) + " " + ToSExpr(node.Superclass)
		return listSExpr("class", head, node.Children)
	default:
		return ""
	}
}

// ProgramToSExpr renders a whole program as (program stmt...).
func ProgramToSExpr(program []*ASTNode) string {
	return listSExpr("program", "", program)
}

func listSExpr(head string, attrs string, children []*ASTNode) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(head)
	if attrs != "" {
		sb.WriteString(" ")
		sb.WriteString(attrs)
	}
	for _, child := range children {
		sb.WriteString(" ")
		sb.WriteString(ToSExpr(child))
	}
	sb.WriteString(")")
	return sb.String()
}

func literalSExpr(v Value) string {
	switch v := v.(type) {
	case Number:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) < 1e15 {
			return strconv.FormatInt(int64(f), 10)
		}
		return "(number " + quote(formatNumber(f)) + ")"
	case String:
		return "(string " + quote(string(v)) + ")"
	case Bool:
		return "(boolean " + Stringify(v) + ")"
	default:
		return "(nil)"
	}
}

// quote writes s as an s-expression string literal.
func quote(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return "\"" + s + "\""
}

// BindingsToSExpr lists how the resolver bound every variable, assignment,
// this and super in program, in source order:
//
//	(bindings (var "a" 0) (assign "b" global) (this 1))
func BindingsToSExpr(program []*ASTNode, locals Locals) string {
	var sb strings.Builder
	sb.WriteString("(bindings")
	walkNodes(program, func(node *ASTNode) {
		var head string
		switch node.Kind {
		case NodeVariable:
			head = "var " + quote(node.Token.Lexeme)
		case NodeAssign:
			head = "assign " + quote(node.Token.Lexeme)
		case NodeThis:
			head = "this"
		case NodeSuper:
			head = "super"
		default:
			return
		}
		distance := "global"
		if d, ok := locals[node]; ok {
			distance = strconv.Itoa(d)
		}
		sb.WriteString(" (" + head + " " + distance + ")")
	})
	sb.WriteString(")")
	return sb.String()
}
