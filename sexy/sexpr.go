// Package sexy reads the s-expressions used by the Markdown conformance
// tests and matches them against each other.
package sexy

import (
	"fmt"
	"strings"
	"unicode"
)

// NodeType represents the type of a Node
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeInteger
	NodeEllipsis // "...": in a pattern, matches any number of items
	NodeList     // (a b c)
	NodeArray    // [a b c]
)

func (t NodeType) String() string {
	switch t {
	case NodeSymbol:
		return "symbol"
	case NodeString:
		return "string"
	case NodeInteger:
		return "integer"
	case NodeEllipsis:
		return "ellipsis"
	case NodeList:
		return "list"
	case NodeArray:
		return "array"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// Node is one datum.
type Node struct {
	Type  NodeType
	Text  string  // NodeSymbol, NodeString, NodeInteger
	Items []*Node // NodeList, NodeArray
}

func (n *Node) String() string {
	switch n.Type {
	case NodeSymbol, NodeInteger:
		return n.Text
	case NodeString:
		escaped := strings.ReplaceAll(n.Text, "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
		return "\"" + escaped + "\""
	case NodeEllipsis:
		return "..."
	case NodeList:
		return "(" + joinItems(n.Items) + ")"
	case NodeArray:
		return "[" + joinItems(n.Items) + "]"
	default:
		return fmt.Sprintf("UNKNOWN_NODE_TYPE_%d", n.Type)
	}
}

func joinItems(items []*Node) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, " ")
}

func NewSymbol(name string) *Node {
	return &Node{Type: NodeSymbol, Text: name}
}

func NewString(value string) *Node {
	return &Node{Type: NodeString, Text: value}
}

func NewInteger(text string) *Node {
	return &Node{Type: NodeInteger, Text: text}
}

func NewEllipsis() *Node {
	return &Node{Type: NodeEllipsis}
}

func NewList(items ...*Node) *Node {
	return &Node{Type: NodeList, Items: items}
}

func NewArray(items ...*Node) *Node {
	return &Node{Type: NodeArray, Items: items}
}

// IsAtom reports whether n has no items.
func (n *Node) IsAtom() bool {
	return n.Type != NodeList && n.Type != NodeArray
}

// Head returns the symbol a list starts with, or "".
func (n *Node) Head() string {
	if n.Type != NodeList || len(n.Items) == 0 || n.Items[0].Type != NodeSymbol {
		return ""
	}
	return n.Items[0].Text
}

// Parse reads exactly one datum from input. Text after a ';' up to the end
// of the line is a comment.
func Parse(input string) (*Node, error) {
	p := &parser{lexer: &lexer{input: input}}
	if err := p.next(); err != nil {
		return nil, err
	}
	node, err := p.datum()
	if err != nil {
		return nil, err
	}
	if p.tok.typ != tokenEOF {
		return nil, fmt.Errorf("expected EOF but got %s at offset %d", p.tok.typ, p.tok.pos)
	}
	return node, nil
}

type parser struct {
	lexer *lexer
	tok   token
}

func (p *parser) next() error {
	tok, err := p.lexer.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) datum() (*Node, error) {
	tok := p.tok
	switch tok.typ {
	case tokenSymbol:
		return NewSymbol(tok.text), p.next()
	case tokenString:
		return NewString(tok.text), p.next()
	case tokenInteger:
		return NewInteger(tok.text), p.next()
	case tokenEllipsis:
		return NewEllipsis(), p.next()
	case tokenLParen:
		items, err := p.items(tokenRParen)
		if err != nil {
			return nil, err
		}
		return &Node{Type: NodeList, Items: items}, nil
	case tokenLBracket:
		items, err := p.items(tokenRBracket)
		if err != nil {
			return nil, err
		}
		return &Node{Type: NodeArray, Items: items}, nil
	default:
		return nil, fmt.Errorf("unexpected %s at offset %d", tok.typ, tok.pos)
	}
}

// items reads data after an opening bracket up to and including closer.
func (p *parser) items(closer tokenType) ([]*Node, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	var items []*Node
	for p.tok.typ != closer {
		if p.tok.typ == tokenEOF {
			return nil, fmt.Errorf("expected %s but got EOF", closer)
		}
		item, err := p.datum()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, p.next()
}

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenSymbol
	tokenString
	tokenInteger
	tokenEllipsis
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "EOF"
	case tokenSymbol:
		return "symbol"
	case tokenString:
		return "string"
	case tokenInteger:
		return "integer"
	case tokenEllipsis:
		return "ellipsis"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenLBracket:
		return "'['"
	case tokenRBracket:
		return "']'"
	default:
		return fmt.Sprintf("unknown token %d", int(t))
	}
}

type token struct {
	typ  tokenType
	text string
	pos  int
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *lexer) next() (token, error) {
	for {
		for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
			l.pos++
		}
		start := l.pos
		if l.pos >= len(l.input) {
			return token{typ: tokenEOF, pos: start}, nil
		}

		c := l.input[l.pos]
		switch {
		case c == ';':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
			continue
		case c == '(':
			l.pos++
			return token{typ: tokenLParen, text: "(", pos: start}, nil
		case c == ')':
			l.pos++
			return token{typ: tokenRParen, text: ")", pos: start}, nil
		case c == '[':
			l.pos++
			return token{typ: tokenLBracket, text: "[", pos: start}, nil
		case c == ']':
			l.pos++
			return token{typ: tokenRBracket, text: "]", pos: start}, nil
		case c == '"':
			text, err := l.readString()
			return token{typ: tokenString, text: text, pos: start}, err
		case c == '.':
			if l.peekAt(1) == '.' && l.peekAt(2) == '.' {
				l.pos += 3
				return token{typ: tokenEllipsis, text: "...", pos: start}, nil
			}
			return token{}, fmt.Errorf("unexpected character '.' at offset %d", start)
		case isDigit(c) || ((c == '+' || c == '-') && isDigit(l.peekAt(1))):
			l.pos++
			for isDigit(l.peekAt(0)) {
				l.pos++
			}
			return token{typ: tokenInteger, text: l.input[start:l.pos], pos: start}, nil
		case isSymbolChar(c):
			for isSymbolChar(l.peekAt(0)) {
				l.pos++
			}
			return token{typ: tokenSymbol, text: l.input[start:l.pos], pos: start}, nil
		default:
			return token{}, fmt.Errorf("unexpected character '%c' at offset %d", c, start)
		}
	}
}

// readString reads a quoted string. The only escapes are \" and \\.
func (l *lexer) readString() (string, error) {
	var sb strings.Builder
	l.pos++ // opening quote
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		l.pos++
		switch c {
		case '"':
			return sb.String(), nil
		case '\\':
			if l.pos >= len(l.input) {
				return "", fmt.Errorf("unterminated string")
			}
			esc := l.input[l.pos]
			l.pos++
			if esc != '"' && esc != '\\' {
				return "", fmt.Errorf("invalid escape sequence: \\%c", esc)
			}
			sb.WriteByte(esc)
		default:
			sb.WriteByte(c)
		}
	}
	return "", fmt.Errorf("unterminated string")
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// isSymbolChar accepts letters, digits, non-ASCII bytes and operator
// punctuation.
func isSymbolChar(c byte) bool {
	if c >= 0x80 {
		return true
	}
	return unicode.IsLetter(rune(c)) || isDigit(c) || strings.IndexByte("-_+*/<>=!?", c) >= 0
}
