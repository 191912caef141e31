package main

import (
	"strconv"
	"unicode/utf8"
)

// TokenType is the type of token (identifier, operator, literal, etc.).
type TokenType string

// Definition of token types
const (
	// Special tokens
	EOF TokenType = "EOF"

	// Identifiers + literals
	IDENT  TokenType = "IDENT" // clock, foo, _bar
	NUMBER TokenType = "NUMBER"
	STRING TokenType = "STRING"

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	BANG     TokenType = "!"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"

	LT     TokenType = "<"
	GT     TokenType = ">"
	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LE     TokenType = "<="
	GE     TokenType = ">="

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	DOT       TokenType = "."

	AND    TokenType = "AND"
	CLASS  TokenType = "CLASS"
	ELSE   TokenType = "ELSE"
	FALSE  TokenType = "FALSE"
	FOR    TokenType = "FOR"
	FUN    TokenType = "FUN"
	IF     TokenType = "IF"
	NIL    TokenType = "NIL"
	OR     TokenType = "OR"
	PRINT  TokenType = "PRINT"
	RETURN TokenType = "RETURN"
	SUPER  TokenType = "SUPER"
	THIS   TokenType = "THIS"
	TRUE   TokenType = "TRUE"
	VAR    TokenType = "VAR"
	WHILE  TokenType = "WHILE"
)

var keywords = map[string]TokenType{
	"and":    AND,
	"class":  CLASS,
	"else":   ELSE,
	"false":  FALSE,
	"for":    FOR,
	"fun":    FUN,
	"if":     IF,
	"nil":    NIL,
	"or":     OR,
	"print":  PRINT,
	"return": RETURN,
	"super":  SUPER,
	"this":   THIS,
	"true":   TRUE,
	"var":    VAR,
	"while":  WHILE,
}

// Token is one lexical unit. Literal is Nil for everything except NUMBER,
// STRING, TRUE and FALSE.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal Value
	Line    int
}

func (t Token) String() string {
	return string(t.Type) + " " + t.Lexeme + " " + Stringify(t.Literal)
}

// Lexer turns source text into tokens. Problems are reported to Errors and
// scanning continues, except for an unterminated string, which ends input.
type Lexer struct {
	input  []byte
	start  int // first byte of the token being scanned
	pos    int // current reading position in input
	line   int
	done   bool
	Errors *ErrorCollection
}

// NewLexer creates a lexer over input reporting into errs.
func NewLexer(input []byte, errs *ErrorCollection) *Lexer {
	return &Lexer{input: input, line: 1, Errors: errs}
}

// ScanTokens scans the whole input. The result always ends with an EOF token.
func (l *Lexer) ScanTokens() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

// NextToken scans the next token. After EOF it keeps returning EOF.
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()
		l.start = l.pos
		if l.done || l.atEnd() {
			return Token{Type: EOF, Literal: Nil{}, Line: l.line}
		}

		c := l.input[l.pos]
		l.pos++

		switch c {
		case '(':
			return l.token(LPAREN)
		case ')':
			return l.token(RPAREN)
		case '{':
			return l.token(LBRACE)
		case '}':
			return l.token(RBRACE)
		case ',':
			return l.token(COMMA)
		case '.':
			return l.token(DOT)
		case '-':
			return l.token(MINUS)
		case '+':
			return l.token(PLUS)
		case ';':
			return l.token(SEMICOLON)
		case '*':
			return l.token(ASTERISK)
		case '!':
			if l.match('=') {
				return l.token(NOT_EQ)
			}
			return l.token(BANG)
		case '=':
			if l.match('=') {
				return l.token(EQ)
			}
			return l.token(ASSIGN)
		case '<':
			if l.match('=') {
				return l.token(LE)
			}
			return l.token(LT)
		case '>':
			if l.match('=') {
				return l.token(GE)
			}
			return l.token(GT)
		case '/':
			if l.match('/') {
				l.skipLineComment()
				continue
			}
			return l.token(SLASH)
		case '"':
			tok, ok := l.readString()
			if !ok {
				continue
			}
			return tok
		}

		if isDigit(c) {
			return l.readNumber()
		}
		if isLetter(c) {
			return l.readIdentifier()
		}
		if c >= utf8.RuneSelf {
			if tok, ok := l.readMathSymbol(); ok {
				return tok
			}
			continue
		}
		l.Errors.Add(l.line, "", "unexpected character '"+string(c)+"'")
	}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

// match consumes the current character if it is expected.
func (l *Lexer) match(expected byte) bool {
	if l.atEnd() || l.input[l.pos] != expected {
		return false
	}
	l.pos++
	return true
}

func (l *Lexer) token(typ TokenType) Token {
	return l.literalToken(typ, Nil{})
}

func (l *Lexer) literalToken(typ TokenType, literal Value) Token {
	return Token{
		Type:    typ,
		Lexeme:  string(l.input[l.start:l.pos]),
		Literal: literal,
		Line:    l.line,
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch l.input[l.pos] {
		case ' ', '\t', '\r':
			l.pos++
		case '\n':
			l.line++
			l.pos++
		default:
			return
		}
	}
}

func (l *Lexer) skipLineComment() {
	for !l.atEnd() && l.input[l.pos] != '\n' {
		l.pos++
	}
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func (l *Lexer) readIdentifier() Token {
	for isLetter(l.peek()) || isDigit(l.peek()) {
		l.pos++
	}
	typ, ok := keywords[string(l.input[l.start:l.pos])]
	if !ok {
		return l.token(IDENT)
	}
	switch typ {
	case TRUE:
		return l.literalToken(typ, Bool(true))
	case FALSE:
		return l.literalToken(typ, Bool(false))
	}
	return l.token(typ)
}

// readNumber consumes a digit run and an optional fraction. A '.' is only
// part of the number when a digit follows it.
func (l *Lexer) readNumber() Token {
	for isDigit(l.peek()) {
		l.pos++
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.pos++
		for isDigit(l.peek()) {
			l.pos++
		}
	}
	// Out-of-range literals come back as +Inf, which is what we want.
	val, _ := strconv.ParseFloat(string(l.input[l.start:l.pos]), 64)
	return l.literalToken(NUMBER, Number(val))
}

// readString reads up to the closing quote. Reaching the end of input first
// reports the error at the opening line and stops the lexer.
func (l *Lexer) readString() (Token, bool) {
	startLine := l.line
	for !l.atEnd() && l.input[l.pos] != '"' {
		if l.input[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
	if l.atEnd() {
		l.Errors.Add(startLine, "", "unterminated string")
		l.done = true
		return Token{}, false
	}
	l.pos++ // closing "

	tok := l.literalToken(STRING, String(l.input[l.start+1:l.pos-1]))
	tok.Line = startLine
	return tok, true
}

// readMathSymbol accepts the comparison aliases ≠, ≤ and ≥.
func (l *Lexer) readMathSymbol() (Token, bool) {
	r, size := utf8.DecodeRune(l.input[l.start:])
	l.pos = l.start + size
	switch r {
	case '≠':
		return l.token(NOT_EQ), true
	case '≤':
		return l.token(LE), true
	case '≥':
		return l.token(GE), true
	}
	l.Errors.Add(l.line, "", "unexpected character '"+string(r)+"'")
	return Token{}, false
}
