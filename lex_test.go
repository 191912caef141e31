package main

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nalgeon/be"
)

// lexInput scans inputStr and returns its tokens and diagnostics.
func lexInput(inputStr string) ([]Token, *ErrorCollection) {
	errs := &ErrorCollection{}
	tokens := NewLexer([]byte(inputStr), errs).ScanTokens()
	return tokens, errs
}

// lexOne scans inputStr, which must hold exactly one token.
func lexOne(t *testing.T, inputStr string) Token {
	t.Helper()
	tokens, errs := lexInput(inputStr)
	be.Equal(t, errs.HasErrors(), false)
	be.Equal(t, len(tokens), 2)
	be.Equal(t, tokens[1].Type, EOF)
	return tokens[0]
}

func TestNumberLiteral(t *testing.T) {
	tok := lexOne(t, "12345")
	be.Equal(t, tok.Type, NUMBER)
	be.Equal(t, tok.Lexeme, "12345")
	be.Equal(t, tok.Literal, Value(Number(12345)))

	tok = lexOne(t, "3.25")
	be.Equal(t, tok.Lexeme, "3.25")
	be.Equal(t, tok.Literal, Value(Number(3.25)))
}

func TestNumberNeedsDigitAfterDot(t *testing.T) {
	tokens, errs := lexInput("12.")
	be.Equal(t, errs.HasErrors(), false)
	be.Equal(t, len(tokens), 3)
	be.Equal(t, tokens[0].Lexeme, "12")
	be.Equal(t, tokens[1].Type, DOT)

	tokens, _ = lexInput(".5")
	be.Equal(t, tokens[0].Type, DOT)
	be.Equal(t, tokens[1].Lexeme, "5")
}

func TestIdentifier(t *testing.T) {
	for _, name := range []string{"foobar", "_x", "a1_b2", "classy", "nil_", "Print"} {
		tok := lexOne(t, name)
		be.Equal(t, tok.Type, IDENT)
		be.Equal(t, tok.Lexeme, name)
		be.Equal(t, tok.Literal, Value(Nil{}))
	}
}

func TestStringLiteral(t *testing.T) {
	tok := lexOne(t, `"hello"`)
	be.Equal(t, tok.Type, STRING)
	be.Equal(t, tok.Lexeme, `"hello"`)
	be.Equal(t, tok.Literal, Value(String("hello")))
}

func TestStringLiteralHasNoEscapes(t *testing.T) {
	tok := lexOne(t, `"a\nb"`)
	be.Equal(t, tok.Literal, Value(String(`a\nb`)))
}

func TestMultiLineStringKeepsStartLine(t *testing.T) {
	tokens, errs := lexInput("\"one\ntwo\" x")
	be.Equal(t, errs.HasErrors(), false)
	be.Equal(t, tokens[0].Line, 1)
	be.Equal(t, tokens[0].Literal, Value(String("one\ntwo")))
	be.Equal(t, tokens[1].Line, 2)
}

func TestUnterminatedString(t *testing.T) {
	tokens, errs := lexInput("x\n\"abc\n\ndef")
	be.Equal(t, errs.String(), "[line 2] error: unterminated string")
	be.Equal(t, len(tokens), 2)
	be.Equal(t, tokens[0].Lexeme, "x")
	be.Equal(t, tokens[1].Type, EOF)
}

func TestKeywords(t *testing.T) {
	for word, typ := range keywords {
		tok := lexOne(t, word)
		be.Equal(t, tok.Type, typ)
		be.Equal(t, tok.Lexeme, word)
	}
	be.Equal(t, lexOne(t, "true").Literal, Value(Bool(true)))
	be.Equal(t, lexOne(t, "false").Literal, Value(Bool(false)))
	be.Equal(t, lexOne(t, "nil").Literal, Value(Nil{}))
}

func TestOperators(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"(", LPAREN},
		{")", RPAREN},
		{"{", LBRACE},
		{"}", RBRACE},
		{",", COMMA},
		{".", DOT},
		{"-", MINUS},
		{"+", PLUS},
		{";", SEMICOLON},
		{"/", SLASH},
		{"*", ASTERISK},
		{"!", BANG},
		{"!=", NOT_EQ},
		{"=", ASSIGN},
		{"==", EQ},
		{"<", LT},
		{"<=", LE},
		{">", GT},
		{">=", GE},
		{"≠", NOT_EQ},
		{"≤", LE},
		{"≥", GE},
	}

	for _, tt := range tests {
		tok := lexOne(t, tt.input)
		be.Equal(t, tok.Type, tt.typ)
		be.Equal(t, tok.Lexeme, tt.input)
	}
}

func TestTokenStream(t *testing.T) {
	tokens, errs := lexInput("var x = 1.5; // note\nprint x ≤ 2;")
	be.Equal(t, errs.HasErrors(), false)

	want := []Token{
		{Type: VAR, Lexeme: "var", Literal: Nil{}, Line: 1},
		{Type: IDENT, Lexeme: "x", Literal: Nil{}, Line: 1},
		{Type: ASSIGN, Lexeme: "=", Literal: Nil{}, Line: 1},
		{Type: NUMBER, Lexeme: "1.5", Literal: Number(1.5), Line: 1},
		{Type: SEMICOLON, Lexeme: ";", Literal: Nil{}, Line: 1},
		{Type: PRINT, Lexeme: "print", Literal: Nil{}, Line: 2},
		{Type: IDENT, Lexeme: "x", Literal: Nil{}, Line: 2},
		{Type: LE, Lexeme: "≤", Literal: Nil{}, Line: 2},
		{Type: NUMBER, Lexeme: "2", Literal: Number(2), Line: 2},
		{Type: SEMICOLON, Lexeme: ";", Literal: Nil{}, Line: 2},
		{Type: EOF, Lexeme: "", Literal: Nil{}, Line: 2},
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestCommentOnlyInput(t *testing.T) {
	tokens, errs := lexInput("// nothing here\n// or here")
	be.Equal(t, errs.HasErrors(), false)
	be.Equal(t, len(tokens), 1)
	be.Equal(t, tokens[0].Type, EOF)
	be.Equal(t, tokens[0].Line, 2)
}

func TestUnexpectedCharactersContinue(t *testing.T) {
	tokens, errs := lexInput("1 @ 2\n# 3 ¤")
	be.Equal(t, errs.String(), strings.Join([]string{
		"[line 1] error: unexpected character '@'",
		"[line 2] error: unexpected character '#'",
		"[line 2] error: unexpected character '¤'",
	}, "\n"))

	var lexemes []string
	for _, tok := range tokens {
		lexemes = append(lexemes, tok.Lexeme)
	}
	if diff := cmp.Diff([]string{"1", "2", "3", ""}, lexemes); diff != "" {
		t.Errorf("lexemes mismatch (-want +got):\n%s", diff)
	}
}

func TestLinesNeverDecrease(t *testing.T) {
	source := "var a = \"x\ny\";\n\n{\n  print a; // c\n}\nfun f() {}\n\"\n\n\""
	tokens, errs := lexInput(source)
	be.Equal(t, errs.HasErrors(), false)

	line := 1
	for _, tok := range tokens {
		be.True(t, tok.Line >= line)
		line = tok.Line
	}
	be.Equal(t, tokens[len(tokens)-1].Line, strings.Count(source, "\n")+1)
}

func TestNextTokenAfterEOF(t *testing.T) {
	l := NewLexer([]byte("x"), &ErrorCollection{})
	be.Equal(t, l.NextToken().Type, IDENT)
	be.Equal(t, l.NextToken().Type, EOF)
	be.Equal(t, l.NextToken().Type, EOF)
}
