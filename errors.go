package main

import (
	"fmt"
	"strings"
)

// Diagnostic is one front-end (lexical, syntax or resolution) error.
type Diagnostic struct {
	Line    int
	Where   string // "", " at end" or " at 'lexeme'"
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("[line %d] error%s: %s", d.Line, d.Where, d.Message)
}

// ErrorCollection accumulates diagnostics across the front-end stages of one
// run. The driver owns it; any entry suppresses evaluation.
type ErrorCollection struct {
	errors []Diagnostic
}

// Add records an error that is not tied to a token.
func (ec *ErrorCollection) Add(line int, where string, message string) {
	ec.errors = append(ec.errors, Diagnostic{Line: line, Where: where, Message: message})
}

// AddAt records an error located at tok.
func (ec *ErrorCollection) AddAt(tok Token, message string) {
	ec.Add(tok.Line, whereOf(tok), message)
}

func whereOf(tok Token) string {
	if tok.Type == EOF {
		return " at end"
	}
	return " at '" + tok.Lexeme + "'"
}

func (ec *ErrorCollection) HasErrors() bool {
	return len(ec.errors) > 0
}

func (ec *ErrorCollection) Errors() []Diagnostic {
	return ec.errors
}

// Reset drops all collected errors; the prompt does this between lines.
func (ec *ErrorCollection) Reset() {
	ec.errors = nil
}

// String renders one diagnostic per line.
func (ec *ErrorCollection) String() string {
	var sb strings.Builder
	for i, err := range ec.errors {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// RuntimeError aborts evaluation. Token supplies the line.
type RuntimeError struct {
	Token   Token
	Message string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Report renders the error the way the command line prints it.
func (e *RuntimeError) Report() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

func runtimeErrorf(tok Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// InternalError signals a broken invariant between the resolver and the
// evaluator. It is raised with panic and never reported as a user error.
type InternalError struct {
	Message string
}

func (e InternalError) Error() string {
	return "internal error: " + e.Message
}
