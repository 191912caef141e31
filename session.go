package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Outcome is how a Session.Run ended.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeCompileError
	OutcomeRuntimeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeCompileError:
		return "compile error"
	case OutcomeRuntimeError:
		return "runtime error"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Session runs source text through every stage against one interpreter.
// Program output goes to Stdout; diagnostics and runtime errors go to
// Stderr.
type Session struct {
	Stdout io.Writer
	Stderr io.Writer
	// DumpAST prints each program as an s-expression before it runs.
	DumpAST bool
	// DumpBindings prints the resolver's bindings before the program runs.
	DumpBindings bool

	interp *Interpreter
	logger *slog.Logger
}

// NewSession creates a session. A nil logger disables logging.
func NewSession(stdout, stderr io.Writer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		Stdout: stdout,
		Stderr: stderr,
		interp: NewInterpreter(stdout, logger),
		logger: logger,
	}
}

// Run lexes, parses, resolves and evaluates source. Nothing is evaluated
// if an earlier stage reported an error.
func (s *Session) Run(source []byte) Outcome {
	errs := &ErrorCollection{}

	tokens := NewLexer(source, errs).ScanTokens()
	program := NewParser(tokens, errs).ParseProgram()
	s.logger.Debug("parsed", "tokens", len(tokens), "statements", len(program))
	if errs.HasErrors() {
		fmt.Fprintln(s.Stderr, errs.String())
		return OutcomeCompileError
	}

	locals := Resolve(program, errs)
	s.logger.Debug("resolved", "locals", len(locals))
	if errs.HasErrors() {
		fmt.Fprintln(s.Stderr, errs.String())
		return OutcomeCompileError
	}

	if s.DumpAST {
		fmt.Fprintln(s.Stdout, ProgramToSExpr(program))
	}
	if s.DumpBindings {
		fmt.Fprintln(s.Stdout, BindingsToSExpr(program, locals))
	}

	s.interp.Resolve(locals)
	if err := s.interp.Interpret(program); err != nil {
		var runtimeErr *RuntimeError
		if errors.As(err, &runtimeErr) {
			fmt.Fprintln(s.Stderr, runtimeErr.Report())
		} else {
			fmt.Fprintln(s.Stderr, err)
		}
		return OutcomeRuntimeError
	}
	return OutcomeOK
}

// isIncomplete reports whether source only failed to parse because it ended
// too early, so the prompt should ask for another line.
func isIncomplete(source string) bool {
	errs := &ErrorCollection{}
	tokens := NewLexer([]byte(source), errs).ScanTokens()
	NewParser(tokens, errs).ParseProgram()
	if !errs.HasErrors() {
		return false
	}
	for _, d := range errs.Errors() {
		if d.Where != " at end" && d.Message != "unterminated string" {
			return false
		}
	}
	return true
}
