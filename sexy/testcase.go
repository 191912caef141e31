package sexy

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType is the language of a test's input fence.
type InputType string

const (
	InputTypeExpr    InputType = "everest-expr"
	InputTypeProgram InputType = "everest-program"
)

// AssertionType is the language of an assertion fence.
type AssertionType string

const (
	// AssertionTypeAST compares the parsed tree as an s-expression.
	AssertionTypeAST AssertionType = "ast"
	// AssertionTypeBindings compares how the resolver bound each variable.
	AssertionTypeBindings AssertionType = "bindings"
	// AssertionTypeExecute compares standard output.
	AssertionTypeExecute AssertionType = "execute"
	// AssertionTypeCompileError compares lexer, parser and resolver
	// diagnostics.
	AssertionTypeCompileError AssertionType = "compile-error"
	// AssertionTypeRuntimeError compares the reported runtime error.
	AssertionTypeRuntimeError AssertionType = "runtime-error"
)

// structured reports whether the assertion body is an s-expression.
func (t AssertionType) structured() bool {
	return t == AssertionTypeAST || t == AssertionTypeBindings
}

// Assertion is one assertion fence of a test.
type Assertion struct {
	Type    AssertionType
	Content string // fence body without the trailing newline
	// ParsedSexy is set for structured assertions (ast, bindings).
	ParsedSexy *Node
	Line       int
}

// TestCase is one "Test: <name>" section of a Markdown document.
type TestCase struct {
	Name       string
	Input      string
	InputType  InputType
	Assertions []Assertion
	Line       int // line of the input fence
}

// ExtractTestCases reads the test cases of a Markdown document. Every
// heading starting with "Test: " begins a test, which needs exactly one
// input fence and at least one assertion fence. Fences in other languages
// are rejected; fences with no language are prose.
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	source := []byte(markdownContent)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	x := &extractor{source: source}
	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var err error
		switch n := node.(type) {
		case *ast.Heading:
			err = x.heading(n)
		case *ast.FencedCodeBlock:
			err = x.fence(n)
		}
		if err != nil {
			return ast.WalkStop, err
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking markdown AST: %w", err)
	}
	if err := x.flush(); err != nil {
		return nil, err
	}
	return x.tests, nil
}

type extractor struct {
	source  []byte
	tests   []TestCase
	current *TestCase
}

func (x *extractor) heading(n *ast.Heading) error {
	title := nodeText(n, x.source)
	if !strings.HasPrefix(title, "Test: ") {
		return nil
	}
	if err := x.flush(); err != nil {
		return err
	}
	x.current = &TestCase{Name: strings.TrimPrefix(title, "Test: ")}
	return nil
}

func (x *extractor) fence(n *ast.FencedCodeBlock) error {
	language := string(n.Language(x.source))
	line := lineOf(n, x.source)
	if language == "" {
		return nil
	}

	input := isInputFence(language)
	if !input && !isAssertionFence(language) {
		if x.current == nil {
			return fmt.Errorf("line %d: unknown fence language '%s' found outside of test case", line, language)
		}
		return fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", line, language, x.current.Name)
	}
	if x.current == nil {
		return fmt.Errorf("line %d: %s fence found outside of test case", line, language)
	}

	content := strings.TrimRight(fenceBody(n, x.source), "\n")
	if input {
		if x.current.InputType != "" {
			return fmt.Errorf("line %d: multiple input fences found in test '%s'", line, x.current.Name)
		}
		x.current.Input = content
		x.current.InputType = InputType(language)
		x.current.Line = line
		return nil
	}

	assertion := Assertion{Type: AssertionType(language), Content: content, Line: line}
	if assertion.Type.structured() {
		parsed, err := Parse(content)
		if err != nil {
			return fmt.Errorf("line %d: failed to parse Sexy assertion in test '%s': %w", line, x.current.Name, err)
		}
		assertion.ParsedSexy = parsed
	}
	x.current.Assertions = append(x.current.Assertions, assertion)
	return nil
}

// flush validates and records the test being read, if any.
func (x *extractor) flush() error {
	if x.current == nil {
		return nil
	}
	tc := x.current
	x.current = nil
	if tc.InputType == "" {
		return fmt.Errorf("test '%s' has no input fence", tc.Name)
	}
	if len(tc.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", tc.Name)
	}
	x.tests = append(x.tests, *tc)
	return nil
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceBody(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

func isInputFence(language string) bool {
	switch InputType(language) {
	case InputTypeExpr, InputTypeProgram:
		return true
	}
	return false
}

func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertionTypeAST, AssertionTypeBindings, AssertionTypeExecute,
		AssertionTypeCompileError, AssertionTypeRuntimeError:
		return true
	}
	return false
}

// lineOf returns the 1-based line of the first content line of node, or of
// the fence itself for an empty block.
func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	return 1 + bytes.Count(source[:min(start, len(source))], []byte("\n"))
}
