package sexy

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

// fence renders a fenced code block.
func fence(language, body string) string {
	return "```" + language + "\n" + body + "\n```\n"
}

func TestExtractTestCases_BasicTest(t *testing.T) {
	markdown := "# Binary expressions\n\n" +
		"## Test: +\n" +
		fence("everest-expr", "1 + 2") +
		fence("ast", `(binary "+" 1 2)`) +
		"\n## Test: -\n" +
		fence("everest-expr", "1 - 2") +
		fence("ast", `(binary "-" 1 2)`)

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)

	tc1 := testCases[0]
	be.Equal(t, tc1.Name, "+")
	be.Equal(t, tc1.Input, "1 + 2")
	be.Equal(t, tc1.InputType, InputTypeExpr)
	be.Equal(t, len(tc1.Assertions), 1)
	be.Equal(t, tc1.Assertions[0].Type, AssertionTypeAST)
	be.Equal(t, tc1.Assertions[0].Content, `(binary "+" 1 2)`)
	be.Equal(t, tc1.Assertions[0].ParsedSexy.String(), `(binary "+" 1 2)`)

	tc2 := testCases[1]
	be.Equal(t, tc2.Name, "-")
	be.Equal(t, tc2.Input, "1 - 2")
	be.Equal(t, tc2.Assertions[0].ParsedSexy.String(), `(binary "-" 1 2)`)
}

func TestExtractTestCases_AllAssertionTypes(t *testing.T) {
	markdown := "## Test: everything\n" +
		fence("everest-program", "var a = 1;\nprint a;") +
		fence("ast", `(program (var-decl "a" 1) (print (var "a")))`) +
		fence("bindings", `(bindings (var "a" global))`) +
		fence("execute", "1") +
		fence("compile-error", "[line 1] error at 'x': nope") +
		fence("runtime-error", "oops\n[line 2]")

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	tc := testCases[0]
	be.Equal(t, tc.InputType, InputTypeProgram)
	be.Equal(t, tc.Input, "var a = 1;\nprint a;")
	be.Equal(t, len(tc.Assertions), 5)

	types := []AssertionType{
		AssertionTypeAST,
		AssertionTypeBindings,
		AssertionTypeExecute,
		AssertionTypeCompileError,
		AssertionTypeRuntimeError,
	}
	for i, want := range types {
		be.Equal(t, tc.Assertions[i].Type, want)
	}

	// Only s-expression assertions are parsed.
	be.True(t, tc.Assertions[0].ParsedSexy != nil)
	be.True(t, tc.Assertions[1].ParsedSexy != nil)
	be.True(t, tc.Assertions[2].ParsedSexy == nil)
	be.True(t, tc.Assertions[3].ParsedSexy == nil)
	be.Equal(t, tc.Assertions[4].Content, "oops\n[line 2]")
}

func TestExtractTestCases_EmptyFile(t *testing.T) {
	testCases, err := ExtractTestCases("")
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_NoTestCases(t *testing.T) {
	markdown := "# Notes\n\nSome prose.\n\n## Not a test\n\nMore prose.\n"
	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_AllowFencesWithoutLanguage(t *testing.T) {
	markdown := "# Intro\n" +
		fence("", "plain block outside a test") +
		"## Test: with prose fence\n" +
		fence("", "plain block inside a test") +
		fence("everest-expr", "nil") +
		fence("ast", "(nil)")

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, testCases[0].Input, "nil")
}

func TestExtractTestCases_EmptyProgramInput(t *testing.T) {
	markdown := "## Test: empty program\n" +
		"```everest-program\n```\n" +
		fence("execute", "")

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, testCases[0].Input, "")
	be.Equal(t, testCases[0].InputType, InputTypeProgram)
}

func TestExtractTestCases_Errors(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		message  string
	}{
		{
			name:     "input fence outside test",
			markdown: "# Title\n\n" + fence("everest-expr", "1"),
			message:  "everest-expr fence found outside of test case",
		},
		{
			name:     "unknown fence outside test",
			markdown: fence("go", "func main() {}"),
			message:  "unknown fence language 'go' found outside of test case",
		},
		{
			name: "unknown fence in test",
			markdown: "## Test: t\n" +
				fence("everest-expr", "1") +
				fence("types", "(number)"),
			message: "unknown fence language 'types' in test 't'",
		},
		{
			name:     "missing input",
			markdown: "## Test: t\n" + fence("execute", "1"),
			message:  "test 't' has no input fence",
		},
		{
			name:     "missing assertion",
			markdown: "## Test: t\n" + fence("everest-expr", "1"),
			message:  "test 't' has no assertion fences",
		},
		{
			name: "multiple inputs",
			markdown: "## Test: t\n" +
				fence("everest-expr", "1") +
				fence("everest-program", "print 1;") +
				fence("execute", "1"),
			message: "multiple input fences found in test 't'",
		},
		{
			name: "bad s-expression",
			markdown: "## Test: t\n" +
				fence("everest-expr", "1") +
				fence("ast", "(binary"),
			message: "failed to parse Sexy assertion in test 't'",
		},
		{
			name: "error in second test",
			markdown: "## Test: first\n" +
				fence("everest-expr", "1") +
				fence("ast", "1") +
				"## Test: second\n" +
				fence("everest-expr", "2"),
			message: "test 'second' has no assertion fences",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ExtractTestCases(test.markdown)
			be.True(t, err != nil)
			be.True(t, strings.Contains(err.Error(), test.message))
		})
	}
}

func TestExtractTestCases_LineNumbers(t *testing.T) {
	markdown := "# Title\nLine 2\nLine 3\n\n" +
		fence("everest-expr", "this fence is outside any test")

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "line 6:"))

	markdown = "## Test: located\n\n" +
		fence("everest-program", "print 1;") +
		fence("execute", "1")
	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, testCases[0].Line, 4)
	be.Equal(t, testCases[0].Assertions[0].Line, 7)
}
