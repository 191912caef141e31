package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestVariableShadowingEndToEnd(t *testing.T) {
	source := `
		var x = 10;
		print x;
		{
			var x = 20;
			print x;
		}
		print x;
	`

	output, err := executeProgram(t, source)
	be.Err(t, err, nil)
	be.Equal(t, output, "10\n20\n10\n")
}

func TestShadowingInitializerCannotReadItself(t *testing.T) {
	source := `
		fun test(x) {
			print x;
			{
				var x = x * 2;
				print x;
			}
			print x;
		}
		test(5);
	`

	// The x in "x * 2" is the block's own x, still uninitialized.
	errs := &ErrorCollection{}
	tokens := NewLexer([]byte(source), errs).ScanTokens()
	program := NewParser(tokens, errs).ParseProgram()
	Resolve(program, errs)
	be.Equal(t, errs.String(), "[line 5] error at 'x': can't read local variable in its own initializer")
}

func TestFunctionParameterShadowingEndToEnd(t *testing.T) {
	output, err := executeProgram(t, `
		fun test(x) {
			print x;
			{
				var y = x;
				var x = y * 2;
				print x;
			}
			print x;
		}
		test(5);
	`)
	be.Err(t, err, nil)
	be.Equal(t, output, "5\n10\n5\n")
}

func TestDeepNestedShadowingEndToEnd(t *testing.T) {
	source := `
		var x = 1;
		{
			var x = 2;
			{
				var x = 3;
				{
					print x;
				}
				print x;
			}
			print x;
		}
		print x;
	`

	output, err := executeProgram(t, source)
	be.Err(t, err, nil)
	be.Equal(t, output, "3\n3\n2\n1\n")
}

func TestShadowingWithDifferentTypes(t *testing.T) {
	output, err := executeProgram(t, `
		var v = 1;
		{
			var v = "text";
			print v;
			{
				var v = true;
				print v;
			}
		}
		print v;
	`)
	be.Err(t, err, nil)
	be.Equal(t, output, "text\ntrue\n1\n")
}

func TestAssignmentTargetsNearestDeclaration(t *testing.T) {
	output, err := executeProgram(t, `
		var a = "outer";
		{
			var a = "inner";
			a = "assigned";
			print a;
		}
		print a;
		{
			a = "global write";
		}
		print a;
	`)
	be.Err(t, err, nil)
	be.Equal(t, output, "assigned\nouter\nglobal write\n")
}

func TestGlobalRedeclarationIsAllowed(t *testing.T) {
	output, err := executeProgram(t, `var a = 1; var a = "two"; print a;`)
	be.Err(t, err, nil)
	be.Equal(t, output, "two\n")
}
