package compiler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/blacklang/black/errors"
	"github.com/blacklang/black/interpreter"
	"github.com/blacklang/black/lexer"
	"github.com/blacklang/black/parser"
)

func buildAst(t *testing.T, src string) parser.Ast {
	t.Helper()

	tokens, err := lexer.Lex(lexer.Preprocess(src))
	if err != nil {
		t.Fatalf("Lexing failed: %s", err)
	}
	ast, err := parser.New(tokens).Parse()
	if err != nil {
		t.Fatalf("Parsing failed: %s", err)
	}
	return ast
}

func generate(t *testing.T, src string) string {
	t.Helper()

	ir, err := FromAst(buildAst(t, src)).GenerateIR()
	if err != nil {
		t.Fatalf("GenerateIR failed: %s", err)
	}
	return ir
}

func generateErr(t *testing.T, src string) error {
	t.Helper()

	_, err := FromAst(buildAst(t, src)).GenerateIR()
	if err == nil {
		t.Fatalf("expected an error compiling %q", src)
	}
	if _, ok := err.(errors.GenericError); !ok {
		t.Fatalf("expected a GenericError, got %T", err)
	}
	return err
}

func expectIR(t *testing.T, ir string, lines ...string) {
	t.Helper()

	for _, line := range lines {
		if !strings.Contains(ir, line) {
			t.Errorf("IR missing %q:\n%s", line, ir)
		}
	}
}

func TestEntryFunctionShape(t *testing.T) {
	ir := generate(t, `print("hello")`)

	if !strings.Contains(ir, "export function w $main() {\n@start\n") {
		t.Errorf("missing entry function header:\n%s", ir)
	}
	if !strings.HasSuffix(ir, "  ret 0\n}") {
		t.Errorf("missing return instruction:\n%s", ir)
	}
}

func TestPrintStringLiteral(t *testing.T) {
	ir := generate(t, `print("hello")`)

	expectIR(t, ir,
		`data $v2 = { b "hello", b 0 }`,
		"  call $printf(l $v2)\n",
		"  call $printf(l $endl)\n")
}

func TestPrintNumberLiteral(t *testing.T) {
	ir := generate(t, "print(42)")

	expectIR(t, ir,
		`data $v2 = { b "42", b 0 }`,
		"  call $printf(l $v2)\n")
}

func TestPrintSeparators(t *testing.T) {
	ir := generate(t, `print("a", "b")`)

	// One separator between the two arguments, none after the last
	if got := strings.Count(ir, "call $printf(l $space)"); got != 1 {
		t.Errorf("got %d separator calls, expected 1:\n%s", got, ir)
	}
	if got := strings.Count(ir, "call $printf(l $endl)"); got != 1 {
		t.Errorf("got %d newline calls, expected 1:\n%s", got, ir)
	}
}

func TestNumberDeclaration(t *testing.T) {
	ir := generate(t, "let a = 1\nprint(a)")

	expectIR(t, ir,
		"data $a = { w 1 }",
		"  %v1 =w loadw $a\n",
		"  call $printf(l $fmt_int, w %v1)\n")
}

func TestStringDeclaration(t *testing.T) {
	ir := generate(t, "let a = \"hi\"\nprint(a)")

	expectIR(t, ir,
		`data $a = { b "hi", b 0 }`,
		"  call $printf(l $a)\n")
}

func TestBoolDeclaration(t *testing.T) {
	ir := generate(t, "let bool a = true\nprint(a)")

	expectIR(t, ir,
		"data $a = { w 1 }",
		"  call $printb(w %v1)\n")
}

func TestComputedDeclaration(t *testing.T) {
	ir := generate(t, "let a = 2*4")

	expectIR(t, ir,
		"  %v3 =w mul 2, 4\n",
		"data $a = { w 0 }",
		"  storew %v3, $a\n")
}

func TestFlatPrecedenceLowering(t *testing.T) {
	ir := generate(t, "print(1*2+3)")

	expectIR(t, ir,
		"  %v5 =w mul 1, 2\n",
		"  %v7 =w add %v5, 3\n",
		"  call $printf(l $fmt_int, w %v7)\n")

	// The multiply must happen first: flat left-to-right evaluation
	if strings.Index(ir, "mul") > strings.Index(ir, "add") {
		t.Errorf("operations emitted out of order:\n%s", ir)
	}
}

func TestCheckedDivision(t *testing.T) {
	ir := generate(t, "print(8/2)")

	expectIR(t, ir, "  %v4 =w call $divw(w 8, w 2)\n")
}

func TestOperandLoads(t *testing.T) {
	ir := generate(t, "let a = 1\nlet b = 2\nprint(a+b)")

	expectIR(t, ir,
		"  %op2 =w loadw $a\n",
		"  %op3 =w loadw $b\n",
		"  %v4 =w add %op2, %op3\n")
}

func TestRedefinitionAllocatesFreshStorage(t *testing.T) {
	ir := generate(t, "let a = 1\nlet a = 2\nprint(a)")

	expectIR(t, ir,
		"data $a = { w 1 }",
		"data $a_1 = { w 2 }",
		"  %v2 =w loadw $a_1\n")
}

func TestBareIdentifierLowersLikePrint(t *testing.T) {
	ir := generate(t, "let a = 1\na")

	expectIR(t, ir,
		"  %v1 =w loadw $a\n",
		"  call $printf(l $fmt_int, w %v1)\n",
		"  call $printf(l $endl)\n")
}

func TestUndefinedVariable(t *testing.T) {
	err := generateErr(t, "print(a)")
	if err.Error() != "Variable doesn't exist: `a`" {
		t.Errorf("got message %q", err.Error())
	}
}

func TestDeclaredTypeMismatch(t *testing.T) {
	err := generateErr(t, "let str a = 1")
	if err.Error() != "Variable type `str` does not match value type" {
		t.Errorf("got message %q", err.Error())
	}
}

func TestUnknownFunction(t *testing.T) {
	err := generateErr(t, "foo()")
	if err.Error() != "Function `foo` is not implemented" {
		t.Errorf("got message %q", err.Error())
	}
}

func TestNonNumericOperand(t *testing.T) {
	err := generateErr(t, "let a = \"hi\"\nprint(a+1)")
	if err.Error() != "Cannot add variable which is not a number" {
		t.Errorf("got message %q", err.Error())
	}
}

func TestBlockNotImplemented(t *testing.T) {
	err := generateErr(t, "{ print(1) }")
	if !strings.Contains(err.Error(), "not yet implemented") {
		t.Errorf("got message %q", err.Error())
	}
}

// Semantic errors must read identically under both execution modes.
func TestErrorParityWithInterpreter(t *testing.T) {
	sources := []string{
		"print(a)",
		"let str a = 1",
		`let int a = "hi"`,
		"foo()",
		"let a = \"hi\"\nprint(a+1)",
		"{ print(1) }",
	}

	for _, src := range sources {
		ast := buildAst(t, src)

		_, compileErr := FromAst(ast).GenerateIR()

		interp := interpreter.FromAst(ast)
		interp.Out = &bytes.Buffer{}
		runErr := interp.Run()

		if compileErr == nil || runErr == nil {
			t.Errorf("%q: expected both modes to fail (compile=%v, run=%v)", src, compileErr, runErr)
			continue
		}
		if compileErr.Error() != runErr.Error() {
			t.Errorf("%q: compiler said %q, interpreter said %q", src, compileErr, runErr)
		}
	}
}

func TestCompilePipesThroughBackend(t *testing.T) {
	// Stand-in backends: cat echoes the IR as "assembly", true links
	// nothing and exits 0. Exercises the write-then-drain-then-wait
	// plumbing without qbe installed.
	comp := FromAst(buildAst(t, `print("hello")`))
	err := comp.Compile(Options{Output: "/dev/null", Qbe: "cat", Cc: "true"})
	if err != nil {
		t.Fatalf("Compile failed: %s", err)
	}
}

func TestBackendFailureIsInternalError(t *testing.T) {
	comp := FromAst(buildAst(t, `print("hello")`))
	err := comp.Compile(Options{Output: "/dev/null", Qbe: "false", Cc: "true"})
	if err == nil {
		t.Fatal("expected an error")
	}
	// Not a user source error
	if _, ok := err.(errors.GenericError); ok {
		t.Errorf("backend failure should not be a user error: %v", err)
	}
	if _, ok := err.(errors.SyntaxError); ok {
		t.Errorf("backend failure should not be a user error: %v", err)
	}
}
