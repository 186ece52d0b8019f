package interpreter

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/repr"

	"github.com/blacklang/black/errors"
	"github.com/blacklang/black/lexer"
	"github.com/blacklang/black/parser"
)

// Interpreter walks an AST directly, mutating a flat variable environment.
// The environment lives as long as the interpreter, so an interactive
// session keeps one instance alive across input groups.
type Interpreter struct {
	Ast       parser.Ast
	Variables map[string]parser.Variable

	// Out receives program output. Defaults to standard output.
	Out io.Writer
}

func New() *Interpreter {
	return &Interpreter{
		Variables: make(map[string]parser.Variable),
		Out:       os.Stdout,
	}
}

func FromAst(ast parser.Ast) *Interpreter {
	i := New()
	i.Ast = ast
	return i
}

// Run evaluates the loaded AST top to bottom. The first error aborts the
// pass; the environment keeps whatever bindings were made before it.
func (i *Interpreter) Run() error {
	for _, node := range i.Ast {
		switch expr := node.(type) {
		case parser.FuncCall:
			if err := i.handleFuncCall(expr); err != nil {
				return err
			}
		case parser.VariableDeclaration:
			if err := i.handleVarDecl(expr); err != nil {
				return err
			}
		case parser.Ident:
			// A bare identifier prints its value, mostly for the REPL.
			v, err := i.getVar(string(expr))
			if err != nil {
				return err
			}
			fmt.Fprintln(i.Out, v)
		default:
			return errors.NewGenericError(
				"Expression `%s` in this context is not yet implemented",
				repr.String(node))
		}
	}
	return nil
}

func (i *Interpreter) getVar(ident string) (parser.Variable, error) {
	v, ok := i.Variables[ident]
	if !ok {
		return nil, errors.NewGenericError("Variable doesn't exist: `%s`", ident)
	}
	return v, nil
}

// evalOperand reduces an arithmetic operand to a number.
func (i *Interpreter) evalOperand(operand parser.Expr) (int64, error) {
	switch op := operand.(type) {
	case parser.BinExpr:
		return i.handleBinExpr(op)
	case parser.Number:
		return int64(op), nil
	case parser.Ident:
		v, err := i.getVar(string(op))
		if err != nil {
			return 0, err
		}
		if n, ok := v.(parser.NumberValue); ok {
			return int64(n), nil
		}
	}
	return 0, errors.NewGenericError("Cannot add variable which is not a number")
}

func (i *Interpreter) handleBinExpr(binExpr parser.BinExpr) (int64, error) {
	lhs, err := i.evalOperand(binExpr.Lhs)
	if err != nil {
		return 0, err
	}
	rhs, err := i.evalOperand(binExpr.Rhs)
	if err != nil {
		return 0, err
	}

	switch binExpr.Kind {
	case parser.Plus:
		return lhs + rhs, nil
	case parser.Minus:
		return lhs - rhs, nil
	case parser.Multiply:
		return lhs * rhs, nil
	}
	if rhs == 0 {
		return 0, errors.NewGenericError("Division by zero")
	}
	return lhs / rhs, nil
}

func (i *Interpreter) handleFuncCall(funcCall parser.FuncCall) error {
	if funcCall.Name != "print" {
		return errors.NewGenericError("Function `%s` is not implemented", funcCall.Name)
	}

	last := len(funcCall.Arguments) - 1
	for idx, arg := range funcCall.Arguments {
		switch a := arg.(type) {
		case parser.FuncCall:
			// Nested calls run for their side effect and produce no value.
			if err := i.handleFuncCall(a); err != nil {
				return err
			}
		case parser.BinExpr:
			n, err := i.handleBinExpr(a)
			if err != nil {
				return err
			}
			fmt.Fprintf(i.Out, "%d", n)
		case parser.Number:
			fmt.Fprintf(i.Out, "%d", int64(a))
		case parser.Ident:
			v, err := i.getVar(string(a))
			if err != nil {
				return err
			}
			fmt.Fprint(i.Out, v)
		case parser.StringLit:
			fmt.Fprint(i.Out, string(a))
		case parser.BoolLit:
			fmt.Fprint(i.Out, strconv.FormatBool(bool(a)))
		default:
			return errors.NewGenericError("Invalid argument to print")
		}

		if idx != last {
			fmt.Fprint(i.Out, " ")
		}
	}
	fmt.Fprintln(i.Out)

	return nil
}

func (i *Interpreter) handleVarDecl(decl parser.VariableDeclaration) error {
	if decl.Typ != lexer.TypeNone && !parser.TypeCheck(decl.Typ, decl.Value) {
		return errors.NewGenericError(
			"Variable type `%s` does not match value type", decl.Typ)
	}

	var value parser.Variable
	switch v := decl.Value.(type) {
	case parser.Number:
		value = parser.NumberValue(v)
	case parser.StringLit:
		value = parser.StringValue(v)
	case parser.BoolLit:
		value = parser.BoolValue(v)
	case parser.BinExpr:
		n, err := i.handleBinExpr(v)
		if err != nil {
			return err
		}
		value = parser.NumberValue(n)
	default:
		return errors.NewGenericError("Can only store strings and numbers in variables")
	}

	// Redeclaring overwrites: one flat scope, last write wins.
	i.Variables[decl.Identifier] = value

	return nil
}
