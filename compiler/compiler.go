package compiler

import (
	"fmt"
	"strings"

	"github.com/alecthomas/repr"

	"github.com/blacklang/black/errors"
	"github.com/blacklang/black/lexer"
	"github.com/blacklang/black/parser"
	"github.com/blacklang/black/utils"
)

type varKind int

const (
	kindNumber varKind = iota
	kindString
	kindBool
)

// knownVar records, per identifier, which value kind its storage holds and
// which data label currently backs it. The kind is resolved at emission
// time so print lowering can pick the right output call; the label tracks
// redeclarations, which allocate fresh storage.
type knownVar struct {
	kind  varKind
	label string
}

// Compiler lowers an AST into textual IR: a data section of named blobs
// plus one exported entry function of straight-line instructions. A
// monotonically increasing counter names every temporary and anonymous
// blob uniquely across the whole pass.
type Compiler struct {
	Ast parser.Ast

	ir        strings.Builder
	data      strings.Builder
	pk        int
	variables map[string]knownVar
}

func New() *Compiler {
	return &Compiler{variables: make(map[string]knownVar)}
}

func FromAst(ast parser.Ast) *Compiler {
	c := New()
	c.Ast = ast
	return c
}

// LoadAst replaces the loaded AST, keeping emission state. The diagnostics
// line scanner relies on this to re-emit a growing context with one
// scratch compiler.
func (c *Compiler) LoadAst(ast parser.Ast) {
	c.Ast = ast
}

func (c *Compiler) nextPk() int {
	c.pk++
	return c.pk
}

func (c *Compiler) getVar(ident string) (knownVar, error) {
	v, ok := c.variables[ident]
	if !ok {
		return knownVar{}, errors.NewGenericError("Variable doesn't exist: `%s`", ident)
	}
	return v, nil
}

// emitStr stores a null-terminated blob in the data section and returns
// the pk naming it.
func (c *Compiler) emitStr(s string) int {
	pk := c.nextPk()
	fmt.Fprintf(&c.data, "data $v%d = { b \"%s\", b 0 }\n", pk, utils.EscapeString(s))
	return pk
}

func (c *Compiler) handleFuncCall(funcCall parser.FuncCall) error {
	if funcCall.Name != "print" {
		return errors.NewGenericError("Function `%s` is not implemented", funcCall.Name)
	}
	return c.handlePrint(funcCall)
}

func (c *Compiler) handlePrint(funcCall parser.FuncCall) error {
	last := len(funcCall.Arguments) - 1
	for i, arg := range funcCall.Arguments {
		pk := c.nextPk()

		switch a := arg.(type) {
		case parser.StringLit:
			pk := c.emitStr(string(a))
			fmt.Fprintf(&c.ir, "  call $printf(l $v%d)\n", pk)

		case parser.Number:
			pk := c.emitStr(fmt.Sprintf("%d", int64(a)))
			fmt.Fprintf(&c.ir, "  call $printf(l $v%d)\n", pk)

		case parser.BoolLit:
			pk := c.emitStr(fmt.Sprintf("%t", bool(a)))
			fmt.Fprintf(&c.ir, "  call $printf(l $v%d)\n", pk)

		case parser.BinExpr:
			resVar, err := c.handleBinExpr(a)
			if err != nil {
				return err
			}
			fmt.Fprintf(&c.ir, "  call $printf(l $fmt_int, w %s)\n", resVar)

		case parser.FuncCall:
			// Nested calls run for their side effect and produce no value,
			// matching the interpreter.
			if err := c.handleFuncCall(a); err != nil {
				return err
			}

		case parser.Ident:
			v, err := c.getVar(string(a))
			if err != nil {
				return err
			}
			switch v.kind {
			case kindNumber:
				fmt.Fprintf(&c.ir, "  %%v%d =w loadw %s\n", pk, v.label)
				fmt.Fprintf(&c.ir, "  call $printf(l $fmt_int, w %%v%d)\n", pk)
			case kindString:
				fmt.Fprintf(&c.ir, "  call $printf(l %s)\n", v.label)
			case kindBool:
				fmt.Fprintf(&c.ir, "  %%v%d =w loadw %s\n", pk, v.label)
				fmt.Fprintf(&c.ir, "  call $printb(w %%v%d)\n", pk)
			}

		default:
			return errors.NewGenericError("Invalid argument to print")
		}

		// Space between arguments, not after the last one
		if i != last {
			c.ir.WriteString("  call $printf(l $space)\n")
		}
	}

	c.ir.WriteString("  call $printf(l $endl)\n")

	return nil
}

// evalOperand lowers an arithmetic operand and returns the immediate or
// temporary holding it.
func (c *Compiler) evalOperand(operand parser.Expr) (string, error) {
	pk := c.nextPk()

	switch op := operand.(type) {
	case parser.Number:
		return fmt.Sprintf("%d", int64(op)), nil

	case parser.Ident:
		v, err := c.getVar(string(op))
		if err != nil {
			return "", err
		}
		if v.kind != kindNumber {
			return "", errors.NewGenericError("Cannot add variable which is not a number")
		}
		fmt.Fprintf(&c.ir, "  %%op%d =w loadw %s\n", pk, v.label)
		return fmt.Sprintf("%%op%d", pk), nil

	case parser.BinExpr:
		return c.handleBinExpr(op)
	}

	return "", errors.NewGenericError("Cannot add variable which is not a number")
}

// handleBinExpr lowers both operands, then one arithmetic instruction
// combining them. Returns the result temporary. Division goes through the
// checked divide in the runtime preamble so a zero divisor fails with a
// diagnostic instead of a processor fault.
func (c *Compiler) handleBinExpr(binExpr parser.BinExpr) (string, error) {
	lhs, err := c.evalOperand(binExpr.Lhs)
	if err != nil {
		return "", err
	}
	rhs, err := c.evalOperand(binExpr.Rhs)
	if err != nil {
		return "", err
	}
	pk := c.nextPk()

	if binExpr.Kind == parser.Divide {
		fmt.Fprintf(&c.ir, "  %%v%d =w call $divw(w %s, w %s)\n", pk, lhs, rhs)
	} else {
		fmt.Fprintf(&c.ir, "  %%v%d =w %s %s, %s\n", pk, binExpr.Kind.Instr(), lhs, rhs)
	}

	return fmt.Sprintf("%%v%d", pk), nil
}

func (c *Compiler) handleVarDecl(decl parser.VariableDeclaration) error {
	if decl.Typ != lexer.TypeNone && !parser.TypeCheck(decl.Typ, decl.Value) {
		return errors.NewGenericError(
			"Variable type `%s` does not match value type", decl.Typ)
	}

	// Redeclaration allocates fresh storage under a versioned label; the
	// table resolves later reads to the newest one.
	label := "$" + decl.Identifier
	if _, redeclared := c.variables[decl.Identifier]; redeclared {
		label = fmt.Sprintf("$%s_%d", decl.Identifier, c.nextPk())
	}

	var kind varKind
	switch v := decl.Value.(type) {
	case parser.Number:
		fmt.Fprintf(&c.data, "data %s = { w %d }\n", label, int64(v))
		kind = kindNumber

	case parser.StringLit:
		fmt.Fprintf(&c.data, "data %s = { b \"%s\", b 0 }\n", label, utils.EscapeString(string(v)))
		kind = kindString

	case parser.BoolLit:
		n := 0
		if v {
			n = 1
		}
		fmt.Fprintf(&c.data, "data %s = { w %d }\n", label, n)
		kind = kindBool

	case parser.BinExpr:
		resVar, err := c.handleBinExpr(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(&c.data, "data %s = { w 0 }\n", label)
		fmt.Fprintf(&c.ir, "  storew %s, %s\n", resVar, label)
		kind = kindNumber

	default:
		return errors.NewGenericError("Can only store strings and numbers in variables")
	}

	c.variables[decl.Identifier] = knownVar{kind: kind, label: label}

	return nil
}

// GenerateIR lowers the loaded AST and returns the complete IR text: the
// data section followed by the exported entry function.
func (c *Compiler) GenerateIR() (string, error) {
	c.ir.WriteString("export function w $main() {\n@start\n")

	for _, node := range c.Ast {
		switch expr := node.(type) {
		case parser.FuncCall:
			if err := c.handleFuncCall(expr); err != nil {
				return "", err
			}

		case parser.VariableDeclaration:
			if err := c.handleVarDecl(expr); err != nil {
				return "", err
			}

		case parser.Ident:
			// A bare identifier lowers like a one-argument print, matching
			// the interpreter.
			if err := c.handlePrint(parser.FuncCall{Name: "print", Arguments: []parser.Expr{expr}}); err != nil {
				return "", err
			}

		default:
			return "", errors.NewGenericError(
				"Expression `%s` in this context is not yet implemented",
				repr.String(node))
		}
	}

	c.ir.WriteString("  ret 0\n}")

	return c.data.String() + "\n" + c.ir.String(), nil
}
