package parser

import (
	"strconv"

	"github.com/blacklang/black/lexer"
)

// Expr is the closed set of AST node kinds. Every consumer matches
// exhaustively; an unknown combination is a reported error, never silently
// skipped.
type Expr interface {
	isExpr()
}

type Number int64

func (Number) isExpr() {}

type StringLit string

func (StringLit) isExpr() {}

type BoolLit bool

func (BoolLit) isExpr() {}

type Ident string

func (Ident) isExpr() {}

type FuncCall struct {
	Name      string
	Arguments []Expr
}

func (FuncCall) isExpr() {}

type VariableDeclaration struct {
	Identifier string
	Typ        lexer.Type
	Value      Expr
}

func (VariableDeclaration) isExpr() {}

type BinExpr struct {
	Lhs  Expr
	Rhs  Expr
	Kind BinOpKind
}

func (BinExpr) isExpr() {}

// Block is an ordered list of expressions between braces. It parses but is
// not evaluated anywhere yet.
type Block []Expr

func (Block) isExpr() {}

// If is a condition plus a block. Like Block it parses but evaluation
// rejects it; the language has no control flow yet.
type If struct {
	Condition Expr
	Body      Block
}

func (If) isExpr() {}

// Ast is an ordered sequence of top-level expressions. Order is evaluation
// and emission order.
type Ast []Expr

type BinOpKind int

const (
	Plus BinOpKind = iota
	Minus
	Multiply
	Divide
)

// Instr is the arithmetic opcode the IR emitter uses for the operator.
func (k BinOpKind) Instr() string {
	switch k {
	case Plus:
		return "add"
	case Minus:
		return "sub"
	case Multiply:
		return "mul"
	}
	return "div"
}

func (k BinOpKind) String() string {
	switch k {
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Multiply:
		return "*"
	}
	return "/"
}

// Variable is a stored runtime value: the closed set consumed everywhere a
// binding is read back (printing, arithmetic, type checks).
type Variable interface {
	isVariable()
	String() string
}

type NumberValue int64

func (NumberValue) isVariable() {}

func (v NumberValue) String() string {
	return strconv.FormatInt(int64(v), 10)
}

type StringValue string

func (StringValue) isVariable() {}

func (v StringValue) String() string {
	return string(v)
}

type BoolValue bool

func (BoolValue) isVariable() {}

func (v BoolValue) String() string {
	return strconv.FormatBool(bool(v))
}

// TypeCheck reports whether a declared type is compatible with the value
// expression of a declaration: str matches string literals, the numeric
// types match numbers and arithmetic, bool matches bool literals.
func TypeCheck(typ lexer.Type, value Expr) bool {
	switch typ {
	case lexer.TypeStr:
		_, ok := value.(StringLit)
		return ok
	case lexer.TypeInt, lexer.TypeLong, lexer.TypeFloat, lexer.TypeDouble:
		switch value.(type) {
		case Number, BinExpr:
			return true
		}
		return false
	case lexer.TypeBool:
		_, ok := value.(BoolLit)
		return ok
	}
	return false
}
