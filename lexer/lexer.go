package lexer

import (
	"strconv"
	"strings"

	"github.com/blacklang/black/errors"
)

// Type is a declared variable type. TypeNone means no type was written.
type Type int

const (
	TypeNone Type = iota
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeStr
	TypeBool
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeLong:
		return "long"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeStr:
		return "str"
	case TypeBool:
		return "bool"
	}
	return "none"
}

// Kind discriminates the closed set of token kinds.
type Kind int

const (
	// Keywords
	Let Kind = iota
	If

	// Operators
	Plus
	Minus
	Multiply
	Divide
	Equals

	// Declared types
	TypeName

	// Punctuation
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Comma

	// Identifiers
	Identifier

	// Literals
	Number
	StringLiteral
	BoolLiteral
)

// Token is one lexical unit. Only the payload field matching Kind is set:
// Text for identifiers and string literals, Num for numbers, Typ for
// declared types, Bool for bool literals.
type Token struct {
	Kind Kind
	Text string
	Num  int64
	Typ  Type
	Bool bool
}

// Len reports how many bytes of source text the token consumed, so the
// line cursor can advance without re-scanning.
func (t Token) Len() int {
	switch t.Kind {
	case Let:
		return 3
	case If:
		return 2
	case TypeName:
		return len(t.Typ.String())
	case Identifier:
		return len(t.Text)
	case Number:
		return len(strconv.FormatInt(t.Num, 10))
	case StringLiteral:
		// Includes quotes
		return len(t.Text) + 2
	case BoolLiteral:
		if t.Bool {
			return 4
		}
		return 5
	}
	return 1
}

func (t Token) String() string {
	switch t.Kind {
	case Let:
		return "let"
	case If:
		return "if"
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Equals:
		return "="
	case TypeName:
		return t.Typ.String()
	case LeftParen:
		return "("
	case RightParen:
		return ")"
	case LeftBrace:
		return "{"
	case RightBrace:
		return "}"
	case Comma:
		return ","
	case Identifier:
		return t.Text
	case Number:
		return strconv.FormatInt(t.Num, 10)
	case StringLiteral:
		return `"` + t.Text + `"`
	case BoolLiteral:
		return strconv.FormatBool(t.Bool)
	}
	return "?"
}

// Preprocess strips full-line and trailing // comments. Stripped lines are
// kept as empty lines so line numbers in later diagnostics stay valid.
func Preprocess(code string) string {
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(line, "//") {
			out = append(out, "")
			continue
		}
		if idx := strings.Index(line, "//"); idx != -1 {
			line = line[:idx]
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

var keywords = []struct {
	word string
	tok  Token
}{
	{"let", Token{Kind: Let}},
	{"if", Token{Kind: If}},
	{"int", Token{Kind: TypeName, Typ: TypeInt}},
	{"long", Token{Kind: TypeName, Typ: TypeLong}},
	{"float", Token{Kind: TypeName, Typ: TypeFloat}},
	{"double", Token{Kind: TypeName, Typ: TypeDouble}},
	{"str", Token{Kind: TypeName, Typ: TypeStr}},
	{"bool", Token{Kind: TypeName, Typ: TypeBool}},
}

var singleChars = map[byte]Token{
	'+': {Kind: Plus},
	'-': {Kind: Minus},
	'*': {Kind: Multiply},
	'/': {Kind: Divide},
	'=': {Kind: Equals},
	'(': {Kind: LeftParen},
	')': {Kind: RightParen},
	'{': {Kind: LeftBrace},
	'}': {Kind: RightBrace},
	',': {Kind: Comma},
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// match recognizes the longest token at the start of s, trying in order:
// keywords and declared types (which must end at whitespace or end of
// input, so `intx` stays an identifier), numbers, string literals,
// identifiers, and single-character operators/punctuation.
func match(s string) (Token, bool) {
	for _, kw := range keywords {
		if !strings.HasPrefix(s, kw.word) {
			continue
		}
		if len(s) == len(kw.word) || s[len(kw.word)] == ' ' || s[len(kw.word)] == '\t' {
			return kw.tok, true
		}
	}

	if c := s[0]; c >= '0' && c <= '9' {
		i := 1
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		n, err := strconv.ParseInt(s[:i], 10, 64)
		if err != nil {
			return Token{}, false
		}
		return Token{Kind: Number, Num: n}, true
	}

	if s[0] == '"' {
		end := strings.IndexByte(s[1:], '"')
		if end == -1 {
			return Token{}, false
		}
		return Token{Kind: StringLiteral, Text: s[1 : 1+end]}, true
	}

	if isIdentStart(s[0]) {
		i := 1
		for i < len(s) && isIdentChar(s[i]) {
			i++
		}
		// Bool literals come out of the identifier rule so that `true)`
		// needs no whitespace boundary.
		switch s[:i] {
		case "true":
			return Token{Kind: BoolLiteral, Bool: true}, true
		case "false":
			return Token{Kind: BoolLiteral, Bool: false}, true
		}
		return Token{Kind: Identifier, Text: s[:i]}, true
	}

	if tok, ok := singleChars[s[0]]; ok {
		return tok, true
	}

	return Token{}, false
}

// Lex converts preprocessed source text into an ordered token sequence.
// The first remainder no rule matches aborts the whole pass.
func Lex(input string) ([]Token, error) {
	var tokens []Token

	for _, line := range strings.Split(input, "\n") {
		remaining := strings.TrimSpace(line)
		for remaining != "" {
			tok, ok := match(remaining)
			if !ok {
				return nil, errors.NewSyntaxError("Unexpected token: %s", remaining)
			}
			remaining = strings.TrimLeft(remaining[tok.Len():], " \t")
			tokens = append(tokens, tok)
		}
	}

	return tokens, nil
}
