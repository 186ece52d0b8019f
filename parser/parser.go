package parser

import (
	"github.com/blacklang/black/errors"
	"github.com/blacklang/black/lexer"
)

// Parser builds an AST from a token sequence by recursive descent with one
// token of lookahead. It does not recover: the first failure aborts the
// whole program.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek() (lexer.Token, bool) {
	if p.pos >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *Parser) next() (lexer.Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

// Parse consumes every token into an ordered list of top-level expressions.
func (p *Parser) Parse() (Ast, error) {
	var ast Ast

	for p.pos < len(p.tokens) {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ast = append(ast, expr)
	}

	return ast, nil
}

func (p *Parser) parseExpr() (Expr, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, errors.NewSyntaxError("Unexpected end of input")
	}

	switch tok.Kind {
	case lexer.Let:
		return p.parseVariableDeclaration()
	case lexer.If:
		return p.parseIf()
	}
	return p.parseBinary()
}

// parseBinary parses a chain of +, -, * and / at a single precedence
// level, strictly left to right. 1+2*3 is (1+2)*3 here, not 7.
func (p *Parser) parseBinary() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.peek()
		if !ok {
			break
		}

		var kind BinOpKind
		switch tok.Kind {
		case lexer.Plus:
			kind = Plus
		case lexer.Minus:
			kind = Minus
		case lexer.Multiply:
			kind = Multiply
		case lexer.Divide:
			kind = Divide
		default:
			return left, nil
		}
		p.next()

		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		left = BinExpr{Lhs: left, Rhs: right, Kind: kind}
	}

	return left, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok, ok := p.next()
	if !ok {
		return nil, errors.NewSyntaxError("Unexpected end of input")
	}

	switch tok.Kind {
	case lexer.Number:
		return Number(tok.Num), nil
	case lexer.BoolLiteral:
		return BoolLit(tok.Bool), nil
	case lexer.StringLiteral:
		return StringLit(tok.Text), nil
	case lexer.Identifier:
		if nxt, ok := p.peek(); ok && nxt.Kind == lexer.LeftParen {
			return p.parseFuncCall(tok.Text)
		}
		return Ident(tok.Text), nil
	case lexer.LeftParen:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if nxt, ok := p.next(); !ok || nxt.Kind != lexer.RightParen {
			return nil, errors.NewSyntaxError("Expected ')'")
		}
		return expr, nil
	case lexer.LeftBrace:
		return p.parseBlock()
	}

	return nil, errors.NewSyntaxError("Unexpected token: %s", tok)
}

// parseFuncCall is entered with the identifier consumed and the opening
// parenthesis as the next token.
func (p *Parser) parseFuncCall(name string) (Expr, error) {
	if tok, ok := p.next(); !ok || tok.Kind != lexer.LeftParen {
		return nil, errors.NewSyntaxError("Expected '(' after function name")
	}

	var args []Expr
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, errors.NewSyntaxError("Unexpected end of input, expected ')'")
		}

		switch tok.Kind {
		case lexer.RightParen:
			p.next()
			return FuncCall{Name: name, Arguments: args}, nil
		case lexer.Comma:
			p.next()
		default:
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
}

func (p *Parser) parseVariableDeclaration() (Expr, error) {
	p.next() // consume `let`

	typ := lexer.TypeNone
	if tok, ok := p.peek(); ok && tok.Kind == lexer.TypeName {
		typ = tok.Typ
		p.next()
	}

	tok, ok := p.next()
	if !ok || tok.Kind != lexer.Identifier {
		return nil, errors.NewSyntaxError("Expected identifier after variable type")
	}
	identifier := tok.Text

	if eq, ok := p.next(); !ok || eq.Kind != lexer.Equals {
		return nil, errors.NewSyntaxError("Expected '=' after variable name")
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return VariableDeclaration{Identifier: identifier, Typ: typ, Value: value}, nil
}

// parseBlock is entered past the opening brace.
func (p *Parser) parseBlock() (Expr, error) {
	var statements Block

	for {
		tok, ok := p.peek()
		if !ok {
			return nil, errors.NewSyntaxError("Expected '}'")
		}
		if tok.Kind == lexer.RightBrace {
			p.next()
			return statements, nil
		}

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		statements = append(statements, expr)
	}
}

func (p *Parser) parseIf() (Expr, error) {
	p.next() // consume `if`

	cond, err := p.parseBinary()
	if err != nil {
		return nil, err
	}

	if tok, ok := p.next(); !ok || tok.Kind != lexer.LeftBrace {
		return nil, errors.NewSyntaxError("Expected '{' after if condition")
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return If{Condition: cond, Body: body.(Block)}, nil
}
