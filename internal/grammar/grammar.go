// Package grammar is a declarative description of the arithmetic language,
// built with participle. It is slower and less helpful on errors than the
// hand-written parser, and exists to cross-check it: both must produce the
// same tree shape for every valid input.
package grammar

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	plexer "github.com/alecthomas/participle/v2/lexer"

	"github.com/malphas-lang/arith/internal/ast"
	"github.com/malphas-lang/arith/internal/lexer"
)

// Program is a sequence of top-level sums.
type Program struct {
	Stmts []*Sum `@@*`
}

// Sum is a left-associative chain of + and -.
type Sum struct {
	Head *Product   `@@`
	Tail []*SumTerm `@@*`
}

type SumTerm struct {
	Pos     plexer.Position
	Op      string   `@("+" | "-")`
	Operand *Product `@@`
}

// Product is a left-associative chain of * and /.
type Product struct {
	Head *Factor        `@@`
	Tail []*ProductTerm `@@*`
}

type ProductTerm struct {
	Pos     plexer.Position
	Op      string  `@("*" | "/")`
	Operand *Factor `@@`
}

// Factor is an integer literal or a parenthesized sum.
type Factor struct {
	Pos    plexer.Position
	EndPos plexer.Position
	Number *string `  @Int`
	Group  *Sum    `| "(" @@ ")"`
}

var (
	arithLexer = plexer.MustSimple([]plexer.SimpleRule{
		{Name: "Int", Pattern: `[0-9]+`},
		{Name: "Op", Pattern: `[-+*/()]`},
		// Everything unicode.IsSpace accepts.
		{Name: "Whitespace", Pattern: `[\s\x{0B}\x{85}\p{Z}]+`},
	})

	parser = participle.MustBuild[Program](
		participle.Lexer(arithLexer),
		participle.Elide("Whitespace"),
	)
)

// ParseString parses src into the grammar's own tree.
func ParseString(src string) (*Program, error) {
	return parser.ParseString("", src)
}

// Parse parses src and converts the result into an ast.Program. Spans are
// byte based, which matches the lexer for ASCII input. A group's span ends
// where the following token starts.
func Parse(src string) (*ast.Program, error) {
	tree, err := ParseString(src)
	if err != nil {
		return nil, err
	}
	return tree.AST()
}

// EBNF returns the grammar in EBNF notation.
func EBNF() string {
	return parser.String()
}

// AST converts the grammar tree into an ast.Program.
func (p *Program) AST() (*ast.Program, error) {
	prog := ast.NewProgram()
	for _, sum := range p.Stmts {
		expr, err := sum.expr()
		if err != nil {
			return nil, err
		}
		prog.Append(ast.NewExprStmt(expr))
	}
	return prog, nil
}

func (s *Sum) expr() (ast.Expr, error) {
	left, err := s.Head.expr()
	if err != nil {
		return nil, err
	}
	for _, term := range s.Tail {
		right, err := term.Operand.expr()
		if err != nil {
			return nil, err
		}
		left, err = fold(term.Op, term.Pos, left, right)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Product) expr() (ast.Expr, error) {
	left, err := p.Head.expr()
	if err != nil {
		return nil, err
	}
	for _, term := range p.Tail {
		right, err := term.Operand.expr()
		if err != nil {
			return nil, err
		}
		left, err = fold(term.Op, term.Pos, left, right)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (f *Factor) expr() (ast.Expr, error) {
	span := toSpan(f.Pos, f.EndPos)
	if f.Number != nil {
		// Literals are plain decimal; a leading zero is not an octal prefix.
		value, err := strconv.ParseInt(*f.Number, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: integer literal %s: %w", f.Pos, *f.Number, err)
		}
		return ast.NewIntegerLit(value, span), nil
	}
	inner, err := f.Group.expr()
	if err != nil {
		return nil, err
	}
	return ast.NewParenExpr(inner, span), nil
}

func fold(op string, pos plexer.Position, left, right ast.Expr) (ast.Expr, error) {
	tt := lexer.TokenType(op)
	binOp, ok := ast.BinaryOpFromToken(tt)
	if !ok {
		return nil, fmt.Errorf("%s: unknown operator %q", pos, op)
	}
	tok := lexer.Token{
		Type: tt,
		Raw:  op,
		Span: lexer.Span{Line: pos.Line, Column: pos.Column, Start: pos.Offset, End: pos.Offset + len(op)},
	}
	return ast.NewBinaryExpr(binOp, tok, left, right), nil
}

func toSpan(start, end plexer.Position) lexer.Span {
	return lexer.Span{
		Line:   start.Line,
		Column: start.Column,
		Start:  start.Offset,
		End:    end.Offset,
	}
}
