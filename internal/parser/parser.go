package parser

import (
	"github.com/malphas-lang/arith/internal/ast"
	"github.com/malphas-lang/arith/internal/lexer"
)

type Option func(*options)

type options struct {
	filename string
}

// WithFilename configures the parser to attribute all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// precedenceLowest is the threshold a fresh expression (top level or inside
// a group) starts from; every operator binds tighter than it.
const precedenceLowest = 0

// Parser is a precedence-climbing parser over a fully lexed token buffer.
// Invariants:
//   - tokens holds every non-whitespace token of the input, in order, and
//     always ends with exactly one EOF token.
//   - pos only moves forward. peek may look behind, but nothing rewinds.
//   - errors is append-only and holds at most one entry per statement.
type Parser struct {
	tokens []lexer.Token
	pos    int

	// lexical problems keyed by token start offset, so the statement that
	// contains the offending token is the one that fails.
	lexErrIndex map[int]lexer.LexerError

	errors    []ParseError
	stmtIndex int
}

// Statement is the outcome of parsing one top-level statement.
type Statement struct {
	Index int
	Stmt  *ast.ExprStmt // nil when parsing failed
	Err   *ParseError
}

// New lexes input to completion, drops whitespace, and returns a parser
// positioned at the first token.
func New(input string, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	lx := lexer.New(input)
	if cfg.filename != "" {
		lx.SetFilename(cfg.filename)
	}

	p := &Parser{lexErrIndex: make(map[int]lexer.LexerError)}
	for {
		tok, ok := lx.Next()
		if !ok {
			break
		}
		if tok.Type == lexer.WHITESPACE {
			continue
		}
		p.tokens = append(p.tokens, tok)
	}

	for _, err := range lx.Errors {
		if _, seen := p.lexErrIndex[err.Span.Start]; !seen {
			p.lexErrIndex[err.Span.Start] = err
		}
	}

	return p
}

// Errors returns all parse errors encountered so far, in statement order.
func (p *Parser) Errors() []ParseError {
	return p.errors
}

// Tokens returns the whitespace-free token buffer.
func (p *Parser) Tokens() []lexer.Token {
	return p.tokens
}

// Next parses the next top-level statement. It returns false once the
// current token is EOF. A statement that fails to parse is reported through
// Statement.Err and parsing resumes after it.
func (p *Parser) Next() (Statement, bool) {
	if p.current().Type == lexer.EOF {
		return Statement{}, false
	}

	start := p.pos
	index := p.stmtIndex
	p.stmtIndex++
	errCount := len(p.errors)

	expr := p.parseExpression(precedenceLowest)
	if expr != nil {
		return Statement{Index: index, Stmt: ast.NewExprStmt(expr)}, true
	}

	// Always make progress so a broken statement cannot stall the loop.
	if p.pos == start {
		p.consume()
	}

	res := Statement{Index: index}
	if len(p.errors) > errCount {
		err := p.errors[errCount]
		res.Err = &err
	}
	return res, true
}

// NextStatement returns the next statement that parses successfully, or
// false when the input is exhausted. Failed statements are skipped; their
// errors remain available through Errors.
func (p *Parser) NextStatement() (*ast.ExprStmt, bool) {
	for {
		res, ok := p.Next()
		if !ok {
			return nil, false
		}
		if res.Stmt != nil {
			return res.Stmt, true
		}
	}
}

// ParseProgram collects every successfully parsed statement.
func (p *Parser) ParseProgram() *ast.Program {
	prog := ast.NewProgram()
	for {
		stmt, ok := p.NextStatement()
		if !ok {
			return prog
		}
		prog.Append(stmt)
	}
}
