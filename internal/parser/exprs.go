package parser

import (
	"github.com/malphas-lang/arith/internal/ast"
	"github.com/malphas-lang/arith/internal/lexer"
)

// parseExpression parses a binary expression by precedence climbing. It
// keeps folding operators into left while they bind tighter than minPrec;
// an operator of equal precedence ends the call, which makes every
// operator left-associative.
func (p *Parser) parseExpression(minPrec int) ast.Expr {
	left := p.parsePrimary()
	if left == nil {
		return nil
	}

	for {
		opTok := p.current()
		op, ok := ast.BinaryOpFromToken(opTok.Type)
		if !ok {
			break
		}

		prec := op.Precedence()
		if prec <= minPrec {
			break
		}
		p.consume()

		right := p.parseExpression(prec)
		if right == nil {
			return nil
		}
		left = ast.NewBinaryExpr(op, opTok, left, right)
	}

	return left
}

// parsePrimary parses an integer literal or a parenthesized group.
func (p *Parser) parsePrimary() ast.Expr {
	tok := p.current()
	if lexErr, ok := p.lexErrIndex[tok.Span.Start]; ok && tok.Type != lexer.EOF {
		p.consume()
		p.reportLexical(lexErr, tok)
		return nil
	}

	switch tok.Type {
	case lexer.INT:
		p.consume()
		return ast.NewIntegerLit(tok.Value, tok.Span)

	case lexer.LPAREN:
		return p.parseGroupedExpr()

	case lexer.EOF:
		p.reportUnexpected(tok)
		return nil

	default:
		p.consume()
		p.reportUnexpected(tok)
		return nil
	}
}

// parseGroupedExpr parses "(expr)" into an explicit ParenExpr node.
func (p *Parser) parseGroupedExpr() ast.Expr {
	open := p.consume()

	inner := p.parseExpression(precedenceLowest)
	if inner == nil {
		return nil
	}

	closing, ok := p.expect(lexer.RPAREN, open)
	if !ok {
		return nil
	}

	return ast.NewParenExpr(inner, ast.MergeSpan(open.Span, closing.Span))
}
