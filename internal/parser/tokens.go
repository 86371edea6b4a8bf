package parser

import (
	"github.com/malphas-lang/arith/internal/lexer"
)

// peek returns the token at offset from the cursor. Offsets past either end
// clamp to the nearest token, so reading beyond the buffer yields EOF.
func (p *Parser) peek(offset int) lexer.Token {
	i := p.pos + offset
	if i < 0 {
		i = 0
	}
	if i >= len(p.tokens) {
		i = len(p.tokens) - 1
	}
	return p.tokens[i]
}

func (p *Parser) current() lexer.Token {
	return p.peek(0)
}

// consume returns the current token and advances past it. The cursor never
// moves beyond the trailing EOF token.
func (p *Parser) consume() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it has type tt. Otherwise it leaves the
// cursor in place, records an error, and returns false.
func (p *Parser) expect(tt lexer.TokenType, opener lexer.Token) (lexer.Token, bool) {
	tok := p.current()
	if tok.Type == tt {
		return p.consume(), true
	}
	p.reportExpected(string(tt), tok, opener)
	return tok, false
}
