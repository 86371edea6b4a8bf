package parser

import (
	"fmt"

	"github.com/malphas-lang/arith/internal/diag"
	"github.com/malphas-lang/arith/internal/lexer"
)

// ParseError describes why one top-level statement could not be parsed.
type ParseError struct {
	Stage     diag.Stage
	Code      diag.Code
	Message   string
	Span      lexer.Span
	Statement int // 0-based index of the failed statement

	// Expected names the missing token, if any. Found is the token the
	// parser stopped at.
	Expected string
	Found    lexer.Token

	// Opener is the span of the `(` whose group was left unclosed.
	Opener *lexer.Span
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Span.Line, e.Span.Column, e.Message)
}

// ToDiagnostic converts a parse error into a shared diagnostic structure.
func (e ParseError) ToDiagnostic() diag.Diagnostic {
	stage := e.Stage
	if stage == "" {
		stage = diag.StageParser
	}

	label := "unexpected token"
	if e.Expected != "" {
		label = "expected `" + e.Expected + "`"
	}

	d := diag.Diagnostic{
		Stage:     stage,
		Severity:  diag.SeverityError,
		Code:      e.Code,
		Message:   e.Message,
		Span:      toDiagSpan(e.Span),
		Statement: e.Statement,
	}.WithPrimarySpan(toDiagSpan(e.Span), label)

	if e.Opener != nil {
		d = d.WithSecondarySpan(toDiagSpan(*e.Opener), "group opened here")
	}
	if e.Expected != "" {
		d = d.WithHelp("add a closing `" + e.Expected + "`")
	}
	return d
}

func toDiagSpan(s lexer.Span) diag.Span {
	return diag.Span{
		Filename: s.Filename,
		Line:     s.Line,
		Column:   s.Column,
		Start:    s.Start,
		End:      s.End,
	}
}

func (p *Parser) report(err ParseError) {
	if err.Stage == "" {
		err.Stage = diag.StageParser
	}
	err.Statement = p.stmtIndex - 1
	p.errors = append(p.errors, err)
}

// reportExpected reports an error when an expected token is missing.
func (p *Parser) reportExpected(expected string, found lexer.Token, opener lexer.Token) {
	err := ParseError{
		Code:     diag.CodeParseExpectedToken,
		Message:  fmt.Sprintf("expected `%s`, found %s", expected, found.Describe()),
		Span:     found.Span,
		Expected: expected,
		Found:    found,
	}
	if opener.Type != "" {
		span := opener.Span
		err.Opener = &span
	}
	p.report(err)
}

// reportUnexpected reports a token that cannot start an expression.
func (p *Parser) reportUnexpected(found lexer.Token) {
	p.report(ParseError{
		Code:    diag.CodeParseUnexpectedToken,
		Message: fmt.Sprintf("expected expression, found %s", found.Describe()),
		Span:    found.Span,
		Found:   found,
	})
}

// reportLexical surfaces a lexer error for the statement containing it.
func (p *Parser) reportLexical(lexErr lexer.LexerError, found lexer.Token) {
	d := lexErr.ToDiagnostic()
	p.report(ParseError{
		Stage:   diag.StageLexer,
		Code:    d.Code,
		Message: lexErr.Message,
		Span:    lexErr.Span,
		Found:   found,
	})
}
