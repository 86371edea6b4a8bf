package eval

import (
	"errors"
	"fmt"

	"github.com/malphas-lang/arith/internal/ast"
	"github.com/malphas-lang/arith/internal/diag"
	"github.com/malphas-lang/arith/internal/lexer"
)

var (
	// ErrDivisionByZero is reported when the right operand of `/` is zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrOverflow is reported when a result does not fit in int64.
	ErrOverflow = errors.New("integer overflow")
)

// RuntimeError ties an evaluation failure to the operator that caused it.
type RuntimeError struct {
	Err   error // ErrDivisionByZero or ErrOverflow
	Expr  *ast.BinaryExpr
	Left  int64
	Right int64
}

func (e *RuntimeError) Error() string {
	span := e.Span()
	return fmt.Sprintf("%d:%d: %s: %d %s %d", span.Line, span.Column, e.Err, e.Left, e.Expr.Op, e.Right)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Span returns the span of the operator token.
func (e *RuntimeError) Span() lexer.Span {
	return e.Expr.OpTok.Span
}

// ToDiagnostic converts the error into a shared diagnostic structure.
func (e *RuntimeError) ToDiagnostic() diag.Diagnostic {
	code := diag.CodeEvalOverflow
	if errors.Is(e.Err, ErrDivisionByZero) {
		code = diag.CodeEvalDivisionByZero
	}

	d := diag.Diagnostic{
		Stage:     diag.StageEval,
		Severity:  diag.SeverityError,
		Code:      code,
		Message:   e.Err.Error(),
		Span:      toDiagSpan(e.Span()),
		Statement: -1,
	}.WithPrimarySpan(toDiagSpan(e.Span()), fmt.Sprintf("%d %s %d", e.Left, e.Expr.Op, e.Right))

	if code == diag.CodeEvalDivisionByZero {
		d = d.WithSecondarySpan(toDiagSpan(e.Expr.Right.Span()), "this evaluates to 0")
	} else {
		d = d.WithNote("operands and results are signed 64-bit integers")
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
