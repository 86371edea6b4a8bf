package diag_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/arith/internal/diag"
	"github.com/malphas-lang/arith/internal/lexer"
)

func TestFromLexerError(t *testing.T) {
	err := lexer.LexerError{
		Kind:    lexer.ErrIllegalRune,
		Message: `illegal character "x"`,
		Span: lexer.Span{
			Line:   1,
			Column: 3,
			Start:  2,
			End:    3,
		},
	}

	diagnostic := err.ToDiagnostic()

	if diagnostic.Stage != diag.StageLexer {
		t.Fatalf("expected stage %q, got %q", diag.StageLexer, diagnostic.Stage)
	}
	if diagnostic.Code != diag.CodeLexerIllegalRune {
		t.Fatalf("expected code %q, got %q", diag.CodeLexerIllegalRune, diagnostic.Code)
	}
	if diagnostic.Message != err.Message {
		t.Fatalf("expected message %q, got %q", err.Message, diagnostic.Message)
	}
	if diagnostic.Severity != diag.SeverityError {
		t.Fatalf("expected severity %q, got %q", diag.SeverityError, diagnostic.Severity)
	}

	wantSpan := diag.Span{
		Line:   err.Span.Line,
		Column: err.Span.Column,
		Start:  err.Span.Start,
		End:    err.Span.End,
	}
	if diagnostic.Span != wantSpan {
		t.Fatalf("expected span %+v, got %+v", wantSpan, diagnostic.Span)
	}
}

func TestSpanString(t *testing.T) {
	assert.Equal(t, "3:7", diag.Span{Line: 3, Column: 7}.String())
	assert.Equal(t, "calc.txt:1:2", diag.Span{Filename: "calc.txt", Line: 1, Column: 2}.String())
	assert.False(t, diag.Span{}.IsValid())
}

func TestFormatterRendersSnippet(t *testing.T) {
	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)
	f.AddSource("", "1 + (2 * 3")

	d := diag.Diagnostic{
		Stage:     diag.StageParser,
		Severity:  diag.SeverityError,
		Code:      diag.CodeParseExpectedToken,
		Message:   "expected `)`, found end of input",
		Span:      diag.Span{Line: 1, Column: 11, Start: 10, End: 10},
		Statement: 0,
	}.WithPrimarySpan(diag.Span{Line: 1, Column: 11, Start: 10, End: 10}, "expected `)`").
		WithSecondarySpan(diag.Span{Line: 1, Column: 5, Start: 4, End: 5}, "group opened here")

	f.Format(d)

	want := "error[PARSE_EXPECTED_TOKEN]: expected `)`, found end of input\n" +
		"  in statement 1\n" +
		"  --> <input>:1:11\n" +
		"   |\n" +
		" 1 | 1 + (2 * 3\n" +
		"   |     ~     ^ expected `)`\n" +
		"   |             group opened here\n" +
		"   |\n"
	require.Equal(t, want, buf.String())
}

func TestFormatterFallsBackWithoutSource(t *testing.T) {
	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)

	f.Format(diag.Diagnostic{
		Severity:  diag.SeverityError,
		Code:      diag.CodeEvalDivisionByZero,
		Message:   "division by zero",
		Span:      diag.Span{Line: 2, Column: 3},
		Statement: -1,
		Help:      "check the divisor",
	})

	assert.Equal(t, "error[EVAL_DIVISION_BY_ZERO]: division by zero\n  --> 2:3\nhelp: check the divisor\n", buf.String())
}

func TestDiagnosticError(t *testing.T) {
	d := diag.Diagnostic{
		Severity: diag.SeverityError,
		Code:     diag.CodeEvalOverflow,
		Message:  "integer overflow",
		Span:     diag.Span{Line: 1, Column: 4},
	}
	assert.EqualError(t, d, "1:4: error[EVAL_OVERFLOW]: integer overflow")
}
