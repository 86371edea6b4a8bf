package diag

import "fmt"

// Stage identifies which pipeline phase produced the diagnostic.
type Stage string

const (
	StageLexer  Stage = "lexer"
	StageParser Stage = "parser"
	StageEval   Stage = "eval"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError Severity = "error"
)

// LabeledSpan represents a span with an optional label.
type LabeledSpan struct {
	Span  Span
	Label string // e.g. "expected `)`"
	Style string // "primary" or "secondary"; primary spans are emphasized
}

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer errors
	CodeLexerIllegalRune     Code = "LEXER_ILLEGAL_RUNE"
	CodeLexerIntegerOverflow Code = "LEXER_INTEGER_OVERFLOW"

	// Parser errors
	CodeParseExpectedToken   Code = "PARSE_EXPECTED_TOKEN"
	CodeParseUnexpectedToken Code = "PARSE_UNEXPECTED_TOKEN"

	// Evaluation errors
	CodeEvalDivisionByZero Code = "EVAL_DIVISION_BY_ZERO"
	CodeEvalOverflow       Code = "EVAL_OVERFLOW"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a pipeline diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span // primary span

	// Statement is the 0-based index of the top-level statement the
	// diagnostic belongs to, or -1 when it is not tied to one.
	Statement int

	// LabeledSpans allows multiple spans with labels. The first span is
	// treated as primary, others as secondary.
	LabeledSpans []LabeledSpan
	Notes        []string
	Help         string
}

// Error makes a Diagnostic usable as an error value.
func (d Diagnostic) Error() string {
	if d.Code != "" {
		return fmt.Sprintf("%s: %s[%s]: %s", d.Span, d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Span, d.Severity, d.Message)
}

// WithStatement returns a new diagnostic attributed to the given statement.
func (d Diagnostic) WithStatement(index int) Diagnostic {
	d.Statement = index
	return d
}

// WithLabeledSpan adds a labeled span to the diagnostic.
func (d Diagnostic) WithLabeledSpan(span Span, label string, style string) Diagnostic {
	if style == "" {
		style = "primary"
	}
	d.LabeledSpans = append(d.LabeledSpans, LabeledSpan{
		Span:  span,
		Label: label,
		Style: style,
	})
	return d
}

// WithPrimarySpan adds a primary labeled span.
func (d Diagnostic) WithPrimarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, "primary")
}

// WithSecondarySpan adds a secondary labeled span.
func (d Diagnostic) WithSecondarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, "secondary")
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithHelp adds help text to the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}
