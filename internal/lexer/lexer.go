package lexer

import (
	"math"
	"strconv"
	"unicode"

	"github.com/malphas-lang/arith/internal/diag"
)

type LexerErrorKind int

const (
	ErrIllegalRune LexerErrorKind = iota
	ErrIntegerOverflow
)

func (k LexerErrorKind) String() string {
	switch k {
	case ErrIllegalRune:
		return "illegal rune"
	case ErrIntegerOverflow:
		return "integer overflow"
	default:
		return "unknown lexer error"
	}
}

type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Span    Span
}

func (e LexerError) Error() string {
	return e.Message
}

func (k LexerErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrIllegalRune:
		return diag.CodeLexerIllegalRune
	case ErrIntegerOverflow:
		return diag.CodeLexerIntegerOverflow
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexerError) ToDiagnostic() diag.Diagnostic {
	span := diag.Span{
		Filename: e.Span.Filename,
		Line:     e.Span.Line,
		Column:   e.Span.Column,
		Start:    e.Span.Start,
		End:      e.Span.End,
	}
	return diag.Diagnostic{
		Stage:     diag.StageLexer,
		Severity:  diag.SeverityError,
		Code:      e.Kind.diagnosticCode(),
		Message:   e.Message,
		Span:      span,
		Statement: -1,
	}.WithPrimarySpan(span, "")
}

// Lexer is a forward-only, pull-based tokenizer. Each call to Next yields at
// most one token; the stream ends with exactly one EOF token.
type Lexer struct {
	input    []rune
	pos      int  // index of the current rune
	ch       rune // current rune, meaningless once pos >= len(input)
	line     int  // current line number (1-based)
	column   int  // current column number (1-based)
	filename string
	done     bool // EOF has been handed out

	Errors []LexerError
}

func (l *Lexer) addError(kind LexerErrorKind, msg string, span Span) {
	l.Errors = append(l.Errors, LexerError{
		Kind:    kind,
		Message: msg,
		Span:    span,
	})
}

// New creates a new lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{
		input:  []rune(input),
		pos:    -1, // start before first rune
		line:   1,
		column: 0, // will be 1 after first read()
	}
	l.read()
	return l
}

// SetFilename attributes every subsequent span to name.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

// Tokenize runs a fresh lexer over input to completion, EOF included.
func Tokenize(input string) ([]Token, []LexerError) {
	l := New(input)
	var toks []Token
	for {
		tok, ok := l.Next()
		if !ok {
			return toks, l.Errors
		}
		toks = append(toks, tok)
	}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

// read advances the lexer to the next character. line/column always
// describe the rune at pos; past the end they describe the virtual EOF slot.
func (l *Lexer) read() {
	prevPos := l.pos
	if l.pos < len(l.input) {
		l.pos++
	}

	switch {
	case prevPos < 0:
		l.column = 1
	case prevPos < len(l.input) && l.input[prevPos] == '\n':
		l.line++
		l.column = 1
	case prevPos < len(l.input):
		l.column++
	}

	if l.atEnd() {
		l.ch = 0
		return
	}
	l.ch = l.input[l.pos]
}

func (l *Lexer) currentSpanStart() (line, column, pos int) {
	return l.line, l.column, l.pos
}

func (l *Lexer) makeToken(tokType TokenType, startLine, startColumn, startPos int, value int64) Token {
	return Token{
		Type:  tokType,
		Value: value,
		Raw:   string(l.input[startPos:l.pos]),
		Span: Span{
			Filename: l.filename,
			Line:     startLine,
			Column:   startColumn,
			Start:    startPos,
			End:      l.pos,
		},
	}
}

// readNumber consumes a maximal run of ASCII digits. The value is
// accumulated as value*10+digit; on overflow it wraps and ok is false.
func (l *Lexer) readNumber() (value int64, ok bool) {
	ok = true
	for !l.atEnd() && isDigit(l.ch) {
		d := int64(l.ch - '0')
		if value > (math.MaxInt64-d)/10 {
			ok = false
		}
		value = value*10 + d
		l.read()
	}
	return value, ok
}

// Next returns the next token. The second result is false once the EOF
// token has already been returned; repeated calls stay exhausted.
func (l *Lexer) Next() (Token, bool) {
	if l.done {
		return Token{}, false
	}

	startLine, startColumn, startPos := l.currentSpanStart()

	if l.atEnd() {
		l.done = true
		return l.makeToken(EOF, startLine, startColumn, startPos, 0), true
	}

	switch ch := l.ch; {
	case isDigit(ch):
		value, ok := l.readNumber()
		tok := l.makeToken(INT, startLine, startColumn, startPos, value)
		if !ok {
			l.addError(
				ErrIntegerOverflow,
				"integer literal "+tok.Raw+" overflows int64",
				tok.Span,
			)
		}
		return tok, true

	case unicode.IsSpace(ch):
		l.read()
		return l.makeToken(WHITESPACE, startLine, startColumn, startPos, 0), true

	default:
		l.read()
		if tokType, ok := operators[ch]; ok {
			return l.makeToken(tokType, startLine, startColumn, startPos, 0), true
		}
		tok := l.makeToken(ILLEGAL, startLine, startColumn, startPos, 0)
		l.addError(
			ErrIllegalRune,
			"unexpected character "+strconv.QuoteRune(ch),
			tok.Span,
		)
		return tok, true
	}
}

// NextToken is like Next but keeps returning EOF after the input is exhausted.
func (l *Lexer) NextToken() Token {
	if tok, ok := l.Next(); ok {
		return tok
	}
	line, column, pos := l.currentSpanStart()
	return l.makeToken(EOF, line, column, pos, 0)
}

func isDigit(ch rune) bool {
	// Numeric literals are restricted to ASCII digits.
	return ch >= '0' && ch <= '9'
}
