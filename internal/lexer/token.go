package lexer

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // index in []rune of the original string
	End      int    // exclusive end index
}

// Len returns the number of runes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value int64  // numeric value, INT tokens only
	Raw   string // exact runes from source
	Span  Span   // source location information
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Literals
	INT TokenType = "INT" // 1343456

	// Operators
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"

	// Delimiters
	LPAREN TokenType = "("
	RPAREN TokenType = ")"

	// Trivia
	WHITESPACE TokenType = "WHITESPACE"
)

var operators = map[rune]TokenType{
	'+': PLUS,
	'-': MINUS,
	'*': ASTERISK,
	'/': SLASH,
	'(': LPAREN,
	')': RPAREN,
}

// Describe returns a short human-readable name for diagnostics.
func (t Token) Describe() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case INT:
		return "integer `" + t.Raw + "`"
	case WHITESPACE:
		return "whitespace"
	default:
		return "`" + t.Raw + "`"
	}
}
