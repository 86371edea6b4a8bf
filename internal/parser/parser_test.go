package parser_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/arith/internal/ast"
	"github.com/malphas-lang/arith/internal/diag"
	"github.com/malphas-lang/arith/internal/lexer"
	"github.com/malphas-lang/arith/internal/parser"
)

func parseProgram(t *testing.T, src string) (*ast.Program, []parser.ParseError) {
	t.Helper()

	p := parser.New(src)
	prog := p.ParseProgram()

	return prog, p.Errors()
}

func assertNoErrors(t *testing.T, errs []parser.ParseError) {
	t.Helper()

	if len(errs) == 0 {
		return
	}

	for _, err := range errs {
		t.Errorf("unexpected parse error: %s", err.Message)
	}
	t.Fatalf("parser reported %d error(s)", len(errs))
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"42", "42"},
		{"2 + 3 * 4", "(+ 2 (* 3 4))"},
		{"2 * 3 + 4", "(+ (* 2 3) 4)"},
		{"(2 + 3) * 4", "(* (group (+ 2 3)) 4)"},
		{"8 - 4 - 2", "(- (- 8 4) 2)"},
		{"8 / 4 / 2", "(/ (/ 8 4) 2)"},
		{"8 - (4 - 2)", "(- 8 (group (- 4 2)))"},
		{"1 + 2 * 3 - 4 / 2", "(- (+ 1 (* 2 3)) (/ 4 2))"},
		{"(8 + 4) * (9 * 2)", "(* (group (+ 8 4)) (group (* 9 2)))"},
		{"((7))", "(group (group 7))"},
		{"1*2*3+4*5*6", "(+ (* (* 1 2) 3) (* (* 4 5) 6))"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog, errs := parseProgram(t, tt.src)
			assertNoErrors(t, errs)
			require.Equal(t, 1, prog.Len(), spew.Sdump(prog))
			assert.Equal(t, tt.want, ast.Sexpr(prog))
		})
	}
}

func TestParseMultipleStatements(t *testing.T) {
	prog, errs := parseProgram(t, "1 + 2 3 * 4\n(5)")
	assertNoErrors(t, errs)

	require.Equal(t, 3, prog.Len())
	assert.Equal(t, "(+ 1 2) (* 3 4) (group 5)", ast.Sexpr(prog))
}

func TestParseEmptyInput(t *testing.T) {
	for _, src := range []string{"", "   \n\t "} {
		prog, errs := parseProgram(t, src)
		assertNoErrors(t, errs)
		assert.Equal(t, 0, prog.Len())
	}
}

func TestBinaryNodeKeepsOperatorToken(t *testing.T) {
	prog, errs := parseProgram(t, "10 / 5")
	assertNoErrors(t, errs)

	bin, ok := prog.Stmts[0].(*ast.ExprStmt).Expr.(*ast.BinaryExpr)
	require.True(t, ok, spew.Sdump(prog))
	assert.Equal(t, ast.Div, bin.Op)
	assert.Equal(t, lexer.SLASH, bin.OpTok.Type)
	assert.Equal(t, "/", bin.OpTok.Raw)
	assert.Equal(t, 3, bin.OpTok.Span.Start)
	assert.Equal(t, 0, bin.Span().Start)
	assert.Equal(t, 6, bin.Span().End)
}

func TestGroupSpanCoversParens(t *testing.T) {
	prog, errs := parseProgram(t, " (1 + 2)")
	assertNoErrors(t, errs)

	group, ok := prog.Stmts[0].(*ast.ExprStmt).Expr.(*ast.ParenExpr)
	require.True(t, ok)
	assert.Equal(t, 1, group.Span().Start)
	assert.Equal(t, 8, group.Span().End)
}

// Parsing, printing back to source, and parsing again keeps the tree shape.
func TestFormatRoundTrip(t *testing.T) {
	sources := []string{
		"(8 + 4) * (9 * 2)",
		"8-4-2",
		"8-(4-2)",
		"2+3*4 (2+3)*4",
		"((1))+(2*(3-4))/5",
		"1 2 3",
	}

	for _, src := range sources {
		first, errs := parseProgram(t, src)
		assertNoErrors(t, errs)

		printed := ast.Format(first)
		second, errs := parseProgram(t, printed)
		assertNoErrors(t, errs)

		assert.Equal(t, ast.Sexpr(first), ast.Sexpr(second), "source %q printed as %q", src, printed)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		code      diag.Code
		message   string
		start     int
		stage     diag.Stage
		hasOpener bool
	}{
		{
			name:      "missing closing paren at end",
			src:       "(1 + 2",
			code:      diag.CodeParseExpectedToken,
			message:   "expected `)`, found end of input",
			start:     6,
			stage:     diag.StageParser,
			hasOpener: true,
		},
		{
			name:    "dangling operator",
			src:     "1 +",
			code:    diag.CodeParseUnexpectedToken,
			message: "expected expression, found end of input",
			start:   3,
			stage:   diag.StageParser,
		},
		{
			name:    "stray closing paren",
			src:     ")",
			code:    diag.CodeParseUnexpectedToken,
			message: "expected expression, found `)`",
			start:   0,
			stage:   diag.StageParser,
		},
		{
			name:    "illegal character",
			src:     "$",
			code:    diag.CodeLexerIllegalRune,
			message: "unexpected character '$'",
			start:   0,
			stage:   diag.StageLexer,
		},
		{
			name:    "literal overflow",
			src:     "99999999999999999999",
			code:    diag.CodeLexerIntegerOverflow,
			message: "integer literal 99999999999999999999 overflows int64",
			start:   0,
			stage:   diag.StageLexer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, errs := parseProgram(t, tt.src)
			assert.Equal(t, 0, prog.Len())
			require.Len(t, errs, 1)

			err := errs[0]
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.start, err.Span.Start)
			assert.Equal(t, tt.stage, err.Stage)
			assert.Equal(t, 0, err.Statement)
			assert.Equal(t, tt.hasOpener, err.Opener != nil)
		})
	}
}

func TestMismatchedParenNamesFoundToken(t *testing.T) {
	p := parser.New("(1 2)")

	res, ok := p.Next()
	require.True(t, ok)
	require.Nil(t, res.Stmt)
	require.NotNil(t, res.Err)
	assert.Equal(t, ")", res.Err.Expected)
	assert.Equal(t, lexer.INT, res.Err.Found.Type)
	assert.Equal(t, "expected `)`, found integer `2`", res.Err.Message)
	assert.Equal(t, 0, res.Err.Opener.Start)
}

// A broken statement does not prevent the following ones from parsing.
func TestRecoveryContinuesWithNextStatement(t *testing.T) {
	p := parser.New("1 + 2 (3 4 * 5 ) 6")

	var results []parser.Statement
	for {
		res, ok := p.Next()
		if !ok {
			break
		}
		results = append(results, res)
	}

	require.Len(t, results, 5, spew.Sdump(results))

	assert.Equal(t, "(+ 1 2)", ast.Sexpr(results[0].Stmt))
	assert.Nil(t, results[0].Err)

	assert.Nil(t, results[1].Stmt)
	assert.Equal(t, 1, results[1].Index)
	assert.Equal(t, diag.CodeParseExpectedToken, results[1].Err.Code)
	assert.Equal(t, 1, results[1].Err.Statement)

	assert.Equal(t, "(* 4 5)", ast.Sexpr(results[2].Stmt))

	assert.Nil(t, results[3].Stmt)
	assert.Equal(t, diag.CodeParseUnexpectedToken, results[3].Err.Code)

	assert.Equal(t, "6", ast.Sexpr(results[4].Stmt))
	assert.Equal(t, 4, results[4].Index)

	require.Len(t, p.Errors(), 2)
	assert.Equal(t, 1, p.Errors()[0].Statement)
	assert.Equal(t, 3, p.Errors()[1].Statement)
}

func TestNextStatementStopsAtEOF(t *testing.T) {
	p := parser.New("7")

	stmt, ok := p.NextStatement()
	require.True(t, ok)
	assert.Equal(t, "7", ast.Sexpr(stmt))

	for i := 0; i < 3; i++ {
		stmt, ok = p.NextStatement()
		assert.False(t, ok)
		assert.Nil(t, stmt)
	}
}

func TestWhitespaceIsFiltered(t *testing.T) {
	p := parser.New(" 1\t+\n2 ")

	types := make([]lexer.TokenType, 0, len(p.Tokens()))
	for _, tok := range p.Tokens() {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []lexer.TokenType{lexer.INT, lexer.PLUS, lexer.INT, lexer.EOF}, types)
}

func TestUnicodeWhitespaceIsFiltered(t *testing.T) {
	prog, errs := parseProgram(t, "1\u00a0+\u3000 2\u2003(3)")
	assertNoErrors(t, errs)
	assert.Equal(t, "(+ 1 2) (group 3)", ast.Sexpr(prog))

	group := prog.Stmts[1].(*ast.ExprStmt).Expr
	assert.Equal(t, 7, group.Span().Start, "spans count runes, not bytes")
}

func TestWithFilename(t *testing.T) {
	p := parser.New("(1", parser.WithFilename("calc.txt"))
	p.ParseProgram()

	require.Len(t, p.Errors(), 1)
	d := p.Errors()[0].ToDiagnostic()
	assert.Equal(t, "calc.txt", d.Span.Filename)
	assert.Equal(t, diag.StageParser, d.Stage)
	require.Len(t, d.LabeledSpans, 2)
	assert.Equal(t, "expected `)`", d.LabeledSpans[0].Label)
	assert.Equal(t, "group opened here", d.LabeledSpans[1].Label)
	assert.Equal(t, "add a closing `)`", d.Help)
}

func TestUnexpectedTokenHasNoHelp(t *testing.T) {
	p := parser.New(")")
	p.ParseProgram()

	require.Len(t, p.Errors(), 1)
	assert.Empty(t, p.Errors()[0].ToDiagnostic().Help)
}
