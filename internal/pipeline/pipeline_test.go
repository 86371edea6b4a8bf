package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/arith/internal/diag"
	"github.com/malphas-lang/arith/internal/eval"
	"github.com/malphas-lang/arith/internal/parser"
	"github.com/malphas-lang/arith/internal/pipeline"
)

func values(r *pipeline.Report) []int64 {
	var out []int64
	for _, s := range r.Statements {
		if s.OK() {
			out = append(out, s.Value)
		}
	}
	return out
}

func TestRunDefaultProgram(t *testing.T) {
	report, err := pipeline.Run(context.Background(), "(8 + 4) * (9 * 2)", pipeline.Options{})
	require.NoError(t, err)
	require.Len(t, report.Statements, 1)

	last, ok := report.Last()
	require.True(t, ok)
	assert.Equal(t, int64(216), last)
	assert.Empty(t, report.Diagnostics())
	assert.Equal(t, 1, report.Program.Len())
}

func TestRunMultipleStatements(t *testing.T) {
	report, err := pipeline.Run(context.Background(), "1 + 2 3 * 4\n10 - 4 - 3", pipeline.Options{})
	require.NoError(t, err)

	assert.Equal(t, []int64{3, 12, 3}, values(report))
	last, ok := report.Last()
	require.True(t, ok)
	assert.Equal(t, int64(3), last)
}

func TestRunEmptyInput(t *testing.T) {
	report, err := pipeline.Run(context.Background(), "   \n\t", pipeline.Options{})
	require.NoError(t, err)
	assert.Empty(t, report.Statements)

	_, ok := report.Last()
	assert.False(t, ok)
}

func TestRunKeepsGoingAfterFailures(t *testing.T) {
	report, err := pipeline.Run(context.Background(), "1 / 0 (2 + 5", pipeline.Options{})
	require.NoError(t, err)
	require.Len(t, report.Statements, 2)

	first := report.Statements[0]
	assert.False(t, first.OK())
	assert.True(t, errors.Is(first.Err, eval.ErrDivisionByZero))

	second := report.Statements[1]
	var perr *parser.ParseError
	require.True(t, errors.As(second.Err, &perr), "statement 2: %v", second.Err)
	assert.Equal(t, diag.CodeParseExpectedToken, perr.Code)

	_, ok := report.Last()
	assert.False(t, ok, "final statement failed")
	assert.Equal(t, 2, report.Failed())
}

func TestRunLastReflectsFinalStatement(t *testing.T) {
	report, err := pipeline.Run(context.Background(), "1 / 0 42", pipeline.Options{})
	require.NoError(t, err)

	last, ok := report.Last()
	require.True(t, ok)
	assert.Equal(t, int64(42), last)
}

func TestDiagnosticsCarryStatementIndex(t *testing.T) {
	report, err := pipeline.Run(context.Background(), "1 + 1 2 * 0 5 / (3 - 3) 9223372036854775807 + 1", pipeline.Options{
		Filename: "calc.txt",
	})
	require.NoError(t, err)

	ds := report.Diagnostics()
	require.Len(t, ds, 2)

	assert.Equal(t, diag.CodeEvalDivisionByZero, ds[0].Code)
	assert.Equal(t, 2, ds[0].Statement)
	assert.Equal(t, "calc.txt", ds[0].Span.Filename)

	assert.Equal(t, diag.CodeEvalOverflow, ds[1].Code)
	assert.Equal(t, 3, ds[1].Statement)
}

func TestLexicalErrorFailsItsStatement(t *testing.T) {
	report, err := pipeline.Run(context.Background(), "1 % 2", pipeline.Options{})
	require.NoError(t, err)
	require.Len(t, report.Statements, 3)

	assert.True(t, report.Statements[0].OK())
	assert.False(t, report.Statements[1].OK())
	assert.True(t, report.Statements[2].OK())

	ds := report.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.StageLexer, ds[0].Stage)
	assert.Equal(t, diag.CodeLexerIllegalRune, ds[0].Code)
	assert.Equal(t, 1, ds[0].Statement)
}

func TestParallelMatchesSequential(t *testing.T) {
	var src strings.Builder
	for i := 0; i < 64; i++ {
		src.WriteString("(8 + 4) * (9 * 2) / 3 ")
		src.WriteString("7 / (1 - 1) ")
	}

	seq, err := pipeline.Run(context.Background(), src.String(), pipeline.Options{})
	require.NoError(t, err)
	par, err := pipeline.Run(context.Background(), src.String(), pipeline.Options{Parallel: true, Workers: 4})
	require.NoError(t, err)

	require.Len(t, par.Statements, len(seq.Statements))
	for i := range seq.Statements {
		assert.Equal(t, seq.Statements[i].Index, par.Statements[i].Index)
		assert.Equal(t, seq.Statements[i].Value, par.Statements[i].Value)
		assert.Equal(t, seq.Statements[i].OK(), par.Statements[i].OK())
	}
	assert.Equal(t, seq.Diagnostics(), par.Diagnostics())
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.Run(ctx, "1 + 2", pipeline.Options{})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = pipeline.Run(ctx, "1 + 2", pipeline.Options{Parallel: true})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunLogs(t *testing.T) {
	var buf bytes.Buffer
	_, err := pipeline.Run(context.Background(), "1 + 2", pipeline.Options{
		Logger: log.New(&buf, "arith: ", 0),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "arith: parsed 1 statement(s), 5 node(s), 0 parse error(s)")
	assert.Contains(t, out, "arith: evaluated 1 statement(s), 0 failed")
}

func TestParseOnly(t *testing.T) {
	report := pipeline.Parse("1 + ) 2", pipeline.Options{})
	require.Len(t, report.Statements, 2)
	assert.False(t, report.Statements[0].OK())
	assert.True(t, report.Statements[1].OK())
	assert.Equal(t, 1, report.Program.Len())
}
