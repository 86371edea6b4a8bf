// Package pipeline drives source text through parsing and evaluation and
// reports one outcome per top-level statement.
package pipeline

import (
	"context"
	"errors"
	"io"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/malphas-lang/arith/internal/ast"
	"github.com/malphas-lang/arith/internal/diag"
	"github.com/malphas-lang/arith/internal/eval"
	"github.com/malphas-lang/arith/internal/lexer"
	"github.com/malphas-lang/arith/internal/parser"
)

// Options configures Run.
type Options struct {
	// Filename is attached to every span for diagnostics.
	Filename string

	// Parallel evaluates independent statements concurrently. Each
	// statement is still evaluated left operand first.
	Parallel bool
	// Workers bounds concurrent evaluations; 0 means GOMAXPROCS.
	Workers int

	Logger *log.Logger
}

// StatementReport is the outcome of one top-level statement.
type StatementReport struct {
	Index int
	Span  lexer.Span
	Stmt  *ast.ExprStmt // nil if the statement did not parse
	Value int64
	Err   error // *parser.ParseError or *eval.RuntimeError
}

// OK reports whether the statement parsed and evaluated.
func (s StatementReport) OK() bool {
	return s.Err == nil && s.Stmt != nil
}

// Diagnostic converts the statement's error into a diagnostic.
func (s StatementReport) Diagnostic() (diag.Diagnostic, bool) {
	var perr *parser.ParseError
	if errors.As(s.Err, &perr) {
		return perr.ToDiagnostic().WithStatement(s.Index), true
	}
	var rerr *eval.RuntimeError
	if errors.As(s.Err, &rerr) {
		return rerr.ToDiagnostic().WithStatement(s.Index), true
	}
	return diag.Diagnostic{}, false
}

// Report collects every statement outcome in source order.
type Report struct {
	Program    *ast.Program // successfully parsed statements only
	Statements []StatementReport
}

// Last returns the value of the final statement, as the single-accumulator
// evaluator would leave it. ok is false if there is no statement or the
// final one failed.
func (r *Report) Last() (value int64, ok bool) {
	if len(r.Statements) == 0 {
		return 0, false
	}
	last := r.Statements[len(r.Statements)-1]
	return last.Value, last.OK()
}

// Failed returns the number of statements that did not produce a value.
func (r *Report) Failed() int {
	n := 0
	for _, s := range r.Statements {
		if !s.OK() {
			n++
		}
	}
	return n
}

// Diagnostics returns one diagnostic per failed statement.
func (r *Report) Diagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, s := range r.Statements {
		if d, ok := s.Diagnostic(); ok {
			out = append(out, d)
		}
	}
	return out
}

// Parse runs only the front end and returns the per-statement outcome.
func Parse(src string, opts Options) *Report {
	var popts []parser.Option
	if opts.Filename != "" {
		popts = append(popts, parser.WithFilename(opts.Filename))
	}

	p := parser.New(src, popts...)
	report := &Report{Program: ast.NewProgram()}
	for {
		res, ok := p.Next()
		if !ok {
			break
		}
		sr := StatementReport{Index: res.Index, Stmt: res.Stmt}
		if res.Stmt != nil {
			sr.Span = res.Stmt.Span()
			report.Program.Append(res.Stmt)
		} else if res.Err != nil {
			sr.Span = res.Err.Span
			sr.Err = res.Err
		}
		report.Statements = append(report.Statements, sr)
	}
	return report
}

// Run parses src and evaluates every statement that parsed. Statement
// failures are recorded in the report; the returned error is non-nil only
// if ctx is cancelled.
func Run(ctx context.Context, src string, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	report := Parse(src, opts)
	logger.Printf("parsed %d statement(s), %d node(s), %d parse error(s)",
		len(report.Statements), ast.Count(report.Program), report.Failed())

	var err error
	if opts.Parallel {
		err = evalParallel(ctx, report, opts.Workers)
	} else {
		err = evalSequential(ctx, report)
	}
	if err != nil {
		return nil, err
	}

	logger.Printf("evaluated %d statement(s), %d failed", len(report.Statements), report.Failed())
	return report, nil
}

func evalSequential(ctx context.Context, report *Report) error {
	ev := eval.New()
	for i := range report.Statements {
		if err := ctx.Err(); err != nil {
			return err
		}
		sr := &report.Statements[i]
		if sr.Stmt == nil {
			continue
		}
		ast.VisitStmt(ev, sr.Stmt)
		results := ev.Results()
		res := results[len(results)-1]
		sr.Value, sr.Err = res.Value, res.Err
	}
	return nil
}

func evalParallel(ctx context.Context, report *Report, workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range report.Statements {
		sr := &report.Statements[i]
		if sr.Stmt == nil {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sr.Value, sr.Err = eval.New().Eval(sr.Stmt.Expr)
			return nil
		})
	}
	return g.Wait()
}
