package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/repr"

	"github.com/malphas-lang/arith/internal/ast"
	"github.com/malphas-lang/arith/internal/diag"
	"github.com/malphas-lang/arith/internal/grammar"
	"github.com/malphas-lang/arith/internal/lexer"
	"github.com/malphas-lang/arith/internal/lsp"
	"github.com/malphas-lang/arith/internal/parser"
	"github.com/malphas-lang/arith/internal/pipeline"
)

type evalCmd struct {
	sourceFlags

	Dump     bool `short:"d" help:"Print the expression tree before evaluating."`
	Parallel bool `short:"p" help:"Evaluate statements concurrently."`
	Workers  int  `default:"0" help:"Concurrent evaluations with --parallel (0 = GOMAXPROCS)."`
}

func (cmd *evalCmd) Run(e *env, c *cli) error {
	name, src, err := cmd.load(e, c.Encoding)
	if err != nil {
		return err
	}

	report, err := pipeline.Run(context.Background(), src, pipeline.Options{
		Filename: name,
		Parallel: cmd.Parallel,
		Workers:  cmd.Workers,
		Logger:   e.logger,
	})
	if err != nil {
		return err
	}

	if cmd.Dump {
		fmt.Fprint(e.stdout, ast.Print(report.Program))
	}

	for _, s := range report.Statements {
		if s.OK() {
			fmt.Fprintf(e.stdout, "[%d] %d\n", s.Index+1, s.Value)
			continue
		}
		d, _ := s.Diagnostic()
		fmt.Fprintf(e.stdout, "[%d] error: %s\n", s.Index+1, d.Message)
	}

	if last, ok := report.Last(); ok {
		fmt.Fprintf(e.stdout, "Last Constant: %d\n", last)
	} else {
		fmt.Fprintln(e.stdout, "Last Constant: none")
	}

	return reportFailures(e, name, src, report)
}

type fmtCmd struct {
	sourceFlags
}

func (cmd *fmtCmd) Run(e *env, c *cli) error {
	name, src, err := cmd.load(e, c.Encoding)
	if err != nil {
		return err
	}

	report := pipeline.Parse(src, pipeline.Options{Filename: name})
	for _, stmt := range report.Program.Stmts {
		fmt.Fprintln(e.stdout, ast.Format(stmt))
	}
	return reportFailures(e, name, src, report)
}

type tokensCmd struct {
	sourceFlags

	Whitespace bool `short:"w" help:"Include whitespace tokens."`
}

func (cmd *tokensCmd) Run(e *env, c *cli) error {
	name, src, err := cmd.load(e, c.Encoding)
	if err != nil {
		return err
	}

	lx := lexer.New(src)
	lx.SetFilename(name)
	for {
		tok, ok := lx.Next()
		if !ok {
			break
		}
		if tok.Type == lexer.WHITESPACE && !cmd.Whitespace {
			continue
		}
		fmt.Fprintf(e.stdout, "%-6d %-10s %-10q %d:%d\n", tok.Span.Start, tok.Type, tok.Raw, tok.Span.Line, tok.Span.Column)
	}

	if len(lx.Errors) == 0 {
		return nil
	}
	ds := make([]diag.Diagnostic, 0, len(lx.Errors))
	for _, lexErr := range lx.Errors {
		ds = append(ds, lexErr.ToDiagnostic())
	}
	formatDiagnostics(e, name, src, ds)
	return fmt.Errorf("%d lexical error(s)", len(ds))
}

type treeCmd struct {
	sourceFlags

	Repr bool `short:"r" help:"Dump the Go values of the tree instead of the indented outline."`
}

func (cmd *treeCmd) Run(e *env, c *cli) error {
	name, src, err := cmd.load(e, c.Encoding)
	if err != nil {
		return err
	}

	report := pipeline.Parse(src, pipeline.Options{Filename: name})
	if cmd.Repr {
		for _, stmt := range report.Program.Stmts {
			fmt.Fprintln(e.stdout, repr.String(stmt, repr.Indent("  ")))
		}
	} else {
		fmt.Fprint(e.stdout, ast.Print(report.Program))
	}
	return reportFailures(e, name, src, report)
}

type checkCmd struct {
	sourceFlags

	EBNF bool `help:"Print the reference grammar and exit."`
}

func (cmd *checkCmd) Run(e *env, c *cli) error {
	if cmd.EBNF {
		fmt.Fprintln(e.stdout, grammar.EBNF())
		return nil
	}

	name, src, err := cmd.load(e, c.Encoding)
	if err != nil {
		return err
	}

	p := parser.New(src, parser.WithFilename(name))
	got := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return fmt.Errorf("parser rejected input: %w", &errs[0])
	}

	want, err := grammar.Parse(src)
	if err != nil {
		return fmt.Errorf("grammar rejected input: %w", err)
	}

	if got.Len() != want.Len() {
		return fmt.Errorf("parser found %d statement(s), grammar found %d", got.Len(), want.Len())
	}
	var mismatches []string
	for i := range got.Stmts {
		g, w := ast.Sexpr(got.Stmts[i]), ast.Sexpr(want.Stmts[i])
		if g != w {
			mismatches = append(mismatches, fmt.Sprintf("[%d] parser %s, grammar %s", i+1, g, w))
		}
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("shapes differ:\n%s", strings.Join(mismatches, "\n"))
	}

	fmt.Fprintf(e.stdout, "ok: %d statement(s) agree\n", got.Len())
	return nil
}

type lspCmd struct{}

func (cmd *lspCmd) Run(e *env) error {
	e.logger.Printf("language server listening on stdio")
	return lsp.NewServer(e.stdin, e.stdout, e.logger).Run(context.Background())
}

// reportFailures prints one diagnostic per failed statement and returns an
// error if there were any.
func reportFailures(e *env, name, src string, report *pipeline.Report) error {
	ds := report.Diagnostics()
	if len(ds) == 0 {
		return nil
	}
	formatDiagnostics(e, name, src, ds)
	return fmt.Errorf("%d of %d statement(s) failed", report.Failed(), len(report.Statements))
}

func formatDiagnostics(e *env, name, src string, ds []diag.Diagnostic) {
	f := diag.NewFormatter(e.stderr)
	f.AddSource(name, src)
	f.FormatAll(ds)
}
