package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/alecthomas/kong"
)

const defaultSource = "(8 + 4) * (9 * 2)"

// env carries the process streams into command Run methods.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger
}

type cli struct {
	Verbose  bool   `short:"v" help:"Log pipeline progress to stderr."`
	Encoding string `short:"e" default:"utf-8" env:"ARITH_ENCODING" enum:"utf-8,latin1,utf-16le,utf-16be" help:"Encoding of --file input (${enum})."`

	Eval   evalCmd   `cmd:"" default:"withargs" help:"Evaluate every statement and print the last value."`
	Fmt    fmtCmd    `cmd:"" help:"Print each statement in canonical source form."`
	Tokens tokensCmd `cmd:"" help:"Print the token stream with spans."`
	Tree   treeCmd   `cmd:"" help:"Print the expression tree."`
	Check  checkCmd  `cmd:"" help:"Compare the parser against the reference grammar."`
	LSP    lspCmd    `cmd:"" name:"lsp" help:"Run the language server on stdio."`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run parses args and executes the selected command, returning the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var c cli
	exitCode := -1
	k, err := kong.New(&c,
		kong.Name("arith"),
		kong.Description("Evaluate integer arithmetic over + - * / and parentheses."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "arith: %v\n", err)
		return 2
	}

	kctx, err := k.Parse(args)
	if exitCode >= 0 {
		// --help and friends exit before a command runs.
		return exitCode
	}
	if err != nil {
		k.Errorf("%s", err)
		return 2
	}

	e := &env{stdin: stdin, stdout: stdout, stderr: stderr, logger: log.New(io.Discard, "", 0)}
	if c.Verbose {
		e.logger = log.New(stderr, "arith: ", log.LstdFlags|log.Lmsgprefix)
	}

	if err := kctx.Run(e, &c); err != nil {
		fmt.Fprintf(stderr, "arith: %v\n", err)
		return 1
	}
	return 0
}
