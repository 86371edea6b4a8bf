package ast

import (
	"fmt"
	"strings"
)

const printIndent = 2

// Lines renders node as an indented tree, one line per node:
//
//	stmt:
//	  expr:
//	    binop [*]:
//	      expr:
//	        const [2]
func Lines(node Node) []string {
	p := &treePrinter{}
	switch n := node.(type) {
	case *Program:
		n.Accept(p)
	case Stmt:
		VisitStmt(p, n)
	case Expr:
		VisitExpr(p, n)
	}
	return p.lines
}

// Print renders node as a newline-terminated tree dump.
func Print(node Node) string {
	lines := Lines(node)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

type treePrinter struct {
	indent int
	lines  []string
}

func (p *treePrinter) emit(format string, args ...any) {
	p.lines = append(p.lines, strings.Repeat(" ", p.indent)+fmt.Sprintf(format, args...))
}

func (p *treePrinter) nested(fn func()) {
	p.indent += printIndent
	fn()
	p.indent -= printIndent
}

func (p *treePrinter) VisitConstant(lit *IntegerLit) {
	p.emit("const [%d]", lit.Value)
}

func (p *treePrinter) VisitStmt(stmt *ExprStmt) {
	p.emit("stmt:")
	p.nested(func() { WalkStmt(p, stmt) })
}

func (p *treePrinter) VisitExpr(expr Expr) {
	p.emit("expr:")
	p.nested(func() { WalkExpr(p, expr) })
}

func (p *treePrinter) VisitBinary(expr *BinaryExpr) {
	op := expr.OpTok.Raw
	if op == "" {
		op = expr.Op.String()
	}
	p.emit("binop [%s]:", op)
	p.nested(func() { WalkBinary(p, expr) })
}

func (p *treePrinter) VisitParen(expr *ParenExpr) {
	p.emit("group:")
	p.nested(func() { WalkParen(p, expr) })
}
