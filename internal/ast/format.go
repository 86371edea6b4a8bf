package ast

import (
	"strconv"
	"strings"
)

// Format renders node back to source text. Only explicit groups produce
// parentheses, so re-parsing the output yields the same tree shape.
// Statements of a program are separated by newlines.
func Format(node Node) string {
	f := &sourceFormatter{}
	switch n := node.(type) {
	case *Program:
		for i, stmt := range n.Stmts {
			if i > 0 {
				f.sb.WriteByte('\n')
			}
			VisitStmt(f, stmt)
		}
	case Stmt:
		VisitStmt(f, n)
	case Expr:
		VisitExpr(f, n)
	}
	return f.sb.String()
}

type sourceFormatter struct {
	sb strings.Builder
}

func (f *sourceFormatter) VisitConstant(lit *IntegerLit) {
	f.sb.WriteString(strconv.FormatInt(lit.Value, 10))
}

func (f *sourceFormatter) VisitBinary(expr *BinaryExpr) {
	VisitExpr(f, expr.Left)
	f.sb.WriteString(" " + expr.Op.String() + " ")
	VisitExpr(f, expr.Right)
}

func (f *sourceFormatter) VisitParen(expr *ParenExpr) {
	f.sb.WriteByte('(')
	VisitExpr(f, expr.Inner)
	f.sb.WriteByte(')')
}

// Sexpr renders the shape of node as an s-expression, e.g.
// "(* (group (+ 8 4)) 2)". Statements of a program are space separated.
func Sexpr(node Node) string {
	s := &shapeFormatter{}
	switch n := node.(type) {
	case *Program:
		for i, stmt := range n.Stmts {
			if i > 0 {
				s.sb.WriteByte(' ')
			}
			VisitStmt(s, stmt)
		}
	case Stmt:
		VisitStmt(s, n)
	case Expr:
		VisitExpr(s, n)
	}
	return s.sb.String()
}

type shapeFormatter struct {
	sb strings.Builder
}

func (s *shapeFormatter) VisitConstant(lit *IntegerLit) {
	s.sb.WriteString(strconv.FormatInt(lit.Value, 10))
}

func (s *shapeFormatter) VisitBinary(expr *BinaryExpr) {
	s.sb.WriteString("(" + expr.Op.String() + " ")
	VisitExpr(s, expr.Left)
	s.sb.WriteByte(' ')
	VisitExpr(s, expr.Right)
	s.sb.WriteByte(')')
}

func (s *shapeFormatter) VisitParen(expr *ParenExpr) {
	s.sb.WriteString("(group ")
	VisitExpr(s, expr.Inner)
	s.sb.WriteByte(')')
}
