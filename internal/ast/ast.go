package ast

import "github.com/malphas-lang/arith/internal/lexer"

// Node represents any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Program owns the top-level statements in source order. It only grows
// through Append while the parser loop runs.
type Program struct {
	Stmts []Stmt
	span  lexer.Span
}

// NewProgram constructs an empty program.
func NewProgram() *Program {
	return &Program{}
}

// Span returns the span covering every statement.
func (p *Program) Span() lexer.Span { return p.span }

// Append adds a statement to the end of the program.
func (p *Program) Append(stmt Stmt) {
	if len(p.Stmts) == 0 {
		p.span = stmt.Span()
	} else {
		p.span = MergeSpan(p.span, stmt.Span())
	}
	p.Stmts = append(p.Stmts, stmt)
}

// Len returns the number of statements.
func (p *Program) Len() int { return len(p.Stmts) }

// ExprStmt represents an expression statement.
type ExprStmt struct {
	Expr Expr
}

// NewExprStmt wraps an expression in a statement.
func NewExprStmt(expr Expr) *ExprStmt {
	return &ExprStmt{Expr: expr}
}

// Span returns the statement span.
func (s *ExprStmt) Span() lexer.Span { return s.Expr.Span() }

// stmtNode marks ExprStmt as a statement.
func (*ExprStmt) stmtNode() {}

// IntegerLit represents a constant 64-bit integer.
type IntegerLit struct {
	Value int64
	span  lexer.Span
}

// Span returns the literal span.
func (l *IntegerLit) Span() lexer.Span { return l.span }

// NewIntegerLit constructs an integer literal node.
func NewIntegerLit(value int64, span lexer.Span) *IntegerLit {
	return &IntegerLit{
		Value: value,
		span:  span,
	}
}

// exprNode marks IntegerLit as an expression.
func (*IntegerLit) exprNode() {}

// BinaryExpr represents an infix arithmetic operation. OpTok is the
// operator token it was parsed from, kept for display and diagnostics.
type BinaryExpr struct {
	Op    BinaryOp
	OpTok lexer.Token
	Left  Expr
	Right Expr
	span  lexer.Span
}

// Span returns the span from the left operand through the right operand.
func (e *BinaryExpr) Span() lexer.Span { return e.span }

// NewBinaryExpr constructs a binary expression node.
func NewBinaryExpr(op BinaryOp, opTok lexer.Token, left, right Expr) *BinaryExpr {
	return &BinaryExpr{
		Op:    op,
		OpTok: opTok,
		Left:  left,
		Right: right,
		span:  MergeSpan(left.Span(), right.Span()),
	}
}

// exprNode marks BinaryExpr as an expression.
func (*BinaryExpr) exprNode() {}

// ParenExpr represents an explicitly grouped expression. It is kept as its
// own node so printers can reproduce the grouping.
type ParenExpr struct {
	Inner Expr
	span  lexer.Span
}

// Span returns the span from the opening through the closing parenthesis.
func (e *ParenExpr) Span() lexer.Span { return e.span }

// NewParenExpr constructs a grouped expression node.
func NewParenExpr(inner Expr, span lexer.Span) *ParenExpr {
	return &ParenExpr{
		Inner: inner,
		span:  span,
	}
}

// exprNode marks ParenExpr as an expression.
func (*ParenExpr) exprNode() {}

// MergeSpan returns a span running from the start of a to the end of b.
func MergeSpan(a, b lexer.Span) lexer.Span {
	out := a
	if b.End > out.End {
		out.End = b.End
	}
	if out.Filename == "" {
		out.Filename = b.Filename
	}
	return out
}
