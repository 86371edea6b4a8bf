package ast

// Visitor is implemented by every consumer of the tree. The constant leaf
// handler is the only mandatory hook; a visitor opts into the structural
// hooks below by implementing the matching interface. Hooks that are not
// implemented fall back to the Walk* defaults, which recurse into children
// in source order (left operand before right operand).
type Visitor interface {
	VisitConstant(lit *IntegerLit)
}

// StmtVisitor overrides statement traversal.
type StmtVisitor interface {
	VisitStmt(stmt *ExprStmt)
}

// ExprVisitor overrides the generic expression hook that runs before the
// per-kind dispatch.
type ExprVisitor interface {
	VisitExpr(expr Expr)
}

// BinaryVisitor overrides binary operation traversal.
type BinaryVisitor interface {
	VisitBinary(expr *BinaryExpr)
}

// ParenVisitor overrides grouped expression traversal.
type ParenVisitor interface {
	VisitParen(expr *ParenExpr)
}

// Accept visits every statement of the program in order.
func (p *Program) Accept(v Visitor) {
	for _, stmt := range p.Stmts {
		VisitStmt(v, stmt)
	}
}

// VisitStmt hands stmt to v's statement hook, or walks it by default.
func VisitStmt(v Visitor, stmt Stmt) {
	s, ok := stmt.(*ExprStmt)
	if !ok || s == nil {
		return
	}
	if sv, ok := v.(StmtVisitor); ok {
		sv.VisitStmt(s)
		return
	}
	WalkStmt(v, s)
}

// WalkStmt is the default statement traversal: visit the wrapped expression.
func WalkStmt(v Visitor, stmt *ExprStmt) {
	VisitExpr(v, stmt.Expr)
}

// VisitExpr hands expr to v's expression hook, or dispatches on its kind.
func VisitExpr(v Visitor, expr Expr) {
	if ev, ok := v.(ExprVisitor); ok {
		ev.VisitExpr(expr)
		return
	}
	WalkExpr(v, expr)
}

// WalkExpr dispatches expr to the hook for its concrete kind.
func WalkExpr(v Visitor, expr Expr) {
	switch e := expr.(type) {
	case *IntegerLit:
		v.VisitConstant(e)
	case *BinaryExpr:
		if bv, ok := v.(BinaryVisitor); ok {
			bv.VisitBinary(e)
			return
		}
		WalkBinary(v, e)
	case *ParenExpr:
		if pv, ok := v.(ParenVisitor); ok {
			pv.VisitParen(e)
			return
		}
		WalkParen(v, e)
	}
}

// WalkBinary is the default binary traversal: left operand, then right.
func WalkBinary(v Visitor, expr *BinaryExpr) {
	VisitExpr(v, expr.Left)
	VisitExpr(v, expr.Right)
}

// WalkParen is the default grouped traversal: the inner expression.
func WalkParen(v Visitor, expr *ParenExpr) {
	VisitExpr(v, expr.Inner)
}

// Walk traverses the AST starting from node, calling fn for each node in
// depth-first pre-order. If fn returns false, Walk stops traversing that branch.
func Walk(node Node, fn func(Node) bool) {
	if !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Stmts {
			Walk(stmt, fn)
		}

	case *ExprStmt:
		if n.Expr != nil {
			Walk(n.Expr, fn)
		}

	case *BinaryExpr:
		if n.Left != nil {
			Walk(n.Left, fn)
		}
		if n.Right != nil {
			Walk(n.Right, fn)
		}

	case *ParenExpr:
		if n.Inner != nil {
			Walk(n.Inner, fn)
		}

	case *IntegerLit:
		// No children to traverse
	}
}

// Count returns the number of nodes reachable from node, node included.
func Count(node Node) int {
	n := 0
	Walk(node, func(Node) bool {
		n++
		return true
	})
	return n
}
