// Package eval folds expression trees into signed 64-bit integers.
//
// Arithmetic is checked: a result that does not fit in int64 is an
// ErrOverflow, and dividing by zero is an ErrDivisionByZero. Division
// truncates toward zero.
package eval

import (
	"math"

	"github.com/malphas-lang/arith/internal/ast"
)

// Result is the outcome of evaluating one statement.
type Result struct {
	Index int
	Value int64
	Err   error
}

// Evaluator evaluates statements one after another. As an ast.Visitor it
// keeps the value of the most recent statement, so after visiting a whole
// program Last reports the final statement's value.
type Evaluator struct {
	last    int64
	hasLast bool
	results []Result
}

// New returns an evaluator with no recorded results.
func New() *Evaluator {
	return &Evaluator{}
}

// Eval evaluates expr by post-order traversal. The left operand of a
// binary operation is fully evaluated before the right one, so the first
// failing operator in source order is the one reported.
func (ev *Evaluator) Eval(expr ast.Expr) (int64, error) {
	switch e := expr.(type) {
	case *ast.IntegerLit:
		return e.Value, nil

	case *ast.ParenExpr:
		return ev.Eval(e.Inner)

	case *ast.BinaryExpr:
		left, err := ev.Eval(e.Left)
		if err != nil {
			return 0, err
		}
		right, err := ev.Eval(e.Right)
		if err != nil {
			return 0, err
		}
		value, err := apply(e.Op, left, right)
		if err != nil {
			return 0, &RuntimeError{Err: err, Expr: e, Left: left, Right: right}
		}
		return value, nil

	default:
		return 0, nil
	}
}

// VisitConstant makes a bare literal the current value.
func (ev *Evaluator) VisitConstant(lit *ast.IntegerLit) {
	ev.last = lit.Value
	ev.hasLast = true
}

// VisitStmt evaluates stmt and records its result. A failed statement
// clears the current value but does not stop later statements.
func (ev *Evaluator) VisitStmt(stmt *ast.ExprStmt) {
	value, err := ev.Eval(stmt.Expr)
	ev.results = append(ev.results, Result{
		Index: len(ev.results),
		Value: value,
		Err:   err,
	})
	ev.last = value
	ev.hasLast = err == nil
}

// Last returns the value of the most recently visited statement. ok is
// false if nothing was visited or that statement failed.
func (ev *Evaluator) Last() (value int64, ok bool) {
	return ev.last, ev.hasLast
}

// Results returns the per-statement results recorded by VisitStmt.
func (ev *Evaluator) Results() []Result {
	return ev.results
}

// EvalProgram visits every statement of prog with a fresh evaluator.
func EvalProgram(prog *ast.Program) *Evaluator {
	ev := New()
	prog.Accept(ev)
	return ev
}

func apply(op ast.BinaryOp, a, b int64) (int64, error) {
	switch op {
	case ast.Add:
		sum := a + b
		if (a^sum)&(b^sum) < 0 {
			return 0, ErrOverflow
		}
		return sum, nil

	case ast.Sub:
		diff := a - b
		if (a^b)&(a^diff) < 0 {
			return 0, ErrOverflow
		}
		return diff, nil

	case ast.Mul:
		if a == 0 || b == 0 {
			return 0, nil
		}
		if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
			return 0, ErrOverflow
		}
		product := a * b
		if product/b != a {
			return 0, ErrOverflow
		}
		return product, nil

	case ast.Div:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		if a == math.MinInt64 && b == -1 {
			return 0, ErrOverflow
		}
		return a / b, nil
	}
	return 0, nil
}
