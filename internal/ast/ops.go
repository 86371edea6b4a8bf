package ast

import "github.com/malphas-lang/arith/internal/lexer"

// BinaryOp enumerates the arithmetic operators.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
)

// Precedence returns the binding strength of the operator. All operators
// are left-associative.
func (op BinaryOp) Precedence() int {
	switch op {
	case Mul, Div:
		return 2
	default:
		return 1
	}
}

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "?"
	}
}

// BinaryOpFromToken maps an operator token to its BinaryOp.
func BinaryOpFromToken(tt lexer.TokenType) (BinaryOp, bool) {
	switch tt {
	case lexer.PLUS:
		return Add, true
	case lexer.MINUS:
		return Sub, true
	case lexer.ASTERISK:
		return Mul, true
	case lexer.SLASH:
		return Div, true
	}
	return 0, false
}
