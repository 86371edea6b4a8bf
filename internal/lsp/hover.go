package lsp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/malphas-lang/arith/internal/ast"
	"github.com/malphas-lang/arith/internal/eval"
)

// TextDocumentPositionParams identifies a position in an open document.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// HoverParams represents hover request parameters.
type HoverParams struct {
	TextDocumentPositionParams
}

// Hover represents hover information.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

func (s *Server) handleHover(msg *jsonrpcMessage) *jsonrpcMessage {
	var params HoverParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return invalidParams(msg, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.Documents[params.TextDocument.URI]
	if !ok || doc.Report == nil {
		return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID}
	}

	return &jsonrpcMessage{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Result:  getHover(doc, params.Position),
	}
}

// getHover shows the value of the innermost expression under the cursor.
func getHover(doc *Document, pos Position) *Hover {
	offset := positionToOffset(doc.Content, pos)

	expr := findExprAt(doc.Report.Program, offset)
	if expr == nil {
		return nil
	}

	src := ast.Format(expr)
	var content string
	if value, err := eval.New().Eval(expr); err != nil {
		content = fmt.Sprintf("```arith\n%s\n```\n%s", src, err)
	} else {
		content = fmt.Sprintf("```arith\n%s = %d\n```", src, value)
	}

	span := expr.Span()
	return &Hover{
		Contents: MarkupContent{
			Kind:  "markdown",
			Value: content,
		},
		Range: &Range{
			Start: offsetToPosition(doc.Content, span.Start),
			End:   offsetToPosition(doc.Content, span.End),
		},
	}
}

// findExprAt returns the innermost expression whose span contains offset.
func findExprAt(prog *ast.Program, offset int) ast.Expr {
	var found ast.Expr
	ast.Walk(prog, func(n ast.Node) bool {
		span := n.Span()
		if offset < span.Start || offset >= span.End {
			return false
		}
		if expr, ok := n.(ast.Expr); ok {
			found = expr
		}
		return true
	})
	return found
}

// FormattingParams represents formatting request parameters.
type FormattingParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// TextEdit replaces the text in Range.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// handleFormatting rewrites the whole document one statement per line.
// Documents with parse errors are left alone.
func (s *Server) handleFormatting(msg *jsonrpcMessage) *jsonrpcMessage {
	var params FormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return invalidParams(msg, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.Documents[params.TextDocument.URI]
	if !ok || doc.Report == nil || doc.Report.Program.Len() != len(doc.Report.Statements) {
		return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID}
	}

	var b strings.Builder
	for _, stmt := range doc.Report.Program.Stmts {
		b.WriteString(ast.Format(stmt))
		b.WriteByte('\n')
	}

	edits := []TextEdit{{
		Range: Range{
			Start: Position{},
			End:   offsetToPosition(doc.Content, len([]rune(doc.Content))),
		},
		NewText: b.String(),
	}}
	return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID, Result: edits}
}

// positionToOffset converts a zero-based line/character position into a
// rune offset.
func positionToOffset(content string, pos Position) int {
	line := 0
	col := 0
	offset := 0

	for _, r := range content {
		if line == pos.Line && col == pos.Character {
			return offset
		}

		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
		offset++
	}

	return offset
}

func offsetToPosition(content string, offset int) Position {
	var pos Position
	i := 0
	for _, r := range content {
		if i == offset {
			break
		}
		if r == '\n' {
			pos.Line++
			pos.Character = 0
		} else {
			pos.Character++
		}
		i++
	}
	return pos
}
