package ast

import "fmt"

// Position is a 1-based line/column pair. The zero value means "unknown".
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (s Span) IsZero() bool {
	return s == Span{}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
}

// SetSpan annotates the node with the provided span.
func SetSpan(node Node, span Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setSpan(Span) }); ok {
		setter.setSpan(span)
	}
}

// SetText overrides the source text recorded for the node. Constructors derive
// a canonical rendering; parsers that keep the original text call this.
func SetText(node Node, text string) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setText(string) }); ok {
		setter.setText(text)
	}
}

// At is a convenience for tests: it sets a single-point span and returns the node.
func At[T Node](node T, line, column int) T {
	pos := Position{Line: line, Column: column}
	SetSpan(node, Span{Start: pos, End: pos})
	return node
}
