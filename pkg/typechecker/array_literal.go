package typechecker

import (
	"questscript/interpreter-go/pkg/ast"
	"questscript/interpreter-go/pkg/runtime"
)

// shape is the nesting depth of a list together with the type of its leaves.
type shape struct {
	leaf  ObjectType
	depth int
	empty bool
}

// display is the type shown for an element of this shape.
func (sh shape) display() ObjectType {
	if sh.depth > 0 {
		return List
	}
	return sh.leaf
}

// inferArrayLiteral requires every element to share the shape of the first
// one. Nested literals are checked all the way down; the first mismatch is
// reported against the top-level element that contains it.
func (s *Session) inferArrayLiteral(lit *ast.ArrayLiteral) ObjectType {
	for _, el := range lit.Elements {
		if el == nil {
			s.violation(lit, "array literal with a missing element")
		}
		s.InferType(el)
	}
	if len(lit.Elements) == 0 {
		return List
	}
	want := s.shapeOf(lit.Elements[0])
	if want.leaf == Unknown || want.empty {
		return List
	}
	for _, el := range lit.Elements {
		if actual, ok := s.matchShape(el, want); !ok {
			s.report(InvalidArrayLiteral, el,
				"array elements must be of type '%s', but '%s' contains an element of type '%s'",
				want.leaf, textOf(el), actual)
			return Unknown
		}
	}
	return List
}

// shapeOf descends through first elements to find the leaf type. A list that
// is not a literal is resolved to inspect its first element.
func (s *Session) shapeOf(expr ast.Expression) shape {
	expr = unwrapParens(expr)
	if lit, ok := expr.(*ast.ArrayLiteral); ok {
		if s.InferType(lit) == Unknown {
			return shape{leaf: Unknown}
		}
		if len(lit.Elements) == 0 {
			return shape{leaf: Unknown, depth: 1, empty: true}
		}
		inner := s.shapeOf(lit.Elements[0])
		inner.depth++
		return inner
	}
	typ := s.InferType(expr)
	if typ != List {
		return shape{leaf: typ}
	}
	return shape{leaf: s.listElementType(expr), depth: 1}
}

// matchShape checks expr against want and returns the offending type on a
// mismatch.
func (s *Session) matchShape(expr ast.Expression, want shape) (ObjectType, bool) {
	expr = unwrapParens(expr)
	if lit, ok := expr.(*ast.ArrayLiteral); ok {
		if s.InferType(lit) == Unknown {
			// Already reported against the nested literal.
			return Unknown, true
		}
		if want.depth == 0 {
			return List, false
		}
		inner := shape{leaf: want.leaf, depth: want.depth - 1}
		for _, el := range lit.Elements {
			if actual, ok := s.matchShape(el, inner); !ok {
				return actual, false
			}
		}
		return Unknown, true
	}
	got := s.shapeOf(expr)
	if got.leaf == Unknown {
		return Unknown, true
	}
	if got.depth != want.depth {
		return got.display(), false
	}
	if got.leaf != want.leaf {
		return got.leaf, false
	}
	return Unknown, true
}

// listElementType resolves a list-valued expression and returns the type of
// its first element, or Unknown when it is empty or not a list.
func (s *Session) listElementType(expr ast.Expression) ObjectType {
	list, ok := s.resolve(expr).Force().(*runtime.ListValue)
	if !ok {
		return Unknown
	}
	first, ok := list.At(0)
	if !ok {
		return Unknown
	}
	return TypeOfValue(first)
}
