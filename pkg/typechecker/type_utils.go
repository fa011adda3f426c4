package typechecker

import "questscript/interpreter-go/pkg/ast"

func isUnknownType(types ...ObjectType) bool {
	for _, t := range types {
		if t == Unknown {
			return true
		}
	}
	return false
}

// bareName returns the variable name assigned by target when it is a plain
// identifier. Member paths never declare locals.
func bareName(target ast.Expression) (string, bool) {
	id, ok := target.(*ast.Identifier)
	if !ok || id == nil {
		return "", false
	}
	return id.Name, true
}

// unwrapParens strips redundant parentheses.
func unwrapParens(expr ast.Expression) ast.Expression {
	for {
		paren, ok := expr.(*ast.ParenthesizedExpression)
		if !ok || paren == nil {
			return expr
		}
		expr = paren.Inner
	}
}
