package typechecker

import "questscript/interpreter-go/pkg/ast"

// inferArithmetic types +, -, *, / and %.
func (s *Session) inferArithmetic(expr ast.Expression, operator string, left, right ast.Expression) ObjectType {
	leftType := s.InferType(left)
	rightType := s.InferType(right)
	switch {
	case isUnknownType(leftType, rightType):
		return Unknown
	case leftType == rightType:
		return leftType
	case leftType.IsNumeric() && rightType.IsNumeric():
		// Mixed integer and double arithmetic widens.
		return Double
	case CanConvert(rightType, leftType):
		return leftType
	case CanConvert(leftType, rightType):
		return rightType
	}
	s.reportOperands(expr, operator, leftType, rightType)
	return Unknown
}

func (s *Session) inferRelational(expr *ast.RelationalExpression) ObjectType {
	leftType := s.InferType(expr.Left)
	rightType := s.InferType(expr.Right)
	if isUnknownType(leftType, rightType) {
		return Unknown
	}
	if leftType.IsComparable() && rightType.IsComparable() {
		return Boolean
	}
	s.reportOperands(expr, expr.Operator, leftType, rightType)
	return Unknown
}

func (s *Session) inferLogical(expr ast.Expression, operator string, left, right ast.Expression) ObjectType {
	leftType := s.InferType(left)
	rightType := s.InferType(right)
	if isUnknownType(leftType, rightType) {
		return Unknown
	}
	if leftType == Boolean && rightType == Boolean {
		return Boolean
	}
	s.reportOperands(expr, operator, leftType, rightType)
	return Unknown
}
