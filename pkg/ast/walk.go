package ast

// Children returns the direct sub-expressions of expr in source order.
func Children(expr Expression) []Expression {
	switch e := expr.(type) {
	case *ArrayLiteral:
		return e.Elements
	case *ParenthesizedExpression:
		return []Expression{e.Inner}
	case *AdditiveExpression:
		return []Expression{e.Left, e.Right}
	case *MultiplicativeExpression:
		return []Expression{e.Left, e.Right}
	case *RelationalExpression:
		return []Expression{e.Left, e.Right}
	case *AndExpression:
		return []Expression{e.Left, e.Right}
	case *OrExpression:
		return []Expression{e.Left, e.Right}
	case *NotExpression:
		return []Expression{e.Operand}
	case *PostfixUnaryExpression:
		return []Expression{e.Operand}
	case *IndexerExpression:
		return []Expression{e.Instance, e.Index}
	case *MemberFieldExpression:
		return []Expression{e.Instance}
	case *FunctionCall:
		out := make([]Expression, 0, len(e.Arguments)+1)
		out = append(out, e.Callee)
		return append(out, e.Arguments...)
	default:
		return nil
	}
}

// Inspect walks expr depth-first in source order. If fn returns false the
// children of the current node are skipped.
func Inspect(expr Expression, fn func(Expression) bool) {
	if expr == nil || !fn(expr) {
		return
	}
	for _, child := range Children(expr) {
		Inspect(child, fn)
	}
}

// HeaderExpressions returns the expressions owned directly by stmt, excluding
// those of nested statements.
func HeaderExpressions(stmt Statement) []Expression {
	switch s := stmt.(type) {
	case *Assignment:
		return []Expression{s.Target, s.Value}
	case *ScriptAssignment:
		return []Expression{s.Target}
	case *IfStatement:
		out := []Expression{s.Condition}
		for _, clause := range s.ElseIfs {
			if clause != nil {
				out = append(out, clause.Condition)
			}
		}
		return out
	case *WhileStatement:
		return []Expression{s.Condition}
	case *ForStatement:
		if s.Variable == nil {
			return []Expression{s.Start, s.End}
		}
		return []Expression{s.Variable, s.Start, s.End}
	case *ForEachStatement:
		if s.Variable == nil {
			return []Expression{s.Collection}
		}
		return []Expression{s.Variable, s.Collection}
	case *SwitchStatement:
		out := []Expression{s.Subject}
		for _, c := range s.Cases {
			if c != nil {
				out = append(out, c.Label)
			}
		}
		return out
	case *ExpressionStatement:
		return []Expression{s.Expression}
	default:
		return nil
	}
}
