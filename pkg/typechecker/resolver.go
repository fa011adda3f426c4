package typechecker

import (
	"math"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"questscript/interpreter-go/pkg/ast"
	"questscript/interpreter-go/pkg/runtime"
)

// divisionEpsilon is the magnitude below which a divisor counts as zero.
const divisionEpsilon = 1e-11

func null() *runtime.Thunk {
	return runtime.Ready(runtime.NullValue{})
}

// resolve builds a deferred value for expr. Composite expressions are type
// checked first; an invalid or unknown type short-circuits to null.
func (s *Session) resolve(expr ast.Expression) *runtime.Thunk {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return s.resolveLiteral(e, Integer, func(text string) (runtime.Value, error) {
			n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
			return runtime.IntegerValue{Val: n}, err
		})
	case *ast.DoubleLiteral:
		return s.resolveLiteral(e, Double, func(text string) (runtime.Value, error) {
			f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
			return runtime.DoubleValue{Val: f}, err
		})
	case *ast.StringLiteral:
		return runtime.Ready(runtime.StringValue{Val: unquote(e.Text())})
	case *ast.BooleanLiteral:
		return s.resolveLiteral(e, Boolean, parseBoolean)
	case *ast.NullLiteral:
		return null()
	case *ast.Identifier:
		return s.resolveIdentifier(e)
	case *ast.ParenthesizedExpression:
		return s.resolve(e.Inner)
	case *ast.AdditiveExpression:
		return s.resolveArithmetic(e, e.Operator, e.Left, e.Right)
	case *ast.MultiplicativeExpression:
		return s.resolveArithmetic(e, e.Operator, e.Left, e.Right)
	case *ast.RelationalExpression:
		return s.resolveRelational(e)
	case *ast.AndExpression:
		return s.resolveLogical(e, e.Left, e.Right, false)
	case *ast.OrExpression:
		return s.resolveLogical(e, e.Left, e.Right, true)
	case *ast.NotExpression:
		return s.resolveNot(e)
	case *ast.PostfixUnaryExpression:
		return s.resolvePostfix(e)
	case *ast.ArrayLiteral:
		return s.resolveArrayLiteral(e)
	case *ast.IndexerExpression:
		return s.resolveIndexer(e)
	case *ast.MemberFieldExpression, *ast.FunctionCall:
		// Attribute values and call results only exist at run time.
		s.InferType(e)
		return null()
	default:
		s.violation(expr, "unsupported expression")
		return nil
	}
}

func (s *Session) resolveLiteral(lit ast.Literal, typ ObjectType, parse func(string) (runtime.Value, error)) *runtime.Thunk {
	value, err := parse(lit.Text())
	if err != nil {
		s.report(FailedInterpretation, lit, "cannot interpret '%s' as a value of type '%s'", lit.Text(), typ)
		return null()
	}
	return runtime.Ready(value)
}

func parseBoolean(text string) (runtime.Value, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true":
		return runtime.BoolValue{Val: true}, nil
	case "false":
		return runtime.BoolValue{Val: false}, nil
	}
	return nil, strconv.ErrSyntax
}

// unquote strips the delimiting quotes and unescapes embedded quotes.
func unquote(text string) string {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	return strings.ReplaceAll(text, `\"`, `"`)
}

// resolveIdentifier captures the variable's value as it is now, so a later
// reassignment does not change values already derived from it.
func (s *Session) resolveIdentifier(id *ast.Identifier) *runtime.Thunk {
	if v := s.lookup(id, id.Name); v != nil {
		if v.Value == nil {
			return null()
		}
		return v.Value
	}
	if _, ok := s.opts.Catalog.Object(id.Name); ok {
		return runtime.Ready(runtime.ObjectValue{Name: id.Name})
	}
	return null()
}

func (s *Session) resolveArithmetic(expr ast.Expression, operator string, left, right ast.Expression) *runtime.Thunk {
	typ := s.InferType(expr)
	if typ == Unknown {
		return null()
	}
	if !typ.IsNumeric() && typ != String {
		leftType, rightType := s.InferType(left), s.InferType(right)
		s.reportOperands(expr, operator, leftType, rightType)
		return null()
	}
	l, r := s.resolve(left), s.resolve(right)
	if operator == "/" || operator == "%" {
		// A literal divisor is known now; other divisors are checked when forced.
		if _, isLiteral := unwrapParens(right).(ast.Literal); isLiteral {
			if f, ok := runtime.ToFloat(r.Force()); ok && math.Abs(f) < divisionEpsilon {
				s.reportDivision(expr)
			}
		}
	}
	return runtime.Defer(func() runtime.Value {
		lv, rv := l.Force(), r.Force()
		_, leftIsString := lv.(runtime.StringValue)
		_, rightIsString := rv.(runtime.StringValue)
		if operator == "+" && (leftIsString || rightIsString) {
			return runtime.StringValue{Val: runtime.Describe(lv) + runtime.Describe(rv)}
		}
		lf, lok := s.numericOperand(left, lv)
		rf, rok := s.numericOperand(right, rv)
		if !lok || !rok {
			return runtime.NullValue{}
		}
		var result float64
		switch operator {
		case "+":
			result = lf + rf
		case "-":
			result = lf - rf
		case "*":
			result = lf * rf
		case "/":
			if math.Abs(rf) < divisionEpsilon {
				s.reportDivision(expr)
			}
			result = lf / rf
		case "%":
			if math.Abs(rf) < divisionEpsilon {
				s.reportDivision(expr)
			}
			result = math.Mod(lf, rf)
		default:
			s.violation(expr, "unknown arithmetic operator %q", operator)
		}
		return castNumber(result, typ)
	})
}

func (s *Session) reportDivision(expr ast.Expression) {
	s.report(DivisionByZero, expr, "division by zero in '%s'", textOf(expr))
}

// numericOperand coerces a resolved operand to float64. Null operands come
// from errors reported elsewhere and are passed over silently.
func (s *Session) numericOperand(expr ast.Expression, v runtime.Value) (float64, bool) {
	if f, ok := runtime.ToFloat(v); ok {
		return f, true
	}
	if !runtime.IsNull(v) {
		s.report(FailedToInferType, expr, "cannot use '%s' of type '%s' as a number", textOf(expr), TypeOfValue(v))
	}
	return 0, false
}

// castNumber converts an arithmetic result back to the expression's type.
// Results that do not fit an Integer stay doubles.
func castNumber(f float64, typ ObjectType) runtime.Value {
	switch typ {
	case Integer:
		n, err := safecast.Truncate[int64](f)
		if err != nil {
			return runtime.DoubleValue{Val: f}
		}
		return runtime.IntegerValue{Val: n}
	case String:
		return runtime.StringValue{Val: strconv.FormatFloat(f, 'f', -1, 64)}
	default:
		return runtime.DoubleValue{Val: f}
	}
}

func (s *Session) resolveRelational(expr *ast.RelationalExpression) *runtime.Thunk {
	if s.InferType(expr) != Boolean {
		return null()
	}
	l, r := s.resolve(expr.Left), s.resolve(expr.Right)
	return runtime.Defer(func() runtime.Value {
		lf, lok := runtime.ToFloat(l.Force())
		rf, rok := runtime.ToFloat(r.Force())
		if !lok || !rok {
			return runtime.NullValue{}
		}
		var result bool
		switch expr.Operator {
		case "<":
			result = lf < rf
		case "<=":
			result = lf <= rf
		case ">":
			result = lf > rf
		case ">=":
			result = lf >= rf
		case "=", "==":
			result = lf == rf
		case "<>", "!=":
			result = lf != rf
		default:
			s.violation(expr, "unknown relational operator %q", expr.Operator)
		}
		return runtime.BoolValue{Val: result}
	})
}

// resolveLogical evaluates and/or, skipping the right operand when the left
// one decides the result.
func (s *Session) resolveLogical(expr ast.Expression, left, right ast.Expression, isOr bool) *runtime.Thunk {
	if s.InferType(expr) != Boolean {
		return null()
	}
	l, r := s.resolve(left), s.resolve(right)
	return runtime.Defer(func() runtime.Value {
		lv, ok := l.Force().(runtime.BoolValue)
		if !ok {
			return runtime.NullValue{}
		}
		if lv.Val == isOr {
			return lv
		}
		rv, ok := r.Force().(runtime.BoolValue)
		if !ok {
			return runtime.NullValue{}
		}
		return rv
	})
}

func (s *Session) resolveNot(expr *ast.NotExpression) *runtime.Thunk {
	if s.InferType(expr) != Boolean {
		return null()
	}
	operand := s.resolve(expr.Operand)
	return runtime.Defer(func() runtime.Value {
		v, ok := operand.Force().(runtime.BoolValue)
		if !ok {
			return runtime.NullValue{}
		}
		return runtime.BoolValue{Val: !v.Val}
	})
}

// resolvePostfix yields the incremented or decremented value without storing it.
func (s *Session) resolvePostfix(expr *ast.PostfixUnaryExpression) *runtime.Thunk {
	if !s.InferType(expr).IsNumeric() {
		return null()
	}
	delta := int64(1)
	if expr.Operator == "--" {
		delta = -1
	}
	operand := s.resolve(expr.Operand)
	return runtime.Defer(func() runtime.Value {
		switch v := operand.Force().(type) {
		case runtime.IntegerValue:
			return runtime.IntegerValue{Val: v.Val + delta}
		case runtime.DoubleValue:
			return runtime.DoubleValue{Val: v.Val + float64(delta)}
		default:
			return runtime.NullValue{}
		}
	})
}

func (s *Session) resolveArrayLiteral(lit *ast.ArrayLiteral) *runtime.Thunk {
	if s.InferType(lit) != List {
		return null()
	}
	elements := make([]*runtime.Thunk, 0, len(lit.Elements))
	for _, el := range lit.Elements {
		elements = append(elements, s.resolve(el))
	}
	return runtime.Defer(func() runtime.Value {
		list := runtime.NewList()
		for _, el := range elements {
			list.Append(el.Force())
		}
		return list
	})
}

func (s *Session) resolveIndexer(expr *ast.IndexerExpression) *runtime.Thunk {
	if s.InferType(expr) == Unknown {
		return null()
	}
	instance, index := s.resolve(expr.Instance), s.resolve(expr.Index)
	return runtime.Defer(func() runtime.Value {
		list, ok := instance.Force().(*runtime.ListValue)
		if !ok {
			return runtime.NullValue{}
		}
		i, ok := indexOf(index.Force())
		if !ok {
			s.report(IndexOutOfRange, expr, "index '%s' is not a valid position in '%s'", textOf(expr.Index), textOf(expr.Instance))
			return runtime.NullValue{}
		}
		v, ok := list.At(i)
		if !ok {
			s.report(IndexOutOfRange, expr, "index %d is outside '%s' of length %d", i, textOf(expr.Instance), list.Len())
			return runtime.NullValue{}
		}
		return runtime.Force(v)
	})
}

func indexOf(v runtime.Value) (int, bool) {
	switch val := v.(type) {
	case runtime.IntegerValue:
		i, err := safecast.Conv[int](val.Val)
		return i, err == nil
	case runtime.DoubleValue:
		i, err := safecast.Truncate[int](val.Val)
		return i, err == nil
	default:
		return 0, false
	}
}
