package typechecker

import (
	"questscript/interpreter-go/pkg/ast"
	"questscript/interpreter-go/pkg/runtime"
)

// InferType returns the static type of expr, recording any type errors.
// Results are memoized per node, so each error is reported once.
func (s *Session) InferType(expr ast.Expression) ObjectType {
	if expr == nil {
		s.violation(nil, "cannot infer the type of a nil expression")
	}
	if typ, ok := s.infer.get(expr); ok {
		return typ
	}
	// Placeholder guards against re-entry through the value resolver.
	s.infer.set(expr, Unknown)
	typ := s.inferExpression(expr)
	s.infer.set(expr, typ)
	return typ
}

func (s *Session) inferExpression(expr ast.Expression) ObjectType {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return Integer
	case *ast.DoubleLiteral:
		return Double
	case *ast.StringLiteral:
		return String
	case *ast.BooleanLiteral:
		return Boolean
	case *ast.NullLiteral:
		return Null
	case *ast.Identifier:
		return s.inferIdentifier(e)
	case *ast.ParenthesizedExpression:
		return s.InferType(e.Inner)
	case *ast.AdditiveExpression:
		return s.inferArithmetic(e, e.Operator, e.Left, e.Right)
	case *ast.MultiplicativeExpression:
		return s.inferArithmetic(e, e.Operator, e.Left, e.Right)
	case *ast.RelationalExpression:
		return s.inferRelational(e)
	case *ast.AndExpression:
		return s.inferLogical(e, "and", e.Left, e.Right)
	case *ast.OrExpression:
		return s.inferLogical(e, "or", e.Left, e.Right)
	case *ast.NotExpression:
		return s.inferNot(e)
	case *ast.PostfixUnaryExpression:
		return s.inferPostfix(e)
	case *ast.ArrayLiteral:
		return s.inferArrayLiteral(e)
	case *ast.IndexerExpression:
		return s.inferIndexer(e)
	case *ast.MemberFieldExpression:
		return s.inferMember(e)
	case *ast.FunctionCall:
		return s.inferCall(e)
	default:
		s.violation(expr, "unsupported expression")
		return Unknown
	}
}

func (s *Session) inferIdentifier(id *ast.Identifier) ObjectType {
	if v := s.lookup(id, id.Name); v != nil {
		return v.Type
	}
	if _, ok := s.opts.Catalog.Object(id.Name); ok {
		return Object
	}
	return Unknown
}

func (s *Session) inferNot(expr *ast.NotExpression) ObjectType {
	typ := s.InferType(expr.Operand)
	switch typ {
	case Boolean:
		return Boolean
	case Unknown:
		return Unknown
	default:
		s.reportUnexpected(expr.Operand, Boolean, typ)
		return Unknown
	}
}

func (s *Session) inferPostfix(expr *ast.PostfixUnaryExpression) ObjectType {
	typ := s.InferType(expr.Operand)
	if typ.IsNumeric() || typ == Unknown {
		return typ
	}
	s.reportUnexpected(expr.Operand, Integer, typ)
	return Unknown
}

// inferIndexer checks a[i] and reports the type of the list's first element.
func (s *Session) inferIndexer(expr *ast.IndexerExpression) ObjectType {
	instanceType := s.InferType(expr.Instance)
	indexType := s.InferType(expr.Index)
	if instanceType == Dictionary {
		panic(&UnsupportedError{Node: expr, Feature: "dictionary indexing"})
	}
	if isUnknownType(instanceType, indexType) {
		return Unknown
	}
	ok := true
	if instanceType != List {
		s.reportUnexpected(expr.Instance, List, instanceType)
		ok = false
	}
	if !indexType.IsNumeric() {
		s.reportUnexpected(expr.Index, Integer, indexType)
		ok = false
	}
	if !ok {
		return Unknown
	}
	list, isList := s.resolve(expr.Instance).Force().(*runtime.ListValue)
	if !isList {
		return Unknown
	}
	first, found := list.At(0)
	if !found {
		return Unknown
	}
	return TypeOfValue(first)
}

func (s *Session) inferMember(expr *ast.MemberFieldExpression) ObjectType {
	s.InferType(expr.Instance)
	object, ok := s.catalogObject(expr.Instance)
	if !ok {
		return Unknown
	}
	typ, _ := s.opts.Catalog.Attribute(object.Name, expr.Member)
	return typ
}

func (s *Session) inferCall(call *ast.FunctionCall) ObjectType {
	for _, arg := range call.Arguments {
		s.InferType(arg)
	}
	name, ok := call.CalleeName()
	if !ok {
		return Unknown
	}
	sig, ok := s.opts.Catalog.Function(name)
	if !ok {
		return Unknown
	}
	return sig.ReturnType
}
