package ast

import (
	"strconv"
	"strings"
)

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(strconv.FormatInt(value, 10))
}

func Dbl(value float64) *DoubleLiteral {
	text := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.ContainsAny(text, ".eEnN") {
		text += ".0"
	}
	return NewDoubleLiteral(text)
}

// Str quotes value the way the script language writes string literals.
func Str(value string) *StringLiteral {
	return NewStringLiteral(`"` + strings.ReplaceAll(value, `"`, `\"`) + `"`)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(strconv.FormatBool(value))
}

func Null() *NullLiteral {
	return NewNullLiteral()
}

func Arr(elements ...Expression) *ArrayLiteral {
	return NewArrayLiteral(elements)
}

// Operator helpers.

func Paren(inner Expression) *ParenthesizedExpression {
	return NewParenthesizedExpression(inner)
}

// Bin picks the additive or multiplicative node for operator.
func Bin(operator string, left, right Expression) Expression {
	switch operator {
	case "*", "/", "%":
		return NewMultiplicativeExpression(operator, left, right)
	default:
		return NewAdditiveExpression(operator, left, right)
	}
}

func Add(left, right Expression) *AdditiveExpression {
	return NewAdditiveExpression("+", left, right)
}

func Sub(left, right Expression) *AdditiveExpression {
	return NewAdditiveExpression("-", left, right)
}

func Mul(left, right Expression) *MultiplicativeExpression {
	return NewMultiplicativeExpression("*", left, right)
}

func Div(left, right Expression) *MultiplicativeExpression {
	return NewMultiplicativeExpression("/", left, right)
}

func Mod(left, right Expression) *MultiplicativeExpression {
	return NewMultiplicativeExpression("%", left, right)
}

func Rel(operator string, left, right Expression) *RelationalExpression {
	return NewRelationalExpression(operator, left, right)
}

func And(left, right Expression) *AndExpression {
	return NewAndExpression(left, right)
}

func Or(left, right Expression) *OrExpression {
	return NewOrExpression(left, right)
}

func Not(operand Expression) *NotExpression {
	return NewNotExpression(operand)
}

func Inc(operand Expression) *PostfixUnaryExpression {
	return NewPostfixUnaryExpression("++", operand)
}

func Dec(operand Expression) *PostfixUnaryExpression {
	return NewPostfixUnaryExpression("--", operand)
}

func Index(instance, index Expression) *IndexerExpression {
	return NewIndexerExpression(instance, index)
}

func Member(instance Expression, member string) *MemberFieldExpression {
	return NewMemberFieldExpression(instance, member)
}

func Call(name string, args ...Expression) *FunctionCall {
	return NewFunctionCall(ID(name), args)
}

// Statement helpers.

func Prog(statements ...Statement) *Script {
	return NewScript(statements)
}

func Block(statements ...Statement) *CodeBlock {
	return NewCodeBlock(statements)
}

func Assign(name string, value Expression) *Assignment {
	return NewAssignment(ID(name), value)
}

func AssignTo(target, value Expression) *Assignment {
	return NewAssignment(target, value)
}

func ScriptAssign(name string, body ...Statement) *ScriptAssignment {
	return NewScriptAssignment(ID(name), Block(body...))
}

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func If(condition Expression, then Statement) *IfStatement {
	return NewIfStatement(condition, then, nil, nil)
}

// ElseIf appends an elseif clause and returns the statement for chaining.
func (s *IfStatement) ElseIf(condition Expression, body Statement) *IfStatement {
	s.ElseIfs = append(s.ElseIfs, NewElseIfClause(condition, body))
	return s
}

func (s *IfStatement) OrElse(body Statement) *IfStatement {
	s.Else = body
	return s
}

func While(condition Expression, body Statement) *WhileStatement {
	return NewWhileStatement(condition, body)
}

func For(variable string, start, end Expression, body ...Statement) *ForStatement {
	return NewForStatement(ID(variable), start, end, Block(body...))
}

func ForEach(variable string, collection Expression, body ...Statement) *ForEachStatement {
	return NewForEachStatement(ID(variable), collection, Block(body...))
}

func Switch(subject Expression, cases ...*SwitchCase) *SwitchStatement {
	return NewSwitchStatement(subject, cases, nil)
}

func Case(label Expression, body ...Statement) *SwitchCase {
	return NewSwitchCase(label, Block(body...))
}

func (s *SwitchStatement) WithDefault(body ...Statement) *SwitchStatement {
	s.Default = Block(body...)
	return s
}
