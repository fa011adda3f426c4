package ast

import "strings"

type NodeType string

const (
	NodeScript              NodeType = "Script"
	NodeCodeBlock           NodeType = "CodeBlock"
	NodeAssignment          NodeType = "Assignment"
	NodeScriptAssignment    NodeType = "ScriptAssignment"
	NodeIfStatement         NodeType = "If"
	NodeElseIfClause        NodeType = "ElseIf"
	NodeWhileStatement      NodeType = "While"
	NodeForStatement        NodeType = "For"
	NodeForEachStatement    NodeType = "ForEach"
	NodeSwitchStatement     NodeType = "Switch"
	NodeSwitchCase          NodeType = "SwitchCase"
	NodeExpressionStatement NodeType = "ExpressionStatement"

	NodeIdentifier               NodeType = "Identifier"
	NodeIntegerLiteral           NodeType = "IntegerLiteral"
	NodeDoubleLiteral            NodeType = "DoubleLiteral"
	NodeStringLiteral            NodeType = "StringLiteral"
	NodeBooleanLiteral           NodeType = "BooleanLiteral"
	NodeNullLiteral              NodeType = "NullLiteral"
	NodeArrayLiteral             NodeType = "ArrayLiteral"
	NodeParenthesizedExpression  NodeType = "Parenthesized"
	NodeAdditiveExpression       NodeType = "Additive"
	NodeMultiplicativeExpression NodeType = "Multiplicative"
	NodeRelationalExpression     NodeType = "Relational"
	NodeAndExpression            NodeType = "LogicalAnd"
	NodeOrExpression             NodeType = "LogicalOr"
	NodeNotExpression            NodeType = "Not"
	NodePostfixUnaryExpression   NodeType = "PostfixUnary"
	NodeIndexerExpression        NodeType = "Indexer"
	NodeMemberFieldExpression    NodeType = "MemberField"
	NodeFunctionCall             NodeType = "FunctionCall"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	Text() string
	isNode()
}

type nodeImpl struct {
	Type   NodeType `json:"type"`
	span   Span
	source string
}

func newNodeImpl(kind NodeType, source string) nodeImpl {
	return nodeImpl{Type: kind, source: source}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (n nodeImpl) Text() string       { return n.source }
func (nodeImpl) isNode()              {}

func (n *nodeImpl) setSpan(span Span)   { n.span = span }
func (n *nodeImpl) setText(text string) { n.source = text }

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier, name), Name: name}
}

// Literals keep the raw source text; the value resolver interprets it.

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker
}

func NewIntegerLiteral(text string) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral, text)}
}

type DoubleLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker
}

func NewDoubleLiteral(text string) *DoubleLiteral {
	return &DoubleLiteral{nodeImpl: newNodeImpl(NodeDoubleLiteral, text)}
}

// StringLiteral text includes the delimiting quotes.
type StringLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker
}

func NewStringLiteral(text string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral, text)}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker
}

func NewBooleanLiteral(text string) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral, text)}
}

type NullLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker
}

func NewNullLiteral() *NullLiteral {
	return &NullLiteral{nodeImpl: newNodeImpl(NodeNullLiteral, "null")}
}

type ArrayLiteral struct {
	nodeImpl
	expressionMarker

	Elements []Expression `json:"elements"`
}

func NewArrayLiteral(elements []Expression) *ArrayLiteral {
	return &ArrayLiteral{nodeImpl: newNodeImpl(NodeArrayLiteral, "["+joinText(elements, ", ")+"]"), Elements: elements}
}

// Operators

type ParenthesizedExpression struct {
	nodeImpl
	expressionMarker

	Inner Expression `json:"inner"`
}

func NewParenthesizedExpression(inner Expression) *ParenthesizedExpression {
	return &ParenthesizedExpression{nodeImpl: newNodeImpl(NodeParenthesizedExpression, "("+textOf(inner)+")"), Inner: inner}
}

// AdditiveExpression covers + and -.
type AdditiveExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewAdditiveExpression(operator string, left, right Expression) *AdditiveExpression {
	return &AdditiveExpression{nodeImpl: newNodeImpl(NodeAdditiveExpression, binaryText(operator, left, right)), Operator: operator, Left: left, Right: right}
}

// MultiplicativeExpression covers *, / and %.
type MultiplicativeExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewMultiplicativeExpression(operator string, left, right Expression) *MultiplicativeExpression {
	return &MultiplicativeExpression{nodeImpl: newNodeImpl(NodeMultiplicativeExpression, binaryText(operator, left, right)), Operator: operator, Left: left, Right: right}
}

type RelationalExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewRelationalExpression(operator string, left, right Expression) *RelationalExpression {
	return &RelationalExpression{nodeImpl: newNodeImpl(NodeRelationalExpression, binaryText(operator, left, right)), Operator: operator, Left: left, Right: right}
}

type AndExpression struct {
	nodeImpl
	expressionMarker

	Left  Expression `json:"left"`
	Right Expression `json:"right"`
}

func NewAndExpression(left, right Expression) *AndExpression {
	return &AndExpression{nodeImpl: newNodeImpl(NodeAndExpression, binaryText("and", left, right)), Left: left, Right: right}
}

type OrExpression struct {
	nodeImpl
	expressionMarker

	Left  Expression `json:"left"`
	Right Expression `json:"right"`
}

func NewOrExpression(left, right Expression) *OrExpression {
	return &OrExpression{nodeImpl: newNodeImpl(NodeOrExpression, binaryText("or", left, right)), Left: left, Right: right}
}

type NotExpression struct {
	nodeImpl
	expressionMarker

	Operand Expression `json:"operand"`
}

func NewNotExpression(operand Expression) *NotExpression {
	return &NotExpression{nodeImpl: newNodeImpl(NodeNotExpression, "not "+textOf(operand)), Operand: operand}
}

// PostfixUnaryExpression is x++ or x--.
type PostfixUnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Operand  Expression `json:"operand"`
}

func NewPostfixUnaryExpression(operator string, operand Expression) *PostfixUnaryExpression {
	return &PostfixUnaryExpression{nodeImpl: newNodeImpl(NodePostfixUnaryExpression, textOf(operand)+operator), Operator: operator, Operand: operand}
}

type IndexerExpression struct {
	nodeImpl
	expressionMarker

	Instance Expression `json:"instance"`
	Index    Expression `json:"index"`
}

func NewIndexerExpression(instance, index Expression) *IndexerExpression {
	return &IndexerExpression{nodeImpl: newNodeImpl(NodeIndexerExpression, textOf(instance)+"["+textOf(index)+"]"), Instance: instance, Index: index}
}

type MemberFieldExpression struct {
	nodeImpl
	expressionMarker

	Instance Expression `json:"instance"`
	Member   string     `json:"member"`
}

func NewMemberFieldExpression(instance Expression, member string) *MemberFieldExpression {
	return &MemberFieldExpression{nodeImpl: newNodeImpl(NodeMemberFieldExpression, textOf(instance)+"."+member), Instance: instance, Member: member}
}

type FunctionCall struct {
	nodeImpl
	expressionMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee Expression, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall, textOf(callee)+"("+joinText(args, ", ")+")"), Callee: callee, Arguments: args}
}

// CalleeName returns the bare function name, if the callee is an identifier.
func (c *FunctionCall) CalleeName() (string, bool) {
	if id, ok := c.Callee.(*Identifier); ok && id != nil {
		return id.Name, true
	}
	return "", false
}

func textOf(n Node) string {
	if n == nil {
		return ""
	}
	return n.Text()
}

func binaryText(operator string, left, right Expression) string {
	return textOf(left) + " " + operator + " " + textOf(right)
}

func joinText(exprs []Expression, sep string) string {
	parts := make([]string, 0, len(exprs))
	for _, expr := range exprs {
		parts = append(parts, textOf(expr))
	}
	return strings.Join(parts, sep)
}
