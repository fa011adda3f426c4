package ast

import "strings"

// Script is the root of a parsed script.
type Script struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewScript(body []Statement) *Script {
	return &Script{nodeImpl: newNodeImpl(NodeScript, statementsText(body)), Body: body}
}

type CodeBlock struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewCodeBlock(body []Statement) *CodeBlock {
	return &CodeBlock{nodeImpl: newNodeImpl(NodeCodeBlock, "{ "+statementsText(body)+" }"), Body: body}
}

// Assignment target is either an Identifier or a MemberFieldExpression.
type Assignment struct {
	nodeImpl
	statementMarker

	Target Expression `json:"target"`
	Value  Expression `json:"value"`
}

func NewAssignment(target, value Expression) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment, textOf(target)+" = "+textOf(value)), Target: target, Value: value}
}

// ScriptAssignment binds a deferred script body: x => { ... }.
type ScriptAssignment struct {
	nodeImpl
	statementMarker

	Target Expression `json:"target"`
	Body   *CodeBlock `json:"body"`
}

func NewScriptAssignment(target Expression, body *CodeBlock) *ScriptAssignment {
	text := textOf(target) + " => "
	if body != nil {
		text += body.Text()
	}
	return &ScriptAssignment{nodeImpl: newNodeImpl(NodeScriptAssignment, text), Target: target, Body: body}
}

type ElseIfClause struct {
	nodeImpl

	Condition Expression `json:"condition"`
	Body      Statement  `json:"body"`
}

func NewElseIfClause(condition Expression, body Statement) *ElseIfClause {
	return &ElseIfClause{nodeImpl: newNodeImpl(NodeElseIfClause, "elseif ("+textOf(condition)+")"), Condition: condition, Body: body}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression      `json:"condition"`
	Then      Statement       `json:"then"`
	ElseIfs   []*ElseIfClause `json:"elseIfs,omitempty"`
	Else      Statement       `json:"else,omitempty"`
}

func NewIfStatement(condition Expression, then Statement, elseIfs []*ElseIfClause, elseBody Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement, "if ("+textOf(condition)+")"), Condition: condition, Then: then, ElseIfs: elseIfs, Else: elseBody}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      Statement  `json:"body"`
}

func NewWhileStatement(condition Expression, body Statement) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement, "while ("+textOf(condition)+")"), Condition: condition, Body: body}
}

type ForStatement struct {
	nodeImpl
	statementMarker

	Variable *Identifier `json:"variable"`
	Start    Expression  `json:"start"`
	End      Expression  `json:"end"`
	Body     Statement   `json:"body"`
}

func NewForStatement(variable *Identifier, start, end Expression, body Statement) *ForStatement {
	text := "for (" + identifierText(variable) + ", " + textOf(start) + ", " + textOf(end) + ")"
	return &ForStatement{nodeImpl: newNodeImpl(NodeForStatement, text), Variable: variable, Start: start, End: end, Body: body}
}

type ForEachStatement struct {
	nodeImpl
	statementMarker

	Variable   *Identifier `json:"variable"`
	Collection Expression  `json:"collection"`
	Body       Statement   `json:"body"`
}

func NewForEachStatement(variable *Identifier, collection Expression, body Statement) *ForEachStatement {
	text := "foreach (" + identifierText(variable) + ", " + textOf(collection) + ")"
	return &ForEachStatement{nodeImpl: newNodeImpl(NodeForEachStatement, text), Variable: variable, Collection: collection, Body: body}
}

type SwitchCase struct {
	nodeImpl

	Label Expression `json:"label"`
	Body  Statement  `json:"body"`
}

func NewSwitchCase(label Expression, body Statement) *SwitchCase {
	return &SwitchCase{nodeImpl: newNodeImpl(NodeSwitchCase, "case ("+textOf(label)+")"), Label: label, Body: body}
}

type SwitchStatement struct {
	nodeImpl
	statementMarker

	Subject Expression    `json:"subject"`
	Cases   []*SwitchCase `json:"cases"`
	Default Statement     `json:"default,omitempty"`
}

func NewSwitchStatement(subject Expression, cases []*SwitchCase, defaultBody Statement) *SwitchStatement {
	return &SwitchStatement{nodeImpl: newNodeImpl(NodeSwitchStatement, "switch ("+textOf(subject)+")"), Subject: subject, Cases: cases, Default: defaultBody}
}

// ExpressionStatement is a bare call or increment used as a statement.
type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement, textOf(expr)), Expression: expr}
}

func statementsText(body []Statement) string {
	parts := make([]string, 0, len(body))
	for _, stmt := range body {
		parts = append(parts, textOf(stmt))
	}
	return strings.Join(parts, "; ")
}

func identifierText(id *Identifier) string {
	if id == nil {
		return ""
	}
	return id.Name
}
