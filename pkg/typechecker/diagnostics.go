package typechecker

import (
	"fmt"

	"questscript/interpreter-go/pkg/ast"
)

// DiagnosticKind classifies a script problem found during analysis.
type DiagnosticKind string

const (
	UnresolvedVariable   DiagnosticKind = "UnresolvedVariableException"
	ConflictingVariable  DiagnosticKind = "ConflictingVariableName"
	UnexpectedType       DiagnosticKind = "UnexpectedTypeException"
	InvalidOperands      DiagnosticKind = "InvalidOperandsException"
	InvalidCondition     DiagnosticKind = "InvalidConditionException"
	InvalidArrayLiteral  DiagnosticKind = "InvalidArrayLiteralException"
	FailedToInferType    DiagnosticKind = "FailedToInferTypeException"
	FailedInterpretation DiagnosticKind = "FailedValueInterpretation"
	DivisionByZero       DiagnosticKind = "DivisionByZeroException"
	UndefinedFunction    DiagnosticKind = "UndefinedFunctionException"
	UndefinedMember      DiagnosticKind = "UndefinedMemberException"
	DuplicateCaseLabel   DiagnosticKind = "DuplicateCaseLabelException"
	IndexOutOfRange      DiagnosticKind = "IndexOutOfRangeException"
)

// Diagnostic represents a non-fatal problem in the analysed script.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
	Node    ast.Node
	Span    ast.Span
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Span.Start.Line, d.Span.Start.Column, d.Kind, d.Message)
}

func (d Diagnostic) String() string { return d.Error() }

// ContractError reports a malformed tree that the parser should never produce.
type ContractError struct {
	Node   ast.Node
	Reason string
}

func (e *ContractError) Error() string {
	if e.Node != nil {
		return fmt.Sprintf("typechecker: %s (%s at %s)", e.Reason, e.Node.NodeType(), e.Node.Span())
	}
	return "typechecker: " + e.Reason
}

// UnsupportedError reports a construct the analyser deliberately does not handle.
type UnsupportedError struct {
	Node    ast.Node
	Feature string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("typechecker: %s is not supported: %q", e.Feature, textOf(e.Node))
}

type diagnosticKey struct {
	kind DiagnosticKind
	node ast.Node
}

func textOf(n ast.Node) string {
	if n == nil {
		return ""
	}
	return n.Text()
}

func (s *Session) report(kind DiagnosticKind, node ast.Node, format string, args ...any) {
	key := diagnosticKey{kind: kind, node: node}
	if _, seen := s.reported[key]; seen {
		return
	}
	s.reported[key] = struct{}{}
	diag := Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Node: node}
	if node != nil {
		diag.Span = node.Span()
	}
	s.diagnostics = append(s.diagnostics, diag)
}

func (s *Session) violation(node ast.Node, format string, args ...any) {
	panic(&ContractError{Node: node, Reason: fmt.Sprintf(format, args...)})
}

func (s *Session) reportUnresolved(id *ast.Identifier) {
	s.report(UnresolvedVariable, id, "variable '%s' is used before it is defined", id.Name)
}

func (s *Session) reportConflict(id *ast.Identifier) {
	s.report(ConflictingVariable, id, "loop variable '%s' conflicts with an existing variable", id.Name)
}

func (s *Session) reportUnexpected(node ast.Node, expected, actual ObjectType) {
	s.report(UnexpectedType, node, "expected '%s' to be of type '%s' but it is of type '%s'", textOf(node), expected, actual)
}

func (s *Session) reportOperands(node ast.Node, operator string, left, right ObjectType) {
	s.report(InvalidOperands, node, "operator '%s' cannot be applied to operands of type '%s' and '%s'", operator, left, right)
}

func (s *Session) reportCondition(statement string, condition ast.Expression, actual ObjectType) {
	s.report(InvalidCondition, condition, "%s condition '%s' must be of type 'Boolean' but it is of type '%s'", statement, textOf(condition), actual)
}
