package ast

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeScript reads a syntax tree serialized by the parser front end. Each
// node is a mapping with a "type" field naming its NodeType; optional "text",
// "line", "column", "endLine" and "endColumn" fields carry source metadata.
// JSON input is accepted as well since it is valid YAML.
func DecodeScript(data []byte) (*Script, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("ast: decode: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("ast: decode: empty document")
	}
	node, err := decodeNode(doc.Content[0])
	if err != nil {
		return nil, err
	}
	script, ok := node.(*Script)
	if !ok {
		return nil, fmt.Errorf("ast: decode: root node is %s, expected %s", node.NodeType(), NodeScript)
	}
	return script, nil
}

type fieldSet struct {
	node   *yaml.Node
	fields map[string]*yaml.Node
}

func mappingFields(n *yaml.Node) (*fieldSet, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("ast: line %d: expected a mapping node", n.Line)
	}
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		fields[n.Content[i].Value] = n.Content[i+1]
	}
	return &fieldSet{node: n, fields: fields}, nil
}

func (f *fieldSet) optional(key string) *yaml.Node {
	value, ok := f.fields[key]
	if !ok || value == nil {
		return nil
	}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		return nil
	}
	return value
}

func (f *fieldSet) required(key string) (*yaml.Node, error) {
	value := f.optional(key)
	if value == nil {
		return nil, fmt.Errorf("ast: line %d: missing field %q", f.node.Line, key)
	}
	return value, nil
}

func (f *fieldSet) scalar(key string) (string, error) {
	value, err := f.required(key)
	if err != nil {
		return "", err
	}
	if value.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("ast: line %d: field %q must be a scalar", value.Line, key)
	}
	return value.Value, nil
}

func (f *fieldSet) integer(key string) (int, error) {
	value := f.optional(key)
	if value == nil {
		return 0, nil
	}
	var out int
	if err := value.Decode(&out); err != nil {
		return 0, fmt.Errorf("ast: line %d: field %q: %w", value.Line, key, err)
	}
	return out, nil
}

func (f *fieldSet) expression(key string) (Expression, error) {
	value, err := f.required(key)
	if err != nil {
		return nil, err
	}
	return decodeExpression(value)
}

func (f *fieldSet) statement(key string) (Statement, error) {
	value, err := f.required(key)
	if err != nil {
		return nil, err
	}
	return decodeStatement(value)
}

func (f *fieldSet) optionalStatement(key string) (Statement, error) {
	value := f.optional(key)
	if value == nil {
		return nil, nil
	}
	return decodeStatement(value)
}

func (f *fieldSet) expressions(key string) ([]Expression, error) {
	value := f.optional(key)
	if value == nil {
		return nil, nil
	}
	if value.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("ast: line %d: field %q must be a sequence", value.Line, key)
	}
	out := make([]Expression, 0, len(value.Content))
	for _, item := range value.Content {
		expr, err := decodeExpression(item)
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

func (f *fieldSet) statements(key string) ([]Statement, error) {
	value := f.optional(key)
	if value == nil {
		return nil, nil
	}
	if value.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("ast: line %d: field %q must be a sequence", value.Line, key)
	}
	out := make([]Statement, 0, len(value.Content))
	for _, item := range value.Content {
		stmt, err := decodeStatement(item)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func (f *fieldSet) identifier(key string) (*Identifier, error) {
	expr, err := f.expression(key)
	if err != nil {
		return nil, err
	}
	id, ok := expr.(*Identifier)
	if !ok {
		return nil, fmt.Errorf("ast: line %d: field %q must be an Identifier", f.node.Line, key)
	}
	return id, nil
}

func decodeExpression(n *yaml.Node) (Expression, error) {
	node, err := decodeNode(n)
	if err != nil {
		return nil, err
	}
	expr, ok := node.(Expression)
	if !ok {
		return nil, fmt.Errorf("ast: line %d: %s is not an expression", n.Line, node.NodeType())
	}
	return expr, nil
}

func decodeStatement(n *yaml.Node) (Statement, error) {
	node, err := decodeNode(n)
	if err != nil {
		return nil, err
	}
	stmt, ok := node.(Statement)
	if !ok {
		return nil, fmt.Errorf("ast: line %d: %s is not a statement", n.Line, node.NodeType())
	}
	return stmt, nil
}

func decodeNode(n *yaml.Node) (Node, error) {
	f, err := mappingFields(n)
	if err != nil {
		return nil, err
	}
	typ, err := f.scalar("type")
	if err != nil {
		return nil, err
	}
	node, err := decodeByType(NodeType(typ), f)
	if err != nil {
		return nil, err
	}
	if text := f.optional("text"); text != nil && text.Kind == yaml.ScalarNode {
		SetText(node, text.Value)
	}
	if err := decodeSpan(node, f); err != nil {
		return nil, err
	}
	return node, nil
}

func decodeSpan(node Node, f *fieldSet) error {
	line, err := f.integer("line")
	if err != nil {
		return err
	}
	column, err := f.integer("column")
	if err != nil {
		return err
	}
	endLine, err := f.integer("endLine")
	if err != nil {
		return err
	}
	endColumn, err := f.integer("endColumn")
	if err != nil {
		return err
	}
	if line == 0 && column == 0 {
		return nil
	}
	if endLine == 0 {
		endLine, endColumn = line, column
	}
	SetSpan(node, Span{Start: Position{Line: line, Column: column}, End: Position{Line: endLine, Column: endColumn}})
	return nil
}

func literalText(f *fieldSet, quote bool) (string, error) {
	if text := f.optional("text"); text != nil {
		return text.Value, nil
	}
	value, err := f.scalar("value")
	if err != nil {
		return "", err
	}
	if quote {
		return Str(value).Text(), nil
	}
	return value, nil
}

func decodeByType(typ NodeType, f *fieldSet) (Node, error) {
	switch typ {
	case NodeScript:
		body, err := f.statements("body")
		if err != nil {
			return nil, err
		}
		return NewScript(body), nil
	case NodeCodeBlock:
		body, err := f.statements("body")
		if err != nil {
			return nil, err
		}
		return NewCodeBlock(body), nil
	case NodeAssignment:
		target, err := f.expression("target")
		if err != nil {
			return nil, err
		}
		value, err := f.expression("value")
		if err != nil {
			return nil, err
		}
		return NewAssignment(target, value), nil
	case NodeScriptAssignment:
		target, err := f.expression("target")
		if err != nil {
			return nil, err
		}
		body, err := f.statement("body")
		if err != nil {
			return nil, err
		}
		block, ok := body.(*CodeBlock)
		if !ok {
			block = NewCodeBlock([]Statement{body})
		}
		return NewScriptAssignment(target, block), nil
	case NodeIfStatement:
		return decodeIf(f)
	case NodeWhileStatement:
		condition, err := f.expression("condition")
		if err != nil {
			return nil, err
		}
		body, err := f.statement("body")
		if err != nil {
			return nil, err
		}
		return NewWhileStatement(condition, body), nil
	case NodeForStatement:
		variable, err := f.identifier("variable")
		if err != nil {
			return nil, err
		}
		start, err := f.expression("start")
		if err != nil {
			return nil, err
		}
		end, err := f.expression("end")
		if err != nil {
			return nil, err
		}
		body, err := f.statement("body")
		if err != nil {
			return nil, err
		}
		return NewForStatement(variable, start, end, body), nil
	case NodeForEachStatement:
		variable, err := f.identifier("variable")
		if err != nil {
			return nil, err
		}
		collection, err := f.expression("collection")
		if err != nil {
			return nil, err
		}
		body, err := f.statement("body")
		if err != nil {
			return nil, err
		}
		return NewForEachStatement(variable, collection, body), nil
	case NodeSwitchStatement:
		return decodeSwitch(f)
	case NodeExpressionStatement:
		expr, err := f.expression("expression")
		if err != nil {
			return nil, err
		}
		return NewExpressionStatement(expr), nil
	case NodeIdentifier:
		name, err := f.scalar("name")
		if err != nil {
			return nil, err
		}
		return NewIdentifier(name), nil
	case NodeIntegerLiteral:
		text, err := literalText(f, false)
		if err != nil {
			return nil, err
		}
		return NewIntegerLiteral(text), nil
	case NodeDoubleLiteral:
		text, err := literalText(f, false)
		if err != nil {
			return nil, err
		}
		return NewDoubleLiteral(text), nil
	case NodeStringLiteral:
		text, err := literalText(f, true)
		if err != nil {
			return nil, err
		}
		return NewStringLiteral(text), nil
	case NodeBooleanLiteral:
		text, err := literalText(f, false)
		if err != nil {
			return nil, err
		}
		return NewBooleanLiteral(text), nil
	case NodeNullLiteral:
		return NewNullLiteral(), nil
	case NodeArrayLiteral:
		elements, err := f.expressions("elements")
		if err != nil {
			return nil, err
		}
		return NewArrayLiteral(elements), nil
	case NodeParenthesizedExpression:
		inner, err := f.expression("inner")
		if err != nil {
			return nil, err
		}
		return NewParenthesizedExpression(inner), nil
	case NodeAdditiveExpression, NodeMultiplicativeExpression, NodeRelationalExpression:
		operator, err := f.scalar("operator")
		if err != nil {
			return nil, err
		}
		left, err := f.expression("left")
		if err != nil {
			return nil, err
		}
		right, err := f.expression("right")
		if err != nil {
			return nil, err
		}
		switch typ {
		case NodeAdditiveExpression:
			return NewAdditiveExpression(operator, left, right), nil
		case NodeMultiplicativeExpression:
			return NewMultiplicativeExpression(operator, left, right), nil
		default:
			return NewRelationalExpression(operator, left, right), nil
		}
	case NodeAndExpression, NodeOrExpression:
		left, err := f.expression("left")
		if err != nil {
			return nil, err
		}
		right, err := f.expression("right")
		if err != nil {
			return nil, err
		}
		if typ == NodeAndExpression {
			return NewAndExpression(left, right), nil
		}
		return NewOrExpression(left, right), nil
	case NodeNotExpression:
		operand, err := f.expression("operand")
		if err != nil {
			return nil, err
		}
		return NewNotExpression(operand), nil
	case NodePostfixUnaryExpression:
		operator, err := f.scalar("operator")
		if err != nil {
			return nil, err
		}
		operand, err := f.expression("operand")
		if err != nil {
			return nil, err
		}
		return NewPostfixUnaryExpression(operator, operand), nil
	case NodeIndexerExpression:
		instance, err := f.expression("instance")
		if err != nil {
			return nil, err
		}
		index, err := f.expression("index")
		if err != nil {
			return nil, err
		}
		return NewIndexerExpression(instance, index), nil
	case NodeMemberFieldExpression:
		instance, err := f.expression("instance")
		if err != nil {
			return nil, err
		}
		member, err := f.scalar("member")
		if err != nil {
			return nil, err
		}
		return NewMemberFieldExpression(instance, member), nil
	case NodeFunctionCall:
		callee, err := f.expression("callee")
		if err != nil {
			return nil, err
		}
		args, err := f.expressions("arguments")
		if err != nil {
			return nil, err
		}
		return NewFunctionCall(callee, args), nil
	default:
		return nil, fmt.Errorf("ast: line %d: unsupported node type %q", f.node.Line, typ)
	}
}

func decodeIf(f *fieldSet) (Node, error) {
	condition, err := f.expression("condition")
	if err != nil {
		return nil, err
	}
	then, err := f.statement("then")
	if err != nil {
		return nil, err
	}
	var clauses []*ElseIfClause
	if raw := f.optional("elseIfs"); raw != nil {
		if raw.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("ast: line %d: field %q must be a sequence", raw.Line, "elseIfs")
		}
		for _, item := range raw.Content {
			cf, err := mappingFields(item)
			if err != nil {
				return nil, err
			}
			cond, err := cf.expression("condition")
			if err != nil {
				return nil, err
			}
			body, err := cf.statement("body")
			if err != nil {
				return nil, err
			}
			clause := NewElseIfClause(cond, body)
			if err := decodeSpan(clause, cf); err != nil {
				return nil, err
			}
			clauses = append(clauses, clause)
		}
	}
	elseBody, err := f.optionalStatement("else")
	if err != nil {
		return nil, err
	}
	return NewIfStatement(condition, then, clauses, elseBody), nil
}

func decodeSwitch(f *fieldSet) (Node, error) {
	subject, err := f.expression("subject")
	if err != nil {
		return nil, err
	}
	var cases []*SwitchCase
	if raw := f.optional("cases"); raw != nil {
		if raw.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("ast: line %d: field %q must be a sequence", raw.Line, "cases")
		}
		for _, item := range raw.Content {
			cf, err := mappingFields(item)
			if err != nil {
				return nil, err
			}
			label, err := cf.expression("label")
			if err != nil {
				return nil, err
			}
			body, err := cf.statement("body")
			if err != nil {
				return nil, err
			}
			c := NewSwitchCase(label, body)
			if err := decodeSpan(c, cf); err != nil {
				return nil, err
			}
			cases = append(cases, c)
		}
	}
	defaultBody, err := f.optionalStatement("default")
	if err != nil {
		return nil, err
	}
	return NewSwitchStatement(subject, cases, defaultBody), nil
}
