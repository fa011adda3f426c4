package typechecker

import (
	"questscript/interpreter-go/pkg/ast"
	"questscript/interpreter-go/pkg/runtime"
)

func (s *Session) visitStatement(stmt ast.Statement) {
	if stmt == nil {
		s.violation(nil, "missing statement")
	}
	s.current.record(stmt)
	s.index[stmt] = s.current
	s.claim(stmt)

	switch st := stmt.(type) {
	case *ast.CodeBlock:
		s.visitBlock(st)
	case *ast.Assignment:
		s.visitAssignment(st)
	case *ast.ScriptAssignment:
		s.visitScriptAssignment(st)
	case *ast.IfStatement:
		s.visitIf(st)
	case *ast.WhileStatement:
		s.visitWhile(st)
	case *ast.ForStatement:
		s.visitFor(st)
	case *ast.ForEachStatement:
		s.visitForEach(st)
	case *ast.SwitchStatement:
		s.visitSwitch(st)
	case *ast.ExpressionStatement:
		s.checkIdentifiers(st.Expression)
		s.InferType(st.Expression)
	default:
		s.violation(stmt, "unsupported statement")
	}
}

// claim records stmt as the owner of every expression in its header, so
// expressions can later be evaluated in the generation active at stmt.
func (s *Session) claim(stmt ast.Statement) {
	for _, expr := range ast.HeaderExpressions(stmt) {
		if expr == nil {
			s.violation(stmt, "missing expression")
		}
		ast.Inspect(expr, func(e ast.Expression) bool {
			if _, owned := s.owners[e]; !owned {
				s.owners[e] = stmt
			}
			return true
		})
	}
}

func (s *Session) pushScope(owner ast.Node) {
	s.current = s.current.Extend(owner)
	s.tracef("push %s", owner.NodeType())
	s.depth++
}

func (s *Session) popScope() {
	s.depth--
	s.tracef("pop %s", s.current.Owner().NodeType())
	s.current = s.current.parent
}

func (s *Session) declare(v *Variable) {
	s.current = s.current.Declare(v)
	s.tracef("declare %s: %s", v.Name, v.Type)
}

func (s *Session) visitBlock(block *ast.CodeBlock) {
	if block == nil {
		s.violation(nil, "missing code block")
	}
	s.pushScope(block)
	for _, stmt := range block.Body {
		s.visitStatement(stmt)
	}
	s.popScope()
}

func (s *Session) visitAssignment(st *ast.Assignment) {
	name, ok := bareName(st.Target)
	if !ok {
		s.visitPathTarget(st, st.Target)
		s.checkIdentifiers(st.Value)
		s.InferType(st.Value)
		return
	}

	s.checkIdentifiers(st.Value)
	valueType := s.InferType(st.Value)
	existing := s.current.Lookup(name)
	if existing == nil {
		s.declare(&Variable{Name: name, Type: valueType, Value: s.resolve(st.Value), Source: st})
		return
	}
	if !isUnknownType(existing.Type, valueType) && !Compatible(existing.Type, valueType) {
		s.reportUnexpected(st.Value, existing.Type, valueType)
		return
	}
	if existing.IsIterationVariable || existing.IsEnumerationVariable {
		return
	}
	existing.Value = s.resolve(st.Value)
	s.tracef("reassign %s", name)
}

func (s *Session) visitScriptAssignment(st *ast.ScriptAssignment) {
	if st.Body == nil {
		s.violation(st, "script assignment without a body")
	}
	s.visitStatement(st.Body)

	name, ok := bareName(st.Target)
	if !ok {
		s.visitPathTarget(st, st.Target)
		return
	}
	value := runtime.Ready(runtime.ScriptValue{Body: st.Body})
	existing := s.current.Lookup(name)
	if existing == nil {
		s.declare(&Variable{Name: name, Type: Script, Value: value, Source: st})
		return
	}
	if existing.Type != Script && existing.Type != Unknown {
		s.reportUnexpected(st.Target, existing.Type, Script)
		return
	}
	existing.Value = value
}

// visitPathTarget checks an assignment target that is not a bare name: a
// member field or a list element. These targets never declare a variable.
func (s *Session) visitPathTarget(owner ast.Statement, target ast.Expression) {
	switch t := target.(type) {
	case *ast.MemberFieldExpression:
		s.checkIdentifiers(t.Instance)
	case *ast.IndexerExpression:
		s.checkIdentifiers(t)
		s.InferType(t)
	default:
		s.violation(owner, "assignment target must be an identifier, a member or an element")
	}
}

func (s *Session) visitIf(st *ast.IfStatement) {
	if st.Then == nil {
		s.violation(st, "if statement without a body")
	}
	s.checkCondition("if", st.Condition)
	s.visitStatement(st.Then)
	for _, clause := range st.ElseIfs {
		if clause == nil || clause.Body == nil {
			s.violation(st, "malformed elseif clause")
		}
		s.checkCondition("elseif", clause.Condition)
		s.visitStatement(clause.Body)
	}
	if st.Else != nil {
		s.visitStatement(st.Else)
	}
}

func (s *Session) checkCondition(statement string, cond ast.Expression) {
	s.checkIdentifiers(cond)
	typ := s.InferType(cond)
	if typ != Boolean && typ != Unknown {
		s.reportCondition(statement, cond, typ)
	}
}

func (s *Session) visitWhile(st *ast.WhileStatement) {
	if st.Body == nil {
		s.violation(st, "while statement without a body")
	}
	s.checkIdentifiers(st.Condition)
	s.InferType(st.Condition)
	if _, isBlock := st.Body.(*ast.CodeBlock); isBlock {
		s.visitStatement(st.Body)
		return
	}
	s.pushScope(st)
	s.visitStatement(st.Body)
	s.popScope()
}

func (s *Session) visitFor(st *ast.ForStatement) {
	if st.Variable == nil || st.Body == nil {
		s.violation(st, "malformed for statement")
	}
	s.checkIdentifiers(st.Start)
	s.checkIdentifiers(st.End)
	s.requireNumeric(st.Start)
	s.requireNumeric(st.End)

	s.pushScope(st)
	if s.current.IsDefined(st.Variable.Name) {
		s.reportConflict(st.Variable)
	} else {
		start := s.resolve(st.Start)
		seed := runtime.Defer(func() runtime.Value {
			f, ok := runtime.ToFloat(start.Force())
			if !ok {
				return runtime.NullValue{}
			}
			return castNumber(f, Integer)
		})
		s.declare(&Variable{Name: st.Variable.Name, Type: Integer, Value: seed, IsIterationVariable: true, Source: st})
	}
	s.visitStatement(st.Body)
	s.popScope()
}

func (s *Session) requireNumeric(expr ast.Expression) {
	typ := s.InferType(expr)
	if !typ.IsNumeric() && typ != Unknown {
		s.reportUnexpected(expr, Integer, typ)
	}
}

func (s *Session) visitForEach(st *ast.ForEachStatement) {
	if st.Variable == nil || st.Body == nil {
		s.violation(st, "malformed foreach statement")
	}
	s.checkIdentifiers(st.Collection)
	collectionType := s.InferType(st.Collection)
	if collectionType != List && collectionType != Unknown {
		s.reportUnexpected(st.Collection, List, collectionType)
	}

	s.pushScope(st)
	if s.current.IsDefined(st.Variable.Name) {
		s.reportConflict(st.Variable)
	} else {
		elementType, element := Unknown, runtime.Ready(runtime.NullValue{})
		if collectionType == List {
			elementType, element = s.firstElement(st.Collection)
		}
		s.declare(&Variable{Name: st.Variable.Name, Type: elementType, Value: element, IsEnumerationVariable: true, Source: st})
	}
	s.visitStatement(st.Body)
	s.popScope()
}

// firstElement resolves a list-valued expression and reports the type and
// value of its first element.
func (s *Session) firstElement(expr ast.Expression) (ObjectType, *runtime.Thunk) {
	list, ok := s.resolve(expr).Force().(*runtime.ListValue)
	if !ok {
		return Unknown, runtime.Ready(runtime.NullValue{})
	}
	first, ok := list.At(0)
	if !ok {
		return Unknown, runtime.Ready(runtime.NullValue{})
	}
	first = runtime.Force(first)
	return TypeOfValue(first), runtime.Ready(first)
}

func (s *Session) visitSwitch(st *ast.SwitchStatement) {
	s.checkIdentifiers(st.Subject)
	subjectType := s.InferType(st.Subject)

	var labels []runtime.Value
	for _, c := range st.Cases {
		if c == nil || c.Label == nil || c.Body == nil {
			s.violation(st, "malformed switch case")
		}
		s.checkIdentifiers(c.Label)
		labelType := s.InferType(c.Label)
		if !isUnknownType(subjectType, labelType) && labelType != subjectType && !CanConvert(labelType, subjectType) {
			s.reportUnexpected(c.Label, subjectType, labelType)
		}
		value := s.resolve(c.Label).Force()
		if runtime.IsNull(value) {
			continue
		}
		for _, prior := range labels {
			if runtime.Equal(prior, value) {
				s.report(DuplicateCaseLabel, c.Label, "case label '%s' duplicates an earlier case", textOf(c.Label))
				break
			}
		}
		labels = append(labels, value)
	}
	for _, c := range st.Cases {
		s.visitStatement(c.Body)
	}
	if st.Default != nil {
		s.visitStatement(st.Default)
	}
}

// checkIdentifiers reports identifiers in value positions that are not
// visible from the current generation, along with unknown functions and
// members of catalog objects.
func (s *Session) checkIdentifiers(expr ast.Expression) {
	ast.Inspect(expr, func(e ast.Expression) bool {
		switch node := e.(type) {
		case *ast.Identifier:
			s.checkIdentifier(node)
		case *ast.FunctionCall:
			s.checkCall(node)
			if _, named := node.CalleeName(); !named {
				s.checkIdentifiers(node.Callee)
			}
			for _, arg := range node.Arguments {
				s.checkIdentifiers(arg)
			}
			return false
		case *ast.MemberFieldExpression:
			s.checkMember(node)
		}
		return true
	})
}

func (s *Session) checkIdentifier(id *ast.Identifier) {
	if s.current.IsDefined(id.Name) {
		return
	}
	if _, ok := s.opts.Catalog.Object(id.Name); ok {
		return
	}
	s.reportUnresolved(id)
}

func (s *Session) checkCall(call *ast.FunctionCall) {
	name, ok := call.CalleeName()
	if !ok || !s.opts.StrictFunctions || s.opts.Catalog == nil {
		return
	}
	if _, ok := s.opts.Catalog.Function(name); ok {
		return
	}
	s.report(UndefinedFunction, call, "function '%s' is not defined", name)
}

func (s *Session) checkMember(member *ast.MemberFieldExpression) {
	object, ok := s.catalogObject(member.Instance)
	if !ok {
		return
	}
	if _, ok := object.Attributes[member.Member]; ok {
		return
	}
	s.report(UndefinedMember, member, "object '%s' has no attribute '%s'", object.Name, member.Member)
}

// catalogObject reports the catalog object named by expr, unless a variable
// of the same name shadows it.
func (s *Session) catalogObject(expr ast.Expression) (ObjectInfo, bool) {
	id, ok := unwrapParens(expr).(*ast.Identifier)
	if !ok {
		return ObjectInfo{}, false
	}
	if s.lookup(id, id.Name) != nil {
		return ObjectInfo{}, false
	}
	return s.opts.Catalog.Object(id.Name)
}
