package typechecker

import (
	"questscript/interpreter-go/pkg/ast"
	"questscript/interpreter-go/pkg/runtime"
)

// Variable is a name bound somewhere in the scope tree.
type Variable struct {
	Name  string
	Type  ObjectType
	Value *runtime.Thunk

	IsIterationVariable   bool
	IsEnumerationVariable bool

	// Source is the node that introduced the variable.
	Source ast.Node
}

// Equal compares variables by name and type only.
func (v *Variable) Equal(other *Variable) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.Name == other.Name && v.Type == other.Type
}

// Force evaluates the variable's current value.
func (v *Variable) Force() runtime.Value {
	if v == nil || v.Value == nil {
		return runtime.NullValue{}
	}
	return v.Value.Force()
}

// Environment is one generation of a lexical scope. Declaring a variable never
// mutates a generation; it links a new next sibling holding everything
// visible so far plus the new variable, so statements recorded against an
// earlier generation do not see later declarations.
type Environment struct {
	parent     *Environment
	children   []*Environment
	locals     []*Variable
	statements []ast.Statement
	prev       *Environment
	next       *Environment
	owner      ast.Node
}

// NewEnvironment creates a scope for owner under parent, registering it as
// one of parent's children.
func NewEnvironment(parent *Environment, owner ast.Node) *Environment {
	env := &Environment{parent: parent, owner: owner}
	if parent != nil {
		parent.children = append(parent.children, env)
	}
	return env
}

func (e *Environment) Parent() *Environment        { return e.parent }
func (e *Environment) Children() []*Environment    { return e.children }
func (e *Environment) LocalVariables() []*Variable { return e.locals }
func (e *Environment) Statements() []ast.Statement { return e.statements }
func (e *Environment) PrevSibling() *Environment   { return e.prev }
func (e *Environment) NextSibling() *Environment   { return e.next }

// Owner returns the construct that opened the scope (script, block or loop).
func (e *Environment) Owner() ast.Node { return e.owner }

// Extend opens a child scope.
func (e *Environment) Extend(owner ast.Node) *Environment {
	return NewEnvironment(e, owner)
}

// Declare returns the generation that follows e with v added. Callers must
// continue with the returned generation.
func (e *Environment) Declare(v *Variable) *Environment {
	if e.next != nil {
		panic(&ContractError{Node: v.Source, Reason: "scope generation already has a successor"})
	}
	next := &Environment{
		parent:   e.parent,
		children: append([]*Environment(nil), e.children...),
		locals:   make([]*Variable, 0, len(e.locals)+1),
		prev:     e,
		owner:    e.owner,
	}
	next.locals = append(next.locals, e.locals...)
	next.locals = append(next.locals, v)
	e.next = next
	return next
}

// Lookup finds name by searching this generation, then earlier generations of
// the same block, then the enclosing scope.
func (e *Environment) Lookup(name string) *Variable {
	for scope := e; scope != nil; scope = scope.parent {
		for gen := scope; gen != nil; gen = gen.prev {
			if v := gen.lookupLocal(name); v != nil {
				return v
			}
		}
	}
	return nil
}

// IsDefined reports whether name is visible from e.
func (e *Environment) IsDefined(name string) bool {
	return e.Lookup(name) != nil
}

func (e *Environment) lookupLocal(name string) *Variable {
	for i := len(e.locals) - 1; i >= 0; i-- {
		if e.locals[i].Name == name {
			return e.locals[i]
		}
	}
	return nil
}

// Latest follows the sibling chain to its newest generation.
func (e *Environment) Latest() *Environment {
	gen := e
	for gen.next != nil {
		gen = gen.next
	}
	return gen
}

func (e *Environment) record(stmt ast.Statement) {
	e.statements = append(e.statements, stmt)
}

// Variables lists every variable declared in the tree rooted at e, breadth
// first, keeping the first of any variables that compare Equal.
func (e *Environment) Variables() []*Variable {
	var out []*Variable
	visited := make(map[*Environment]struct{})
	queue := []*Environment{e}
	for len(queue) > 0 {
		env := queue[0]
		queue = queue[1:]
		for gen := env; gen != nil; gen = gen.next {
			if _, seen := visited[gen]; seen {
				continue
			}
			visited[gen] = struct{}{}
			for _, v := range gen.locals {
				if !containsVariable(out, v) {
					out = append(out, v)
				}
			}
			queue = append(queue, gen.children...)
		}
	}
	return out
}

func containsVariable(list []*Variable, v *Variable) bool {
	for _, existing := range list {
		if existing.Equal(v) {
			return true
		}
	}
	return false
}
