package typechecker

import (
	"fmt"
	"io"

	"questscript/interpreter-go/pkg/ast"
	"questscript/interpreter-go/pkg/runtime"
)

// Options configures a Session.
type Options struct {
	// Catalog supplies game functions and objects; nil means none.
	Catalog *Catalog
	// StrictFunctions reports calls to functions missing from Catalog.
	StrictFunctions bool
	// Trace receives one line per scope change and declaration.
	Trace io.Writer
}

// Session analyses one script at a time. It owns the scope tree, the
// statement index and the diagnostics shared by the scope builder, the type
// inference engine and the value resolver. A Session is not safe for
// concurrent use.
type Session struct {
	opts Options

	root    *Environment
	current *Environment
	index   map[ast.Statement]*Environment
	owners  map[ast.Expression]ast.Statement
	infer   InferenceMap

	diagnostics []Diagnostic
	reported    map[diagnosticKey]struct{}
	depth       int
}

// Result is the output of Analyze.
type Result struct {
	Root  *Environment
	Index map[ast.Statement]*Environment
	// Diagnostics is a snapshot taken when Analyze returns. Forcing a
	// variable's value afterwards can record more (a division by a computed
	// zero, for example); Session.Diagnostics always has the full list.
	Diagnostics []Diagnostic
}

// InferenceMap memoizes inferred types per expression node.
type InferenceMap map[ast.Expression]ObjectType

func (m InferenceMap) get(expr ast.Expression) (ObjectType, bool) {
	typ, ok := m[expr]
	return typ, ok
}

func (m InferenceMap) set(expr ast.Expression, typ ObjectType) {
	m[expr] = typ
}

// New returns a session configured by opts.
func New(opts Options) *Session {
	s := &Session{opts: opts}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.root = nil
	s.current = nil
	s.index = make(map[ast.Statement]*Environment)
	s.owners = make(map[ast.Expression]ast.Statement)
	s.infer = make(InferenceMap)
	s.diagnostics = nil
	s.reported = make(map[diagnosticKey]struct{})
	s.depth = 0
}

// Analyze builds the scope tree for script and type-checks every statement.
// Script problems are returned as diagnostics; the error is reserved for
// trees the parser should never have produced.
func (s *Session) Analyze(script *ast.Script) (res *Result, err error) {
	if script == nil {
		return nil, fmt.Errorf("typechecker: script is nil")
	}
	s.reset()
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *ContractError:
				err = e
			case *UnsupportedError:
				err = e
			default:
				panic(r)
			}
			res = nil
		}
	}()

	s.root = NewEnvironment(nil, script)
	s.current = s.root
	for _, stmt := range script.Body {
		s.visitStatement(stmt)
	}
	return &Result{Root: s.root, Index: s.index, Diagnostics: s.Diagnostics()}, nil
}

// Diagnostics returns the problems recorded so far, in order.
func (s *Session) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), s.diagnostics...)
}

// Clean reports whether no problems have been recorded.
func (s *Session) Clean() bool {
	return len(s.diagnostics) == 0
}

// Root returns the root scope of the last analysed script.
func (s *Session) Root() *Environment {
	return s.root
}

// ScopeOf returns the scope generation active at stmt.
func (s *Session) ScopeOf(stmt ast.Statement) *Environment {
	return s.index[stmt]
}

// ResolveVariable looks name up from the generation active at stmt.
func (s *Session) ResolveVariable(name string, stmt ast.Statement) *Variable {
	env := s.index[stmt]
	if env == nil {
		return nil
	}
	return env.Lookup(name)
}

// Variables lists every declared variable, deduplicated by name and type.
func (s *Session) Variables() []*Variable {
	if s.root == nil {
		return nil
	}
	return s.root.Variables()
}

// ResolveValue returns a deferred value for expr.
func (s *Session) ResolveValue(expr ast.Expression) *runtime.Thunk {
	if expr == nil {
		s.violation(nil, "cannot resolve a nil expression")
	}
	return s.resolve(expr)
}

// scopeFor finds the generation in which expr is evaluated.
func (s *Session) scopeFor(expr ast.Expression) *Environment {
	if stmt, ok := s.owners[expr]; ok {
		if env := s.index[stmt]; env != nil {
			return env
		}
	}
	return s.current
}

func (s *Session) lookup(expr ast.Expression, name string) *Variable {
	env := s.scopeFor(expr)
	if env == nil {
		return nil
	}
	return env.Lookup(name)
}

func (s *Session) tracef(format string, args ...any) {
	if s.opts.Trace == nil {
		return
	}
	fmt.Fprintf(s.opts.Trace, "%*s", s.depth*2, "")
	fmt.Fprintf(s.opts.Trace, format, args...)
	fmt.Fprintln(s.opts.Trace)
}
