package typechecker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"questscript/interpreter-go/pkg/ast"
	"questscript/interpreter-go/pkg/runtime"
)

func TestInferOperators(t *testing.T) {
	cases := []struct {
		name  string
		expr  ast.Expression
		want  ObjectType
		diags []DiagnosticKind
	}{
		{"integer sum", ast.Add(ast.Int(1), ast.Int(2)), Integer, nil},
		{"double product", ast.Mul(ast.Dbl(1.5), ast.Int(2)), Double, nil},
		{"concatenation", ast.Add(ast.Str("n="), ast.Int(3)), String, nil},
		{"boolean to string", ast.Add(ast.Bool(true), ast.Str("!")), String, nil},
		{"parenthesized", ast.Paren(ast.Sub(ast.Int(4), ast.Dbl(1))), Double, nil},
		{"invalid operands", ast.Add(ast.Bool(true), ast.Arr(ast.Int(1))), Unknown, []DiagnosticKind{InvalidOperands}},
		{"relational", ast.Rel("<=", ast.Int(1), ast.Dbl(2)), Boolean, nil},
		{"relational on strings", ast.Rel("=", ast.Str("a"), ast.Str("b")), Unknown, []DiagnosticKind{InvalidOperands}},
		{"and", ast.And(ast.Bool(true), ast.Rel(">", ast.Int(2), ast.Int(1))), Boolean, nil},
		{"or with integer", ast.Or(ast.Bool(true), ast.Int(1)), Unknown, []DiagnosticKind{InvalidOperands}},
		{"not", ast.Not(ast.Bool(false)), Boolean, nil},
		{"not integer", ast.Not(ast.Int(1)), Unknown, []DiagnosticKind{UnexpectedType}},
		{"increment", ast.Inc(ast.Dbl(1)), Double, nil},
		{"increment string", ast.Dec(ast.Str("a")), Unknown, []DiagnosticKind{UnexpectedType}},
		{"null", ast.Null(), Null, nil},
		{"unknown operand is silent", ast.Add(ast.ID("ghost"), ast.Str("x")), Unknown, []DiagnosticKind{UnresolvedVariable}},
		{"unknown below relational", ast.Rel("<", ast.Not(ast.Int(1)), ast.Int(2)), Unknown, []DiagnosticKind{UnexpectedType}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, res := analyze(t, Options{}, ast.Expr(tc.expr))
			require.Equal(t, tc.want, s.InferType(tc.expr))
			if tc.diags == nil {
				require.Empty(t, res.Diagnostics)
				return
			}
			require.Equal(t, tc.diags, kinds(res.Diagnostics))
		})
	}
}

func TestInferTypeIsMemoized(t *testing.T) {
	expr := ast.Add(ast.Bool(true), ast.Arr())
	s, res := analyze(t, Options{}, ast.Expr(expr))
	require.Len(t, res.Diagnostics, 1)
	for i := 0; i < 3; i++ {
		require.Equal(t, Unknown, s.InferType(expr))
		s.ResolveValue(expr)
	}
	require.Len(t, s.Diagnostics(), 1)
}

func TestInferIndexer(t *testing.T) {
	items := ast.Assign("items", ast.Arr(ast.Str("lamp"), ast.Str("key")))

	t.Run("element type of first item", func(t *testing.T) {
		expr := ast.Index(ast.ID("items"), ast.Int(1))
		s, res := analyze(t, Options{}, items, ast.Expr(ast.Call("f", expr)))
		require.Empty(t, res.Diagnostics)
		require.Equal(t, String, s.InferType(expr))
	})

	t.Run("index must be numeric", func(t *testing.T) {
		expr := ast.Index(ast.ID("items"), ast.Str("0"))
		_, res := analyze(t, Options{}, items, ast.Expr(ast.Call("f", expr)))
		require.Equal(t, []DiagnosticKind{UnexpectedType}, kinds(res.Diagnostics))
		require.Same(t, expr.Index, res.Diagnostics[0].Node)
	})

	t.Run("instance must be a list", func(t *testing.T) {
		expr := ast.Index(ast.Int(3), ast.Int(0))
		_, res := analyze(t, Options{}, ast.Expr(ast.Call("f", expr)))
		require.Equal(t, []DiagnosticKind{UnexpectedType}, kinds(res.Diagnostics))
		require.Same(t, expr.Instance, res.Diagnostics[0].Node)
	})

	t.Run("empty list", func(t *testing.T) {
		expr := ast.Index(ast.ID("none"), ast.Int(0))
		s, res := analyze(t, Options{}, ast.Assign("none", ast.Arr()), ast.Expr(ast.Call("f", expr)))
		require.Empty(t, res.Diagnostics)
		require.Equal(t, Unknown, s.InferType(expr))
	})
}

func gameCatalog() *Catalog {
	cat := NewCatalog()
	cat.AddFunction(FunctionSignature{Name: "GetRandomInt", Parameters: []string{"min", "max"}, ReturnType: Integer})
	cat.AddFunction(FunctionSignature{Name: "msg", Parameters: []string{"text"}, ReturnType: Void})
	cat.AddObject(ObjectInfo{Name: "player", Attributes: map[string]ObjectType{"score": Integer, "alias": String}})
	return cat
}

func TestCatalogFunctions(t *testing.T) {
	roll := ast.Call("GetRandomInt", ast.Int(1), ast.Int(6))
	s, res := analyze(t, Options{Catalog: gameCatalog()},
		ast.Assign("r", roll),
		ast.Expr(ast.Call("msg", ast.Str("hi"))),
		ast.Expr(ast.Call("Teleport", ast.Int(1))),
	)
	require.Empty(t, res.Diagnostics)
	require.Equal(t, Integer, s.InferType(roll))
	require.Equal(t, Integer, latest(res, "r").Type)

	_, res = analyze(t, Options{Catalog: gameCatalog(), StrictFunctions: true},
		ast.Expr(ast.Call("msg", ast.Str("hi"))),
		ast.Expr(ast.Call("Teleport", ast.Int(1))),
	)
	require.Equal(t, []DiagnosticKind{UndefinedFunction}, kinds(res.Diagnostics))

	// Without a catalog there is nothing to check calls against.
	_, res = analyze(t, Options{StrictFunctions: true},
		ast.Expr(ast.Call("msg", ast.Str("hi"))),
	)
	require.Empty(t, res.Diagnostics)
}

func TestCatalogObjects(t *testing.T) {
	score := ast.Member(ast.ID("player"), "score")
	s, res := analyze(t, Options{Catalog: gameCatalog()},
		ast.Assign("s", ast.Add(score, ast.Int(1))),
		ast.Assign("o", ast.ID("player")),
		ast.Expr(ast.Call("f", ast.Member(ast.ID("player"), "health"))),
	)
	require.Equal(t, []DiagnosticKind{UndefinedMember}, kinds(res.Diagnostics))
	require.Equal(t, Integer, s.InferType(score))
	require.Equal(t, Integer, latest(res, "s").Type)
	require.Equal(t, Object, latest(res, "o").Type)
	require.Equal(t, runtime.ObjectValue{Name: "player"}, latest(res, "o").Force())
}
