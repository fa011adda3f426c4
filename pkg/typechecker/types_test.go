package typechecker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"questscript/interpreter-go/pkg/ast"
	"questscript/interpreter-go/pkg/runtime"
)

func TestCanConvert(t *testing.T) {
	cases := []struct {
		from, to ObjectType
		want     bool
	}{
		{Integer, Double, true},
		{Double, Integer, true},
		{Integer, String, true},
		{Boolean, String, true},
		{Object, String, true},
		{String, Object, true},
		{String, Integer, false},
		{Boolean, Integer, false},
		{List, String, false},
		{Script, Object, false},
		{Unknown, Integer, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, CanConvert(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
	require.True(t, Compatible(String, Integer))
	require.True(t, Compatible(List, List))
	require.False(t, Compatible(List, String))
}

func TestParseObjectType(t *testing.T) {
	cases := map[string]ObjectType{
		"int":              Integer,
		" Integer ":        Integer,
		"double":           Double,
		"string":           String,
		"boolean":          Boolean,
		"object":           Object,
		"script":           Script,
		"stringlist":       List,
		"objectlist":       List,
		"stringdictionary": Dictionary,
		"void":             Void,
		"":                 Void,
		"null":             Null,
		"delegate":         Delegate,
		"OnEnterRoom":      Delegate,
		"whatever":         Unknown,
	}
	for name, want := range cases {
		require.Equal(t, want, ParseObjectType(name, "onenterroom"), "type name %q", name)
	}
}

func TestTypeOfValue(t *testing.T) {
	require.Equal(t, Integer, TypeOfValue(runtime.IntegerValue{Val: 1}))
	require.Equal(t, Double, TypeOfValue(runtime.Ready(runtime.DoubleValue{Val: 1})))
	require.Equal(t, List, TypeOfValue(runtime.NewList()))
	require.Equal(t, Object, TypeOfValue(runtime.ObjectValue{Name: "lamp"}))
	require.Equal(t, Script, TypeOfValue(runtime.ScriptValue{}))
	require.Equal(t, Null, TypeOfValue(runtime.NullValue{}))
	require.Equal(t, "ObjectType(99)", ObjectType(99).String())
}

func TestEnvironmentGenerations(t *testing.T) {
	root := NewEnvironment(nil, ast.Prog())
	a := &Variable{Name: "a", Type: Integer}
	g1 := root.Declare(a)

	require.Same(t, g1, root.NextSibling())
	require.Same(t, root, g1.PrevSibling())
	require.Nil(t, root.Lookup("a"))
	require.Same(t, a, g1.Lookup("a"))

	child := g1.Extend(ast.Block())
	require.Same(t, g1, child.Parent())
	require.Same(t, a, child.Lookup("a"))

	// Later generations see everything earlier ones saw.
	b := &Variable{Name: "b", Type: String}
	g2 := g1.Declare(b)
	require.Len(t, g2.Children(), 1)
	require.Len(t, g1.LocalVariables(), 1)
	require.Equal(t, []*Variable{a, b}, g2.LocalVariables())
	for _, v := range g1.LocalVariables() {
		require.Same(t, v, g2.Lookup(v.Name))
	}
	require.Same(t, g2, root.Latest())

	require.PanicsWithValue(t, &ContractError{Reason: "scope generation already has a successor"}, func() {
		g1.Declare(&Variable{Name: "c"})
	})
}

func TestEnvironmentShadowing(t *testing.T) {
	root := NewEnvironment(nil, ast.Prog())
	outer := &Variable{Name: "x", Type: Integer}
	g := root.Declare(outer)
	inner := &Variable{Name: "x", Type: String}
	child := g.Extend(ast.Block()).Declare(inner)
	require.Same(t, inner, child.Lookup("x"))
	require.Same(t, outer, g.Lookup("x"))
	require.True(t, child.IsDefined("x"))
	require.False(t, child.IsDefined("y"))
}

func TestVariableEquality(t *testing.T) {
	a := &Variable{Name: "a", Type: Integer, Value: runtime.Ready(runtime.IntegerValue{Val: 1})}
	require.True(t, a.Equal(&Variable{Name: "a", Type: Integer}))
	require.False(t, a.Equal(&Variable{Name: "a", Type: Double}))
	require.False(t, a.Equal(nil))
	require.Equal(t, runtime.IntegerValue{Val: 1}, a.Force())
	require.Equal(t, runtime.NullValue{}, (&Variable{Name: "b"}).Force())
}

func TestCatalogLookups(t *testing.T) {
	var none *Catalog
	_, ok := none.Function("msg")
	require.False(t, ok)
	require.Empty(t, none.FunctionNames())

	cat := gameCatalog()
	require.Equal(t, []string{"GetRandomInt", "msg"}, cat.FunctionNames())
	typ, ok := cat.Attribute("player", "alias")
	require.True(t, ok)
	require.Equal(t, String, typ)
	_, ok = cat.Attribute("player", "health")
	require.False(t, ok)
	_, ok = cat.Attribute("lamp", "lit")
	require.False(t, ok)
}
