package ast

import "testing"

func TestDSLRendersSourceText(t *testing.T) {
	cases := []struct {
		name string
		node Node
		want string
	}{
		{"identifier", ID("score"), "score"},
		{"double keeps fraction", Dbl(2), "2.0"},
		{"string quotes", Str(`say "hi"`), `"say \"hi\""`},
		{"additive", Add(ID("x"), Dbl(2.5)), "x + 2.5"},
		{"nested array", Arr(Arr(Int(1), Int(2)), Arr(Int(3))), "[[1, 2], [3]]"},
		{"call", Call("msg", Str("a"), ID("b")), `msg("a", b)`},
		{"indexer", Index(ID("items"), Int(0)), "items[0]"},
		{"member", Member(ID("player"), "parent"), "player.parent"},
		{"postfix", Inc(ID("i")), "i++"},
		{"assignment", Assign("y", Mul(ID("x"), Int(3))), "y = x * 3"},
		{"for header", For("i", Int(0), Int(5)), "for (i, 0, 5)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.node.Text(); got != tc.want {
				t.Fatalf("Text() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBinPicksNodeKind(t *testing.T) {
	if got := Bin("/", Int(1), Int(2)).NodeType(); got != NodeMultiplicativeExpression {
		t.Fatalf("expected multiplicative node, got %s", got)
	}
	if got := Bin("-", Int(1), Int(2)).NodeType(); got != NodeAdditiveExpression {
		t.Fatalf("expected additive node, got %s", got)
	}
}

func TestSetSpanAndText(t *testing.T) {
	id := At(ID("x"), 3, 7)
	if got := id.Span().String(); got != "3:7" {
		t.Fatalf("span = %s, want 3:7", got)
	}
	SetText(id, "X")
	if id.Text() != "X" || id.Name != "x" {
		t.Fatalf("SetText should only change source text, got text=%q name=%q", id.Text(), id.Name)
	}
}

func TestInspectVisitsInSourceOrder(t *testing.T) {
	expr := Call("f", Add(ID("a"), Index(ID("b"), ID("c"))), Member(ID("d"), "e"))
	var names []string
	Inspect(expr, func(e Expression) bool {
		if id, ok := e.(*Identifier); ok {
			names = append(names, id.Name)
		}
		return true
	})
	want := []string{"f", "a", "b", "c", "d"}
	if len(names) != len(want) {
		t.Fatalf("visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("visited %v, want %v", names, want)
		}
	}
}

func TestInspectSkipsChildrenWhenFnReturnsFalse(t *testing.T) {
	count := 0
	Inspect(Arr(Arr(Int(1)), Int(2)), func(e Expression) bool {
		count++
		_, isArray := e.(*ArrayLiteral)
		return !isArray || count == 1
	})
	if count != 3 {
		t.Fatalf("expected 3 visits, got %d", count)
	}
}

func TestHeaderExpressions(t *testing.T) {
	stmt := If(ID("a"), Block()).ElseIf(ID("b"), Block()).OrElse(Block())
	exprs := HeaderExpressions(stmt)
	if len(exprs) != 2 {
		t.Fatalf("expected condition and elseif condition, got %d", len(exprs))
	}
	sw := Switch(ID("s"), Case(Int(1)), Case(Int(2))).WithDefault()
	if got := len(HeaderExpressions(sw)); got != 3 {
		t.Fatalf("expected subject and two labels, got %d", got)
	}
}
