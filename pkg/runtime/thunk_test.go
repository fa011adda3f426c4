package runtime

import "testing"

func TestThunkComputesOnce(t *testing.T) {
	calls := 0
	th := Defer(func() Value {
		calls++
		return IntegerValue{Val: 7}
	})
	if th.Evaluated() {
		t.Fatalf("thunk should not evaluate eagerly")
	}
	for i := 0; i < 3; i++ {
		if got := th.Force(); got != (IntegerValue{Val: 7}) {
			t.Fatalf("Force() = %#v", got)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single computation, got %d", calls)
	}
}

func TestThunkUnwrapsNestedThunks(t *testing.T) {
	inner := Defer(func() Value { return StringValue{Val: "lamp"} })
	middle := Defer(func() Value { return inner })
	outer := Defer(func() Value { return middle })
	if got := outer.Force(); got != (StringValue{Val: "lamp"}) {
		t.Fatalf("Force() = %#v", got)
	}
	if got := Force(middle); got != (StringValue{Val: "lamp"}) {
		t.Fatalf("Force(middle) = %#v", got)
	}
}

func TestThunkCycleYieldsNull(t *testing.T) {
	var a, b *Thunk
	a = Defer(func() Value { return b.Force() })
	b = Defer(func() Value { return a.Force() })
	if got := a.Force(); got != (NullValue{}) {
		t.Fatalf("cyclic thunk should force to null, got %#v", got)
	}
	self := new(Thunk)
	self.compute = func() Value { return self }
	if got := self.Force(); got != (NullValue{}) {
		t.Fatalf("self-referential thunk should force to null, got %#v", got)
	}
}

func TestReadyAndNilValues(t *testing.T) {
	if got := Ready(nil).Force(); got != (NullValue{}) {
		t.Fatalf("Ready(nil) = %#v", got)
	}
	if got := Force(nil); got != (NullValue{}) {
		t.Fatalf("Force(nil) = %#v", got)
	}
	if got := Defer(func() Value { return nil }).Force(); got != (NullValue{}) {
		t.Fatalf("nil computation = %#v", got)
	}
}

func TestDescribeAndEqual(t *testing.T) {
	list := NewList(IntegerValue{Val: 1}, DoubleValue{Val: 2.5}, Ready(StringValue{Val: "x"}))
	if got := Describe(list); got != "[1, 2.5, x]" {
		t.Fatalf("Describe(list) = %q", got)
	}
	if !Equal(IntegerValue{Val: 2}, DoubleValue{Val: 2}) {
		t.Fatalf("integer and double with the same magnitude should be equal")
	}
	if Equal(StringValue{Val: "1"}, IntegerValue{Val: 1}) {
		t.Fatalf("string and integer should not be equal")
	}
	if !Equal(NewList(IntegerValue{Val: 1}), NewList(IntegerValue{Val: 1})) {
		t.Fatalf("lists with equal elements should be equal")
	}
	if _, ok := list.At(3); ok {
		t.Fatalf("At(3) should be out of range")
	}
	if f, ok := ToFloat(Ready(IntegerValue{Val: 4})); !ok || f != 4 {
		t.Fatalf("ToFloat through a thunk = %v, %v", f, ok)
	}
}
