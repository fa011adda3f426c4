package runtime

type thunkState int

const (
	thunkPending thunkState = iota
	thunkForcing
	thunkDone
)

// Thunk is a deferred value computed at most once, on first Force.
type Thunk struct {
	compute func() Value
	value   Value
	state   thunkState
}

// Defer wraps fn without calling it.
func Defer(fn func() Value) *Thunk {
	return &Thunk{compute: fn}
}

// Ready returns an already-evaluated thunk.
func Ready(v Value) *Thunk {
	if v == nil {
		v = NullValue{}
	}
	return &Thunk{value: v, state: thunkDone}
}

func (*Thunk) Kind() Kind { return KindThunk }

// Evaluated reports whether the thunk has been forced.
func (t *Thunk) Evaluated() bool { return t.state == thunkDone }

// Force evaluates the thunk and unwraps nested thunks until a concrete value
// is reached. A thunk that is re-entered while it is being computed yields
// null instead of recursing.
func (t *Thunk) Force() Value {
	var v Value = t
	for {
		next, ok := v.(*Thunk)
		if !ok {
			if v == nil {
				return NullValue{}
			}
			return v
		}
		if next == nil {
			return NullValue{}
		}
		v = next.step()
	}
}

func (t *Thunk) step() Value {
	switch t.state {
	case thunkDone:
		return t.value
	case thunkForcing:
		return NullValue{}
	}
	t.state = thunkForcing
	var v Value = NullValue{}
	if t.compute != nil {
		if out := t.compute(); out != nil {
			v = out
		}
	}
	// Collapse chains so later reads skip the intermediate thunks.
	if inner, ok := v.(*Thunk); ok {
		if inner == t {
			v = NullValue{}
		} else {
			v = inner.Force()
		}
	}
	t.value = v
	t.state = thunkDone
	t.compute = nil
	return v
}

// Force unwraps v if it is a thunk.
func Force(v Value) Value {
	if v == nil {
		return NullValue{}
	}
	if t, ok := v.(*Thunk); ok {
		return t.Force()
	}
	return v
}
