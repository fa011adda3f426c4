package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"questscript/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindDouble
	KindString
	KindBool
	KindList
	KindObject
	KindScript
	KindThunk
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	case KindScript:
		return "script"
	case KindThunk:
		return "thunk"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type DoubleValue struct {
	Val float64
}

func (v DoubleValue) Kind() Kind { return KindDouble }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

//-----------------------------------------------------------------------------
// Compound values
//-----------------------------------------------------------------------------

// ListValue is an ordered, mutable sequence.
type ListValue struct {
	Elements []Value
}

func NewList(elements ...Value) *ListValue {
	return &ListValue{Elements: elements}
}

func (*ListValue) Kind() Kind { return KindList }

func (l *ListValue) Len() int { return len(l.Elements) }

func (l *ListValue) Append(v Value) { l.Elements = append(l.Elements, v) }

// At returns the element at i, or false when i is out of range.
func (l *ListValue) At(i int) (Value, bool) {
	if i < 0 || i >= len(l.Elements) {
		return nil, false
	}
	return l.Elements[i], true
}

// ObjectValue references a game object by name.
type ObjectValue struct {
	Name string
}

func (ObjectValue) Kind() Kind { return KindObject }

// ScriptValue is an unevaluated script body.
type ScriptValue struct {
	Body *ast.CodeBlock
}

func (ScriptValue) Kind() Kind { return KindScript }

//-----------------------------------------------------------------------------
// Helpers
//-----------------------------------------------------------------------------

// ToFloat reports the numeric value of an integer or double.
func ToFloat(v Value) (float64, bool) {
	switch val := Force(v).(type) {
	case IntegerValue:
		return float64(val.Val), true
	case DoubleValue:
		return val.Val, true
	default:
		return 0, false
	}
}

func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := Force(v).(NullValue)
	return ok
}

// Describe renders a value the way string concatenation sees it.
func Describe(v Value) string {
	switch val := Force(v).(type) {
	case NullValue:
		return "null"
	case IntegerValue:
		return strconv.FormatInt(val.Val, 10)
	case DoubleValue:
		return strconv.FormatFloat(val.Val, 'f', -1, 64)
	case StringValue:
		return val.Val
	case BoolValue:
		return strconv.FormatBool(val.Val)
	case *ListValue:
		parts := make([]string, 0, len(val.Elements))
		for _, el := range val.Elements {
			parts = append(parts, Describe(el))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ObjectValue:
		return val.Name
	case ScriptValue:
		return "<script>"
	default:
		return fmt.Sprintf("<%v>", val)
	}
}

// Equal compares two forced values. Integers and doubles compare numerically.
func Equal(a, b Value) bool {
	a, b = Force(a), Force(b)
	if af, ok := ToFloat(a); ok {
		bf, ok := ToFloat(b)
		return ok && af == bf
	}
	switch av := a.(type) {
	case NullValue:
		_, ok := b.(NullValue)
		return ok
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av.Val == bv.Val
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av.Val == bv.Val
	case ObjectValue:
		bv, ok := b.(ObjectValue)
		return ok && av.Name == bv.Name
	case *ListValue:
		bv, ok := b.(*ListValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
