package typechecker

import (
	"fmt"
	"strings"

	"questscript/interpreter-go/pkg/runtime"
)

// ObjectType is the semantic type of a script expression.
type ObjectType int

const (
	Unknown ObjectType = iota
	Integer
	Double
	String
	Boolean
	Object
	List
	Dictionary
	Script
	Delegate
	Void
	Null
)

func (t ObjectType) String() string {
	switch t {
	case Unknown:
		return "Unknown"
	case Integer:
		return "Integer"
	case Double:
		return "Double"
	case String:
		return "String"
	case Boolean:
		return "Boolean"
	case Object:
		return "Object"
	case List:
		return "List"
	case Dictionary:
		return "Dictionary"
	case Script:
		return "Script"
	case Delegate:
		return "Delegate"
	case Void:
		return "Void"
	case Null:
		return "Null"
	default:
		return fmt.Sprintf("ObjectType(%d)", int(t))
	}
}

// conversions lists the implicit conversions allowed from each type.
var conversions = map[ObjectType][]ObjectType{
	Integer: {Double, String, Object},
	Double:  {Integer, String, Object},
	Boolean: {String, Object},
	Object:  {String},
	String:  {Object},
}

// CanConvert reports whether a value of type from implicitly converts to to.
func CanConvert(from, to ObjectType) bool {
	for _, target := range conversions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// Compatible reports whether two types are equal or convertible in either direction.
func Compatible(a, b ObjectType) bool {
	return a == b || CanConvert(a, b) || CanConvert(b, a)
}

func (t ObjectType) IsNumeric() bool {
	return t == Integer || t == Double
}

// IsComparable reports whether relational ordering applies to t.
func (t ObjectType) IsComparable() bool {
	return t.IsNumeric()
}

// ParseObjectType maps a type name used in game files to an ObjectType.
// Names matching one of delegates map to Delegate; unknown names map to Unknown.
func ParseObjectType(name string, delegates ...string) ObjectType {
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "int", "integer":
		return Integer
	case "double":
		return Double
	case "string":
		return String
	case "boolean", "bool":
		return Boolean
	case "object":
		return Object
	case "script":
		return Script
	case "stringlist", "objectlist", "list":
		return List
	case "stringdictionary", "objectdictionary", "scriptdictionary", "dictionary":
		return Dictionary
	case "delegate":
		return Delegate
	case "void", "":
		return Void
	case "null":
		return Null
	}
	for _, delegate := range delegates {
		if strings.EqualFold(strings.TrimSpace(delegate), normalized) {
			return Delegate
		}
	}
	return Unknown
}

// TypeOfValue reports the ObjectType of a forced runtime value.
func TypeOfValue(v runtime.Value) ObjectType {
	switch runtime.Force(v).(type) {
	case runtime.IntegerValue:
		return Integer
	case runtime.DoubleValue:
		return Double
	case runtime.StringValue:
		return String
	case runtime.BoolValue:
		return Boolean
	case *runtime.ListValue:
		return List
	case runtime.ObjectValue:
		return Object
	case runtime.ScriptValue:
		return Script
	case runtime.NullValue:
		return Null
	default:
		return Unknown
	}
}
