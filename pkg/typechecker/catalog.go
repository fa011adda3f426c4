package typechecker

import "sort"

// FunctionSignature describes a function declared by the game.
type FunctionSignature struct {
	Name       string
	Parameters []string
	ReturnType ObjectType
}

// ObjectInfo describes a game object and the types of its attributes.
type ObjectInfo struct {
	Name       string
	Attributes map[string]ObjectType
}

// Catalog holds the functions and objects a script may reference without
// declaring them. A nil *Catalog is empty.
type Catalog struct {
	functions map[string]FunctionSignature
	objects   map[string]ObjectInfo
}

func NewCatalog() *Catalog {
	return &Catalog{
		functions: make(map[string]FunctionSignature),
		objects:   make(map[string]ObjectInfo),
	}
}

func (c *Catalog) AddFunction(sig FunctionSignature) {
	c.functions[sig.Name] = sig
}

func (c *Catalog) AddObject(obj ObjectInfo) {
	if obj.Attributes == nil {
		obj.Attributes = make(map[string]ObjectType)
	}
	c.objects[obj.Name] = obj
}

func (c *Catalog) Function(name string) (FunctionSignature, bool) {
	if c == nil {
		return FunctionSignature{}, false
	}
	sig, ok := c.functions[name]
	return sig, ok
}

func (c *Catalog) Object(name string) (ObjectInfo, bool) {
	if c == nil {
		return ObjectInfo{}, false
	}
	obj, ok := c.objects[name]
	return obj, ok
}

// Attribute returns the declared type of object.attribute.
func (c *Catalog) Attribute(object, attribute string) (ObjectType, bool) {
	obj, ok := c.Object(object)
	if !ok {
		return Unknown, false
	}
	typ, ok := obj.Attributes[attribute]
	return typ, ok
}

// FunctionNames returns the declared function names in sorted order.
func (c *Catalog) FunctionNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.functions))
	for name := range c.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
