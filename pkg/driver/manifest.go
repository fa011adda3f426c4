package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"questscript/interpreter-go/pkg/typechecker"
)

// Manifest represents the parsed contents of a game manifest (questscript.yml).
type Manifest struct {
	Path      string
	Name      string
	Functions []*FunctionSpec
	Delegates []string
	Objects   []*ObjectSpec
	Analysis  AnalysisSpec
}

// FunctionSpec declares a function scripts may call.
type FunctionSpec struct {
	Name       string
	Parameters []string
	// ReturnType is the type name as written; empty means no return value.
	ReturnType string
}

// ObjectSpec declares a game object and its typed attributes, in manifest order.
type ObjectSpec struct {
	Name       string
	Attributes []AttributeSpec
}

type AttributeSpec struct {
	Name string
	Type string
}

// AnalysisSpec holds checker settings.
type AnalysisSpec struct {
	StrictFunctions bool
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses a game manifest from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()
	return ParseManifest(file, absPath)
}

// ParseManifest decodes a manifest from r. path is recorded on the result and
// used in error messages.
func ParseManifest(r io.Reader, path string) (*Manifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", path)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}

	manifest, err := raw.toManifest(path)
	if err != nil {
		return nil, err
	}
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}

	delegates := make(map[string]struct{}, len(m.Delegates))
	for i, name := range m.Delegates {
		if !identifierPattern.MatchString(name) {
			errs.Issues = append(errs.Issues, fmt.Sprintf("delegates[%d]: %q is not a valid name", i, name))
			continue
		}
		if _, dup := delegates[name]; dup {
			errs.Issues = append(errs.Issues, fmt.Sprintf("delegate %q declared more than once", name))
		}
		delegates[name] = struct{}{}
	}

	for _, fn := range m.Functions {
		if !identifierPattern.MatchString(fn.Name) {
			errs.Issues = append(errs.Issues, fmt.Sprintf("functions: %q is not a valid name", fn.Name))
		}
		seen := make(map[string]struct{}, len(fn.Parameters))
		for _, param := range fn.Parameters {
			if !identifierPattern.MatchString(param) {
				errs.Issues = append(errs.Issues, fmt.Sprintf("functions.%s: parameter %q is not a valid name", fn.Name, param))
			}
			if _, dup := seen[param]; dup {
				errs.Issues = append(errs.Issues, fmt.Sprintf("functions.%s: parameter %q repeated", fn.Name, param))
			}
			seen[param] = struct{}{}
		}
		if m.parseType(fn.ReturnType) == typechecker.Unknown {
			errs.Issues = append(errs.Issues, fmt.Sprintf("functions.%s: unknown type %q", fn.Name, fn.ReturnType))
		}
	}

	for _, obj := range m.Objects {
		if !identifierPattern.MatchString(obj.Name) {
			errs.Issues = append(errs.Issues, fmt.Sprintf("objects: %q is not a valid name", obj.Name))
		}
		for _, attr := range obj.Attributes {
			typ := m.parseType(attr.Type)
			if typ == typechecker.Unknown || typ == typechecker.Void {
				errs.Issues = append(errs.Issues, fmt.Sprintf("objects.%s.%s: unknown type %q", obj.Name, attr.Name, attr.Type))
			}
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (m *Manifest) parseType(name string) typechecker.ObjectType {
	return typechecker.ParseObjectType(name, m.Delegates...)
}

// Catalog converts the declared functions and objects into the checker's catalog.
func (m *Manifest) Catalog() *typechecker.Catalog {
	cat := typechecker.NewCatalog()
	if m == nil {
		return cat
	}
	for _, fn := range m.Functions {
		cat.AddFunction(typechecker.FunctionSignature{
			Name:       fn.Name,
			Parameters: append([]string(nil), fn.Parameters...),
			ReturnType: m.parseType(fn.ReturnType),
		})
	}
	for _, obj := range m.Objects {
		attrs := make(map[string]typechecker.ObjectType, len(obj.Attributes))
		for _, attr := range obj.Attributes {
			attrs[attr.Name] = m.parseType(attr.Type)
		}
		cat.AddObject(typechecker.ObjectInfo{Name: obj.Name, Attributes: attrs})
	}
	return cat
}

// Options returns checker options for this game. trace may be nil.
func (m *Manifest) Options(trace io.Writer) typechecker.Options {
	opts := typechecker.Options{Catalog: m.Catalog(), Trace: trace}
	if m != nil {
		opts.StrictFunctions = m.Analysis.StrictFunctions
	}
	return opts
}

type manifestFile struct {
	Name      string        `yaml:"name"`
	Functions namedMap      `yaml:"functions"`
	Delegates stringList    `yaml:"delegates"`
	Objects   namedMap      `yaml:"objects"`
	Analysis  *analysisYAML `yaml:"analysis"`
}

type functionYAML struct {
	Parameters stringList `yaml:"parameters"`
	Type       string     `yaml:"type"`
}

type objectYAML struct {
	Attributes namedMap `yaml:"attributes"`
}

type analysisYAML struct {
	StrictFunctions bool `yaml:"strict_functions"`
}

// namedMap is a YAML mapping decoded in document order. Values are kept as
// nodes and decoded by the caller.
type namedMap struct {
	items []namedMapEntry
}

type namedMapEntry struct {
	name  string
	value *yaml.Node
}

func (nm *namedMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 {
		nm.items = nil
		return nil
	}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		nm.items = nil
		return nil
	}
	if value.Kind == yaml.AliasNode {
		return nm.UnmarshalYAML(value.Alias)
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: expected a mapping but found %s", value.ShortTag())
	}
	items := make([]namedMapEntry, 0, len(value.Content)/2)
	seen := make(map[string]struct{}, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valueNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: line %d: names must be non-empty", keyNode.Line)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("manifest: line %d: %q declared more than once", keyNode.Line, key)
		}
		seen[key] = struct{}{}
		items = append(items, namedMapEntry{name: key, value: valueNode})
	}
	nm.items = items
	return nil
}

func (nm namedMap) decodeFunctions() ([]*FunctionSpec, error) {
	out := make([]*FunctionSpec, 0, len(nm.items))
	for _, item := range nm.items {
		var raw functionYAML
		if !isNullNode(item.value) {
			// A bare scalar is shorthand for the return type.
			if item.value.Kind == yaml.ScalarNode {
				raw.Type = item.value.Value
			} else if err := decodeStrict(item.value, &raw); err != nil {
				return nil, fmt.Errorf("manifest: function %q: %w", item.name, err)
			}
		}
		out = append(out, &FunctionSpec{
			Name:       item.name,
			Parameters: raw.Parameters.Clone(),
			ReturnType: strings.TrimSpace(raw.Type),
		})
	}
	return out, nil
}

func (nm namedMap) decodeObjects() ([]*ObjectSpec, error) {
	out := make([]*ObjectSpec, 0, len(nm.items))
	for _, item := range nm.items {
		var raw objectYAML
		if !isNullNode(item.value) {
			if err := decodeStrict(item.value, &raw); err != nil {
				return nil, fmt.Errorf("manifest: object %q: %w", item.name, err)
			}
		}
		spec := &ObjectSpec{Name: item.name}
		for _, attr := range raw.Attributes.items {
			var typ string
			if err := attr.value.Decode(&typ); err != nil {
				return nil, fmt.Errorf("manifest: object %q attribute %q: %w", item.name, attr.name, err)
			}
			spec.Attributes = append(spec.Attributes, AttributeSpec{Name: attr.name, Type: strings.TrimSpace(typ)})
		}
		out = append(out, spec)
	}
	return out, nil
}

// decodeStrict decodes node into out, rejecting unknown keys the way the
// top-level decoder does.
func decodeStrict(node *yaml.Node, out any) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	return decoder.Decode(out)
}

func isNullNode(node *yaml.Node) bool {
	return node == nil || node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

type stringList []string

func (mf manifestFile) toManifest(path string) (*Manifest, error) {
	functions, err := mf.Functions.decodeFunctions()
	if err != nil {
		return nil, err
	}
	objects, err := mf.Objects.decodeObjects()
	if err != nil {
		return nil, err
	}
	result := &Manifest{
		Path:      path,
		Name:      strings.TrimSpace(mf.Name),
		Functions: functions,
		Delegates: mf.Delegates.Clone(),
		Objects:   objects,
	}
	if mf.Analysis != nil {
		result.Analysis.StrictFunctions = mf.Analysis.StrictFunctions
	}
	return result, nil
}

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			str = strings.TrimSpace(str)
			if str == "" {
				continue
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}
