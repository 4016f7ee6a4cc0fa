package manifest

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Manifest is the subset of a package.json (or bower.json) document that
// declares dependencies. YAML documents with the same keys decode to the
// same structure.
type Manifest struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`

	BundleDependencies   Group `json:"bundleDependencies" yaml:"bundleDependencies"`
	BundledDependencies  Group `json:"bundledDependencies" yaml:"bundledDependencies"`
	Dependencies         Group `json:"dependencies" yaml:"dependencies"`
	DevDependencies      Group `json:"devDependencies" yaml:"devDependencies"`
	OptionalDependencies Group `json:"optionalDependencies" yaml:"optionalDependencies"`
	PeerDependencies     Group `json:"peerDependencies" yaml:"peerDependencies"`
}

// groups returns the dependency groups in ascending precedence.
func (m *Manifest) groups() []Group {
	return []Group{
		m.BundleDependencies,
		m.BundledDependencies,
		m.Dependencies,
		m.DevDependencies,
		m.OptionalDependencies,
		m.PeerDependencies,
	}
}

// Group maps package names to declared ranges.
//
// Besides the usual object form, a group may be written as an array of names
// (npm's bundledDependencies) or as a boolean ("bundle everything"). Array
// entries get the range "*"; a boolean yields an empty group.
type Group map[string]string

// UnmarshalJSON implements json.Unmarshaler.
func (g *Group) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil, bool:
		*g = nil
	case []any:
		out := make(Group, len(v))
		for _, item := range v {
			name, ok := item.(string)
			if !ok {
				return fmt.Errorf("dependency list entry %v is not a string", item)
			}
			out[name] = "*"
		}
		*g = out
	case map[string]any:
		out := make(Group, len(v))
		for name, item := range v {
			rng, ok := item.(string)
			if !ok {
				return fmt.Errorf("range of %q is not a string", name)
			}
			out[name] = rng
		}
		*g = out
	default:
		return fmt.Errorf("unexpected dependency group %s", data)
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (g *Group) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var b bool
		if err := node.Decode(&b); err != nil && node.Tag != "!!null" {
			return fmt.Errorf("line %d: unexpected dependency group %q", node.Line, node.Value)
		}
		*g = nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		out := make(Group, len(names))
		for _, name := range names {
			out[name] = "*"
		}
		*g = out
	case yaml.MappingNode:
		var m map[string]string
		if err := node.Decode(&m); err != nil {
			return err
		}
		*g = m
	default:
		return fmt.Errorf("line %d: unexpected dependency group", node.Line)
	}
	return nil
}
