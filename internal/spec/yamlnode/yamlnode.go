// Package yamlnode holds small helpers for navigating gopkg.in/yaml.v3 node
// trees while keeping document order.
package yamlnode

import (
	"strings"

	"github.com/mark3labs/openapi2rust/internal/source"
	"gopkg.in/yaml.v3"
)

// Pair is one entry of a mapping node.
type Pair struct {
	Key     string
	KeyNode *yaml.Node
	Value   *yaml.Node
}

// Deref follows document wrappers and aliases.
func Deref(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

// IsMapping reports whether n is a mapping node after dereferencing.
func IsMapping(n *yaml.Node) bool {
	n = Deref(n)
	return n != nil && n.Kind == yaml.MappingNode
}

// IsNull reports whether n is absent or an explicit null.
func IsNull(n *yaml.Node) bool {
	n = Deref(n)
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// Pairs returns the entries of a mapping in document order, or nil when n is
// not a mapping. Merge keys ("<<") are not expanded.
func Pairs(n *yaml.Node) []Pair {
	n = Deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	out := make([]Pair, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		out = append(out, Pair{Key: k.Value, KeyNode: k, Value: Deref(n.Content[i+1])})
	}
	return out
}

// Lookup returns the value for key in mapping n, or nil.
func Lookup(n *yaml.Node, key string) *yaml.Node {
	n = Deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return Deref(n.Content[i+1])
		}
	}
	return nil
}

// Has reports whether mapping n has key, even when its value is null.
func Has(n *yaml.Node, key string) bool {
	n = Deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}

// String returns the value of a scalar node.
func String(n *yaml.Node) (string, bool) {
	n = Deref(n)
	if n == nil || n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return "", false
	}
	return n.Value, true
}

// Bool returns the value of a boolean scalar.
func Bool(n *yaml.Node) (bool, bool) {
	n = Deref(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return false, false
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, false
	}
	return b, true
}

// Strings returns the scalar items of a sequence, or the single value of a
// scalar node.
func Strings(n *yaml.Node) []string {
	n = Deref(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil
		}
		return []string{n.Value}
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if s, ok := String(item); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Items returns the elements of a sequence node.
func Items(n *yaml.Node) []*yaml.Node {
	n = Deref(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]*yaml.Node, len(n.Content))
	for i, item := range n.Content {
		out[i] = Deref(item)
	}
	return out
}

// Values decodes every element of a sequence into a plain Go value.
func Values(n *yaml.Node) []any {
	items := Items(n)
	if items == nil {
		return nil
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		var v any
		if err := item.Decode(&v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Pointer joins reference tokens into a local JSON pointer ("#/a/b").
func Pointer(tokens ...string) string {
	var b strings.Builder
	b.WriteString("#")
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(source.EscapeToken(t))
	}
	return b.String()
}

// Split splits a local JSON pointer into unescaped tokens. ok is false when
// ptr is not of the form "#/...".
func Split(ptr string) (tokens []string, ok bool) {
	if ptr == "#" {
		return nil, true
	}
	if !strings.HasPrefix(ptr, "#/") {
		return nil, false
	}
	raw := strings.Split(ptr[2:], "/")
	tokens = make([]string, len(raw))
	for i, r := range raw {
		tokens[i] = source.UnescapeToken(r)
	}
	return tokens, true
}

// Resolve walks mappings from root along a local JSON pointer. Sequence
// indexes are not supported; OpenAPI component references never need them.
func Resolve(root *yaml.Node, ptr string) (*yaml.Node, bool) {
	tokens, ok := Split(ptr)
	if !ok {
		return nil, false
	}
	n := Deref(root)
	for _, t := range tokens {
		if !Has(n, t) {
			return nil, false
		}
		n = Lookup(n, t)
	}
	return n, true
}
