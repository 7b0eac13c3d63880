package oas31

import (
	"github.com/mark3labs/openapi2rust/internal/source"
	"github.com/mark3labs/openapi2rust/internal/spec"
	"github.com/mark3labs/openapi2rust/internal/spec/yamlnode"
	"gopkg.in/yaml.v3"
)

// schema is a 3.1 schema object. Boolean schemas (true/false) are scalar
// nodes and behave like an empty schema.
type schema struct {
	doc  *Document
	node *yaml.Node
	src  source.Schema
}

func (s *schema) Source() source.Schema { return s.src }

func (s *schema) Name() string {
	if uri, ok := s.src.URI(); ok {
		return spec.ComponentName(uri)
	}
	return ""
}

func (s *schema) str(key string) string {
	v, _ := yamlnode.String(yamlnode.Lookup(s.node, key))
	return v
}

// Types reads "type" as a string or a list.
func (s *schema) Types() []spec.Type {
	return spec.ParseTypes(yamlnode.Strings(yamlnode.Lookup(s.node, "type")))
}

func (s *schema) Format() spec.Format              { return spec.ParseFormat(s.str("format")) }
func (s *schema) Title() string                    { return s.str("title") }
func (s *schema) Description() string              { return s.str("description") }
func (s *schema) Required() []string               { return yamlnode.Strings(yamlnode.Lookup(s.node, "required")) }
func (s *schema) Enum() []any                      { return yamlnode.Values(yamlnode.Lookup(s.node, "enum")) }
func (s *schema) AllOf() []spec.RefOr[spec.Schema] { return s.composition("allOf") }
func (s *schema) AnyOf() []spec.RefOr[spec.Schema] { return s.composition("anyOf") }
func (s *schema) OneOf() []spec.RefOr[spec.Schema] { return s.composition("oneOf") }

func (s *schema) composition(keyword string) []spec.RefOr[spec.Schema] {
	items := yamlnode.Items(yamlnode.Lookup(s.node, keyword))
	if len(items) == 0 {
		return nil
	}
	out := make([]spec.RefOr[spec.Schema], len(items))
	for i, item := range items {
		out[i] = s.doc.schemaRefOr(item, s.src.Composition(keyword, i))
	}
	return out
}

func (s *schema) Properties() []spec.Named[spec.RefOr[spec.Schema]] {
	pairs := yamlnode.Pairs(yamlnode.Lookup(s.node, "properties"))
	out := make([]spec.Named[spec.RefOr[spec.Schema]], 0, len(pairs))
	for _, p := range pairs {
		out = append(out, spec.Named[spec.RefOr[spec.Schema]]{Name: p.Key, Value: s.doc.schemaRefOr(p.Value, s.src.Property(p.Key))})
	}
	return out
}

func (s *schema) PatternProperties() []spec.Named[spec.RefOr[spec.Schema]] {
	pairs := yamlnode.Pairs(yamlnode.Lookup(s.node, "patternProperties"))
	out := make([]spec.Named[spec.RefOr[spec.Schema]], 0, len(pairs))
	for _, p := range pairs {
		out = append(out, spec.Named[spec.RefOr[spec.Schema]]{Name: p.Key, Value: s.doc.schemaRefOr(p.Value, s.src.PatternProperty(p.Key))})
	}
	return out
}

func (s *schema) AdditionalProperties() spec.AdditionalProperties {
	n := yamlnode.Lookup(s.node, "additionalProperties")
	if yamlnode.IsNull(n) {
		return spec.AdditionalProperties{}
	}
	if b, ok := yamlnode.Bool(n); ok {
		return spec.AdditionalProperties{Kind: spec.AdditionalBool, Allowed: b}
	}
	return spec.AdditionalProperties{
		Kind:    spec.AdditionalSchema,
		Allowed: true,
		Schema:  s.doc.schemaRefOr(n, s.src.AdditionalProperties()),
	}
}

func (s *schema) Items() (spec.RefOr[spec.Schema], bool) {
	n := yamlnode.Lookup(s.node, "items")
	if n == nil {
		return spec.RefOr[spec.Schema]{}, false
	}
	return s.doc.schemaRefOr(n, s.src.Items()), true
}
