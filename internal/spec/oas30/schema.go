package oas30

import (
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mark3labs/openapi2rust/internal/source"
	"github.com/mark3labs/openapi2rust/internal/spec"
)

type schema struct {
	doc *Document
	s   *openapi3.Schema
	src source.Schema
	ptr string
}

func (s *schema) Source() source.Schema { return s.src }

func (s *schema) Name() string {
	if uri, ok := s.src.URI(); ok {
		return spec.ComponentName(uri)
	}
	return ""
}

// Types yields at most one entry; 3.0 has no type lists.
func (s *schema) Types() []spec.Type {
	if s.s.Type == "" {
		return nil
	}
	return spec.ParseTypes([]string{s.s.Type})
}

func (s *schema) Format() spec.Format              { return spec.ParseFormat(s.s.Format) }
func (s *schema) Title() string                    { return s.s.Title }
func (s *schema) Description() string              { return s.s.Description }
func (s *schema) Required() []string               { return s.s.Required }
func (s *schema) Enum() []any                      { return s.s.Enum }
func (s *schema) AllOf() []spec.RefOr[spec.Schema] { return s.composition("allOf", s.s.AllOf) }
func (s *schema) AnyOf() []spec.RefOr[spec.Schema] { return s.composition("anyOf", s.s.AnyOf) }
func (s *schema) OneOf() []spec.RefOr[spec.Schema] { return s.composition("oneOf", s.s.OneOf) }

// PatternProperties is a 3.1 keyword.
func (s *schema) PatternProperties() []spec.Named[spec.RefOr[spec.Schema]] { return nil }

func (s *schema) composition(keyword string, refs openapi3.SchemaRefs) []spec.RefOr[spec.Schema] {
	if len(refs) == 0 {
		return nil
	}
	out := make([]spec.RefOr[spec.Schema], 0, len(refs))
	for i, ref := range refs {
		if ref == nil {
			continue
		}
		out = append(out, s.doc.schemaRefOr(ref, s.src.Composition(keyword, i), s.ptr+"/"+keyword+"/"+strconv.Itoa(i)))
	}
	return out
}

func (s *schema) Properties() []spec.Named[spec.RefOr[spec.Schema]] {
	base := s.ptr + "/properties"
	var out []spec.Named[spec.RefOr[spec.Schema]]
	for _, name := range ordered(s.doc, base, s.s.Properties) {
		ref := s.s.Properties[name]
		if ref == nil {
			continue
		}
		out = append(out, spec.Named[spec.RefOr[spec.Schema]]{
			Name:  name,
			Value: s.doc.schemaRefOr(ref, s.src.Property(name), base+"/"+source.EscapeToken(name)),
		})
	}
	return out
}

func (s *schema) AdditionalProperties() spec.AdditionalProperties {
	ap := s.s.AdditionalProperties
	switch {
	case ap.Schema != nil:
		return spec.AdditionalProperties{
			Kind:    spec.AdditionalSchema,
			Allowed: true,
			Schema:  s.doc.schemaRefOr(ap.Schema, s.src.AdditionalProperties(), s.ptr+"/additionalProperties"),
		}
	case ap.Has != nil:
		return spec.AdditionalProperties{Kind: spec.AdditionalBool, Allowed: *ap.Has}
	}
	return spec.AdditionalProperties{}
}

func (s *schema) Items() (spec.RefOr[spec.Schema], bool) {
	if s.s.Items == nil {
		return spec.RefOr[spec.Schema]{}, false
	}
	return s.doc.schemaRefOr(s.s.Items, s.src.Items(), s.ptr+"/items"), true
}
