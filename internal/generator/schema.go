package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/openapi2rust/internal/codemodel"
	"github.com/mark3labs/openapi2rust/internal/naming"
	"github.com/mark3labs/openapi2rust/internal/source"
	"github.com/mark3labs/openapi2rust/internal/spec"
)

const schemaRefPrefix = "#/components/schemas/"

const (
	deriveRecord = "(::std::fmt::Debug, ::serde::Serialize, ::serde::Deserialize, ::core::cmp::PartialEq)"
	deriveEnum   = "(::std::fmt::Debug, ::serde::Serialize, ::serde::Deserialize, ::core::cmp::PartialEq, ::core::clone::Clone)"
	deriveDebug  = "(::std::fmt::Debug)"
)

// kind is how a schema maps onto Rust.
type kind int

const (
	kindJSON kind = iota
	kindRecord
	kindMap
	kindEnum
	kindString
	kindVec
	kindNumber
	kindBool
	kindNull
)

func classify(s spec.Schema) kind {
	types := s.Types()
	if len(types) != 1 {
		return kindJSON
	}
	switch types[0] {
	case spec.TypeObject:
		if len(s.Properties()) > 0 {
			return kindRecord
		}
		if ap := s.AdditionalProperties(); ap.Kind == spec.AdditionalSchema || ap.Kind == spec.AdditionalBool && ap.Allowed {
			return kindMap
		}
		return kindRecord
	case spec.TypeString:
		if len(s.Enum()) > 0 {
			return kindEnum
		}
		return kindString
	case spec.TypeArray:
		return kindVec
	case spec.TypeNumber:
		return kindNumber
	case spec.TypeBoolean:
		return kindBool
	}
	return kindNull
}

// typeOf translates a schema reference or inline schema found at the node
// at. hint names the declaration an inline record or enum would get.
func (g *generator) typeOf(r spec.RefOr[spec.Schema], at source.Schema, hint string) (codemodel.TypeRef, error) {
	if r.IsRef() {
		uri := r.URI()
		if !strings.HasPrefix(uri, schemaRefPrefix) {
			return nil, spec.Errorf(spec.UnsupportedReference, at.String(), "schema reference %s does not point to a component schema", uri)
		}
		t, ok := g.named[spec.ComponentName(uri)]
		if !ok {
			return nil, spec.Errorf(spec.DanglingReference, at.String(), "reference %s points to a missing component", uri)
		}
		return t, nil
	}
	s, _ := r.Object()
	key := s.Source().Key()
	if t, ok := g.inline[key]; ok {
		return t, nil
	}
	t, _, err := g.translate(s, func() string { return g.uncollideType(hint) })
	if err != nil {
		return nil, err
	}
	g.inline[key] = t
	return t, nil
}

// translate maps s to a type. Records and enums are declared under the
// name returned by nameFn; declared reports whether that happened. nameFn
// has no side effects, so children use it to derive their own hints.
func (g *generator) translate(s spec.Schema, nameFn func() string) (t codemodel.TypeRef, declared bool, err error) {
	src := s.Source()
	g.warnComposition(s)

	switch classify(s) {
	case kindRecord:
		if len(s.Properties()) == 0 && len(s.PatternProperties()) > 0 {
			return nil, false, spec.Errorf(spec.Unsupported, src.String(), "patternProperties without properties are not supported")
		}
		r, err := g.record(s, nameFn())
		if err != nil {
			return nil, false, err
		}
		return r, true, nil
	case kindEnum:
		e, err := g.enum(s, nameFn())
		if err != nil {
			return nil, false, err
		}
		return e, true, nil
	case kindMap:
		ap := s.AdditionalProperties()
		value := g.cm.JSON()
		if ap.Kind == spec.AdditionalSchema {
			if value, err = g.typeOf(ap.Schema, src.AdditionalProperties(), nameFn()+"Value"); err != nil {
				return nil, false, err
			}
		}
		return g.cm.HashMap(g.cm.StringType(), value), false, nil
	case kindString:
		return g.cm.StringType(), false, nil
	case kindVec:
		items, ok := s.Items()
		if !ok {
			return g.cm.Vec(g.cm.JSON()), false, nil
		}
		elem, err := g.typeOf(items, src.Items(), nameFn()+"Item")
		if err != nil {
			return nil, false, err
		}
		return g.cm.Vec(elem), false, nil
	case kindNumber:
		switch s.Format() {
		case spec.FormatInt32:
			return codemodel.I32, false, nil
		case spec.FormatInt64:
			return codemodel.I64, false, nil
		case spec.FormatFloat:
			return codemodel.F32, false, nil
		}
		return codemodel.F64, false, nil
	case kindBool:
		return codemodel.Bool, false, nil
	case kindNull:
		return nil, false, spec.Errorf(spec.Unsupported, src.String(), "schemas of type null are not supported")
	}
	return g.cm.JSON(), false, nil
}

func (g *generator) warnComposition(s spec.Schema) {
	for _, c := range []struct {
		keyword string
		n       int
	}{{"allOf", len(s.AllOf())}, {"anyOf", len(s.AnyOf())}, {"oneOf", len(s.OneOf())}} {
		if c.n > 0 {
			g.log.Warn("schema composition is not translated", "keyword", c.keyword, "schema", s.Source().String())
		}
	}
}

func (g *generator) record(s spec.Schema, name string) (*codemodel.Record, error) {
	b := codemodel.NewRecord(name).Attr(g.attr("derive", deriveRecord))
	for _, p := range s.Properties() {
		field := naming.Uncollide(b.HasField, naming.FieldName(p.Name))
		t, err := g.typeOf(p.Value, s.Source().Property(p.Name), name+naming.Camel(p.Name))
		if err != nil {
			return nil, err
		}
		var attrs []codemodel.Attr
		if field != p.Name {
			attrs = append(attrs, g.attr("serde", "(rename = "+strconv.Quote(p.Name)+")"))
		}
		if g.opts.OptionalFields && !spec.Required(s, p.Name) {
			t = g.cm.Option(t)
			attrs = append(attrs, g.attr("serde", `(skip_serializing_if = "Option::is_none")`))
		}
		b.Field(field, codemodel.Of(t), attrs...)
	}
	r, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", s.Source(), err)
	}
	if _, err := g.mod.InsertRecord(r); err != nil {
		return nil, fmt.Errorf("record %s: %w", s.Source(), err)
	}
	return r, nil
}

func (g *generator) enum(s spec.Schema, name string) (*codemodel.SumType, error) {
	b := codemodel.NewSumType(name).Attr(g.attr("derive", deriveEnum))
	for i, v := range s.Enum() {
		if v == nil {
			continue // nullable enums keep their non-null members
		}
		value, ok := v.(string)
		if !ok {
			return nil, spec.Errorf(spec.Unsupported, s.Source().String(), "enum member %d is %T, only strings are supported", i, v)
		}
		variant := naming.Uncollide(b.HasVariant, naming.TypeName(value))
		var attrs []codemodel.Attr
		if variant != value {
			attrs = append(attrs, g.attr("serde", "(rename = "+strconv.Quote(value)+")"))
		}
		b.Unit(variant, attrs...)
	}
	if b.Len() == 0 {
		return nil, spec.Errorf(spec.Unsupported, s.Source().String(), "enum has no string members")
	}
	e, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("enum %s: %w", s.Source(), err)
	}
	if _, err := g.mod.InsertSumType(e); err != nil {
		return nil, fmt.Errorf("enum %s: %w", s.Source(), err)
	}
	return e, nil
}
