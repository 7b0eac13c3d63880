// Package oas30 adapts an OpenAPI 3.0 document loaded with kin-openapi to the
// version-agnostic spec interfaces. kin-openapi decodes maps into Go maps, so
// the adapter restores document order from a yaml.v3 key-order index.
package oas30

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mark3labs/openapi2rust/internal/source"
	"github.com/mark3labs/openapi2rust/internal/spec"
	"github.com/mark3labs/openapi2rust/internal/spec/yamlnode"
	"gopkg.in/yaml.v3"
)

// Document is a parsed 3.0 document.
type Document struct {
	t     *openapi3.T
	order yamlnode.KeyOrder
}

var _ spec.Spec = (*Document)(nil)

// New loads data with kin-openapi. root is the same document decoded as a
// yaml.v3 node tree, already checked with spec.Precheck.
func New(data []byte, root *yaml.Node) (*Document, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false
	t, err := loader.LoadFromData(data)
	if err != nil {
		return nil, &spec.SpecError{Code: spec.ParseError, Message: fmt.Sprintf("load OpenAPI 3.0 document: %v", err), Cause: err}
	}
	return &Document{t: t, order: yamlnode.BuildKeyOrder(root)}, nil
}

// Parse decodes, prechecks and loads data.
func Parse(data []byte) (*Document, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, &spec.SpecError{Code: spec.ParseError, Message: fmt.Sprintf("parse document: %v", err), Cause: err}
	}
	if err := spec.Precheck(&n); err != nil {
		return nil, err
	}
	return New(data, &n)
}

// T exposes the underlying kin-openapi model.
func (d *Document) T() *openapi3.T { return d.t }

func (d *Document) Version() spec.Version { return spec.Version30 }

func (d *Document) Components() spec.Components {
	if d.t.Components == nil {
		return nil
	}
	return &components{doc: d, c: d.t.Components}
}

func (d *Document) Schemata() []spec.Named[spec.RefOr[spec.Schema]] {
	c := d.Components()
	if c == nil {
		return nil
	}
	return c.Schemas()
}

func (d *Document) Paths() []spec.Named[spec.PathItem] {
	keys := make([]string, 0, len(d.t.Paths))
	for k := range d.t.Paths {
		keys = append(keys, k)
	}
	keys = d.order.Keys("#/paths", keys)
	out := make([]spec.Named[spec.PathItem], 0, len(keys))
	for _, k := range keys {
		item := d.t.Paths[k]
		if item == nil {
			continue
		}
		out = append(out, spec.Named[spec.PathItem]{
			Name:  k,
			Value: &pathItem{doc: d, item: item, src: source.PathItem{Template: k}, ptr: yamlnode.Pointer("paths", k)},
		})
	}
	return out
}

// ordered returns the keys of m in document order for the mapping at ptr.
func ordered[M ~map[string]V, V any](d *Document, ptr string, m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return d.order.Keys(ptr, keys)
}

func (d *Document) componentSchema(uri string) (*openapi3.SchemaRef, error) {
	if d.t.Components != nil {
		if ref := d.t.Components.Schemas[spec.ComponentName(uri)]; ref != nil {
			return ref, nil
		}
	}
	return nil, spec.Errorf(spec.DanglingReference, uri, "reference %s points to a missing component", uri)
}

func (d *Document) resolveSchema(uri string) (spec.RefOr[spec.Schema], error) {
	ref, err := d.componentSchema(uri)
	if err != nil {
		return spec.RefOr[spec.Schema]{}, err
	}
	return d.schemaRefOr(ref, source.SchemaURI(uri), uri), nil
}

func (d *Document) resolveParameter(uri string) (spec.RefOr[spec.Parameter], error) {
	if d.t.Components != nil {
		if ref := d.t.Components.Parameters[spec.ComponentName(uri)]; ref != nil {
			return d.parameterRefOr(ref, source.ParameterURI(uri), uri), nil
		}
	}
	return spec.RefOr[spec.Parameter]{}, spec.Errorf(spec.DanglingReference, uri, "reference %s points to a missing component", uri)
}

func (d *Document) resolveRequestBody(uri string) (spec.RefOr[spec.RequestBody], error) {
	if d.t.Components != nil {
		if ref := d.t.Components.RequestBodies[spec.ComponentName(uri)]; ref != nil {
			return d.requestBodyRefOr(ref, source.RequestBodyURI(uri), uri), nil
		}
	}
	return spec.RefOr[spec.RequestBody]{}, spec.Errorf(spec.DanglingReference, uri, "reference %s points to a missing component", uri)
}

func (d *Document) resolveResponse(uri string) (spec.RefOr[spec.Response], error) {
	if d.t.Components != nil {
		if ref := d.t.Components.Responses[spec.ComponentName(uri)]; ref != nil {
			return d.responseRefOr(ref, source.ResponseURI(uri), uri), nil
		}
	}
	return spec.RefOr[spec.Response]{}, spec.Errorf(spec.DanglingReference, uri, "reference %s points to a missing component", uri)
}

// The *RefOr helpers map kin-openapi's Ref/Value pairs. ptr is the JSON
// pointer of the inline node, used for key order lookups below it.

func (d *Document) schemaRefOr(ref *openapi3.SchemaRef, src source.Schema, ptr string) spec.RefOr[spec.Schema] {
	if ref.Ref != "" {
		return spec.Ref[spec.Schema](ref.Ref, d.resolveSchema)
	}
	return spec.Inline[spec.Schema](&schema{doc: d, s: ref.Value, src: src, ptr: ptr})
}

func (d *Document) parameterRefOr(ref *openapi3.ParameterRef, src source.Parameter, ptr string) spec.RefOr[spec.Parameter] {
	if ref.Ref != "" {
		return spec.Ref[spec.Parameter](ref.Ref, d.resolveParameter)
	}
	return spec.Inline[spec.Parameter](&parameter{doc: d, p: ref.Value, src: src, ptr: ptr})
}

func (d *Document) requestBodyRefOr(ref *openapi3.RequestBodyRef, src source.RequestBody, ptr string) spec.RefOr[spec.RequestBody] {
	if ref.Ref != "" {
		return spec.Ref[spec.RequestBody](ref.Ref, d.resolveRequestBody)
	}
	return spec.Inline[spec.RequestBody](&requestBody{doc: d, b: ref.Value, src: src, ptr: ptr})
}

func (d *Document) responseRefOr(ref *openapi3.ResponseRef, src source.Response, ptr string) spec.RefOr[spec.Response] {
	if ref.Ref != "" {
		return spec.Ref[spec.Response](ref.Ref, d.resolveResponse)
	}
	return spec.Inline[spec.Response](&response{doc: d, r: ref.Value, src: src, ptr: ptr})
}

type components struct {
	doc *Document
	c   *openapi3.Components
}

func (c *components) Schemas() []spec.Named[spec.RefOr[spec.Schema]] {
	var out []spec.Named[spec.RefOr[spec.Schema]]
	for _, name := range ordered(c.doc, "#/components/schemas", c.c.Schemas) {
		ref := c.c.Schemas[name]
		if ref == nil {
			continue
		}
		uri := yamlnode.Pointer("components", "schemas", name)
		out = append(out, spec.Named[spec.RefOr[spec.Schema]]{Name: name, Value: c.doc.schemaRefOr(ref, source.SchemaURI(uri), uri)})
	}
	return out
}

func (c *components) RequestBodies() []spec.Named[spec.RefOr[spec.RequestBody]] {
	var out []spec.Named[spec.RefOr[spec.RequestBody]]
	for _, name := range ordered(c.doc, "#/components/requestBodies", c.c.RequestBodies) {
		ref := c.c.RequestBodies[name]
		if ref == nil {
			continue
		}
		uri := yamlnode.Pointer("components", "requestBodies", name)
		out = append(out, spec.Named[spec.RefOr[spec.RequestBody]]{Name: name, Value: c.doc.requestBodyRefOr(ref, source.RequestBodyURI(uri), uri)})
	}
	return out
}

func (c *components) Responses() []spec.Named[spec.RefOr[spec.Response]] {
	var out []spec.Named[spec.RefOr[spec.Response]]
	for _, name := range ordered(c.doc, "#/components/responses", c.c.Responses) {
		ref := c.c.Responses[name]
		if ref == nil {
			continue
		}
		uri := yamlnode.Pointer("components", "responses", name)
		out = append(out, spec.Named[spec.RefOr[spec.Response]]{Name: name, Value: c.doc.responseRefOr(ref, source.ResponseURI(uri), uri)})
	}
	return out
}

func (c *components) Parameters() []spec.Named[spec.RefOr[spec.Parameter]] {
	var out []spec.Named[spec.RefOr[spec.Parameter]]
	for _, name := range ordered(c.doc, "#/components/parameters", c.c.Parameters) {
		ref := c.c.Parameters[name]
		if ref == nil {
			continue
		}
		uri := yamlnode.Pointer("components", "parameters", name)
		out = append(out, spec.Named[spec.RefOr[spec.Parameter]]{Name: name, Value: c.doc.parameterRefOr(ref, source.ParameterURI(uri), uri)})
	}
	return out
}
