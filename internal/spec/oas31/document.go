// Package oas31 adapts an OpenAPI 3.1 document, held as a gopkg.in/yaml.v3
// node tree, to the version-agnostic spec interfaces. Working on nodes keeps
// document order and lets schema "type" be a list.
package oas31

import (
	"fmt"

	"github.com/mark3labs/openapi2rust/internal/source"
	"github.com/mark3labs/openapi2rust/internal/spec"
	"github.com/mark3labs/openapi2rust/internal/spec/yamlnode"
	"gopkg.in/yaml.v3"
)

// Document is a parsed 3.1 document.
type Document struct {
	root *yaml.Node
}

var _ spec.Spec = (*Document)(nil)

// New wraps a decoded node tree. References must already have been checked
// with spec.Precheck.
func New(root *yaml.Node) (*Document, error) {
	root = yamlnode.Deref(root)
	if root != nil && root.Kind != yaml.MappingNode {
		return nil, &spec.SpecError{Code: spec.ParseError, Message: "document root is not a mapping"}
	}
	return &Document{root: root}, nil
}

// Parse decodes data and wraps it.
func Parse(data []byte) (*Document, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, &spec.SpecError{Code: spec.ParseError, Message: fmt.Sprintf("parse document: %v", err), Cause: err}
	}
	if err := spec.Precheck(&n); err != nil {
		return nil, err
	}
	return New(&n)
}

func (d *Document) Version() spec.Version { return spec.Version31 }

func (d *Document) Components() spec.Components {
	n := yamlnode.Lookup(d.root, "components")
	if n == nil {
		return nil
	}
	return &components{doc: d, node: n}
}

func (d *Document) Schemata() []spec.Named[spec.RefOr[spec.Schema]] {
	c := d.Components()
	if c == nil {
		return nil
	}
	return c.Schemas()
}

func (d *Document) Paths() []spec.Named[spec.PathItem] {
	pairs := yamlnode.Pairs(yamlnode.Lookup(d.root, "paths"))
	out := make([]spec.Named[spec.PathItem], 0, len(pairs))
	for _, p := range pairs {
		if len(p.Key) > 0 && p.Key[0] != '/' {
			continue // extensions
		}
		out = append(out, spec.Named[spec.PathItem]{
			Name:  p.Key,
			Value: &pathItem{doc: d, node: p.Value, src: source.PathItem{Template: p.Key}},
		})
	}
	return out
}

// resolveSchema follows one hop from a component schema URI.
func (d *Document) resolveSchema(uri string) (spec.RefOr[spec.Schema], error) {
	n, ok := yamlnode.Resolve(d.root, uri)
	if !ok {
		return spec.RefOr[spec.Schema]{}, spec.Errorf(spec.DanglingReference, uri, "reference %s points to a missing component", uri)
	}
	return d.schemaRefOr(n, source.SchemaURI(uri)), nil
}

func (d *Document) resolveParameter(uri string) (spec.RefOr[spec.Parameter], error) {
	n, ok := yamlnode.Resolve(d.root, uri)
	if !ok {
		return spec.RefOr[spec.Parameter]{}, spec.Errorf(spec.DanglingReference, uri, "reference %s points to a missing component", uri)
	}
	return d.parameterRefOr(n, source.ParameterURI(uri)), nil
}

func (d *Document) resolveRequestBody(uri string) (spec.RefOr[spec.RequestBody], error) {
	n, ok := yamlnode.Resolve(d.root, uri)
	if !ok {
		return spec.RefOr[spec.RequestBody]{}, spec.Errorf(spec.DanglingReference, uri, "reference %s points to a missing component", uri)
	}
	return d.requestBodyRefOr(n, source.RequestBodyURI(uri)), nil
}

func (d *Document) resolveResponse(uri string) (spec.RefOr[spec.Response], error) {
	n, ok := yamlnode.Resolve(d.root, uri)
	if !ok {
		return spec.RefOr[spec.Response]{}, spec.Errorf(spec.DanglingReference, uri, "reference %s points to a missing component", uri)
	}
	return d.responseRefOr(n, source.ResponseURI(uri)), nil
}

func refOf(n *yaml.Node) (string, bool) {
	return yamlnode.String(yamlnode.Lookup(n, "$ref"))
}

func (d *Document) schemaRefOr(n *yaml.Node, src source.Schema) spec.RefOr[spec.Schema] {
	if ref, ok := refOf(n); ok {
		return spec.Ref[spec.Schema](ref, d.resolveSchema)
	}
	return spec.Inline[spec.Schema](&schema{doc: d, node: n, src: src})
}

func (d *Document) parameterRefOr(n *yaml.Node, src source.Parameter) spec.RefOr[spec.Parameter] {
	if ref, ok := refOf(n); ok {
		return spec.Ref[spec.Parameter](ref, d.resolveParameter)
	}
	return spec.Inline[spec.Parameter](&parameter{doc: d, node: n, src: src})
}

func (d *Document) requestBodyRefOr(n *yaml.Node, src source.RequestBody) spec.RefOr[spec.RequestBody] {
	if ref, ok := refOf(n); ok {
		return spec.Ref[spec.RequestBody](ref, d.resolveRequestBody)
	}
	return spec.Inline[spec.RequestBody](&requestBody{doc: d, node: n, src: src})
}

func (d *Document) responseRefOr(n *yaml.Node, src source.Response) spec.RefOr[spec.Response] {
	if ref, ok := refOf(n); ok {
		return spec.Ref[spec.Response](ref, d.resolveResponse)
	}
	return spec.Inline[spec.Response](&response{doc: d, node: n, src: src})
}

type components struct {
	doc  *Document
	node *yaml.Node
}

func (c *components) Schemas() []spec.Named[spec.RefOr[spec.Schema]] {
	pairs := yamlnode.Pairs(yamlnode.Lookup(c.node, "schemas"))
	out := make([]spec.Named[spec.RefOr[spec.Schema]], 0, len(pairs))
	for _, p := range pairs {
		src := source.SchemaURI(yamlnode.Pointer("components", "schemas", p.Key))
		out = append(out, spec.Named[spec.RefOr[spec.Schema]]{Name: p.Key, Value: c.doc.schemaRefOr(p.Value, src)})
	}
	return out
}

func (c *components) RequestBodies() []spec.Named[spec.RefOr[spec.RequestBody]] {
	pairs := yamlnode.Pairs(yamlnode.Lookup(c.node, "requestBodies"))
	out := make([]spec.Named[spec.RefOr[spec.RequestBody]], 0, len(pairs))
	for _, p := range pairs {
		src := source.RequestBodyURI(yamlnode.Pointer("components", "requestBodies", p.Key))
		out = append(out, spec.Named[spec.RefOr[spec.RequestBody]]{Name: p.Key, Value: c.doc.requestBodyRefOr(p.Value, src)})
	}
	return out
}

func (c *components) Responses() []spec.Named[spec.RefOr[spec.Response]] {
	pairs := yamlnode.Pairs(yamlnode.Lookup(c.node, "responses"))
	out := make([]spec.Named[spec.RefOr[spec.Response]], 0, len(pairs))
	for _, p := range pairs {
		src := source.ResponseURI(yamlnode.Pointer("components", "responses", p.Key))
		out = append(out, spec.Named[spec.RefOr[spec.Response]]{Name: p.Key, Value: c.doc.responseRefOr(p.Value, src)})
	}
	return out
}

func (c *components) Parameters() []spec.Named[spec.RefOr[spec.Parameter]] {
	pairs := yamlnode.Pairs(yamlnode.Lookup(c.node, "parameters"))
	out := make([]spec.Named[spec.RefOr[spec.Parameter]], 0, len(pairs))
	for _, p := range pairs {
		src := source.ParameterURI(yamlnode.Pointer("components", "parameters", p.Key))
		out = append(out, spec.Named[spec.RefOr[spec.Parameter]]{Name: p.Key, Value: c.doc.parameterRefOr(p.Value, src)})
	}
	return out
}
