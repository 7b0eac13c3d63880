package oas31

import (
	"github.com/mark3labs/openapi2rust/internal/source"
	"github.com/mark3labs/openapi2rust/internal/spec"
	"github.com/mark3labs/openapi2rust/internal/spec/yamlnode"
	"gopkg.in/yaml.v3"
)

type pathItem struct {
	doc  *Document
	node *yaml.Node
	src  source.PathItem
}

func (p *pathItem) Source() source.PathItem { return p.src }
func (p *pathItem) Template() string        { return p.src.Template }

func (p *pathItem) Parameters() []spec.RefOr[spec.Parameter] {
	return p.doc.parameters(yamlnode.Lookup(p.node, "parameters"), func(id source.LocalID) source.Parameter {
		return source.ParameterOnPathItem(p.src, id)
	})
}

func (p *pathItem) Operations() []spec.Named[spec.Operation] {
	var out []spec.Named[spec.Operation]
	for _, pair := range yamlnode.Pairs(p.node) {
		m, ok := spec.ParseMethod(pair.Key)
		if !ok || !yamlnode.IsMapping(pair.Value) {
			continue
		}
		op := &operation{doc: p.doc, node: pair.Value, method: m, src: source.Operation{PathItem: p.src, Method: string(m)}}
		out = append(out, spec.Named[spec.Operation]{Name: string(m), Value: op})
	}
	return out
}

// parameters maps a parameter list; inline entries are addressed through at.
func (d *Document) parameters(list *yaml.Node, at func(source.LocalID) source.Parameter) []spec.RefOr[spec.Parameter] {
	items := yamlnode.Items(list)
	out := make([]spec.RefOr[spec.Parameter], 0, len(items))
	for _, item := range items {
		name, _ := yamlnode.String(yamlnode.Lookup(item, "name"))
		in, _ := yamlnode.String(yamlnode.Lookup(item, "in"))
		out = append(out, d.parameterRefOr(item, at(source.LocalID{Name: name, In: in})))
	}
	return out
}

type operation struct {
	doc    *Document
	node   *yaml.Node
	method spec.Method
	src    source.Operation
}

func (o *operation) Source() source.Operation { return o.src }
func (o *operation) Method() spec.Method      { return o.method }

func (o *operation) OperationID() string {
	s, _ := yamlnode.String(yamlnode.Lookup(o.node, "operationId"))
	return s
}

func (o *operation) Tags() []string { return yamlnode.Strings(yamlnode.Lookup(o.node, "tags")) }

func (o *operation) Parameters() []spec.RefOr[spec.Parameter] {
	return o.doc.parameters(yamlnode.Lookup(o.node, "parameters"), func(id source.LocalID) source.Parameter {
		return source.ParameterOnOperation(o.src, id)
	})
}

func (o *operation) RequestBody() (spec.RefOr[spec.RequestBody], bool) {
	n := yamlnode.Lookup(o.node, "requestBody")
	if !yamlnode.IsMapping(n) {
		return spec.RefOr[spec.RequestBody]{}, false
	}
	return o.doc.requestBodyRefOr(n, source.RequestBodyOnOperation(o.src)), true
}

func (o *operation) Responses() []spec.StatusResponse {
	var out []spec.StatusResponse
	for i, pair := range yamlnode.Pairs(yamlnode.Lookup(o.node, "responses")) {
		status, err := spec.ParseStatus(pair.Key)
		if err != nil {
			continue // extensions; Precheck rejected everything else
		}
		out = append(out, spec.StatusResponse{
			Status:   status,
			Response: o.doc.responseRefOr(pair.Value, source.ResponseOnOperation(o.src, i)),
		})
	}
	return out
}

type parameter struct {
	doc  *Document
	node *yaml.Node
	src  source.Parameter
}

func (p *parameter) Source() source.Parameter { return p.src }

func (p *parameter) Name() string {
	s, _ := yamlnode.String(yamlnode.Lookup(p.node, "name"))
	return s
}

func (p *parameter) In() spec.Location {
	s, _ := yamlnode.String(yamlnode.Lookup(p.node, "in"))
	return spec.Location(s)
}

func (p *parameter) Required() bool {
	b, _ := yamlnode.Bool(yamlnode.Lookup(p.node, "required"))
	return b
}

func (p *parameter) Schema() (spec.RefOr[spec.Schema], bool) {
	n := yamlnode.Lookup(p.node, "schema")
	if n == nil {
		return spec.RefOr[spec.Schema]{}, false
	}
	return p.doc.schemaRefOr(n, source.SchemaFromParameter(p.src)), true
}

func (p *parameter) Content() []spec.Named[spec.MediaType] {
	return p.doc.content(yamlnode.Lookup(p.node, "content"), func(i int) source.MediaType {
		return source.MediaTypeOnParameter(p.src, i)
	})
}

type requestBody struct {
	doc  *Document
	node *yaml.Node
	src  source.RequestBody
}

func (r *requestBody) Source() source.RequestBody { return r.src }

func (r *requestBody) Required() bool {
	b, _ := yamlnode.Bool(yamlnode.Lookup(r.node, "required"))
	return b
}

func (r *requestBody) Content() []spec.Named[spec.MediaType] {
	return r.doc.content(yamlnode.Lookup(r.node, "content"), func(i int) source.MediaType {
		return source.MediaTypeOnRequestBody(r.src, i)
	})
}

type response struct {
	doc  *Document
	node *yaml.Node
	src  source.Response
}

func (r *response) Source() source.Response { return r.src }

func (r *response) Description() string {
	s, _ := yamlnode.String(yamlnode.Lookup(r.node, "description"))
	return s
}

func (r *response) Content() []spec.Named[spec.MediaType] {
	return r.doc.content(yamlnode.Lookup(r.node, "content"), func(i int) source.MediaType {
		return source.MediaTypeOnResponse(r.src, i)
	})
}

func (d *Document) content(n *yaml.Node, at func(int) source.MediaType) []spec.Named[spec.MediaType] {
	pairs := yamlnode.Pairs(n)
	out := make([]spec.Named[spec.MediaType], 0, len(pairs))
	for i, p := range pairs {
		out = append(out, spec.Named[spec.MediaType]{
			Name:  p.Key,
			Value: &mediaType{doc: d, node: p.Value, src: at(i)},
		})
	}
	return out
}

type mediaType struct {
	doc  *Document
	node *yaml.Node
	src  source.MediaType
}

func (m *mediaType) Source() source.MediaType { return m.src }

func (m *mediaType) Schema() (spec.RefOr[spec.Schema], bool) {
	n := yamlnode.Lookup(m.node, "schema")
	if n == nil {
		return spec.RefOr[spec.Schema]{}, false
	}
	return m.doc.schemaRefOr(n, source.SchemaFromMediaType(m.src)), true
}
