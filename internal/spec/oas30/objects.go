package oas30

import (
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mark3labs/openapi2rust/internal/source"
	"github.com/mark3labs/openapi2rust/internal/spec"
)

type pathItem struct {
	doc  *Document
	item *openapi3.PathItem
	src  source.PathItem
	ptr  string
}

func (p *pathItem) Source() source.PathItem { return p.src }
func (p *pathItem) Template() string        { return p.src.Template }

func (p *pathItem) Parameters() []spec.RefOr[spec.Parameter] {
	return p.doc.parameters(p.item.Parameters, p.ptr, func(id source.LocalID) source.Parameter {
		return source.ParameterOnPathItem(p.src, id)
	})
}

// methodOperation maps a method to the kin-openapi field holding it.
func methodOperation(item *openapi3.PathItem, m spec.Method) *openapi3.Operation {
	switch m {
	case spec.MethodGet:
		return item.Get
	case spec.MethodPut:
		return item.Put
	case spec.MethodPost:
		return item.Post
	case spec.MethodDelete:
		return item.Delete
	case spec.MethodOptions:
		return item.Options
	case spec.MethodHead:
		return item.Head
	case spec.MethodPatch:
		return item.Patch
	case spec.MethodTrace:
		return item.Trace
	}
	return nil
}

var allMethods = []spec.Method{
	spec.MethodGet, spec.MethodPut, spec.MethodPost, spec.MethodDelete,
	spec.MethodOptions, spec.MethodHead, spec.MethodPatch, spec.MethodTrace,
}

func (p *pathItem) Operations() []spec.Named[spec.Operation] {
	present := make([]string, 0, len(allMethods))
	for _, m := range allMethods {
		if methodOperation(p.item, m) != nil {
			present = append(present, string(m))
		}
	}
	var out []spec.Named[spec.Operation]
	for _, name := range p.doc.order.Keys(p.ptr, present) {
		m := spec.Method(name)
		out = append(out, spec.Named[spec.Operation]{Name: name, Value: &operation{
			doc:    p.doc,
			op:     methodOperation(p.item, m),
			method: m,
			src:    source.Operation{PathItem: p.src, Method: name},
			ptr:    p.ptr + "/" + name,
		}})
	}
	return out
}

func (d *Document) parameters(list openapi3.Parameters, owner string, at func(source.LocalID) source.Parameter) []spec.RefOr[spec.Parameter] {
	out := make([]spec.RefOr[spec.Parameter], 0, len(list))
	for i, ref := range list {
		if ref == nil {
			continue
		}
		var id source.LocalID
		if ref.Value != nil {
			id = source.LocalID{Name: ref.Value.Name, In: ref.Value.In}
		}
		out = append(out, d.parameterRefOr(ref, at(id), owner+"/parameters/"+strconv.Itoa(i)))
	}
	return out
}

type operation struct {
	doc    *Document
	op     *openapi3.Operation
	method spec.Method
	src    source.Operation
	ptr    string
}

func (o *operation) Source() source.Operation { return o.src }
func (o *operation) Method() spec.Method      { return o.method }
func (o *operation) OperationID() string      { return o.op.OperationID }
func (o *operation) Tags() []string           { return o.op.Tags }

func (o *operation) Parameters() []spec.RefOr[spec.Parameter] {
	return o.doc.parameters(o.op.Parameters, o.ptr, func(id source.LocalID) source.Parameter {
		return source.ParameterOnOperation(o.src, id)
	})
}

func (o *operation) RequestBody() (spec.RefOr[spec.RequestBody], bool) {
	if o.op.RequestBody == nil {
		return spec.RefOr[spec.RequestBody]{}, false
	}
	return o.doc.requestBodyRefOr(o.op.RequestBody, source.RequestBodyOnOperation(o.src), o.ptr+"/requestBody"), true
}

// responseKeys returns the response keys in document order; indexes into
// this slice identify responses in source pointers.
func (o *operation) responseKeys() []string {
	return ordered(o.doc, o.ptr+"/responses", o.op.Responses)
}

func (o *operation) Responses() []spec.StatusResponse {
	var out []spec.StatusResponse
	for i, key := range o.responseKeys() {
		ref := o.op.Responses[key]
		status, err := spec.ParseStatus(key)
		if err != nil || ref == nil {
			continue
		}
		out = append(out, spec.StatusResponse{
			Status:   status,
			Response: o.doc.responseRefOr(ref, source.ResponseOnOperation(o.src, i), o.ptr+"/responses/"+source.EscapeToken(key)),
		})
	}
	return out
}

type parameter struct {
	doc *Document
	p   *openapi3.Parameter
	src source.Parameter
	ptr string
}

func (p *parameter) Source() source.Parameter { return p.src }
func (p *parameter) Name() string             { return p.p.Name }
func (p *parameter) In() spec.Location        { return spec.Location(p.p.In) }
func (p *parameter) Required() bool           { return p.p.Required }

func (p *parameter) Schema() (spec.RefOr[spec.Schema], bool) {
	if p.p.Schema == nil {
		return spec.RefOr[spec.Schema]{}, false
	}
	return p.doc.schemaRefOr(p.p.Schema, source.SchemaFromParameter(p.src), p.ptr+"/schema"), true
}

func (p *parameter) Content() []spec.Named[spec.MediaType] {
	return p.doc.content(p.p.Content, p.ptr+"/content", func(i int) source.MediaType {
		return source.MediaTypeOnParameter(p.src, i)
	})
}

type requestBody struct {
	doc *Document
	b   *openapi3.RequestBody
	src source.RequestBody
	ptr string
}

func (r *requestBody) Source() source.RequestBody { return r.src }
func (r *requestBody) Required() bool             { return r.b.Required }

func (r *requestBody) Content() []spec.Named[spec.MediaType] {
	return r.doc.content(r.b.Content, r.ptr+"/content", func(i int) source.MediaType {
		return source.MediaTypeOnRequestBody(r.src, i)
	})
}

type response struct {
	doc *Document
	r   *openapi3.Response
	src source.Response
	ptr string
}

func (r *response) Source() source.Response { return r.src }

func (r *response) Description() string {
	if r.r.Description == nil {
		return ""
	}
	return *r.r.Description
}

func (r *response) Content() []spec.Named[spec.MediaType] {
	return r.doc.content(r.r.Content, r.ptr+"/content", func(i int) source.MediaType {
		return source.MediaTypeOnResponse(r.src, i)
	})
}

func (d *Document) content(c openapi3.Content, ptr string, at func(int) source.MediaType) []spec.Named[spec.MediaType] {
	keys := ordered(d, ptr, c)
	out := make([]spec.Named[spec.MediaType], 0, len(keys))
	for i, k := range keys {
		out = append(out, spec.Named[spec.MediaType]{
			Name:  k,
			Value: &mediaType{doc: d, m: c[k], src: at(i), ptr: ptr + "/" + source.EscapeToken(k)},
		})
	}
	return out
}

type mediaType struct {
	doc *Document
	m   *openapi3.MediaType
	src source.MediaType
	ptr string
}

func (m *mediaType) Source() source.MediaType { return m.src }

func (m *mediaType) Schema() (spec.RefOr[spec.Schema], bool) {
	if m.m == nil || m.m.Schema == nil {
		return spec.RefOr[spec.Schema]{}, false
	}
	return m.doc.schemaRefOr(m.m.Schema, source.SchemaFromMediaType(m.src), m.ptr+"/schema"), true
}
