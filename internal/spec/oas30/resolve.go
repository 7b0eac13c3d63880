package oas30

import (
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mark3labs/openapi2rust/internal/source"
	"github.com/mark3labs/openapi2rust/internal/spec"
	"github.com/mark3labs/openapi2rust/internal/spec/yamlnode"
)

// ResolveSchema looks up the schema a pointer addresses.
func (d *Document) ResolveSchema(src source.Schema) (spec.Schema, error) {
	s, ptr, err := d.schemaAt(src)
	if err != nil {
		return nil, err
	}
	return &schema{doc: d, s: s, src: src, ptr: ptr}, nil
}

func missing(p source.Pointer) error {
	return spec.Errorf(spec.DanglingReference, p.String(), "no node at %s", p)
}

func value(ref *openapi3.SchemaRef) *openapi3.Schema {
	if ref == nil {
		return nil
	}
	return ref.Value
}

func (d *Document) schemaAt(src source.Schema) (*openapi3.Schema, string, error) {
	if uri, ok := src.URI(); ok {
		ref, err := d.componentSchema(uri)
		if err != nil || ref.Value == nil {
			return nil, "", missing(src)
		}
		return ref.Value, uri, nil
	}
	if parent, ok := src.Parent(); ok {
		ps, pptr, err := d.schemaAt(parent)
		if err != nil {
			return nil, "", err
		}
		var s *openapi3.Schema
		var ptr string
		switch {
		case src.IsItems():
			s, ptr = value(ps.Items), pptr+"/items"
		case src.IsAdditionalProperties():
			s, ptr = value(ps.AdditionalProperties.Schema), pptr+"/additionalProperties"
		default:
			if name, ok := src.PropertyName(); ok {
				s, ptr = value(ps.Properties[name]), pptr+"/properties/"+source.EscapeToken(name)
			} else if kw, i, ok := src.CompositionIndex(); ok {
				var refs openapi3.SchemaRefs
				switch kw {
				case "allOf":
					refs = ps.AllOf
				case "anyOf":
					refs = ps.AnyOf
				case "oneOf":
					refs = ps.OneOf
				}
				if i < len(refs) {
					s, ptr = value(refs[i]), pptr+"/"+kw+"/"+strconv.Itoa(i)
				}
			}
		}
		if s == nil {
			return nil, "", missing(src)
		}
		return s, ptr, nil
	}
	if m, ok := src.MediaType(); ok {
		mt, mptr, err := d.mediaTypeAt(m)
		if err != nil {
			return nil, "", err
		}
		if s := value(mt.Schema); s != nil {
			return s, mptr + "/schema", nil
		}
		return nil, "", missing(src)
	}
	if p, ok := src.Parameter(); ok {
		param, pptr, err := d.parameterAt(p)
		if err != nil {
			return nil, "", err
		}
		if s := value(param.Schema); s != nil {
			return s, pptr + "/schema", nil
		}
	}
	return nil, "", missing(src)
}

func (d *Document) operationAt(op source.Operation) (*openapi3.Operation, string, error) {
	item := d.t.Paths[op.PathItem.Template]
	if item == nil {
		return nil, "", missing(op)
	}
	o := methodOperation(item, spec.Method(op.Method))
	if o == nil {
		return nil, "", missing(op)
	}
	return o, yamlnode.Pointer("paths", op.PathItem.Template, op.Method), nil
}

func (d *Document) parameterAt(p source.Parameter) (*openapi3.Parameter, string, error) {
	if uri, ok := p.URI(); ok {
		if d.t.Components != nil {
			if ref := d.t.Components.Parameters[spec.ComponentName(uri)]; ref != nil && ref.Value != nil {
				return ref.Value, uri, nil
			}
		}
		return nil, "", missing(p)
	}
	var list openapi3.Parameters
	var owner string
	if op, ok := p.Operation(); ok {
		o, optr, err := d.operationAt(op)
		if err != nil {
			return nil, "", err
		}
		list, owner = o.Parameters, optr
	} else if pi, ok := p.PathItem(); ok {
		item := d.t.Paths[pi.Template]
		if item == nil {
			return nil, "", missing(p)
		}
		list, owner = item.Parameters, yamlnode.Pointer("paths", pi.Template)
	}
	id := p.LocalID()
	for i, ref := range list {
		if ref == nil || ref.Ref != "" || ref.Value == nil {
			continue
		}
		if ref.Value.Name == id.Name && ref.Value.In == id.In {
			return ref.Value, owner + "/parameters/" + strconv.Itoa(i), nil
		}
	}
	return nil, "", missing(p)
}

func (d *Document) requestBodyAt(r source.RequestBody) (*openapi3.RequestBody, string, error) {
	if uri, ok := r.URI(); ok {
		if d.t.Components != nil {
			if ref := d.t.Components.RequestBodies[spec.ComponentName(uri)]; ref != nil && ref.Value != nil {
				return ref.Value, uri, nil
			}
		}
		return nil, "", missing(r)
	}
	op, _ := r.Operation()
	o, optr, err := d.operationAt(op)
	if err != nil {
		return nil, "", err
	}
	if o.RequestBody == nil || o.RequestBody.Value == nil {
		return nil, "", missing(r)
	}
	if o.RequestBody.Ref != "" {
		return o.RequestBody.Value, o.RequestBody.Ref, nil
	}
	return o.RequestBody.Value, optr + "/requestBody", nil
}

func (d *Document) responseAt(r source.Response) (*openapi3.Response, string, error) {
	if uri, ok := r.URI(); ok {
		if d.t.Components != nil {
			if ref := d.t.Components.Responses[spec.ComponentName(uri)]; ref != nil && ref.Value != nil {
				return ref.Value, uri, nil
			}
		}
		return nil, "", missing(r)
	}
	op, index, _ := r.Operation()
	o, optr, err := d.operationAt(op)
	if err != nil {
		return nil, "", err
	}
	keys := ordered(d, optr+"/responses", o.Responses)
	if index < 0 || index >= len(keys) {
		return nil, "", missing(r)
	}
	ref := o.Responses[keys[index]]
	if ref == nil || ref.Value == nil {
		return nil, "", missing(r)
	}
	if ref.Ref != "" {
		return ref.Value, ref.Ref, nil
	}
	return ref.Value, optr + "/responses/" + source.EscapeToken(keys[index]), nil
}

func (d *Document) mediaTypeAt(m source.MediaType) (*openapi3.MediaType, string, error) {
	var content openapi3.Content
	var owner string
	if p, ok := m.Parameter(); ok {
		param, ptr, err := d.parameterAt(p)
		if err != nil {
			return nil, "", err
		}
		content, owner = param.Content, ptr
	} else if rb, ok := m.RequestBody(); ok {
		body, ptr, err := d.requestBodyAt(rb)
		if err != nil {
			return nil, "", err
		}
		content, owner = body.Content, ptr
	} else if rs, ok := m.Response(); ok {
		resp, ptr, err := d.responseAt(rs)
		if err != nil {
			return nil, "", err
		}
		content, owner = resp.Content, ptr
	}
	keys := ordered(d, owner+"/content", content)
	if m.Index() < 0 || m.Index() >= len(keys) || content[keys[m.Index()]] == nil {
		return nil, "", missing(m)
	}
	k := keys[m.Index()]
	return content[k], owner + "/content/" + source.EscapeToken(k), nil
}
