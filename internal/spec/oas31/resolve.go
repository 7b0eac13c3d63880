package oas31

import (
	"github.com/mark3labs/openapi2rust/internal/source"
	"github.com/mark3labs/openapi2rust/internal/spec"
	"github.com/mark3labs/openapi2rust/internal/spec/yamlnode"
	"gopkg.in/yaml.v3"
)

// ResolveSchema looks up the node a schema pointer addresses.
func (d *Document) ResolveSchema(src source.Schema) (spec.Schema, error) {
	n, err := d.schemaNode(src)
	if err != nil {
		return nil, err
	}
	return &schema{doc: d, node: n, src: src}, nil
}

func missing(p source.Pointer) error {
	return spec.Errorf(spec.DanglingReference, p.String(), "no node at %s", p)
}

func (d *Document) schemaNode(src source.Schema) (*yaml.Node, error) {
	if uri, ok := src.URI(); ok {
		if n, ok := yamlnode.Resolve(d.root, uri); ok {
			return n, nil
		}
		return nil, missing(src)
	}
	if parent, ok := src.Parent(); ok {
		pn, err := d.schemaNode(parent)
		if err != nil {
			return nil, err
		}
		var n *yaml.Node
		switch {
		case src.IsItems():
			n = yamlnode.Lookup(pn, "items")
		case src.IsAdditionalProperties():
			n = yamlnode.Lookup(pn, "additionalProperties")
		default:
			if name, ok := src.PropertyName(); ok {
				n = lookupChild(yamlnode.Lookup(pn, "properties"), name)
			} else if pattern, ok := src.Pattern(); ok {
				n = lookupChild(yamlnode.Lookup(pn, "patternProperties"), pattern)
			} else if kw, i, ok := src.CompositionIndex(); ok {
				if items := yamlnode.Items(yamlnode.Lookup(pn, kw)); i < len(items) {
					n = items[i]
				}
			}
		}
		if n == nil {
			return nil, missing(src)
		}
		return n, nil
	}
	if m, ok := src.MediaType(); ok {
		mn, err := d.mediaTypeNode(m)
		if err != nil {
			return nil, err
		}
		if n := yamlnode.Lookup(mn, "schema"); n != nil {
			return n, nil
		}
		return nil, missing(src)
	}
	if p, ok := src.Parameter(); ok {
		pn, err := d.parameterNode(p)
		if err != nil {
			return nil, err
		}
		if n := yamlnode.Lookup(pn, "schema"); n != nil {
			return n, nil
		}
	}
	return nil, missing(src)
}

func lookupChild(n *yaml.Node, key string) *yaml.Node {
	if !yamlnode.Has(n, key) {
		return nil
	}
	return yamlnode.Lookup(n, key)
}

func (d *Document) operationNode(op source.Operation) (*yaml.Node, error) {
	n := lookupChild(lookupChild(yamlnode.Lookup(d.root, "paths"), op.PathItem.Template), op.Method)
	if n == nil {
		return nil, missing(op)
	}
	return n, nil
}

func (d *Document) parameterNode(p source.Parameter) (*yaml.Node, error) {
	if uri, ok := p.URI(); ok {
		if n, ok := yamlnode.Resolve(d.root, uri); ok {
			return n, nil
		}
		return nil, missing(p)
	}
	var owner *yaml.Node
	if op, ok := p.Operation(); ok {
		n, err := d.operationNode(op)
		if err != nil {
			return nil, err
		}
		owner = n
	} else if pi, ok := p.PathItem(); ok {
		owner = lookupChild(yamlnode.Lookup(d.root, "paths"), pi.Template)
	}
	id := p.LocalID()
	for _, item := range yamlnode.Items(yamlnode.Lookup(owner, "parameters")) {
		name, _ := yamlnode.String(yamlnode.Lookup(item, "name"))
		in, _ := yamlnode.String(yamlnode.Lookup(item, "in"))
		if name == id.Name && in == id.In {
			return item, nil
		}
	}
	return nil, missing(p)
}

func (d *Document) requestBodyNode(r source.RequestBody) (*yaml.Node, error) {
	if uri, ok := r.URI(); ok {
		if n, ok := yamlnode.Resolve(d.root, uri); ok {
			return n, nil
		}
		return nil, missing(r)
	}
	op, _ := r.Operation()
	on, err := d.operationNode(op)
	if err != nil {
		return nil, err
	}
	if n := yamlnode.Lookup(on, "requestBody"); n != nil {
		return n, nil
	}
	return nil, missing(r)
}

func (d *Document) responseNode(r source.Response) (*yaml.Node, error) {
	if uri, ok := r.URI(); ok {
		if n, ok := yamlnode.Resolve(d.root, uri); ok {
			return n, nil
		}
		return nil, missing(r)
	}
	op, index, _ := r.Operation()
	on, err := d.operationNode(op)
	if err != nil {
		return nil, err
	}
	pairs := yamlnode.Pairs(yamlnode.Lookup(on, "responses"))
	if index < 0 || index >= len(pairs) {
		return nil, missing(r)
	}
	return pairs[index].Value, nil
}

// mediaTypeNode follows the owner's $ref, if any, since content maps of
// referenced request bodies and responses live in components.
func (d *Document) mediaTypeNode(m source.MediaType) (*yaml.Node, error) {
	var owner *yaml.Node
	var err error
	switch {
	case isParam(m):
		p, _ := m.Parameter()
		owner, err = d.parameterNode(p)
	case isBody(m):
		r, _ := m.RequestBody()
		owner, err = d.requestBodyNode(r)
	default:
		r, _ := m.Response()
		owner, err = d.responseNode(r)
	}
	if err != nil {
		return nil, err
	}
	owner = d.follow(owner)
	pairs := yamlnode.Pairs(yamlnode.Lookup(owner, "content"))
	if m.Index() < 0 || m.Index() >= len(pairs) {
		return nil, missing(m)
	}
	return pairs[m.Index()].Value, nil
}

func isParam(m source.MediaType) bool { _, ok := m.Parameter(); return ok }
func isBody(m source.MediaType) bool  { _, ok := m.RequestBody(); return ok }

// follow resolves $ref chains on non-schema objects.
func (d *Document) follow(n *yaml.Node) *yaml.Node {
	for i := 0; i < 32; i++ {
		ref, ok := refOf(n)
		if !ok {
			return n
		}
		next, ok := yamlnode.Resolve(d.root, ref)
		if !ok {
			return n
		}
		n = next
	}
	return n
}
