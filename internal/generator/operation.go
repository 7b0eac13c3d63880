package generator

import (
	"fmt"

	"github.com/mark3labs/openapi2rust/internal/codemodel"
	"github.com/mark3labs/openapi2rust/internal/naming"
	"github.com/mark3labs/openapi2rust/internal/source"
	"github.com/mark3labs/openapi2rust/internal/spec"
)

const (
	todoBody        = `todo!("operation not yet implemented!")`
	otherErrorType  = "::std::boxed::Box<dyn ::std::error::Error>"
	defaultTagGroup = "Default"
)

// operationFn is a generated client function and the tag it is grouped by.
type operationFn struct {
	tag string
	fn  *codemodel.Function
}

func (g *generator) defineOperations() (*codemodel.Record, error) {
	client, err := codemodel.NewRecord(g.uncollideType("Client")).Build()
	if err != nil {
		return nil, err
	}
	if _, err := g.mod.InsertRecord(client); err != nil {
		return nil, err
	}
	impl := g.mod.InsertImplementation(codemodel.Inherent(client))

	var fns []operationFn
	for _, p := range g.doc.Paths() {
		for _, op := range p.Value.Operations() {
			fn, err := g.operation(client, impl, p.Value, op.Value)
			if err != nil {
				return nil, err
			}
			impl.Add(fn)
			tag := defaultTagGroup
			if tags := op.Value.Tags(); len(tags) > 0 && tags[0] != "" {
				tag = tags[0]
			}
			fns = append(fns, operationFn{tag: tag, fn: fn})
		}
	}
	g.log.Debug("defined operations", "functions", len(fns))

	if g.opts.Traits {
		if err := g.defineTraits(client, fns); err != nil {
			return nil, err
		}
	}
	return client, nil
}

func (g *generator) operation(client *codemodel.Record, impl *codemodel.Implementation, item spec.PathItem, op spec.Operation) (*codemodel.Function, error) {
	src := op.Source()
	name := naming.Uncollide(impl.Has, naming.FunctionName(op.Method(), item.Template()))
	prefix := naming.OperationTypeName(op.Method(), item.Template())

	params := []codemodel.Param{{Name: "self", Type: &codemodel.RefTo{Target: client}}}
	taken := func(n string) bool {
		for _, p := range params {
			if p.Name == n {
				return true
			}
		}
		return false
	}

	parameters, err := g.parameters(item, op)
	if err != nil {
		return nil, err
	}
	for _, p := range parameters {
		t, err := g.parameterType(p, prefix+naming.Camel(p.Name()))
		if err != nil {
			return nil, err
		}
		params = append(params, codemodel.Param{Name: naming.Uncollide(taken, naming.ParamName(p.Name())), Type: t})
	}

	if ref, ok := op.RequestBody(); ok {
		body, err := ref.ResolveFully()
		if err != nil {
			return nil, fmt.Errorf("%s: request body: %w", src, err)
		}
		if content := body.Content(); len(content) > 0 {
			t, err := g.contentSum(prefix+"Content", content)
			if err != nil {
				return nil, err
			}
			params = append(params, codemodel.Param{Name: naming.Uncollide(taken, "body"), Type: t})
		}
	}

	okType, errType, err := g.responses(prefix, op)
	if err != nil {
		return nil, err
	}

	fn, err := codemodel.NewFunction(name, params, g.cm.Result(okType, errType), codemodel.Body(todoBody))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	g.log.Debug("operation", "source", src.String(), "function", name)
	return fn, nil
}

// parameters merges path item and operation parameters. An operation
// parameter replaces the path item parameter with the same name and location.
func (g *generator) parameters(item spec.PathItem, op spec.Operation) ([]spec.Parameter, error) {
	var out []spec.Parameter
	index := map[source.LocalID]int{}
	for _, list := range [][]spec.RefOr[spec.Parameter]{item.Parameters(), op.Parameters()} {
		for _, ref := range list {
			p, err := ref.ResolveFully()
			if err != nil {
				return nil, fmt.Errorf("%s: parameter: %w", op.Source(), err)
			}
			id := source.LocalID{Name: p.Name(), In: string(p.In())}
			if i, ok := index[id]; ok {
				out[i] = p
				continue
			}
			index[id] = len(out)
			out = append(out, p)
		}
	}
	return out, nil
}

func (g *generator) parameterType(p spec.Parameter, hint string) (codemodel.TypeRef, error) {
	if schema, ok := p.Schema(); ok {
		return g.typeOf(schema, source.SchemaFromParameter(p.Source()), hint)
	}
	switch content := p.Content(); len(content) {
	case 0:
		return nil, spec.Errorf(spec.Unsupported, p.Source().String(), "parameter %s has neither schema nor content", p.Name())
	case 1:
		return g.mediaType(content[0].Value, hint)
	default:
		return g.contentSum(hint, content)
	}
}

func (g *generator) mediaType(m spec.MediaType, hint string) (codemodel.TypeRef, error) {
	schema, ok := m.Schema()
	if !ok {
		return codemodel.Unit, nil
	}
	return g.typeOf(schema, source.SchemaFromMediaType(m.Source()), hint)
}

// contentSum declares a sum type with one variant per media range.
func (g *generator) contentSum(name string, content []spec.Named[spec.MediaType]) (*codemodel.SumType, error) {
	name = g.uncollideType(name)
	b := codemodel.NewSumType(name).Attr(g.attr("derive", deriveDebug))
	for _, c := range content {
		variant := naming.Uncollide(b.HasVariant, naming.MediaRangeVariant(c.Name))
		t, err := g.mediaType(c.Value, name+variant)
		if err != nil {
			return nil, err
		}
		b.Tuple(variant, []codemodel.Member{codemodel.Of(t)})
	}
	return g.insertSum(b)
}

type statusEntry struct {
	name     string
	response spec.Response
}

// responses builds the Ok and Error types of an operation. 2xx statuses
// are successes; every other status, default included, is an error.
func (g *generator) responses(prefix string, op spec.Operation) (okType, errType codemodel.TypeRef, err error) {
	var success, failure []statusEntry
	for _, sr := range op.Responses() {
		resp, err := sr.Response.ResolveFully()
		if err != nil {
			return nil, nil, fmt.Errorf("%s: response %s: %w", op.Source(), sr.Status, err)
		}
		e := statusEntry{name: naming.StatusName(sr.Status), response: resp}
		if sr.Status.IsSuccess() {
			success = append(success, e)
		} else {
			failure = append(failure, e)
		}
	}

	okTypes := make([]codemodel.TypeRef, len(success))
	for i, e := range success {
		okTypes[i] = codemodel.Unit
		if content := e.response.Content(); len(content) > 0 {
			if okTypes[i], err = g.contentSum(prefix+e.name, content); err != nil {
				return nil, nil, err
			}
		}
	}
	switch len(success) {
	case 0:
		okType = codemodel.Unit
	case 1:
		okType = okTypes[0]
	default:
		b := codemodel.NewSumType(g.uncollideType(prefix + "Ok")).Attr(g.attr("derive", deriveDebug))
		for i, e := range success {
			b.Tuple(naming.Uncollide(b.HasVariant, e.name), []codemodel.Member{codemodel.Of(okTypes[i])})
		}
		if okType, err = g.insertSum(b); err != nil {
			return nil, nil, err
		}
	}

	errTypes := make([]codemodel.TypeRef, len(failure))
	for i, e := range failure {
		switch content := e.response.Content(); len(content) {
		case 0:
			errTypes[i] = codemodel.Unit
		case 1:
			errTypes[i], err = g.mediaType(content[0].Value, prefix+e.name)
		default:
			errTypes[i], err = g.contentSum(prefix+e.name, content)
		}
		if err != nil {
			return nil, nil, err
		}
	}
	b := codemodel.NewSumType(g.uncollideType(prefix + "Error")).Attr(g.attr("derive", deriveDebug))
	for i, e := range failure {
		b.Tuple(naming.Uncollide(b.HasVariant, e.name), []codemodel.Member{codemodel.Of(errTypes[i])})
	}
	b.Tuple("UnknownResponse", []codemodel.Member{codemodel.Of(g.cm.HTTPResponse())})
	b.Tuple("OtherError", []codemodel.Member{codemodel.Raw(otherErrorType)})
	if errType, err = g.insertSum(b); err != nil {
		return nil, nil, err
	}
	return okType, errType, nil
}

func (g *generator) insertSum(b *codemodel.SumTypeBuilder) (*codemodel.SumType, error) {
	s, err := b.Build()
	if err != nil {
		return nil, err
	}
	return g.mod.InsertSumType(s)
}
