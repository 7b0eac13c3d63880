package generator

import (
	"strings"

	"github.com/mark3labs/openapi2rust/internal/codemodel"
	"github.com/mark3labs/openapi2rust/internal/naming"
)

// defineTraits groups client functions by tag. Each group becomes a trait
// `{Tag}Api` and an impl of it for the client that forwards to the
// inherent functions.
func (g *generator) defineTraits(client *codemodel.Record, fns []operationFn) error {
	var order []string
	groups := map[string][]*codemodel.Function{}
	for _, f := range fns {
		if _, ok := groups[f.tag]; !ok {
			order = append(order, f.tag)
		}
		groups[f.tag] = append(groups[f.tag], f.fn)
	}

	taken := func(n string) bool {
		_, ok := g.mod.FindTrait(n)
		return ok || g.mod.ContainsType(n)
	}
	receiver := codemodel.Param{Name: "self", Type: &codemodel.RefTo{Target: codemodel.SelfType{}}}

	for _, tag := range order {
		tr := codemodel.NewTrait(naming.Uncollide(taken, naming.TypeName(tag)+"Api"))
		impl := codemodel.TraitImpl(tr, client)
		for _, fn := range groups[tag] {
			params := append([]codemodel.Param{receiver}, fn.Params[1:]...)
			sig, err := codemodel.NewFunction(fn.Name, params, fn.Return, nil)
			if err != nil {
				return err
			}
			tr.Functions = append(tr.Functions, sig)

			args := make([]string, len(params))
			for i, p := range params {
				args[i] = p.Name
			}
			call := client.Name() + "::" + fn.Name + "(" + strings.Join(args, ", ") + ")"
			forward, err := codemodel.NewFunction(fn.Name, params, fn.Return, codemodel.Body(call))
			if err != nil {
				return err
			}
			impl.Add(forward)
		}
		if _, err := g.mod.InsertTrait(tr); err != nil {
			return err
		}
		g.mod.InsertImplementation(impl)
		g.log.Debug("trait", "tag", tag, "trait", tr.Name(), "functions", len(tr.Functions))
	}
	return nil
}
