// Package codemodel is an in-memory graph of Rust declarations: modules,
// records, sum types, aliases, traits and impl blocks. Types may be
// forward-declared as stubs and patched once their body is known.
package codemodel

import (
	"fmt"
	"strings"

	"github.com/mark3labs/openapi2rust/internal/rustsyntax"
)

// CrateLocal is the name of the crate generated code lives in.
const CrateLocal = "crate"

// Codemodel is a set of crates. New fills in the external types that
// generated code refers to.
type Codemodel struct {
	crates namespace[*Module]
}

// New returns a code model holding std, serde_json and http.
func New() *Codemodel {
	c := &Codemodel{}
	c.fillStd()
	return c
}

func (c *Codemodel) fillStd() {
	std := NewModule("std")
	for _, m := range []struct {
		mod     string
		prelude bool
		types   []string
	}{
		{"string", true, []string{"String"}},
		{"vec", true, []string{"Vec"}},
		{"option", true, []string{"Option"}},
		{"result", true, []string{"Result"}},
		{"boxed", true, []string{"Box"}},
		{"collections", false, []string{"HashMap"}},
	} {
		mod := NewModule(m.mod)
		mod.Prelude = m.prelude
		for _, name := range m.types {
			mustInsert(mod, name)
		}
		mustInsertModule(std, mod)
	}
	c.mustInsertCrate(std)

	serdeJSON := NewModule("serde_json")
	mustInsert(serdeJSON, "Value")
	c.mustInsertCrate(serdeJSON)

	http := NewModule("http")
	mustInsert(http, "Response")
	c.mustInsertCrate(http)
}

func mustInsert(m *Module, name string) {
	if _, err := m.InsertRecord(&Record{decl: decl{name: name}}); err != nil {
		panic(err)
	}
}

func mustInsertModule(parent, child *Module) {
	if _, err := parent.InsertModule(child); err != nil {
		panic(err)
	}
}

func (c *Codemodel) mustInsertCrate(m *Module) {
	if _, err := c.InsertCrate(m); err != nil {
		panic(err)
	}
}

// InsertCrate adds a root module.
func (c *Codemodel) InsertCrate(m *Module) (*Module, error) {
	if m.parent != nil {
		return nil, fmt.Errorf("codemodel: %s is not a root module", m.name)
	}
	if err := c.crates.insert(m.name, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Crate returns the crate named name.
func (c *Codemodel) Crate(name string) (*Module, bool) { return c.crates.find(name) }

// LocalCrate returns the crate generated code is built into, creating it
// on first use.
func (c *Codemodel) LocalCrate() *Module {
	if m, ok := c.Crate(CrateLocal); ok {
		return m
	}
	m := NewModule(CrateLocal)
	c.mustInsertCrate(m)
	return m
}

// FindType resolves a fully qualified name such as
// "std::collections::HashMap". Unresolved stubs are not found.
func (c *Codemodel) FindType(fqtn string) (TypeRef, error) {
	path, err := rustsyntax.ParsePath(strings.TrimPrefix(fqtn, "::"))
	if err != nil {
		return nil, err
	}
	if len(path.Segments) < 2 {
		return nil, fmt.Errorf("codemodel: %q names no crate", fqtn)
	}
	mod, ok := c.Crate(path.Segments[0])
	if !ok {
		return nil, fmt.Errorf("codemodel: unknown crate in %q", fqtn)
	}
	for _, seg := range path.Segments[1 : len(path.Segments)-1] {
		if mod, ok = mod.FindModule(seg); !ok {
			return nil, fmt.Errorf("codemodel: unknown module %s in %q", seg, fqtn)
		}
	}
	t, ok := mod.FindType(path.Last())
	if !ok {
		return nil, fmt.Errorf("codemodel: no type %q", fqtn)
	}
	return t, nil
}

func (c *Codemodel) mustFind(fqtn string) TypeRef {
	t, err := c.FindType(fqtn)
	if err != nil {
		panic(err)
	}
	return t
}

// Instance applies params to a generic type.
func Instance(head TypeRef, params ...TypeRef) TypeRef {
	return &GenericInstance{Head: head, Params: params}
}

func (c *Codemodel) StringType() TypeRef      { return c.mustFind("std::string::String") }
func (c *Codemodel) JSON() TypeRef            { return c.mustFind("serde_json::Value") }
func (c *Codemodel) Vec(t TypeRef) TypeRef    { return Instance(c.mustFind("std::vec::Vec"), t) }
func (c *Codemodel) Option(t TypeRef) TypeRef { return Instance(c.mustFind("std::option::Option"), t) }
func (c *Codemodel) Box(t TypeRef) TypeRef    { return Instance(c.mustFind("std::boxed::Box"), t) }

func (c *Codemodel) Result(ok, err TypeRef) TypeRef {
	return Instance(c.mustFind("std::result::Result"), ok, err)
}

func (c *Codemodel) HashMap(k, v TypeRef) TypeRef {
	return Instance(c.mustFind("std::collections::HashMap"), k, v)
}

// HTTPResponse is ::http::Response<::std::vec::Vec<u8>>.
func (c *Codemodel) HTTPResponse() TypeRef {
	return Instance(c.mustFind("http::Response"), c.Vec(U8))
}
