package rustemitter

import (
	"fmt"
	"strings"

	"github.com/mark3labs/openapi2rust/internal/codemodel"
	"github.com/mark3labs/openapi2rust/internal/rustsyntax"
)

// Banner is the first line of every generated file.
const Banner = "// Code generated by openapi2rust. DO NOT EDIT."

const innerAttrs = "#![allow(dead_code, non_camel_case_types, non_snake_case, unused_imports, unused_variables, clippy::all)]"

const indentUnit = "    "

// printer renders a module tree as indented Rust source.
type printer struct {
	b      strings.Builder
	depth  int
	module *codemodel.Module // module whose items are being printed
}

func (p *printer) line(format string, args ...any) {
	if format == "" {
		p.b.WriteByte('\n')
		return
	}
	p.b.WriteString(strings.Repeat(indentUnit, p.depth))
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteByte('\n')
}

// Render serializes m, wrapped in `pub mod name`, to Rust source.
func Render(m *codemodel.Module, name string) ([]byte, error) {
	if err := ident(name); err != nil {
		return nil, fmt.Errorf("module name: %w", err)
	}
	p := &printer{}
	p.line(Banner)
	p.line("")
	p.line("pub mod %s {", name)
	p.depth++
	p.line(innerAttrs)
	if err := p.moduleBody(m); err != nil {
		return nil, err
	}
	p.depth--
	p.line("}")
	return []byte(p.b.String()), nil
}

// moduleBody prints traits, then types, then impl blocks, then child modules.
func (p *printer) moduleBody(m *codemodel.Module) error {
	outer := p.module
	p.module = m
	defer func() { p.module = outer }()

	for _, tr := range m.Traits() {
		p.line("")
		if err := p.trait(tr); err != nil {
			return err
		}
	}
	for _, t := range m.Types() {
		p.line("")
		if err := p.typeDecl(t); err != nil {
			return err
		}
	}
	for _, impl := range m.Implementations() {
		p.line("")
		if err := p.impl(impl); err != nil {
			return err
		}
	}
	for _, child := range m.Modules() {
		if err := ident(child.Name()); err != nil {
			return err
		}
		p.line("")
		p.line("pub mod %s {", child.Name())
		p.depth++
		if err := p.moduleBody(child); err != nil {
			return err
		}
		p.depth--
		p.line("}")
	}
	return nil
}

func (p *printer) typeDecl(t codemodel.TypeRef) error {
	switch t := t.(type) {
	case *codemodel.Indirection:
		return fmt.Errorf("%w: %s", ErrUnresolvedStub, t.Name())
	case *codemodel.Record:
		return p.record(t)
	case *codemodel.SumType:
		return p.sum(t)
	case *codemodel.Alias:
		if err := ident(t.Name()); err != nil {
			return err
		}
		target, err := p.typeName(t.Target())
		if err != nil {
			return fmt.Errorf("alias %s: %w", t.Name(), err)
		}
		p.line("pub type %s = %s;", t.Name(), target)
		return nil
	}
	return fmt.Errorf("rustemitter: cannot declare %T %s", t, t.Name())
}

func (p *printer) attrs(attrs []codemodel.Attr) {
	for _, a := range attrs {
		p.line("%s", a.String())
	}
}

func (p *printer) record(r *codemodel.Record) error {
	if err := ident(r.Name()); err != nil {
		return err
	}
	p.attrs(r.Attrs())
	if len(r.Fields()) == 0 {
		p.line("pub struct %s {}", r.Name())
		return nil
	}
	p.line("pub struct %s {", r.Name())
	p.depth++
	if err := p.fields(r.Fields(), "pub "); err != nil {
		return fmt.Errorf("struct %s: %w", r.Name(), err)
	}
	p.depth--
	p.line("}")
	return nil
}

func (p *printer) fields(fields []codemodel.Field, vis string) error {
	for _, f := range fields {
		if err := ident(f.Name); err != nil {
			return err
		}
		t, err := p.member(f.Member)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		p.attrs(f.Attrs)
		p.line("%s%s: %s,", vis, f.Name, t)
	}
	return nil
}

func (p *printer) sum(s *codemodel.SumType) error {
	if err := ident(s.Name()); err != nil {
		return err
	}
	p.attrs(s.Attrs())
	if len(s.Variants()) == 0 {
		p.line("pub enum %s {}", s.Name())
		return nil
	}
	p.line("pub enum %s {", s.Name())
	p.depth++
	for _, v := range s.Variants() {
		if err := ident(v.Name); err != nil {
			return fmt.Errorf("enum %s: %w", s.Name(), err)
		}
		p.attrs(v.Attrs)
		switch v.Kind {
		case codemodel.UnitVariant:
			p.line("%s,", v.Name)
		case codemodel.TupleVariant:
			items := make([]string, len(v.Items))
			for i, m := range v.Items {
				t, err := p.member(m)
				if err != nil {
					return fmt.Errorf("enum %s::%s: %w", s.Name(), v.Name, err)
				}
				items[i] = t
			}
			p.line("%s(%s),", v.Name, strings.Join(items, ", "))
		case codemodel.RecordVariant:
			p.line("%s {", v.Name)
			p.depth++
			if err := p.fields(v.Fields, ""); err != nil {
				return fmt.Errorf("enum %s::%s: %w", s.Name(), v.Name, err)
			}
			p.depth--
			p.line("},")
		}
	}
	p.depth--
	p.line("}")
	return nil
}

func (p *printer) trait(tr *codemodel.Trait) error {
	if err := ident(tr.Name()); err != nil {
		return err
	}
	if len(tr.Functions) == 0 {
		p.line("pub trait %s {}", tr.Name())
		return nil
	}
	p.line("pub trait %s {", tr.Name())
	p.depth++
	for _, fn := range tr.Functions {
		if err := p.function(fn, false); err != nil {
			return fmt.Errorf("trait %s: %w", tr.Name(), err)
		}
	}
	p.depth--
	p.line("}")
	return nil
}

func (p *printer) impl(impl *codemodel.Implementation) error {
	self, err := p.typeName(impl.Type)
	if err != nil {
		return fmt.Errorf("impl: %w", err)
	}
	head := "impl " + self
	if !impl.IsInherent() {
		head = "impl " + impl.Trait.Name() + " for " + self
	}
	if len(impl.Functions) == 0 {
		p.line("%s {}", head)
		return nil
	}
	p.line("%s {", head)
	p.depth++
	for i, fn := range impl.Functions {
		if i > 0 {
			p.line("")
		}
		if err := p.function(fn, impl.IsInherent()); err != nil {
			return fmt.Errorf("%s: %w", head, err)
		}
	}
	p.depth--
	p.line("}")
	return nil
}

// function prints a signature, public iff it belongs to an inherent impl,
// with its body or a terminating semicolon.
func (p *printer) function(fn *codemodel.Function, public bool) error {
	if err := ident(fn.Name); err != nil {
		return err
	}
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		s, err := p.param(param)
		if err != nil {
			return fmt.Errorf("fn %s: %w", fn.Name, err)
		}
		params[i] = s
	}
	sig := "fn " + fn.Name + "(" + strings.Join(params, ", ") + ")"
	if public {
		sig = "pub " + sig
	}
	if fn.Return != nil && fn.Return != codemodel.Unit {
		ret, err := p.typeName(fn.Return)
		if err != nil {
			return fmt.Errorf("fn %s: %w", fn.Name, err)
		}
		sig += " -> " + ret
	}
	if fn.Body == nil {
		p.line("%s;", sig)
		return nil
	}
	p.line("%s {", sig)
	p.depth++
	for _, l := range strings.Split(*fn.Body, "\n") {
		p.line("%s", l)
	}
	p.depth--
	p.line("}")
	return nil
}

func (p *printer) param(param codemodel.Param) (string, error) {
	if param.Name == "self" {
		if ref, ok := param.Type.(*codemodel.RefTo); ok {
			if _, isSelf := ref.Target.(codemodel.SelfType); isSelf && ref.Lifetime == "" {
				if ref.Mut {
					return "&mut self", nil
				}
				return "&self", nil
			}
		}
	} else if err := ident(param.Name); err != nil {
		return "", err
	}
	t, err := p.typeName(param.Type)
	if err != nil {
		return "", fmt.Errorf("param %s: %w", param.Name, err)
	}
	return param.Name + ": " + t, nil
}

func (p *printer) member(m codemodel.Member) (string, error) {
	if m.Type == nil {
		return reparse(m.Tokens)
	}
	return p.typeName(m.Type)
}

// typeName renders t relative to the current module and reparses it.
func (p *printer) typeName(t codemodel.TypeRef) (string, error) {
	if stub := codemodel.Unresolved(t); stub != nil {
		return "", fmt.Errorf("%w: %s", ErrUnresolvedStub, stub.Name())
	}
	return reparse(codemodel.QualifiedName(t, p.module))
}

func reparse(s string) (string, error) {
	out, err := rustsyntax.NormalizeType(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReparse, err)
	}
	return out, nil
}

func ident(s string) error {
	if !rustsyntax.IsIdent(s) {
		return fmt.Errorf("%w: identifier %q", ErrReparse, s)
	}
	return nil
}
