package codemodel

import (
	"strings"

	"github.com/mark3labs/openapi2rust/internal/rustsyntax"
)

// TypeRef is a handle to a type in the code model.
type TypeRef interface {
	// Name is the type's own name, or its rendering for structural types.
	Name() string
	typeRef()
}

// Builtin is a primitive type.
type Builtin string

const (
	U8   Builtin = "u8"
	U16  Builtin = "u16"
	U32  Builtin = "u32"
	U64  Builtin = "u64"
	I8   Builtin = "i8"
	I16  Builtin = "i16"
	I32  Builtin = "i32"
	I64  Builtin = "i64"
	F32  Builtin = "f32"
	F64  Builtin = "f64"
	Bool Builtin = "bool"
	Str  Builtin = "str"
	Unit Builtin = "()"
)

func (b Builtin) Name() string { return string(b) }
func (Builtin) typeRef()       {}

// SelfType is `Self` inside a trait or impl.
type SelfType struct{}

func (SelfType) Name() string { return "Self" }
func (SelfType) typeRef()     {}

// decl is the part shared by every named, module-owned type.
type decl struct {
	name  string
	owner *Module
}

func (d *decl) Name() string { return d.name }

// Owner is the module the type was inserted into, nil before insertion.
func (d *decl) Owner() *Module { return d.owner }

func (d *decl) setOwner(m *Module) { d.owner = m }

// Attr is an outer attribute `#[path tokens]`.
type Attr struct {
	Path   rustsyntax.Path
	Tokens string
}

// NewAttr validates path.
func NewAttr(path, tokens string) (Attr, error) {
	p, err := rustsyntax.ParsePath(path)
	if err != nil {
		return Attr{}, &CodeError{Kind: AttrPathInvalid, Name: path, Cause: err}
	}
	return Attr{Path: p, Tokens: tokens}, nil
}

func (a Attr) String() string { return "#[" + a.Path.String() + a.Tokens + "]" }

// Member is a field or positional payload: a type, or raw tokens when
// the type cannot be expressed in the model.
type Member struct {
	Type   TypeRef
	Tokens string
}

// Of wraps a type as a Member.
func Of(t TypeRef) Member { return Member{Type: t} }

// Raw wraps a token string as a Member.
func Raw(tokens string) Member { return Member{Tokens: tokens} }

// Field is a named record or variant member.
type Field struct {
	Name   string
	Member Member
	Attrs  []Attr
}

// Record is a product type with named fields.
type Record struct {
	decl
	attrs  []Attr
	fields []Field
}

func (*Record) typeRef() {}

func (r *Record) Attrs() []Attr   { return r.attrs }
func (r *Record) Fields() []Field { return r.fields }

// VariantKind is the payload shape of a sum type variant.
type VariantKind int

const (
	UnitVariant VariantKind = iota
	TupleVariant
	RecordVariant
)

// Variant is one case of a SumType.
type Variant struct {
	Name   string
	Kind   VariantKind
	Items  []Member // TupleVariant
	Fields []Field  // RecordVariant
	Attrs  []Attr
}

// SumType is a tagged union.
type SumType struct {
	decl
	attrs    []Attr
	variants []Variant
}

func (*SumType) typeRef() {}

func (s *SumType) Attrs() []Attr       { return s.attrs }
func (s *SumType) Variants() []Variant { return s.variants }

// Alias is `type Name = Target;`.
type Alias struct {
	decl
	target TypeRef
}

// NewAlias returns an alias to target.
func NewAlias(name string, target TypeRef) *Alias {
	return &Alias{decl: decl{name: name}, target: target}
}

func (*Alias) typeRef()          {}
func (a *Alias) Target() TypeRef { return a.target }

// Indirection is a forward declaration. It starts as a stub and is patched
// once the named type is inserted; afterwards it forwards to that type.
type Indirection struct {
	decl
	target TypeRef
}

func (*Indirection) typeRef() {}

// Name forwards to the resolved type.
func (i *Indirection) Name() string {
	if i.target != nil {
		return i.target.Name()
	}
	return i.name
}

// IsStub reports whether the indirection is still unresolved.
func (i *Indirection) IsStub() bool { return i.target == nil }

// Target returns the resolved type, or nil for a stub.
func (i *Indirection) Target() TypeRef { return i.target }

// GenericInstance applies type parameters to a generic head.
type GenericInstance struct {
	Head   TypeRef
	Params []TypeRef
}

func (*GenericInstance) typeRef() {}

func (g *GenericInstance) Name() string {
	names := make([]string, len(g.Params))
	for i, p := range g.Params {
		names[i] = p.Name()
	}
	return g.Head.Name() + "<" + strings.Join(names, ", ") + ">"
}

// RefTo is a reference `&'lifetime mut Target`.
type RefTo struct {
	Target   TypeRef
	Mut      bool
	Lifetime string
}

func (*RefTo) typeRef() {}

func (r *RefTo) Name() string {
	return refPrefix(r) + r.Target.Name()
}

func refPrefix(r *RefTo) string {
	s := "&"
	if r.Lifetime != "" {
		s += "'" + r.Lifetime + " "
	}
	if r.Mut {
		s += "mut "
	}
	return s
}

// Resolve strips resolved indirections. A stub is returned as is.
func Resolve(t TypeRef) TypeRef {
	for {
		ind, ok := t.(*Indirection)
		if !ok || ind.IsStub() {
			return t
		}
		t = ind.target
	}
}

// Unresolved returns the first stub reachable from t without passing
// through a named type.
func Unresolved(t TypeRef) *Indirection {
	switch t := t.(type) {
	case *Indirection:
		if t.IsStub() {
			return t
		}
		return Unresolved(t.target)
	case *GenericInstance:
		if s := Unresolved(t.Head); s != nil {
			return s
		}
		for _, p := range t.Params {
			if s := Unresolved(p); s != nil {
				return s
			}
		}
	case *RefTo:
		return Unresolved(t.Target)
	}
	return nil
}

// QualifiedName renders t as written inside module from.
func QualifiedName(t TypeRef, from *Module) string {
	switch t := t.(type) {
	case *Indirection:
		if t.IsStub() {
			return t.name
		}
		return QualifiedName(t.target, from)
	case *GenericInstance:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = QualifiedName(p, from)
		}
		return QualifiedName(t.Head, from) + "<" + strings.Join(params, ", ") + ">"
	case *RefTo:
		return refPrefix(t) + QualifiedName(t.Target, from)
	case *Record:
		return declPath(&t.decl, from)
	case *SumType:
		return declPath(&t.decl, from)
	case *Alias:
		return declPath(&t.decl, from)
	}
	return t.Name()
}

func declPath(d *decl, from *Module) string {
	owner := d.owner
	if owner == nil || owner == from {
		return d.name
	}
	// A prelude name is written bare unless from declares its own type
	// with that name.
	if owner.Prelude && (from == nil || !from.ContainsType(d.name)) {
		return d.name
	}
	if from == nil || owner.Root() != from.Root() {
		return "::" + strings.Join(append(owner.path(), d.name), "::")
	}
	// Same crate: climb to the common ancestor, then descend.
	up, down := from.path(), owner.path()
	common := 0
	for common < len(up) && common < len(down) && up[common] == down[common] {
		common++
	}
	segs := make([]string, 0, len(up)-common+len(down)-common+1)
	for range up[common:] {
		segs = append(segs, "super")
	}
	segs = append(segs, down[common:]...)
	return strings.Join(append(segs, d.name), "::")
}
