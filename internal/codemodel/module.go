package codemodel

import "github.com/mark3labs/openapi2rust/internal/rustsyntax"

type named interface{ Name() string }

// namespace is an insertion-ordered set of uniquely named items.
type namespace[T named] struct {
	items []T
	index map[string]int
}

func (ns *namespace[T]) find(name string) (T, bool) {
	if i, ok := ns.index[name]; ok {
		return ns.items[i], true
	}
	var zero T
	return zero, false
}

func (ns *namespace[T]) insert(name string, item T) error {
	if _, ok := ns.index[name]; ok {
		return codeErr(ItemAlreadyPresent, name)
	}
	if ns.index == nil {
		ns.index = make(map[string]int)
	}
	ns.index[name] = len(ns.items)
	ns.items = append(ns.items, item)
	return nil
}

func (ns *namespace[T]) replace(name string, item T) {
	ns.items[ns.index[name]] = item
}

// Module is a named container of types, traits, impl blocks and child
// modules. A crate is a module without a parent.
type Module struct {
	name   string
	parent *Module
	// Prelude marks modules whose types are referenced by bare name.
	Prelude bool

	types  namespace[TypeRef]
	mods   namespace[*Module]
	traits namespace[*Trait]
	impls  []*Implementation
}

// NewModule returns an empty module.
func NewModule(name string) *Module {
	return &Module{name: name}
}

func (m *Module) Name() string    { return m.name }
func (m *Module) Parent() *Module { return m.parent }

// Root returns the crate containing m.
func (m *Module) Root() *Module {
	for m.parent != nil {
		m = m.parent
	}
	return m
}

func (m *Module) path() []string {
	if m.parent == nil {
		return []string{m.name}
	}
	return append(m.parent.path(), m.name)
}

// Types lists the module's types in insertion order. Patched stubs appear
// as the type that replaced them.
func (m *Module) Types() []TypeRef                   { return m.types.items }
func (m *Module) Modules() []*Module                 { return m.mods.items }
func (m *Module) Traits() []*Trait                   { return m.traits.items }
func (m *Module) Implementations() []*Implementation { return m.impls }

// InsertTypeStub forward-declares name.
func (m *Module) InsertTypeStub(name string) (*Indirection, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	stub := &Indirection{decl: decl{name: name, owner: m}}
	if err := m.types.insert(name, stub); err != nil {
		return nil, err
	}
	return stub, nil
}

// InsertRecord adds r, patching a stub of the same name.
func (m *Module) InsertRecord(r *Record) (*Record, error) {
	if err := m.insertType(&r.decl, r); err != nil {
		return nil, err
	}
	return r, nil
}

// InsertSumType adds s, patching a stub of the same name.
func (m *Module) InsertSumType(s *SumType) (*SumType, error) {
	if err := m.insertType(&s.decl, s); err != nil {
		return nil, err
	}
	return s, nil
}

// InsertAlias adds a, patching a stub of the same name.
func (m *Module) InsertAlias(a *Alias) (*Alias, error) {
	if err := m.insertType(&a.decl, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (m *Module) insertType(d *decl, t TypeRef) error {
	if err := checkName(d.name); err != nil {
		return err
	}
	if existing, ok := m.types.find(d.name); ok {
		stub, isStub := existing.(*Indirection)
		if !isStub || !stub.IsStub() {
			return codeErr(ItemAlreadyPresent, d.name)
		}
		d.setOwner(m)
		stub.target = t
		m.types.replace(d.name, t)
		return nil
	}
	d.setOwner(m)
	return m.types.insert(d.name, t)
}

// InsertModule adds child as a submodule of m.
func (m *Module) InsertModule(child *Module) (*Module, error) {
	if err := checkName(child.name); err != nil {
		return nil, err
	}
	if err := m.mods.insert(child.name, child); err != nil {
		return nil, err
	}
	child.parent = m
	return child, nil
}

// InsertTrait adds t.
func (m *Module) InsertTrait(t *Trait) (*Trait, error) {
	if err := checkName(t.name); err != nil {
		return nil, err
	}
	if err := m.traits.insert(t.name, t); err != nil {
		return nil, err
	}
	return t, nil
}

// InsertImplementation appends an impl block.
func (m *Module) InsertImplementation(impl *Implementation) *Implementation {
	m.impls = append(m.impls, impl)
	return impl
}

// FindType looks a type up by name. Unresolved stubs are not found.
func (m *Module) FindType(name string) (TypeRef, bool) {
	t, ok := m.types.find(name)
	if !ok {
		return nil, false
	}
	if stub, isStub := t.(*Indirection); isStub && stub.IsStub() {
		return nil, false
	}
	return t, true
}

// ContainsType reports whether name is taken, stubs included.
func (m *Module) ContainsType(name string) bool {
	_, ok := m.types.find(name)
	return ok
}

func (m *Module) FindModule(name string) (*Module, bool) { return m.mods.find(name) }
func (m *Module) FindTrait(name string) (*Trait, bool)   { return m.traits.find(name) }

// InherentImpl returns the first inherent impl block for t, if any.
func (m *Module) InherentImpl(t TypeRef) *Implementation {
	for _, impl := range m.impls {
		if impl.Trait == nil && Resolve(impl.Type) == Resolve(t) {
			return impl
		}
	}
	return nil
}

func checkName(name string) error {
	if !rustsyntax.IsIdent(name) {
		return codeErr(InvalidIdentifier, name)
	}
	return nil
}
