package codemodel

// Param is a function parameter. A parameter named self with a reference
// to SelfType is a receiver.
type Param struct {
	Name string
	Type TypeRef
}

// Function is a function signature with an optional body.
type Function struct {
	Name   string
	Params []Param
	Return TypeRef // nil returns ()
	Body   *string // nil for a signature without body
}

// NewFunction validates the function and parameter names.
func NewFunction(name string, params []Param, ret TypeRef, body *string) (*Function, error) {
	if name != "self" {
		if err := checkName(name); err != nil {
			return nil, err
		}
	}
	seen := map[string]bool{}
	for _, p := range params {
		if p.Name == "self" {
			if seen["self"] {
				return nil, codeErr(DuplicateFieldName, p.Name)
			}
			seen["self"] = true
			continue
		}
		if err := checkMember(p.Name, seen, DuplicateFieldName); err != nil {
			return nil, err
		}
	}
	return &Function{Name: name, Params: params, Return: ret, Body: body}, nil
}

// Body returns a pointer to tokens for use as a function body.
func Body(tokens string) *string { return &tokens }

// Trait is a named set of function signatures.
type Trait struct {
	name      string
	Functions []*Function
}

func NewTrait(name string) *Trait { return &Trait{name: name} }

func (t *Trait) Name() string { return t.name }

// Implementation is an impl block: inherent when Trait is nil.
type Implementation struct {
	Trait     *Trait
	Type      TypeRef
	Functions []*Function
}

// Inherent returns `impl Type {}`.
func Inherent(t TypeRef) *Implementation { return &Implementation{Type: t} }

// TraitImpl returns `impl Trait for Type {}`.
func TraitImpl(tr *Trait, t TypeRef) *Implementation {
	return &Implementation{Trait: tr, Type: t}
}

// IsInherent reports whether the block implements no trait.
func (i *Implementation) IsInherent() bool { return i.Trait == nil }

// Add appends f.
func (i *Implementation) Add(f *Function) { i.Functions = append(i.Functions, f) }

// Has reports whether a function named name exists in the block.
func (i *Implementation) Has(name string) bool {
	for _, f := range i.Functions {
		if f.Name == name {
			return true
		}
	}
	return false
}
