package codemodel

import "github.com/mark3labs/openapi2rust/internal/rustsyntax"

// RecordBuilder assembles a Record. The first error sticks and is
// returned by Build.
type RecordBuilder struct {
	r     *Record
	names map[string]bool
	err   error
}

// NewRecord starts a record named name.
func NewRecord(name string) *RecordBuilder {
	b := &RecordBuilder{r: &Record{decl: decl{name: name}}, names: map[string]bool{}}
	if err := checkName(name); err != nil {
		b.err = err
	}
	return b
}

// Attr appends an attribute. Repeated paths are allowed.
func (b *RecordBuilder) Attr(a Attr) *RecordBuilder {
	b.r.attrs = append(b.r.attrs, a)
	return b
}

// Field appends a named member.
func (b *RecordBuilder) Field(name string, m Member, attrs ...Attr) *RecordBuilder {
	if b.err != nil {
		return b
	}
	if err := checkMember(name, b.names, DuplicateFieldName); err != nil {
		b.err = err
		return b
	}
	b.r.fields = append(b.r.fields, Field{Name: name, Member: m, Attrs: attrs})
	return b
}

// HasField reports whether name is already a field.
func (b *RecordBuilder) HasField(name string) bool { return b.names[name] }

func (b *RecordBuilder) Build() (*Record, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.r, nil
}

// SumTypeBuilder assembles a SumType.
type SumTypeBuilder struct {
	s     *SumType
	names map[string]bool
	err   error
}

// NewSumType starts a sum type named name.
func NewSumType(name string) *SumTypeBuilder {
	b := &SumTypeBuilder{s: &SumType{decl: decl{name: name}}, names: map[string]bool{}}
	if err := checkName(name); err != nil {
		b.err = err
	}
	return b
}

func (b *SumTypeBuilder) Attr(a Attr) *SumTypeBuilder {
	b.s.attrs = append(b.s.attrs, a)
	return b
}

// Unit appends `Name`.
func (b *SumTypeBuilder) Unit(name string, attrs ...Attr) *SumTypeBuilder {
	return b.variant(Variant{Name: name, Kind: UnitVariant, Attrs: attrs})
}

// Tuple appends `Name(items...)`.
func (b *SumTypeBuilder) Tuple(name string, items []Member, attrs ...Attr) *SumTypeBuilder {
	return b.variant(Variant{Name: name, Kind: TupleVariant, Items: items, Attrs: attrs})
}

// Struct appends `Name { fields... }`.
func (b *SumTypeBuilder) Struct(name string, fields []Field, attrs ...Attr) *SumTypeBuilder {
	seen := map[string]bool{}
	for _, f := range fields {
		if err := checkMember(f.Name, seen, DuplicateFieldName); err != nil && b.err == nil {
			b.err = err
		}
	}
	return b.variant(Variant{Name: name, Kind: RecordVariant, Fields: fields, Attrs: attrs})
}

// HasVariant reports whether name is already a variant.
func (b *SumTypeBuilder) HasVariant(name string) bool { return b.names[name] }

// Len is the number of variants so far.
func (b *SumTypeBuilder) Len() int { return len(b.s.variants) }

func (b *SumTypeBuilder) variant(v Variant) *SumTypeBuilder {
	if b.err != nil {
		return b
	}
	if err := checkMember(v.Name, b.names, DuplicateVariantName); err != nil {
		b.err = err
		return b
	}
	b.s.variants = append(b.s.variants, v)
	return b
}

func (b *SumTypeBuilder) Build() (*SumType, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.s, nil
}

func checkMember(name string, seen map[string]bool, dup ErrorKind) error {
	if !rustsyntax.IsIdent(name) {
		return codeErr(InvalidIdentifier, name)
	}
	if seen[name] {
		return codeErr(dup, name)
	}
	seen[name] = true
	return nil
}
