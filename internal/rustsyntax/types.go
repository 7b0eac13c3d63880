package rustsyntax

import (
	"fmt"
	"strings"
	"unicode"
)

// TypeKind classifies a parsed type expression.
type TypeKind int

const (
	KindPath  TypeKind = iota // a::b::C<T>
	KindTuple                 // (), (A,), (A, B)
	KindRef                   // &'a mut T
	KindSlice                 // [T]
	KindDyn                   // dyn a::Trait
)

// Segment is one path segment with its generic arguments.
type Segment struct {
	Name string
	Args []Type
}

// Type is a parsed Rust type expression.
type Type struct {
	Kind     TypeKind
	Global   bool      // path starts with ::
	Segments []Segment // KindPath, KindDyn
	Elems    []Type    // KindTuple; KindRef and KindSlice hold one
	Lifetime string    // KindRef, without the quote
	Mut      bool      // KindRef
}

// ParseType parses s as a type expression. Whitespace is insignificant.
func ParseType(s string) (Type, error) {
	toks, err := lexType(s)
	if err != nil {
		return Type{}, err
	}
	p := &typeParser{src: s, toks: toks}
	t, err := p.parseType()
	if err != nil {
		return Type{}, err
	}
	if p.pos != len(p.toks) {
		return Type{}, p.errorf("unexpected %q", p.toks[p.pos])
	}
	return t, nil
}

// NormalizeType reparses s and renders it in canonical spacing.
func NormalizeType(s string) (string, error) {
	t, err := ParseType(s)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

func (t Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t Type) write(b *strings.Builder) {
	switch t.Kind {
	case KindTuple:
		b.WriteByte('(')
		for i, e := range t.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			e.write(b)
		}
		if len(t.Elems) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case KindRef:
		b.WriteByte('&')
		if t.Lifetime != "" {
			b.WriteString("'" + t.Lifetime + " ")
		}
		if t.Mut {
			b.WriteString("mut ")
		}
		t.Elems[0].write(b)
	case KindSlice:
		b.WriteByte('[')
		t.Elems[0].write(b)
		b.WriteByte(']')
	case KindDyn:
		b.WriteString("dyn ")
		t.writePath(b)
	default:
		t.writePath(b)
	}
}

func (t Type) writePath(b *strings.Builder) {
	if t.Global {
		b.WriteString("::")
	}
	for i, seg := range t.Segments {
		if i > 0 {
			b.WriteString("::")
		}
		b.WriteString(seg.Name)
		if len(seg.Args) == 0 {
			continue
		}
		b.WriteByte('<')
		for j, a := range seg.Args {
			if j > 0 {
				b.WriteString(", ")
			}
			a.write(b)
		}
		b.WriteByte('>')
	}
}

func lexType(s string) ([]string, error) {
	var toks []string
	rs := []rune(s)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == ':':
			if i+1 >= len(rs) || rs[i+1] != ':' {
				return nil, fmt.Errorf("%w: %q: lone ':'", ErrInvalidType, s)
			}
			toks = append(toks, "::")
			i += 2
		case strings.ContainsRune("<>(),&[]", r):
			toks = append(toks, string(r))
			i++
		case r == '\'' || r == '$' || r == '_' || unicode.IsLetter(r):
			j := i + 1
			for j < len(rs) && (rs[j] == '_' || unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j])) {
				j++
			}
			toks = append(toks, string(rs[i:j]))
			i = j
		default:
			return nil, fmt.Errorf("%w: %q: unexpected %q", ErrInvalidType, s, r)
		}
	}
	return toks, nil
}

type typeParser struct {
	src  string
	toks []string
	pos  int
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %q: %s", ErrInvalidType, p.src, fmt.Sprintf(format, args...))
}

func (p *typeParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *typeParser) accept(tok string) bool {
	if p.peek() == tok {
		p.pos++
		return true
	}
	return false
}

func (p *typeParser) expect(tok string) error {
	if !p.accept(tok) {
		if p.pos >= len(p.toks) {
			return p.errorf("expected %q at end", tok)
		}
		return p.errorf("expected %q, found %q", tok, p.peek())
	}
	return nil
}

func (p *typeParser) parseType() (Type, error) {
	switch tok := p.peek(); {
	case tok == "":
		return Type{}, p.errorf("missing type")
	case tok == "(":
		p.pos++
		t := Type{Kind: KindTuple}
		trailing := false
		for !p.accept(")") {
			elem, err := p.parseType()
			if err != nil {
				return Type{}, err
			}
			t.Elems = append(t.Elems, elem)
			trailing = p.accept(",")
			if !trailing {
				if err := p.expect(")"); err != nil {
					return Type{}, err
				}
				break
			}
		}
		// (T) is a parenthesized type, not a tuple.
		if len(t.Elems) == 1 && !trailing {
			return t.Elems[0], nil
		}
		return t, nil
	case tok == "&":
		p.pos++
		t := Type{Kind: KindRef}
		if l := p.peek(); strings.HasPrefix(l, "'") {
			if !isIdentShape(l[1:]) && l[1:] != "_" {
				return Type{}, p.errorf("bad lifetime %q", l)
			}
			t.Lifetime = l[1:]
			p.pos++
		}
		t.Mut = p.accept("mut")
		elem, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		t.Elems = []Type{elem}
		return t, nil
	case tok == "[":
		p.pos++
		elem, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		if err := p.expect("]"); err != nil {
			return Type{}, err
		}
		return Type{Kind: KindSlice, Elems: []Type{elem}}, nil
	case tok == "dyn":
		p.pos++
		t, err := p.parsePath()
		if err != nil {
			return Type{}, err
		}
		t.Kind = KindDyn
		return t, nil
	default:
		return p.parsePath()
	}
}

func (p *typeParser) parsePath() (Type, error) {
	t := Type{Kind: KindPath, Global: p.accept("::")}
	for {
		name := p.peek()
		switch {
		case name == "":
			return Type{}, p.errorf("missing path segment")
		case pathKeywords[name] || name == "Self":
			if len(t.Segments) > 0 && name != "super" || t.Global {
				return Type{}, p.errorf("%s not in leading position", name)
			}
		case !IsIdent(name):
			return Type{}, p.errorf("bad path segment %q", name)
		}
		p.pos++
		seg := Segment{Name: name}
		if p.accept("<") {
			for {
				arg, err := p.parseType()
				if err != nil {
					return Type{}, err
				}
				seg.Args = append(seg.Args, arg)
				if p.accept(">") {
					break
				}
				if err := p.expect(","); err != nil {
					return Type{}, err
				}
			}
		}
		t.Segments = append(t.Segments, seg)
		if !p.accept("::") {
			return t, nil
		}
	}
}
