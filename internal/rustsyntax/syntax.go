// Package rustsyntax holds the lexical rules of Rust that the code model and
// emitter validate against: keywords, identifiers, simple paths and a small
// type-expression grammar.
package rustsyntax

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrInvalidIdent = errors.New("invalid Rust identifier")
	ErrInvalidPath  = errors.New("invalid Rust path")
	ErrInvalidType  = errors.New("invalid Rust type")
)

// Strict and reserved keywords of the 2021 edition plus gen from 2024.
var keywords = map[string]struct{}{}

func init() {
	for _, k := range strings.Fields(`as async await break const continue crate dyn else enum extern
		false fn for if impl in let loop match mod move mut pub ref return self Self static struct
		super trait true type unsafe use where while
		abstract become box do final gen macro override priv typeof unsized virtual yield try`) {
		keywords[k] = struct{}{}
	}
}

// IsKeyword reports whether s is a strict or reserved keyword.
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

// IsIdent reports whether s lexes as a non-keyword identifier.
func IsIdent(s string) bool {
	return isIdentShape(s) && !IsKeyword(s)
}

// CheckIdent is IsIdent as an error.
func CheckIdent(s string) error {
	if !IsIdent(s) {
		return fmt.Errorf("%w: %q", ErrInvalidIdent, s)
	}
	return nil
}

func isIdentShape(s string) bool {
	if s == "" || s == "_" {
		return false
	}
	for i, r := range s {
		if i == 0 && !(r == '_' || unicode.IsLetter(r)) {
			return false
		}
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r) {
			return false
		}
	}
	return true
}

// pathKeywords are the keywords allowed as simple path segments.
var pathKeywords = map[string]bool{"self": true, "super": true, "crate": true, "$crate": true}

// Path is a simple path: `::`? segment (`::` segment)*.
type Path struct {
	Global   bool
	Segments []string
}

// ParsePath validates and splits s.
func ParsePath(s string) (Path, error) {
	var p Path
	rest := s
	if strings.HasPrefix(rest, "::") {
		p.Global = true
		rest = rest[2:]
	}
	if rest == "" {
		return Path{}, fmt.Errorf("%w: %q is empty", ErrInvalidPath, s)
	}
	for i, seg := range strings.Split(rest, "::") {
		if pathKeywords[seg] {
			// self, crate and $crate lead a path; super may follow self or super.
			leading := i == 0 || seg == "super" && (p.Segments[i-1] == "self" || p.Segments[i-1] == "super")
			if !leading || p.Global {
				return Path{}, fmt.Errorf("%w: %q: %s not in leading position", ErrInvalidPath, s, seg)
			}
		} else if !IsIdent(seg) {
			return Path{}, fmt.Errorf("%w: %q: bad segment %q", ErrInvalidPath, s, seg)
		}
		p.Segments = append(p.Segments, seg)
	}
	return p, nil
}

// MustPath panics when s is not a valid path. For package-level literals.
func MustPath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Last returns the final segment.
func (p Path) Last() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

func (p Path) String() string {
	s := strings.Join(p.Segments, "::")
	if p.Global {
		return "::" + s
	}
	return s
}
