// Package naming derives Rust identifiers from OpenAPI names.
package naming

import (
	"net/http"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mark3labs/openapi2rust/internal/rustsyntax"
	"github.com/mark3labs/openapi2rust/internal/spec"
)

// Casers carry state and are built per call.
func lower(s string) string { return cases.Lower(language.Und).String(s) }
func title(s string) string { return cases.Title(language.Und).String(s) }

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// Decapitalize lower-cases the first rune of s.
func Decapitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

// AvoidKeyword appends "_" to Rust keywords.
func AvoidKeyword(s string) string {
	if rustsyntax.IsKeyword(s) {
		return s + "_"
	}
	return s
}

// TypeName maps a schema component name to a type name.
func TypeName(name string) string {
	if !validShape(name) {
		name = Camel(name)
	}
	return AvoidKeyword(Capitalize(identStart(name)))
}

// FieldName maps a property name to a field name.
func FieldName(name string) string {
	if !validShape(name) {
		name = Sanitize(name)
	}
	return AvoidKeyword(Decapitalize(identStart(name)))
}

// ParamName maps a parameter name to a function parameter name.
func ParamName(name string) string { return FieldName(name) }

// Sanitize replaces every rune outside [A-Za-z0-9_] with "_", collapses
// runs of "_" and trims them from both ends.
func Sanitize(s string) string {
	var b strings.Builder
	under := false
	for _, r := range s {
		if r < utf8.RuneSelf && (r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if r == '_' {
				if under {
					continue
				}
				under = true
			} else {
				under = false
			}
			b.WriteRune(r)
			continue
		}
		if !under {
			b.WriteByte('_')
			under = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// Camel splits s on runs of non-alphanumerics and concatenates the
// capitalized parts: "bar_name" becomes "BarName".
func Camel(s string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return !(r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)))
	}) {
		b.WriteString(Capitalize(part))
	}
	return b.String()
}

// FunctionName derives the function name of an operation:
// sanitized path segments joined by "_" followed by the method.
func FunctionName(method spec.Method, template string) string {
	var segs []string
	for _, seg := range strings.Split(template, "/") {
		if seg = Sanitize(seg); seg != "" {
			segs = append(segs, seg)
		}
	}
	segs = append(segs, lower(string(method)))
	return AvoidKeyword(identStart(strings.Join(segs, "_")))
}

// OperationTypeName derives the prefix of operation-scoped type names:
// camel-cased path segments followed by the capitalized method.
func OperationTypeName(method spec.Method, template string) string {
	var b strings.Builder
	for _, seg := range strings.Split(template, "/") {
		b.WriteString(Camel(seg))
	}
	b.WriteString(Capitalize(lower(string(method))))
	return identStart(b.String())
}

// MediaRangeVariant names the sum type variant for a media range:
// "application/x-www-form-urlencoded" becomes
// "ApplicationXwwwformurlencoded" and "*" sides become "Any".
func MediaRangeVariant(mediaRange string) string {
	if i := strings.IndexByte(mediaRange, ';'); i >= 0 {
		mediaRange = mediaRange[:i]
	}
	var b strings.Builder
	for _, side := range strings.SplitN(strings.TrimSpace(mediaRange), "/", 2) {
		if side == "*" {
			b.WriteString("Any")
			continue
		}
		alpha := strings.Map(func(r rune) rune {
			if r < utf8.RuneSelf && unicode.IsLetter(r) {
				return r
			}
			return -1
		}, side)
		b.WriteString(title(lower(alpha)))
	}
	if b.Len() == 0 {
		return "Media"
	}
	return b.String()
}

// StatusName names a response status: the reason phrase in title case
// followed by the code ("NotFound404"), the class for wildcards
// ("ClientError4XX") or "Default".
func StatusName(s spec.StatusSpec) string {
	switch s.Kind {
	case spec.StatusDefault:
		return "Default"
	case spec.StatusClass:
		return classNames[s.Code] + strconv.Itoa(s.Code) + "XX"
	}
	phrase := Camel(title(lower(http.StatusText(s.Code))))
	if phrase == "" {
		phrase = "Status"
	}
	return phrase + strconv.Itoa(s.Code)
}

var classNames = map[int]string{
	1: "Informational",
	2: "Success",
	3: "Redirection",
	4: "ClientError",
	5: "ServerError",
}

// Contains reports whether a name is taken in some namespace.
type Contains func(name string) bool

// Uncollide returns name if it is free, otherwise name1, name2, ... for the
// smallest suffix not taken.
func Uncollide(taken Contains, name string) string {
	if !taken(name) {
		return name
	}
	for i := 1; ; i++ {
		if candidate := name + strconv.Itoa(i); !taken(candidate) {
			return candidate
		}
	}
}

func validShape(s string) bool {
	return rustsyntax.IsIdent(s) || rustsyntax.IsKeyword(s)
}

// identStart prefixes "_" when s does not start like an identifier.
func identStart(s string) string {
	if s == "" {
		return "unnamed"
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r != '_' && !unicode.IsLetter(r) {
		return "_" + s
	}
	return s
}
