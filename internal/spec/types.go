package spec

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is the canonical primitive type of a schema. OpenAPI's "integer" is
// folded into Number; the integer width is carried by Format.
type Type string

const (
	TypeNull    Type = "null"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeNumber  Type = "number"
	TypeString  Type = "string"
)

// ParseType canonicalizes an OpenAPI type name.
func ParseType(s string) (Type, bool) {
	switch strings.TrimSpace(s) {
	case "null":
		return TypeNull, true
	case "boolean":
		return TypeBoolean, true
	case "object":
		return TypeObject, true
	case "array":
		return TypeArray, true
	case "number", "integer":
		return TypeNumber, true
	case "string":
		return TypeString, true
	}
	return "", false
}

// ParseTypes canonicalizes a type list, dropping unknown names and
// duplicates ("integer" and "number" collapse into one entry).
func ParseTypes(names []string) []Type {
	if len(names) == 0 {
		return nil
	}
	out := make([]Type, 0, len(names))
	for _, n := range names {
		t, ok := ParseType(n)
		if !ok {
			continue
		}
		dup := false
		for _, seen := range out {
			if seen == t {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, t)
		}
	}
	return out
}

// Format is the canonical value of a schema's "format".
type Format string

const (
	FormatNone     Format = ""
	FormatInt32    Format = "int32"
	FormatInt64    Format = "int64"
	FormatFloat    Format = "float"
	FormatDouble   Format = "double"
	FormatByte     Format = "byte"
	FormatBinary   Format = "binary"
	FormatDate     Format = "date"
	FormatDateTime Format = "date-time"
	FormatPassword Format = "password"
)

// ParseFormat returns FormatNone for unknown formats.
func ParseFormat(s string) Format {
	switch f := Format(strings.TrimSpace(s)); f {
	case FormatInt32, FormatInt64, FormatFloat, FormatDouble, FormatByte,
		FormatBinary, FormatDate, FormatDateTime, FormatPassword:
		return f
	}
	return FormatNone
}

// Method is a lowercase HTTP method as used for path item keys.
type Method string

const (
	MethodGet     Method = "get"
	MethodPut     Method = "put"
	MethodPost    Method = "post"
	MethodDelete  Method = "delete"
	MethodOptions Method = "options"
	MethodHead    Method = "head"
	MethodPatch   Method = "patch"
	MethodTrace   Method = "trace"
)

// ParseMethod reports whether a path item key names an operation. Keys are
// case-sensitive: "GET" is not an operation.
func ParseMethod(s string) (Method, bool) {
	switch m := Method(s); m {
	case MethodGet, MethodPut, MethodPost, MethodDelete, MethodOptions,
		MethodHead, MethodPatch, MethodTrace:
		return m, true
	}
	return "", false
}

// Location is where a parameter is carried.
type Location string

const (
	InQuery  Location = "query"
	InHeader Location = "header"
	InPath   Location = "path"
	InCookie Location = "cookie"
)

// ParseLocation validates a parameter's "in" value.
func ParseLocation(s string) (Location, error) {
	switch l := Location(strings.TrimSpace(s)); l {
	case InQuery, InHeader, InPath, InCookie:
		return l, nil
	}
	return "", fmt.Errorf("unknown parameter location %q", s)
}

// StatusKind distinguishes the three shapes of a response key.
type StatusKind int

const (
	StatusDefault StatusKind = iota + 1
	StatusClass
	StatusCode
)

// StatusSpec is a parsed response key: "default", a class wildcard such as
// "4XX", or a concrete code in 100..599. For StatusClass, Code holds the
// class digit (1..5).
type StatusSpec struct {
	Kind StatusKind
	Code int
}

// ParseStatus parses a response map key.
func ParseStatus(key string) (StatusSpec, error) {
	k := strings.TrimSpace(key)
	if k == "default" {
		return StatusSpec{Kind: StatusDefault}, nil
	}
	if len(k) == 3 && (k[1:] == "XX" || k[1:] == "xx") && k[0] >= '1' && k[0] <= '5' {
		return StatusSpec{Kind: StatusClass, Code: int(k[0] - '0')}, nil
	}
	code, err := strconv.Atoi(k)
	if err != nil || len(k) != 3 || code < 100 || code > 599 {
		return StatusSpec{}, fmt.Errorf("invalid response status %q (want default, 1XX..5XX or 100..599)", key)
	}
	return StatusSpec{Kind: StatusCode, Code: code}, nil
}

// Class returns the status class digit, or 0 for default.
func (s StatusSpec) Class() int {
	switch s.Kind {
	case StatusClass:
		return s.Code
	case StatusCode:
		return s.Code / 100
	}
	return 0
}

// IsSuccess reports whether s denotes a 2xx response.
func (s StatusSpec) IsSuccess() bool { return s.Class() == 2 }

func (s StatusSpec) String() string {
	switch s.Kind {
	case StatusDefault:
		return "default"
	case StatusClass:
		return strconv.Itoa(s.Code) + "XX"
	case StatusCode:
		return strconv.Itoa(s.Code)
	}
	return ""
}
