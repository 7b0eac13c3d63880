// Package source provides value-typed pointers that address nodes inside an
// OpenAPI document. Pointers never borrow from the document: they carry the
// structural path needed to look a node up again, compare by value, and can be
// used as map keys through Key.
package source

import (
	"hash"
	"hash/fnv"
	"strconv"
	"strings"
)

// Pointer is implemented by every source pointer type.
type Pointer interface {
	// Key returns the canonical identity of the pointer. Two pointers address
	// the same node iff their keys are equal.
	Key() string
	// Hash returns a 64-bit FNV-1a digest mixing the variant tag with the
	// digest of each component.
	Hash() uint64
	// String renders the pointer as a JSON-pointer-like path for messages.
	String() string
}

type tag byte

const (
	tagPathItem tag = iota + 1
	tagOperation
	tagParameterURI
	tagParameterOnOperation
	tagParameterOnPathItem
	tagRequestBodyURI
	tagRequestBodyOnOperation
	tagResponseURI
	tagResponseOnOperation
	tagMediaTypeOnParameter
	tagMediaTypeOnRequestBody
	tagMediaTypeOnResponse
	tagSchemaURI
	tagSchemaProperty
	tagSchemaItems
	tagSchemaAdditionalProperties
	tagSchemaFromMediaType
	tagSchemaFromParameter
	tagSchemaPatternProperty
	tagSchemaComposition
)

var tagNames = map[tag]string{
	tagPathItem:                   "pathitem",
	tagOperation:                  "operation",
	tagParameterURI:               "parameter.uri",
	tagParameterOnOperation:       "parameter.operation",
	tagParameterOnPathItem:        "parameter.pathitem",
	tagRequestBodyURI:             "requestbody.uri",
	tagRequestBodyOnOperation:     "requestbody.operation",
	tagResponseURI:                "response.uri",
	tagResponseOnOperation:        "response.operation",
	tagMediaTypeOnParameter:       "mediatype.parameter",
	tagMediaTypeOnRequestBody:     "mediatype.requestbody",
	tagMediaTypeOnResponse:        "mediatype.response",
	tagSchemaURI:                  "schema.uri",
	tagSchemaProperty:             "schema.property",
	tagSchemaItems:                "schema.items",
	tagSchemaAdditionalProperties: "schema.additionalproperties",
	tagSchemaFromMediaType:        "schema.mediatype",
	tagSchemaFromParameter:        "schema.parameter",
	tagSchemaPatternProperty:      "schema.patternproperty",
	tagSchemaComposition:          "schema.composition",
}

// key builds "tag(c1,c2,...)". String components are quoted so that no
// component can forge a separator.
func key(t tag, components ...string) string {
	var b strings.Builder
	b.WriteString(tagNames[t])
	b.WriteByte('(')
	for i, c := range components {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c)
	}
	b.WriteByte(')')
	return b.String()
}

func quote(s string) string { return strconv.Quote(s) }

type hasher interface {
	writeHash(h hash.Hash64)
}

func writeTag(h hash.Hash64, t tag) {
	_, _ = h.Write([]byte{byte(t)})
}

func writeString(h hash.Hash64, s string) {
	_, _ = h.Write([]byte(strconv.Itoa(len(s))))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(s))
}

func writeInt(h hash.Hash64, n int) {
	writeString(h, strconv.Itoa(n))
}

// writeChild mixes the digest of a nested pointer instead of its raw bytes.
func writeChild(h hash.Hash64, child hasher) {
	var buf [8]byte
	sum := sum64(child)
	for i := range buf {
		buf[i] = byte(sum >> (8 * i))
	}
	_, _ = h.Write(buf[:])
}

func sum64(p hasher) uint64 {
	h := fnv.New64a()
	p.writeHash(h)
	return h.Sum64()
}

// EscapeToken escapes a single JSON pointer reference token (RFC 6901).
func EscapeToken(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

// UnescapeToken reverses EscapeToken.
func UnescapeToken(s string) string {
	if !strings.Contains(s, "~") {
		return s
	}
	s = strings.ReplaceAll(s, "~1", "/")
	return strings.ReplaceAll(s, "~0", "~")
}
