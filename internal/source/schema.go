package source

import (
	"hash"
	"strconv"
)

// Schema addresses a schema. Nested schemas keep their parent pointer, so a
// Schema can be arbitrarily deep; its canonical key is computed once on
// construction.
//
// Use Key (or Equal) to compare schemas; == compares parent pointers.
type Schema struct {
	tag       tag
	uri       string
	parent    *Schema
	property  string
	mediaType MediaType
	parameter Parameter
	keyword   string
	index     int
	key       string
}

// SchemaURI addresses a component schema, e.g. "#/components/schemas/Pet".
func SchemaURI(uri string) Schema {
	return newSchema(Schema{tag: tagSchemaURI, uri: uri})
}

// Property addresses the inline schema of a named property of s.
func (s Schema) Property(name string) Schema {
	return newSchema(Schema{tag: tagSchemaProperty, parent: &s, property: name})
}

// Items addresses the inline items schema of an array schema.
func (s Schema) Items() Schema {
	return newSchema(Schema{tag: tagSchemaItems, parent: &s})
}

// AdditionalProperties addresses the inline additionalProperties schema.
func (s Schema) AdditionalProperties() Schema {
	return newSchema(Schema{tag: tagSchemaAdditionalProperties, parent: &s})
}

// PatternProperty addresses the inline schema of a patternProperties entry.
func (s Schema) PatternProperty(pattern string) Schema {
	return newSchema(Schema{tag: tagSchemaPatternProperty, parent: &s, property: pattern})
}

// Composition addresses the index-th inline schema of an allOf, anyOf or
// oneOf list; keyword names the list.
func (s Schema) Composition(keyword string, index int) Schema {
	return newSchema(Schema{tag: tagSchemaComposition, parent: &s, keyword: keyword, index: index})
}

// SchemaFromMediaType addresses the inline schema of a media type.
func SchemaFromMediaType(m MediaType) Schema {
	return newSchema(Schema{tag: tagSchemaFromMediaType, mediaType: m})
}

// SchemaFromParameter addresses the inline schema of a parameter.
func SchemaFromParameter(p Parameter) Schema {
	return newSchema(Schema{tag: tagSchemaFromParameter, parameter: p})
}

func newSchema(s Schema) Schema {
	switch s.tag {
	case tagSchemaURI:
		s.key = key(s.tag, quote(s.uri))
	case tagSchemaProperty, tagSchemaPatternProperty:
		s.key = key(s.tag, s.parent.key, quote(s.property))
	case tagSchemaComposition:
		s.key = key(s.tag, s.parent.key, quote(s.keyword), strconv.Itoa(s.index))
	case tagSchemaItems, tagSchemaAdditionalProperties:
		s.key = key(s.tag, s.parent.key)
	case tagSchemaFromMediaType:
		s.key = key(s.tag, s.mediaType.Key())
	case tagSchemaFromParameter:
		s.key = key(s.tag, s.parameter.Key())
	}
	return s
}

// IsZero reports whether s was never constructed.
func (s Schema) IsZero() bool { return s.tag == 0 }

func (s Schema) URI() (string, bool) { return s.uri, s.tag == tagSchemaURI }

// Parent returns the enclosing schema for property, items and
// additionalProperties pointers.
func (s Schema) Parent() (Schema, bool) {
	if s.parent == nil {
		return Schema{}, false
	}
	return *s.parent, true
}

// PropertyName returns the property name of a property pointer.
func (s Schema) PropertyName() (string, bool) { return s.property, s.tag == tagSchemaProperty }

// Pattern returns the pattern of a pattern-property pointer.
func (s Schema) Pattern() (string, bool) { return s.property, s.tag == tagSchemaPatternProperty }

// CompositionIndex returns the keyword and index of a composition pointer.
func (s Schema) CompositionIndex() (string, int, bool) {
	return s.keyword, s.index, s.tag == tagSchemaComposition
}

func (s Schema) IsItems() bool                { return s.tag == tagSchemaItems }
func (s Schema) IsAdditionalProperties() bool { return s.tag == tagSchemaAdditionalProperties }

func (s Schema) MediaType() (MediaType, bool) { return s.mediaType, s.tag == tagSchemaFromMediaType }
func (s Schema) Parameter() (Parameter, bool) { return s.parameter, s.tag == tagSchemaFromParameter }

// Equal reports whether both pointers address the same node.
func (s Schema) Equal(other Schema) bool { return s.key == other.key }

func (s Schema) Key() string  { return s.key }
func (s Schema) Hash() uint64 { return sum64(s) }

func (s Schema) String() string {
	switch s.tag {
	case tagSchemaURI:
		return s.uri
	case tagSchemaProperty:
		return s.parent.String() + "/properties/" + EscapeToken(s.property)
	case tagSchemaPatternProperty:
		return s.parent.String() + "/patternProperties/" + EscapeToken(s.property)
	case tagSchemaComposition:
		return s.parent.String() + "/" + s.keyword + "/" + strconv.Itoa(s.index)
	case tagSchemaItems:
		return s.parent.String() + "/items"
	case tagSchemaAdditionalProperties:
		return s.parent.String() + "/additionalProperties"
	case tagSchemaFromMediaType:
		return s.mediaType.String() + "/schema"
	case tagSchemaFromParameter:
		return s.parameter.String() + "/schema"
	}
	return ""
}

func (s Schema) writeHash(h hash.Hash64) {
	writeTag(h, s.tag)
	switch s.tag {
	case tagSchemaURI:
		writeString(h, s.uri)
	case tagSchemaProperty, tagSchemaPatternProperty:
		writeChild(h, *s.parent)
		writeString(h, s.property)
	case tagSchemaComposition:
		writeChild(h, *s.parent)
		writeString(h, s.keyword)
		writeInt(h, s.index)
	case tagSchemaItems, tagSchemaAdditionalProperties:
		writeChild(h, *s.parent)
	case tagSchemaFromMediaType:
		writeChild(h, s.mediaType)
	case tagSchemaFromParameter:
		writeChild(h, s.parameter)
	}
}
