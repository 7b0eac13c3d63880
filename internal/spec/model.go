package spec

import "github.com/mark3labs/openapi2rust/internal/source"

// Version is the major.minor pair of a supported OpenAPI document.
type Version string

const (
	Version30 Version = "3.0"
	Version31 Version = "3.1"
)

// Named pairs an ordered map key with its value.
type Named[T any] struct {
	Name  string
	Value T
}

// Spec is the version-agnostic view of a parsed OpenAPI document. Every
// sequence is returned in document order.
type Spec interface {
	Version() Version
	// Components returns nil when the document has no components object.
	Components() Components
	// Schemata iterates the component schema map.
	Schemata() []Named[RefOr[Schema]]
	// Paths iterates the paths object keyed by URL template.
	Paths() []Named[PathItem]
	// ResolveSchema looks a schema up again by its source pointer.
	ResolveSchema(src source.Schema) (Schema, error)
}

// Components is the reusable-object section of a document.
type Components interface {
	Schemas() []Named[RefOr[Schema]]
	RequestBodies() []Named[RefOr[RequestBody]]
	Responses() []Named[RefOr[Response]]
	Parameters() []Named[RefOr[Parameter]]
}

// PathItem holds the operations of one URL template.
type PathItem interface {
	Source() source.PathItem
	Template() string
	// Parameters common to every operation of the path item.
	Parameters() []RefOr[Parameter]
	// Operations in document order.
	Operations() []Named[Operation]
}

// Operation is one HTTP method on a path item. Names in Operations() are
// lowercase methods; see ParseMethod.
type Operation interface {
	Source() source.Operation
	Method() Method
	OperationID() string
	Tags() []string
	Parameters() []RefOr[Parameter]
	RequestBody() (RefOr[RequestBody], bool)
	Responses() []StatusResponse
}

// StatusResponse is one entry of an operation's responses map.
type StatusResponse struct {
	Status   StatusSpec
	Response RefOr[Response]
}

// Parameter is an operation or path item parameter.
type Parameter interface {
	Source() source.Parameter
	Name() string
	In() Location
	Required() bool
	Schema() (RefOr[Schema], bool)
	Content() []Named[MediaType]
}

// RequestBody is an operation's request payload description.
type RequestBody interface {
	Source() source.RequestBody
	Required() bool
	Content() []Named[MediaType]
}

// Response is a response description.
type Response interface {
	Source() source.Response
	Description() string
	Content() []Named[MediaType]
}

// MediaType is one entry of a content map, keyed by media-type range.
type MediaType interface {
	Source() source.MediaType
	Schema() (RefOr[Schema], bool)
}

// Schema is a JSON Schema object. Child schemas are reached as RefOr values
// whose inline case carries the child's source pointer.
type Schema interface {
	Source() source.Schema
	// Name is the component name for schemas under #/components/schemas.
	Name() string
	// Types is nil when the schema declares no type. 3.0 documents yield at
	// most one entry.
	Types() []Type
	Format() Format
	Title() string
	Description() string
	Required() []string
	AllOf() []RefOr[Schema]
	AnyOf() []RefOr[Schema]
	OneOf() []RefOr[Schema]
	Enum() []any
	Properties() []Named[RefOr[Schema]]
	PatternProperties() []Named[RefOr[Schema]]
	AdditionalProperties() AdditionalProperties
	Items() (RefOr[Schema], bool)
}

// AdditionalPropertiesKind tells which form of additionalProperties a
// schema uses.
type AdditionalPropertiesKind int

const (
	AdditionalAbsent AdditionalPropertiesKind = iota
	AdditionalBool
	AdditionalSchema
)

// AdditionalProperties is either absent, a boolean, or a schema.
type AdditionalProperties struct {
	Kind    AdditionalPropertiesKind
	Allowed bool
	Schema  RefOr[Schema]
}

// ComponentName returns the trailing name of a component URI such as
// "#/components/schemas/Pet".
func ComponentName(uri string) string {
	for i := len(uri) - 1; i >= 0; i-- {
		if uri[i] == '/' {
			return source.UnescapeToken(uri[i+1:])
		}
	}
	return uri
}

// Required reports whether name is listed in the schema's required set.
func Required(s Schema, name string) bool {
	for _, r := range s.Required() {
		if r == name {
			return true
		}
	}
	return false
}
