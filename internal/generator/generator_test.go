package generator

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/openapi2rust/internal/codemodel"
	"github.com/mark3labs/openapi2rust/internal/loader"
	"github.com/mark3labs/openapi2rust/internal/spec"
)

func build(t *testing.T, doc string, opts ...Option) *Result {
	t.Helper()
	d, err := loader.Parse([]byte(doc))
	require.NoError(t, err)
	res, err := Build(d, opts...)
	require.NoError(t, err)
	return res
}

func buildErr(t *testing.T, doc string) error {
	t.Helper()
	d, err := loader.Parse([]byte(doc))
	require.NoError(t, err)
	_, err = Build(d)
	require.Error(t, err)
	return err
}

func typeNamed(t *testing.T, res *Result, name string) codemodel.TypeRef {
	t.Helper()
	typ, ok := res.Module.FindType(name)
	require.True(t, ok, "type %s not found", name)
	return typ
}

func render(res *Result, typ codemodel.TypeRef) string {
	return codemodel.QualifiedName(typ, res.Module)
}

// fields renders a record as "name: Type" lines.
func fields(t *testing.T, res *Result, name string) []string {
	t.Helper()
	r, ok := typeNamed(t, res, name).(*codemodel.Record)
	require.True(t, ok, "%s is not a record", name)
	var out []string
	for _, f := range r.Fields() {
		out = append(out, f.Name+": "+render(res, f.Member.Type))
	}
	return out
}

// variants renders a sum type as "Name" or "Name(T, ...)" entries.
func variants(t *testing.T, res *Result, name string) []string {
	t.Helper()
	s, ok := typeNamed(t, res, name).(*codemodel.SumType)
	require.True(t, ok, "%s is not a sum type", name)
	var out []string
	for _, v := range s.Variants() {
		if v.Kind == codemodel.UnitVariant {
			out = append(out, v.Name)
			continue
		}
		items := make([]string, len(v.Items))
		for i, m := range v.Items {
			if m.Type == nil {
				items[i] = m.Tokens
				continue
			}
			items[i] = render(res, m.Type)
		}
		out = append(out, v.Name+"("+strings.Join(items, ", ")+")")
	}
	return out
}

// signature renders a client function as "name(params) -> Return".
func signature(t *testing.T, res *Result, name string) string {
	t.Helper()
	impl := res.Module.InherentImpl(res.Client)
	require.NotNil(t, impl)
	for _, fn := range impl.Functions {
		if fn.Name != name {
			continue
		}
		params := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = p.Name + ": " + render(res, p.Type)
		}
		return fn.Name + "(" + strings.Join(params, ", ") + ") -> " + render(res, fn.Return)
	}
	t.Fatalf("function %s not found", name)
	return ""
}

func typeNames(res *Result) []string {
	var out []string
	for _, typ := range res.Module.Types() {
		out = append(out, typ.Name())
	}
	return out
}

func TestEmptyDocument(t *testing.T) {
	for _, version := range []string{"3.0.0", "3.1.0"} {
		t.Run(version, func(t *testing.T) {
			res := build(t, "openapi: "+version+"\ninfo: {title: E, version: v1}\npaths:\n")
			assert.Equal(t, []string{"Client"}, typeNames(res))
			require.Len(t, res.Module.Implementations(), 1)
			assert.Empty(t, res.Module.Implementations()[0].Functions)
			assert.Empty(t, res.Module.Traits())
		})
	}
}

func TestMissingAndEmptyPathsAreEquivalent(t *testing.T) {
	missing := build(t, "openapi: 3.1.0\ninfo: {title: E, version: v1}\n")
	empty := build(t, "openapi: 3.1.0\ninfo: {title: E, version: v1}\npaths: {}\n")
	assert.Equal(t, typeNames(missing), typeNames(empty))
}

const numberFormats = `openapi: 3.0.0
info: {title: N, version: v1}
paths: {}
components:
  schemas:
    NumberFormats:
      type: object
      properties:
        number_unformatted: {type: number}
        number_double: {type: number, format: double}
        number_float: {type: number, format: float}
        integer_int64: {type: integer, format: int64}
        integer_int32: {type: integer, format: int32}
`

func TestNumberFormats(t *testing.T) {
	res := build(t, numberFormats)
	assert.Equal(t, []string{
		"number_unformatted: f64",
		"number_double: f64",
		"number_float: f32",
		"integer_int64: i64",
		"integer_int32: i32",
	}, fields(t, res, "NumberFormats"))
}

const barsDoc = `openapi: 3.0.0
info: {title: Bars, version: v1}
paths:
  /bars/{bar_name}:
    parameters:
      - name: bar_name
        in: path
        required: true
        schema: {type: string}
    get:
      parameters:
        - name: with_foo
          in: query
          schema: {type: boolean}
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {type: string}
`

func TestPathParameters(t *testing.T) {
	res := build(t, barsDoc)
	assert.Equal(t,
		"bars_bar_name_get(self: &Client, bar_name: String, with_foo: bool) -> Result<BarsBarNameGetOk200, BarsBarNameGetError>",
		signature(t, res, "bars_bar_name_get"))
	assert.Equal(t, []string{"ApplicationJson(String)"}, variants(t, res, "BarsBarNameGetOk200"))
}

const petstore = `openapi: 3.0.3
info: {title: Petstore, version: v1}
paths:
  /pet:
    post:
      tags: [pet]
      requestBody:
        required: true
        content:
          application/json:
            schema: {$ref: '#/components/schemas/Pet'}
          application/xml:
            schema: {$ref: '#/components/schemas/Pet'}
          application/x-www-form-urlencoded:
            schema: {$ref: '#/components/schemas/Pet'}
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Pet'}
        '405':
          description: invalid input
  /pet/{petId}:
    get:
      tags: [pet]
      parameters:
        - name: petId
          in: path
          required: true
          schema: {type: integer, format: int64}
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Pet'}
            application/xml:
              schema: {$ref: '#/components/schemas/Pet'}
        '400':
          description: bad id
        '404':
          description: not found
  /store/inventory:
    get:
      tags: [store]
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                type: object
                additionalProperties: {type: integer, format: int32}
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        id: {type: integer, format: int64}
        name: {type: string}
        photoUrls:
          type: array
          items: {type: string}
        tags:
          type: array
          items: {$ref: '#/components/schemas/Tag'}
        status:
          type: string
          enum: [available, pending, sold]
    Tag:
      type: object
      properties:
        id: {type: integer, format: int64}
        name: {type: string}
`

func TestEnumValuedString(t *testing.T) {
	res := build(t, petstore)
	assert.Equal(t, []string{"Available", "Pending", "Sold"}, variants(t, res, "PetStatus"))
	assert.Contains(t, fields(t, res, "Pet"), "status: PetStatus")
	assert.Contains(t, fields(t, res, "Pet"), "photoUrls: Vec<String>")
	assert.Contains(t, fields(t, res, "Pet"), "tags: Vec<Tag>")

	status := typeNamed(t, res, "PetStatus").(*codemodel.SumType)
	require.Len(t, status.Variants()[0].Attrs, 1)
	assert.Equal(t, `#[serde(rename = "available")]`, status.Variants()[0].Attrs[0].String())
}

func TestRequestBodyWithMultipleMediaTypes(t *testing.T) {
	res := build(t, petstore)
	assert.Equal(t, []string{
		"ApplicationJson(Pet)",
		"ApplicationXml(Pet)",
		"ApplicationXwwwformurlencoded(Pet)",
	}, variants(t, res, "PetPostContent"))
	assert.Equal(t,
		"pet_post(self: &Client, body: PetPostContent) -> Result<PetPostOk200, PetPostError>",
		signature(t, res, "pet_post"))
	assert.Equal(t, []string{
		"MethodNotAllowed405(())",
		"UnknownResponse(::http::Response<Vec<u8>>)",
		"OtherError(::std::boxed::Box<dyn ::std::error::Error>)",
	}, variants(t, res, "PetPostError"))
}

func TestResponseSumTypes(t *testing.T) {
	res := build(t, petstore)
	assert.Equal(t, []string{"ApplicationJson(Pet)", "ApplicationXml(Pet)"}, variants(t, res, "PetPetIdGetOk200"))
	assert.Equal(t, []string{
		"BadRequest400(())",
		"NotFound404(())",
		"UnknownResponse(::http::Response<Vec<u8>>)",
		"OtherError(::std::boxed::Box<dyn ::std::error::Error>)",
	}, variants(t, res, "PetPetIdGetError"))
	assert.Equal(t,
		"pet_petId_get(self: &Client, petId: i64) -> Result<PetPetIdGetOk200, PetPetIdGetError>",
		signature(t, res, "pet_petId_get"))
}

func TestMapFromAdditionalPropertiesSchema(t *testing.T) {
	res := build(t, petstore)
	assert.Equal(t,
		[]string{"ApplicationJson(::std::collections::HashMap<String, i32>)"},
		variants(t, res, "StoreInventoryGetOk200"))
}

func TestDeclarationOrder(t *testing.T) {
	res := build(t, petstore)
	names := typeNames(res)
	require.GreaterOrEqual(t, len(names), 3)
	assert.Equal(t, []string{"Pet", "Tag", "PetStatus"}, names[:3])
	assert.Equal(t, "Client", names[3])
}

func TestSchemaCycle(t *testing.T) {
	res := build(t, `openapi: 3.1.0
info: {title: C, version: v1}
components:
  schemas:
    A:
      type: object
      properties:
        b: {$ref: '#/components/schemas/B'}
    B:
      type: object
      properties:
        a: {$ref: '#/components/schemas/A'}
`)
	assert.Equal(t, []string{"b: B"}, fields(t, res, "A"))
	assert.Equal(t, []string{"a: A"}, fields(t, res, "B"))
	for _, typ := range res.Module.Types() {
		_, isStub := typ.(*codemodel.Indirection)
		assert.False(t, isStub, "%s left unresolved", typ.Name())
	}
}

func TestOperationWithoutResponses(t *testing.T) {
	res := build(t, `openapi: 3.1.0
info: {title: R, version: v1}
paths:
  /ping:
    get: {}
`)
	assert.Equal(t, "ping_get(self: &Client) -> Result<(), PingGetError>", signature(t, res, "ping_get"))
	assert.Equal(t, []string{
		"UnknownResponse(::http::Response<Vec<u8>>)",
		"OtherError(::std::boxed::Box<dyn ::std::error::Error>)",
	}, variants(t, res, "PingGetError"))
}

func TestSeveralSuccessStatuses(t *testing.T) {
	res := build(t, `openapi: 3.1.0
info: {title: S, version: v1}
paths:
  /jobs:
    post:
      responses:
        '201':
          description: created
          content:
            application/json:
              schema: {type: string}
        '202':
          description: accepted
        default:
          description: failure
          content:
            application/json:
              schema:
                type: object
                properties:
                  message: {type: string}
            text/plain:
              schema: {type: string}
`)
	assert.Equal(t, []string{"Created201(JobsPostCreated201)", "Accepted202(())"}, variants(t, res, "JobsPostOk"))
	assert.Equal(t, []string{
		"Default(JobsPostDefault)",
		"UnknownResponse(::http::Response<Vec<u8>>)",
		"OtherError(::std::boxed::Box<dyn ::std::error::Error>)",
	}, variants(t, res, "JobsPostError"))
	assert.Equal(t, []string{
		"ApplicationJson(JobsPostDefaultApplicationJson)",
		"TextPlain(String)",
	}, variants(t, res, "JobsPostDefault"))
	assert.Equal(t, []string{"message: String"}, fields(t, res, "JobsPostDefaultApplicationJson"))
}

func TestSchemaKinds(t *testing.T) {
	res := build(t, `openapi: 3.1.0
info: {title: K, version: v1}
components:
  schemas:
    Anything: {}
    Nullable: {type: [string, "null"]}
    FreeForm:
      type: object
      additionalProperties: true
    Empty: {type: object}
    List: {type: array}
    Flag: {type: boolean}
    Name: {type: string}
    Alias: {$ref: '#/components/schemas/Name'}
    Composite:
      allOf:
        - $ref: '#/components/schemas/Name'
`)
	alias := func(name string) string {
		a, ok := typeNamed(t, res, name).(*codemodel.Alias)
		require.True(t, ok, "%s is not an alias", name)
		return render(res, a.Target())
	}
	assert.Equal(t, "::serde_json::Value", alias("Anything"))
	assert.Equal(t, "::serde_json::Value", alias("Nullable"))
	assert.Equal(t, "::std::collections::HashMap<String, ::serde_json::Value>", alias("FreeForm"))
	assert.Empty(t, fields(t, res, "Empty"))
	assert.Equal(t, "Vec<::serde_json::Value>", alias("List"))
	assert.Equal(t, "bool", alias("Flag"))
	assert.Equal(t, "String", alias("Name"))
	assert.Equal(t, "Name", alias("Alias"))
	assert.Equal(t, "::serde_json::Value", alias("Composite"))
}

func TestCompositionIsLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	build(t, `openapi: 3.1.0
info: {title: K, version: v1}
components:
  schemas:
    Either:
      oneOf:
        - {type: string}
        - {type: number}
`, WithLogger(logger))
	assert.Contains(t, logs.String(), "keyword=oneOf")
	assert.Contains(t, logs.String(), "#/components/schemas/Either")
}

func TestNamingAndCollisions(t *testing.T) {
	res := build(t, `openapi: 3.1.0
info: {title: N, version: v1}
paths:
  /a-b:
    get: {}
  /a_b:
    get: {}
  /items/{type}:
    get:
      parameters:
        - {name: type, in: path, required: true, schema: {type: string}}
        - {name: self, in: query, schema: {type: string}}
        - {name: type, in: query, schema: {type: integer}}
components:
  schemas:
    Client: {type: string}
    self: {type: boolean}
    Model:
      type: object
      properties:
        type: {type: string}
        Type: {type: number}
`)
	assert.Equal(t, "Client1", res.Client.Name())
	assert.Equal(t, "bool", render(res, typeNamed(t, res, "Self_").(*codemodel.Alias).Target()))
	assert.Equal(t, "a_b_get(self: &Client1) -> Result<(), ABGetError>", signature(t, res, "a_b_get"))
	assert.Equal(t, "a_b_get1(self: &Client1) -> Result<(), ABGetError1>", signature(t, res, "a_b_get1"))
	assert.Equal(t,
		"items_type_get(self: &Client1, type_: String, self_: String, type_1: f64) -> Result<(), ItemsTypeGetError>",
		signature(t, res, "items_type_get"))
	assert.Equal(t, []string{"type_: String", "type_1: f64"}, fields(t, res, "Model"))
}

func TestOperationParameterOverridesPathItem(t *testing.T) {
	res := build(t, `openapi: 3.1.0
info: {title: O, version: v1}
paths:
  /things/{id}:
    parameters:
      - {name: id, in: path, required: true, schema: {type: string}}
      - {name: limit, in: query, schema: {type: integer}}
    get:
      parameters:
        - {name: id, in: path, required: true, schema: {type: integer, format: int64}}
`)
	assert.Equal(t, "things_id_get(self: &Client, id: i64, limit: f64) -> Result<(), ThingsIdGetError>", signature(t, res, "things_id_get"))
}

func TestParameterContentAndComponents(t *testing.T) {
	res := build(t, `openapi: 3.0.0
info: {title: P, version: v1}
paths:
  /search:
    get:
      parameters:
        - $ref: '#/components/parameters/Filter'
        - name: sort
          in: query
          content:
            application/json:
              schema: {type: string}
      requestBody:
        $ref: '#/components/requestBodies/Query'
      responses:
        '200':
          $ref: '#/components/responses/Found'
components:
  parameters:
    Filter:
      name: filter
      in: query
      schema:
        type: object
        properties:
          term: {type: string}
  requestBodies:
    Query:
      content:
        application/json:
          schema: {type: string}
  responses:
    Found:
      description: ok
      content:
        application/json:
          schema:
            type: array
            items:
              type: object
              properties:
                hit: {type: string}
`)
	assert.Equal(t,
		"search_get(self: &Client, filter: SearchGetFilter, sort: String, body: SearchGetContent) -> Result<SearchGetOk200, SearchGetError>",
		signature(t, res, "search_get"))
	assert.Equal(t, []string{"term: String"}, fields(t, res, "SearchGetFilter"))
	assert.Equal(t, []string{"ApplicationJson(Vec<SearchGetOk200ApplicationJsonItem>)"}, variants(t, res, "SearchGetOk200"))
	assert.Equal(t, []string{"hit: String"}, fields(t, res, "SearchGetOk200ApplicationJsonItem"))
}

func TestTraits(t *testing.T) {
	res := build(t, petstore, WithTraits(true))
	traits := res.Module.Traits()
	require.Len(t, traits, 2)
	assert.Equal(t, "PetApi", traits[0].Name())
	assert.Equal(t, "StoreApi", traits[1].Name())
	require.Len(t, traits[0].Functions, 2)
	assert.Equal(t, "pet_post", traits[0].Functions[0].Name)
	assert.Nil(t, traits[0].Functions[0].Body)

	impls := res.Module.Implementations()
	require.Len(t, impls, 3)
	assert.True(t, impls[0].IsInherent(), "inherent impl is always emitted")
	assert.Same(t, traits[0], impls[1].Trait)
	require.NotNil(t, impls[1].Functions[1].Body)
	assert.Equal(t, "Client::pet_petId_get(self, petId)", *impls[1].Functions[1].Body)
}

func TestUntaggedOperationsUseDefaultTrait(t *testing.T) {
	res := build(t, barsDoc, WithTraits(true))
	require.Len(t, res.Module.Traits(), 1)
	assert.Equal(t, "DefaultApi", res.Module.Traits()[0].Name())
}

func TestTypesOnly(t *testing.T) {
	res := build(t, petstore, WithTypesOnly(true))
	assert.Nil(t, res.Client)
	assert.Empty(t, res.Module.Implementations())
	assert.Equal(t, []string{"Pet", "Tag", "PetStatus"}, typeNames(res))
}

func TestOptionalFields(t *testing.T) {
	res := build(t, petstore, WithOptionalFields(true))
	f := fields(t, res, "Pet")
	assert.Contains(t, f, "name: String")
	assert.Contains(t, f, "id: Option<i64>")
	assert.Contains(t, f, "status: Option<PetStatus>")
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "null type",
			doc:  "openapi: 3.1.0\ninfo: {title: E, version: v1}\ncomponents:\n  schemas:\n    Nothing: {type: 'null'}\n",
			want: spec.ErrUnsupported,
		},
		{
			name: "pattern properties only",
			doc:  "openapi: 3.1.0\ninfo: {title: E, version: v1}\ncomponents:\n  schemas:\n    Labels:\n      type: object\n      patternProperties:\n        '^x-': {type: string}\n",
			want: spec.ErrUnsupported,
		},
		{
			name: "non-string enum member",
			doc:  "openapi: 3.1.0\ninfo: {title: E, version: v1}\ncomponents:\n  schemas:\n    Level: {type: string, enum: [1, 2]}\n",
			want: spec.ErrUnsupported,
		},
		{
			name: "enum of null only",
			doc:  "openapi: 3.1.0\ninfo: {title: E, version: v1}\ncomponents:\n  schemas:\n    Nothing: {type: string, enum: [null]}\n",
			want: spec.ErrUnsupported,
		},
		{
			name: "cyclic component aliases",
			doc:  "openapi: 3.1.0\ninfo: {title: E, version: v1}\ncomponents:\n  schemas:\n    A: {$ref: '#/components/schemas/B'}\n    B: {$ref: '#/components/schemas/A'}\n",
			want: spec.ErrCyclicReference,
		},
		{
			name: "parameter without schema or content",
			doc:  "openapi: 3.1.0\ninfo: {title: E, version: v1}\npaths:\n  /x:\n    get:\n      parameters:\n        - {name: q, in: query}\n",
			want: spec.ErrUnsupported,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := buildErr(t, tt.doc)
			assert.ErrorIs(t, err, tt.want)
			var se *spec.SpecError
			require.ErrorAs(t, err, &se)
			assert.NotEmpty(t, se.Pointer)
		})
	}
}

func TestEnumSkipsNull(t *testing.T) {
	res := build(t, `openapi: 3.1.0
info: {title: N, version: v1}
components:
  schemas:
    Color: {type: string, enum: [red, null, blue]}
`)
	assert.Equal(t, []string{"Red", "Blue"}, variants(t, res, "Color"))
}

func TestSchemaReferenceToOtherComponentKind(t *testing.T) {
	err := buildErr(t, `openapi: 3.1.0
info: {title: R, version: v1}
components:
  responses:
    Found: {description: ok}
  schemas:
    Pet:
      type: object
      properties:
        found: {$ref: '#/components/responses/Found'}
`)
	assert.ErrorIs(t, err, spec.ErrUnsupportedReference)
	var se *spec.SpecError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "#/components/schemas/Pet/properties/found", se.Pointer)
}

func TestSchemasNamedLikePreludeTypes(t *testing.T) {
	res := build(t, `openapi: 3.1.0
info: {title: P, version: v1}
paths:
  /status:
    get:
      parameters:
        - {name: q, in: query, schema: {type: string}}
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Result'}
components:
  schemas:
    Result:
      type: object
      properties:
        ok: {type: boolean}
        note: {type: string}
    String:
      type: object
      properties:
        text: {type: string}
`)
	assert.Equal(t, []string{"ok: bool", "note: ::std::string::String"}, fields(t, res, "Result"))
	assert.Equal(t, []string{"ApplicationJson(Result)"}, variants(t, res, "StatusGetOk200"))
	assert.Equal(t,
		"status_get(self: &Client, q: ::std::string::String) -> ::std::result::Result<StatusGetOk200, StatusGetError>",
		signature(t, res, "status_get"))
}
