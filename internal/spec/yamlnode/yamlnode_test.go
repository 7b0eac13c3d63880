package yamlnode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const doc = `
paths:
  /zeta:
    get: {}
  /alpha:
    post: {}
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        name: {type: string}
        age: {type: integer}
    Alias: &pet
      type: string
    Copy: *pet
  parameters:
    - a
`

func parse(t *testing.T) *yaml.Node {
	t.Helper()
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(doc), &n))
	return &n
}

func TestPairsKeepDocumentOrder(t *testing.T) {
	root := parse(t)
	var keys []string
	for _, p := range Pairs(Lookup(root, "paths")) {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"/zeta", "/alpha"}, keys)
}

func TestResolve(t *testing.T) {
	root := parse(t)

	n, ok := Resolve(root, "#/components/schemas/Pet/properties/age")
	require.True(t, ok)
	v, _ := String(Lookup(n, "type"))
	assert.Equal(t, "integer", v)

	n, ok = Resolve(root, "#/components/schemas/Copy")
	require.True(t, ok)
	v, _ = String(Lookup(n, "type"))
	assert.Equal(t, "string", v, "aliases are followed")

	_, ok = Resolve(root, "#/components/schemas/Missing")
	assert.False(t, ok)
	_, ok = Resolve(root, "other.yaml#/x")
	assert.False(t, ok)
}

func TestPointerRoundTrip(t *testing.T) {
	ptr := Pointer("paths", "/pet/{id}", "get")
	assert.Equal(t, "#/paths/~1pet~1{id}/get", ptr)
	tokens, ok := Split(ptr)
	require.True(t, ok)
	assert.Equal(t, []string{"paths", "/pet/{id}", "get"}, tokens)
}

func TestKeyOrder(t *testing.T) {
	ko := BuildKeyOrder(parse(t))
	got := ko.Keys("#/paths", []string{"/alpha", "/zeta"})
	assert.Equal(t, []string{"/zeta", "/alpha"}, got)

	got = ko.Keys("#/components/schemas/Pet/properties", []string{"unknown", "age", "name"})
	assert.Equal(t, []string{"name", "age", "unknown"}, got)
}

func TestScalarHelpers(t *testing.T) {
	root := parse(t)
	assert.Equal(t, []string{"name"}, Strings(Lookup(Lookup(Lookup(Lookup(root, "components"), "schemas"), "Pet"), "required")))
	assert.True(t, IsNull(Lookup(root, "missing")))
	assert.True(t, Has(root, "paths"))
	assert.Len(t, Items(Lookup(Lookup(root, "components"), "parameters")), 1)
}
