package rustemitter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/openapi2rust/internal/codemodel"
)

func sampleModule(t *testing.T) *codemodel.Module {
	t.Helper()
	cm := codemodel.New()
	m := cm.LocalCrate()

	id, err := m.InsertAlias(codemodel.NewAlias("Id", codemodel.I64))
	require.NoError(t, err)

	derive, err := codemodel.NewAttr("derive", "(Debug)")
	require.NoError(t, err)
	rename, err := codemodel.NewAttr("serde", `(rename = "Name")`)
	require.NoError(t, err)
	pet, err := codemodel.NewRecord("Pet").
		Attr(derive).
		Field("name", codemodel.Of(cm.StringType()), rename).
		Field("id", codemodel.Of(id)).
		Build()
	require.NoError(t, err)
	_, err = m.InsertRecord(pet)
	require.NoError(t, err)

	status, err := codemodel.NewSumType("Status").
		Unit("Available").
		Tuple("Other", []codemodel.Member{codemodel.Of(cm.StringType())}).
		Build()
	require.NoError(t, err)
	_, err = m.InsertSumType(status)
	require.NoError(t, err)

	client, err := codemodel.NewRecord("Client").Build()
	require.NoError(t, err)
	_, err = m.InsertRecord(client)
	require.NoError(t, err)

	fn, err := codemodel.NewFunction("pet_get",
		[]codemodel.Param{{Name: "self", Type: &codemodel.RefTo{Target: client}}, {Name: "id", Type: id}},
		cm.Result(pet, status),
		codemodel.Body(`todo!("operation not yet implemented!")`))
	require.NoError(t, err)
	impl := m.InsertImplementation(codemodel.Inherent(client))
	impl.Add(fn)
	return m
}

func TestEmitRendersModule(t *testing.T) {
	res, err := Emit(context.Background(), sampleModule(t), Options{})
	require.NoError(t, err)

	want := strings.Join([]string{
		Banner,
		"",
		"pub mod generated_api {",
		"    " + innerAttrs,
		"",
		"    pub type Id = i64;",
		"",
		"    #[derive(Debug)]",
		"    pub struct Pet {",
		`        #[serde(rename = "Name")]`,
		"        pub name: String,",
		"        pub id: Id,",
		"    }",
		"",
		"    pub enum Status {",
		"        Available,",
		"        Other(String),",
		"    }",
		"",
		"    pub struct Client {}",
		"",
		"    impl Client {",
		"        pub fn pet_get(self: &Client, id: Id) -> Result<Pet, Status> {",
		`            todo!("operation not yet implemented!")`,
		"        }",
		"    }",
		"}",
		"",
	}, "\n")
	assert.Equal(t, want, string(res.Source))
	assert.Empty(t, res.Planned)
	assert.False(t, res.Written)
}

func TestEmitTraitAndImpl(t *testing.T) {
	cm := codemodel.New()
	m := cm.LocalCrate()
	client, err := codemodel.NewRecord("Client").Build()
	require.NoError(t, err)
	_, err = m.InsertRecord(client)
	require.NoError(t, err)

	self := codemodel.Param{Name: "self", Type: &codemodel.RefTo{Target: codemodel.SelfType{}}}
	sig, err := codemodel.NewFunction("ping", []codemodel.Param{self}, cm.Result(codemodel.Unit, codemodel.Unit), nil)
	require.NoError(t, err)
	tr := codemodel.NewTrait("DefaultApi")
	tr.Functions = append(tr.Functions, sig)
	_, err = m.InsertTrait(tr)
	require.NoError(t, err)

	fwd, err := codemodel.NewFunction("ping", []codemodel.Param{self}, cm.Result(codemodel.Unit, codemodel.Unit), codemodel.Body("Client::ping(self)"))
	require.NoError(t, err)
	impl := m.InsertImplementation(codemodel.TraitImpl(tr, client))
	impl.Add(fwd)

	src, err := Render(m, "api")
	require.NoError(t, err)
	out := string(src)
	assert.Contains(t, out, "pub mod api {")
	assert.Contains(t, out, "    pub trait DefaultApi {\n        fn ping(&self) -> Result<(), ()>;\n    }")
	assert.Contains(t, out, "    impl DefaultApi for Client {\n        fn ping(&self) -> Result<(), ()> {\n            Client::ping(self)\n        }\n    }")
	assert.Less(t, strings.Index(out, "pub trait"), strings.Index(out, "pub struct Client"), "traits come first")
}

func TestEmitChildModule(t *testing.T) {
	cm := codemodel.New()
	root := cm.LocalCrate()
	models, err := root.InsertModule(codemodel.NewModule("models"))
	require.NoError(t, err)
	pet, err := models.InsertAlias(codemodel.NewAlias("Pet", cm.StringType()))
	require.NoError(t, err)
	_, err = root.InsertAlias(codemodel.NewAlias("Pets", cm.Vec(pet)))
	require.NoError(t, err)

	res, err := Emit(context.Background(), root, Options{ModuleName: "api"})
	require.NoError(t, err)
	assert.Contains(t, string(res.Source), "    pub type Pets = Vec<models::Pet>;")
	assert.Contains(t, string(res.Source), "    pub mod models {\n        pub type Pet = String;\n    }")
}

func TestEmitFailures(t *testing.T) {
	t.Run("unresolved stub declaration", func(t *testing.T) {
		m := codemodel.NewModule("crate")
		_, err := m.InsertTypeStub("Pet")
		require.NoError(t, err)
		_, err = Render(m, "api")
		assert.ErrorIs(t, err, ErrUnresolvedStub)
	})

	t.Run("unresolved stub reference", func(t *testing.T) {
		cm := codemodel.New()
		m := cm.LocalCrate()
		other := codemodel.NewModule("other")
		stub, err := other.InsertTypeStub("Pet")
		require.NoError(t, err)
		_, err = m.InsertAlias(codemodel.NewAlias("Pets", cm.Vec(stub)))
		require.NoError(t, err)
		_, err = Render(m, "api")
		assert.ErrorIs(t, err, ErrUnresolvedStub)
	})

	t.Run("invalid module name", func(t *testing.T) {
		_, err := Render(codemodel.NewModule("crate"), "generated-api")
		assert.ErrorIs(t, err, ErrReparse)
	})

	t.Run("raw tokens that are not a type", func(t *testing.T) {
		m := codemodel.NewModule("crate")
		s, err := codemodel.NewSumType("E").Tuple("Bad", []codemodel.Member{codemodel.Raw("Box<")}).Build()
		require.NoError(t, err)
		_, err = m.InsertSumType(s)
		require.NoError(t, err)
		_, err = Render(m, "api")
		assert.ErrorIs(t, err, ErrReparse)
	})
}

func TestEmitWritesFile(t *testing.T) {
	ctx := context.Background()
	out := filepath.Join(t.TempDir(), "src", "api.rs")

	res, err := Emit(ctx, sampleModule(t), Options{Out: out, DryRun: true})
	require.NoError(t, err)
	require.Len(t, res.Planned, 1)
	assert.Equal(t, len(res.Source), res.Planned[0].Size)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "dry run writes nothing")

	res, err = Emit(ctx, sampleModule(t), Options{Out: out})
	require.NoError(t, err)
	assert.True(t, res.Written)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, res.Source, data)

	_, err = Emit(ctx, sampleModule(t), Options{Out: out})
	assert.ErrorIs(t, err, ErrExists)
	_, err = Emit(ctx, sampleModule(t), Options{Out: out, Force: true})
	require.NoError(t, err)

	_, err = Emit(ctx, sampleModule(t), Options{Out: out, Check: true})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(out, []byte("stale"), 0o644))
	_, err = Emit(ctx, sampleModule(t), Options{Out: out, Check: true})
	assert.ErrorIs(t, err, ErrOutOfDate)
}

func TestFormatters(t *testing.T) {
	f, err := FormatterByName("")
	require.NoError(t, err)
	assert.IsType(t, Builtin{}, f)
	f, err = FormatterByName("RustFmt")
	require.NoError(t, err)
	assert.IsType(t, Rustfmt{}, f)
	_, err = FormatterByName("prettier")
	assert.Error(t, err)

	got, err := Builtin{}.Format(context.Background(), []byte("a {\n\n  b  \n\n\n\n}\n\nc\n\n"))
	require.NoError(t, err)
	assert.Equal(t, "a {\n  b\n}\n\nc\n", string(got))

	_, err = Rustfmt{Path: filepath.Join(t.TempDir(), "missing-rustfmt")}.Format(context.Background(), []byte("fn main() {}"))
	assert.ErrorIs(t, err, ErrFormat)
}
