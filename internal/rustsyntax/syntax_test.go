package rustsyntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsIdent(t *testing.T) {
	for _, s := range []string{"pet", "Pet", "_x", "number_double", "Café"} {
		assert.True(t, IsIdent(s), s)
	}
	for _, s := range []string{"", "_", "1a", "r#", "type", "Self", "a-b", "a b", "async", "gen"} {
		assert.False(t, IsIdent(s), s)
	}
	assert.ErrorIs(t, CheckIdent("match"), ErrInvalidIdent)
}

func TestParsePath(t *testing.T) {
	valid := map[string]string{
		"serde":                     "serde",
		"::serde::Serialize":        "::serde::Serialize",
		"crate::models::Pet":        "crate::models::Pet",
		"self::super::Pet":          "self::super::Pet",
		"super::super::x":           "super::super::x",
		"$crate::x":                 "$crate::x",
		"std::collections::HashMap": "std::collections::HashMap",
	}
	for in, want := range valid {
		p, err := ParsePath(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, p.String())
	}

	for _, in := range []string{"", "::", "a::", "::crate", "a::::b", "a::self", "a::super", "de-rive", "a::fn"} {
		_, err := ParsePath(in)
		assert.ErrorIs(t, err, ErrInvalidPath, in)
	}

	assert.Equal(t, "HashMap", MustPath("std::collections::HashMap").Last())
}

func TestNormalizeType(t *testing.T) {
	tests := map[string]string{
		"Pet":                                   "Pet",
		"::std::vec::Vec< Pet >":                "::std::vec::Vec<Pet>",
		"HashMap<String,Vec<i64>>":              "HashMap<String, Vec<i64>>",
		"( )":                                   "()",
		"(i32,)":                                "(i32,)",
		"(i32)":                                 "i32",
		"(A,B)":                                 "(A, B)",
		"& 'a mut Client":                       "&'a mut Client",
		"&Client":                               "&Client",
		"[u8]":                                  "[u8]",
		"Box<dyn ::std::error::Error>":          "Box<dyn ::std::error::Error>",
		"::http::Response<::std::vec::Vec<u8>>": "::http::Response<::std::vec::Vec<u8>>",
	}
	for in, want := range tests {
		got, err := NormalizeType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseTypeRejects(t *testing.T) {
	for _, in := range []string{"", "Vec<", "Vec<>", "a:b", "Pet Dog", "fn", "(A B)", "[u8", "a::crate", "Foo-Bar", "&'1 T"} {
		_, err := ParseType(in)
		assert.ErrorIs(t, err, ErrInvalidType, in)
	}
}

func TestParseTypeShape(t *testing.T) {
	typ, err := ParseType("&'a mut ::std::vec::Vec<Pet>")
	require.NoError(t, err)
	assert.Equal(t, KindRef, typ.Kind)
	assert.Equal(t, "a", typ.Lifetime)
	assert.True(t, typ.Mut)
	inner := typ.Elems[0]
	assert.True(t, inner.Global)
	require.Len(t, inner.Segments, 3)
	assert.Equal(t, "Vec", inner.Segments[2].Name)
	assert.Equal(t, "Pet", inner.Segments[2].Args[0].String())
}
