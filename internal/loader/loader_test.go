package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/openapi2rust/internal/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstore30 = `openapi: 3.0.3
info:
  title: Pets
  version: 1.0.0
paths:
  /pets:
    get:
      responses:
        '200':
          description: ok
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
`

const petstore31 = `openapi: 3.1.0
info:
  title: Pets
  version: 1.0.0
paths: {}
`

func TestLoad_BlocksFileURL(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), "file:///etc/hosts")
	if err == nil {
		t.Fatalf("expected error for file:// URL")
	}
	var se *spec.SpecError
	if !errors.As(err, &se) {
		t.Fatalf("expected SpecError, got %T", err)
	}
	if se.Code != spec.InputError {
		t.Fatalf("expected InputError, got %v", se.Code)
	}
}

func TestLoad_UnsupportedScheme(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), "ftp://example.com/spec.yaml")
	var se *spec.SpecError
	if !errors.As(err, &se) || se.Code != spec.InputError {
		t.Fatalf("expected InputError, got %v (%T)", err, err)
	}
}

func TestLoad_EmptyInput(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), "  ")
	assert.ErrorIs(t, err, spec.ErrInput)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Load(context.Background(), path)
	var se *spec.SpecError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, spec.InputError, se.Code)
	assert.Equal(t, path, se.Location)
}

func TestLoad_NetworkError(t *testing.T) {
	t.Parallel()
	// Unused port to provoke a quick network failure.
	url := "http://127.0.0.1:1/spec.yaml"
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := Load(ctx, url, WithHTTPTimeout(200*time.Millisecond), WithMaxRetries(2), WithBackoffBase(10*time.Millisecond))
	var se *spec.SpecError
	if !errors.As(err, &se) || se.Code != spec.NetworkError {
		t.Fatalf("expected NetworkError, got %v (%T)", err, err)
	}
}

func TestLoad_RetriesTransientStatus(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(petstore30))
	}))
	defer srv.Close()

	doc, err := Load(context.Background(), srv.URL+"/openapi.yaml", WithBackoffBase(time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, spec.Version30, doc.Version())
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoad_DoesNotRetryClientError(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL, WithBackoffBase(time.Millisecond))
	assert.ErrorIs(t, err, spec.ErrNetwork)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoad_FileDispatchesOnVersion(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for name, body := range map[string]string{"v30.yaml": petstore30, "v31.yaml": petstore31} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	doc, err := Load(context.Background(), filepath.Join(dir, "v30.yaml"))
	require.NoError(t, err)
	assert.Equal(t, spec.Version30, doc.Version())
	require.Len(t, doc.Paths(), 1)
	assert.Equal(t, "/pets", doc.Paths()[0].Name)

	doc, err = Load(context.Background(), filepath.Join(dir, "v31.yaml"))
	require.NoError(t, err)
	assert.Equal(t, spec.Version31, doc.Version())
	assert.Empty(t, doc.Paths())
}

func TestLoad_ErrorCarriesLocation(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "swagger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("swagger: '2.0'\ninfo: {}\n"), 0o644))

	_, err := Load(context.Background(), path)
	var se *spec.SpecError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, spec.ParseError, se.Code)
	abs, _ := filepath.Abs(path)
	assert.Equal(t, abs, se.Location)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{name: "unsupported version", data: "openapi: 2.0.0\n", want: spec.ErrUnsupportedVersion},
		{name: "no version", data: "info: {}\n", want: spec.ErrParse},
		{name: "malformed yaml", data: "openapi: 3.1.0\npaths: [\n", want: spec.ErrParse},
		{name: "external ref", data: "openapi: 3.1.0\ncomponents:\n  schemas:\n    A:\n      $ref: other.yaml#/A\n", want: spec.ErrUnsupportedReference},
		{name: "dangling ref", data: "openapi: 3.1.0\ncomponents:\n  schemas:\n    A:\n      $ref: '#/components/schemas/B'\n", want: spec.ErrDanglingReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
