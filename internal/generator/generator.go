// Package generator translates an OpenAPI document into a code model of
// Rust declarations.
//
// Translation runs in three passes over the document:
//  1. a stub is declared for every component schema, so schemas can refer
//     to each other in any order;
//  2. every component schema body is built, patching its stub;
//  3. each operation becomes a function on the Client record, together
//     with the sum types describing its request body and responses.
package generator

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mark3labs/openapi2rust/internal/codemodel"
	"github.com/mark3labs/openapi2rust/internal/naming"
	"github.com/mark3labs/openapi2rust/internal/source"
	"github.com/mark3labs/openapi2rust/internal/spec"
)

// Options controls translation.
type Options struct {
	// Traits adds one trait per operation tag, implemented by Client.
	Traits bool
	// TypesOnly skips the operation pass: no Client, no functions.
	TypesOnly bool
	// OptionalFields wraps fields that are not required in Option.
	OptionalFields bool
	Logger         *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

func WithTraits(v bool) Option         { return func(o *Options) { o.Traits = v } }
func WithTypesOnly(v bool) Option      { return func(o *Options) { o.TypesOnly = v } }
func WithOptionalFields(v bool) Option { return func(o *Options) { o.OptionalFields = v } }
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

// Result is a translated document.
type Result struct {
	Model *codemodel.Codemodel
	// Module holds every generated declaration.
	Module *codemodel.Module
	// Client is nil in types-only mode.
	Client *codemodel.Record
}

// Build translates doc.
func Build(doc spec.Spec, opts ...Option) (*Result, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	log := o.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cm := codemodel.New()
	g := &generator{
		doc:    doc,
		opts:   o,
		log:    log,
		cm:     cm,
		mod:    cm.LocalCrate(),
		named:  map[string]codemodel.TypeRef{},
		inline: map[string]codemodel.TypeRef{},
	}
	if err := g.declareStubs(); err != nil {
		return nil, err
	}
	if err := g.defineSchemas(); err != nil {
		return nil, err
	}
	res := &Result{Model: cm, Module: g.mod}
	if o.TypesOnly {
		log.Debug("types only, skipping operations")
		return res, nil
	}
	client, err := g.defineOperations()
	if err != nil {
		return nil, err
	}
	res.Client = client
	return res, nil
}

type generator struct {
	doc  spec.Spec
	opts Options
	log  *slog.Logger
	cm   *codemodel.Codemodel
	mod  *codemodel.Module

	// named maps component schema names to their stub.
	named map[string]codemodel.TypeRef
	// inline memoizes inline schemas by source key.
	inline map[string]codemodel.TypeRef
}

func (g *generator) declareStubs() error {
	schemata := g.doc.Schemata()
	g.log.Debug("declaring stubs", "schemas", len(schemata))
	for _, s := range schemata {
		name := g.uncollideType(naming.TypeName(s.Name))
		stub, err := g.mod.InsertTypeStub(name)
		if err != nil {
			return fmt.Errorf("declare %s: %w", s.Name, err)
		}
		g.named[s.Name] = stub
		g.log.Debug("stub", "schema", s.Name, "type", name)
	}
	return nil
}

func (g *generator) defineSchemas() error {
	for _, s := range g.doc.Schemata() {
		stub := g.named[s.Name].(*codemodel.Indirection)
		name := stub.Name()
		if s.Value.IsRef() {
			at := source.SchemaURI(schemaRefPrefix + source.EscapeToken(s.Name))
			target, err := g.typeOf(s.Value, at, name)
			if err != nil {
				return err
			}
			// an alias chain must end in an inline schema
			if _, err := s.Value.ResolveFully(); err != nil {
				return err
			}
			if _, err := g.mod.InsertAlias(codemodel.NewAlias(name, target)); err != nil {
				return fmt.Errorf("define %s: %w", s.Name, err)
			}
			continue
		}
		schema, _ := s.Value.Object()
		t, declared, err := g.translate(schema, func() string { return name })
		if err != nil {
			return err
		}
		if declared {
			continue
		}
		if _, err := g.mod.InsertAlias(codemodel.NewAlias(name, t)); err != nil {
			return fmt.Errorf("define %s: %w", schema.Source(), err)
		}
	}
	g.log.Debug("defined schemas", "types", len(g.mod.Types()))
	return nil
}

// uncollideType picks a free name in the module's type namespace.
func (g *generator) uncollideType(name string) string {
	free := naming.Uncollide(g.mod.ContainsType, name)
	if free != name {
		g.log.Debug("renamed type", "wanted", name, "got", free)
	}
	return free
}

func (g *generator) attr(path, tokens string) codemodel.Attr {
	a, err := codemodel.NewAttr(path, tokens)
	if err != nil {
		panic(err)
	}
	return a
}
