// Package rustemitter serializes a code model module to a Rust source file.
package rustemitter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/openapi2rust/internal/codemodel"
)

var (
	ErrUnresolvedStub = errors.New("unresolved type stub")
	ErrReparse        = errors.New("generated code does not reparse")
	ErrFormat         = errors.New("format generated code")
	ErrOutOfDate      = errors.New("output is out of date")
	ErrExists         = errors.New("output file exists")
)

// DefaultModuleName wraps generated code when Options.ModuleName is empty.
const DefaultModuleName = "generated_api"

// Options controls how the Rust emitter renders and writes a module.
type Options struct {
	ModuleName string    // wrapping module; defaults to DefaultModuleName
	Formatter  Formatter // defaults to Builtin
	Out        string    // target file; empty means render only
	Force      bool      // overwrite an existing Out
	DryRun     bool      // don't write, only plan
	Check      bool      // compare with Out instead of writing
	Logger     *slog.Logger
}

// PlannedFile describes the file the emitter intends to write.
type PlannedFile struct {
	Path string
	Size int
	Mode os.FileMode
}

// Result carries the rendered source and what happened to it.
type Result struct {
	Source  []byte
	Planned []PlannedFile
	Written bool
}

// Emit renders m, formats it and, when Out is set, writes or checks it.
func Emit(ctx context.Context, m *codemodel.Module, opts Options) (*Result, error) {
	if m == nil {
		return nil, fmt.Errorf("rustemitter: nil module")
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	name := opts.ModuleName
	if name == "" {
		name = DefaultModuleName
	}
	formatter := opts.Formatter
	if formatter == nil {
		formatter = Builtin{}
	}

	src, err := Render(m, name)
	if err != nil {
		return nil, err
	}
	src, err = formatter.Format(ctx, src)
	if err != nil {
		return nil, err
	}
	log.Debug("rendered module", "module", name, "bytes", len(src))

	res := &Result{Source: src}
	if opts.Out == "" {
		return res, nil
	}
	abs, err := filepath.Abs(opts.Out)
	if err != nil {
		return nil, fmt.Errorf("resolve output path: %w", err)
	}
	res.Planned = []PlannedFile{{Path: abs, Size: len(src), Mode: 0o644}}

	switch {
	case opts.Check:
		return res, checkFile(abs, src)
	case opts.DryRun:
		return res, nil
	}
	if err := writeFile(abs, src, opts.Force); err != nil {
		return nil, err
	}
	res.Written = true
	log.Debug("wrote output", "path", abs)
	return res, nil
}

func checkFile(path string, want []byte) error {
	got, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutOfDate, path, err)
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("%w: %s", ErrOutOfDate, path)
	}
	return nil
}

func writeFile(path string, content []byte, force bool) error {
	if st, err := os.Stat(path); err == nil {
		if st.IsDir() {
			return fmt.Errorf("rustemitter: output %q is a directory", path)
		}
		if !force {
			return fmt.Errorf("%w: %q (use --force to overwrite)", ErrExists, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	// atomic write via temp file + rename
	tmp := path + ".tmp-" + time.Now().Format("20060102150405")
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("write temp %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
