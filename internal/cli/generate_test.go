package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func captureConfig(t *testing.T) **GenerateConfig {
	t.Helper()
	captured := new(*GenerateConfig)
	generateRunner = func(ctx context.Context, cfg *GenerateConfig) error {
		*captured = cfg
		return nil
	}
	t.Cleanup(func() { generateRunner = runGenerate })
	return captured
}

func newTestRoot(args ...string) *cobra.Command {
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root
}

func TestGenerateConfigFromFlags(t *testing.T) {
	captured := captureConfig(t)

	root := newTestRoot(
		"--verbose",
		"generate",
		"--path", "spec.yaml",
		"--out", "./src/api.rs",
		"--module-name", "petstore",
		"--formatter", "RUSTFMT",
		"--traits",
		"--types",
		"--optional-fields",
		"--dry-run",
		"--force",
	)
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	cfg := *captured
	if cfg == nil {
		t.Fatalf("expected config to be captured")
	}
	if cfg.Input != "spec.yaml" {
		t.Errorf("input mismatch: got %q", cfg.Input)
	}
	if cfg.Out != "./src/api.rs" {
		t.Errorf("out mismatch: got %q", cfg.Out)
	}
	if cfg.ModuleName != "petstore" {
		t.Errorf("module name mismatch: got %q", cfg.ModuleName)
	}
	if cfg.Formatter != "rustfmt" {
		t.Errorf("formatter mismatch: got %q", cfg.Formatter)
	}
	if !cfg.Traits || !cfg.TypesOnly || !cfg.OptionalFields {
		t.Errorf("expected traits, types and optional fields: %+v", cfg)
	}
	if !cfg.DryRun {
		t.Errorf("expected dry-run true")
	}
	if !cfg.Force {
		t.Errorf("expected force true")
	}
	if !cfg.Verbose {
		t.Errorf("expected verbose true")
	}
}

func TestGenerateConfigDefaults(t *testing.T) {
	captured := captureConfig(t)

	if err := newTestRoot("generate", "--input", "spec.yaml").Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	cfg := *captured
	if cfg.Input != "spec.yaml" {
		t.Errorf("--input alias not honored: got %q", cfg.Input)
	}
	if cfg.ModuleName != "generated_api" {
		t.Errorf("module name: want generated_api got %q", cfg.ModuleName)
	}
	if cfg.Formatter != "builtin" {
		t.Errorf("formatter: want builtin got %q", cfg.Formatter)
	}
	if cfg.Out != "" || cfg.Traits || cfg.TypesOnly || cfg.OptionalFields || cfg.Check || cfg.DryRun || cfg.Force {
		t.Errorf("unexpected non-default config: %+v", cfg)
	}
}

func TestGenerateConfigPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	configContent := strings.TrimSpace(`path: config-spec.yaml
out: from-config.rs
module_name: cfg_api
Optional-Fields: yes
traits: true
dryRun: true
force: false
verbose: true
`) + "\n"

	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	captured := captureConfig(t)
	root := newTestRoot(
		"--config", configPath,
		"generate",
		"--path", "flag-spec.yaml",
		"--traits=false",
		"--dry-run=false",
		"--force",
	)
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	cfg := *captured
	if cfg == nil {
		t.Fatalf("expected config to be captured")
	}
	if cfg.Input != "flag-spec.yaml" {
		t.Errorf("input: want %q got %q", "flag-spec.yaml", cfg.Input)
	}
	if cfg.Out != "from-config.rs" {
		t.Errorf("out: want from-config.rs got %q", cfg.Out)
	}
	if cfg.ModuleName != "cfg_api" {
		t.Errorf("module name: want cfg_api got %q", cfg.ModuleName)
	}
	if !cfg.OptionalFields {
		t.Errorf("expected optional fields from config file")
	}
	if cfg.Traits {
		t.Errorf("expected traits false after flag override")
	}
	if cfg.DryRun {
		t.Errorf("expected dry-run false after flag override")
	}
	if !cfg.Force {
		t.Errorf("expected force true after flag override")
	}
	if !cfg.Verbose {
		t.Errorf("expected verbose true from config file")
	}
	if cfg.ConfigPath != configPath {
		t.Errorf("config path mismatch: got %q", cfg.ConfigPath)
	}
}

func TestGenerateConfigUnknownKey(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(configPath, []byte("lang: rust\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	err := newTestRoot("--config", configPath, "generate", "--path", "spec.yaml").Execute()
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestGenerateConfigConflictingKeys(t *testing.T) {
	for _, content := range []string{
		"path: a.yaml\ninput: b.yaml\n",
		"module_name: a\nmoduleName: b\n",
		"dry-run: true\ndry_run: false\n",
	} {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		err := newTestRoot("--config", configPath, "generate").Execute()
		if err == nil {
			t.Fatalf("%q: expected an error", content)
		}
		if !errors.Is(err, ErrUsage) {
			t.Fatalf("%q: expected usage error, got %v", content, err)
		}
		if !strings.Contains(err.Error(), "set the same option") {
			t.Fatalf("%q: unexpected error message: %v", content, err)
		}
	}
}

func TestGenerateConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing path", []string{"generate"}, "--path is required"},
		{"bad module name", []string{"generate", "--path", "s.yaml", "--module-name", "my-api"}, "not a Rust identifier"},
		{"keyword module name", []string{"generate", "--path", "s.yaml", "--module-name", "mod"}, "not a Rust identifier"},
		{"bad formatter", []string{"generate", "--path", "s.yaml", "--formatter", "prettier"}, "unsupported --formatter"},
		{"check without out", []string{"generate", "--path", "s.yaml", "--check"}, "--check needs --out"},
		{"check with dry run", []string{"generate", "--path", "s.yaml", "--out", "a.rs", "--check", "--dry-run"}, "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestRoot(tt.args...).Execute()
			if !errors.Is(err, ErrUsage) {
				t.Fatalf("expected usage error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValueAsBool(t *testing.T) {
	for in, want := range map[any]bool{true: true, "yes": true, "1": true, "N": false, "": false, nil: false} {
		got, err := valueAsBool(in)
		if err != nil {
			t.Fatalf("valueAsBool(%v): %v", in, err)
		}
		if got != want {
			t.Errorf("valueAsBool(%v) = %v, want %v", in, got, want)
		}
	}
	if _, err := valueAsBool("maybe"); err == nil {
		t.Errorf("expected error for invalid boolean")
	}
	if _, err := valueAsBool(3); err == nil {
		t.Errorf("expected error for non-boolean")
	}
}
