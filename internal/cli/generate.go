package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/openapi2rust/internal/emitter/rustemitter"
	"github.com/mark3labs/openapi2rust/internal/generator"
	"github.com/mark3labs/openapi2rust/internal/loader"
	"github.com/mark3labs/openapi2rust/internal/rustsyntax"
	"github.com/mark3labs/openapi2rust/internal/spec"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	Input          string
	Out            string
	ModuleName     string
	Formatter      string
	Traits         bool
	TypesOnly      bool
	OptionalFields bool
	ConfigPath     string
	Check          bool
	DryRun         bool
	Force          bool
	Verbose        bool
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{ModuleName: rustemitter.DefaultModuleName, Formatter: "builtin"}
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a Rust client module from an OpenAPI 3.0/3.1 document",
		Long: "Generate a Rust client module from an OpenAPI 3.0/3.1 document. " +
			"Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  openapi2rust generate --path openapi.yaml --out src/api.rs
  openapi2rust --config openapi2rust.yaml generate --traits --dry-run`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("path", "", "Path or URL to the OpenAPI document")
	flags.String("input", "", "Alias for --path")
	flags.String("out", "", "Output .rs file (stdout when omitted)")
	flags.String("module-name", "", "Name of the wrapping Rust module (default generated_api)")
	flags.String("formatter", "", "Formatter for the emitted code (builtin|rustfmt)")
	flags.Bool("traits", false, "Also emit one trait per operation tag, implemented by Client")
	flags.Bool("types", false, "Emit only type definitions, no Client")
	flags.Bool("optional-fields", false, "Wrap fields that are not required in Option")
	flags.Bool("check", false, "Fail if --out differs from the generated code instead of writing")
	flags.Bool("dry-run", false, "Preview the planned write without writing")
	flags.Bool("force", false, "Overwrite an existing output file")

	return cmd
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{"input", &cfg.Input},
		{"path", &cfg.Input},
		{"out", &cfg.Out},
		{"module-name", &cfg.ModuleName},
		{"formatter", &cfg.Formatter},
	}
	for _, f := range strs {
		if !flags.Changed(f.name) {
			continue
		}
		value, err := flags.GetString(f.name)
		if err != nil {
			return err
		}
		*f.dst = strings.TrimSpace(value)
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"traits", &cfg.Traits},
		{"types", &cfg.TypesOnly},
		{"optional-fields", &cfg.OptionalFields},
		{"check", &cfg.Check},
		{"dry-run", &cfg.DryRun},
		{"force", &cfg.Force},
		{"verbose", &cfg.Verbose},
	}
	for _, f := range bools {
		if !flags.Changed(f.name) {
			continue
		}
		value, err := flags.GetBool(f.name)
		if err != nil {
			return err
		}
		*f.dst = value
	}

	return nil
}

func (c *GenerateConfig) normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Out = strings.TrimSpace(c.Out)
	c.ModuleName = strings.TrimSpace(c.ModuleName)
	c.Formatter = strings.ToLower(strings.TrimSpace(c.Formatter))
	if c.ModuleName == "" {
		c.ModuleName = rustemitter.DefaultModuleName
	}
	if c.Formatter == "" {
		c.Formatter = "builtin"
	}
}

func (c *GenerateConfig) validate() error {
	if c.Input == "" {
		return newUsageError("generate: --path is required (set via flag or config file)")
	}
	if !rustsyntax.IsIdent(c.ModuleName) {
		return newUsageError(fmt.Sprintf("generate: --module-name %q is not a Rust identifier", c.ModuleName))
	}
	if _, err := rustemitter.FormatterByName(c.Formatter); err != nil {
		return newUsageError(fmt.Sprintf("generate: unsupported --formatter %q (allowed: builtin, rustfmt)", c.Formatter))
	}
	if c.Check && c.Out == "" {
		return newUsageError("generate: --check needs --out")
	}
	if c.Check && c.DryRun {
		return newUsageError("generate: --check and --dry-run are mutually exclusive")
	}
	return nil
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	log := newLogger(cfg.Verbose)

	// 1) Load the spec (file or http/https URL)
	doc, err := loader.Load(ctx, cfg.Input, loader.WithLogger(log))
	if err != nil {
		return specUsageError(err)
	}

	// 2) Translate into the code model
	res, err := generator.Build(doc,
		generator.WithTraits(cfg.Traits),
		generator.WithTypesOnly(cfg.TypesOnly),
		generator.WithOptionalFields(cfg.OptionalFields),
		generator.WithLogger(log),
	)
	if err != nil {
		return specUsageError(fmt.Errorf("translate: %w", err))
	}

	// 3) Render, format and write
	formatter, err := rustemitter.FormatterByName(cfg.Formatter)
	if err != nil {
		return newUsageError(err.Error())
	}
	out, err := rustemitter.Emit(ctx, res.Module, rustemitter.Options{
		ModuleName: cfg.ModuleName,
		Formatter:  formatter,
		Out:        cfg.Out,
		Force:      cfg.Force,
		DryRun:     cfg.DryRun,
		Check:      cfg.Check,
		Logger:     log,
	})
	if err != nil {
		return wrapOutputError(err, cfg.Out)
	}

	switch {
	case cfg.Out == "":
		_, err = os.Stdout.Write(out.Source)
		return err
	case cfg.DryRun:
		printPlan(out.Planned)
	case cfg.Check:
		fmt.Fprintf(os.Stdout, "%s is up to date\n", out.Planned[0].Path)
	}
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// specUsageError maps structured spec errors into friendly messages.
func specUsageError(err error) error {
	var se *spec.SpecError
	if !errors.As(err, &se) {
		return err
	}
	msg := se.Message
	if !strings.HasPrefix(msg, "spec:") {
		msg = "spec: " + msg
	}
	if se.Location != "" {
		msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
	}
	if se.Pointer != "" {
		msg = fmt.Sprintf("%s\nPointer: %s", msg, se.Pointer)
	}
	if se.Cause != nil {
		msg = fmt.Sprintf("%s\nCause: %v", msg, se.Cause)
	}
	return newUsageError(msg)
}

func printPlan(planned []rustemitter.PlannedFile) {
	fmt.Fprintf(os.Stdout, "Planned writes (%d files):\n", len(planned))
	for _, p := range planned {
		fmt.Fprintf(os.Stdout, "- %s (%d bytes)\n", p.Path, p.Size)
	}
}

func wrapOutputError(err error, out string) error {
	switch {
	case errors.Is(err, rustemitter.ErrExists):
		return newUsageError(fmt.Sprintf("output error: %v", err))
	case errors.Is(err, rustemitter.ErrOutOfDate):
		return newUsageError(fmt.Sprintf("%v\nHint: rerun without --check to regenerate.", err))
	}
	// Provide clearer guidance for common FS failures.
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "permission") || strings.Contains(lower, "read-only") || strings.Contains(lower, "mkdir") || strings.Contains(lower, "rename") || strings.Contains(lower, "directory") {
		return newUsageError(fmt.Sprintf("output error for %s: %v\nHint: choose a different --out or use --force when appropriate.", out, err))
	}
	return err
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	strs := map[string]*string{
		"path":       &cfg.Input,
		"input":      &cfg.Input,
		"out":        &cfg.Out,
		"modulename": &cfg.ModuleName,
		"formatter":  &cfg.Formatter,
	}
	bools := map[string]*bool{
		"traits":         &cfg.Traits,
		"types":          &cfg.TypesOnly,
		"optionalfields": &cfg.OptionalFields,
		"check":          &cfg.Check,
		"dryrun":         &cfg.DryRun,
		"force":          &cfg.Force,
		"verbose":        &cfg.Verbose,
	}
	// keys that normalize to the same option, like path and input, conflict
	seen := map[any]string{}
	for key, value := range raw {
		normalized := normalizeKey(key)
		if dst, ok := strs[normalized]; ok {
			if prev, dup := seen[dst]; dup {
				return conflictingFields(path, prev, key)
			}
			seen[dst] = key
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			*dst = str
			continue
		}
		if dst, ok := bools[normalized]; ok {
			if prev, dup := seen[dst]; dup {
				return conflictingFields(path, prev, key)
			}
			seen[dst] = key
			val, err := valueAsBool(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			*dst = val
			continue
		}
		return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
	}

	return nil
}

func conflictingFields(path, a, b string) error {
	if b < a {
		a, b = b, a
	}
	return newUsageError(fmt.Sprintf("config file %q: fields %q and %q set the same option", path, a, b))
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n", "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}
