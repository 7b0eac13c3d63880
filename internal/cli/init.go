package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const defaultConfigName = "openapi2rust.yaml"

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath string
	Force      bool
}

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a sample openapi2rust configuration file",
		Long:  "Scaffold a commented openapi2rust configuration file that documents available options.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			return initRunner(cmd.Context(), &InitConfig{OutputPath: out, Force: force})
		},
	}

	cmd.Flags().String("out", defaultConfigName, "Where to write the sample config file")
	cmd.Flags().Bool("force", false, "Overwrite the target file if it already exists")

	return cmd
}

func runInit(_ context.Context, cfg *InitConfig) error {
	out := strings.TrimSpace(cfg.OutputPath)
	if out == "" {
		out = defaultConfigName
	}
	absPath, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("init: resolve output path: %w", err)
	}

	if st, err := os.Stat(absPath); err == nil && !cfg.Force && st.Mode().IsRegular() {
		return newUsageError(fmt.Sprintf("init: %q already exists (use --force to overwrite)", absPath))
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot create parent directory: %v", err))
	}

	tmp := absPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(strings.TrimSpace(sampleConfigYAML)+"\n"), 0o644); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot write temp file: %v\nHint: choose a different --out or check directory permissions.", err))
	}
	if err := os.Rename(tmp, absPath); err != nil {
		_ = os.Remove(tmp)
		return newUsageError(fmt.Sprintf("init: cannot place file at %s: %v", absPath, err))
	}
	fmt.Fprintf(os.Stdout, "Wrote sample config to %s\n", absPath)
	return nil
}

// sampleConfigYAML documents every key the generate command reads.
const sampleConfigYAML = `# openapi2rust configuration (YAML)
# All fields are optional. Command-line flags override config values.

# Path or URL to the OpenAPI 3.0/3.1 document (http/https or local file).
# path: ./openapi.yaml

# Output .rs file. Generated code goes to stdout when omitted.
# out: ./src/api.rs

# Name of the module wrapping the generated code.
# moduleName: generated_api

# Also emit one trait per operation tag, implemented by Client.
# traits: false

# Emit only the schema types, without Client and its operations.
# types: false

# Wrap fields that are not listed as required in Option.
# optionalFields: false

# Formatter for the emitted code: builtin or rustfmt (must be on PATH).
# formatter: builtin

# Fail when out differs from the generated code instead of writing it.
# check: false

# Preview the planned write without writing.
# dryRun: false

# Overwrite an existing out file.
# force: false

# Enable verbose logging.
# verbose: false
`
