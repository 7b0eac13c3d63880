package rustemitter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Formatter pretty-prints Rust source.
type Formatter interface {
	Format(ctx context.Context, src []byte) ([]byte, error)
}

// Builtin tidies the printer's output: trailing spaces are removed, blank
// lines are collapsed and the file ends with one newline.
type Builtin struct{}

func (Builtin) Format(_ context.Context, src []byte) ([]byte, error) {
	var out bytes.Buffer
	blank := false
	last := ""
	for _, l := range strings.Split(string(src), "\n") {
		l = strings.TrimRight(l, " \t")
		if l == "" {
			blank = true
			continue
		}
		// No blank line at the top of a block or before its end.
		if blank && last != "" && !strings.HasSuffix(last, "{") && !strings.HasPrefix(strings.TrimSpace(l), "}") {
			out.WriteByte('\n')
		}
		blank = false
		last = l
		out.WriteString(l)
		out.WriteByte('\n')
	}
	return out.Bytes(), nil
}

// Rustfmt pipes source through an external rustfmt.
type Rustfmt struct {
	Path    string // defaults to "rustfmt" on PATH
	Edition string // defaults to 2021
}

func (r Rustfmt) Format(ctx context.Context, src []byte) ([]byte, error) {
	path := r.Path
	if path == "" {
		path = "rustfmt"
	}
	edition := r.Edition
	if edition == "" {
		edition = "2021"
	}
	cmd := exec.CommandContext(ctx, path, "--edition", edition, "--emit", "stdout")
	cmd.Stdin = bytes.NewReader(src)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v: %s", ErrFormat, path, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// FormatterByName maps a configuration value to a Formatter.
func FormatterByName(name string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "builtin":
		return Builtin{}, nil
	case "rustfmt":
		return Rustfmt{}, nil
	}
	return nil, fmt.Errorf("unknown formatter %q (want builtin or rustfmt)", name)
}
