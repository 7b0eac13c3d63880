// Package loader reads an OpenAPI document from a file or an http(s) URL,
// detects its version and hands it to the matching spec adapter.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/openapi2rust/internal/spec"
	"github.com/mark3labs/openapi2rust/internal/spec/oas30"
	"github.com/mark3labs/openapi2rust/internal/spec/oas31"
	"gopkg.in/yaml.v3"
)

// Settings configures loader behavior.
type Settings struct {
	// HTTPTimeout bounds each HTTP request.
	HTTPTimeout time.Duration
	// MaxRetries for transient HTTP failures (>=500, 429, or network errors).
	MaxRetries int
	// BackoffBase is the base delay for exponential backoff.
	BackoffBase time.Duration
	Logger      *slog.Logger
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{
		HTTPTimeout: 10 * time.Second,
		MaxRetries:  3,
		BackoffBase: 200 * time.Millisecond,
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option            { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option { return func(s *Settings) { s.BackoffBase = d } }
func WithLogger(l *slog.Logger) Option       { return func(s *Settings) { s.Logger = l } }

// Load reads input and parses it. input may be a filesystem path or an
// http/https URL; file:// URLs are rejected.
func Load(ctx context.Context, input string, opts ...Option) (spec.Spec, error) {
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	log := settings.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	data, location, err := read(ctx, input, settings)
	if err != nil {
		return nil, err
	}
	log.Debug("read document", "location", location, "bytes", len(data))

	doc, err := Parse(data)
	if err != nil {
		var se *spec.SpecError
		if errors.As(err, &se) && se.Location == "" {
			se.Location = location
		}
		return nil, err
	}
	log.Debug("parsed document", "location", location, "version", doc.Version())
	return doc, nil
}

// Parse detects the OpenAPI version of data, rejects unsupported references
// and invalid response keys, and builds the matching adapter.
func Parse(data []byte) (spec.Spec, error) {
	version, err := spec.ProbeVersion(data)
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &spec.SpecError{Code: spec.ParseError, Message: fmt.Sprintf("parse document: %v", err), Cause: err}
	}
	if err := spec.Precheck(&root); err != nil {
		return nil, err
	}

	switch version {
	case spec.Version30:
		doc, err := oas30.New(data, &root)
		if err != nil {
			return nil, err
		}
		return doc, nil
	case spec.Version31:
		doc, err := oas31.New(&root)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
	return nil, &spec.SpecError{Code: spec.UnsupportedVersion, Message: fmt.Sprintf("unsupported OpenAPI version %s", version)}
}

func read(ctx context.Context, input string, settings Settings) ([]byte, string, error) {
	if strings.TrimSpace(input) == "" {
		return nil, "", &spec.SpecError{Code: spec.InputError, Message: "spec: input is empty"}
	}

	// Classify input as URL or file path.
	u, uerr := url.Parse(input)
	if uerr == nil && u.Scheme != "" && u.Host != "" {
		scheme := strings.ToLower(u.Scheme)
		if scheme == "file" {
			return nil, input, &spec.SpecError{Code: spec.InputError, Message: "spec: file:// URLs are not supported; pass a path", Location: input}
		}
		if scheme != "http" && scheme != "https" {
			return nil, input, &spec.SpecError{Code: spec.InputError, Message: fmt.Sprintf("spec: unsupported URL scheme %q (only http/https allowed)", scheme), Location: input}
		}
		raw, err := fetchWithRetry(ctx, input, settings)
		if err != nil {
			return nil, input, &spec.SpecError{Code: spec.NetworkError, Message: fmt.Sprintf("fetch %s: %v", input, err), Location: input, Cause: err}
		}
		return raw, input, nil
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return nil, input, &spec.SpecError{Code: spec.InputError, Message: fmt.Sprintf("resolve path: %v", err), Location: input, Cause: err}
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, abs, &spec.SpecError{Code: spec.InputError, Message: fmt.Sprintf("read file %s: %v", abs, err), Location: abs, Cause: err}
	}
	return raw, abs, nil
}

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
	client := &http.Client{Timeout: settings.HTTPTimeout}
	var lastErr error
	backoff := settings.BackoffBase
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	attempts := settings.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		body, retry, err := fetchOnce(ctx, client, rawURL)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	if lastErr == nil {
		lastErr = errors.New("fetch failed")
	}
	return nil, lastErr
}

// fetchOnce performs one GET. retry reports whether the failure is transient.
func fetchOnce(ctx context.Context, client *http.Client, rawURL string) (body []byte, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 300 {
		body, err := io.ReadAll(resp.Body)
		return body, false, err
	}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, true, fmt.Errorf("transient http error %d", resp.StatusCode)
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return nil, false, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
}
