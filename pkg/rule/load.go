package rule

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/macropower/hookify/pkg/header"
)

// FilePattern matches the names of rule documents.
const FilePattern = "hookify.*.local.md"

var (
	// ErrMissingHeader indicates a document has no header, or an empty one.
	ErrMissingHeader = errors.New("missing header (must start with " + header.Marker + ")")
	// ErrInvalidEncoding indicates a document is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid encoding")
)

// LoadFile reads the rule document at path.
func LoadFile(path string, source Source) (*Rule, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Rule paths come from the rule directories.
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}

	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", ErrInvalidEncoding, path)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	h, body := header.Parse(text)
	if len(h) == 0 {
		return nil, ErrMissingHeader
	}

	r, err := New(h, body, source, path)
	if err != nil {
		return nil, fmt.Errorf("parse rule file: %w", err)
	}

	return r, nil
}

// LoadOpt configures [LoadDir].
type LoadOpt func(*loadOptions)

type loadOptions struct {
	logger          *slog.Logger
	event           string
	includeDisabled bool
}

// WithEvent keeps only rules for event, or for all events.
// An empty event keeps every rule.
func WithEvent(event string) LoadOpt {
	return func(o *loadOptions) {
		o.event = event
	}
}

// WithDisabled keeps disabled rules.
func WithDisabled() LoadOpt {
	return func(o *loadOptions) {
		o.includeDisabled = true
	}
}

// WithLogger sets the logger that receives diagnostics for unusable files.
// Defaults to [slog.Default].
func WithLogger(logger *slog.Logger) LoadOpt {
	return func(o *loadOptions) {
		o.logger = logger
	}
}

// LoadDir reads every rule document in dir, in name order.
//
// Files that cannot be read or parsed are reported to the logger and
// skipped. An empty or missing directory yields no rules.
func LoadDir(dir string, source Source, opts ...LoadOpt) []*Rule {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	logger := o.logger.With(slog.String("source", string(source)))

	if dir == "" {
		logger.Debug("no rule directory")
		return nil
	}

	paths, err := findFiles(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("rule directory does not exist", slog.String("dir", dir))
		} else {
			logger.Warn("cannot read rule directory", slog.String("dir", dir), slog.Any("err", err))
		}

		return nil
	}

	var rules []*Rule

	for _, path := range paths {
		r, err := LoadFile(path, source)
		if err != nil {
			logger.Warn("skip rule file", slog.String("path", path), slog.Any("err", err))
			continue
		}

		if !r.MatchesEvent(o.event) {
			continue
		}

		if !r.Enabled && !o.includeDisabled {
			logger.Debug("skip disabled rule", slog.String("path", path), slog.String("name", r.Name))
			continue
		}

		rules = append(rules, r)
	}

	logger.Debug("loaded rules", slog.String("dir", dir), slog.Int("count", len(rules)))

	return rules
}

// findFiles returns the paths of rule documents directly inside dir.
func findFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var paths []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ok, err := filepath.Match(FilePattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", entry.Name(), err)
		}

		if ok {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	return paths, nil
}
