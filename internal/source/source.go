package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	// ErrNoDocuments is returned when the targets expand to nothing.
	ErrNoDocuments = errors.New("no HTML documents found")

	// ErrInvalidPattern is returned for malformed ignore patterns.
	ErrInvalidPattern = errors.New("invalid glob pattern")
)

// skippedDirs are never descended into when walking a directory.
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// Expander turns targets into document paths.
type Expander struct {
	ignore     []string
	extensions map[string]bool
}

// Option configures an Expander.
type Option func(*Expander)

// WithIgnore excludes paths matching any of patterns.
func WithIgnore(patterns ...string) Option {
	return func(e *Expander) {
		e.ignore = append(e.ignore, patterns...)
	}
}

// WithExtensions replaces the accepted extensions (default .html and .htm).
func WithExtensions(exts ...string) Option {
	return func(e *Expander) {
		e.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			e.extensions[strings.ToLower(ext)] = true
		}
	}
}

// NewExpander creates an Expander, validating its ignore patterns.
func NewExpander(opts ...Option) (*Expander, error) {
	e := &Expander{
		extensions: map[string]bool{".html": true, ".htm": true},
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, p := range e.ignore {
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
	}
	return e, nil
}

// Expand returns the sorted, de-duplicated documents named by targets.
// Explicit files are kept whatever their extension; directory and glob
// results are filtered to HTML files.
func (e *Expander) Expand(targets []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	add := func(path string) {
		path = filepath.Clean(path)
		if seen[path] || e.Ignored(path) {
			return
		}
		seen[path] = true
		out = append(out, path)
	}

	for _, target := range targets {
		if containsGlob(target) {
			matches, err := doublestar.FilepathGlob(target, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("glob %q: %w", target, err)
			}
			for _, m := range matches {
				if e.IsDocument(m) {
					add(m)
				}
			}
			continue
		}

		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", target, err)
		}
		if !info.IsDir() {
			add(target)
			continue
		}

		err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != target && skippedDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if e.IsDocument(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", target, err)
		}
	}

	if len(out) == 0 {
		return nil, ErrNoDocuments
	}
	sort.Strings(out)
	return out, nil
}

// IsDocument reports whether path has an accepted extension.
func (e *Expander) IsDocument(path string) bool {
	return e.extensions[strings.ToLower(filepath.Ext(path))]
}

// Ignored reports whether path matches an ignore pattern. Patterns are
// matched against every trailing run of path segments, so "drafts/**" and
// "index.html" apply at any depth.
func (e *Expander) Ignored(path string) bool {
	segments := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
	for _, p := range e.ignore {
		p = filepath.ToSlash(p)
		for i := range segments {
			if ok, _ := doublestar.Match(p, strings.Join(segments[i:], "/")); ok {
				return true
			}
		}
	}
	return false
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
