package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/nao1215/sectioncheck/internal/model"
)

// PathConfig holds settings for the documents matching one pattern.
type PathConfig struct {
	// Standard is a standard file for these documents. Relative paths are
	// resolved against the project file's directory.
	Standard string `yaml:"standard,omitempty"`

	// Optional lists extra categories whose absence is informational only.
	Optional []string `yaml:"optional,omitempty"`

	// Ignore skips these documents entirely.
	Ignore bool `yaml:"ignore,omitempty"`
}

// File represents the structure of the .sectioncheck project file.
type File struct {
	// Standard is the project's default standard file.
	Standard string `yaml:"standard,omitempty"`

	// Defaults applies to every document before any path override.
	Defaults PathConfig `yaml:"defaults,omitempty"`

	// Paths maps doublestar patterns to overrides. Patterns are matched
	// against slash-separated paths relative to the project file.
	Paths map[string]PathConfig `yaml:"paths,omitempty"`

	// Ignore lists patterns for documents never to validate.
	Ignore []string `yaml:"ignore,omitempty"`

	// dir is the directory holding the project file.
	dir string
}

// Dir returns the directory the project file was loaded from.
func (f *File) Dir() string {
	return f.dir
}

// validate checks patterns and category names.
func (f *File) validate() error {
	if err := validateCategories(f.Defaults.Optional); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	for pattern, pc := range f.Paths {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
		if err := validateCategories(pc.Optional); err != nil {
			return fmt.Errorf("paths[%s]: %w", pattern, err)
		}
	}
	for _, pattern := range f.Ignore {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
	}
	return nil
}

func validateCategories(names []string) error {
	for _, n := range names {
		if !model.Category(n).IsKnown() {
			return fmt.Errorf("%w: %s", ErrUnknownCategory, n)
		}
	}
	return nil
}

// GetPathConfig returns the merged settings for the document at path.
//
// Defaults apply first, with the project standard as the fallback standard.
// Matching patterns are then applied from least to most specific (shorter
// patterns first, ties broken lexically): a later standard replaces an
// earlier one, optional categories accumulate and ignore is sticky.
// The returned Standard is an absolute or cwd-relative file path.
func (f *File) GetPathConfig(path string) PathConfig {
	result := PathConfig{
		Standard: f.Standard,
		Optional: append([]string(nil), f.Defaults.Optional...),
		Ignore:   f.Defaults.Ignore,
	}
	if f.Defaults.Standard != "" {
		result.Standard = f.Defaults.Standard
	}

	rel := f.relative(path)
	for _, pattern := range f.sortedPatterns() {
		if ok, _ := doublestar.Match(pattern, rel); !ok {
			continue
		}
		pc := f.Paths[pattern]
		if pc.Standard != "" {
			result.Standard = pc.Standard
		}
		for _, o := range pc.Optional {
			if !containsString(result.Optional, o) {
				result.Optional = append(result.Optional, o)
			}
		}
		result.Ignore = result.Ignore || pc.Ignore
	}

	result.Standard = f.resolve(result.Standard)
	return result
}

// OptionalCategories converts the Optional names to categories.
func (pc PathConfig) OptionalCategories() []model.Category {
	out := make([]model.Category, 0, len(pc.Optional))
	for _, o := range pc.Optional {
		out = append(out, model.Category(o))
	}
	return out
}

// StandardPath returns the project standard resolved against the project
// directory, or "" when none is set.
func (f *File) StandardPath() string {
	if f.Defaults.Standard != "" {
		return f.resolve(f.Defaults.Standard)
	}
	return f.resolve(f.Standard)
}

func (f *File) sortedPatterns() []string {
	patterns := make([]string, 0, len(f.Paths))
	for p := range f.Paths {
		patterns = append(patterns, p)
	}
	sort.Slice(patterns, func(i, j int) bool {
		if len(patterns[i]) != len(patterns[j]) {
			return len(patterns[i]) < len(patterns[j])
		}
		return patterns[i] < patterns[j]
	})
	return patterns
}

// relative returns path relative to the project directory in slash form.
// Paths outside the project directory are returned as given.
func (f *File) relative(path string) string {
	if f.dir != "" {
		abs, err := filepath.Abs(path)
		if err == nil {
			if rel, err := filepath.Rel(f.dir, abs); err == nil && !strings.HasPrefix(rel, "..") {
				return filepath.ToSlash(rel)
			}
		}
	}
	return filepath.ToSlash(filepath.Clean(path))
}

func (f *File) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || f.dir == "" {
		return p
	}
	return filepath.Join(f.dir, p)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
