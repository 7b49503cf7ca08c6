package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/sectioncheck/internal/model"
)

const sampleProject = `
standard: standards/port-page.yaml
defaults:
  optional: [depth_soundings]
paths:
  "ports/**":
    optional: [shopping]
  "ports/antarctica/**":
    standard: standards/expedition.toml
    optional: [beaches, shopping]
  "drafts/**":
    ignore: true
ignore:
  - "**/_partials/**"
`

func writeProject(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write project file: %v", err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()

		path := writeProject(t, sampleProject)
		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}
		if cf.Dir() != filepath.Dir(path) {
			t.Errorf("Dir() = %q, want %q", cf.Dir(), filepath.Dir(path))
		}
		if len(cf.Paths) != 3 {
			t.Errorf("got %d path overrides, want 3", len(cf.Paths))
		}
		if len(cf.Ignore) != 1 {
			t.Errorf("got %d ignore patterns, want 1", len(cf.Ignore))
		}
		want := filepath.Join(filepath.Dir(path), "standards", "port-page.yaml")
		if cf.StandardPath() != want {
			t.Errorf("StandardPath() = %q, want %q", cf.StandardPath(), want)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		path := writeProject(t, "paths: [not, a, map")
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()

		path := writeProject(t, "defaults:\n  optional: [casino]\n")
		_, err := LoadConfigFile(path)
		if !errors.Is(err, ErrUnknownCategory) {
			t.Errorf("error = %v, want ErrUnknownCategory", err)
		}
	})

	t.Run("bad pattern", func(t *testing.T) {
		t.Parallel()

		path := writeProject(t, "paths:\n  \"ports/[a-\":\n    ignore: true\n")
		_, err := LoadConfigFile(path)
		if !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("error = %v, want ErrInvalidPattern", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()

		path := writeProject(t, "")
		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}
		if cf.Paths == nil {
			t.Error("Paths should be initialized")
		}
		if cf.StandardPath() != "" {
			t.Errorf("StandardPath() = %q, want empty", cf.StandardPath())
		}
	})
}

func TestFile_GetPathConfig(t *testing.T) {
	t.Parallel()

	path := writeProject(t, sampleProject)
	cf, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	dir := cf.Dir()

	tests := []struct {
		name         string
		doc          string
		wantStandard string
		wantOptional []model.Category
		wantIgnore   bool
	}{
		{
			name:         "defaults only",
			doc:          filepath.Join(dir, "index.html"),
			wantStandard: filepath.Join(dir, "standards", "port-page.yaml"),
			wantOptional: []model.Category{model.CategoryDepthSoundings},
		},
		{
			name:         "single override accumulates optional",
			doc:          filepath.Join(dir, "ports", "lisbon.html"),
			wantStandard: filepath.Join(dir, "standards", "port-page.yaml"),
			wantOptional: []model.Category{model.CategoryDepthSoundings, model.CategoryShopping},
		},
		{
			name:         "more specific override replaces standard",
			doc:          filepath.Join(dir, "ports", "antarctica", "ushuaia.html"),
			wantStandard: filepath.Join(dir, "standards", "expedition.toml"),
			wantOptional: []model.Category{model.CategoryDepthSoundings, model.CategoryShopping, model.CategoryBeaches},
		},
		{
			name:         "ignored path",
			doc:          filepath.Join(dir, "drafts", "new.html"),
			wantStandard: filepath.Join(dir, "standards", "port-page.yaml"),
			wantOptional: []model.Category{model.CategoryDepthSoundings},
			wantIgnore:   true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pc := cf.GetPathConfig(tt.doc)
			if pc.Standard != tt.wantStandard {
				t.Errorf("Standard = %q, want %q", pc.Standard, tt.wantStandard)
			}
			if pc.Ignore != tt.wantIgnore {
				t.Errorf("Ignore = %v, want %v", pc.Ignore, tt.wantIgnore)
			}
			got := pc.OptionalCategories()
			if len(got) != len(tt.wantOptional) {
				t.Fatalf("Optional = %v, want %v", got, tt.wantOptional)
			}
			for i := range got {
				if got[i] != tt.wantOptional[i] {
					t.Errorf("Optional[%d] = %q, want %q", i, got[i], tt.wantOptional[i])
				}
			}
		})
	}
}

func TestFindConfigFile_ExplicitPath(t *testing.T) {
	t.Parallel()

	path := writeProject(t, sampleProject)
	if got := FindConfigFile(path); got != path {
		t.Errorf("FindConfigFile(%q) = %q", path, got)
	}
	if got := FindConfigFile(filepath.Join(t.TempDir(), "none")); got != "" {
		t.Errorf("FindConfigFile(missing) = %q, want empty", got)
	}
}
