package source

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("<html></html>"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatal(err)
		}
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestExpander_Expand(t *testing.T) {
	t.Parallel()

	root := makeTree(t,
		"ports/nassau.html",
		"ports/cozumel.htm",
		"ports/notes.txt",
		"ports/drafts/juneau.html",
		"node_modules/lib/index.html",
		"index.html",
	)

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		e, err := NewExpander()
		if err != nil {
			t.Fatal(err)
		}
		got, err := e.Expand([]string{root})
		if err != nil {
			t.Fatalf("Expand() error = %v", err)
		}
		want := []string{"index.html", "ports/cozumel.htm", "ports/drafts/juneau.html", "ports/nassau.html"}
		if r := rel(t, root, got); !slices.Equal(r, want) {
			t.Errorf("Expand() = %v, want %v", r, want)
		}
	})

	t.Run("glob with ignore", func(t *testing.T) {
		t.Parallel()
		e, err := NewExpander(WithIgnore("**/drafts/**"))
		if err != nil {
			t.Fatal(err)
		}
		got, err := e.Expand([]string{filepath.Join(root, "ports", "**", "*.html")})
		if err != nil {
			t.Fatalf("Expand() error = %v", err)
		}
		if r := rel(t, root, got); !slices.Equal(r, []string{"ports/nassau.html"}) {
			t.Errorf("Expand() = %v", r)
		}
	})

	t.Run("explicit file deduplicated", func(t *testing.T) {
		t.Parallel()
		e, err := NewExpander()
		if err != nil {
			t.Fatal(err)
		}
		file := filepath.Join(root, "ports", "notes.txt")
		got, err := e.Expand([]string{file, file})
		if err != nil {
			t.Fatalf("Expand() error = %v", err)
		}
		if len(got) != 1 {
			t.Errorf("Expand() = %v", got)
		}
	})

	t.Run("base name ignore", func(t *testing.T) {
		t.Parallel()
		e, err := NewExpander(WithIgnore("index.html"))
		if err != nil {
			t.Fatal(err)
		}
		got, err := e.Expand([]string{root})
		if err != nil {
			t.Fatalf("Expand() error = %v", err)
		}
		for _, p := range got {
			if filepath.Base(p) == "index.html" {
				t.Errorf("index.html should be ignored: %v", got)
			}
		}
	})

	t.Run("no documents", func(t *testing.T) {
		t.Parallel()
		e, err := NewExpander(WithExtensions("xhtml"))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := e.Expand([]string{root}); !errors.Is(err, ErrNoDocuments) {
			t.Errorf("error = %v, want ErrNoDocuments", err)
		}
	})

	t.Run("missing target", func(t *testing.T) {
		t.Parallel()
		e, err := NewExpander()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := e.Expand([]string{filepath.Join(root, "absent")}); err == nil {
			t.Error("expected error")
		}
	})
}

func TestNewExpander_InvalidPattern(t *testing.T) {
	t.Parallel()

	if _, err := NewExpander(WithIgnore("[unclosed")); !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("error = %v, want ErrInvalidPattern", err)
	}
}

func TestExpander_Ignored(t *testing.T) {
	t.Parallel()

	e, err := NewExpander(WithIgnore("drafts/**", "*.bak.html", "site/legacy/*.html"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"site/ports/drafts/juneau.html", true},
		{"site/ports/nassau.bak.html", true},
		{"/srv/site/legacy/old.html", true},
		{"site/ports/nassau.html", false},
		{"site/legacy/sub/old.html", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := e.Ignored(filepath.FromSlash(tt.path)); got != tt.want {
				t.Errorf("Ignored(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
