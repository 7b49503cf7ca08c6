package main

import (
	"strings"
	"testing"

	"github.com/nao1215/sectioncheck/internal/config"
	"github.com/nao1215/sectioncheck/internal/model"
	"github.com/nao1215/sectioncheck/internal/standard"
)

func TestRulesCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists the built-in standard", func(t *testing.T) {
		t.Parallel()

		out, err := executeRoot(t, "rules", "--config", writePage(t, t.TempDir(), config.DefaultConfigFile, "{}"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			"Standard: " + standard.Default().ID(),
			"Canonical order:",
			"cruise_port",
			"(optional)",
			"first match wins",
			"Gallery credits required",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("exports loadable yaml", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		out, err := executeRoot(t, "rules", "--yaml", "--config", writePage(t, dir, config.DefaultConfigFile, "{}"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		exported, err := standard.Load(writePage(t, dir, "exported.yaml", out))
		if err != nil {
			t.Fatalf("exported standard does not load: %v", err)
		}
		if exported.ID() != standard.Default().ID() {
			t.Errorf("ID() = %q", exported.ID())
		}
		if len(exported.Rules) != len(standard.Default().Rules) {
			t.Errorf("got %d rules", len(exported.Rules))
		}
	})

	t.Run("applies path overrides", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		project := writePage(t, dir, config.DefaultConfigFile, `
paths:
  "river/**":
    optional: [cruise_port]
`)
		page := writePage(t, dir, "river/passau.html", orderedPage)

		out, err := executeRoot(t, "rules", "--config", project, page)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := model.CategoryCruisePort.Title() + " (optional)"
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	})
}

func TestFormatWordRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   standard.WordRange
		want string
	}{
		{standard.WordRange{Min: 100, Max: 400}, "100-400 words"},
		{standard.WordRange{Min: 300}, "at least 300 words"},
		{standard.WordRange{Max: 50}, "at most 50 words"},
		{standard.WordRange{}, "unbounded"},
	}

	for _, tt := range tests {
		if got := formatWordRange(tt.in); got != tt.want {
			t.Errorf("formatWordRange(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
