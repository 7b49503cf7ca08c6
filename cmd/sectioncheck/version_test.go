package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuildInfo(t *testing.T) {
	t.Parallel()

	// Each falls back to a placeholder rather than an empty string.
	for name, got := range map[string]string{
		"version": getVersion(),
		"commit":  getCommit(),
		"date":    getDate(),
	} {
		if got == "" {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"sectioncheck version", "commit:", "built:"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got %q", want, output)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	t.Parallel()

	if got := firstNonEmpty("x", "", "b", "c"); got != "b" {
		t.Errorf("firstNonEmpty() = %q, want b", got)
	}
	if got := firstNonEmpty("x", "", ""); got != "x" {
		t.Errorf("firstNonEmpty() = %q, want x", got)
	}
}
