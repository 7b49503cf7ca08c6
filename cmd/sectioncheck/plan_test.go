package main

import (
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"testing"

	"github.com/nao1215/sectioncheck/internal/config"
	"github.com/nao1215/sectioncheck/internal/model"
	"github.com/nao1215/sectioncheck/internal/standard"
)

func newTestPlanner(t *testing.T, project string) (*planner, string) {
	t.Helper()

	dir := t.TempDir()

	expedition := standard.Default()
	expedition.Name = "expedition"
	data, err := standard.Marshal(expedition)
	if err != nil {
		t.Fatal(err)
	}
	writePage(t, dir, "standards/expedition.yaml", string(data))

	cfg := config.NewConfig()
	cfg.Project, err = config.LoadConfigFile(writePage(t, dir, config.DefaultConfigFile, project))
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}

	return newPlanner(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))), dir
}

const planProject = `
defaults:
  optional: [logbook]
paths:
  "ports/**":
    optional: [map]
  "ports/antarctica/**":
    standard: standards/expedition.yaml
    optional: [shopping]
  "drafts/**":
    ignore: true
`

func TestPlannerStandard(t *testing.T) {
	t.Parallel()

	p, dir := newTestPlanner(t, planProject)

	std, err := p.Standard(filepath.Join(dir, "ports", "antarctica", "ushuaia.html"))
	if err != nil {
		t.Fatalf("Standard() error = %v", err)
	}
	if std.Name != "expedition" {
		t.Errorf("Name = %q, want expedition", std.Name)
	}
	for _, c := range []model.Category{model.CategoryLogbook, model.CategoryMap, model.CategoryShopping} {
		if !std.Rubric.IsOptional(c) {
			t.Errorf("%s should be optional", c)
		}
	}

	std, err = p.Standard(filepath.Join(dir, "ports", "lisbon.html"))
	if err != nil {
		t.Fatalf("Standard() error = %v", err)
	}
	if std.ID() != standard.Default().ID() {
		t.Errorf("ID() = %q", std.ID())
	}
}

func TestPlannerStandardFlagWins(t *testing.T) {
	t.Parallel()

	p, dir := newTestPlanner(t, planProject)
	p.cfg.StandardPath = filepath.Join(dir, "standards", "expedition.yaml")

	std, err := p.Standard(filepath.Join(dir, "ports", "lisbon.html"))
	if err != nil {
		t.Fatalf("Standard() error = %v", err)
	}
	if std.Name != "expedition" {
		t.Errorf("Name = %q, want expedition", std.Name)
	}
}

func TestPlannerPlanAll(t *testing.T) {
	t.Parallel()

	p, dir := newTestPlanner(t, planProject)

	lisbon := filepath.Join(dir, "ports", "lisbon.html")
	porto := filepath.Join(dir, "ports", "porto.html")
	ushuaia := filepath.Join(dir, "ports", "antarctica", "ushuaia.html")
	draft := filepath.Join(dir, "drafts", "new.html")

	plans, kept, err := p.PlanAll([]string{lisbon, draft, ushuaia, porto})
	if err != nil {
		t.Fatalf("PlanAll() error = %v", err)
	}

	if want := []string{lisbon, ushuaia, porto}; !slices.Equal(kept, want) {
		t.Errorf("kept = %v, want %v", kept, want)
	}
	if _, ok := plans[draft]; ok {
		t.Error("ignored document was planned")
	}
	if plans[lisbon] != plans[porto] {
		t.Error("documents with the same settings should share a pipeline")
	}
	if plans[lisbon] == plans[ushuaia] {
		t.Error("documents with different standards should not share a pipeline")
	}
}

func TestPlannerMissingStandard(t *testing.T) {
	t.Parallel()

	p, dir := newTestPlanner(t, `standard: standards/absent.yaml`)

	if _, _, err := p.Plan(filepath.Join(dir, "lisbon.html")); err == nil {
		t.Error("expected error for a missing standard file")
	}
}

func TestPlanKey(t *testing.T) {
	t.Parallel()

	a := planKey(config.PathConfig{Standard: "s.yaml", Optional: []string{"map", "beaches"}})
	b := planKey(config.PathConfig{Standard: "s.yaml", Optional: []string{"beaches", "map"}})
	if a != b {
		t.Errorf("planKey() depends on optional order: %q != %q", a, b)
	}
}
