package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/sectioncheck/internal/database"
	"github.com/nao1215/sectioncheck/internal/model"
)

func newComparisonReport(path string, at time.Time, hash string, findings ...model.Finding) *model.Report {
	r := model.NewReport(path)
	r.DateValidated = at
	r.ContentHash = hash
	r.Standard = "port-page@2025.2"
	for _, f := range findings {
		r.AddFinding(f)
	}
	return r
}

func finding(findingType string, category model.Category) model.Finding {
	f := model.NewFinding(findingType, "Section "+string(category), "")
	f.Category = category
	return f
}

func TestCompareReports(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	previous := newComparisonReport("/site/lisbon.html", base, "aaa",
		finding(model.FindingOrderViolation, model.CategoryCruisePort),
		finding(model.FindingMissingSection, model.CategoryFAQ),
	)
	previous.Violations = []model.OrderViolation{{Category: model.CategoryCruisePort, Previous: model.CategoryGettingAround}}
	previous.Missing = []model.Category{model.CategoryFAQ}

	current := newComparisonReport("/site/lisbon.html", base.Add(time.Hour), "bbb",
		finding(model.FindingMissingSection, model.CategoryFAQ),
		finding(model.FindingMissingOptionalSection, model.CategoryBeaches),
	)
	current.Missing = []model.Category{model.CategoryFAQ, model.CategoryBeaches}

	result := compareReports(previous, current)

	if len(result.NewFindings) != 1 || result.NewFindings[0].Category != model.CategoryBeaches {
		t.Errorf("new findings = %+v", result.NewFindings)
	}
	if len(result.ResolvedFindings) != 1 || result.ResolvedFindings[0].Type != model.FindingOrderViolation {
		t.Errorf("resolved findings = %+v", result.ResolvedFindings)
	}
	if result.UnchangedCount != 1 {
		t.Errorf("unchanged = %d, want 1", result.UnchangedCount)
	}

	change := result.Change
	if change.Direction != directionImproved {
		t.Errorf("direction = %s, want %s", change.Direction, directionImproved)
	}
	if !change.ContentChanged {
		t.Error("expected content change")
	}
	if change.ViolationsDelta != -1 || change.MissingDelta != 1 {
		t.Errorf("violations delta = %d, missing delta = %d", change.ViolationsDelta, change.MissingDelta)
	}
}

func TestCalculateChange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		previous ValidationMetadata
		current  ValidationMetadata
		want     string
	}{
		{
			name:     "unchanged",
			previous: ValidationMetadata{HighCount: 1},
			current:  ValidationMetadata{HighCount: 1},
			want:     directionUnchanged,
		},
		{
			name:     "new high finding",
			previous: ValidationMetadata{MediumCount: 2},
			current:  ValidationMetadata{MediumCount: 2, HighCount: 1},
			want:     directionWorsened,
		},
		{
			name:     "critical resolved despite new info",
			previous: ValidationMetadata{CriticalCount: 1},
			current:  ValidationMetadata{InfoCount: 5},
			want:     directionImproved,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := calculateChange(tt.previous, tt.current).Direction; got != tt.want {
				t.Errorf("direction = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormatRiskSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		summary map[string]int
		want    string
	}{
		{name: "nil", summary: nil, want: "N/A"},
		{name: "empty", summary: map[string]int{"high": 0}, want: noFindingsMessage},
		{name: "mixed", summary: map[string]int{"high": 2, "info": 3}, want: "H:2 I:3"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatRiskSummary(tt.summary); got != tt.want {
				t.Errorf("formatRiskSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDelta(t *testing.T) {
	t.Parallel()

	for delta, want := range map[int]string{3: "+3", 0: "0", -2: "-2"} {
		if got := formatDelta(delta); got != want {
			t.Errorf("formatDelta(%d) = %q, want %q", delta, got, want)
		}
	}
}

// seedHistory stores two validations of path and returns the database
// directory and the id of the earlier one.
func seedHistory(t *testing.T, path string) (string, int64) {
	t.Helper()

	dbDir := t.TempDir()
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	previous := newComparisonReport(path, base, "aaa",
		finding(model.FindingOrderViolation, model.CategoryCruisePort))
	previous.Violations = []model.OrderViolation{{Category: model.CategoryCruisePort, Previous: model.CategoryGettingAround}}

	current := newComparisonReport(path, base.Add(time.Hour), "bbb",
		finding(model.FindingMissingSection, model.CategoryFAQ))
	current.Missing = []model.Category{model.CategoryFAQ}

	id, err := db.SaveReport(ctx, "run-1", previous)
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	if _, err := db.SaveReport(ctx, "run-2", current); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	return dbDir, id
}

func TestCompareCmd(t *testing.T) {
	t.Parallel()

	t.Run("text comparison", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "lisbon.html")
		dbDir, _ := seedHistory(t, path)

		out, err := executeRoot(t, "compare", "--db-dir", dbDir, path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Validation Comparison", "New Findings (1)", "Resolved Findings (1)", "Violations"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q:\n%s", want, out)
			}
		}
	})

	t.Run("json comparison with id", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "lisbon.html")
		dbDir, id := seedHistory(t, path)

		out, err := executeRoot(t, "compare", "--db-dir", dbDir, "--json", "--with-id", strconv.FormatInt(id, 10), path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var result ComparisonResult
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("failed to decode comparison: %v", err)
		}
		if result.Previous.Violations != 1 || result.Current.Missing != 1 {
			t.Errorf("previous = %+v, current = %+v", result.Previous, result.Current)
		}
		if result.Change.ViolationsDelta != -1 {
			t.Errorf("violations delta = %d", result.Change.ViolationsDelta)
		}
	})

	t.Run("list history", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "lisbon.html")
		dbDir, _ := seedHistory(t, path)

		out, err := executeRoot(t, "compare", "--db-dir", dbDir, "--list", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "2 validations") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("list paths", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "lisbon.html")
		dbDir, _ := seedHistory(t, path)

		out, err := executeRoot(t, "compare", "--db-dir", dbDir, "--list-paths")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, path) {
			t.Errorf("expected %s in output:\n%s", path, out)
		}
	})

	t.Run("requires a path", func(t *testing.T) {
		t.Parallel()

		_, err := executeRoot(t, "compare", "--db-dir", t.TempDir())
		if err == nil || !strings.Contains(err.Error(), "path is required") {
			t.Errorf("expected missing path error, got %v", err)
		}
	})

	t.Run("requires two validations", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		path := filepath.Join(t.TempDir(), "once.html")

		db, err := database.Open(dbDir, database.DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		_, err = db.SaveReport(context.Background(), "run", newComparisonReport(path, time.Now(), "x"))
		db.Close()
		if err != nil {
			t.Fatal(err)
		}

		_, err = executeRoot(t, "compare", "--db-dir", dbDir, path)
		if err == nil || !strings.Contains(err.Error(), "at least 2") {
			t.Errorf("expected comparison error, got %v", err)
		}
	})
}
