package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/sectioncheck/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func newTestReport(path, hash string, at time.Time) *model.Report {
	r := model.NewReport(path)
	r.DateValidated = at
	r.ContentHash = hash
	r.Standard = "port-page@2025.2"
	r.Title = "Lisbon"
	r.Missing = []model.Category{model.CategoryFAQ}
	r.Violations = []model.OrderViolation{{
		Category: model.CategoryHistory,
		Previous: model.CategoryCultural,
		Position: 3,
	}}
	r.AddFinding(model.NewFinding(model.FindingOrderViolation, "History out of order", ""))
	return r
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("Path() = %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "missing")
		_, err := Open(dbDir, Options{CreateIfNotExists: false})
		if err == nil {
			t.Fatal("expected error for missing database")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		_ = db.Close()

		db, err = Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		_ = db.Close()
	})
}

func TestHistoryDB_SaveAndGetLatest(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, err := db.SaveReport(ctx, "run-1", newTestReport("ports/lisbon.html", "aaa", base)); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	newer := newTestReport("ports/lisbon.html", "bbb", base.Add(500*time.Millisecond))
	newer.Violations = nil
	id, err := db.SaveReport(ctx, "run-2", newer)
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero row id")
	}

	latest, err := db.GetLatestReport(ctx, "ports/lisbon.html")
	if err != nil {
		t.Fatalf("GetLatestReport() error = %v", err)
	}
	if latest == nil {
		t.Fatal("expected a report")
	}
	if latest.ContentHash != "bbb" {
		t.Errorf("latest hash = %q, want bbb", latest.ContentHash)
	}
	if len(latest.Violations) != 0 {
		t.Errorf("latest violations = %v, want none", latest.Violations)
	}
	if len(latest.Missing) != 1 || latest.Missing[0] != model.CategoryFAQ {
		t.Errorf("latest missing = %v", latest.Missing)
	}
	if latest.Summary == nil || latest.Summary.HighCount != 1 {
		t.Errorf("summary not stored: %+v", latest.Summary)
	}
}

func TestHistoryDB_GetLatestReport_NotFound(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	report, err := db.GetLatestReport(context.Background(), "nope.html")
	if err != nil {
		t.Fatalf("GetLatestReport() error = %v", err)
	}
	if report != nil {
		t.Errorf("expected nil report, got %+v", report)
	}
}

func TestHistoryDB_LatestHash(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	if _, ok, err := db.LatestHash(ctx, "a.html"); err != nil || ok {
		t.Fatalf("LatestHash() on empty db = ok %v, err %v", ok, err)
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, h := range []string{"h1", "h2", "h3"} {
		r := newTestReport("a.html", h, base.Add(time.Duration(i)*time.Second))
		if _, err := db.SaveReport(ctx, "run", r); err != nil {
			t.Fatalf("SaveReport() error = %v", err)
		}
	}

	hash, ok, err := db.LatestHash(ctx, "a.html")
	if err != nil {
		t.Fatalf("LatestHash() error = %v", err)
	}
	if !ok || hash != "h3" {
		t.Errorf("LatestHash() = %q, %v; want h3, true", hash, ok)
	}
}

func TestHistoryDB_History(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		r := newTestReport("b.html", "h", base.Add(time.Duration(i)*time.Minute))
		if _, err := db.SaveReport(ctx, "run", r); err != nil {
			t.Fatalf("SaveReport() error = %v", err)
		}
	}
	if _, err := db.SaveReport(ctx, "run", newTestReport("a.html", "h", base)); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	t.Run("GetHistory newest first", func(t *testing.T) {
		t.Parallel()

		reports, err := db.GetHistory(ctx, "b.html")
		if err != nil {
			t.Fatalf("GetHistory() error = %v", err)
		}
		if len(reports) != 3 {
			t.Fatalf("got %d reports, want 3", len(reports))
		}
		if !reports[0].DateValidated.After(reports[2].DateValidated) {
			t.Error("history is not ordered newest first")
		}
	})

	t.Run("GetHistoryWithMetadata", func(t *testing.T) {
		t.Parallel()

		metas, err := db.GetHistoryWithMetadata(ctx, "b.html")
		if err != nil {
			t.Fatalf("GetHistoryWithMetadata() error = %v", err)
		}
		if len(metas) != 3 {
			t.Fatalf("got %d rows, want 3", len(metas))
		}
		m := metas[0]
		if m.RunID != "run" || m.Path != "b.html" || m.Standard != "port-page@2025.2" {
			t.Errorf("unexpected metadata: %+v", m)
		}
		if m.Violations != 1 || m.Missing != 1 {
			t.Errorf("counts = %d/%d, want 1/1", m.Violations, m.Missing)
		}
		if m.RiskSummary["high"] != 1 {
			t.Errorf("risk summary = %v", m.RiskSummary)
		}
		if !m.Timestamp.Equal(base.Add(2 * time.Minute)) {
			t.Errorf("timestamp = %v, want %v", m.Timestamp, base.Add(2*time.Minute))
		}

		report, err := db.GetReportByID(ctx, m.ID)
		if err != nil {
			t.Fatalf("GetReportByID() error = %v", err)
		}
		if report == nil || report.Path != "b.html" {
			t.Errorf("GetReportByID() = %+v", report)
		}
	})

	t.Run("GetReportByID missing", func(t *testing.T) {
		t.Parallel()

		report, err := db.GetReportByID(ctx, 9999)
		if err != nil {
			t.Fatalf("GetReportByID() error = %v", err)
		}
		if report != nil {
			t.Error("expected nil report")
		}
	})

	t.Run("ListValidatedPaths", func(t *testing.T) {
		t.Parallel()

		paths, err := db.ListValidatedPaths(ctx)
		if err != nil {
			t.Fatalf("ListValidatedPaths() error = %v", err)
		}
		if len(paths) != 2 || paths[0] != "a.html" || paths[1] != "b.html" {
			t.Errorf("ListValidatedPaths() = %v", paths)
		}
	})
}

func TestHistoryDB_SaveReport_ErrorMessage(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	r := model.NewReport("broken.html")
	r.ErrorMessage = "parse failed"
	if _, err := db.SaveReport(ctx, "run", r); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	got, err := db.GetLatestReport(ctx, "broken.html")
	if err != nil {
		t.Fatalf("GetLatestReport() error = %v", err)
	}
	if got.Error == nil || got.Error.Error() != "parse failed" {
		t.Errorf("Error = %v, want parse failed", got.Error)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{"fixed width nanoseconds", "2026-03-01T12:00:00.500000000Z", false},
		{"sqlite default", "2026-03-01 12:00:00", false},
		{"rfc3339", "2026-03-01T12:00:00+09:00", false},
		{"garbage", "yesterday", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := parseTimestamp(tt.input); got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q) = %v", tt.input, got)
			}
		})
	}
}
