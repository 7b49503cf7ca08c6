package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sectioncheck/internal/model"
)

// FileName is the name of the history database file inside the data directory.
const FileName = "sectioncheck.db"

// timestampLayout is fixed-width so that stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// DefaultDir returns the default history directory ($XDG_DATA_HOME/sectioncheck).
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "sectioncheck")
}

// HistoryDB stores validation reports in SQLite.
// A single connection is used; SQLite serialises writers anyway.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (h *HistoryDB) createTables() error {
	schema := `
	-- One row per validated document per run
	CREATE TABLE IF NOT EXISTS validations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		path TEXT NOT NULL,
		standard TEXT,
		content_hash TEXT,
		timestamp TEXT NOT NULL,
		violations INTEGER DEFAULT 0,
		missing INTEGER DEFAULT 0,
		report_json TEXT NOT NULL,
		risk_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_validations_path ON validations(path);
	CREATE INDEX IF NOT EXISTS idx_validations_run ON validations(run_id);
	CREATE INDEX IF NOT EXISTS idx_validations_timestamp ON validations(timestamp);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport stores a report under the given run id and returns its row id.
func (h *HistoryDB) SaveReport(ctx context.Context, runID string, report *model.Report) (int64, error) {
	if report == nil {
		return 0, errors.New("report is nil")
	}

	summary := model.EnsureSummary(report)

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}
	riskJSON, _ := json.Marshal(summary.RiskCounts()) //nolint:errcheck,errchkjson // map[string]int always marshals

	query := `
	INSERT INTO validations (run_id, path, standard, content_hash, timestamp, violations, missing, report_json, risk_summary)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := h.db.ExecContext(ctx, query,
		runID,
		report.Path,
		report.Standard,
		report.ContentHash,
		report.DateValidated.UTC().Format(timestampLayout),
		len(report.Violations),
		len(report.Missing),
		string(reportJSON),
		string(riskJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save report: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read report id: %w", err)
	}
	return id, nil
}

// GetLatestReport retrieves the most recent report for a path.
// It returns nil, nil when the path has never been validated.
func (h *HistoryDB) GetLatestReport(ctx context.Context, path string) (*model.Report, error) {
	query := `
	SELECT report_json FROM validations
	WHERE path = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var reportJSON string
	err := h.db.QueryRowContext(ctx, query, path).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return decodeReport(reportJSON)
}

// LatestHash returns the content hash stored with the most recent report
// for path. The boolean is false when the path has no history.
func (h *HistoryDB) LatestHash(ctx context.Context, path string) (string, bool, error) {
	query := `
	SELECT content_hash FROM validations
	WHERE path = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var hash sql.NullString
	err := h.db.QueryRowContext(ctx, query, path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get content hash: %w", err)
	}
	return hash.String, true, nil
}

// ListValidatedPaths returns every path that has at least one stored report.
func (h *HistoryDB) ListValidatedPaths(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT path FROM validations
	ORDER BY path
	`

	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan path: %w", err)
		}
		paths = append(paths, p)
	}

	return paths, rows.Err()
}

// GetHistory retrieves all reports for a path, newest first.
func (h *HistoryDB) GetHistory(ctx context.Context, path string) ([]*model.Report, error) {
	query := `
	SELECT report_json FROM validations
	WHERE path = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := h.db.QueryContext(ctx, query, path)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var reports []*model.Report
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		report, err := decodeReport(reportJSON)
		if err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

// ReportMetadata is a history row without the full report body.
type ReportMetadata struct {
	// ID is the database row id, usable with GetReportByID.
	ID int64

	// RunID groups the reports written by one invocation.
	RunID string

	// Path is the validated document.
	Path string

	// Standard is the "name@version" of the standard used.
	Standard string

	// ContentHash is the document fingerprint at validation time.
	ContentHash string

	// Timestamp is when the validation ran.
	Timestamp time.Time

	// Violations and Missing are the structural counts.
	Violations int
	Missing    int

	// RiskSummary contains counts of findings by severity level.
	RiskSummary map[string]int
}

// GetHistoryWithMetadata retrieves report metadata for a path, newest first.
func (h *HistoryDB) GetHistoryWithMetadata(ctx context.Context, path string) ([]ReportMetadata, error) {
	query := `
	SELECT id, run_id, path, standard, content_hash, timestamp, violations, missing, risk_summary
	FROM validations
	WHERE path = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := h.db.QueryContext(ctx, query, path)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []ReportMetadata
	for rows.Next() {
		var (
			meta      ReportMetadata
			standard  sql.NullString
			hash      sql.NullString
			timestamp string
			riskJSON  sql.NullString
		)

		if err := rows.Scan(&meta.ID, &meta.RunID, &meta.Path, &standard, &hash,
			&timestamp, &meta.Violations, &meta.Missing, &riskJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Standard = standard.String
		meta.ContentHash = hash.String
		meta.Timestamp = parseTimestamp(timestamp)

		meta.RiskSummary = make(map[string]int)
		if riskJSON.Valid && riskJSON.String != "" {
			if err := json.Unmarshal([]byte(riskJSON.String), &meta.RiskSummary); err != nil {
				meta.RiskSummary = make(map[string]int)
			}
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetReportByID retrieves a report by its row id.
// It returns nil, nil when no such row exists.
func (h *HistoryDB) GetReportByID(ctx context.Context, id int64) (*model.Report, error) {
	query := `
	SELECT report_json FROM validations
	WHERE id = ?
	`

	var reportJSON string
	err := h.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return decodeReport(reportJSON)
}

func decodeReport(s string) (*model.Report, error) {
	var report model.Report
	if err := json.Unmarshal([]byte(s), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	if report.ErrorMessage != "" {
		report.Error = errors.New(report.ErrorMessage)
	}
	return &report, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// More specific formats come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each known format and returns the zero time if none match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
