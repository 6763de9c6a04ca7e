package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/bitext/internal/bitexterr"
	"github.com/cognicore/bitext/pkg/bitext/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bitexterr.ErrStoreUnavailable, err)
	}
	// Pragmas are per connection
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", bitexterr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	source_path TEXT,
	target_path TEXT,
	config_path TEXT,
	started_at TEXT NOT NULL,
	finished_at TEXT,
	status TEXT NOT NULL,
	input INTEGER NOT NULL DEFAULT 0,
	output INTEGER NOT NULL DEFAULT 0,
	error TEXT
);

CREATE TABLE IF NOT EXISTS stage_reports (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	kind TEXT NOT NULL,
	input INTEGER NOT NULL,
	output INTEGER NOT NULL,
	duration_ns INTEGER NOT NULL,
	PRIMARY KEY(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// CreateRun records the start of a run
func (s *sqliteStore) CreateRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return errors.New("sqlite: run ID is required")
	}
	if r.Status == "" {
		r.Status = store.StatusRunning
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, source_path, target_path, config_path, started_at, status, input)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.SourcePath,
		r.TargetPath,
		r.ConfigPath,
		formatTime(r.StartedAt),
		string(r.Status),
		r.Input,
	)
	return err
}

// FinishRun stores the outcome of a run
func (s *sqliteStore) FinishRun(ctx context.Context, id string, res store.Result) error {
	out, err := s.db.ExecContext(ctx, `
UPDATE runs SET status=?, input=?, output=?, error=?, finished_at=?
WHERE id=?`,
		string(res.Status),
		res.Input,
		res.Output,
		res.Error,
		formatTime(res.FinishedAt),
		id,
	)
	if err != nil {
		return err
	}
	n, err := out.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", id, bitexterr.ErrNotFound)
	}
	return nil
}

// GetRun loads a run by ID
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, source_path, target_path, config_path, started_at, finished_at, status, input, output, error
FROM runs WHERE id=?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, bitexterr.ErrNotFound)
	}
	return r, err
}

// ListRuns returns the most recent runs first
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, source_path, target_path, config_path, started_at, finished_at, status, input, output, error
FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// AddStageReport appends a stage outcome to a run
func (s *sqliteStore) AddStageReport(ctx context.Context, runID string, sr store.StageReport) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO stage_reports (run_id, position, name, kind, input, output, duration_ns)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(run_id, position) DO UPDATE SET
	name=excluded.name,
	kind=excluded.kind,
	input=excluded.input,
	output=excluded.output,
	duration_ns=excluded.duration_ns`,
		runID,
		sr.Position,
		sr.Name,
		sr.Kind,
		sr.In,
		sr.Out,
		sr.Duration.Nanoseconds(),
	)
	return err
}

// StageReports lists the stages of a run in execution order
func (s *sqliteStore) StageReports(ctx context.Context, runID string) ([]store.StageReport, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT position, name, kind, input, output, duration_ns
FROM stage_reports WHERE run_id=? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.StageReport
	for rows.Next() {
		var sr store.StageReport
		var ns int64
		if err := rows.Scan(&sr.Position, &sr.Name, &sr.Kind, &sr.In, &sr.Out, &ns); err != nil {
			return nil, err
		}
		sr.Duration = time.Duration(ns)
		out = append(out, sr)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (store.Run, error) {
	var (
		r                            store.Run
		srcPath, trgPath, cfgPath    sql.NullString
		started, finished, errString sql.NullString
		status                       string
	)
	if err := sc.Scan(&r.ID, &srcPath, &trgPath, &cfgPath, &started, &finished, &status, &r.Input, &r.Output, &errString); err != nil {
		return store.Run{}, err
	}
	r.SourcePath = srcPath.String
	r.TargetPath = trgPath.String
	r.ConfigPath = cfgPath.String
	r.Status = store.Status(status)
	r.Error = errString.String
	r.StartedAt = parseTime(started.String)
	r.FinishedAt = parseTime(finished.String)
	return r, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
