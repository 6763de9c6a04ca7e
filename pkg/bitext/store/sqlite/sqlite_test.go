package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/bitext/internal/bitexterr"
	"github.com/cognicore/bitext/pkg/bitext/store"
)

// TestSchemaCreationIdempotent tests that running initSchema multiple times is safe
func TestSchemaCreationIdempotent(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Open database: %v", err)
	}
	defer db.Close()

	for i := 0; i < 3; i++ {
		if err := initSchema(ctx, db); err != nil {
			t.Fatalf("initSchema iteration %d: %v", i, err)
		}
	}

	var count int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&count)
	if err != nil {
		t.Fatalf("Count tables: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 tables, got %d", count)
	}
}

// TestRunPersistsAcrossReopen records a run, closes the database and reads it back
func TestRunPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	id := store.NewIDs().New()
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := st.CreateRun(ctx, store.Run{ID: id, SourcePath: "c.de", TargetPath: "c.en", ConfigPath: "p.yaml", StartedAt: started, Input: 100}); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	reports := []store.StageReport{
		{Position: 0, Name: "whitespace_cleaner", Kind: "clean", In: 100, Out: 100, Duration: time.Millisecond},
		{Position: 1, Name: "pair_dedup", Kind: "dedup", In: 100, Out: 80, Duration: 3 * time.Millisecond},
	}
	for _, sr := range reports {
		if err := st.AddStageReport(ctx, id, sr); err != nil {
			t.Fatalf("AddStageReport: %v", err)
		}
	}
	if err := st.FinishRun(ctx, id, store.Result{Status: store.StatusSucceeded, Input: 100, Output: 80, FinishedAt: started.Add(time.Second)}); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	st.Close()

	st2, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	defer st2.Close()

	run, err := st2.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != store.StatusSucceeded || run.Input != 100 || run.Output != 80 {
		t.Errorf("run = %+v", run)
	}
	if run.ConfigPath != "p.yaml" {
		t.Errorf("ConfigPath = %q", run.ConfigPath)
	}
	if !run.StartedAt.Equal(started) || !run.FinishedAt.Equal(started.Add(time.Second)) {
		t.Errorf("times = %v / %v", run.StartedAt, run.FinishedAt)
	}

	got, err := st2.StageReports(ctx, id)
	if err != nil {
		t.Fatalf("StageReports: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d stage reports, want 2", len(got))
	}
	if got[1] != reports[1] {
		t.Errorf("stage report = %+v, want %+v", got[1], reports[1])
	}
}

func TestGetRunNotFound(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	if _, err := st.GetRun(ctx, "missing"); !errors.Is(err, bitexterr.ErrNotFound) {
		t.Errorf("GetRun err = %v, want ErrNotFound", err)
	}
	if err := st.FinishRun(ctx, "missing", store.Result{Status: store.StatusFailed}); !errors.Is(err, bitexterr.ErrNotFound) {
		t.Errorf("FinishRun err = %v, want ErrNotFound", err)
	}
}

func TestStageReportRequiresRun(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	if err := st.AddStageReport(ctx, "orphan", store.StageReport{Name: "x", Kind: "clean"}); err == nil {
		t.Error("stage report for an unknown run should violate the foreign key")
	}
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	ids := store.NewIDs()
	var last string
	for i := 0; i < 4; i++ {
		last = ids.New()
		if err := st.CreateRun(ctx, store.Run{ID: last, StartedAt: time.Now()}); err != nil {
			t.Fatalf("CreateRun: %v", err)
		}
	}

	runs, err := st.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != last {
		t.Errorf("newest run = %s, want %s", runs[0].ID, last)
	}
	if runs[0].Status != store.StatusRunning || !runs[0].FinishedAt.IsZero() {
		t.Errorf("unfinished run = %+v", runs[0])
	}
}
