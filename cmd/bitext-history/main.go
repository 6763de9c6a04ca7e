package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/cognicore/bitext/pkg/bitext/store"
	"github.com/cognicore/bitext/pkg/bitext/store/sqlite"
)

func main() {
	_ = godotenv.Load()

	var (
		dbPath = flag.String("db", os.Getenv("BITEXT_DB"), "Run history database (required)")
		limit  = flag.Int("limit", 20, "Number of runs to list")
		runID  = flag.String("run", "", "Show the stages of one run")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}

	ctx := context.Background()
	st, err := sqlite.OpenSQLite(ctx, *dbPath)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}
	defer st.Close()

	if *runID != "" {
		if err := showRun(ctx, st, *runID); err != nil {
			log.Fatal(err)
		}
		return
	}

	runs, err := st.ListRuns(ctx, *limit)
	if err != nil {
		log.Fatal("Failed to list runs: ", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return
	}
	for _, r := range runs {
		fmt.Printf("%s  %-9s %8d -> %-8d %s  %s | %s\n",
			r.ID, r.Status, r.Input, r.Output,
			r.StartedAt.Local().Format(time.DateTime), r.SourcePath, r.TargetPath)
	}
}

func showRun(ctx context.Context, st store.Store, id string) error {
	r, err := st.GetRun(ctx, id)
	if err != nil {
		return err
	}
	stages, err := st.StageReports(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s (%s)\n", r.ID, r.Status)
	fmt.Printf("  source: %s\n  target: %s\n", r.SourcePath, r.TargetPath)
	if r.ConfigPath != "" {
		fmt.Printf("  config: %s\n", r.ConfigPath)
	}
	if !r.FinishedAt.IsZero() {
		fmt.Printf("  took:   %s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	}
	if r.Error != "" {
		fmt.Printf("  error:  %s\n", r.Error)
	}
	for _, s := range stages {
		fmt.Printf("  %2d %-22s %-6s %8d -> %-8d %s\n", s.Position, s.Name, s.Kind, s.In, s.Out, s.Duration)
	}
	return nil
}
