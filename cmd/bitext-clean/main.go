package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cognicore/bitext/internal/logging"
	"github.com/cognicore/bitext/pkg/bitext"
	"github.com/cognicore/bitext/pkg/bitext/config"
	"github.com/cognicore/bitext/pkg/bitext/source"
	"github.com/cognicore/bitext/pkg/bitext/store"
	"github.com/cognicore/bitext/pkg/bitext/store/sqlite"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	var (
		srcPath    = flag.String("src", "", "Source side of the corpus (required)")
		trgPath    = flag.String("trg", "", "Target side of the corpus (required)")
		srcLang    = flag.String("src-lang", "", "Source language tag")
		trgLang    = flag.String("trg-lang", "", "Target language tag")
		configPath = flag.String("config", "", "Pipeline config (YAML); default pipeline when empty")
		outSrc     = flag.String("out-src", "", "Cleaned source output (default <src>.clean)")
		outTrg     = flag.String("out-trg", "", "Cleaned target output (default <trg>.clean)")
		workers    = flag.Int("workers", envInt("BITEXT_WORKERS", 0), "Worker count; 0 uses all CPUs")
		dbPath     = flag.String("db", os.Getenv("BITEXT_DB"), "Run history database (optional)")
		logLevel   = flag.String("log-level", "info", "Log level: debug, info, warn, error")
		dev        = flag.Bool("dev", false, "Human readable log output")
	)
	flag.Parse()

	if *srcPath == "" || *trgPath == "" {
		log.Fatal("--src and --trg required")
	}
	if *outSrc == "" {
		*outSrc = *srcPath + ".clean"
	}
	if *outTrg == "" {
		*outTrg = *trgPath + ".clean"
	}

	logger, done, err := logging.Install(*logLevel, *dev)
	if err != nil {
		log.Fatal("Failed to set up logging: ", err)
	}
	defer done()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg *config.Config
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatal("Failed to load config", zap.String("path", *configPath), zap.Error(err))
		}
	}

	var st store.Store
	if *dbPath != "" {
		st, err = sqlite.OpenSQLite(ctx, *dbPath)
		if err != nil {
			logger.Fatal("Failed to open database", zap.String("path", *dbPath), zap.Error(err))
		}
	}

	cleaner, err := bitext.New(bitext.Options{
		Config:     cfg,
		ConfigPath: *configPath,
		Store:      st,
		Logger:     logger,
		Workers:    *workers,
	})
	if err != nil {
		if st != nil {
			st.Close()
		}
		logger.Fatal("Invalid pipeline", zap.Error(err))
	}
	defer cleaner.Close()

	res, err := cleaner.CleanFiles(ctx, source.Options{
		SourcePath: *srcPath,
		TargetPath: *trgPath,
		SourceLang: *srcLang,
		TargetLang: *trgLang,
	}, *outSrc, *outTrg)
	if err != nil {
		logger.Error("Run failed", zap.String("run_id", res.RunID), zap.Error(err))
		cleaner.Close()
		done()
		os.Exit(1)
	}

	fmt.Printf("Kept %d of %d pairs in %s\n", res.Report.Output, res.Report.Input, res.Report.Duration)
	for _, s := range res.Report.Stages {
		fmt.Printf("  %-22s %-6s %8d -> %-8d (-%d)\n", s.Name, s.Kind, s.In, s.Out, s.Dropped())
	}
	if res.RunID != "" {
		fmt.Printf("Run %s recorded in %s\n", res.RunID, *dbPath)
	}
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("ignoring %s=%q: %v", key, v, err)
		return def
	}
	return n
}
